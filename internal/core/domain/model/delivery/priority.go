package delivery

import (
	"fmt"

	"fleet/internal/pkg/errs"
)

// Priority expresses the urgency of a delivery.
// It is a value object used for fleet planning and list ordering.
type Priority int

const (
	// PriorityUnknown represents an invalid or undefined priority.
	// This value (0) helps catch uninitialized Priority values.
	PriorityUnknown Priority = iota

	// PriorityLow marks deliveries with relaxed time expectations.
	PriorityLow

	// PriorityMedium is the default urgency of a delivery.
	PriorityMedium

	// PriorityHigh marks deliveries that should be fulfilled ahead of
	// the regular queue.
	PriorityHigh

	// PriorityUrgent marks deliveries with the tightest time expectations.
	PriorityUrgent
)

func getPriorityStrings() map[Priority]string {
	return map[Priority]string{
		PriorityUnknown: "unknown",
		PriorityLow:     "low",
		PriorityMedium:  "medium",
		PriorityHigh:    "high",
		PriorityUrgent:  "urgent",
	}
}

func getValidPriorityStrings() map[Priority]string {
	//nolint:exhaustive // PriorityUnknown is intentionally excluded as it's invalid
	return map[Priority]string{
		PriorityLow:    "low",
		PriorityMedium: "medium",
		PriorityHigh:   "high",
		PriorityUrgent: "urgent",
	}
}

// PriorityFromString parses a priority name as carried on the wire and in storage.
//
// Valid names are "low", "medium", "high" and "urgent". Any other value
// results in a ValueIsInvalidError.
func PriorityFromString(value string) (Priority, error) {
	for priority, name := range getValidPriorityStrings() {
		if name == value {
			return priority, nil
		}
	}
	return PriorityUnknown, errs.NewValueIsInvalidErrorWithCause("delivery priority",
		fmt.Errorf("%q is not a valid delivery priority", value))
}

// Validate checks if the Priority value is valid.
// Valid priorities are: PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent.
func (p Priority) Validate() error {
	if _, ok := getValidPriorityStrings()[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("delivery priority",
			fmt.Errorf("%d is not a valid delivery priority", p))
	}
	return nil
}

// String returns the lowercase name of the priority as used on the wire.
// This method implements the fmt.Stringer interface and is safe
// to call on any Priority value, including invalid ones.
func (p Priority) String() string {
	if str, ok := getPriorityStrings()[p]; ok {
		return str
	}
	return "unknown"
}
