package delivery

import (
	"fmt"

	"fleet/internal/pkg/errs"
)

// Status represents the lifecycle state of a delivery.
// It implements a state machine with defined transitions to ensure
// deliveries follow the correct fulfillment workflow.
//
// State transitions:
//
//	Pending ──> PickedUp ──> InTransit ──> Delivered
//	   │            │            │
//	   └────────────┴────────────┴──> Failed
//
// Progress always moves forward along the chain; stages may be skipped
// (a driver can report a short hop as picked-up straight to delivered)
// but never revisited. Failed is reachable from every non-terminal state.
// Delivered and Failed are terminal with no further transitions.
//
// Status is a value object that validates state transitions
// and provides string representations for persistence and display.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// StatusPending is the initial status of a freshly dispatched delivery.
	// The shipment is bound to a vehicle but has not been collected yet.
	StatusPending

	// StatusPickedUp indicates the shipment has been collected at the
	// pickup point.
	StatusPickedUp

	// StatusInTransit indicates the shipment is on its way to the
	// dropoff point.
	StatusInTransit

	// StatusDelivered indicates the shipment reached its recipient.
	// This is a terminal state with no further transitions allowed.
	StatusDelivered

	// StatusFailed indicates the delivery was abandoned.
	// This is a terminal state with no further transitions allowed.
	StatusFailed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:   "unknown",
		StatusPending:   "pending",
		StatusPickedUp:  "picked-up",
		StatusInTransit: "in-transit",
		StatusDelivered: "delivered",
		StatusFailed:    "failed",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // StatusUnknown is intentionally excluded as it's invalid
	return map[Status]string{
		StatusPending:   "pending",
		StatusPickedUp:  "picked-up",
		StatusInTransit: "in-transit",
		StatusDelivered: "delivered",
		StatusFailed:    "failed",
	}
}

// getStatusRanks orders the forward chain. Failed carries no rank;
// it is handled separately as the universal failure edge.
func getStatusRanks() map[Status]int {
	//nolint:exhaustive // StatusFailed and StatusUnknown carry no rank
	return map[Status]int{
		StatusPending:   1,
		StatusPickedUp:  2,
		StatusInTransit: 3,
		StatusDelivered: 4,
	}
}

// StatusFromString parses a status name as carried on the wire and in storage.
//
// Valid names are "pending", "picked-up", "in-transit", "delivered" and
// "failed". Any other value results in a ValueIsInvalidError.
func StatusFromString(value string) (Status, error) {
	for status, name := range getValidStatusStrings() {
		if name == value {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("delivery status",
		fmt.Errorf("%q is not a valid delivery status", value))
}

// Validate checks if the Status value is valid.
//
// Valid statuses are: StatusPending, StatusPickedUp, StatusInTransit,
// StatusDelivered, StatusFailed. StatusUnknown (0) and any other values
// are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("delivery status",
			fmt.Errorf("%d is not a valid delivery status", s))
	}
	return nil
}

// String returns the lowercase name of the status as used on the wire.
//
// This method implements the fmt.Stringer interface and is safe
// to call on any Status value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status admits no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusFailed
}

// CanTransitionTo reports whether a status change from s to target is allowed.
//
// Rules:
//   - terminal states admit no transitions
//   - any non-terminal state may move to Failed
//   - otherwise the target's rank must be strictly greater than the
//     current rank (forward movement, skips allowed)
func (s Status) CanTransitionTo(target Status) bool {
	if s.Validate() != nil || target.Validate() != nil {
		return false
	}
	if s.IsTerminal() {
		return false
	}
	if target == StatusFailed {
		return true
	}

	ranks := getStatusRanks()
	return ranks[target] > ranks[s]
}

// TransitionTo validates and performs a status change.
//
// Returns:
//   - (target, nil) when the change is a valid forward move or failure
//   - (0, InvalidTransitionError) otherwise
func (s Status) TransitionTo(target Status) (Status, error) {
	if !s.CanTransitionTo(target) {
		return 0, errs.NewInvalidTransitionError("delivery status", s.String(), target.String())
	}
	return target, nil
}
