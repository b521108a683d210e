package vehicle

import (
	"fmt"

	"fleet/internal/pkg/errs"
)

// Status represents the operational state of a vehicle.
// It implements a state machine with defined transitions that mirror the
// delivery run of a vehicle through the dispatch cycle.
//
// State transitions:
//
//	Available ──> Assigned ──> EnRoute ──> Delivering ──> Returning ──┐
//	    ^                                                             │
//	    └─────────────────────────────────────────────────────────────┘
//
// Each manual transition advances exactly one step around the cycle.
// Releasing a vehicle after its delivery reaches a terminal state is a
// separate operation on the aggregate and is not part of this machine.
//
// Status is a value object that validates state transitions
// and provides string representations for persistence and display.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// StatusAvailable indicates the vehicle is idle and may accept a delivery.
	StatusAvailable

	// StatusAssigned indicates a delivery has been bound to the vehicle
	// but the driver has not yet departed.
	StatusAssigned

	// StatusEnRoute indicates the vehicle is travelling to the pickup point.
	StatusEnRoute

	// StatusDelivering indicates the vehicle is carrying the shipment
	// to the dropoff point.
	StatusDelivering

	// StatusReturning indicates the vehicle is heading back after a delivery.
	StatusReturning
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:    "unknown",
		StatusAvailable:  "available",
		StatusAssigned:   "assigned",
		StatusEnRoute:    "en-route",
		StatusDelivering: "delivering",
		StatusReturning:  "returning",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // StatusUnknown is intentionally excluded as it's invalid
	return map[Status]string{
		StatusAvailable:  "available",
		StatusAssigned:   "assigned",
		StatusEnRoute:    "en-route",
		StatusDelivering: "delivering",
		StatusReturning:  "returning",
	}
}

// StatusFromString parses a status name as carried on the wire and in storage.
//
// Valid names are "available", "assigned", "en-route", "delivering" and
// "returning". Any other value results in a ValueIsInvalidError.
func StatusFromString(value string) (Status, error) {
	for status, name := range getValidStatusStrings() {
		if name == value {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("vehicle status",
		fmt.Errorf("%q is not a valid vehicle status", value))
}

// Validate checks if the Status value is valid.
//
// Valid statuses are: StatusAvailable, StatusAssigned, StatusEnRoute,
// StatusDelivering, StatusReturning. StatusUnknown (0) and any other
// values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("vehicle status",
			fmt.Errorf("%d is not a valid vehicle status", s))
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

// next returns the successor of each status in the dispatch cycle.
func (s Status) next() Status {
	switch s {
	case StatusAvailable:
		return StatusAssigned
	case StatusAssigned:
		return StatusEnRoute
	case StatusEnRoute:
		return StatusDelivering
	case StatusDelivering:
		return StatusReturning
	case StatusReturning:
		return StatusAvailable
	default:
		return StatusUnknown
	}
}

// CanTransitionTo reports whether a manual status change from s to target
// is allowed. The dispatch cycle advances exactly one step at a time, so
// the only valid target is the immediate successor of the current status.
func (s Status) CanTransitionTo(target Status) bool {
	if s.Validate() != nil || target.Validate() != nil {
		return false
	}
	return s.next() == target
}

// TransitionTo validates and performs a manual status change.
//
// Returns:
//   - (target, nil) when the transition is a single step around the cycle
//   - (0, InvalidTransitionError) otherwise
func (s Status) TransitionTo(target Status) (Status, error) {
	if !s.CanTransitionTo(target) {
		return 0, errs.NewInvalidTransitionError("vehicle status", s.String(), target.String())
	}
	return target, nil
}

// RequiresDelivery reports whether a vehicle in this status must have a
// delivery bound to it. Assigned, en-route and delivering vehicles carry
// an active delivery; available and returning vehicles must not.
func (s Status) RequiresDelivery() bool {
	return s == StatusAssigned || s == StatusEnRoute || s == StatusDelivering
}
