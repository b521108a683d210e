package services

import (
	"time"

	"fleet/internal/core/domain/model/delivery"
	"fleet/internal/core/domain/model/vehicle"
	"fleet/internal/pkg/errs"
)

// AssignmentCoordinator is a domain service responsible for state changes
// whose effect spans both a Vehicle and a Delivery. Single-entity changes
// go through the aggregates directly; anything that must mutate the pair
// is routed here so both sides change together or not at all. Persisting
// the pair in one transaction is the unit of work's job; this service only
// produces a consistent in-memory pair.
//
// Key responsibilities:
//   - Binding a fresh delivery to an available vehicle
//   - Releasing a vehicle when its delivery reaches a terminal state
//
// Business rules:
//   - Only available active vehicles accept a delivery
//   - The delivery's driver binding must match the vehicle's driver
//   - A diverged vehicle (manually moved out of the dispatch lineage or
//     pointed at another delivery) is left untouched on completion; the
//     delivery still terminates
type AssignmentCoordinator struct{}

// NewAssignmentCoordinator creates a new AssignmentCoordinator instance.
func NewAssignmentCoordinator() AssignmentCoordinator {
	return AssignmentCoordinator{}
}

// Bind attaches a fresh delivery to its candidate vehicle.
//
// The delivery must be pending and its assigned vehicle and driver must
// name this vehicle and its driver. The vehicle must be active and
// available; otherwise the bind fails with a VehicleUnavailableError and
// neither aggregate changes.
//
// On success the vehicle holds the delivery as its current delivery and
// moves to the assigned status.
func (c AssignmentCoordinator) Bind(d *delivery.Delivery, v *vehicle.Vehicle, now time.Time) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if err := v.Validate(); err != nil {
		return err
	}

	if d.Status() != delivery.StatusPending {
		return errs.NewInvalidTransitionError("delivery status",
			d.Status().String(), delivery.StatusPending.String())
	}
	if !d.AssignedVehicleID().IsEqual(v.ID()) {
		return errs.NewValueIsInvalidError("assigned vehicle id")
	}
	if !d.AssignedDriverID().IsEqual(v.DriverID()) {
		return errs.NewValueIsInvalidError("assigned driver id")
	}

	return v.AssignDelivery(d.ID(), now)
}

// Complete moves the delivery into a terminal state and releases its
// vehicle in the same unit.
//
// The target must be delivered or failed. The vehicle release is skipped
// when the vehicle has diverged since assignment: it no longer points at
// this delivery, or its status has left the dispatch lineage that a bound
// delivery implies. In that case the delivery transition still proceeds
// and released is false.
//
// Returns:
//   - released: whether the vehicle was returned to available
//   - err: InvalidTransitionError when the target is not terminal or the
//     delivery cannot reach it
func (c AssignmentCoordinator) Complete(
	d *delivery.Delivery,
	v *vehicle.Vehicle,
	target delivery.Status,
	now time.Time,
) (bool, error) {
	if err := d.Validate(); err != nil {
		return false, err
	}
	if err := v.Validate(); err != nil {
		return false, err
	}

	if !target.IsTerminal() {
		return false, errs.NewInvalidTransitionError("delivery status",
			d.Status().String(), target.String())
	}

	if err := d.TransitionTo(target, now); err != nil {
		return false, err
	}

	if !c.vehicleHoldsDelivery(d, v) {
		return false, nil
	}

	if err := v.Release(now); err != nil {
		return false, err
	}
	return true, nil
}

// vehicleHoldsDelivery reports whether the vehicle still carries this
// delivery in a releasable status.
func (c AssignmentCoordinator) vehicleHoldsDelivery(d *delivery.Delivery, v *vehicle.Vehicle) bool {
	current := v.CurrentDeliveryID()
	if current == nil || !current.IsEqual(d.ID()) {
		return false
	}
	return v.Status().RequiresDelivery()
}
