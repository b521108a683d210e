package commands

import (
	"errors"
	"time"

	"fleet/internal/core/domain/model/delivery"
	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/pkg/errs"
	"fleet/internal/pkg/guard"
)

var (
	ErrCreateDeliveryCommandIsNotConstructed = errors.New(
		"CreateDeliveryCommand must be created via NewCreateDeliveryCommand constructor",
	)
)

// CreateDeliveryCommand represents a request to dispatch a new delivery.
// Carries the shipment details, the route, the recipient and the candidate
// vehicle the delivery should be bound to. The driver binding is taken from
// the vehicle at handling time.
type CreateDeliveryCommand struct { //nolint:recvcheck //using for validation
	principal             kernel.Principal
	deliveryID            kernel.UUID
	trackingNumber        string
	priority              delivery.Priority
	pickup                delivery.Waypoint
	dropoff               delivery.Waypoint
	customer              delivery.Customer
	vehicleID             kernel.UUID
	estimatedPickupTime   time.Time
	estimatedDeliveryTime time.Time
	notes                 string

	guard guard.ConstructorGuard
}

// NewCreateDeliveryCommand creates a command to dispatch a new delivery.
// Validates the principal, identifiers, route, recipient and schedule.
// Returns an error if any validation fails.
func NewCreateDeliveryCommand(
	principal kernel.Principal,
	deliveryID kernel.UUID,
	trackingNumber string,
	priority delivery.Priority,
	pickup delivery.Waypoint,
	dropoff delivery.Waypoint,
	customer delivery.Customer,
	vehicleID kernel.UUID,
	estimatedPickupTime time.Time,
	estimatedDeliveryTime time.Time,
	notes string,
) (CreateDeliveryCommand, error) {
	cmd := CreateDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setPrincipal(principal),
		cmd.setDeliveryID(deliveryID),
		cmd.setTrackingNumber(trackingNumber),
		cmd.setPriority(priority),
		cmd.setPickup(pickup),
		cmd.setDropoff(dropoff),
		cmd.setCustomer(customer),
		cmd.setVehicleID(vehicleID),
		cmd.setEstimatedTimes(estimatedPickupTime, estimatedDeliveryTime),
	); err != nil {
		return CreateDeliveryCommand{}, err
	}

	cmd.notes = notes
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateDeliveryCommandIsNotConstructed if validation fails.
func (c CreateDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCreateDeliveryCommandIsNotConstructed)
}

// Principal returns the caller dispatching the delivery.
func (c CreateDeliveryCommand) Principal() kernel.Principal {
	return c.principal
}

// DeliveryID returns the unique identifier for the delivery.
func (c CreateDeliveryCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// TrackingNumber returns the externally visible identifier.
func (c CreateDeliveryCommand) TrackingNumber() string {
	return c.trackingNumber
}

// Priority returns the urgency of the delivery.
func (c CreateDeliveryCommand) Priority() delivery.Priority {
	return c.priority
}

// Pickup returns the collection waypoint.
func (c CreateDeliveryCommand) Pickup() delivery.Waypoint {
	return c.pickup
}

// Dropoff returns the destination waypoint.
func (c CreateDeliveryCommand) Dropoff() delivery.Waypoint {
	return c.dropoff
}

// Customer returns the recipient of the delivery.
func (c CreateDeliveryCommand) Customer() delivery.Customer {
	return c.customer
}

// VehicleID returns the candidate vehicle the delivery binds to.
func (c CreateDeliveryCommand) VehicleID() kernel.UUID {
	return c.vehicleID
}

// EstimatedPickupTime returns the planned collection time.
func (c CreateDeliveryCommand) EstimatedPickupTime() time.Time {
	return c.estimatedPickupTime
}

// EstimatedDeliveryTime returns the planned arrival time.
func (c CreateDeliveryCommand) EstimatedDeliveryTime() time.Time {
	return c.estimatedDeliveryTime
}

// Notes returns the optional dispatcher commentary.
func (c CreateDeliveryCommand) Notes() string {
	return c.notes
}

func (c *CreateDeliveryCommand) setPrincipal(principal kernel.Principal) error {
	if err := principal.Validate(); err != nil {
		return err
	}

	c.principal = principal
	return nil
}

func (c *CreateDeliveryCommand) setDeliveryID(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}

	c.deliveryID = deliveryID
	return nil
}

func (c *CreateDeliveryCommand) setTrackingNumber(trackingNumber string) error {
	if trackingNumber == "" {
		return delivery.ErrTrackingNumberIsRequired
	}

	c.trackingNumber = trackingNumber
	return nil
}

func (c *CreateDeliveryCommand) setPriority(priority delivery.Priority) error {
	if err := priority.Validate(); err != nil {
		return err
	}

	c.priority = priority
	return nil
}

func (c *CreateDeliveryCommand) setPickup(pickup delivery.Waypoint) error {
	if err := pickup.Validate(); err != nil {
		return err
	}

	c.pickup = pickup
	return nil
}

func (c *CreateDeliveryCommand) setDropoff(dropoff delivery.Waypoint) error {
	if err := dropoff.Validate(); err != nil {
		return err
	}

	c.dropoff = dropoff
	return nil
}

func (c *CreateDeliveryCommand) setCustomer(customer delivery.Customer) error {
	if err := customer.Validate(); err != nil {
		return err
	}

	c.customer = customer
	return nil
}

func (c *CreateDeliveryCommand) setVehicleID(vehicleID kernel.UUID) error {
	if err := vehicleID.Validate(); err != nil {
		return err
	}

	c.vehicleID = vehicleID
	return nil
}

func (c *CreateDeliveryCommand) setEstimatedTimes(pickupTime, deliveryTime time.Time) error {
	if pickupTime.IsZero() {
		return errs.NewValueIsRequiredError("estimated pickup time")
	}
	if deliveryTime.IsZero() {
		return errs.NewValueIsRequiredError("estimated delivery time")
	}
	if deliveryTime.Before(pickupTime) {
		return errs.NewValueIsInvalidError("estimated delivery time precedes estimated pickup time")
	}

	c.estimatedPickupTime = pickupTime
	c.estimatedDeliveryTime = deliveryTime
	return nil
}
