package commands

import (
	"errors"

	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/model/vehicle"
	"fleet/internal/pkg/guard"
)

var (
	ErrCreateVehicleCommandIsNotConstructed = errors.New(
		"CreateVehicleCommand must be created via NewCreateVehicleCommand constructor",
	)
)

// CreateVehicleCommand represents a request to register a new fleet vehicle.
// Carries the vehicle's identity, classification, starting position and the
// driver operating it, plus the principal performing the registration.
type CreateVehicleCommand struct { //nolint:recvcheck //using for validation
	principal    kernel.Principal
	vehicleID    kernel.UUID
	externalCode string
	kind         vehicle.Kind
	capacity     int
	location     kernel.GeoPoint
	driverID     kernel.UUID

	guard guard.ConstructorGuard
}

// NewCreateVehicleCommand creates a command to register a new vehicle.
// Validates the principal, identifiers, kind, capacity and position.
// Returns an error if any validation fails.
func NewCreateVehicleCommand(
	principal kernel.Principal,
	vehicleID kernel.UUID,
	externalCode string,
	kind vehicle.Kind,
	capacity int,
	location kernel.GeoPoint,
	driverID kernel.UUID,
) (CreateVehicleCommand, error) {
	cmd := CreateVehicleCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setPrincipal(principal),
		cmd.setVehicleID(vehicleID),
		cmd.setExternalCode(externalCode),
		cmd.setKind(kind),
		cmd.setCapacity(capacity),
		cmd.setLocation(location),
		cmd.setDriverID(driverID),
	); err != nil {
		return CreateVehicleCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateVehicleCommandIsNotConstructed if validation fails.
func (c CreateVehicleCommand) Validate() error {
	return c.guard.Validate(ErrCreateVehicleCommandIsNotConstructed)
}

// Principal returns the caller performing the registration.
func (c CreateVehicleCommand) Principal() kernel.Principal {
	return c.principal
}

// VehicleID returns the unique identifier for the vehicle.
func (c CreateVehicleCommand) VehicleID() kernel.UUID {
	return c.vehicleID
}

// ExternalCode returns the human-facing fleet code.
func (c CreateVehicleCommand) ExternalCode() string {
	return c.externalCode
}

// Kind returns the vehicle body type.
func (c CreateVehicleCommand) Kind() vehicle.Kind {
	return c.kind
}

// Capacity returns the maximum load in kilograms.
func (c CreateVehicleCommand) Capacity() int {
	return c.capacity
}

// Location returns the vehicle's starting position.
func (c CreateVehicleCommand) Location() kernel.GeoPoint {
	return c.location
}

// DriverID returns the identifier of the operating driver.
func (c CreateVehicleCommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c *CreateVehicleCommand) setPrincipal(principal kernel.Principal) error {
	if err := principal.Validate(); err != nil {
		return err
	}

	c.principal = principal
	return nil
}

func (c *CreateVehicleCommand) setVehicleID(vehicleID kernel.UUID) error {
	if err := vehicleID.Validate(); err != nil {
		return err
	}

	c.vehicleID = vehicleID
	return nil
}

func (c *CreateVehicleCommand) setExternalCode(externalCode string) error {
	if externalCode == "" {
		return vehicle.ErrExternalCodeIsRequired
	}

	c.externalCode = externalCode
	return nil
}

func (c *CreateVehicleCommand) setKind(kind vehicle.Kind) error {
	if err := kind.Validate(); err != nil {
		return err
	}

	c.kind = kind
	return nil
}

func (c *CreateVehicleCommand) setCapacity(capacity int) error {
	if capacity <= 0 {
		return vehicle.ErrCapacityIsRequired
	}

	c.capacity = capacity
	return nil
}

func (c *CreateVehicleCommand) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}

	c.location = location
	return nil
}

func (c *CreateVehicleCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}
