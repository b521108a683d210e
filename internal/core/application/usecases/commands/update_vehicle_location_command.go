package commands

import (
	"errors"

	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/pkg/guard"
)

var (
	ErrUpdateVehicleLocationCommandIsNotConstructed = errors.New(
		"UpdateVehicleLocationCommand must be created via NewUpdateVehicleLocationCommand constructor",
	)
)

// UpdateVehicleLocationCommand represents a vehicle position report.
//
// Position reports arrive at telemetry frequency and carry no expected
// version: concurrent reports race benignly, the row-level compare-and-swap
// keeps each commit consistent and the strictly increasing lastUpdated
// clock keeps their order observable.
type UpdateVehicleLocationCommand struct { //nolint:recvcheck //using for validation
	principal kernel.Principal
	vehicleID kernel.UUID
	location  kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewUpdateVehicleLocationCommand creates a command to report a vehicle position.
// Validates the principal, vehicle identifier and position.
// Returns an error if any validation fails.
func NewUpdateVehicleLocationCommand(
	principal kernel.Principal,
	vehicleID kernel.UUID,
	location kernel.GeoPoint,
) (UpdateVehicleLocationCommand, error) {
	cmd := UpdateVehicleLocationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setPrincipal(principal),
		cmd.setVehicleID(vehicleID),
		cmd.setLocation(location),
	); err != nil {
		return UpdateVehicleLocationCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrUpdateVehicleLocationCommandIsNotConstructed if validation fails.
func (c UpdateVehicleLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdateVehicleLocationCommandIsNotConstructed)
}

// Principal returns the caller reporting the position.
func (c UpdateVehicleLocationCommand) Principal() kernel.Principal {
	return c.principal
}

// VehicleID returns the identifier of the reporting vehicle.
func (c UpdateVehicleLocationCommand) VehicleID() kernel.UUID {
	return c.vehicleID
}

// Location returns the reported position.
func (c UpdateVehicleLocationCommand) Location() kernel.GeoPoint {
	return c.location
}

func (c *UpdateVehicleLocationCommand) setPrincipal(principal kernel.Principal) error {
	if err := principal.Validate(); err != nil {
		return err
	}

	c.principal = principal
	return nil
}

func (c *UpdateVehicleLocationCommand) setVehicleID(vehicleID kernel.UUID) error {
	if err := vehicleID.Validate(); err != nil {
		return err
	}

	c.vehicleID = vehicleID
	return nil
}

func (c *UpdateVehicleLocationCommand) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}

	c.location = location
	return nil
}
