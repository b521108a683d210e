package commands

import (
	"errors"

	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/pkg/guard"
)

var (
	ErrDeactivateVehicleCommandIsNotConstructed = errors.New(
		"DeactivateVehicleCommand must be created via NewDeactivateVehicleCommand constructor",
	)
)

// DeactivateVehicleCommand represents a request to retire a vehicle from
// the active fleet. Retirement is a soft delete: the record stays, queries
// and dispatch skip it.
type DeactivateVehicleCommand struct { //nolint:recvcheck //using for validation
	principal kernel.Principal
	vehicleID kernel.UUID

	guard guard.ConstructorGuard
}

// NewDeactivateVehicleCommand creates a command to retire a vehicle.
// Validates the principal and vehicle identifier.
// Returns an error if any validation fails.
func NewDeactivateVehicleCommand(
	principal kernel.Principal,
	vehicleID kernel.UUID,
) (DeactivateVehicleCommand, error) {
	cmd := DeactivateVehicleCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setPrincipal(principal),
		cmd.setVehicleID(vehicleID),
	); err != nil {
		return DeactivateVehicleCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrDeactivateVehicleCommandIsNotConstructed if validation fails.
func (c DeactivateVehicleCommand) Validate() error {
	return c.guard.Validate(ErrDeactivateVehicleCommandIsNotConstructed)
}

// Principal returns the caller retiring the vehicle.
func (c DeactivateVehicleCommand) Principal() kernel.Principal {
	return c.principal
}

// VehicleID returns the identifier of the vehicle to retire.
func (c DeactivateVehicleCommand) VehicleID() kernel.UUID {
	return c.vehicleID
}

func (c *DeactivateVehicleCommand) setPrincipal(principal kernel.Principal) error {
	if err := principal.Validate(); err != nil {
		return err
	}

	c.principal = principal
	return nil
}

func (c *DeactivateVehicleCommand) setVehicleID(vehicleID kernel.UUID) error {
	if err := vehicleID.Validate(); err != nil {
		return err
	}

	c.vehicleID = vehicleID
	return nil
}
