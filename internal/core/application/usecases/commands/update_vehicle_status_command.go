package commands

import (
	"errors"

	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/model/vehicle"
	"fleet/internal/pkg/errs"
	"fleet/internal/pkg/guard"
)

var (
	ErrUpdateVehicleStatusCommandIsNotConstructed = errors.New(
		"UpdateVehicleStatusCommand must be created via NewUpdateVehicleStatusCommand constructor",
	)
)

// UpdateVehicleStatusCommand represents a driver- or dispatcher-initiated
// vehicle status change. The expected version is the caller's last-known
// vehicle version; it protects the change against concurrent writers.
type UpdateVehicleStatusCommand struct { //nolint:recvcheck //using for validation
	principal       kernel.Principal
	vehicleID       kernel.UUID
	target          vehicle.Status
	expectedVersion int64

	guard guard.ConstructorGuard
}

// NewUpdateVehicleStatusCommand creates a command to change a vehicle's status.
// Validates the principal, vehicle identifier, target status and expected
// version. Returns an error if any validation fails.
func NewUpdateVehicleStatusCommand(
	principal kernel.Principal,
	vehicleID kernel.UUID,
	target vehicle.Status,
	expectedVersion int64,
) (UpdateVehicleStatusCommand, error) {
	cmd := UpdateVehicleStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setPrincipal(principal),
		cmd.setVehicleID(vehicleID),
		cmd.setTarget(target),
		cmd.setExpectedVersion(expectedVersion),
	); err != nil {
		return UpdateVehicleStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrUpdateVehicleStatusCommandIsNotConstructed if validation fails.
func (c UpdateVehicleStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateVehicleStatusCommandIsNotConstructed)
}

// Principal returns the caller requesting the change.
func (c UpdateVehicleStatusCommand) Principal() kernel.Principal {
	return c.principal
}

// VehicleID returns the identifier of the vehicle to change.
func (c UpdateVehicleStatusCommand) VehicleID() kernel.UUID {
	return c.vehicleID
}

// Target returns the requested dispatch status.
func (c UpdateVehicleStatusCommand) Target() vehicle.Status {
	return c.target
}

// ExpectedVersion returns the caller's last-known vehicle version.
func (c UpdateVehicleStatusCommand) ExpectedVersion() int64 {
	return c.expectedVersion
}

func (c *UpdateVehicleStatusCommand) setPrincipal(principal kernel.Principal) error {
	if err := principal.Validate(); err != nil {
		return err
	}

	c.principal = principal
	return nil
}

func (c *UpdateVehicleStatusCommand) setVehicleID(vehicleID kernel.UUID) error {
	if err := vehicleID.Validate(); err != nil {
		return err
	}

	c.vehicleID = vehicleID
	return nil
}

func (c *UpdateVehicleStatusCommand) setTarget(target vehicle.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}

	c.target = target
	return nil
}

func (c *UpdateVehicleStatusCommand) setExpectedVersion(version int64) error {
	if version < 1 {
		return errs.NewValueIsInvalidError("expected version")
	}

	c.expectedVersion = version
	return nil
}
