package commands

import (
	"errors"

	"fleet/internal/core/domain/model/delivery"
	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/pkg/errs"
	"fleet/internal/pkg/guard"
)

var (
	ErrUpdateDeliveryStatusCommandIsNotConstructed = errors.New(
		"UpdateDeliveryStatusCommand must be created via NewUpdateDeliveryStatusCommand constructor",
	)
)

// UpdateDeliveryStatusCommand represents a request to move a delivery to a
// new lifecycle state. The expected version is the caller's last-known
// delivery version; it protects the change against concurrent writers.
type UpdateDeliveryStatusCommand struct { //nolint:recvcheck //using for validation
	principal       kernel.Principal
	deliveryID      kernel.UUID
	target          delivery.Status
	expectedVersion int64

	guard guard.ConstructorGuard
}

// NewUpdateDeliveryStatusCommand creates a command to change a delivery's status.
// Validates the principal, delivery identifier, target status and expected
// version. Returns an error if any validation fails.
func NewUpdateDeliveryStatusCommand(
	principal kernel.Principal,
	deliveryID kernel.UUID,
	target delivery.Status,
	expectedVersion int64,
) (UpdateDeliveryStatusCommand, error) {
	cmd := UpdateDeliveryStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setPrincipal(principal),
		cmd.setDeliveryID(deliveryID),
		cmd.setTarget(target),
		cmd.setExpectedVersion(expectedVersion),
	); err != nil {
		return UpdateDeliveryStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrUpdateDeliveryStatusCommandIsNotConstructed if validation fails.
func (c UpdateDeliveryStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateDeliveryStatusCommandIsNotConstructed)
}

// Principal returns the caller requesting the change.
func (c UpdateDeliveryStatusCommand) Principal() kernel.Principal {
	return c.principal
}

// DeliveryID returns the identifier of the delivery to change.
func (c UpdateDeliveryStatusCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// Target returns the requested lifecycle state.
func (c UpdateDeliveryStatusCommand) Target() delivery.Status {
	return c.target
}

// ExpectedVersion returns the caller's last-known delivery version.
func (c UpdateDeliveryStatusCommand) ExpectedVersion() int64 {
	return c.expectedVersion
}

func (c *UpdateDeliveryStatusCommand) setPrincipal(principal kernel.Principal) error {
	if err := principal.Validate(); err != nil {
		return err
	}

	c.principal = principal
	return nil
}

func (c *UpdateDeliveryStatusCommand) setDeliveryID(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}

	c.deliveryID = deliveryID
	return nil
}

func (c *UpdateDeliveryStatusCommand) setTarget(target delivery.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}

	c.target = target
	return nil
}

func (c *UpdateDeliveryStatusCommand) setExpectedVersion(version int64) error {
	if version < 1 {
		return errs.NewValueIsInvalidError("expected version")
	}

	c.expectedVersion = version
	return nil
}
