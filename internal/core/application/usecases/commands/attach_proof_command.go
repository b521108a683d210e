package commands

import (
	"errors"

	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/pkg/errs"
	"fleet/internal/pkg/guard"
)

var (
	ErrAttachProofCommandIsNotConstructed = errors.New(
		"AttachProofCommand must be created via NewAttachProofCommand constructor",
	)
)

// AttachProofCommand represents a request to attach proof-of-delivery
// evidence to a delivered shipment.
type AttachProofCommand struct { //nolint:recvcheck //using for validation
	principal       kernel.Principal
	deliveryID      kernel.UUID
	photo           string
	signature       string
	expectedVersion int64

	guard guard.ConstructorGuard
}

// NewAttachProofCommand creates a command to attach proof evidence.
// Validates the principal, delivery identifier, evidence and expected
// version. Returns an error if any validation fails.
func NewAttachProofCommand(
	principal kernel.Principal,
	deliveryID kernel.UUID,
	photo string,
	signature string,
	expectedVersion int64,
) (AttachProofCommand, error) {
	cmd := AttachProofCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setPrincipal(principal),
		cmd.setDeliveryID(deliveryID),
		cmd.setPhoto(photo),
		cmd.setSignature(signature),
		cmd.setExpectedVersion(expectedVersion),
	); err != nil {
		return AttachProofCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAttachProofCommandIsNotConstructed if validation fails.
func (c AttachProofCommand) Validate() error {
	return c.guard.Validate(ErrAttachProofCommandIsNotConstructed)
}

// Principal returns the caller attaching the evidence.
func (c AttachProofCommand) Principal() kernel.Principal {
	return c.principal
}

// DeliveryID returns the identifier of the delivered shipment.
func (c AttachProofCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// Photo returns the photo evidence reference.
func (c AttachProofCommand) Photo() string {
	return c.photo
}

// Signature returns the recipient's signature data.
func (c AttachProofCommand) Signature() string {
	return c.signature
}

// ExpectedVersion returns the caller's last-known delivery version.
func (c AttachProofCommand) ExpectedVersion() int64 {
	return c.expectedVersion
}

func (c *AttachProofCommand) setPrincipal(principal kernel.Principal) error {
	if err := principal.Validate(); err != nil {
		return err
	}

	c.principal = principal
	return nil
}

func (c *AttachProofCommand) setDeliveryID(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}

	c.deliveryID = deliveryID
	return nil
}

func (c *AttachProofCommand) setPhoto(photo string) error {
	if photo == "" {
		return errs.NewValueIsRequiredError("proof photo")
	}

	c.photo = photo
	return nil
}

func (c *AttachProofCommand) setSignature(signature string) error {
	if signature == "" {
		return errs.NewValueIsRequiredError("proof signature")
	}

	c.signature = signature
	return nil
}

func (c *AttachProofCommand) setExpectedVersion(version int64) error {
	if version < 1 {
		return errs.NewValueIsInvalidError("expected version")
	}

	c.expectedVersion = version
	return nil
}
