package commands

import (
	"context"
	"time"

	"fleet/internal/core/domain/events"
	"fleet/internal/core/domain/model/delivery"
	"fleet/internal/core/ports"
	"fleet/internal/pkg/errs"
)

// AttachProofCommandHandler handles the one-shot proof-of-delivery
// attachment. The aggregate enforces the hard rules: the delivery must be
// delivered, carry no proof yet, and the actor must be its assigned driver.
type AttachProofCommandHandler struct {
	uowFactory DeliveryUoWFactory
	authGuard  ports.AuthorizationGuard
	publisher  ports.EventPublisher
}

// NewAttachProofCommandHandler creates a handler for proof attachment.
func NewAttachProofCommandHandler(
	uowFactory DeliveryUoWFactory,
	authGuard ports.AuthorizationGuard,
	publisher ports.EventPublisher,
) AttachProofCommandHandler {
	return AttachProofCommandHandler{
		uowFactory: uowFactory,
		authGuard:  authGuard,
		publisher:  publisher,
	}
}

// Handle processes the proof attachment command.
// Returns the updated delivery on success and publishes a proofOfDelivery
// event after the commit.
func (h *AttachProofCommandHandler) Handle(
	ctx context.Context,
	cmd AttachProofCommand,
) (*delivery.Delivery, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	unlock := h.publisher.LockEntities(deliveryLockKey(cmd.DeliveryID()))
	defer unlock()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	target, err := uow.DeliveryRepository().Get(ctx, cmd.DeliveryID())
	if err != nil {
		return nil, err
	}

	if err = h.authGuard.AuthorizeDelivery(cmd.Principal(), target); err != nil {
		return nil, err
	}
	if target.PersistedVersion() != cmd.ExpectedVersion() {
		return nil, errs.NewVersionConflictError("delivery", target.ID().String())
	}

	now := time.Now().UTC()
	proof, err := delivery.NewProofOfDelivery(cmd.Photo(), cmd.Signature(), now)
	if err != nil {
		return nil, err
	}

	if err = target.AttachProof(cmd.Principal().ID(), proof, now); err != nil {
		return nil, err
	}

	if err = uow.DeliveryRepository().Update(ctx, target); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.publisher.Publish(events.Event{
		EntityKind:  events.EntityDelivery,
		EntityID:    target.ID().String(),
		Kind:        events.KindProofOfDelivery,
		CommittedAt: time.Now().UTC(),
		Version:     target.Version(),
		Payload: events.ProofOfDeliveryPayload{
			DeliveryID:     target.ID().String(),
			TrackingNumber: target.TrackingNumber(),
			Photo:          proof.Photo(),
			Signature:      proof.Signature(),
			Timestamp:      proof.Timestamp(),
		},
	})

	return target, nil
}
