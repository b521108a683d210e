package commands

import (
	"context"
	"time"

	"fleet/internal/core/domain/events"
	"fleet/internal/core/domain/model/delivery"
	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/services"
	"fleet/internal/core/ports"
	"fleet/internal/pkg/errs"
)

// UpdateDeliveryStatusCommandHandler handles delivery lifecycle changes.
//
// Non-terminal targets touch the delivery alone. Terminal targets
// (delivered, failed) run through the coordinator, which releases the
// bound vehicle in the same transaction unless the vehicle has diverged.
//
// The handler first resolves the delivery's vehicle with a short read,
// then takes both entity locks and re-reads inside the transaction. The
// compare-and-swap on the delivery row catches anything that changed
// between the two reads.
type UpdateDeliveryStatusCommandHandler struct {
	uowFactory  UoWFactory
	authGuard   ports.AuthorizationGuard
	publisher   ports.EventPublisher
	coordinator services.AssignmentCoordinator
}

// NewUpdateDeliveryStatusCommandHandler creates a handler for delivery
// lifecycle changes.
func NewUpdateDeliveryStatusCommandHandler(
	uowFactory UoWFactory,
	authGuard ports.AuthorizationGuard,
	publisher ports.EventPublisher,
	coordinator services.AssignmentCoordinator,
) UpdateDeliveryStatusCommandHandler {
	return UpdateDeliveryStatusCommandHandler{
		uowFactory:  uowFactory,
		authGuard:   authGuard,
		publisher:   publisher,
		coordinator: coordinator,
	}
}

// Handle processes the delivery status change command.
//
// Fails with a VersionConflictError when the caller's expected version no
// longer matches the stored delivery, an InvalidTransitionError when the
// target is not reachable, or a NotAuthorizedError when the principal is
// neither an admin nor the assigned driver.
func (h *UpdateDeliveryStatusCommandHandler) Handle(
	ctx context.Context,
	cmd UpdateDeliveryStatusCommand,
) (*delivery.Delivery, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	vehicleID, err := h.resolveVehicleID(ctx, cmd.DeliveryID())
	if err != nil {
		return nil, err
	}

	unlock := h.publisher.LockEntities(
		deliveryLockKey(cmd.DeliveryID()),
		vehicleLockKey(vehicleID),
	)
	defer unlock()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
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
	var releasedVehicle *events.Event

	if cmd.Target().IsTerminal() {
		boundVehicle, err := uow.VehicleRepository().Get(ctx, target.AssignedVehicleID())
		if err != nil {
			return nil, err
		}

		released, err := h.coordinator.Complete(target, boundVehicle, cmd.Target(), now)
		if err != nil {
			return nil, err
		}

		if released {
			if err = uow.VehicleRepository().Update(ctx, boundVehicle); err != nil {
				return nil, err
			}
			releasedVehicle = &events.Event{
				EntityKind: events.EntityVehicle,
				EntityID:   boundVehicle.ID().String(),
				Kind:       events.KindVehicleStatusUpdate,
				Version:    boundVehicle.Version(),
				Payload: events.VehicleStatusPayload{
					VehicleID:    boundVehicle.ID().String(),
					ExternalCode: boundVehicle.ExternalCode(),
					Status:       boundVehicle.Status().String(),
				},
			}
		}
	} else {
		if err = target.TransitionTo(cmd.Target(), now); err != nil {
			return nil, err
		}
	}

	if err = uow.DeliveryRepository().Update(ctx, target); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	committedAt := time.Now().UTC()
	h.publisher.Publish(events.Event{
		EntityKind:  events.EntityDelivery,
		EntityID:    target.ID().String(),
		Kind:        events.KindDeliveryStatusUpdate,
		CommittedAt: committedAt,
		Version:     target.Version(),
		Payload: events.DeliveryStatusPayload{
			DeliveryID:     target.ID().String(),
			TrackingNumber: target.TrackingNumber(),
			Status:         target.Status().String(),
			ActualPickup:   target.ActualPickupTime(),
			ActualDelivery: target.ActualDeliveryTime(),
		},
	})
	if releasedVehicle != nil {
		releasedVehicle.CommittedAt = committedAt
		h.publisher.Publish(*releasedVehicle)
	}

	return target, nil
}

// resolveVehicleID reads the delivery's immutable vehicle binding with a
// short transaction so the entity locks can be taken before the real one.
func (h *UpdateDeliveryStatusCommandHandler) resolveVehicleID(
	ctx context.Context,
	deliveryID kernel.UUID,
) (kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	target, err := uow.DeliveryRepository().Get(ctx, deliveryID)
	if err != nil {
		return kernel.UUID{}, err
	}

	return target.AssignedVehicleID(), nil
}
