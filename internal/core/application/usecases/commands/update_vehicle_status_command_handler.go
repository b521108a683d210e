package commands

import (
	"context"
	"time"

	"fleet/internal/core/domain/events"
	"fleet/internal/core/domain/model/vehicle"
	"fleet/internal/core/ports"
	"fleet/internal/pkg/errs"
)

// UpdateVehicleStatusCommandHandler handles manual vehicle status changes.
// The aggregate enforces the single-step dispatch cycle and its
// delivery-binding preconditions; this handler adds authorization, the
// version check and the post-commit event.
type UpdateVehicleStatusCommandHandler struct {
	uowFactory VehicleUoWFactory
	authGuard  ports.AuthorizationGuard
	publisher  ports.EventPublisher
}

// NewUpdateVehicleStatusCommandHandler creates a handler for vehicle
// status changes.
func NewUpdateVehicleStatusCommandHandler(
	uowFactory VehicleUoWFactory,
	authGuard ports.AuthorizationGuard,
	publisher ports.EventPublisher,
) UpdateVehicleStatusCommandHandler {
	return UpdateVehicleStatusCommandHandler{
		uowFactory: uowFactory,
		authGuard:  authGuard,
		publisher:  publisher,
	}
}

// Handle processes the vehicle status change command.
// Returns the updated vehicle on success and publishes a
// vehicleStatusUpdate event after the commit.
func (h *UpdateVehicleStatusCommandHandler) Handle(
	ctx context.Context,
	cmd UpdateVehicleStatusCommand,
) (*vehicle.Vehicle, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	unlock := h.publisher.LockEntities(vehicleLockKey(cmd.VehicleID()))
	defer unlock()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	target, err := uow.VehicleRepository().Get(ctx, cmd.VehicleID())
	if err != nil {
		return nil, err
	}

	if err = h.authGuard.AuthorizeVehicle(cmd.Principal(), target); err != nil {
		return nil, err
	}
	if target.PersistedVersion() != cmd.ExpectedVersion() {
		return nil, errs.NewVersionConflictError("vehicle", target.ID().String())
	}

	if err = target.ChangeStatus(cmd.Target(), time.Now().UTC()); err != nil {
		return nil, err
	}

	if err = uow.VehicleRepository().Update(ctx, target); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	payload := events.VehicleStatusPayload{
		VehicleID:    target.ID().String(),
		ExternalCode: target.ExternalCode(),
		Status:       target.Status().String(),
	}
	if deliveryID := target.CurrentDeliveryID(); deliveryID != nil {
		payload.DeliveryID = deliveryID.String()
	}

	h.publisher.Publish(events.Event{
		EntityKind:  events.EntityVehicle,
		EntityID:    target.ID().String(),
		Kind:        events.KindVehicleStatusUpdate,
		CommittedAt: time.Now().UTC(),
		Version:     target.Version(),
		Payload:     payload,
	})

	return target, nil
}
