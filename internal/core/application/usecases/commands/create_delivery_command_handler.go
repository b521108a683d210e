package commands

import (
	"context"
	"time"

	"fleet/internal/core/domain/events"
	"fleet/internal/core/domain/model/delivery"
	"fleet/internal/core/domain/services"
	"fleet/internal/core/ports"
)

// CreateDeliveryCommandHandler handles the business logic for dispatching
// a delivery. Dispatch is a two-entity commit: the new delivery and the
// status change of its vehicle are persisted in one transaction through the
// coordinator, so a concurrent reader never sees one without the other.
//
// The handler holds the entity locks across commit and publish, which keeps
// the per-entity event order equal to commit order. A vehicle that stopped
// being available between the caller's read and this commit is detected by
// the vehicle row's compare-and-swap.
type CreateDeliveryCommandHandler struct {
	uowFactory  UoWFactory
	authGuard   ports.AuthorizationGuard
	publisher   ports.EventPublisher
	coordinator services.AssignmentCoordinator
}

// NewCreateDeliveryCommandHandler creates a handler for delivery dispatch.
func NewCreateDeliveryCommandHandler(
	uowFactory UoWFactory,
	authGuard ports.AuthorizationGuard,
	publisher ports.EventPublisher,
	coordinator services.AssignmentCoordinator,
) CreateDeliveryCommandHandler {
	return CreateDeliveryCommandHandler{
		uowFactory:  uowFactory,
		authGuard:   authGuard,
		publisher:   publisher,
		coordinator: coordinator,
	}
}

// Handle processes the delivery dispatch command.
//
// Flow: authorize the dispatcher, lock the delivery and vehicle entities,
// load the vehicle, build the pending delivery bound to the vehicle's
// driver, bind the pair through the coordinator, persist both sides in one
// transaction and publish the newDelivery and vehicleStatusUpdate events.
//
// Fails with a VehicleUnavailableError when the vehicle is not available,
// a VersionConflictError when a concurrent writer engaged the vehicle
// first, or a ValueIsInvalidError when the tracking number is taken.
func (h *CreateDeliveryCommandHandler) Handle(
	ctx context.Context,
	cmd CreateDeliveryCommand,
) (*delivery.Delivery, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if err := h.authGuard.AuthorizeDispatch(cmd.Principal()); err != nil {
		return nil, err
	}

	unlock := h.publisher.LockEntities(
		deliveryLockKey(cmd.DeliveryID()),
		vehicleLockKey(cmd.VehicleID()),
	)
	defer unlock()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	candidate, err := uow.VehicleRepository().Get(ctx, cmd.VehicleID())
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	newDelivery, err := delivery.NewDelivery(
		cmd.DeliveryID(),
		cmd.TrackingNumber(),
		cmd.Priority(),
		cmd.Pickup(),
		cmd.Dropoff(),
		cmd.Customer(),
		candidate.ID(),
		candidate.DriverID(),
		cmd.EstimatedPickupTime(),
		cmd.EstimatedDeliveryTime(),
		cmd.Notes(),
		now,
	)
	if err != nil {
		return nil, err
	}

	if err = h.coordinator.Bind(newDelivery, candidate, now); err != nil {
		return nil, err
	}

	if err = uow.DeliveryRepository().Add(ctx, newDelivery); err != nil {
		return nil, err
	}
	if err = uow.VehicleRepository().Update(ctx, candidate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	committedAt := time.Now().UTC()
	h.publisher.Publish(events.Event{
		EntityKind:  events.EntityDelivery,
		EntityID:    newDelivery.ID().String(),
		Kind:        events.KindNewDelivery,
		CommittedAt: committedAt,
		Version:     newDelivery.Version(),
		Payload: events.NewDeliveryPayload{
			DeliveryID:     newDelivery.ID().String(),
			TrackingNumber: newDelivery.TrackingNumber(),
			Status:         newDelivery.Status().String(),
			Priority:       newDelivery.Priority().String(),
			VehicleID:      candidate.ID().String(),
			DriverID:       candidate.DriverID().String(),
		},
	})
	h.publisher.Publish(events.Event{
		EntityKind:  events.EntityVehicle,
		EntityID:    candidate.ID().String(),
		Kind:        events.KindVehicleStatusUpdate,
		CommittedAt: committedAt,
		Version:     candidate.Version(),
		Payload: events.VehicleStatusPayload{
			VehicleID:    candidate.ID().String(),
			ExternalCode: candidate.ExternalCode(),
			Status:       candidate.Status().String(),
			DeliveryID:   newDelivery.ID().String(),
		},
	})

	return newDelivery, nil
}
