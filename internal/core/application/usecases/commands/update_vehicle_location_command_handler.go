package commands

import (
	"context"
	"time"

	"fleet/internal/core/domain/events"
	"fleet/internal/core/domain/model/vehicle"
	"fleet/internal/core/ports"
)

// UpdateVehicleLocationCommandHandler handles vehicle position reports.
// Reports are retried on version conflicts rather than surfaced: a
// conflicting report simply reapplies its position on the fresh state.
type UpdateVehicleLocationCommandHandler struct {
	uowFactory VehicleUoWFactory
	authGuard  ports.AuthorizationGuard
	publisher  ports.EventPublisher
}

// locationUpdateRetries bounds the reapply loop on version conflicts.
const locationUpdateRetries = 3

// NewUpdateVehicleLocationCommandHandler creates a handler for vehicle
// position reports.
func NewUpdateVehicleLocationCommandHandler(
	uowFactory VehicleUoWFactory,
	authGuard ports.AuthorizationGuard,
	publisher ports.EventPublisher,
) UpdateVehicleLocationCommandHandler {
	return UpdateVehicleLocationCommandHandler{
		uowFactory: uowFactory,
		authGuard:  authGuard,
		publisher:  publisher,
	}
}

// Handle processes the position report.
// Returns the updated vehicle on success and publishes a
// vehicleLocationUpdate event after the commit.
func (h *UpdateVehicleLocationCommandHandler) Handle(
	ctx context.Context,
	cmd UpdateVehicleLocationCommand,
) (*vehicle.Vehicle, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	unlock := h.publisher.LockEntities(vehicleLockKey(cmd.VehicleID()))
	defer unlock()

	var target *vehicle.Vehicle
	var err error
	for attempt := 0; attempt < locationUpdateRetries; attempt++ {
		target, err = h.apply(ctx, cmd)
		if err == nil {
			break
		}
		if !isVersionConflict(err) {
			return nil, err
		}
	}
	if err != nil {
		return nil, err
	}

	h.publisher.Publish(events.Event{
		EntityKind:  events.EntityVehicle,
		EntityID:    target.ID().String(),
		Kind:        events.KindVehicleLocationUpdate,
		CommittedAt: time.Now().UTC(),
		Version:     target.Version(),
		Payload: events.VehicleLocationPayload{
			VehicleID: target.ID().String(),
			Longitude: target.Location().Longitude(),
			Latitude:  target.Location().Latitude(),
			Timestamp: target.LastUpdated(),
		},
	})

	return target, nil
}

func (h *UpdateVehicleLocationCommandHandler) apply(
	ctx context.Context,
	cmd UpdateVehicleLocationCommand,
) (*vehicle.Vehicle, error) {
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

	if err = h.authGuard.AuthorizeVehicleLocation(cmd.Principal(), target); err != nil {
		return nil, err
	}

	if err = target.MoveTo(cmd.Location(), time.Now().UTC()); err != nil {
		return nil, err
	}

	if err = uow.VehicleRepository().Update(ctx, target); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return target, nil
}
