package commands

import (
	"context"
	"errors"
	"time"

	"fleet/internal/core/domain/events"
	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/ports"
)

// ReleaseOrphanedVehiclesCommandHandler repairs vehicles left bound to a
// terminated delivery. The coordinator skips a diverged vehicle when its
// delivery terminates; if the vehicle later returns to the dispatch
// lineage still pointing at that delivery, this sweep releases it.
//
// Each candidate is handled in its own locked transaction and re-checked
// after the lock: a vehicle that was already repaired, rebound or released
// concurrently is skipped. Per-vehicle failures do not stop the sweep.
type ReleaseOrphanedVehiclesCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
}

// NewReleaseOrphanedVehiclesCommandHandler creates a handler for the
// release sweep.
func NewReleaseOrphanedVehiclesCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
) ReleaseOrphanedVehiclesCommandHandler {
	return ReleaseOrphanedVehiclesCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the release sweep.
// Returns the number of vehicles released and the join of the per-vehicle
// errors encountered along the way.
func (h *ReleaseOrphanedVehiclesCommandHandler) Handle(
	ctx context.Context,
	cmd ReleaseOrphanedVehiclesCommand,
) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	candidates, err := h.findCandidates(ctx)
	if err != nil {
		return 0, err
	}

	released := 0
	var sweepErrs []error
	for _, vehicleID := range candidates {
		ok, err := h.releaseOne(ctx, vehicleID)
		if err != nil {
			sweepErrs = append(sweepErrs, err)
			continue
		}
		if ok {
			released++
		}
	}

	return released, errors.Join(sweepErrs...)
}

// findCandidates lists vehicles bound to a terminal delivery with a short
// read transaction. The list is advisory; each candidate is re-checked
// under its entity lock before anything changes.
func (h *ReleaseOrphanedVehiclesCommandHandler) findCandidates(ctx context.Context) ([]kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	vehicles, err := uow.VehicleRepository().GetAwaitingRelease(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(vehicles))
	for _, v := range vehicles {
		ids = append(ids, v.ID())
	}
	return ids, nil
}

func (h *ReleaseOrphanedVehiclesCommandHandler) releaseOne(
	ctx context.Context,
	vehicleID kernel.UUID,
) (bool, error) {
	unlock := h.publisher.LockEntities(vehicleLockKey(vehicleID))
	defer unlock()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	target, err := uow.VehicleRepository().Get(ctx, vehicleID)
	if err != nil {
		return false, err
	}

	deliveryID := target.CurrentDeliveryID()
	if deliveryID == nil {
		return false, nil
	}

	bound, err := uow.DeliveryRepository().Get(ctx, *deliveryID)
	if err != nil {
		return false, err
	}
	if !bound.IsTerminal() {
		return false, nil
	}

	if err = target.Release(time.Now().UTC()); err != nil {
		return false, err
	}
	if err = uow.VehicleRepository().Update(ctx, target); err != nil {
		return false, err
	}
	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	h.publisher.Publish(events.Event{
		EntityKind:  events.EntityVehicle,
		EntityID:    target.ID().String(),
		Kind:        events.KindVehicleStatusUpdate,
		CommittedAt: time.Now().UTC(),
		Version:     target.Version(),
		Payload: events.VehicleStatusPayload{
			VehicleID:    target.ID().String(),
			ExternalCode: target.ExternalCode(),
			Status:       target.Status().String(),
		},
	})

	return true, nil
}
