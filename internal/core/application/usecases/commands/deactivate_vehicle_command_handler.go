package commands

import (
	"context"
	"time"

	"fleet/internal/core/domain/model/vehicle"
	"fleet/internal/core/ports"
)

// DeactivateVehicleCommandHandler handles vehicle retirement.
// Retirement is a dispatcher-only operation and is refused while the
// vehicle still carries a delivery.
type DeactivateVehicleCommandHandler struct {
	uowFactory VehicleUoWFactory
	authGuard  ports.AuthorizationGuard
	publisher  ports.EventPublisher
}

// NewDeactivateVehicleCommandHandler creates a handler for vehicle retirement.
func NewDeactivateVehicleCommandHandler(
	uowFactory VehicleUoWFactory,
	authGuard ports.AuthorizationGuard,
	publisher ports.EventPublisher,
) DeactivateVehicleCommandHandler {
	return DeactivateVehicleCommandHandler{
		uowFactory: uowFactory,
		authGuard:  authGuard,
		publisher:  publisher,
	}
}

// Handle processes the vehicle retirement command.
// Returns the retired vehicle on success.
func (h *DeactivateVehicleCommandHandler) Handle(
	ctx context.Context,
	cmd DeactivateVehicleCommand,
) (*vehicle.Vehicle, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if err := h.authGuard.AuthorizeDispatch(cmd.Principal()); err != nil {
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

	if err = target.Deactivate(time.Now().UTC()); err != nil {
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
