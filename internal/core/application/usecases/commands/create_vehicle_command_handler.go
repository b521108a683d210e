package commands

import (
	"context"
	"time"

	"fleet/internal/core/domain/model/vehicle"
	"fleet/internal/core/ports"
)

// CreateVehicleCommandHandler handles the business logic for vehicle registration.
// Registration is a dispatcher-only operation: the guard rejects non-admin
// principals before any state is touched.
type CreateVehicleCommandHandler struct {
	uowFactory VehicleUoWFactory
	authGuard  ports.AuthorizationGuard
}

// NewCreateVehicleCommandHandler creates a handler for vehicle registration.
// Requires a VehicleUoWFactory for transactional persistence and the
// authorization guard.
func NewCreateVehicleCommandHandler(
	uowFactory VehicleUoWFactory,
	authGuard ports.AuthorizationGuard,
) CreateVehicleCommandHandler {
	return CreateVehicleCommandHandler{
		uowFactory: uowFactory,
		authGuard:  authGuard,
	}
}

// Handle processes the vehicle registration command.
// The new vehicle starts available, active and without a delivery.
// Returns the created aggregate on success.
func (h *CreateVehicleCommandHandler) Handle(
	ctx context.Context,
	cmd CreateVehicleCommand,
) (*vehicle.Vehicle, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if err := h.authGuard.AuthorizeDispatch(cmd.Principal()); err != nil {
		return nil, err
	}

	newVehicle, err := vehicle.NewVehicle(
		cmd.VehicleID(),
		cmd.ExternalCode(),
		cmd.Kind(),
		cmd.Capacity(),
		cmd.Location(),
		cmd.DriverID(),
		time.Now().UTC(),
	)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.VehicleRepository().Add(ctx, newVehicle); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return newVehicle, nil
}
