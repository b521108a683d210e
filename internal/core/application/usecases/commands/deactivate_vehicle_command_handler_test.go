package commands_test

import (
	"testing"

	"fleet/internal/core/application/usecases/commands"
	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/model/vehicle"
	"fleet/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newDeactivateVehicleCommand(
	t *testing.T,
	principal kernel.Principal,
	vehicleID kernel.UUID,
) commands.DeactivateVehicleCommand {
	t.Helper()
	cmd, err := commands.NewDeactivateVehicleCommand(principal, vehicleID)
	require.NoError(t, err)
	return cmd
}

func TestDeactivateVehicleCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	target := mustRestoredVehicle(t, vehicle.StatusAvailable, kernel.NewUUID(), nil, 2)
	cmd := newDeactivateVehicleCommand(t, mustPrincipal(t, kernel.RoleAdmin), target.ID())

	repo := new(MockVehicleRepository)
	uow := new(MockVehicleUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("VehicleRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, target.ID()).Return(target, nil).Once(),
		uow.On("VehicleRepository").Return(repo).Once(),
		repo.On("Update", mock.Anything, target).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockVehicleUoWFactory)
	factory.On("Create").Return(uow).Once()
	publisher := &stubPublisher{}

	h := commands.NewDeactivateVehicleCommandHandler(factory, &stubAuthGuard{}, publisher)
	retired, err := h.Handle(ctx, cmd)
	require.NoError(t, err)

	require.False(t, retired.IsActive())
	require.Empty(t, publisher.published)

	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestDeactivateVehicleCommandHandler_Handle_NotAuthorized(t *testing.T) {
	ctx := t.Context()
	cmd := newDeactivateVehicleCommand(t, mustPrincipal(t, kernel.RoleDriver), kernel.NewUUID())

	factory := new(MockVehicleUoWFactory)
	guard := &stubAuthGuard{dispatchErr: errs.NewNotAuthorizedError("retire vehicle")}

	h := commands.NewDeactivateVehicleCommandHandler(factory, guard, &stubPublisher{})
	_, err := h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrNotAuthorized)
	factory.AssertNotCalled(t, "Create")
}

func TestDeactivateVehicleCommandHandler_Handle_VehicleStillBound(t *testing.T) {
	ctx := t.Context()
	deliveryID := kernel.NewUUID()
	target := mustRestoredVehicle(t, vehicle.StatusDelivering, kernel.NewUUID(), &deliveryID, 3)
	cmd := newDeactivateVehicleCommand(t, mustPrincipal(t, kernel.RoleAdmin), target.ID())

	repo := new(MockVehicleRepository)
	uow := new(MockVehicleUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("VehicleRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, target.ID()).Return(target, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockVehicleUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewDeactivateVehicleCommandHandler(factory, &stubAuthGuard{}, &stubPublisher{})
	_, err := h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrVehicleUnavailable)
	require.True(t, target.IsActive())
}
