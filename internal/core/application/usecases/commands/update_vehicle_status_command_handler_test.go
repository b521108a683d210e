package commands_test

import (
	"testing"

	"fleet/internal/core/application/usecases/commands"
	"fleet/internal/core/domain/events"
	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/model/vehicle"
	"fleet/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newUpdateVehicleStatusCommand(
	t *testing.T,
	principal kernel.Principal,
	vehicleID kernel.UUID,
	target vehicle.Status,
	expectedVersion int64,
) commands.UpdateVehicleStatusCommand {
	t.Helper()
	cmd, err := commands.NewUpdateVehicleStatusCommand(principal, vehicleID, target, expectedVersion)
	require.NoError(t, err)
	return cmd
}

func TestUpdateVehicleStatusCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	driver := mustPrincipal(t, kernel.RoleDriver)
	deliveryID := kernel.NewUUID()
	target := mustRestoredVehicle(t, vehicle.StatusEnRoute, driver.ID(), &deliveryID, 3)
	cmd := newUpdateVehicleStatusCommand(t, driver, target.ID(), vehicle.StatusDelivering, 3)

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

	h := commands.NewUpdateVehicleStatusCommandHandler(factory, &stubAuthGuard{}, publisher)
	updated, err := h.Handle(ctx, cmd)
	require.NoError(t, err)

	require.Equal(t, vehicle.StatusDelivering, updated.Status())
	require.Equal(t, int64(4), updated.Version())
	require.Len(t, publisher.lockedKeys, 1)
	require.Len(t, publisher.published, 1)
	require.Equal(t, events.KindVehicleStatusUpdate, publisher.published[0].Kind)

	payload, ok := publisher.published[0].Payload.(events.VehicleStatusPayload)
	require.True(t, ok)
	require.Equal(t, "delivering", payload.Status)
	require.Equal(t, deliveryID.String(), payload.DeliveryID)

	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestUpdateVehicleStatusCommandHandler_Handle_SkippedStepRejected(t *testing.T) {
	ctx := t.Context()
	driver := mustPrincipal(t, kernel.RoleDriver)
	deliveryID := kernel.NewUUID()
	target := mustRestoredVehicle(t, vehicle.StatusAssigned, driver.ID(), &deliveryID, 2)
	cmd := newUpdateVehicleStatusCommand(t, driver, target.ID(), vehicle.StatusDelivering, 2)

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
	publisher := &stubPublisher{}

	h := commands.NewUpdateVehicleStatusCommandHandler(factory, &stubAuthGuard{}, publisher)
	_, err := h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrInvalidTransition)
	require.Equal(t, vehicle.StatusAssigned, target.Status())
	require.Empty(t, publisher.published)
}

func TestUpdateVehicleStatusCommandHandler_Handle_VersionConflict(t *testing.T) {
	ctx := t.Context()
	driver := mustPrincipal(t, kernel.RoleDriver)
	target := mustRestoredVehicle(t, vehicle.StatusReturning, driver.ID(), nil, 7)
	cmd := newUpdateVehicleStatusCommand(t, driver, target.ID(), vehicle.StatusAvailable, 6)

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

	h := commands.NewUpdateVehicleStatusCommandHandler(factory, &stubAuthGuard{}, &stubPublisher{})
	_, err := h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrVersionConflict)
	require.Equal(t, vehicle.StatusReturning, target.Status())
}

func TestUpdateVehicleStatusCommandHandler_Handle_NotAuthorized(t *testing.T) {
	ctx := t.Context()
	target := mustRestoredVehicle(t, vehicle.StatusReturning, kernel.NewUUID(), nil, 2)
	cmd := newUpdateVehicleStatusCommand(
		t, mustPrincipal(t, kernel.RoleDriver), target.ID(), vehicle.StatusAvailable, 2,
	)

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
	guard := &stubAuthGuard{vehicleErr: errs.NewNotAuthorizedError("update vehicle")}

	h := commands.NewUpdateVehicleStatusCommandHandler(factory, guard, &stubPublisher{})
	_, err := h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrNotAuthorized)
	require.Equal(t, vehicle.StatusReturning, target.Status())
}
