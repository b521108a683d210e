package commands_test

import (
	"testing"

	"fleet/internal/core/application/usecases/commands"
	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/model/vehicle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateVehicleCommand_ValidInput(t *testing.T) {
	principal := mustPrincipal(t, kernel.RoleAdmin)
	vehicleID := kernel.NewUUID()
	driverID := kernel.NewUUID()
	point := mustPoint(t)

	cmd, err := commands.NewCreateVehicleCommand(
		principal, vehicleID, "VH-1001", vehicle.KindTruck, 2500, point, driverID,
	)
	require.NoError(t, err)
	assert.Equal(t, vehicleID, cmd.VehicleID())
	assert.Equal(t, "VH-1001", cmd.ExternalCode())
	assert.Equal(t, vehicle.KindTruck, cmd.Kind())
	assert.Equal(t, 2500, cmd.Capacity())
	equal, err := cmd.Location().IsEqual(point)
	require.NoError(t, err)
	assert.True(t, equal)
	assert.Equal(t, driverID, cmd.DriverID())
	require.NoError(t, cmd.Validate())
}

func TestNewCreateVehicleCommand_EmptyExternalCode(t *testing.T) {
	_, err := commands.NewCreateVehicleCommand(
		mustPrincipal(t, kernel.RoleAdmin), kernel.NewUUID(), "",
		vehicle.KindCar, 300, mustPoint(t), kernel.NewUUID(),
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, vehicle.ErrExternalCodeIsRequired)
}

func TestNewCreateVehicleCommand_InvalidCapacity(t *testing.T) {
	_, err := commands.NewCreateVehicleCommand(
		mustPrincipal(t, kernel.RoleAdmin), kernel.NewUUID(), "VH-1001",
		vehicle.KindCar, 0, mustPoint(t), kernel.NewUUID(),
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, vehicle.ErrCapacityIsRequired)
}

func TestNewCreateVehicleCommand_UnconstructedPrincipal(t *testing.T) {
	_, err := commands.NewCreateVehicleCommand(
		kernel.Principal{}, kernel.NewUUID(), "VH-1001",
		vehicle.KindCar, 300, mustPoint(t), kernel.NewUUID(),
	)
	require.Error(t, err)
}

func TestCreateVehicleCommand_ValidateZeroValue(t *testing.T) {
	var cmd commands.CreateVehicleCommand
	err := cmd.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrCreateVehicleCommandIsNotConstructed)
}
