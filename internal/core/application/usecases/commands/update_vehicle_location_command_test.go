package commands_test

import (
	"testing"

	"fleet/internal/core/application/usecases/commands"
	"fleet/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUpdateVehicleLocationCommand_ValidInput(t *testing.T) {
	vehicleID := kernel.NewUUID()
	point := mustPoint(t)
	cmd, err := commands.NewUpdateVehicleLocationCommand(
		mustPrincipal(t, kernel.RoleDriver), vehicleID, point,
	)
	require.NoError(t, err)
	assert.Equal(t, vehicleID, cmd.VehicleID())
	equal, err := cmd.Location().IsEqual(point)
	require.NoError(t, err)
	assert.True(t, equal)
}

func TestNewUpdateVehicleLocationCommand_UnconstructedLocation(t *testing.T) {
	_, err := commands.NewUpdateVehicleLocationCommand(
		mustPrincipal(t, kernel.RoleDriver), kernel.NewUUID(), kernel.GeoPoint{},
	)
	require.Error(t, err)
}

func TestUpdateVehicleLocationCommand_ValidateZeroValue(t *testing.T) {
	var cmd commands.UpdateVehicleLocationCommand
	err := cmd.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrUpdateVehicleLocationCommandIsNotConstructed)
}
