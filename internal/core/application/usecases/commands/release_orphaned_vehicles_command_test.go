package commands_test

import (
	"testing"

	"fleet/internal/core/application/usecases/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReleaseOrphanedVehiclesCommand(t *testing.T) {
	cmd, err := commands.NewReleaseOrphanedVehiclesCommand()
	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
}

func TestReleaseOrphanedVehiclesCommand_ValidateZeroValue(t *testing.T) {
	var cmd commands.ReleaseOrphanedVehiclesCommand
	err := cmd.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrReleaseOrphanedVehiclesCommandIsNotConstructed)
}
