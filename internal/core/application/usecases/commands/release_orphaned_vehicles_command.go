package commands

import (
	"errors"

	"fleet/internal/pkg/guard"
)

var (
	ErrReleaseOrphanedVehiclesCommandIsNotConstructed = errors.New(
		"ReleaseOrphanedVehiclesCommand must be created via NewReleaseOrphanedVehiclesCommand constructor",
	)
)

// ReleaseOrphanedVehiclesCommand represents a system-initiated sweep for
// vehicles still bound to a delivery that already reached a terminal state.
// Such pairs appear when a vehicle diverged before its delivery terminated
// and never came back through the coordinator's release path.
//
// The sweep runs on a schedule and carries no principal.
type ReleaseOrphanedVehiclesCommand struct { //nolint:recvcheck //using for validation
	guard guard.ConstructorGuard
}

// NewReleaseOrphanedVehiclesCommand creates a command for the release sweep.
func NewReleaseOrphanedVehiclesCommand() (ReleaseOrphanedVehiclesCommand, error) {
	return ReleaseOrphanedVehiclesCommand{
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrReleaseOrphanedVehiclesCommandIsNotConstructed if validation fails.
func (c ReleaseOrphanedVehiclesCommand) Validate() error {
	return c.guard.Validate(ErrReleaseOrphanedVehiclesCommandIsNotConstructed)
}
