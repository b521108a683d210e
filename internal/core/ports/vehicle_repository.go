package ports

import (
	"context"

	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/model/vehicle"
)

// VehicleRepository defines the persistence contract for vehicle aggregates.
// Provides methods for storing, retrieving, and querying vehicle entities.
//
// Update performs a compare-and-swap against the stored version: the row is
// written only when its version still equals the aggregate's persisted
// version, and a VersionConflictError is returned otherwise.
type VehicleRepository interface {
	// Add persists a new vehicle aggregate to storage.
	// The vehicle must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *vehicle.Vehicle) error

	// Update persists changes to an existing vehicle aggregate using a
	// compare-and-swap on its version. Returns a VersionConflictError
	// when a concurrent writer got there first, or an ObjectNotFoundError
	// when the vehicle does not exist.
	Update(ctx context.Context, aggregate *vehicle.Vehicle) error

	// Get retrieves a vehicle aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*vehicle.Vehicle, error)

	// GetAwaitingRelease retrieves vehicles whose bound delivery has
	// already reached a terminal state. Used by the orphan release sweep
	// to repair vehicles missed by the coordinator's completion path.
	GetAwaitingRelease(ctx context.Context) ([]*vehicle.Vehicle, error)
}
