package ports

import (
	"context"

	"fleet/internal/core/domain/model/delivery"
	"fleet/internal/core/domain/model/kernel"
)

// DeliveryRepository defines the persistence contract for delivery aggregates.
//
// Update performs a compare-and-swap against the stored version: the row is
// written only when its version still equals the aggregate's persisted
// version, and a VersionConflictError is returned otherwise.
type DeliveryRepository interface {
	// Add persists a new delivery aggregate to storage.
	// Fails with a ValueIsInvalidError when the tracking number is
	// already taken.
	Add(ctx context.Context, aggregate *delivery.Delivery) error

	// Update persists changes to an existing delivery aggregate using a
	// compare-and-swap on its version. Returns a VersionConflictError
	// when a concurrent writer got there first, or an ObjectNotFoundError
	// when the delivery does not exist.
	Update(ctx context.Context, aggregate *delivery.Delivery) error

	// Get retrieves a delivery aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)
}
