// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"
	"time"

	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/model/vehicle"
	"fleet/internal/pkg/guard"
)

var (
	ErrGetVehiclesQueryIsNotConstructed = errors.New(
		"GetVehiclesQuery must be created via NewGetVehiclesQuery constructor",
	)
)

// GetVehiclesQuery retrieves the active vehicle fleet, optionally narrowed by
// status and kind. Passing vehicle.StatusUnknown or vehicle.KindUnknown leaves
// the corresponding filter off.
//
// Example:
//
//	query, err := queries.NewGetVehiclesQuery(vehicle.StatusAvailable, vehicle.KindUnknown)
//	if err != nil {
//	    return err
//	}
//
//	vehicles, err := handler.Handle(ctx, query)
type GetVehiclesQuery struct {
	guard guard.ConstructorGuard

	status vehicle.Status
	kind   vehicle.Kind
}

// NewGetVehiclesQuery creates a query for the active vehicle list.
// Status and kind filters are validated only when set.
func NewGetVehiclesQuery(status vehicle.Status, kind vehicle.Kind) (GetVehiclesQuery, error) {
	if status != vehicle.StatusUnknown {
		if err := status.Validate(); err != nil {
			return GetVehiclesQuery{}, err
		}
	}
	if kind != vehicle.KindUnknown {
		if err := kind.Validate(); err != nil {
			return GetVehiclesQuery{}, err
		}
	}

	return GetVehiclesQuery{
		guard:  guard.NewConstructorGuard(),
		status: status,
		kind:   kind,
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetVehiclesQueryIsNotConstructed if validation fails.
func (q GetVehiclesQuery) Validate() error {
	return q.guard.Validate(ErrGetVehiclesQueryIsNotConstructed)
}

// Status returns the status filter, StatusUnknown when unfiltered.
func (q GetVehiclesQuery) Status() vehicle.Status {
	return q.status
}

// Kind returns the kind filter, KindUnknown when unfiltered.
func (q GetVehiclesQuery) Kind() vehicle.Kind {
	return q.kind
}

// GetVehiclesQueryResponse represents one vehicle row in the read model.
// CurrentDeliveryID and TrackingNumber are nil and empty for idle vehicles.
type GetVehiclesQueryResponse struct {
	ID                kernel.UUID
	ExternalCode      string
	Kind              string
	Capacity          int
	Status            string
	Location          kernel.GeoPoint
	DriverID          kernel.UUID
	CurrentDeliveryID *kernel.UUID
	TrackingNumber    string
	LastUpdated       time.Time
}
