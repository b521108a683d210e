package queries

import (
	"errors"
	"time"

	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/model/vehicle"
	"fleet/internal/pkg/errs"
	"fleet/internal/pkg/guard"
)

var (
	ErrGetNearestVehiclesQueryIsNotConstructed = errors.New(
		"GetNearestVehiclesQuery must be created via NewGetNearestVehiclesQuery constructor",
	)
)

const maxNearestVehicles = 100

// GetNearestVehiclesQuery finds the active vehicles closest to a point,
// optionally narrowed by status and kind. Dispatchers use it to shortlist
// candidates for a new delivery near the pickup location.
//
// Example:
//
//	origin, _ := kernel.NewGeoPoint(-74.0060, 40.7128)
//	query, err := queries.NewGetNearestVehiclesQuery(
//	    origin, 5, vehicle.StatusAvailable, vehicle.KindUnknown)
//	if err != nil {
//	    return err
//	}
//
//	nearest, err := handler.Handle(ctx, query)
type GetNearestVehiclesQuery struct {
	guard guard.ConstructorGuard

	origin kernel.GeoPoint
	limit  int
	status vehicle.Status
	kind   vehicle.Kind
}

// NewGetNearestVehiclesQuery creates a proximity query around origin.
// Limit must be between 1 and 100. Status and kind filters are validated only
// when set.
func NewGetNearestVehiclesQuery(
	origin kernel.GeoPoint,
	limit int,
	status vehicle.Status,
	kind vehicle.Kind,
) (GetNearestVehiclesQuery, error) {
	if err := origin.Validate(); err != nil {
		return GetNearestVehiclesQuery{}, err
	}
	if limit < 1 || limit > maxNearestVehicles {
		return GetNearestVehiclesQuery{}, errs.NewValueIsOutOfRangeError(
			"limit", limit, 1, maxNearestVehicles)
	}
	if status != vehicle.StatusUnknown {
		if err := status.Validate(); err != nil {
			return GetNearestVehiclesQuery{}, err
		}
	}
	if kind != vehicle.KindUnknown {
		if err := kind.Validate(); err != nil {
			return GetNearestVehiclesQuery{}, err
		}
	}

	return GetNearestVehiclesQuery{
		guard:  guard.NewConstructorGuard(),
		origin: origin,
		limit:  limit,
		status: status,
		kind:   kind,
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetNearestVehiclesQueryIsNotConstructed if validation fails.
func (q GetNearestVehiclesQuery) Validate() error {
	return q.guard.Validate(ErrGetNearestVehiclesQueryIsNotConstructed)
}

// Origin returns the point distances are measured from.
func (q GetNearestVehiclesQuery) Origin() kernel.GeoPoint {
	return q.origin
}

// Limit returns the maximum number of vehicles to return.
func (q GetNearestVehiclesQuery) Limit() int {
	return q.limit
}

// Status returns the status filter, StatusUnknown when unfiltered.
func (q GetNearestVehiclesQuery) Status() vehicle.Status {
	return q.status
}

// Kind returns the kind filter, KindUnknown when unfiltered.
func (q GetNearestVehiclesQuery) Kind() vehicle.Kind {
	return q.kind
}

// GetNearestVehiclesQueryResponse represents one candidate vehicle with its
// great-circle distance from the query origin.
type GetNearestVehiclesQueryResponse struct {
	ID             kernel.UUID
	ExternalCode   string
	Kind           string
	Status         string
	Location       kernel.GeoPoint
	DriverID       kernel.UUID
	DistanceMeters float64
	LastUpdated    time.Time
}
