package queries

import (
	"context"
	"strings"

	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/model/vehicle"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// earthRadiusMeters is the mean Earth radius used by the Haversine distance.
const earthRadiusMeters = 6371000

// GetNearestVehiclesQueryHandler ranks active vehicles by great-circle
// distance from a point. The distance is computed in SQL so the database does
// the sorting and limiting instead of shipping the whole fleet over the wire.
//
// Example:
//
//	handler := NewGetNearestVehiclesQueryHandler(db)
//	query, _ := NewGetNearestVehiclesQuery(origin, 5, vehicle.StatusAvailable, vehicle.KindUnknown)
//
//	nearest, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("Failed to rank vehicles: %v", err)
//	    return err
//	}
type GetNearestVehiclesQueryHandler struct {
	db *gorm.DB
}

// NewGetNearestVehiclesQueryHandler creates a handler for proximity queries.
// Requires a GORM database connection for query execution.
func NewGetNearestVehiclesQueryHandler(db *gorm.DB) GetNearestVehiclesQueryHandler {
	return GetNearestVehiclesQueryHandler{db: db}
}

// Handle executes the proximity query.
// Returns at most Limit vehicles ordered by ascending distance from the
// origin. The least(1.0, ...) clamp keeps acos in its domain when rounding
// pushes the cosine fractionally above one for near-identical points.
func (h GetNearestVehiclesQueryHandler) Handle(
	ctx context.Context,
	query GetNearestVehiclesQuery,
) ([]GetNearestVehiclesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString(`
		SELECT
			id,
			external_code,
			kind,
			status,
			location_longitude,
			location_latitude,
			driver_id,
			? * acos(least(1.0,
				cos(radians(?)) * cos(radians(location_latitude)) *
				cos(radians(location_longitude) - radians(?)) +
				sin(radians(?)) * sin(radians(location_latitude))
			)) AS distance_meters,
			last_updated
		FROM vehicles
		WHERE active = true
	`)

	origin := query.Origin()
	args := []any{
		earthRadiusMeters,
		origin.Latitude(),
		origin.Longitude(),
		origin.Latitude(),
	}
	if query.Status() != vehicle.StatusUnknown {
		sb.WriteString(" AND status = ?")
		args = append(args, query.Status().String())
	}
	if query.Kind() != vehicle.KindUnknown {
		sb.WriteString(" AND kind = ?")
		args = append(args, query.Kind().String())
	}
	sb.WriteString(" ORDER BY distance_meters LIMIT ?")
	args = append(args, query.Limit())

	rows, err := h.db.WithContext(ctx).Raw(sb.String(), args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vehicles := make([]GetNearestVehiclesQueryResponse, 0, query.Limit())
	for rows.Next() {
		var row GetNearestVehiclesQueryResponse
		var id, driverID uuid.UUID
		var longitude, latitude float64

		err = rows.Scan(
			&id,
			&row.ExternalCode,
			&row.Kind,
			&row.Status,
			&longitude,
			&latitude,
			&driverID,
			&row.DistanceMeters,
			&row.LastUpdated,
		)
		if err != nil {
			return nil, err
		}

		if row.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if row.DriverID, err = kernel.UUIDFromBytes(driverID[:]); err != nil {
			return nil, err
		}
		if row.Location, err = kernel.NewGeoPoint(longitude, latitude); err != nil {
			return nil, err
		}

		vehicles = append(vehicles, row)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return vehicles, nil
}
