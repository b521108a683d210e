package queries

import (
	"context"
	"database/sql"
	"strings"

	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/model/vehicle"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetVehiclesQueryHandler retrieves active vehicle information from the
// database. Uses direct SQL queries for optimal read performance in the CQRS
// pattern, joining on deliveries so bound vehicles carry their tracking
// number.
//
// Example:
//
//	handler := NewGetVehiclesQueryHandler(db)
//	query, _ := NewGetVehiclesQuery(vehicle.StatusUnknown, vehicle.KindUnknown)
//
//	vehicles, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("Failed to get vehicles: %v", err)
//	    return err
//	}
//
//	fmt.Printf("Found %d vehicles\n", len(vehicles))
type GetVehiclesQueryHandler struct {
	db *gorm.DB
}

// NewGetVehiclesQueryHandler creates a handler for vehicle list queries.
// Requires a GORM database connection for query execution.
func NewGetVehiclesQueryHandler(db *gorm.DB) GetVehiclesQueryHandler {
	return GetVehiclesQueryHandler{db: db}
}

// Handle executes the query to retrieve the active fleet.
// Returns vehicle read models sorted by external code.
// Converts database types to domain types for consistency.
func (h GetVehiclesQueryHandler) Handle(
	ctx context.Context,
	query GetVehiclesQuery,
) ([]GetVehiclesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString(`
		SELECT
			v.id,
			v.external_code,
			v.kind,
			v.capacity,
			v.status,
			v.location_longitude,
			v.location_latitude,
			v.driver_id,
			v.current_delivery_id,
			d.tracking_number,
			v.last_updated
		FROM vehicles v
		LEFT JOIN deliveries d ON d.id = v.current_delivery_id
		WHERE v.active = true
	`)

	args := make([]any, 0, 2)
	if query.Status() != vehicle.StatusUnknown {
		sb.WriteString(" AND v.status = ?")
		args = append(args, query.Status().String())
	}
	if query.Kind() != vehicle.KindUnknown {
		sb.WriteString(" AND v.kind = ?")
		args = append(args, query.Kind().String())
	}
	sb.WriteString(" ORDER BY v.external_code")

	rows, err := h.db.WithContext(ctx).Raw(sb.String(), args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vehicles := make([]GetVehiclesQueryResponse, 0)
	for rows.Next() {
		row, scanErr := scanVehicleRow(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		vehicles = append(vehicles, row)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return vehicles, nil
}

func scanVehicleRow(rows *sql.Rows) (GetVehiclesQueryResponse, error) {
	var row GetVehiclesQueryResponse
	var id, driverID uuid.UUID
	var deliveryID uuid.NullUUID
	var trackingNumber sql.NullString
	var longitude, latitude float64

	err := rows.Scan(
		&id,
		&row.ExternalCode,
		&row.Kind,
		&row.Capacity,
		&row.Status,
		&longitude,
		&latitude,
		&driverID,
		&deliveryID,
		&trackingNumber,
		&row.LastUpdated,
	)
	if err != nil {
		return GetVehiclesQueryResponse{}, err
	}

	if row.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return GetVehiclesQueryResponse{}, err
	}
	if row.DriverID, err = kernel.UUIDFromBytes(driverID[:]); err != nil {
		return GetVehiclesQueryResponse{}, err
	}
	if deliveryID.Valid {
		bound, idErr := kernel.UUIDFromBytes(deliveryID.UUID[:])
		if idErr != nil {
			return GetVehiclesQueryResponse{}, idErr
		}
		row.CurrentDeliveryID = &bound
	}
	if trackingNumber.Valid {
		row.TrackingNumber = trackingNumber.String
	}

	location, err := kernel.NewGeoPoint(longitude, latitude)
	if err != nil {
		return GetVehiclesQueryResponse{}, err
	}
	row.Location = location

	return row, nil
}
