package queries

import (
	"context"
	"strings"

	"fleet/internal/core/domain/model/delivery"
	"fleet/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetDeliveriesQueryHandler retrieves delivery information from the database.
// Uses direct SQL queries for optimal read performance in the CQRS pattern,
// joining on vehicles so each row carries the assigned unit's external code.
//
// Example:
//
//	handler := NewGetDeliveriesQueryHandler(db)
//	query, _ := NewGetDeliveriesQuery(delivery.StatusUnknown)
//
//	deliveries, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("Failed to get deliveries: %v", err)
//	    return err
//	}
type GetDeliveriesQueryHandler struct {
	db *gorm.DB
}

// NewGetDeliveriesQueryHandler creates a handler for delivery list queries.
// Requires a GORM database connection for query execution.
func NewGetDeliveriesQueryHandler(db *gorm.DB) GetDeliveriesQueryHandler {
	return GetDeliveriesQueryHandler{db: db}
}

// Handle executes the query to retrieve deliveries.
// Returns delivery read models with the newest first.
// Converts database types to domain types for consistency.
func (h GetDeliveriesQueryHandler) Handle(
	ctx context.Context,
	query GetDeliveriesQuery,
) ([]GetDeliveriesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString(`
		SELECT
			d.id,
			d.tracking_number,
			d.status,
			d.priority,
			d.pickup_address,
			d.dropoff_address,
			d.customer_name,
			d.assigned_vehicle_id,
			v.external_code,
			d.assigned_driver_id,
			d.estimated_pickup_time,
			d.estimated_delivery_time,
			d.created_at
		FROM deliveries d
		JOIN vehicles v ON v.id = d.assigned_vehicle_id
	`)

	args := make([]any, 0, 1)
	if query.Status() != delivery.StatusUnknown {
		sb.WriteString(" WHERE d.status = ?")
		args = append(args, query.Status().String())
	}
	sb.WriteString(" ORDER BY d.created_at DESC")

	rows, err := h.db.WithContext(ctx).Raw(sb.String(), args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deliveries := make([]GetDeliveriesQueryResponse, 0)
	for rows.Next() {
		var row GetDeliveriesQueryResponse
		var id, vehicleID, driverID uuid.UUID

		err = rows.Scan(
			&id,
			&row.TrackingNumber,
			&row.Status,
			&row.Priority,
			&row.PickupAddress,
			&row.DropoffAddress,
			&row.CustomerName,
			&vehicleID,
			&row.VehicleExternalCode,
			&driverID,
			&row.EstimatedPickupTime,
			&row.EstimatedDeliveryTime,
			&row.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if row.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if row.AssignedVehicleID, err = kernel.UUIDFromBytes(vehicleID[:]); err != nil {
			return nil, err
		}
		if row.AssignedDriverID, err = kernel.UUIDFromBytes(driverID[:]); err != nil {
			return nil, err
		}

		deliveries = append(deliveries, row)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return deliveries, nil
}
