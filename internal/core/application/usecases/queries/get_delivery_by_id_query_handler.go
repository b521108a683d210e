package queries

import (
	"context"

	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetDeliveryByIDQueryHandler retrieves a single delivery record from the
// database. Read gating happens here rather than in the authorization guard
// because driver access depends on the loaded row's assigned driver.
//
// Example:
//
//	handler := NewGetDeliveryByIDQueryHandler(db)
//	query, _ := NewGetDeliveryByIDQuery(principal, deliveryID)
//
//	detail, err := handler.Handle(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    return echo.NewHTTPError(http.StatusNotFound)
//	}
type GetDeliveryByIDQueryHandler struct {
	db *gorm.DB
}

// NewGetDeliveryByIDQueryHandler creates a handler for single delivery reads.
// Requires a GORM database connection for query execution.
func NewGetDeliveryByIDQueryHandler(db *gorm.DB) GetDeliveryByIDQueryHandler {
	return GetDeliveryByIDQueryHandler{db: db}
}

// Handle executes the query to retrieve one delivery.
// Returns ErrObjectNotFound when no delivery carries the requested ID and
// ErrNotAuthorized when a driver asks for a delivery assigned to someone
// else.
func (h GetDeliveryByIDQueryHandler) Handle(
	ctx context.Context,
	query GetDeliveryByIDQuery,
) (GetDeliveryByIDQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetDeliveryByIDQueryResponse{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			tracking_number,
			status,
			priority,
			pickup_address,
			pickup_longitude,
			pickup_latitude,
			dropoff_address,
			dropoff_longitude,
			dropoff_latitude,
			customer_name,
			customer_phone,
			customer_email,
			assigned_vehicle_id,
			assigned_driver_id,
			estimated_pickup_time,
			estimated_delivery_time,
			actual_pickup_time,
			actual_delivery_time,
			proof_photo,
			proof_signature,
			proof_timestamp,
			notes,
			created_at,
			version
		FROM deliveries
		WHERE id = ?
	`, query.DeliveryID().Bytes()).Rows()
	if err != nil {
		return GetDeliveryByIDQueryResponse{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return GetDeliveryByIDQueryResponse{}, err
		}
		return GetDeliveryByIDQueryResponse{},
			errs.NewObjectNotFoundError("delivery", query.DeliveryID())
	}

	var row GetDeliveryByIDQueryResponse
	var id, vehicleID, driverID uuid.UUID
	var pickupLng, pickupLat, dropoffLng, dropoffLat float64

	err = rows.Scan(
		&id,
		&row.TrackingNumber,
		&row.Status,
		&row.Priority,
		&row.PickupAddress,
		&pickupLng,
		&pickupLat,
		&row.DropoffAddress,
		&dropoffLng,
		&dropoffLat,
		&row.CustomerName,
		&row.CustomerPhone,
		&row.CustomerEmail,
		&vehicleID,
		&driverID,
		&row.EstimatedPickupTime,
		&row.EstimatedDeliveryTime,
		&row.ActualPickupTime,
		&row.ActualDeliveryTime,
		&row.ProofPhoto,
		&row.ProofSignature,
		&row.ProofTimestamp,
		&row.Notes,
		&row.CreatedAt,
		&row.Version,
	)
	if err != nil {
		return GetDeliveryByIDQueryResponse{}, err
	}

	if row.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return GetDeliveryByIDQueryResponse{}, err
	}
	if row.AssignedVehicleID, err = kernel.UUIDFromBytes(vehicleID[:]); err != nil {
		return GetDeliveryByIDQueryResponse{}, err
	}
	if row.AssignedDriverID, err = kernel.UUIDFromBytes(driverID[:]); err != nil {
		return GetDeliveryByIDQueryResponse{}, err
	}
	if row.PickupLocation, err = kernel.NewGeoPoint(pickupLng, pickupLat); err != nil {
		return GetDeliveryByIDQueryResponse{}, err
	}
	if row.DropoffLocation, err = kernel.NewGeoPoint(dropoffLng, dropoffLat); err != nil {
		return GetDeliveryByIDQueryResponse{}, err
	}

	principal := query.Principal()
	if principal.IsDriver() && !principal.ID().IsEqual(row.AssignedDriverID) {
		return GetDeliveryByIDQueryResponse{},
			errs.NewNotAuthorizedError("read delivery")
	}

	return row, nil
}
