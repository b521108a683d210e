package http

import (
	"time"

	"fleet/internal/core/application/usecases/queries"
	"fleet/internal/core/domain/model/delivery"
	"fleet/internal/core/domain/model/vehicle"
)

// ErrorResponse is the JSON body of every non-2xx reply.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CreateVehicleRequest is the body of POST /api/v1/vehicles.
type CreateVehicleRequest struct {
	ExternalCode string  `json:"externalCode"`
	Kind         string  `json:"kind"`
	Capacity     int     `json:"capacity"`
	Longitude    float64 `json:"longitude"`
	Latitude     float64 `json:"latitude"`
	DriverID     string  `json:"driverId"`
}

// WaypointRequest carries an address with its coordinates.
type WaypointRequest struct {
	Address   string  `json:"address"`
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// CustomerRequest carries the recipient contact details.
type CustomerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// CreateDeliveryRequest is the body of POST /api/v1/deliveries.
type CreateDeliveryRequest struct {
	TrackingNumber        string          `json:"trackingNumber"`
	Priority              string          `json:"priority"`
	Pickup                WaypointRequest `json:"pickup"`
	Dropoff               WaypointRequest `json:"dropoff"`
	Customer              CustomerRequest `json:"customer"`
	VehicleID             string          `json:"vehicleId"`
	EstimatedPickupTime   time.Time       `json:"estimatedPickupTime"`
	EstimatedDeliveryTime time.Time       `json:"estimatedDeliveryTime"`
	Notes                 string          `json:"notes"`
}

// UpdateStatusRequest is the body of the status PATCH endpoints.
// ExpectedVersion carries the version the caller last read; a stale value
// yields 409.
type UpdateStatusRequest struct {
	Status          string `json:"status"`
	ExpectedVersion int64  `json:"expectedVersion"`
}

// UpdateLocationRequest is the body of PATCH /api/v1/vehicles/:id/location.
type UpdateLocationRequest struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// AttachProofRequest is the body of POST /api/v1/deliveries/:id/proof.
type AttachProofRequest struct {
	Photo           string `json:"photo"`
	Signature       string `json:"signature"`
	ExpectedVersion int64  `json:"expectedVersion"`
}

// VehicleResponse is the write-side reply carrying the committed state of a
// vehicle after a mutation.
type VehicleResponse struct {
	ID                string    `json:"id"`
	ExternalCode      string    `json:"externalCode"`
	Kind              string    `json:"kind"`
	Capacity          int       `json:"capacity"`
	Status            string    `json:"status"`
	Longitude         float64   `json:"longitude"`
	Latitude          float64   `json:"latitude"`
	DriverID          string    `json:"driverId"`
	CurrentDeliveryID string    `json:"currentDeliveryId,omitempty"`
	Active            bool      `json:"active"`
	LastUpdated       time.Time `json:"lastUpdated"`
	Version           int64     `json:"version"`
}

// DeliveryResponse is the write-side reply carrying the committed state of a
// delivery after a mutation.
type DeliveryResponse struct {
	ID                    string     `json:"id"`
	TrackingNumber        string     `json:"trackingNumber"`
	Status                string     `json:"status"`
	Priority              string     `json:"priority"`
	VehicleID             string     `json:"vehicleId"`
	DriverID              string     `json:"driverId"`
	EstimatedPickupTime   time.Time  `json:"estimatedPickupTime"`
	EstimatedDeliveryTime time.Time  `json:"estimatedDeliveryTime"`
	ActualPickupTime      *time.Time `json:"actualPickupTime,omitempty"`
	ActualDeliveryTime    *time.Time `json:"actualDeliveryTime,omitempty"`
	Notes                 string     `json:"notes,omitempty"`
	CreatedAt             time.Time  `json:"createdAt"`
	Version               int64      `json:"version"`
}

// VehicleListItem is one row of GET /api/v1/vehicles.
type VehicleListItem struct {
	ID                string    `json:"id"`
	ExternalCode      string    `json:"externalCode"`
	Kind              string    `json:"kind"`
	Capacity          int       `json:"capacity"`
	Status            string    `json:"status"`
	Longitude         float64   `json:"longitude"`
	Latitude          float64   `json:"latitude"`
	DriverID          string    `json:"driverId"`
	CurrentDeliveryID string    `json:"currentDeliveryId,omitempty"`
	TrackingNumber    string    `json:"trackingNumber,omitempty"`
	LastUpdated       time.Time `json:"lastUpdated"`
}

// NearestVehicleItem is one row of GET /api/v1/vehicles/nearest.
type NearestVehicleItem struct {
	ID             string    `json:"id"`
	ExternalCode   string    `json:"externalCode"`
	Kind           string    `json:"kind"`
	Status         string    `json:"status"`
	Longitude      float64   `json:"longitude"`
	Latitude       float64   `json:"latitude"`
	DriverID       string    `json:"driverId"`
	DistanceMeters float64   `json:"distanceMeters"`
	LastUpdated    time.Time `json:"lastUpdated"`
}

// DeliveryListItem is one row of GET /api/v1/deliveries.
type DeliveryListItem struct {
	ID                    string    `json:"id"`
	TrackingNumber        string    `json:"trackingNumber"`
	Status                string    `json:"status"`
	Priority              string    `json:"priority"`
	PickupAddress         string    `json:"pickupAddress"`
	DropoffAddress        string    `json:"dropoffAddress"`
	CustomerName          string    `json:"customerName"`
	VehicleID             string    `json:"vehicleId"`
	VehicleExternalCode   string    `json:"vehicleExternalCode"`
	DriverID              string    `json:"driverId"`
	EstimatedPickupTime   time.Time `json:"estimatedPickupTime"`
	EstimatedDeliveryTime time.Time `json:"estimatedDeliveryTime"`
	CreatedAt             time.Time `json:"createdAt"`
}

// DeliveryDetail is the reply of GET /api/v1/deliveries/:id.
type DeliveryDetail struct {
	ID                    string     `json:"id"`
	TrackingNumber        string     `json:"trackingNumber"`
	Status                string     `json:"status"`
	Priority              string     `json:"priority"`
	Pickup                WaypointRequest `json:"pickup"`
	Dropoff               WaypointRequest `json:"dropoff"`
	Customer              CustomerRequest `json:"customer"`
	VehicleID             string     `json:"vehicleId"`
	DriverID              string     `json:"driverId"`
	EstimatedPickupTime   time.Time  `json:"estimatedPickupTime"`
	EstimatedDeliveryTime time.Time  `json:"estimatedDeliveryTime"`
	ActualPickupTime      *time.Time `json:"actualPickupTime,omitempty"`
	ActualDeliveryTime    *time.Time `json:"actualDeliveryTime,omitempty"`
	ProofPhoto            *string    `json:"proofPhoto,omitempty"`
	ProofSignature        *string    `json:"proofSignature,omitempty"`
	ProofTimestamp        *time.Time `json:"proofTimestamp,omitempty"`
	Notes                 string     `json:"notes,omitempty"`
	CreatedAt             time.Time  `json:"createdAt"`
	Version               int64      `json:"version"`
}

func vehicleToResponse(v *vehicle.Vehicle) VehicleResponse {
	response := VehicleResponse{
		ID:           v.ID().String(),
		ExternalCode: v.ExternalCode(),
		Kind:         v.Kind().String(),
		Capacity:     v.Capacity(),
		Status:       v.Status().String(),
		Longitude:    v.Location().Longitude(),
		Latitude:     v.Location().Latitude(),
		DriverID:     v.DriverID().String(),
		Active:       v.IsActive(),
		LastUpdated:  v.LastUpdated(),
		Version:      v.Version(),
	}
	if deliveryID := v.CurrentDeliveryID(); deliveryID != nil {
		response.CurrentDeliveryID = deliveryID.String()
	}
	return response
}

func deliveryToResponse(d *delivery.Delivery) DeliveryResponse {
	return DeliveryResponse{
		ID:                    d.ID().String(),
		TrackingNumber:        d.TrackingNumber(),
		Status:                d.Status().String(),
		Priority:              d.Priority().String(),
		VehicleID:             d.AssignedVehicleID().String(),
		DriverID:              d.AssignedDriverID().String(),
		EstimatedPickupTime:   d.EstimatedPickupTime(),
		EstimatedDeliveryTime: d.EstimatedDeliveryTime(),
		ActualPickupTime:      d.ActualPickupTime(),
		ActualDeliveryTime:    d.ActualDeliveryTime(),
		Notes:                 d.Notes(),
		CreatedAt:             d.CreatedAt(),
		Version:               d.Version(),
	}
}

func vehicleRowToItem(row queries.GetVehiclesQueryResponse) VehicleListItem {
	item := VehicleListItem{
		ID:             row.ID.String(),
		ExternalCode:   row.ExternalCode,
		Kind:           row.Kind,
		Capacity:       row.Capacity,
		Status:         row.Status,
		Longitude:      row.Location.Longitude(),
		Latitude:       row.Location.Latitude(),
		DriverID:       row.DriverID.String(),
		TrackingNumber: row.TrackingNumber,
		LastUpdated:    row.LastUpdated,
	}
	if row.CurrentDeliveryID != nil {
		item.CurrentDeliveryID = row.CurrentDeliveryID.String()
	}
	return item
}

func nearestRowToItem(row queries.GetNearestVehiclesQueryResponse) NearestVehicleItem {
	return NearestVehicleItem{
		ID:             row.ID.String(),
		ExternalCode:   row.ExternalCode,
		Kind:           row.Kind,
		Status:         row.Status,
		Longitude:      row.Location.Longitude(),
		Latitude:       row.Location.Latitude(),
		DriverID:       row.DriverID.String(),
		DistanceMeters: row.DistanceMeters,
		LastUpdated:    row.LastUpdated,
	}
}

func deliveryRowToItem(row queries.GetDeliveriesQueryResponse) DeliveryListItem {
	return DeliveryListItem{
		ID:                    row.ID.String(),
		TrackingNumber:        row.TrackingNumber,
		Status:                row.Status,
		Priority:              row.Priority,
		PickupAddress:         row.PickupAddress,
		DropoffAddress:        row.DropoffAddress,
		CustomerName:          row.CustomerName,
		VehicleID:             row.AssignedVehicleID.String(),
		VehicleExternalCode:   row.VehicleExternalCode,
		DriverID:              row.AssignedDriverID.String(),
		EstimatedPickupTime:   row.EstimatedPickupTime,
		EstimatedDeliveryTime: row.EstimatedDeliveryTime,
		CreatedAt:             row.CreatedAt,
	}
}

func deliveryRowToDetail(row queries.GetDeliveryByIDQueryResponse) DeliveryDetail {
	return DeliveryDetail{
		ID:             row.ID.String(),
		TrackingNumber: row.TrackingNumber,
		Status:         row.Status,
		Priority:       row.Priority,
		Pickup: WaypointRequest{
			Address:   row.PickupAddress,
			Longitude: row.PickupLocation.Longitude(),
			Latitude:  row.PickupLocation.Latitude(),
		},
		Dropoff: WaypointRequest{
			Address:   row.DropoffAddress,
			Longitude: row.DropoffLocation.Longitude(),
			Latitude:  row.DropoffLocation.Latitude(),
		},
		Customer: CustomerRequest{
			Name:  row.CustomerName,
			Phone: row.CustomerPhone,
			Email: row.CustomerEmail,
		},
		VehicleID:             row.AssignedVehicleID.String(),
		DriverID:              row.AssignedDriverID.String(),
		EstimatedPickupTime:   row.EstimatedPickupTime,
		EstimatedDeliveryTime: row.EstimatedDeliveryTime,
		ActualPickupTime:      row.ActualPickupTime,
		ActualDeliveryTime:    row.ActualDeliveryTime,
		ProofPhoto:            row.ProofPhoto,
		ProofSignature:        row.ProofSignature,
		ProofTimestamp:        row.ProofTimestamp,
		Notes:                 row.Notes,
		CreatedAt:             row.CreatedAt,
		Version:               row.Version,
	}
}
