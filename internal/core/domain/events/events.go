// Package events defines the integration events emitted after successful
// commits and the payloads they carry on the wire.
//
// Events are published once per committed state change, after the storage
// transaction completes. Per entity, publish order matches commit order;
// subscribers can rely on the Version field to detect gaps.
package events

import "time"

// EntityKind names the aggregate type an event refers to.
type EntityKind string

const (
	// EntityVehicle marks events about a vehicle.
	EntityVehicle EntityKind = "vehicle"
	// EntityDelivery marks events about a delivery.
	EntityDelivery EntityKind = "delivery"
)

// Kind names the event types carried on the feed.
type Kind string

const (
	// KindNewDelivery is emitted when a delivery is created and bound to a vehicle.
	KindNewDelivery Kind = "newDelivery"
	// KindDeliveryStatusUpdate is emitted when a delivery changes its lifecycle state.
	KindDeliveryStatusUpdate Kind = "deliveryStatusUpdate"
	// KindVehicleStatusUpdate is emitted when a vehicle changes its dispatch status.
	KindVehicleStatusUpdate Kind = "vehicleStatusUpdate"
	// KindVehicleLocationUpdate is emitted when a vehicle reports a new position.
	KindVehicleLocationUpdate Kind = "vehicleLocationUpdate"
	// KindProofOfDelivery is emitted when proof evidence is attached to a delivery.
	KindProofOfDelivery Kind = "proofOfDelivery"
)

// Event is one record on the feed. Payload holds one of the payload
// structs of this package, matching the Kind.
type Event struct {
	EntityKind  EntityKind `json:"entityKind"`
	EntityID    string     `json:"entityId"`
	Kind        Kind       `json:"eventKind"`
	Payload     any        `json:"payload"`
	CommittedAt time.Time  `json:"committedAt"`
	Version     int64      `json:"version"`
}

// NewDeliveryPayload describes a freshly dispatched delivery.
type NewDeliveryPayload struct {
	DeliveryID     string `json:"deliveryId"`
	TrackingNumber string `json:"trackingNumber"`
	Status         string `json:"status"`
	Priority       string `json:"priority"`
	VehicleID      string `json:"vehicleId"`
	DriverID       string `json:"driverId"`
}

// DeliveryStatusPayload describes a delivery lifecycle change.
type DeliveryStatusPayload struct {
	DeliveryID     string     `json:"deliveryId"`
	TrackingNumber string     `json:"trackingNumber"`
	Status         string     `json:"status"`
	ActualPickup   *time.Time `json:"actualPickupTime,omitempty"`
	ActualDelivery *time.Time `json:"actualDeliveryTime,omitempty"`
}

// VehicleStatusPayload describes a vehicle dispatch status change.
type VehicleStatusPayload struct {
	VehicleID    string `json:"vehicleId"`
	ExternalCode string `json:"externalCode"`
	Status       string `json:"status"`
	DeliveryID   string `json:"deliveryId,omitempty"`
}

// VehicleLocationPayload describes a vehicle position report.
type VehicleLocationPayload struct {
	VehicleID string    `json:"vehicleId"`
	Longitude float64   `json:"longitude"`
	Latitude  float64   `json:"latitude"`
	Timestamp time.Time `json:"timestamp"`
}

// ProofOfDeliveryPayload describes attached proof evidence.
type ProofOfDeliveryPayload struct {
	DeliveryID     string    `json:"deliveryId"`
	TrackingNumber string    `json:"trackingNumber"`
	Photo          string    `json:"photo"`
	Signature      string    `json:"signature"`
	Timestamp      time.Time `json:"timestamp"`
}
