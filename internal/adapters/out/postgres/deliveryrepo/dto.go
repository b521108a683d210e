// Package deliveryrepo provides data transfer objects and mapping functions
// for delivery persistence. Implements the repository pattern for the
// delivery aggregate, converting between domain entities and database rows.
package deliveryrepo

import (
	"time"

	"fleet/internal/core/domain/model/delivery"
	"fleet/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DeliveryDTO represents the database structure for persisting delivery
// aggregates. Waypoints and customer details are embedded into the row;
// the optional proof of delivery is stored as three nullable columns that
// are either all set or all null.
type DeliveryDTO struct {
	ID                    uuid.UUID   `gorm:"type:uuid;primaryKey"`
	TrackingNumber        string      `gorm:"type:varchar(64);not null;uniqueIndex"`
	Status                string      `gorm:"type:varchar(16);not null;index"`
	Priority              string      `gorm:"type:varchar(16);not null"`
	Pickup                WaypointDTO `gorm:"embedded;embeddedPrefix:pickup_"`
	Dropoff               WaypointDTO `gorm:"embedded;embeddedPrefix:dropoff_"`
	Customer              CustomerDTO `gorm:"embedded;embeddedPrefix:customer_"`
	AssignedVehicleID     uuid.UUID   `gorm:"type:uuid;not null;index"`
	AssignedDriverID      uuid.UUID   `gorm:"type:uuid;not null;index"`
	EstimatedPickupTime   time.Time   `gorm:"not null"`
	EstimatedDeliveryTime time.Time   `gorm:"not null"`
	ActualPickupTime      *time.Time
	ActualDeliveryTime    *time.Time
	ProofPhoto            *string `gorm:"type:text"`
	ProofSignature        *string `gorm:"type:text"`
	ProofTimestamp        *time.Time
	Notes                 string    `gorm:"type:text"`
	CreatedAt             time.Time `gorm:"not null"`
	Version               int64     `gorm:"type:bigint;not null"`
}

// TableName overrides GORM's default naming to use "deliveries".
func (DeliveryDTO) TableName() string {
	return "deliveries"
}

// WaypointDTO represents an embedded address with its coordinate pair.
type WaypointDTO struct {
	Address   string  `gorm:"type:varchar(255);not null"`
	Longitude float64 `gorm:"type:double precision;not null"`
	Latitude  float64 `gorm:"type:double precision;not null"`
}

// CustomerDTO represents the embedded recipient contact details.
type CustomerDTO struct {
	Name  string `gorm:"type:varchar(255);not null"`
	Phone string `gorm:"type:varchar(32);not null"`
	Email string `gorm:"type:varchar(255);not null"`
}

// fromDomain converts a delivery aggregate to its database representation.
func fromDomain(aggregate *delivery.Delivery) DeliveryDTO {
	dto := DeliveryDTO{
		ID:                    aggregate.ID().Bytes(),
		TrackingNumber:        aggregate.TrackingNumber(),
		Status:                aggregate.Status().String(),
		Priority:              aggregate.Priority().String(),
		Pickup:                waypointFromDomain(aggregate.Pickup()),
		Dropoff:               waypointFromDomain(aggregate.Dropoff()),
		Customer: CustomerDTO{
			Name:  aggregate.Customer().Name(),
			Phone: aggregate.Customer().Phone(),
			Email: aggregate.Customer().Email(),
		},
		AssignedVehicleID:     aggregate.AssignedVehicleID().Bytes(),
		AssignedDriverID:      aggregate.AssignedDriverID().Bytes(),
		EstimatedPickupTime:   aggregate.EstimatedPickupTime().UTC(),
		EstimatedDeliveryTime: aggregate.EstimatedDeliveryTime().UTC(),
		ActualPickupTime:      aggregate.ActualPickupTime(),
		ActualDeliveryTime:    aggregate.ActualDeliveryTime(),
		Notes:                 aggregate.Notes(),
		CreatedAt:             aggregate.CreatedAt().UTC(),
		Version:               aggregate.Version(),
	}

	if proof := aggregate.Proof(); proof != nil {
		photo := proof.Photo()
		signature := proof.Signature()
		timestamp := proof.Timestamp().UTC()
		dto.ProofPhoto = &photo
		dto.ProofSignature = &signature
		dto.ProofTimestamp = &timestamp
	}

	return dto
}

func waypointFromDomain(waypoint delivery.Waypoint) WaypointDTO {
	return WaypointDTO{
		Address:   waypoint.Address(),
		Longitude: waypoint.Location().Longitude(),
		Latitude:  waypoint.Location().Latitude(),
	}
}

// toDomain converts a database row to a delivery aggregate.
func toDomain(dto DeliveryDTO) (*delivery.Delivery, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	status, err := delivery.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	priority, err := delivery.PriorityFromString(dto.Priority)
	if err != nil {
		return nil, err
	}

	pickup, err := waypointToDomain(dto.Pickup)
	if err != nil {
		return nil, err
	}

	dropoff, err := waypointToDomain(dto.Dropoff)
	if err != nil {
		return nil, err
	}

	customer, err := delivery.NewCustomer(dto.Customer.Name, dto.Customer.Phone, dto.Customer.Email)
	if err != nil {
		return nil, err
	}

	vehicleID, err := kernel.UUIDFromBytes(dto.AssignedVehicleID[:])
	if err != nil {
		return nil, err
	}

	driverID, err := kernel.UUIDFromBytes(dto.AssignedDriverID[:])
	if err != nil {
		return nil, err
	}

	var proof *delivery.ProofOfDelivery
	if dto.ProofPhoto != nil && dto.ProofSignature != nil && dto.ProofTimestamp != nil {
		restored, proofErr := delivery.NewProofOfDelivery(
			*dto.ProofPhoto, *dto.ProofSignature, *dto.ProofTimestamp,
		)
		if proofErr != nil {
			return nil, proofErr
		}
		proof = &restored
	}

	return delivery.RestoreDelivery(
		id,
		dto.TrackingNumber,
		status,
		priority,
		pickup,
		dropoff,
		customer,
		vehicleID,
		driverID,
		dto.EstimatedPickupTime,
		dto.EstimatedDeliveryTime,
		dto.ActualPickupTime,
		dto.ActualDeliveryTime,
		proof,
		dto.Notes,
		dto.CreatedAt,
		dto.Version,
	)
}

func waypointToDomain(dto WaypointDTO) (delivery.Waypoint, error) {
	location, err := kernel.NewGeoPoint(dto.Longitude, dto.Latitude)
	if err != nil {
		return delivery.Waypoint{}, err
	}
	return delivery.NewWaypoint(dto.Address, location)
}
