// Package vehiclerepo provides data transfer objects and mapping functions
// for vehicle persistence. Implements the repository pattern for the vehicle
// aggregate, converting between domain entities and database rows.
package vehiclerepo

import (
	"time"

	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/model/vehicle"

	"github.com/google/uuid"
)

// VehicleDTO represents the database structure for persisting vehicle
// aggregates. Statuses and kinds are stored as their wire strings so the
// rows stay readable and stable across enum reordering.
type VehicleDTO struct {
	ID                uuid.UUID   `gorm:"type:uuid;primaryKey"`
	ExternalCode      string      `gorm:"type:varchar(64);not null;uniqueIndex"`
	Kind              string      `gorm:"type:varchar(16);not null"`
	Capacity          int         `gorm:"type:int;not null"`
	Status            string      `gorm:"type:varchar(16);not null;index"`
	Location          GeoPointDTO `gorm:"embedded;embeddedPrefix:location_"`
	DriverID          uuid.UUID   `gorm:"type:uuid;not null;index"`
	CurrentDeliveryID *uuid.UUID  `gorm:"type:uuid;index"`
	LastUpdated       time.Time   `gorm:"not null"`
	Active            bool        `gorm:"not null;index"`
	Version           int64       `gorm:"type:bigint;not null"`
}

// TableName overrides GORM's default naming to use "vehicles".
func (VehicleDTO) TableName() string {
	return "vehicles"
}

// GeoPointDTO represents an embedded WGS84 coordinate pair.
type GeoPointDTO struct {
	Longitude float64 `gorm:"type:double precision;not null"`
	Latitude  float64 `gorm:"type:double precision;not null"`
}

// fromDomain converts a vehicle aggregate to its database representation.
// The Version column carries the aggregate's next version; the caller's
// compare-and-swap decides whether the write lands.
func fromDomain(aggregate *vehicle.Vehicle) VehicleDTO {
	var deliveryID *uuid.UUID
	if bound := aggregate.CurrentDeliveryID(); bound != nil {
		raw := bound.Bytes()
		deliveryID = &raw
	}

	return VehicleDTO{
		ID:           aggregate.ID().Bytes(),
		ExternalCode: aggregate.ExternalCode(),
		Kind:         aggregate.Kind().String(),
		Capacity:     aggregate.Capacity(),
		Status:       aggregate.Status().String(),
		Location: GeoPointDTO{
			Longitude: aggregate.Location().Longitude(),
			Latitude:  aggregate.Location().Latitude(),
		},
		DriverID:          aggregate.DriverID().Bytes(),
		CurrentDeliveryID: deliveryID,
		LastUpdated:       aggregate.LastUpdated().UTC(),
		Active:            aggregate.IsActive(),
		Version:           aggregate.Version(),
	}
}

// toDomain converts a database row to a vehicle aggregate.
func toDomain(dto VehicleDTO) (*vehicle.Vehicle, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	kind, err := vehicle.KindFromString(dto.Kind)
	if err != nil {
		return nil, err
	}

	status, err := vehicle.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	location, err := kernel.NewGeoPoint(dto.Location.Longitude, dto.Location.Latitude)
	if err != nil {
		return nil, err
	}

	driverID, err := kernel.UUIDFromBytes(dto.DriverID[:])
	if err != nil {
		return nil, err
	}

	var deliveryID *kernel.UUID
	if dto.CurrentDeliveryID != nil {
		bound, boundErr := kernel.UUIDFromBytes((*dto.CurrentDeliveryID)[:])
		if boundErr != nil {
			return nil, boundErr
		}
		deliveryID = &bound
	}

	return vehicle.RestoreVehicle(
		id,
		dto.ExternalCode,
		kind,
		dto.Capacity,
		status,
		location,
		driverID,
		deliveryID,
		dto.LastUpdated,
		dto.Active,
		dto.Version,
	)
}
