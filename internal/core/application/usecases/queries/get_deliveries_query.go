package queries

import (
	"errors"
	"time"

	"fleet/internal/core/domain/model/delivery"
	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/pkg/guard"
)

var (
	ErrGetDeliveriesQueryIsNotConstructed = errors.New(
		"GetDeliveriesQuery must be created via NewGetDeliveriesQuery constructor",
	)
)

// GetDeliveriesQuery retrieves deliveries, optionally narrowed by status.
// Passing delivery.StatusUnknown leaves the filter off.
//
// Example:
//
//	query, err := queries.NewGetDeliveriesQuery(delivery.StatusInTransit)
//	if err != nil {
//	    return err
//	}
//
//	deliveries, err := handler.Handle(ctx, query)
type GetDeliveriesQuery struct {
	guard guard.ConstructorGuard

	status delivery.Status
}

// NewGetDeliveriesQuery creates a query for the delivery list.
// The status filter is validated only when set.
func NewGetDeliveriesQuery(status delivery.Status) (GetDeliveriesQuery, error) {
	if status != delivery.StatusUnknown {
		if err := status.Validate(); err != nil {
			return GetDeliveriesQuery{}, err
		}
	}

	return GetDeliveriesQuery{
		guard:  guard.NewConstructorGuard(),
		status: status,
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetDeliveriesQueryIsNotConstructed if validation fails.
func (q GetDeliveriesQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliveriesQueryIsNotConstructed)
}

// Status returns the status filter, StatusUnknown when unfiltered.
func (q GetDeliveriesQuery) Status() delivery.Status {
	return q.status
}

// GetDeliveriesQueryResponse represents one delivery row in the read model.
// VehicleExternalCode comes from the assigned vehicle so dispatch screens can
// show the unit without a second lookup.
type GetDeliveriesQueryResponse struct {
	ID                    kernel.UUID
	TrackingNumber        string
	Status                string
	Priority              string
	PickupAddress         string
	DropoffAddress        string
	CustomerName          string
	AssignedVehicleID     kernel.UUID
	VehicleExternalCode   string
	AssignedDriverID      kernel.UUID
	EstimatedPickupTime   time.Time
	EstimatedDeliveryTime time.Time
	CreatedAt             time.Time
}
