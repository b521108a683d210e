package queries

import (
	"errors"
	"time"

	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/pkg/guard"
)

var (
	ErrGetDeliveryByIDQueryIsNotConstructed = errors.New(
		"GetDeliveryByIDQuery must be created via NewGetDeliveryByIDQuery constructor",
	)
)

// GetDeliveryByIDQuery retrieves the full record of a single delivery.
// Admins and customers may read any delivery; drivers only the ones assigned
// to them.
//
// Example:
//
//	query, err := queries.NewGetDeliveryByIDQuery(principal, deliveryID)
//	if err != nil {
//	    return err
//	}
//
//	detail, err := handler.Handle(ctx, query)
type GetDeliveryByIDQuery struct {
	guard guard.ConstructorGuard

	principal  kernel.Principal
	deliveryID kernel.UUID
}

// NewGetDeliveryByIDQuery creates a query for a single delivery record.
// Requires the acting principal for read gating and the delivery identifier.
func NewGetDeliveryByIDQuery(
	principal kernel.Principal,
	deliveryID kernel.UUID,
) (GetDeliveryByIDQuery, error) {
	if err := errors.Join(principal.Validate(), deliveryID.Validate()); err != nil {
		return GetDeliveryByIDQuery{}, err
	}

	return GetDeliveryByIDQuery{
		guard:      guard.NewConstructorGuard(),
		principal:  principal,
		deliveryID: deliveryID,
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetDeliveryByIDQueryIsNotConstructed if validation fails.
func (q GetDeliveryByIDQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliveryByIDQueryIsNotConstructed)
}

// Principal returns the acting principal.
func (q GetDeliveryByIDQuery) Principal() kernel.Principal {
	return q.principal
}

// DeliveryID returns the identifier of the requested delivery.
func (q GetDeliveryByIDQuery) DeliveryID() kernel.UUID {
	return q.deliveryID
}

// GetDeliveryByIDQueryResponse is the full delivery record in the read model.
// Actual times and proof fields are nil until the corresponding lifecycle
// steps happen.
type GetDeliveryByIDQueryResponse struct {
	ID                    kernel.UUID
	TrackingNumber        string
	Status                string
	Priority              string
	PickupAddress         string
	PickupLocation        kernel.GeoPoint
	DropoffAddress        string
	DropoffLocation       kernel.GeoPoint
	CustomerName          string
	CustomerPhone         string
	CustomerEmail         string
	AssignedVehicleID     kernel.UUID
	AssignedDriverID      kernel.UUID
	EstimatedPickupTime   time.Time
	EstimatedDeliveryTime time.Time
	ActualPickupTime      *time.Time
	ActualDeliveryTime    *time.Time
	ProofPhoto            *string
	ProofSignature        *string
	ProofTimestamp        *time.Time
	Notes                 string
	CreatedAt             time.Time
	Version               int64
}
