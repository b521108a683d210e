package delivery

import (
	"errors"
	"time"

	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/pkg/errs"
	"fleet/internal/pkg/guard"
)

// Domain errors for delivery operations.
var (
	// ErrTrackingNumberIsRequired is returned when attempting to create a delivery without a tracking number.
	ErrTrackingNumberIsRequired = errs.NewValueIsRequiredError("tracking number")
	// ErrDeliveryIsNotConstructed is returned when using an improperly initialized Delivery.
	ErrDeliveryIsNotConstructed = errors.New("Delivery must be created via NewDelivery constructor")
	// ErrProofAlreadyAttached is returned when attaching evidence to a delivery that already carries some.
	ErrProofAlreadyAttached = errs.NewValueIsInvalidError("proof of delivery is already attached")
)

// Delivery represents a dispatched shipment in the fleet system.
// It is an aggregate root that manages the shipment's lifecycle, its
// route, its recipient and the binding to the vehicle and driver that
// fulfill it.
//
// Key responsibilities:
//   - Managing delivery identity (ID, tracking number, priority, route, customer)
//   - Enforcing the forward-only fulfillment state machine
//   - Recording actual pickup and delivery times exactly once
//   - Guarding the one-shot proof-of-delivery attachment
//   - Carrying the optimistic concurrency version used by the persistence layer
//
// Business rules:
//   - Tracking numbers are globally unique and immutable after creation
//   - The vehicle and driver binding is fixed at dispatch time
//   - Status only moves forward; delivered and failed are terminal
//   - Proof of delivery is attached once, by the assigned driver, after delivery
type Delivery struct {
	// id uniquely identifies the delivery
	id kernel.UUID
	// trackingNumber is the externally visible unique identifier
	trackingNumber string
	// status is the current lifecycle state
	status Status
	// priority expresses the urgency of the delivery
	priority Priority
	// pickup is the collection end of the route
	pickup Waypoint
	// dropoff is the destination end of the route
	dropoff Waypoint
	// customer identifies the recipient
	customer Customer
	// assignedVehicleID identifies the vehicle fulfilling the delivery
	assignedVehicleID kernel.UUID
	// assignedDriverID identifies the driver, fixed at dispatch time
	assignedDriverID kernel.UUID
	// estimatedPickupTime is the planned collection time
	estimatedPickupTime time.Time
	// estimatedDeliveryTime is the planned arrival time
	estimatedDeliveryTime time.Time
	// actualPickupTime is set once on the transition to picked-up
	actualPickupTime *time.Time
	// actualDeliveryTime is set once on the transition to delivered
	actualDeliveryTime *time.Time
	// proof is the one-shot proof-of-delivery evidence
	proof *ProofOfDelivery
	// notes is optional free-form dispatcher commentary
	notes string
	// createdAt is the dispatch time of the delivery
	createdAt time.Time
	// persistedVersion is the version loaded from storage, 0 for new deliveries
	persistedVersion int64
	// version is the version the next save will write
	version int64
	// guard ensures the delivery was properly constructed
	guard guard.ConstructorGuard
}

// NewDelivery creates a new Delivery with the specified parameters.
// This is the only way to create a valid fresh Delivery instance.
//
// The delivery starts pending, without actual times or proof, at version 1.
// The vehicle and driver binding is taken at face value here; verifying the
// vehicle is available and the driver operates it is the coordinator's job.
//
// Returns:
//   - *Delivery: A fully initialized delivery ready for fulfillment
//   - error: Validation error if any parameter is invalid (aggregated errors for multiple issues)
func NewDelivery(
	id kernel.UUID,
	trackingNumber string,
	priority Priority,
	pickup Waypoint,
	dropoff Waypoint,
	customer Customer,
	assignedVehicleID kernel.UUID,
	assignedDriverID kernel.UUID,
	estimatedPickupTime time.Time,
	estimatedDeliveryTime time.Time,
	notes string,
	now time.Time,
) (*Delivery, error) {
	delivery := &Delivery{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		delivery.setID(id),
		delivery.setTrackingNumber(trackingNumber),
		delivery.setPriority(priority),
		delivery.setPickup(pickup),
		delivery.setDropoff(dropoff),
		delivery.setCustomer(customer),
		delivery.setAssignedVehicleID(assignedVehicleID),
		delivery.setAssignedDriverID(assignedDriverID),
		delivery.setEstimatedTimes(estimatedPickupTime, estimatedDeliveryTime),
	); err != nil {
		return nil, err
	}

	delivery.status = StatusPending
	delivery.notes = notes
	delivery.createdAt = now
	delivery.persistedVersion = 0
	delivery.version = 1

	return delivery, nil
}

// RestoreDelivery reconstructs a Delivery aggregate from persistent storage.
// Unlike NewDelivery which creates fresh deliveries, this constructor
// restores a delivery to its previously persisted state, including its
// status, actual times, proof and stored version.
//
// The restored delivery behaves identically to one created through normal
// domain operations. The stored version becomes both the persisted version
// (used as the compare value of the CAS update) and the current version
// until a mutation bumps it.
func RestoreDelivery(
	id kernel.UUID,
	trackingNumber string,
	status Status,
	priority Priority,
	pickup Waypoint,
	dropoff Waypoint,
	customer Customer,
	assignedVehicleID kernel.UUID,
	assignedDriverID kernel.UUID,
	estimatedPickupTime time.Time,
	estimatedDeliveryTime time.Time,
	actualPickupTime *time.Time,
	actualDeliveryTime *time.Time,
	proof *ProofOfDelivery,
	notes string,
	createdAt time.Time,
	version int64,
) (*Delivery, error) {
	delivery := &Delivery{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		delivery.setID(id),
		delivery.setTrackingNumber(trackingNumber),
		delivery.setStatus(status),
		delivery.setPriority(priority),
		delivery.setPickup(pickup),
		delivery.setDropoff(dropoff),
		delivery.setCustomer(customer),
		delivery.setAssignedVehicleID(assignedVehicleID),
		delivery.setAssignedDriverID(assignedDriverID),
		delivery.setEstimatedTimes(estimatedPickupTime, estimatedDeliveryTime),
		delivery.setProof(proof),
		delivery.setVersion(version),
	); err != nil {
		return nil, err
	}

	delivery.actualPickupTime = copyTime(actualPickupTime)
	delivery.actualDeliveryTime = copyTime(actualDeliveryTime)
	delivery.notes = notes
	delivery.createdAt = createdAt

	return delivery, nil
}

// IsEqual compares two deliveries for equality based on their unique identifiers.
func (d *Delivery) IsEqual(other *Delivery) bool {
	if other == nil {
		return false
	}
	return d.id.IsEqual(other.id)
}

// Validate checks if the Delivery was properly constructed using a constructor.
// The zero value of Delivery is invalid and will fail this validation.
func (d *Delivery) Validate() error {
	if d == nil {
		return ErrDeliveryIsNotConstructed
	}
	return d.guard.Validate(ErrDeliveryIsNotConstructed)
}

// ID returns the unique identifier of the delivery.
func (d *Delivery) ID() kernel.UUID {
	return d.id
}

// TrackingNumber returns the externally visible identifier of the delivery.
func (d *Delivery) TrackingNumber() string {
	return d.trackingNumber
}

// Status returns the current lifecycle state of the delivery.
func (d *Delivery) Status() Status {
	return d.status
}

// Priority returns the urgency of the delivery.
func (d *Delivery) Priority() Priority {
	return d.priority
}

// Pickup returns the collection end of the route.
func (d *Delivery) Pickup() Waypoint {
	return d.pickup
}

// Dropoff returns the destination end of the route.
func (d *Delivery) Dropoff() Waypoint {
	return d.dropoff
}

// Customer returns the recipient of the delivery.
func (d *Delivery) Customer() Customer {
	return d.customer
}

// AssignedVehicleID returns the identifier of the vehicle fulfilling the delivery.
func (d *Delivery) AssignedVehicleID() kernel.UUID {
	return d.assignedVehicleID
}

// AssignedDriverID returns the identifier of the driver fulfilling the delivery.
// The binding is fixed at dispatch time and never changes.
func (d *Delivery) AssignedDriverID() kernel.UUID {
	return d.assignedDriverID
}

// EstimatedPickupTime returns the planned collection time.
func (d *Delivery) EstimatedPickupTime() time.Time {
	return d.estimatedPickupTime
}

// EstimatedDeliveryTime returns the planned arrival time.
func (d *Delivery) EstimatedDeliveryTime() time.Time {
	return d.estimatedDeliveryTime
}

// ActualPickupTime returns the recorded collection time, or nil while the
// shipment has not been picked up.
func (d *Delivery) ActualPickupTime() *time.Time {
	return copyTime(d.actualPickupTime)
}

// ActualDeliveryTime returns the recorded arrival time, or nil while the
// shipment has not been delivered.
func (d *Delivery) ActualDeliveryTime() *time.Time {
	return copyTime(d.actualDeliveryTime)
}

// Proof returns the attached proof of delivery, or nil when none has been
// attached yet.
func (d *Delivery) Proof() *ProofOfDelivery {
	if d.proof == nil {
		return nil
	}
	proof := *d.proof
	return &proof
}

// Notes returns the free-form dispatcher commentary on the delivery.
func (d *Delivery) Notes() string {
	return d.notes
}

// CreatedAt returns the dispatch time of the delivery.
func (d *Delivery) CreatedAt() time.Time {
	return d.createdAt
}

// Version returns the version the next save will write.
func (d *Delivery) Version() int64 {
	return d.version
}

// PersistedVersion returns the version the aggregate was loaded with.
// It is the compare value of the optimistic concurrency check and is 0
// for deliveries that have never been saved.
func (d *Delivery) PersistedVersion() int64 {
	return d.persistedVersion
}

// IsTerminal reports whether the delivery has reached a terminal state.
func (d *Delivery) IsTerminal() bool {
	return d.status.IsTerminal()
}

// TransitionTo moves the delivery to the target lifecycle state.
//
// The change must be a forward move along the fulfillment chain or a
// failure of a non-terminal delivery; anything else results in an
// InvalidTransitionError.
//
// Side effects bound to the transition itself:
//   - entering picked-up records actualPickupTime
//   - entering delivered records actualDeliveryTime
//
// Both times are recorded at most once and never cleared.
func (d *Delivery) TransitionTo(target Status, now time.Time) error {
	next, err := d.status.TransitionTo(target)
	if err != nil {
		return err
	}

	d.status = next
	switch next {
	case StatusPickedUp:
		if d.actualPickupTime == nil {
			t := now
			d.actualPickupTime = &t
		}
	case StatusDelivered:
		if d.actualDeliveryTime == nil {
			t := now
			d.actualDeliveryTime = &t
		}
	default:
	}

	d.bumpVersion()
	return nil
}

// AttachProof attaches the proof-of-delivery evidence.
//
// Business rules:
//   - only the assigned driver may attach proof
//   - the delivery must be in the delivered state
//   - proof is attached at most once and never replaced
func (d *Delivery) AttachProof(actorID kernel.UUID, proof ProofOfDelivery, _ time.Time) error {
	if err := errors.Join(actorID.Validate(), proof.Validate()); err != nil {
		return err
	}
	if !actorID.IsEqual(d.assignedDriverID) {
		return errs.NewNotAuthorizedError("attach proof of delivery")
	}
	if d.status != StatusDelivered {
		return errs.NewInvalidTransitionErrorWithCause("delivery status",
			d.status.String(), d.status.String(),
			errors.New("proof of delivery requires the delivered status"))
	}
	if d.proof != nil {
		return ErrProofAlreadyAttached
	}

	d.proof = &proof
	d.bumpVersion()
	return nil
}

// bumpVersion advances the optimistic concurrency version. Several
// mutations between load and save still produce a single increment.
func (d *Delivery) bumpVersion() {
	d.version = d.persistedVersion + 1
}

// setID sets the delivery's unique identifier with validation.
// This is an internal setter used during delivery construction.
func (d *Delivery) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	d.id = id
	return nil
}

// setTrackingNumber sets the tracking number with validation.
// This is an internal setter used during delivery construction.
func (d *Delivery) setTrackingNumber(trackingNumber string) error {
	if trackingNumber == "" {
		return ErrTrackingNumberIsRequired
	}

	d.trackingNumber = trackingNumber
	return nil
}

// setStatus sets the lifecycle state with validation.
// This is an internal setter used during delivery restoration.
func (d *Delivery) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}

	d.status = status
	return nil
}

// setPriority sets the urgency with validation.
// This is an internal setter used during delivery construction.
func (d *Delivery) setPriority(priority Priority) error {
	if err := priority.Validate(); err != nil {
		return err
	}

	d.priority = priority
	return nil
}

// setPickup sets the collection waypoint with validation.
// This is an internal setter used during delivery construction.
func (d *Delivery) setPickup(pickup Waypoint) error {
	if err := pickup.Validate(); err != nil {
		return err
	}

	d.pickup = pickup
	return nil
}

// setDropoff sets the destination waypoint with validation.
// This is an internal setter used during delivery construction.
func (d *Delivery) setDropoff(dropoff Waypoint) error {
	if err := dropoff.Validate(); err != nil {
		return err
	}

	d.dropoff = dropoff
	return nil
}

// setCustomer sets the recipient with validation.
// This is an internal setter used during delivery construction.
func (d *Delivery) setCustomer(customer Customer) error {
	if err := customer.Validate(); err != nil {
		return err
	}

	d.customer = customer
	return nil
}

// setAssignedVehicleID sets the vehicle binding with validation.
// This is an internal setter used during delivery construction.
func (d *Delivery) setAssignedVehicleID(vehicleID kernel.UUID) error {
	if err := vehicleID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("assigned vehicle id", err)
	}

	d.assignedVehicleID = vehicleID
	return nil
}

// setAssignedDriverID sets the driver binding with validation.
// This is an internal setter used during delivery construction.
func (d *Delivery) setAssignedDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("assigned driver id", err)
	}

	d.assignedDriverID = driverID
	return nil
}

// setEstimatedTimes sets the planned schedule with validation.
// This is an internal setter used during delivery construction.
func (d *Delivery) setEstimatedTimes(pickupTime, deliveryTime time.Time) error {
	if pickupTime.IsZero() {
		return errs.NewValueIsRequiredError("estimated pickup time")
	}
	if deliveryTime.IsZero() {
		return errs.NewValueIsRequiredError("estimated delivery time")
	}
	if deliveryTime.Before(pickupTime) {
		return errs.NewValueIsInvalidError("estimated delivery time precedes estimated pickup time")
	}

	d.estimatedPickupTime = pickupTime
	d.estimatedDeliveryTime = deliveryTime
	return nil
}

// setProof sets the attached proof with validation.
// This is an internal setter used during delivery restoration.
func (d *Delivery) setProof(proof *ProofOfDelivery) error {
	if proof == nil {
		d.proof = nil
		return nil
	}
	if err := proof.Validate(); err != nil {
		return err
	}

	p := *proof
	d.proof = &p
	return nil
}

// setVersion sets the stored version with validation.
// This is an internal setter used during delivery restoration.
func (d *Delivery) setVersion(version int64) error {
	if version < 1 {
		return errs.NewValueIsInvalidError("version")
	}

	d.persistedVersion = version
	d.version = version
	return nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
