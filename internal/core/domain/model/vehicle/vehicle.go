package vehicle

import (
	"errors"
	"time"

	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/pkg/errs"
	"fleet/internal/pkg/guard"
)

// Domain errors for vehicle operations.
var (
	// ErrExternalCodeIsRequired is returned when attempting to create a vehicle without a fleet code.
	ErrExternalCodeIsRequired = errs.NewValueIsRequiredError("external code")
	// ErrCapacityIsRequired is returned when attempting to create a vehicle with invalid capacity (<=0).
	ErrCapacityIsRequired = errs.NewValueIsRequiredError("capacity")
	// ErrVehicleIsNotConstructed is returned when using an improperly initialized Vehicle.
	ErrVehicleIsNotConstructed = errors.New("Vehicle must be created via NewVehicle constructor")
	// ErrVehicleIsInactive is returned when mutating a deactivated vehicle.
	ErrVehicleIsInactive = errs.NewValueIsInvalidError("vehicle is inactive")
)

// Vehicle represents a fleet vehicle in the dispatch system.
// It is an aggregate root that manages vehicle identity, operational status,
// position and the binding to its active delivery.
//
// Key responsibilities:
//   - Managing vehicle identity (ID, external fleet code, kind, capacity, driver)
//   - Enforcing the dispatch status cycle and its delivery-binding preconditions
//   - Tracking the vehicle's position and the strictly increasing lastUpdated clock
//   - Carrying the optimistic concurrency version used by the persistence layer
//
// Business rules:
//   - Only available active vehicles accept a new delivery
//   - A vehicle carries at most one active delivery at a time
//   - Manual status changes advance the dispatch cycle one step at a time
//   - Every mutation advances lastUpdated strictly beyond its previous value
type Vehicle struct {
	// id uniquely identifies the vehicle
	id kernel.UUID
	// externalCode is the human-facing fleet code, unique across the fleet
	externalCode string
	// kind classifies the vehicle body type
	kind Kind
	// capacity is the maximum load in kilograms
	capacity int
	// status is the current position in the dispatch cycle
	status Status
	// location is the last reported position of the vehicle
	location kernel.GeoPoint
	// driverID identifies the driver operating the vehicle
	driverID kernel.UUID
	// currentDeliveryID points at the active delivery, nil when idle
	currentDeliveryID *kernel.UUID
	// lastUpdated is the strictly increasing modification timestamp
	lastUpdated time.Time
	// active is false once the vehicle has been retired from the fleet
	active bool
	// persistedVersion is the version loaded from storage, 0 for new vehicles
	persistedVersion int64
	// version is the version the next save will write
	version int64
	// guard ensures the vehicle was properly constructed
	guard guard.ConstructorGuard
}

// NewVehicle creates a new Vehicle with the specified parameters.
// This is the only way to create a valid fresh Vehicle instance.
//
// The vehicle starts available, active, without a delivery, at version 1.
//
// Parameters:
//   - id: Unique identifier for the vehicle (must be valid UUID)
//   - externalCode: Fleet code (must be non-empty)
//   - kind: Body type (must be a valid Kind)
//   - capacity: Maximum load in kilograms (must be positive)
//   - location: Initial position (must be a valid GeoPoint)
//   - driverID: Identifier of the operating driver (must be valid UUID)
//   - now: Creation time used to initialize lastUpdated
//
// Returns:
//   - *Vehicle: A fully initialized vehicle ready for dispatch
//   - error: Validation error if any parameter is invalid (aggregated errors for multiple issues)
func NewVehicle(
	id kernel.UUID,
	externalCode string,
	kind Kind,
	capacity int,
	location kernel.GeoPoint,
	driverID kernel.UUID,
	now time.Time,
) (*Vehicle, error) {
	vehicle := &Vehicle{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		vehicle.setID(id),
		vehicle.setExternalCode(externalCode),
		vehicle.setKind(kind),
		vehicle.setCapacity(capacity),
		vehicle.setLocation(location),
		vehicle.setDriverID(driverID),
	); err != nil {
		return nil, err
	}

	vehicle.status = StatusAvailable
	vehicle.active = true
	vehicle.lastUpdated = now
	vehicle.persistedVersion = 0
	vehicle.version = 1

	return vehicle, nil
}

// RestoreVehicle reconstructs a Vehicle aggregate from persistent storage.
// Unlike NewVehicle which creates fresh vehicles, this constructor restores
// a vehicle to its previously persisted state, including its status, delivery
// binding and stored version.
//
// The restored vehicle behaves identically to one created through normal
// domain operations. The stored version becomes both the persisted version
// (used as the compare value of the CAS update) and the current version
// until a mutation bumps it.
func RestoreVehicle(
	id kernel.UUID,
	externalCode string,
	kind Kind,
	capacity int,
	status Status,
	location kernel.GeoPoint,
	driverID kernel.UUID,
	currentDeliveryID *kernel.UUID,
	lastUpdated time.Time,
	active bool,
	version int64,
) (*Vehicle, error) {
	vehicle := &Vehicle{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		vehicle.setID(id),
		vehicle.setExternalCode(externalCode),
		vehicle.setKind(kind),
		vehicle.setCapacity(capacity),
		vehicle.setStatus(status),
		vehicle.setLocation(location),
		vehicle.setDriverID(driverID),
		vehicle.setCurrentDeliveryID(currentDeliveryID),
		vehicle.setVersion(version),
	); err != nil {
		return nil, err
	}

	vehicle.lastUpdated = lastUpdated
	vehicle.active = active

	return vehicle, nil
}

// IsEqual compares two vehicles for equality based on their unique identifiers.
func (v *Vehicle) IsEqual(other *Vehicle) bool {
	if other == nil {
		return false
	}
	return v.id.IsEqual(other.id)
}

// Validate checks if the Vehicle was properly constructed using a constructor.
// The zero value of Vehicle is invalid and will fail this validation.
func (v *Vehicle) Validate() error {
	if v == nil {
		return ErrVehicleIsNotConstructed
	}
	return v.guard.Validate(ErrVehicleIsNotConstructed)
}

// ID returns the unique identifier of the vehicle.
func (v *Vehicle) ID() kernel.UUID {
	return v.id
}

// ExternalCode returns the human-facing fleet code of the vehicle.
func (v *Vehicle) ExternalCode() string {
	return v.externalCode
}

// Kind returns the body type of the vehicle.
func (v *Vehicle) Kind() Kind {
	return v.kind
}

// Capacity returns the maximum load of the vehicle in kilograms.
func (v *Vehicle) Capacity() int {
	return v.capacity
}

// Status returns the current position of the vehicle in the dispatch cycle.
func (v *Vehicle) Status() Status {
	return v.status
}

// Location returns the last reported position of the vehicle.
func (v *Vehicle) Location() kernel.GeoPoint {
	return v.location
}

// DriverID returns the identifier of the driver operating the vehicle.
func (v *Vehicle) DriverID() kernel.UUID {
	return v.driverID
}

// CurrentDeliveryID returns the identifier of the active delivery bound to
// the vehicle, or nil when the vehicle carries no delivery.
func (v *Vehicle) CurrentDeliveryID() *kernel.UUID {
	if v.currentDeliveryID == nil {
		return nil
	}
	id := *v.currentDeliveryID
	return &id
}

// LastUpdated returns the modification timestamp of the vehicle.
// Every mutation advances it strictly beyond its previous value, so two
// states of the same vehicle never share a timestamp.
func (v *Vehicle) LastUpdated() time.Time {
	return v.lastUpdated
}

// IsActive reports whether the vehicle is part of the active fleet.
func (v *Vehicle) IsActive() bool {
	return v.active
}

// Version returns the version the next save will write.
func (v *Vehicle) Version() int64 {
	return v.version
}

// PersistedVersion returns the version the aggregate was loaded with.
// It is the compare value of the optimistic concurrency check and is 0
// for vehicles that have never been saved.
func (v *Vehicle) PersistedVersion() int64 {
	return v.persistedVersion
}

// AssignDelivery binds a delivery to the vehicle and moves it to Assigned.
//
// Business rules:
//   - The vehicle must be active
//   - The vehicle must be available; any other status means it is already
//     engaged and results in a VehicleUnavailableError
//
// State changes:
//   - currentDeliveryID is set to the delivery
//   - status becomes StatusAssigned
//   - lastUpdated and version advance
func (v *Vehicle) AssignDelivery(deliveryID kernel.UUID, now time.Time) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}
	if !v.active {
		return ErrVehicleIsInactive
	}
	if v.status != StatusAvailable {
		return errs.NewVehicleUnavailableError(v.id.String(), v.status.String())
	}

	v.currentDeliveryID = &deliveryID
	v.status = StatusAssigned
	v.touch(now)
	return nil
}

// Release detaches the vehicle from its delivery and returns it to Available.
// It is invoked when the bound delivery reaches a terminal state.
//
// Valid starting statuses are Assigned, EnRoute and Delivering. Releasing
// from any other status results in an InvalidTransitionError.
func (v *Vehicle) Release(now time.Time) error {
	if v.status != StatusAssigned && v.status != StatusEnRoute && v.status != StatusDelivering {
		return errs.NewInvalidTransitionError("vehicle status", v.status.String(), StatusAvailable.String())
	}

	v.currentDeliveryID = nil
	v.status = StatusAvailable
	v.touch(now)
	return nil
}

// ChangeStatus performs a manual, driver-initiated status change.
//
// Business rules:
//   - The vehicle must be active
//   - The transition must advance the dispatch cycle exactly one step
//   - A target status that requires a delivery (assigned, en-route,
//     delivering) demands a bound delivery; a target that does not
//     (available, returning) demands none
//
// The delivery binding itself is never changed here. Binding happens in
// AssignDelivery and unbinding in Release.
func (v *Vehicle) ChangeStatus(target Status, now time.Time) error {
	if !v.active {
		return ErrVehicleIsInactive
	}

	next, err := v.status.TransitionTo(target)
	if err != nil {
		return err
	}

	if next.RequiresDelivery() && v.currentDeliveryID == nil {
		return errs.NewInvalidTransitionErrorWithCause("vehicle status",
			v.status.String(), target.String(),
			errors.New("no delivery is bound to the vehicle"))
	}
	if !next.RequiresDelivery() && v.currentDeliveryID != nil {
		return errs.NewInvalidTransitionErrorWithCause("vehicle status",
			v.status.String(), target.String(),
			errors.New("a delivery is still bound to the vehicle"))
	}

	v.status = next
	v.touch(now)
	return nil
}

// MoveTo updates the reported position of the vehicle.
// Location updates are allowed in every status of an active vehicle.
func (v *Vehicle) MoveTo(location kernel.GeoPoint, now time.Time) error {
	if !v.active {
		return ErrVehicleIsInactive
	}
	if err := v.setLocation(location); err != nil {
		return err
	}

	v.touch(now)
	return nil
}

// Deactivate retires the vehicle from the active fleet.
//
// A vehicle still bound to a delivery cannot be retired; release it first.
// Deactivating an already inactive vehicle is a no-op error.
func (v *Vehicle) Deactivate(now time.Time) error {
	if !v.active {
		return ErrVehicleIsInactive
	}
	if v.currentDeliveryID != nil {
		return errs.NewVehicleUnavailableError(v.id.String(), v.status.String())
	}

	v.active = false
	v.touch(now)
	return nil
}

// touch advances the modification clock and the optimistic concurrency
// version. lastUpdated moves to now, or one millisecond past its previous
// value when now does not move it forward, keeping the clock strictly
// monotonic even under coarse system clocks.
func (v *Vehicle) touch(now time.Time) {
	floor := v.lastUpdated.Add(time.Millisecond)
	if now.After(floor) {
		v.lastUpdated = now
	} else {
		v.lastUpdated = floor
	}
	v.version = v.persistedVersion + 1
}

// setID sets the vehicle's unique identifier with validation.
// This is an internal setter used during vehicle construction.
func (v *Vehicle) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	v.id = id
	return nil
}

// setExternalCode sets the fleet code with validation.
// This is an internal setter used during vehicle construction.
func (v *Vehicle) setExternalCode(externalCode string) error {
	if externalCode == "" {
		return ErrExternalCodeIsRequired
	}

	v.externalCode = externalCode
	return nil
}

// setKind sets the vehicle kind with validation.
// This is an internal setter used during vehicle construction.
func (v *Vehicle) setKind(kind Kind) error {
	if err := kind.Validate(); err != nil {
		return err
	}

	v.kind = kind
	return nil
}

// setCapacity sets the load capacity with validation.
// This is an internal setter used during vehicle construction.
func (v *Vehicle) setCapacity(capacity int) error {
	if capacity <= 0 {
		return ErrCapacityIsRequired
	}

	v.capacity = capacity
	return nil
}

// setStatus sets the dispatch status with validation.
// This is an internal setter used during vehicle restoration.
func (v *Vehicle) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}

	v.status = status
	return nil
}

// setLocation sets the vehicle's position with validation.
// This is an internal setter used during construction and movement.
func (v *Vehicle) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}

	v.location = location
	return nil
}

// setDriverID sets the operating driver with validation.
// This is an internal setter used during vehicle construction.
func (v *Vehicle) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("driver id", err)
	}

	v.driverID = driverID
	return nil
}

// setCurrentDeliveryID sets the delivery binding with validation.
// This is an internal setter used during vehicle restoration.
func (v *Vehicle) setCurrentDeliveryID(deliveryID *kernel.UUID) error {
	if deliveryID == nil {
		v.currentDeliveryID = nil
		return nil
	}
	if err := deliveryID.Validate(); err != nil {
		return err
	}

	id := *deliveryID
	v.currentDeliveryID = &id
	return nil
}

// setVersion sets the stored version with validation.
// This is an internal setter used during vehicle restoration.
func (v *Vehicle) setVersion(version int64) error {
	if version < 1 {
		return errs.NewValueIsInvalidError("version")
	}

	v.persistedVersion = version
	v.version = version
	return nil
}
