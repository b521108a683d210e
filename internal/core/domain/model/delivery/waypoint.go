package delivery

import (
	"errors"

	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/pkg/errs"
	"fleet/internal/pkg/guard"
)

// ErrWaypointIsNotConstructed is returned when attempting to use an
// improperly initialized Waypoint. Waypoints must be created using the
// NewWaypoint constructor to ensure validity.
var ErrWaypointIsNotConstructed = errs.NewValueIsRequiredError(
	"waypoint must be created via NewWaypoint constructor")

// Waypoint is a stop on a delivery route: a human-readable address paired
// with its geographic position. It is an immutable value object used for
// both the pickup and the dropoff end of a delivery.
type Waypoint struct { //nolint:recvcheck //using for validation
	address  string
	location kernel.GeoPoint
	guard    guard.ConstructorGuard
}

// NewWaypoint creates a new Waypoint with the specified address and position.
//
// The address must be non-empty and the location must be a properly
// constructed GeoPoint.
func NewWaypoint(address string, location kernel.GeoPoint) (Waypoint, error) {
	waypoint := Waypoint{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		waypoint.setAddress(address),
		waypoint.setLocation(location),
	); err != nil {
		return Waypoint{}, err
	}

	return waypoint, nil
}

// Validate checks if the Waypoint was properly constructed using the constructor.
// The zero value of Waypoint is invalid and will fail this validation.
func (w Waypoint) Validate() error {
	return w.guard.Validate(ErrWaypointIsNotConstructed)
}

// Address returns the human-readable address of the waypoint.
func (w Waypoint) Address() string {
	return w.address
}

// Location returns the geographic position of the waypoint.
func (w Waypoint) Location() kernel.GeoPoint {
	return w.location
}

func (w *Waypoint) setAddress(address string) error {
	if address == "" {
		return errs.NewValueIsRequiredError("address")
	}
	w.address = address
	return nil
}

func (w *Waypoint) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}
	w.location = location
	return nil
}
