package ports

import (
	"fleet/internal/core/domain/model/delivery"
	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/model/vehicle"
)

// AuthorizationGuard decides whether a principal may perform a mutation.
// Every command handler consults it after loading the target aggregate and
// before applying the domain change; a NotAuthorizedError aborts the
// command without touching storage.
//
// Access rules:
//   - dispatcher operations (creating vehicles and deliveries, retiring
//     vehicles) are restricted to admins
//   - vehicle mutations are allowed to admins and to the driver operating
//     that vehicle
//   - position reports are allowed only to the driver operating the
//     vehicle; admins dispatch from a desk and do not report positions
//   - delivery mutations are allowed to admins and to the driver the
//     delivery was dispatched to
//
// Read-side access is narrower in scope and enforced by the queries
// themselves.
type AuthorizationGuard interface {
	// AuthorizeDispatch checks the principal may perform dispatcher-only
	// operations. Returns a NotAuthorizedError for non-admins.
	AuthorizeDispatch(principal kernel.Principal) error

	// AuthorizeVehicle checks the principal may mutate the given vehicle.
	AuthorizeVehicle(principal kernel.Principal, aggregate *vehicle.Vehicle) error

	// AuthorizeVehicleLocation checks the principal may report the given
	// vehicle's position. Only the operating driver passes.
	AuthorizeVehicleLocation(principal kernel.Principal, aggregate *vehicle.Vehicle) error

	// AuthorizeDelivery checks the principal may mutate the given delivery.
	AuthorizeDelivery(principal kernel.Principal, aggregate *delivery.Delivery) error
}
