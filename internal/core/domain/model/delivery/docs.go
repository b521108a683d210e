// Package delivery implements the Delivery aggregate of the fleet domain.
//
// A Delivery owns its lifecycle status, route, recipient, the binding to the
// vehicle and driver that fulfill it, the actual pickup and delivery times
// and the one-shot proof-of-delivery evidence. All state changes go through
// the aggregate's methods, which enforce the forward-only fulfillment
// machine and the exactly-once rules for timestamps and proof.
//
// The package also provides the Status and Priority value objects with
// their wire-format string representations, and the Waypoint, Customer
// and ProofOfDelivery value objects.
package delivery
