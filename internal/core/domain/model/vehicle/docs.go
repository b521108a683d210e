// Package vehicle implements the Vehicle aggregate of the fleet domain.
//
// A Vehicle owns its identity, its position in the dispatch status cycle,
// its last reported position and the binding to its active delivery. All
// state changes go through the aggregate's methods, which enforce the
// dispatch cycle, the single-active-delivery rule and the strictly
// increasing modification clock.
//
// The package also provides the Status and Kind value objects with their
// wire-format string representations.
package vehicle
