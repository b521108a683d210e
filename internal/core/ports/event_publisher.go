package ports

import (
	"fleet/internal/core/domain/events"
)

// EventPublisher is the outbound feed of committed state changes.
//
// Handlers publish exactly one event per committed mutation, after the
// storage transaction completes. To keep per-entity publish order equal to
// commit order, a handler takes the entity locks before opening its
// transaction and holds them until the publish returns.
type EventPublisher interface {
	// Publish delivers an event to all current subscribers.
	// Publishing never blocks on a slow subscriber.
	Publish(event events.Event)

	// LockEntities serializes commit-and-publish sections touching the
	// same entities. Keys identify entities across kinds (for example
	// "vehicle/<id>"). Keys are acquired in a stable order regardless of
	// the order given, so two callers locking overlapping sets cannot
	// deadlock. The returned function releases the locks.
	LockEntities(keys ...string) func()
}
