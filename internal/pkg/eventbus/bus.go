// Package eventbus provides the in-process event feed and the entity lock
// table behind the EventPublisher port.
//
// The bus fans committed events out to subscribers over buffered channels.
// Delivery is best effort: a subscriber that stops draining its channel
// loses events instead of stalling publishers. The lock table serializes
// commit-and-publish sections per entity so each entity's publish order
// matches its commit order.
package eventbus

import (
	"log/slog"
	"sort"
	"sync"

	"fleet/internal/core/domain/events"
)

// DefaultBufferSize is the per-subscriber channel capacity used when the
// configured size is not positive.
const DefaultBufferSize = 64

// Bus implements ports.EventPublisher for in-process subscribers.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[uint64]chan events.Event
	nextID      uint64
	closed      bool
	bufferSize  int
	logger      *slog.Logger

	lockMu sync.Mutex
	locks  map[string]*entityLock
}

type entityLock struct {
	mu   sync.Mutex
	refs int
}

// NewBus creates a bus whose subscribers each get a channel with the given
// buffer capacity.
func NewBus(bufferSize int, logger *slog.Logger) *Bus {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Bus{
		subscribers: make(map[uint64]chan events.Event),
		bufferSize:  bufferSize,
		logger:      logger.With("component", "eventbus"),
		locks:       make(map[string]*entityLock),
	}
}

// Subscribe registers a new subscriber and returns its event channel
// together with an unsubscribe function. The channel is closed on
// unsubscribe and when the bus shuts down. Unsubscribing twice is safe.
func (b *Bus) Subscribe() (<-chan events.Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan events.Event, b.bufferSize)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subscribers[id] = ch

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subscribers[id]; ok {
			delete(b.subscribers, id)
			close(sub)
		}
	}
}

// Publish delivers the event to every subscriber whose channel has room.
// Events for subscribers with a full channel are dropped.
func (b *Bus) Publish(event events.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	for id, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			b.logger.Warn("dropping event for slow subscriber",
				"subscriber", id,
				"entityKind", event.EntityKind,
				"entityId", event.EntityID,
				"eventKind", event.Kind)
		}
	}
}

// Close shuts the bus down, closing all subscriber channels. Publishes
// after Close are ignored.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subscribers {
		delete(b.subscribers, id)
		close(ch)
	}
}

// LockEntities acquires one lock per distinct key, always in sorted key
// order so overlapping lock sets cannot deadlock. The returned function
// releases the locks in reverse order.
func (b *Bus) LockEntities(keys ...string) func() {
	distinct := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		distinct = append(distinct, key)
	}
	sort.Strings(distinct)

	acquired := make([]*entityLock, 0, len(distinct))
	for _, key := range distinct {
		lock := b.retain(key)
		lock.mu.Lock()
		acquired = append(acquired, lock)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			for i := len(acquired) - 1; i >= 0; i-- {
				acquired[i].mu.Unlock()
				b.release(distinct[i])
			}
		})
	}
}

func (b *Bus) retain(key string) *entityLock {
	b.lockMu.Lock()
	defer b.lockMu.Unlock()

	lock, ok := b.locks[key]
	if !ok {
		lock = &entityLock{}
		b.locks[key] = lock
	}
	lock.refs++
	return lock
}

func (b *Bus) release(key string) {
	b.lockMu.Lock()
	defer b.lockMu.Unlock()

	lock, ok := b.locks[key]
	if !ok {
		return
	}
	lock.refs--
	if lock.refs == 0 {
		delete(b.locks, key)
	}
}
