package event

import (
	"context"
	"log/slog"
	"sync"
)

// Publisher is the coordinator-facing side of the broadcast channel. Tests
// substitute a Recorder; production wires a Bus.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// Bus fans events out to all current subscribers in publish order. Delivery
// is fire-and-forget: a subscriber whose buffer is full has the event
// dropped rather than blocking the publisher.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]chan Event
	nextID int
	closed bool
	logger *slog.Logger
}

// NewBus returns an empty Bus.
func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		subs:   make(map[int]chan Event),
		logger: logger,
	}
}

// Subscribe registers a new subscriber and returns its channel plus a cancel
// function. The channel is closed on cancel or when the bus shuts down.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Event, buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish delivers e to every subscriber without blocking.
func (b *Bus) Publish(ctx context.Context, e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subs {
		select {
		case ch <- e:
		default:
			b.logger.WarnContext(ctx, "dropping event for slow subscriber",
				slog.Int("subscriber", id),
				slog.String("event", string(e.Type)),
			)
		}
	}
}

// Close shuts the bus down and closes all subscriber channels.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

// Recorder is a Publisher that keeps every event in memory, for tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Publish appends e to the recording.
func (r *Recorder) Publish(_ context.Context, e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
