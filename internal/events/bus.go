package events

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
)

// DefaultCapacity bounds the number of retained decisions.
const DefaultCapacity = 500

// Sink receives fire-and-forget notifications for connected observers.
// Delivery is best-effort, at-most-once; the transport owns the rest.
type Sink interface {
	Decision(decision domain.AccessDecision)
	RegistrationFeedback(message string)
	RegistrationStatus(status string, payload map[string]any)
}

// NopSink discards every notification.
type NopSink struct{}

func (NopSink) Decision(domain.AccessDecision)            {}
func (NopSink) RegistrationFeedback(string)               {}
func (NopSink) RegistrationStatus(string, map[string]any) {}

// Bus is a raw append log of access decisions with bounded retention:
// newest first, truncated at capacity, no deduplication or filtering.
// Every published decision is also pushed to the sink.
type Bus struct {
	mu       sync.Mutex
	entries  []domain.AccessDecision
	capacity int
	sink     Sink
	clock    func() time.Time
}

// NewBus creates a bus with the default capacity.
func NewBus(sink Sink) *Bus {
	return &Bus{
		capacity: DefaultCapacity,
		sink:     sink,
		clock:    time.Now,
	}
}

// WithCapacity overrides the retention cap.
func (b *Bus) WithCapacity(capacity int) *Bus {
	b.capacity = capacity
	return b
}

// WithClock overrides the timestamp source.
func (b *Bus) WithClock(clock func() time.Time) *Bus {
	b.clock = clock
	return b
}

// Publish appends a decision to the front of the log and pushes it to
// the sink. The timestamp and ID are assigned here if the decision does
// not already carry them; the stored decision is returned.
func (b *Bus) Publish(decision domain.AccessDecision) domain.AccessDecision {
	if decision.Timestamp.IsZero() {
		decision.Timestamp = b.clock()
	}
	if decision.ID == "" {
		decision.ID = uuid.New().String()
	}

	b.mu.Lock()
	b.entries = append([]domain.AccessDecision{decision}, b.entries...)
	if len(b.entries) > b.capacity {
		b.entries = b.entries[:b.capacity]
	}
	b.mu.Unlock()

	b.sink.Decision(decision)
	return decision
}

// Recent returns a copy of the retained decisions, newest first.
func (b *Bus) Recent() []domain.AccessDecision {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]domain.AccessDecision, len(b.entries))
	copy(out, b.entries)
	return out
}

// Len returns the number of retained decisions.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}
