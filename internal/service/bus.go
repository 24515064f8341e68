package service

import (
	"sync"

	"go.uber.org/zap"
)

const defaultSubscriberBuffer = 16

// Bus fans outcomes out to subscribers. A subscriber that falls behind
// misses outcomes instead of blocking the engine.
type Bus struct {
	logger *zap.Logger

	mu     sync.RWMutex
	nextID int
	subs   map[int]chan Outcome
}

// NewBus creates an empty Bus.
func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		logger: logger.Named("outcome_bus"),
		subs:   make(map[int]chan Outcome),
	}
}

// Subscribe registers a subscriber. The returned func unsubscribes and
// closes the channel.
func (b *Bus) Subscribe(buffer int) (<-chan Outcome, func()) {
	if buffer <= 0 {
		buffer = defaultSubscriberBuffer
	}
	ch := make(chan Outcome, buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Publish delivers o to every subscriber with room for it.
func (b *Bus) Publish(o Outcome) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for id, ch := range b.subs {
		select {
		case ch <- o:
		default:
			b.logger.Warn("dropping outcome for slow subscriber",
				zap.Int("subscriber", id), zap.String("outcome", o.ID.String()))
		}
	}
}
