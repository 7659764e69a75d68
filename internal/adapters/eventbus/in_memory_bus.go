package eventbus

import (
	"MasarWeb/internal/core/ports"
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// InMemoryBus fans events out to subscribers on their own goroutines.
type InMemoryBus struct {
	log         zerolog.Logger
	subscribers map[string][]ports.EventHandler
	mu          sync.RWMutex
	inflight    sync.WaitGroup
}

var _ ports.EventBus = (*InMemoryBus)(nil)

func NewInMemoryBus(baseLogger *zerolog.Logger) *InMemoryBus {
	return &InMemoryBus{
		log:         baseLogger.With().Str("component", "event_bus").Logger(),
		subscribers: make(map[string][]ports.EventHandler),
	}
}

// Publish never blocks on handlers and never fails the publisher.
func (b *InMemoryBus) Publish(ctx context.Context, topic string, data interface{}) error {
	b.mu.RLock()
	handlers := append([]ports.EventHandler(nil), b.subscribers[topic]...)
	b.mu.RUnlock()

	if len(handlers) == 0 {
		b.log.Debug().Str("topic", topic).Msg("Published event with no subscribers")
		return nil
	}

	event := ports.Event{Topic: topic, Data: data}
	// Handlers outlive the request that published the event.
	hctx := context.WithoutCancel(ctx)

	for _, handler := range handlers {
		b.inflight.Add(1)
		go func(h ports.EventHandler) {
			defer b.inflight.Done()
			defer func() {
				if r := recover(); r != nil {
					b.log.Error().Interface("panic", r).Str("topic", topic).Msg("Event handler panicked")
				}
			}()
			if err := h(hctx, event); err != nil {
				b.log.Error().Err(err).Str("topic", topic).Msg("Event handler failed")
			}
		}(handler)
	}

	b.log.Debug().Str("topic", topic).Int("handlers", len(handlers)).Msg("Event published")
	return nil
}

func (b *InMemoryBus) Subscribe(topic string, handler ports.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subscribers[topic] = append(b.subscribers[topic], handler)
	b.log.Info().Str("topic", topic).Msg("Handler subscribed")
}

// Wait blocks until every handler started so far has returned.
func (b *InMemoryBus) Wait() {
	b.inflight.Wait()
}
