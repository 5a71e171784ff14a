// Package eventbus distributes lifecycle events to in-process
// subscribers. Delivery is synchronous fan-out at publish time with no
// retained history: a listener that subscribes after an event misses it.
package eventbus

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"foodflow/internal/common/logger"
	"foodflow/internal/domain"
)

type Handler func(evt domain.Event)

type Bus struct {
	mu   sync.RWMutex
	subs map[string]Handler
	lg   *logger.Logger
}

func New(lg *logger.Logger) *Bus {
	return &Bus{subs: make(map[string]Handler), lg: lg}
}

// Subscribe registers a listener and returns its revocation func. Each
// subscription is independent; revoking one leaves the rest untouched.
func (b *Bus) Subscribe(fn Handler) (unsubscribe func()) {
	id := uuid.NewString()
	b.mu.Lock()
	b.subs[id] = fn
	b.mu.Unlock()
	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// Publish stamps the payload with the publish time and fans it out to
// every current subscriber. A panicking listener is isolated so it
// cannot block delivery to the others.
func (b *Bus) Publish(name string, payload map[string]any) {
	evt := domain.Event{
		Name:    name,
		TS:      time.Now().UTC(),
		Payload: payload,
	}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs))
	for _, fn := range b.subs {
		handlers = append(handlers, fn)
	}
	b.mu.RUnlock()

	for _, fn := range handlers {
		b.deliver(fn, evt)
	}
}

func (b *Bus) deliver(fn Handler, evt domain.Event) {
	defer func() {
		if r := recover(); r != nil && b.lg != nil {
			b.lg.Error("event_listener_panic", nil, map[string]any{"event": evt.Name, "panic": r})
		}
	}()
	fn(evt)
}

// Close drops all subscribers; the bus lives and dies with the service.
func (b *Bus) Close() {
	b.mu.Lock()
	b.subs = make(map[string]Handler)
	b.mu.Unlock()
}

// Subscribers reports the current subscriber count.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
