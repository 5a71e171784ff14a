// Package notify mirrors lifecycle events to a RabbitMQ fanout
// exchange for dashboards running outside this process. The in-process
// bus stays the source of truth; the relay is just one more subscriber
// and its failures never block publication.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"foodflow/internal/common/logger"
	"foodflow/internal/connections/rabbitmq"
	"foodflow/internal/domain"
	"foodflow/internal/eventbus"
)

type Publisher interface {
	Publish(ctx context.Context, exchange, key string, body []byte) error
}

type Relay struct {
	pub         Publisher
	lg          *logger.Logger
	unsubscribe func()
}

const publishTTL = 5 * time.Second

// Start subscribes the relay to the bus; call Stop to detach it.
func Start(bus *eventbus.Bus, pub Publisher, lg *logger.Logger) *Relay {
	r := &Relay{pub: pub, lg: lg}
	r.unsubscribe = bus.Subscribe(r.forward)
	return r
}

func (r *Relay) forward(evt domain.Event) {
	body, err := json.Marshal(evt)
	if err != nil {
		r.lg.Error("relay_marshal_failed", err, map[string]any{"event": evt.Name})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTTL)
	defer cancel()
	if err := r.pub.Publish(ctx, rabbitmq.FanoutExchange, "", body); err != nil {
		r.lg.Error("relay_publish_failed", err, map[string]any{"event": evt.Name})
	}
}

func (r *Relay) Stop() {
	if r.unsubscribe != nil {
		r.unsubscribe()
	}
}
