// Package bridge delivers finished order payloads to the bot side. The Mini
// App also receives the payload in the checkout response and forwards it over
// Telegram.WebApp.sendData; the publisher here is the server-side intake.
package bridge

import (
	"context"

	"github.com/maxchamiec/BakeryMiniAppServer/internal/domain"
)

// Publisher hands an order payload to the transport. Consumers define this
// interface, not the kafka implementation.
type Publisher interface {
	Publish(ctx context.Context, key string, payload domain.OrderPayload) error
}

// NopPublisher discards payloads, for deployments where the Mini App's
// sendData path is the only transport.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, domain.OrderPayload) error {
	return nil
}
