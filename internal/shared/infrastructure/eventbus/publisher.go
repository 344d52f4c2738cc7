// Package eventbus carries roster domain events to interested consumers,
// typically the notification and statistics services.
package eventbus

import "context"

// Publisher publishes serialized domain events under a routing key.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
	Close() error
}
