// Package notify publishes fire-and-forget events on Redis pub/sub channels.
// Delivery is best-effort by contract: callers log a failed publish and move
// on, it never fails the primary operation.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// channelPrefix namespaces this subsystem's events.
const channelPrefix = "matching."

// Notifier publishes JSON events.
type Notifier struct {
	rdb *redis.Client
	now func() time.Time
}

// New wraps an already-connected Redis client.
func New(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb, now: time.Now}
}

// Notify publishes the payload (with an injected event name and timestamp)
// on the event's channel.
func (n *Notifier) Notify(ctx context.Context, event string, payload any) error {
	body, err := json.Marshal(map[string]any{
		"event":   event,
		"at":      n.now().UTC().Format(time.RFC3339),
		"payload": payload,
	})
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event, err)
	}
	if err := n.rdb.Publish(ctx, channelPrefix+event, body).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", event, err)
	}
	return nil
}
