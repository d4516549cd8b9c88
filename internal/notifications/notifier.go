// Package notifications fans activity events out to websocket clients
// through Redis pub/sub, so every API instance sees every event.
package notifications

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const eventChannelPrefix = "events:"

// Event is one item on the live activity feed.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
	At      time.Time       `json:"at"`
}

// Notifier publishes activity events into Redis channels. A nil client
// degrades to a no-op so the API keeps working without Redis.
type Notifier struct {
	rdb *redis.Client
}

func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishEvent sends one event to its channel. Best effort: callers treat
// a publish failure as a log line, never as a request failure.
func (n *Notifier) PublishEvent(ctx context.Context, eventType string, payload any) error {
	if n.rdb == nil {
		return nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	event, err := json.Marshal(Event{Type: eventType, Payload: raw, At: time.Now().UTC()})
	if err != nil {
		return err
	}
	return n.rdb.Publish(ctx, eventChannelPrefix+eventType, event).Err()
}

// StartEventSubscriber subscribes to the `events:*` pattern and calls
// onMessage for each incoming message until ctx is done.
func (n *Notifier) StartEventSubscriber(ctx context.Context, onMessage func(channel, payload string)) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, eventChannelPrefix+"*")
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				onMessage(msg.Channel, msg.Payload)
			}
		}
	}()

	return nil
}

// EventTypeFromChannel recovers the event type from a pub/sub channel name.
func EventTypeFromChannel(channel string) string {
	return strings.TrimPrefix(channel, eventChannelPrefix)
}
