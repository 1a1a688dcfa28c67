package websocket

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// Fanout bridges the single-process registry to a redis pub/sub channel so
// multiple nodes can share a user's session. Every node subscribes; a push
// is published once and each node delivers to whatever local connection it
// holds. Without redis the registry is used directly and nothing changes.

const fanoutChannel = "realtime:push"

type fanoutFrame struct {
	UserID   string          `json:"user_id"`
	Envelope json.RawMessage `json:"envelope"`
}

type Fanout struct {
	registry *Registry
	rdb      *redis.Client
}

func NewFanout(registry *Registry, rdb *redis.Client) *Fanout {
	return &Fanout{registry: registry, rdb: rdb}
}

// Push publishes the event for every node, including this one. The boolean
// reflects local delivery state only; remote nodes deliver on their own.
func (f *Fanout) Push(userID, eventType string, body interface{}) bool {
	data, err := NewEnvelope(eventType, body).ToJSON()
	if err != nil {
		return false
	}
	frame, err := json.Marshal(fanoutFrame{UserID: userID, Envelope: data})
	if err != nil {
		slog.Error("Failed to marshal fanout frame", "error", err)
		return false
	}
	if err := f.rdb.Publish(context.Background(), fanoutChannel, frame).Err(); err != nil {
		slog.Warn("fanout publish failed, delivering locally", "error", err)
		return f.registry.pushRaw(userID, data)
	}
	return f.registry.IsOnline(userID)
}

// Run consumes the channel until ctx is cancelled. Frames published by this
// node come back through here too; that is the only local delivery path.
func (f *Fanout) Run(ctx context.Context) {
	pubsub := f.rdb.Subscribe(ctx, fanoutChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var frame fanoutFrame
			if err := json.Unmarshal([]byte(msg.Payload), &frame); err != nil {
				slog.Warn("dropping malformed fanout frame", "error", err)
				continue
			}
			f.registry.pushRaw(frame.UserID, frame.Envelope)
		}
	}
}
