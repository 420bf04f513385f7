package realtime

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// redisChannel is the pub/sub channel every instance shares
const redisChannel = "quotedesk.realtime"

// envelope is the wire format relayed between instances. The origin ID
// lets an instance skip its own messages, which Redis echoes back.
type envelope struct {
	Origin  string          `json:"origin"`
	Room    string          `json:"room"`
	Payload json.RawMessage `json:"payload"`
}

// RedisBridge extends a Hub across instances via Redis pub/sub. Local
// delivery always happens; the Redis leg is best-effort and a publish
// failure is logged, never surfaced.
type RedisBridge struct {
	hub      *Hub
	client   *redis.Client
	originID string
	logger   *zap.Logger
	cancel   context.CancelFunc
}

// NewRedisBridge creates a bridge around the given hub
func NewRedisBridge(hub *Hub, client *redis.Client, logger *zap.Logger) *RedisBridge {
	return &RedisBridge{
		hub:      hub,
		client:   client,
		originID: uuid.New().String(),
		logger:   logger,
	}
}

// Start begins relaying remote events into the local hub
func (b *RedisBridge) Start(ctx context.Context) {
	ctx, b.cancel = context.WithCancel(ctx)
	pubsub := b.client.Subscribe(ctx, redisChannel)

	go func() {
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
				b.relay(msg.Payload)
			}
		}
	}()

	b.logger.Info("realtime redis bridge started", zap.String("channel", redisChannel))
}

// Stop stops the relay goroutine
func (b *RedisBridge) Stop() {
	if b.cancel != nil {
		b.cancel()
	}
}

// Publish fans out locally and relays the event to the other instances
func (b *RedisBridge) Publish(room string, payload any) {
	b.hub.Publish(room, payload)

	raw, err := json.Marshal(payload)
	if err != nil {
		b.logger.Warn("failed to encode realtime event for redis",
			zap.String("room", room), zap.Error(err))
		return
	}
	data, err := json.Marshal(envelope{Origin: b.originID, Room: room, Payload: raw})
	if err != nil {
		b.logger.Warn("failed to encode realtime envelope",
			zap.String("room", room), zap.Error(err))
		return
	}

	if err := b.client.Publish(context.Background(), redisChannel, data).Err(); err != nil {
		b.logger.Warn("failed to relay realtime event to redis",
			zap.String("room", room), zap.Error(err))
	}
}

// relay delivers a remote envelope into the local hub, skipping our own
func (b *RedisBridge) relay(payload string) {
	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		b.logger.Warn("dropping malformed realtime envelope", zap.Error(err))
		return
	}
	if env.Origin == b.originID {
		return
	}
	b.hub.Publish(env.Room, env.Payload)
}
