package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Event types pushed to the SPA.
const (
	EventUserUpdated  = "user.updated"
	EventRandomReward = "reward.random"
	EventOfferExpired = "offer.expired"
	EventFeedUpdated  = "feed.updated"
)

var errSubscriberBehind = errors.New("services: event subscriber fell behind")

// EventsChannel is the Redis channel companion instances relay events on.
const EventsChannel = "innerbloom:events"

// Event is the payload broadcast over WebSocket and Redis.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Screen    string    `json:"screen,omitempty"`
	Feed      string    `json:"feed,omitempty"`
	Data      any       `json:"data,omitempty"`
	Origin    string    `json:"origin,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// EventConn is the minimal interface a WebSocket connection must satisfy.
type EventConn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// subscriberBuffer bounds the events queued for one connection. A subscriber
// that falls this far behind is dropped.
const subscriberBuffer = 32

// subscriber owns one connection. Its writer goroutine drains send so a slow
// connection never blocks Publish.
type subscriber struct {
	conn EventConn
	send chan Event
	done chan struct{}
	stop sync.Once
}

func (s *subscriber) halt() {
	s.stop.Do(func() { close(s.done) })
}

// EventHub fans events out to every registered connection. With a Redis
// client, events published on one instance reach subscribers of all
// instances.
type EventHub struct {
	logger   *zap.Logger
	redis    *redis.Client
	instance string

	mu    sync.RWMutex
	conns map[string]*subscriber

	relayOnce sync.Once
}

// NewEventHub creates a hub. client may be nil for a single instance.
func NewEventHub(client *redis.Client, logger *zap.Logger) *EventHub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventHub{
		logger:   logger,
		redis:    client,
		instance: uuid.NewString(),
		conns:    make(map[string]*subscriber),
	}
}

// Register adds conn and returns the id to unregister it with.
func (h *EventHub) Register(conn EventConn) string {
	id := uuid.NewString()
	s := &subscriber{
		conn: conn,
		send: make(chan Event, subscriberBuffer),
		done: make(chan struct{}),
	}
	h.mu.Lock()
	h.conns[id] = s
	h.mu.Unlock()
	go h.write(id, s)
	return id
}

// Unregister stops delivery to id. The caller keeps ownership of the
// connection.
func (h *EventHub) Unregister(id string) {
	if s := h.remove(id); s != nil {
		s.halt()
	}
}

func (h *EventHub) remove(id string) *subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.conns[id]
	if !ok {
		return nil
	}
	delete(h.conns, id)
	return s
}

// drop unregisters id and closes its connection, which also unblocks a
// write in progress.
func (h *EventHub) drop(id string, reason error) {
	s := h.remove(id)
	if s == nil {
		return
	}
	h.logger.Debug("dropping event subscriber", zap.String("subscriber", id), zap.Error(reason))
	s.halt()
	s.conn.Close()
}

func (h *EventHub) write(id string, s *subscriber) {
	for {
		select {
		case <-s.done:
			return
		case e := <-s.send:
			if err := s.conn.WriteJSON(e); err != nil {
				h.drop(id, err)
				return
			}
		}
	}
}

// Subscribers counts registered connections.
func (h *EventHub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Publish delivers e locally and relays it to other instances.
func (h *EventHub) Publish(ctx context.Context, e Event) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	e.Origin = h.instance
	h.fanOut(e)

	if h.redis == nil {
		return
	}
	data, err := json.Marshal(e)
	if err != nil {
		h.logger.Warn("encoding event failed", zap.String("type", e.Type), zap.Error(err))
		return
	}
	if err := h.redis.Publish(ctx, EventsChannel, data).Err(); err != nil {
		h.logger.Warn("relaying event failed", zap.String("type", e.Type), zap.Error(err))
	}
}

// fanOut queues e for every connection without blocking. A connection whose
// queue is full is closed and dropped.
func (h *EventHub) fanOut(e Event) {
	h.mu.RLock()
	subs := make(map[string]*subscriber, len(h.conns))
	for id, s := range h.conns {
		subs[id] = s
	}
	h.mu.RUnlock()

	for id, s := range subs {
		select {
		case s.send <- e:
		default:
			h.drop(id, errSubscriberBehind)
		}
	}
}

// StartRelay subscribes to events from other instances until ctx ends. It is
// a no-op without Redis, and only the first call starts a listener.
func (h *EventHub) StartRelay(ctx context.Context) {
	if h.redis == nil {
		return
	}
	h.relayOnce.Do(func() {
		go h.runRelay(ctx)
	})
}

func (h *EventHub) runRelay(ctx context.Context) {
	backoff := time.Second
	for ctx.Err() == nil {
		func() {
			pubsub := h.redis.Subscribe(ctx, EventsChannel)
			defer pubsub.Close()
			h.logger.Info("event relay subscribed", zap.String("channel", EventsChannel))

			for {
				msg, err := pubsub.ReceiveMessage(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					h.logger.Warn("event relay receive failed", zap.Duration("retry_in", backoff), zap.Error(err))
					select {
					case <-ctx.Done():
					case <-time.After(backoff):
					}
					backoff = min(2*backoff, 30*time.Second)
					return
				}
				backoff = time.Second

				var e Event
				if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
					h.logger.Warn("decoding relayed event failed", zap.Error(err))
					continue
				}
				if e.Origin == h.instance {
					continue
				}
				h.fanOut(e)
			}
		}()
	}
}
