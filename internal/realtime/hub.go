package realtime

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

const (
	// PingInterval and PongWait are used for heartbeat (seconds).
	PingInterval = 30
	PongWait     = 60
)

// EventChanged is the only event the feed emits: something in the watched
// collection changed and consumers should re-fetch.
const EventChanged = "changed"

// ChangeEvent is the payload broadcast to watchers. Op carries no semantics
// beyond labeling the mutation kind.
type ChangeEvent struct {
	Collection string `json:"collection"`
	Op         string `json:"op"`
}

// Publisher publishes a change to other instances.
type Publisher interface {
	PublishChange(collection, op string) error
}

// Subscriber subscribes to a collection's change channel and invokes handler
// for incoming ops. The returned cancel stops the subscription.
type Subscriber interface {
	SubscribeChanges(collection string, handler func(op string)) (cancel func(), err error)
}

// Hub maintains collection -> set of WebSocket watchers and fans change
// events out to them. The Redis subscription for a collection is acquired
// when its first watcher connects and released when the last one leaves.
type Hub struct {
	collections map[string]map[string]*Client
	subs        map[string]func()
	mu          sync.RWMutex
	logger      *zap.Logger
	pub         Publisher
	sub         Subscriber
}

// NewHub creates a change-feed hub.
func NewHub(logger *zap.Logger, pub Publisher, sub Subscriber) *Hub {
	return &Hub{
		collections: make(map[string]map[string]*Client),
		subs:        make(map[string]func()),
		logger:      logger,
		pub:         pub,
		sub:         sub,
	}
}

// Register adds a watcher. Starts the Redis subscription if it is the first
// watcher for its collection.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	if h.collections[c.Collection] == nil {
		h.collections[c.Collection] = make(map[string]*Client)
		if h.sub != nil {
			cancel, err := h.sub.SubscribeChanges(c.Collection, func(op string) {
				h.Broadcast(c.Collection, op)
			})
			if err == nil {
				h.subs[c.Collection] = cancel
			} else {
				h.logger.Warn("change subscription failed", zap.String("collection", c.Collection), zap.Error(err))
			}
		}
	}
	h.collections[c.Collection][c.ID] = c
	h.mu.Unlock()
	h.logger.Debug("watcher joined", zap.String("client_id", c.ID), zap.String("collection", c.Collection))
}

// Unregister removes a watcher. Cancels the Redis subscription when the last
// watcher of the collection leaves.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if m, ok := h.collections[c.Collection]; ok {
		delete(m, c.ID)
		if len(m) == 0 {
			delete(h.collections, c.Collection)
			if cancel, ok := h.subs[c.Collection]; ok {
				cancel()
				delete(h.subs, c.Collection)
			}
		}
	}
	h.mu.Unlock()
	h.logger.Debug("watcher left", zap.String("client_id", c.ID), zap.String("collection", c.Collection))
}

// Broadcast sends a changed event to all local watchers of a collection.
func (h *Hub) Broadcast(collection, op string) {
	data, err := json.Marshal(ChangeEvent{Collection: collection, Op: op})
	if err != nil {
		return
	}
	msg := WSMessage{Event: EventChanged, Data: data}

	h.mu.RLock()
	clients := h.collections[collection]
	h.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- msg:
		default:
			// buffer full, skip
		}
	}
}

// NotifyChanged publishes a change so every instance's watchers (including
// this one's, via the Redis subscriber callback) receive it exactly once.
// Without Redis the broadcast stays local.
func (h *Hub) NotifyChanged(collection, op string) {
	if h.pub != nil {
		if err := h.pub.PublishChange(collection, op); err != nil {
			h.logger.Warn("publish change failed", zap.String("collection", collection), zap.Error(err))
		}
		return
	}
	h.Broadcast(collection, op)
}

// WatcherCount returns the number of connected watchers for a collection.
func (h *Hub) WatcherCount(collection string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.collections[collection])
}
