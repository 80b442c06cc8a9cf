package realtime

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/LucasFiusa/nexora-inscri-es-treinamento/internal/models"
)

// fakeBus is an in-process Publisher+Subscriber: published ops are delivered
// straight to the registered handler, like a single-instance Redis.
type fakeBus struct {
	handlers   map[string]func(op string)
	subscribed []string
	cancelled  []string
	published  []string
	subErr     error
}

func newFakeBus() *fakeBus {
	return &fakeBus{handlers: make(map[string]func(op string))}
}

func (f *fakeBus) PublishChange(collection, op string) error {
	f.published = append(f.published, collection+"/"+op)
	if h, ok := f.handlers[collection]; ok {
		h(op)
	}
	return nil
}

func (f *fakeBus) SubscribeChanges(collection string, handler func(op string)) (func(), error) {
	if f.subErr != nil {
		return nil, f.subErr
	}
	f.subscribed = append(f.subscribed, collection)
	f.handlers[collection] = handler
	return func() {
		f.cancelled = append(f.cancelled, collection)
		delete(f.handlers, collection)
	}, nil
}

func newWatcher(collection string) *Client {
	return &Client{
		ID:         collection + "-watcher",
		Collection: collection,
		send:       make(chan WSMessage, 4),
	}
}

func TestHubScopedSubscription(t *testing.T) {
	bus := newFakeBus()
	hub := NewHub(zap.NewNop(), bus, bus)

	a := newWatcher(models.CollectionRegistrations)
	b := &Client{ID: "b", Collection: models.CollectionRegistrations, send: make(chan WSMessage, 4)}

	hub.Register(a)
	hub.Register(b)
	// one subscription no matter how many watchers
	assert.Equal(t, []string{models.CollectionRegistrations}, bus.subscribed)
	assert.Equal(t, 2, hub.WatcherCount(models.CollectionRegistrations))

	hub.Unregister(a)
	assert.Empty(t, bus.cancelled)

	hub.Unregister(b)
	// last watcher out releases the subscription
	assert.Equal(t, []string{models.CollectionRegistrations}, bus.cancelled)
	assert.Zero(t, hub.WatcherCount(models.CollectionRegistrations))
}

func TestHubNotifyChangedReachesWatchers(t *testing.T) {
	bus := newFakeBus()
	hub := NewHub(zap.NewNop(), bus, bus)

	w := newWatcher(models.CollectionRegistrations)
	hub.Register(w)

	hub.NotifyChanged(models.CollectionRegistrations, "INSERT")

	require.Len(t, bus.published, 1)
	select {
	case msg := <-w.send:
		assert.Equal(t, EventChanged, msg.Event)
		var ev ChangeEvent
		require.NoError(t, json.Unmarshal(msg.Data, &ev))
		assert.Equal(t, models.CollectionRegistrations, ev.Collection)
		assert.Equal(t, "INSERT", ev.Op)
	default:
		t.Fatal("watcher did not receive the change event")
	}
}

func TestHubNotifyChangedWithoutRedisFallsBackToLocal(t *testing.T) {
	hub := NewHub(zap.NewNop(), nil, nil)

	w := newWatcher(models.CollectionRegistrations)
	hub.Register(w)

	hub.NotifyChanged(models.CollectionRegistrations, "DELETE")

	select {
	case msg := <-w.send:
		assert.Equal(t, EventChanged, msg.Event)
	default:
		t.Fatal("local fallback broadcast missing")
	}
}

func TestHubBroadcastSkipsFullBuffers(t *testing.T) {
	hub := NewHub(zap.NewNop(), nil, nil)

	slow := &Client{ID: "slow", Collection: models.CollectionRegistrations, send: make(chan WSMessage)}
	hub.Register(slow)

	// must not block even though nobody drains slow.send
	hub.Broadcast(models.CollectionRegistrations, "INSERT")
}

func TestHubSubscribeErrorStillRegisters(t *testing.T) {
	bus := newFakeBus()
	bus.subErr = errors.New("redis down")
	hub := NewHub(zap.NewNop(), bus, bus)

	w := newWatcher(models.CollectionRegistrations)
	hub.Register(w)
	assert.Equal(t, 1, hub.WatcherCount(models.CollectionRegistrations))

	// local broadcasts still work for this instance
	hub.Broadcast(models.CollectionRegistrations, "INSERT")
	select {
	case msg := <-w.send:
		assert.Equal(t, EventChanged, msg.Event)
	default:
		t.Fatal("broadcast missing")
	}

	hub.Unregister(w)
	assert.Empty(t, bus.cancelled)
}
