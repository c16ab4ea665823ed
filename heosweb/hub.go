// Package heosweb is a small read-mostly HTTP+WebSocket front-end over
// a *heos.Connection: a JSON snapshot endpoint, a WebSocket relay of
// the connection's event broadcast, and a thin volume-control relay.
// It is additive to the protocol engine — heos, state, channel, mock
// and friends have no knowledge this package exists.
package heosweb

import (
	"sync"

	"go.uber.org/zap"

	"github.com/mvandenberg/heos-go/event"
)

// listenerCap bounds each WebSocket subscriber's outbound queue.
// Mirrors internal/mq.Manager's per-listener channel: a slow browser
// tab drops events rather than backpressuring the event drain loop.
const listenerCap = 128

// hub fans out the connection's event broadcast to any number of
// WebSocket subscribers, grounded on internal/mq.Manager.Subscribe's
// map-of-channels-under-RWMutex listener registry (drop-when-full on
// each send, replacing that package's SSE delivery with a plain
// channel relay since heosweb has no inbox-replay requirement).
type hub struct {
	logger *zap.Logger

	mu        sync.RWMutex
	listeners map[chan event.Event]struct{}
}

func newHub(logger *zap.Logger) *hub {
	return &hub{logger: logger, listeners: map[chan event.Event]struct{}{}}
}

// subscribe registers a new listener channel and returns it along with
// an unsubscribe function.
func (h *hub) subscribe() (chan event.Event, func()) {
	ch := make(chan event.Event, listenerCap)
	h.mu.Lock()
	h.listeners[ch] = struct{}{}
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		if _, ok := h.listeners[ch]; ok {
			delete(h.listeners, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
}

// broadcast delivers evt to every current listener, dropping it for
// any listener whose queue is full.
func (h *hub) broadcast(evt event.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.listeners {
		select {
		case ch <- evt:
		default:
			h.logger.Warn("heosweb: websocket listener full, dropping event", zap.String("kind", evt.Kind.String()))
		}
	}
}

// run drains sub until its Next reports false (the subscription was
// closed), broadcasting every event to the hub's listeners.
// Call once per Server, in its own goroutine.
func (h *hub) run(sub subscription) {
	for {
		evt, ok := sub.Next()
		if !ok {
			return
		}
		h.broadcast(evt)
	}
}

// subscription is the slice of *heos.EventSubscription this package
// actually needs, so hub can be unit-tested against a fake.
type subscription interface {
	Next() (event.Event, bool)
}
