// Package heos is the root package: the connection façade (Component
// H) and the external subscribe/refresh helper (§6). It is the single
// import point most callers need; channel, command, data, event,
// state and mock are usable standalone for callers that want finer
// control.
package heos

import (
	"sync"

	"github.com/mvandenberg/heos-go/event"
	"github.com/mvandenberg/heos-go/internal/util"
)

// userRing is a blocking wrapper around util.RingBuffer for the
// façade's user-visible re-emission after the model has applied an
// event — a distinct broadcast stage from the channel's own internal
// event ring (channel/ring.go), per §4.F ("the dispatcher re-publishes
// the event on a user-visible broadcast"). The ring itself is the same
// fixed-capacity, oldest-dropped buffer channel's ring uses; this type
// adds the condition variable a blocking Subscribe/Next needs on top.
type userRing struct {
	mu     sync.Mutex
	cond   *sync.Cond
	buf    *util.RingBuffer[event.Event]
	closed bool
}

func newUserRing(capacity int) *userRing {
	r := &userRing{buf: util.NewRingBuffer[event.Event](capacity)}
	r.cond = sync.NewCond(&r.mu)
	return r
}

// push appends evt under r.mu so mutation and the wakeup it implies
// are atomic with respect to pop's check-then-Wait loop (the same
// lost-wakeup hazard channel/ring.go's eventRing.push guards against).
func (r *userRing) push(evt event.Event) {
	r.mu.Lock()
	r.buf.Push(evt)
	r.mu.Unlock()
	r.cond.Signal()
}

func (r *userRing) pop(cancel <-chan struct{}) (event.Event, bool) {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-cancel:
			r.mu.Lock()
			r.cond.Broadcast()
			r.mu.Unlock()
		case <-stop:
		}
	}()

	r.mu.Lock()
	defer r.mu.Unlock()
	for r.buf.Len() == 0 && !r.closed {
		select {
		case <-cancel:
			return event.Event{}, false
		default:
		}
		r.cond.Wait()
	}
	return r.buf.Pop()
}

func (r *userRing) close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.cond.Broadcast()
}
