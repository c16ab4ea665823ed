package channel

import (
	"sync"

	"github.com/mvandenberg/heos-go/internal/util"
)

// eventRing is a fixed-capacity circular buffer of events feeding one
// subscriber, built on the generic oldest-overwrite util.RingBuffer
// with added blocking pop/close semantics: a subscriber Next() call
// parks until an event is pushed or the ring is closed, rather than
// only ever taking non-blocking snapshots.
type eventRing struct {
	mu     sync.Mutex
	cond   *sync.Cond
	buf    *util.RingBuffer[Event]
	closed bool
}

func newEventRing(capacity int) *eventRing {
	r := &eventRing{buf: util.NewRingBuffer[Event](capacity)}
	r.cond = sync.NewCond(&r.mu)
	return r
}

// push appends evt, overwriting the oldest entry once the ring is full.
// Mutation and Signal happen under r.mu so a concurrent pop's
// check-then-Wait can never observe a stale "empty" Len() and then
// miss this wakeup.
func (r *eventRing) push(evt Event) {
	r.mu.Lock()
	r.buf.Push(evt)
	r.mu.Unlock()
	r.cond.Signal()
}

// pop blocks until an event is available, the ring is closed, or
// cancel fires. cancel is polled via a watcher goroutine since
// sync.Cond has no native context support.
func (r *eventRing) pop(cancel <-chan struct{}) (Event, bool) {
	stop := make(chan struct{})
	defer close(stop)
	if cancel != nil {
		go func() {
			select {
			case <-cancel:
				r.mu.Lock()
				r.cond.Broadcast()
				r.mu.Unlock()
			case <-stop:
			}
		}()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for r.buf.Len() == 0 && !r.closed {
		select {
		case <-cancel:
			return Event{}, false
		default:
		}
		r.cond.Wait()
	}
	return r.buf.Pop()
}

func (r *eventRing) close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.cond.Broadcast()
}
