package heos

import (
	"context"
	"sync"

	"github.com/mvandenberg/heos-go/event"
)

// Registration is the front-end subscribe/refresh capability from
// §6: a data slot that replaces itself with a fresh refresh result
// whenever an event matching predicate arrives. Per Design Notes'
// "dynamic dispatch over event handlers", its concrete type is erased
// behind the object-safe registrationHandle interface once registered
// with a Subscriber — callers only ever see *Registration[T].
//
// If a refresh is already in flight when another matching event
// arrives, at most one more refresh is queued; it runs immediately
// after the in-flight one finishes, so all matching events that arrive
// during one refresh cost a single further refresh, however many there
// are.
type Registration[T any] struct {
	mu      sync.Mutex
	value   T
	ok      bool
	dropped bool

	predicate func(event.Event) bool
	refresh   func(context.Context) (T, error)

	inFlight bool
	queued   bool
}

// NewRegistration builds a Registration holding initial until the
// first successful refresh. It is inert until handed to a
// Subscriber's Add.
func NewRegistration[T any](initial T, predicate func(event.Event) bool, refresh func(context.Context) (T, error)) *Registration[T] {
	return &Registration[T]{value: initial, ok: true, predicate: predicate, refresh: refresh}
}

// Get returns the current value (initial until the first successful
// refresh) and true, or false once Drop has been called.
func (r *Registration[T]) Get() (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.value, r.ok && !r.dropped
}

// IsActive reports whether the registration is still live. A
// Subscriber prunes registrations once Drop has been called, standing
// in for the weak-reference-based removal described in §6: Go gives
// no ambient way to observe a data slot's garbage collection from
// library code, so the caller calls Drop explicitly instead of
// relying on the slot being collected.
func (r *Registration[T]) IsActive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.dropped
}

// Drop deactivates the registration; a Subscriber removes it on its
// next event.
func (r *Registration[T]) Drop() {
	r.mu.Lock()
	r.dropped = true
	r.mu.Unlock()
}

// checkQueued reports whether a refresh is currently queued behind an
// in-flight one (an observability hook, named for Design Notes'
// check_queued).
func (r *Registration[T]) checkQueued() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.queued
}

func (r *Registration[T]) checkUpdate(ctx context.Context, evt event.Event) {
	r.mu.Lock()
	if r.dropped || !r.predicate(evt) {
		r.mu.Unlock()
		return
	}
	if r.inFlight {
		r.queued = true
		r.mu.Unlock()
		return
	}
	r.inFlight = true
	r.mu.Unlock()
	go r.runRefresh(ctx)
}

func (r *Registration[T]) runRefresh(ctx context.Context) {
	for {
		val, err := r.refresh(ctx)
		r.mu.Lock()
		if err == nil {
			r.value = val
			r.ok = true
		}
		if r.queued && !r.dropped {
			r.queued = false
			r.mu.Unlock()
			continue
		}
		r.inFlight = false
		r.mu.Unlock()
		return
	}
}

// registrationHandle is the object-safe capability a Subscriber holds
// per entry, erasing Registration[T]'s type parameter.
type registrationHandle interface {
	checkUpdate(ctx context.Context, evt event.Event)
	IsActive() bool
}

// Subscriber fans one Connection's event stream out to any number of
// Registrations, pruning dropped ones as it goes.
type Subscriber struct {
	sub *EventSubscription

	mu   sync.Mutex
	regs []registrationHandle

	cancel context.CancelFunc
	done   chan struct{}
}

// NewSubscriber starts a pump goroutine reading from c's event
// broadcast and feeding every registered handle.
func (c *Connection) NewSubscriber() *Subscriber {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Subscriber{
		sub:    c.Subscribe(),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go s.pump(ctx)
	return s
}

// Add registers a handle. Typically called with the *Registration[T]
// returned by NewRegistration.
func (s *Subscriber) Add(r registrationHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regs = append(s.regs, r)
}

func (s *Subscriber) pump(ctx context.Context) {
	defer close(s.done)
	defer s.sub.Close()
	for {
		evt, ok := s.sub.Next(ctx)
		if !ok {
			return
		}
		s.mu.Lock()
		live := s.regs[:0]
		for _, r := range s.regs {
			if !r.IsActive() {
				continue
			}
			r.checkUpdate(ctx, evt)
			live = append(live, r)
		}
		s.regs = live
		s.mu.Unlock()
	}
}

// Close stops the pump and releases the underlying subscription.
func (s *Subscriber) Close() {
	s.cancel()
	<-s.done
}
