package channel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvandenberg/heos-go/event"
)

func TestEventRingPushThenPopNonBlocking(t *testing.T) {
	r := newEventRing(4)
	r.push(Event{Kind: 1})
	evt, ok := r.pop(nil)
	require.True(t, ok)
	assert.Equal(t, Event{Kind: 1}, evt)
}

func TestEventRingPopWaitsThenWakesOnPush(t *testing.T) {
	r := newEventRing(4)
	done := make(chan Event, 1)
	go func() {
		evt, ok := r.pop(nil)
		if ok {
			done <- evt
		}
	}()

	// Give the goroutine every chance to reach cond.Wait() before the
	// push arrives; this is exactly the window the lost-wakeup bug
	// needed (push mutating+signaling between the waiter's Len() check
	// and its Wait() call).
	time.Sleep(20 * time.Millisecond)
	r.push(Event{Kind: 2})

	select {
	case evt := <-done:
		assert.Equal(t, Event{Kind: 2}, evt)
	case <-time.After(2 * time.Second):
		t.Fatal("pop never observed the pushed event: lost wakeup")
	}
}

// TestEventRingConcurrentPushPopNeverStalls drives many concurrent
// pushers against a single waiting popper repeatedly; if push's
// mutation and Signal are not atomic with respect to pop's
// check-then-Wait, some run eventually stalls and the test times out.
func TestEventRingConcurrentPushPopNeverStalls(t *testing.T) {
	const rounds = 200
	r := newEventRing(rounds)
	results := make(chan bool, rounds)

	for i := 0; i < rounds; i++ {
		go func(n int) {
			_, ok := r.pop(nil)
			results <- ok
		}(i)
	}
	for i := 0; i < rounds; i++ {
		go func(n int) {
			r.push(Event{Kind: event.Kind(n)})
		}(i)
	}

	timeout := time.After(5 * time.Second)
	for i := 0; i < rounds; i++ {
		select {
		case ok := <-results:
			assert.True(t, ok)
		case <-timeout:
			t.Fatalf("only %d/%d pops completed: lost wakeup under concurrency", i, rounds)
		}
	}
}

func TestEventRingPopUnblocksOnClose(t *testing.T) {
	r := newEventRing(2)
	done := make(chan bool, 1)
	go func() {
		_, ok := r.pop(nil)
		done <- ok
	}()
	time.Sleep(20 * time.Millisecond)
	r.close()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("pop never unblocked on close")
	}
}

func TestEventRingPopUnblocksOnCancel(t *testing.T) {
	r := newEventRing(2)
	cancel := make(chan struct{})
	done := make(chan bool, 1)
	go func() {
		_, ok := r.pop(cancel)
		done <- ok
	}()
	time.Sleep(20 * time.Millisecond)
	close(cancel)

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("pop never unblocked on cancel")
	}
}
