// Package channel implements the HEOS demultiplexer: one bidirectional
// wire codec shared by many concurrent typed-command callers, plus a
// broadcast of parsed events. Grounded on two pack sources: the
// per-command-name correlation idiom mirrors internal/mq.Manager's
// pending map[string]chan struct{} (an ack channel registered before
// the write, looked up and removed on arrival); the read-loop and
// mutex layout mirrors rustyguts-bken/client/transport.go's
// readControl (bufio reader loop, RWMutex-guarded callback table,
// Mutex-guarded writer).
package channel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/mvandenberg/heos-go/command/raw"
	"github.com/mvandenberg/heos-go/event"
	"github.com/mvandenberg/heos-go/wire"
)

// Event is the typed event taxonomy re-exported for callers that only
// need to depend on this package.
type Event = event.Event

// ErrClosed is returned to every outstanding and future Send once the
// channel's reader loop has observed a broken connection.
var ErrClosed = errors.New("channel: connection closed")

const defaultRingCapacity = 32

// sendResult is delivered to a Send's waiting caller: either a final
// RawResponse or a delivery error (broken pipe, or a cancelled wait).
type sendResult struct {
	resp wire.RawResponse
	err  error
}

type delayedSlot struct {
	seq uint64
	ch  chan sendResult
}

// responseCache correlates replies for one command-name ("group/name").
// lastDelayed is the fallback target for replies that omit SEQUENCE.
type responseCache struct {
	mu          sync.Mutex
	delayed     map[uint64]*delayedSlot
	lastDelayed uint64
	hasLast     bool
}

func newResponseCache() *responseCache {
	return &responseCache{delayed: map[uint64]*delayedSlot{}}
}

// Channel owns one bidirectional wire codec and demultiplexes replies
// and events over it. The zero value is not usable; construct with New.
type Channel struct {
	logger *zap.Logger

	closer io.Closer
	writer *wire.Writer
	reader *wire.Reader

	sendMu sync.Mutex
	seq    atomic.Uint64

	cachesMu sync.Mutex
	caches   map[string]*responseCache

	subsMu sync.Mutex
	subs   map[*eventRing]struct{}

	closed atomic.Bool
	doneCh chan struct{}
}

// New wraps rwc (typically a net.Conn) in a Channel and starts its
// reader loop. Callers must call Close when done to release the
// reader goroutine.
func New(rwc io.ReadWriteCloser, logger *zap.Logger) *Channel {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Channel{
		logger: logger,
		closer: rwc,
		writer: wire.NewWriter(rwc),
		reader: wire.NewReader(rwc),
		caches: map[string]*responseCache{},
		subs:   map[*eventRing]struct{}{},
		doneCh: make(chan struct{}),
	}
	go c.readLoop()
	return c
}

func (c *Channel) cacheFor(name string) *responseCache {
	c.cachesMu.Lock()
	defer c.cachesMu.Unlock()
	cache, ok := c.caches[name]
	if !ok {
		cache = newResponseCache()
		c.caches[name] = cache
	}
	return cache
}

// Send submits a raw command, injecting a fresh SEQUENCE, and waits
// for its correlated final reply (skipping over any intervening
// "command under process" delay acknowledgement transparently).
func (c *Channel) Send(ctx context.Context, cmd raw.Command) (wire.RawResponse, error) {
	if c.closed.Load() {
		return wire.RawResponse{}, ErrClosed
	}

	name := cmd.Group + "/" + cmd.Name
	seq := c.seq.Add(1) - 1
	cmd = cmd.Set("SEQUENCE", strconv.FormatUint(seq, 10))

	cache := c.cacheFor(name)
	slot := &delayedSlot{seq: seq, ch: make(chan sendResult, 1)}
	cache.mu.Lock()
	cache.delayed[seq] = slot
	cache.lastDelayed = seq
	cache.hasLast = true
	cache.mu.Unlock()

	c.sendMu.Lock()
	err := c.writer.WriteLine(cmd.String())
	c.sendMu.Unlock()
	if err != nil {
		cache.mu.Lock()
		delete(cache.delayed, seq)
		cache.mu.Unlock()
		return wire.RawResponse{}, fmt.Errorf("channel: write %s: %w", name, err)
	}

	select {
	case result := <-slot.ch:
		return result.resp, result.err
	case <-ctx.Done():
		cache.mu.Lock()
		delete(cache.delayed, seq)
		cache.mu.Unlock()
		return wire.RawResponse{}, ctx.Err()
	case <-c.doneCh:
		return wire.RawResponse{}, ErrClosed
	}
}

// Subscribe returns a Subscription of the channel's internal
// parsed-event broadcast (the connection façade re-publishes on its
// own user-visible broadcast). Multiple subscribers may be active at once; each has its
// own 32-slot oldest-dropped ring, so a slow subscriber never stalls
// another or the reader.
func (c *Channel) Subscribe() *Subscription {
	ring := newEventRing(defaultRingCapacity)
	c.subsMu.Lock()
	c.subs[ring] = struct{}{}
	c.subsMu.Unlock()
	return &Subscription{ring: ring, parent: c}
}

// Subscription is one subscriber's view of the broadcast.
type Subscription struct {
	ring   *eventRing
	parent *Channel
}

// Next blocks until an event is available, ctx is cancelled, or the
// channel is closed.
func (s *Subscription) Next(ctx context.Context) (Event, bool) {
	return s.ring.pop(ctx.Done())
}

// Close detaches the subscription; subsequent Next calls return false.
func (s *Subscription) Close() {
	s.parent.subsMu.Lock()
	delete(s.parent.subs, s.ring)
	s.parent.subsMu.Unlock()
	s.ring.close()
}

// broadcast publishes evt to every live subscriber's ring. The reader
// loop never blocks on a subscriber: push is non-blocking by
// construction (oldest-dropped overwrite), and no subscriber lock is
// held across a push.
func (c *Channel) broadcast(evt Event) {
	c.subsMu.Lock()
	rings := make([]*eventRing, 0, len(c.subs))
	for r := range c.subs {
		rings = append(rings, r)
	}
	c.subsMu.Unlock()
	for _, r := range rings {
		r.push(evt)
	}
}

// readLoop is the channel's single reader task; it owns the wire
// codec's read side exclusively and is aborted when the channel is
// closed or the connection breaks.
func (c *Channel) readLoop() {
	defer c.failAll(ErrClosed)
	defer close(c.doneCh)
	for {
		resp, err := c.reader.ReadResponse()
		if err != nil {
			var frameErr *wire.FrameError
			if errors.As(err, &frameErr) {
				c.logger.Warn("frame error, resynchronizing", zap.Error(err))
				continue
			}
			c.logger.Info("reader loop exiting", zap.Error(err))
			c.closed.Store(true)
			return
		}
		c.dispatch(resp)
	}
}

func (c *Channel) dispatch(resp wire.RawResponse) {
	if resp.IsDelayAck() {
		c.logger.Debug("delay acknowledgement", zap.String("command", resp.Heos.Command))
		return
	}
	if resp.IsEvent() {
		evt, err := event.Parse(resp)
		if err != nil {
			c.logger.Warn("dropping unparseable event", zap.Error(err), zap.String("command", resp.Heos.Command))
			return
		}
		c.broadcast(evt)
		return
	}
	c.deliverReply(resp)
}

func (c *Channel) deliverReply(resp wire.RawResponse) {
	name := resp.Heos.Command
	cache := c.cacheFor(name)

	cache.mu.Lock()
	seq, hasSeq := parseSequence(resp)
	var slot *delayedSlot
	if hasSeq {
		if s, ok := cache.delayed[seq]; ok {
			slot = s
			delete(cache.delayed, seq)
			if cache.hasLast && cache.lastDelayed == seq {
				cache.hasLast = false
			}
		}
	} else if cache.hasLast {
		// A reply without SEQUENCE goes to the most recently sent
		// command of this name. If an older command of the same name is
		// still pending and the replies arrive out of order, this
		// delivers the reply to the wrong caller.
		if s, ok := cache.delayed[cache.lastDelayed]; ok {
			slot = s
			delete(cache.delayed, cache.lastDelayed)
			cache.hasLast = false
		}
	}
	cache.mu.Unlock()

	if slot == nil {
		c.logger.Warn("unmatched response", zap.String("command", name), zap.Bool("had_sequence", hasSeq))
		return
	}
	slot.ch <- sendResult{resp: resp}
}

func parseSequence(resp wire.RawResponse) (uint64, bool) {
	params, err := url.ParseQuery(resp.Heos.Message)
	if err != nil {
		return 0, false
	}
	s := params.Get("SEQUENCE")
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// failAll delivers err to every outstanding Send and closes every
// subscriber's ring, run once when the reader loop exits.
func (c *Channel) failAll(err error) {
	c.closed.Store(true)
	c.cachesMu.Lock()
	caches := make([]*responseCache, 0, len(c.caches))
	for _, cache := range c.caches {
		caches = append(caches, cache)
	}
	c.cachesMu.Unlock()

	for _, cache := range caches {
		cache.mu.Lock()
		for seq, slot := range cache.delayed {
			slot.ch <- sendResult{err: err}
			delete(cache.delayed, seq)
		}
		cache.mu.Unlock()
	}

	c.subsMu.Lock()
	rings := make([]*eventRing, 0, len(c.subs))
	for r := range c.subs {
		rings = append(rings, r)
	}
	c.subs = map[*eventRing]struct{}{}
	c.subsMu.Unlock()
	for _, r := range rings {
		r.close()
	}
}

// Close tears down the underlying connection, aborting the reader
// loop and failing all outstanding senders with ErrClosed.
func (c *Channel) Close() error {
	return c.closer.Close()
}
