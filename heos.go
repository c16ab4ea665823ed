package heos

import (
	"context"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mvandenberg/heos-go/channel"
	"github.com/mvandenberg/heos-go/command"
	"github.com/mvandenberg/heos-go/data"
	"github.com/mvandenberg/heos-go/event"
	"github.com/mvandenberg/heos-go/state"
)

// ConnState is the connection façade's state machine position, per
// §4.H: Created holds only a destination address; AdHoc can send raw
// commands and observe events but keeps no model; Stateful owns a
// Model kept current by a background event-draining task.
type ConnState int

const (
	ConnCreated ConnState = iota
	ConnAdHoc
	ConnStateful
)

func (s ConnState) String() string {
	switch s {
	case ConnCreated:
		return "created"
	case ConnAdHoc:
		return "ad-hoc"
	case ConnStateful:
		return "stateful"
	default:
		return "unknown"
	}
}

const dialTimeout = 10 * time.Second

// userRingCapacity mirrors the channel package's broadcast ring size;
// the façade's re-emission is a second, independent 32-slot ring.
const userRingCapacity = 32

// Connection is a single HEOS device connection, demultiplexed over
// one TCP socket (§1: "exactly one active logical connection").
type Connection struct {
	addr   string
	logger *zap.Logger

	mu    sync.Mutex
	state ConnState
	conn  io.ReadWriteCloser
	ch    *channel.Channel
	model *state.Model

	drainCancel context.CancelFunc
	drainDone   chan struct{}

	subsMu sync.Mutex
	subs   map[*userRing]struct{}
}

// New builds a Connection in the Created state. addr is host:port
// (HEOS's CLI port, 1255, if the caller omits a port).
func New(addr string, logger *zap.Logger) *Connection {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Connection{
		addr:   addr,
		logger: logger,
		state:  ConnCreated,
		subs:   map[*userRing]struct{}{},
	}
}

// State reports the current façade state.
func (c *Connection) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect dials the device and transitions Created -> AdHoc. Per
// §4.H, event registration is explicitly disabled on entry to AdHoc:
// the device may still consider a prior session registered, so the
// façade clears that before doing anything else.
func (c *Connection) Connect(ctx context.Context) error {
	const defaultCLIPort = "1255"
	addr := c.addr
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, defaultCLIPort)
	}
	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("heos: dial %s: %w", addr, err)
	}
	return c.attach(ctx, conn)
}

// ConnectTransport transitions Created -> AdHoc over a caller-supplied
// transport instead of a dialed TCP socket, so anything satisfying
// io.ReadWriteCloser — in practice the mock backend's *mock.Conn — can
// stand in for a real device behind the exact same state machine and
// channel demux.
func (c *Connection) ConnectTransport(ctx context.Context, rwc io.ReadWriteCloser) error {
	return c.attach(ctx, rwc)
}

func (c *Connection) attach(ctx context.Context, rwc io.ReadWriteCloser) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != ConnCreated {
		return fmt.Errorf("heos: Connect called in state %s, want %s", c.state, ConnCreated)
	}

	ch := channel.New(rwc, c.logger)
	if _, err := (command.RegisterForChangeEvents{Enable: false}).Send(ctx, ch); err != nil {
		c.logger.Warn("disable registration on connect failed", zap.Error(err))
	}

	c.conn = rwc
	c.ch = ch
	c.state = ConnAdHoc
	return nil
}

// Channel exposes the underlying demultiplexed channel for callers
// that want to send raw or typed commands without a Model (valid in
// AdHoc or Stateful).
func (c *Connection) Channel() (*channel.Channel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == ConnCreated {
		return nil, fmt.Errorf("heos: not connected")
	}
	return c.ch, nil
}

// InitStateful transitions AdHoc -> Stateful: builds a Model, does
// its initial enumeration, starts the event-draining task, and only
// then enables change-event registration on the device (so the drain
// task is already running before events can arrive).
func (c *Connection) InitStateful(ctx context.Context) error {
	c.mu.Lock()
	if c.state != ConnAdHoc {
		c.mu.Unlock()
		return fmt.Errorf("heos: InitStateful called in state %s, want %s", c.state, ConnAdHoc)
	}
	ch := c.ch
	c.mu.Unlock()

	model := state.New(ch, c.logger)
	if err := model.Init(ctx); err != nil {
		return fmt.Errorf("heos: stateful init: %w", err)
	}

	drainCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	sub := ch.Subscribe()

	c.mu.Lock()
	c.model = model
	c.drainCancel = cancel
	c.drainDone = done
	c.state = ConnStateful
	c.mu.Unlock()

	go c.drainEvents(drainCtx, sub, done)

	if _, err := (command.RegisterForChangeEvents{Enable: true}).Send(ctx, ch); err != nil {
		return fmt.Errorf("heos: enable registration: %w", err)
	}
	return nil
}

// Model returns the stateful model, valid only once InitStateful has
// succeeded.
func (c *Connection) Model() (*state.Model, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != ConnStateful {
		return nil, fmt.Errorf("heos: not in stateful mode (state %s)", c.state)
	}
	return c.model, nil
}

// drainEvents is the background task that keeps the Model current.
// It reads sub, InitStateful's subscription to the channel's
// parsed-event stream, applies each
// event to the model (§4.F), and only then re-publishes it on the
// façade's own user-visible broadcast, so a subscriber never observes
// an event before the model reflects it.
//
// Coarse "*_changed" events trigger a table refresh inside Apply. The
// drain loop is single-threaded by construction, so at most one
// refresh is ever in flight at a time: K coarse events in a row cost
// at most K refreshes, satisfying §6's coalescing bound without a
// separate debounce stage.
func (c *Connection) drainEvents(ctx context.Context, sub *channel.Subscription, done chan<- struct{}) {
	defer close(done)
	defer sub.Close()

	for {
		evt, ok := sub.Next(ctx)
		if !ok {
			return
		}
		if evt.Kind == event.PlayerPlaybackError {
			c.logger.Error("player playback error",
				zap.Uint64("player_id", uint64(evt.PlayerId)),
				zap.String("error", evt.ErrorText))
		}
		if c.model != nil {
			if err := c.model.Apply(ctx, evt); err != nil {
				c.logger.Warn("apply event failed", zap.String("kind", evt.Kind.String()), zap.Error(err))
			}
		}
		c.publish(evt)
	}
}

func (c *Connection) publish(evt event.Event) {
	c.subsMu.Lock()
	rings := make([]*userRing, 0, len(c.subs))
	for r := range c.subs {
		rings = append(rings, r)
	}
	c.subsMu.Unlock()
	for _, r := range rings {
		r.push(evt)
	}
}

// EventSubscription is a user-visible handle on the façade's
// post-model-update event broadcast.
type EventSubscription struct {
	conn *Connection
	ring *userRing
}

// Subscribe registers a new event subscription. Each subscription has
// its own 32-slot oldest-dropped ring, so one slow consumer never
// backpressures another (per channel/ring.go's same design, applied a
// second time at the façade's re-emission stage).
func (c *Connection) Subscribe() *EventSubscription {
	r := newUserRing(userRingCapacity)
	c.subsMu.Lock()
	c.subs[r] = struct{}{}
	c.subsMu.Unlock()
	return &EventSubscription{conn: c, ring: r}
}

// Next blocks for the subscription's next event, returning false if
// the subscription or connection was closed, or ctx was canceled.
func (s *EventSubscription) Next(ctx context.Context) (event.Event, bool) {
	return s.ring.pop(ctx.Done())
}

// Close deregisters the subscription.
func (s *EventSubscription) Close() {
	s.conn.subsMu.Lock()
	delete(s.conn.subs, s.ring)
	s.conn.subsMu.Unlock()
	s.ring.close()
}

// Close tears the connection down: stops the drain task (if any),
// closes every user subscription, and closes the underlying channel
// and socket.
func (c *Connection) Close() error {
	c.mu.Lock()
	cancel := c.drainCancel
	done := c.drainDone
	ch := c.ch
	c.state = ConnCreated
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}

	c.subsMu.Lock()
	for r := range c.subs {
		r.close()
	}
	c.subs = map[*userRing]struct{}{}
	c.subsMu.Unlock()

	if ch != nil {
		return ch.Close()
	}
	return nil
}

// Playable resolves a target (player or group) to a unified playback
// surface, failing if Stateful hasn't been reached yet. The returned
// Playable holds a live read lock on the backing table(s); callers
// must call its Release method (typically via defer) once done.
func (c *Connection) Playable(playerId data.PlayerId, groupId *data.GroupId) (state.Playable, error) {
	model, err := c.Model()
	if err != nil {
		return state.Playable{}, err
	}
	if groupId != nil {
		return model.PlayableForGroup(*groupId)
	}
	return model.PlayableForPlayer(playerId)
}
