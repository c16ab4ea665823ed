package heos

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvandenberg/heos-go/command"
	"github.com/mvandenberg/heos-go/data"
	"github.com/mvandenberg/heos-go/event"
	"github.com/mvandenberg/heos-go/mock"
)

func demoPlayer(id data.PlayerId, name string) data.PlayerInfo {
	return data.PlayerInfo{
		Id: id, Name: name, Model: "HEOS Drive", Version: "3.34.620",
		IP: "127.0.0.1", Network: data.NetworkWired,
	}
}

// newStatefulMock wires a mock.System behind a Connection and drives it
// all the way to Stateful, the same bring-up sequence cmd/heos-dashboard
// performs for its -mock flag.
func newStatefulMock(t *testing.T, sys *mock.System) (*Connection, *mock.Conn) {
	t.Helper()
	conn := mock.NewConn(sys)
	c := New("mock", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, c.ConnectTransport(ctx, conn))
	require.NoError(t, c.InitStateful(ctx))
	t.Cleanup(func() { c.Close() })
	return c, conn
}

func TestInitStatefulEnumeratesPlayers(t *testing.T) {
	sys := mock.NewSystem()
	sys.AddPlayer(demoPlayer(1, "Living Room"))
	sys.AddPlayer(demoPlayer(2, "Kitchen"))

	c, _ := newStatefulMock(t, sys)
	model, err := c.Model()
	require.NoError(t, err)

	players := model.Players()
	assert.Len(t, players, 2)
	players[0].Release()

	view, ok := model.Player(1)
	require.True(t, ok)
	defer view.Release()
	assert.Equal(t, "Living Room", view.Info().Name)
}

// TestEventUpdatesModelBeforeBroadcast exercises the drain task's
// ordering guarantee: a subscriber must never observe an event before
// the model already reflects its effect.
func TestEventUpdatesModelBeforeBroadcast(t *testing.T) {
	sys := mock.NewSystem()
	sys.AddPlayer(demoPlayer(1, "Living Room"))

	c, mockConn := newStatefulMock(t, sys)
	model, err := c.Model()
	require.NoError(t, err)

	view, ok := model.Player(1)
	require.True(t, ok)
	defer view.Release()
	// Init enumerates players but does not query their volume, so the
	// model holds the zero value until a volume event arrives.
	assert.Equal(t, data.Volume(0), view.Snapshot().Volume)

	sub := c.Subscribe()
	defer sub.Close()

	require.NoError(t, mockConn.EmitEventKind("player_volume_changed", map[string]string{
		"pid": "1", "level": "42", "mute": "off",
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	evt, ok := sub.Next(ctx)
	require.True(t, ok)
	assert.Equal(t, event.PlayerVolumeChanged, evt.Kind)

	// By the time the subscriber observed the event, the model must
	// already carry the new volume: drainEvents calls model.Apply
	// before publish.
	assert.Equal(t, data.Volume(42), view.Snapshot().Volume)
}

func TestSetVolumeRoundTripsThroughMockDevice(t *testing.T) {
	sys := mock.NewSystem()
	sys.AddPlayer(demoPlayer(1, "Living Room"))

	c, _ := newStatefulMock(t, sys)
	model, err := c.Model()
	require.NoError(t, err)
	view, ok := model.Player(1)
	require.True(t, ok)
	defer view.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	level, err := data.NewVolume(55)
	require.NoError(t, err)
	require.NoError(t, view.SetVolume(ctx, level))

	// The mock device applies set_volume directly to its player table
	// but (like a real device) does not itself synthesize the
	// corresponding player_volume_changed event, so the model's cached
	// view is unaffected; query the device directly through the
	// underlying channel to confirm the command actually landed.
	ch, err := c.Channel()
	require.NoError(t, err)
	got, err := (command.GetVolume{PlayerId: 1}).Send(ctx, ch)
	require.NoError(t, err)
	assert.Equal(t, data.Volume(55), got)
}

func TestSnapshotIncludesSourcesAndAccount(t *testing.T) {
	sys := mock.NewSystem()
	sys.AddPlayer(demoPlayer(1, "Living Room"))

	c, _ := newStatefulMock(t, sys)
	model, err := c.Model()
	require.NoError(t, err)

	snap := model.Snapshot()
	assert.Len(t, snap.Players, 1)
	assert.NotEmpty(t, snap.Sources)
	assert.False(t, snap.Account.SignedIn)
}

func TestConnectTransportRejectsWrongState(t *testing.T) {
	sys := mock.NewSystem()
	c, conn := newStatefulMock(t, sys)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err := c.ConnectTransport(ctx, conn)
	assert.Error(t, err, "attaching a transport to an already-stateful connection must fail")
}
