package mock

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/mvandenberg/heos-go/data"
)

// Fixture is the on-disk shape LoadFixture/WatchFixture read: just the
// player topology, since sources are always the standard catalog
// (defaultSources) and groups/playlists are runtime state a fixture
// file has no business dictating.
type Fixture struct {
	Players []FixturePlayer `json:"players"`
}

// FixturePlayer describes one player that LoadFixture or a reload
// adds to the player table.
type FixturePlayer struct {
	Id      data.PlayerId `json:"id"`
	Name    string        `json:"name"`
	Model   string        `json:"model"`
	Version string        `json:"version"`
	IP      string        `json:"ip"`
	Network string        `json:"network"` // "wired" | "wifi"
}

func (p FixturePlayer) toPlayerInfo() data.PlayerInfo {
	return data.PlayerInfo{
		Id: p.Id, Name: p.Name, Model: p.Model, Version: p.Version,
		IP: p.IP, Network: data.ParseNetworkType(p.Network),
	}
}

// LoadFixture reads a JSON fixture file and returns a fresh System
// seeded with its player topology. mock.NewSystem is unaffected and
// remains the zero-filesystem-touching path the rest of the package
// (and its tests) uses.
func LoadFixture(path string) (*System, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mock: read fixture %s: %w", path, err)
	}
	var fx Fixture
	if err := json.Unmarshal(b, &fx); err != nil {
		return nil, fmt.Errorf("mock: parse fixture %s: %w", path, err)
	}
	sys := NewSystem()
	applyFixture(sys, fx)
	return sys, nil
}

// applyFixture replaces sys's player table wholesale with fx's
// topology, leaving groups/sources/playlists untouched. Every player,
// including one whose id was already present, is rebuilt with default
// mutable state (play state, volume, queue, ...).
func applyFixture(sys *System, fx Fixture) {
	sys.mu.Lock()
	defer sys.mu.Unlock()
	sys.players = map[data.PlayerId]*Player{}
	for _, fp := range fx.Players {
		sys.players[fp.Id] = newPlayer(fp.toPlayerInfo())
	}
}

// WatchFixture watches path for writes and reloads sys's player table
// on every change, using fsnotify the same way a config hot-reloader
// would. This is a test/demo convenience (cmd/heos-dashboard's
// -fixture flag): mock.NewSystem with no fixture never touches the
// filesystem. Returns a stop function; logs and ignores reload errors
// (a transient half-written file should not kill the mock backend).
func WatchFixture(sys *System, path string, logger *zap.Logger) (func(), error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("mock: new fixture watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("mock: watch fixture %s: %w", path, err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				b, err := os.ReadFile(path)
				if err != nil {
					logger.Warn("mock: fixture reload read failed", zap.String("path", path), zap.Error(err))
					continue
				}
				var fx Fixture
				if err := json.Unmarshal(b, &fx); err != nil {
					logger.Warn("mock: fixture reload parse failed", zap.String("path", path), zap.Error(err))
					continue
				}
				applyFixture(sys, fx)
				logger.Info("mock: fixture reloaded", zap.String("path", path), zap.Int("players", len(fx.Players)))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("mock: fixture watcher error", zap.Error(err))
			}
		}
	}()

	stop := func() {
		watcher.Close()
		<-done
	}
	return stop, nil
}
