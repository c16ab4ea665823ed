package state

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/mvandenberg/heos-go/channel"
	"github.com/mvandenberg/heos-go/command"
	"github.com/mvandenberg/heos-go/data"
)

// viewLock is a released-once handle on a table-level read lock,
// attached to every View an accessor call returns so the table stays
// read-locked for as long as the caller holds any of them, per the
// documented invariant that a coarse refresh's write lock blocks until
// every outstanding view is dropped. A batch accessor (Players, Groups,
// Sources) takes the RLock once and shares one handle across the whole
// returned slice: Release on any one of them (or Player.Release, etc.)
// drops it for the whole batch, since they were all born from the same
// RLock call. Callers that only need one entry from a batch should
// still call Release once when done with the batch as a whole.
type viewLock struct {
	mu       *sync.RWMutex
	released atomic.Bool
}

func acquireViewLock(mu *sync.RWMutex) *viewLock {
	mu.RLock()
	return &viewLock{mu: mu}
}

// release is idempotent: it is safe to call from multiple views that
// share this handle, or more than once on the same view.
func (l *viewLock) release() {
	if l == nil {
		return
	}
	if l.released.CompareAndSwap(false, true) {
		l.mu.RUnlock()
	}
}

// Model is the stateful snapshot of the fleet: three tables keyed by
// id, each behind a read-write lock. The outer lock is held as a
// reader by any view returned to callers; a coarse refresh (writer)
// waits for all outstanding views to release their read lock before
// replacing the table contents, per §3's ownership rules.
type Model struct {
	ch     *channel.Channel
	logger *zap.Logger

	playersMu sync.RWMutex
	players   map[data.PlayerId]*playerEntry

	groupsMu sync.RWMutex
	groups   map[data.GroupId]*groupEntry

	sourcesMu sync.RWMutex
	sources   map[data.SourceId]*sourceEntry

	accountMu sync.RWMutex
	account   command.AccountStatus
}

// New constructs an empty Model bound to ch. Callers normally use
// heos.Connection's InitStateful (Stateful transition) rather than calling
// this directly.
func New(ch *channel.Channel, logger *zap.Logger) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Model{
		ch:      ch,
		logger:  logger,
		players: map[data.PlayerId]*playerEntry{},
		groups:  map[data.GroupId]*groupEntry{},
		sources: map[data.SourceId]*sourceEntry{},
	}
}

// Init enumerates sources, players, groups and account status, in
// that order, populating the model for the first time (§4.H's
// Stateful transition).
func (m *Model) Init(ctx context.Context) error {
	if err := m.RefreshSources(ctx); err != nil {
		return fmt.Errorf("state: init sources: %w", err)
	}
	if err := m.RefreshPlayers(ctx); err != nil {
		return fmt.Errorf("state: init players: %w", err)
	}
	if err := m.RefreshGroups(ctx); err != nil {
		return fmt.Errorf("state: init groups: %w", err)
	}
	status, err := command.CheckAccount{}.Send(ctx, m.ch)
	if err != nil {
		return fmt.Errorf("state: init account: %w", err)
	}
	m.accountMu.Lock()
	m.account = status
	m.accountMu.Unlock()
	return nil
}

// RefreshPlayers re-enumerates the players table. Per-player mutable
// state (play state, volume, queue, ...) is preserved for any id that
// survives the refresh, and dropped for ids that no longer exist.
func (m *Model) RefreshPlayers(ctx context.Context) error {
	list, err := command.GetPlayers{}.Send(ctx, m.ch)
	if err != nil {
		return err
	}
	fresh := make(map[data.PlayerId]*playerEntry, len(list))
	m.playersMu.RLock()
	for _, info := range list {
		if existing, ok := m.players[info.Id]; ok {
			existing.mu.Lock()
			existing.info = info
			existing.mu.Unlock()
			fresh[info.Id] = existing
		} else {
			fresh[info.Id] = newPlayerEntry(info)
		}
	}
	m.playersMu.RUnlock()

	m.playersMu.Lock()
	m.players = fresh
	m.playersMu.Unlock()
	return nil
}

// RefreshGroups re-enumerates the groups table wholesale; group
// volume/mute for surviving ids is preserved.
func (m *Model) RefreshGroups(ctx context.Context) error {
	list, err := command.GetGroups{}.Send(ctx, m.ch)
	if err != nil {
		return err
	}
	fresh := make(map[data.GroupId]*groupEntry, len(list))
	m.groupsMu.RLock()
	for _, info := range list {
		if existing, ok := m.groups[info.Id]; ok {
			existing.mu.Lock()
			existing.info = info
			existing.mu.Unlock()
			fresh[info.Id] = existing
		} else {
			fresh[info.Id] = newGroupEntry(info)
		}
	}
	m.groupsMu.RUnlock()

	m.groupsMu.Lock()
	m.groups = fresh
	m.groupsMu.Unlock()
	return nil
}

// RefreshSources re-enumerates the sources table wholesale.
func (m *Model) RefreshSources(ctx context.Context) error {
	list, err := command.GetMusicSources{}.Send(ctx, m.ch)
	if err != nil {
		return err
	}
	fresh := make(map[data.SourceId]*sourceEntry, len(list))
	for _, info := range list {
		fresh[info.Id] = newSourceEntry(info)
	}
	m.sourcesMu.Lock()
	m.sources = fresh
	m.sourcesMu.Unlock()
	return nil
}

// Player returns a view of the given player, or false if unknown. The
// view carries a read lock on the players table until its Release
// method is called; callers must release it promptly (a coarse
// players refresh blocks on it).
func (m *Model) Player(id data.PlayerId) (PlayerView, bool) {
	lock := acquireViewLock(&m.playersMu)
	entry, ok := m.players[id]
	if !ok {
		lock.release()
		return PlayerView{}, false
	}
	return PlayerView{model: m, ch: m.ch, id: id, entry: entry, lock: lock}, true
}

// Players returns a view of every known player, all sharing one read
// lock on the table; call Release on any one of them once the caller
// is done with the whole batch. Returns nil without acquiring the
// lock for longer than the call if the table is empty.
func (m *Model) Players() []PlayerView {
	lock := acquireViewLock(&m.playersMu)
	if len(m.players) == 0 {
		lock.release()
		return nil
	}
	out := make([]PlayerView, 0, len(m.players))
	for id, entry := range m.players {
		out = append(out, PlayerView{model: m, ch: m.ch, id: id, entry: entry, lock: lock})
	}
	return out
}

// Group returns a view of the given group, or false if unknown. See
// Player for the read-lock/Release contract.
func (m *Model) Group(id data.GroupId) (GroupView, bool) {
	lock := acquireViewLock(&m.groupsMu)
	entry, ok := m.groups[id]
	if !ok {
		lock.release()
		return GroupView{}, false
	}
	return GroupView{model: m, ch: m.ch, id: id, entry: entry, lock: lock}, true
}

// Groups returns a view of every known group. See Players for the
// shared-lock/Release contract.
func (m *Model) Groups() []GroupView {
	lock := acquireViewLock(&m.groupsMu)
	if len(m.groups) == 0 {
		lock.release()
		return nil
	}
	out := make([]GroupView, 0, len(m.groups))
	for id, entry := range m.groups {
		out = append(out, GroupView{model: m, ch: m.ch, id: id, entry: entry, lock: lock})
	}
	return out
}

// Source returns a view of the given source, or false if unknown. See
// Player for the read-lock/Release contract.
func (m *Model) Source(id data.SourceId) (SourceView, bool) {
	lock := acquireViewLock(&m.sourcesMu)
	entry, ok := m.sources[id]
	if !ok {
		lock.release()
		return SourceView{}, false
	}
	return SourceView{id: id, entry: entry, lock: lock}, true
}

// Sources returns a view of every known source. See Players for the
// shared-lock/Release contract.
func (m *Model) Sources() []SourceView {
	lock := acquireViewLock(&m.sourcesMu)
	if len(m.sources) == 0 {
		lock.release()
		return nil
	}
	out := make([]SourceView, 0, len(m.sources))
	for id, entry := range m.sources {
		out = append(out, SourceView{id: id, entry: entry, lock: lock})
	}
	return out
}

// Account returns the cached sign-in status, last updated by Init or
// a user_changed event.
func (m *Model) Account() command.AccountStatus {
	m.accountMu.RLock()
	defer m.accountMu.RUnlock()
	return m.account
}

// FleetSnapshot is a plain-value copy of the whole model, safe to hold
// or serialize without touching any lock.
type FleetSnapshot struct {
	Players []PlayerSnapshot  `json:"players"`
	Groups  []GroupSnapshot   `json:"groups"`
	Sources []data.SourceInfo `json:"sources"`
	Account command.AccountStatus `json:"account"`
}

// Snapshot collects every table into one plain value, generalized
// from internal/state.PeerTable.Snapshot()'s single-table shallow copy
// to this model's three tables. It releases each batch's view lock
// before returning, since the plain-value result carries none of them
// forward.
func (m *Model) Snapshot() FleetSnapshot {
	players := m.Players()
	out := FleetSnapshot{
		Players: make([]PlayerSnapshot, len(players)),
		Account: m.Account(),
	}
	for i, p := range players {
		out.Players[i] = p.Snapshot()
	}
	if len(players) > 0 {
		players[0].Release()
	}

	groups := m.Groups()
	for _, g := range groups {
		out.Groups = append(out.Groups, g.Snapshot())
	}
	if len(groups) > 0 {
		groups[0].Release()
	}

	sources := m.Sources()
	for _, s := range sources {
		out.Sources = append(out.Sources, s.Info())
	}
	if len(sources) > 0 {
		sources[0].Release()
	}
	return out
}

// groupLeadingPlayer finds the group a player leads, if any. Derived
// from GroupInfo rather than a back-pointer, per Design Notes'
// "never hold a back-pointer from a player to its group".
func (m *Model) groupLeadingPlayer(pid data.PlayerId) (*groupEntry, data.GroupId, bool) {
	m.groupsMu.RLock()
	defer m.groupsMu.RUnlock()
	for gid, entry := range m.groups {
		entry.mu.RLock()
		leader := entry.info.LeaderId
		entry.mu.RUnlock()
		if leader == pid {
			return entry, gid, true
		}
	}
	return nil, 0, false
}
