package state

import (
	"context"
	"time"

	"github.com/mvandenberg/heos-go/data"
	"github.com/mvandenberg/heos-go/event"
)

// Apply applies one parsed event to the model, per §4.F. Coarse
// "*_changed" events re-enumerate their table by issuing the matching
// list command through the channel; all other events write directly
// to the affected entry's fields. Callers (the connection façade's
// event-draining task) are expected to re-publish evt on a
// user-visible broadcast only after Apply returns, so subscribers
// always observe an event after the model reflects it.
func (m *Model) Apply(ctx context.Context, evt event.Event) error {
	switch evt.Kind {
	case event.SourcesChanged:
		return m.RefreshSources(ctx)
	case event.PlayersChanged:
		return m.RefreshPlayers(ctx)
	case event.GroupsChanged:
		return m.RefreshGroups(ctx)
	case event.PlayerStateChanged:
		return m.applyPlayerStateChanged(evt)
	case event.PlayerNowPlayingChanged:
		return m.applyNowPlayingChanged(ctx, evt)
	case event.PlayerNowPlayingProgress:
		return m.applyProgress(evt)
	case event.PlayerQueueChanged:
		return m.applyQueueChanged(ctx, evt)
	case event.PlayerVolumeChanged:
		return m.applyPlayerVolumeChanged(evt)
	case event.RepeatModeChanged:
		return m.applyRepeatModeChanged(evt)
	case event.ShuffleModeChanged:
		return m.applyShuffleModeChanged(evt)
	case event.GroupVolumeChanged:
		return m.applyGroupVolumeChanged(evt)
	case event.UserChanged:
		m.accountMu.Lock()
		m.account.SignedIn = evt.SignedIn
		m.account.Username = evt.Username
		m.accountMu.Unlock()
		return nil
	case event.PlayerPlaybackError:
		// Logged by the connection façade at error level; no state change.
		return nil
	default:
		return nil
	}
}

func (m *Model) playerEntryFor(id data.PlayerId) (*playerEntry, bool) {
	m.playersMu.RLock()
	defer m.playersMu.RUnlock()
	entry, ok := m.players[id]
	return entry, ok
}

func (m *Model) groupEntryFor(id data.GroupId) (*groupEntry, bool) {
	m.groupsMu.RLock()
	defer m.groupsMu.RUnlock()
	entry, ok := m.groups[id]
	return entry, ok
}

func (m *Model) applyPlayerStateChanged(evt event.Event) error {
	entry, ok := m.playerEntryFor(evt.PlayerId)
	if !ok {
		return nil
	}
	entry.stateMu.Lock()
	entry.state.playState = evt.PlayState
	entry.stateMu.Unlock()

	entry.progressMu.Lock()
	if evt.PlayState == data.PlayStatePlay {
		now := time.Now()
		entry.progress.Baseline = &now
	} else {
		if entry.progress.Baseline != nil {
			entry.progress.Elapsed = entry.progress.Interpolated(time.Now())
			entry.progress.Baseline = nil
		}
	}
	entry.progressMu.Unlock()
	return nil
}

func (m *Model) applyNowPlayingChanged(ctx context.Context, evt event.Event) error {
	entry, ok := m.playerEntryFor(evt.PlayerId)
	if !ok {
		return nil
	}
	info, err := getNowPlayingMedia(ctx, m, evt.PlayerId)
	if err != nil {
		return err
	}
	entry.stateMu.Lock()
	entry.state.nowPlaying = info
	playState := entry.state.playState
	entry.stateMu.Unlock()

	entry.progressMu.Lock()
	entry.progress = data.NowPlayingProgress{}
	if playState == data.PlayStatePlay {
		now := time.Now()
		entry.progress.Baseline = &now
	}
	entry.progressMu.Unlock()
	return nil
}

func (m *Model) applyProgress(evt event.Event) error {
	entry, ok := m.playerEntryFor(evt.PlayerId)
	if !ok {
		return nil
	}
	entry.stateMu.RLock()
	playState := entry.state.playState
	entry.stateMu.RUnlock()

	entry.progressMu.Lock()
	entry.progress.Elapsed = time.Duration(evt.ElapsedMs) * time.Millisecond
	entry.progress.Duration = time.Duration(evt.DurationMs) * time.Millisecond
	if playState == data.PlayStatePlay {
		now := time.Now()
		entry.progress.Baseline = &now
	}
	entry.progressMu.Unlock()
	return nil
}

func (m *Model) applyQueueChanged(ctx context.Context, evt event.Event) error {
	entry, ok := m.playerEntryFor(evt.PlayerId)
	if !ok {
		return nil
	}
	queue, err := getQueue(ctx, m, evt.PlayerId)
	if err != nil {
		return err
	}
	entry.stateMu.Lock()
	entry.state.queue = queue
	entry.stateMu.Unlock()
	return nil
}

func (m *Model) applyPlayerVolumeChanged(evt event.Event) error {
	entry, ok := m.playerEntryFor(evt.PlayerId)
	if !ok {
		return nil
	}
	entry.stateMu.Lock()
	entry.state.volume = evt.Level
	entry.state.mute = evt.Mute
	entry.stateMu.Unlock()
	return nil
}

func (m *Model) applyRepeatModeChanged(evt event.Event) error {
	entry, ok := m.playerEntryFor(evt.PlayerId)
	if !ok {
		return nil
	}
	entry.stateMu.Lock()
	entry.state.repeat = evt.Repeat
	entry.stateMu.Unlock()
	return nil
}

func (m *Model) applyShuffleModeChanged(evt event.Event) error {
	entry, ok := m.playerEntryFor(evt.PlayerId)
	if !ok {
		return nil
	}
	entry.stateMu.Lock()
	entry.state.shuffle = evt.Shuffle
	entry.stateMu.Unlock()
	return nil
}

func (m *Model) applyGroupVolumeChanged(evt event.Event) error {
	entry, ok := m.groupEntryFor(evt.GroupId)
	if !ok {
		return nil
	}
	entry.volMu.Lock()
	entry.volume = evt.Level
	entry.mute = evt.Mute
	entry.volMu.Unlock()
	return nil
}
