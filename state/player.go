// Package state implements the HEOS stateful model: three tables
// (players, groups, sources) behind read-write locks, with per-entry
// mutable fields behind their own locks, refreshed by the event
// dispatcher (dispatch.go) and read through snapshot views. Grounded
// on internal/state.PeerTable (table-level mutex + value-copy-in-map
// read/write, Snapshot() returning a shallow copy) generalized from a
// single flat table to three tables, and on internal/listen.Group/
// Track/PlayState for the now-playing/queue/progress field shapes.
package state

import (
	"context"
	"sync"
	"time"

	"github.com/mvandenberg/heos-go/channel"
	"github.com/mvandenberg/heos-go/command"
	"github.com/mvandenberg/heos-go/data"
)

// playerEntry holds one player's static info plus its mutable
// playback state. The static Info field is replaced wholesale on a
// coarse players_changed refresh; Mutable fields are updated in place
// by the event dispatcher. Progress gets its own lock since it is
// written far more often (every progress tick) than the rest of the
// mutable state, and is read independently for interpolation.
type playerEntry struct {
	mu   sync.RWMutex
	info data.PlayerInfo

	stateMu sync.RWMutex
	state   playerMutable

	progressMu sync.RWMutex
	progress   data.NowPlayingProgress
}

type playerMutable struct {
	playState data.PlayState
	volume    data.Volume
	mute      data.MuteState
	repeat    data.RepeatMode
	shuffle   data.ShuffleMode
	nowPlaying data.NowPlayingInfo
	queue     []data.QueuedTrackInfo
}

func newPlayerEntry(info data.PlayerInfo) *playerEntry {
	return &playerEntry{info: info}
}

// PlayerView is a read-mostly handle into one player's live state,
// returned to callers. In addition to the short-lived per-field locks
// each accessor takes, it carries a read lock on the players table
// for its own lifetime, held until Release is called: a coarse
// RefreshPlayers blocks until every outstanding view is released.
type PlayerView struct {
	model *Model
	ch    *channel.Channel
	id    data.PlayerId
	entry *playerEntry
	lock  *viewLock
}

// Release drops the read lock this view holds on the players table.
// Safe to call once per view; a view obtained from Model.Players
// shares its lock with the rest of that batch, so releasing any one
// of them releases it for all.
func (v PlayerView) Release() { v.lock.release() }

// PlayerSnapshot is a plain-value copy of a player's full live state,
// safe to hold indefinitely since it shares no locks with the model.
type PlayerSnapshot struct {
	Info       data.PlayerInfo
	PlayState  data.PlayState
	Volume     data.Volume
	Mute       data.MuteState
	Repeat     data.RepeatMode
	Shuffle    data.ShuffleMode
	NowPlaying data.NowPlayingInfo
	Queue      []data.QueuedTrackInfo
	Progress   data.NowPlayingProgress
}

// Id returns the player's id.
func (v PlayerView) Id() data.PlayerId { return v.id }

// Info returns the player's static info record.
func (v PlayerView) Info() data.PlayerInfo {
	v.entry.mu.RLock()
	defer v.entry.mu.RUnlock()
	return v.entry.info
}

// PlayState returns the player's current transport state.
func (v PlayerView) PlayState() data.PlayState {
	v.entry.stateMu.RLock()
	defer v.entry.stateMu.RUnlock()
	return v.entry.state.playState
}

// Interpolated returns the current elapsed playback position,
// projected forward from the last progress baseline if playing.
func (v PlayerView) Interpolated(now time.Time) time.Duration {
	v.entry.progressMu.RLock()
	defer v.entry.progressMu.RUnlock()
	return v.entry.progress.Interpolated(now)
}

// Snapshot collects every mutable field under short-lived read locks
// into one plain value.
func (v PlayerView) Snapshot() PlayerSnapshot {
	v.entry.mu.RLock()
	info := v.entry.info
	v.entry.mu.RUnlock()

	v.entry.stateMu.RLock()
	s := v.entry.state
	v.entry.stateMu.RUnlock()

	v.entry.progressMu.RLock()
	progress := v.entry.progress
	v.entry.progressMu.RUnlock()

	queue := make([]data.QueuedTrackInfo, len(s.queue))
	copy(queue, s.queue)

	return PlayerSnapshot{
		Info: info, PlayState: s.playState, Volume: s.volume, Mute: s.mute,
		Repeat: s.repeat, Shuffle: s.shuffle, NowPlaying: s.nowPlaying,
		Queue: queue, Progress: progress,
	}
}

// Views never mutate state locally in response to a command; the
// model is updated only by the event dispatcher once the remote
// system confirms the change, so these methods only delegate to the
// channel and return whatever the typed command layer reports.

func (v PlayerView) SetVolume(ctx context.Context, level data.Volume) error {
	return command.SetVolume{PlayerId: v.id, Level: level}.Send(ctx, v.ch)
}

func (v PlayerView) VolumeUp(ctx context.Context, step data.VolumeStep) error {
	return command.VolumeUp{PlayerId: v.id, Step: step}.Send(ctx, v.ch)
}

func (v PlayerView) VolumeDown(ctx context.Context, step data.VolumeStep) error {
	return command.VolumeDown{PlayerId: v.id, Step: step}.Send(ctx, v.ch)
}

func (v PlayerView) SetMute(ctx context.Context, state data.MuteState) error {
	return command.SetMute{PlayerId: v.id, State: state}.Send(ctx, v.ch)
}

func (v PlayerView) ToggleMute(ctx context.Context) error {
	return command.ToggleMute{PlayerId: v.id}.Send(ctx, v.ch)
}

func (v PlayerView) Play(ctx context.Context) error {
	return command.SetPlayState{PlayerId: v.id, State: data.PlayStatePlay}.Send(ctx, v.ch)
}

func (v PlayerView) Pause(ctx context.Context) error {
	return command.SetPlayState{PlayerId: v.id, State: data.PlayStatePause}.Send(ctx, v.ch)
}

func (v PlayerView) Stop(ctx context.Context) error {
	return command.SetPlayState{PlayerId: v.id, State: data.PlayStateStop}.Send(ctx, v.ch)
}

func (v PlayerView) Next(ctx context.Context) error {
	return command.PlayNext{PlayerId: v.id}.Send(ctx, v.ch)
}

func (v PlayerView) Previous(ctx context.Context) error {
	return command.PlayPrevious{PlayerId: v.id}.Send(ctx, v.ch)
}

func (v PlayerView) SetPlayMode(ctx context.Context, repeat data.RepeatMode, shuffle data.ShuffleMode) error {
	return command.SetPlayMode{PlayerId: v.id, Repeat: repeat, Shuffle: shuffle}.Send(ctx, v.ch)
}

func (v PlayerView) PlayQueueItem(ctx context.Context, qid data.QueueId) error {
	return command.PlayQueue{PlayerId: v.id, QueueId: qid}.Send(ctx, v.ch)
}

func (v PlayerView) RemoveFromQueue(ctx context.Context, qids []data.QueueId) error {
	return command.RemoveFromQueue{PlayerId: v.id, QueueIds: qids}.Send(ctx, v.ch)
}

func (v PlayerView) ClearQueue(ctx context.Context) error {
	return command.ClearQueue{PlayerId: v.id}.Send(ctx, v.ch)
}

func (v PlayerView) MoveQueueItem(ctx context.Context, src []data.QueueId, dst data.QueueId) error {
	return command.MoveQueueItem{PlayerId: v.id, SourceQueueIds: src, DestinationQueueId: dst}.Send(ctx, v.ch)
}

func (v PlayerView) AddToQueue(ctx context.Context, sid data.SourceId, containerId, mediaId string, addType data.AddToQueueType) error {
	return command.AddToQueue{PlayerId: v.id, SourceId: sid, ContainerId: containerId, MediaId: mediaId, AddType: addType}.Send(ctx, v.ch)
}
