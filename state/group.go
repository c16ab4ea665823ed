package state

import (
	"context"
	"sync"

	"github.com/mvandenberg/heos-go/channel"
	"github.com/mvandenberg/heos-go/command"
	"github.com/mvandenberg/heos-go/data"
)

type groupEntry struct {
	mu   sync.RWMutex
	info data.GroupInfo

	volMu  sync.RWMutex
	volume data.Volume
	mute   data.MuteState
}

func newGroupEntry(info data.GroupInfo) *groupEntry {
	return &groupEntry{info: info}
}

// GroupView is a read-mostly handle into one group's live state. It
// carries a read lock on the groups table for its own lifetime, held
// until Release is called; see PlayerView.Release.
type GroupView struct {
	model *Model
	ch    *channel.Channel
	id    data.GroupId
	entry *groupEntry
	lock  *viewLock
}

// Release drops the read lock this view holds on the groups table.
func (v GroupView) Release() { v.lock.release() }

type GroupSnapshot struct {
	Info   data.GroupInfo
	Volume data.Volume
	Mute   data.MuteState
}

func (v GroupView) Id() data.GroupId { return v.id }

func (v GroupView) Info() data.GroupInfo {
	v.entry.mu.RLock()
	defer v.entry.mu.RUnlock()
	return v.entry.info
}

// LeaderId returns the id of the player that carries playback state
// for this group.
func (v GroupView) LeaderId() data.PlayerId {
	v.entry.mu.RLock()
	defer v.entry.mu.RUnlock()
	return v.entry.info.LeaderId
}

func (v GroupView) Volume() data.Volume {
	v.entry.volMu.RLock()
	defer v.entry.volMu.RUnlock()
	return v.entry.volume
}

func (v GroupView) Mute() data.MuteState {
	v.entry.volMu.RLock()
	defer v.entry.volMu.RUnlock()
	return v.entry.mute
}

func (v GroupView) Snapshot() GroupSnapshot {
	v.entry.mu.RLock()
	info := v.entry.info
	v.entry.mu.RUnlock()
	v.entry.volMu.RLock()
	vol, mute := v.entry.volume, v.entry.mute
	v.entry.volMu.RUnlock()
	return GroupSnapshot{Info: info, Volume: vol, Mute: mute}
}

func (v GroupView) SetVolume(ctx context.Context, level data.Volume) error {
	return command.SetGroupVolume{GroupId: v.id, Level: level}.Send(ctx, v.ch)
}

func (v GroupView) VolumeUp(ctx context.Context, step data.VolumeStep) error {
	return command.GroupVolumeUp{GroupId: v.id, Step: step}.Send(ctx, v.ch)
}

func (v GroupView) VolumeDown(ctx context.Context, step data.VolumeStep) error {
	return command.GroupVolumeDown{GroupId: v.id, Step: step}.Send(ctx, v.ch)
}

func (v GroupView) SetMute(ctx context.Context, state data.MuteState) error {
	return command.SetGroupMute{GroupId: v.id, State: state}.Send(ctx, v.ch)
}

func (v GroupView) ToggleMute(ctx context.Context) error {
	return command.ToggleGroupMute{GroupId: v.id}.Send(ctx, v.ch)
}

// SetGroup issues the set-group protocol: playerIds[0] is the leader.
func SetGroup(ctx context.Context, ch *channel.Channel, playerIds []data.PlayerId) (command.SetGroupResult, error) {
	return command.SetGroup{PlayerIds: playerIds}.Send(ctx, ch)
}
