package state

import (
	"context"
	"fmt"

	"github.com/mvandenberg/heos-go/data"
)

// Playable is the unified control surface for playback operations: a
// sum of Player(PlayerId) or Group(GroupId). For a group, playback
// (now-playing, queue, play state, repeat, shuffle) delegates to the
// leader player; volume and mute delegate to the group when one is
// present, else to the player. Constructed by resolving the group's
// leader id to a player view at construction time (never stored as a
// back-pointer from the player), per Design Notes "Cyclic references".
//
// A Playable holds live read locks on the tables backing its views
// (the players table, and for a group-backed Playable also the
// groups table) until Release is called; callers must call Release
// once done with it.
type Playable struct {
	player PlayerView
	group  *GroupView
}

// Release drops the read lock(s) this Playable's views hold. Safe to
// call exactly once; call it when done with the Playable, typically
// via defer right after a successful PlayableForPlayer/PlayableForGroup.
func (p Playable) Release() {
	p.player.Release()
	if p.group != nil {
		p.group.Release()
	}
}

// PlayableForPlayer builds a Playable backed directly by a player
// (used when the player leads no group, or the caller wants to talk
// to the player regardless of grouping). The caller must call
// Release on the result when done with it.
func (m *Model) PlayableForPlayer(id data.PlayerId) (Playable, error) {
	view, ok := m.Player(id)
	if !ok {
		return Playable{}, fmt.Errorf("state: unknown player %s", id)
	}
	return Playable{player: view}, nil
}

// PlayableForGroup builds a Playable backed by a group, resolving its
// leader to a player view. The caller must call Release on the
// result when done with it.
func (m *Model) PlayableForGroup(id data.GroupId) (Playable, error) {
	groupView, ok := m.Group(id)
	if !ok {
		return Playable{}, fmt.Errorf("state: unknown group %s", id)
	}
	leaderView, ok := m.Player(groupView.LeaderId())
	if !ok {
		groupView.Release()
		return Playable{}, fmt.Errorf("state: group %s leader %s not found", id, groupView.LeaderId())
	}
	return Playable{player: leaderView, group: &groupView}, nil
}

func (p Playable) NowPlaying() data.NowPlayingInfo { return p.player.Snapshot().NowPlaying }
func (p Playable) PlayState() data.PlayState       { return p.player.PlayState() }
func (p Playable) Queue() []data.QueuedTrackInfo   { return p.player.Snapshot().Queue }

func (p Playable) Play(ctx context.Context) error    { return p.player.Play(ctx) }
func (p Playable) Pause(ctx context.Context) error   { return p.player.Pause(ctx) }
func (p Playable) Stop(ctx context.Context) error    { return p.player.Stop(ctx) }
func (p Playable) Next(ctx context.Context) error    { return p.player.Next(ctx) }
func (p Playable) Previous(ctx context.Context) error { return p.player.Previous(ctx) }

func (p Playable) SetPlayMode(ctx context.Context, repeat data.RepeatMode, shuffle data.ShuffleMode) error {
	return p.player.SetPlayMode(ctx, repeat, shuffle)
}

func (p Playable) AddToQueue(ctx context.Context, sid data.SourceId, containerId, mediaId string, addType data.AddToQueueType) error {
	return p.player.AddToQueue(ctx, sid, containerId, mediaId, addType)
}

// Volume returns the group's volume when this Playable is backed by a
// group, else the player's own volume.
func (p Playable) Volume() data.Volume {
	if p.group != nil {
		return p.group.Volume()
	}
	return p.player.Snapshot().Volume
}

func (p Playable) Mute() data.MuteState {
	if p.group != nil {
		return p.group.Mute()
	}
	return p.player.Snapshot().Mute
}

func (p Playable) SetVolume(ctx context.Context, level data.Volume) error {
	if p.group != nil {
		return p.group.SetVolume(ctx, level)
	}
	return p.player.SetVolume(ctx, level)
}

func (p Playable) SetMute(ctx context.Context, state data.MuteState) error {
	if p.group != nil {
		return p.group.SetMute(ctx, state)
	}
	return p.player.SetMute(ctx, state)
}
