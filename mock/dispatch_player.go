package mock

import (
	"fmt"

	"github.com/mvandenberg/heos-go/command/raw"
	"github.com/mvandenberg/heos-go/data"
	"github.com/mvandenberg/heos-go/wire"
)

func (s *System) dispatchPlayer(cmd raw.Command) wire.RawResponse {
	switch cmd.Name {
	case "get_players":
		return s.getPlayers(cmd)
	case "get_player_info":
		return s.getPlayerInfo(cmd)
	case "get_play_state":
		return s.getPlayState(cmd)
	case "set_play_state":
		return s.setPlayState(cmd)
	case "get_now_playing_media":
		return s.getNowPlayingMedia(cmd)
	case "get_volume":
		return s.getPlayerVolume(cmd)
	case "set_volume":
		return s.setPlayerVolume(cmd)
	case "volume_up":
		return s.playerVolumeStep(cmd, 1)
	case "volume_down":
		return s.playerVolumeStep(cmd, -1)
	case "get_mute":
		return s.getPlayerMute(cmd)
	case "set_mute":
		return s.setPlayerMute(cmd)
	case "toggle_mute":
		return s.togglePlayerMute(cmd)
	case "get_play_mode":
		return s.getPlayMode(cmd)
	case "set_play_mode":
		return s.setPlayMode(cmd)
	case "get_queue":
		return s.getQueue(cmd)
	case "play_queue":
		return s.playQueue(cmd)
	case "remove_from_queue":
		return s.removeFromQueue(cmd)
	case "save_queue":
		return s.saveQueue(cmd)
	case "clear_queue":
		return s.clearQueue(cmd)
	case "move_queue_item":
		return s.moveQueueItem(cmd)
	case "play_next":
		return s.playNext(cmd)
	case "play_previous":
		return s.playPrevious(cmd)
	case "set_quickselect":
		return s.setQuickSelect(cmd)
	case "play_quickselect":
		return s.playQuickSelect(cmd)
	case "get_quickselects":
		return s.getQuickSelects(cmd)
	case "check_update":
		return messageResponse(cmd, "update=update_not_exist")
	default:
		return unrecognizedError(cmd)
	}
}

func (s *System) getPlayers(cmd raw.Command) wire.RawResponse {
	out := make([]playerInfoWire, 0, len(s.players))
	for _, pid := range sortedPlayerIds(playerIds(s.players)) {
		out = append(out, playerInfoToWire(s.players[pid].Info))
	}
	return payloadResponse(cmd, marshalPayload(out))
}

func playerIds(m map[data.PlayerId]*Player) []data.PlayerId {
	ids := make([]data.PlayerId, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	return ids
}

func (s *System) getPlayerInfo(cmd raw.Command) wire.RawResponse {
	p, errResp, ok := s.lookupPlayer(cmd, "pid")
	if !ok {
		return errResp
	}
	return payloadResponse(cmd, marshalPayload(playerInfoToWire(p.Info)))
}

func (s *System) getPlayState(cmd raw.Command) wire.RawResponse {
	p, errResp, ok := s.lookupPlayer(cmd, "pid")
	if !ok {
		return errResp
	}
	return successResponse(cmd, map[string]string{"state": string(p.PlayState)})
}

func (s *System) setPlayState(cmd raw.Command) wire.RawResponse {
	p, errResp, ok := s.lookupPlayer(cmd, "pid")
	if !ok {
		return errResp
	}
	state, errResp, ok := requirePlayState(cmd, "state")
	if !ok {
		return errResp
	}
	p.PlayState = state
	return successResponse(cmd, nil)
}

func (s *System) getNowPlayingMedia(cmd raw.Command) wire.RawResponse {
	p, errResp, ok := s.lookupPlayer(cmd, "pid")
	if !ok {
		return errResp
	}
	return payloadResponse(cmd, marshalPayload(nowPlayingToWire(p.NowPlaying)))
}

func (s *System) getPlayerVolume(cmd raw.Command) wire.RawResponse {
	p, errResp, ok := s.lookupPlayer(cmd, "pid")
	if !ok {
		return errResp
	}
	return successResponse(cmd, map[string]string{"level": p.Volume.String()})
}

func (s *System) setPlayerVolume(cmd raw.Command) wire.RawResponse {
	p, errResp, ok := s.lookupPlayer(cmd, "pid")
	if !ok {
		return errResp
	}
	vol, errResp, ok := requireVolume(cmd, "level")
	if !ok {
		return errResp
	}
	p.Volume = vol
	return successResponse(cmd, nil)
}

func (s *System) playerVolumeStep(cmd raw.Command, sign int) wire.RawResponse {
	p, errResp, ok := s.lookupPlayer(cmd, "pid")
	if !ok {
		return errResp
	}
	step, errResp, ok := volumeStepOrDefault(cmd, "step")
	if !ok {
		return errResp
	}
	p.Volume = p.Volume.Add(sign * int(step))
	return successResponse(cmd, nil)
}

func (s *System) getPlayerMute(cmd raw.Command) wire.RawResponse {
	p, errResp, ok := s.lookupPlayer(cmd, "pid")
	if !ok {
		return errResp
	}
	state, _ := p.Mute.EncodeHeosValue()
	return successResponse(cmd, map[string]string{"state": state})
}

func (s *System) setPlayerMute(cmd raw.Command) wire.RawResponse {
	p, errResp, ok := s.lookupPlayer(cmd, "pid")
	if !ok {
		return errResp
	}
	state, errResp, ok := requireMuteState(cmd, "state")
	if !ok {
		return errResp
	}
	p.Mute = state
	return successResponse(cmd, nil)
}

func (s *System) togglePlayerMute(cmd raw.Command) wire.RawResponse {
	p, errResp, ok := s.lookupPlayer(cmd, "pid")
	if !ok {
		return errResp
	}
	if p.Mute == data.MuteOn {
		p.Mute = data.MuteOff
	} else {
		p.Mute = data.MuteOn
	}
	return successResponse(cmd, nil)
}

func (s *System) getPlayMode(cmd raw.Command) wire.RawResponse {
	p, errResp, ok := s.lookupPlayer(cmd, "pid")
	if !ok {
		return errResp
	}
	repeat, _ := p.Repeat.EncodeHeosValue()
	shuffle, _ := p.Shuffle.EncodeHeosValue()
	return successResponse(cmd, map[string]string{"repeat": repeat, "shuffle": shuffle})
}

func (s *System) setPlayMode(cmd raw.Command) wire.RawResponse {
	p, errResp, ok := s.lookupPlayer(cmd, "pid")
	if !ok {
		return errResp
	}
	repeatStr, errResp, ok := requireParam(cmd, "repeat")
	if !ok {
		return errResp
	}
	repeat, err := data.ParseRepeatMode(repeatStr)
	if err != nil {
		return invalidArgumentError(cmd, "repeat", err)
	}
	shuffleStr, errResp, ok := requireParam(cmd, "shuffle")
	if !ok {
		return errResp
	}
	shuffle, err := data.ParseShuffleMode(shuffleStr)
	if err != nil {
		return invalidArgumentError(cmd, "shuffle", err)
	}
	p.Repeat = repeat
	p.Shuffle = shuffle
	return successResponse(cmd, nil)
}

func (s *System) getQueue(cmd raw.Command) wire.RawResponse {
	p, errResp, ok := s.lookupPlayer(cmd, "pid")
	if !ok {
		return errResp
	}
	rng, hasRange, errResp, ok := optionalRange(cmd, "range")
	if !ok {
		return errResp
	}
	queue := p.Queue
	if hasRange {
		start, end := rng.Start, rng.End
		if start < 0 || end >= len(queue) || start > end {
			return outOfRangeError(cmd, fmt.Sprintf("%d,%d", start, end), fmt.Sprintf("0,%d", len(queue)-1))
		}
		queue = queue[start : end+1]
	}
	out := make([]queueItemWire, 0, len(queue))
	for _, t := range queue {
		out = append(out, queueItemToWire(t))
	}
	return payloadResponse(cmd, marshalPayload(out))
}

func (s *System) playQueue(cmd raw.Command) wire.RawResponse {
	p, errResp, ok := s.lookupPlayer(cmd, "pid")
	if !ok {
		return errResp
	}
	qid, errResp, ok := func() (data.QueueId, wire.RawResponse, bool) {
		v, errResp, ok := requireParam(cmd, "qid")
		if !ok {
			return 0, errResp, false
		}
		id, err := data.ParseQueueId(v)
		if err != nil {
			return 0, invalidArgumentError(cmd, "qid", err), false
		}
		return id, wire.RawResponse{}, true
	}()
	if !ok {
		return errResp
	}
	idx := findQueueIndex(p.Queue, qid)
	if idx < 0 {
		return invalidIdError(cmd, "qid", qid.String())
	}
	p.PlayState = data.PlayStatePlay
	return successResponse(cmd, nil)
}

func (s *System) removeFromQueue(cmd raw.Command) wire.RawResponse {
	p, errResp, ok := s.lookupPlayer(cmd, "pid")
	if !ok {
		return errResp
	}
	qids, errResp, ok := requireQueueIds(cmd, "qid")
	if !ok {
		return errResp
	}
	remove := map[data.QueueId]bool{}
	for _, id := range qids {
		remove[id] = true
	}
	kept := p.Queue[:0:0]
	for _, t := range p.Queue {
		if !remove[t.QueueId] {
			kept = append(kept, t)
		}
	}
	p.Queue = kept
	p.adjustQueueIds()
	return successResponse(cmd, nil)
}

func (s *System) saveQueue(cmd raw.Command) wire.RawResponse {
	p, errResp, ok := s.lookupPlayer(cmd, "pid")
	if !ok {
		return errResp
	}
	name, errResp, ok := requireParam(cmd, "name")
	if !ok {
		return errResp
	}
	s.nextPlaylistNum++
	cid := fmt.Sprintf("playlist-%d", s.nextPlaylistNum)
	s.playlists[cid] = &Playlist{
		ContainerId: cid, Name: name,
		Tracks: append([]data.QueuedTrackInfo(nil), p.Queue...),
	}
	return successResponse(cmd, nil)
}

func (s *System) clearQueue(cmd raw.Command) wire.RawResponse {
	p, errResp, ok := s.lookupPlayer(cmd, "pid")
	if !ok {
		return errResp
	}
	p.Queue = nil
	return successResponse(cmd, nil)
}

// moveQueueItem relocates the tracks named by sqid to land immediately
// before dqid, preserving the moved tracks' relative order. Grounded on
// the original's MockPlayer::move_queue_item: partition the queue into
// (pre, moved, post) by membership, splice moved back in at the
// destination's post-removal position.
func (s *System) moveQueueItem(cmd raw.Command) wire.RawResponse {
	p, errResp, ok := s.lookupPlayer(cmd, "pid")
	if !ok {
		return errResp
	}
	sourceIds, errResp, ok := requireQueueIds(cmd, "sqid")
	if !ok {
		return errResp
	}
	destId, errResp, ok := func() (data.QueueId, wire.RawResponse, bool) {
		v, errResp, ok := requireParam(cmd, "dqid")
		if !ok {
			return 0, errResp, false
		}
		id, err := data.ParseQueueId(v)
		if err != nil {
			return 0, invalidArgumentError(cmd, "dqid", err), false
		}
		return id, wire.RawResponse{}, true
	}()
	if !ok {
		return errResp
	}

	moveSet := map[data.QueueId]bool{}
	for _, id := range sourceIds {
		moveSet[id] = true
	}

	var moved, rest []data.QueuedTrackInfo
	destPosInRest := -1
	for _, t := range p.Queue {
		if moveSet[t.QueueId] {
			moved = append(moved, t)
			continue
		}
		if t.QueueId == destId {
			destPosInRest = len(rest)
		}
		rest = append(rest, t)
	}
	if len(moved) == 0 {
		return invalidIdError(cmd, "sqid", fmt.Sprintf("%v", sourceIds))
	}
	if destPosInRest < 0 {
		// dqid names a slot being moved, or doesn't exist; treat as
		// append-to-end, matching the original's fallback.
		destPosInRest = len(rest)
	}

	newQueue := make([]data.QueuedTrackInfo, 0, len(p.Queue))
	newQueue = append(newQueue, rest[:destPosInRest]...)
	newQueue = append(newQueue, moved...)
	newQueue = append(newQueue, rest[destPosInRest:]...)
	p.Queue = newQueue
	p.adjustQueueIds()
	return successResponse(cmd, nil)
}

func (s *System) playNext(cmd raw.Command) wire.RawResponse {
	_, errResp, ok := s.lookupPlayer(cmd, "pid")
	if !ok {
		return errResp
	}
	return successResponse(cmd, nil)
}

func (s *System) playPrevious(cmd raw.Command) wire.RawResponse {
	_, errResp, ok := s.lookupPlayer(cmd, "pid")
	if !ok {
		return errResp
	}
	return successResponse(cmd, nil)
}

func (s *System) setQuickSelect(cmd raw.Command) wire.RawResponse {
	p, errResp, ok := s.lookupPlayer(cmd, "pid")
	if !ok {
		return errResp
	}
	idStr, errResp, ok := requireParam(cmd, "id")
	if !ok {
		return errResp
	}
	id, err := data.ParseQuickSelectId(idStr)
	if err != nil {
		return invalidArgumentError(cmd, "id", err)
	}
	p.QuickSelects[id-1] = fmt.Sprintf("%s (%s)", p.NowPlayingName(), id.String())
	return successResponse(cmd, nil)
}

func (s *System) playQuickSelect(cmd raw.Command) wire.RawResponse {
	p, errResp, ok := s.lookupPlayer(cmd, "pid")
	if !ok {
		return errResp
	}
	idStr, errResp, ok := requireParam(cmd, "id")
	if !ok {
		return errResp
	}
	id, err := data.ParseQuickSelectId(idStr)
	if err != nil {
		return invalidArgumentError(cmd, "id", err)
	}
	if p.QuickSelects[id-1] == "" {
		return invalidIdError(cmd, "id", idStr)
	}
	p.PlayState = data.PlayStatePlay
	return successResponse(cmd, nil)
}

func (s *System) getQuickSelects(cmd raw.Command) wire.RawResponse {
	p, errResp, ok := s.lookupPlayer(cmd, "pid")
	if !ok {
		return errResp
	}
	out := make([]quickSelectWire, 0, len(p.QuickSelects))
	for i, name := range p.QuickSelects {
		out = append(out, quickSelectWire{Id: i + 1, Name: name})
	}
	return payloadResponse(cmd, marshalPayload(out))
}
