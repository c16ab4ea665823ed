package command

import (
	"context"
	"encoding/json"

	"github.com/mvandenberg/heos-go/channel"
	"github.com/mvandenberg/heos-go/command/raw"
	"github.com/mvandenberg/heos-go/data"
)

const groupPlayer = "player"

// --- get_players ---------------------------------------------------

type GetPlayers struct{}

type playerInfoWire struct {
	Name    string `json:"name"`
	Pid     int64  `json:"pid"`
	Gid     *int64 `json:"gid,omitempty"`
	Model   string `json:"model"`
	Version string `json:"version"`
	IP      string `json:"ip"`
	Network string `json:"network"`
	Lineout int    `json:"lineout"`
	Control *int   `json:"control,omitempty"`
	Serial  *string `json:"serial,omitempty"`
}

func (GetPlayers) Send(ctx context.Context, ch *channel.Channel) ([]data.PlayerInfo, error) {
	cmd, err := encode(groupPlayer, "get_players", struct{}{})
	if err != nil {
		return nil, err
	}
	resp, err := execute(ctx, ch, cmd)
	if err != nil {
		return nil, err
	}
	var wirePlayers []playerInfoWire
	if err := json.Unmarshal(resp.Payload, &wirePlayers); err != nil {
		return nil, &MalformedResponseError{Command: "player/get_players", Reason: err.Error()}
	}
	out := make([]data.PlayerInfo, 0, len(wirePlayers))
	for _, w := range wirePlayers {
		lineout, err := data.ParseLineOutType(w.Lineout)
		if err != nil {
			return nil, &MalformedResponseError{Command: "player/get_players", Reason: err.Error()}
		}
		info := data.PlayerInfo{
			Name:    w.Name,
			Id:      data.PlayerId(w.Pid),
			Model:   w.Model,
			Version: w.Version,
			IP:      w.IP,
			Network: data.ParseNetworkType(w.Network),
			LineOut: lineout,
			Serial:  w.Serial,
		}
		if w.Gid != nil {
			gid := data.GroupId(*w.Gid)
			info.GroupId = &gid
		}
		if w.Control != nil {
			ctrl, err := data.ParseLineOutControlType(*w.Control)
			if err != nil {
				return nil, &MalformedResponseError{Command: "player/get_players", Reason: err.Error()}
			}
			info.LineOutControl = &ctrl
		}
		out = append(out, info)
	}
	return out, nil
}

// --- play state ------------------------------------------------------

type GetPlayState struct {
	PlayerId data.PlayerId `heos:"pid"`
}

func (c GetPlayState) Send(ctx context.Context, ch *channel.Channel) (data.PlayState, error) {
	cmd, err := encode(groupPlayer, "get_play_state", c)
	if err != nil {
		return "", err
	}
	resp, err := execute(ctx, ch, cmd)
	if err != nil {
		return "", err
	}
	return data.ParsePlayState(resp.MessageParams().Get("state"))
}

type SetPlayState struct {
	PlayerId data.PlayerId `heos:"pid"`
	State    data.PlayState `heos:"state"`
}

func (c SetPlayState) Send(ctx context.Context, ch *channel.Channel) error {
	cmd, err := encode(groupPlayer, "set_play_state", c)
	if err != nil {
		return err
	}
	_, err = execute(ctx, ch, cmd)
	return err
}

// --- now playing media ----------------------------------------------

type GetNowPlayingMedia struct {
	PlayerId data.PlayerId `heos:"pid"`
}

type nowPlayingWire struct {
	Type        string `json:"type"`
	Song        string `json:"song"`
	Album       string `json:"album"`
	Artist      string `json:"artist"`
	ImageURL    string `json:"image_url"`
	MediaId     string `json:"mid"`
	AlbumId     string `json:"album_id"`
	QueueId     uint64 `json:"qid"`
	Sid         int64  `json:"sid"`
	Station     string `json:"station"`
}

func (c GetNowPlayingMedia) Send(ctx context.Context, ch *channel.Channel) (data.NowPlayingInfo, error) {
	cmd, err := encode(groupPlayer, "get_now_playing_media", c)
	if err != nil {
		return data.NowPlayingInfo{}, err
	}
	resp, err := execute(ctx, ch, cmd)
	if err != nil {
		return data.NowPlayingInfo{}, err
	}
	var w nowPlayingWire
	if err := json.Unmarshal(resp.Payload, &w); err != nil {
		return data.NowPlayingInfo{}, &MalformedResponseError{Command: "player/get_now_playing_media", Reason: err.Error()}
	}
	if w.Type == "station" {
		return data.NowPlayingInfo{
			Kind: data.NowPlayingStation,
			Station: &data.StationInfo{
				Song: w.Song, Station: w.Station, Album: w.Album, Artist: w.Artist,
				ImageURL: w.ImageURL, MediaId: w.MediaId, QueueId: data.QueueId(w.QueueId),
				SourceId: data.SourceId(w.Sid), StationName: w.Station,
			},
		}, nil
	}
	return data.NowPlayingInfo{
		Kind: data.NowPlayingSong,
		Song: &data.SongInfo{
			Song: w.Song, Album: w.Album, Artist: w.Artist, ImageURL: w.ImageURL,
			MediaId: w.MediaId, AlbumId: w.AlbumId, QueueId: data.QueueId(w.QueueId),
			SourceId: data.SourceId(w.Sid),
		},
	}, nil
}

// --- volume -----------------------------------------------------------

type GetVolume struct {
	PlayerId data.PlayerId `heos:"pid"`
}

func (c GetVolume) Send(ctx context.Context, ch *channel.Channel) (data.Volume, error) {
	cmd, err := encode(groupPlayer, "get_volume", c)
	if err != nil {
		return 0, err
	}
	resp, err := execute(ctx, ch, cmd)
	if err != nil {
		return 0, err
	}
	return data.ParseVolume(resp.MessageParams().Get("level"))
}

type SetVolume struct {
	PlayerId data.PlayerId `heos:"pid"`
	Level    data.Volume   `heos:"level"`
}

func (c SetVolume) Send(ctx context.Context, ch *channel.Channel) error {
	cmd, err := encode(groupPlayer, "set_volume", c)
	if err != nil {
		return err
	}
	_, err = execute(ctx, ch, cmd)
	return err
}

type VolumeUp struct {
	PlayerId data.PlayerId  `heos:"pid"`
	Step     data.VolumeStep `heos:"step,omitempty"`
}

func (c VolumeUp) Send(ctx context.Context, ch *channel.Channel) error {
	if c.Step == 0 {
		c.Step = data.DefaultVolumeStep
	}
	cmd, err := encode(groupPlayer, "volume_up", c)
	if err != nil {
		return err
	}
	_, err = execute(ctx, ch, cmd)
	return err
}

type VolumeDown struct {
	PlayerId data.PlayerId   `heos:"pid"`
	Step     data.VolumeStep `heos:"step,omitempty"`
}

func (c VolumeDown) Send(ctx context.Context, ch *channel.Channel) error {
	if c.Step == 0 {
		c.Step = data.DefaultVolumeStep
	}
	cmd, err := encode(groupPlayer, "volume_down", c)
	if err != nil {
		return err
	}
	_, err = execute(ctx, ch, cmd)
	return err
}

// --- mute ---------------------------------------------------------------

type GetMute struct {
	PlayerId data.PlayerId `heos:"pid"`
}

func (c GetMute) Send(ctx context.Context, ch *channel.Channel) (data.MuteState, error) {
	cmd, err := encode(groupPlayer, "get_mute", c)
	if err != nil {
		return 0, err
	}
	resp, err := execute(ctx, ch, cmd)
	if err != nil {
		return 0, err
	}
	return data.ParseMuteState(resp.MessageParams().Get("state"))
}

type SetMute struct {
	PlayerId data.PlayerId `heos:"pid"`
	State    data.MuteState `heos:"state"`
}

func (c SetMute) Send(ctx context.Context, ch *channel.Channel) error {
	cmd, err := encode(groupPlayer, "set_mute", c)
	if err != nil {
		return err
	}
	_, err = execute(ctx, ch, cmd)
	return err
}

type ToggleMute struct {
	PlayerId data.PlayerId `heos:"pid"`
}

func (c ToggleMute) Send(ctx context.Context, ch *channel.Channel) error {
	cmd, err := encode(groupPlayer, "toggle_mute", c)
	if err != nil {
		return err
	}
	_, err = execute(ctx, ch, cmd)
	return err
}

// --- play mode (repeat/shuffle) -----------------------------------------

type GetPlayMode struct {
	PlayerId data.PlayerId `heos:"pid"`
}

type PlayMode struct {
	Repeat  data.RepeatMode
	Shuffle data.ShuffleMode
}

func (c GetPlayMode) Send(ctx context.Context, ch *channel.Channel) (PlayMode, error) {
	cmd, err := encode(groupPlayer, "get_play_mode", c)
	if err != nil {
		return PlayMode{}, err
	}
	resp, err := execute(ctx, ch, cmd)
	if err != nil {
		return PlayMode{}, err
	}
	params := resp.MessageParams()
	repeat, err := data.ParseRepeatMode(params.Get("repeat"))
	if err != nil {
		return PlayMode{}, &MalformedResponseError{Command: "player/get_play_mode", Reason: err.Error()}
	}
	shuffle, err := data.ParseShuffleMode(params.Get("shuffle"))
	if err != nil {
		return PlayMode{}, &MalformedResponseError{Command: "player/get_play_mode", Reason: err.Error()}
	}
	return PlayMode{Repeat: repeat, Shuffle: shuffle}, nil
}

type SetPlayMode struct {
	PlayerId data.PlayerId   `heos:"pid"`
	Repeat   data.RepeatMode `heos:"repeat"`
	Shuffle  data.ShuffleMode `heos:"shuffle"`
}

func (c SetPlayMode) Send(ctx context.Context, ch *channel.Channel) error {
	cmd, err := encode(groupPlayer, "set_play_mode", c)
	if err != nil {
		return err
	}
	_, err = execute(ctx, ch, cmd)
	return err
}

// --- queue ---------------------------------------------------------------

// GetQueue lists queued tracks, optionally restricted to an inclusive
// [Start,End] range.
type GetQueue struct {
	PlayerId data.PlayerId `heos:"pid"`
	Range    *raw.Range    `heos:"range,omitempty"`
}

type queueItemWire struct {
	Song    string `json:"song"`
	Album   string `json:"album"`
	Artist  string `json:"artist"`
	Image   string `json:"image_url"`
	MediaId string `json:"mid"`
	QueueId uint64 `json:"qid"`
	AlbumId *string `json:"album_id,omitempty"`
}

func (c GetQueue) Send(ctx context.Context, ch *channel.Channel) ([]data.QueuedTrackInfo, error) {
	cmd, err := encode(groupPlayer, "get_queue", c)
	if err != nil {
		return nil, err
	}
	resp, err := execute(ctx, ch, cmd)
	if err != nil {
		return nil, err
	}
	var items []queueItemWire
	if err := json.Unmarshal(resp.Payload, &items); err != nil {
		return nil, &MalformedResponseError{Command: "player/get_queue", Reason: err.Error()}
	}
	out := make([]data.QueuedTrackInfo, 0, len(items))
	for _, it := range items {
		out = append(out, data.QueuedTrackInfo{
			Song: it.Song, Album: it.Album, Artist: it.Artist, ImageURL: it.Image,
			MediaId: it.MediaId, QueueId: data.QueueId(it.QueueId), AlbumId: it.AlbumId,
		})
	}
	return out, nil
}

type PlayQueue struct {
	PlayerId data.PlayerId `heos:"pid"`
	QueueId  data.QueueId  `heos:"qid"`
}

func (c PlayQueue) Send(ctx context.Context, ch *channel.Channel) error {
	cmd, err := encode(groupPlayer, "play_queue", c)
	if err != nil {
		return err
	}
	_, err = execute(ctx, ch, cmd)
	return err
}

// RemoveFromQueue removes one or more queue ids in a single call.
type RemoveFromQueue struct {
	PlayerId data.PlayerId  `heos:"pid"`
	QueueIds []data.QueueId `heos:"qid"`
}

func (c RemoveFromQueue) Send(ctx context.Context, ch *channel.Channel) error {
	cmd, err := encode(groupPlayer, "remove_from_queue", c)
	if err != nil {
		return err
	}
	_, err = execute(ctx, ch, cmd)
	return err
}

type SaveQueue struct {
	PlayerId data.PlayerId `heos:"pid"`
	Name     string        `heos:"name"`
}

func (c SaveQueue) Send(ctx context.Context, ch *channel.Channel) error {
	cmd, err := encode(groupPlayer, "save_queue", c)
	if err != nil {
		return err
	}
	_, err = execute(ctx, ch, cmd)
	return err
}

type ClearQueue struct {
	PlayerId data.PlayerId `heos:"pid"`
}

func (c ClearQueue) Send(ctx context.Context, ch *channel.Channel) error {
	cmd, err := encode(groupPlayer, "clear_queue", c)
	if err != nil {
		return err
	}
	_, err = execute(ctx, ch, cmd)
	return err
}

// MoveQueueItem moves SourceQueueIds to land immediately before
// DestinationQueueId; see the mock/move-queue-item arithmetic for the
// exact renumbering this produces.
type MoveQueueItem struct {
	PlayerId            data.PlayerId  `heos:"pid"`
	SourceQueueIds      []data.QueueId `heos:"sqid"`
	DestinationQueueId  data.QueueId   `heos:"dqid"`
}

func (c MoveQueueItem) Send(ctx context.Context, ch *channel.Channel) error {
	cmd, err := encode(groupPlayer, "move_queue_item", c)
	if err != nil {
		return err
	}
	_, err = execute(ctx, ch, cmd)
	return err
}

type PlayNext struct {
	PlayerId data.PlayerId `heos:"pid"`
}

func (c PlayNext) Send(ctx context.Context, ch *channel.Channel) error {
	cmd, err := encode(groupPlayer, "play_next", c)
	if err != nil {
		return err
	}
	_, err = execute(ctx, ch, cmd)
	return err
}

type PlayPrevious struct {
	PlayerId data.PlayerId `heos:"pid"`
}

func (c PlayPrevious) Send(ctx context.Context, ch *channel.Channel) error {
	cmd, err := encode(groupPlayer, "play_previous", c)
	if err != nil {
		return err
	}
	_, err = execute(ctx, ch, cmd)
	return err
}

// --- quickselect ----------------------------------------------------------

type SetQuickSelect struct {
	PlayerId      data.PlayerId       `heos:"pid"`
	QuickSelectId data.QuickSelectId  `heos:"id"`
}

func (c SetQuickSelect) Send(ctx context.Context, ch *channel.Channel) error {
	cmd, err := encode(groupPlayer, "set_quickselect", c)
	if err != nil {
		return err
	}
	_, err = execute(ctx, ch, cmd)
	return err
}

type PlayQuickSelect struct {
	PlayerId      data.PlayerId      `heos:"pid"`
	QuickSelectId data.QuickSelectId `heos:"id"`
}

func (c PlayQuickSelect) Send(ctx context.Context, ch *channel.Channel) error {
	cmd, err := encode(groupPlayer, "play_quickselect", c)
	if err != nil {
		return err
	}
	_, err = execute(ctx, ch, cmd)
	return err
}

type GetQuickSelects struct {
	PlayerId data.PlayerId `heos:"pid"`
}

type QuickSelectEntry struct {
	Id   data.QuickSelectId
	Name string
}

func (c GetQuickSelects) Send(ctx context.Context, ch *channel.Channel) ([]QuickSelectEntry, error) {
	cmd, err := encode(groupPlayer, "get_quickselects", c)
	if err != nil {
		return nil, err
	}
	resp, err := execute(ctx, ch, cmd)
	if err != nil {
		return nil, err
	}
	var wireEntries []struct {
		Id   int    `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(resp.Payload, &wireEntries); err != nil {
		return nil, &MalformedResponseError{Command: "player/get_quickselects", Reason: err.Error()}
	}
	out := make([]QuickSelectEntry, 0, len(wireEntries))
	for _, w := range wireEntries {
		id, err := data.NewQuickSelectId(w.Id)
		if err != nil {
			return nil, &MalformedResponseError{Command: "player/get_quickselects", Reason: err.Error()}
		}
		out = append(out, QuickSelectEntry{Id: id, Name: w.Name})
	}
	return out, nil
}

// --- firmware check --------------------------------------------------------

type CheckUpdate struct {
	PlayerId data.PlayerId `heos:"pid"`
}

func (c CheckUpdate) Send(ctx context.Context, ch *channel.Channel) (bool, error) {
	cmd, err := encode(groupPlayer, "check_update", c)
	if err != nil {
		return false, err
	}
	resp, err := execute(ctx, ch, cmd)
	if err != nil {
		return false, err
	}
	return resp.MessageParams().Get("update") == "update_exist", nil
}
