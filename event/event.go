// Package event defines the typed HEOS event taxonomy and the parser
// that builds it from an inbound wire.RawResponse.
package event

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mvandenberg/heos-go/data"
	"github.com/mvandenberg/heos-go/wire"
)

// Kind discriminates the Event sum type.
type Kind int

const (
	SourcesChanged Kind = iota
	PlayersChanged
	GroupsChanged
	PlayerStateChanged
	PlayerNowPlayingChanged
	PlayerNowPlayingProgress
	PlayerPlaybackError
	PlayerQueueChanged
	PlayerVolumeChanged
	RepeatModeChanged
	ShuffleModeChanged
	GroupVolumeChanged
	UserChanged
)

var kindNames = map[Kind]string{
	SourcesChanged:           "sources_changed",
	PlayersChanged:           "players_changed",
	GroupsChanged:            "groups_changed",
	PlayerStateChanged:       "player_state_changed",
	PlayerNowPlayingChanged:  "player_now_playing_changed",
	PlayerNowPlayingProgress: "player_now_playing_progress",
	PlayerPlaybackError:      "player_playback_error",
	PlayerQueueChanged:       "player_queue_changed",
	PlayerVolumeChanged:      "player_volume_changed",
	RepeatModeChanged:        "repeat_mode_changed",
	ShuffleModeChanged:       "shuffle_mode_changed",
	GroupVolumeChanged:       "group_volume_changed",
	UserChanged:              "user_changed",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(k))
}

// Event is a typed HEOS event. Only the fields relevant to Kind are
// populated; it is modeled as one struct (rather than an interface
// per variant) because the dispatcher and subscribers mostly need to
// switch on Kind and read a couple of fields, and a flat struct keeps
// that switch simple. See data model notes on why this is not a
// callback-list design.
type Event struct {
	Kind Kind

	PlayerId data.PlayerId
	GroupId  data.GroupId

	PlayState data.PlayState

	ElapsedMs  int64
	DurationMs int64

	ErrorText string

	Level data.Volume
	Mute  data.MuteState

	Repeat  data.RepeatMode
	Shuffle data.ShuffleMode

	SignedIn bool
	Username string
}

// UnknownEventError reports an event/ command path with no known
// taxonomy entry.
type UnknownEventError struct {
	Command string
}

func (e *UnknownEventError) Error() string {
	return fmt.Sprintf("event: unknown event path %q", e.Command)
}

// Parse builds a typed Event from a raw inbound response known to be
// an event frame (wire.RawResponse.IsEvent()).
func Parse(r wire.RawResponse) (Event, error) {
	params := r.MessageParams()
	switch r.Heos.Command {
	case "event/sources_changed":
		return Event{Kind: SourcesChanged}, nil
	case "event/players_changed":
		return Event{Kind: PlayersChanged}, nil
	case "event/groups_changed":
		return Event{Kind: GroupsChanged}, nil
	case "event/player_state_changed":
		return parsePlayerStateChanged(params)
	case "event/player_now_playing_changed":
		return parsePlayerNowPlayingChanged(params)
	case "event/player_now_playing_progress":
		return parsePlayerNowPlayingProgress(params)
	case "event/player_playback_error":
		return parsePlayerPlaybackError(params)
	case "event/player_queue_changed":
		return parsePlayerQueueChanged(params)
	case "event/player_volume_changed":
		return parsePlayerVolumeChanged(params)
	case "event/repeat_mode_changed":
		return parseRepeatModeChanged(params)
	case "event/shuffle_mode_changed":
		return parseShuffleModeChanged(params)
	case "event/group_volume_changed":
		return parseGroupVolumeChanged(params)
	case "event/user_changed":
		return parseUserChanged(params)
	default:
		return Event{}, &UnknownEventError{Command: r.Heos.Command}
	}
}

func requirePid(params url.Values) (data.PlayerId, error) {
	s := params.Get("pid")
	if s == "" {
		return 0, fmt.Errorf("event: missing pid")
	}
	return data.ParsePlayerId(s)
}

func requireGid(params url.Values) (data.GroupId, error) {
	s := params.Get("gid")
	if s == "" {
		return 0, fmt.Errorf("event: missing gid")
	}
	return data.ParseGroupId(s)
}

func parsePlayerStateChanged(params url.Values) (Event, error) {
	pid, err := requirePid(params)
	if err != nil {
		return Event{}, err
	}
	state, err := data.ParsePlayState(params.Get("state"))
	if err != nil {
		return Event{}, err
	}
	return Event{Kind: PlayerStateChanged, PlayerId: pid, PlayState: state}, nil
}

func parsePlayerNowPlayingChanged(params url.Values) (Event, error) {
	pid, err := requirePid(params)
	if err != nil {
		return Event{}, err
	}
	return Event{Kind: PlayerNowPlayingChanged, PlayerId: pid}, nil
}

func parsePlayerNowPlayingProgress(params url.Values) (Event, error) {
	pid, err := requirePid(params)
	if err != nil {
		return Event{}, err
	}
	cur, err := strconv.ParseInt(params.Get("cur_pos"), 10, 64)
	if err != nil {
		return Event{}, fmt.Errorf("event: bad cur_pos: %w", err)
	}
	dur, err := strconv.ParseInt(params.Get("duration"), 10, 64)
	if err != nil {
		return Event{}, fmt.Errorf("event: bad duration: %w", err)
	}
	return Event{Kind: PlayerNowPlayingProgress, PlayerId: pid, ElapsedMs: cur, DurationMs: dur}, nil
}

func parsePlayerPlaybackError(params url.Values) (Event, error) {
	pid, err := requirePid(params)
	if err != nil {
		return Event{}, err
	}
	return Event{Kind: PlayerPlaybackError, PlayerId: pid, ErrorText: params.Get("error")}, nil
}

func parsePlayerQueueChanged(params url.Values) (Event, error) {
	pid, err := requirePid(params)
	if err != nil {
		return Event{}, err
	}
	return Event{Kind: PlayerQueueChanged, PlayerId: pid}, nil
}

func parsePlayerVolumeChanged(params url.Values) (Event, error) {
	pid, err := requirePid(params)
	if err != nil {
		return Event{}, err
	}
	level, err := data.ParseVolume(params.Get("level"))
	if err != nil {
		return Event{}, err
	}
	mute, err := data.ParseMuteState(params.Get("mute"))
	if err != nil {
		return Event{}, err
	}
	return Event{Kind: PlayerVolumeChanged, PlayerId: pid, Level: level, Mute: mute}, nil
}

func parseRepeatModeChanged(params url.Values) (Event, error) {
	pid, err := requirePid(params)
	if err != nil {
		return Event{}, err
	}
	repeat, err := data.ParseRepeatMode(params.Get("repeat"))
	if err != nil {
		return Event{}, err
	}
	return Event{Kind: RepeatModeChanged, PlayerId: pid, Repeat: repeat}, nil
}

func parseShuffleModeChanged(params url.Values) (Event, error) {
	pid, err := requirePid(params)
	if err != nil {
		return Event{}, err
	}
	shuffle, err := data.ParseShuffleMode(params.Get("shuffle"))
	if err != nil {
		return Event{}, err
	}
	return Event{Kind: ShuffleModeChanged, PlayerId: pid, Shuffle: shuffle}, nil
}

func parseGroupVolumeChanged(params url.Values) (Event, error) {
	gid, err := requireGid(params)
	if err != nil {
		return Event{}, err
	}
	level, err := data.ParseVolume(params.Get("level"))
	if err != nil {
		return Event{}, err
	}
	mute, err := data.ParseMuteState(params.Get("mute"))
	if err != nil {
		return Event{}, err
	}
	return Event{Kind: GroupVolumeChanged, GroupId: gid, Level: level, Mute: mute}, nil
}

func parseUserChanged(params url.Values) (Event, error) {
	// Wire form is a bare key, either "signed_in=<username>" or
	// "signed_out", which url.ParseQuery handles as a flag-valued key.
	for k, v := range params {
		if k == "signed_in" {
			name := ""
			if len(v) > 0 {
				name = v[0]
			}
			return Event{Kind: UserChanged, SignedIn: true, Username: name}, nil
		}
		if k == "signed_out" || strings.HasPrefix(k, "signed_out") {
			return Event{Kind: UserChanged, SignedIn: false}, nil
		}
	}
	return Event{}, fmt.Errorf("event: malformed user_changed message")
}
