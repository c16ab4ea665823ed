package heosweb

import "github.com/mvandenberg/heos-go/event"

// eventDTO is the wire shape for one relayed event.Event: a plain
// string Kind (event.Kind has no MarshalJSON of its own, and emitting
// the bare int would be meaningless to a browser) plus whichever
// fields that Kind populates. A user_changed event is relayed with its
// kind only; its sign-in state and username are not included.
type eventDTO struct {
	Kind string `json:"kind"`

	PlayerId *int64 `json:"player_id,omitempty"`
	GroupId  *int64 `json:"group_id,omitempty"`

	PlayState string `json:"play_state,omitempty"`

	ElapsedMs  *int64 `json:"elapsed_ms,omitempty"`
	DurationMs *int64 `json:"duration_ms,omitempty"`

	ErrorText string `json:"error_text,omitempty"`

	Level *int   `json:"level,omitempty"`
	Mute  string `json:"mute,omitempty"`

	Repeat  string `json:"repeat,omitempty"`
	Shuffle string `json:"shuffle,omitempty"`
}

func toEventDTO(evt event.Event) eventDTO {
	dto := eventDTO{Kind: evt.Kind.String()}

	switch evt.Kind {
	case event.PlayerStateChanged, event.PlayerNowPlayingChanged,
		event.PlayerNowPlayingProgress, event.PlayerPlaybackError,
		event.PlayerQueueChanged, event.PlayerVolumeChanged,
		event.RepeatModeChanged, event.ShuffleModeChanged:
		id := int64(evt.PlayerId)
		dto.PlayerId = &id
	case event.GroupVolumeChanged:
		id := int64(evt.GroupId)
		dto.GroupId = &id
	}

	if evt.Kind == event.PlayerStateChanged {
		dto.PlayState = string(evt.PlayState)
	}
	if evt.Kind == event.PlayerNowPlayingProgress {
		elapsed, duration := evt.ElapsedMs, evt.DurationMs
		dto.ElapsedMs = &elapsed
		dto.DurationMs = &duration
	}
	if evt.Kind == event.PlayerPlaybackError {
		dto.ErrorText = evt.ErrorText
	}
	if evt.Kind == event.PlayerVolumeChanged || evt.Kind == event.GroupVolumeChanged {
		level := int(evt.Level)
		dto.Level = &level
		dto.Mute, _ = evt.Mute.EncodeHeosValue()
	}
	if evt.Kind == event.RepeatModeChanged {
		dto.Repeat, _ = evt.Repeat.EncodeHeosValue()
	}
	if evt.Kind == event.ShuffleModeChanged {
		dto.Shuffle, _ = evt.Shuffle.EncodeHeosValue()
	}

	return dto
}
