package command

import (
	"context"
	"encoding/json"

	"github.com/mvandenberg/heos-go/channel"
	"github.com/mvandenberg/heos-go/command/raw"
	"github.com/mvandenberg/heos-go/data"
)

const groupBrowse = "browse"

type GetMusicSources struct{}

type sourceInfoWire struct {
	Name            string  `json:"name"`
	ImageURL        string  `json:"image_url"`
	Type            string  `json:"type"`
	Sid             int64   `json:"sid"`
	Available       string  `json:"available"`
	ServiceUsername *string `json:"service_username,omitempty"`
}

func convertSourceInfo(w sourceInfoWire) (data.SourceInfo, error) {
	st, err := data.ParseSourceType(w.Type)
	if err != nil {
		return data.SourceInfo{}, err
	}
	return data.SourceInfo{
		Name: w.Name, ImageURL: w.ImageURL, Type: st, Id: data.SourceId(w.Sid),
		Available: w.Available == "true", ServiceUsername: w.ServiceUsername,
	}, nil
}

func (GetMusicSources) Send(ctx context.Context, ch *channel.Channel) ([]data.SourceInfo, error) {
	cmd, err := encode(groupBrowse, "get_music_sources", struct{}{})
	if err != nil {
		return nil, err
	}
	resp, err := execute(ctx, ch, cmd)
	if err != nil {
		return nil, err
	}
	var wireSources []sourceInfoWire
	if err := json.Unmarshal(resp.Payload, &wireSources); err != nil {
		return nil, &MalformedResponseError{Command: "browse/get_music_sources", Reason: err.Error()}
	}
	out := make([]data.SourceInfo, 0, len(wireSources))
	for _, w := range wireSources {
		info, err := convertSourceInfo(w)
		if err != nil {
			return nil, &MalformedResponseError{Command: "browse/get_music_sources", Reason: err.Error()}
		}
		out = append(out, info)
	}
	return out, nil
}

type GetSourceInfo struct {
	SourceId data.SourceId `heos:"sid"`
}

func (c GetSourceInfo) Send(ctx context.Context, ch *channel.Channel) (data.SourceInfo, error) {
	cmd, err := encode(groupBrowse, "get_source_info", c)
	if err != nil {
		return data.SourceInfo{}, err
	}
	resp, err := execute(ctx, ch, cmd)
	if err != nil {
		return data.SourceInfo{}, err
	}
	var w sourceInfoWire
	if err := json.Unmarshal(resp.Payload, &w); err != nil {
		return data.SourceInfo{}, &MalformedResponseError{Command: "browse/get_source_info", Reason: err.Error()}
	}
	return convertSourceInfo(w)
}

// BrowseItem is one entry returned by a Browse call: a container
// (playlist, folder) or a playable leaf (track, station).
type BrowseItem struct {
	Name        string
	ContainerId string
	MediaId     string
	Playable    bool
	Container   bool
	ImageURL    string
}

type Browse struct {
	SourceId    data.SourceId `heos:"sid"`
	ContainerId *string       `heos:"cid,omitempty"`
	Range       *raw.Range    `heos:"range,omitempty"`
}

func (c Browse) Send(ctx context.Context, ch *channel.Channel) ([]BrowseItem, error) {
	cmd, err := encode(groupBrowse, "browse", c)
	if err != nil {
		return nil, err
	}
	resp, err := execute(ctx, ch, cmd)
	if err != nil {
		return nil, err
	}
	var items []struct {
		Name      string `json:"name"`
		Cid       string `json:"cid"`
		Mid       string `json:"mid"`
		Playable  string `json:"playable"`
		Container string `json:"container"`
		ImageURL  string `json:"image_url"`
	}
	if err := json.Unmarshal(resp.Payload, &items); err != nil {
		return nil, &MalformedResponseError{Command: "browse/browse", Reason: err.Error()}
	}
	out := make([]BrowseItem, 0, len(items))
	for _, it := range items {
		out = append(out, BrowseItem{
			Name: it.Name, ContainerId: it.Cid, MediaId: it.Mid,
			Playable: it.Playable == "yes", Container: it.Container == "yes",
			ImageURL: it.ImageURL,
		})
	}
	return out, nil
}

type GetSearchCriteria struct {
	SourceId data.SourceId `heos:"sid"`
}

func (c GetSearchCriteria) Send(ctx context.Context, ch *channel.Channel) ([]data.SearchCriteria, error) {
	cmd, err := encode(groupBrowse, "get_search_criteria", c)
	if err != nil {
		return nil, err
	}
	resp, err := execute(ctx, ch, cmd)
	if err != nil {
		return nil, err
	}
	var items []struct {
		Name     string `json:"name"`
		Scid     int64  `json:"scid"`
		Wildcard string `json:"wildcard"`
	}
	if err := json.Unmarshal(resp.Payload, &items); err != nil {
		return nil, &MalformedResponseError{Command: "browse/get_search_criteria", Reason: err.Error()}
	}
	out := make([]data.SearchCriteria, 0, len(items))
	for _, it := range items {
		out = append(out, data.SearchCriteria{Name: it.Name, CriteriaId: data.CriteriaId(it.Scid), Wildcard: it.Wildcard == "yes"})
	}
	return out, nil
}

type Search struct {
	SourceId   data.SourceId   `heos:"sid"`
	CriteriaId data.CriteriaId `heos:"scid"`
	Search     string          `heos:"search"`
	Range      *raw.Range      `heos:"range,omitempty"`
}

func (c Search) Send(ctx context.Context, ch *channel.Channel) ([]BrowseItem, error) {
	cmd, err := encode(groupBrowse, "search", c)
	if err != nil {
		return nil, err
	}
	resp, err := execute(ctx, ch, cmd)
	if err != nil {
		return nil, err
	}
	var items []struct {
		Name      string `json:"name"`
		Mid       string `json:"mid"`
		Playable  string `json:"playable"`
		Container string `json:"container"`
	}
	if err := json.Unmarshal(resp.Payload, &items); err != nil {
		return nil, &MalformedResponseError{Command: "browse/search", Reason: err.Error()}
	}
	out := make([]BrowseItem, 0, len(items))
	for _, it := range items {
		out = append(out, BrowseItem{Name: it.Name, MediaId: it.Mid, Playable: it.Playable == "yes", Container: it.Container == "yes"})
	}
	return out, nil
}

// PlayStream plays a station or a direct URL through the same
// server-side command name; per Design Notes Open Question (a) the
// response cannot distinguish which was intended from the command
// name alone, so this command struct records Kind for the caller.
type PlayStreamKind int

const (
	PlayStreamStation PlayStreamKind = iota
	PlayStreamURL
)

type PlayStream struct {
	PlayerId data.PlayerId `heos:"pid"`
	SourceId data.SourceId `heos:"sid"`
	MediaId  string        `heos:"mid,omitempty"`
	URL      string         `heos:"url,omitempty"`
	Name     string         `heos:"name,omitempty"`

	Kind PlayStreamKind `heos:"-"`
}

func (c PlayStream) Send(ctx context.Context, ch *channel.Channel) error {
	cmd, err := encode(groupBrowse, "play_stream", c)
	if err != nil {
		return err
	}
	_, err = execute(ctx, ch, cmd)
	return err
}

type PlayPreset struct {
	PlayerId data.PlayerId `heos:"pid"`
	Preset   int           `heos:"preset"`
}

func (c PlayPreset) Send(ctx context.Context, ch *channel.Channel) error {
	cmd, err := encode(groupBrowse, "play_preset", c)
	if err != nil {
		return err
	}
	_, err = execute(ctx, ch, cmd)
	return err
}

type PlayInput struct {
	PlayerId     data.PlayerId `heos:"pid"`
	Input        string        `heos:"input"`
	SourcePlayer *data.PlayerId `heos:"spid,omitempty"`
}

func (c PlayInput) Send(ctx context.Context, ch *channel.Channel) error {
	cmd, err := encode(groupBrowse, "play_input", c)
	if err != nil {
		return err
	}
	_, err = execute(ctx, ch, cmd)
	return err
}

type AddToQueue struct {
	PlayerId data.PlayerId        `heos:"pid"`
	SourceId data.SourceId        `heos:"sid"`
	ContainerId string            `heos:"cid,omitempty"`
	MediaId  string               `heos:"mid,omitempty"`
	AddType  data.AddToQueueType  `heos:"aid"`
}

func (c AddToQueue) Send(ctx context.Context, ch *channel.Channel) error {
	cmd, err := encode(groupBrowse, "add_to_queue", c)
	if err != nil {
		return err
	}
	_, err = execute(ctx, ch, cmd)
	return err
}

type RenamePlaylist struct {
	SourceId data.SourceId `heos:"sid"`
	ContainerId string     `heos:"cid"`
	Name     string        `heos:"name"`
}

func (c RenamePlaylist) Send(ctx context.Context, ch *channel.Channel) error {
	cmd, err := encode(groupBrowse, "rename_playlist", c)
	if err != nil {
		return err
	}
	_, err = execute(ctx, ch, cmd)
	return err
}

type DeletePlaylist struct {
	SourceId    data.SourceId `heos:"sid"`
	ContainerId string        `heos:"cid"`
}

func (c DeletePlaylist) Send(ctx context.Context, ch *channel.Channel) error {
	cmd, err := encode(groupBrowse, "delete_playlist", c)
	if err != nil {
		return err
	}
	_, err = execute(ctx, ch, cmd)
	return err
}

type RetrieveAlbumMetadata struct {
	SourceId    data.SourceId `heos:"sid"`
	ContainerId string        `heos:"cid"`
}

type AlbumMetadata struct {
	ImageURL string
}

func (c RetrieveAlbumMetadata) Send(ctx context.Context, ch *channel.Channel) (AlbumMetadata, error) {
	cmd, err := encode(groupBrowse, "retrieve_metadata", c)
	if err != nil {
		return AlbumMetadata{}, err
	}
	resp, err := execute(ctx, ch, cmd)
	if err != nil {
		return AlbumMetadata{}, err
	}
	var w struct {
		ImageURL string `json:"image_url"`
	}
	if err := json.Unmarshal(resp.Payload, &w); err != nil {
		return AlbumMetadata{}, &MalformedResponseError{Command: "browse/retrieve_metadata", Reason: err.Error()}
	}
	return AlbumMetadata{ImageURL: w.ImageURL}, nil
}

// SetServiceOption issues a discriminated "browse/set_service_option"
// command; the discriminant and its flattened fields come from
// data.ServiceOption (§4.B's discriminant-flatten convention).
type SetServiceOption struct {
	Option   data.ServiceOption `heos:",flatten"`
	PlayerId *data.PlayerId     `heos:"pid,omitempty"`
}

func (c SetServiceOption) Send(ctx context.Context, ch *channel.Channel) error {
	cmd, err := encode(groupBrowse, "set_service_option", c)
	if err != nil {
		return err
	}
	_, err = execute(ctx, ch, cmd)
	return err
}
