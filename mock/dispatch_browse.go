package mock

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mvandenberg/heos-go/command/raw"
	"github.com/mvandenberg/heos-go/data"
	"github.com/mvandenberg/heos-go/wire"
)

func (s *System) dispatchBrowse(cmd raw.Command) wire.RawResponse {
	switch cmd.Name {
	case "get_music_sources":
		return s.getMusicSources(cmd)
	case "get_source_info":
		return s.getSourceInfo(cmd)
	case "get_search_criteria":
		return s.getSearchCriteria(cmd)
	case "add_to_queue":
		return s.addToQueue(cmd)
	case "rename_playlist":
		return s.renamePlaylist(cmd)
	case "delete_playlist":
		return s.deletePlaylist(cmd)
	case "browse":
		return s.browse(cmd)
	case "search":
		return s.search(cmd)
	case "play_stream":
		return s.playStream(cmd)
	case "play_preset":
		return s.playPreset(cmd)
	case "play_input":
		return s.playInput(cmd)
	case "retrieve_metadata":
		return s.retrieveMetadata(cmd)
	case "set_service_option":
		return s.setServiceOption(cmd)
	default:
		return unrecognizedError(cmd)
	}
}

type browseItemWire struct {
	Name      string `json:"name"`
	Cid       string `json:"cid"`
	Mid       string `json:"mid"`
	Playable  string `json:"playable"`
	Container string `json:"container"`
	ImageURL  string `json:"image_url"`
}

// browse lists a source's playlists as top-level containers; it does
// not model folder hierarchies below that, since nothing in the
// catalogue's track data carries container nesting.
func (s *System) browse(cmd raw.Command) wire.RawResponse {
	src, errResp, ok := s.lookupSource(cmd, "sid")
	if !ok {
		return errResp
	}
	if src.Info.Id != data.SourcePlaylists {
		out := make([]browseItemWire, 0, len(src.Catalogue))
		for _, tr := range src.Catalogue {
			out = append(out, browseItemWire{Name: tr.Info.Song, Mid: tr.Info.MediaId, Playable: "yes", Container: "no"})
		}
		return payloadResponse(cmd, marshalPayload(out))
	}
	out := make([]browseItemWire, 0, len(s.playlists))
	for _, pl := range s.playlists {
		out = append(out, browseItemWire{Name: pl.Name, Cid: pl.ContainerId, Playable: "no", Container: "yes"})
	}
	return payloadResponse(cmd, marshalPayload(out))
}

func (s *System) search(cmd raw.Command) wire.RawResponse {
	src, errResp, ok := s.lookupSource(cmd, "sid")
	if !ok {
		return errResp
	}
	if _, errResp, ok := requireParam(cmd, "scid"); !ok {
		return errResp
	}
	term, errResp, ok := requireParam(cmd, "search")
	if !ok {
		return errResp
	}
	out := make([]browseItemWire, 0)
	for _, tr := range src.Catalogue {
		if strings.Contains(strings.ToLower(tr.Info.Song), strings.ToLower(term)) {
			out = append(out, browseItemWire{Name: tr.Info.Song, Mid: tr.Info.MediaId, Playable: "yes", Container: "no"})
		}
	}
	return payloadResponse(cmd, marshalPayload(out))
}

func (s *System) playStream(cmd raw.Command) wire.RawResponse {
	p, errResp, ok := s.lookupPlayer(cmd, "pid")
	if !ok {
		return errResp
	}
	if _, errResp, ok := s.lookupSource(cmd, "sid"); !ok {
		return errResp
	}
	p.PlayState = data.PlayStatePlay
	return successResponse(cmd, nil)
}

func (s *System) playPreset(cmd raw.Command) wire.RawResponse {
	p, errResp, ok := s.lookupPlayer(cmd, "pid")
	if !ok {
		return errResp
	}
	if _, errResp, ok := requireParam(cmd, "preset"); !ok {
		return errResp
	}
	p.PlayState = data.PlayStatePlay
	return successResponse(cmd, nil)
}

func (s *System) playInput(cmd raw.Command) wire.RawResponse {
	p, errResp, ok := s.lookupPlayer(cmd, "pid")
	if !ok {
		return errResp
	}
	if _, errResp, ok := requireParam(cmd, "input"); !ok {
		return errResp
	}
	p.PlayState = data.PlayStatePlay
	p.NowPlaying = data.NowPlayingInfo{Kind: data.NowPlayingSong, Song: &data.SongInfo{SourceId: data.SourceAuxInput}}
	return successResponse(cmd, nil)
}

func (s *System) retrieveMetadata(cmd raw.Command) wire.RawResponse {
	if _, errResp, ok := s.lookupSource(cmd, "sid"); !ok {
		return errResp
	}
	cid, errResp, ok := requireParam(cmd, "cid")
	if !ok {
		return errResp
	}
	pl, ok := s.playlists[cid]
	if !ok {
		return invalidIdError(cmd, "cid", cid)
	}
	imageURL := ""
	if len(pl.Tracks) > 0 {
		imageURL = pl.Tracks[0].ImageURL
	}
	return payloadResponse(cmd, marshalPayload(struct {
		ImageURL string `json:"image_url"`
	}{ImageURL: imageURL}))
}

// setServiceOption accepts any known option_id and reports success; the
// mock has no per-service favorites/library state to mutate.
func (s *System) setServiceOption(cmd raw.Command) wire.RawResponse {
	optStr, errResp, ok := requireParam(cmd, "option_id")
	if !ok {
		return errResp
	}
	n, err := strconv.Atoi(optStr)
	if err != nil {
		return invalidArgumentError(cmd, "option_id", err)
	}
	switch data.ServiceOptionId(n) {
	case data.OptionAddTrackToLibrary, data.OptionAddAlbumToLibrary, data.OptionAddStationToLibrary,
		data.OptionAddPlaylistToLibrary, data.OptionRemoveTrackFromLibrary, data.OptionRemoveAlbumFromLibrary,
		data.OptionRemoveStationFromLibrary, data.OptionRemovePlaylistFromLibrary, data.OptionThumbsUp,
		data.OptionThumbsDown, data.OptionCreateNewStation, data.OptionAddToHeosFavorites,
		data.OptionRemoveFromHeosFavorites, data.OptionPlayableContainer:
		return successResponse(cmd, nil)
	default:
		return invalidArgumentError(cmd, "option_id", fmt.Errorf("unknown option_id %d", n))
	}
}

func (s *System) getMusicSources(cmd raw.Command) wire.RawResponse {
	out := make([]sourceInfoWire, 0, len(s.sources))
	for _, sid := range sortedSourceIds(s.sources) {
		out = append(out, sourceInfoToWire(s.sources[sid].Info))
	}
	return payloadResponse(cmd, marshalPayload(out))
}

func sortedSourceIds(m map[data.SourceId]*Source) []data.SourceId {
	ids := make([]data.SourceId, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
	return ids
}

func (s *System) getSourceInfo(cmd raw.Command) wire.RawResponse {
	src, errResp, ok := s.lookupSource(cmd, "sid")
	if !ok {
		return errResp
	}
	return payloadResponse(cmd, marshalPayload(sourceInfoToWire(src.Info)))
}

func (s *System) getSearchCriteria(cmd raw.Command) wire.RawResponse {
	src, errResp, ok := s.lookupSource(cmd, "sid")
	if !ok {
		return errResp
	}
	out := make([]searchCriteriaWire, 0, len(src.Criteria))
	for _, c := range src.Criteria {
		out = append(out, searchCriteriaToWire(c))
	}
	return payloadResponse(cmd, marshalPayload(out))
}

// addToQueue looks the named media up in the source's catalogue and
// appends (or otherwise splices, per AddType) it into the player's
// queue. A container id with no matching track is accepted as a
// playlist reference when one was saved under that id.
func (s *System) addToQueue(cmd raw.Command) wire.RawResponse {
	p, errResp, ok := s.lookupPlayer(cmd, "pid")
	if !ok {
		return errResp
	}
	src, errResp, ok := s.lookupSource(cmd, "sid")
	if !ok {
		return errResp
	}
	aidStr, errResp, ok := requireParam(cmd, "aid")
	if !ok {
		return errResp
	}
	aid, err := parseAddToQueueType(aidStr)
	if err != nil {
		return invalidArgumentError(cmd, "aid", err)
	}

	var tracks []data.QueuedTrackInfo
	if mid, ok := optionalParam(cmd, "mid"); ok {
		tr, ok := src.Catalogue[mid]
		if !ok {
			return invalidIdError(cmd, "mid", mid)
		}
		tracks = []data.QueuedTrackInfo{tr.Info}
	} else if cid, ok := optionalParam(cmd, "cid"); ok {
		pl, ok := s.playlists[cid]
		if !ok {
			return invalidIdError(cmd, "cid", cid)
		}
		tracks = append(tracks, pl.Tracks...)
	} else {
		return missingArgumentError(cmd, "mid")
	}

	switch aid {
	case data.AddToQueueReplaceAndPlay:
		p.Queue = tracks
	case data.AddToQueuePlayNext:
		p.Queue = append(append([]data.QueuedTrackInfo{}, tracks...), p.Queue...)
	default:
		p.Queue = append(p.Queue, tracks...)
	}
	p.adjustQueueIds()
	if aid == data.AddToQueuePlayNow || aid == data.AddToQueueReplaceAndPlay {
		p.PlayState = data.PlayStatePlay
	}
	return successResponse(cmd, nil)
}

func parseAddToQueueType(s string) (data.AddToQueueType, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return data.ParseAddToQueueType(n)
}

func (s *System) renamePlaylist(cmd raw.Command) wire.RawResponse {
	cid, errResp, ok := requireParam(cmd, "cid")
	if !ok {
		return errResp
	}
	name, errResp, ok := requireParam(cmd, "name")
	if !ok {
		return errResp
	}
	pl, ok := s.playlists[cid]
	if !ok {
		return invalidIdError(cmd, "cid", cid)
	}
	pl.Name = name
	return successResponse(cmd, nil)
}

func (s *System) deletePlaylist(cmd raw.Command) wire.RawResponse {
	cid, errResp, ok := requireParam(cmd, "cid")
	if !ok {
		return errResp
	}
	if _, ok := s.playlists[cid]; !ok {
		return invalidIdError(cmd, "cid", cid)
	}
	delete(s.playlists, cid)
	return successResponse(cmd, nil)
}
