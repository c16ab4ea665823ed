// Package mock is an in-process implementation of the wire contract a
// real HEOS device exposes, grounded on the original implementation's
// mock module (original_source/heos/src/mock.rs): a prepopulated set
// of music sources, a players/groups/playlists table, and a dispatch
// table that builds a wire.RawResponse for every command in the
// catalog the same way a device's firmware would, including its exact
// error codes on bad input.
//
// Callers normally use Conn to plug a System in as the byte stream
// behind a channel.Channel, exercising the whole stack (serializer,
// channel, command, state) without a network.
package mock

import (
	"sync"
	"time"

	"github.com/mvandenberg/heos-go/data"
)

// Player is one mock player's full mutable state. NewSystem/AddPlayer
// initialize everything not carried by data.PlayerInfo to the same
// defaults the original mock used: stopped, volume 100, unmuted, no
// repeat/shuffle, an empty queue, and six named QuickSelect slots.
type Player struct {
	Info         data.PlayerInfo
	PlayState    data.PlayState
	Volume       data.Volume
	Mute         data.MuteState
	Repeat       data.RepeatMode
	Shuffle      data.ShuffleMode
	NowPlaying   data.NowPlayingInfo
	Queue        []data.QueuedTrackInfo
	QuickSelects [6]string
}

func newPlayer(info data.PlayerInfo) *Player {
	vol, _ := data.NewVolume(100)
	p := &Player{
		Info:      info,
		PlayState: data.PlayStateStop,
		Volume:    vol,
		Mute:      data.MuteOff,
		Repeat:    data.RepeatOff,
		Shuffle:   data.ShuffleOff,
		NowPlaying: data.NowPlayingInfo{
			Kind: data.NowPlayingSong,
			Song: &data.SongInfo{SourceId: data.SourceAuxInput},
		},
	}
	for i := range p.QuickSelects {
		p.QuickSelects[i] = quickSelectName(i + 1)
	}
	return p
}

// NowPlayingName renders a short label for the current now-playing
// entry, used as the default quickselect name when one is captured.
func (p *Player) NowPlayingName() string {
	switch p.NowPlaying.Kind {
	case data.NowPlayingStation:
		if p.NowPlaying.Station != nil {
			return p.NowPlaying.Station.StationName
		}
	default:
		if p.NowPlaying.Song != nil {
			return p.NowPlaying.Song.Song
		}
	}
	return ""
}

func quickSelectName(n int) string {
	const digits = "123456789"
	if n < 1 || n > 9 {
		return "QuickSelect"
	}
	return "QuickSelect" + string(digits[n-1])
}

// adjustQueueIds renumbers the queue 1.. in order, per QueueId's
// documented convention (0 is reserved for the now-playing slot). The
// original's equivalent (MockPlayer::adjust_queue_ids) numbers from 0;
// this system keeps the Go data model's own 1-based queue convention
// consistently instead of carrying that detail over literally.
func (p *Player) adjustQueueIds() {
	for i := range p.Queue {
		p.Queue[i].QueueId = data.QueueId(i + 1)
	}
}

// Group is one mock group's mutable state.
type Group struct {
	Info   data.GroupInfo
	Volume data.Volume
	Mute   data.MuteState
}

func newGroup(info data.GroupInfo) *Group {
	vol, _ := data.NewVolume(100)
	return &Group{Info: info, Volume: vol, Mute: data.MuteOff}
}

// Track is a catalogue entry backing browse/add_to_queue lookups. Not
// prepopulated: a test arranges a source's catalogue directly via
// System.AddTrack before driving add_to_queue/search against it.
type Track struct {
	Info     data.QueuedTrackInfo
	SourceId data.SourceId
	Duration time.Duration
}

// Source is one mock music source: static info, its search criteria,
// and a track catalogue keyed by media id.
type Source struct {
	Info       data.SourceInfo
	Criteria   []data.SearchCriteria
	Catalogue  map[string]Track
}

func newSource(info data.SourceInfo) *Source {
	return &Source{Info: info, Catalogue: map[string]Track{}}
}

// Playlist is a saved queue snapshot, addressed by a synthetic
// container id ("playlist-N").
type Playlist struct {
	ContainerId string
	Name        string
	Tracks      []data.QueuedTrackInfo
}

// System is the full mock HEOS fleet: players, groups, sources and
// playlists, plus sign-in state. All access goes through a single
// mutex, matching the original's single parking_lot::Mutex guarding
// the whole MockHeosSystem: a mock device is not expected to see
// genuine concurrent command processing, only genuine concurrent
// *callers*.
type System struct {
	mu sync.Mutex

	SignedIn bool
	Username string

	players   map[data.PlayerId]*Player
	groups    map[data.GroupId]*Group
	sources   map[data.SourceId]*Source
	playlists map[string]*Playlist

	nextPlaylistNum uint64
}

// NewSystem builds an empty fleet (no players, no groups) with the
// standard catalog of HEOS music sources prepopulated, matching the
// original's get_default_sources (image URLs, types and search
// criteria retrieved experimentally against a real device).
func NewSystem() *System {
	s := &System{
		players:   map[data.PlayerId]*Player{},
		groups:    map[data.GroupId]*Group{},
		sources:   map[data.SourceId]*Source{},
		playlists: map[string]*Playlist{},
	}
	for _, src := range defaultSources() {
		s.sources[src.Info.Id] = src
	}
	return s
}

// AddPlayer registers a new player, defaulting its mutable state.
func (s *System) AddPlayer(info data.PlayerInfo) *Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := newPlayer(info)
	s.players[info.Id] = p
	return p
}

// AddTrack inserts a catalogue entry under sourceId, keyed by the
// track's MediaId.
func (s *System) AddTrack(sourceId data.SourceId, track Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	src, ok := s.sources[sourceId]
	if !ok {
		return
	}
	src.Catalogue[track.Info.MediaId] = track
}

func defaultSources() []*Source {
	const noImage = "data:text/NoImageUrlHasBeenSet"
	named := func(n, logo string, id data.SourceId) *Source {
		return newSource(data.SourceInfo{
			Name: n, ImageURL: logo, Type: data.SourceTypeMusicService,
			Id: id, Available: false,
		})
	}
	logo := func(name string) string {
		return "https://production.ws.skyegloup.com:443/media/images/service/logos/" + name + ".png"
	}

	pandora := named("Pandora", logo("pandora"), data.SourcePandora)

	rhapsody := named("Rhapsody", logo("rhapsody"), data.SourceRhapsody)
	rhapsody.Criteria = []data.SearchCriteria{
		{Name: "Artist", CriteriaId: 1},
		{Name: "Album", CriteriaId: 2},
		{Name: "Track", CriteriaId: 3, Wildcard: false},
	}

	tuneIn := named("TuneIn", logo("tunein"), data.SourceTuneIn)
	tuneIn.Criteria = []data.SearchCriteria{{Name: "Station", CriteriaId: 4}}

	spotify := named("Spotify", noImage, data.SourceSpotify)

	deezer := named("Deezer", logo("deezer"), data.SourceDeezer)
	deezer.Criteria = []data.SearchCriteria{
		{Name: "Artist", CriteriaId: 1},
		{Name: "Album", CriteriaId: 2},
		{Name: "Track", CriteriaId: 3},
	}

	napster := named("Napster", noImage, data.SourceNapster)

	iHeart := named("iHeartRadio", logo("iheartradio"), data.SourceIHeartRadio)
	iHeart.Criteria = []data.SearchCriteria{
		{Name: "Artist", CriteriaId: 1},
		{Name: "Shows", CriteriaId: 5},
		{Name: "Track", CriteriaId: 3},
	}

	sirius := named("Sirius XM", logo("siriusxm"), data.SourceSiriusXM)

	soundcloud := named("Soundcloud", logo("soundcloud"), data.SourceSoundcloud)
	soundcloud.Criteria = []data.SearchCriteria{
		{Name: "Accounts", CriteriaId: 6},
		{Name: "Track", CriteriaId: 3, Wildcard: false},
	}

	tidal := named("Tidal", logo("tidal"), data.SourceTidal)
	tidal.Criteria = []data.SearchCriteria{
		{Name: "Artist", CriteriaId: 1},
		{Name: "Album", CriteriaId: 2},
		{Name: "Track", CriteriaId: 3},
		{Name: "Playlist", CriteriaId: 7},
	}

	amazon := named("Amazon Music", logo("amazon"), data.SourceAmazonMusic)

	localMusic := newSource(data.SourceInfo{
		Name: "Local Music", ImageURL: logo("musicsource_logo_servers"),
		Type: data.SourceTypeHeosServer, Id: data.SourceLocalMusic, Available: true,
	})
	playlists := newSource(data.SourceInfo{
		Name: "HEOS Playlists", ImageURL: logo("musicsource_logo_playlists"),
		Type: data.SourceTypeHeosService, Id: data.SourcePlaylists, Available: true,
	})
	history := newSource(data.SourceInfo{
		Name: "HEOS History", ImageURL: logo("musicsource_logo_history"),
		Type: data.SourceTypeHeosService, Id: data.SourceHistory, Available: true,
	})
	auxInputs := newSource(data.SourceInfo{
		Name: "HEOS AUX Inputs", ImageURL: logo("musicsource_logo_aux"),
		Type: data.SourceTypeHeosService, Id: data.SourceAuxInput, Available: true,
	})
	favorites := newSource(data.SourceInfo{
		Name: "HEOS Favorites", ImageURL: logo("musicsource_logo_favorites"),
		Type: data.SourceTypeHeosService, Id: data.SourceFavorites, Available: true,
	})

	return []*Source{
		pandora, rhapsody, tuneIn, spotify, deezer, napster, iHeart,
		sirius, soundcloud, tidal, amazon, localMusic, playlists,
		history, auxInputs, favorites,
	}
}
