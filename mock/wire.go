package mock

import (
	"encoding/json"

	"github.com/mvandenberg/heos-go/data"
)

// The wire-shaped structs below mirror the unexported structs the
// command package unmarshals into (command/player.go, group.go,
// browse.go), field for field, so a response built here round-trips
// through the real command decoders exactly as a device's would.

type playerInfoWire struct {
	Name    string  `json:"name"`
	Pid     int64   `json:"pid"`
	Gid     *int64  `json:"gid,omitempty"`
	Model   string  `json:"model"`
	Version string  `json:"version"`
	IP      string  `json:"ip"`
	Network string  `json:"network"`
	Lineout int     `json:"lineout"`
	Control *int    `json:"control,omitempty"`
	Serial  *string `json:"serial,omitempty"`
}

func playerInfoToWire(info data.PlayerInfo) playerInfoWire {
	w := playerInfoWire{
		Name: info.Name, Pid: int64(info.Id), Model: info.Model,
		Version: info.Version, IP: info.IP, Network: info.Network.String(),
		Lineout: info.LineOut.Wire(), Serial: info.Serial,
	}
	if info.GroupId != nil {
		gid := int64(*info.GroupId)
		w.Gid = &gid
	}
	if info.LineOutControl != nil {
		ctrl := int(*info.LineOutControl)
		w.Control = &ctrl
	}
	return w
}

type nowPlayingWire struct {
	Type     string `json:"type"`
	Song     string `json:"song"`
	Album    string `json:"album"`
	Artist   string `json:"artist"`
	ImageURL string `json:"image_url"`
	MediaId  string `json:"mid"`
	AlbumId  string `json:"album_id"`
	QueueId  uint64 `json:"qid"`
	Sid      int64  `json:"sid"`
	Station  string `json:"station"`
}

func nowPlayingToWire(np data.NowPlayingInfo) nowPlayingWire {
	switch np.Kind {
	case data.NowPlayingStation:
		st := np.Station
		if st == nil {
			st = &data.StationInfo{}
		}
		return nowPlayingWire{
			Type: "station", Song: st.Song, Album: st.Album, Artist: st.Artist,
			ImageURL: st.ImageURL, MediaId: st.MediaId, QueueId: uint64(st.QueueId),
			Sid: int64(st.SourceId), Station: st.StationName,
		}
	default:
		sg := np.Song
		if sg == nil {
			sg = &data.SongInfo{}
		}
		return nowPlayingWire{
			Type: "song", Song: sg.Song, Album: sg.Album, Artist: sg.Artist,
			ImageURL: sg.ImageURL, MediaId: sg.MediaId, AlbumId: sg.AlbumId,
			QueueId: uint64(sg.QueueId), Sid: int64(sg.SourceId),
		}
	}
}

type queueItemWire struct {
	Song    string  `json:"song"`
	Album   string  `json:"album"`
	Artist  string  `json:"artist"`
	Image   string  `json:"image_url"`
	MediaId string  `json:"mid"`
	QueueId uint64  `json:"qid"`
	AlbumId *string `json:"album_id,omitempty"`
}

func queueItemToWire(t data.QueuedTrackInfo) queueItemWire {
	return queueItemWire{
		Song: t.Song, Album: t.Album, Artist: t.Artist, Image: t.ImageURL,
		MediaId: t.MediaId, QueueId: uint64(t.QueueId), AlbumId: t.AlbumId,
	}
}

type groupPlayerWire struct {
	Name string `json:"name"`
	Pid  int64  `json:"pid"`
	Role string `json:"role"`
}

type groupInfoWire struct {
	Name    string            `json:"name"`
	Gid     int64             `json:"gid"`
	Players []groupPlayerWire `json:"players"`
}

func groupInfoToWire(info data.GroupInfo) groupInfoWire {
	w := groupInfoWire{Name: info.Name, Gid: int64(info.Id)}
	for _, m := range info.Players {
		w.Players = append(w.Players, groupPlayerWire{Name: m.Name, Pid: int64(m.PlayerId), Role: m.Role.String()})
	}
	return w
}

type sourceInfoWire struct {
	Name            string  `json:"name"`
	ImageURL        string  `json:"image_url"`
	Type            string  `json:"type"`
	Sid             int64   `json:"sid"`
	Available       string  `json:"available"`
	ServiceUsername *string `json:"service_username,omitempty"`
}

func sourceInfoToWire(info data.SourceInfo) sourceInfoWire {
	available := "false"
	if info.Available {
		available = "true"
	}
	return sourceInfoWire{
		Name: info.Name, ImageURL: info.ImageURL, Type: info.Type.String(),
		Sid: int64(info.Id), Available: available, ServiceUsername: info.ServiceUsername,
	}
}

type searchCriteriaWire struct {
	Name     string `json:"name"`
	Scid     int64  `json:"scid"`
	Wildcard string `json:"wildcard"`
}

func searchCriteriaToWire(c data.SearchCriteria) searchCriteriaWire {
	wildcard := "no"
	if c.Wildcard {
		wildcard = "yes"
	}
	return searchCriteriaWire{Name: c.Name, Scid: int64(c.CriteriaId), Wildcard: wildcard}
}

type quickSelectWire struct {
	Id   int    `json:"id"`
	Name string `json:"name"`
}

func marshalPayload(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		// Every value passed here is built entirely from this package's
		// own types; a marshal failure indicates a programming error.
		panic("mock: marshal payload: " + err.Error())
	}
	return b
}
