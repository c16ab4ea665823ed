package data

// SourceInfo describes one music source available on the fleet.
type SourceInfo struct {
	Name            string
	ImageURL        string
	Type            SourceType
	Id              SourceId
	Available       bool
	ServiceUsername *string
}

// SearchCriteria is one entry returned by get_search_criteria.
type SearchCriteria struct {
	Name       string
	CriteriaId CriteriaId
	Wildcard   bool
}

// ServiceOptionId enumerates the discriminant of a set_service_option
// command, per the remote protocol's option registry.
type ServiceOptionId int

const (
	OptionAddTrackToLibrary  ServiceOptionId = 1
	OptionAddAlbumToLibrary  ServiceOptionId = 2
	OptionAddStationToLibrary ServiceOptionId = 3
	OptionAddPlaylistToLibrary ServiceOptionId = 4
	OptionRemoveTrackFromLibrary  ServiceOptionId = 5
	OptionRemoveAlbumFromLibrary  ServiceOptionId = 6
	OptionRemoveStationFromLibrary ServiceOptionId = 7
	OptionRemovePlaylistFromLibrary ServiceOptionId = 8
	OptionThumbsUp          ServiceOptionId = 11
	OptionThumbsDown        ServiceOptionId = 12
	OptionCreateNewStation  ServiceOptionId = 13
	OptionAddToHeosFavorites ServiceOptionId = 19
	OptionRemoveFromHeosFavorites ServiceOptionId = 20
	OptionPlayableContainer ServiceOptionId = 21
)

// ServiceOption is a discriminated union keyed by ServiceOptionId; only
// the fields relevant to the discriminant are populated. The serializer
// (command/raw) flattens these fields alongside the "option_id"
// parameter, per the flatten convention of §4.B; an empty string field
// is still sent, as an empty parameter, since omitempty does not drop
// empty strings.
type ServiceOption struct {
	Id          ServiceOptionId `heos:"option_id"`
	MediaId     string          `heos:"mid,omitempty"`
	ContainerId string          `heos:"cid,omitempty"`
	Name        string          `heos:"name,omitempty"`
}
