package mock

import (
	"sort"
	"strconv"
	"strings"

	"github.com/mvandenberg/heos-go/command/raw"
	"github.com/mvandenberg/heos-go/data"
	"github.com/mvandenberg/heos-go/wire"
)

func requireParam(cmd raw.Command, name string) (string, wire.RawResponse, bool) {
	v, ok := cmd.Params[name]
	if !ok || v == "" {
		return "", missingArgumentError(cmd, name), false
	}
	return v, wire.RawResponse{}, true
}

func optionalParam(cmd raw.Command, name string) (string, bool) {
	v, ok := cmd.Params[name]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func requirePlayerId(cmd raw.Command, name string) (data.PlayerId, wire.RawResponse, bool) {
	s, errResp, ok := requireParam(cmd, name)
	if !ok {
		return 0, errResp, false
	}
	id, err := data.ParsePlayerId(s)
	if err != nil {
		return 0, invalidArgumentError(cmd, name, err), false
	}
	return id, wire.RawResponse{}, true
}

func requireGroupId(cmd raw.Command, name string) (data.GroupId, wire.RawResponse, bool) {
	s, errResp, ok := requireParam(cmd, name)
	if !ok {
		return 0, errResp, false
	}
	id, err := data.ParseGroupId(s)
	if err != nil {
		return 0, invalidArgumentError(cmd, name, err), false
	}
	return id, wire.RawResponse{}, true
}

func requireSourceId(cmd raw.Command, name string) (data.SourceId, wire.RawResponse, bool) {
	s, errResp, ok := requireParam(cmd, name)
	if !ok {
		return 0, errResp, false
	}
	id, err := data.ParseSourceId(s)
	if err != nil {
		return 0, invalidArgumentError(cmd, name, err), false
	}
	return id, wire.RawResponse{}, true
}

func requireQueueIds(cmd raw.Command, name string) ([]data.QueueId, wire.RawResponse, bool) {
	s, errResp, ok := requireParam(cmd, name)
	if !ok {
		return nil, errResp, false
	}
	var out []data.QueueId
	for _, part := range strings.Split(s, ",") {
		id, err := data.ParseQueueId(part)
		if err != nil {
			return nil, invalidArgumentError(cmd, name, err), false
		}
		out = append(out, id)
	}
	return out, wire.RawResponse{}, true
}

func requireVolume(cmd raw.Command, name string) (data.Volume, wire.RawResponse, bool) {
	s, errResp, ok := requireParam(cmd, name)
	if !ok {
		return 0, errResp, false
	}
	v, err := data.ParseVolume(s)
	if err != nil {
		return 0, invalidArgumentError(cmd, name, err), false
	}
	return v, wire.RawResponse{}, true
}

func volumeStepOrDefault(cmd raw.Command, name string) (data.VolumeStep, wire.RawResponse, bool) {
	s, ok := optionalParam(cmd, name)
	if !ok {
		return data.DefaultVolumeStep, wire.RawResponse{}, true
	}
	step, err := data.ParseVolumeStep(s)
	if err != nil {
		return 0, invalidArgumentError(cmd, name, err), false
	}
	return step, wire.RawResponse{}, true
}

func requireMuteState(cmd raw.Command, name string) (data.MuteState, wire.RawResponse, bool) {
	s, errResp, ok := requireParam(cmd, name)
	if !ok {
		return 0, errResp, false
	}
	v, err := data.ParseMuteState(s)
	if err != nil {
		return 0, invalidArgumentError(cmd, name, err), false
	}
	return v, wire.RawResponse{}, true
}

func requirePlayState(cmd raw.Command, name string) (data.PlayState, wire.RawResponse, bool) {
	s, errResp, ok := requireParam(cmd, name)
	if !ok {
		return "", errResp, false
	}
	v, err := data.ParsePlayState(s)
	if err != nil {
		return "", invalidArgumentError(cmd, name, err), false
	}
	return v, wire.RawResponse{}, true
}

// parsedRange is an inclusive index range parsed from the "range"
// parameter's "start,end" wire form.
type parsedRange struct {
	Start, End int
}

func optionalRange(cmd raw.Command, name string) (parsedRange, bool, wire.RawResponse, bool) {
	s, ok := optionalParam(cmd, name)
	if !ok {
		return parsedRange{}, false, wire.RawResponse{}, true
	}
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return parsedRange{}, false, invalidArgumentError(cmd, name, errNoDelimiter(s)), false
	}
	start, err := strconv.Atoi(parts[0])
	if err != nil {
		return parsedRange{}, false, invalidArgumentError(cmd, name, err), false
	}
	end, err := strconv.Atoi(parts[1])
	if err != nil {
		return parsedRange{}, false, invalidArgumentError(cmd, name, err), false
	}
	return parsedRange{Start: start, End: end}, true, wire.RawResponse{}, true
}

type errNoDelimiter string

func (e errNoDelimiter) Error() string { return "no ',' delimiter found in " + string(e) }

func sortedPlayerIds(ids []data.PlayerId) []data.PlayerId {
	out := append([]data.PlayerId(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
