package mock

import (
	"github.com/mvandenberg/heos-go/command/raw"
	"github.com/mvandenberg/heos-go/data"
	"github.com/mvandenberg/heos-go/wire"
)

// The lookup helpers below assume s.mu is already held by the caller
// (Dispatch and its sub-dispatchers); they do not lock themselves.

func (s *System) lookupPlayer(cmd raw.Command, paramName string) (*Player, wire.RawResponse, bool) {
	pid, errResp, ok := requirePlayerId(cmd, paramName)
	if !ok {
		return nil, errResp, false
	}
	p, ok := s.players[pid]
	if !ok {
		return nil, invalidIdError(cmd, "pid", pid.String()), false
	}
	return p, wire.RawResponse{}, true
}

func (s *System) lookupGroup(cmd raw.Command, paramName string) (*Group, wire.RawResponse, bool) {
	gid, errResp, ok := requireGroupId(cmd, paramName)
	if !ok {
		return nil, errResp, false
	}
	g, ok := s.groups[gid]
	if !ok {
		return nil, invalidIdError(cmd, "gid", gid.String()), false
	}
	return g, wire.RawResponse{}, true
}

func (s *System) lookupSource(cmd raw.Command, paramName string) (*Source, wire.RawResponse, bool) {
	sid, errResp, ok := requireSourceId(cmd, paramName)
	if !ok {
		return nil, errResp, false
	}
	src, ok := s.sources[sid]
	if !ok {
		return nil, invalidIdError(cmd, "sid", sid.String()), false
	}
	return src, wire.RawResponse{}, true
}

// findQueueIndex returns the position of qid in p.Queue, or -1.
func findQueueIndex(queue []data.QueuedTrackInfo, qid data.QueueId) int {
	for i, t := range queue {
		if t.QueueId == qid {
			return i
		}
	}
	return -1
}
