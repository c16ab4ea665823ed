package mock

import (
	"strings"

	"github.com/mvandenberg/heos-go/command/raw"
	"github.com/mvandenberg/heos-go/data"
	"github.com/mvandenberg/heos-go/wire"
)

func (s *System) dispatchGroup(cmd raw.Command) wire.RawResponse {
	switch cmd.Name {
	case "get_groups":
		return s.getGroups(cmd)
	case "get_group_info":
		return s.getGroupInfo(cmd)
	case "set_group":
		return s.setGroup(cmd)
	case "get_volume":
		return s.getGroupVolume(cmd)
	case "set_volume":
		return s.setGroupVolume(cmd)
	case "volume_up":
		return s.groupVolumeStep(cmd, 1)
	case "volume_down":
		return s.groupVolumeStep(cmd, -1)
	case "get_mute":
		return s.getGroupMute(cmd)
	case "set_mute":
		return s.setGroupMute(cmd)
	case "toggle_mute":
		return s.toggleGroupMute(cmd)
	default:
		return unrecognizedError(cmd)
	}
}

func (s *System) getGroups(cmd raw.Command) wire.RawResponse {
	out := make([]groupInfoWire, 0, len(s.groups))
	for _, gid := range sortedGroupIds(s.groups) {
		out = append(out, groupInfoToWire(s.groups[gid].Info))
	}
	return payloadResponse(cmd, marshalPayload(out))
}

func sortedGroupIds(m map[data.GroupId]*Group) []data.GroupId {
	ids := make([]data.GroupId, 0, len(m))
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

func (s *System) getGroupInfo(cmd raw.Command) wire.RawResponse {
	g, errResp, ok := s.lookupGroup(cmd, "gid")
	if !ok {
		return errResp
	}
	return payloadResponse(cmd, marshalPayload(groupInfoToWire(g.Info)))
}

// setGroup implements the leader-anchored create/replace/delete
// algorithm: a single-element pid list is a delete (the sole id must
// currently lead a group), a multi-element list creates or replaces
// the group led by its first id, and an empty pid is rejected as a
// missing argument. Grounded on the original's
// MockHeosSystem::set_group.
func (s *System) setGroup(cmd raw.Command) wire.RawResponse {
	pidsStr, errResp, ok := requireParam(cmd, "pid")
	if !ok {
		return errResp
	}
	var ids []data.PlayerId
	for _, part := range strings.Split(pidsStr, ",") {
		id, err := data.ParsePlayerId(part)
		if err != nil {
			return invalidArgumentError(cmd, "pid", err)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return invalidIdError(cmd, "pid", pidsStr)
	}

	leader := ids[0]
	if _, ok := s.players[leader]; !ok {
		return invalidIdError(cmd, "pid", leader.String())
	}

	if len(ids) == 1 {
		gid := data.GroupId(leader)
		g, ok := s.groups[gid]
		if !ok || g.Info.LeaderId != leader {
			return invalidIdError(cmd, "pid", leader.String())
		}
		delete(s.groups, gid)
		for _, m := range g.Info.Players {
			if p, ok := s.players[m.PlayerId]; ok {
				p.Info.GroupId = nil
			}
		}
		return successResponse(cmd, nil)
	}

	var names []string
	members := make([]data.GroupMember, 0, len(ids))
	for i, id := range ids {
		p, ok := s.players[id]
		if !ok {
			return invalidIdError(cmd, "pid", id.String())
		}
		role := data.GroupRoleMember
		if i == 0 {
			role = data.GroupRoleLeader
		}
		members = append(members, data.GroupMember{Name: p.Info.Name, PlayerId: id, Role: role})
		names = append(names, p.Info.Name)
	}

	gid := data.GroupId(leader)
	name := strings.Join(names, "+")
	g := &Group{Info: data.GroupInfo{Name: name, Id: gid, LeaderId: leader, Players: members}}
	vol, _ := data.NewVolume(100)
	g.Volume = vol
	g.Mute = data.MuteOff
	s.groups[gid] = g
	for _, m := range members {
		if p, ok := s.players[m.PlayerId]; ok {
			gidCopy := gid
			p.Info.GroupId = &gidCopy
		}
	}
	return successResponse(cmd, map[string]string{"gid": gid.String(), "name": name})
}

func (s *System) getGroupVolume(cmd raw.Command) wire.RawResponse {
	g, errResp, ok := s.lookupGroup(cmd, "gid")
	if !ok {
		return errResp
	}
	return successResponse(cmd, map[string]string{"level": g.Volume.String()})
}

func (s *System) setGroupVolume(cmd raw.Command) wire.RawResponse {
	g, errResp, ok := s.lookupGroup(cmd, "gid")
	if !ok {
		return errResp
	}
	vol, errResp, ok := requireVolume(cmd, "level")
	if !ok {
		return errResp
	}
	g.Volume = vol
	return successResponse(cmd, nil)
}

func (s *System) groupVolumeStep(cmd raw.Command, sign int) wire.RawResponse {
	g, errResp, ok := s.lookupGroup(cmd, "gid")
	if !ok {
		return errResp
	}
	step, errResp, ok := volumeStepOrDefault(cmd, "step")
	if !ok {
		return errResp
	}
	g.Volume = g.Volume.Add(sign * int(step))
	return successResponse(cmd, nil)
}

func (s *System) getGroupMute(cmd raw.Command) wire.RawResponse {
	g, errResp, ok := s.lookupGroup(cmd, "gid")
	if !ok {
		return errResp
	}
	state, _ := g.Mute.EncodeHeosValue()
	return successResponse(cmd, map[string]string{"state": state})
}

func (s *System) setGroupMute(cmd raw.Command) wire.RawResponse {
	g, errResp, ok := s.lookupGroup(cmd, "gid")
	if !ok {
		return errResp
	}
	state, errResp, ok := requireMuteState(cmd, "state")
	if !ok {
		return errResp
	}
	g.Mute = state
	return successResponse(cmd, nil)
}

func (s *System) toggleGroupMute(cmd raw.Command) wire.RawResponse {
	g, errResp, ok := s.lookupGroup(cmd, "gid")
	if !ok {
		return errResp
	}
	if g.Mute == data.MuteOn {
		g.Mute = data.MuteOff
	} else {
		g.Mute = data.MuteOn
	}
	return successResponse(cmd, nil)
}
