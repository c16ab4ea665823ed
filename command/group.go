package command

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/mvandenberg/heos-go/channel"
	"github.com/mvandenberg/heos-go/data"
)

const groupGroup = "group"

type GetGroups struct{}

type groupInfoWire struct {
	Name    string `json:"name"`
	Gid     int64  `json:"gid"`
	Players []struct {
		Name string `json:"name"`
		Pid  int64  `json:"pid"`
		Role string `json:"role"`
	} `json:"players"`
}

func convertGroupInfo(w groupInfoWire) (data.GroupInfo, error) {
	info := data.GroupInfo{Name: w.Name, Id: data.GroupId(w.Gid)}
	for _, p := range w.Players {
		role := data.GroupRoleMember
		if p.Role == "leader" {
			role = data.GroupRoleLeader
			info.LeaderId = data.PlayerId(p.Pid)
		}
		info.Players = append(info.Players, data.GroupMember{Name: p.Name, PlayerId: data.PlayerId(p.Pid), Role: role})
	}
	return info, nil
}

func (GetGroups) Send(ctx context.Context, ch *channel.Channel) ([]data.GroupInfo, error) {
	cmd, err := encode(groupGroup, "get_groups", struct{}{})
	if err != nil {
		return nil, err
	}
	resp, err := execute(ctx, ch, cmd)
	if err != nil {
		return nil, err
	}
	var wireGroups []groupInfoWire
	if err := json.Unmarshal(resp.Payload, &wireGroups); err != nil {
		return nil, &MalformedResponseError{Command: "group/get_groups", Reason: err.Error()}
	}
	out := make([]data.GroupInfo, 0, len(wireGroups))
	for _, w := range wireGroups {
		info, err := convertGroupInfo(w)
		if err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, nil
}

type GetGroupInfo struct {
	GroupId data.GroupId `heos:"gid"`
}

func (c GetGroupInfo) Send(ctx context.Context, ch *channel.Channel) (data.GroupInfo, error) {
	cmd, err := encode(groupGroup, "get_group_info", c)
	if err != nil {
		return data.GroupInfo{}, err
	}
	resp, err := execute(ctx, ch, cmd)
	if err != nil {
		return data.GroupInfo{}, err
	}
	var w groupInfoWire
	if err := json.Unmarshal(resp.Payload, &w); err != nil {
		return data.GroupInfo{}, &MalformedResponseError{Command: "group/get_group_info", Reason: err.Error()}
	}
	return convertGroupInfo(w)
}

// SetGroup implements the protocol's set-group semantics (§4.E): the
// first id is the designated leader. A single id deletes that leader's
// existing group (error if it leads none); more than one id creates or
// replaces a group led by the first id.
type SetGroup struct {
	PlayerIds []data.PlayerId `heos:"pid"`
}

// SetGroupResult is populated only for group-creating calls, per the
// protocol reflecting "gid" and "name" on success.
type SetGroupResult struct {
	GroupId data.GroupId
	Name    string
}

func (c SetGroup) Send(ctx context.Context, ch *channel.Channel) (SetGroupResult, error) {
	cmd, err := encode(groupGroup, "set_group", c)
	if err != nil {
		return SetGroupResult{}, err
	}
	resp, err := execute(ctx, ch, cmd)
	if err != nil {
		return SetGroupResult{}, err
	}
	params := resp.MessageParams()
	gidStr := params.Get("gid")
	if gidStr == "" {
		return SetGroupResult{}, nil
	}
	gid, err := data.ParseGroupId(gidStr)
	if err != nil {
		return SetGroupResult{}, &MalformedResponseError{Command: "group/set_group", Reason: err.Error()}
	}
	return SetGroupResult{GroupId: gid, Name: params.Get("name")}, nil
}

// JoinedName renders player names joined by "+", matching the
// remote's auto-generated group name for a newly created group.
func JoinedName(names []string) string {
	return strings.Join(names, "+")
}

// --- group volume -----------------------------------------------------

type GetGroupVolume struct {
	GroupId data.GroupId `heos:"gid"`
}

func (c GetGroupVolume) Send(ctx context.Context, ch *channel.Channel) (data.Volume, error) {
	cmd, err := encode(groupGroup, "get_volume", c)
	if err != nil {
		return 0, err
	}
	resp, err := execute(ctx, ch, cmd)
	if err != nil {
		return 0, err
	}
	return data.ParseVolume(resp.MessageParams().Get("level"))
}

type SetGroupVolume struct {
	GroupId data.GroupId `heos:"gid"`
	Level   data.Volume  `heos:"level"`
}

func (c SetGroupVolume) Send(ctx context.Context, ch *channel.Channel) error {
	cmd, err := encode(groupGroup, "set_volume", c)
	if err != nil {
		return err
	}
	_, err = execute(ctx, ch, cmd)
	return err
}

type GroupVolumeUp struct {
	GroupId data.GroupId    `heos:"gid"`
	Step    data.VolumeStep `heos:"step,omitempty"`
}

func (c GroupVolumeUp) Send(ctx context.Context, ch *channel.Channel) error {
	if c.Step == 0 {
		c.Step = data.DefaultVolumeStep
	}
	cmd, err := encode(groupGroup, "volume_up", c)
	if err != nil {
		return err
	}
	_, err = execute(ctx, ch, cmd)
	return err
}

type GroupVolumeDown struct {
	GroupId data.GroupId    `heos:"gid"`
	Step    data.VolumeStep `heos:"step,omitempty"`
}

func (c GroupVolumeDown) Send(ctx context.Context, ch *channel.Channel) error {
	if c.Step == 0 {
		c.Step = data.DefaultVolumeStep
	}
	cmd, err := encode(groupGroup, "volume_down", c)
	if err != nil {
		return err
	}
	_, err = execute(ctx, ch, cmd)
	return err
}

type GetGroupMute struct {
	GroupId data.GroupId `heos:"gid"`
}

func (c GetGroupMute) Send(ctx context.Context, ch *channel.Channel) (data.MuteState, error) {
	cmd, err := encode(groupGroup, "get_mute", c)
	if err != nil {
		return 0, err
	}
	resp, err := execute(ctx, ch, cmd)
	if err != nil {
		return 0, err
	}
	return data.ParseMuteState(resp.MessageParams().Get("state"))
}

type SetGroupMute struct {
	GroupId data.GroupId   `heos:"gid"`
	State   data.MuteState `heos:"state"`
}

func (c SetGroupMute) Send(ctx context.Context, ch *channel.Channel) error {
	cmd, err := encode(groupGroup, "set_mute", c)
	if err != nil {
		return err
	}
	_, err = execute(ctx, ch, cmd)
	return err
}

type ToggleGroupMute struct {
	GroupId data.GroupId `heos:"gid"`
}

func (c ToggleGroupMute) Send(ctx context.Context, ch *channel.Channel) error {
	cmd, err := encode(groupGroup, "toggle_mute", c)
	if err != nil {
		return err
	}
	_, err = execute(ctx, ch, cmd)
	return err
}
