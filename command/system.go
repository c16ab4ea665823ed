package command

import (
	"context"

	"github.com/mvandenberg/heos-go/channel"
)

const groupSystem = "system"

// RegisterForChangeEvents params { enable: on/off }
type RegisterForChangeEvents struct {
	Enable bool `heos:"enable"`
}

func (c RegisterForChangeEvents) Send(ctx context.Context, ch *channel.Channel) error {
	cmd, err := encode(groupSystem, "register_for_change_events", c)
	if err != nil {
		return err
	}
	_, err = execute(ctx, ch, cmd)
	return err
}

// CheckAccount reports whether a user is currently signed in.
type CheckAccount struct{}

type AccountStatus struct {
	SignedIn bool
	Username string
}

func (c CheckAccount) Send(ctx context.Context, ch *channel.Channel) (AccountStatus, error) {
	cmd, err := encode(groupSystem, "check_account", struct{}{})
	if err != nil {
		return AccountStatus{}, err
	}
	resp, err := execute(ctx, ch, cmd)
	if err != nil {
		return AccountStatus{}, err
	}
	params := resp.MessageParams()
	if _, signedIn := params["signed_in"]; signedIn {
		return AccountStatus{SignedIn: true, Username: params.Get("un")}, nil
	}
	return AccountStatus{SignedIn: false}, nil
}

// SignIn authenticates the remote device with a username/password.
type SignIn struct {
	Username string `heos:"un"`
	Password string `heos:"pw"`
}

func (c SignIn) Send(ctx context.Context, ch *channel.Channel) error {
	cmd, err := encode(groupSystem, "sign_in", c)
	if err != nil {
		return err
	}
	_, err = execute(ctx, ch, cmd)
	return err
}

// SignOut signs out the currently authenticated account.
type SignOut struct{}

func (c SignOut) Send(ctx context.Context, ch *channel.Channel) error {
	cmd, err := encode(groupSystem, "sign_out", struct{}{})
	if err != nil {
		return err
	}
	_, err = execute(ctx, ch, cmd)
	return err
}

// Heartbeat keeps the connection alive and verifies liveness.
type Heartbeat struct{}

func (c Heartbeat) Send(ctx context.Context, ch *channel.Channel) error {
	cmd, err := encode(groupSystem, "heart_beat", struct{}{})
	if err != nil {
		return err
	}
	_, err = execute(ctx, ch, cmd)
	return err
}

// Reboot restarts the connected device.
type Reboot struct{}

func (c Reboot) Send(ctx context.Context, ch *channel.Channel) error {
	cmd, err := encode(groupSystem, "reboot", struct{}{})
	if err != nil {
		return err
	}
	_, err = execute(ctx, ch, cmd)
	return err
}
