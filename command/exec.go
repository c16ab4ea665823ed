package command

import (
	"context"

	"github.com/mvandenberg/heos-go/channel"
	"github.com/mvandenberg/heos-go/command/raw"
	"github.com/mvandenberg/heos-go/wire"
)

// execute sends cmd through ch and validates the result, per §4.B's
// "typed command convenience": heos.result == true passes through;
// heos.result == false is decoded into a typed *Error via FromMessage.
func execute(ctx context.Context, ch *channel.Channel, cmd raw.Command) (wire.RawResponse, error) {
	resp, err := ch.Send(ctx, cmd)
	if err != nil {
		return resp, err
	}
	if resp.Heos.Result != nil && !*resp.Heos.Result {
		return resp, FromMessage(resp.Heos.Message)
	}
	return resp, nil
}

// encode is a thin wrapper over raw.Encode that panics never — a
// SerializationError from the reflect encoder is a programmer error
// on our own command structs, surfaced to the caller as a normal
// error rather than silently ignored.
func encode(group, name string, v any) (raw.Command, error) {
	return raw.Encode(group, name, v)
}
