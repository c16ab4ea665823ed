package state

import (
	"context"

	"github.com/mvandenberg/heos-go/command"
	"github.com/mvandenberg/heos-go/data"
)

func getNowPlayingMedia(ctx context.Context, m *Model, id data.PlayerId) (data.NowPlayingInfo, error) {
	return command.GetNowPlayingMedia{PlayerId: id}.Send(ctx, m.ch)
}

func getQueue(ctx context.Context, m *Model, id data.PlayerId) ([]data.QueuedTrackInfo, error) {
	return command.GetQueue{PlayerId: id}.Send(ctx, m.ch)
}
