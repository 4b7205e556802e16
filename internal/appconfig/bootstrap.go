package appconfig

import (
	"context"

	errorsmod "cosmossdk.io/errors"

	channeltypes "github.com/cosmos/ibc-go/v11/modules/core/04-channel/types"

	"go.uber.org/zap"

	"github.com/chengwenxi/ibc-relayer/internal/chainclient"
	"github.com/chengwenxi/ibc-relayer/internal/errs"
	"github.com/chengwenxi/ibc-relayer/internal/link"
	"github.com/chengwenxi/ibc-relayer/internal/side"
)

// ICS20Version is the channel version every ics20 bootstrap channel uses
// (spec section 6).
const ICS20Version = "ics20-1"

// EnsureConnection is the connection step of the ics20 bootstrap path
// (spec section 6). It takes an already-decoded app file and returns a copy
// with both connection ids populated; it does no file I/O itself (reading
// and writing the file are LoadAppFile and Save). If the
// app file already names both connections, it adopts them via
// link.CreateWithExistingConnections; if it names neither, it creates a
// fresh pair via link.CreateWithNewConnections. Naming exactly one of the
// two is a ConfigError (spec section 7's example of a config
// contradiction).
func EnsureConnection(ctx context.Context, src, dest chainclient.ChainClient, app *AppFile, logger *zap.Logger) (*link.Link, *AppFile, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	hasSrc := app.SrcConnection != ""
	hasDest := app.DestConnection != ""
	if hasSrc != hasDest {
		return nil, nil, errorsmod.Wrap(errs.ErrConfig, "exactly one of srcConnection/destConnection is set")
	}

	if hasSrc {
		l, err := link.CreateWithExistingConnections(ctx, src, dest, app.SrcConnection, app.DestConnection, logger)
		if err != nil {
			return nil, nil, err
		}
		return l, app, nil
	}

	l, err := link.CreateWithNewConnections(ctx, src, dest, logger)
	if err != nil {
		return nil, nil, err
	}

	updated := *app
	updated.SrcConnection = l.Endpoint(side.A).ConnectionID
	updated.DestConnection = l.Endpoint(side.B).ConnectionID
	return l, &updated, nil
}

// EnsureTransferChannel opens an ics20 channel on the connection a Link
// already holds, using UNORDERED ordering and ICS20Version on both ends
// per spec section 6's wire-protocol note.
func EnsureTransferChannel(ctx context.Context, l *link.Link, sender side.Side, srcPort, destPort string) (link.ChannelCreated, error) {
	return l.CreateChannel(ctx, sender, srcPort, destPort, channeltypes.UNORDERED, ICS20Version)
}
