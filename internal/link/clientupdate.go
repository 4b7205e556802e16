package link

import (
	"context"
	"time"

	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/cosmos/ibc-go/v11/modules/core/02-client/types"

	"github.com/chengwenxi/ibc-relayer/internal/errs"
	"github.com/chengwenxi/ibc-relayer/internal/side"
)

// updateClient unconditionally fetches the latest header from source and
// submits it to destination's client, returning the new destination-known
// height of source (spec section 4.5).
func (l *Link) updateClient(ctx context.Context, source side.Side) (clienttypes.Height, error) {
	ends := l.ends(source)
	header, err := ends.Src.Chain.LatestHeader(ctx)
	if err != nil {
		return clienttypes.Height{}, errorsmod.Wrap(errs.ErrChain, err.Error())
	}
	if err := ends.Dest.Chain.UpdateClient(ctx, ends.Dest.ClientID, header); err != nil {
		return clienttypes.Height{}, errorsmod.Wrap(errs.ErrHandshake, err.Error())
	}
	emit(l.logger, ClientUpdateReport{Source: source, ClientID: ends.Dest.ClientID, NewHeight: header.Height})
	return header.Height, nil
}

// updateClientIfStale reads destination's latest consensus state for
// source's client; if it is older than maxAge compared to source's current
// header time, it updates and returns the new height. Otherwise it returns
// false and a zero height (spec section 4.5).
func (l *Link) updateClientIfStale(ctx context.Context, source side.Side, maxAge time.Duration) (clienttypes.Height, bool, error) {
	ends := l.ends(source)

	destClientState, err := ends.Dest.Chain.ClientState(ctx, ends.Dest.ClientID)
	if err != nil {
		return clienttypes.Height{}, false, errorsmod.Wrap(errs.ErrConsensus, err.Error())
	}
	latestConsensus, err := ends.Dest.Chain.ConsensusState(ctx, ends.Dest.ClientID, destClientState.LatestHeight)
	if err != nil {
		return clienttypes.Height{}, false, errorsmod.Wrap(errs.ErrConsensus, err.Error())
	}
	sourceHeader, err := ends.Src.Chain.LatestHeader(ctx)
	if err != nil {
		return clienttypes.Height{}, false, errorsmod.Wrap(errs.ErrChain, err.Error())
	}

	age := sourceHeader.Time.Sub(latestConsensus.Timestamp)
	if age <= maxAge {
		return clienttypes.Height{}, false, nil
	}

	height, err := l.updateClient(ctx, source)
	if err != nil {
		return clienttypes.Height{}, false, err
	}
	return height, true, nil
}

// updateClientToHeight ensures destination knows source at a height ≥
// minHeight, awaiting one block on source first if source's current tip is
// still below minHeight (spec section 4.5). minHeight is a lower bound on
// sufficiency, never a request for an exact height: the destination always
// learns of source at whatever the latest available source height is when
// the update is submitted.
func (l *Link) updateClientToHeight(ctx context.Context, source side.Side, minHeight clienttypes.Height) (clienttypes.Height, error) {
	ends := l.ends(source)

	destClientState, err := ends.Dest.Chain.ClientState(ctx, ends.Dest.ClientID)
	if err != nil {
		return clienttypes.Height{}, errorsmod.Wrap(errs.ErrConsensus, err.Error())
	}
	if destClientState.LatestHeight.GTE(minHeight) {
		return destClientState.LatestHeight, nil
	}

	sourceHeader, err := ends.Src.Chain.LatestHeader(ctx)
	if err != nil {
		return clienttypes.Height{}, errorsmod.Wrap(errs.ErrChain, err.Error())
	}
	if sourceHeader.Height.LT(minHeight) {
		if err := ends.Src.Chain.WaitOneBlock(ctx); err != nil {
			return clienttypes.Height{}, err
		}
	}

	return l.updateClient(ctx, source)
}
