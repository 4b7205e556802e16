package link

import (
	"context"

	errorsmod "cosmossdk.io/errors"

	channeltypes "github.com/cosmos/ibc-go/v11/modules/core/04-channel/types"

	"github.com/chengwenxi/ibc-relayer/internal/errs"
	"github.com/chengwenxi/ibc-relayer/internal/side"
)

// PortChannelID names one side of a created channel.
type PortChannelID struct {
	PortID    string
	ChannelID string
}

// ChannelCreated is the {src, dest} report createChannel returns (spec
// section 4.4).
type ChannelCreated struct {
	Src  PortChannelID
	Dest PortChannelID
}

// CreateChannel mirrors the connection handshake over channels: Init on
// sender, Try on the other side with a proof, Ack on sender with a
// counter-proof, Confirm on the other side with a final proof (spec
// section 4.4). All four calls must succeed; on any failure the channel is
// left in a partial handshake state and the error is surfaced without
// rollback.
func (l *Link) CreateChannel(ctx context.Context, sender side.Side, srcPort, destPort string, ordering channeltypes.Order, version string) (ChannelCreated, error) {
	senderEnds := l.ends(sender)
	other := sender.Other()
	otherEnds := l.ends(other)

	// Step 1: channelOpenInit on sender.
	srcChannelID, err := senderEnds.Src.Chain.ChannelOpenInit(ctx, srcPort, senderEnds.Src.ConnectionID, destPort, version, ordering)
	if err != nil {
		return ChannelCreated{}, errorsmod.Wrap(errs.ErrHandshake, err.Error())
	}

	// Step 2: proof of the new channel from sender's chain, channelOpenTry
	// on other.
	if _, err := l.updateClient(ctx, sender); err != nil {
		return ChannelCreated{}, err
	}
	header, err := senderEnds.Src.Chain.LatestHeader(ctx)
	if err != nil {
		return ChannelCreated{}, errorsmod.Wrap(errs.ErrChain, err.Error())
	}
	tryProof, err := l.builder(sender).ChanHandshake(ctx, srcPort, srcChannelID, "", header.Height)
	if err != nil {
		return ChannelCreated{}, err
	}
	destChannelID, err := otherEnds.Src.Chain.ChannelOpenTry(ctx, destPort, otherEnds.Src.ConnectionID, srcPort, srcChannelID, version, ordering, tryProof)
	if err != nil {
		return ChannelCreated{}, errorsmod.Wrap(errs.ErrHandshake, err.Error())
	}

	// Step 3: proof of the TRYOPEN channel from other's chain, Ack on
	// sender.
	if _, err := l.updateClient(ctx, other); err != nil {
		return ChannelCreated{}, err
	}
	otherHeader, err := otherEnds.Src.Chain.LatestHeader(ctx)
	if err != nil {
		return ChannelCreated{}, errorsmod.Wrap(errs.ErrChain, err.Error())
	}
	ackProof, err := l.builder(other).ChanHandshake(ctx, destPort, destChannelID, srcChannelID, otherHeader.Height)
	if err != nil {
		return ChannelCreated{}, err
	}
	if err := senderEnds.Src.Chain.ChannelOpenAck(ctx, srcPort, srcChannelID, destChannelID, version, ackProof); err != nil {
		return ChannelCreated{}, errorsmod.Wrap(errs.ErrHandshake, err.Error())
	}

	// Step 4: proof of the OPEN channel from sender's chain, Confirm on
	// other.
	if _, err := l.updateClient(ctx, sender); err != nil {
		return ChannelCreated{}, err
	}
	confirmHeader, err := senderEnds.Src.Chain.LatestHeader(ctx)
	if err != nil {
		return ChannelCreated{}, errorsmod.Wrap(errs.ErrChain, err.Error())
	}
	confirmProof, err := l.builder(sender).ChanHandshake(ctx, srcPort, srcChannelID, destChannelID, confirmHeader.Height)
	if err != nil {
		return ChannelCreated{}, err
	}
	if err := otherEnds.Src.Chain.ChannelOpenConfirm(ctx, destPort, destChannelID, confirmProof); err != nil {
		return ChannelCreated{}, errorsmod.Wrap(errs.ErrHandshake, err.Error())
	}

	result := ChannelCreated{
		Src:  PortChannelID{PortID: srcPort, ChannelID: srcChannelID},
		Dest: PortChannelID{PortID: destPort, ChannelID: destChannelID},
	}
	emit(l.logger, ChannelReport{
		ConnectionA: senderEnds.Src.ConnectionID, ConnectionB: otherEnds.Src.ConnectionID,
		Src: result.Src, Dest: result.Dest,
	})
	return result, nil
}
