package link

import (
	"context"

	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/cosmos/ibc-go/v11/modules/core/02-client/types"
	channeltypes "github.com/cosmos/ibc-go/v11/modules/core/04-channel/types"

	"github.com/chengwenxi/ibc-relayer/internal/chainclient"
	"github.com/chengwenxi/ibc-relayer/internal/cursor"
	"github.com/chengwenxi/ibc-relayer/internal/endpoint"
	"github.com/chengwenxi/ibc-relayer/internal/errs"
	"github.com/chengwenxi/ibc-relayer/internal/fanout"
	"github.com/chengwenxi/ibc-relayer/internal/ibctypes"
	"github.com/chengwenxi/ibc-relayer/internal/side"
)

// CheckAndRelayPacketsAndAcks executes one pass of the bidirectional
// pipeline (spec section 4.6) and returns a cursor advanced per side 8's
// monotonicity law.
func (l *Link) CheckAndRelayPacketsAndAcks(ctx context.Context, c cursor.Cursor) (cursor.Cursor, error) {
	// Step 1: pending packets on both sides, in parallel.
	pendingA, pendingB, err := fanout.Pair(ctx,
		func(ctx context.Context) ([]ibctypes.PacketWithMetadata, error) {
			return l.pendingPackets(ctx, side.A, c.PacketHeightA)
		},
		func(ctx context.Context) ([]ibctypes.PacketWithMetadata, error) {
			return l.pendingPackets(ctx, side.B, c.PacketHeightB)
		},
	)
	if err != nil {
		return cursor.Cursor{}, err
	}

	// Step 2: relay both directions concurrently.
	newAcksFromA, newAcksFromB, err := fanout.Pair(ctx,
		func(ctx context.Context) ([]ibctypes.AckWithMetadata, error) { return l.relayPackets(ctx, side.A, pendingA) },
		func(ctx context.Context) ([]ibctypes.AckWithMetadata, error) { return l.relayPackets(ctx, side.B, pendingB) },
	)
	if err != nil {
		return cursor.Cursor{}, err
	}

	// Step 3: pending acks on both sides, in parallel. The acks newly
	// produced by this iteration's own receives are visible immediately
	// without a fresh query, but the spec's fetch step always re-queries
	// from chain state, so freshly written acks from other sources are not
	// missed either.
	pendingAcksA, pendingAcksB, err := fanout.Pair(ctx,
		func(ctx context.Context) ([]ibctypes.AckWithMetadata, error) {
			return l.pendingAcks(ctx, side.A, c.AckHeightA, newAcksFromB)
		},
		func(ctx context.Context) ([]ibctypes.AckWithMetadata, error) {
			return l.pendingAcks(ctx, side.B, c.AckHeightB, newAcksFromA)
		},
	)
	if err != nil {
		return cursor.Cursor{}, err
	}

	// Step 4: relay acks both directions concurrently.
	err = fanout.Run(ctx,
		fanout.Task{Name: "relay-acks-a", Run: func(ctx context.Context) error { _, e := l.relayAcks(ctx, side.A, pendingAcksA); return e }},
		fanout.Task{Name: "relay-acks-b", Run: func(ctx context.Context) error { _, e := l.relayAcks(ctx, side.B, pendingAcksB); return e }},
	)
	if err != nil {
		return cursor.Cursor{}, err
	}

	// Step 5: advance the cursor to the highest source height observed in
	// each category.
	return c.Advance(
		highestPacketHeight(pendingA),
		highestPacketHeight(pendingB),
		highestAckHeight(pendingAcksA),
		highestAckHeight(pendingAcksB),
	), nil
}

// pendingPackets fetches packets committed on source since minHeight and
// filters out any the destination already reports as received (spec
// section 4.6, "Unreceived filtering").
func (l *Link) pendingPackets(ctx context.Context, source side.Side, minHeight *uint64) ([]ibctypes.PacketWithMetadata, error) {
	ends := l.ends(source)

	sent, err := ends.Src.QuerySentPackets(ctx, endpoint.QueryOpts{MinHeight: minHeight})
	if err != nil {
		return nil, err
	}
	if len(sent) == 0 {
		return nil, nil
	}

	grouped := groupPackets(sent, ibctypes.RecvKey)
	unreceived := make(map[ibctypes.PortChannel]map[uint64]bool, len(grouped))
	for key, packets := range grouped {
		sequences := make([]uint64, len(packets))
		for i, p := range packets {
			sequences[i] = p.Packet.Sequence
		}
		seqs, err := ends.Dest.Chain.UnreceivedPacketSequences(ctx, chainclient.UnreceivedQuery{PortChannel: key, Sequences: sequences})
		if err != nil {
			return nil, err
		}
		set := make(map[uint64]bool, len(seqs))
		for _, s := range seqs {
			set[s] = true
		}
		unreceived[key] = set
	}

	pending := make([]ibctypes.PacketWithMetadata, 0, len(sent))
	for _, p := range sent {
		if unreceived[ibctypes.RecvKey(p.Packet)][p.Packet.Sequence] {
			pending = append(pending, p)
		}
	}
	return pending, nil
}

// pendingAcks fetches acks written on source since minHeight, merges in
// any fresh acks this iteration's own relay of the opposite direction just
// produced, then filters to those the counterparty has not yet consumed
// (spec section 4.6).
func (l *Link) pendingAcks(ctx context.Context, source side.Side, minHeight *uint64, fresh []ibctypes.AckWithMetadata) ([]ibctypes.AckWithMetadata, error) {
	ends := l.ends(source)

	written, err := ends.Src.QueryWrittenAcks(ctx, endpoint.QueryOpts{MinHeight: minHeight})
	if err != nil {
		return nil, err
	}
	written = mergeAcks(written, fresh)
	if len(written) == 0 {
		return nil, nil
	}

	grouped := groupAcks(written, ibctypes.AckKey)
	unconsumed := make(map[ibctypes.PortChannel]map[uint64]bool, len(grouped))
	for key, acks := range grouped {
		sequences := make([]uint64, len(acks))
		for i, a := range acks {
			sequences[i] = a.Packet.Sequence
		}
		seqs, err := ends.Dest.Chain.UnreceivedAckSequences(ctx, chainclient.UnreceivedQuery{PortChannel: key, Sequences: sequences})
		if err != nil {
			return nil, err
		}
		set := make(map[uint64]bool, len(seqs))
		for _, s := range seqs {
			set[s] = true
		}
		unconsumed[key] = set
	}

	pending := make([]ibctypes.AckWithMetadata, 0, len(written))
	for _, a := range written {
		if unconsumed[ibctypes.AckKey(a.Packet)][a.Packet.Sequence] {
			pending = append(pending, a)
		}
	}
	return pending, nil
}

// relayPackets implements spec section 4.7: update destination's client to
// cover every packet's commit height, fetch commitment proofs in parallel,
// broadcast one receivePackets transaction, and return the acks it
// produced.
func (l *Link) relayPackets(ctx context.Context, source side.Side, packets []ibctypes.PacketWithMetadata) ([]ibctypes.AckWithMetadata, error) {
	if len(packets) == 0 {
		return nil, nil
	}
	ends := l.ends(source)

	neededHeight := highestCommitHeight(packets) + 1
	headerHeight, err := l.updateClientToHeight(ctx, source, clienttypes.NewHeight(packets[0].Height.RevisionNumber, neededHeight))
	if err != nil {
		return nil, err
	}

	proofs, err := l.builder(source).PacketCommitments(ctx, packets, headerHeight)
	if err != nil {
		return nil, err
	}

	result, err := ends.Dest.Chain.ReceivePackets(ctx, packets, proofs, headerHeight)
	if err != nil {
		return nil, errorsmod.Wrap(errs.ErrRelay, err.Error())
	}
	emit(l.logger, RelayReport{Source: source, Kind: "packets", Count: len(packets), InclusionHeight: result.InclusionHeight})
	return result.NewAcks, nil
}

// relayAcks implements spec section 4.8, mirroring relayPackets.
func (l *Link) relayAcks(ctx context.Context, source side.Side, acks []ibctypes.AckWithMetadata) (clienttypes.Height, error) {
	if len(acks) == 0 {
		return clienttypes.Height{}, nil
	}
	ends := l.ends(source)

	neededHeight := highestAckCommitHeight(acks) + 1
	headerHeight, err := l.updateClientToHeight(ctx, source, clienttypes.NewHeight(acks[0].Height.RevisionNumber, neededHeight))
	if err != nil {
		return clienttypes.Height{}, err
	}

	proofs, err := l.builder(source).Acknowledgements(ctx, acks, headerHeight)
	if err != nil {
		return clienttypes.Height{}, err
	}

	result, err := ends.Dest.Chain.AcknowledgePackets(ctx, acks, proofs, headerHeight)
	if err != nil {
		return clienttypes.Height{}, errorsmod.Wrap(errs.ErrRelay, err.Error())
	}
	emit(l.logger, RelayReport{Source: source, Kind: "acks", Count: len(acks), InclusionHeight: result.InclusionHeight})
	return result.InclusionHeight, nil
}

// TODO: timeout relay. Packets whose timeout height/timestamp has elapsed
// on destination without being received should be detected here (their
// source-side commitment still exists but the destination can no longer
// accept a receive) and a MsgTimeout submitted on source instead of being
// folded into relayPackets above. Deferred per spec section 1's explicit
// non-goal.

func groupPackets(packets []ibctypes.PacketWithMetadata, key func(channeltypes.Packet) ibctypes.PortChannel) map[ibctypes.PortChannel][]ibctypes.PacketWithMetadata {
	grouped := make(map[ibctypes.PortChannel][]ibctypes.PacketWithMetadata)
	for _, p := range packets {
		k := key(p.Packet)
		grouped[k] = append(grouped[k], p)
	}
	return grouped
}

func groupAcks(acks []ibctypes.AckWithMetadata, key func(channeltypes.Packet) ibctypes.PortChannel) map[ibctypes.PortChannel][]ibctypes.AckWithMetadata {
	grouped := make(map[ibctypes.PortChannel][]ibctypes.AckWithMetadata)
	for _, a := range acks {
		k := key(a.Packet)
		grouped[k] = append(grouped[k], a)
	}
	return grouped
}

// mergeAcks appends fresh acks not already present in written, identified
// by (source port, source channel, sequence).
func mergeAcks(written, fresh []ibctypes.AckWithMetadata) []ibctypes.AckWithMetadata {
	if len(fresh) == 0 {
		return written
	}
	seen := make(map[ibctypes.PortChannel]map[uint64]bool, len(written))
	for _, a := range written {
		key := ibctypes.AckKey(a.Packet)
		if seen[key] == nil {
			seen[key] = make(map[uint64]bool)
		}
		seen[key][a.Packet.Sequence] = true
	}
	merged := written
	for _, a := range fresh {
		key := ibctypes.AckKey(a.Packet)
		if seen[key][a.Packet.Sequence] {
			continue
		}
		merged = append(merged, a)
	}
	return merged
}

func highestPacketHeight(packets []ibctypes.PacketWithMetadata) *uint64 {
	heights := make([]uint64, len(packets))
	for i, p := range packets {
		heights[i] = p.CommitHeight()
	}
	return cursor.HighestObserved(heights)
}

func highestAckHeight(acks []ibctypes.AckWithMetadata) *uint64 {
	heights := make([]uint64, len(acks))
	for i, a := range acks {
		heights[i] = a.CommitHeight()
	}
	return cursor.HighestObserved(heights)
}

func highestCommitHeight(packets []ibctypes.PacketWithMetadata) uint64 {
	highest := packets[0].CommitHeight()
	for _, p := range packets[1:] {
		if h := p.CommitHeight(); h > highest {
			highest = h
		}
	}
	return highest
}

func highestAckCommitHeight(acks []ibctypes.AckWithMetadata) uint64 {
	highest := acks[0].CommitHeight()
	for _, a := range acks[1:] {
		if h := a.CommitHeight(); h > highest {
			highest = h
		}
	}
	return highest
}
