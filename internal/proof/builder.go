// Package proof implements the Proof builder component of spec section 4
// (component table, 15% weight): given a source client and a target header
// height, it produces the Merkle proofs required for each IBC message
// variant (connection handshake, channel handshake, packet receive, ack).
//
// It sits between the Chain signing client and Link: Link calls a Builder
// rather than poking chainclient's proof primitives directly, so the
// proof-assembly policy (which keys to read, which height to read at)
// lives in one place instead of being duplicated across every handshake
// step.
package proof

import (
	"context"

	clienttypes "github.com/cosmos/ibc-go/v11/modules/core/02-client/types"

	"github.com/chengwenxi/ibc-relayer/internal/chainclient"
	"github.com/chengwenxi/ibc-relayer/internal/fanout"
	"github.com/chengwenxi/ibc-relayer/internal/ibctypes"
)

// Builder produces proof bundles by reading a single chain at a given
// height. A Builder holds no state beyond its source chain; Link constructs
// a fresh one each time it needs proofs from an Endpoint.
type Builder struct {
	source chainclient.ChainClient
}

// New constructs a Builder reading proofs from source.
func New(source chainclient.ChainClient) Builder {
	return Builder{source: source}
}

// ConnHandshake assembles the proof bundle a ConnOpenTry/Ack/Confirm call
// on the *counterparty* chain needs about this connection: the connection
// end itself, read at atHeight (spec section 4.3 step 3). ibc-go/v11's
// connection handshake messages no longer self-verify the counterparty's
// client or consensus state, so this only reads a connection-end proof.
func (b Builder) ConnHandshake(ctx context.Context, connectionID, clientID string, atHeight clienttypes.Height) (chainclient.ConnHandshakeProof, error) {
	connProof, err := b.source.ConnectionProof(ctx, connectionID, atHeight)
	if err != nil {
		return chainclient.ConnHandshakeProof{}, err
	}

	return chainclient.ConnHandshakeProof{
		ConnectionID:    connectionID,
		ClientID:        clientID,
		ProofHeight:     atHeight,
		ProofConnection: connProof.Proof,
	}, nil
}

// ChanHandshake assembles the proof bundle a ChannelOpenTry/Ack/Confirm
// call on the counterparty chain needs: the channel end proof at atHeight
// (spec section 4.4 step 3).
func (b Builder) ChanHandshake(ctx context.Context, portID, channelID, counterpartyChannelID string, atHeight clienttypes.Height) (chainclient.ChanHandshakeProof, error) {
	channelProof, err := b.source.ChannelProof(ctx, portID, channelID, atHeight)
	if err != nil {
		return chainclient.ChanHandshakeProof{}, err
	}
	return chainclient.ChanHandshakeProof{
		CounterpartyChannelID: counterpartyChannelID,
		ProofHeight:           atHeight,
		ProofChannel:          channelProof.Proof,
	}, nil
}

// PacketCommitments builds one packet-commitment proof per packet, all at
// atHeight, concurrently (spec section 4.7 step 4; relayPackets passes the
// header height its client update returned). Order matches packets.
func (b Builder) PacketCommitments(ctx context.Context, packets []ibctypes.PacketWithMetadata, atHeight clienttypes.Height) ([]chainclient.Proof, error) {
	return fanout.Collect(ctx, packets, func(ctx context.Context, p ibctypes.PacketWithMetadata) (chainclient.Proof, error) {
		return b.source.PacketCommitmentProof(ctx, p, atHeight)
	})
}

// Acknowledgements builds one ack proof per ack, all at atHeight,
// concurrently (spec section 4.8's analogous step for acknowledgements).
func (b Builder) Acknowledgements(ctx context.Context, acks []ibctypes.AckWithMetadata, atHeight clienttypes.Height) ([]chainclient.Proof, error) {
	return fanout.Collect(ctx, acks, func(ctx context.Context, a ibctypes.AckWithMetadata) (chainclient.Proof, error) {
		return b.source.AckProof(ctx, a, atHeight)
	})
}
