package proof_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	clienttypes "github.com/cosmos/ibc-go/v11/modules/core/02-client/types"
	channeltypes "github.com/cosmos/ibc-go/v11/modules/core/04-channel/types"

	"github.com/chengwenxi/ibc-relayer/internal/chainclient"
	"github.com/chengwenxi/ibc-relayer/internal/chainclient/mocks"
	"github.com/chengwenxi/ibc-relayer/internal/ibctypes"
	"github.com/chengwenxi/ibc-relayer/internal/proof"
)

func twoPackets() []ibctypes.PacketWithMetadata {
	return []ibctypes.PacketWithMetadata{
		{Packet: channeltypes.Packet{Sequence: 1}, Height: clienttypes.NewHeight(1, 9)},
		{Packet: channeltypes.Packet{Sequence: 2}, Height: clienttypes.NewHeight(1, 9)},
	}
}

func TestConnHandshakeAssemblesBundle(t *testing.T) {
	chain := new(mocks.ChainClient)
	height := clienttypes.NewHeight(1, 100)

	chain.On("ConnectionProof", mock.Anything, "connection-0", height).Return(chainclient.Proof{Height: height}, nil)

	b := proof.New(chain)
	bundle, err := b.ConnHandshake(context.Background(), "connection-0", "07-tendermint-0", height)
	require.NoError(t, err)
	require.Equal(t, "connection-0", bundle.ConnectionID)
	require.Equal(t, "07-tendermint-0", bundle.ClientID)
	require.Equal(t, height, bundle.ProofHeight)
}

func TestPacketCommitmentsReturnsOneProofPerPacket(t *testing.T) {
	chain := new(mocks.ChainClient)
	height := clienttypes.NewHeight(1, 10)
	chain.On("PacketCommitmentProof", mock.Anything, mock.Anything, height).Return(chainclient.Proof{Height: height}, nil)

	b := proof.New(chain)
	proofs, err := b.PacketCommitments(context.Background(), twoPackets(), height)
	require.NoError(t, err)
	require.Len(t, proofs, 2)
}
