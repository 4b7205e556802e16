package link

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	clienttypes "github.com/cosmos/ibc-go/v11/modules/core/02-client/types"
	channeltypes "github.com/cosmos/ibc-go/v11/modules/core/04-channel/types"

	"github.com/chengwenxi/ibc-relayer/internal/chainclient"
	"github.com/chengwenxi/ibc-relayer/internal/chainclient/mocks"
	"github.com/chengwenxi/ibc-relayer/internal/side"
)

// TestCreateChannelFourStepHandshake covers spec section 8 scenario 4:
// starting from an OPEN connection pair, createChannel yields channel-0 on
// each side and broadcasts exactly four handshake transactions.
func TestCreateChannelFourStepHandshake(t *testing.T) {
	nodeA := new(mocks.ChainClient)
	nodeB := new(mocks.ChainClient)
	l := newTestLink(nodeA, nodeB)

	headerA := chainclient.Header{Height: clienttypes.NewHeight(1, 10)}
	headerB := chainclient.Header{Height: clienttypes.NewHeight(1, 20)}

	nodeA.On("ChannelOpenInit", mock.Anything, "transfer", "connection-0", "transfer", "ics20-1", channeltypes.UNORDERED).Return("channel-0", nil)

	// Step 2: updateClient(A) then proof from A, ChannelOpenTry on B.
	nodeA.On("LatestHeader", mock.Anything).Return(headerA, nil)
	nodeB.On("UpdateClient", mock.Anything, "07-tendermint-1", headerA).Return(nil)
	nodeA.On("ChannelProof", mock.Anything, "transfer", "channel-0", headerA.Height).Return(chainclient.Proof{Height: headerA.Height}, nil)
	nodeB.On("ChannelOpenTry", mock.Anything, "transfer", "connection-0", "transfer", "channel-0", "ics20-1", channeltypes.UNORDERED, mock.Anything).Return("channel-0", nil)

	// Step 3: updateClient(B) then proof from B, ChannelOpenAck on A.
	nodeB.On("LatestHeader", mock.Anything).Return(headerB, nil)
	nodeA.On("UpdateClient", mock.Anything, "07-tendermint-0", headerB).Return(nil)
	nodeB.On("ChannelProof", mock.Anything, "transfer", "channel-0", headerB.Height).Return(chainclient.Proof{Height: headerB.Height}, nil)
	nodeA.On("ChannelOpenAck", mock.Anything, "transfer", "channel-0", "channel-0", "ics20-1", mock.Anything).Return(nil)

	// Step 4: updateClient(A) again, proof from A, ChannelOpenConfirm on B.
	nodeB.On("ChannelOpenConfirm", mock.Anything, "transfer", "channel-0", mock.Anything).Return(nil)

	result, err := l.CreateChannel(context.Background(), side.A, "transfer", "transfer", channeltypes.UNORDERED, "ics20-1")
	require.NoError(t, err)
	require.Equal(t, "channel-0", result.Src.ChannelID)
	require.Equal(t, "channel-0", result.Dest.ChannelID)

	nodeA.AssertNumberOfCalls(t, "ChannelOpenInit", 1)
	nodeB.AssertNumberOfCalls(t, "ChannelOpenTry", 1)
	nodeA.AssertNumberOfCalls(t, "ChannelOpenAck", 1)
	nodeB.AssertNumberOfCalls(t, "ChannelOpenConfirm", 1)
}
