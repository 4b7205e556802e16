package link_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	clienttypes "github.com/cosmos/ibc-go/v11/modules/core/02-client/types"
	connectiontypes "github.com/cosmos/ibc-go/v11/modules/core/03-connection/types"
	commitmenttypes "github.com/cosmos/ibc-go/v11/modules/core/23-commitment/types"
	ibctm "github.com/cosmos/ibc-go/v11/modules/light-clients/07-tendermint"

	"github.com/chengwenxi/ibc-relayer/internal/chainclient"
	"github.com/chengwenxi/ibc-relayer/internal/chainclient/mocks"
	"github.com/chengwenxi/ibc-relayer/internal/link"
	"github.com/chengwenxi/ibc-relayer/internal/side"
)

var sameHeight = clienttypes.NewHeight(1, 100)

func openConnections() (*connectiontypes.ConnectionEnd, *connectiontypes.ConnectionEnd) {
	connA := &connectiontypes.ConnectionEnd{
		ClientId: "07-tendermint-0",
		State:    connectiontypes.OPEN,
		Counterparty: connectiontypes.Counterparty{
			ClientId:     "07-tendermint-1",
			ConnectionId: "connection-0",
			Prefix:       commitmenttypes.NewMerklePrefix([]byte("ibc")),
		},
	}
	connB := &connectiontypes.ConnectionEnd{
		ClientId: "07-tendermint-1",
		State:    connectiontypes.OPEN,
		Counterparty: connectiontypes.Counterparty{
			ClientId:     "07-tendermint-0",
			ConnectionId: "connection-0",
			Prefix:       commitmenttypes.NewMerklePrefix([]byte("ibc")),
		},
	}
	return connA, connB
}

func TestCreateWithExistingConnectionsSucceedsAndBroadcastsNothing(t *testing.T) {
	nodeA := new(mocks.ChainClient)
	nodeB := new(mocks.ChainClient)
	connA, connB := openConnections()

	root := commitmenttypes.NewMerkleRoot([]byte("app-hash-a"))
	csA := &ibctm.ClientState{ChainId: "chainB", LatestHeight: sameHeight}
	csB := &ibctm.ClientState{ChainId: "chainA", LatestHeight: sameHeight}
	consensusOnA := &ibctm.ConsensusState{NextValidatorsHash: []byte("nvh-b"), Root: root}
	consensusOnB := &ibctm.ConsensusState{NextValidatorsHash: []byte("nvh-a"), Root: commitmenttypes.NewMerkleRoot([]byte("app-hash-b"))}

	nodeA.On("Connection", mock.Anything, "connection-0").Return(connA, nil)
	nodeB.On("Connection", mock.Anything, "connection-0").Return(connB, nil)
	nodeA.On("ChainID").Return("chainA")
	nodeB.On("ChainID").Return("chainB")
	nodeA.On("ClientState", mock.Anything, "07-tendermint-0").Return(csA, nil)
	nodeB.On("ClientState", mock.Anything, "07-tendermint-1").Return(csB, nil)

	// Side A's cross-check: consensus state on A for client-0, header from B.
	nodeA.On("ConsensusState", mock.Anything, "07-tendermint-0", sameHeight).Return(consensusOnA, nil)
	nodeB.On("HeaderAt", mock.Anything, sameHeight.RevisionHeight).Return(chainclient.Header{
		NextValidatorsHash: []byte("nvh-b"), AppHash: []byte("app-hash-a"),
	}, nil)

	// Side B's cross-check: consensus state on B for client-1, header from A.
	nodeB.On("ConsensusState", mock.Anything, "07-tendermint-1", sameHeight).Return(consensusOnB, nil)
	nodeA.On("HeaderAt", mock.Anything, sameHeight.RevisionHeight).Return(chainclient.Header{
		NextValidatorsHash: []byte("nvh-a"), AppHash: []byte("app-hash-b"),
	}, nil)

	l, err := link.CreateWithExistingConnections(context.Background(), nodeA, nodeB, "connection-0", "connection-0", zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, "07-tendermint-0", l.Endpoint(side.A).ClientID)
	require.Equal(t, "07-tendermint-1", l.Endpoint(side.B).ClientID)

	nodeA.AssertNotCalled(t, "ConnOpenInit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	nodeB.AssertNotCalled(t, "ConnOpenTry", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateWithExistingConnectionsFailsOnClientIDMismatch(t *testing.T) {
	nodeA := new(mocks.ChainClient)
	nodeB := new(mocks.ChainClient)
	connA, connB := openConnections()
	// Corrupt A's own client id (scenario 3 in spec section 8), so it no
	// longer matches B's counterparty client id.
	connA.ClientId = "07-tendermint-9"

	nodeA.On("Connection", mock.Anything, "connection-0").Return(connA, nil)
	nodeB.On("Connection", mock.Anything, "connection-0").Return(connB, nil)

	_, err := link.CreateWithExistingConnections(context.Background(), nodeA, nodeB, "connection-0", "connection-0", zap.NewNop())
	require.Error(t, err)

	nodeA.AssertNotCalled(t, "ClientState", mock.Anything, mock.Anything)
}

func TestCreateWithExistingConnectionsFailsWhenNotOpen(t *testing.T) {
	nodeA := new(mocks.ChainClient)
	nodeB := new(mocks.ChainClient)
	connA, connB := openConnections()
	connB.State = connectiontypes.TRYOPEN

	nodeA.On("Connection", mock.Anything, "connection-0").Return(connA, nil)
	nodeB.On("Connection", mock.Anything, "connection-0").Return(connB, nil)

	_, err := link.CreateWithExistingConnections(context.Background(), nodeA, nodeB, "connection-0", "connection-0", zap.NewNop())
	require.Error(t, err)
}
