package link

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	clienttypes "github.com/cosmos/ibc-go/v11/modules/core/02-client/types"
	ibctm "github.com/cosmos/ibc-go/v11/modules/light-clients/07-tendermint"

	"github.com/chengwenxi/ibc-relayer/internal/chainclient"
	"github.com/chengwenxi/ibc-relayer/internal/chainclient/mocks"
	"github.com/chengwenxi/ibc-relayer/internal/side"
)

func TestUpdateClientSubmitsLatestHeader(t *testing.T) {
	nodeA := new(mocks.ChainClient)
	nodeB := new(mocks.ChainClient)
	l := newTestLink(nodeA, nodeB)

	header := chainclient.Header{Height: clienttypes.NewHeight(1, 50)}
	nodeA.On("LatestHeader", mock.Anything).Return(header, nil)
	nodeB.On("UpdateClient", mock.Anything, "07-tendermint-1", header).Return(nil)

	got, err := l.updateClient(context.Background(), side.A)
	require.NoError(t, err)
	require.Equal(t, header.Height, got)
	nodeB.AssertCalled(t, "UpdateClient", mock.Anything, "07-tendermint-1", header)
}

func TestUpdateClientIfStaleReturnsFalseWhenMaxAgeExceedsClockDifference(t *testing.T) {
	nodeA := new(mocks.ChainClient)
	nodeB := new(mocks.ChainClient)
	l := newTestLink(nodeA, nodeB)

	destHeight := clienttypes.NewHeight(1, 10)
	now := time.Now()
	nodeB.On("ClientState", mock.Anything, "07-tendermint-1").Return(&ibctm.ClientState{LatestHeight: destHeight}, nil)
	nodeB.On("ConsensusState", mock.Anything, "07-tendermint-1", destHeight).Return(&ibctm.ConsensusState{Timestamp: now}, nil)
	nodeA.On("LatestHeader", mock.Anything).Return(chainclient.Header{Time: now.Add(time.Second)}, nil)

	_, updated, err := l.updateClientIfStale(context.Background(), side.A, 365*24*time.Hour)
	require.NoError(t, err)
	require.False(t, updated)
	nodeB.AssertNotCalled(t, "UpdateClient", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateClientIfStaleUpdatesWhenOlderThanMaxAge(t *testing.T) {
	nodeA := new(mocks.ChainClient)
	nodeB := new(mocks.ChainClient)
	l := newTestLink(nodeA, nodeB)

	destHeight := clienttypes.NewHeight(1, 10)
	now := time.Now()
	nodeB.On("ClientState", mock.Anything, "07-tendermint-1").Return(&ibctm.ClientState{LatestHeight: destHeight}, nil)
	nodeB.On("ConsensusState", mock.Anything, "07-tendermint-1", destHeight).Return(&ibctm.ConsensusState{Timestamp: now}, nil)
	header := chainclient.Header{Time: now.Add(time.Hour), Height: clienttypes.NewHeight(1, 99)}
	nodeA.On("LatestHeader", mock.Anything).Return(header, nil)
	nodeB.On("UpdateClient", mock.Anything, "07-tendermint-1", header).Return(nil)

	newHeight, updated, err := l.updateClientIfStale(context.Background(), side.A, time.Minute)
	require.NoError(t, err)
	require.True(t, updated)
	require.Equal(t, header.Height, newHeight)
}

func TestUpdateClientToHeightSkipsWhenDestAlreadySufficient(t *testing.T) {
	nodeA := new(mocks.ChainClient)
	nodeB := new(mocks.ChainClient)
	l := newTestLink(nodeA, nodeB)

	destHeight := clienttypes.NewHeight(1, 100)
	nodeB.On("ClientState", mock.Anything, "07-tendermint-1").Return(&ibctm.ClientState{LatestHeight: destHeight}, nil)

	got, err := l.updateClientToHeight(context.Background(), side.A, clienttypes.NewHeight(1, 50))
	require.NoError(t, err)
	require.Equal(t, destHeight, got)
	nodeA.AssertNotCalled(t, "LatestHeader", mock.Anything)
}

func TestUpdateClientToHeightWaitsThenUpdates(t *testing.T) {
	nodeA := new(mocks.ChainClient)
	nodeB := new(mocks.ChainClient)
	l := newTestLink(nodeA, nodeB)

	destHeight := clienttypes.NewHeight(1, 10)
	minHeight := clienttypes.NewHeight(1, 100)
	nodeB.On("ClientState", mock.Anything, "07-tendermint-1").Return(&ibctm.ClientState{LatestHeight: destHeight}, nil)
	staleHeader := chainclient.Header{Height: clienttypes.NewHeight(1, 50)}
	freshHeader := chainclient.Header{Height: clienttypes.NewHeight(1, 101)}
	nodeA.On("LatestHeader", mock.Anything).Return(staleHeader, nil).Once()
	nodeA.On("WaitOneBlock", mock.Anything).Return(nil)
	nodeA.On("LatestHeader", mock.Anything).Return(freshHeader, nil).Once()
	nodeB.On("UpdateClient", mock.Anything, "07-tendermint-1", freshHeader).Return(nil)

	got, err := l.updateClientToHeight(context.Background(), side.A, minHeight)
	require.NoError(t, err)
	require.Equal(t, freshHeader.Height, got)
	nodeA.AssertCalled(t, "WaitOneBlock", mock.Anything)
}
