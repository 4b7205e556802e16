package endpoint_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	clienttypes "github.com/cosmos/ibc-go/v11/modules/core/02-client/types"
	ibctm "github.com/cosmos/ibc-go/v11/modules/light-clients/07-tendermint"

	"github.com/chengwenxi/ibc-relayer/internal/chainclient"
	"github.com/chengwenxi/ibc-relayer/internal/chainclient/mocks"
	"github.com/chengwenxi/ibc-relayer/internal/endpoint"
	"github.com/chengwenxi/ibc-relayer/internal/ibctypes"
)

func TestQuerySentPacketsDelegatesMinHeight(t *testing.T) {
	chain := new(mocks.ChainClient)
	minHeight := uint64(42)
	want := []ibctypes.PacketWithMetadata{{}}
	chain.On("SentPackets", mock.Anything, chainclient.QueryOpts{MinHeight: &minHeight}).Return(want, nil)

	e := endpoint.New(chain, "07-tendermint-0", "connection-0")
	got, err := e.QuerySentPackets(context.Background(), endpoint.QueryOpts{MinHeight: &minHeight})
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestLatestClientHeightReadsClientState(t *testing.T) {
	chain := new(mocks.ChainClient)
	height := clienttypes.NewHeight(1, 55)
	chain.On("ClientState", mock.Anything, "07-tendermint-0").Return(&ibctm.ClientState{LatestHeight: height}, nil)

	e := endpoint.New(chain, "07-tendermint-0", "connection-0")
	got, err := e.LatestClientHeight(context.Background())
	require.NoError(t, err)
	require.Equal(t, height, got)
}
