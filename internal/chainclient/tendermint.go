package chainclient

import (
	"context"
	"fmt"
	"sync"
	"time"

	errorsmod "cosmossdk.io/errors"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/tx"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	rpchttp "github.com/cometbft/cometbft/rpc/client/http"

	clienttypes "github.com/cosmos/ibc-go/v11/modules/core/02-client/types"
	connectiontypes "github.com/cosmos/ibc-go/v11/modules/core/03-connection/types"
	channeltypes "github.com/cosmos/ibc-go/v11/modules/core/04-channel/types"
	ibctm "github.com/cosmos/ibc-go/v11/modules/light-clients/07-tendermint"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/chengwenxi/ibc-relayer/internal/errs"
	"github.com/chengwenxi/ibc-relayer/internal/ibctypes"
)

// TendermintClient is the production ChainClient implementation: a
// CometBFT RPC client for headers/blocks, a gRPC connection for IBC
// queries, and a cosmos-sdk client.Context/tx.Factory pair for signing and
// broadcasting. It generalizes the teacher's e2esuite.BroadcastMessages
// (which drives the same client.Context/tx.Factory pair against a
// dockerized test chain) to a live RPC endpoint.
type TendermintClient struct {
	chainID string
	rpc     *rpchttp.HTTP
	conn    *grpc.ClientConn

	clientQuery     clienttypes.QueryClient
	connectionQuery connectiontypes.QueryClient
	channelQuery    channeltypes.QueryClient

	clientCtx client.Context
	txFactory tx.Factory
	fromAddr  sdk.AccAddress

	logger *zap.Logger

	// seqMu serializes sequence-number bookkeeping: a signing client may
	// be shared across two Links broadcasting from the same account
	// concurrently (spec section 5), which would otherwise race on the
	// account sequence.
	seqMu sync.Mutex
}

// NewTendermintClient wires an already-configured client.Context/tx.Factory
// (codec, keyring, account number/sequence, gas settings — all external
// configuration concerns per spec section 6) to live RPC and gRPC
// endpoints.
func NewTendermintClient(chainID string, rpc *rpchttp.HTTP, conn *grpc.ClientConn, clientCtx client.Context, txFactory tx.Factory, fromAddr sdk.AccAddress, logger *zap.Logger) *TendermintClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TendermintClient{
		chainID:         chainID,
		rpc:             rpc,
		conn:            conn,
		clientQuery:     clienttypes.NewQueryClient(conn),
		connectionQuery: connectiontypes.NewQueryClient(conn),
		channelQuery:    channeltypes.NewQueryClient(conn),
		clientCtx:       clientCtx,
		txFactory:       txFactory,
		fromAddr:        fromAddr,
		logger:          logger.With(zap.String("chain_id", chainID)),
	}
}

func (c *TendermintClient) ChainID() string { return c.chainID }

func (c *TendermintClient) LatestHeader(ctx context.Context) (Header, error) {
	status, err := c.rpc.Status(ctx)
	if err != nil {
		return Header{}, errorsmod.Wrapf(errs.ErrChain, "status: %s", err)
	}
	return c.HeaderAt(ctx, uint64(status.SyncInfo.LatestBlockHeight))
}

func (c *TendermintClient) HeaderAt(ctx context.Context, height uint64) (Header, error) {
	h := int64(height)
	commit, err := c.rpc.Commit(ctx, &h)
	if err != nil {
		return Header{}, errorsmod.Wrapf(errs.ErrChain, "commit at height %d: %s", height, err)
	}
	valSet, err := c.rpc.Validators(ctx, &h, nil, nil)
	if err != nil {
		return Header{}, errorsmod.Wrapf(errs.ErrChain, "validators at height %d: %s", height, err)
	}

	signed, err := buildTendermintHeader(commit, valSet)
	if err != nil {
		return Header{}, errorsmod.Wrap(errs.ErrConsensus, err.Error())
	}

	return Header{
		Height:             clienttypes.NewHeight(clienttypes.ParseChainID(c.chainID), height),
		Time:               commit.Header.Time,
		AppHash:            commit.Header.AppHash,
		NextValidatorsHash: commit.Header.NextValidatorsHash,
		Signed:             signed,
	}, nil
}

func (c *TendermintClient) WaitOneBlock(ctx context.Context) error {
	start, err := c.rpc.Status(ctx)
	if err != nil {
		return errorsmod.Wrapf(errs.ErrChain, "status: %s", err)
	}
	startHeight := start.SyncInfo.LatestBlockHeight

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return errorsmod.Wrap(errs.ErrCancelled, ctx.Err().Error())
		case <-ticker.C:
			status, err := c.rpc.Status(ctx)
			if err != nil {
				return errorsmod.Wrapf(errs.ErrChain, "status: %s", err)
			}
			if status.SyncInfo.LatestBlockHeight > startHeight {
				return nil
			}
		}
	}
}

func (c *TendermintClient) Connection(ctx context.Context, connectionID string) (*connectiontypes.ConnectionEnd, error) {
	resp, err := c.connectionQuery.Connection(ctx, &connectiontypes.QueryConnectionRequest{ConnectionId: connectionID})
	if err != nil {
		return nil, errorsmod.Wrapf(errs.ErrChain, "query connection %s: %s", connectionID, err)
	}
	if resp.Connection == nil {
		return nil, errorsmod.Wrapf(errs.ErrConsensus, "connection %s not found", connectionID)
	}
	return resp.Connection, nil
}

func (c *TendermintClient) ClientState(ctx context.Context, clientID string) (*ibctm.ClientState, error) {
	resp, err := c.clientQuery.ClientState(ctx, &clienttypes.QueryClientStateRequest{ClientId: clientID})
	if err != nil {
		return nil, errorsmod.Wrapf(errs.ErrChain, "query client state %s: %s", clientID, err)
	}
	cs, ok := resp.ClientState.GetCachedValue().(*ibctm.ClientState)
	if !ok {
		return nil, errorsmod.Wrapf(errs.ErrConsensus, "client %s is not a tendermint client", clientID)
	}
	return cs, nil
}

func (c *TendermintClient) ConsensusState(ctx context.Context, clientID string, height clienttypes.Height) (*ibctm.ConsensusState, error) {
	resp, err := c.clientQuery.ConsensusState(ctx, &clienttypes.QueryConsensusStateRequest{
		ClientId:       clientID,
		RevisionNumber: height.RevisionNumber,
		RevisionHeight: height.RevisionHeight,
		LatestHeight:   false,
	})
	if err != nil {
		return nil, errorsmod.Wrapf(errs.ErrChain, "query consensus state %s@%s: %s", clientID, height, err)
	}
	cons, ok := resp.ConsensusState.GetCachedValue().(*ibctm.ConsensusState)
	if !ok {
		return nil, errorsmod.Wrapf(errs.ErrConsensus, "consensus state %s@%s is not tendermint", clientID, height)
	}
	return cons, nil
}

func (c *TendermintClient) UnreceivedPacketSequences(ctx context.Context, q UnreceivedQuery) ([]uint64, error) {
	resp, err := c.channelQuery.UnreceivedPackets(ctx, &channeltypes.QueryUnreceivedPacketsRequest{
		PortId:                    q.PortChannel.Port,
		ChannelId:                 q.PortChannel.Channel,
		PacketCommitmentSequences: q.Sequences,
	})
	if err != nil {
		return nil, errorsmod.Wrapf(errs.ErrChain, "query unreceived packets %s/%s: %s", q.PortChannel.Port, q.PortChannel.Channel, err)
	}
	return resp.Sequences, nil
}

func (c *TendermintClient) UnreceivedAckSequences(ctx context.Context, q UnreceivedQuery) ([]uint64, error) {
	resp, err := c.channelQuery.UnreceivedAcks(ctx, &channeltypes.QueryUnreceivedAcksRequest{
		PortId:             q.PortChannel.Port,
		ChannelId:          q.PortChannel.Channel,
		PacketAckSequences: q.Sequences,
	})
	if err != nil {
		return nil, errorsmod.Wrapf(errs.ErrChain, "query unreceived acks %s/%s: %s", q.PortChannel.Port, q.PortChannel.Channel, err)
	}
	return resp.Sequences, nil
}

func (c *TendermintClient) SentPackets(ctx context.Context, opts QueryOpts) ([]ibctypes.PacketWithMetadata, error) {
	minHeight := int64(0)
	if opts.MinHeight != nil {
		minHeight = int64(*opts.MinHeight)
	}
	query := fmt.Sprintf("send_packet.packet_sequence>=0 AND tx.height>=%d", minHeight)
	results, err := c.rpc.TxSearch(ctx, query, false, nil, nil, "asc")
	if err != nil {
		return nil, errorsmod.Wrapf(errs.ErrChain, "tx search for send_packet: %s", err)
	}

	revision := clienttypes.ParseChainID(c.chainID)
	var out []ibctypes.PacketWithMetadata
	for _, tx := range results.Txs {
		height := clienttypes.NewHeight(revision, uint64(tx.Height))
		packets, err := parseSentPackets(eventsFromABCI(tx.TxResult.Events), height)
		if err != nil {
			return nil, errorsmod.Wrap(errs.ErrChain, err.Error())
		}
		out = append(out, packets...)
	}
	return out, nil
}

func (c *TendermintClient) WrittenAcks(ctx context.Context, opts QueryOpts) ([]ibctypes.AckWithMetadata, error) {
	minHeight := int64(0)
	if opts.MinHeight != nil {
		minHeight = int64(*opts.MinHeight)
	}
	query := fmt.Sprintf("write_acknowledgement.packet_sequence>=0 AND tx.height>=%d", minHeight)
	results, err := c.rpc.TxSearch(ctx, query, false, nil, nil, "asc")
	if err != nil {
		return nil, errorsmod.Wrapf(errs.ErrChain, "tx search for write_acknowledgement: %s", err)
	}

	revision := clienttypes.ParseChainID(c.chainID)
	var out []ibctypes.AckWithMetadata
	for _, tx := range results.Txs {
		height := clienttypes.NewHeight(revision, uint64(tx.Height))
		acks, err := parseWrittenAcks(eventsFromABCI(tx.TxResult.Events), height)
		if err != nil {
			return nil, errorsmod.Wrap(errs.ErrChain, err.Error())
		}
		out = append(out, acks...)
	}
	return out, nil
}

// broadcast serializes account-sequence bookkeeping (spec section 5) and
// submits msgs through the cosmos-sdk tx pipeline, mirroring the teacher's
// BroadcastMessages but against a live node instead of a test harness.
func (c *TendermintClient) broadcast(ctx context.Context, msgs ...sdk.Msg) (*sdk.TxResponse, error) {
	c.seqMu.Lock()
	defer c.seqMu.Unlock()

	factory, err := c.txFactory.Prepare(c.clientCtx)
	if err != nil {
		return nil, errorsmod.Wrapf(errs.ErrChain, "prepare tx factory: %s", err)
	}

	txBuilder, err := factory.BuildUnsignedTx(msgs...)
	if err != nil {
		return nil, errorsmod.Wrapf(errs.ErrChain, "build unsigned tx: %s", err)
	}

	if err := tx.Sign(ctx, factory, c.clientCtx.GetFromName(), txBuilder, true); err != nil {
		return nil, errorsmod.Wrapf(errs.ErrChain, "sign tx: %s", err)
	}

	txBytes, err := c.clientCtx.TxConfig.TxEncoder()(txBuilder.GetTx())
	if err != nil {
		return nil, errorsmod.Wrapf(errs.ErrChain, "encode tx: %s", err)
	}

	resp, err := c.clientCtx.BroadcastTx(txBytes)
	if err != nil {
		return nil, errorsmod.Wrapf(errs.ErrChain, "broadcast tx: %s", err)
	}
	if resp.Code == authtypes.ErrInsufficientFee.ABCICode() || resp.Code == authtypes.ErrInsufficientFunds.ABCICode() {
		return nil, errorsmod.Wrapf(errs.ErrInsufficientFunds, "broadcast rejected: %s", resp.RawLog)
	}
	if resp.Code != 0 {
		return nil, errorsmod.Wrapf(errs.ErrChain, "broadcast rejected (code %d): %s", resp.Code, resp.RawLog)
	}

	c.logger.Debug("broadcast tx", zap.String("hash", resp.TxHash), zap.Int64("height", resp.Height))
	return resp, nil
}
