// Package link implements the Link subsystem of spec section 4.3 onward:
// the pair-of-chains object that drives the four-step connection handshake,
// the four-step channel handshake, the client-update cadence, and the
// bidirectional relay pipeline. It is deliberately the largest package in
// this module — per spec section 2 it carries 35% of the core's weight,
// the rest being its leaf collaborators (chainclient, endpoint, proof,
// cursor, side).
package link

import (
	"bytes"
	"context"
	"time"

	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/cosmos/ibc-go/v11/modules/core/02-client/types"
	connectiontypes "github.com/cosmos/ibc-go/v11/modules/core/03-connection/types"
	ibctm "github.com/cosmos/ibc-go/v11/modules/light-clients/07-tendermint"

	"go.uber.org/zap"

	"github.com/chengwenxi/ibc-relayer/internal/chainclient"
	"github.com/chengwenxi/ibc-relayer/internal/endpoint"
	"github.com/chengwenxi/ibc-relayer/internal/errs"
	"github.com/chengwenxi/ibc-relayer/internal/fanout"
	"github.com/chengwenxi/ibc-relayer/internal/proof"
	"github.com/chengwenxi/ibc-relayer/internal/side"
)

// Trusting-period constants design note 9 calls out as currently
// hard-coded but deserving of being exposed as configuration.
const (
	genesisUnbondingPeriod = 1814400 * time.Second
	defaultTrustingPeriod  = 5000 * time.Second
)

// Link is the pair-of-Endpoints core (spec section 3): immutable after
// construction except for its logger reference. It exclusively owns endA
// and endB; each Endpoint's underlying signing client may be shared with
// other Links.
type Link struct {
	endA, endB endpoint.Endpoint
	logger     *zap.Logger
}

// Endpoint returns the endpoint named by s.
func (l *Link) Endpoint(s side.Side) endpoint.Endpoint {
	if s == side.A {
		return l.endA
	}
	return l.endB
}

// ends returns the (src, dest) view over this Link's endpoints oriented by
// s, per spec section 4.9.
func (l *Link) ends(s side.Side) side.Ends[endpoint.Endpoint] {
	return side.GetEnds(s, l.endA, l.endB)
}

// builder constructs a proof.Builder reading from the endpoint named by s.
func (l *Link) builder(s side.Side) proof.Builder {
	return proof.New(l.Endpoint(s).Chain)
}

// CreateWithExistingConnections adopts two already-established, OPEN
// connections into a new Link, cross-checking every invariant spec section
// 4.3's first constructor lists before returning. No transaction is
// broadcast.
func CreateWithExistingConnections(ctx context.Context, nodeA, nodeB chainclient.ChainClient, connIDA, connIDB string, logger *zap.Logger) (*Link, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Step 1: query both connections in parallel.
	connA, connB, err := fanout.Pair(ctx,
		func(ctx context.Context) (*connectiontypes.ConnectionEnd, error) { return nodeA.Connection(ctx, connIDA) },
		func(ctx context.Context) (*connectiontypes.ConnectionEnd, error) { return nodeB.Connection(ctx, connIDB) },
	)
	if err != nil {
		return nil, errorsmod.Wrap(errs.ErrConsensus, err.Error())
	}
	if connA.Counterparty.ConnectionId == "" || connB.Counterparty.ConnectionId == "" {
		return nil, errorsmod.Wrap(errs.ErrConsensus, "connection missing counterparty")
	}

	// Step 2: both must be OPEN.
	if connA.State != connectiontypes.OPEN || connB.State != connectiontypes.OPEN {
		return nil, errorsmod.Wrapf(errs.ErrConsensus, "connections not OPEN: a=%s b=%s", connA.State, connB.State)
	}

	// Step 3: cross-check client identities.
	if connA.ClientId != connB.Counterparty.ClientId || connB.ClientId != connA.Counterparty.ClientId {
		return nil, errorsmod.Wrap(errs.ErrConsensus, "client identities do not cross-reference")
	}

	// Step 4: chain ids and client states, in parallel.
	type chainAndClient struct {
		chainID     string
		clientState *ibctm.ClientState
	}
	csA, csB, err := fanout.Pair(ctx,
		func(ctx context.Context) (chainAndClient, error) {
			cs, err := nodeA.ClientState(ctx, connA.ClientId)
			return chainAndClient{chainID: nodeA.ChainID(), clientState: cs}, err
		},
		func(ctx context.Context) (chainAndClient, error) {
			cs, err := nodeB.ClientState(ctx, connB.ClientId)
			return chainAndClient{chainID: nodeB.ChainID(), clientState: cs}, err
		},
	)
	if err != nil {
		return nil, errorsmod.Wrap(errs.ErrConsensus, err.Error())
	}
	if csA.chainID != csB.clientState.ChainId {
		return nil, errorsmod.Wrapf(errs.ErrConsensus, "chain A id %s != client-on-B tracked chain id %s", csA.chainID, csB.clientState.ChainId)
	}
	if csB.chainID != csA.clientState.ChainId {
		return nil, errorsmod.Wrapf(errs.ErrConsensus, "chain B id %s != client-on-A tracked chain id %s", csB.chainID, csA.clientState.ChainId)
	}

	// Step 5: consensus-state cross-check, one side at a time (each side's
	// check only talks to its own chain plus the counterparty's header).
	if err := crossCheckConsensusState(ctx, nodeA, connA.ClientId, csA.clientState.LatestHeight, nodeB); err != nil {
		return nil, err
	}
	if err := crossCheckConsensusState(ctx, nodeB, connB.ClientId, csB.clientState.LatestHeight, nodeA); err != nil {
		return nil, err
	}

	return &Link{
		endA:   endpoint.New(nodeA, connA.ClientId, connIDA),
		endB:   endpoint.New(nodeB, connB.ClientId, connIDB),
		logger: logger,
	}, nil
}

// crossCheckConsensusState asserts that the consensus state held on this
// chain for its client at height h agrees with the counterparty's actual
// header at that height: next-validators-hash byte-equal, and this chain's
// stored root hash equal to the counterparty's app-hash (spec section 4.3
// step 5).
func crossCheckConsensusState(ctx context.Context, thisChain chainclient.ChainClient, clientID string, h clienttypes.Height, counterparty chainclient.ChainClient) error {
	stored, counterpartyHeader, err := fanout.Pair(ctx,
		func(ctx context.Context) (*ibctm.ConsensusState, error) { return thisChain.ConsensusState(ctx, clientID, h) },
		func(ctx context.Context) (chainclient.Header, error) { return counterparty.HeaderAt(ctx, h.RevisionHeight) },
	)
	if err != nil {
		return errorsmod.Wrap(errs.ErrConsensus, err.Error())
	}
	if !bytes.Equal(stored.NextValidatorsHash, counterpartyHeader.NextValidatorsHash) {
		return errorsmod.Wrapf(errs.ErrConsensus, "next-validators-hash mismatch for client %s at height %d", clientID, h.RevisionHeight)
	}
	if !bytes.Equal(stored.Root.Hash, counterpartyHeader.AppHash) {
		return errorsmod.Wrapf(errs.ErrConsensus, "root hash / app hash mismatch for client %s at height %d", clientID, h.RevisionHeight)
	}
	return nil
}

// CreateWithNewConnections bootstraps both light clients and executes the
// four-step connection handshake (spec section 4.3's second constructor).
func CreateWithNewConnections(ctx context.Context, nodeA, nodeB chainclient.ChainClient, logger *zap.Logger) (*Link, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	headerA, err := nodeA.LatestHeader(ctx)
	if err != nil {
		return nil, errorsmod.Wrap(errs.ErrChain, err.Error())
	}
	headerB, err := nodeB.LatestHeader(ctx)
	if err != nil {
		return nil, errorsmod.Wrap(errs.ErrChain, err.Error())
	}

	// Step 1: client-on-B (tracking A), then client-on-A (tracking B). The
	// order is fixed by spec section 4.3 step 1, so the two calls run
	// sequentially even though neither depends on the other's result (each
	// needs only the other chain's already-fetched header).
	clientOnB, err := nodeB.CreateTendermintClient(ctx, headerA, genesisUnbondingPeriod, defaultTrustingPeriod)
	if err != nil {
		return nil, errorsmod.Wrap(errs.ErrHandshake, err.Error())
	}
	clientOnA, err := nodeA.CreateTendermintClient(ctx, headerB, genesisUnbondingPeriod, defaultTrustingPeriod)
	if err != nil {
		return nil, errorsmod.Wrap(errs.ErrHandshake, err.Error())
	}

	proofFromA := proof.New(nodeA)
	proofFromB := proof.New(nodeB)

	// Step 2a: connOpenInit on A.
	connIDA, err := nodeA.ConnOpenInit(ctx, clientOnA, clientOnB, "ibc")
	if err != nil {
		return nil, errorsmod.Wrap(errs.ErrHandshake, err.Error())
	}

	// Step 2b: proof from A known to B, connOpenTry on B.
	heightOnB, err := updateClientOnDest(ctx, nodeA, nodeB, clientOnB)
	if err != nil {
		return nil, err
	}
	cpA, err := proofFromA.ConnHandshake(ctx, connIDA, clientOnA, heightOnB)
	if err != nil {
		return nil, err
	}
	connIDB, err := nodeB.ConnOpenTry(ctx, clientOnB, cpA)
	if err != nil {
		return nil, errorsmod.Wrap(errs.ErrHandshake, err.Error())
	}

	// Step 2c: proof from B known to A, connOpenAck on A.
	heightOnA, err := updateClientOnDest(ctx, nodeB, nodeA, clientOnA)
	if err != nil {
		return nil, err
	}
	cpB, err := proofFromB.ConnHandshake(ctx, connIDB, clientOnB, heightOnA)
	if err != nil {
		return nil, err
	}
	if err := nodeA.ConnOpenAck(ctx, connIDA, cpB); err != nil {
		return nil, errorsmod.Wrap(errs.ErrHandshake, err.Error())
	}

	// Step 2d: proof from A known to B, connOpenConfirm on B.
	heightOnB, err = updateClientOnDest(ctx, nodeA, nodeB, clientOnB)
	if err != nil {
		return nil, err
	}
	cpA, err = proofFromA.ConnHandshake(ctx, connIDA, clientOnA, heightOnB)
	if err != nil {
		return nil, err
	}
	if err := nodeB.ConnOpenConfirm(ctx, connIDB, cpA); err != nil {
		return nil, errorsmod.Wrap(errs.ErrHandshake, err.Error())
	}

	return &Link{
		endA:   endpoint.New(nodeA, clientOnA, connIDA),
		endB:   endpoint.New(nodeB, clientOnB, connIDB),
		logger: logger,
	}, nil
}

// updateClientOnDest pushes source's latest header to the client dest
// holds for it, returning the height dest now knows source at. It is the
// handshake-time building block updateClient(source) generalizes in
// clientupdate.go; handshake construction needs it before a Link (and
// thus an Endpoint pair) exists, so it is spelled out here directly
// against chain clients.
func updateClientOnDest(ctx context.Context, source, dest chainclient.ChainClient, clientID string) (clienttypes.Height, error) {
	header, err := source.LatestHeader(ctx)
	if err != nil {
		return clienttypes.Height{}, errorsmod.Wrap(errs.ErrChain, err.Error())
	}
	if err := dest.UpdateClient(ctx, clientID, header); err != nil {
		return clienttypes.Height{}, errorsmod.Wrap(errs.ErrHandshake, err.Error())
	}
	return header.Height, nil
}
