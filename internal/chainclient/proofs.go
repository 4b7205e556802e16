package chainclient

import (
	"context"
	"fmt"

	errorsmod "cosmossdk.io/errors"

	rpcclient "github.com/cometbft/cometbft/rpc/client"
	coretypes "github.com/cometbft/cometbft/rpc/core/types"
	cmttypes "github.com/cometbft/cometbft/types"

	ics23 "github.com/cosmos/ics23/go"

	clienttypes "github.com/cosmos/ibc-go/v11/modules/core/02-client/types"
	commitmenttypes "github.com/cosmos/ibc-go/v11/modules/core/23-commitment/types"
	host "github.com/cosmos/ibc-go/v11/modules/core/24-host"
	ibctm "github.com/cosmos/ibc-go/v11/modules/light-clients/07-tendermint"

	"github.com/chengwenxi/ibc-relayer/internal/errs"
	"github.com/chengwenxi/ibc-relayer/internal/ibctypes"
)

// abciQueryProof performs a proven ABCI query against the IBC store at the
// given height, the mechanism underlying every proof helper in spec
// sections 4.1 and 4.3 (connection/channel/packet/ack proofs alike).
func (c *TendermintClient) abciQueryProof(ctx context.Context, storeKey string, key []byte, height uint64) (commitmenttypes.MerkleProof, error) {
	resp, err := c.rpc.ABCIQueryWithOptions(ctx, fmt.Sprintf("/store/%s/key", storeKey), key, rpcclient.ABCIQueryOptions{
		Height: int64(height),
		Prove:  true,
	})
	if err != nil {
		return commitmenttypes.MerkleProof{}, errorsmod.Wrapf(errs.ErrChain, "abci query proof: %s", err)
	}
	if resp.Response.ProofOps == nil {
		return commitmenttypes.MerkleProof{}, errorsmod.Wrapf(errs.ErrConsensus, "no proof ops returned for key %x at height %d", key, height)
	}

	merkleProof, err := commitmenttypes.ConvertProofs(resp.Response.ProofOps)
	if err != nil {
		return commitmenttypes.MerkleProof{}, errorsmod.Wrapf(errs.ErrConsensus, "convert proof ops: %s", err)
	}
	return merkleProof, nil
}

func (c *TendermintClient) PacketCommitmentProof(ctx context.Context, packet ibctypes.PacketWithMetadata, atHeight clienttypes.Height) (Proof, error) {
	key := host.PacketCommitmentKey(packet.Packet.SourcePort, packet.Packet.SourceChannel, packet.Packet.Sequence)
	proof, err := c.abciQueryProof(ctx, host.StoreKey, key, atHeight.RevisionHeight)
	if err != nil {
		return Proof{}, err
	}
	return Proof{Proof: proof, Height: atHeight}, nil
}

func (c *TendermintClient) AckProof(ctx context.Context, ack ibctypes.AckWithMetadata, atHeight clienttypes.Height) (Proof, error) {
	key := host.PacketAcknowledgementKey(ack.Packet.DestinationPort, ack.Packet.DestinationChannel, ack.Packet.Sequence)
	proof, err := c.abciQueryProof(ctx, host.StoreKey, key, atHeight.RevisionHeight)
	if err != nil {
		return Proof{}, err
	}
	return Proof{Proof: proof, Height: atHeight}, nil
}

// ConnectionProof and ChannelProof are the low-level primitives the
// internal/proof Builder composes into the handshake-message proof
// bundles.

func (c *TendermintClient) ConnectionProof(ctx context.Context, connectionID string, atHeight clienttypes.Height) (Proof, error) {
	key := host.ConnectionKey(connectionID)
	proof, err := c.abciQueryProof(ctx, host.StoreKey, key, atHeight.RevisionHeight)
	if err != nil {
		return Proof{}, err
	}
	return Proof{Proof: proof, Height: atHeight}, nil
}

func (c *TendermintClient) ChannelProof(ctx context.Context, portID, channelID string, atHeight clienttypes.Height) (Proof, error) {
	key := host.ChannelKey(portID, channelID)
	proof, err := c.abciQueryProof(ctx, host.StoreKey, key, atHeight.RevisionHeight)
	if err != nil {
		return Proof{}, err
	}
	return Proof{Proof: proof, Height: atHeight}, nil
}

// defaultProofSpecs matches the IAVL proof specs ibc-go's tendermint light
// client expects.
func defaultProofSpecs() []*ics23.ProofSpec {
	return commitmenttypes.GetSDKSpecs()
}

// buildTendermintHeader converts a CometBFT commit+validator-set pair into
// the signed header an UpdateClient/CreateClient message carries. The
// caller fills in TrustedHeight/TrustedValidators, which depend on what
// the destination client already knows, not on the source chain alone.
// Grounded on the header-construction step of the reference cosmos
// relayer's sync-headers flow (see other_examples/up-to-sky-relayer
// query.go).
func buildTendermintHeader(commit *coretypes.ResultCommit, valSet *coretypes.ResultValidators) (*ibctm.Header, error) {
	protoSignedHeader := commit.SignedHeader.ToProto()

	validatorSet := cmttypes.NewValidatorSet(valSet.Validators)
	protoValidatorSet, err := validatorSet.ToProto()
	if err != nil {
		return nil, fmt.Errorf("convert validator set to proto: %w", err)
	}

	return &ibctm.Header{
		SignedHeader: protoSignedHeader,
		ValidatorSet: protoValidatorSet,
	}, nil
}
