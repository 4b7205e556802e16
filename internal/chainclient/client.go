// Package chainclient implements the "Chain signing client" component of
// spec section 4.1: an abstraction over one Tendermint/Cosmos-SDK chain
// that can be queried, can broadcast transactions, signs with a
// mnemonic-derived key, and reports its latest header.
package chainclient

import (
	"context"
	"time"

	clienttypes "github.com/cosmos/ibc-go/v11/modules/core/02-client/types"
	connectiontypes "github.com/cosmos/ibc-go/v11/modules/core/03-connection/types"
	channeltypes "github.com/cosmos/ibc-go/v11/modules/core/04-channel/types"
	commitmenttypes "github.com/cosmos/ibc-go/v11/modules/core/23-commitment/types"
	ibctm "github.com/cosmos/ibc-go/v11/modules/light-clients/07-tendermint"

	"github.com/chengwenxi/ibc-relayer/internal/ibctypes"
)

// Header is the chain-agnostic shape of a Tendermint header the core needs:
// enough to drive updateClient policy and consensus-state cross-checks
// (spec section 3).
type Header struct {
	Height             clienttypes.Height
	Time               time.Time
	AppHash            []byte
	NextValidatorsHash []byte
	// Signed carries the full signed header+validator-set needed to build
	// an ibctm.Header for an UpdateClient/CreateClient transaction. It is
	// opaque to everything outside chainclient.
	Signed *ibctm.Header
}

// UnreceivedQuery groups the packet or ack sequences a destination chain
// should be asked about for a single (port, channel) pair, per spec
// section 4.6's "Unreceived filtering".
type UnreceivedQuery struct {
	PortChannel ibctypes.PortChannel
	Sequences   []uint64
}

// TxResult is the common shape of a handshake or data-plane broadcast: the
// height at which the transaction was included, plus, for a receive
// broadcast, the acks it produced as a side effect (spec section 4.7 step
// 6: "parse acknowledgements emitted in those logs; tag each with the
// inclusion height and return").
type TxResult struct {
	InclusionHeight clienttypes.Height
	NewAcks         []ibctypes.AckWithMetadata
}

// Proof is a Merkle proof against a consensus root, plus the height of
// that root, attesting that a key existed on the source chain (spec
// section 4, Proof builder).
type Proof struct {
	Proof  commitmenttypes.MerkleProof
	Height clienttypes.Height
}

// QueryOpts bounds a query for outbound events to a minimum source height
// (spec section 4.2: Endpoint's opts = {minHeight?}).
type QueryOpts struct {
	MinHeight *uint64
}

// ChainClient is the signing-client abstraction spec section 4.1 names.
// Every method may fail with errs.ErrChain (RPC unreachable/erroring),
// errs.ErrConsensus (queried state missing or malformed) or
// errs.ErrInsufficientFunds (broadcast rejected for fees).
type ChainClient interface {
	ChainID() string

	LatestHeader(ctx context.Context) (Header, error)
	HeaderAt(ctx context.Context, height uint64) (Header, error)
	// WaitOneBlock returns once the chain height has advanced at least
	// once from the height observed when it was called.
	WaitOneBlock(ctx context.Context) error

	// --- IBC state queries ---

	Connection(ctx context.Context, connectionID string) (*connectiontypes.ConnectionEnd, error)
	ClientState(ctx context.Context, clientID string) (*ibctm.ClientState, error)
	ConsensusState(ctx context.Context, clientID string, height clienttypes.Height) (*ibctm.ConsensusState, error)
	UnreceivedPacketSequences(ctx context.Context, q UnreceivedQuery) ([]uint64, error)
	UnreceivedAckSequences(ctx context.Context, q UnreceivedQuery) ([]uint64, error)

	// --- outbound event queries ---

	SentPackets(ctx context.Context, opts QueryOpts) ([]ibctypes.PacketWithMetadata, error)
	WrittenAcks(ctx context.Context, opts QueryOpts) ([]ibctypes.AckWithMetadata, error)

	// --- handshake transactions ---

	CreateTendermintClient(ctx context.Context, remote Header, unbondingPeriod, trustingPeriod time.Duration) (clientID string, err error)
	UpdateClient(ctx context.Context, clientID string, header Header) error

	ConnOpenInit(ctx context.Context, clientID, counterpartyClientID, counterpartyPrefix string) (connectionID string, err error)
	ConnOpenTry(ctx context.Context, clientID string, counterparty ConnHandshakeProof) (connectionID string, err error)
	ConnOpenAck(ctx context.Context, connectionID string, counterparty ConnHandshakeProof) error
	ConnOpenConfirm(ctx context.Context, connectionID string, counterparty ConnHandshakeProof) error

	ChannelOpenInit(ctx context.Context, portID, connectionID, counterpartyPortID, version string, ordering channeltypes.Order) (channelID string, err error)
	ChannelOpenTry(ctx context.Context, portID, connectionID, counterpartyPortID, counterpartyChannelID, version string, ordering channeltypes.Order, proof ChanHandshakeProof) (channelID string, err error)
	ChannelOpenAck(ctx context.Context, portID, channelID, counterpartyChannelID, counterpartyVersion string, proof ChanHandshakeProof) error
	ChannelOpenConfirm(ctx context.Context, portID, channelID string, proof ChanHandshakeProof) error

	// --- data-plane transactions ---

	ReceivePackets(ctx context.Context, packets []ibctypes.PacketWithMetadata, proofs []Proof, proofHeight clienttypes.Height) (TxResult, error)
	AcknowledgePackets(ctx context.Context, acks []ibctypes.AckWithMetadata, proofs []Proof, proofHeight clienttypes.Height) (TxResult, error)

	// --- proof helpers ---
	//
	// PacketCommitmentProof/AckProof are the two the spec names directly
	// (section 4.1). ConnectionProof/ChannelProof are the lower-level
	// primitives the Proof builder component (section 4, table) composes
	// into the handshake-message proof bundles (ConnHandshakeProof/
	// ChanHandshakeProof) Link threads into ConnOpenTry/Ack/Confirm and
	// ChannelOpenTry/Ack/Confirm. ibc-go/v11's connection handshake no
	// longer self-verifies the counterparty's client/consensus state, so
	// there is no ClientStateProof/ConsensusStateProof primitive here.

	PacketCommitmentProof(ctx context.Context, packet ibctypes.PacketWithMetadata, atHeight clienttypes.Height) (Proof, error)
	AckProof(ctx context.Context, ack ibctypes.AckWithMetadata, atHeight clienttypes.Height) (Proof, error)

	ConnectionProof(ctx context.Context, connectionID string, atHeight clienttypes.Height) (Proof, error)
	ChannelProof(ctx context.Context, portID, channelID string, atHeight clienttypes.Height) (Proof, error)
}

// ConnHandshakeProof bundles the pieces a ConnOpenTry/Ack/Confirm call
// needs from the counterparty chain: a connection-end proof and the height
// it was read at. ibc-go/v11's MsgConnectionOpenTry/MsgConnectionOpenAck no
// longer carry a client state or consensus-state proof.
type ConnHandshakeProof struct {
	ConnectionID    string
	ClientID        string
	ProofHeight     clienttypes.Height
	ProofConnection commitmenttypes.MerkleProof
}

// ChanHandshakeProof bundles the proof a ChannelOpenTry/Ack/Confirm call
// needs: a channel-end proof at a given height.
type ChanHandshakeProof struct {
	CounterpartyChannelID string
	ProofHeight           clienttypes.Height
	ProofChannel          commitmenttypes.MerkleProof
}
