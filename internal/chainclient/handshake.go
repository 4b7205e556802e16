package chainclient

import (
	"context"
	"time"

	errorsmod "cosmossdk.io/errors"

	sdk "github.com/cosmos/cosmos-sdk/types"

	clienttypes "github.com/cosmos/ibc-go/v11/modules/core/02-client/types"
	connectiontypes "github.com/cosmos/ibc-go/v11/modules/core/03-connection/types"
	channeltypes "github.com/cosmos/ibc-go/v11/modules/core/04-channel/types"
	commitmenttypes "github.com/cosmos/ibc-go/v11/modules/core/23-commitment/types"
	ibctm "github.com/cosmos/ibc-go/v11/modules/light-clients/07-tendermint"

	"go.uber.org/zap"

	"github.com/chengwenxi/ibc-relayer/internal/errs"
	"github.com/chengwenxi/ibc-relayer/internal/ibctypes"
)

func (c *TendermintClient) signer() string { return c.fromAddr.String() }

// CreateTendermintClient submits a MsgCreateClient tracking remote on this
// chain, using the unbonding/trusting periods the caller passes in.
func (c *TendermintClient) CreateTendermintClient(ctx context.Context, remote Header, unbondingPeriod, trustingPeriod time.Duration) (string, error) {
	if remote.Signed == nil {
		return "", errorsmod.Wrap(errs.ErrConsensus, "remote header carries no signed header")
	}

	clientState := ibctm.NewClientState(
		remote.Signed.SignedHeader.Header.ChainID,
		ibctm.Fraction{Numerator: 1, Denominator: 3},
		trustingPeriod,
		unbondingPeriod,
		maxClockDrift,
		remote.Height,
		defaultProofSpecs(),
		[]string{"upgrade", "upgradedIBCState"},
	)
	consensusState := ibctm.NewConsensusState(
		remote.Time,
		commitmenttypes.NewMerkleRoot(remote.AppHash),
		remote.NextValidatorsHash,
	)

	clientStateAny, err := clienttypes.PackClientState(clientState)
	if err != nil {
		return "", errorsmod.Wrapf(errs.ErrChain, "pack client state: %s", err)
	}
	consensusStateAny, err := clienttypes.PackConsensusState(consensusState)
	if err != nil {
		return "", errorsmod.Wrapf(errs.ErrChain, "pack consensus state: %s", err)
	}

	msg := &clienttypes.MsgCreateClient{
		ClientState:    clientStateAny,
		ConsensusState: consensusStateAny,
		Signer:         c.signer(),
	}

	resp, err := c.broadcast(ctx, msg)
	if err != nil {
		return "", errorsmod.Wrap(errs.ErrHandshake, err.Error())
	}

	clientID, err := parseClientID(eventsFromTxResponse(resp))
	if err != nil {
		return "", errorsmod.Wrap(errs.ErrHandshake, err.Error())
	}
	c.logger.Info("created tendermint client", zap.String("client_id", clientID), zap.String("remote_chain_id", remote.Signed.SignedHeader.Header.ChainID))
	return clientID, nil
}

// UpdateClient submits a MsgUpdateClient carrying header, the concrete
// transaction behind spec section 4.5's three update operations.
func (c *TendermintClient) UpdateClient(ctx context.Context, clientID string, header Header) error {
	if header.Signed == nil {
		return errorsmod.Wrap(errs.ErrConsensus, "header carries no signed header")
	}

	headerAny, err := clienttypes.PackClientMessage(header.Signed)
	if err != nil {
		return errorsmod.Wrapf(errs.ErrChain, "pack client message: %s", err)
	}

	msg := &clienttypes.MsgUpdateClient{
		ClientId:      clientID,
		ClientMessage: headerAny,
		Signer:        c.signer(),
	}

	if _, err := c.broadcast(ctx, msg); err != nil {
		return errorsmod.Wrap(errs.ErrHandshake, err.Error())
	}
	c.logger.Debug("updated client", zap.String("client_id", clientID), zap.Uint64("height", header.Height.RevisionHeight))
	return nil
}

func (c *TendermintClient) ConnOpenInit(ctx context.Context, clientID, counterpartyClientID, counterpartyPrefix string) (string, error) {
	msg := connectiontypes.NewMsgConnectionOpenInit(
		clientID,
		counterpartyClientID,
		commitmenttypes.NewMerklePrefix([]byte(counterpartyPrefix)),
		connectiontypes.DefaultIBCVersion,
		0,
		c.signer(),
	)
	resp, err := c.broadcast(ctx, msg)
	if err != nil {
		return "", errorsmod.Wrap(errs.ErrHandshake, err.Error())
	}
	return parseConnectionID(eventsFromTxResponse(resp))
}

func (c *TendermintClient) ConnOpenTry(ctx context.Context, clientID string, cp ConnHandshakeProof) (string, error) {
	msg := &connectiontypes.MsgConnectionOpenTry{
		ClientId: clientID,
		Counterparty: connectiontypes.Counterparty{
			ClientId:     cp.ClientID,
			ConnectionId: cp.ConnectionID,
			Prefix:       commitmenttypes.NewMerklePrefix([]byte("ibc")),
		},
		DelayPeriod:          0,
		CounterpartyVersions: []*connectiontypes.Version{connectiontypes.DefaultIBCVersion},
		ProofHeight:          cp.ProofHeight,
		ProofInit:            mustMarshalProof(cp.ProofConnection),
		Signer:               c.signer(),
	}
	resp, err := c.broadcast(ctx, msg)
	if err != nil {
		return "", errorsmod.Wrap(errs.ErrHandshake, err.Error())
	}
	return parseConnectionID(eventsFromTxResponse(resp))
}

func (c *TendermintClient) ConnOpenAck(ctx context.Context, connectionID string, cp ConnHandshakeProof) error {
	msg := &connectiontypes.MsgConnectionOpenAck{
		ConnectionId:             connectionID,
		CounterpartyConnectionId: cp.ConnectionID,
		Version:                  connectiontypes.DefaultIBCVersion,
		ProofHeight:              cp.ProofHeight,
		ProofTry:                 mustMarshalProof(cp.ProofConnection),
		Signer:                   c.signer(),
	}
	_, err := c.broadcast(ctx, msg)
	if err != nil {
		return errorsmod.Wrap(errs.ErrHandshake, err.Error())
	}
	return nil
}

func (c *TendermintClient) ConnOpenConfirm(ctx context.Context, connectionID string, cp ConnHandshakeProof) error {
	msg := &connectiontypes.MsgConnectionOpenConfirm{
		ConnectionId: connectionID,
		ProofAck:     mustMarshalProof(cp.ProofConnection),
		ProofHeight:  cp.ProofHeight,
		Signer:       c.signer(),
	}
	_, err := c.broadcast(ctx, msg)
	if err != nil {
		return errorsmod.Wrap(errs.ErrHandshake, err.Error())
	}
	return nil
}

func (c *TendermintClient) ChannelOpenInit(ctx context.Context, portID, connectionID, counterpartyPortID, version string, ordering channeltypes.Order) (string, error) {
	msg := channeltypes.NewMsgChannelOpenInit(
		portID,
		version,
		ordering,
		[]string{connectionID},
		counterpartyPortID,
		c.signer(),
	)
	resp, err := c.broadcast(ctx, msg)
	if err != nil {
		return "", errorsmod.Wrap(errs.ErrHandshake, err.Error())
	}
	return parseChannelID(eventsFromTxResponse(resp))
}

func (c *TendermintClient) ChannelOpenTry(ctx context.Context, portID, connectionID, counterpartyPortID, counterpartyChannelID, version string, ordering channeltypes.Order, proof ChanHandshakeProof) (string, error) {
	msg := channeltypes.NewMsgChannelOpenTry(
		portID,
		version,
		ordering,
		[]string{connectionID},
		counterpartyPortID,
		counterpartyChannelID,
		version,
		mustMarshalProof(proof.ProofChannel),
		proof.ProofHeight,
		c.signer(),
	)
	resp, err := c.broadcast(ctx, msg)
	if err != nil {
		return "", errorsmod.Wrap(errs.ErrHandshake, err.Error())
	}
	return parseChannelID(eventsFromTxResponse(resp))
}

func (c *TendermintClient) ChannelOpenAck(ctx context.Context, portID, channelID, counterpartyChannelID, counterpartyVersion string, proof ChanHandshakeProof) error {
	msg := channeltypes.NewMsgChannelOpenAck(
		portID,
		channelID,
		counterpartyChannelID,
		counterpartyVersion,
		mustMarshalProof(proof.ProofChannel),
		proof.ProofHeight,
		c.signer(),
	)
	_, err := c.broadcast(ctx, msg)
	if err != nil {
		return errorsmod.Wrap(errs.ErrHandshake, err.Error())
	}
	return nil
}

func (c *TendermintClient) ChannelOpenConfirm(ctx context.Context, portID, channelID string, proof ChanHandshakeProof) error {
	msg := channeltypes.NewMsgChannelOpenConfirm(
		portID,
		channelID,
		mustMarshalProof(proof.ProofChannel),
		proof.ProofHeight,
		c.signer(),
	)
	_, err := c.broadcast(ctx, msg)
	if err != nil {
		return errorsmod.Wrap(errs.ErrHandshake, err.Error())
	}
	return nil
}

func (c *TendermintClient) ReceivePackets(ctx context.Context, packets []ibctypes.PacketWithMetadata, proofs []Proof, proofHeight clienttypes.Height) (TxResult, error) {
	if len(packets) != len(proofs) {
		return TxResult{}, errorsmod.Wrap(errs.ErrChain, "packets/proofs length mismatch")
	}
	if len(packets) == 0 {
		return TxResult{}, nil
	}

	msgs := make([]sdk.Msg, len(packets))
	for i, p := range packets {
		msgs[i] = channeltypes.NewMsgRecvPacket(p.Packet, mustMarshalProof(proofs[i].Proof), proofHeight, c.signer())
	}

	resp, err := c.broadcast(ctx, msgs...)
	if err != nil {
		return TxResult{}, errorsmod.Wrap(errs.ErrRelay, err.Error())
	}

	inclusionHeight := clienttypes.NewHeight(clienttypes.ParseChainID(c.chainID), uint64(resp.Height))
	newAcks, err := parseWrittenAcks(eventsFromTxResponse(resp), inclusionHeight)
	if err != nil {
		return TxResult{}, errorsmod.Wrap(errs.ErrRelay, err.Error())
	}

	return TxResult{InclusionHeight: inclusionHeight, NewAcks: newAcks}, nil
}

func (c *TendermintClient) AcknowledgePackets(ctx context.Context, acks []ibctypes.AckWithMetadata, proofs []Proof, proofHeight clienttypes.Height) (TxResult, error) {
	if len(acks) != len(proofs) {
		return TxResult{}, errorsmod.Wrap(errs.ErrChain, "acks/proofs length mismatch")
	}
	if len(acks) == 0 {
		return TxResult{}, nil
	}

	msgs := make([]sdk.Msg, len(acks))
	for i, a := range acks {
		msgs[i] = channeltypes.NewMsgAcknowledgement(a.Packet, a.Acknowledgement, mustMarshalProof(proofs[i].Proof), proofHeight, c.signer())
	}

	resp, err := c.broadcast(ctx, msgs...)
	if err != nil {
		return TxResult{}, errorsmod.Wrap(errs.ErrRelay, err.Error())
	}

	return TxResult{InclusionHeight: clienttypes.NewHeight(clienttypes.ParseChainID(c.chainID), uint64(resp.Height))}, nil
}

func mustMarshalProof(p commitmenttypes.MerkleProof) []byte {
	bz, err := p.Marshal()
	if err != nil {
		panic(err)
	}
	return bz
}

const maxClockDrift = 10 * time.Second
