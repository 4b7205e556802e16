package chainclient

import (
	"encoding/hex"
	"fmt"
	"strconv"

	abcitypes "github.com/cometbft/cometbft/abci/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	clienttypes "github.com/cosmos/ibc-go/v11/modules/core/02-client/types"
	connectiontypes "github.com/cosmos/ibc-go/v11/modules/core/03-connection/types"
	channeltypes "github.com/cosmos/ibc-go/v11/modules/core/04-channel/types"

	"github.com/chengwenxi/ibc-relayer/internal/ibctypes"
)

// event is a chain-agnostic (type, attributes) pair, used so the parse*
// helpers below work uniformly over both a tx-search result's ABCI events
// and a broadcast response's ABCIMessageLogs, which the cosmos-sdk
// represents with two different wire types.
type event struct {
	Type       string
	Attributes []attribute
}

type attribute struct {
	Key   string
	Value string
}

// eventsFromABCI converts CometBFT's tx-search event list, as returned by
// TxSearch, into the local event shape.
func eventsFromABCI(in []abcitypes.Event) []event {
	out := make([]event, 0, len(in))
	for _, e := range in {
		attrs := make([]attribute, 0, len(e.Attributes))
		for _, a := range e.Attributes {
			attrs = append(attrs, attribute{Key: a.Key, Value: a.Value})
		}
		out = append(out, event{Type: e.Type, Attributes: attrs})
	}
	return out
}

// eventsFromTxResponse flattens a broadcast response's per-message
// ABCIMessageLogs into the local event shape, mirroring the teacher's
// cosmos.GetEventValue usage of res.Logs[i].Events.
func eventsFromTxResponse(resp *sdk.TxResponse) []event {
	var out []event
	for _, log := range resp.Logs {
		for _, e := range log.Events {
			attrs := make([]attribute, 0, len(e.Attributes))
			for _, a := range e.Attributes {
				attrs = append(attrs, attribute{Key: a.Key, Value: a.Value})
			}
			out = append(out, event{Type: e.Type, Attributes: attrs})
		}
	}
	return out
}

func eventAttr(events []event, eventType, key string) (string, bool) {
	for _, ev := range events {
		if ev.Type != eventType {
			continue
		}
		for _, attr := range ev.Attributes {
			if attr.Key == key {
				return attr.Value, true
			}
		}
	}
	return "", false
}

func eventAttrs(events []event, eventType, key string) []string {
	var out []string
	for _, ev := range events {
		if ev.Type != eventType {
			continue
		}
		for _, attr := range ev.Attributes {
			if attr.Key == key {
				out = append(out, attr.Value)
			}
		}
	}
	return out
}

func parseConnectionID(events []event) (string, error) {
	if id, ok := eventAttr(events, connectiontypes.EventTypeConnectionOpenInit, connectiontypes.AttributeKeyConnectionID); ok {
		return id, nil
	}
	if id, ok := eventAttr(events, connectiontypes.EventTypeConnectionOpenTry, connectiontypes.AttributeKeyConnectionID); ok {
		return id, nil
	}
	return "", fmt.Errorf("connection id not found in events")
}

func parseChannelID(events []event) (string, error) {
	if id, ok := eventAttr(events, channeltypes.EventTypeChannelOpenInit, channeltypes.AttributeKeyChannelID); ok {
		return id, nil
	}
	if id, ok := eventAttr(events, channeltypes.EventTypeChannelOpenTry, channeltypes.AttributeKeyChannelID); ok {
		return id, nil
	}
	return "", fmt.Errorf("channel id not found in events")
}

func parseClientID(events []event) (string, error) {
	id, ok := eventAttr(events, clienttypes.EventTypeCreateClient, clienttypes.AttributeKeyClientID)
	if !ok {
		return "", fmt.Errorf("client id not found in events")
	}
	return id, nil
}

// parseSentPackets extracts every send_packet event at the given source
// height into a PacketWithMetadata, mirroring how the relay loop's
// "querySentPackets" sees events (spec section 4.2). height carries the
// revision of the chain the events were read from, matching every other
// height in the system (tendermint.go's buildTendermintHeader) so
// downstream client-update comparisons compare revisions correctly.
func parseSentPackets(events []event, height clienttypes.Height) ([]ibctypes.PacketWithMetadata, error) {
	var out []ibctypes.PacketWithMetadata
	n := len(eventAttrs(events, channeltypes.EventTypeSendPacket, channeltypes.AttributeKeySequence))
	for i := 0; i < n; i++ {
		p, err := packetFromIndexedEvent(events, channeltypes.EventTypeSendPacket, i)
		if err != nil {
			return nil, err
		}
		out = append(out, ibctypes.PacketWithMetadata{
			Packet: p,
			Height: height,
		})
	}
	return out, nil
}

// parseWrittenAcks extracts every write_acknowledgement event at the given
// source height into an AckWithMetadata. height carries the chain's
// revision, per parseSentPackets.
func parseWrittenAcks(events []event, height clienttypes.Height) ([]ibctypes.AckWithMetadata, error) {
	var out []ibctypes.AckWithMetadata
	n := len(eventAttrs(events, channeltypes.EventTypeWriteAck, channeltypes.AttributeKeySequence))
	acks := eventAttrs(events, channeltypes.EventTypeWriteAck, channeltypes.AttributeKeyAckHex)
	for i := 0; i < n; i++ {
		p, err := packetFromIndexedEvent(events, channeltypes.EventTypeWriteAck, i)
		if err != nil {
			return nil, err
		}
		if i >= len(acks) {
			return nil, fmt.Errorf("write_acknowledgement event %d missing ack data", i)
		}
		ackBz, err := hex.DecodeString(acks[i])
		if err != nil {
			return nil, fmt.Errorf("decode packet_ack_hex %d: %w", i, err)
		}
		out = append(out, ibctypes.AckWithMetadata{
			Acknowledgement: ackBz,
			Packet:          p,
			Height:          height,
		})
	}
	return out, nil
}

// packetFromIndexedEvent reassembles a channeltypes.Packet from the i-th
// occurrence of each packet attribute within a flat event list. CometBFT
// emits one event instance per packet, each carrying its own attribute
// set, so attributes of the same key line up positionally across events of
// the same type.
func packetFromIndexedEvent(events []event, eventType string, i int) (channeltypes.Packet, error) {
	get := func(key string) (string, error) {
		vals := eventAttrs(events, eventType, key)
		if i >= len(vals) {
			return "", fmt.Errorf("%s event %d missing attribute %s", eventType, i, key)
		}
		return vals[i], nil
	}

	seqStr, err := get(channeltypes.AttributeKeySequence)
	if err != nil {
		return channeltypes.Packet{}, err
	}
	seq, err := strconv.ParseUint(seqStr, 10, 64)
	if err != nil {
		return channeltypes.Packet{}, fmt.Errorf("parse packet sequence: %w", err)
	}

	srcPort, err := get(channeltypes.AttributeKeySrcPort)
	if err != nil {
		return channeltypes.Packet{}, err
	}
	srcChan, err := get(channeltypes.AttributeKeySrcChannel)
	if err != nil {
		return channeltypes.Packet{}, err
	}
	dstPort, err := get(channeltypes.AttributeKeyDstPort)
	if err != nil {
		return channeltypes.Packet{}, err
	}
	dstChan, err := get(channeltypes.AttributeKeyDstChannel)
	if err != nil {
		return channeltypes.Packet{}, err
	}
	dataHex, err := get(channeltypes.AttributeKeyDataHex)
	if err != nil {
		return channeltypes.Packet{}, err
	}
	data, err := hex.DecodeString(dataHex)
	if err != nil {
		return channeltypes.Packet{}, fmt.Errorf("decode packet_data_hex: %w", err)
	}
	timeoutHeightStr, err := get(channeltypes.AttributeKeyTimeoutHeight)
	if err != nil {
		return channeltypes.Packet{}, err
	}
	timeoutTsStr, err := get(channeltypes.AttributeKeyTimeoutTimestamp)
	if err != nil {
		return channeltypes.Packet{}, err
	}

	timeoutHeight, err := clienttypes.ParseHeight(timeoutHeightStr)
	if err != nil {
		return channeltypes.Packet{}, fmt.Errorf("parse timeout height: %w", err)
	}
	timeoutTs, err := strconv.ParseUint(timeoutTsStr, 10, 64)
	if err != nil {
		return channeltypes.Packet{}, fmt.Errorf("parse timeout timestamp: %w", err)
	}

	return channeltypes.Packet{
		Sequence:           seq,
		SourcePort:         srcPort,
		SourceChannel:      srcChan,
		DestinationPort:    dstPort,
		DestinationChannel: dstChan,
		Data:               data,
		TimeoutHeight:      timeoutHeight,
		TimeoutTimestamp:   timeoutTs,
	}, nil
}
