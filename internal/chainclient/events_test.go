package chainclient

import (
	"testing"

	abcitypes "github.com/cometbft/cometbft/abci/types"
	"github.com/stretchr/testify/require"

	clienttypes "github.com/cosmos/ibc-go/v11/modules/core/02-client/types"
	connectiontypes "github.com/cosmos/ibc-go/v11/modules/core/03-connection/types"
	channeltypes "github.com/cosmos/ibc-go/v11/modules/core/04-channel/types"
)

func abciEvent(t string, attrs map[string]string) abcitypes.Event {
	e := abcitypes.Event{Type: t}
	for k, v := range attrs {
		e.Attributes = append(e.Attributes, abcitypes.EventAttribute{Key: k, Value: v})
	}
	return e
}

func TestParseConnectionIDFallsBackToTry(t *testing.T) {
	events := eventsFromABCI([]abcitypes.Event{
		abciEvent(connectiontypes.EventTypeConnectionOpenTry, map[string]string{connectiontypes.AttributeKeyConnectionID: "connection-1"}),
	})
	id, err := parseConnectionID(events)
	require.NoError(t, err)
	require.Equal(t, "connection-1", id)
}

func TestParseConnectionIDMissingErrors(t *testing.T) {
	_, err := parseConnectionID(nil)
	require.Error(t, err)
}

func TestParseChannelIDFromOpenInit(t *testing.T) {
	events := eventsFromABCI([]abcitypes.Event{
		abciEvent(channeltypes.EventTypeChannelOpenInit, map[string]string{channeltypes.AttributeKeyChannelID: "channel-0"}),
	})
	id, err := parseChannelID(events)
	require.NoError(t, err)
	require.Equal(t, "channel-0", id)
}

func sendPacketEvent(seq, srcPort, srcChan, dstPort, dstChan string) abcitypes.Event {
	return abciEvent(channeltypes.EventTypeSendPacket, map[string]string{
		channeltypes.AttributeKeySequence:         seq,
		channeltypes.AttributeKeySrcPort:          srcPort,
		channeltypes.AttributeKeySrcChannel:       srcChan,
		channeltypes.AttributeKeyDstPort:          dstPort,
		channeltypes.AttributeKeyDstChannel:       dstChan,
		channeltypes.AttributeKeyDataHex:          "deadbeef",
		channeltypes.AttributeKeyTimeoutHeight:    "0-100",
		channeltypes.AttributeKeyTimeoutTimestamp: "0",
	})
}

func TestParseSentPacketsExtractsEachOccurrence(t *testing.T) {
	events := eventsFromABCI([]abcitypes.Event{
		sendPacketEvent("1", "transfer", "channel-0", "transfer", "channel-1"),
		sendPacketEvent("2", "transfer", "channel-0", "transfer", "channel-1"),
	})

	packets, err := parseSentPackets(events, clienttypes.NewHeight(3, 500))
	require.NoError(t, err)
	require.Len(t, packets, 2)
	require.Equal(t, uint64(1), packets[0].Packet.Sequence)
	require.Equal(t, uint64(2), packets[1].Packet.Sequence)
	require.Equal(t, uint64(3), packets[0].Height.RevisionNumber)
	require.Equal(t, uint64(500), packets[0].Height.RevisionHeight)
}

func TestParseSentPacketsMissingAttributeErrors(t *testing.T) {
	events := eventsFromABCI([]abcitypes.Event{
		abciEvent(channeltypes.EventTypeSendPacket, map[string]string{channeltypes.AttributeKeySequence: "1"}),
	})
	_, err := parseSentPackets(events, clienttypes.NewHeight(0, 1))
	require.Error(t, err)
}

func TestParseWrittenAcksPairsAckWithPacket(t *testing.T) {
	writeAck := sendPacketEvent("7", "transfer", "channel-0", "transfer", "channel-1")
	writeAck.Type = channeltypes.EventTypeWriteAck
	writeAck.Attributes = append(writeAck.Attributes, abcitypes.EventAttribute{
		Key:   channeltypes.AttributeKeyAckHex,
		Value: "01",
	})

	events := eventsFromABCI([]abcitypes.Event{writeAck})
	acks, err := parseWrittenAcks(events, clienttypes.NewHeight(3, 42))
	require.NoError(t, err)
	require.Len(t, acks, 1)
	require.Equal(t, uint64(7), acks[0].Packet.Sequence)
	require.Equal(t, []byte{0x01}, acks[0].Acknowledgement)
	require.Equal(t, uint64(3), acks[0].Height.RevisionNumber)
	require.Equal(t, uint64(42), acks[0].Height.RevisionHeight)
}
