// Package ibctypes holds the value types spec section 3 describes, built
// directly on ibc-go's wire types rather than re-inventing them: a packet
// is a channeltypes.Packet, a connection is a connectiontypes.ConnectionEnd,
// and so on. This package only adds what the wire types don't carry: the
// metadata tags (source height) and the grouping identifiers design note 9
// calls for ("the port:channel delimiter is an internal grouping key...
// implementers are free to use tuple keys directly").
package ibctypes

import (
	clienttypes "github.com/cosmos/ibc-go/v11/modules/core/02-client/types"
	channeltypes "github.com/cosmos/ibc-go/v11/modules/core/04-channel/types"
)

// PacketWithMetadata is a packet plus the source-chain height at which it
// was committed (spec section 3).
type PacketWithMetadata struct {
	Packet channeltypes.Packet
	Height clienttypes.Height
}

// AckWithMetadata is an acknowledgement payload plus its original packet
// and the source-chain height of the ack-write event (spec section 3).
type AckWithMetadata struct {
	Acknowledgement []byte
	Packet          channeltypes.Packet
	Height          clienttypes.Height
}

// PortChannel is the tuple grouping key used to batch packets/acks by the
// chain+channel a query must be addressed to. It replaces any
// "port:channel" string key with a comparable struct, per design note 9.
type PortChannel struct {
	Port    string
	Channel string
}

// RecvKey returns the PortChannel a receive-side unreceived-sequence query
// must be grouped and addressed by: the packet's destination.
func RecvKey(p channeltypes.Packet) PortChannel {
	return PortChannel{Port: p.DestinationPort, Channel: p.DestinationChannel}
}

// AckKey returns the PortChannel an unreceived-ack query must be grouped
// and addressed by: the packet's source, because the ack query is
// addressed to the chain that originally sent the packet.
func AckKey(p channeltypes.Packet) PortChannel {
	return PortChannel{Port: p.SourcePort, Channel: p.SourceChannel}
}

// CommitHeight returns the source-chain height at which a packet or ack was
// committed, as a plain uint64 for cursor bookkeeping.
func (p PacketWithMetadata) CommitHeight() uint64 { return p.Height.RevisionHeight }

// CommitHeight returns the source-chain height at which the ack was
// written, as a plain uint64 for cursor bookkeeping.
func (a AckWithMetadata) CommitHeight() uint64 { return a.Height.RevisionHeight }
