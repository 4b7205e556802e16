// Package endpoint implements the Endpoint component of spec section 4.2:
// a (signing client, light-client id, connection id) triple that scans for
// outbound packets and written acks from its side. An Endpoint owns no
// on-chain state; it is a view over its chain client.
package endpoint

import (
	"context"

	clienttypes "github.com/cosmos/ibc-go/v11/modules/core/02-client/types"

	"github.com/chengwenxi/ibc-relayer/internal/chainclient"
	"github.com/chengwenxi/ibc-relayer/internal/ibctypes"
)

// Endpoint is (signing client, client-id, connection-id), per spec
// section 3.
type Endpoint struct {
	Chain        chainclient.ChainClient
	ClientID     string
	ConnectionID string
}

// New constructs an Endpoint. It performs no I/O; it is a pure view.
func New(chain chainclient.ChainClient, clientID, connectionID string) Endpoint {
	return Endpoint{Chain: chain, ClientID: clientID, ConnectionID: connectionID}
}

// QueryOpts bounds an endpoint scan to a minimum source height, per spec
// section 4.2.
type QueryOpts struct {
	MinHeight *uint64
}

// QuerySentPackets derives packets sent from this endpoint's chain,
// delegating to the chain client and tagging results with their source
// height (which the chain client already does on SentPackets — this
// method exists so Link talks to Endpoint rather than the chain client
// directly, matching the component boundary of spec section 4.2).
func (e Endpoint) QuerySentPackets(ctx context.Context, opts QueryOpts) ([]ibctypes.PacketWithMetadata, error) {
	return e.Chain.SentPackets(ctx, chainclient.QueryOpts{MinHeight: opts.MinHeight})
}

// QueryWrittenAcks derives acks written on this endpoint's chain.
func (e Endpoint) QueryWrittenAcks(ctx context.Context, opts QueryOpts) ([]ibctypes.AckWithMetadata, error) {
	return e.Chain.WrittenAcks(ctx, chainclient.QueryOpts{MinHeight: opts.MinHeight})
}

// ChainID reports the identifier of this endpoint's chain.
func (e Endpoint) ChainID() string { return e.Chain.ChainID() }

// LatestClientHeight returns the height this endpoint's counterparty
// client (ClientID, which lives on this endpoint's chain and tracks the
// *other* chain) currently knows.
func (e Endpoint) LatestClientHeight(ctx context.Context) (clienttypes.Height, error) {
	cs, err := e.Chain.ClientState(ctx, e.ClientID)
	if err != nil {
		return clienttypes.Height{}, err
	}
	return cs.LatestHeight, nil
}
