package link

import (
	"fmt"

	clienttypes "github.com/cosmos/ibc-go/v11/modules/core/02-client/types"

	"go.uber.org/zap"

	"github.com/chengwenxi/ibc-relayer/internal/side"
)

// The types in this file are spec section 6's "reported outputs": strings
// emitted to the logger and to stdout, explicitly not a stable interface —
// callers outside this module must not parse them.

// ChannelReport is emitted once a createChannel call completes all four
// handshake steps.
type ChannelReport struct {
	ConnectionA, ConnectionB string
	Src, Dest                PortChannelID
}

func (r ChannelReport) String() string {
	return fmt.Sprintf("channel created: connections (%s, %s) src=%s/%s dest=%s/%s",
		r.ConnectionA, r.ConnectionB, r.Src.PortID, r.Src.ChannelID, r.Dest.PortID, r.Dest.ChannelID)
}

// ClientUpdateReport is emitted after any of the three client-update
// operations successfully submits a header.
type ClientUpdateReport struct {
	Source    side.Side
	ClientID  string
	NewHeight clienttypes.Height
}

func (r ClientUpdateReport) String() string {
	return fmt.Sprintf("client %s (tracking %s) updated to height %s", r.ClientID, r.Source, r.NewHeight)
}

// RelayReport is emitted after a receivePackets or acknowledgePackets
// broadcast.
type RelayReport struct {
	Source          side.Side
	Kind            string // "packets" or "acks"
	Count           int
	InclusionHeight clienttypes.Height
}

func (r RelayReport) String() string {
	return fmt.Sprintf("relayed %d %s from %s, included at height %s", r.Count, r.Kind, r.Source, r.InclusionHeight)
}

// report is the common shape ChannelReport/ClientUpdateReport/RelayReport
// satisfy: something that can describe itself for the logger and stdout.
type report interface{ String() string }

// emit logs report at info level and writes it to stdout, per spec section
// 6's "to logger and stdout".
func emit(logger *zap.Logger, r report) {
	logger.Info(r.String())
	fmt.Println(r.String())
}
