// Package errs defines the error kinds the relayer core can return, as
// described in spec section 7. Each kind is a registered error so callers
// can distinguish them with errors.Is regardless of the wrapped detail.
package errs

import (
	errorsmod "cosmossdk.io/errors"
)

const codespace = "relayer"

var (
	// ErrConfig signals missing or contradictory inputs, e.g. one of
	// srcConnection/destConnection set but not both.
	ErrConfig = errorsmod.Register(codespace, 2, "config error")

	// ErrChain signals an RPC transport or decode failure.
	ErrChain = errorsmod.Register(codespace, 3, "chain error")

	// ErrConsensus signals that on-chain state contradicts an invariant
	// the relayer depends on (hash mismatch, chain-id mismatch, a
	// connection not in state OPEN, ...).
	ErrConsensus = errorsmod.Register(codespace, 4, "consensus error")

	// ErrHandshake signals that a handshake transaction was rejected by
	// the chain it was submitted to.
	ErrHandshake = errorsmod.Register(codespace, 5, "handshake error")

	// ErrRelay signals that a receive or acknowledge transaction failed.
	// The underlying chain error's message is carried in the description;
	// the underlying error itself is not in the wrap chain, so errors.Is
	// matches ErrRelay but not the original error kind.
	ErrRelay = errorsmod.Register(codespace, 6, "relay error")

	// ErrCancelled signals cooperative cancellation at a suspension
	// point (context cancelled mid-iteration).
	ErrCancelled = errorsmod.Register(codespace, 7, "cancelled")

	// ErrInsufficientFunds signals a broadcast rejected for fees.
	ErrInsufficientFunds = errorsmod.Register(codespace, 8, "insufficient funds")
)
