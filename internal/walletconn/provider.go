package walletconn

import (
	"context"
	"math/big"
)

// Provider is the wallet-connection layer: it owns the connected account and
// performs every operation that needs the user's signature. Signing itself is
// external to this system.
type Provider interface {
	AccountAddress() (string, bool)
	Connected() bool
	SignAndSend(ctx context.Context, from, to string, valueWei *big.Int, chainID int64) (string, error)
	SwitchChain(chainID int64) error
}
