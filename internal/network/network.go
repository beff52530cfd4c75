package network

import (
	"fmt"
	"sync"

	"github.com/prajalsharma/mezo-wallet/internal/logger"
	"github.com/spf13/viper"
)

// Type identifies one of the two fixed Mezo networks.
type Type string

const (
	Mainnet Type = "mainnet"
	Testnet Type = "testnet"
)

// Params holds the chain-addressing values derived from a network selection.
type Params struct {
	Name        Type
	ChainID     int64
	RPCEndpoint string
	ExplorerURL string
}

// ChainSwitcher is the wallet-layer hook invoked when the selection flips.
// Switching is best effort; a wallet that cannot switch chains is not an error.
type ChainSwitcher interface {
	SwitchChain(chainID int64) error
}

// SwitcherFunc adapts a function to the ChainSwitcher interface.
type SwitcherFunc func(chainID int64) error

func (f SwitcherFunc) SwitchChain(chainID int64) error { return f(chainID) }

// Context is the single source of truth for the active network selection.
// Every partition key and chain-client call is scoped through it.
type Context struct {
	mu       sync.RWMutex
	current  Type
	switcher ChainSwitcher
}

// New creates a network context starting on mainnet.
func New(switcher ChainSwitcher) *Context {
	return &Context{current: Mainnet, switcher: switcher}
}

func (c *Context) Current() Type {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

func (c *Context) ChainID() int64 {
	return ParamsFor(c.Current()).ChainID
}

func (c *Context) Params() Params {
	return ParamsFor(c.Current())
}

// Toggle flips between mainnet and testnet. The new selection takes effect for
// all readers before the wallet-side chain switch is attempted.
func (c *Context) Toggle() Type {
	c.mu.Lock()
	next := Testnet
	if c.current == Testnet {
		next = Mainnet
	}
	c.current = next
	c.mu.Unlock()

	if c.switcher != nil {
		if err := c.switcher.SwitchChain(ParamsFor(next).ChainID); err != nil {
			logger.GetLogger().Warn().
				Err(err).
				Str("network", string(next)).
				Msg("Wallet did not switch chain; selection flipped anyway")
		}
	}
	return next
}

// TxURL returns the block-explorer link for a transaction on the active network.
func (c *Context) TxURL(hash string) string {
	return fmt.Sprintf("%s/tx/%s", ParamsFor(c.Current()).ExplorerURL, hash)
}

// AddressURL returns the block-explorer link for an address on the active network.
func (c *Context) AddressURL(address string) string {
	return fmt.Sprintf("%s/address/%s", ParamsFor(c.Current()).ExplorerURL, address)
}

// ParamsFor resolves the configured chain parameters for a network.
func ParamsFor(t Type) Params {
	prefix := "mainnet"
	if t == Testnet {
		prefix = "testnet"
	}
	return Params{
		Name:        t,
		ChainID:     viper.GetInt64(prefix + "_chain_id"),
		RPCEndpoint: viper.GetString(prefix + "_rpc_endpoint"),
		ExplorerURL: viper.GetString(prefix + "_explorer_url"),
	}
}
