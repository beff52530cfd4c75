package network

import (
	"errors"
	"testing"

	"github.com/spf13/viper"
)

func setTestParams() {
	viper.Set("mainnet_chain_id", 31612)
	viper.Set("mainnet_rpc_endpoint", "https://rpc.mezo.org")
	viper.Set("mainnet_explorer_url", "https://explorer.mezo.org")
	viper.Set("testnet_chain_id", 31611)
	viper.Set("testnet_rpc_endpoint", "https://rpc.test.mezo.org")
	viper.Set("testnet_explorer_url", "https://explorer.test.mezo.org")
}

func TestStartsOnMainnet(t *testing.T) {
	setTestParams()
	ctx := New(nil)

	if ctx.Current() != Mainnet {
		t.Fatalf("current=%q, want mainnet", ctx.Current())
	}
	if ctx.ChainID() != 31612 {
		t.Fatalf("chainID=%d, want 31612", ctx.ChainID())
	}
}

func TestToggleFlips(t *testing.T) {
	setTestParams()

	var switched []int64
	ctx := New(SwitcherFunc(func(chainID int64) error {
		switched = append(switched, chainID)
		return nil
	}))

	if next := ctx.Toggle(); next != Testnet {
		t.Fatalf("first toggle=%q, want testnet", next)
	}
	if ctx.ChainID() != 31611 {
		t.Fatalf("chainID=%d, want 31611", ctx.ChainID())
	}

	if next := ctx.Toggle(); next != Mainnet {
		t.Fatalf("second toggle=%q, want mainnet", next)
	}

	if len(switched) != 2 || switched[0] != 31611 || switched[1] != 31612 {
		t.Fatalf("switcher calls=%v", switched)
	}
}

func TestToggleSurvivesSwitcherFailure(t *testing.T) {
	setTestParams()

	ctx := New(SwitcherFunc(func(chainID int64) error {
		return errors.New("wallet does not support switching")
	}))

	if next := ctx.Toggle(); next != Testnet {
		t.Fatalf("toggle=%q, want testnet despite switcher failure", next)
	}
	if ctx.Current() != Testnet {
		t.Fatalf("current=%q, want testnet", ctx.Current())
	}
}

func TestExplorerURLs(t *testing.T) {
	setTestParams()
	ctx := New(nil)

	hash := "0xdeadbeef"
	addr := "0x1111111111111111111111111111111111111111"

	if got := ctx.TxURL(hash); got != "https://explorer.mezo.org/tx/"+hash {
		t.Fatalf("mainnet tx url=%q", got)
	}
	if got := ctx.AddressURL(addr); got != "https://explorer.mezo.org/address/"+addr {
		t.Fatalf("mainnet address url=%q", got)
	}

	ctx.Toggle()

	if got := ctx.TxURL(hash); got != "https://explorer.test.mezo.org/tx/"+hash {
		t.Fatalf("testnet tx url=%q", got)
	}
	if got := ctx.AddressURL(addr); got != "https://explorer.test.mezo.org/address/"+addr {
		t.Fatalf("testnet address url=%q", got)
	}
}

func TestParamsFor(t *testing.T) {
	setTestParams()

	mainnet := ParamsFor(Mainnet)
	if mainnet.ChainID != 31612 || mainnet.RPCEndpoint != "https://rpc.mezo.org" {
		t.Fatalf("mainnet params %+v", mainnet)
	}

	testnet := ParamsFor(Testnet)
	if testnet.ChainID != 31611 || testnet.RPCEndpoint != "https://rpc.test.mezo.org" {
		t.Fatalf("testnet params %+v", testnet)
	}
}
