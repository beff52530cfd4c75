package assets

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/prajalsharma/mezo-wallet/internal/chain"
	"github.com/spf13/viper"
)

type fakeClient struct {
	native *big.Int
	tokens map[string]*big.Int
}

func (f *fakeClient) NativeBalance(ctx context.Context, account string) (*big.Int, error) {
	return f.native, nil
}

func (f *fakeClient) TokenBalance(ctx context.Context, token, account string) (*big.Int, error) {
	if raw, ok := f.tokens[token]; ok {
		return raw, nil
	}
	return nil, errors.New("balance read failed")
}

func (f *fakeClient) EstimateFee(ctx context.Context, from, to string, rawAmount *big.Int) (*chain.FeeEstimate, error) {
	return nil, nil
}

func (f *fakeClient) SubmitTransfer(ctx context.Context, to string, rawAmount *big.Int, chainID int64) (string, error) {
	return "", errors.New("unused")
}

func (f *fakeClient) WaitForReceipt(ctx context.Context, hash string, chainID int64) (*chain.Receipt, error) {
	return nil, errors.New("unused")
}

func (f *fakeClient) SwitchChain(chainID int64) error { return nil }

type fakeProvider struct {
	account string
}

func (p *fakeProvider) AccountAddress() (string, bool) { return p.account, p.account != "" }
func (p *fakeProvider) Connected() bool                { return p.account != "" }
func (p *fakeProvider) SignAndSend(ctx context.Context, from, to string, valueWei *big.Int, chainID int64) (string, error) {
	return "", errors.New("unused")
}
func (p *fakeProvider) SwitchChain(chainID int64) error { return nil }

const (
	musdAddr  = "0xdd468a1dba550888827e7cbd68fb67acaae9e8e5"
	musdcAddr = "0xf55ce1b8a5a40d6a79d456a1f75a0f4ca03c8ad1"
)

func setTestRegistry() {
	viper.Set("native_symbol", "BTC")
	viper.Set("native_name", "Bitcoin")
	viper.Set("native_decimals", 18)
	viper.Set("native_icon", "btc.svg")
	viper.Set("tokens", []map[string]interface{}{
		{"symbol": "MUSD", "name": "Mezo USD", "address": musdAddr, "decimals": 18, "icon": "musd.svg"},
		{"symbol": "mUSDC", "name": "Mezo USDC", "address": musdcAddr, "decimals": 6, "icon": "usdc.svg"},
	})
}

func TestListNoWallet(t *testing.T) {
	setTestRegistry()
	svc := NewService(&fakeClient{}, &fakeProvider{})

	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list != nil {
		t.Fatalf("expected nil listing without a wallet, got %+v", list)
	}
}

func TestListNativeAlwaysIncluded(t *testing.T) {
	setTestRegistry()
	client := &fakeClient{
		native: big.NewInt(0),
		tokens: map[string]*big.Int{musdAddr: big.NewInt(0), musdcAddr: big.NewInt(0)},
	}
	svc := NewService(client, &fakeProvider{account: "0xabc"})

	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected only the native asset, got %d entries", len(list))
	}
	if list[0].Symbol != "BTC" || list[0].Balance != "0.00000000" {
		t.Fatalf("native asset %+v", list[0])
	}
}

func TestListFormatsPerSymbol(t *testing.T) {
	setTestRegistry()

	half, _ := new(big.Int).SetString("500000000000000000", 10) // 0.5 at 18 decimals
	musd, _ := new(big.Int).SetString("12345678900000000000", 10)
	client := &fakeClient{
		native: half,
		tokens: map[string]*big.Int{
			musdAddr:  musd,                  // 12.3456789 at 18 decimals
			musdcAddr: big.NewInt(25_000000), // 25 at 6 decimals
		},
	}
	svc := NewService(client, &fakeProvider{account: "0xabc"})

	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 assets, got %d", len(list))
	}

	btc, _ := Find(list, "BTC")
	if btc.Balance != "0.50000000" {
		t.Fatalf("BTC balance=%q, want 8 places", btc.Balance)
	}
	stable, _ := Find(list, "MUSD")
	if stable.Balance != "12.34" {
		t.Fatalf("MUSD balance=%q, want 2 places truncated", stable.Balance)
	}
	usdc, _ := Find(list, "mUSDC")
	if usdc.Balance != "25.00" {
		t.Fatalf("mUSDC balance=%q", usdc.Balance)
	}
}

func TestListSkipsFailedTokenReads(t *testing.T) {
	setTestRegistry()
	client := &fakeClient{
		native: big.NewInt(1),
		tokens: map[string]*big.Int{musdAddr: big.NewInt(1_000000_000000_000000)},
		// musdcAddr missing: its read fails and the token is skipped.
	}
	svc := NewService(client, &fakeProvider{account: "0xabc"})

	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected native + MUSD, got %d entries", len(list))
	}
	if _, ok := Find(list, "mUSDC"); ok {
		t.Fatalf("failed token read still listed")
	}
}

func TestFind(t *testing.T) {
	list := []Asset{{Symbol: "BTC"}, {Symbol: "MUSD"}}
	if _, ok := Find(list, "MUSD"); !ok {
		t.Fatalf("known symbol not found")
	}
	if _, ok := Find(list, "DOGE"); ok {
		t.Fatalf("unknown symbol found")
	}
}
