package walletconn

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/prajalsharma/mezo-wallet/internal/logger"
)

// BridgeProvider talks JSON-RPC to a wallet bridge (a node or browser-wallet
// relay that manages the user's accounts). eth_sendTransaction on the bridge
// resolves once the wallet has signed and broadcast.
type BridgeProvider struct {
	mu      sync.RWMutex
	client  *rpc.Client
	account string
}

type sendTxArgs struct {
	From  string       `json:"from"`
	To    string       `json:"to"`
	Value *hexutil.Big `json:"value"`
}

type switchChainArgs struct {
	ChainID string `json:"chainId"`
}

// ConnectBridge dials the wallet bridge and resolves the active account.
func ConnectBridge(ctx context.Context, url string) (*BridgeProvider, error) {
	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial wallet bridge %s: %w", url, err)
	}

	p := &BridgeProvider{client: client}
	if err := p.refreshAccount(ctx); err != nil {
		logger.GetLogger().Warn().Err(err).Msg("Wallet bridge reachable but no account yet")
	}
	return p, nil
}

func (p *BridgeProvider) refreshAccount(ctx context.Context) error {
	var accounts []string
	if err := p.client.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return err
	}
	if len(accounts) == 0 {
		return fmt.Errorf("wallet bridge reports no accounts")
	}

	p.mu.Lock()
	p.account = accounts[0]
	p.mu.Unlock()
	return nil
}

func (p *BridgeProvider) AccountAddress() (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.account, p.account != ""
}

func (p *BridgeProvider) Connected() bool {
	_, ok := p.AccountAddress()
	return ok
}

func (p *BridgeProvider) SignAndSend(ctx context.Context, from, to string, valueWei *big.Int, chainID int64) (string, error) {
	var hash string
	args := sendTxArgs{From: from, To: to, Value: (*hexutil.Big)(valueWei)}
	if err := p.client.CallContext(ctx, &hash, "eth_sendTransaction", args); err != nil {
		return "", err
	}
	return hash, nil
}

// SwitchChain asks the wallet to move to the given chain. Wallets without
// programmatic switching return an error which callers treat as non-fatal.
func (p *BridgeProvider) SwitchChain(chainID int64) error {
	args := switchChainArgs{ChainID: hexutil.EncodeUint64(uint64(chainID))}
	return p.client.CallContext(context.Background(), nil, "wallet_switchEthereumChain", args)
}

func (p *BridgeProvider) Close() {
	p.client.Close()
}
