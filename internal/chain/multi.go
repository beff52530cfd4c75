package chain

import (
	"context"
	"fmt"
	"math/big"
)

// MultiClient routes every call to the RPC client of the active chain, so a
// network toggle redirects reads without redialing.
type MultiClient struct {
	clients map[int64]*RPCClient
	active  func() int64
}

// NewMultiClient wraps one dialed client per fixed network. active reports
// the chain id selected by the network context.
func NewMultiClient(clients map[int64]*RPCClient, active func() int64) *MultiClient {
	return &MultiClient{clients: clients, active: active}
}

func (m *MultiClient) pick(chainID int64) (*RPCClient, error) {
	c, ok := m.clients[chainID]
	if !ok {
		return nil, fmt.Errorf("no rpc client for chain %d", chainID)
	}
	return c, nil
}

func (m *MultiClient) NativeBalance(ctx context.Context, account string) (*big.Int, error) {
	c, err := m.pick(m.active())
	if err != nil {
		return nil, err
	}
	return c.NativeBalance(ctx, account)
}

func (m *MultiClient) TokenBalance(ctx context.Context, token, account string) (*big.Int, error) {
	c, err := m.pick(m.active())
	if err != nil {
		return nil, err
	}
	return c.TokenBalance(ctx, token, account)
}

func (m *MultiClient) EstimateFee(ctx context.Context, from, to string, rawAmount *big.Int) (*FeeEstimate, error) {
	c, err := m.pick(m.active())
	if err != nil {
		return nil, err
	}
	return c.EstimateFee(ctx, from, to, rawAmount)
}

func (m *MultiClient) SubmitTransfer(ctx context.Context, to string, rawAmount *big.Int, chainID int64) (string, error) {
	c, err := m.pick(chainID)
	if err != nil {
		return "", err
	}
	return c.SubmitTransfer(ctx, to, rawAmount, chainID)
}

// WaitForReceipt routes by the submission chain id, not the active selection,
// so a toggle mid-watch cannot poll the wrong chain.
func (m *MultiClient) WaitForReceipt(ctx context.Context, hash string, chainID int64) (*Receipt, error) {
	c, err := m.pick(chainID)
	if err != nil {
		return nil, err
	}
	return c.WaitForReceipt(ctx, hash, chainID)
}

func (m *MultiClient) SwitchChain(chainID int64) error {
	c, err := m.pick(chainID)
	if err != nil {
		return err
	}
	return c.SwitchChain(chainID)
}

func (m *MultiClient) Close() {
	for _, c := range m.clients {
		c.Close()
	}
}
