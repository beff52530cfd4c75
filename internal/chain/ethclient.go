package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/prajalsharma/mezo-wallet/internal/logger"
	"golang.org/x/time/rate"
)

// balanceOf(address) selector for ERC-20 token balance reads.
var balanceOfSelector = []byte{0x70, 0xa0, 0x82, 0x31}

// RPCClient implements Client over a JSON-RPC endpoint. Balance reads, fee
// estimation and receipt polling go to the node; submission and chain
// switching are handed to the wallet provider.
type RPCClient struct {
	eth          *ethclient.Client
	submitter    Submitter
	limiter      *rate.Limiter
	pollInterval time.Duration
}

// NewRPCClient dials the network endpoint and wraps it with a rate limiter
// so receipt polling cannot hammer a public RPC.
func NewRPCClient(endpoint string, submitter Submitter, rateLimit float64, pollInterval time.Duration) (*RPCClient, error) {
	eth, err := ethclient.Dial(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rpc endpoint %s: %w", endpoint, err)
	}
	if rateLimit <= 0 {
		rateLimit = 4
	}
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}
	return &RPCClient{
		eth:          eth,
		submitter:    submitter,
		limiter:      rate.NewLimiter(rate.Limit(rateLimit), 1),
		pollInterval: pollInterval,
	}, nil
}

func (c *RPCClient) NativeBalance(ctx context.Context, account string) (*big.Int, error) {
	if !common.IsHexAddress(account) {
		return nil, fmt.Errorf("invalid account address %q", account)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.eth.BalanceAt(ctx, common.HexToAddress(account), nil)
}

func (c *RPCClient) TokenBalance(ctx context.Context, token, account string) (*big.Int, error) {
	if !common.IsHexAddress(token) || !common.IsHexAddress(account) {
		return nil, fmt.Errorf("invalid token or account address")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	contract := common.HexToAddress(token)
	data := append(append([]byte{}, balanceOfSelector...), common.LeftPadBytes(common.HexToAddress(account).Bytes(), 32)...)

	out, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &contract, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("balanceOf call failed: %w", err)
	}
	return new(big.Int).SetBytes(out), nil
}

// EstimateFee returns nil without error when the inputs are incomplete; the
// quote is advisory and unavailable rather than wrong.
func (c *RPCClient) EstimateFee(ctx context.Context, from, to string, rawAmount *big.Int) (*FeeEstimate, error) {
	if !common.IsHexAddress(to) || rawAmount == nil {
		return nil, nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	msg := ethereum.CallMsg{To: addressPtr(to), Value: rawAmount}
	if common.IsHexAddress(from) {
		msg.From = common.HexToAddress(from)
	}

	gas, err := c.eth.EstimateGas(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("gas estimation failed: %w", err)
	}
	price, err := c.eth.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("gas price query failed: %w", err)
	}

	total := new(big.Int).Mul(new(big.Int).SetUint64(gas), price)
	return &FeeEstimate{Gas: gas, GasPriceWei: price, TotalWei: total}, nil
}

// SubmitTransfer resolves once the wallet has signed and broadcast the
// transaction, not once it is confirmed.
func (c *RPCClient) SubmitTransfer(ctx context.Context, to string, rawAmount *big.Int, chainID int64) (string, error) {
	from, ok := c.submitter.AccountAddress()
	if !ok {
		return "", errors.New("no wallet account connected")
	}

	hash, err := c.submitter.SignAndSend(ctx, from, to, rawAmount, chainID)
	if err != nil {
		if isUserRejection(err) {
			return "", fmt.Errorf("%w: %v", ErrRejected, err)
		}
		return "", err
	}
	return hash, nil
}

// WaitForReceipt polls until the transaction is mined or the context ends.
// The caller bounds the wait through the context; there is no internal limit.
// The chain id is routing information for multi-chain wrappers; a dialed
// client is already bound to one endpoint.
func (c *RPCClient) WaitForReceipt(ctx context.Context, hash string, _ int64) (*Receipt, error) {
	txHash := common.HexToHash(hash)
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		receipt, err := c.eth.TransactionReceipt(ctx, txHash)
		if err == nil && receipt != nil {
			status := ReceiptFailure
			if receipt.Status == 1 {
				status = ReceiptSuccess
			}
			return &Receipt{Status: status, BlockNumber: receipt.BlockNumber.Uint64()}, nil
		}
		if err != nil && !errors.Is(err, ethereum.NotFound) {
			logger.GetLogger().Debug().Err(err).Str("hash", hash).Msg("Receipt poll error, retrying")
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *RPCClient) SwitchChain(chainID int64) error {
	return c.submitter.SwitchChain(chainID)
}

func (c *RPCClient) Close() {
	c.eth.Close()
}

func addressPtr(addr string) *common.Address {
	a := common.HexToAddress(addr)
	return &a
}
