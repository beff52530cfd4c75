package chain

import (
	"context"
	"errors"
	"math/big"
	"strings"
)

// ReceiptStatus is the final on-chain outcome of a submitted transfer.
type ReceiptStatus string

const (
	ReceiptSuccess ReceiptStatus = "success"
	ReceiptFailure ReceiptStatus = "failure"
)

// Receipt is the chain-delivered confirmation for one transaction hash.
type Receipt struct {
	Status      ReceiptStatus
	BlockNumber uint64
}

// FeeEstimate is an advisory gas cost quote. TotalWei is gas * gas price.
type FeeEstimate struct {
	Gas         uint64
	GasPriceWei *big.Int
	TotalWei    *big.Int
}

// ErrRejected marks a submission the user declined in their wallet, as
// opposed to a transport or execution failure.
var ErrRejected = errors.New("transaction rejected by user")

// Client is the consumed chain-access contract. Submission and chain
// switching are delegated to the wallet side; reads go to the network RPC.
// WaitForReceipt takes the submission chain id so a network toggle cannot
// redirect an in-flight watch to the other chain.
type Client interface {
	NativeBalance(ctx context.Context, account string) (*big.Int, error)
	TokenBalance(ctx context.Context, token, account string) (*big.Int, error)
	EstimateFee(ctx context.Context, from, to string, rawAmount *big.Int) (*FeeEstimate, error)
	SubmitTransfer(ctx context.Context, to string, rawAmount *big.Int, chainID int64) (string, error)
	WaitForReceipt(ctx context.Context, hash string, chainID int64) (*Receipt, error)
	SwitchChain(chainID int64) error
}

// Submitter is the wallet-provider surface the client needs for operations
// that require a signature or wallet-side action.
type Submitter interface {
	AccountAddress() (string, bool)
	SignAndSend(ctx context.Context, from, to string, valueWei *big.Int, chainID int64) (string, error)
	SwitchChain(chainID int64) error
}

// isUserRejection classifies wallet errors that mean the user declined to
// sign. EIP-1193 providers report code 4001 with a "user rejected" message.
func isUserRejection(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "user rejected") ||
		strings.Contains(msg, "user denied") ||
		strings.Contains(msg, "4001")
}
