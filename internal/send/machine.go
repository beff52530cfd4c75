package send

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prajalsharma/mezo-wallet/internal/assets"
	"github.com/prajalsharma/mezo-wallet/internal/chain"
	"github.com/prajalsharma/mezo-wallet/internal/history"
	"github.com/prajalsharma/mezo-wallet/internal/logger"
	"github.com/prajalsharma/mezo-wallet/internal/network"
	"github.com/prajalsharma/mezo-wallet/internal/walletconn"
	"github.com/prajalsharma/mezo-wallet/lib/units"
)

// Step is the state of one send interaction.
type Step string

const (
	StepInput   Step = "input"
	StepConfirm Step = "confirm"
	StepSending Step = "sending"
	StepSuccess Step = "success"
	StepError   Step = "error"
)

const (
	msgInvalidAddress  = "Please enter a valid Mezo address"
	msgInvalidAmount   = "Please enter a valid amount"
	msgInsufficient    = "Insufficient balance"
	msgRejected        = "Transaction was rejected"
	msgOnChainFailure  = "Transaction failed on chain"
	maxRawErrorDisplay = 100
)

// Deps are the collaborators a machine writes to and submits through.
type Deps struct {
	Store    history.Store
	Client   chain.Client
	Network  *network.Context
	Provider walletconn.Provider

	// ReceiptTimeout bounds the receipt wait; zero waits indefinitely.
	ReceiptTimeout time.Duration
}

// Machine drives exactly one transfer attempt from user input to a terminal
// outcome. One machine exists per open send interaction; no second submission
// may start while a prior hash is unresolved on the same machine.
type Machine struct {
	mu   sync.Mutex
	deps Deps

	asset     assets.Asset
	step      Step
	recipient string
	amount    string
	errMsg    string
	txHash    string
	fee       string

	processed   map[string]bool
	closed      bool
	watchCancel context.CancelFunc
}

// Snapshot is the render state exposed to the presentation layer.
type Snapshot struct {
	Step      Step   `json:"step"`
	Asset     string `json:"asset"`
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
	Error     string `json:"error,omitempty"`
	TxHash    string `json:"txHash,omitempty"`
	Fee       string `json:"fee,omitempty"`
}

// Open starts a fresh send interaction for the given asset.
func Open(asset assets.Asset, deps Deps) *Machine {
	return &Machine{
		deps:      deps,
		asset:     asset,
		step:      StepInput,
		processed: make(map[string]bool),
	}
}

func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		Step:      m.step,
		Asset:     m.asset.Symbol,
		Recipient: m.recipient,
		Amount:    m.amount,
		Error:     m.errMsg,
		TxHash:    m.txHash,
		Fee:       m.fee,
	}
}

// SubmitInput validates recipient and amount and advances input -> confirm.
// On any validation failure the machine stays in input with a message set.
func (m *Machine) SubmitInput(recipient, amount string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || m.step != StepInput {
		return
	}

	m.recipient = recipient
	m.amount = amount

	if !common.IsHexAddress(recipient) {
		m.errMsg = msgInvalidAddress
		return
	}

	value, err := strconv.ParseFloat(amount, 64)
	if err != nil || value <= 0 {
		m.errMsg = msgInvalidAmount
		return
	}

	// UX guard against the formatted balance; the chain enforces the
	// authoritative check at submission.
	balance, err := strconv.ParseFloat(m.asset.Balance, 64)
	if err != nil || value > balance {
		m.errMsg = msgInsufficient
		return
	}

	m.errMsg = ""
	m.step = StepConfirm
}

// Back returns from confirm to input, keeping the entered fields.
func (m *Machine) Back() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.step == StepConfirm {
		m.step = StepInput
	}
}

// ConfirmSend submits the transfer. On a hash it appends the pending history
// record and starts watching for the receipt; on failure it moves to error.
// No history record exists until the wallet has produced a hash.
func (m *Machine) ConfirmSend(ctx context.Context) {
	m.mu.Lock()
	if m.closed || m.step != StepConfirm {
		m.mu.Unlock()
		return
	}
	m.step = StepSending
	m.errMsg = ""
	recipient := m.recipient
	amount := m.amount
	asset := m.asset
	m.mu.Unlock()

	raw, err := units.Parse(amount, asset.Decimals)
	if err != nil {
		m.failSubmission(err)
		return
	}

	chainID := m.deps.Network.ChainID()
	hash, err := m.deps.Client.SubmitTransfer(ctx, recipient, raw, chainID)
	if err != nil {
		m.failSubmission(err)
		return
	}

	account, _ := m.deps.Provider.AccountAddress()
	record := history.Transaction{
		Hash:      hash,
		From:      account,
		To:        recipient,
		Value:     amount,
		Symbol:    asset.Symbol,
		Timestamp: time.Now().UnixMilli(),
		Status:    history.StatusPending,
		Type:      history.TypeSend,
	}

	var watchCtx context.Context
	var cancel context.CancelFunc
	if m.deps.ReceiptTimeout > 0 {
		watchCtx, cancel = context.WithTimeout(context.Background(), m.deps.ReceiptTimeout)
	} else {
		watchCtx, cancel = context.WithCancel(context.Background())
	}

	m.mu.Lock()
	m.txHash = hash
	m.watchCancel = cancel
	closed := m.closed
	m.mu.Unlock()

	// The hash exists, so the record is written even if the interaction
	// was closed while the wallet was signing.
	m.deps.Store.Append(account, chainID, record)

	if closed {
		cancel()
		return
	}
	go m.watchReceipt(watchCtx, hash, account, chainID)
}

func (m *Machine) failSubmission(err error) {
	msg := err.Error()
	if errors.Is(err, chain.ErrRejected) {
		msg = msgRejected
	} else if len(msg) > maxRawErrorDisplay {
		msg = msg[:maxRawErrorDisplay]
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.step = StepError
	m.errMsg = msg
}

// watchReceipt stays on the submission chain even if the network selection
// flips while the transaction is unconfirmed.
func (m *Machine) watchReceipt(ctx context.Context, hash, account string, chainID int64) {
	receipt, err := m.deps.Client.WaitForReceipt(ctx, hash, chainID)
	if err != nil {
		// Cancelled close or bounded-wait timeout: the record stays
		// pending, the chain-level transaction is not recalled.
		logger.GetLogger().Debug().Err(err).Str("hash", hash).Msg("Receipt wait ended without a receipt")
		return
	}
	m.handleReceipt(hash, receipt, account, chainID)
}

// handleReceipt applies a terminal transition for the hash exactly once.
// Redundant deliveries and deliveries after Close are no-ops.
func (m *Machine) handleReceipt(hash string, receipt *chain.Receipt, account string, chainID int64) {
	m.mu.Lock()
	if m.closed || m.processed[hash] || hash != m.txHash {
		m.mu.Unlock()
		return
	}
	m.processed[hash] = true

	var status history.Status
	if receipt.Status == chain.ReceiptSuccess {
		m.step = StepSuccess
		status = history.StatusConfirmed
	} else {
		m.step = StepError
		m.errMsg = msgOnChainFailure
		status = history.StatusFailed
	}
	m.mu.Unlock()

	m.deps.Store.Update(account, chainID, hash, history.Changes{Status: &status})
}

// EstimateFee quotes the advisory network fee for the entered transfer.
// Incomplete or invalid inputs yield an empty quote.
func (m *Machine) EstimateFee(ctx context.Context) string {
	m.mu.Lock()
	recipient := m.recipient
	amount := m.amount
	decimals := m.asset.Decimals
	m.mu.Unlock()

	if !common.IsHexAddress(recipient) {
		return ""
	}
	raw, err := units.Parse(amount, decimals)
	if err != nil {
		return ""
	}

	account, _ := m.deps.Provider.AccountAddress()
	estimate, err := m.deps.Client.EstimateFee(ctx, account, recipient, raw)
	if err != nil || estimate == nil {
		return ""
	}

	fee := units.Format(estimate.TotalWei, 18, 10)
	m.mu.Lock()
	m.fee = fee
	m.mu.Unlock()
	return fee
}

// Retry returns from error to input, clearing only the error and the held
// hash so the user can resubmit without re-typing.
func (m *Machine) Retry() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || m.step != StepError {
		return
	}
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	if m.txHash != "" {
		m.processed[m.txHash] = true
		m.txHash = ""
	}
	m.errMsg = ""
	m.step = StepInput
}

// Close fully resets the interaction and stops any receipt watch. Closing an
// already-closed machine is a no-op. Any pending history record is left as
// written; the chain-level transaction cannot be recalled.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	m.step = StepInput
	m.recipient = ""
	m.amount = ""
	m.errMsg = ""
	m.txHash = ""
	m.fee = ""
}
