package api

import (
	"sync"
	"time"

	"github.com/prajalsharma/mezo-wallet/internal/assets"
	"github.com/prajalsharma/mezo-wallet/internal/chain"
	"github.com/prajalsharma/mezo-wallet/internal/history"
	"github.com/prajalsharma/mezo-wallet/internal/network"
	"github.com/prajalsharma/mezo-wallet/internal/send"
	"github.com/prajalsharma/mezo-wallet/internal/walletconn"
)

// API serves the browser dashboard. It owns at most one live send
// interaction at a time.
type API struct {
	Assets   *assets.Service
	Store    history.Store
	Network  *network.Context
	Provider walletconn.Provider
	Client   chain.Client

	ReceiptTimeout time.Duration

	mu      sync.Mutex
	machine *send.Machine
}

type OpenSendRequest struct {
	Symbol string `json:"symbol"`
}

type SendInputRequest struct {
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
}

type AssetsResponse struct {
	Assets   []assets.Asset `json:"assets"`
	TotalUsd string         `json:"totalUsd"`
}

type HistoryEntry struct {
	history.Transaction
	TxURL   string `json:"txUrl"`
	FromURL string `json:"fromUrl"`
	ToURL   string `json:"toUrl"`
}

type HistoryResponse struct {
	Network      network.Type   `json:"network"`
	ChainID      int64          `json:"chainId"`
	Transactions []HistoryEntry `json:"transactions"`
}

type NetworkResponse struct {
	Network     network.Type `json:"network"`
	ChainID     int64        `json:"chainId"`
	ExplorerURL string       `json:"explorerUrl"`
	Connected   bool         `json:"connected"`
	Account     string       `json:"account,omitempty"`
}

type FeeResponse struct {
	Fee string `json:"fee"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
