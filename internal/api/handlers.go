package api

import (
	"encoding/json"
	"net/http"

	"github.com/prajalsharma/mezo-wallet/internal/assets"
	"github.com/prajalsharma/mezo-wallet/internal/send"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (a *API) HandleAssets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	list, err := a.Assets.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: "Failed to read balances"})
		return
	}
	writeJSON(w, http.StatusOK, AssetsResponse{Assets: list, TotalUsd: assets.TotalUSD(list)})
}

func (a *API) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	account, _ := a.Provider.AccountAddress()
	chainID := a.Network.ChainID()

	records := a.Store.Read(account, chainID)
	entries := make([]HistoryEntry, len(records))
	for i, tx := range records {
		entries[i] = HistoryEntry{
			Transaction: tx,
			TxURL:       a.Network.TxURL(tx.Hash),
			FromURL:     a.Network.AddressURL(tx.From),
			ToURL:       a.Network.AddressURL(tx.To),
		}
	}

	writeJSON(w, http.StatusOK, HistoryResponse{
		Network:      a.Network.Current(),
		ChainID:      chainID,
		Transactions: entries,
	})
}

func (a *API) HandleNetwork(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodGet:
	case r.Method == http.MethodPost && r.URL.Path == "/api/network/toggle":
		a.Network.Toggle()
	default:
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	params := a.Network.Params()
	account, connected := a.Provider.AccountAddress()
	writeJSON(w, http.StatusOK, NetworkResponse{
		Network:     params.Name,
		ChainID:     params.ChainID,
		ExplorerURL: params.ExplorerURL,
		Connected:   connected,
		Account:     account,
	})
}

func (a *API) HandleSendOpen(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	var req OpenSendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	list, err := a.Assets.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: "Failed to read balances"})
		return
	}
	asset, ok := assets.Find(list, req.Symbol)
	if !ok {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Unknown asset"})
		return
	}

	a.mu.Lock()
	if a.machine != nil {
		a.machine.Close()
	}
	a.machine = send.Open(asset, send.Deps{
		Store:          a.Store,
		Client:         a.Client,
		Network:        a.Network,
		Provider:       a.Provider,
		ReceiptTimeout: a.ReceiptTimeout,
	})
	machine := a.machine
	a.mu.Unlock()

	writeJSON(w, http.StatusOK, machine.Snapshot())
}

// currentMachine returns the live send interaction, if any.
func (a *API) currentMachine() *send.Machine {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.machine
}

func (a *API) HandleSendInput(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	machine := a.currentMachine()
	if machine == nil {
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: "No send interaction open"})
		return
	}

	var req SendInputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	machine.SubmitInput(req.Recipient, req.Amount)
	writeJSON(w, http.StatusOK, machine.Snapshot())
}

func (a *API) HandleSendConfirm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	machine := a.currentMachine()
	if machine == nil {
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: "No send interaction open"})
		return
	}

	machine.ConfirmSend(r.Context())
	writeJSON(w, http.StatusOK, machine.Snapshot())
}

func (a *API) HandleSendRetry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	machine := a.currentMachine()
	if machine == nil {
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: "No send interaction open"})
		return
	}

	machine.Retry()
	writeJSON(w, http.StatusOK, machine.Snapshot())
}

func (a *API) HandleSendClose(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	a.mu.Lock()
	if a.machine != nil {
		a.machine.Close()
		a.machine = nil
	}
	a.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (a *API) HandleSendState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	machine := a.currentMachine()
	if machine == nil {
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: "No send interaction open"})
		return
	}
	writeJSON(w, http.StatusOK, machine.Snapshot())
}

func (a *API) HandleSendFee(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Invalid request method", http.StatusMethodNotAllowed)
		return
	}

	machine := a.currentMachine()
	if machine == nil {
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: "No send interaction open"})
		return
	}
	writeJSON(w, http.StatusOK, FeeResponse{Fee: machine.EstimateFee(r.Context())})
}
