package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prajalsharma/mezo-wallet/internal/assets"
	"github.com/prajalsharma/mezo-wallet/internal/chain"
	"github.com/prajalsharma/mezo-wallet/internal/history"
	"github.com/prajalsharma/mezo-wallet/internal/logger"
	"github.com/prajalsharma/mezo-wallet/internal/network"
	"github.com/prajalsharma/mezo-wallet/internal/walletconn"
	"github.com/spf13/viper"
)

func NewAPI(assetSvc *assets.Service, store history.Store, netCtx *network.Context,
	provider walletconn.Provider, client chain.Client, receiptTimeout time.Duration) *API {
	return &API{
		Assets:         assetSvc,
		Store:          store,
		Network:        netCtx,
		Provider:       provider,
		Client:         client,
		ReceiptTimeout: receiptTimeout,
	}
}

// StartServer serves the dashboard API until the listener fails.
func (a *API) StartServer() error {
	mux := http.NewServeMux()

	protected := func(h http.HandlerFunc) http.HandlerFunc {
		return a.CORSMiddleware(a.JWTMiddleware(h))
	}

	mux.HandleFunc("/api/assets", protected(a.HandleAssets))
	mux.HandleFunc("/api/history", protected(a.HandleHistory))
	mux.HandleFunc("/api/network", protected(a.HandleNetwork))
	mux.HandleFunc("/api/network/toggle", protected(a.HandleNetwork))
	mux.HandleFunc("/api/send/open", protected(a.HandleSendOpen))
	mux.HandleFunc("/api/send/input", protected(a.HandleSendInput))
	mux.HandleFunc("/api/send/confirm", protected(a.HandleSendConfirm))
	mux.HandleFunc("/api/send/retry", protected(a.HandleSendRetry))
	mux.HandleFunc("/api/send/close", protected(a.HandleSendClose))
	mux.HandleFunc("/api/send/state", protected(a.HandleSendState))
	mux.HandleFunc("/api/send/fee", protected(a.HandleSendFee))

	addr := fmt.Sprintf(":%d", viper.GetInt("api_port"))
	logger.GetLogger().Info().Str("addr", addr).Msg("Dashboard API listening")

	if viper.GetBool("use_https") {
		return http.ListenAndServeTLS(addr, viper.GetString("cert_file"), viper.GetString("key_file"), mux)
	}
	return http.ListenAndServe(addr, mux)
}
