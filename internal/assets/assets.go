package assets

import (
	"context"
	"math/big"
	"strconv"
	"strings"

	"github.com/prajalsharma/mezo-wallet/internal/chain"
	"github.com/prajalsharma/mezo-wallet/internal/config"
	"github.com/prajalsharma/mezo-wallet/internal/logger"
	"github.com/prajalsharma/mezo-wallet/internal/walletconn"
	"github.com/prajalsharma/mezo-wallet/lib/units"
	"github.com/spf13/viper"
)

// Asset is a fungible unit balance shown on the dashboard. Balance is the
// formatted display value; RawBalance keeps the exact smallest-denomination
// amount.
type Asset struct {
	Symbol          string   `json:"symbol"`
	Name            string   `json:"name"`
	Balance         string   `json:"balance"`
	BalanceUsd      string   `json:"balanceUsd"`
	Decimals        int      `json:"decimals"`
	RawBalance      *big.Int `json:"rawBalance"`
	Icon            string   `json:"icon"`
	ContractAddress string   `json:"contractAddress,omitempty"`
}

// Service lists balances for the connected account: the native asset plus the
// configured token registry.
type Service struct {
	client   chain.Client
	provider walletconn.Provider
}

func NewService(client chain.Client, provider walletconn.Provider) *Service {
	return &Service{client: client, provider: provider}
}

// List returns the displayable assets. The native asset is always included,
// even at zero balance; tokens with a zero balance are omitted.
func (s *Service) List(ctx context.Context) ([]Asset, error) {
	account, ok := s.provider.AccountAddress()
	if !ok {
		return nil, nil
	}

	var result []Asset

	native, err := s.client.NativeBalance(ctx, account)
	if err != nil {
		return nil, err
	}
	nativeDecimals := viper.GetInt("native_decimals")
	result = append(result, Asset{
		Symbol:     viper.GetString("native_symbol"),
		Name:       viper.GetString("native_name"),
		Balance:    units.Format(native, nativeDecimals, displayPlaces(viper.GetString("native_symbol"))),
		BalanceUsd: "",
		Decimals:   nativeDecimals,
		RawBalance: native,
		Icon:       viper.GetString("native_icon"),
	})

	tokens, err := config.Tokens()
	if err != nil {
		return nil, err
	}
	for _, token := range tokens {
		raw, err := s.client.TokenBalance(ctx, token.Address, account)
		if err != nil {
			logger.GetLogger().Warn().Err(err).Str("symbol", token.Symbol).Msg("Skipping token balance read")
			continue
		}
		if raw.Sign() == 0 {
			continue
		}
		result = append(result, Asset{
			Symbol:          token.Symbol,
			Name:            token.Name,
			Balance:         units.Format(raw, token.Decimals, displayPlaces(token.Symbol)),
			BalanceUsd:      "",
			Decimals:        token.Decimals,
			RawBalance:      raw,
			Icon:            token.Icon,
			ContractAddress: token.Address,
		})
	}

	return result, nil
}

// Find returns the asset with the given symbol from a listing.
func Find(list []Asset, symbol string) (Asset, bool) {
	for _, a := range list {
		if a.Symbol == symbol {
			return a, true
		}
	}
	return Asset{}, false
}

// TotalUSD aggregates the advisory USD values of a listing.
func TotalUSD(list []Asset) string {
	var total float64
	for _, a := range list {
		if a.BalanceUsd == "" {
			continue
		}
		v, err := strconv.ParseFloat(a.BalanceUsd, 64)
		if err != nil {
			continue
		}
		total += v
	}
	return strconv.FormatFloat(total, 'f', 2, 64)
}

// displayPlaces is the fixed display precision: 2 for USD-stable assets,
// 8 for BTC-denominated ones.
func displayPlaces(symbol string) int {
	if strings.Contains(symbol, "USD") {
		return 2
	}
	return 8
}
