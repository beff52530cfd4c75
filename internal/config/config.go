package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Token describes one entry of the fungible-token registry for a network.
type Token struct {
	Symbol   string `mapstructure:"symbol"`
	Name     string `mapstructure:"name"`
	Address  string `mapstructure:"address"`
	Decimals int    `mapstructure:"decimals"`
	Icon     string `mapstructure:"icon"`
}

// LoadConfig loads the configuration and sets default values for development/production
func LoadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("json")
	viper.AddConfigPath(".") // Path to look for the config file in

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create a default one
			return createDefaultConfig()
		}
		return fmt.Errorf("error reading config file: %w", err)
	}

	// Ensure we have sensible defaults in case they are not in the config file
	setDefaults()

	return nil
}

// setDefaults sets default configuration values based on the environment
func setDefaults() {
	env := viper.GetString("ENV")
	if env == "" {
		env = "development"
		viper.Set("ENV", env)
	}

	if env == "development" {
		viper.SetDefault("allowed_origin", "http://localhost:3000")
		viper.SetDefault("history_db_path", "./dev_history.db")
		viper.SetDefault("log_level", "debug")
	} else if env == "production" {
		viper.SetDefault("allowed_origin", "https://wallet.mezo.org")
		viper.SetDefault("history_db_path", "/var/lib/mezo-wallet/history.db")
		viper.SetDefault("log_level", "info")
	}

	// Common defaults for both environments
	viper.SetDefault("network", "mainnet") // or "testnet"
	viper.SetDefault("history_backend", "graviton")
	viper.SetDefault("api_port", 9003)
	viper.SetDefault("use_https", false)
	viper.SetDefault("cert_file", "server.crt")
	viper.SetDefault("key_file", "server.key")
	viper.SetDefault("use_jwt", false)
	viper.SetDefault("wallet_api_key", "")
	viper.SetDefault("session_dir", "./sessions")
	viper.SetDefault("wallet_bridge_url", "http://127.0.0.1:8545")
	viper.SetDefault("receipt_poll_interval", "3s")
	viper.SetDefault("receipt_timeout", "0") // 0 waits indefinitely
	viper.SetDefault("rpc_rate_limit", 4)

	viper.SetDefault("mainnet_chain_id", 31612)
	viper.SetDefault("mainnet_rpc_endpoint", "https://rpc.mezo.org")
	viper.SetDefault("mainnet_explorer_url", "https://explorer.mezo.org")
	viper.SetDefault("testnet_chain_id", 31611)
	viper.SetDefault("testnet_rpc_endpoint", "https://rpc.test.mezo.org")
	viper.SetDefault("testnet_explorer_url", "https://explorer.test.mezo.org")

	viper.SetDefault("native_symbol", "BTC")
	viper.SetDefault("native_name", "Bitcoin")
	viper.SetDefault("native_decimals", 18)
	viper.SetDefault("native_icon", "/icons/btc.svg")

	viper.SetDefault("tokens", []map[string]interface{}{
		{"symbol": "MUSD", "name": "Mezo USD", "address": "0xdD468A1DDc392dcdbEf6db6e34E89AA338F9F186", "decimals": 18, "icon": "/icons/musd.svg"},
		{"symbol": "mUSDC", "name": "Mezo USDC", "address": "0x13a20B69A9e5BBe3A861D4E0EA5A9472caa8F11E", "decimals": 6, "icon": "/icons/usdc.svg"},
		{"symbol": "mUSDT", "name": "Mezo USDT", "address": "0x59D64736a8e2E5329e7Dd5652B5D588Bf1E1f06d", "decimals": 6, "icon": "/icons/usdt.svg"},
		{"symbol": "mDAI", "name": "Mezo DAI", "address": "0x788d96f655735f52c676a133f4dFC53cEC614d4A", "decimals": 18, "icon": "/icons/dai.svg"},
		{"symbol": "mT", "name": "Mezo T", "address": "0xE1C4A9D514ffA680BE0dbFF10EC95e3D17122E2f", "decimals": 18, "icon": "/icons/mezo.svg"},
		{"symbol": "mFBTC", "name": "Mezo FBTC", "address": "0x4C6F00FD6Ad7B4b1b6d0A9a9bE8Ad0a5b40FCb3F", "decimals": 8, "icon": "/icons/btc.svg"},
		{"symbol": "mcbBTC", "name": "Mezo cbBTC", "address": "0xBd52bd4A6F1E468Ba23AD9f218fdB1DB2Fc10Ff4", "decimals": 8, "icon": "/icons/btc.svg"},
		{"symbol": "mSolvBTC", "name": "Mezo SolvBTC", "address": "0x6Bc9F3bbE6E7A26Dc54E368aB4cF6BbAfDf59Ef1", "decimals": 18, "icon": "/icons/btc.svg"},
		{"symbol": "mswBTC", "name": "Mezo swBTC", "address": "0xA460F83cdd9584E4bD6a9838abb0baC58EAde999", "decimals": 8, "icon": "/icons/btc.svg"},
	})
}

// Tokens returns the configured token registry for the dashboard
func Tokens() ([]Token, error) {
	var tokens []Token
	if err := viper.UnmarshalKey("tokens", &tokens); err != nil {
		return nil, fmt.Errorf("error decoding token registry: %w", err)
	}
	return tokens, nil
}

// createDefaultConfig creates a new configuration file if it doesn't exist
func createDefaultConfig() error {
	setDefaults()

	// Write the default configuration to a file
	err := viper.SafeWriteConfig()
	if err != nil {
		if os.IsExist(err) {
			// If the config already exists, attempt to overwrite it
			err = viper.WriteConfig()
			if err != nil {
				return fmt.Errorf("error writing config file: %w", err)
			}
		} else {
			return fmt.Errorf("error creating config file: %w", err)
		}
	}

	fmt.Println("Created default configuration file")
	return nil
}
