package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/prajalsharma/mezo-wallet/internal/api"
	"github.com/prajalsharma/mezo-wallet/internal/assets"
	"github.com/prajalsharma/mezo-wallet/internal/chain"
	"github.com/prajalsharma/mezo-wallet/internal/history"
	"github.com/prajalsharma/mezo-wallet/internal/logger"
	"github.com/prajalsharma/mezo-wallet/internal/network"
	"github.com/prajalsharma/mezo-wallet/internal/send"
	"github.com/prajalsharma/mezo-wallet/internal/walletconn"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app wires the dashboard's collaborators together for CLI use.
type app struct {
	store    history.Store
	netCtx   *network.Context
	provider *walletconn.BridgeProvider
	client   *chain.MultiClient
	assets   *assets.Service
	timeout  time.Duration
}

func newApp() (*app, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	provider, err := walletconn.ConnectBridge(ctx, viper.GetString("wallet_bridge_url"))
	if err != nil {
		return nil, fmt.Errorf("error connecting wallet bridge: %w", err)
	}

	var client *chain.MultiClient
	netCtx := network.New(network.SwitcherFunc(func(chainID int64) error {
		if client == nil {
			return nil
		}
		return client.SwitchChain(chainID)
	}))

	clients := make(map[int64]*chain.RPCClient)
	for _, n := range []network.Type{network.Mainnet, network.Testnet} {
		params := network.ParamsFor(n)
		c, err := chain.NewRPCClient(params.RPCEndpoint, provider,
			viper.GetFloat64("rpc_rate_limit"), viper.GetDuration("receipt_poll_interval"))
		if err != nil {
			return nil, fmt.Errorf("error dialing %s rpc: %w", n, err)
		}
		clients[params.ChainID] = c
	}
	client = chain.NewMultiClient(clients, netCtx.ChainID)

	if network.Type(viper.GetString("network")) == network.Testnet {
		netCtx.Toggle()
	}

	store, err := history.Open(history.BackendType(viper.GetString("history_backend")),
		viper.GetString("history_db_path"))
	if err != nil {
		return nil, fmt.Errorf("error opening history store: %w", err)
	}

	sessionDir := viper.GetString("session_dir")
	if account, ok := provider.AccountAddress(); ok {
		if err := walletconn.SaveSession(sessionDir, string(netCtx.Current()), account); err != nil {
			logger.GetLogger().Warn().Err(err).Msg("Could not persist wallet session")
		}
	} else if last, err := walletconn.LoadSession(sessionDir, string(netCtx.Current())); err == nil && last != "" {
		logger.GetLogger().Info().Str("account", last).Msg("No wallet connected; last session account shown for reference")
	}

	return &app{
		store:    store,
		netCtx:   netCtx,
		provider: provider,
		client:   client,
		assets:   assets.NewService(client, provider),
		timeout:  viper.GetDuration("receipt_timeout"),
	}, nil
}

func (a *app) close() {
	a.client.Close()
	a.provider.Close()
	a.store.Close()
}

func (a *app) serve() error {
	server := api.NewAPI(a.assets, a.store, a.netCtx, a.provider, a.client, a.timeout)
	return server.StartServer()
}

func (a *app) printBalances() error {
	list, err := a.assets.List(context.Background())
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("No wallet connected.")
		return nil
	}

	fmt.Printf("\n%-10s %-20s %s\n", "SYMBOL", "BALANCE", "NAME")
	for _, asset := range list {
		fmt.Printf("%-10s %-20s %s\n", asset.Symbol, asset.Balance, asset.Name)
	}
	return nil
}

func (a *app) printHistory() error {
	account, ok := a.provider.AccountAddress()
	if !ok {
		fmt.Println("No wallet connected.")
		return nil
	}

	records := a.store.Read(account, a.netCtx.ChainID())
	if len(records) == 0 {
		fmt.Println("No transactions yet.")
		return nil
	}

	for _, tx := range records {
		ts := time.UnixMilli(tx.Timestamp).Format(time.RFC3339)
		fmt.Printf("%s  %-9s  %s %s -> %s\n", ts, tx.Status, tx.Value, tx.Symbol, tx.To)
		fmt.Printf("    %s\n", a.netCtx.TxURL(tx.Hash))
	}
	return nil
}

// runSend drives one full send interaction and blocks until it reaches a
// terminal state or the receipt wait ends.
func (a *app) runSend(symbol, recipient, amount string) error {
	list, err := a.assets.List(context.Background())
	if err != nil {
		return err
	}
	asset, ok := assets.Find(list, symbol)
	if !ok {
		return fmt.Errorf("unknown asset %q", symbol)
	}

	machine := send.Open(asset, send.Deps{
		Store:          a.store,
		Client:         a.client,
		Network:        a.netCtx,
		Provider:       a.provider,
		ReceiptTimeout: a.timeout,
	})
	defer machine.Close()

	machine.SubmitInput(recipient, amount)
	if snap := machine.Snapshot(); snap.Error != "" {
		return fmt.Errorf("%s", snap.Error)
	}

	if fee := machine.EstimateFee(context.Background()); fee != "" {
		fmt.Printf("Estimated fee: %s BTC\n", fee)
	}

	fmt.Printf("Sending %s %s to %s...\n", amount, asset.Symbol, recipient)
	machine.ConfirmSend(context.Background())

	for {
		snap := machine.Snapshot()
		switch snap.Step {
		case send.StepSuccess:
			fmt.Printf("Transaction confirmed: %s\n", a.netCtx.TxURL(snap.TxHash))
			return nil
		case send.StepError:
			if snap.TxHash != "" {
				fmt.Printf("Transaction: %s\n", a.netCtx.TxURL(snap.TxHash))
			}
			return fmt.Errorf("%s", snap.Error)
		}
		time.Sleep(500 * time.Millisecond)
	}
}

func (a *app) interactiveSend(reader *bufio.Reader) error {
	fmt.Print("Enter the asset symbol (default BTC): ")
	symbol, _ := reader.ReadString('\n')
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		symbol = viper.GetString("native_symbol")
	}

	fmt.Print("Enter the recipient address: ")
	recipient, _ := reader.ReadString('\n')

	fmt.Print("Enter the amount: ")
	amount, _ := reader.ReadString('\n')

	return a.runSend(symbol, strings.TrimSpace(recipient), strings.TrimSpace(amount))
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()
		return app.serve()
	},
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show asset balances for the connected wallet",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()
		return app.printBalances()
	},
}

var sendCmd = &cobra.Command{
	Use:   "send [recipient] [amount]",
	Short: "Send a transfer and wait for its confirmation",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		symbol, _ := cmd.Flags().GetString("symbol")
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()
		return app.runSend(symbol, args[0], args[1])
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the transaction history for the active account and network",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()
		return app.printHistory()
	},
}

var networkCmd = &cobra.Command{
	Use:   "network [toggle]",
	Short: "Show or toggle the active network",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		if len(args) == 1 && args[0] == "toggle" {
			app.netCtx.Toggle()
		}
		params := app.netCtx.Params()
		fmt.Printf("Network:  %s\nChain ID: %d\nRPC:      %s\nExplorer: %s\n",
			params.Name, params.ChainID, params.RPCEndpoint, params.ExplorerURL)
		return nil
	},
}

var explorerLinkCmd = &cobra.Command{
	Use:   "explorer-link [tx|address] [value]",
	Short: "Print the block-explorer link for a transaction hash or address",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		var url string
		switch args[0] {
		case "tx":
			url = app.netCtx.TxURL(args[1])
		case "address":
			url = app.netCtx.AddressURL(args[1])
		default:
			return fmt.Errorf("expected tx or address, got %q", args[0])
		}

		fmt.Println(url)
		if copyFlag, _ := cmd.Flags().GetBool("copy"); copyFlag {
			if err := clipboard.WriteAll(url); err != nil {
				return fmt.Errorf("could not copy to clipboard: %w", err)
			}
			fmt.Println("Copied to clipboard.")
		}
		return nil
	},
}

var disconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Forget the saved wallet sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionDir := viper.GetString("session_dir")
		for _, n := range []network.Type{network.Mainnet, network.Testnet} {
			if err := walletconn.ClearSession(sessionDir, string(n)); err != nil {
				return fmt.Errorf("could not clear %s session: %w", n, err)
			}
		}
		fmt.Println("Saved sessions cleared.")
		return nil
	},
}

func init() {
	sendCmd.Flags().String("symbol", "BTC", "asset symbol to send")
	explorerLinkCmd.Flags().Bool("copy", false, "copy the link to the clipboard")
}
