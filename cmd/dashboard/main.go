package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/prajalsharma/mezo-wallet/internal/config"
	"github.com/prajalsharma/mezo-wallet/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "mezo-dashboard",
	Short: "Mezo Wallet Dashboard",
	Long:  `A wallet dashboard backend for the Mezo network with both interactive and CLI modes.`,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(networkCmd)
	rootCmd.AddCommand(explorerLinkCmd)
	rootCmd.AddCommand(disconnectCmd)
}

func initConfig() {
	err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	logger.Init(viper.GetString("log_level"))
}

func main() {
	initConfig()
	if len(os.Args) > 1 {
		// CLI mode
		if err := rootCmd.Execute(); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	} else {
		// Interactive mode
		interactiveMode()
	}
}

func interactiveMode() {
	reader := bufio.NewReader(os.Stdin)

	app, err := newApp()
	if err != nil {
		log.Fatalf("Error starting dashboard: %v", err)
	}
	defer app.close()

	for {
		fmt.Println("\nMezo Wallet Dashboard")
		fmt.Printf("Network: %s\n", app.netCtx.Current())
		fmt.Println("1. Show balances")
		fmt.Println("2. Send a transfer")
		fmt.Println("3. Show transaction history")
		fmt.Println("4. Toggle network")
		fmt.Println("5. Start API server")
		fmt.Println("6. Exit")
		fmt.Print("\nEnter your choice (1, 2, 3, 4, 5, or 6): ")
		choice, _ := reader.ReadString('\n')
		choice = strings.TrimSpace(choice)

		switch choice {
		case "1":
			if err := app.printBalances(); err != nil {
				log.Printf("Error reading balances: %s", err)
			}
		case "2":
			if err := app.interactiveSend(reader); err != nil {
				log.Printf("Error sending transfer: %s", err)
			}
		case "3":
			if err := app.printHistory(); err != nil {
				log.Printf("Error reading history: %s", err)
			}
		case "4":
			next := app.netCtx.Toggle()
			fmt.Printf("Switched to %s\n", next)
		case "5":
			if err := app.serve(); err != nil {
				log.Printf("API server stopped: %s", err)
			}
		case "6":
			fmt.Println("Exiting program. Goodbye!")
			return
		default:
			fmt.Println("Invalid choice. Please try again.")
		}
	}
}
