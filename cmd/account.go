package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/liminalcash/nimchat/internal/auth"
	"github.com/liminalcash/nimchat/internal/banking"
	"github.com/liminalcash/nimchat/internal/config"
)

var (
	transactionsPage  int
	transactionsLimit int
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Inspect the active account without starting the chat",
	Long:  `Query balances, rates and history for the active profile directly. Read-only; sending money always goes through the assistant and its confirmation flow.`,
}

func bankingClient() (*banking.Client, context.Context, context.CancelFunc) {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if !cfg.IsValid() {
		log.Fatalf("No access token configured, run 'nimchat profile add' first")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	return banking.New(cfg.GetAPIURL(), auth.TokenFunc(cfg.GetAccessToken)), ctx, cancel
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show current and savings balances",
	Run: func(cmd *cobra.Command, args []string) {
		bc, ctx, cancel := bankingClient()
		defer cancel()

		bal, err := bc.Balance(ctx)
		if err != nil {
			log.Fatalf("Failed to fetch balance: %v", err)
		}
		fmt.Printf("Balance: %.2f %s\n", bal.Balance, bal.Currency)

		sav, err := bc.SavingsBalance(ctx)
		if err != nil {
			log.Fatalf("Failed to fetch savings balance: %v", err)
		}
		fmt.Printf("Savings: %.2f %s\n", sav.Balance, sav.Currency)
		for _, pos := range sav.Positions {
			fmt.Printf("  %s: %.2f (%.2f%% APY)\n", pos.ID, pos.Amount, pos.APY)
		}
	},
}

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Show savings vault rates",
	Run: func(cmd *cobra.Command, args []string) {
		bc, ctx, cancel := bankingClient()
		defer cancel()

		rates, err := bc.VaultRates(ctx)
		if err != nil {
			log.Fatalf("Failed to fetch rates: %v", err)
		}
		for _, r := range rates.Rates {
			fmt.Printf("%s: %.2f%% APY", r.Vault, r.APY)
			if r.Description != "" {
				fmt.Printf(" (%s)", r.Description)
			}
			fmt.Println()
		}
	},
}

var transactionsCmd = &cobra.Command{
	Use:   "transactions",
	Short: "List recent transactions",
	Run: func(cmd *cobra.Command, args []string) {
		bc, ctx, cancel := bankingClient()
		defer cancel()

		txns, err := bc.Transactions(ctx, transactionsPage, transactionsLimit)
		if err != nil {
			log.Fatalf("Failed to fetch transactions: %v", err)
		}

		for _, t := range txns.Transactions {
			line := fmt.Sprintf("%s  %-10s %10.2f %s  [%s]", t.CreatedAt, t.Type, t.Amount, t.Currency, t.Status)
			if t.Counterparty != "" {
				line += "  " + t.Counterparty
			}
			fmt.Println(line)
		}
		fmt.Printf("\nPage %d of %d transactions\n", txns.Pagination.Page, txns.Pagination.Total)
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the authenticated account",
	Run: func(cmd *cobra.Command, args []string) {
		bc, ctx, cancel := bankingClient()
		defer cancel()

		profile, err := bc.Profile(ctx)
		if err != nil {
			log.Fatalf("Failed to fetch profile: %v", err)
		}

		fmt.Printf("ID:       %s\n", profile.ID)
		fmt.Printf("Email:    %s\n", profile.Email)
		if profile.Name != "" {
			fmt.Printf("Name:     %s\n", profile.Name)
		}
		fmt.Printf("Verified: %t\n", profile.Verified)
	},
}

func init() {
	transactionsCmd.Flags().IntVar(&transactionsPage, "page", 1, "page to fetch")
	transactionsCmd.Flags().IntVar(&transactionsLimit, "limit", 20, "transactions per page")

	accountCmd.AddCommand(balanceCmd)
	accountCmd.AddCommand(ratesCmd)
	accountCmd.AddCommand(transactionsCmd)
	accountCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(accountCmd)
}
