package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/liminalcash/nimchat/internal/app"
)

var rootCmd = &cobra.Command{
	Use:   "nimchat",
	Short: "Terminal client for the Liminal banking assistant",
	Long:  `nimchat is a terminal chat client for the Liminal banking assistant. Money-moving actions always require an explicit in-terminal confirmation.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Default behavior: run the chat application
		application, err := app.NewApplication()
		if err != nil {
			log.Fatalf("Failed to create application: %v", err)
		}
		defer application.Stop()

		if err := application.Start(); err != nil {
			log.Fatalf("Application error: %v", err)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution error: %v", err)
		os.Exit(1)
	}
}

func init() {
	// Add subcommands
	rootCmd.AddCommand(profileCmd)
}
