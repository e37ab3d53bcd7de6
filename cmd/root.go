package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deckhall/deckapi/cmd/users"
	"github.com/deckhall/deckapi/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "deckapi",
	Short: "Deck Hall API server for collectible card deck building",
	Long: `Deck Hall API serves the deck builder backend: user accounts, deck
CRUD, deck list editing via Scryfall card links, likes, and search.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return nil
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().String("db-url", "", "Database connection URL (env: DATABASE_URL)")
	rootCmd.PersistentFlags().String("server-addr", "", "Server bind address (env: SERVER_ADDR)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging (env: DEBUG)")

	// Add subcommands
	rootCmd.AddCommand(users.UsersCmd)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
