package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/authgate/authgate/cmd/accounts"
	"github.com/authgate/authgate/cmd/cache"
	"github.com/authgate/authgate/cmd/perms"
	"github.com/authgate/authgate/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "authgate",
	Short: "Header-protocol access-control gate",
	Long: `Authgate places an access-control gate in front of an API: it classifies
every inbound request, authenticates the caller by password login, signed
token, or as anonymous, and authorizes the call against a cached permission
model before the handler runs.`,
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
	rootCmd.AddCommand(accounts.AccountsCmd)
	rootCmd.AddCommand(cache.CacheCmd)
	rootCmd.AddCommand(perms.PermsCmd)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
