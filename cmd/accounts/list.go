package accounts

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/authgate/authgate/internal/config"
	"github.com/authgate/authgate/internal/db/bunx"
	"github.com/authgate/authgate/internal/db/models"
	"github.com/authgate/authgate/internal/repository"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		db, err := bunx.NewDB(cfg.DatabaseURL, cfg.MaxDBConnections)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer bunx.Close(db)

		accounts, err := repository.NewBunAccountRepository(db).List(context.Background())
		if err != nil {
			return fmt.Errorf("list accounts: %w", err)
		}

		if len(accounts) == 0 {
			fmt.Println("No accounts found")
			return nil
		}

		for _, account := range accounts {
			status := "active"
			if account.Status == models.StatusDisabled {
				status = "disabled"
			}
			lastLogin := "never"
			if account.LastLoginAt != nil {
				lastLogin = account.LastLoginAt.Format("2006-01-02 15:04:05")
			}
			fmt.Printf("%-6d %-24s domain=%-4d %-8s last_login=%s\n",
				account.ID, account.Name, account.DomainID, status, lastLogin)
		}
		return nil
	},
}
