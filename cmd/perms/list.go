package perms

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
	Short: "List permission records",
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

		permissions, err := repository.NewBunPermissionRepository(db).List(context.Background())
		if err != nil {
			return fmt.Errorf("list permissions: %w", err)
		}

		if len(permissions) == 0 {
			fmt.Println("No permissions found")
			return nil
		}

		for _, p := range permissions {
			status := "active"
			if p.Status == models.StatusDisabled {
				status = "disabled"
			}
			visibility := "private"
			if p.Public {
				visibility = "public"
			}
			fmt.Printf("%-6d %-7s %-32s %-8s %-8s scope=%s\n",
				p.ID, p.Method, p.Pattern, visibility, status, p.ScopeExpr)
		}
		return nil
	},
}
