package perms

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/authgate/authgate/internal/config"
	"github.com/authgate/authgate/internal/datafilter"
	"github.com/authgate/authgate/internal/db/bunx"
	"github.com/authgate/authgate/internal/repository"
)

var disableIDFlag int64

var disableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Soft-disable a permission record",
	Long: `Sets a permission record to status 0 after it clears the integrity
guards: the record must exist in an active state and must not be referenced
by any role binding.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if disableIDFlag <= 0 {
			return fmt.Errorf("--id flag is required")
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		db, err := bunx.NewDB(cfg.DatabaseURL, cfg.MaxDBConnections)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer bunx.Close(db)

		ctx := context.Background()
		permissionRepo := repository.NewBunPermissionRepository(db)
		guard := datafilter.NewPermissionDataFilter(permissionRepo)

		filters := []datafilter.Filter{{Field: datafilter.FieldID, Value: disableIDFlag}}
		if err := guard.FilterNoStatusEqualZero(ctx, filters); err != nil {
			return err
		}
		if err := guard.FilterStatusEqualZero(ctx, filters); err != nil {
			return err
		}

		if err := permissionRepo.Disable(ctx, disableIDFlag); err != nil {
			return fmt.Errorf("disable permission %d: %w", disableIDFlag, err)
		}

		fmt.Printf("Permission %d disabled\n", disableIDFlag)
		return nil
	},
}
