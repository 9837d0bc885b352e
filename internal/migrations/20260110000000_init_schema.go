package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/authgate/authgate/internal/db/models"
)

func init() {
	Migrations.MustRegister(up_20260110000000, down_20260110000000)
}

// up_20260110000000 initializes the full identity schema
func up_20260110000000(ctx context.Context, db *bun.DB) error {
	tables := []struct {
		name  string
		model any
	}{
		{"domains", (*models.Domain)(nil)},
		{"accounts", (*models.Account)(nil)},
		{"roles", (*models.Role)(nil)},
		{"permissions", (*models.Permission)(nil)},
		{"role_permissions", (*models.RolePermission)(nil)},
		{"account_roles", (*models.AccountRole)(nil)},
	}

	for _, table := range tables {
		fmt.Printf(" [up] creating %s table...", table.name)
		_, err := db.NewCreateTable().
			Model(table.model).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create %s table: %w", table.name, err)
		}
		fmt.Println(" OK")
	}

	indexes := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_accounts_name ON accounts(name)`,
		`CREATE INDEX IF NOT EXISTS idx_accounts_domain ON accounts(domain_id)`,
		`CREATE INDEX IF NOT EXISTS idx_roles_domain ON roles(domain_id)`,
		`CREATE INDEX IF NOT EXISTS idx_permissions_domain ON permissions(domain_id)`,
		`CREATE INDEX IF NOT EXISTS idx_permissions_public ON permissions(public, status)`,
		`CREATE INDEX IF NOT EXISTS idx_role_permissions_permission ON role_permissions(permission_id)`,
		`CREATE INDEX IF NOT EXISTS idx_role_permissions_role ON role_permissions(role_id)`,
		`CREATE INDEX IF NOT EXISTS idx_account_roles_account ON account_roles(account_id)`,
	}

	fmt.Print(" [up] creating indexes...")
	for _, stmt := range indexes {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	fmt.Println(" OK")

	return nil
}

// down_20260110000000 drops the identity schema
func down_20260110000000(ctx context.Context, db *bun.DB) error {
	// Drop in reverse dependency order.
	for _, table := range []string{"account_roles", "role_permissions", "permissions", "roles", "accounts", "domains"} {
		fmt.Printf(" [down] dropping %s table...", table)
		if _, err := db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
			return fmt.Errorf("failed to drop %s table: %w", table, err)
		}
		fmt.Println(" OK")
	}
	return nil
}
