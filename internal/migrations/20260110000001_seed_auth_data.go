package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/authgate/authgate/internal/db/models"
)

func init() {
	Migrations.MustRegister(up_20260110000001, down_20260110000001)
}

// up_20260110000001 seeds the default domain and the public permission set.
// Idempotent: re-running it leaves existing rows alone.
func up_20260110000001(ctx context.Context, db *bun.DB) error {
	fmt.Print(" [up] seeding default domain...")

	domain := models.Domain{Code: "core", Name: "Core services", Status: models.StatusActive}
	_, err := db.NewInsert().
		Model(&domain).
		On("CONFLICT (code) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed default domain: %w", err)
	}

	if err := db.NewSelect().Model(&domain).Where("code = ?", "core").Scan(ctx); err != nil {
		return fmt.Errorf("failed to read back default domain: %w", err)
	}
	fmt.Println(" OK")

	fmt.Print(" [up] seeding public permissions...")

	// Endpoints every caller may reach anonymously.
	publicPermissions := []models.Permission{
		{DomainID: domain.ID, Method: "GET", Pattern: "/health", Public: true, Status: models.StatusActive},
		{DomainID: domain.ID, Method: "GET", Pattern: "/api/ping", Public: true, Status: models.StatusActive},
	}

	for i := range publicPermissions {
		exists, err := db.NewSelect().
			Model((*models.Permission)(nil)).
			Where("method = ?", publicPermissions[i].Method).
			Where("pattern = ?", publicPermissions[i].Pattern).
			Exists(ctx)
		if err != nil {
			return fmt.Errorf("failed to check seed permission: %w", err)
		}
		if exists {
			continue
		}
		if _, err := db.NewInsert().Model(&publicPermissions[i]).Exec(ctx); err != nil {
			return fmt.Errorf("failed to seed public permission: %w", err)
		}
	}
	fmt.Println(" OK")

	fmt.Print(" [up] seeding admin role...")

	role := models.Role{DomainID: domain.ID, Name: "admin", Status: models.StatusActive}
	exists, err := db.NewSelect().
		Model((*models.Role)(nil)).
		Where("domain_id = ?", domain.ID).
		Where("name = ?", "admin").
		Exists(ctx)
	if err != nil {
		return fmt.Errorf("failed to check admin role: %w", err)
	}
	if !exists {
		if _, err := db.NewInsert().Model(&role).Exec(ctx); err != nil {
			return fmt.Errorf("failed to seed admin role: %w", err)
		}

		adminPermission := models.Permission{
			DomainID: domain.ID,
			Method:   "*",
			Pattern:  "/*",
			Status:   models.StatusActive,
		}
		if _, err := db.NewInsert().Model(&adminPermission).Exec(ctx); err != nil {
			return fmt.Errorf("failed to seed admin permission: %w", err)
		}

		binding := models.RolePermission{RoleID: role.ID, PermissionID: adminPermission.ID}
		if _, err := db.NewInsert().Model(&binding).Exec(ctx); err != nil {
			return fmt.Errorf("failed to bind admin permission: %w", err)
		}
	}
	fmt.Println(" OK")

	return nil
}

// down_20260110000001 removes seeded rows. Best effort: rows created by
// operators alongside the seed data are left untouched.
func down_20260110000001(ctx context.Context, db *bun.DB) error {
	fmt.Print(" [down] removing seeded permissions...")
	_, err := db.NewDelete().
		Model((*models.Permission)(nil)).
		Where("pattern IN (?)", bun.In([]string{"/health", "/api/ping"})).
		Where("public = ?", true).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to remove seeded permissions: %w", err)
	}
	fmt.Println(" OK")
	return nil
}
