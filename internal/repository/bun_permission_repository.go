package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/authgate/authgate/internal/db/models"
)

// BunPermissionRepository implements PermissionRepository using Bun ORM
type BunPermissionRepository struct {
	db *bun.DB
}

// NewBunPermissionRepository creates a new Bun-based permission repository
func NewBunPermissionRepository(db *bun.DB) *BunPermissionRepository {
	return &BunPermissionRepository{db: db}
}

// Create inserts a new permission into the database
func (r *BunPermissionRepository) Create(ctx context.Context, permission *models.Permission) error {
	_, err := r.db.NewInsert().
		Model(permission).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create permission: %w", err)
	}
	return nil
}

// GetByID retrieves a permission by its ID regardless of status
func (r *BunPermissionRepository) GetByID(ctx context.Context, id int64) (*models.Permission, error) {
	permission := new(models.Permission)
	err := r.db.NewSelect().
		Model(permission).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("permission not found: %d", id)
		}
		return nil, fmt.Errorf("get permission by ID: %w", err)
	}
	return permission, nil
}

// List retrieves all permissions
func (r *BunPermissionRepository) List(ctx context.Context) ([]models.Permission, error) {
	var permissions []models.Permission
	err := r.db.NewSelect().
		Model(&permissions).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	return permissions, nil
}

// ListPublic retrieves the active public permissions (the anonymous set)
func (r *BunPermissionRepository) ListPublic(ctx context.Context) ([]models.Permission, error) {
	var permissions []models.Permission
	err := r.db.NewSelect().
		Model(&permissions).
		Where("p.public = ?", true).
		Where("p.status != ?", models.StatusDisabled).
		Order("p.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list public permissions: %w", err)
	}
	return permissions, nil
}

// ListByAccount resolves the active permissions reachable from an account
// through its active roles.
func (r *BunPermissionRepository) ListByAccount(ctx context.Context, accountID int64) ([]models.Permission, error) {
	var permissions []models.Permission
	err := r.db.NewSelect().
		Model(&permissions).
		Distinct().
		Join("JOIN role_permissions AS rp ON rp.permission_id = p.id").
		Join("JOIN roles AS r ON r.id = rp.role_id").
		Join("JOIN account_roles AS ar ON ar.role_id = r.id").
		Where("ar.account_id = ?", accountID).
		Where("r.status != ?", models.StatusDisabled).
		Where("p.status != ?", models.StatusDisabled).
		Order("p.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list permissions by account: %w", err)
	}
	return permissions, nil
}

// CountActiveByID counts status-effective rows with the given id
func (r *BunPermissionRepository) CountActiveByID(ctx context.Context, id int64) (int, error) {
	count, err := r.db.NewSelect().
		Model((*models.Permission)(nil)).
		Where("id = ?", id).
		Where("status != ?", models.StatusDisabled).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count active permission by id: %w", err)
	}
	return count, nil
}

// CountRoleBindings counts role bindings referencing the given permission id
func (r *BunPermissionRepository) CountRoleBindings(ctx context.Context, permissionID int64) (int, error) {
	count, err := r.db.NewSelect().
		Model((*models.RolePermission)(nil)).
		Where("permission_id = ?", permissionID).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count role bindings: %w", err)
	}
	return count, nil
}

// Disable soft-disables a permission row (status = 0)
func (r *BunPermissionRepository) Disable(ctx context.Context, id int64) error {
	result, err := r.db.NewUpdate().
		Model((*models.Permission)(nil)).
		Set("status = ?", models.StatusDisabled).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("disable permission: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("permission not found: %d", id)
	}

	return nil
}
