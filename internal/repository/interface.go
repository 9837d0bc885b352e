package repository

import (
	"context"

	"github.com/authgate/authgate/internal/db/models"
)

// AccountRepository exposes persistence operations for login accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetActiveByName(ctx context.Context, name string) (*models.Account, error)
	UpdateLastLogin(ctx context.Context, id int64) error
	List(ctx context.Context) ([]models.Account, error)
}

// DomainRepository exposes persistence operations for tenant domains.
type DomainRepository interface {
	Create(ctx context.Context, domain *models.Domain) error
	GetByID(ctx context.Context, id int64) (*models.Domain, error)
	GetByCode(ctx context.Context, code string) (*models.Domain, error)
}

// RoleRepository exposes persistence operations for roles and their bindings.
type RoleRepository interface {
	Create(ctx context.Context, role *models.Role) error
	GetByName(ctx context.Context, domainID int64, name string) (*models.Role, error)
	BindAccount(ctx context.Context, accountID, roleID int64) error
	BindPermission(ctx context.Context, roleID, permissionID int64) error
}

// PermissionRepository exposes persistence operations for permission rows.
//
// "Status-effective" queries exclude soft-disabled rows (status = 0); they
// back both the permission cache and the integrity guard.
type PermissionRepository interface {
	Create(ctx context.Context, permission *models.Permission) error
	GetByID(ctx context.Context, id int64) (*models.Permission, error)
	List(ctx context.Context) ([]models.Permission, error)

	// ListPublic returns the active public rows: the anonymous permission set.
	ListPublic(ctx context.Context) ([]models.Permission, error)

	// ListByAccount resolves the active permission rows reachable from an
	// account through its active roles.
	ListByAccount(ctx context.Context, accountID int64) ([]models.Permission, error)

	// CountActiveByID counts status-effective rows with the given id (0 or 1).
	CountActiveByID(ctx context.Context, id int64) (int, error)

	// CountRoleBindings counts role bindings that still reference the given
	// permission id.
	CountRoleBindings(ctx context.Context, permissionID int64) (int, error)

	// Disable soft-disables the row (status = 0). Callers must have cleared
	// the transition through the integrity guard first.
	Disable(ctx context.Context, id int64) error
}
