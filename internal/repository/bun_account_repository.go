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

// BunAccountRepository implements AccountRepository using Bun ORM
type BunAccountRepository struct {
	db *bun.DB
}

// NewBunAccountRepository creates a new Bun-based account repository
func NewBunAccountRepository(db *bun.DB) *BunAccountRepository {
	return &BunAccountRepository{db: db}
}

// Create inserts a new account into the database
func (r *BunAccountRepository) Create(ctx context.Context, account *models.Account) error {
	_, err := r.db.NewInsert().
		Model(account).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

// GetActiveByName retrieves an active (status-effective) account by name
func (r *BunAccountRepository) GetActiveByName(ctx context.Context, name string) (*models.Account, error) {
	account := new(models.Account)
	err := r.db.NewSelect().
		Model(account).
		Where("name = ?", name).
		Where("status != ?", models.StatusDisabled).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account not found: %s", name)
		}
		return nil, fmt.Errorf("get account by name: %w", err)
	}
	return account, nil
}

// UpdateLastLogin updates the last_login_at timestamp for an account
func (r *BunAccountRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	now := time.Now()
	_, err := r.db.NewUpdate().
		Model((*models.Account)(nil)).
		Set("last_login_at = ?", now).
		Set("updated_at = ?", now).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

// List retrieves all accounts
func (r *BunAccountRepository) List(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	err := r.db.NewSelect().
		Model(&accounts).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

// BunDomainRepository implements DomainRepository using Bun ORM
type BunDomainRepository struct {
	db *bun.DB
}

// NewBunDomainRepository creates a new Bun-based domain repository
func NewBunDomainRepository(db *bun.DB) *BunDomainRepository {
	return &BunDomainRepository{db: db}
}

// Create inserts a new domain into the database
func (r *BunDomainRepository) Create(ctx context.Context, domain *models.Domain) error {
	_, err := r.db.NewInsert().
		Model(domain).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create domain: %w", err)
	}
	return nil
}

// GetByID retrieves a domain by its ID
func (r *BunDomainRepository) GetByID(ctx context.Context, id int64) (*models.Domain, error) {
	domain := new(models.Domain)
	err := r.db.NewSelect().
		Model(domain).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("domain not found: %d", id)
		}
		return nil, fmt.Errorf("get domain by ID: %w", err)
	}
	return domain, nil
}

// GetByCode retrieves a domain by its unique code
func (r *BunDomainRepository) GetByCode(ctx context.Context, code string) (*models.Domain, error) {
	domain := new(models.Domain)
	err := r.db.NewSelect().
		Model(domain).
		Where("code = ?", code).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("domain not found: %s", code)
		}
		return nil, fmt.Errorf("get domain by code: %w", err)
	}
	return domain, nil
}

// BunRoleRepository implements RoleRepository using Bun ORM
type BunRoleRepository struct {
	db *bun.DB
}

// NewBunRoleRepository creates a new Bun-based role repository
func NewBunRoleRepository(db *bun.DB) *BunRoleRepository {
	return &BunRoleRepository{db: db}
}

// Create inserts a new role into the database
func (r *BunRoleRepository) Create(ctx context.Context, role *models.Role) error {
	_, err := r.db.NewInsert().
		Model(role).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create role: %w", err)
	}
	return nil
}

// GetByName retrieves an active role by domain and name
func (r *BunRoleRepository) GetByName(ctx context.Context, domainID int64, name string) (*models.Role, error) {
	role := new(models.Role)
	err := r.db.NewSelect().
		Model(role).
		Where("domain_id = ?", domainID).
		Where("name = ?", name).
		Where("status != ?", models.StatusDisabled).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("role not found: %s", name)
		}
		return nil, fmt.Errorf("get role by name: %w", err)
	}
	return role, nil
}

// BindAccount binds an account to a role
func (r *BunRoleRepository) BindAccount(ctx context.Context, accountID, roleID int64) error {
	binding := &models.AccountRole{AccountID: accountID, RoleID: roleID}
	_, err := r.db.NewInsert().
		Model(binding).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("bind account to role: %w", err)
	}
	return nil
}

// BindPermission binds a permission to a role
func (r *BunRoleRepository) BindPermission(ctx context.Context, roleID, permissionID int64) error {
	binding := &models.RolePermission{RoleID: roleID, PermissionID: permissionID}
	_, err := r.db.NewInsert().
		Model(binding).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("bind permission to role: %w", err)
	}
	return nil
}
