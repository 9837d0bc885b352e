package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Status values shared by all identity tables. Zero is a soft delete: the
// row stays for audit but is invisible to every status-effective query.
const (
	StatusDisabled byte = 0
	StatusActive   byte = 1
)

// Domain is a tenant boundary. Accounts, roles, and permissions are scoped
// to exactly one domain.
type Domain struct {
	bun.BaseModel `bun:"table:domains,alias:d"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Code      string    `bun:"code,notnull,unique"`
	Name      string    `bun:"name"`
	Status    byte      `bun:"status,notnull,default:1"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// Account is a login principal: a name unique within the system, a bcrypt
// password hash, and a home domain.
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:a"`

	ID           int64      `bun:"id,pk,autoincrement"`
	Name         string     `bun:"name,notnull,unique"`
	PasswordHash string     `bun:"password_hash,notnull"`
	DomainID     int64      `bun:"domain_id,notnull"` // FK to domains(id)
	Status       byte       `bun:"status,notnull,default:1"`
	CreatedAt    time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt    time.Time  `bun:"updated_at,notnull,default:current_timestamp"`
	LastLoginAt  *time.Time `bun:"last_login_at"`
}

// Role groups permissions within a domain and is what accounts are bound to.
type Role struct {
	bun.BaseModel `bun:"table:roles,alias:r"`

	ID        int64     `bun:"id,pk,autoincrement"`
	DomainID  int64     `bun:"domain_id,notnull"` // FK to domains(id)
	Name      string    `bun:"name,notnull"`
	Status    byte      `bun:"status,notnull,default:1"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// Permission is one grantable API-control entry. Public rows form the
// anonymous permission set. Status 0 soft-disables the row; the integrity
// guard in internal/datafilter gates that transition.
type Permission struct {
	bun.BaseModel `bun:"table:permissions,alias:p"`

	ID        int64     `bun:"id,pk,autoincrement"`
	DomainID  int64     `bun:"domain_id,notnull"` // FK to domains(id)
	Method    string    `bun:"method,notnull"`    // HTTP method or "*"
	Pattern   string    `bun:"pattern,notnull"`   // URI pattern, KeyMatch2 syntax
	ScopeExpr string    `bun:"scope_expr"`        // optional go-bexpr constraint
	Public    bool      `bun:"public,notnull,default:false"`
	Status    byte      `bun:"status,notnull,default:1"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// RolePermission binds a permission to a role. Active bindings are what the
// integrity guard counts as references when a permission disable is requested.
type RolePermission struct {
	bun.BaseModel `bun:"table:role_permissions,alias:rp"`

	ID           int64 `bun:"id,pk,autoincrement"`
	RoleID       int64 `bun:"role_id,notnull"`       // FK to roles(id)
	PermissionID int64 `bun:"permission_id,notnull"` // FK to permissions(id)
}

// AccountRole binds an account to a role.
type AccountRole struct {
	bun.BaseModel `bun:"table:account_roles,alias:ar"`

	ID        int64 `bun:"id,pk,autoincrement"`
	AccountID int64 `bun:"account_id,notnull"` // FK to accounts(id)
	RoleID    int64 `bun:"role_id,notnull"`    // FK to roles(id)
}
