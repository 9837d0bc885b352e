// Package datafilter guards permission rows against unsafe mutation.
//
// The guards are read-only pre-checks run by the administrative path before
// it mutates a row: they gate the transition, they never perform it.
package datafilter

import (
	"context"
	"fmt"

	"github.com/authgate/authgate/internal/repository"
)

// FieldType identifies which column a filter entry constrains. Only the id
// field participates in guard decisions today.
type FieldType int

const (
	// FieldID constrains the primary key.
	FieldID FieldType = iota
	// FieldName constrains the name column; carried for callers that filter
	// on it, ignored by the guards.
	FieldName
)

// Filter is one constraint entry. Filters preserve caller order, which
// matters: the existence guard inspects only the first id-keyed entry.
type Filter struct {
	Field FieldType
	Value int64
}

// ConflictError rejects a status transition because the row is still
// referenced elsewhere.
type ConflictError struct {
	Table string
	Field string
	ID    int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("data conflict: %s with %s=%d is still referenced", e.Table, e.Field, e.ID)
}

// NotFoundError rejects an operation targeting a row that does not exist or
// is already soft-disabled.
type NotFoundError struct {
	Table string
	Field string
	ID    int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("data integrity: %s with %s=%d does not exist", e.Table, e.Field, e.ID)
}

// permissionTable is the name reported in guard rejections.
const permissionTable = "permissions"

// PermissionDataFilter implements the integrity guards for permission rows.
type PermissionDataFilter struct {
	permissions repository.PermissionRepository
}

// NewPermissionDataFilter wires the guard to the permission repository.
func NewPermissionDataFilter(permissions repository.PermissionRepository) *PermissionDataFilter {
	return &PermissionDataFilter{permissions: permissions}
}

// FilterStatusEqualZero gates the transition to status 0: every id-keyed
// entry naming a status-effective row that is still referenced by role
// bindings is rejected with a ConflictError. Unreferenced or already
// disabled rows pass.
func (f *PermissionDataFilter) FilterStatusEqualZero(ctx context.Context, filters []Filter) error {
	for _, entry := range filters {
		if entry.Field != FieldID {
			continue
		}

		count, err := f.permissions.CountActiveByID(ctx, entry.Value)
		if err != nil {
			return fmt.Errorf("count active permissions: %w", err)
		}
		if count <= 0 {
			continue
		}

		refs, err := f.permissions.CountRoleBindings(ctx, entry.Value)
		if err != nil {
			return fmt.Errorf("count role bindings: %w", err)
		}
		if refs > 0 {
			return &ConflictError{Table: permissionTable, Field: "id", ID: entry.Value}
		}
	}
	return nil
}

// FilterNoStatusEqualZero gates operations that require a live target row:
// the first id-keyed entry must name a status-effective row or the call
// fails with a NotFoundError.
//
// Only the first id entry is checked; later entries are ignored. Callers
// pass a single id in practice, so the behavior is kept rather than widened.
// See the package tests, which pin it down.
func (f *PermissionDataFilter) FilterNoStatusEqualZero(ctx context.Context, filters []Filter) error {
	for _, entry := range filters {
		if entry.Field != FieldID {
			continue
		}

		count, err := f.permissions.CountActiveByID(ctx, entry.Value)
		if err != nil {
			return fmt.Errorf("count active permissions: %w", err)
		}
		if count <= 0 {
			return &NotFoundError{Table: permissionTable, Field: "id", ID: entry.Value}
		}
		break
	}
	return nil
}
