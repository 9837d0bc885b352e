// Package permcache caches permission sets for the request path.
//
// Public permissions back every anonymous request, so they live in an
// immutable snapshot behind an atomic.Value for lock-free reads. Per-account
// sets are looked up rarely enough that an expiring LRU in front of the
// repository is sufficient.
package permcache

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/authgate/authgate/internal/auth"
	"github.com/authgate/authgate/internal/db/models"
	"github.com/authgate/authgate/internal/repository"
)

const (
	accountCacheSize = 1024
	accountCacheTTL  = 5 * time.Minute
)

// Snapshot is an immutable view of the public permission set. Never modified
// after creation; Refresh builds a new one and atomically swaps the pointer.
type Snapshot struct {
	Public    auth.PermissionSet
	Version   int
	CreatedAt time.Time
}

// Cache provides lock-free access to public permissions and a bounded
// expiring cache of per-account permission sets.
type Cache struct {
	snapshot    atomic.Value // Holds *Snapshot
	permissions repository.PermissionRepository
	accounts    *expirable.LRU[int64, auth.PermissionSet]
}

// New creates the cache and performs the initial load from the database.
//
// Returns an error if the initial load fails; the cache must be populated
// before the server can start serving anonymous traffic.
func New(permissions repository.PermissionRepository) (*Cache, error) {
	cache := &Cache{
		permissions: permissions,
		accounts:    expirable.NewLRU[int64, auth.PermissionSet](accountCacheSize, nil, accountCacheTTL),
	}

	ctx := context.Background()
	if err := cache.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("initial cache load: %w", err)
	}

	return cache, nil
}

// Get returns the current snapshot for lock-free reads.
//
// Never blocks and is safe for concurrent access from unlimited goroutines.
// Returns nil only if the cache was never loaded, which cannot happen after
// a successful New call.
func (c *Cache) Get() *Snapshot {
	val := c.snapshot.Load()
	if val == nil {
		return nil
	}
	return val.(*Snapshot)
}

// Public returns the cached public permission set. The returned slice is
// shared and must not be mutated.
func (c *Cache) Public() auth.PermissionSet {
	snapshot := c.Get()
	if snapshot == nil {
		return nil
	}
	return snapshot.Public
}

// Refresh rebuilds the public snapshot from the database and atomically
// swaps it in, then drops all per-account entries so they reload on next
// use.
//
// Safe to call concurrently with readers: they see either the old or new
// snapshot, never a partial update. Called at startup, by the background
// refresh goroutine, and by the admin API after permission mutations.
func (c *Cache) Refresh(ctx context.Context) error {
	rows, err := c.permissions.ListPublic(ctx)
	if err != nil {
		return fmt.Errorf("list public permissions: %w", err)
	}

	prevVersion := 0
	if prev := c.snapshot.Load(); prev != nil {
		prevVersion = prev.(*Snapshot).Version
	}

	c.snapshot.Store(&Snapshot{
		Public:    toPermissionSet(rows),
		Version:   prevVersion + 1,
		CreatedAt: time.Now(),
	})

	c.accounts.Purge()

	return nil
}

// PermissionsForAccount returns the effective permission set for an account,
// serving from the LRU when possible and falling through to the repository
// on a miss.
func (c *Cache) PermissionsForAccount(ctx context.Context, accountID int64) (auth.PermissionSet, error) {
	if set, ok := c.accounts.Get(accountID); ok {
		return set, nil
	}

	rows, err := c.permissions.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list account permissions: %w", err)
	}

	set := toPermissionSet(rows)
	c.accounts.Add(accountID, set)
	return set, nil
}

func toPermissionSet(rows []models.Permission) auth.PermissionSet {
	set := make(auth.PermissionSet, 0, len(rows))
	for _, row := range rows {
		set = append(set, auth.Permission{
			Method:    row.Method,
			Pattern:   row.Pattern,
			ScopeExpr: row.ScopeExpr,
		})
	}
	return set
}
