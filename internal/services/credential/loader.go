// Package credential resolves login requests into caller credentials.
package credential

import (
	"context"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/authgate/authgate/internal/apictl"
	"github.com/authgate/authgate/internal/auth"
	"github.com/authgate/authgate/internal/repository"
	"github.com/authgate/authgate/internal/services/permcache"
)

// Loader authenticates account/password pairs against the account store and
// assembles the caller credential: the account, its domain code, and the
// effective permission set.
//
// Every failure surfaces as apictl.ErrLoadCredentialFailed so callers cannot
// distinguish an unknown account from a bad password or a backend fault. The
// underlying cause is logged server-side only.
type Loader struct {
	accounts repository.AccountRepository
	domains  repository.DomainRepository
	cache    *permcache.Cache
	tokenTTL time.Duration
	now      func() time.Time
}

// NewLoader wires a credential loader. tokenTTL sets how far in the future
// issued credentials expire.
func NewLoader(accounts repository.AccountRepository, domains repository.DomainRepository, cache *permcache.Cache, tokenTTL time.Duration) *Loader {
	return &Loader{
		accounts: accounts,
		domains:  domains,
		cache:    cache,
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

// LoadCredential verifies the password for the named account and returns the
// resolved caller. The account's last-login timestamp is updated best-effort;
// a failure there does not fail the login.
func (l *Loader) LoadCredential(ctx context.Context, account, password string) (auth.Caller, error) {
	record, err := l.accounts.GetActiveByName(ctx, account)
	if err != nil {
		log.Printf("credential load failed for %q: %v", account, err)
		return auth.Caller{}, apictl.ErrLoadCredentialFailed
	}

	if err := bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(password)); err != nil {
		log.Printf("credential load failed for %q: password mismatch", account)
		return auth.Caller{}, apictl.ErrLoadCredentialFailed
	}

	domain, err := l.domains.GetByID(ctx, record.DomainID)
	if err != nil {
		log.Printf("credential load failed for %q: %v", account, err)
		return auth.Caller{}, apictl.ErrLoadCredentialFailed
	}

	permissions, err := l.cache.PermissionsForAccount(ctx, record.ID)
	if err != nil {
		log.Printf("credential load failed for %q: %v", account, err)
		return auth.Caller{}, apictl.ErrLoadCredentialFailed
	}

	if err := l.accounts.UpdateLastLogin(ctx, record.ID); err != nil {
		log.Printf("update last login for %q: %v", account, err)
	}

	return auth.Caller{
		Account:     record.Name,
		Domain:      domain.Code,
		Permissions: permissions,
		ExpiresAt:   l.now().Add(l.tokenTTL),
	}, nil
}
