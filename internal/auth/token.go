package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/authgate/authgate/internal/apictl"
	"github.com/authgate/authgate/internal/config"
)

// TokenProcessor serializes caller credentials into signed, time-bound
// tokens and verifies them back. Tokens are self-contained: account, domain,
// and permission set travel inside the signed payload, and no server-side
// store is consulted at verify time.
type TokenProcessor struct {
	secret []byte
	issuer string
	ttl    time.Duration

	// now is the verifier's clock; overridable in tests.
	now func() time.Time
}

// NewTokenProcessor builds a processor from the token configuration.
func NewTokenProcessor(cfg config.TokenConfig) *TokenProcessor {
	return &TokenProcessor{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    cfg.TTL,
		now:    time.Now,
	}
}

// tokenClaims is the signed payload: registered claims plus the caller's
// domain and permission set.
type tokenClaims struct {
	jwt.RegisteredClaims
	Domain      string        `json:"dom"`
	Permissions PermissionSet `json:"perms,omitempty"`
}

// Marshal signs the caller into a compact token string. The expiry embedded
// in the token is the credential's own expiry; a credential without one gets
// the configured TTL from now. Failures wrap apictl.ErrTokenCreateFailed.
func (p *TokenProcessor) Marshal(caller Caller) (string, error) {
	if len(p.secret) == 0 {
		return "", fmt.Errorf("%w: no signing secret configured", apictl.ErrTokenCreateFailed)
	}

	expiry := caller.ExpiresAt
	if expiry.IsZero() {
		expiry = p.now().Add(p.ttl)
	}

	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   caller.Account,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(p.now()),
			ExpiresAt: jwt.NewNumericDate(expiry),
			ID:        uuid.NewString(),
		},
		Domain:      caller.Domain,
		Permissions: caller.Permissions,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apictl.ErrTokenCreateFailed, err)
	}
	return signed, nil
}

// Unmarshal verifies a token and reconstructs the caller credential.
// Signature or structure failures yield apictl.ErrInvalidToken; a valid
// token past its expiry yields apictl.ErrTokenExpired. Expiry is judged at
// verification time against the processor's clock, never trusted blindly
// from the payload.
func (p *TokenProcessor) Unmarshal(token string) (Caller, error) {
	claims := &tokenClaims{}

	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return p.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(p.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Caller{}, fmt.Errorf("%w: %v", apictl.ErrTokenExpired, err)
		}
		return Caller{}, fmt.Errorf("%w: %v", apictl.ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return Caller{}, fmt.Errorf("%w: missing subject", apictl.ErrInvalidToken)
	}

	return Caller{
		Account:     claims.Subject,
		Domain:      claims.Domain,
		Permissions: claims.Permissions,
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}
