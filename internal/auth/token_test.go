package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authgate/authgate/internal/apictl"
	"github.com/authgate/authgate/internal/config"
)

func testProcessor(t *testing.T) *TokenProcessor {
	t.Helper()
	return NewTokenProcessor(config.TokenConfig{
		Secret: "unit-test-secret",
		Issuer: "authgate-test",
		TTL:    time.Hour,
	})
}

func testCaller(expiry time.Time) Caller {
	return Caller{
		Account: "alice",
		Domain:  "payments",
		Permissions: PermissionSet{
			{Method: "GET", Pattern: "/api/accounts/{id}"},
			{Method: "*", Pattern: "/api/public/*"},
		},
		ExpiresAt: expiry,
	}
}

func TestTokenProcessor_RoundTrip(t *testing.T) {
	p := testProcessor(t)
	in := testCaller(time.Now().Add(30 * time.Minute))

	token, err := p.Marshal(in)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	out, err := p.Unmarshal(token)
	require.NoError(t, err)

	assert.Equal(t, in.Account, out.Account)
	assert.Equal(t, in.Domain, out.Domain)
	assert.Equal(t, in.Permissions, out.Permissions)
	assert.WithinDuration(t, in.ExpiresAt, out.ExpiresAt, time.Second)
}

func TestTokenProcessor_Expiry(t *testing.T) {
	p := testProcessor(t)
	issued := time.Now()
	expiry := issued.Add(10 * time.Minute)

	token, err := p.Marshal(testCaller(expiry))
	require.NoError(t, err)

	t.Run("valid strictly before expiry", func(t *testing.T) {
		p.now = func() time.Time { return expiry.Add(-time.Second) }
		_, err := p.Unmarshal(token)
		require.NoError(t, err)
	})

	t.Run("expired at expiry and after", func(t *testing.T) {
		for _, at := range []time.Time{expiry.Add(time.Second), expiry.Add(24 * time.Hour)} {
			p.now = func() time.Time { return at }
			_, err := p.Unmarshal(token)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apictl.ErrTokenExpired), "at %v: got %v", at, err)
		}
	})
}

func TestTokenProcessor_Tampered(t *testing.T) {
	p := testProcessor(t)

	token, err := p.Marshal(testCaller(time.Now().Add(time.Hour)))
	require.NoError(t, err)

	// Flip a byte inside the signed payload segment.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	if payload[3] == 'A' {
		payload[3] = 'B'
	} else {
		payload[3] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = p.Unmarshal(tampered)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apictl.ErrInvalidToken))
	assert.False(t, errors.Is(err, apictl.ErrTokenExpired))
}

func TestTokenProcessor_WrongKeyAndGarbage(t *testing.T) {
	p := testProcessor(t)
	other := NewTokenProcessor(config.TokenConfig{Secret: "different-secret", Issuer: "authgate-test", TTL: time.Hour})

	token, err := other.Marshal(testCaller(time.Now().Add(time.Hour)))
	require.NoError(t, err)

	for _, bad := range []string{token, "not-a-token", ""} {
		_, err := p.Unmarshal(bad)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apictl.ErrInvalidToken))
	}
}

func TestTokenProcessor_MarshalWithoutSecret(t *testing.T) {
	p := NewTokenProcessor(config.TokenConfig{Issuer: "authgate-test", TTL: time.Hour})

	_, err := p.Marshal(testCaller(time.Now().Add(time.Hour)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apictl.ErrTokenCreateFailed))
}

func TestTokenProcessor_MarshalDefaultsExpiry(t *testing.T) {
	p := testProcessor(t)

	token, err := p.Marshal(Caller{Account: "bob", Domain: "ops"})
	require.NoError(t, err)

	out, err := p.Unmarshal(token)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), out.ExpiresAt, 5*time.Second)
}

func TestAnonymousCaller(t *testing.T) {
	public := PermissionSet{{Method: "GET", Pattern: "/api/health"}}
	caller := AnonymousCaller(public)

	assert.True(t, caller.Anonymous())
	assert.Equal(t, AnonymousName, caller.Account)
	assert.Equal(t, AnonymousName, caller.Domain)
	assert.Equal(t, public, caller.Permissions)
	assert.True(t, caller.ExpiresAt.IsZero())

	assert.False(t, testCaller(time.Now()).Anonymous())
}
