package apictl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequestVerifiedType(t *testing.T) {
	t.Run("empty defaults to anonymous", func(t *testing.T) {
		got, err := ParseRequestVerifiedType("")
		require.NoError(t, err)
		assert.Equal(t, RequestAnonymous, got)
	})

	t.Run("known values", func(t *testing.T) {
		for _, want := range []RequestVerifiedType{RequestAnonymous, RequestLogin, RequestToken} {
			got, err := ParseRequestVerifiedType(string(want))
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	})

	t.Run("values are case-sensitive", func(t *testing.T) {
		_, err := ParseRequestVerifiedType("login")
		require.Error(t, err)
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, err := ParseRequestVerifiedType("BASIC")
		require.Error(t, err)
	})
}

func TestResponseTypeForError(t *testing.T) {
	cases := []struct {
		err  error
		want ResponseVerifiedType
	}{
		{ErrLoadCredentialFailed, ResponseAuthenticationFailed},
		{ErrInsufficientPrivileges, ResponseInsufficientPrivileges},
		{ErrInvalidToken, ResponseTokenInvalid},
		{ErrMalformedPayload, ResponseTokenInvalid},
		{ErrTokenExpired, ResponseTokenExpired},
	}

	for _, tc := range cases {
		got, ok := ResponseTypeForError(tc.err)
		require.True(t, ok, "error %v should map to a response type", tc.err)
		assert.Equal(t, tc.want, got)
	}

	// Errors outside the taxonomy must not be translated.
	_, ok := ResponseTypeForError(assert.AnError)
	assert.False(t, ok)
}

func TestResponseVerifiedTypeFailure(t *testing.T) {
	assert.False(t, ResponseLoginSuccess.Failure())
	assert.False(t, ResponseTokenAvailable.Failure())

	for _, rt := range []ResponseVerifiedType{
		ResponseAuthenticationFailed,
		ResponseInsufficientPrivileges,
		ResponseTokenInvalid,
		ResponseTokenExpired,
	} {
		assert.True(t, rt.Failure(), "%s should count as a failure outcome", rt)
	}
}
