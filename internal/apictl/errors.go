package apictl

import "errors"

// Protocol failure taxonomy. All are terminal for the current request and
// reported through the response-type header; none are retried server-side.
var (
	// ErrLoadCredentialFailed covers every LOGIN resolution failure: unknown
	// account, bad password, disabled account, permission lookup error. The
	// cause is deliberately undifferentiated on the wire so callers cannot
	// enumerate accounts.
	ErrLoadCredentialFailed = errors.New("load credential failed")

	// ErrInvalidToken covers a malformed request-type value, a malformed
	// login payload, and a token whose signature or structure fails
	// verification.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired marks a structurally valid token past its expiry.
	ErrTokenExpired = errors.New("token expired")

	// ErrInsufficientPrivileges marks a resolved caller whose permission set
	// does not authorize the request.
	ErrInsufficientPrivileges = errors.New("insufficient privileges")

	// ErrTokenCreateFailed marks a failure to issue a token after a
	// successful login. Recoverable: the gate logs it and the request still
	// succeeds, the client simply lacks a token for its next call.
	ErrTokenCreateFailed = errors.New("token create failed")

	// ErrMalformedPayload marks an undecodable structured header payload.
	ErrMalformedPayload = errors.New("malformed header payload")
)

// ResponseTypeForError maps a protocol error to the response-type header the
// gate writes. Returns false for errors outside the protocol taxonomy; those
// must propagate instead of being translated.
func ResponseTypeForError(err error) (ResponseVerifiedType, bool) {
	switch {
	case errors.Is(err, ErrLoadCredentialFailed):
		return ResponseAuthenticationFailed, true
	case errors.Is(err, ErrInsufficientPrivileges):
		return ResponseInsufficientPrivileges, true
	case errors.Is(err, ErrTokenExpired):
		return ResponseTokenExpired, true
	case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrMalformedPayload):
		return ResponseTokenInvalid, true
	default:
		return "", false
	}
}
