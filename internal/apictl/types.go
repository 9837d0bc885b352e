// Package apictl defines the header-level access-control sub-protocol spoken
// between API clients and the request gate.
//
// The protocol is carried entirely in transport headers: a client declares how
// it wants to be verified (anonymous, login, or token) and supplies an opaque
// payload; the gate answers with a single outcome header and, on login, a
// signed credential token. No status codes or bodies belong to this layer.
package apictl

import "fmt"

// Header keys for the request/response sub-protocol. Values are
// case-sensitive token strings.
const (
	HeaderRequestType    = "request-type"
	HeaderRequestContent = "request-content"
	HeaderResponseType   = "response-type"
	HeaderResponseResult = "response-result"
)

// RequestVerifiedType declares how an inbound request wants to be
// authenticated. It is set by the caller, read once per request, and
// immutable for the request's lifetime.
type RequestVerifiedType string

const (
	RequestAnonymous RequestVerifiedType = "ANONYMOUS"
	RequestLogin     RequestVerifiedType = "LOGIN"
	RequestToken     RequestVerifiedType = "TOKEN"
)

// ParseRequestVerifiedType translates the raw request-type header value.
// A missing (empty) value defaults to RequestAnonymous. An unrecognized
// non-empty value is an error; the gate reports it as TOKEN_INVALID.
func ParseRequestVerifiedType(raw string) (RequestVerifiedType, error) {
	switch RequestVerifiedType(raw) {
	case "":
		return RequestAnonymous, nil
	case RequestAnonymous:
		return RequestAnonymous, nil
	case RequestLogin:
		return RequestLogin, nil
	case RequestToken:
		return RequestToken, nil
	default:
		return "", fmt.Errorf("unknown request verified type %q", raw)
	}
}

// ResponseVerifiedType is the single outcome header written per
// request/response cycle. Outcomes are mutually exclusive.
type ResponseVerifiedType string

const (
	ResponseLoginSuccess            ResponseVerifiedType = "LOGIN_SUCCESS"
	ResponseTokenAvailable          ResponseVerifiedType = "TOKEN_AVAILABLE"
	ResponseAuthenticationFailed    ResponseVerifiedType = "AUTHENTICATION_FAILED"
	ResponseInsufficientPrivileges  ResponseVerifiedType = "INSUFFICIENT_PRIVILEGES"
	ResponseTokenInvalid            ResponseVerifiedType = "TOKEN_INVALID"
	ResponseTokenExpired            ResponseVerifiedType = "TOKEN_EXPIRED"
)

// Failure reports whether the outcome marks a rejected request, as opposed
// to a post-success acknowledgement.
func (t ResponseVerifiedType) Failure() bool {
	switch t {
	case ResponseAuthenticationFailed, ResponseInsufficientPrivileges, ResponseTokenInvalid, ResponseTokenExpired:
		return true
	default:
		return false
	}
}

// LoginRequest is the structured LOGIN payload carried in request-content.
type LoginRequest struct {
	Account  string `json:"account"`
	Password string `json:"password"`
}

// LoginResponse is the structured payload written to response-result after a
// successful LOGIN: the issued token and its absolute expiry (unix seconds).
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"`
}
