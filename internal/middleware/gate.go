// Package middleware carries the request gate: the single chokepoint that
// classifies, authenticates, and authorizes every request before the router
// sees it.
package middleware

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/authgate/authgate/internal/apictl"
	"github.com/authgate/authgate/internal/auth"
	"github.com/authgate/authgate/internal/services/judge"
)

// TokenProcessor issues and verifies signed caller tokens.
type TokenProcessor interface {
	Marshal(caller auth.Caller) (string, error)
	Unmarshal(token string) (auth.Caller, error)
}

// CredentialLoader resolves a login payload into a caller credential.
type CredentialLoader interface {
	LoadCredential(ctx context.Context, account, password string) (auth.Caller, error)
}

// PublicPermissionSource supplies the permission set granted to anonymous
// callers. Reads must be cheap; the gate consults it once per anonymous
// request.
type PublicPermissionSource interface {
	Public() auth.PermissionSet
}

// GateDependencies bundles the collaborators required by the gate.
type GateDependencies struct {
	Tokens      TokenProcessor
	Credentials CredentialLoader
	Public      PublicPermissionSource
}

// Skipper reports whether a request bypasses the gate entirely. Skipped
// requests are forwarded unmodified, with no caller bound.
type Skipper func(*http.Request) bool

// GateOption customizes gate construction.
type GateOption func(*gate)

// WithSkipper overrides the default skipper (which skips nothing).
func WithSkipper(skipper Skipper) GateOption {
	return func(g *gate) {
		g.skipper = skipper
	}
}

type gate struct {
	deps    GateDependencies
	skipper Skipper
}

// NewGateMiddleware builds the access-control gate.
//
// Per request the gate: reads the declared request type, resolves a caller
// (anonymous, login, or token), judges the caller's permissions against the
// request, binds the caller account to the request context, writes the
// post-success outcome header, and only then invokes the downstream handler.
// The four protocol failures short-circuit before the handler runs and are
// reported through the response-type header alone; this layer writes no
// bodies and claims no status codes.
func NewGateMiddleware(deps GateDependencies, opts ...GateOption) (func(http.Handler) http.Handler, error) {
	if deps.Tokens == nil {
		return nil, errors.New("gate requires a token processor")
	}
	if deps.Credentials == nil {
		return nil, errors.New("gate requires a credential loader")
	}
	if deps.Public == nil {
		return nil, errors.New("gate requires a public permission source")
	}

	g := &gate{
		deps:    deps,
		skipper: func(*http.Request) bool { return false },
	}
	for _, opt := range opts {
		opt(g)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if g.skipper(r) {
				next.ServeHTTP(w, r)
				return
			}
			g.serve(w, r, next)
		})
	}, nil
}

func (g *gate) serve(w http.ResponseWriter, r *http.Request, next http.Handler) {
	op := apictl.NewHTTPHeaderOperator(w, r)

	requestType, err := apictl.ParseRequestVerifiedType(op.GetHeader(apictl.HeaderRequestType))
	if err != nil {
		g.reject(op, w, r, fmt.Errorf("%w: %v", apictl.ErrInvalidToken, err))
		return
	}

	caller, err := g.resolveCaller(r, op, requestType)
	if err != nil {
		g.reject(op, w, r, err)
		return
	}

	if !judge.Authorize(caller, r) {
		g.reject(op, w, r, apictl.ErrInsufficientPrivileges)
		return
	}

	// Outcome headers go out before the handler can start the body.
	switch requestType {
	case apictl.RequestLogin:
		op.SetHeader(apictl.HeaderResponseType, string(apictl.ResponseLoginSuccess))
		g.issueToken(op, caller)
	case apictl.RequestToken:
		op.SetHeader(apictl.HeaderResponseType, string(apictl.ResponseTokenAvailable))
	case apictl.RequestAnonymous:
		// Anonymous outcomes stay silent.
	}

	// The caller binding lives on a per-request derived context, so it ends
	// with the request on every exit path and cannot leak across requests.
	next.ServeHTTP(w, r.WithContext(auth.WithCaller(r.Context(), caller.Account)))
}

func (g *gate) resolveCaller(r *http.Request, op apictl.HeaderOperator, requestType apictl.RequestVerifiedType) (auth.Caller, error) {
	switch requestType {
	case apictl.RequestAnonymous:
		return auth.AnonymousCaller(g.deps.Public.Public()), nil

	case apictl.RequestToken:
		token := op.GetHeader(apictl.HeaderRequestContent)
		if token == "" {
			return auth.Caller{}, fmt.Errorf("%w: missing token payload", apictl.ErrInvalidToken)
		}
		return g.deps.Tokens.Unmarshal(token)

	case apictl.RequestLogin:
		codec := apictl.NewPayloadCodec[apictl.LoginRequest](op)
		payload, ok, err := codec.GetHeader(apictl.HeaderRequestContent)
		if err != nil {
			return auth.Caller{}, err
		}
		if !ok {
			return auth.Caller{}, fmt.Errorf("%w: missing login payload", apictl.ErrInvalidToken)
		}
		return g.deps.Credentials.LoadCredential(r.Context(), payload.Account, payload.Password)

	default:
		return auth.Caller{}, fmt.Errorf("%w: unhandled request type %q", apictl.ErrInvalidToken, requestType)
	}
}

// issueToken marshals the freshly resolved caller into the response-result
// header. Failures are logged and swallowed: the login itself stands, the
// client simply has to authenticate again on its next call.
func (g *gate) issueToken(op apictl.HeaderOperator, caller auth.Caller) {
	token, err := g.deps.Tokens.Marshal(caller)
	if err != nil {
		log.Printf("token create failed for %q: %v", caller.Account, err)
		return
	}

	codec := apictl.NewPayloadCodec[apictl.LoginResponse](op)
	result := apictl.LoginResponse{Token: token, Expiry: caller.ExpiresAt.Unix()}
	if err := codec.SetHeader(apictl.HeaderResponseResult, result); err != nil {
		log.Printf("write login result for %q: %v", caller.Account, err)
	}
}

// reject translates a protocol failure into the single response-type header.
// Errors outside the protocol taxonomy are backend faults; they are not
// dressed up as authentication outcomes.
func (g *gate) reject(op apictl.HeaderOperator, w http.ResponseWriter, r *http.Request, err error) {
	responseType, ok := apictl.ResponseTypeForError(err)
	if !ok {
		log.Printf("gate error for %s %s: %v", r.Method, r.URL.Path, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	log.Printf("gate rejected %s %s: %s", r.Method, r.URL.Path, responseType)
	op.SetHeader(apictl.HeaderResponseType, string(responseType))
	w.WriteHeader(http.StatusOK)
}
