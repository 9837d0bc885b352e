package auth

import "time"

// AnonymousName is the reserved sentinel used for both the account and the
// domain of callers that did not authenticate.
const AnonymousName = "ANONYMOUS"

// Permission is one grantable API-control entry: an HTTP method (or "*"),
// a URI pattern in KeyMatch2 syntax ("/api/users/:id" style segments are
// written "{id}"), and an optional go-bexpr constraint evaluated against
// request attributes.
type Permission struct {
	Method    string `json:"method"`
	Pattern   string `json:"pattern"`
	ScopeExpr string `json:"scope_expr,omitempty"`
}

// PermissionSet is the resolved set of permissions granted to one caller.
// Value-like: built once by whichever component resolved it, never mutated.
type PermissionSet []Permission

// CallerCredential identifies a resolved caller: the account, its domain
// (tenant), a permission set of type P, and an absolute expiry. Instances
// are read-only after construction and never persisted by this subsystem.
//
// The type is generic over the permission payload so the gate stays open to
// permission models beyond the API-control one; Caller is the concrete
// variant the gate and token processor work with.
type CallerCredential[P any] struct {
	Account     string
	Domain      string
	Permissions P
	ExpiresAt   time.Time
}

// Caller is the API-control credential variant used throughout the gate.
type Caller = CallerCredential[PermissionSet]

// AnonymousCaller synthesizes the credential for an unauthenticated request:
// account and domain are the reserved sentinel, the permission set is the
// public set supplied by the permission cache. Anonymous credentials carry
// no expiry; they live only for the request that synthesized them.
func AnonymousCaller(public PermissionSet) Caller {
	return Caller{
		Account:     AnonymousName,
		Domain:      AnonymousName,
		Permissions: public,
	}
}

// Anonymous reports whether the credential belongs to the reserved
// anonymous identity.
func (c CallerCredential[P]) Anonymous() bool {
	return c.Account == AnonymousName && c.Domain == AnonymousName
}
