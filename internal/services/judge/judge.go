// Package judge decides whether a resolved caller may invoke a request.
package judge

import (
	"log"
	"net/http"
	"strings"

	"github.com/casbin/casbin/v2/util"

	"github.com/authgate/authgate/internal/auth"
)

// Authorize checks whether ANY permission in the caller's set grants the
// request. The check is pure: no database queries, no state mutation, safe
// for concurrent use from unlimited goroutines.
//
// A permission grants the request when all of the following hold:
//   - its method equals the request method (or is the "*" wildcard)
//   - its pattern matches the request path under KeyMatch2 semantics,
//     so "/api/orders/{id}" matches "/api/orders/42"
//   - its scope expression, when present, evaluates true against the
//     request attributes
//
// An empty permission set denies everything.
func Authorize(caller auth.Caller, r *http.Request) bool {
	if len(caller.Permissions) == 0 {
		log.Printf("authorization denied: %s has no permissions (method=%s, path=%s)", caller.Account, r.Method, r.URL.Path)
		return false
	}

	var attrs map[string]any // built lazily, most permissions carry no scope

	for _, permission := range caller.Permissions {
		if !methodMatches(permission.Method, r.Method) {
			continue
		}
		if !util.KeyMatch2(r.URL.Path, permission.Pattern) {
			continue
		}
		if permission.ScopeExpr != "" {
			if attrs == nil {
				attrs = requestAttributes(r)
			}
			if !auth.EvaluateScopeExpr(permission.ScopeExpr, attrs) {
				continue
			}
		}
		return true
	}

	return false
}

func methodMatches(granted, requested string) bool {
	return granted == "*" || strings.EqualFold(granted, requested)
}

// requestAttributes exposes the request to scope expressions: the method,
// the path, and one value per query parameter (the first, when repeated).
func requestAttributes(r *http.Request) map[string]any {
	query := make(map[string]string)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			query[key] = values[0]
		}
	}
	return map[string]any{
		"method": r.Method,
		"path":   r.URL.Path,
		"query":  query,
	}
}
