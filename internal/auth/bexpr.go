package auth

import (
	"strings"
	"sync"

	"github.com/hashicorp/go-bexpr"
)

// bexprCache stores compiled go-bexpr evaluators keyed by expression string.
var bexprCache = &sync.Map{}

// EvaluateScopeExpr evaluates a permission's scope expression against
// request attributes. An empty expression means no constraint (allow).
// Invalid syntax and evaluation errors both deny: a broken constraint must
// never widen access.
func EvaluateScopeExpr(scopeExpr string, attrs map[string]any) bool {
	if strings.TrimSpace(scopeExpr) == "" {
		return true
	}

	if cached, ok := bexprCache.Load(scopeExpr); ok {
		matches, err := cached.(*bexpr.Evaluator).Evaluate(attrs)
		if err != nil {
			return false
		}
		return matches
	}

	evaluator, err := bexpr.CreateEvaluator(scopeExpr)
	if err != nil {
		return false
	}
	bexprCache.Store(scopeExpr, evaluator)

	matches, err := evaluator.Evaluate(attrs)
	if err != nil {
		return false
	}
	return matches
}
