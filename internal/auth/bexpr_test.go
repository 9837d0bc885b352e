package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateScopeExpr(t *testing.T) {
	attrs := map[string]any{
		"method": "GET",
		"path":   "/api/reports/daily",
	}

	assert.True(t, EvaluateScopeExpr("", attrs), "empty expression is unconstrained")
	assert.True(t, EvaluateScopeExpr("   ", attrs))
	assert.True(t, EvaluateScopeExpr(`method == "GET"`, attrs))
	assert.False(t, EvaluateScopeExpr(`method == "POST"`, attrs))

	// Invalid syntax must deny, not widen access.
	assert.False(t, EvaluateScopeExpr(`method ==`, attrs))

	// Missing attribute denies.
	assert.False(t, EvaluateScopeExpr(`tenant == "acme"`, attrs))

	// Second evaluation hits the compiled-evaluator cache.
	assert.True(t, EvaluateScopeExpr(`method == "GET"`, attrs))
}
