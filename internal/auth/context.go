package auth

import "context"

type callerContextKey struct{}

// WithCaller binds the authorized caller account to the context handed to
// the downstream handler. The gate is the only writer: it derives a new
// request context after authorization succeeds, so the binding dies with the
// request on every exit path and can never leak across requests.
func WithCaller(ctx context.Context, account string) context.Context {
	return context.WithValue(ctx, callerContextKey{}, account)
}

// CallerFromContext retrieves the caller account bound by the gate.
// ok is false before authorization and outside the downstream call.
func CallerFromContext(ctx context.Context) (string, bool) {
	account, ok := ctx.Value(callerContextKey{}).(string)
	return account, ok
}
