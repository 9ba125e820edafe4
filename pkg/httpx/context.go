package httpx

import "context"

type ctxKey string

const (
	CtxKeyUsername     ctxKey = "username"
	CtxKeySessionToken ctxKey = "session_token"
)

// WithSession stores the authenticated username and raw session token.
func WithSession(ctx context.Context, username, token string) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUsername, username)
	return context.WithValue(ctx, CtxKeySessionToken, token)
}

// UsernameFromContext returns the username placed by RequireSession.
func UsernameFromContext(ctx context.Context) (string, bool) {
	u, ok := ctx.Value(CtxKeyUsername).(string)
	return u, ok && u != ""
}

func SessionTokenFromContext(ctx context.Context) string {
	t, _ := ctx.Value(CtxKeySessionToken).(string)
	return t
}
