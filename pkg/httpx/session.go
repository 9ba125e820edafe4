package httpx

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aussiebroadwan/tandem/pkg/slogx"
)

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "user"

// ErrNoSession is what a SessionResolver returns, possibly wrapped, for an
// unknown or expired session. Any other error is treated as an outage.
var ErrNoSession = errors.New("session expired or missing")

// SessionResolver maps a raw session token to the owning username. It must
// fail with ErrNoSession for unknown or expired sessions.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (string, error)
}

type SessionResolverFunc func(ctx context.Context, token string) (string, error)

func (f SessionResolverFunc) ResolveSession(ctx context.Context, token string) (string, error) {
	return f(ctx, token)
}

// SessionToken returns the raw session token from the request cookie.
func SessionToken(r *http.Request) string {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// RequireSession rejects requests without a live session and injects the
// username into the request context (and the contextual logger).
func RequireSession(resolver SessionResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token := SessionToken(r)
			if token == "" {
				WriteError(w, http.StatusUnauthorized, "unauthorized", "login required")
				return
			}

			username, err := resolver.ResolveSession(ctx, token)
			switch {
			case errors.Is(err, ErrNoSession):
				slogx.FromContext(ctx).Debug("session rejected", "err", err)
				http.SetCookie(w, ClearSessionCookie(r.TLS != nil))
				WriteError(w, http.StatusUnauthorized, "unauthorized", "session expired or missing")
				return
			case err != nil:
				// The cookie may still be good; keep it.
				slogx.FromContext(ctx).Warn("session lookup failed", "err", err)
				w.Header().Set("Retry-After", "1")
				WriteError(w, http.StatusServiceUnavailable, "temporarily_unavailable", "session lookup failed, try again")
				return
			}

			ctx = WithSession(ctx, username, token)
			ctx = slogx.WithUser(ctx, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func SessionCookie(token string, expires time.Time, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func ClearSessionCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
