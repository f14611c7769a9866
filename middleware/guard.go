package middleware

import (
	"context"
	"net/http"
	"strings"

	goToken "github.com/MrEthical07/goToken"
)

// Verifier is the part of *goToken.Manager a guard needs.
type Verifier interface {
	VerifyAccess(ctx context.Context, token string) (*goToken.AccessClaims, error)
}

type accessClaimsContextKey struct{}

// AccessClaimsFromContext returns the claims stored by [Guard].
func AccessClaimsFromContext(ctx context.Context) (*goToken.AccessClaims, bool) {
	claims, ok := ctx.Value(accessClaimsContextKey{}).(*goToken.AccessClaims)
	return claims, ok
}

// Option customizes a guard.
type Option func(*guardConfig)

type guardConfig struct {
	cookieName string
	onError    func(http.ResponseWriter, *http.Request, error)
}

// WithAccessCookie makes the guard fall back to the named cookie when no bearer
// token is present.
func WithAccessCookie(name string) Option {
	return func(c *guardConfig) {
		c.cookieName = name
	}
}

// WithErrorHandler replaces the default plain-text error response.
func WithErrorHandler(fn func(http.ResponseWriter, *http.Request, error)) Option {
	return func(c *guardConfig) {
		if fn != nil {
			c.onError = fn
		}
	}
}

// Guard rejects requests without a live access token. A missing token or any
// rejection yields 401; an unreachable revocation store yields 503.
func Guard(v Verifier, opts ...Option) func(http.Handler) http.Handler {
	cfg := guardConfig{onError: WriteError}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if v == nil {
				cfg.onError(w, r, goToken.ErrInvalidToken)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok && cfg.cookieName != "" {
				token, ok = cookieToken(r, cfg.cookieName)
			}
			if !ok {
				cfg.onError(w, r, goToken.ErrInvalidToken)
				return
			}

			claims, err := v.VerifyAccess(r.Context(), token)
			if err != nil {
				cfg.onError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), accessClaimsContextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if len(value) < len(bearer) || !strings.EqualFold(value[:len(bearer)], bearer) {
		return "", false
	}

	token := strings.TrimSpace(value[len(bearer):])
	if token == "" {
		return "", false
	}

	return token, true
}

func cookieToken(r *http.Request, name string) (string, bool) {
	c, err := r.Cookie(name)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}
