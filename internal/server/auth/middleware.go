package auth

import (
	"context"
	"net/http"
)

type ctxKey struct{}

// WithUsername returns a copy of ctx carrying the authenticated username.
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, ctxKey{}, username)
}

// UsernameFromContext returns the username set by the middleware.
func UsernameFromContext(ctx context.Context) (string, bool) {
	u, ok := ctx.Value(ctxKey{}).(string)
	return u, ok && u != ""
}

// Middleware rejects requests without a valid token by calling deny, which
// writes the response. Accepted requests carry the username in their context.
func Middleware(secretKey []byte, deny func(w http.ResponseWriter, r *http.Request, err error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, err := UsernameFromToken(TokenFromRequest(r), secretKey)
			if err != nil {
				deny(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUsername(r.Context(), username)))
		})
	}
}
