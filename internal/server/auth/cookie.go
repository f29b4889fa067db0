package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/yardcms/internal/common"
)

// CookieOptions controls the attributes of the session cookie.
type CookieOptions struct {
	Secure bool
	Domain string
}

// SetTokenCookie stores token in an HttpOnly cookie that lives as long as
// the token does.
func SetTokenCookie(w http.ResponseWriter, token string, validity time.Duration, opts CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.TokenCookieName,
		Value:    token,
		Path:     "/",
		Domain:   opts.Domain,
		MaxAge:   int(validity / time.Second),
		Expires:  time.Now().Add(validity),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearTokenCookie expires the session cookie.
func ClearTokenCookie(w http.ResponseWriter, opts CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.TokenCookieName,
		Value:    "",
		Path:     "/",
		Domain:   opts.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// TokenFromRequest returns the token from the cookie, falling back to a
// Bearer Authorization header. It returns "" when neither is present.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(common.TokenCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	h := r.Header.Get(common.AuthorizationHeaderName)
	if scheme, token, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return ""
}
