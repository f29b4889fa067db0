package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/yardcms/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func denyUnauthorized(w http.ResponseWriter, _ *http.Request, _ error) {
	w.WriteHeader(http.StatusUnauthorized)
}

func protectedHandler(t *testing.T, secret []byte) (http.Handler, *bool) {
	t.Helper()
	called := false
	h := Middleware(secret, denyUnauthorized)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		u, ok := UsernameFromContext(r.Context())
		require.True(t, ok)
		_, _ = w.Write([]byte(u))
	}))
	return h, &called
}

func TestMiddleware(t *testing.T) {
	secret := []byte("secret")
	valid, err := GenerateToken("admin", secret, time.Hour)
	require.NoError(t, err)
	expired, err := GenerateToken("admin", secret, -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name     string
		prepare  func(r *http.Request)
		wantCode int
	}{
		{"no token", func(r *http.Request) {}, http.StatusUnauthorized},
		{"cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: common.TokenCookieName, Value: valid})
		}, http.StatusOK},
		{"bearer", func(r *http.Request) {
			r.Header.Set(common.AuthorizationHeaderName, "Bearer "+valid)
		}, http.StatusOK},
		{"bearer lowercase", func(r *http.Request) {
			r.Header.Set(common.AuthorizationHeaderName, "bearer "+valid)
		}, http.StatusOK},
		{"basic scheme", func(r *http.Request) {
			r.Header.Set(common.AuthorizationHeaderName, "Basic "+valid)
		}, http.StatusUnauthorized},
		{"expired", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: common.TokenCookieName, Value: expired})
		}, http.StatusUnauthorized},
		{"garbage", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: common.TokenCookieName, Value: "x.y.z"})
		}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, called := protectedHandler(t, secret)
			req := httptest.NewRequest(http.MethodPost, "/update-content", nil)
			tt.prepare(req)
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantCode == http.StatusOK, *called)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, "admin", rec.Body.String())
			}
		})
	}
}

func TestCookies(t *testing.T) {
	rec := httptest.NewRecorder()
	SetTokenCookie(rec, "tok", time.Hour, CookieOptions{Secure: true, Domain: "example.com"})

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, common.TokenCookieName, c.Name)
	assert.Equal(t, "tok", c.Value)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, 3600, c.MaxAge)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)

	rec = httptest.NewRecorder()
	ClearTokenCookie(rec, CookieOptions{})
	cookies = rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.True(t, cookies[0].MaxAge < 0)
}
