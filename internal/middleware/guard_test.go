package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boty-storefront/internal/auth"
	"boty-storefront/internal/model"
)

func newGuardFixture(t *testing.T) (*RouteGuard, string) {
	t.Helper()

	tokens, err := auth.NewTokens(auth.TokenConfig{Secret: []byte("guard-test-secret")})
	require.NoError(t, err)

	token, err := tokens.Issue("6f1c9a52-0d7e-4a55-9b0e-3a2f1c0d9e11", "admin@x.com", model.RoleAdmin)
	require.NoError(t, err)

	return NewRouteGuard(tokens), token
}

func serveGuarded(g *RouteGuard, req *http.Request) (*httptest.ResponseRecorder, *http.Request) {
	var reached *http.Request
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = r
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	g.Handler(next).ServeHTTP(rec, req)
	return rec, reached
}

func withCookie(req *http.Request, token string) *http.Request {
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: token})
	return req
}

func TestRouteGuard(t *testing.T) {
	t.Parallel()

	guard, token := newGuardFixture(t)

	t.Run("login page is public", func(t *testing.T) {
		rec, reached := serveGuarded(guard, httptest.NewRequest(http.MethodGet, "/admin/login", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotNil(t, reached)
	})

	t.Run("login api is public", func(t *testing.T) {
		rec, reached := serveGuarded(guard, httptest.NewRequest(http.MethodPost, "/api/admin/auth/login", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotNil(t, reached)
	})

	t.Run("ui without cookie redirects with next", func(t *testing.T) {
		rec, reached := serveGuarded(guard, httptest.NewRequest(http.MethodGet, "/admin/products", nil))
		assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
		assert.Equal(t, "/admin/login?next=%2Fadmin%2Fproducts", rec.Header().Get("Location"))
		assert.Nil(t, reached)
	})

	t.Run("admin root redirects", func(t *testing.T) {
		rec, _ := serveGuarded(guard, httptest.NewRequest(http.MethodGet, "/admin", nil))
		assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
		assert.Equal(t, "/admin/login?next=%2Fadmin", rec.Header().Get("Location"))
	})

	t.Run("api without cookie is 401 json", func(t *testing.T) {
		rec, reached := serveGuarded(guard, httptest.NewRequest(http.MethodGet, "/api/admin/products", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Nil(t, reached)

		var body model.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "No autorizado.", body.Error)
		assert.Equal(t, "UNAUTHORIZED", body.Code)
	})

	t.Run("valid cookie passes and claims reach context", func(t *testing.T) {
		req := withCookie(httptest.NewRequest(http.MethodGet, "/admin/products", nil), token)
		rec, reached := serveGuarded(guard, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, reached)

		claims, ok := adminFromContext(reached.Context())
		require.True(t, ok)
		assert.Equal(t, "admin@x.com", claims.Email)
	})

	t.Run("valid cookie passes on api", func(t *testing.T) {
		req := withCookie(httptest.NewRequest(http.MethodDelete, "/api/admin/products/x", nil), token)
		rec, _ := serveGuarded(guard, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("tampered cookie is treated as absent", func(t *testing.T) {
		req := withCookie(httptest.NewRequest(http.MethodGet, "/api/admin/auth/me", nil), token+"x")
		rec, _ := serveGuarded(guard, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unprotected paths pass untouched", func(t *testing.T) {
		for _, p := range []string{"/", "/api/products", "/administrator", "/api/administer", "/uploads/products/a.png"} {
			rec, reached := serveGuarded(guard, httptest.NewRequest(http.MethodGet, p, nil))
			assert.Equal(t, http.StatusOK, rec.Code, p)
			assert.NotNil(t, reached, p)
		}
	})

	t.Run("prefetch is allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/products", nil)
		req.Header.Set("Next-Router-Prefetch", "1")
		rec, _ := serveGuarded(guard, req)
		assert.Equal(t, http.StatusOK, rec.Code)

		req = httptest.NewRequest(http.MethodGet, "/admin/products", nil)
		req.Header.Set("Sec-Purpose", "prefetch;prerender")
		rec, _ = serveGuarded(guard, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("dot segments cannot reach public paths", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.URL.Path = "/admin/login/../products"
		rec, _ := serveGuarded(guard, req)
		assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)

		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.URL.Path = "/api/admin/x/../../products"
		rec, _ = serveGuarded(guard, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.URL.Path = "/public/../api/admin/products"
		rec, _ = serveGuarded(guard, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestSanitizeNext(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/admin/products", SanitizeNext("/admin/products"))
	assert.Equal(t, "/admin/products?page=2", SanitizeNext("/admin/products?page=2"))
	assert.Equal(t, "", SanitizeNext("//evil.example"))
	assert.Equal(t, "", SanitizeNext("https://evil.example/admin"))
	assert.Equal(t, "", SanitizeNext(`/\evil.example`))
	assert.Equal(t, "", SanitizeNext("admin"))
	assert.Equal(t, "", SanitizeNext("/admin/login"))
	assert.Equal(t, "", SanitizeNext(""))
}

func TestLoginRedirectURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/admin/login?next=%2Fadmin%2Fproducts%2Fnew", LoginRedirectURL("/admin/products/new"))
	assert.Equal(t, "/admin/login", LoginRedirectURL("//evil.example"))
}
