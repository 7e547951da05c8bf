package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expiredTestToken(t *testing.T) string {
	t.Helper()

	claims := sessionClaims{
		Email: "ada@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)

	return token
}

func TestRequireAuth_RefreshesExpiredAccessToken(t *testing.T) {
	fixture := newBackendFixture(t)
	fixture.profile = map[string]any{"id": "user-1", "email": "ada@example.com", "subscription_status": "free"}

	renewed := signTestToken(t, "user-1", "ada@example.com")
	fixture.tokenGrant = func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "refresh_token", r.URL.Query().Get("grant_type"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  renewed,
			"token_type":    "bearer",
			"expires_in":    3600,
			"refresh_token": "refresh-2",
			"user":          map[string]any{"id": "user-1", "email": "ada@example.com"},
		})
	}

	app := newTestServer(t, fixture.server.URL, "").App()

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: accessCookie, Value: expiredTestToken(t)})
	req.AddCookie(&http.Cookie{Name: refreshCookie, Value: "refresh-1"})

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cookies := make(map[string]string)
	for _, cookie := range resp.Cookies() {
		cookies[cookie.Name] = cookie.Value
	}

	assert.Equal(t, renewed, cookies[accessCookie])
	assert.Equal(t, "refresh-2", cookies[refreshCookie])
}

func TestRequireAuth_ExpiredTokenWithoutRefreshRedirects(t *testing.T) {
	fixture := newBackendFixture(t)
	app := newTestServer(t, fixture.server.URL, "").App()

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: accessCookie, Value: expiredTestToken(t)})

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestVerifyToken_RejectsWrongSecret(t *testing.T) {
	fixture := newBackendFixture(t)
	server := newTestServer(t, fixture.server.URL, "")

	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	_, err = server.verifyToken(forged)
	assert.Error(t, err)
}
