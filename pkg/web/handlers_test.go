package web

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowdeck/flowdeck/pkg/installer"
	"github.com/flowdeck/flowdeck/pkg/supabase"
)

var testSecret = []byte("test-jwt-secret")

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func signTestToken(t *testing.T, userID, email string) string {
	t.Helper()

	claims := sessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)

	return token
}

// backendFixture fakes the auth and REST endpoints of the remote service.
type backendFixture struct {
	server *httptest.Server
	mux    *http.ServeMux

	profile    map[string]any
	workflows  []map[string]any
	tokenGrant func(w http.ResponseWriter, r *http.Request)
}

func newBackendFixture(t *testing.T) *backendFixture {
	t.Helper()

	f := &backendFixture{}

	mux := http.NewServeMux()
	f.mux = mux
	mux.HandleFunc("POST /auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		if f.tokenGrant != nil {
			f.tokenGrant(w, r)

			return
		}

		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error_description": "Invalid login credentials"})
	})
	mux.HandleFunc("POST /auth/v1/logout", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /rest/v1/profiles", func(w http.ResponseWriter, _ *http.Request) {
		if f.profile == nil {
			w.WriteHeader(http.StatusNotAcceptable)
			_ = json.NewEncoder(w).Encode(map[string]string{"code": "PGRST116", "message": "no rows"})

			return
		}

		_ = json.NewEncoder(w).Encode(f.profile)
	})
	mux.HandleFunc("GET /rest/v1/workflows", func(w http.ResponseWriter, _ *http.Request) {
		rows := f.workflows
		if rows == nil {
			rows = []map[string]any{}
		}

		_ = json.NewEncoder(w).Encode(rows)
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)

	return f
}

func newTestServer(t *testing.T, backendURL, installURL string) *Server {
	t.Helper()

	logger := testLogger()
	client := supabase.New(backendURL, "test-anon-key", logger)
	t.Cleanup(func() { _ = client.Close() })

	return NewServer(logger, client, installer.New(installURL, logger), testSecret)
}

func withSession(t *testing.T, req *http.Request) {
	t.Helper()

	req.AddCookie(&http.Cookie{
		Name:  accessCookie,
		Value: signTestToken(t, "user-1", "ada@example.com"),
	})
}

func decodeFlash(t *testing.T, resp *http.Response) *Flash {
	t.Helper()

	for _, cookie := range resp.Cookies() {
		if cookie.Name != flashCookie || cookie.Value == "" {
			continue
		}

		payload, err := base64.URLEncoding.DecodeString(cookie.Value)
		require.NoError(t, err)

		flash := &Flash{}
		require.NoError(t, json.Unmarshal(payload, flash))

		return flash
	}

	return nil
}

func TestLanding_SignedOut(t *testing.T) {
	fixture := newBackendFixture(t)
	app := newTestServer(t, fixture.server.URL, "").App()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestLanding_SignedIn(t *testing.T) {
	fixture := newBackendFixture(t)
	app := newTestServer(t, fixture.server.URL, "").App()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	withSession(t, req)

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
}

func TestDashboard_RequiresAuth(t *testing.T) {
	fixture := newBackendFixture(t)
	app := newTestServer(t, fixture.server.URL, "").App()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	require.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestDashboard_RendersProfileWorkflowsAndCatalog(t *testing.T) {
	fixture := newBackendFixture(t)
	fixture.profile = map[string]any{
		"id":                  "user-1",
		"email":               "ada@example.com",
		"full_name":           "Ada Lovelace",
		"subscription_status": "pro",
	}
	fixture.workflows = []map[string]any{
		{"id": "wf-1", "user_id": "user-1", "name": "Inbox triage", "status": "active"},
		{"id": "wf-2", "user_id": "user-1", "name": "Weekly digest", "status": "paused"},
	}

	app := newTestServer(t, fixture.server.URL, "").App()

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	withSession(t, req)

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	page := string(body)
	assert.Contains(t, page, "Ada Lovelace")
	assert.Contains(t, page, "pro plan")
	assert.Contains(t, page, "Inbox triage")
	assert.Contains(t, page, "Weekly digest")
	assert.Contains(t, page, "Gmail AI Auto Responder")
	assert.Contains(t, page, "Receipt to Expense Tracker")
}

func TestDashboard_CategoryFilter(t *testing.T) {
	fixture := newBackendFixture(t)
	fixture.profile = map[string]any{"id": "user-1", "email": "ada@example.com", "subscription_status": "free"}

	app := newTestServer(t, fixture.server.URL, "").App()

	req := httptest.NewRequest(http.MethodGet, "/dashboard?category=productivity", nil)
	withSession(t, req)

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	page := string(body)
	assert.Contains(t, page, "Gmail Summary Automation")
	assert.Contains(t, page, "Meeting Notes to Action Items")
	assert.NotContains(t, page, "Gmail AI Auto Responder")
}

func TestDashboard_UnknownCategoryShowsPlaceholder(t *testing.T) {
	fixture := newBackendFixture(t)
	fixture.profile = map[string]any{"id": "user-1", "email": "ada@example.com", "subscription_status": "free"}

	app := newTestServer(t, fixture.server.URL, "").App()

	req := httptest.NewRequest(http.MethodGet, "/dashboard?category=does-not-exist", nil)
	withSession(t, req)

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), "No templates found in this category.")
}

func TestSignIn_Success(t *testing.T) {
	fixture := newBackendFixture(t)
	fixture.profile = map[string]any{"id": "user-1", "email": "ada@example.com", "subscription_status": "free"}

	accessToken := signTestToken(t, "user-1", "ada@example.com")
	fixture.tokenGrant = func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  accessToken,
			"token_type":    "bearer",
			"expires_in":    3600,
			"refresh_token": "refresh-1",
			"user":          map[string]any{"id": "user-1", "email": "ada@example.com"},
		})
	}

	app := newTestServer(t, fixture.server.URL, "").App()

	form := url.Values{"email": {"ada@example.com"}, "password": {"secret123"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))

	cookies := make(map[string]string)
	for _, cookie := range resp.Cookies() {
		cookies[cookie.Name] = cookie.Value
	}

	assert.Equal(t, accessToken, cookies[accessCookie])
	assert.Equal(t, "refresh-1", cookies[refreshCookie])
}

func TestSignIn_InvalidCredentials(t *testing.T) {
	fixture := newBackendFixture(t)

	app := newTestServer(t, fixture.server.URL, "").App()

	form := url.Values{"email": {"ada@example.com"}, "password": {"wrong"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	flash := decodeFlash(t, resp)
	require.NotNil(t, flash)
	assert.Equal(t, "error", flash.Level)
	assert.Equal(t, "Invalid email or password", flash.Message)
}

func TestSignIn_RejectsMalformedForm(t *testing.T) {
	fixture := newBackendFixture(t)

	app := newTestServer(t, fixture.server.URL, "").App()

	form := url.Values{"email": {"not-an-email"}, "password": {""}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	flash := decodeFlash(t, resp)
	require.NotNil(t, flash)
	assert.Equal(t, "error", flash.Level)
}

func TestSignOut_ClearsCookiesAndRedirects(t *testing.T) {
	fixture := newBackendFixture(t)

	app := newTestServer(t, fixture.server.URL, "").App()

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	withSession(t, req)

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	for _, cookie := range resp.Cookies() {
		if cookie.Name == accessCookie || cookie.Name == refreshCookie {
			assert.Empty(t, cookie.Value)
		}
	}
}

func installBackend(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return server
}

func TestInstallTemplate_RedirectsToAuthURL(t *testing.T) {
	fixture := newBackendFixture(t)

	authURL := "https://accounts.example.com/oauth/authorize?state=abc"
	backend := installBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"needsAuth": true,
			"authUrl":   authURL,
			"state":     "abc",
		})
	})

	app := newTestServer(t, fixture.server.URL, backend.URL).App()

	req := httptest.NewRequest(http.MethodPost, "/dashboard/templates/gmail-ai-responder/install", nil)
	withSession(t, req)

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, authURL, resp.Header.Get("Location"))
}

func TestInstallTemplate_ActivatedFlash(t *testing.T) {
	fixture := newBackendFixture(t)

	backend := installBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"activated":  true,
			"workflowId": 99,
		})
	})

	app := newTestServer(t, fixture.server.URL, backend.URL).App()

	req := httptest.NewRequest(http.MethodPost, "/dashboard/templates/meeting-notes-automation/install", nil)
	withSession(t, req)

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))

	flash := decodeFlash(t, resp)
	require.NotNil(t, flash)
	assert.Equal(t, "success", flash.Level)
	assert.Equal(t, "Workflow installed and activated", flash.Message)
}

func TestInstallTemplate_BackendErrorFlash(t *testing.T) {
	fixture := newBackendFixture(t)

	backend := installBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": "bad token"})
	})

	app := newTestServer(t, fixture.server.URL, backend.URL).App()

	req := httptest.NewRequest(http.MethodPost, "/dashboard/templates/gmail-summary/install", nil)
	withSession(t, req)

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	flash := decodeFlash(t, resp)
	require.NotNil(t, flash)
	assert.Equal(t, "error", flash.Level)
	assert.Equal(t, "bad token", flash.Message)
}

func TestInstallTemplate_TransportFailureFlash(t *testing.T) {
	fixture := newBackendFixture(t)

	backend := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	backend.Close()

	app := newTestServer(t, fixture.server.URL, backend.URL).App()

	req := httptest.NewRequest(http.MethodPost, "/dashboard/templates/expense-tracker/install", nil)
	withSession(t, req)

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	flash := decodeFlash(t, resp)
	require.NotNil(t, flash)
	assert.Equal(t, "error", flash.Level)
	assert.Equal(t, "Network or auth error", flash.Message)
}

func TestInstallTemplate_NotConfiguredFlash(t *testing.T) {
	fixture := newBackendFixture(t)

	app := newTestServer(t, fixture.server.URL, "").App()

	req := httptest.NewRequest(http.MethodPost, "/dashboard/templates/expense-tracker/install", nil)
	withSession(t, req)

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	flash := decodeFlash(t, resp)
	require.NotNil(t, flash)
	assert.Equal(t, "error", flash.Level)
	assert.Equal(t, "Automation backend is not configured", flash.Message)
}

func TestInstallTemplate_UnknownTemplate(t *testing.T) {
	fixture := newBackendFixture(t)

	app := newTestServer(t, fixture.server.URL, "").App()

	req := httptest.NewRequest(http.MethodPost, "/dashboard/templates/nope/install", nil)
	withSession(t, req)

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	flash := decodeFlash(t, resp)
	require.NotNil(t, flash)
	assert.Equal(t, "error", flash.Level)
	assert.Equal(t, "Unknown template", flash.Message)
}

func TestInstallTemplate_PreservesCategoryOnReturn(t *testing.T) {
	fixture := newBackendFixture(t)

	backend := installBackend(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"activated": true, "workflowId": 1})
	})

	app := newTestServer(t, fixture.server.URL, backend.URL).App()

	form := url.Values{"category": {"productivity"}}
	req := httptest.NewRequest(http.MethodPost, "/dashboard/templates/gmail-summary/install", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	withSession(t, req)

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, "/dashboard?category=productivity", resp.Header.Get("Location"))
}
