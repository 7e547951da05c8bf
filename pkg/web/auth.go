package web

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"

	"github.com/flowdeck/flowdeck/pkg/supabase"
)

const (
	accessCookie  = "fd_access_token"
	refreshCookie = "fd_refresh_token"

	refreshCookieMaxAge = int(30 * 24 * time.Hour / time.Second)
)

const identityKey = "identity"

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// identity is the verified caller of an authenticated request.
type identity struct {
	UserID string
	Email  string
	Token  string
}

func identityFrom(c fiber.Ctx) *identity {
	ident, _ := c.Locals(identityKey).(*identity)

	return ident
}

func (s *Server) verifyToken(raw string) (*identity, error) {
	claims := &sessionClaims{}

	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, fmt.Errorf("parse session token: %w", err)
	}

	return &identity{UserID: claims.Subject, Email: claims.Email, Token: raw}, nil
}

// identityFromCookie resolves the caller from the access-token cookie,
// exchanging the refresh-token cookie for a new pair when the access token
// is expired or missing.
func (s *Server) identityFromCookie(c fiber.Ctx) (*identity, error) {
	if raw := c.Cookies(accessCookie); raw != "" {
		ident, err := s.verifyToken(raw)
		if err == nil {
			return ident, nil
		}
	}

	refresh := c.Cookies(refreshCookie)
	if refresh == "" {
		return nil, supabase.ErrNoSession
	}

	renewed, err := s.client.RefreshGrant(c.Context(), refresh)
	if err != nil {
		return nil, err
	}

	ident, err := s.verifyToken(renewed.AccessToken)
	if err != nil {
		return nil, err
	}

	setSessionCookies(c, renewed)

	return ident, nil
}

// requireAuth guards the server-rendered pages. Unauthenticated browsers
// are sent to the sign-in page.
func (s *Server) requireAuth(c fiber.Ctx) error {
	ident, err := s.identityFromCookie(c)
	if err != nil {
		clearSessionCookies(c)

		return c.Redirect().Status(fiber.StatusSeeOther).To("/login")
	}

	c.Locals(identityKey, ident)

	return c.Next()
}

// requireAPIAuth guards the JSON API. It accepts a bearer token and falls
// back to the session cookies so the dashboard's own pages can call it.
func (s *Server) requireAPIAuth(c fiber.Ctx) error {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		raw := strings.TrimPrefix(header, "Bearer ")

		ident, err := s.verifyToken(raw)
		if err != nil {
			return unauthorized(c, "Invalid access token")
		}

		c.Locals(identityKey, ident)

		return c.Next()
	}

	ident, err := s.identityFromCookie(c)
	if err != nil {
		return unauthorized(c, "Sign in required")
	}

	c.Locals(identityKey, ident)

	return c.Next()
}

func setSessionCookies(c fiber.Ctx, session *supabase.Session) {
	maxAge := session.ExpiresIn
	if maxAge <= 0 {
		maxAge = int(time.Hour / time.Second)
	}

	c.Cookie(&fiber.Cookie{
		Name:     accessCookie,
		Value:    session.AccessToken,
		Path:     "/",
		MaxAge:   maxAge,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookie,
		Value:    session.RefreshToken,
		Path:     "/",
		MaxAge:   refreshCookieMaxAge,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func clearSessionCookies(c fiber.Ctx) {
	c.ClearCookie(accessCookie, refreshCookie)
}
