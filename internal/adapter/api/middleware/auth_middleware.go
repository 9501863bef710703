package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"skillswap/pkg/errors"
)

const (
	uidKey          = "uid"
	tokenCookieName = "token"
)

// TokenVerifier resolves a session token to the user id it was issued for.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
}

func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := TokenFromRequest(c.Request())
		if err != nil {
			return err
		}

		uid, err := m.UserIDFromToken(c.Request().Context(), token)
		if err != nil {
			return err
		}

		c.Set(uidKey, uid)
		return next(c)
	}
}

func (m *AuthMiddleware) UserIDFromToken(ctx context.Context, token string) (string, error) {
	uid, err := m.verifier.VerifyToken(ctx, token)
	if err != nil || uid == "" {
		return "", errors.Unauthorized("Invalid or expired token", err)
	}
	return uid, nil
}

// TokenFromRequest reads a bearer token from the Authorization header,
// falling back to the token cookie.
func TokenFromRequest(r *http.Request) (string, error) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", errors.Unauthorized("Invalid authorization format", nil)
		}
		return parts[1], nil
	}

	if cookie, err := r.Cookie(tokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	return "", errors.Unauthorized("Authorization header is required", nil)
}

// UserID returns the authenticated user id set by Authenticate.
func UserID(c echo.Context) (string, bool) {
	uid, ok := c.Get(uidKey).(string)
	return uid, ok && uid != ""
}
