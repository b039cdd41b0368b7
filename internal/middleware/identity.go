package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/petconnect/backend/internal/models"
)

// IdentityKey is the echo context key holding the acting models.Identity
const IdentityKey = "identity"

// SetIdentity attaches the acting user to the request
func SetIdentity(c echo.Context, id models.Identity) {
	c.Set(IdentityKey, id)
}

// IdentityFrom returns the acting user, or a zero Identity when the request is anonymous
func IdentityFrom(c echo.Context) models.Identity {
	id, _ := c.Get(IdentityKey).(models.Identity)
	return id
}

// bearerToken extracts the token from "Authorization: Bearer <token>"
func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
	}
	return parts[1], nil
}
