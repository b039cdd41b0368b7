package middleware

import (
	"context"
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"

	"github.com/anonto42/petconnect/backend/internal/models"
)

// TokenVerifier verifies Firebase ID tokens. *auth.Client satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseAuthMiddleware creates an Echo middleware to verify Firebase ID tokens.
// The profile id is the Firebase UID.
func FirebaseAuthMiddleware(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			idToken, err := bearerToken(c)
			if err != nil {
				return err
			}

			token, err := verifier.VerifyIDToken(c.Request().Context(), idToken)
			if err != nil {
				c.Logger().Debugf("firebase token rejected: %v", err)
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired ID token")
			}

			email, _ := token.Claims["email"].(string)
			SetIdentity(c, models.Identity{UserID: token.UID, Email: email})
			return next(c)
		}
	}
}
