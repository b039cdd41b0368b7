package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/services"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/signin", h.SignIn)
	g.POST("/firebase-login", h.FirebaseLogin)
}

// Signup handles local email/password registration
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.authService.Signup(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, resp)
}

// SignIn handles local email/password sign-in
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req models.SignInRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.authService.SignIn(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// FirebaseLogin exchanges a Firebase ID token for a local JWT, creating the profile on first login
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req models.FirebaseLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.authService.FirebaseLogin(c.Request().Context(), req.IDToken)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}
