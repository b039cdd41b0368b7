package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/services"
)

// UserHandler handles HTTP requests related to member profiles
type UserHandler struct {
	profileService *services.ProfileService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(profileService *services.ProfileService) *UserHandler {
	return &UserHandler{profileService: profileService}
}

// RegisterProfileRoutes registers user profile-related routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/profile", h.GetProfile)    // own profile
	g.PUT("/profile", h.UpdateProfile) // own profile
	g.POST("/onboarding", h.CompleteOnboarding)
	g.GET("/users/search", h.SearchUsers)
	g.GET("/users/:id", h.GetUser)
}

// GetUser returns another member's profile
func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.profileService.GetProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// GetProfile retrieves the authenticated user's profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	user, err := h.profileService.GetProfile(c.Request().Context(), identityFrom(c).UserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile edits the authenticated user's profile
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req models.UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.profileService.UpdateProfile(c.Request().Context(), identityFrom(c), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// CompleteOnboarding finishes a new member's profile and registers their pets
func (h *UserHandler) CompleteOnboarding(c echo.Context) error {
	var req models.OnboardingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.profileService.CompleteOnboarding(c.Request().Context(), identityFrom(c), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// SearchUsers finds discoverable members by name (q) and pet breed
func (h *UserHandler) SearchUsers(c echo.Context) error {
	results, err := h.profileService.Search(c.Request().Context(), c.QueryParam("q"), c.QueryParam("breed"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"users": results},
	})
}
