package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/petconnect/backend/internal/services"
)

// LikeHandler handles like-related HTTP requests
type LikeHandler struct {
	postService *services.PostService
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(postService *services.PostService) *LikeHandler {
	return &LikeHandler{postService: postService}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:id/likes", h.LikePost)
	g.DELETE("/posts/:id/likes", h.UnlikePost)
	g.POST("/posts/:id/likes/toggle", h.ToggleLike)
}

// LikePost adds the current user's like. Liking twice is a no-op.
func (h *LikeHandler) LikePost(c echo.Context) error {
	state, err := h.postService.Like(c.Request().Context(), identityFrom(c), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, state)
}

// UnlikePost removes the current user's like
func (h *LikeHandler) UnlikePost(c echo.Context) error {
	state, err := h.postService.Unlike(c.Request().Context(), identityFrom(c), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, state)
}

// ToggleLike flips the current user's like
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	state, err := h.postService.ToggleLike(c.Request().Context(), identityFrom(c), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, state)
}
