package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/services"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	postService *services.PostService
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(postService *services.PostService) *FeedHandler {
	return &FeedHandler{postService: postService}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// GetFeed returns enriched feed posts for the current user, newest first
func (h *FeedHandler) GetFeed(c echo.Context) error {
	result, err := h.postService.Feed(c.Request().Context(), identityFrom(c), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		return httpError(err)
	}
	return feedResponse(c, result)
}

func feedResponse(c echo.Context, result *models.FeedPage) error {
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"posts": result.Posts,
		},
		"meta": result.Meta,
	})
}
