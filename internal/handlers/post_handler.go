package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/services"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postService *services.PostService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postService *services.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/:id", h.GetPost)
	g.GET("/posts", h.GetPosts) // ?author_id= for one member's posts
	g.DELETE("/posts/:id", h.DeletePost)
}

// CreatePost creates a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.postService.CreatePost(c.Request().Context(), identityFrom(c), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, post)
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.postService.GetPost(c.Request().Context(), identityFrom(c), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, post)
}

// GetPosts retrieves a page of posts, optionally by a single author
func (h *PostHandler) GetPosts(c echo.Context) error {
	ctx := c.Request().Context()
	actor := identityFrom(c)
	page, limit := queryInt(c, "page"), queryInt(c, "limit")

	var (
		result *models.FeedPage
		err    error
	)
	if authorID := c.QueryParam("author_id"); authorID != "" {
		result, err = h.postService.PostsByAuthor(ctx, actor, authorID, page, limit)
	} else {
		result, err = h.postService.Feed(ctx, actor, page, limit)
	}
	if err != nil {
		return httpError(err)
	}
	return feedResponse(c, result)
}

// DeletePost deletes a post
func (h *PostHandler) DeletePost(c echo.Context) error {
	if err := h.postService.DeletePost(c.Request().Context(), identityFrom(c), c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
