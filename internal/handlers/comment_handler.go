package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/services"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentService *services.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comments", h.createOn(models.CommentTargetPost))
	g.GET("/posts/:id/comments", h.listOn(models.CommentTargetPost))
	g.POST("/advice/:id/comments", h.createOn(models.CommentTargetAdvice))
	g.GET("/advice/:id/comments", h.listOn(models.CommentTargetAdvice))
	g.DELETE("/comments/:id", h.DeleteComment)
}

func (h *CommentHandler) createOn(targetType string) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.CreateCommentRequest
		if err := bindAndValidate(c, &req); err != nil {
			return err
		}

		comment, _, err := h.commentService.AddComment(c.Request().Context(), identityFrom(c), targetType, c.Param("id"), req)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(http.StatusCreated, comment)
	}
}

func (h *CommentHandler) listOn(targetType string) echo.HandlerFunc {
	return func(c echo.Context) error {
		comments, err := h.commentService.ListComments(c.Request().Context(), targetType, c.Param("id"))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(http.StatusOK, comments)
	}
}

// DeleteComment deletes the current user's comment
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.commentService.DeleteComment(c.Request().Context(), identityFrom(c), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
