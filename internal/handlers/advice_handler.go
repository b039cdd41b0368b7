package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/services"
)

// AdviceHandler handles HTTP requests for the community advice board
type AdviceHandler struct {
	adviceService *services.AdviceService
}

// NewAdviceHandler creates a new AdviceHandler
func NewAdviceHandler(adviceService *services.AdviceService) *AdviceHandler {
	return &AdviceHandler{adviceService: adviceService}
}

// RegisterAdviceRoutes registers advice board routes
func (h *AdviceHandler) RegisterAdviceRoutes(g *echo.Group) {
	g.POST("/advice", h.CreateAdvice)
	g.GET("/advice", h.GetAdvice)
	g.GET("/advice/:id", h.GetAdvicePost)
	g.DELETE("/advice/:id", h.DeleteAdvice)
	g.POST("/advice/:id/upvote/toggle", h.toggleVote(models.VoteUp))
	g.POST("/advice/:id/downvote/toggle", h.toggleVote(models.VoteDown))
}

// CreateAdvice posts a question or tip
func (h *AdviceHandler) CreateAdvice(c echo.Context) error {
	var req models.CreateAdviceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.adviceService.CreateAdvice(c.Request().Context(), identityFrom(c), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, post)
}

// GetAdvice lists the board, newest first
func (h *AdviceHandler) GetAdvice(c echo.Context) error {
	posts, err := h.adviceService.ListAdvice(c.Request().Context(), identityFrom(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, posts)
}

// GetAdvicePost retrieves one advice post
func (h *AdviceHandler) GetAdvicePost(c echo.Context) error {
	post, err := h.adviceService.GetAdvice(c.Request().Context(), identityFrom(c), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, post)
}

// DeleteAdvice removes an advice post. Author only.
func (h *AdviceHandler) DeleteAdvice(c echo.Context) error {
	if err := h.adviceService.DeleteAdvice(c.Request().Context(), identityFrom(c), c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdviceHandler) toggleVote(direction string) echo.HandlerFunc {
	return func(c echo.Context) error {
		state, err := h.adviceService.ToggleVote(c.Request().Context(), identityFrom(c), c.Param("id"), direction)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(http.StatusOK, state)
	}
}
