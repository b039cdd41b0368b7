package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/services"
)

// ReminderHandler handles HTTP requests related to private reminders
type ReminderHandler struct {
	reminderService *services.ReminderService
}

// NewReminderHandler creates a new ReminderHandler
func NewReminderHandler(reminderService *services.ReminderService) *ReminderHandler {
	return &ReminderHandler{reminderService: reminderService}
}

// RegisterReminderRoutes registers reminder routes
func (h *ReminderHandler) RegisterReminderRoutes(g *echo.Group) {
	g.POST("/reminders", h.CreateReminder)
	g.GET("/reminders", h.GetReminders)
	g.PUT("/reminders/:id/toggle", h.ToggleReminder)
	g.DELETE("/reminders/:id", h.DeleteReminder)
}

// CreateReminder stores a reminder for the current user
func (h *ReminderHandler) CreateReminder(c echo.Context) error {
	var req models.CreateReminderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	reminder, err := h.reminderService.CreateReminder(c.Request().Context(), identityFrom(c), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, reminder)
}

// GetReminders returns the upcoming and completed lists
func (h *ReminderHandler) GetReminders(c echo.Context) error {
	board, err := h.reminderService.Board(c.Request().Context(), identityFrom(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, board)
}

// ToggleReminder flips a reminder between upcoming and completed
func (h *ReminderHandler) ToggleReminder(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	reminder, err := h.reminderService.ToggleReminder(c.Request().Context(), identityFrom(c), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, reminder)
}

// DeleteReminder removes a reminder
func (h *ReminderHandler) DeleteReminder(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.reminderService.DeleteReminder(c.Request().Context(), identityFrom(c), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
