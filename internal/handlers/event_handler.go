package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/services"
)

// EventHandler handles HTTP requests related to community events
type EventHandler struct {
	eventService *services.EventService
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// RegisterEventRoutes registers event and RSVP routes
func (h *EventHandler) RegisterEventRoutes(g *echo.Group) {
	g.POST("/events", h.CreateEvent)
	g.GET("/events", h.GetEvents)
	g.GET("/events/:id", h.GetEvent)
	g.PUT("/events/:id", h.UpdateEvent)
	g.DELETE("/events/:id", h.DeleteEvent)

	g.POST("/events/:id/rsvp", h.RSVP)
	g.DELETE("/events/:id/rsvp", h.CancelRSVP)
	g.POST("/events/:id/rsvp/toggle", h.ToggleRSVP)
}

// CreateEvent organizes a new event
func (h *EventHandler) CreateEvent(c echo.Context) error {
	var req models.CreateEventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	event, err := h.eventService.CreateEvent(c.Request().Context(), identityFrom(c), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, event)
}

// GetEvents lists events, soonest first
func (h *EventHandler) GetEvents(c echo.Context) error {
	events, err := h.eventService.ListEvents(c.Request().Context(), identityFrom(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, events)
}

// GetEvent retrieves an event by ID
func (h *EventHandler) GetEvent(c echo.Context) error {
	event, err := h.eventService.GetEvent(c.Request().Context(), identityFrom(c), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, event)
}

// UpdateEvent edits an event. Organizer only.
func (h *EventHandler) UpdateEvent(c echo.Context) error {
	var req models.UpdateEventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	event, err := h.eventService.UpdateEvent(c.Request().Context(), identityFrom(c), c.Param("id"), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, event)
}

// DeleteEvent cancels an event. Organizer only.
func (h *EventHandler) DeleteEvent(c echo.Context) error {
	if err := h.eventService.DeleteEvent(c.Request().Context(), identityFrom(c), c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// RSVP marks the current user as attending
func (h *EventHandler) RSVP(c echo.Context) error {
	state, err := h.eventService.RSVP(c.Request().Context(), identityFrom(c), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, state)
}

// CancelRSVP withdraws the current user's attendance
func (h *EventHandler) CancelRSVP(c echo.Context) error {
	state, err := h.eventService.CancelRSVP(c.Request().Context(), identityFrom(c), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, state)
}

// ToggleRSVP flips the current user's attendance
func (h *EventHandler) ToggleRSVP(c echo.Context) error {
	state, err := h.eventService.ToggleRSVP(c.Request().Context(), identityFrom(c), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, state)
}
