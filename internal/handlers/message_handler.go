package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/services"
)

// MessageHandler handles direct message HTTP requests
type MessageHandler struct {
	messageService *services.MessageService
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// RegisterMessageRoutes registers conversation routes
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.POST("/conversations", h.StartConversation)
	g.GET("/conversations", h.GetConversations)
	g.GET("/conversations/:id/messages", h.GetMessages)
	g.POST("/conversations/:id/messages", h.SendMessage)
	g.PUT("/conversations/:id/read", h.MarkRead)
}

// StartConversation finds or creates the thread with another member
func (h *MessageHandler) StartConversation(c echo.Context) error {
	var req models.StartConversationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	conv, err := h.messageService.StartConversation(c.Request().Context(), identityFrom(c), req.RecipientID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, conv)
}

// GetConversations lists the current user's threads, most recent first
func (h *MessageHandler) GetConversations(c echo.Context) error {
	convs, err := h.messageService.ListConversations(c.Request().Context(), identityFrom(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, convs)
}

// GetMessages returns a thread's messages, oldest first
func (h *MessageHandler) GetMessages(c echo.Context) error {
	msgs, err := h.messageService.Messages(c.Request().Context(), identityFrom(c), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, msgs)
}

// SendMessage appends a message to a thread
func (h *MessageHandler) SendMessage(c echo.Context) error {
	var req models.SendMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	msg, _, err := h.messageService.SendMessage(c.Request().Context(), identityFrom(c), c.Param("id"), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, msg)
}

// MarkRead marks the thread read for the current user
func (h *MessageHandler) MarkRead(c echo.Context) error {
	n, err := h.messageService.MarkRead(c.Request().Context(), identityFrom(c), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"marked": n})
}
