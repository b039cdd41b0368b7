package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/petconnect/backend/internal/ai"
)

// BreedIdentifier names a pet's breed from a photo
type BreedIdentifier interface {
	Identify(ctx context.Context, photoDataURI string) ai.Result[ai.BreedIdentification]
}

// Advisor answers free-form pet care questions
type Advisor interface {
	Advise(ctx context.Context, question string) ai.Result[string]
}

// BreedRequest is the body of POST /ai/breed
type BreedRequest struct {
	PhotoDataURI string `json:"photoDataUri"`
}

// AdviceRequest is the body of POST /ai/advice
type AdviceRequest struct {
	Question string `json:"question"`
}

// AIHandler serves the breed identification and instant advice flows
type AIHandler struct {
	breeds  BreedIdentifier
	advisor Advisor
}

// NewAIHandler creates a new AIHandler
func NewAIHandler(breeds BreedIdentifier, advisor Advisor) *AIHandler {
	return &AIHandler{breeds: breeds, advisor: advisor}
}

// RegisterAIRoutes registers the model-backed routes. mw is applied to both (rate limiting).
func (h *AIHandler) RegisterAIRoutes(g *echo.Group, mw ...echo.MiddlewareFunc) {
	g.POST("/ai/breed", h.IdentifyBreed, mw...)
	g.POST("/ai/advice", h.InstantAdvice, mw...)
}

// IdentifyBreed runs breed identification on an uploaded photo data URI
func (h *AIHandler) IdentifyBreed(c echo.Context) error {
	var req BreedRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, ai.MsgInvalidImage)
	}

	res := h.breeds.Identify(c.Request().Context(), req.PhotoDataURI)
	if v, ok := res.Value(); ok {
		return c.JSON(http.StatusOK, v)
	}
	return resultError(res.Kind(), res.Message(), res.Err())
}

// InstantAdvice answers a pet care question
func (h *AIHandler) InstantAdvice(c echo.Context) error {
	var req AdviceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	res := h.advisor.Advise(c.Request().Context(), req.Question)
	if v, ok := res.Value(); ok {
		return c.JSON(http.StatusOK, echo.Map{"advice": v})
	}
	return resultError(res.Kind(), res.Message(), res.Err())
}

func resultError(kind ai.Kind, message string, cause error) error {
	if kind == ai.KindInvalidInput {
		return echo.NewHTTPError(http.StatusBadRequest, message).SetInternal(cause)
	}
	return echo.NewHTTPError(http.StatusBadGateway, message).SetInternal(cause)
}
