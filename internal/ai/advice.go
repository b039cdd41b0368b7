package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/anonto42/petconnect/backend/internal/metrics"
)

const flowAdvice = "advice"

const advicePersona = `You are a friendly and knowledgeable pet care expert for the PetConnect app.
Your goal is to provide helpful, safe, and general advice to pet owners.
Keep your answers concise, easy to understand, and encouraging.
If a situation sounds urgent or serious, strongly advise the user to contact a veterinarian immediately.
Do not provide medical diagnoses.

Please answer the following question from the user:
"%s"`

// ErrEmptyQuestion is returned when the question is blank
var ErrEmptyQuestion = errors.New("question is required")

// AdviceSafetySettings relaxes only the dangerous-content filter so questions
// about toxic food or injuries still get an answer.
var AdviceSafetySettings = []*genai.SafetySetting{
	{
		Category:  genai.HarmCategoryDangerousContent,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
}

// Advisor runs the instant advice flow
type Advisor struct {
	gen     Generator
	model   string
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewAdvisor wires the flow to a generator and model name
func NewAdvisor(gen Generator, model string, logger *zap.Logger, m *metrics.Metrics) *Advisor {
	return &Advisor{gen: gen, model: model, logger: logger, metrics: m}
}

// Prompt renders the persona prompt around the question
func Prompt(question string) string {
	return fmt.Sprintf(advicePersona, question)
}

// Advise sends one question. There is no retry.
func (a *Advisor) Advise(ctx context.Context, question string) Result[string] {
	question = strings.TrimSpace(question)
	if question == "" {
		a.metrics.ObserveAI(flowAdvice, KindInvalidInput.String(), 0)
		return InvalidInput[string]("Please enter a question.", ErrEmptyQuestion)
	}

	config := &genai.GenerateContentConfig{
		SafetySettings: AdviceSafetySettings,
	}

	start := time.Now()
	resp, err := a.gen.GenerateContent(ctx, a.model, genai.Text(Prompt(question)), config)
	elapsed := time.Since(start)
	if err != nil {
		a.logger.Error("Advice call failed", zap.Error(err))
		a.metrics.ObserveAI(flowAdvice, KindUpstream.String(), elapsed)
		return Upstream[string](MsgUnexpected, err)
	}

	var text string
	if resp != nil {
		text = strings.TrimSpace(resp.Text())
	}
	if text == "" {
		a.logger.Warn("Advice call returned no text")
		a.metrics.ObserveAI(flowAdvice, KindUpstream.String(), elapsed)
		return Upstream[string](MsgUnexpected, fmt.Errorf("%w: empty advice", errUnexpectedResponse))
	}

	a.metrics.ObserveAI(flowAdvice, KindOK.String(), elapsed)
	return OK(text)
}
