package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/anonto42/petconnect/backend/internal/metrics"
)

const (
	// MsgInvalidImage is shown when the upload is not a usable image
	MsgInvalidImage = "Invalid image format. Please upload a valid image."
	// MsgUnexpected is shown for any provider-side failure
	MsgUnexpected = "An unexpected error occurred."

	flowBreed = "breed"

	breedPrompt = `You are an expert in identifying dog and cat breeds.
Analyze the photo and identify the most likely breed of the pet.
Respond with the breed name and your confidence between 0 and 1.`
)

var errUnexpectedResponse = errors.New("unexpected response from model")

// BreedIdentification is the validated model answer
type BreedIdentification struct {
	IdentifiedBreed string  `json:"identifiedBreed" validate:"required"`
	Confidence      float64 `json:"confidence" validate:"gte=0,lte=1"`
}

// breedReply is the raw model object. Both fields must be present.
type breedReply struct {
	IdentifiedBreed *string  `json:"identifiedBreed" validate:"required"`
	Confidence      *float64 `json:"confidence" validate:"required"`
}

var breedSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"identifiedBreed": {
			Type:        genai.TypeString,
			Description: "The identified breed of the pet",
		},
		"confidence": {
			Type:        genai.TypeNumber,
			Description: "Confidence of the identification between 0 and 1",
			Minimum:     genai.Ptr(0.0),
			Maximum:     genai.Ptr(1.0),
		},
	},
	Required: []string{"identifiedBreed", "confidence"},
}

// BreedIdentifier runs the photo-to-breed flow
type BreedIdentifier struct {
	gen      Generator
	model    string
	validate *validator.Validate
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// NewBreedIdentifier wires the flow to a generator and model name
func NewBreedIdentifier(gen Generator, model string, logger *zap.Logger, m *metrics.Metrics) *BreedIdentifier {
	return &BreedIdentifier{
		gen:      gen,
		model:    model,
		validate: validator.New(),
		logger:   logger,
		metrics:  m,
	}
}

// Identify validates the data uri, asks the model and checks its answer.
// Malformed input never reaches the provider.
func (b *BreedIdentifier) Identify(ctx context.Context, photoDataURI string) Result[BreedIdentification] {
	img, err := ParseDataURI(photoDataURI)
	if err != nil {
		b.metrics.ObserveAI(flowBreed, KindInvalidInput.String(), 0)
		return InvalidInput[BreedIdentification](MsgInvalidImage, err)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(breedPrompt),
			genai.NewPartFromBytes(img.Data, img.MIMEType),
		}, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.2),
		ResponseMIMEType: "application/json",
		ResponseSchema:   breedSchema,
	}

	start := time.Now()
	resp, err := b.gen.GenerateContent(ctx, b.model, contents, config)
	elapsed := time.Since(start)
	if err != nil {
		b.logger.Error("Breed identification call failed", zap.Error(err))
		b.metrics.ObserveAI(flowBreed, KindUpstream.String(), elapsed)
		return Upstream[BreedIdentification](MsgUnexpected, err)
	}

	out, err := b.decode(resp)
	if err != nil {
		b.logger.Warn("Breed identification response rejected", zap.Error(err))
		b.metrics.ObserveAI(flowBreed, KindUpstream.String(), elapsed)
		return Upstream[BreedIdentification](MsgUnexpected, err)
	}

	b.metrics.ObserveAI(flowBreed, KindOK.String(), elapsed)
	return OK(out)
}

func (b *BreedIdentifier) decode(resp *genai.GenerateContentResponse) (BreedIdentification, error) {
	var out BreedIdentification
	if resp == nil {
		return out, fmt.Errorf("%w: empty response", errUnexpectedResponse)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return out, fmt.Errorf("%w: empty response", errUnexpectedResponse)
	}

	var raw breedReply
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return out, fmt.Errorf("%w: %v", errUnexpectedResponse, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return out, fmt.Errorf("%w: trailing data after object", errUnexpectedResponse)
	}
	if err := b.validate.Struct(raw); err != nil {
		return out, fmt.Errorf("%w: %v", errUnexpectedResponse, err)
	}
	out = BreedIdentification{IdentifiedBreed: *raw.IdentifiedBreed, Confidence: *raw.Confidence}
	if math.IsNaN(out.Confidence) || math.IsInf(out.Confidence, 0) {
		return out, fmt.Errorf("%w: confidence is not finite", errUnexpectedResponse)
	}
	out.IdentifiedBreed = strings.TrimSpace(out.IdentifiedBreed)
	if err := b.validate.Struct(out); err != nil {
		return out, fmt.Errorf("%w: %v", errUnexpectedResponse, err)
	}
	return out, nil
}
