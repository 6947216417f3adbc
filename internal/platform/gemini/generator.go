package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/olustayhired/postflow/internal/config"
	"github.com/olustayhired/postflow/internal/generation"
)

// Transport generates content by calling the Gemini API directly.
type Transport struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

var _ generation.Transport = (*Transport)(nil)

// NewTransport creates the direct Gemini backend. It validates its
// configuration eagerly so a bad API key or missing model name fails at
// startup rather than on the first request.
func NewTransport(ctx context.Context, cfg config.GenerationConfig, logger *slog.Logger) (*Transport, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini api key is required", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name is required", generation.ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Transport{
		client: client,
		model:  cfg.ModelName,
		logger: logger.With(slog.String("component", "gemini_transport")),
	}, nil
}

// Generate sends the prompt to Gemini. The cache hint is accepted for
// interface parity but Gemini has no server-side cache keyed on it.
func (t *Transport) Generate(ctx context.Context, prompt string, cacheHint string) (*generation.Response, error) {
	result, err := t.client.Models.GenerateContent(ctx, t.model, genai.Text(prompt), nil)
	if err != nil {
		return nil, t.classifyError(ctx, err)
	}

	text := result.Text()
	if text == "" {
		return blockedResponse(result), nil
	}

	return &generation.Response{
		Text:          text,
		SafetyRatings: safetyRatings(result),
	}, nil
}

// classifyError splits Gemini call failures into the two channels the
// retry controller distinguishes: 429 and 503 become transient errors,
// everything else is wrapped so the caller gives up immediately.
func (t *Transport) classifyError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == 429 || apiErr.Code == 503 {
			return &generation.TransientError{Status: apiErr.Code, Err: err}
		}
		return fmt.Errorf("gemini api error (status %d): %w", apiErr.Code, err)
	}

	// Anything that never produced an API status is treated as a
	// connectivity problem and left to the retry controller.
	return &generation.TransientError{Err: err}
}

// blockedResponse reports an empty completion as a soft failure,
// carrying the model's stated reason when one is available.
func blockedResponse(result *genai.GenerateContentResponse) *generation.Response {
	resp := &generation.Response{
		Err:           "the model returned no content",
		SafetyRatings: safetyRatings(result),
	}

	if result.PromptFeedback != nil && result.PromptFeedback.BlockReason != "" {
		resp.Err = fmt.Sprintf("the prompt was blocked: %s", result.PromptFeedback.BlockReason)
		return resp
	}
	if len(result.Candidates) > 0 && result.Candidates[0].FinishReason != "" {
		resp.Err = fmt.Sprintf("generation stopped: %s", result.Candidates[0].FinishReason)
	}
	return resp
}

// safetyRatings marshals the first candidate's safety ratings so they
// pass through to callers without this package interpreting them.
func safetyRatings(result *genai.GenerateContentResponse) json.RawMessage {
	if len(result.Candidates) == 0 || len(result.Candidates[0].SafetyRatings) == 0 {
		return nil
	}
	raw, err := json.Marshal(result.Candidates[0].SafetyRatings)
	if err != nil {
		return nil
	}
	return raw
}
