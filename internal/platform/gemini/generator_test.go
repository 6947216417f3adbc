package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/olustayhired/postflow/internal/config"
	"github.com/olustayhired/postflow/internal/generation"
)

func TestNewTransportValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.GenerationConfig
	}{
		{
			name: "missing api key",
			cfg:  config.GenerationConfig{Backend: "gemini", ModelName: "gemini-2.0-flash"},
		},
		{
			name: "missing model name",
			cfg:  config.GenerationConfig{Backend: "gemini", GeminiAPIKey: "test-key"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTransport(context.Background(), tc.cfg, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, generation.ErrInvalidConfig)
		})
	}
}

func TestClassifyError(t *testing.T) {
	transport := &Transport{}

	t.Run("rate limit is transient", func(t *testing.T) {
		err := transport.classifyError(context.Background(), genai.APIError{Code: 429, Message: "quota"})
		var transient *generation.TransientError
		require.ErrorAs(t, err, &transient)
		assert.Equal(t, 429, transient.Status)
	})

	t.Run("unavailable is transient", func(t *testing.T) {
		err := transport.classifyError(context.Background(), genai.APIError{Code: 503, Message: "overloaded"})
		var transient *generation.TransientError
		require.ErrorAs(t, err, &transient)
		assert.Equal(t, 503, transient.Status)
	})

	t.Run("permission denied is permanent", func(t *testing.T) {
		err := transport.classifyError(context.Background(), genai.APIError{Code: 403, Message: "forbidden"})
		var transient *generation.TransientError
		assert.False(t, errors.As(err, &transient))
		assert.Contains(t, err.Error(), "403")
	})

	t.Run("cancellation wins over classification", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := transport.classifyError(ctx, genai.APIError{Code: 429})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestBlockedResponse(t *testing.T) {
	t.Run("prompt feedback reason", func(t *testing.T) {
		resp := blockedResponse(&genai.GenerateContentResponse{
			PromptFeedback: &genai.GenerateContentResponsePromptFeedback{
				BlockReason: genai.BlockedReasonSafety,
			},
		})
		assert.True(t, resp.Failed())
		assert.Contains(t, resp.Err, "blocked")
	})

	t.Run("finish reason", func(t *testing.T) {
		resp := blockedResponse(&genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
		})
		assert.True(t, resp.Failed())
		assert.Contains(t, resp.Err, "generation stopped")
	})

	t.Run("no detail at all", func(t *testing.T) {
		resp := blockedResponse(&genai.GenerateContentResponse{})
		assert.True(t, resp.Failed())
		assert.Equal(t, "the model returned no content", resp.Err)
	})
}

func TestSafetyRatingsPassThrough(t *testing.T) {
	result := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			SafetyRatings: []*genai.SafetyRating{{
				Category:    genai.HarmCategoryHarassment,
				Probability: genai.HarmProbabilityNegligible,
			}},
		}},
	}

	raw := safetyRatings(result)
	require.NotEmpty(t, raw)
	assert.Contains(t, string(raw), "HARM_CATEGORY_HARASSMENT")

	assert.Nil(t, safetyRatings(&genai.GenerateContentResponse{}))
}
