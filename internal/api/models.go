package api

import (
	"encoding/json"
	"time"

	"github.com/olustayhired/postflow/internal/domain"
	"github.com/olustayhired/postflow/internal/generation"
)

// GeneratePromptRequest is the body for the low-level generate endpoint.
type GeneratePromptRequest struct {
	Prompt string `json:"prompt" validate:"required,min=1"`
}

// GeneratePostRequest is the body for the hook and LinkedIn post endpoints.
type GeneratePostRequest struct {
	Theme          string   `json:"theme"`
	Topic          string   `json:"topic"            validate:"required,min=1"`
	TargetAudience string   `json:"target_audience"`
	SourceContent  string   `json:"source_content"`
	TargetLength   int      `json:"target_length"    validate:"omitempty,gt=0"`
	ExcludeTones   []string `json:"exclude_tones"`
}

// RewriteRequest is the body for the rewrite endpoint.
type RewriteRequest struct {
	SourceContent string `json:"source_content" validate:"required,min=1"`
	TargetLength  int    `json:"target_length"  validate:"omitempty,gt=0"`
}

// GenerationResponse is the response for all generation endpoints.
// A provider-level refusal appears in Error with a 200 status; transport
// and retry failures are reported through the standard error response.
type GenerationResponse struct {
	Text          string          `json:"text,omitempty"`
	Error         string          `json:"error,omitempty"`
	CacheHit      bool            `json:"cache_hit"`
	Attempts      int             `json:"attempts,omitempty"`
	SafetyRatings json.RawMessage `json:"safety_ratings,omitempty"`
}

// GenerationRecordResponse is one entry in the generation history listing.
type GenerationRecordResponse struct {
	ID           string    `json:"id"`
	Variant      string    `json:"variant"`
	Prompt       string    `json:"prompt"`
	ResultText   string    `json:"result_text,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CacheHit     bool      `json:"cache_hit"`
	Attempts     int       `json:"attempts"`
	CreatedAt    time.Time `json:"created_at"`
}

// toGenerationRequest converts the request DTO to the client's input type.
func (r GeneratePostRequest) toGenerationRequest() generation.Request {
	return generation.Request{
		Theme:          r.Theme,
		Topic:          r.Topic,
		TargetAudience: r.TargetAudience,
		SourceContent:  r.SourceContent,
		TargetLength:   r.TargetLength,
		ExcludeTones:   r.ExcludeTones,
	}
}

// toGenerationResponse converts a client response to the response DTO.
func toGenerationResponse(resp *generation.Response) GenerationResponse {
	return GenerationResponse{
		Text:          resp.Text,
		Error:         resp.Err,
		CacheHit:      resp.CacheHit,
		Attempts:      resp.Attempts,
		SafetyRatings: resp.SafetyRatings,
	}
}

// toRecordResponse converts an audit record to its listing DTO.
func toRecordResponse(record *domain.GenerationRecord) GenerationRecordResponse {
	return GenerationRecordResponse{
		ID:           record.ID.String(),
		Variant:      string(record.Variant),
		Prompt:       record.Prompt,
		ResultText:   record.ResultText,
		ErrorMessage: record.ErrorMessage,
		CacheHit:     record.CacheHit,
		Attempts:     record.Attempts,
		CreatedAt:    record.CreatedAt,
	}
}
