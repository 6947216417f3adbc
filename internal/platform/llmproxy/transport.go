package llmproxy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/olustayhired/postflow/internal/config"
	"github.com/olustayhired/postflow/internal/generation"
	"github.com/olustayhired/postflow/internal/platform/logger"
	"github.com/olustayhired/postflow/internal/redact"
)

// generateRequest is the proxy wire format.
type generateRequest struct {
	Prompt   string `json:"prompt"`
	Model    string `json:"model"`
	CacheKey string `json:"cacheKey"`
}

// generateResponse is the proxy's success body.
type generateResponse struct {
	Text          string          `json:"text"`
	SafetyRatings json.RawMessage `json:"safetyRatings,omitempty"`
}

// errorResponse is the proxy's failure body.
type errorResponse struct {
	Error string `json:"error"`
}

// Transport sends prompts to the generation proxy over HTTP.
type Transport struct {
	endpoint string
	model    string
	client   *http.Client
	logger   *slog.Logger
}

// Ensure Transport implements the generation.Transport interface.
var _ generation.Transport = (*Transport)(nil)

// NewTransport creates a proxy transport from configuration. A missing
// endpoint is fatal here, at construction: the client must fail fast
// rather than fall back to any other call path. A nil logger falls back
// to slog.Default.
func NewTransport(cfg config.GenerationConfig, log *slog.Logger) (*Transport, error) {
	if cfg.ProxyEndpoint == "" {
		return nil, fmt.Errorf("%w: proxy endpoint is not configured", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}
	if log == nil {
		log = slog.Default()
	}

	timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Transport{
		endpoint: cfg.ProxyEndpoint,
		model:    cfg.ModelName,
		client:   &http.Client{Timeout: timeout},
		logger:   log.With(slog.String("component", "llmproxy_transport")),
	}, nil
}

// Generate posts the prompt to the proxy.
//
// Statuses 429 and 503 surface as TransientError so the caller retries;
// other non-2xx statuses are provider decisions about this request and
// come back as a soft failure. Connection-level failures surface as
// TransientError with no status.
func (t *Transport) Generate(ctx context.Context, prompt, cacheHint string) (*generation.Response, error) {
	log := logger.FromContextOrDefault(ctx, t.logger)

	body, err := json.Marshal(generateRequest{
		Prompt:   prompt,
		Model:    t.model,
		CacheKey: cacheHint,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		// Context cancellation is the caller's decision, not a transport
		// failure to retry.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.WarnContext(ctx, "proxy call failed at the connection level",
			slog.String("error", redact.Error(err)))
		return nil, &generation.TransientError{Err: err}
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.DebugContext(ctx, "failed to close proxy response body",
				slog.String("error", closeErr.Error()))
		}
	}()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &generation.TransientError{Err: fmt.Errorf("failed to read proxy response: %w", err)}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable:
		return nil, &generation.TransientError{
			Status: resp.StatusCode,
			Err:    errors.New(http.StatusText(resp.StatusCode)),
		}

	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return softFailure(log, ctx, resp.StatusCode, payload), nil
	}

	var success generateResponse
	if err := json.Unmarshal(payload, &success); err != nil {
		// A malformed success body is a provider defect for this request,
		// reported as data like any other provider failure.
		log.WarnContext(ctx, "proxy returned a malformed success body",
			slog.String("error", err.Error()))
		return &generation.Response{Err: "malformed response from generation service"}, nil
	}

	return &generation.Response{
		Text:          success.Text,
		SafetyRatings: success.SafetyRatings,
	}, nil
}

// softFailure converts a non-retryable provider status into response data.
func softFailure(log *slog.Logger, ctx context.Context, status int, payload []byte) *generation.Response {
	var failure errorResponse
	if err := json.Unmarshal(payload, &failure); err != nil || failure.Error == "" {
		failure.Error = fmt.Sprintf("generation service returned status %d", status)
	}

	log.WarnContext(ctx, "proxy reported a generation failure",
		slog.Int("status", status),
		slog.String("provider_error", failure.Error))

	return &generation.Response{Err: failure.Error}
}
