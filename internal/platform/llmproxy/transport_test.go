package llmproxy_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/olustayhired/postflow/internal/config"
	"github.com/olustayhired/postflow/internal/generation"
	"github.com/olustayhired/postflow/internal/platform/llmproxy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(endpoint string) config.GenerationConfig {
	return config.GenerationConfig{
		Backend:               "proxy",
		ProxyEndpoint:         endpoint,
		ModelName:             "gemini-2.0-flash",
		RequestTimeoutSeconds: 5,
	}
}

func newTransport(t *testing.T, endpoint string) *llmproxy.Transport {
	t.Helper()
	transport, err := llmproxy.NewTransport(testConfig(endpoint), nil)
	require.NoError(t, err, "transport construction should succeed")
	return transport
}

func TestNewTransportFailsFastWithoutEndpoint(t *testing.T) {
	cfg := testConfig("")
	_, err := llmproxy.NewTransport(cfg, nil)
	require.Error(t, err, "a missing endpoint must fail at construction, not per call")
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestGenerateSuccess(t *testing.T) {
	var received struct {
		Prompt   string `json:"prompt"`
		Model    string `json:"model"`
		CacheKey string `json:"cacheKey"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"a generated post","safetyRatings":[{"category":"HARM_CATEGORY_HARASSMENT","probability":"NEGLIGIBLE"}]}`))
	}))
	defer server.Close()

	transport := newTransport(t, server.URL)
	resp, err := transport.Generate(context.Background(), "write me a post", "write me a post")
	require.NoError(t, err)

	assert.Equal(t, "a generated post", resp.Text)
	assert.False(t, resp.Failed())
	assert.NotEmpty(t, resp.SafetyRatings, "safety ratings pass through opaquely")

	assert.Equal(t, "write me a post", received.Prompt)
	assert.Equal(t, "gemini-2.0-flash", received.Model)
	assert.Equal(t, "write me a post", received.CacheKey)
}

func TestGenerateSoftFailureOnBadRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad request"}`))
	}))
	defer server.Close()

	transport := newTransport(t, server.URL)
	resp, err := transport.Generate(context.Background(), "prompt", "prompt")
	require.NoError(t, err, "a 400 is a provider decision, reported as data")

	assert.True(t, resp.Failed())
	assert.Equal(t, "bad request", resp.Err)
	assert.Empty(t, resp.Text)
}

func TestGenerateSoftFailureWithUnparseableBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	transport := newTransport(t, server.URL)
	resp, err := transport.Generate(context.Background(), "prompt", "prompt")
	require.NoError(t, err)

	assert.True(t, resp.Failed())
	assert.Contains(t, resp.Err, "502", "fallback message names the status")
}

func TestGenerateTransientStatuses(t *testing.T) {
	for _, status := range []int{http.StatusTooManyRequests, http.StatusServiceUnavailable} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":"try later"}`))
		}))

		transport := newTransport(t, server.URL)
		_, err := transport.Generate(context.Background(), "prompt", "prompt")
		server.Close()

		require.Error(t, err, "status %d must surface as an error for the retry controller", status)
		var transient *generation.TransientError
		require.ErrorAs(t, err, &transient)
		assert.Equal(t, status, transient.Status)
	}
}

func TestGenerateConnectionFailureIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	transport := newTransport(t, server.URL)
	_, err := transport.Generate(context.Background(), "prompt", "prompt")
	require.Error(t, err)

	var transient *generation.TransientError
	assert.ErrorAs(t, err, &transient, "connection failures are retryable")
}

func TestGenerateMalformedSuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	transport := newTransport(t, server.URL)
	resp, err := transport.Generate(context.Background(), "prompt", "prompt")
	require.NoError(t, err, "a parse failure is expressed as data, not rethrown")
	assert.True(t, resp.Failed())
}

func TestGenerateHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	transport := newTransport(t, server.URL)
	_, err := transport.Generate(ctx, "prompt", "prompt")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled, "cancellation is not classified as transient")
}
