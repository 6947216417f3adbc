package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olustayhired/postflow/internal/api"
	"github.com/olustayhired/postflow/internal/api/shared"
	"github.com/olustayhired/postflow/internal/domain"
	"github.com/olustayhired/postflow/internal/generation"
)

type stubService struct {
	resp    *generation.Response
	err     error
	records []*domain.GenerationRecord

	lastPrompt  string
	lastRequest generation.Request
	lastContent string
	lastLength  int
}

func (s *stubService) GenerateFromPrompt(ctx context.Context, userID uuid.UUID, promptText string) (*generation.Response, error) {
	s.lastPrompt = promptText
	return s.resp, s.err
}

func (s *stubService) GenerateHook(ctx context.Context, userID uuid.UUID, req generation.Request) (*generation.Response, error) {
	s.lastRequest = req
	return s.resp, s.err
}

func (s *stubService) GenerateLinkedIn(ctx context.Context, userID uuid.UUID, req generation.Request) (*generation.Response, error) {
	s.lastRequest = req
	return s.resp, s.err
}

func (s *stubService) Rewrite(ctx context.Context, userID uuid.UUID, content string, targetLength int) (*generation.Response, error) {
	s.lastContent = content
	s.lastLength = targetLength
	return s.resp, s.err
}

func (s *stubService) ListHistory(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.GenerationRecord, error) {
	return s.records, s.err
}

// doRequest invokes the handler with an authenticated request.
func doRequest(
	t *testing.T,
	handler http.HandlerFunc,
	method, path string,
	body interface{},
) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, uuid.New())
	req = req.WithContext(ctx)

	recorder := httptest.NewRecorder()
	handler(recorder, req)
	return recorder
}

func TestGenerateHookSuccess(t *testing.T) {
	svc := &stubService{resp: &generation.Response{Text: "a hook", Attempts: 1}}
	handler := api.NewGenerationHandler(svc)

	recorder := doRequest(t, handler.GenerateHook, http.MethodPost, "/api/generate/hook",
		map[string]interface{}{
			"topic":           "unit testing",
			"target_audience": "backend engineers",
			"exclude_tones":   []string{"witty"},
		})

	require.Equal(t, http.StatusOK, recorder.Code)

	var resp api.GenerationResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, "a hook", resp.Text)
	assert.Empty(t, resp.Error)

	assert.Equal(t, "unit testing", svc.lastRequest.Topic)
	assert.Equal(t, []string{"witty"}, svc.lastRequest.ExcludeTones)
}

func TestGenerateHookRejectsMissingTopic(t *testing.T) {
	svc := &stubService{resp: &generation.Response{Text: "x"}}
	handler := api.NewGenerationHandler(svc)

	recorder := doRequest(t, handler.GenerateHook, http.MethodPost, "/api/generate/hook",
		map[string]interface{}{"theme": "growth"})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestGenerateRequiresAuthenticatedUser(t *testing.T) {
	svc := &stubService{resp: &generation.Response{Text: "x"}}
	handler := api.NewGenerationHandler(svc)

	// No user ID in context.
	req := httptest.NewRequest(http.MethodPost, "/api/generate", bytes.NewBufferString(`{"prompt":"hi"}`))
	recorder := httptest.NewRecorder()
	handler.GeneratePrompt(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestSoftFailureReturnsOKWithError(t *testing.T) {
	svc := &stubService{resp: &generation.Response{Err: "content blocked by provider"}}
	handler := api.NewGenerationHandler(svc)

	recorder := doRequest(t, handler.GeneratePrompt, http.MethodPost, "/api/generate",
		map[string]interface{}{"prompt": "write something"})

	require.Equal(t, http.StatusOK, recorder.Code, "provider refusals are data, not transport failures")

	var resp api.GenerationResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, "content blocked by provider", resp.Error)
	assert.Empty(t, resp.Text)
}

func TestRetryExhaustionMapsToServiceUnavailable(t *testing.T) {
	svc := &stubService{err: generation.ErrRetriesExhausted}
	handler := api.NewGenerationHandler(svc)

	recorder := doRequest(t, handler.GeneratePrompt, http.MethodPost, "/api/generate",
		map[string]interface{}{"prompt": "write something"})

	require.Equal(t, http.StatusServiceUnavailable, recorder.Code)

	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "5 minutes", "the user-facing wait guidance survives the mapping")
}

func TestRewritePassesContentAndLength(t *testing.T) {
	svc := &stubService{resp: &generation.Response{Text: "expanded"}}
	handler := api.NewGenerationHandler(svc)

	recorder := doRequest(t, handler.RewriteLinkedIn, http.MethodPost, "/api/rewrite/linkedin",
		map[string]interface{}{"source_content": "short post", "target_length": 1200})

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "short post", svc.lastContent)
	assert.Equal(t, 1200, svc.lastLength)
}

func TestListGenerations(t *testing.T) {
	record, err := domain.NewGenerationRecord(uuid.New(), domain.VariantHook, "topic=testing")
	require.NoError(t, err)
	record.ResultText = "a hook"

	svc := &stubService{records: []*domain.GenerationRecord{record}}
	handler := api.NewGenerationHandler(svc)

	recorder := doRequest(t, handler.ListGenerations, http.MethodGet, "/api/generations?limit=10", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var out []api.GenerationRecordResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, record.ID.String(), out[0].ID)
	assert.Equal(t, "hook", out[0].Variant)
	assert.Equal(t, "a hook", out[0].ResultText)
}

func TestInvalidJSONBodyIsBadRequest(t *testing.T) {
	svc := &stubService{resp: &generation.Response{Text: "x"}}
	handler := api.NewGenerationHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/generate", bytes.NewBufferString("{not json"))
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, uuid.New())
	recorder := httptest.NewRecorder()
	handler.GeneratePrompt(recorder, req.WithContext(ctx))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
