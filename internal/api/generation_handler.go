package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/olustayhired/postflow/internal/api/shared"
	"github.com/olustayhired/postflow/internal/domain"
	"github.com/olustayhired/postflow/internal/generation"
)

// defaultHistoryLimit bounds GET /api/generations when no limit is given.
const defaultHistoryLimit = 50

// GenerationService is the application service the handler delegates to.
type GenerationService interface {
	GenerateFromPrompt(ctx context.Context, userID uuid.UUID, promptText string) (*generation.Response, error)
	GenerateHook(ctx context.Context, userID uuid.UUID, req generation.Request) (*generation.Response, error)
	GenerateLinkedIn(ctx context.Context, userID uuid.UUID, req generation.Request) (*generation.Response, error)
	Rewrite(ctx context.Context, userID uuid.UUID, content string, targetLength int) (*generation.Response, error)
	ListHistory(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.GenerationRecord, error)
}

// GenerationHandler handles content generation HTTP requests
type GenerationHandler struct {
	service   GenerationService
	validator *validator.Validate
}

// NewGenerationHandler creates a new GenerationHandler
func NewGenerationHandler(service GenerationService) *GenerationHandler {
	return &GenerationHandler{
		service:   service,
		validator: validator.New(),
	}
}

// GeneratePrompt handles POST /api/generate requests
func (h *GenerationHandler) GeneratePrompt(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req GeneratePromptRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.service.GenerateFromPrompt(r.Context(), userID, req.Prompt)
	h.respond(w, r, resp, err)
}

// GenerateHook handles POST /api/generate/hook requests
func (h *GenerationHandler) GenerateHook(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req GeneratePostRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.service.GenerateHook(r.Context(), userID, req.toGenerationRequest())
	h.respond(w, r, resp, err)
}

// GenerateLinkedIn handles POST /api/generate/linkedin requests
func (h *GenerationHandler) GenerateLinkedIn(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req GeneratePostRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.service.GenerateLinkedIn(r.Context(), userID, req.toGenerationRequest())
	h.respond(w, r, resp, err)
}

// RewriteLinkedIn handles POST /api/rewrite/linkedin requests
func (h *GenerationHandler) RewriteLinkedIn(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req RewriteRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.service.Rewrite(r.Context(), userID, req.SourceContent, req.TargetLength)
	h.respond(w, r, resp, err)
}

// ListGenerations handles GET /api/generations requests
func (h *GenerationHandler) ListGenerations(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	limit := queryInt(r, "limit", defaultHistoryLimit)
	offset := queryInt(r, "offset", 0)

	records, err := h.service.ListHistory(r.Context(), userID, limit, offset)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	out := make([]GenerationRecordResponse, 0, len(records))
	for _, record := range records {
		out = append(out, toRecordResponse(record))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, out)
}

// requireUser extracts the authenticated user ID placed in the context
// by the auth middleware.
func (h *GenerationHandler) requireUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return uuid.Nil, false
	}
	return userID, true
}

func (h *GenerationHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := shared.DecodeJSON(r, v); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return false
	}
	if err := h.validator.Struct(v); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return false
	}
	return true
}

// respond writes the generation result. Provider-level refusals ride in
// the response body with a 200 status; hard failures map to an error code.
func (h *GenerationHandler) respond(w http.ResponseWriter, r *http.Request, resp *generation.Response, err error) {
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, toGenerationResponse(resp))
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
