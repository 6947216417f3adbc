package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/olustayhired/postflow/internal/domain"
	"github.com/olustayhired/postflow/internal/generation"
	"github.com/olustayhired/postflow/internal/platform/logger"
	"github.com/olustayhired/postflow/internal/store"
)

// auditContentLimit caps how much source content is copied into an
// audit record for rewrite requests.
const auditContentLimit = 200

// Generator is the subset of the generation client the service depends
// on. It is an interface so handler tests can substitute a stub.
type Generator interface {
	GenerateHookPost(ctx context.Context, req generation.Request) (*generation.Response, error)
	GenerateLinkedInPost(ctx context.Context, req generation.Request) (*generation.Response, error)
	RewriteForLinkedIn(ctx context.Context, content string, targetLength int) (*generation.Response, error)
	Generate(ctx context.Context, promptText string) (*generation.Response, error)
}

// GenerationService coordinates content generation with the audit log.
// Audit writes are best effort: a storage failure is logged but never
// turns a successful generation into an error for the caller.
type GenerationService struct {
	generator Generator
	logStore  store.GenerationLogStore
	logger    *slog.Logger
}

// NewGenerationService creates a GenerationService. The log store may
// be nil, in which case no audit records are written.
func NewGenerationService(
	generator Generator,
	logStore store.GenerationLogStore,
	log *slog.Logger,
) (*GenerationService, error) {
	if generator == nil {
		return nil, fmt.Errorf("generator cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &GenerationService{
		generator: generator,
		logStore:  logStore,
		logger:    log.With(slog.String("component", "generation_service")),
	}, nil
}

// GenerateFromPrompt runs a caller-supplied prompt through the full
// cache, pacing, and retry pipeline and records the outcome.
func (s *GenerationService) GenerateFromPrompt(
	ctx context.Context,
	userID uuid.UUID,
	promptText string,
) (*generation.Response, error) {
	resp, err := s.generator.Generate(ctx, promptText)
	if err != nil {
		return nil, err
	}

	audited := promptText
	if len(audited) > auditContentLimit {
		audited = audited[:auditContentLimit]
	}
	s.audit(ctx, userID, domain.VariantPrompt, audited, resp)
	return resp, nil
}

// GenerateHook produces a short-form hook post and records the outcome.
func (s *GenerationService) GenerateHook(
	ctx context.Context,
	userID uuid.UUID,
	req generation.Request,
) (*generation.Response, error) {
	resp, err := s.generator.GenerateHookPost(ctx, req)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, userID, domain.VariantHook, describeRequest(req), resp)
	return resp, nil
}

// GenerateLinkedIn produces a long-form LinkedIn post and records the outcome.
func (s *GenerationService) GenerateLinkedIn(
	ctx context.Context,
	userID uuid.UUID,
	req generation.Request,
) (*generation.Response, error) {
	resp, err := s.generator.GenerateLinkedInPost(ctx, req)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, userID, domain.VariantLinkedIn, describeRequest(req), resp)
	return resp, nil
}

// Rewrite expands existing content into a LinkedIn post and records the outcome.
func (s *GenerationService) Rewrite(
	ctx context.Context,
	userID uuid.UUID,
	content string,
	targetLength int,
) (*generation.Response, error) {
	resp, err := s.generator.RewriteForLinkedIn(ctx, content, targetLength)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, userID, domain.VariantRewrite, describeRewrite(content, targetLength), resp)
	return resp, nil
}

// ListHistory returns the user's recent generation records, newest first.
func (s *GenerationService) ListHistory(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.GenerationRecord, error) {
	if s.logStore == nil {
		return []*domain.GenerationRecord{}, nil
	}
	return s.logStore.ListByUser(ctx, userID, limit, offset)
}

// audit writes a generation record, logging and swallowing any failure.
func (s *GenerationService) audit(
	ctx context.Context,
	userID uuid.UUID,
	variant domain.GenerationVariant,
	prompt string,
	resp *generation.Response,
) {
	if s.logStore == nil {
		return
	}

	log := logger.FromContextOrDefault(ctx, s.logger)

	record, err := domain.NewGenerationRecord(userID, variant, prompt)
	if err != nil {
		log.Warn("failed to build generation audit record",
			slog.String("error", err.Error()),
			slog.String("variant", string(variant)))
		return
	}
	record.ResultText = resp.Text
	record.ErrorMessage = resp.Err
	record.CacheHit = resp.CacheHit
	record.Attempts = resp.Attempts

	if err := s.logStore.Create(ctx, record); err != nil {
		log.Warn("failed to write generation audit record",
			slog.String("error", err.Error()),
			slog.String("record_id", record.ID.String()))
	}
}

func describeRequest(req generation.Request) string {
	return fmt.Sprintf("theme=%q topic=%q audience=%q length=%d",
		req.Theme, req.Topic, req.TargetAudience, req.TargetLength)
}

func describeRewrite(content string, targetLength int) string {
	if len(content) > auditContentLimit {
		content = content[:auditContentLimit]
	}
	return fmt.Sprintf("rewrite length=%d content=%q", targetLength, content)
}
