package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/olustayhired/postflow/internal/domain"
	"github.com/olustayhired/postflow/internal/platform/logger"
	"github.com/olustayhired/postflow/internal/store"
)

// PostgresGenerationLogStore implements store.GenerationLogStore using
// PostgreSQL as the storage backend.
type PostgresGenerationLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresGenerationLogStore creates a new PostgreSQL implementation of
// the GenerationLogStore interface. It accepts a database connection or
// transaction managed by the caller. If logger is nil, a default logger is used.
func NewPostgresGenerationLogStore(db store.DBTX, logger *slog.Logger) *PostgresGenerationLogStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresGenerationLogStore{
		db:     db,
		logger: logger.With(slog.String("component", "generation_log_store")),
	}
}

var _ store.GenerationLogStore = (*PostgresGenerationLogStore)(nil)

// Create saves a new generation record, validating it first.
func (s *PostgresGenerationLogStore) Create(ctx context.Context, record *domain.GenerationRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := record.Validate(); err != nil {
		log.Warn("generation record validation failed during create",
			slog.String("error", err.Error()),
			slog.String("record_id", record.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO generation_log
			(id, user_id, variant, prompt, result_text, error_message, cache_hit, attempts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		record.ID,
		record.UserID,
		record.Variant,
		record.Prompt,
		record.ResultText,
		record.ErrorMessage,
		record.CacheHit,
		record.Attempts,
		record.CreatedAt,
	)

	if err != nil {
		log.Error("failed to create generation record",
			slog.String("error", err.Error()),
			slog.String("record_id", record.ID.String()))
		return MapError(err)
	}

	log.Debug("generation record created",
		slog.String("record_id", record.ID.String()),
		slog.String("variant", string(record.Variant)),
		slog.Bool("cache_hit", record.CacheHit))
	return nil
}

// GetByID retrieves a generation record by its unique ID.
// Returns store.ErrRecordNotFound if no record exists with the given ID.
func (s *PostgresGenerationLogStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.GenerationRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, variant, prompt, result_text, error_message, cache_hit, attempts, created_at
		FROM generation_log
		WHERE id = $1
	`

	var record domain.GenerationRecord
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&record.ID,
		&record.UserID,
		&record.Variant,
		&record.Prompt,
		&record.ResultText,
		&record.ErrorMessage,
		&record.CacheHit,
		&record.Attempts,
		&record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrRecordNotFound
		}
		log.Error("failed to get generation record",
			slog.String("error", err.Error()),
			slog.String("record_id", id.String()))
		return nil, MapError(err)
	}

	return &record, nil
}

// ListByUser retrieves a page of generation records for the given user,
// most recent first.
func (s *PostgresGenerationLogStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.GenerationRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, user_id, variant, prompt, result_text, error_message, cache_hit, attempts, created_at
		FROM generation_log
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		log.Error("failed to list generation records",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]*domain.GenerationRecord, 0, limit)
	for rows.Next() {
		var record domain.GenerationRecord
		if err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.Variant,
			&record.Prompt,
			&record.ResultText,
			&record.ErrorMessage,
			&record.CacheHit,
			&record.Attempts,
			&record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan generation record: %w", err)
		}
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return records, nil
}
