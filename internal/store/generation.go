package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/olustayhired/postflow/internal/domain"
)

// GenerationLogStore defines the interface for the generation audit log.
type GenerationLogStore interface {
	// Create saves a new generation record to the store.
	// Returns ErrInvalidEntity (wrapping a validation error) if the
	// record fails validation.
	Create(ctx context.Context, record *domain.GenerationRecord) error

	// GetByID retrieves a generation record by its unique ID.
	// Returns ErrRecordNotFound if the record does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.GenerationRecord, error)

	// ListByUser retrieves a page of generation records for the given
	// user, most recent first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.GenerationRecord, error)
}
