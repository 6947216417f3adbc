package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// GenerationVariant identifies which prompt builder produced a record.
type GenerationVariant string

// Possible generation variants
const (
	VariantPrompt   GenerationVariant = "prompt"
	VariantHook     GenerationVariant = "hook"
	VariantLinkedIn GenerationVariant = "linkedin"
	VariantRewrite  GenerationVariant = "rewrite"
)

// Common validation errors for GenerationRecord
var (
	ErrEmptyRecordID     = errors.New("generation record ID cannot be empty")
	ErrEmptyRecordUserID = errors.New("generation record user ID cannot be empty")
	ErrEmptyRecordPrompt = errors.New("generation record prompt cannot be empty")
	ErrInvalidVariant    = errors.New("invalid generation variant")
	ErrNegativeAttempts  = errors.New("generation attempt count cannot be negative")
)

// GenerationRecord is the audit trail for a single generation call:
// which user asked for what, whether it was served from cache, what
// came back, and how many attempts it took.
type GenerationRecord struct {
	ID           uuid.UUID         `json:"id"`
	UserID       uuid.UUID         `json:"user_id"`
	Variant      GenerationVariant `json:"variant"`
	Prompt       string            `json:"prompt"`
	ResultText   string            `json:"result_text"`
	ErrorMessage string            `json:"error_message,omitempty"`
	CacheHit     bool              `json:"cache_hit"`
	Attempts     int               `json:"attempts"`
	CreatedAt    time.Time         `json:"created_at"`
}

// NewGenerationRecord creates a record for a completed generation call.
// It generates the ID and timestamp and validates the result.
func NewGenerationRecord(userID uuid.UUID, variant GenerationVariant, prompt string) (*GenerationRecord, error) {
	record := &GenerationRecord{
		ID:        uuid.New(),
		UserID:    userID,
		Variant:   variant,
		Prompt:    prompt,
		CreatedAt: time.Now().UTC(),
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	return record, nil
}

// Validate checks if the GenerationRecord has valid data.
func (r *GenerationRecord) Validate() error {
	if r.ID == uuid.Nil {
		return ErrEmptyRecordID
	}

	if r.UserID == uuid.Nil {
		return ErrEmptyRecordUserID
	}

	if r.Prompt == "" {
		return ErrEmptyRecordPrompt
	}

	if !isValidVariant(r.Variant) {
		return ErrInvalidVariant
	}

	if r.Attempts < 0 {
		return ErrNegativeAttempts
	}

	return nil
}

func isValidVariant(v GenerationVariant) bool {
	switch v {
	case VariantPrompt, VariantHook, VariantLinkedIn, VariantRewrite:
		return true
	default:
		return false
	}
}
