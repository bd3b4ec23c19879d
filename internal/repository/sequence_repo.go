package repository

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=sequence_repo.go -destination=mocks/sequence_repo_mock.go -package=mocks

type SequenceRepository interface {
	// Next atomically advances the counter for scope and returns the new value.
	Next(ctx context.Context, scope string) (int64, error)
}

type sequenceRepository struct {
	db *gorm.DB
}

func NewSequenceRepository(db *gorm.DB) SequenceRepository {
	return &sequenceRepository{db: db}
}

// The upsert takes the row lock, so concurrent callers on the same scope
// serialize and each gets a distinct value.
func (r *sequenceRepository) Next(ctx context.Context, scope string) (int64, error) {
	var value int64
	err := GetDB(ctx, r.db).Raw(`
		INSERT INTO document_sequences (scope, last_value, updated_at)
		VALUES (?, 1, NOW())
		ON CONFLICT (scope) DO UPDATE
		SET last_value = document_sequences.last_value + 1, updated_at = NOW()
		RETURNING last_value`, scope).Scan(&value).Error
	if err != nil {
		return 0, err
	}
	return value, nil
}
