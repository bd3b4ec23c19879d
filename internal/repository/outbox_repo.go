package repository

import (
	"context"
	"time"

	"shoptobd/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=outbox_repo.go -destination=mocks/outbox_repo_mock.go -package=mocks

type OutboxRepository interface {
	Enqueue(ctx context.Context, msg *model.OutboxMessage) error
	// FetchPending locks up to limit pending messages, skipping rows held by
	// another processor. Must run inside a transaction.
	FetchPending(ctx context.Context, limit int) ([]model.OutboxMessage, error)
	MarkPublished(ctx context.Context, id uuid.UUID) error
	MarkAttempt(ctx context.Context, id uuid.UUID, attempts int, status, lastError string) error
}

type outboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) Enqueue(ctx context.Context, msg *model.OutboxMessage) error {
	return GetDB(ctx, r.db).Create(msg).Error
}

func (r *outboxRepository) FetchPending(ctx context.Context, limit int) ([]model.OutboxMessage, error) {
	if !InTx(ctx) {
		return nil, ErrNoTransaction
	}
	var messages []model.OutboxMessage
	if err := GetDB(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("status = ?", model.OutboxStatusPending).
		Order("created_at asc").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *outboxRepository) MarkPublished(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return GetDB(ctx, r.db).Model(&model.OutboxMessage{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       model.OutboxStatusPublished,
			"published_at": now,
		}).Error
}

func (r *outboxRepository) MarkAttempt(ctx context.Context, id uuid.UUID, attempts int, status, lastError string) error {
	return GetDB(ctx, r.db).Model(&model.OutboxMessage{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"attempts":   attempts,
			"last_error": lastError,
		}).Error
}
