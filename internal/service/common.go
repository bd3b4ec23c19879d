package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"shoptobd/internal/model"
	"shoptobd/internal/repository"
	"shoptobd/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Actor is the authenticated caller of a service operation.
type Actor struct {
	ID   uuid.UUID
	Role string
}

func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin || a.Role == model.RoleSuperAdmin
}

func (a Actor) IsSuperAdmin() bool {
	return a.Role == model.RoleSuperAdmin
}

func (a Actor) ref() *uuid.UUID {
	if a.ID == uuid.Nil {
		return nil
	}
	id := a.ID
	return &id
}

// lookupErr maps a repository read failure to NotFound or Storage.
func lookupErr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NewNotFoundError(what + " not found")
	}
	return apperror.NewStorageError("failed to load "+what, err)
}

// storageErr wraps a write failure unless it is already classified.
func storageErr(action string, err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.NewStorageError("failed to "+action, err)
}

func parseID(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, apperror.NewValidationError(fmt.Sprintf("invalid %s", field))
	}
	return id, nil
}

func parseOptionalID(raw, field string) (*uuid.UUID, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	id, err := parseID(raw, field)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseAmount(raw, field string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, apperror.NewValidationError(fmt.Sprintf("invalid %s: must be a decimal number", field))
	}
	return d, nil
}

// journal writes the audit row and outbox event that accompany every
// mutation. Both calls must run inside the caller's transaction.
type journal struct {
	auditRepo  repository.AuditRepository
	outboxRepo repository.OutboxRepository
}

func (j journal) audit(ctx context.Context, actor Actor, action, entityID, entityName string, details interface{}) error {
	raw, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to encode audit details: %w", err)
	}
	entry := &model.AuditLog{
		ActorID:    actor.ref(),
		ActorRole:  actor.Role,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(raw),
	}
	if err := j.auditRepo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func (j journal) publish(ctx context.Context, aggregateType, aggregateID, eventType string, data interface{}) error {
	msg, err := model.NewOutboxMessage(aggregateType, aggregateID, eventType, data)
	if err != nil {
		return fmt.Errorf("failed to build %s event: %w", eventType, err)
	}
	if err := j.outboxRepo.Enqueue(ctx, msg); err != nil {
		return fmt.Errorf("failed to enqueue %s event: %w", eventType, err)
	}
	return nil
}
