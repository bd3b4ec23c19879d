package repository

import (
	"context"
	"errors"

	"shoptobd/internal/model"
	"shoptobd/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=refund_repo.go -destination=mocks/refund_repo_mock.go -package=mocks

type RefundListFilter struct {
	Status     string
	InvoiceID  *uuid.UUID
	CustomerID *uuid.UUID
	Page       int
	Limit      int
}

type RefundRepository interface {
	// Create inserts the refund together with its processing record.
	Create(ctx context.Context, refund *model.Refund) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Refund, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Refund, error)
	Update(ctx context.Context, refund *model.Refund) error
	SaveProcessing(ctx context.Context, processing *model.RefundProcessing) error
	SumCompletedCashRefunds(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error)
	List(ctx context.Context, filter RefundListFilter) ([]model.Refund, int64, error)
}

type refundRepository struct {
	db *gorm.DB
}

func NewRefundRepository(db *gorm.DB) RefundRepository {
	return &refundRepository{db: db}
}

func (r *refundRepository) Create(ctx context.Context, refund *model.Refund) error {
	return GetDB(ctx, r.db).Create(refund).Error
}

func (r *refundRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Refund, error) {
	var refund model.Refund
	if err := GetDB(ctx, r.db).Preload("Processing").First(&refund, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &refund, nil
}

// FindByIDForUpdate locks the refund row, then loads its processing record.
func (r *refundRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Refund, error) {
	db := GetDB(ctx, r.db)

	var refund model.Refund
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&refund, "id = ?", id).Error; err != nil {
		return nil, err
	}

	var processing model.RefundProcessing
	err := db.First(&processing, "refund_id = ?", refund.ID).Error
	switch {
	case err == nil:
		refund.Processing = &processing
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	return &refund, nil
}

func (r *refundRepository) Update(ctx context.Context, refund *model.Refund) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Save(refund).Error
}

func (r *refundRepository) SaveProcessing(ctx context.Context, processing *model.RefundProcessing) error {
	return GetDB(ctx, r.db).Save(processing).Error
}

// SumCompletedCashRefunds totals completed refunds paid out rather than kept as credit.
func (r *refundRepository) SumCompletedCashRefunds(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := GetDB(ctx, r.db).Model(&model.Refund{}).
		Select("SUM(refund_amount_bdt)").
		Where("invoice_id = ? AND refund_status = ? AND apply_as_credit = ?", invoiceID, model.RefundStatusCompleted, false).
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

func (r *refundRepository) List(ctx context.Context, filter RefundListFilter) ([]model.Refund, int64, error) {
	var refunds []model.Refund
	var total int64

	db := GetDB(ctx, r.db)
	scope := func(q *gorm.DB) *gorm.DB {
		if filter.Status != "" {
			q = q.Where("refund_status = ?", filter.Status)
		}
		if filter.InvoiceID != nil {
			q = q.Where("invoice_id = ?", *filter.InvoiceID)
		}
		if filter.CustomerID != nil {
			q = q.Where("customer_id = ?", *filter.CustomerID)
		}
		return q
	}

	if err := db.Model(&model.Refund{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := pagination.New(filter.Page, filter.Limit)
	if err := db.Scopes(scope).Preload("Processing").
		Order("created_at desc").Offset(page.Offset()).Limit(page.Limit).
		Find(&refunds).Error; err != nil {
		return nil, 0, err
	}

	return refunds, total, nil
}
