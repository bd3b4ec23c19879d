package repository

import (
	"context"

	"shoptobd/internal/model"
	"shoptobd/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=invoice_repo.go -destination=mocks/invoice_repo_mock.go -package=mocks

type InvoiceListFilter struct {
	Status  string
	OrderID *uuid.UUID
	Page    int
	Limit   int
}

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *model.Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	ExistsForOrder(ctx context.Context, orderID uuid.UUID, invoiceType string) (bool, error)
	Update(ctx context.Context, invoice *model.Invoice) error
	List(ctx context.Context, filter InvoiceListFilter) ([]model.Invoice, int64, error)
	FindWeightCategory(ctx context.Context, name string) (*model.WeightChargeCategory, error)
}

type invoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Create(invoice).Error
}

func (r *invoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := GetDB(ctx, r.db).First(&invoice, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&invoice, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) ExistsForOrder(ctx context.Context, orderID uuid.UUID, invoiceType string) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Invoice{}).
		Where("order_id = ? AND invoice_type = ?", orderID, invoiceType).
		Count(&count).Error
	return count > 0, err
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *model.Invoice) error {
	return GetDB(ctx, r.db).Omit(clause.Associations).Save(invoice).Error
}

func (r *invoiceRepository) List(ctx context.Context, filter InvoiceListFilter) ([]model.Invoice, int64, error) {
	var invoices []model.Invoice
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Invoice{})
	if filter.Status != "" {
		query = query.Where("invoice_status = ?", filter.Status)
	}
	if filter.OrderID != nil {
		query = query.Where("order_id = ?", *filter.OrderID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := pagination.New(filter.Page, filter.Limit)
	if err := query.Order("created_at desc").Offset(page.Offset()).Limit(page.Limit).Find(&invoices).Error; err != nil {
		return nil, 0, err
	}

	return invoices, total, nil
}

func (r *invoiceRepository) FindWeightCategory(ctx context.Context, name string) (*model.WeightChargeCategory, error) {
	var category model.WeightChargeCategory
	if err := GetDB(ctx, r.db).First(&category, "category_name = ?", name).Error; err != nil {
		return nil, err
	}
	return &category, nil
}
