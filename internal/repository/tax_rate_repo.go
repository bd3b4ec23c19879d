package repository

import (
	"context"

	"shoptobd/internal/model"

	"gorm.io/gorm"
)

//go:generate mockgen -source=tax_rate_repo.go -destination=mocks/tax_rate_repo_mock.go -package=mocks

type TaxRateRepository interface {
	// GetCurrent returns the most recently updated rate row.
	GetCurrent(ctx context.Context) (*model.TaxRate, error)
}

type taxRateRepository struct {
	db *gorm.DB
}

func NewTaxRateRepository(db *gorm.DB) TaxRateRepository {
	return &taxRateRepository{db: db}
}

func (r *taxRateRepository) GetCurrent(ctx context.Context) (*model.TaxRate, error) {
	var rate model.TaxRate
	if err := GetDB(ctx, r.db).Order("updated_at desc").First(&rate).Error; err != nil {
		return nil, err
	}
	return &rate, nil
}
