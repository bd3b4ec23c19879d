package service

import (
	"context"
	"errors"

	"shoptobd/internal/pricing"
	"shoptobd/internal/repository"
	"shoptobd/pkg/apperror"

	"gorm.io/gorm"
)

//go:generate mockgen -source=rate_service.go -destination=mocks/rate_service_mock.go -package=mocks

// RateService supplies the current exchange and tax rate. Nothing is cached;
// every call reads the reference row again.
type RateService interface {
	GetRates(ctx context.Context) (pricing.Rates, error)
}

type rateService struct {
	taxRateRepo repository.TaxRateRepository
}

func NewRateService(taxRateRepo repository.TaxRateRepository) RateService {
	return &rateService{taxRateRepo: taxRateRepo}
}

func (s *rateService) GetRates(ctx context.Context) (pricing.Rates, error) {
	row, err := s.taxRateRepo.GetCurrent(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pricing.Rates{}, apperror.NewConfigurationError("tax rate is not configured", err)
	}
	if err != nil {
		return pricing.Rates{}, apperror.NewStorageError("failed to load tax rate", err)
	}

	rates := pricing.Rates{
		ExchangeRate:   row.USDToBDTRate,
		TaxRatePercent: row.TaxRate,
	}
	if err := rates.Validate(); err != nil {
		return pricing.Rates{}, apperror.NewConfigurationError("tax rate row is invalid", err)
	}
	return rates, nil
}
