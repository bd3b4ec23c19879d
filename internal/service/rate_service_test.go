package service_test

import (
	"context"
	"errors"
	"testing"

	"shoptobd/internal/model"
	"shoptobd/internal/repository/mocks"
	"shoptobd/internal/service"
	"shoptobd/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

func TestRateService_GetRates(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(m *mocks.MockTaxRateRepository)
		wantRate      string
		wantTax       string
		wantErrorKind error
	}{
		{
			name: "current row",
			setupMock: func(m *mocks.MockTaxRateRepository) {
				m.EXPECT().GetCurrent(gomock.Any()).
					Return(&model.TaxRate{USDToBDTRate: dec("110"), TaxRate: dec("5")}, nil)
			},
			wantRate: "110",
			wantTax:  "5",
		},
		{
			name: "missing row is a configuration error",
			setupMock: func(m *mocks.MockTaxRateRepository) {
				m.EXPECT().GetCurrent(gomock.Any()).Return(nil, gorm.ErrRecordNotFound)
			},
			wantErrorKind: apperror.ErrConfiguration,
		},
		{
			name: "zero exchange rate",
			setupMock: func(m *mocks.MockTaxRateRepository) {
				m.EXPECT().GetCurrent(gomock.Any()).
					Return(&model.TaxRate{USDToBDTRate: dec("0"), TaxRate: dec("5")}, nil)
			},
			wantErrorKind: apperror.ErrConfiguration,
		},
		{
			name: "negative tax",
			setupMock: func(m *mocks.MockTaxRateRepository) {
				m.EXPECT().GetCurrent(gomock.Any()).
					Return(&model.TaxRate{USDToBDTRate: dec("110"), TaxRate: dec("-1")}, nil)
			},
			wantErrorKind: apperror.ErrConfiguration,
		},
		{
			name: "storage failure",
			setupMock: func(m *mocks.MockTaxRateRepository) {
				m.EXPECT().GetCurrent(gomock.Any()).Return(nil, errors.New("connection reset"))
			},
			wantErrorKind: apperror.ErrStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockTaxRateRepository(ctrl)
			tt.setupMock(repo)

			rates, err := service.NewRateService(repo).GetRates(context.Background())
			if tt.wantErrorKind != nil {
				require.ErrorIs(t, err, tt.wantErrorKind)
				return
			}
			require.NoError(t, err)
			assert.True(t, rates.ExchangeRate.Equal(dec(tt.wantRate)))
			assert.True(t, rates.TaxRatePercent.Equal(dec(tt.wantTax)))
		})
	}
}
