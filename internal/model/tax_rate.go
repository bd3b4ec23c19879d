package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxRate is the single reference row for currency conversion and tax.
// It is managed outside this service.
type TaxRate struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	USDToBDTRate decimal.Decimal `gorm:"column:usd_to_bdt_rate;type:decimal(18,4);not null" json:"usd_to_bdt_rate"`
	TaxRate      decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0" json:"tax_rate"` // percent, e.g. 5 = 5%
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
