package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ReportType enum constants
const (
	ReportTypeDaily = "Daily"
)

// SalesReport is the rollup for one period. It is only changed through Apply
// while the row is locked.
type SalesReport struct {
	ID                     uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReportType             string          `gorm:"type:varchar(20);not null;uniqueIndex:idx_sales_report_period" json:"report_type"`
	ReportDate             time.Time       `gorm:"type:date;not null;uniqueIndex:idx_sales_report_period" json:"report_date"`
	TotalSalesBDT          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"total_sales_bdt"`
	TotalOrders            int64           `gorm:"not null;default:0" json:"total_orders"`
	TotalRefundsBDT        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"total_refunds_bdt"`
	TotalProfitBDT         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"total_profit_bdt"`
	PaymentMethodBreakdown datatypes.JSON  `gorm:"type:jsonb;not null;default:'{}'" json:"payment_method_breakdown"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
}

// SalesDelta is a signed adjustment to a report. Sales add, refunds subtract.
type SalesDelta struct {
	Sales        decimal.Decimal
	Orders       int64
	Refunds      decimal.Decimal
	Profit       decimal.Decimal
	Method       string
	MethodAmount decimal.Decimal
}

// Breakdown decodes the per-method net amounts.
func (r *SalesReport) Breakdown() (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal)
	if len(r.PaymentMethodBreakdown) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(r.PaymentMethodBreakdown, &out); err != nil {
		return nil, fmt.Errorf("decode payment_method_breakdown: %w", err)
	}
	return out, nil
}

// Apply adds a delta to every counter and to the breakdown entry for its method.
func (r *SalesReport) Apply(d SalesDelta) error {
	breakdown, err := r.Breakdown()
	if err != nil {
		return err
	}

	r.TotalSalesBDT = r.TotalSalesBDT.Add(d.Sales)
	r.TotalOrders += d.Orders
	r.TotalRefundsBDT = r.TotalRefundsBDT.Add(d.Refunds)
	r.TotalProfitBDT = r.TotalProfitBDT.Add(d.Profit)

	if d.Method != "" {
		current, ok := breakdown[d.Method]
		if !ok {
			current = decimal.Zero
		}
		breakdown[d.Method] = current.Add(d.MethodAmount)
	}

	raw, err := json.Marshal(breakdown)
	if err != nil {
		return fmt.Errorf("encode payment_method_breakdown: %w", err)
	}
	r.PaymentMethodBreakdown = datatypes.JSON(raw)
	return nil
}
