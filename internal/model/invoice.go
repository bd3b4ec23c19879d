package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceType enum constants
const (
	InvoiceTypeInitial = "Initial"
	InvoiceTypeFinal   = "Final"
)

// InvoiceStatus enum constants
const (
	InvoiceStatusDraft    = "Draft"
	InvoiceStatusApproved = "Approved"
)

// Invoice bills an order in BDT and tracks what has been paid, credited and refunded.
type Invoice struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceNumber    string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"invoice_number"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_invoice_order_type" json:"order_id"`
	Order            *Order          `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	InvoiceType      string          `gorm:"type:varchar(20);not null;uniqueIndex:idx_invoice_order_type" json:"invoice_type"`
	InvoiceStatus    string          `gorm:"type:varchar(20);not null;default:'Draft';index" json:"invoice_status"`
	IsFinalized      bool            `gorm:"not null;default:false" json:"is_finalized"`
	BaseAmountBDT    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"base_amount_bdt"` // order total at issue time
	TotalWeightGrams decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"total_weight_grams"`
	WeightCategory   *string         `gorm:"type:varchar(50)" json:"weight_category"`
	WeightChargeBDT  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"weight_charge_bdt"`
	ExtraChargesBDT  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"extra_charges_bdt"`
	TotalInvoiceBDT  decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total_invoice_bdt"`
	AmountPaidBDT    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"amount_paid_bdt"`
	CreditAppliedBDT decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"credit_applied_bdt"`
	DueAmountBDT     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"due_amount_bdt"`
	Notes            string          `gorm:"type:text" json:"notes"`
	ApprovedBy       *uuid.UUID      `gorm:"type:uuid" json:"approved_by"`
	ApprovedAt       *time.Time      `json:"approved_at"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// Locked reports whether direct field edits are closed.
func (i *Invoice) Locked() bool {
	return i.InvoiceStatus == InvoiceStatusApproved && i.IsFinalized
}

// WeightChargeCategory prices parcels per gram.
type WeightChargeCategory struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CategoryName  string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"category_name"`
	ChargePerGram decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"charge_per_gram"`
	Description   string          `gorm:"type:text" json:"description"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
