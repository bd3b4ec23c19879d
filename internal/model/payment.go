package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus enum constants
const (
	PaymentStatusPending   = "Pending"
	PaymentStatusConfirmed = "Confirmed"
	PaymentStatusRejected  = "Rejected"
)

// Payment is a payment attempt against an invoice, or the checkout payment of an order.
type Payment struct {
	ID                   uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceID            *uuid.UUID      `gorm:"type:uuid;index" json:"invoice_id"`
	OrderID              *uuid.UUID      `gorm:"type:uuid;index" json:"order_id"`
	PaymentMethod        string          `gorm:"type:varchar(30);not null" json:"payment_method"`
	AmountBDT            decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount_bdt"`
	PaymentChargeBDT     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"payment_charge_bdt"`
	BKashChargeBDT       decimal.Decimal `gorm:"column:bkash_charge_bdt;type:decimal(18,4);not null;default:0" json:"bkash_charge_bdt"`
	Status               string          `gorm:"type:varchar(20);not null;default:'Pending';index" json:"status"`
	TransactionReference *string         `gorm:"type:varchar(100)" json:"transaction_reference"`
	IsPartial            bool            `gorm:"not null;default:false" json:"is_partial"`
	ConfirmedBy          *uuid.UUID      `gorm:"type:uuid" json:"confirmed_by"`
	ConfirmedAt          *time.Time      `json:"confirmed_at"`
	PaymentDate          time.Time       `gorm:"not null" json:"payment_date"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}
