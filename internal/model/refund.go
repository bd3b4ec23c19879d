package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RefundStatus enum constants
const (
	RefundStatusPending   = "Pending"
	RefundStatusApproved  = "Approved"
	RefundStatusRejected  = "Rejected"
	RefundStatusCompleted = "Completed"
)

var refundTransitions = map[string][]string{
	RefundStatusPending:  {RefundStatusApproved, RefundStatusRejected},
	RefundStatusApproved: {RefundStatusCompleted},
}

// CanTransitionRefund reports whether a refund may move from one status to another.
// Rejected and Completed are terminal.
func CanTransitionRefund(from, to string) bool {
	for _, next := range refundTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Refund is the customer's request to return money on an invoice.
type Refund struct {
	ID               uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	InvoiceID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"invoice_id"`
	CustomerID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"customer_id"`
	RefundType       string            `gorm:"type:varchar(30);not null" json:"refund_type"`
	RefundAmountBDT  decimal.Decimal   `gorm:"type:decimal(18,4);not null" json:"refund_amount_bdt"`
	RefundMethod     string            `gorm:"type:varchar(30)" json:"refund_method"`
	RefundStatus     string            `gorm:"type:varchar(20);not null;default:'Pending';index" json:"refund_status"`
	RefundReason     string            `gorm:"type:text;not null" json:"refund_reason"`
	ApplyAsCredit    bool              `gorm:"not null;default:false" json:"apply_as_credit"`
	ProcessedByAdmin *uuid.UUID        `gorm:"type:uuid" json:"processed_by_admin"`
	RefundDate       *time.Time        `gorm:"type:date" json:"refund_date"`
	Processing       *RefundProcessing `gorm:"foreignKey:RefundID" json:"processing,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// RefundProcessing holds the adjudication side of a refund, one row per refund.
type RefundProcessing struct {
	ID                   uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RefundID             uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"refund_id"`
	Status               string     `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`
	Reason               string     `gorm:"type:text" json:"reason"`
	ApprovedBy           *uuid.UUID `gorm:"type:uuid" json:"approved_by"`
	ApprovalDate         *time.Time `json:"approval_date"`
	TransactionReference *string    `gorm:"type:varchar(100)" json:"transaction_reference"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

func (RefundProcessing) TableName() string {
	return "refund_processing"
}
