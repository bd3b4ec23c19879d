package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateOrder     = "CREATE_ORDER"
	ActionFinalizeOrder   = "FINALIZE_ORDER"
	ActionIssueInvoice    = "ISSUE_INVOICE"
	ActionUpdateInvoice   = "UPDATE_INVOICE"
	ActionApproveInvoice  = "APPROVE_INVOICE"
	ActionAddPayment      = "ADD_PAYMENT"
	ActionConfirmPayment  = "CONFIRM_PAYMENT"
	ActionRejectPayment   = "REJECT_PAYMENT"
	ActionRequestRefund   = "REQUEST_REFUND"
	ActionProcessRefund   = "PROCESS_REFUND"
	ActionCreateAdminUser = "CREATE_ADMIN_USER"
)

// AuditLog tracks Who, What, and When for financial changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ActorID    *uuid.UUID `gorm:"type:uuid;index" json:"actor_id"` // nil for system actions
	ActorRole  string     `gorm:"type:varchar(20)" json:"actor_role"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // human readable reference, e.g. order number
	Details    string     `gorm:"type:jsonb" json:"details"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
