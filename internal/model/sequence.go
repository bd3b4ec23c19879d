package model

import "time"

// Sequence scopes
const (
	SequenceOrder   = "ORD"
	SequenceInvoice = "INV"
)

// DocumentSequence is a per-scope counter, e.g. scope "ORD-20250301".
// It is only advanced through an atomic upsert.
type DocumentSequence struct {
	Scope     string    `gorm:"type:varchar(40);primaryKey" json:"scope"`
	LastValue int64     `gorm:"not null;default:0" json:"last_value"`
	UpdatedAt time.Time `json:"updated_at"`
}
