package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// OutboxStatus constants
const (
	OutboxStatusPending   = "pending"
	OutboxStatusPublished = "published"
	OutboxStatusFailed    = "failed"
)

// Event types
const (
	EventOrderCreated     = "order.created"
	EventOrderFinalized   = "order.finalized"
	EventInvoiceApproved  = "invoice.approved"
	EventPaymentConfirmed = "payment.confirmed"
	EventPaymentRejected  = "payment.rejected"
	EventRefundProcessed  = "refund.processed"
	EventSalesUpdated     = "sales_report.updated"
)

// OutboxMessage is an event recorded in the same transaction as the change it describes.
type OutboxMessage struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AggregateType string         `gorm:"type:varchar(30);not null" json:"aggregate_type"`
	AggregateID   string         `gorm:"type:varchar(50);not null;index" json:"aggregate_id"`
	EventType     string         `gorm:"type:varchar(50);not null" json:"event_type"`
	Payload       datatypes.JSON `gorm:"type:jsonb;not null" json:"payload"`
	Status        string         `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Attempts      int            `gorm:"not null;default:0" json:"attempts"`
	LastError     *string        `gorm:"type:text" json:"last_error,omitempty"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
	PublishedAt   *time.Time     `json:"published_at,omitempty"`
}

// Event is the envelope serialized into Payload
type Event struct {
	EventID     string      `json:"event_id"`
	EventType   string      `json:"event_type"`
	AggregateID string      `json:"aggregate_id"`
	OccurredAt  time.Time   `json:"occurred_at"`
	Data        interface{} `json:"data"`
}

// NewOutboxMessage wraps data in an event envelope ready to be enqueued.
func NewOutboxMessage(aggregateType, aggregateID, eventType string, data interface{}) (*OutboxMessage, error) {
	now := time.Now().UTC()
	payload, err := json.Marshal(Event{
		EventID:     uuid.NewString(),
		EventType:   eventType,
		AggregateID: aggregateID,
		OccurredAt:  now,
		Data:        data,
	})
	if err != nil {
		return nil, err
	}

	return &OutboxMessage{
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       datatypes.JSON(payload),
		Status:        OutboxStatusPending,
		CreatedAt:     now,
	}, nil
}
