package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus constants
const (
	OrderStatusPending   = "Pending"
	OrderStatusFinalized = "Finalized"
)

// Order payment status constants
const (
	OrderPaymentPending = "Pending"
	OrderPaymentPaid    = "Paid"
)

// Order is a customer purchase priced in USD and settled in BDT.
// TotalBDT always equals the sum of line totals plus delivery and surcharges.
type Order struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber    string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"order_number"` // ORD-YYYYMMDD-NNNN
	CustomerID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer       *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	ProductCount   int             `gorm:"type:int;not null" json:"product_count"`
	SubtotalUSD    decimal.Decimal `gorm:"type:decimal(24,10);not null" json:"subtotal_usd"`
	TaxUSD         decimal.Decimal `gorm:"type:decimal(24,10);not null;default:0" json:"tax_usd"`
	TotalUSD       decimal.Decimal `gorm:"type:decimal(24,10);not null" json:"total_usd"`
	TaxBDT         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"tax_bdt"` // informational, contained in line totals
	TotalBDT       decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total_bdt"`
	DeliveryMethod string          `gorm:"type:varchar(30)" json:"delivery_method"`
	PaymentMethod  string          `gorm:"type:varchar(30)" json:"payment_method"`
	DeliveryCost   decimal.Decimal `gorm:"column:delivery_cost_bdt;type:decimal(18,4);not null;default:0" json:"delivery_cost_bdt"`
	CODCharge      decimal.Decimal `gorm:"column:cod_charge_bdt;type:decimal(18,4);not null;default:0" json:"cod_charge_bdt"`
	BKashCharge    decimal.Decimal `gorm:"column:bkash_charge_bdt;type:decimal(18,4);not null;default:0" json:"bkash_charge_bdt"`
	Status         string          `gorm:"type:varchar(20);not null;default:'Pending';index" json:"status"`
	PaymentStatus  string          `gorm:"type:varchar(20);not null;default:'Pending'" json:"payment_status"`
	FinalizedAt    *time.Time      `json:"finalized_at"`
	Items          []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CanFinalize reports whether delivery and payment charges may still be applied.
func (o *Order) CanFinalize() bool {
	return o.Status == OrderStatusPending
}

// OrderItem is one product line. Only WeightCostBDT may change after finalize.
type OrderItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductLink     string          `gorm:"type:text;not null" json:"product_link"`
	ProductName     string          `gorm:"type:varchar(255)" json:"product_name"`
	Quantity        int             `gorm:"type:int;not null" json:"quantity"`
	Size            string          `gorm:"type:varchar(50)" json:"size"`
	Color           string          `gorm:"type:varchar(50)" json:"color"`
	ProductPriceUSD decimal.Decimal `gorm:"type:decimal(24,10);not null" json:"product_price_usd"`
	ShippingCostUSD decimal.Decimal `gorm:"type:decimal(24,10);not null;default:0" json:"shipping_cost_usd"`
	ProductPriceBDT decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"product_price_bdt"`
	TaxUSD          decimal.Decimal `gorm:"type:decimal(24,10);not null;default:0" json:"tax_usd"`
	TotalPriceUSD   decimal.Decimal `gorm:"type:decimal(24,10);not null" json:"total_price_usd"`
	TotalPriceBDT   decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total_price_bdt"`
	WeightCostBDT   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"weight_cost_bdt"`
}
