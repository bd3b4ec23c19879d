// Package pricing holds the money rules for orders and invoices: currency
// conversion, tax, delivery fees, payment surcharges and the invoice due amount.
// Everything here is pure; callers load rates and persist results.
package pricing

import (
	"fmt"
	"strings"

	"shoptobd/pkg/apperror"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Source prices and the tax percentage carry at most InputScale decimal
// places, so every derived source amount fits SourceScale places exactly and
// the stored USD columns reproduce the BDT totals converted from them.
const (
	InputScale  = 4
	SourceScale = 2*InputScale + 2
)

// Rates is the current USD to BDT conversion and tax percentage.
type Rates struct {
	ExchangeRate   decimal.Decimal
	TaxRatePercent decimal.Decimal
}

// Validate rejects a rate row that cannot price anything.
func (r Rates) Validate() error {
	if !r.ExchangeRate.IsPositive() {
		return fmt.Errorf("exchange rate must be positive, got %s", r.ExchangeRate)
	}
	if r.TaxRatePercent.IsNegative() {
		return fmt.Errorf("tax rate must not be negative, got %s", r.TaxRatePercent)
	}
	if !fitsScale(r.TaxRatePercent, InputScale) {
		return fmt.Errorf("tax rate has more than %d decimal places, got %s", InputScale, r.TaxRatePercent)
	}
	return nil
}

// ItemInput is one requested line, priced in the source currency (USD).
type ItemInput struct {
	ProductLink        string
	ProductName        string
	Quantity           int
	Size               string
	Color              string
	UnitPriceSource    decimal.Decimal
	ShippingCostSource decimal.Decimal
}

// ItemQuote is a priced line.
type ItemQuote struct {
	ItemInput
	SubtotalSource decimal.Decimal
	TaxSource      decimal.Decimal
	TotalSource    decimal.Decimal
	UnitPriceLocal decimal.Decimal
	TotalLocal     decimal.Decimal
}

// Quote is the priced order. TaxLocal is derived from TaxSource and is already
// contained in TotalLocal.
type Quote struct {
	Items          []ItemQuote
	SubtotalSource decimal.Decimal
	TaxSource      decimal.Decimal
	TotalSource    decimal.Decimal
	TaxLocal       decimal.Decimal
	TotalLocal     decimal.Decimal
}

// ToLocal converts a source amount and rounds up to the next whole local unit.
func ToLocal(amountSource, exchangeRate decimal.Decimal) decimal.Decimal {
	return amountSource.Mul(exchangeRate).Ceil()
}

// PriceOrder prices every line and accumulates order totals.
// Per-line tax in the source currency is the only tax computation.
func PriceOrder(rates Rates, items []ItemInput) (Quote, error) {
	if len(items) == 0 {
		return Quote{}, apperror.NewValidationError("at least one product is required")
	}
	if err := rates.Validate(); err != nil {
		return Quote{}, apperror.NewConfigurationError("invalid tax rate configuration", err)
	}

	taxFactor := rates.TaxRatePercent.Div(hundred)

	quote := Quote{
		Items:          make([]ItemQuote, 0, len(items)),
		SubtotalSource: decimal.Zero,
		TaxSource:      decimal.Zero,
		TotalSource:    decimal.Zero,
		TotalLocal:     decimal.Zero,
	}

	for i, item := range items {
		if err := validateItem(i, item); err != nil {
			return Quote{}, err
		}

		qty := decimal.NewFromInt(int64(item.Quantity))
		subtotal := item.UnitPriceSource.Add(item.ShippingCostSource).Mul(qty)
		tax := subtotal.Mul(taxFactor)
		total := subtotal.Add(tax)

		line := ItemQuote{
			ItemInput:      item,
			SubtotalSource: subtotal,
			TaxSource:      tax,
			TotalSource:    total,
			UnitPriceLocal: ToLocal(item.UnitPriceSource, rates.ExchangeRate),
			TotalLocal:     ToLocal(total, rates.ExchangeRate),
		}

		quote.Items = append(quote.Items, line)
		quote.SubtotalSource = quote.SubtotalSource.Add(subtotal)
		quote.TaxSource = quote.TaxSource.Add(tax)
		quote.TotalSource = quote.TotalSource.Add(total)
		quote.TotalLocal = quote.TotalLocal.Add(line.TotalLocal)
	}

	quote.TaxLocal = ToLocal(quote.TaxSource, rates.ExchangeRate)
	return quote, nil
}

func validateItem(index int, item ItemInput) error {
	switch {
	case strings.TrimSpace(item.ProductLink) == "":
		return apperror.NewValidationError(fmt.Sprintf("item %d: product_link is required", index+1))
	case item.Quantity <= 0:
		return apperror.NewValidationError(fmt.Sprintf("item %d: quantity must be greater than zero", index+1))
	case !item.UnitPriceSource.IsPositive():
		return apperror.NewValidationError(fmt.Sprintf("item %d: product_price_usd must be greater than zero", index+1))
	case item.ShippingCostSource.IsNegative():
		return apperror.NewValidationError(fmt.Sprintf("item %d: shipping_cost_usd must not be negative", index+1))
	case !fitsScale(item.UnitPriceSource, InputScale), !fitsScale(item.ShippingCostSource, InputScale):
		return apperror.NewValidationError(fmt.Sprintf("item %d: usd amounts allow at most %d decimal places", index+1, InputScale))
	}
	return nil
}

func fitsScale(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Truncate(places))
}
