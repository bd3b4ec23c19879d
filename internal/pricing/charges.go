package pricing

import (
	"fmt"

	"shoptobd/pkg/apperror"

	"github.com/shopspring/decimal"
)

// Delivery methods
const (
	DeliveryDhaka   = "Dhaka Delivery"
	DeliveryOutside = "Outside Dhaka"
)

// Payment methods
const (
	MethodBKash          = "bKash"
	MethodBankTransfer   = "Bank Transfer"
	MethodCard           = "Card"
	MethodCash           = "Cash"
	MethodCashOnDelivery = "Cash on Delivery"
)

var deliveryFees = map[string]decimal.Decimal{
	DeliveryDhaka:   decimal.NewFromInt(60),
	DeliveryOutside: decimal.NewFromInt(130),
}

// Processing charge rates for invoice payments.
var paymentChargeRates = map[string]decimal.Decimal{
	MethodBKash:        decimal.RequireFromString("0.02"),
	MethodBankTransfer: decimal.Zero,
	MethodCard:         decimal.RequireFromString("0.025"),
	MethodCash:         decimal.Zero,
}

var (
	walletSurchargeRate = decimal.RequireFromString("0.02")
	codSurchargeRate    = decimal.RequireFromString("0.01")
)

// checkoutMethods are the payment methods accepted when finalizing an order.
var checkoutMethods = map[string]bool{
	MethodBKash:          true,
	MethodBankTransfer:   true,
	MethodCard:           true,
	MethodCash:           true,
	MethodCashOnDelivery: true,
}

// DeliveryFee returns the flat fee for a delivery method.
func DeliveryFee(method string) (decimal.Decimal, error) {
	fee, ok := deliveryFees[method]
	if !ok {
		return decimal.Zero, apperror.NewValidationError(
			fmt.Sprintf("invalid delivery method %q: must be %q or %q", method, DeliveryDhaka, DeliveryOutside))
	}
	return fee, nil
}

// Finalization is the set of charges fixed onto an order at checkout.
type Finalization struct {
	PreviousTotal decimal.Decimal
	DeliveryFee   decimal.Decimal
	WalletCharge  decimal.Decimal
	CODCharge     decimal.Decimal
	NewTotal      decimal.Decimal
}

// Surcharge is the payment surcharge, whichever kind applied.
func (f Finalization) Surcharge() decimal.Decimal {
	return f.WalletCharge.Add(f.CODCharge)
}

// Finalize computes delivery and surcharge for an order total in local currency.
// Surcharges are a percentage of the previous total, rounded up.
func Finalize(previousTotal decimal.Decimal, deliveryMethod, paymentMethod string) (Finalization, error) {
	fee, err := DeliveryFee(deliveryMethod)
	if err != nil {
		return Finalization{}, err
	}
	if !checkoutMethods[paymentMethod] {
		return Finalization{}, apperror.NewValidationError(fmt.Sprintf("invalid payment method %q", paymentMethod))
	}

	f := Finalization{
		PreviousTotal: previousTotal,
		DeliveryFee:   fee,
		WalletCharge:  decimal.Zero,
		CODCharge:     decimal.Zero,
	}

	switch {
	case paymentMethod == MethodBKash:
		f.WalletCharge = previousTotal.Mul(walletSurchargeRate).Ceil()
	case paymentMethod == MethodCashOnDelivery && deliveryMethod == DeliveryOutside:
		f.CODCharge = previousTotal.Mul(codSurchargeRate).Ceil()
	}

	f.NewTotal = previousTotal.Add(fee).Add(f.Surcharge())
	return f, nil
}

// IsPaymentMethod reports whether method may be used for an invoice payment.
func IsPaymentMethod(method string) bool {
	_, ok := paymentChargeRates[method]
	return ok
}

// PaymentCharge is the processing charge for an invoice payment.
func PaymentCharge(method string, amount decimal.Decimal) (decimal.Decimal, error) {
	rate, ok := paymentChargeRates[method]
	if !ok {
		return decimal.Zero, apperror.NewValidationError(
			fmt.Sprintf("invalid payment method %q: must be one of bKash, Bank Transfer, Card, Cash", method))
	}
	return amount.Mul(rate), nil
}

// WeightCharge prices a parcel from its category rate.
func WeightCharge(chargePerGram, totalWeightGrams decimal.Decimal) decimal.Decimal {
	return chargePerGram.Mul(totalWeightGrams)
}
