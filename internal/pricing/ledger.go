package pricing

import "github.com/shopspring/decimal"

// DueAmount is what remains owed on an invoice, never below zero.
func DueAmount(totalInvoice, amountPaid, creditApplied, appliedRefunds decimal.Decimal) decimal.Decimal {
	due := totalInvoice.Sub(amountPaid).Sub(creditApplied).Sub(appliedRefunds)
	if due.IsNegative() {
		return decimal.Zero
	}
	return due
}

// InvoiceTotal is the billable total of an invoice.
func InvoiceTotal(baseAmount, weightCharge, extraCharges decimal.Decimal) decimal.Decimal {
	return baseAmount.Add(weightCharge).Add(extraCharges)
}
