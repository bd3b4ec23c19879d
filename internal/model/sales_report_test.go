package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSalesReport_ApplyNetsRefundsAgainstSales(t *testing.T) {
	r := SalesReport{ReportType: ReportTypeDaily}

	require.NoError(t, r.Apply(SalesDelta{
		Sales:        decimal.NewFromInt(10000),
		Orders:       1,
		Profit:       decimal.NewFromInt(10000),
		Method:       "bKash",
		MethodAmount: decimal.NewFromInt(10000),
	}))
	require.NoError(t, r.Apply(SalesDelta{
		Sales:        decimal.NewFromInt(-500),
		Refunds:      decimal.NewFromInt(500),
		Profit:       decimal.NewFromInt(-500),
		Method:       "bKash",
		MethodAmount: decimal.NewFromInt(-500),
	}))

	assert.True(t, r.TotalSalesBDT.Equal(decimal.NewFromInt(9500)), r.TotalSalesBDT.String())
	assert.True(t, r.TotalRefundsBDT.Equal(decimal.NewFromInt(500)), r.TotalRefundsBDT.String())
	assert.True(t, r.TotalProfitBDT.Equal(decimal.NewFromInt(9500)), r.TotalProfitBDT.String())
	assert.Equal(t, int64(1), r.TotalOrders)

	b, err := r.Breakdown()
	require.NoError(t, err)
	assert.True(t, b["bKash"].Equal(decimal.NewFromInt(9500)))
}

func TestSalesReport_ApplyWithoutMethodLeavesBreakdown(t *testing.T) {
	r := SalesReport{}
	require.NoError(t, r.Apply(SalesDelta{Sales: decimal.NewFromInt(1)}))

	b, err := r.Breakdown()
	require.NoError(t, err)
	assert.Empty(t, b)
}

func TestSalesReport_BreakdownRejectsCorruptJSON(t *testing.T) {
	r := SalesReport{PaymentMethodBreakdown: []byte(`{"bKash":`)}
	_, err := r.Breakdown()
	assert.Error(t, err)
}

func TestCanTransitionRefund(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{RefundStatusPending, RefundStatusApproved, true},
		{RefundStatusPending, RefundStatusRejected, true},
		{RefundStatusApproved, RefundStatusCompleted, true},
		{RefundStatusPending, RefundStatusCompleted, false},
		{RefundStatusRejected, RefundStatusApproved, false},
		{RefundStatusCompleted, RefundStatusRejected, false},
		{RefundStatusApproved, RefundStatusPending, false},
	}
	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransitionRefund(tt.from, tt.to))
		})
	}
}
