package service_test

import (
	"context"

	"github.com/shopspring/decimal"
)

// fakeTxManager runs fn inline; transactional behaviour is covered by the
// repository tests against a real database.
type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
