package repository_test

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"sync"
	"testing"
	"time"

	"shoptobd/internal/model"
	"shoptobd/internal/repository"
	"shoptobd/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceRepository_ConcurrentNextIsGapFree(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := repository.NewSequenceRepository(db)
	scope := "TST-" + uuid.NewString()[:8]

	const workers = 20
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		values []int64
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := repo.Next(context.Background(), scope)
			assert.NoError(t, err)
			mu.Lock()
			values = append(values, v)
			mu.Unlock()
		}()
	}
	wg.Wait()

	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
	require.Len(t, values, workers)
	for i, v := range values {
		assert.Equal(t, int64(i+1), v)
	}
}

func TestSalesReportRepository_ConcurrentApplyDelta(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := repository.NewSalesReportRepository(db)
	txManager := repository.NewTransactionManager(db)

	// A far-future day keeps runs independent of real data.
	day := time.Date(2090+rand.Intn(9), time.Month(1+rand.Intn(12)), 1+rand.Intn(28), 12, 0, 0, 0, time.UTC)
	db.Where("report_date = ?", repository.ReportDay(day)).Delete(&model.SalesReport{})

	const workers = 10
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := txManager.RunInTx(context.Background(), func(txCtx context.Context) error {
				_, err := repo.ApplyDelta(txCtx, day, model.SalesDelta{
					Sales:        decimal.NewFromInt(100),
					Orders:       1,
					Profit:       decimal.NewFromInt(100),
					Method:       "Cash",
					MethodAmount: decimal.NewFromInt(100),
				})
				return err
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	report, err := repo.FindDaily(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, int64(workers), report.TotalOrders)
	assert.True(t, report.TotalSalesBDT.Equal(decimal.NewFromInt(100*workers)), report.TotalSalesBDT.String())

	b, err := report.Breakdown()
	require.NoError(t, err)
	assert.True(t, b["Cash"].Equal(decimal.NewFromInt(100*workers)))
}

func TestSalesReportRepository_ApplyDeltaNeedsTransaction(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := repository.NewSalesReportRepository(db)

	_, err := repo.ApplyDelta(context.Background(), time.Now(), model.SalesDelta{})
	assert.ErrorIs(t, err, repository.ErrNoTransaction)
}

func TestTransactionManager_RollsBackOnError(t *testing.T) {
	db := testutil.OpenDB(t)
	txManager := repository.NewTransactionManager(db)
	sequences := repository.NewSequenceRepository(db)
	scope := "RBK-" + uuid.NewString()[:8]
	boom := errors.New("boom")

	err := txManager.RunInTx(context.Background(), func(txCtx context.Context) error {
		if _, err := sequences.Next(txCtx, scope); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	v, err := sequences.Next(context.Background(), scope)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
}
