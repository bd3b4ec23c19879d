package repository

import (
	"context"
	"errors"
	"time"

	"shoptobd/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=sales_report_repo.go -destination=mocks/sales_report_repo_mock.go -package=mocks

type SalesReportRepository interface {
	// ApplyDelta adds delta to the daily row for date under a row lock,
	// creating the row first when missing. Must run inside a transaction.
	ApplyDelta(ctx context.Context, date time.Time, delta model.SalesDelta) (*model.SalesReport, error)
	FindDaily(ctx context.Context, date time.Time) (*model.SalesReport, error)
	ListDaily(ctx context.Context, from, to time.Time) ([]model.SalesReport, error)
}

type salesReportRepository struct {
	db *gorm.DB
}

func NewSalesReportRepository(db *gorm.DB) SalesReportRepository {
	return &salesReportRepository{db: db}
}

// ReportDay truncates t to its calendar day in UTC.
func ReportDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (r *salesReportRepository) ApplyDelta(ctx context.Context, date time.Time, delta model.SalesDelta) (*model.SalesReport, error) {
	if !InTx(ctx) {
		return nil, ErrNoTransaction
	}
	db := GetDB(ctx, r.db)
	day := ReportDay(date)

	report, err := r.lockDaily(db, day)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Two transactions may both see no row; the unique index lets only one
		// insert win and the other falls through to the lock below.
		seed := model.SalesReport{
			ReportType:             model.ReportTypeDaily,
			ReportDate:             day,
			PaymentMethodBreakdown: datatypes.JSON("{}"),
		}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
			return nil, err
		}
		report, err = r.lockDaily(db, day)
	}
	if err != nil {
		return nil, err
	}

	if err := report.Apply(delta); err != nil {
		return nil, err
	}
	if err := db.Save(report).Error; err != nil {
		return nil, err
	}
	return report, nil
}

func (r *salesReportRepository) lockDaily(db *gorm.DB, day time.Time) (*model.SalesReport, error) {
	var report model.SalesReport
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("report_type = ? AND report_date = ?", model.ReportTypeDaily, day).
		First(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *salesReportRepository) FindDaily(ctx context.Context, date time.Time) (*model.SalesReport, error) {
	var report model.SalesReport
	if err := GetDB(ctx, r.db).
		Where("report_type = ? AND report_date = ?", model.ReportTypeDaily, ReportDay(date)).
		First(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *salesReportRepository) ListDaily(ctx context.Context, from, to time.Time) ([]model.SalesReport, error) {
	var reports []model.SalesReport
	if err := GetDB(ctx, r.db).
		Where("report_type = ? AND report_date BETWEEN ? AND ?", model.ReportTypeDaily, ReportDay(from), ReportDay(to)).
		Order("report_date asc").
		Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}
