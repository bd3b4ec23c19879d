package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"shoptobd/internal/model"
	"shoptobd/internal/repository"
	"shoptobd/pkg/apperror"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

//go:generate mockgen -source=sales_service.go -destination=mocks/sales_service_mock.go -package=mocks

const (
	reportDateLayout = "2006-01-02"
	maxReportRange   = 366 * 24 * time.Hour
)

// --- DTOs ---

type SalesReportResponse struct {
	ID                     string            `json:"id"`
	ReportType             string            `json:"report_type"`
	ReportDate             string            `json:"report_date"`
	TotalSalesBDT          string            `json:"total_sales_bdt"`
	TotalOrders            int64             `json:"total_orders"`
	TotalRefundsBDT        string            `json:"total_refunds_bdt"`
	TotalProfitBDT         string            `json:"total_profit_bdt"`
	PaymentMethodBreakdown map[string]string `json:"payment_method_breakdown"`
	UpdatedAt              string            `json:"updated_at"`
}

// --- Interface ---

// SalesService is the only writer of sales report rows.
type SalesService interface {
	// ApplyDelta joins the caller's transaction when there is one.
	ApplyDelta(ctx context.Context, date time.Time, delta model.SalesDelta) error
	GetDailyReport(ctx context.Context, date string) (SalesReportResponse, error)
	ListReports(ctx context.Context, from, to string) ([]SalesReportResponse, error)
	ExportReports(ctx context.Context, from, to string) (*excelize.File, string, error)
}

type salesService struct {
	salesRepo  repository.SalesReportRepository
	outboxRepo repository.OutboxRepository
	txManager  repository.TransactionManager
}

func NewSalesService(
	salesRepo repository.SalesReportRepository,
	outboxRepo repository.OutboxRepository,
	txManager repository.TransactionManager,
) SalesService {
	return &salesService{
		salesRepo:  salesRepo,
		outboxRepo: outboxRepo,
		txManager:  txManager,
	}
}

// --- Implementation ---

func (s *salesService) ApplyDelta(ctx context.Context, date time.Time, delta model.SalesDelta) error {
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		report, err := s.salesRepo.ApplyDelta(txCtx, date, delta)
		if err != nil {
			return fmt.Errorf("failed to update sales report: %w", err)
		}

		j := journal{outboxRepo: s.outboxRepo}
		return j.publish(txCtx, "sales_report", report.ReportDate.Format(reportDateLayout), model.EventSalesUpdated, toSalesReportResponse(*report))
	})
}

func (s *salesService) GetDailyReport(ctx context.Context, date string) (SalesReportResponse, error) {
	day := time.Now().UTC()
	if date != "" {
		parsed, err := time.Parse(reportDateLayout, date)
		if err != nil {
			return SalesReportResponse{}, apperror.NewValidationError("invalid date: expected YYYY-MM-DD")
		}
		day = parsed
	}

	report, err := s.salesRepo.FindDaily(ctx, day)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Nothing booked that day yet.
		return toSalesReportResponse(model.SalesReport{
			ReportType: model.ReportTypeDaily,
			ReportDate: repository.ReportDay(day),
		}), nil
	}
	if err != nil {
		return SalesReportResponse{}, apperror.NewStorageError("failed to load sales report", err)
	}
	return toSalesReportResponse(*report), nil
}

func (s *salesService) ListReports(ctx context.Context, from, to string) ([]SalesReportResponse, error) {
	fromDate, toDate, err := parseReportRange(from, to)
	if err != nil {
		return nil, err
	}

	reports, err := s.salesRepo.ListDaily(ctx, fromDate, toDate)
	if err != nil {
		return nil, apperror.NewStorageError("failed to list sales reports", err)
	}

	res := make([]SalesReportResponse, 0, len(reports))
	for _, r := range reports {
		res = append(res, toSalesReportResponse(r))
	}
	return res, nil
}

var salesExportHeaders = []string{"Date", "Orders", "Sales (BDT)", "Refunds (BDT)", "Profit (BDT)"}

// ExportReports renders the daily rows in a range as an xlsx workbook, one
// extra column per payment method seen in the range.
func (s *salesService) ExportReports(ctx context.Context, from, to string) (*excelize.File, string, error) {
	fromDate, toDate, err := parseReportRange(from, to)
	if err != nil {
		return nil, "", err
	}

	reports, err := s.salesRepo.ListDaily(ctx, fromDate, toDate)
	if err != nil {
		return nil, "", apperror.NewStorageError("failed to list sales reports", err)
	}

	breakdowns := make([]map[string]decimal.Decimal, len(reports))
	methodSet := make(map[string]struct{})
	for i := range reports {
		b, err := reports[i].Breakdown()
		if err != nil {
			return nil, "", apperror.NewStorageError("corrupt payment method breakdown", err)
		}
		breakdowns[i] = b
		for m := range b {
			methodSet[m] = struct{}{}
		}
	}
	methods := make([]string, 0, len(methodSet))
	for m := range methodSet {
		methods = append(methods, m)
	}
	sort.Strings(methods)

	f := excelize.NewFile()
	if err := writeSalesSheet(f, "Daily Sales", reports, breakdowns, methods); err != nil {
		f.Close()
		return nil, "", fmt.Errorf("failed to build sales workbook: %w", err)
	}

	filename := fmt.Sprintf("sales_%s_%s.xlsx", fromDate.Format("20060102"), toDate.Format("20060102"))
	return f, filename, nil
}

func writeSalesSheet(f *excelize.File, sheet string, reports []model.SalesReport, breakdowns []map[string]decimal.Decimal, methods []string) error {
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	if err != nil {
		return err
	}

	headers := append(append([]string{}, salesExportHeaders...), methods...)
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	totals := model.SalesReport{}
	for i, r := range reports {
		values := []interface{}{
			r.ReportDate.Format(reportDateLayout),
			r.TotalOrders,
			r.TotalSalesBDT.InexactFloat64(),
			r.TotalRefundsBDT.InexactFloat64(),
			r.TotalProfitBDT.InexactFloat64(),
		}
		for _, m := range methods {
			values = append(values, breakdowns[i][m].InexactFloat64())
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}

		totals.TotalOrders += r.TotalOrders
		totals.TotalSalesBDT = totals.TotalSalesBDT.Add(r.TotalSalesBDT)
		totals.TotalRefundsBDT = totals.TotalRefundsBDT.Add(r.TotalRefundsBDT)
		totals.TotalProfitBDT = totals.TotalProfitBDT.Add(r.TotalProfitBDT)
	}

	summaryRow := len(reports) + 2
	summary := []interface{}{
		"Total",
		totals.TotalOrders,
		totals.TotalSalesBDT.InexactFloat64(),
		totals.TotalRefundsBDT.InexactFloat64(),
		totals.TotalProfitBDT.InexactFloat64(),
	}
	summaryCell, err := excelize.CoordinatesToCellName(1, summaryRow)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, summaryCell, &summary); err != nil {
		return err
	}
	lastCell, err := excelize.CoordinatesToCellName(len(summary), summaryRow)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, summaryCell, lastCell, headerStyle); err != nil {
		return err
	}

	for i := range headers {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, 16); err != nil {
			return err
		}
	}
	return nil
}

func parseReportRange(from, to string) (time.Time, time.Time, error) {
	today := repository.ReportDay(time.Now())
	fromDate, toDate := today.AddDate(0, 0, -29), today

	if from != "" {
		parsed, err := time.Parse(reportDateLayout, from)
		if err != nil {
			return time.Time{}, time.Time{}, apperror.NewValidationError("invalid from date: expected YYYY-MM-DD")
		}
		fromDate = parsed
	}
	if to != "" {
		parsed, err := time.Parse(reportDateLayout, to)
		if err != nil {
			return time.Time{}, time.Time{}, apperror.NewValidationError("invalid to date: expected YYYY-MM-DD")
		}
		toDate = parsed
	}

	if toDate.Before(fromDate) {
		return time.Time{}, time.Time{}, apperror.NewValidationError("to date must not be before from date")
	}
	if toDate.Sub(fromDate) > maxReportRange {
		return time.Time{}, time.Time{}, apperror.NewValidationError("date range must not exceed one year")
	}
	return fromDate, toDate, nil
}

// --- Mapping ---

func toSalesReportResponse(r model.SalesReport) SalesReportResponse {
	resp := SalesReportResponse{
		ID:                     r.ID.String(),
		ReportType:             r.ReportType,
		ReportDate:             r.ReportDate.Format(reportDateLayout),
		TotalSalesBDT:          r.TotalSalesBDT.StringFixed(4),
		TotalOrders:            r.TotalOrders,
		TotalRefundsBDT:        r.TotalRefundsBDT.StringFixed(4),
		TotalProfitBDT:         r.TotalProfitBDT.StringFixed(4),
		PaymentMethodBreakdown: map[string]string{},
		UpdatedAt:              r.UpdatedAt.Format(time.RFC3339),
	}
	if b, err := r.Breakdown(); err == nil {
		for method, amount := range b {
			resp.PaymentMethodBreakdown[method] = amount.StringFixed(4)
		}
	}
	return resp
}
