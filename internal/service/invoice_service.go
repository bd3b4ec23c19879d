package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"shoptobd/internal/model"
	"shoptobd/internal/pricing"
	"shoptobd/internal/repository"
	"shoptobd/pkg/apperror"
	"shoptobd/pkg/pagination"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=invoice_service.go -destination=mocks/invoice_service_mock.go -package=mocks

// --- DTOs ---

type IssueInvoiceRequest struct {
	OrderID     string `json:"order_id" binding:"required"`
	InvoiceType string `json:"invoice_type"` // Initial (default) or Final
	Notes       string `json:"notes"`
}

type UpdateInvoiceRequest struct {
	InvoiceID string                 `json:"invoice_id" binding:"required"`
	Fields    map[string]interface{} `json:"fields" binding:"required"`
}

type ApproveInvoiceRequest struct {
	InvoiceID string `json:"invoice_id" binding:"required"`
}

type InvoiceFilter struct {
	Status  string
	OrderID string
	Page    int
	Limit   int
}

type InvoiceResponse struct {
	ID               string  `json:"id"`
	InvoiceNumber    string  `json:"invoice_number"`
	OrderID          string  `json:"order_id"`
	InvoiceType      string  `json:"invoice_type"`
	InvoiceStatus    string  `json:"invoice_status"`
	IsFinalized      bool    `json:"is_finalized"`
	BaseAmountBDT    string  `json:"base_amount_bdt"`
	TotalWeightGrams string  `json:"total_weight_grams"`
	WeightCategory   *string `json:"weight_category"`
	WeightChargeBDT  string  `json:"weight_charge_bdt"`
	ExtraChargesBDT  string  `json:"extra_charges_bdt"`
	TotalInvoiceBDT  string  `json:"total_invoice_bdt"`
	AmountPaidBDT    string  `json:"amount_paid_bdt"`
	CreditAppliedBDT string  `json:"credit_applied_bdt"`
	DueAmountBDT     string  `json:"due_amount_bdt"`
	Notes            string  `json:"notes"`
	ApprovedBy       *string `json:"approved_by"`
	ApprovedAt       *string `json:"approved_at"`
	CreatedAt        string  `json:"created_at"`
}

// --- Interface ---

type InvoiceService interface {
	IssueInvoice(ctx context.Context, actor Actor, req IssueInvoiceRequest) (InvoiceResponse, error)
	UpdateInvoiceFields(ctx context.Context, actor Actor, id string, fields map[string]interface{}) (InvoiceResponse, error)
	ApproveInvoice(ctx context.Context, actor Actor, id string) (InvoiceResponse, error)
	GetInvoice(ctx context.Context, actor Actor, id string) (InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter InvoiceFilter) ([]InvoiceResponse, int64, error)
}

type invoiceService struct {
	invoiceRepo  repository.InvoiceRepository
	orderRepo    repository.OrderRepository
	refundRepo   repository.RefundRepository
	sequenceRepo repository.SequenceRepository
	journal      journal
	txManager    repository.TransactionManager
	now          func() time.Time
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	orderRepo repository.OrderRepository,
	refundRepo repository.RefundRepository,
	sequenceRepo repository.SequenceRepository,
	auditRepo repository.AuditRepository,
	outboxRepo repository.OutboxRepository,
	txManager repository.TransactionManager,
) InvoiceService {
	return &invoiceService{
		invoiceRepo:  invoiceRepo,
		orderRepo:    orderRepo,
		refundRepo:   refundRepo,
		sequenceRepo: sequenceRepo,
		journal:      journal{auditRepo: auditRepo, outboxRepo: outboxRepo},
		txManager:    txManager,
		now:          time.Now,
	}
}

// --- Field allow-list ---

// invoiceFieldSetter applies one client-supplied value. The bool result
// reports whether the weight charge must be derived again.
type invoiceFieldSetter func(inv *model.Invoice, value interface{}) (bool, error)

var invoiceFieldSetters = map[string]invoiceFieldSetter{
	"weight_category": func(inv *model.Invoice, value interface{}) (bool, error) {
		name, ok := value.(string)
		if !ok || strings.TrimSpace(name) == "" {
			return false, apperror.NewValidationError("weight_category must be a non-empty string")
		}
		name = strings.TrimSpace(name)
		inv.WeightCategory = &name
		return true, nil
	},
	"total_weight_grams": func(inv *model.Invoice, value interface{}) (bool, error) {
		grams, err := decimalValue(value, "total_weight_grams")
		if err != nil {
			return false, err
		}
		inv.TotalWeightGrams = grams
		return true, nil
	},
	"extra_charges_bdt": func(inv *model.Invoice, value interface{}) (bool, error) {
		extra, err := decimalValue(value, "extra_charges_bdt")
		if err != nil {
			return false, err
		}
		inv.ExtraChargesBDT = extra
		return false, nil
	},
	"invoice_type": func(inv *model.Invoice, value interface{}) (bool, error) {
		t, _ := value.(string)
		if t != model.InvoiceTypeInitial && t != model.InvoiceTypeFinal {
			return false, apperror.NewValidationError("invoice_type must be Initial or Final")
		}
		inv.InvoiceType = t
		return false, nil
	},
	"notes": func(inv *model.Invoice, value interface{}) (bool, error) {
		notes, ok := value.(string)
		if !ok {
			return false, apperror.NewValidationError("notes must be a string")
		}
		inv.Notes = notes
		return false, nil
	},
}

// Fields that are always computed and may never be written directly.
var derivedInvoiceFields = map[string]bool{
	"weight_charge_bdt":  true,
	"base_amount_bdt":    true,
	"total_invoice_bdt":  true,
	"amount_paid_bdt":    true,
	"credit_applied_bdt": true,
	"due_amount_bdt":     true,
	"invoice_status":     true,
	"is_finalized":       true,
	"invoice_number":     true,
}

// decimalValue accepts a JSON number or a decimal string, never negative.
func decimalValue(value interface{}, field string) (decimal.Decimal, error) {
	var (
		d   decimal.Decimal
		err error
	)
	switch v := value.(type) {
	case string:
		d, err = decimal.NewFromString(strings.TrimSpace(v))
	case json.Number:
		d, err = decimal.NewFromString(v.String())
	case float64:
		d = decimal.NewFromFloat(v)
	case int:
		d = decimal.NewFromInt(int64(v))
	default:
		err = fmt.Errorf("unsupported type %T", value)
	}
	if err != nil {
		return decimal.Zero, apperror.NewValidationError(fmt.Sprintf("%s must be a decimal number", field))
	}
	if d.IsNegative() {
		return decimal.Zero, apperror.NewValidationError(fmt.Sprintf("%s must not be negative", field))
	}
	return d, nil
}

// --- Implementation ---

func (s *invoiceService) IssueInvoice(ctx context.Context, actor Actor, req IssueInvoiceRequest) (InvoiceResponse, error) {
	orderID, err := parseID(req.OrderID, "order_id")
	if err != nil {
		return InvoiceResponse{}, err
	}
	invoiceType := req.InvoiceType
	if invoiceType == "" {
		invoiceType = model.InvoiceTypeInitial
	}
	if invoiceType != model.InvoiceTypeInitial && invoiceType != model.InvoiceTypeFinal {
		return InvoiceResponse{}, apperror.NewValidationError("invoice_type must be Initial or Final")
	}

	var invoice model.Invoice
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		// The order lock serializes concurrent issues for the same order.
		order, err := s.orderRepo.FindByIDForUpdate(txCtx, orderID)
		if err != nil {
			return lookupErr(err, "order")
		}
		if order.Status != model.OrderStatusFinalized {
			return apperror.NewConflictError("order must be finalized before invoicing")
		}
		exists, err := s.invoiceRepo.ExistsForOrder(txCtx, order.ID, invoiceType)
		if err != nil {
			return storageErr("check existing invoice", err)
		}
		if exists {
			return apperror.NewConflictError(fmt.Sprintf("%s invoice already issued for this order", invoiceType))
		}

		number, err := nextDocumentNumber(txCtx, s.sequenceRepo, model.SequenceInvoice, s.now())
		if err != nil {
			return err
		}

		invoice = model.Invoice{
			InvoiceNumber:   number,
			OrderID:         order.ID,
			InvoiceType:     invoiceType,
			InvoiceStatus:   model.InvoiceStatusDraft,
			BaseAmountBDT:   order.TotalBDT,
			TotalInvoiceBDT: order.TotalBDT,
			DueAmountBDT:    order.TotalBDT,
			Notes:           req.Notes,
		}
		if err := s.invoiceRepo.Create(txCtx, &invoice); err != nil {
			return storageErr("create invoice", err)
		}

		details := map[string]interface{}{
			"order_number": order.OrderNumber,
			"invoice_type": invoiceType,
			"total":        invoice.TotalInvoiceBDT.String(),
		}
		return s.journal.audit(txCtx, actor, model.ActionIssueInvoice, invoice.ID.String(), invoice.InvoiceNumber, details)
	})
	if err != nil {
		return InvoiceResponse{}, storageErr("issue invoice", err)
	}

	return toInvoiceResponse(invoice), nil
}

// UpdateInvoiceFields patches allow-listed fields, then derives the weight
// charge, total and due amount again from the stored state.
func (s *invoiceService) UpdateInvoiceFields(ctx context.Context, actor Actor, id string, fields map[string]interface{}) (InvoiceResponse, error) {
	invoiceID, err := parseID(id, "invoice_id")
	if err != nil {
		return InvoiceResponse{}, err
	}
	if len(fields) == 0 {
		return InvoiceResponse{}, apperror.NewValidationError("no fields to update")
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		if derivedInvoiceFields[k] {
			return InvoiceResponse{}, apperror.NewValidationError(fmt.Sprintf("field %q is derived and cannot be set", k))
		}
		if _, ok := invoiceFieldSetters[k]; !ok {
			return InvoiceResponse{}, apperror.NewValidationError(fmt.Sprintf("field %q cannot be updated", k))
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var invoice *model.Invoice
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		invoice, findErr = s.invoiceRepo.FindByIDForUpdate(txCtx, invoiceID)
		if findErr != nil {
			return lookupErr(findErr, "invoice")
		}
		if invoice.Locked() {
			return apperror.NewConflictError("invoice is approved and finalized")
		}

		rederive := false
		for _, k := range keys {
			changed, err := invoiceFieldSetters[k](invoice, fields[k])
			if err != nil {
				return err
			}
			rederive = rederive || changed
		}

		if rederive && invoice.WeightCategory != nil {
			category, err := s.invoiceRepo.FindWeightCategory(txCtx, *invoice.WeightCategory)
			if err != nil {
				return lookupErr(err, fmt.Sprintf("weight category %q", *invoice.WeightCategory))
			}
			invoice.WeightChargeBDT = pricing.WeightCharge(category.ChargePerGram, invoice.TotalWeightGrams)
		}

		if err := s.recomputeBalance(txCtx, invoice); err != nil {
			return err
		}
		if err := s.invoiceRepo.Update(txCtx, invoice); err != nil {
			return storageErr("update invoice", err)
		}

		return s.journal.audit(txCtx, actor, model.ActionUpdateInvoice, invoice.ID.String(), invoice.InvoiceNumber, fields)
	})
	if err != nil {
		return InvoiceResponse{}, storageErr("update invoice", err)
	}

	return toInvoiceResponse(*invoice), nil
}

// ApproveInvoice overwrites the approval state; approving twice is harmless.
func (s *invoiceService) ApproveInvoice(ctx context.Context, actor Actor, id string) (InvoiceResponse, error) {
	invoiceID, err := parseID(id, "invoice_id")
	if err != nil {
		return InvoiceResponse{}, err
	}

	var invoice *model.Invoice
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		invoice, findErr = s.invoiceRepo.FindByIDForUpdate(txCtx, invoiceID)
		if findErr != nil {
			return lookupErr(findErr, "invoice")
		}

		now := s.now()
		invoice.InvoiceStatus = model.InvoiceStatusApproved
		invoice.IsFinalized = true
		invoice.ApprovedBy = actor.ref()
		invoice.ApprovedAt = &now
		if err := s.invoiceRepo.Update(txCtx, invoice); err != nil {
			return storageErr("approve invoice", err)
		}

		details := map[string]interface{}{
			"invoice_type": invoice.InvoiceType,
			"total":        invoice.TotalInvoiceBDT.String(),
			"due":          invoice.DueAmountBDT.String(),
		}
		if err := s.journal.audit(txCtx, actor, model.ActionApproveInvoice, invoice.ID.String(), invoice.InvoiceNumber, details); err != nil {
			return err
		}
		return s.journal.publish(txCtx, "invoice", invoice.ID.String(), model.EventInvoiceApproved, toInvoiceResponse(*invoice))
	})
	if err != nil {
		return InvoiceResponse{}, storageErr("approve invoice", err)
	}

	return toInvoiceResponse(*invoice), nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, actor Actor, id string) (InvoiceResponse, error) {
	invoiceID, err := parseID(id, "invoice id")
	if err != nil {
		return InvoiceResponse{}, err
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return InvoiceResponse{}, lookupErr(err, "invoice")
	}

	if !actor.IsAdmin() {
		order, err := s.orderRepo.FindByIDWithItems(ctx, invoice.OrderID)
		if err != nil || order.CustomerID != actor.ID {
			return InvoiceResponse{}, apperror.NewNotFoundError("invoice not found")
		}
	}
	return toInvoiceResponse(*invoice), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter InvoiceFilter) ([]InvoiceResponse, int64, error) {
	page := pagination.New(filter.Page, filter.Limit)
	filter.Page, filter.Limit = page.Page, page.Limit

	orderID, err := parseOptionalID(filter.OrderID, "order_id")
	if err != nil {
		return nil, 0, err
	}

	invoices, total, err := s.invoiceRepo.List(ctx, repository.InvoiceListFilter{
		Status:  filter.Status,
		OrderID: orderID,
		Page:    filter.Page,
		Limit:   filter.Limit,
	})
	if err != nil {
		return nil, 0, apperror.NewStorageError("failed to fetch invoices", err)
	}

	result := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		result = append(result, toInvoiceResponse(inv))
	}
	return result, total, nil
}

// recomputeBalance derives total and due from the invoice's stored inputs.
func (s *invoiceService) recomputeBalance(ctx context.Context, invoice *model.Invoice) error {
	refunded, err := s.refundRepo.SumCompletedCashRefunds(ctx, invoice.ID)
	if err != nil {
		return storageErr("sum refunds", err)
	}
	invoice.TotalInvoiceBDT = pricing.InvoiceTotal(invoice.BaseAmountBDT, invoice.WeightChargeBDT, invoice.ExtraChargesBDT)
	invoice.DueAmountBDT = pricing.DueAmount(invoice.TotalInvoiceBDT, invoice.AmountPaidBDT, invoice.CreditAppliedBDT, refunded)
	return nil
}

// --- Mapping ---

func toInvoiceResponse(inv model.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:               inv.ID.String(),
		InvoiceNumber:    inv.InvoiceNumber,
		OrderID:          inv.OrderID.String(),
		InvoiceType:      inv.InvoiceType,
		InvoiceStatus:    inv.InvoiceStatus,
		IsFinalized:      inv.IsFinalized,
		BaseAmountBDT:    inv.BaseAmountBDT.StringFixed(4),
		TotalWeightGrams: inv.TotalWeightGrams.StringFixed(4),
		WeightCategory:   inv.WeightCategory,
		WeightChargeBDT:  inv.WeightChargeBDT.StringFixed(4),
		ExtraChargesBDT:  inv.ExtraChargesBDT.StringFixed(4),
		TotalInvoiceBDT:  inv.TotalInvoiceBDT.StringFixed(4),
		AmountPaidBDT:    inv.AmountPaidBDT.StringFixed(4),
		CreditAppliedBDT: inv.CreditAppliedBDT.StringFixed(4),
		DueAmountBDT:     inv.DueAmountBDT.StringFixed(4),
		Notes:            inv.Notes,
		CreatedAt:        inv.CreatedAt.Format(time.RFC3339),
	}
	if inv.ApprovedBy != nil {
		s := inv.ApprovedBy.String()
		resp.ApprovedBy = &s
	}
	if inv.ApprovedAt != nil {
		s := inv.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &s
	}
	return resp
}
