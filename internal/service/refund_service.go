package service

import (
	"context"
	"strings"
	"time"

	"shoptobd/internal/model"
	"shoptobd/internal/pricing"
	"shoptobd/internal/repository"
	"shoptobd/pkg/apperror"
	"shoptobd/pkg/pagination"
)

//go:generate mockgen -source=refund_service.go -destination=mocks/refund_service_mock.go -package=mocks

// Breakdown key for refunds recorded without a payout method.
const unspecifiedRefundMethod = "Unspecified"

// --- DTOs ---

type RequestRefundRequest struct {
	InvoiceID       string `json:"invoice_id" binding:"required"`
	RefundType      string `json:"refund_type" binding:"required"`
	RefundAmountBDT string `json:"refund_amount_bdt" binding:"required"`
	RefundMethod    string `json:"refund_method"`
	RefundReason    string `json:"refund_reason" binding:"required"`
	ApplyAsCredit   bool   `json:"apply_as_credit"`
}

type ProcessRefundRequest struct {
	RefundID             string `json:"refund_id" binding:"required"`
	Status               string `json:"status" binding:"required"`
	Reason               string `json:"reason"`
	TransactionReference string `json:"transaction_reference"`
}

type RefundFilter struct {
	Status    string
	InvoiceID string
	Page      int
	Limit     int
}

type RefundProcessingResponse struct {
	Status               string  `json:"status"`
	Reason               string  `json:"reason"`
	ApprovedBy           *string `json:"approved_by"`
	ApprovalDate         *string `json:"approval_date"`
	TransactionReference *string `json:"transaction_reference"`
}

type RefundResponse struct {
	ID               string                    `json:"id"`
	InvoiceID        string                    `json:"invoice_id"`
	CustomerID       string                    `json:"customer_id"`
	RefundType       string                    `json:"refund_type"`
	RefundAmountBDT  string                    `json:"refund_amount_bdt"`
	RefundMethod     string                    `json:"refund_method"`
	RefundStatus     string                    `json:"refund_status"`
	RefundReason     string                    `json:"refund_reason"`
	ApplyAsCredit    bool                      `json:"apply_as_credit"`
	ProcessedByAdmin *string                   `json:"processed_by_admin"`
	RefundDate       *string                   `json:"refund_date"`
	Processing       *RefundProcessingResponse `json:"processing"`
	Invoice          *InvoiceResponse          `json:"invoice,omitempty"`
	CreatedAt        string                    `json:"created_at"`
}

// --- Interface ---

type RefundService interface {
	RequestRefund(ctx context.Context, actor Actor, req RequestRefundRequest) (RefundResponse, error)
	ProcessRefund(ctx context.Context, actor Actor, req ProcessRefundRequest) (RefundResponse, error)
	GetRefund(ctx context.Context, actor Actor, id string) (RefundResponse, error)
	ListRefunds(ctx context.Context, actor Actor, filter RefundFilter) ([]RefundResponse, int64, error)
}

type refundService struct {
	refundRepo  repository.RefundRepository
	invoiceRepo repository.InvoiceRepository
	orderRepo   repository.OrderRepository
	salesSvc    SalesService
	journal     journal
	txManager   repository.TransactionManager
	now         func() time.Time
}

func NewRefundService(
	refundRepo repository.RefundRepository,
	invoiceRepo repository.InvoiceRepository,
	orderRepo repository.OrderRepository,
	salesSvc SalesService,
	auditRepo repository.AuditRepository,
	outboxRepo repository.OutboxRepository,
	txManager repository.TransactionManager,
) RefundService {
	return &refundService{
		refundRepo:  refundRepo,
		invoiceRepo: invoiceRepo,
		orderRepo:   orderRepo,
		salesSvc:    salesSvc,
		journal:     journal{auditRepo: auditRepo, outboxRepo: outboxRepo},
		txManager:   txManager,
		now:         time.Now,
	}
}

// --- Implementation ---

func (s *refundService) RequestRefund(ctx context.Context, actor Actor, req RequestRefundRequest) (RefundResponse, error) {
	invoiceID, err := parseID(req.InvoiceID, "invoice_id")
	if err != nil {
		return RefundResponse{}, err
	}
	amount, err := parseAmount(req.RefundAmountBDT, "refund_amount_bdt")
	if err != nil {
		return RefundResponse{}, err
	}
	if !amount.IsPositive() {
		return RefundResponse{}, apperror.NewValidationError("refund_amount_bdt must be greater than zero")
	}
	if strings.TrimSpace(req.RefundReason) == "" {
		return RefundResponse{}, apperror.NewValidationError("refund_reason is required")
	}
	if strings.TrimSpace(req.RefundType) == "" {
		return RefundResponse{}, apperror.NewValidationError("refund_type is required")
	}

	var refund model.Refund
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		invoice, err := s.invoiceRepo.FindByID(txCtx, invoiceID)
		if err != nil {
			return lookupErr(err, "invoice")
		}
		order, err := s.orderRepo.FindByIDWithItems(txCtx, invoice.OrderID)
		if err != nil {
			return lookupErr(err, "order")
		}
		if !actor.IsAdmin() && order.CustomerID != actor.ID {
			return apperror.NewNotFoundError("invoice not found")
		}

		refund = model.Refund{
			InvoiceID:       invoice.ID,
			CustomerID:      order.CustomerID,
			RefundType:      strings.TrimSpace(req.RefundType),
			RefundAmountBDT: amount,
			RefundMethod:    strings.TrimSpace(req.RefundMethod),
			RefundStatus:    model.RefundStatusPending,
			RefundReason:    strings.TrimSpace(req.RefundReason),
			ApplyAsCredit:   req.ApplyAsCredit,
			Processing:      &model.RefundProcessing{Status: model.RefundStatusPending},
		}
		if err := s.refundRepo.Create(txCtx, &refund); err != nil {
			return storageErr("create refund", err)
		}

		details := map[string]interface{}{
			"invoice_number":  invoice.InvoiceNumber,
			"amount":          amount.String(),
			"apply_as_credit": req.ApplyAsCredit,
		}
		return s.journal.audit(txCtx, actor, model.ActionRequestRefund, refund.ID.String(), invoice.InvoiceNumber, details)
	})
	if err != nil {
		return RefundResponse{}, storageErr("request refund", err)
	}

	return toRefundResponse(refund), nil
}

var processableRefundStatuses = map[string]bool{
	model.RefundStatusApproved:  true,
	model.RefundStatusRejected:  true,
	model.RefundStatusCompleted: true,
}

// ProcessRefund adjudicates a refund. Completing it settles the invoice and
// books the refund against today's sales report in the same transaction.
func (s *refundService) ProcessRefund(ctx context.Context, actor Actor, req ProcessRefundRequest) (RefundResponse, error) {
	if !actor.IsSuperAdmin() {
		return RefundResponse{}, apperror.NewPermissionError("only a super admin can process refunds")
	}
	if !processableRefundStatuses[req.Status] {
		return RefundResponse{}, apperror.NewValidationError("status must be one of Approved, Rejected, Completed")
	}
	refundID, err := parseID(req.RefundID, "refund_id")
	if err != nil {
		return RefundResponse{}, err
	}

	var (
		refund  *model.Refund
		invoice *model.Invoice
	)
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		refund, findErr = s.refundRepo.FindByIDForUpdate(txCtx, refundID)
		if findErr != nil {
			return lookupErr(findErr, "refund")
		}
		if !model.CanTransitionRefund(refund.RefundStatus, req.Status) {
			return apperror.NewConflictError("refund cannot move from " + refund.RefundStatus + " to " + req.Status)
		}

		now := s.now()
		refund.RefundStatus = req.Status
		refund.ProcessedByAdmin = actor.ref()
		if req.Status == model.RefundStatusCompleted {
			refund.RefundDate = &now
		}
		if err := s.refundRepo.Update(txCtx, refund); err != nil {
			return storageErr("update refund", err)
		}

		processing := refund.Processing
		if processing == nil {
			processing = &model.RefundProcessing{RefundID: refund.ID}
		}
		processing.Status = req.Status
		processing.ApprovedBy = actor.ref()
		processing.ApprovalDate = &now
		if req.Reason != "" {
			processing.Reason = req.Reason
		}
		if ref := strings.TrimSpace(req.TransactionReference); ref != "" {
			processing.TransactionReference = &ref
		}
		if err := s.refundRepo.SaveProcessing(txCtx, processing); err != nil {
			return storageErr("update refund processing", err)
		}
		refund.Processing = processing

		if req.Status == model.RefundStatusCompleted {
			invoice, findErr = s.applyCompletedRefund(txCtx, refund)
			if findErr != nil {
				return findErr
			}
		}

		details := map[string]interface{}{
			"status":          req.Status,
			"amount":          refund.RefundAmountBDT.String(),
			"apply_as_credit": refund.ApplyAsCredit,
		}
		if invoice != nil {
			details["due_amount"] = invoice.DueAmountBDT.String()
		}
		if err := s.journal.audit(txCtx, actor, model.ActionProcessRefund, refund.ID.String(), "", details); err != nil {
			return err
		}
		return s.journal.publish(txCtx, "refund", refund.ID.String(), model.EventRefundProcessed, details)
	})
	if err != nil {
		return RefundResponse{}, storageErr("process refund", err)
	}

	resp := toRefundResponse(*refund)
	if invoice != nil {
		inv := toInvoiceResponse(*invoice)
		resp.Invoice = &inv
	}
	return resp, nil
}

// applyCompletedRefund settles the invoice and books the refund on the sales
// report. The refund row must already be saved as Completed.
func (s *refundService) applyCompletedRefund(ctx context.Context, refund *model.Refund) (*model.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByIDForUpdate(ctx, refund.InvoiceID)
	if err != nil {
		return nil, lookupErr(err, "invoice")
	}

	if refund.ApplyAsCredit {
		invoice.CreditAppliedBDT = invoice.CreditAppliedBDT.Add(refund.RefundAmountBDT)
	}
	refunded, err := s.refundRepo.SumCompletedCashRefunds(ctx, invoice.ID)
	if err != nil {
		return nil, storageErr("sum refunds", err)
	}
	invoice.DueAmountBDT = pricing.DueAmount(invoice.TotalInvoiceBDT, invoice.AmountPaidBDT, invoice.CreditAppliedBDT, refunded)
	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, storageErr("update invoice balance", err)
	}

	method := refund.RefundMethod
	if method == "" {
		method = unspecifiedRefundMethod
	}
	amount := refund.RefundAmountBDT
	if err := s.salesSvc.ApplyDelta(ctx, *refund.RefundDate, model.SalesDelta{
		Sales:        amount.Neg(),
		Refunds:      amount,
		Profit:       amount.Neg(),
		Method:       method,
		MethodAmount: amount.Neg(),
	}); err != nil {
		return nil, storageErr("update sales report", err)
	}
	return invoice, nil
}

func (s *refundService) GetRefund(ctx context.Context, actor Actor, id string) (RefundResponse, error) {
	refundID, err := parseID(id, "refund id")
	if err != nil {
		return RefundResponse{}, err
	}

	refund, err := s.refundRepo.FindByID(ctx, refundID)
	if err != nil {
		return RefundResponse{}, lookupErr(err, "refund")
	}
	if !actor.IsAdmin() && refund.CustomerID != actor.ID {
		return RefundResponse{}, apperror.NewNotFoundError("refund not found")
	}
	return toRefundResponse(*refund), nil
}

func (s *refundService) ListRefunds(ctx context.Context, actor Actor, filter RefundFilter) ([]RefundResponse, int64, error) {
	page := pagination.New(filter.Page, filter.Limit)
	filter.Page, filter.Limit = page.Page, page.Limit

	invoiceID, err := parseOptionalID(filter.InvoiceID, "invoice_id")
	if err != nil {
		return nil, 0, err
	}
	repoFilter := repository.RefundListFilter{
		Status:    filter.Status,
		InvoiceID: invoiceID,
		Page:      filter.Page,
		Limit:     filter.Limit,
	}
	if !actor.IsAdmin() {
		self := actor.ID
		repoFilter.CustomerID = &self
	}

	refunds, total, err := s.refundRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, 0, apperror.NewStorageError("failed to fetch refunds", err)
	}

	result := make([]RefundResponse, 0, len(refunds))
	for _, r := range refunds {
		result = append(result, toRefundResponse(r))
	}
	return result, total, nil
}

// --- Mapping ---

func toRefundResponse(r model.Refund) RefundResponse {
	resp := RefundResponse{
		ID:              r.ID.String(),
		InvoiceID:       r.InvoiceID.String(),
		CustomerID:      r.CustomerID.String(),
		RefundType:      r.RefundType,
		RefundAmountBDT: r.RefundAmountBDT.StringFixed(4),
		RefundMethod:    r.RefundMethod,
		RefundStatus:    r.RefundStatus,
		RefundReason:    r.RefundReason,
		ApplyAsCredit:   r.ApplyAsCredit,
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
	}
	if r.ProcessedByAdmin != nil {
		s := r.ProcessedByAdmin.String()
		resp.ProcessedByAdmin = &s
	}
	if r.RefundDate != nil {
		s := r.RefundDate.Format("2006-01-02")
		resp.RefundDate = &s
	}
	if p := r.Processing; p != nil {
		pr := &RefundProcessingResponse{
			Status:               p.Status,
			Reason:               p.Reason,
			TransactionReference: p.TransactionReference,
		}
		if p.ApprovedBy != nil {
			s := p.ApprovedBy.String()
			pr.ApprovedBy = &s
		}
		if p.ApprovalDate != nil {
			s := p.ApprovalDate.Format(time.RFC3339)
			pr.ApprovalDate = &s
		}
		resp.Processing = pr
	}
	return resp
}
