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

	"github.com/google/uuid"
)

//go:generate mockgen -source=payment_service.go -destination=mocks/payment_service_mock.go -package=mocks

// --- DTOs ---

type AddPaymentRequest struct {
	InvoiceID            string `json:"invoice_id" binding:"required"`
	PaymentMethod        string `json:"payment_method" binding:"required"`
	AmountBDT            string `json:"amount_bdt" binding:"required"`
	TransactionReference string `json:"transaction_reference"`
	IsPartial            bool   `json:"is_partial"`
}

type ConfirmPaymentRequest struct {
	PaymentID string `json:"payment_id" binding:"required"`
	Action    string `json:"action" binding:"required,oneof=Confirmed Rejected"`
}

type PaymentFilter struct {
	InvoiceID string
	OrderID   string
	Status    string
	Page      int
	Limit     int
}

type PaymentResponse struct {
	ID                   string           `json:"id"`
	InvoiceID            *string          `json:"invoice_id"`
	OrderID              *string          `json:"order_id"`
	PaymentMethod        string           `json:"payment_method"`
	AmountBDT            string           `json:"amount_bdt"`
	PaymentChargeBDT     string           `json:"payment_charge_bdt"`
	BKashChargeBDT       string           `json:"bkash_charge_bdt"`
	Status               string           `json:"status"`
	TransactionReference *string          `json:"transaction_reference"`
	IsPartial            bool             `json:"is_partial"`
	ConfirmedBy          *string          `json:"confirmed_by"`
	ConfirmedAt          *string          `json:"confirmed_at"`
	PaymentDate          string           `json:"payment_date"`
	Invoice              *InvoiceResponse `json:"invoice,omitempty"`
}

// --- Interface ---

type PaymentService interface {
	AddPayment(ctx context.Context, actor Actor, req AddPaymentRequest) (PaymentResponse, error)
	ConfirmPayment(ctx context.Context, actor Actor, req ConfirmPaymentRequest) (PaymentResponse, error)
	ListPayments(ctx context.Context, filter PaymentFilter) ([]PaymentResponse, int64, error)
}

type paymentService struct {
	paymentRepo repository.PaymentRepository
	invoiceRepo repository.InvoiceRepository
	orderRepo   repository.OrderRepository
	refundRepo  repository.RefundRepository
	journal     journal
	txManager   repository.TransactionManager
	now         func() time.Time
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	invoiceRepo repository.InvoiceRepository,
	orderRepo repository.OrderRepository,
	refundRepo repository.RefundRepository,
	auditRepo repository.AuditRepository,
	outboxRepo repository.OutboxRepository,
	txManager repository.TransactionManager,
) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		invoiceRepo: invoiceRepo,
		orderRepo:   orderRepo,
		refundRepo:  refundRepo,
		journal:     journal{auditRepo: auditRepo, outboxRepo: outboxRepo},
		txManager:   txManager,
		now:         time.Now,
	}
}

// --- Implementation ---

func (s *paymentService) AddPayment(ctx context.Context, actor Actor, req AddPaymentRequest) (PaymentResponse, error) {
	invoiceID, err := parseID(req.InvoiceID, "invoice_id")
	if err != nil {
		return PaymentResponse{}, err
	}
	amount, err := parseAmount(req.AmountBDT, "amount_bdt")
	if err != nil {
		return PaymentResponse{}, err
	}
	if !amount.IsPositive() {
		return PaymentResponse{}, apperror.NewValidationError("amount_bdt must be greater than zero")
	}
	charge, err := pricing.PaymentCharge(req.PaymentMethod, amount)
	if err != nil {
		return PaymentResponse{}, err
	}

	payment := model.Payment{
		InvoiceID:        &invoiceID,
		PaymentMethod:    req.PaymentMethod,
		AmountBDT:        amount,
		PaymentChargeBDT: charge,
		Status:           model.PaymentStatusPending,
		IsPartial:        req.IsPartial,
		PaymentDate:      s.now(),
	}
	if req.PaymentMethod == pricing.MethodBKash {
		payment.BKashChargeBDT = charge
	}
	if ref := strings.TrimSpace(req.TransactionReference); ref != "" {
		payment.TransactionReference = &ref
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		invoice, err := s.invoiceRepo.FindByID(txCtx, invoiceID)
		if err != nil {
			return lookupErr(err, "invoice")
		}
		if !actor.IsAdmin() {
			order, err := s.orderRepo.FindByIDWithItems(txCtx, invoice.OrderID)
			if err != nil || order.CustomerID != actor.ID {
				return apperror.NewNotFoundError("invoice not found")
			}
		}

		if err := s.paymentRepo.Create(txCtx, &payment); err != nil {
			return storageErr("create payment", err)
		}

		details := map[string]interface{}{
			"invoice_id": invoiceID.String(),
			"method":     payment.PaymentMethod,
			"amount":     amount.String(),
			"charge":     charge.String(),
			"is_partial": payment.IsPartial,
		}
		return s.journal.audit(txCtx, actor, model.ActionAddPayment, payment.ID.String(), invoice.InvoiceNumber, details)
	})
	if err != nil {
		return PaymentResponse{}, storageErr("add payment", err)
	}

	return toPaymentResponse(payment), nil
}

// ConfirmPayment moves a pending payment to Confirmed or Rejected exactly once.
// A confirmed invoice payment recomputes the invoice's paid and due amounts
// from the full set of confirmed payments.
func (s *paymentService) ConfirmPayment(ctx context.Context, actor Actor, req ConfirmPaymentRequest) (PaymentResponse, error) {
	if req.Action != model.PaymentStatusConfirmed && req.Action != model.PaymentStatusRejected {
		return PaymentResponse{}, apperror.NewValidationError("action must be Confirmed or Rejected")
	}
	paymentID, err := parseID(req.PaymentID, "payment_id")
	if err != nil {
		return PaymentResponse{}, err
	}

	var (
		payment *model.Payment
		invoice *model.Invoice
	)
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		payment, findErr = s.paymentRepo.FindByIDForUpdate(txCtx, paymentID)
		if findErr != nil {
			return lookupErr(findErr, "payment")
		}
		if payment.Status != model.PaymentStatusPending {
			return apperror.NewConflictError("payment is already " + strings.ToLower(payment.Status))
		}

		now := s.now()
		payment.Status = req.Action
		payment.ConfirmedBy = actor.ref()
		payment.ConfirmedAt = &now
		if err := s.paymentRepo.Update(txCtx, payment); err != nil {
			return storageErr("update payment", err)
		}

		entityName := ""
		if req.Action == model.PaymentStatusConfirmed {
			if payment.InvoiceID != nil {
				invoice, findErr = s.settleInvoice(txCtx, *payment.InvoiceID)
				if findErr != nil {
					return findErr
				}
				entityName = invoice.InvoiceNumber
			}
			if payment.OrderID != nil {
				if err := s.orderRepo.UpdatePaymentStatus(txCtx, *payment.OrderID, model.OrderPaymentPaid); err != nil {
					return storageErr("mark order paid", err)
				}
			}
		}

		action, event := model.ActionConfirmPayment, model.EventPaymentConfirmed
		if req.Action == model.PaymentStatusRejected {
			action, event = model.ActionRejectPayment, model.EventPaymentRejected
		}
		details := map[string]interface{}{
			"amount": payment.AmountBDT.String(),
			"method": payment.PaymentMethod,
		}
		if invoice != nil {
			details["amount_paid"] = invoice.AmountPaidBDT.String()
			details["due_amount"] = invoice.DueAmountBDT.String()
		}
		if err := s.journal.audit(txCtx, actor, action, payment.ID.String(), entityName, details); err != nil {
			return err
		}
		return s.journal.publish(txCtx, "payment", payment.ID.String(), event, details)
	})
	if err != nil {
		return PaymentResponse{}, storageErr("confirm payment", err)
	}

	resp := toPaymentResponse(*payment)
	if invoice != nil {
		inv := toInvoiceResponse(*invoice)
		resp.Invoice = &inv
	}
	return resp, nil
}

// settleInvoice recomputes paid and due for an invoice under its row lock.
func (s *paymentService) settleInvoice(ctx context.Context, invoiceID uuid.UUID) (*model.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByIDForUpdate(ctx, invoiceID)
	if err != nil {
		return nil, lookupErr(err, "invoice")
	}

	paid, err := s.paymentRepo.SumConfirmedByInvoice(ctx, invoice.ID)
	if err != nil {
		return nil, storageErr("sum confirmed payments", err)
	}
	refunded, err := s.refundRepo.SumCompletedCashRefunds(ctx, invoice.ID)
	if err != nil {
		return nil, storageErr("sum refunds", err)
	}

	invoice.AmountPaidBDT = paid
	invoice.DueAmountBDT = pricing.DueAmount(invoice.TotalInvoiceBDT, paid, invoice.CreditAppliedBDT, refunded)
	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, storageErr("update invoice balance", err)
	}
	return invoice, nil
}

func (s *paymentService) ListPayments(ctx context.Context, filter PaymentFilter) ([]PaymentResponse, int64, error) {
	page := pagination.New(filter.Page, filter.Limit)
	filter.Page, filter.Limit = page.Page, page.Limit

	invoiceID, err := parseOptionalID(filter.InvoiceID, "invoice_id")
	if err != nil {
		return nil, 0, err
	}
	orderID, err := parseOptionalID(filter.OrderID, "order_id")
	if err != nil {
		return nil, 0, err
	}

	payments, total, err := s.paymentRepo.List(ctx, repository.PaymentListFilter{
		InvoiceID: invoiceID,
		OrderID:   orderID,
		Status:    filter.Status,
		Page:      filter.Page,
		Limit:     filter.Limit,
	})
	if err != nil {
		return nil, 0, apperror.NewStorageError("failed to fetch payments", err)
	}

	result := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		result = append(result, toPaymentResponse(p))
	}
	return result, total, nil
}

// --- Mapping ---

func toPaymentResponse(p model.Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:                   p.ID.String(),
		PaymentMethod:        p.PaymentMethod,
		AmountBDT:            p.AmountBDT.StringFixed(4),
		PaymentChargeBDT:     p.PaymentChargeBDT.StringFixed(4),
		BKashChargeBDT:       p.BKashChargeBDT.StringFixed(4),
		Status:               p.Status,
		TransactionReference: p.TransactionReference,
		IsPartial:            p.IsPartial,
		PaymentDate:          p.PaymentDate.Format(time.RFC3339),
	}
	if p.InvoiceID != nil {
		s := p.InvoiceID.String()
		resp.InvoiceID = &s
	}
	if p.OrderID != nil {
		s := p.OrderID.String()
		resp.OrderID = &s
	}
	if p.ConfirmedBy != nil {
		s := p.ConfirmedBy.String()
		resp.ConfirmedBy = &s
	}
	if p.ConfirmedAt != nil {
		s := p.ConfirmedAt.Format(time.RFC3339)
		resp.ConfirmedAt = &s
	}
	return resp
}
