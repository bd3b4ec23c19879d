package service_test

import (
	"context"
	"testing"
	"time"

	"shoptobd/internal/model"
	"shoptobd/internal/repository"
	"shoptobd/internal/repository/mocks"
	"shoptobd/internal/service"
	svcmocks "shoptobd/internal/service/mocks"
	"shoptobd/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type refundMocks struct {
	refunds  *mocks.MockRefundRepository
	invoices *mocks.MockInvoiceRepository
	orders   *mocks.MockOrderRepository
	sales    *svcmocks.MockSalesService
	audit    *mocks.MockAuditRepository
	outbox   *mocks.MockOutboxRepository
}

func newRefundService(ctrl *gomock.Controller) (service.RefundService, refundMocks) {
	m := refundMocks{
		refunds:  mocks.NewMockRefundRepository(ctrl),
		invoices: mocks.NewMockInvoiceRepository(ctrl),
		orders:   mocks.NewMockOrderRepository(ctrl),
		sales:    svcmocks.NewMockSalesService(ctrl),
		audit:    mocks.NewMockAuditRepository(ctrl),
		outbox:   mocks.NewMockOutboxRepository(ctrl),
	}
	svc := service.NewRefundService(m.refunds, m.invoices, m.orders, m.sales, m.audit, m.outbox, fakeTxManager{})
	return svc, m
}

func TestRefundService_RequestRefund(t *testing.T) {
	invoiceID, orderID := uuid.New(), uuid.New()
	customer := service.Actor{ID: uuid.New(), Role: model.RoleCustomer}

	type testCase struct {
		name          string
		actor         service.Actor
		req           service.RequestRefundRequest
		setupMock     func(m refundMocks)
		wantErrorKind error
	}

	valid := service.RequestRefundRequest{
		InvoiceID:       invoiceID.String(),
		RefundType:      "Partial",
		RefundAmountBDT: "500",
		RefundMethod:    "bKash",
		RefundReason:    "item damaged",
	}

	tests := []testCase{
		{
			name:  "customer requests a refund on their invoice",
			actor: customer,
			req:   valid,
			setupMock: func(m refundMocks) {
				m.invoices.EXPECT().FindByID(gomock.Any(), invoiceID).Return(&model.Invoice{ID: invoiceID, OrderID: orderID}, nil)
				m.orders.EXPECT().FindByIDWithItems(gomock.Any(), orderID).Return(&model.Order{ID: orderID, CustomerID: customer.ID}, nil)
				m.refunds.EXPECT().Create(gomock.Any(), gomock.Cond(func(x any) bool {
					r := x.(*model.Refund)
					return r.RefundStatus == model.RefundStatusPending && r.Processing != nil && r.CustomerID == customer.ID
				})).Return(nil)
				m.audit.EXPECT().Log(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:  "someone else's invoice",
			actor: service.Actor{ID: uuid.New(), Role: model.RoleCustomer},
			req:   valid,
			setupMock: func(m refundMocks) {
				m.invoices.EXPECT().FindByID(gomock.Any(), invoiceID).Return(&model.Invoice{ID: invoiceID, OrderID: orderID}, nil)
				m.orders.EXPECT().FindByIDWithItems(gomock.Any(), orderID).Return(&model.Order{ID: orderID, CustomerID: customer.ID}, nil)
			},
			wantErrorKind: apperror.ErrNotFound,
		},
		{
			name:  "missing reason",
			actor: customer,
			req: service.RequestRefundRequest{
				InvoiceID: invoiceID.String(), RefundType: "Full", RefundAmountBDT: "500",
			},
			wantErrorKind: apperror.ErrValidation,
		},
		{
			name:  "negative amount",
			actor: customer,
			req: service.RequestRefundRequest{
				InvoiceID: invoiceID.String(), RefundType: "Full", RefundAmountBDT: "-5", RefundReason: "x",
			},
			wantErrorKind: apperror.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc, m := newRefundService(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(m)
			}

			got, err := svc.RequestRefund(context.Background(), tt.actor, tt.req)
			if tt.wantErrorKind != nil {
				require.ErrorIs(t, err, tt.wantErrorKind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, model.RefundStatusPending, got.RefundStatus)
			assert.Equal(t, "500.0000", got.RefundAmountBDT)
		})
	}
}

func TestRefundService_ProcessRefund(t *testing.T) {
	superAdmin := service.Actor{ID: uuid.New(), Role: model.RoleSuperAdmin}
	refundID, invoiceID := uuid.New(), uuid.New()

	refundIn := func(status string, credit bool, method string) *model.Refund {
		return &model.Refund{
			ID:              refundID,
			InvoiceID:       invoiceID,
			RefundAmountBDT: dec("500"),
			RefundMethod:    method,
			RefundStatus:    status,
			ApplyAsCredit:   credit,
			Processing:      &model.RefundProcessing{RefundID: refundID, Status: status},
		}
	}
	paidInvoice := func() *model.Invoice {
		return &model.Invoice{ID: invoiceID, TotalInvoiceBDT: dec("2000"), AmountPaidBDT: dec("2000")}
	}

	type testCase struct {
		name          string
		actor         service.Actor
		status        string
		setupMock     func(m refundMocks)
		wantDue       string
		wantCredit    string
		wantErrorKind error
	}

	tests := []testCase{
		{
			name:   "approve a pending refund",
			actor:  superAdmin,
			status: model.RefundStatusApproved,
			setupMock: func(m refundMocks) {
				m.refunds.EXPECT().FindByIDForUpdate(gomock.Any(), refundID).Return(refundIn(model.RefundStatusPending, false, "bKash"), nil)
				m.refunds.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
				m.refunds.EXPECT().SaveProcessing(gomock.Any(), gomock.Any()).Return(nil)
				m.audit.EXPECT().Log(gomock.Any(), gomock.Any()).Return(nil)
				m.outbox.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:   "completing a cash refund settles the invoice and books the sales reversal",
			actor:  superAdmin,
			status: model.RefundStatusCompleted,
			setupMock: func(m refundMocks) {
				m.refunds.EXPECT().FindByIDForUpdate(gomock.Any(), refundID).Return(refundIn(model.RefundStatusApproved, false, ""), nil)
				m.refunds.EXPECT().Update(gomock.Any(), gomock.Cond(func(x any) bool {
					return x.(*model.Refund).RefundDate != nil
				})).Return(nil)
				m.refunds.EXPECT().SaveProcessing(gomock.Any(), gomock.Any()).Return(nil)
				m.invoices.EXPECT().FindByIDForUpdate(gomock.Any(), invoiceID).Return(paidInvoice(), nil)
				m.refunds.EXPECT().SumCompletedCashRefunds(gomock.Any(), invoiceID).Return(dec("500"), nil)
				m.invoices.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
				m.sales.EXPECT().ApplyDelta(gomock.Any(), gomock.Any(), gomock.Cond(func(x any) bool {
					d := x.(model.SalesDelta)
					return d.Sales.Equal(dec("-500")) && d.Refunds.Equal(dec("500")) &&
						d.Profit.Equal(dec("-500")) && d.Orders == 0 &&
						d.Method == "Unspecified" && d.MethodAmount.Equal(dec("-500"))
				})).Return(nil)
				m.audit.EXPECT().Log(gomock.Any(), gomock.Any()).Return(nil)
				m.outbox.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantDue:    "0.0000",
			wantCredit: "0.0000",
		},
		{
			name:   "completing a credit refund raises credit applied",
			actor:  superAdmin,
			status: model.RefundStatusCompleted,
			setupMock: func(m refundMocks) {
				m.refunds.EXPECT().FindByIDForUpdate(gomock.Any(), refundID).Return(refundIn(model.RefundStatusApproved, true, "bKash"), nil)
				m.refunds.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
				m.refunds.EXPECT().SaveProcessing(gomock.Any(), gomock.Any()).Return(nil)
				m.invoices.EXPECT().FindByIDForUpdate(gomock.Any(), invoiceID).
					Return(&model.Invoice{ID: invoiceID, TotalInvoiceBDT: dec("2000"), AmountPaidBDT: dec("1000")}, nil)
				m.refunds.EXPECT().SumCompletedCashRefunds(gomock.Any(), invoiceID).Return(dec("0"), nil)
				m.invoices.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
				m.sales.EXPECT().ApplyDelta(gomock.Any(), gomock.Any(), gomock.Cond(func(x any) bool {
					return x.(model.SalesDelta).Method == "bKash"
				})).Return(nil)
				m.audit.EXPECT().Log(gomock.Any(), gomock.Any()).Return(nil)
				m.outbox.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantDue:    "500.0000",
			wantCredit: "500.0000",
		},
		{
			name:          "plain admin may not process",
			actor:         service.Actor{ID: uuid.New(), Role: model.RoleAdmin},
			status:        model.RefundStatusApproved,
			wantErrorKind: apperror.ErrPermission,
		},
		{
			name:   "pending cannot jump to completed",
			actor:  superAdmin,
			status: model.RefundStatusCompleted,
			setupMock: func(m refundMocks) {
				m.refunds.EXPECT().FindByIDForUpdate(gomock.Any(), refundID).Return(refundIn(model.RefundStatusPending, false, ""), nil)
			},
			wantErrorKind: apperror.ErrConflict,
		},
		{
			name:   "completed is terminal",
			actor:  superAdmin,
			status: model.RefundStatusRejected,
			setupMock: func(m refundMocks) {
				m.refunds.EXPECT().FindByIDForUpdate(gomock.Any(), refundID).Return(refundIn(model.RefundStatusCompleted, false, ""), nil)
			},
			wantErrorKind: apperror.ErrConflict,
		},
		{
			name:          "pending is not a target status",
			actor:         superAdmin,
			status:        model.RefundStatusPending,
			wantErrorKind: apperror.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc, m := newRefundService(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(m)
			}

			got, err := svc.ProcessRefund(context.Background(), tt.actor, service.ProcessRefundRequest{
				RefundID: refundID.String(),
				Status:   tt.status,
				Reason:   "checked",
			})
			if tt.wantErrorKind != nil {
				require.ErrorIs(t, err, tt.wantErrorKind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.status, got.RefundStatus)
			require.NotNil(t, got.Processing)
			assert.Equal(t, tt.status, got.Processing.Status)
			assert.Equal(t, "checked", got.Processing.Reason)
			if tt.wantDue != "" {
				require.NotNil(t, got.Invoice)
				assert.Equal(t, tt.wantDue, got.Invoice.DueAmountBDT)
				assert.Equal(t, tt.wantCredit, got.Invoice.CreditAppliedBDT)
				require.NotNil(t, got.RefundDate)
				assert.Equal(t, time.Now().Format("2006-01-02"), *got.RefundDate)
			}
		})
	}
}

func TestRefundService_ListRefundsScopesCustomers(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newRefundService(ctrl)
	customer := service.Actor{ID: uuid.New(), Role: model.RoleCustomer}

	m.refunds.EXPECT().List(gomock.Any(), gomock.Cond(func(x any) bool {
		f := x.(repository.RefundListFilter)
		return f.CustomerID != nil && *f.CustomerID == customer.ID && f.Page == 1 && f.Limit == 20
	})).Return([]model.Refund{}, int64(0), nil)

	got, total, err := svc.ListRefunds(context.Background(), customer, service.RefundFilter{})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, total)
}
