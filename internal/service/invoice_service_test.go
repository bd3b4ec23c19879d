package service_test

import (
	"context"
	"testing"

	"shoptobd/internal/model"
	"shoptobd/internal/repository/mocks"
	"shoptobd/internal/service"
	"shoptobd/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type invoiceMocks struct {
	invoices  *mocks.MockInvoiceRepository
	orders    *mocks.MockOrderRepository
	refunds   *mocks.MockRefundRepository
	sequences *mocks.MockSequenceRepository
	audit     *mocks.MockAuditRepository
	outbox    *mocks.MockOutboxRepository
}

func newInvoiceService(ctrl *gomock.Controller) (service.InvoiceService, invoiceMocks) {
	m := invoiceMocks{
		invoices:  mocks.NewMockInvoiceRepository(ctrl),
		orders:    mocks.NewMockOrderRepository(ctrl),
		refunds:   mocks.NewMockRefundRepository(ctrl),
		sequences: mocks.NewMockSequenceRepository(ctrl),
		audit:     mocks.NewMockAuditRepository(ctrl),
		outbox:    mocks.NewMockOutboxRepository(ctrl),
	}
	svc := service.NewInvoiceService(m.invoices, m.orders, m.refunds, m.sequences, m.audit, m.outbox, fakeTxManager{})
	return svc, m
}

func TestInvoiceService_IssueInvoice(t *testing.T) {
	admin := service.Actor{ID: uuid.New(), Role: model.RoleAdmin}
	orderID := uuid.New()

	finalized := func() *model.Order {
		return &model.Order{
			ID:          orderID,
			OrderNumber: "ORD-20250301-0001",
			Status:      model.OrderStatusFinalized,
			TotalBDT:    dec("4771"),
		}
	}

	type testCase struct {
		name          string
		req           service.IssueInvoiceRequest
		setupMock     func(m invoiceMocks)
		assertResult  func(t *testing.T, got service.InvoiceResponse)
		wantErrorKind error
	}

	tests := []testCase{
		{
			name: "draft invoice starts from the finalized order total",
			req:  service.IssueInvoiceRequest{OrderID: orderID.String()},
			setupMock: func(m invoiceMocks) {
				m.orders.EXPECT().FindByIDForUpdate(gomock.Any(), orderID).Return(finalized(), nil)
				m.invoices.EXPECT().ExistsForOrder(gomock.Any(), orderID, model.InvoiceTypeInitial).Return(false, nil)
				m.sequences.EXPECT().Next(gomock.Any(), gomock.Any()).Return(int64(3), nil)
				m.invoices.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
				m.audit.EXPECT().Log(gomock.Any(), gomock.Any()).Return(nil)
			},
			assertResult: func(t *testing.T, got service.InvoiceResponse) {
				assert.Regexp(t, `^INV-\d{8}-0003$`, got.InvoiceNumber)
				assert.Equal(t, model.InvoiceTypeInitial, got.InvoiceType)
				assert.Equal(t, model.InvoiceStatusDraft, got.InvoiceStatus)
				assert.Equal(t, "4771.0000", got.TotalInvoiceBDT)
				assert.Equal(t, "4771.0000", got.DueAmountBDT)
			},
		},
		{
			name: "pending order cannot be invoiced",
			req:  service.IssueInvoiceRequest{OrderID: orderID.String(), InvoiceType: model.InvoiceTypeFinal},
			setupMock: func(m invoiceMocks) {
				m.orders.EXPECT().FindByIDForUpdate(gomock.Any(), orderID).
					Return(&model.Order{ID: orderID, Status: model.OrderStatusPending, TotalBDT: dec("4618")}, nil)
			},
			wantErrorKind: apperror.ErrConflict,
		},
		{
			name: "second invoice of the same type is rejected",
			req:  service.IssueInvoiceRequest{OrderID: orderID.String(), InvoiceType: model.InvoiceTypeFinal},
			setupMock: func(m invoiceMocks) {
				m.orders.EXPECT().FindByIDForUpdate(gomock.Any(), orderID).Return(finalized(), nil)
				m.invoices.EXPECT().ExistsForOrder(gomock.Any(), orderID, model.InvoiceTypeFinal).Return(true, nil)
			},
			wantErrorKind: apperror.ErrConflict,
		},
		{
			name:          "unknown invoice type",
			req:           service.IssueInvoiceRequest{OrderID: orderID.String(), InvoiceType: "Proforma"},
			setupMock:     func(m invoiceMocks) {},
			wantErrorKind: apperror.ErrValidation,
		},
		{
			name: "unknown order",
			req:  service.IssueInvoiceRequest{OrderID: orderID.String()},
			setupMock: func(m invoiceMocks) {
				m.orders.EXPECT().FindByIDForUpdate(gomock.Any(), orderID).Return(nil, gorm.ErrRecordNotFound)
			},
			wantErrorKind: apperror.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc, m := newInvoiceService(ctrl)
			tt.setupMock(m)

			got, err := svc.IssueInvoice(context.Background(), admin, tt.req)
			if tt.wantErrorKind != nil {
				require.ErrorIs(t, err, tt.wantErrorKind)
				return
			}
			require.NoError(t, err)
			tt.assertResult(t, got)
		})
	}
}

func TestInvoiceService_UpdateInvoiceFields(t *testing.T) {
	admin := service.Actor{ID: uuid.New(), Role: model.RoleAdmin}
	invoiceID := uuid.New()

	draft := func() *model.Invoice {
		return &model.Invoice{
			ID:              invoiceID,
			InvoiceNumber:   "INV-20250301-0001",
			InvoiceStatus:   model.InvoiceStatusDraft,
			BaseAmountBDT:   dec("2000"),
			TotalInvoiceBDT: dec("2000"),
			AmountPaidBDT:   dec("500"),
			DueAmountBDT:    dec("1500"),
		}
	}

	type testCase struct {
		name          string
		fields        map[string]interface{}
		setupMock     func(m invoiceMocks)
		assertResult  func(t *testing.T, got service.InvoiceResponse)
		wantErrorKind error
	}

	tests := []testCase{
		{
			name:   "weight category derives the weight charge and due",
			fields: map[string]interface{}{"weight_category": "Standard", "total_weight_grams": "1.5"},
			setupMock: func(m invoiceMocks) {
				m.invoices.EXPECT().FindByIDForUpdate(gomock.Any(), invoiceID).Return(draft(), nil)
				m.invoices.EXPECT().FindWeightCategory(gomock.Any(), "Standard").
					Return(&model.WeightChargeCategory{CategoryName: "Standard", ChargePerGram: dec("1200")}, nil)
				m.refunds.EXPECT().SumCompletedCashRefunds(gomock.Any(), invoiceID).Return(dec("0"), nil)
				m.invoices.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
				m.audit.EXPECT().Log(gomock.Any(), gomock.Any()).Return(nil)
			},
			assertResult: func(t *testing.T, got service.InvoiceResponse) {
				assert.Equal(t, "1800.0000", got.WeightChargeBDT)
				assert.Equal(t, "3800.0000", got.TotalInvoiceBDT)
				assert.Equal(t, "3300.0000", got.DueAmountBDT)
			},
		},
		{
			name:   "extra charges do not touch the weight charge",
			fields: map[string]interface{}{"extra_charges_bdt": float64(150)},
			setupMock: func(m invoiceMocks) {
				m.invoices.EXPECT().FindByIDForUpdate(gomock.Any(), invoiceID).Return(draft(), nil)
				m.refunds.EXPECT().SumCompletedCashRefunds(gomock.Any(), invoiceID).Return(dec("0"), nil)
				m.invoices.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
				m.audit.EXPECT().Log(gomock.Any(), gomock.Any()).Return(nil)
			},
			assertResult: func(t *testing.T, got service.InvoiceResponse) {
				assert.Equal(t, "2150.0000", got.TotalInvoiceBDT)
				assert.Equal(t, "1650.0000", got.DueAmountBDT)
			},
		},
		{
			name:          "derived field is rejected",
			fields:        map[string]interface{}{"due_amount_bdt": "0"},
			wantErrorKind: apperror.ErrValidation,
		},
		{
			name:          "field outside the allow-list is rejected",
			fields:        map[string]interface{}{"customer_id": "x"},
			wantErrorKind: apperror.ErrValidation,
		},
		{
			name:          "empty patch",
			fields:        map[string]interface{}{},
			wantErrorKind: apperror.ErrValidation,
		},
		{
			name:   "approved invoice is locked",
			fields: map[string]interface{}{"notes": "late"},
			setupMock: func(m invoiceMocks) {
				inv := draft()
				inv.InvoiceStatus = model.InvoiceStatusApproved
				inv.IsFinalized = true
				m.invoices.EXPECT().FindByIDForUpdate(gomock.Any(), invoiceID).Return(inv, nil)
			},
			wantErrorKind: apperror.ErrConflict,
		},
		{
			name:   "unknown weight category",
			fields: map[string]interface{}{"weight_category": "Oversize"},
			setupMock: func(m invoiceMocks) {
				m.invoices.EXPECT().FindByIDForUpdate(gomock.Any(), invoiceID).Return(draft(), nil)
				m.invoices.EXPECT().FindWeightCategory(gomock.Any(), "Oversize").Return(nil, gorm.ErrRecordNotFound)
			},
			wantErrorKind: apperror.ErrNotFound,
		},
		{
			name:   "negative weight",
			fields: map[string]interface{}{"total_weight_grams": "-1"},
			setupMock: func(m invoiceMocks) {
				m.invoices.EXPECT().FindByIDForUpdate(gomock.Any(), invoiceID).Return(draft(), nil)
			},
			wantErrorKind: apperror.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc, m := newInvoiceService(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(m)
			}

			got, err := svc.UpdateInvoiceFields(context.Background(), admin, invoiceID.String(), tt.fields)
			if tt.wantErrorKind != nil {
				require.ErrorIs(t, err, tt.wantErrorKind)
				return
			}
			require.NoError(t, err)
			tt.assertResult(t, got)
		})
	}
}

func TestInvoiceService_ApproveInvoiceTwice(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newInvoiceService(ctrl)
	admin := service.Actor{ID: uuid.New(), Role: model.RoleAdmin}
	invoiceID := uuid.New()

	stored := &model.Invoice{ID: invoiceID, InvoiceStatus: model.InvoiceStatusDraft, TotalInvoiceBDT: dec("2000")}
	m.invoices.EXPECT().FindByIDForUpdate(gomock.Any(), invoiceID).Return(stored, nil).Times(2)
	m.invoices.EXPECT().Update(gomock.Any(), stored).Return(nil).Times(2)
	m.audit.EXPECT().Log(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	m.outbox.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	for i := 0; i < 2; i++ {
		got, err := svc.ApproveInvoice(context.Background(), admin, invoiceID.String())
		require.NoError(t, err)
		assert.Equal(t, model.InvoiceStatusApproved, got.InvoiceStatus)
		assert.True(t, got.IsFinalized)
		require.NotNil(t, got.ApprovedBy)
		assert.Equal(t, admin.ID.String(), *got.ApprovedBy)
	}
}

func TestInvoiceService_GetInvoiceHidesOtherCustomers(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newInvoiceService(ctrl)
	invoiceID, orderID := uuid.New(), uuid.New()

	m.invoices.EXPECT().FindByID(gomock.Any(), invoiceID).Return(&model.Invoice{ID: invoiceID, OrderID: orderID}, nil)
	m.orders.EXPECT().FindByIDWithItems(gomock.Any(), orderID).Return(&model.Order{ID: orderID, CustomerID: uuid.New()}, nil)

	_, err := svc.GetInvoice(context.Background(), service.Actor{ID: uuid.New(), Role: model.RoleCustomer}, invoiceID.String())
	require.ErrorIs(t, err, apperror.ErrNotFound)
}
