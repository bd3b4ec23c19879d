package service_test

import (
	"context"
	"testing"

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
	"gorm.io/gorm"
)

type orderMocks struct {
	orders    *mocks.MockOrderRepository
	customers *mocks.MockCustomerRepository
	sequences *mocks.MockSequenceRepository
	payments  *mocks.MockPaymentRepository
	taxRates  *mocks.MockTaxRateRepository
	sales     *svcmocks.MockSalesService
	audit     *mocks.MockAuditRepository
	outbox    *mocks.MockOutboxRepository
}

func newOrderService(ctrl *gomock.Controller) (service.OrderService, orderMocks) {
	m := orderMocks{
		orders:    mocks.NewMockOrderRepository(ctrl),
		customers: mocks.NewMockCustomerRepository(ctrl),
		sequences: mocks.NewMockSequenceRepository(ctrl),
		payments:  mocks.NewMockPaymentRepository(ctrl),
		taxRates:  mocks.NewMockTaxRateRepository(ctrl),
		sales:     svcmocks.NewMockSalesService(ctrl),
		audit:     mocks.NewMockAuditRepository(ctrl),
		outbox:    mocks.NewMockOutboxRepository(ctrl),
	}
	svc := service.NewOrderService(m.orders, m.customers, m.sequences, m.payments,
		service.NewRateService(m.taxRates), m.sales, m.audit, m.outbox, fakeTxManager{})
	return svc, m
}

func TestOrderService_CreateOrder(t *testing.T) {
	customerID := uuid.New()
	customer := service.Actor{ID: customerID, Role: model.RoleCustomer}
	admin := service.Actor{ID: uuid.New(), Role: model.RoleAdmin}

	twoShirts := service.CreateOrderRequest{
		Items: []service.OrderItemRequest{
			{ProductLink: "https://example.com/shirt", Quantity: 2, ProductPriceUSD: "19.99"},
		},
	}

	type testCase struct {
		name          string
		actor         service.Actor
		req           service.CreateOrderRequest
		setupMock     func(m orderMocks)
		wantTotalBDT  string
		wantTaxBDT    string
		wantErrorKind error
	}

	tests := []testCase{
		{
			name:  "customer order is priced and numbered",
			actor: customer,
			req:   twoShirts,
			setupMock: func(m orderMocks) {
				m.customers.EXPECT().FindByID(gomock.Any(), customerID).Return(&model.Customer{ID: customerID}, nil)
				m.taxRates.EXPECT().GetCurrent(gomock.Any()).
					Return(&model.TaxRate{USDToBDTRate: dec("110"), TaxRate: dec("5")}, nil)
				m.sequences.EXPECT().Next(gomock.Any(), gomock.Any()).Return(int64(1), nil)
				m.orders.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, o *model.Order) error {
						o.ID = uuid.New()
						return nil
					})
				m.audit.EXPECT().Log(gomock.Any(), gomock.Any()).Return(nil)
				m.outbox.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantTotalBDT: "4618.0000",
			wantTaxBDT:   "220.0000",
		},
		{
			name:          "admin must name the customer",
			actor:         admin,
			req:           twoShirts,
			wantErrorKind: apperror.ErrValidation,
		},
		{
			name:  "unknown customer",
			actor: customer,
			req:   twoShirts,
			setupMock: func(m orderMocks) {
				m.customers.EXPECT().FindByID(gomock.Any(), customerID).Return(nil, gorm.ErrRecordNotFound)
			},
			wantErrorKind: apperror.ErrNotFound,
		},
		{
			name:  "missing tax rate is a configuration fault",
			actor: customer,
			req:   twoShirts,
			setupMock: func(m orderMocks) {
				m.customers.EXPECT().FindByID(gomock.Any(), customerID).Return(&model.Customer{ID: customerID}, nil)
				m.taxRates.EXPECT().GetCurrent(gomock.Any()).Return(nil, gorm.ErrRecordNotFound)
			},
			wantErrorKind: apperror.ErrConfiguration,
		},
		{
			name:  "bad price string",
			actor: customer,
			req: service.CreateOrderRequest{Items: []service.OrderItemRequest{
				{ProductLink: "x", Quantity: 1, ProductPriceUSD: "cheap"},
			}},
			wantErrorKind: apperror.ErrValidation,
		},
		{
			name:  "zero quantity",
			actor: customer,
			req: service.CreateOrderRequest{Items: []service.OrderItemRequest{
				{ProductLink: "x", Quantity: 0, ProductPriceUSD: "3"},
			}},
			setupMock: func(m orderMocks) {
				m.customers.EXPECT().FindByID(gomock.Any(), customerID).Return(&model.Customer{ID: customerID}, nil)
				m.taxRates.EXPECT().GetCurrent(gomock.Any()).
					Return(&model.TaxRate{USDToBDTRate: dec("110"), TaxRate: dec("5")}, nil)
			},
			wantErrorKind: apperror.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc, m := newOrderService(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(m)
			}

			got, err := svc.CreateOrder(context.Background(), tt.actor, tt.req)
			if tt.wantErrorKind != nil {
				require.ErrorIs(t, err, tt.wantErrorKind)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantTotalBDT, got.TotalBDT)
			assert.Equal(t, tt.wantTaxBDT, got.TaxBDT)
			assert.Regexp(t, `^ORD-\d{8}-0001$`, got.OrderNumber)
			assert.Equal(t, model.OrderStatusPending, got.Status)
			require.Len(t, got.Items, 1)
			assert.Equal(t, "2199.0000", got.Items[0].ProductPriceBDT)
		})
	}
}

func TestOrderService_FinalizeOrder(t *testing.T) {
	customerID := uuid.New()
	orderID := uuid.New()
	customer := service.Actor{ID: customerID, Role: model.RoleCustomer}

	pendingOrder := func() *model.Order {
		return &model.Order{
			ID:          orderID,
			OrderNumber: "ORD-20250301-0001",
			CustomerID:  customerID,
			TotalBDT:    dec("4618"),
			Status:      model.OrderStatusPending,
		}
	}

	type testCase struct {
		name          string
		actor         service.Actor
		req           service.FinalizeOrderRequest
		setupMock     func(m orderMocks)
		wantNewTotal  string
		wantSurcharge string
		wantErrorKind error
	}

	tests := []testCase{
		{
			name:  "bKash inside Dhaka adds fee and wallet surcharge",
			actor: customer,
			req:   service.FinalizeOrderRequest{OrderID: orderID.String(), DeliveryMethod: "Dhaka Delivery", PaymentMethod: "bKash"},
			setupMock: func(m orderMocks) {
				m.orders.EXPECT().FindByIDForUpdate(gomock.Any(), orderID).Return(pendingOrder(), nil)
				m.orders.EXPECT().Update(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, o *model.Order) error {
						assert.Equal(t, model.OrderStatusFinalized, o.Status)
						assert.True(t, dec("4771").Equal(o.TotalBDT))
						assert.True(t, dec("93").Equal(o.BKashCharge))
						return nil
					})
				m.payments.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p *model.Payment) error {
						assert.Equal(t, model.PaymentStatusPending, p.Status)
						assert.True(t, dec("4771").Equal(p.AmountBDT))
						p.ID = uuid.New()
						return nil
					})
				m.sales.EXPECT().ApplyDelta(gomock.Any(), gomock.Any(), gomock.Cond(func(x any) bool {
					d := x.(model.SalesDelta)
					return d.Orders == 1 && d.Sales.Equal(dec("4771")) && d.Method == "bKash" && d.Refunds.IsZero()
				})).Return(nil)
				m.audit.EXPECT().Log(gomock.Any(), gomock.Any()).Return(nil)
				m.outbox.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(nil)
				reloaded := pendingOrder()
				reloaded.Status = model.OrderStatusFinalized
				reloaded.TotalBDT = dec("4771")
				reloaded.ProductCount = 1
				reloaded.Items = []model.OrderItem{{ID: uuid.New(), OrderID: orderID, ProductLink: "https://shop.example/item/1", Quantity: 2}}
				m.orders.EXPECT().FindByIDWithItems(gomock.Any(), orderID).Return(reloaded, nil)
			},
			wantNewTotal:  "4771.0000",
			wantSurcharge: "93.0000",
		},
		{
			name:  "second finalize is a conflict",
			actor: customer,
			req:   service.FinalizeOrderRequest{OrderID: orderID.String(), DeliveryMethod: "Dhaka Delivery", PaymentMethod: "Cash"},
			setupMock: func(m orderMocks) {
				o := pendingOrder()
				o.Status = model.OrderStatusFinalized
				m.orders.EXPECT().FindByIDForUpdate(gomock.Any(), orderID).Return(o, nil)
			},
			wantErrorKind: apperror.ErrConflict,
		},
		{
			name:  "another customer's order",
			actor: service.Actor{ID: uuid.New(), Role: model.RoleCustomer},
			req:   service.FinalizeOrderRequest{OrderID: orderID.String(), DeliveryMethod: "Dhaka Delivery", PaymentMethod: "Cash"},
			setupMock: func(m orderMocks) {
				m.orders.EXPECT().FindByIDForUpdate(gomock.Any(), orderID).Return(pendingOrder(), nil)
			},
			wantErrorKind: apperror.ErrPermission,
		},
		{
			name:  "unknown delivery method",
			actor: customer,
			req:   service.FinalizeOrderRequest{OrderID: orderID.String(), DeliveryMethod: "Pickup", PaymentMethod: "Cash"},
			setupMock: func(m orderMocks) {
				m.orders.EXPECT().FindByIDForUpdate(gomock.Any(), orderID).Return(pendingOrder(), nil)
			},
			wantErrorKind: apperror.ErrValidation,
		},
		{
			name:          "malformed order id",
			actor:         customer,
			req:           service.FinalizeOrderRequest{OrderID: "42", DeliveryMethod: "Dhaka Delivery", PaymentMethod: "Cash"},
			wantErrorKind: apperror.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc, m := newOrderService(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(m)
			}

			got, err := svc.FinalizeOrder(context.Background(), tt.actor, tt.req)
			if tt.wantErrorKind != nil {
				require.ErrorIs(t, err, tt.wantErrorKind)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "4618.0000", got.PreviousTotal)
			assert.Equal(t, "60.0000", got.DeliveryFee)
			assert.Equal(t, tt.wantSurcharge, got.Surcharge)
			assert.Equal(t, tt.wantNewTotal, got.NewTotal)
			assert.NotEmpty(t, got.PaymentID)
			assert.Equal(t, model.OrderStatusFinalized, got.Order.Status)
			assert.Len(t, got.Order.Items, got.Order.ProductCount)
		})
	}
}

func TestOrderService_ListOrdersScopesCustomers(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newOrderService(ctrl)

	customerID := uuid.New()
	m.orders.EXPECT().List(gomock.Any(), gomock.Cond(func(x any) bool {
		f := x.(repository.OrderListFilter)
		return f.CustomerID != nil && *f.CustomerID == customerID && f.Page == 1 && f.Limit == 20
	})).Return([]model.Order{{ID: uuid.New(), CustomerID: customerID}}, int64(1), nil)

	orders, total, err := svc.ListOrders(context.Background(),
		service.Actor{ID: customerID, Role: model.RoleCustomer},
		service.OrderFilter{CustomerID: uuid.NewString()})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, orders, 1)
}
