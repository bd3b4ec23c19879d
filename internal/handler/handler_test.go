package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shoptobd/internal/handler"
	"shoptobd/internal/model"
	"shoptobd/internal/pricing"
	"shoptobd/internal/security"
	"shoptobd/internal/service"
	svcmocks "shoptobd/internal/service/mocks"
	"shoptobd/pkg/apperror"
	"shoptobd/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

var testTokens = security.NewJWTIssuer("handler-secret", "shoptobd", time.Hour)

func init() {
	gin.SetMode(gin.TestMode)
}

type routeRegistrar interface {
	RegisterRoutes(router *gin.RouterGroup)
}

func newRouter(h routeRegistrar) *gin.Engine {
	r := gin.New()
	h.RegisterRoutes(&r.RouterGroup)
	return r
}

func doRequest(t *testing.T, r http.Handler, method, path, role string, subject uuid.UUID, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		tok, _, err := testTokens.Issue(subject.String(), role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var res response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func TestOrderHandler_CreateOrder(t *testing.T) {
	customerID := uuid.New()
	body := service.CreateOrderRequest{Items: []service.OrderItemRequest{{ProductLink: "https://shop.example/lamp", ProductName: "Lamp", ProductPriceUSD: "19.99", Quantity: 2}}}

	type testCase struct {
		name       string
		role       string
		body       interface{}
		setupMock  func(m *svcmocks.MockOrderService)
		wantStatus int
		wantMsg    string
	}

	tests := []testCase{
		{
			name: "created",
			role: model.RoleCustomer,
			body: body,
			setupMock: func(m *svcmocks.MockOrderService) {
				m.EXPECT().CreateOrder(gomock.Any(), service.Actor{ID: customerID, Role: model.RoleCustomer}, gomock.Any()).
					Return(service.OrderResponse{OrderNumber: "ORD-20250301-0001"}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "unauthenticated",
			body:       body,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "missing rate surfaces as 503",
			role: model.RoleCustomer,
			body: body,
			setupMock: func(m *svcmocks.MockOrderService) {
				m.EXPECT().CreateOrder(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(service.OrderResponse{}, apperror.NewConfigurationError("no tax rate configured", nil))
			},
			wantStatus: http.StatusServiceUnavailable,
			wantMsg:    "Service temporarily unavailable",
		},
		{
			name: "storage faults are not leaked",
			role: model.RoleCustomer,
			body: body,
			setupMock: func(m *svcmocks.MockOrderService) {
				m.EXPECT().CreateOrder(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(service.OrderResponse{}, apperror.NewStorageError("failed to create order", errors.New("pq: relation orders does not exist")))
			},
			wantStatus: http.StatusInternalServerError,
			wantMsg:    apperror.GenericMessage,
		},
		{
			name:       "malformed body",
			role:       model.RoleCustomer,
			body:       "not an object",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := svcmocks.NewMockOrderService(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(svc)
			}
			r := newRouter(handler.NewOrderHandler(svc, testTokens, zap.NewNop()))

			w := doRequest(t, r, http.MethodPost, "/api/orders/create", tt.role, customerID, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, decode(t, w).Message)
			}
		})
	}
}

func TestRefundHandler_ProcessRequiresSuperAdmin(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := svcmocks.NewMockRefundService(ctrl)
	r := newRouter(handler.NewRefundHandler(svc, testTokens, zap.NewNop()))
	body := service.ProcessRefundRequest{RefundID: uuid.NewString(), Status: model.RefundStatusApproved}

	w := doRequest(t, r, http.MethodPost, "/api/refunds/process", model.RoleAdmin, uuid.New(), body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	svc.EXPECT().ProcessRefund(gomock.Any(), gomock.Any(), body).
		Return(service.RefundResponse{RefundStatus: model.RefundStatusApproved}, nil)
	w = doRequest(t, r, http.MethodPost, "/api/refunds/process", model.RoleSuperAdmin, uuid.New(), body)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRefundHandler_ListPassesPagination(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := svcmocks.NewMockRefundService(ctrl)
	r := newRouter(handler.NewRefundHandler(svc, testTokens, zap.NewNop()))

	svc.EXPECT().ListRefunds(gomock.Any(), gomock.Any(), service.RefundFilter{Status: "Pending", Page: 2, Limit: 5}).
		Return([]service.RefundResponse{}, int64(7), nil)

	w := doRequest(t, r, http.MethodGet, "/api/refunds?status=Pending&page=2&limit=5", model.RoleCustomer, uuid.New(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Data response.Page `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, int64(7), res.Data.Total)
	assert.Equal(t, 2, res.Data.Page)
}

func TestInvoiceHandler_UpdateConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := svcmocks.NewMockInvoiceService(ctrl)
	r := newRouter(handler.NewInvoiceHandler(svc, testTokens, zap.NewNop()))
	invoiceID := uuid.NewString()

	svc.EXPECT().UpdateInvoiceFields(gomock.Any(), gomock.Any(), invoiceID, map[string]interface{}{"notes": "x"}).
		Return(service.InvoiceResponse{}, apperror.NewConflictError("invoice is approved and finalized"))

	w := doRequest(t, r, http.MethodPost, "/api/invoices/update", model.RoleAdmin, uuid.New(),
		map[string]interface{}{"invoice_id": invoiceID, "fields": map[string]interface{}{"notes": "x"}})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSalesHandler_Export(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := svcmocks.NewMockSalesService(ctrl)
	r := newRouter(handler.NewSalesHandler(svc, testTokens, zap.NewNop()))

	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Date"))
	svc.EXPECT().ExportReports(gomock.Any(), "2025-03-01", "2025-03-31").Return(f, "sales_20250301_20250331.xlsx", nil)

	w := doRequest(t, r, http.MethodGet, "/api/sales-reports/export?from=2025-03-01&to=2025-03-31", model.RoleAdmin, uuid.New(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "sales_20250301_20250331.xlsx")

	got, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer got.Close()
	v, err := got.GetCellValue("Sheet1", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Date", v)
}

func TestSalesHandler_CustomersAreForbidden(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := svcmocks.NewMockSalesService(ctrl)
	r := newRouter(handler.NewSalesHandler(svc, testTokens, zap.NewNop()))

	w := doRequest(t, r, http.MethodGet, "/api/sales-reports/daily", model.RoleCustomer, uuid.New(), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRateHandler_GetRates(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := svcmocks.NewMockRateService(ctrl)
	r := newRouter(handler.NewRateHandler(svc, testTokens, zap.NewNop()))

	svc.EXPECT().GetRates(gomock.Any()).Return(pricing.Rates{
		ExchangeRate:   decimal.NewFromInt(110),
		TaxRatePercent: decimal.NewFromInt(5),
	}, nil)

	w := doRequest(t, r, http.MethodGet, "/api/rates", model.RoleCustomer, uuid.New(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Data handler.RatesResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "110.0000", res.Data.USDToBDTRate)
	assert.Equal(t, "5.00", res.Data.TaxRatePercent)
}
