package handler

import (
	"net/http"

	"shoptobd/internal/middleware"
	"shoptobd/internal/model"
	"shoptobd/internal/security"
	"shoptobd/internal/service"
	"shoptobd/pkg/pagination"
	"shoptobd/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	paymentService service.PaymentService
	tokens         security.TokenIssuer
	errorWriter
}

func NewPaymentHandler(paymentService service.PaymentService, tokens security.TokenIssuer, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		tokens:         tokens,
		errorWriter:    errorWriter{logger: logger},
	}
}

func (h *PaymentHandler) RegisterRoutes(router *gin.RouterGroup) {
	payments := router.Group("/api/payments")
	adminOnly := middleware.RequireRole(h.tokens, model.RoleAdmin, model.RoleSuperAdmin)
	{
		payments.POST("/add", middleware.RequireRole(h.tokens), h.AddPayment)
		payments.POST("/confirm", adminOnly, h.ConfirmPayment)
		payments.GET("", adminOnly, h.ListPayments)
	}
}

// AddPayment records a pending payment against an invoice
// @Summary      Add payment
// @Tags         payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.AddPaymentRequest  true  "Payment payload"
// @Success      201      {object}  response.Response{data=service.PaymentResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/payments/add [post]
func (h *PaymentHandler) AddPayment(c *gin.Context) {
	var req service.AddPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	payment, err := h.paymentService.AddPayment(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		h.write(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, "Payment recorded", payment))
}

// ConfirmPayment confirms or rejects a pending payment and settles its invoice
// @Summary      Confirm payment
// @Tags         payments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ConfirmPaymentRequest  true  "Payment ID and action"
// @Success      200      {object}  response.Response{data=service.PaymentResponse}
// @Failure      409      {object}  response.Response
// @Router       /api/payments/confirm [post]
func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	var req service.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	payment, err := h.paymentService.ConfirmPayment(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		h.write(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Payment "+req.Action, payment))
}

// ListPayments returns a page of payments
// @Summary      List payments
// @Tags         payments
// @Security     BearerAuth
// @Produce      json
// @Param        invoice_id  query     string  false  "Invoice ID"
// @Param        order_id    query     string  false  "Order ID"
// @Param        status      query     string  false  "Payment status"
// @Param        page        query     int     false  "Page number (default 1)"
// @Param        limit       query     int     false  "Items per page (default 20)"
// @Success      200         {object}  response.Response{data=response.Page}
// @Router       /api/payments [get]
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	p := pagination.Parse(c)
	filter := service.PaymentFilter{
		InvoiceID: c.Query("invoice_id"),
		OrderID:   c.Query("order_id"),
		Status:    c.Query("status"),
		Page:      p.Page,
		Limit:     p.Limit,
	}

	payments, total, err := h.paymentService.ListPayments(c.Request.Context(), filter)
	if err != nil {
		h.write(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Payments retrieved", pageOf(payments, total, p)))
}
