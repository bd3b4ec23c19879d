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

type RefundHandler struct {
	refundService service.RefundService
	tokens        security.TokenIssuer
	errorWriter
}

func NewRefundHandler(refundService service.RefundService, tokens security.TokenIssuer, logger *zap.Logger) *RefundHandler {
	return &RefundHandler{
		refundService: refundService,
		tokens:        tokens,
		errorWriter:   errorWriter{logger: logger},
	}
}

func (h *RefundHandler) RegisterRoutes(router *gin.RouterGroup) {
	refunds := router.Group("/api/refunds")
	refunds.Use(middleware.RequireRole(h.tokens))
	{
		refunds.POST("/request", h.RequestRefund)
		refunds.POST("/process", middleware.RequireRole(h.tokens, model.RoleSuperAdmin), h.ProcessRefund)
		refunds.GET("", h.ListRefunds)
		refunds.GET("/:id", h.GetRefund)
	}
}

// RequestRefund files a refund request against an invoice
// @Summary      Request refund
// @Tags         refunds
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.RequestRefundRequest  true  "Refund payload"
// @Success      201      {object}  response.Response{data=service.RefundResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/refunds/request [post]
func (h *RefundHandler) RequestRefund(c *gin.Context) {
	var req service.RequestRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	refund, err := h.refundService.RequestRefund(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		h.write(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, "Refund requested", refund))
}

// ProcessRefund approves, rejects or completes a refund
// @Summary      Process refund
// @Description  Completing a refund adjusts the invoice balance and the daily sales report.
// @Tags         refunds
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ProcessRefundRequest  true  "Refund decision"
// @Success      200      {object}  response.Response{data=service.RefundResponse}
// @Failure      403      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/refunds/process [post]
func (h *RefundHandler) ProcessRefund(c *gin.Context) {
	var req service.ProcessRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	refund, err := h.refundService.ProcessRefund(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		h.write(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Refund processed", refund))
}

// GetRefund returns one refund with its processing record
// @Summary      Get refund
// @Tags         refunds
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Refund ID"
// @Success      200  {object}  response.Response{data=service.RefundResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/refunds/{id} [get]
func (h *RefundHandler) GetRefund(c *gin.Context) {
	refund, err := h.refundService.GetRefund(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		h.write(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Refund retrieved", refund))
}

// ListRefunds returns a page of refunds; customers only see their own
// @Summary      List refunds
// @Tags         refunds
// @Security     BearerAuth
// @Produce      json
// @Param        status      query     string  false  "Refund status"
// @Param        invoice_id  query     string  false  "Invoice ID"
// @Param        page        query     int     false  "Page number (default 1)"
// @Param        limit       query     int     false  "Items per page (default 20)"
// @Success      200         {object}  response.Response{data=response.Page}
// @Router       /api/refunds [get]
func (h *RefundHandler) ListRefunds(c *gin.Context) {
	p := pagination.Parse(c)
	filter := service.RefundFilter{
		Status:    c.Query("status"),
		InvoiceID: c.Query("invoice_id"),
		Page:      p.Page,
		Limit:     p.Limit,
	}

	refunds, total, err := h.refundService.ListRefunds(c.Request.Context(), actorFrom(c), filter)
	if err != nil {
		h.write(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Refunds retrieved", pageOf(refunds, total, p)))
}
