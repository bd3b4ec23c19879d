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

type InvoiceHandler struct {
	invoiceService service.InvoiceService
	tokens         security.TokenIssuer
	errorWriter
}

func NewInvoiceHandler(invoiceService service.InvoiceService, tokens security.TokenIssuer, logger *zap.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		tokens:         tokens,
		errorWriter:    errorWriter{logger: logger},
	}
}

func (h *InvoiceHandler) RegisterRoutes(router *gin.RouterGroup) {
	invoices := router.Group("/api/invoices")
	adminOnly := middleware.RequireRole(h.tokens, model.RoleAdmin, model.RoleSuperAdmin)
	{
		invoices.POST("/issue", adminOnly, h.IssueInvoice)
		invoices.POST("/update", adminOnly, h.UpdateInvoice)
		invoices.POST("/approve", adminOnly, h.ApproveInvoice)
		invoices.GET("", adminOnly, h.ListInvoices)
		invoices.GET("/:id", middleware.RequireRole(h.tokens), h.GetInvoice)
	}
}

// IssueInvoice creates an invoice for a finalized order
// @Summary      Issue invoice
// @Tags         invoices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.IssueInvoiceRequest  true  "Invoice payload"
// @Success      201      {object}  response.Response{data=service.InvoiceResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/invoices/issue [post]
func (h *InvoiceHandler) IssueInvoice(c *gin.Context) {
	var req service.IssueInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	invoice, err := h.invoiceService.IssueInvoice(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		h.write(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, "Invoice issued", invoice))
}

// UpdateInvoice changes editable invoice fields and recomputes totals
// @Summary      Update invoice fields
// @Description  Accepts weight_category, total_weight_grams, extra_charges_bdt, invoice_type and notes. Derived amounts are rejected.
// @Tags         invoices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.UpdateInvoiceRequest  true  "Fields to change"
// @Success      200      {object}  response.Response{data=service.InvoiceResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/invoices/update [post]
func (h *InvoiceHandler) UpdateInvoice(c *gin.Context) {
	var req service.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	invoice, err := h.invoiceService.UpdateInvoiceFields(c.Request.Context(), actorFrom(c), req.InvoiceID, req.Fields)
	if err != nil {
		h.write(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Invoice updated", invoice))
}

// ApproveInvoice marks an invoice as approved
// @Summary      Approve invoice
// @Tags         invoices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ApproveInvoiceRequest  true  "Invoice ID"
// @Success      200      {object}  response.Response{data=service.InvoiceResponse}
// @Failure      404      {object}  response.Response
// @Router       /api/invoices/approve [post]
func (h *InvoiceHandler) ApproveInvoice(c *gin.Context) {
	var req service.ApproveInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	invoice, err := h.invoiceService.ApproveInvoice(c.Request.Context(), actorFrom(c), req.InvoiceID)
	if err != nil {
		h.write(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Invoice approved", invoice))
}

// GetInvoice returns one invoice; customers may only read invoices of their orders
// @Summary      Get invoice
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=service.InvoiceResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		h.write(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Invoice retrieved", invoice))
}

// ListInvoices returns a page of invoices
// @Summary      List invoices
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        status    query     string  false  "Invoice status"
// @Param        order_id  query     string  false  "Order ID"
// @Param        page      query     int     false  "Page number (default 1)"
// @Param        limit     query     int     false  "Items per page (default 20)"
// @Success      200       {object}  response.Response{data=response.Page}
// @Router       /api/invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	p := pagination.Parse(c)
	filter := service.InvoiceFilter{
		Status:  c.Query("status"),
		OrderID: c.Query("order_id"),
		Page:    p.Page,
		Limit:   p.Limit,
	}

	invoices, total, err := h.invoiceService.ListInvoices(c.Request.Context(), filter)
	if err != nil {
		h.write(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Invoices retrieved", pageOf(invoices, total, p)))
}
