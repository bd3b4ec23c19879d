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

type OrderHandler struct {
	orderService service.OrderService
	tokens       security.TokenIssuer
	errorWriter
}

func NewOrderHandler(orderService service.OrderService, tokens security.TokenIssuer, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		tokens:       tokens,
		errorWriter:  errorWriter{logger: logger},
	}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/api/orders")
	orders.Use(middleware.RequireRole(h.tokens, model.RoleCustomer, model.RoleAdmin, model.RoleSuperAdmin))
	{
		orders.POST("/create", h.CreateOrder)
		orders.POST("/finalize", h.FinalizeOrder)
		orders.GET("", h.ListOrders)
		orders.GET("/:id", h.GetOrder)
	}
}

// CreateOrder prices the requested items and stores a pending order
// @Summary      Create order
// @Description  Prices every item at the current exchange and tax rate. Local amounts are rounded up.
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateOrderRequest  true  "Order items"
// @Success      201      {object}  response.Response{data=service.OrderResponse}
// @Failure      400      {object}  response.Response
// @Failure      503      {object}  response.Response
// @Router       /api/orders/create [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		h.write(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, "Order created", order))
}

// FinalizeOrder fixes delivery and payment charges and records the checkout payment
// @Summary      Finalize order
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.FinalizeOrderRequest  true  "Delivery and payment method"
// @Success      200      {object}  response.Response{data=service.FinalizeOrderResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/orders/finalize [post]
func (h *OrderHandler) FinalizeOrder(c *gin.Context) {
	var req service.FinalizeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.orderService.FinalizeOrder(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		h.write(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Order finalized", result))
}

// GetOrder returns one order with its items
// @Summary      Get order
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  response.Response{data=service.OrderResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		h.write(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Order retrieved", order))
}

// ListOrders returns a page of orders; customers only see their own
// @Summary      List orders
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        status       query     string  false  "Order status"
// @Param        customer_id  query     string  false  "Customer ID (admins only)"
// @Param        page         query     int     false  "Page number (default 1)"
// @Param        limit        query     int     false  "Items per page (default 20)"
// @Success      200          {object}  response.Response{data=response.Page}
// @Router       /api/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	p := pagination.Parse(c)
	filter := service.OrderFilter{
		Status:     c.Query("status"),
		CustomerID: c.Query("customer_id"),
		Page:       p.Page,
		Limit:      p.Limit,
	}

	orders, total, err := h.orderService.ListOrders(c.Request.Context(), actorFrom(c), filter)
	if err != nil {
		h.write(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Orders retrieved", pageOf(orders, total, p)))
}
