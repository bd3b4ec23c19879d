package service

import (
	"context"
	"fmt"
	"time"

	"shoptobd/internal/model"
	"shoptobd/internal/pricing"
	"shoptobd/internal/repository"
	"shoptobd/pkg/apperror"
	"shoptobd/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=order_service.go -destination=mocks/order_service_mock.go -package=mocks

// --- DTOs ---

type OrderItemRequest struct {
	ProductLink     string `json:"product_link" binding:"required"`
	ProductName     string `json:"product_name"`
	Quantity        int    `json:"quantity" binding:"required"`
	Size            string `json:"size"`
	Color           string `json:"color"`
	ProductPriceUSD string `json:"product_price_usd" binding:"required"` // Decimal string, e.g. "19.99"
	ShippingCostUSD string `json:"shipping_cost_usd"`                    // Optional, defaults to 0
}

type CreateOrderRequest struct {
	CustomerID string             `json:"customer_id"` // Required when an admin orders on behalf of a customer
	Items      []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

type FinalizeOrderRequest struct {
	OrderID        string `json:"order_id" binding:"required"`
	DeliveryMethod string `json:"delivery_method" binding:"required"`
	PaymentMethod  string `json:"payment_method" binding:"required"`
}

type OrderFilter struct {
	Status     string
	CustomerID string
	Page       int
	Limit      int
}

type OrderItemResponse struct {
	ID              string `json:"id"`
	ProductLink     string `json:"product_link"`
	ProductName     string `json:"product_name"`
	Quantity        int    `json:"quantity"`
	Size            string `json:"size"`
	Color           string `json:"color"`
	ProductPriceUSD string `json:"product_price_usd"`
	ShippingCostUSD string `json:"shipping_cost_usd"`
	TaxUSD          string `json:"tax_usd"`
	TotalPriceUSD   string `json:"total_price_usd"`
	ProductPriceBDT string `json:"product_price_bdt"`
	TotalPriceBDT   string `json:"total_price_bdt"`
	WeightCostBDT   string `json:"weight_cost_bdt"`
}

type OrderResponse struct {
	ID             string              `json:"id"`
	OrderNumber    string              `json:"order_number"`
	CustomerID     string              `json:"customer_id"`
	ProductCount   int                 `json:"product_count"`
	SubtotalUSD    string              `json:"subtotal_usd"`
	TaxUSD         string              `json:"tax_usd"`
	TotalUSD       string              `json:"total_usd"`
	TaxBDT         string              `json:"tax_bdt"`
	TotalBDT       string              `json:"total_bdt"`
	DeliveryMethod string              `json:"delivery_method"`
	PaymentMethod  string              `json:"payment_method"`
	DeliveryCost   string              `json:"delivery_cost_bdt"`
	CODCharge      string              `json:"cod_charge_bdt"`
	BKashCharge    string              `json:"bkash_charge_bdt"`
	Status         string              `json:"status"`
	PaymentStatus  string              `json:"payment_status"`
	FinalizedAt    *string             `json:"finalized_at"`
	Items          []OrderItemResponse `json:"items"`
	CreatedAt      string              `json:"created_at"`
}

type FinalizeOrderResponse struct {
	Order         OrderResponse `json:"order"`
	PaymentID     string        `json:"payment_id"`
	PreviousTotal string        `json:"previous_total_bdt"`
	DeliveryFee   string        `json:"delivery_fee_bdt"`
	Surcharge     string        `json:"surcharge_bdt"`
	NewTotal      string        `json:"new_total_bdt"`
}

// --- Interface ---

type OrderService interface {
	CreateOrder(ctx context.Context, actor Actor, req CreateOrderRequest) (OrderResponse, error)
	FinalizeOrder(ctx context.Context, actor Actor, req FinalizeOrderRequest) (FinalizeOrderResponse, error)
	GetOrder(ctx context.Context, actor Actor, id string) (OrderResponse, error)
	ListOrders(ctx context.Context, actor Actor, filter OrderFilter) ([]OrderResponse, int64, error)
}

type orderService struct {
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	sequenceRepo repository.SequenceRepository
	paymentRepo  repository.PaymentRepository
	rateSvc      RateService
	salesSvc     SalesService
	journal      journal
	txManager    repository.TransactionManager
	now          func() time.Time
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	sequenceRepo repository.SequenceRepository,
	paymentRepo repository.PaymentRepository,
	rateSvc RateService,
	salesSvc SalesService,
	auditRepo repository.AuditRepository,
	outboxRepo repository.OutboxRepository,
	txManager repository.TransactionManager,
) OrderService {
	return &orderService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		sequenceRepo: sequenceRepo,
		paymentRepo:  paymentRepo,
		rateSvc:      rateSvc,
		salesSvc:     salesSvc,
		journal:      journal{auditRepo: auditRepo, outboxRepo: outboxRepo},
		txManager:    txManager,
		now:          time.Now,
	}
}

// --- Implementation ---

func (s *orderService) CreateOrder(ctx context.Context, actor Actor, req CreateOrderRequest) (OrderResponse, error) {
	items, err := toItemInputs(req.Items)
	if err != nil {
		return OrderResponse{}, err
	}
	if len(items) == 0 {
		return OrderResponse{}, apperror.NewValidationError("at least one product is required")
	}

	customerID := actor.ID
	if actor.IsAdmin() {
		customerID, err = parseID(req.CustomerID, "customer_id")
		if err != nil {
			return OrderResponse{}, err
		}
	}

	var order model.Order
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.customerRepo.FindByID(txCtx, customerID); err != nil {
			return lookupErr(err, "customer")
		}

		rates, err := s.rateSvc.GetRates(txCtx)
		if err != nil {
			return err
		}

		quote, err := pricing.PriceOrder(rates, items)
		if err != nil {
			return err
		}

		now := s.now()
		orderNumber, err := nextDocumentNumber(txCtx, s.sequenceRepo, model.SequenceOrder, now)
		if err != nil {
			return err
		}

		order = buildOrder(orderNumber, customerID, quote)
		if err := s.orderRepo.Create(txCtx, &order); err != nil {
			return storageErr("create order", err)
		}

		details := map[string]interface{}{
			"order_number": order.OrderNumber,
			"total_usd":    order.TotalUSD.String(),
			"total_bdt":    order.TotalBDT.String(),
			"rate":         rates.ExchangeRate.String(),
			"tax_percent":  rates.TaxRatePercent.String(),
		}
		if err := s.journal.audit(txCtx, actor, model.ActionCreateOrder, order.ID.String(), order.OrderNumber, details); err != nil {
			return storageErr("record order", err)
		}
		if err := s.journal.publish(txCtx, "order", order.ID.String(), model.EventOrderCreated, details); err != nil {
			return storageErr("record order", err)
		}
		return nil
	})
	if err != nil {
		return OrderResponse{}, err
	}

	return toOrderResponse(order), nil
}

// FinalizeOrder fixes delivery and payment charges onto a pending order.
// The order row stays locked until the transaction ends, so a concurrent
// second call waits and then sees the order already finalized.
func (s *orderService) FinalizeOrder(ctx context.Context, actor Actor, req FinalizeOrderRequest) (FinalizeOrderResponse, error) {
	orderID, err := parseID(req.OrderID, "order_id")
	if err != nil {
		return FinalizeOrderResponse{}, err
	}

	var (
		order   *model.Order
		payment model.Payment
		charges pricing.Finalization
	)
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		order, findErr = s.orderRepo.FindByIDForUpdate(txCtx, orderID)
		if findErr != nil {
			return lookupErr(findErr, "order")
		}
		if !actor.IsAdmin() && order.CustomerID != actor.ID {
			return apperror.NewPermissionError("order belongs to another customer")
		}
		if !order.CanFinalize() {
			return apperror.NewConflictError("order already finalized")
		}

		charges, findErr = pricing.Finalize(order.TotalBDT, req.DeliveryMethod, req.PaymentMethod)
		if findErr != nil {
			return findErr
		}

		now := s.now()
		order.DeliveryMethod = req.DeliveryMethod
		order.PaymentMethod = req.PaymentMethod
		order.DeliveryCost = charges.DeliveryFee
		order.BKashCharge = charges.WalletCharge
		order.CODCharge = charges.CODCharge
		order.TotalBDT = charges.NewTotal
		order.Status = model.OrderStatusFinalized
		order.FinalizedAt = &now
		if err := s.orderRepo.Update(txCtx, order); err != nil {
			return storageErr("finalize order", err)
		}

		payment = model.Payment{
			OrderID:          &order.ID,
			PaymentMethod:    req.PaymentMethod,
			AmountBDT:        charges.NewTotal,
			PaymentChargeBDT: charges.Surcharge(),
			BKashChargeBDT:   charges.WalletCharge,
			Status:           model.PaymentStatusPending,
			PaymentDate:      now,
		}
		if err := s.paymentRepo.Create(txCtx, &payment); err != nil {
			return storageErr("create order payment", err)
		}

		if err := s.salesSvc.ApplyDelta(txCtx, now, model.SalesDelta{
			Sales:        charges.NewTotal,
			Orders:       1,
			Profit:       charges.NewTotal,
			Method:       req.PaymentMethod,
			MethodAmount: charges.NewTotal,
		}); err != nil {
			return storageErr("update sales report", err)
		}

		details := map[string]interface{}{
			"delivery_method": req.DeliveryMethod,
			"payment_method":  req.PaymentMethod,
			"previous_total":  charges.PreviousTotal.String(),
			"delivery_fee":    charges.DeliveryFee.String(),
			"surcharge":       charges.Surcharge().String(),
			"new_total":       charges.NewTotal.String(),
			"payment_id":      payment.ID.String(),
		}
		if err := s.journal.audit(txCtx, actor, model.ActionFinalizeOrder, order.ID.String(), order.OrderNumber, details); err != nil {
			return storageErr("record finalize", err)
		}
		if err := s.journal.publish(txCtx, "order", order.ID.String(), model.EventOrderFinalized, details); err != nil {
			return storageErr("record finalize", err)
		}

		// The locked read skips items; reload so the response carries them.
		order, findErr = s.orderRepo.FindByIDWithItems(txCtx, order.ID)
		if findErr != nil {
			return storageErr("reload order", findErr)
		}
		return nil
	})
	if err != nil {
		return FinalizeOrderResponse{}, err
	}

	return FinalizeOrderResponse{
		Order:         toOrderResponse(*order),
		PaymentID:     payment.ID.String(),
		PreviousTotal: charges.PreviousTotal.StringFixed(4),
		DeliveryFee:   charges.DeliveryFee.StringFixed(4),
		Surcharge:     charges.Surcharge().StringFixed(4),
		NewTotal:      charges.NewTotal.StringFixed(4),
	}, nil
}

func (s *orderService) GetOrder(ctx context.Context, actor Actor, id string) (OrderResponse, error) {
	orderID, err := parseID(id, "order id")
	if err != nil {
		return OrderResponse{}, err
	}

	order, err := s.orderRepo.FindByIDWithItems(ctx, orderID)
	if err != nil {
		return OrderResponse{}, lookupErr(err, "order")
	}
	if !actor.IsAdmin() && order.CustomerID != actor.ID {
		return OrderResponse{}, apperror.NewNotFoundError("order not found")
	}
	return toOrderResponse(*order), nil
}

func (s *orderService) ListOrders(ctx context.Context, actor Actor, filter OrderFilter) ([]OrderResponse, int64, error) {
	page := pagination.New(filter.Page, filter.Limit)
	filter.Page, filter.Limit = page.Page, page.Limit

	repoFilter := repository.OrderListFilter{
		Status: filter.Status,
		Page:   filter.Page,
		Limit:  filter.Limit,
	}
	if actor.IsAdmin() {
		customerID, err := parseOptionalID(filter.CustomerID, "customer_id")
		if err != nil {
			return nil, 0, err
		}
		repoFilter.CustomerID = customerID
	} else {
		self := actor.ID
		repoFilter.CustomerID = &self
	}

	orders, total, err := s.orderRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, 0, apperror.NewStorageError("failed to fetch orders", err)
	}

	result := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		result = append(result, toOrderResponse(o))
	}
	return result, total, nil
}

// --- Helpers ---

// nextDocumentNumber reserves PREFIX-YYYYMMDD-NNNN from the per-day counter.
func nextDocumentNumber(ctx context.Context, seqRepo repository.SequenceRepository, prefix string, at time.Time) (string, error) {
	day := at.Format("20060102")
	seq, err := seqRepo.Next(ctx, prefix+"-"+day)
	if err != nil {
		return "", storageErr("reserve document number", err)
	}
	return fmt.Sprintf("%s-%s-%04d", prefix, day, seq), nil
}

func toItemInputs(reqs []OrderItemRequest) ([]pricing.ItemInput, error) {
	items := make([]pricing.ItemInput, 0, len(reqs))
	for i, r := range reqs {
		price := decimal.Zero
		if r.ProductPriceUSD != "" {
			var err error
			price, err = parseAmount(r.ProductPriceUSD, fmt.Sprintf("item %d product_price_usd", i+1))
			if err != nil {
				return nil, err
			}
		}
		shipping := decimal.Zero
		if r.ShippingCostUSD != "" {
			var err error
			shipping, err = parseAmount(r.ShippingCostUSD, fmt.Sprintf("item %d shipping_cost_usd", i+1))
			if err != nil {
				return nil, err
			}
		}

		items = append(items, pricing.ItemInput{
			ProductLink:        r.ProductLink,
			ProductName:        r.ProductName,
			Quantity:           r.Quantity,
			Size:               r.Size,
			Color:              r.Color,
			UnitPriceSource:    price,
			ShippingCostSource: shipping,
		})
	}
	return items, nil
}

func buildOrder(orderNumber string, customerID uuid.UUID, quote pricing.Quote) model.Order {
	order := model.Order{
		OrderNumber:   orderNumber,
		CustomerID:    customerID,
		ProductCount:  len(quote.Items),
		SubtotalUSD:   quote.SubtotalSource,
		TaxUSD:        quote.TaxSource,
		TotalUSD:      quote.TotalSource,
		TaxBDT:        quote.TaxLocal,
		TotalBDT:      quote.TotalLocal,
		Status:        model.OrderStatusPending,
		PaymentStatus: model.OrderPaymentPending,
		Items:         make([]model.OrderItem, 0, len(quote.Items)),
	}
	for _, line := range quote.Items {
		order.Items = append(order.Items, model.OrderItem{
			ProductLink:     line.ProductLink,
			ProductName:     line.ProductName,
			Quantity:        line.Quantity,
			Size:            line.Size,
			Color:           line.Color,
			ProductPriceUSD: line.UnitPriceSource,
			ShippingCostUSD: line.ShippingCostSource,
			ProductPriceBDT: line.UnitPriceLocal,
			TaxUSD:          line.TaxSource,
			TotalPriceUSD:   line.TotalSource,
			TotalPriceBDT:   line.TotalLocal,
		})
	}
	return order
}

// --- Mapping ---

func toOrderResponse(o model.Order) OrderResponse {
	resp := OrderResponse{
		ID:             o.ID.String(),
		OrderNumber:    o.OrderNumber,
		CustomerID:     o.CustomerID.String(),
		ProductCount:   o.ProductCount,
		SubtotalUSD:    o.SubtotalUSD.StringFixed(4),
		TaxUSD:         o.TaxUSD.StringFixed(4),
		TotalUSD:       o.TotalUSD.StringFixed(4),
		TaxBDT:         o.TaxBDT.StringFixed(4),
		TotalBDT:       o.TotalBDT.StringFixed(4),
		DeliveryMethod: o.DeliveryMethod,
		PaymentMethod:  o.PaymentMethod,
		DeliveryCost:   o.DeliveryCost.StringFixed(4),
		CODCharge:      o.CODCharge.StringFixed(4),
		BKashCharge:    o.BKashCharge.StringFixed(4),
		Status:         o.Status,
		PaymentStatus:  o.PaymentStatus,
		Items:          make([]OrderItemResponse, 0, len(o.Items)),
		CreatedAt:      o.CreatedAt.Format(time.RFC3339),
	}
	if o.FinalizedAt != nil {
		f := o.FinalizedAt.Format(time.RFC3339)
		resp.FinalizedAt = &f
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ID:              it.ID.String(),
			ProductLink:     it.ProductLink,
			ProductName:     it.ProductName,
			Quantity:        it.Quantity,
			Size:            it.Size,
			Color:           it.Color,
			ProductPriceUSD: it.ProductPriceUSD.StringFixed(4),
			ShippingCostUSD: it.ShippingCostUSD.StringFixed(4),
			TaxUSD:          it.TaxUSD.StringFixed(4),
			TotalPriceUSD:   it.TotalPriceUSD.StringFixed(4),
			ProductPriceBDT: it.ProductPriceBDT.StringFixed(4),
			TotalPriceBDT:   it.TotalPriceBDT.StringFixed(4),
			WeightCostBDT:   it.WeightCostBDT.StringFixed(4),
		})
	}
	return resp
}
