// internal/services/order_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/edark-import/marketplace-backend/internal/models"
	"github.com/edark-import/marketplace-backend/internal/store"
	"github.com/edark-import/marketplace-backend/internal/utils"
)

// Notifier delivers customer-facing emails. Delivery is best effort; a
// failure is logged and never fails the order.
type Notifier interface {
	SendOrderConfirmation(order *models.Order) error
	SendOrderStatusUpdate(order *models.Order, previous models.OrderStatus) error
}

type OrderService struct {
	store    store.Store
	notifier Notifier
	logger   *logrus.Logger
}

func NewOrderService(st store.Store, notifier Notifier, logger *logrus.Logger) *OrderService {
	return &OrderService{
		store:    st,
		notifier: notifier,
		logger:   logger,
	}
}

type PlaceOrderItem struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type PlaceOrderRequest struct {
	CustomerName     string           `json:"customer_name" validate:"required,min=2,max=255"`
	CustomerEmail    string           `json:"customer_email" validate:"required,email"`
	CustomerPhone    string           `json:"customer_phone" validate:"omitempty,max=30"`
	CustomerDocument string           `json:"customer_document" validate:"omitempty,max=30"`
	ShippingAddress  string           `json:"shipping_address" validate:"omitempty,max=500"`
	PaymentMethod    string           `json:"payment_method" validate:"required"`
	Notes            string           `json:"notes" validate:"omitempty,max=1000"`
	DeclaredTotal    float64          `json:"declared_total" validate:"omitempty,gte=0"`
	Items            []PlaceOrderItem `json:"items" validate:"required,min=1,dive"`
}

var (
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidTransition    = errors.New("invalid status transition")
)

// StockError aggregates every item the shelf could not cover, so the
// customer sees the whole problem at once instead of one item per retry.
type StockError struct {
	Items []*store.InsufficientStockError
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for %d item(s)", len(e.Items))
}

// PlaceOrder runs the full checkout flow: validate, reprice every line from
// the catalog, reserve stock atomically and persist the order. Prices sent
// by the client are never trusted; a mismatching declared total is logged
// and the recomputed total wins.
func (s *OrderService) PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	method := models.PaymentMethod(req.PaymentMethod)
	if !method.Valid() {
		return nil, ErrInvalidPaymentMethod
	}

	// Merge duplicate lines so one product decrements once.
	quantities := make(map[uuid.UUID]int, len(req.Items))
	orderedIDs := make([]uuid.UUID, 0, len(req.Items))
	for _, item := range req.Items {
		id, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("invalid product id %q", item.ProductID)
		}
		if _, seen := quantities[id]; !seen {
			orderedIDs = append(orderedIDs, id)
		}
		quantities[id] += item.Quantity
	}

	products, err := s.store.GetProducts(ctx, orderedIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	byID := make(map[uuid.UUID]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	// Check every line before touching anything, collecting all shortfalls.
	var stockErr StockError
	for _, id := range orderedIDs {
		product, ok := byID[id]
		if !ok {
			return nil, store.ErrProductNotFound
		}
		if product.Stock < quantities[id] {
			stockErr.Items = append(stockErr.Items, &store.InsufficientStockError{
				ProductName: product.Name,
				Requested:   quantities[id],
				Available:   product.Stock,
			})
		}
	}
	if len(stockErr.Items) > 0 {
		return nil, &stockErr
	}

	// Reprice server side with exact decimal arithmetic.
	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(orderedIDs))
	adjustments := make([]store.StockAdjustment, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		product := byID[id]
		qty := quantities[id]
		unitPrice := decimal.NewFromFloat(product.Price)
		subtotal := unitPrice.Mul(decimal.NewFromInt(int64(qty)))
		total = total.Add(subtotal)

		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: unitPrice.InexactFloat64(),
			Quantity:  qty,
			Subtotal:  subtotal.InexactFloat64(),
		})
		adjustments = append(adjustments, store.StockAdjustment{
			ProductID: product.ID,
			Delta:     -qty,
		})
	}

	if req.DeclaredTotal > 0 && !total.Equal(decimal.NewFromFloat(req.DeclaredTotal)) {
		s.logger.WithFields(logrus.Fields{
			"declared_total": req.DeclaredTotal,
			"computed_total": total.InexactFloat64(),
			"customer_email": req.CustomerEmail,
		}).Warn("Declared order total does not match recomputed total")
	}

	// All-or-nothing reservation. A concurrent buyer taking the last unit
	// makes this fail and the order is never written.
	if err := s.store.BatchUpdateStock(ctx, adjustments); err != nil {
		if errors.Is(err, store.ErrStockConflict) {
			return nil, s.stockConflictError(ctx, orderedIDs, quantities)
		}
		return nil, fmt.Errorf("failed to reserve stock: %w", err)
	}

	orderNumber, err := utils.GenerateOrderNumber()
	if err != nil {
		return nil, fmt.Errorf("failed to generate order number: %w", err)
	}

	paymentStatus := models.PaymentStatusPaid
	if method == models.PaymentMethodCash {
		paymentStatus = models.PaymentStatusPending
	}

	order := &models.Order{
		OrderNumber: orderNumber,
		Customer: models.Customer{
			Name:     req.CustomerName,
			Email:    req.CustomerEmail,
			Phone:    req.CustomerPhone,
			Document: req.CustomerDocument,
		},
		Items:           items,
		Total:           total.InexactFloat64(),
		PaymentMethod:   method,
		PaymentStatus:   paymentStatus,
		Status:          models.OrderStatusPending,
		ShippingAddress: req.ShippingAddress,
		Notes:           req.Notes,
	}

	if err := s.store.CreateOrder(ctx, order); err != nil {
		// Put the reserved units back; the order never existed.
		restock := make([]store.StockAdjustment, len(adjustments))
		for i, adj := range adjustments {
			restock[i] = store.StockAdjustment{ProductID: adj.ProductID, Delta: -adj.Delta}
		}
		if restockErr := s.store.BatchUpdateStock(ctx, restock); restockErr != nil {
			s.logger.WithError(restockErr).Error("Failed to restore stock after order create failure")
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"order_number": order.OrderNumber,
		"total":        order.Total,
		"items":        len(order.Items),
	}).Info("Order placed")

	if s.notifier != nil {
		go func(o models.Order) {
			if err := s.notifier.SendOrderConfirmation(&o); err != nil {
				s.logger.WithError(err).WithField("order_number", o.OrderNumber).
					Warn("Failed to send order confirmation email")
			}
		}(*order)
	}

	return order, nil
}

// stockConflictError re-reads the raced products so the customer sees which
// lines fell short and how many units are left.
func (s *OrderService) stockConflictError(ctx context.Context, ids []uuid.UUID, quantities map[uuid.UUID]int) error {
	stockErr := &StockError{}

	products, err := s.store.GetProducts(ctx, ids)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to reload products after stock conflict")
		return stockErr
	}

	byID := make(map[uuid.UUID]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	for _, id := range ids {
		product, ok := byID[id]
		if !ok {
			continue
		}
		if product.Stock < quantities[id] {
			stockErr.Items = append(stockErr.Items, &store.InsufficientStockError{
				ProductName: product.Name,
				Requested:   quantities[id],
				Available:   product.Stock,
			})
		}
	}

	return stockErr
}

func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.store.GetOrder(ctx, id)
}

// MarkPaid records a confirmed provider payment against the order.
func (s *OrderService) MarkPaid(ctx context.Context, id uuid.UUID, paymentRef string) (*models.Order, error) {
	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	order.PaymentStatus = models.PaymentStatusPaid
	order.PaymentRef = paymentRef

	if err := s.store.UpdateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"order_number": order.OrderNumber,
		"payment_ref":  paymentRef,
	}).Info("Order payment confirmed")

	return order, nil
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes" validate:"omitempty,max=1000"`
}

// UpdateOrderStatus moves an order to a new state. Delivered and cancelled
// are terminal. Cancelling restores the reserved stock.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, req *UpdateOrderStatusRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	newStatus := models.OrderStatus(req.Status)
	if !newStatus.Valid() {
		return nil, ErrInvalidTransition
	}

	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.Status.IsTerminal() {
		return nil, ErrInvalidTransition
	}
	if order.Status == newStatus {
		return order, nil
	}

	previous := order.Status
	order.Status = newStatus
	if req.Notes != "" {
		order.StatusNotes = req.Notes
	}

	if newStatus == models.OrderStatusCancelled {
		restock := make([]store.StockAdjustment, 0, len(order.Items))
		for _, item := range order.Items {
			restock = append(restock, store.StockAdjustment{
				ProductID: item.ProductID,
				Delta:     item.Quantity,
			})
		}
		if err := s.store.BatchUpdateStock(ctx, restock); err != nil {
			return nil, fmt.Errorf("failed to restore stock: %w", err)
		}
		if order.PaymentStatus == models.PaymentStatusPaid {
			order.PaymentStatus = models.PaymentStatusRefunded
		}
	}

	if err := s.store.UpdateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"order_number": order.OrderNumber,
		"from":         previous,
		"to":           newStatus,
	}).Info("Order status updated")

	if s.notifier != nil {
		go func(o models.Order, prev models.OrderStatus) {
			if err := s.notifier.SendOrderStatusUpdate(&o, prev); err != nil {
				s.logger.WithError(err).WithField("order_number", o.OrderNumber).
					Warn("Failed to send status update email")
			}
		}(*order, previous)
	}

	return order, nil
}
