// internal/services/order_service_test.go
package services

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edark-import/marketplace-backend/internal/models"
	"github.com/edark-import/marketplace-backend/internal/store"
)

// memoryStore is an in-memory Store with the same atomicity contract as the
// database-backed one.
type memoryStore struct {
	mu       sync.Mutex
	products map[uuid.UUID]*models.Product
	orders   map[uuid.UUID]*models.Order
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		products: make(map[uuid.UUID]*models.Product),
		orders:   make(map[uuid.UUID]*models.Order),
	}
}

func (m *memoryStore) addProduct(name string, price float64, stock int) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New()
	product := &models.Product{
		Name:   name,
		Price:  price,
		Stock:  stock,
		Active: true,
	}
	product.ID = id
	m.products[id] = product
	return id
}

func (m *memoryStore) stockOf(id uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products[id].Stock
}

func (m *memoryStore) GetProduct(_ context.Context, id uuid.UUID) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok || !p.Active {
		return nil, store.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memoryStore) GetProducts(_ context.Context, ids []uuid.UUID) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Product
	for _, id := range ids {
		if p, ok := m.products[id]; ok && p.Active {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memoryStore) BatchUpdateStock(_ context.Context, adjustments []store.StockAdjustment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, adj := range adjustments {
		p, ok := m.products[adj.ProductID]
		if !ok || p.Stock+adj.Delta < 0 {
			return store.ErrStockConflict
		}
	}
	for _, adj := range adjustments {
		m.products[adj.ProductID].Stock += adj.Delta
	}
	return nil
}

func (m *memoryStore) CreateOrder(_ context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	cp := *order
	m.orders[order.ID] = &cp
	return nil
}

func (m *memoryStore) GetOrder(_ context.Context, id uuid.UUID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, store.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memoryStore) UpdateOrder(_ context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[order.ID]; !ok {
		return store.ErrOrderNotFound
	}
	cp := *order
	m.orders[order.ID] = &cp
	return nil
}

func newTestOrderService(st store.Store) *OrderService {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewOrderService(st, nil, logger)
}

func validRequest(items ...PlaceOrderItem) *PlaceOrderRequest {
	return &PlaceOrderRequest{
		CustomerName:  "Juan Perez",
		CustomerEmail: "juan@example.com",
		CustomerPhone: "999888777",
		PaymentMethod: "cash",
		Items:         items,
	}
}

func TestPlaceOrderRecomputesPrices(t *testing.T) {
	st := newMemoryStore()
	ssdID := st.addProduct("SSD Kingston 1TB", 350.50, 10)
	ramID := st.addProduct("RAM Corsair 16GB", 180.90, 5)

	svc := newTestOrderService(st)

	req := validRequest(
		PlaceOrderItem{ProductID: ssdID.String(), Quantity: 2},
		PlaceOrderItem{ProductID: ramID.String(), Quantity: 1},
	)
	req.DeclaredTotal = 1.00 // client-sent total is ignored

	order, err := svc.PlaceOrder(context.Background(), req)
	require.NoError(t, err)

	assert.InDelta(t, 881.90, order.Total, 1e-9)
	require.Len(t, order.Items, 2)
	assert.InDelta(t, 701.00, order.Items[0].Subtotal, 1e-9)
	assert.Equal(t, "SSD Kingston 1TB", order.Items[0].Name)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.NotEmpty(t, order.OrderNumber)

	assert.Equal(t, 8, st.stockOf(ssdID))
	assert.Equal(t, 4, st.stockOf(ramID))
}

func TestPlaceOrderCashPaymentStaysPending(t *testing.T) {
	st := newMemoryStore()
	id := st.addProduct("Teclado", 120, 3)
	svc := newTestOrderService(st)

	order, err := svc.PlaceOrder(context.Background(),
		validRequest(PlaceOrderItem{ProductID: id.String(), Quantity: 1}))
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)

	req := validRequest(PlaceOrderItem{ProductID: id.String(), Quantity: 1})
	req.PaymentMethod = "card"
	order, err = svc.PlaceOrder(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
}

func TestPlaceOrderAggregatesStockErrors(t *testing.T) {
	st := newMemoryStore()
	firstID := st.addProduct("Mouse", 50, 1)
	secondID := st.addProduct("Monitor", 800, 0)
	svc := newTestOrderService(st)

	_, err := svc.PlaceOrder(context.Background(), validRequest(
		PlaceOrderItem{ProductID: firstID.String(), Quantity: 3},
		PlaceOrderItem{ProductID: secondID.String(), Quantity: 1},
	))

	var stockErr *StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Len(t, stockErr.Items, 2)

	// Nothing was decremented.
	assert.Equal(t, 1, st.stockOf(firstID))
	assert.Equal(t, 0, st.stockOf(secondID))
}

func TestPlaceOrderMergesDuplicateLines(t *testing.T) {
	st := newMemoryStore()
	id := st.addProduct("Cable HDMI", 25, 5)
	svc := newTestOrderService(st)

	order, err := svc.PlaceOrder(context.Background(), validRequest(
		PlaceOrderItem{ProductID: id.String(), Quantity: 2},
		PlaceOrderItem{ProductID: id.String(), Quantity: 1},
	))
	require.NoError(t, err)

	require.Len(t, order.Items, 1)
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.Equal(t, 2, st.stockOf(id))
}

func TestPlaceOrderUnknownProduct(t *testing.T) {
	st := newMemoryStore()
	svc := newTestOrderService(st)

	_, err := svc.PlaceOrder(context.Background(),
		validRequest(PlaceOrderItem{ProductID: uuid.NewString(), Quantity: 1}))
	assert.ErrorIs(t, err, store.ErrProductNotFound)
}

func TestPlaceOrderInvalidPaymentMethod(t *testing.T) {
	st := newMemoryStore()
	id := st.addProduct("Audifonos", 90, 2)
	svc := newTestOrderService(st)

	req := validRequest(PlaceOrderItem{ProductID: id.String(), Quantity: 1})
	req.PaymentMethod = "barter"
	_, err := svc.PlaceOrder(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
}

func TestPlaceOrderValidation(t *testing.T) {
	svc := newTestOrderService(newMemoryStore())

	_, err := svc.PlaceOrder(context.Background(), &PlaceOrderRequest{})
	assert.Error(t, err)
}

// racedStore drains a product's stock between the availability check and the
// reservation, like a concurrent buyer grabbing the last units.
type racedStore struct {
	*memoryStore
	drainID uuid.UUID
	drained bool
}

func (r *racedStore) BatchUpdateStock(ctx context.Context, adjustments []store.StockAdjustment) error {
	r.mu.Lock()
	if !r.drained {
		r.products[r.drainID].Stock = 0
		r.drained = true
	}
	r.mu.Unlock()
	return r.memoryStore.BatchUpdateStock(ctx, adjustments)
}

func TestPlaceOrderStockConflictNamesShortfall(t *testing.T) {
	st := newMemoryStore()
	id := st.addProduct("SSD WD Blue", 250, 2)
	raced := &racedStore{memoryStore: st, drainID: id}
	svc := newTestOrderService(raced)

	_, err := svc.PlaceOrder(context.Background(),
		validRequest(PlaceOrderItem{ProductID: id.String(), Quantity: 2}))

	var stockErr *StockError
	require.ErrorAs(t, err, &stockErr)
	require.Len(t, stockErr.Items, 1)
	assert.Equal(t, "SSD WD Blue", stockErr.Items[0].ProductName)
	assert.Equal(t, 2, stockErr.Items[0].Requested)
	assert.Equal(t, 0, stockErr.Items[0].Available)
}

// Two buyers race for the last unit; exactly one order must win.
func TestPlaceOrderConcurrentLastUnit(t *testing.T) {
	st := newMemoryStore()
	id := st.addProduct("GPU RTX 4090", 8000, 1)
	svc := newTestOrderService(st)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.PlaceOrder(context.Background(),
				validRequest(PlaceOrderItem{ProductID: id.String(), Quantity: 1}))
		}(i)
	}
	wg.Wait()

	var successes, failures int
	for _, err := range results {
		if err == nil {
			successes++
			continue
		}
		failures++
		var stockErr *StockError
		assert.ErrorAs(t, err, &stockErr)
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, failures)
	assert.Equal(t, 0, st.stockOf(id))
}

func TestUpdateOrderStatusFlow(t *testing.T) {
	st := newMemoryStore()
	id := st.addProduct("Impresora", 600, 2)
	svc := newTestOrderService(st)

	order, err := svc.PlaceOrder(context.Background(),
		validRequest(PlaceOrderItem{ProductID: id.String(), Quantity: 1}))
	require.NoError(t, err)

	updated, err := svc.UpdateOrderStatus(context.Background(), order.ID,
		&UpdateOrderStatusRequest{Status: "confirmed"})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, updated.Status)

	updated, err = svc.UpdateOrderStatus(context.Background(), order.ID,
		&UpdateOrderStatusRequest{Status: "delivered", Notes: "Entregado en tienda"})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, updated.Status)
	assert.Equal(t, "Entregado en tienda", updated.StatusNotes)

	// Delivered is terminal.
	_, err = svc.UpdateOrderStatus(context.Background(), order.ID,
		&UpdateOrderStatusRequest{Status: "pending"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateOrderStatusCancelRestoresStock(t *testing.T) {
	st := newMemoryStore()
	id := st.addProduct("Parlante", 150, 4)
	svc := newTestOrderService(st)

	order, err := svc.PlaceOrder(context.Background(),
		validRequest(PlaceOrderItem{ProductID: id.String(), Quantity: 3}))
	require.NoError(t, err)
	require.Equal(t, 1, st.stockOf(id))

	updated, err := svc.UpdateOrderStatus(context.Background(), order.ID,
		&UpdateOrderStatusRequest{Status: "cancelled"})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, updated.Status)
	assert.Equal(t, 4, st.stockOf(id))

	// Cancelled is terminal too.
	_, err = svc.UpdateOrderStatus(context.Background(), order.ID,
		&UpdateOrderStatusRequest{Status: "confirmed"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateOrderStatusInvalidValue(t *testing.T) {
	st := newMemoryStore()
	svc := newTestOrderService(st)

	_, err := svc.UpdateOrderStatus(context.Background(), uuid.New(),
		&UpdateOrderStatusRequest{Status: "lost"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
