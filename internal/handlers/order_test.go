// internal/handlers/order_test.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/edark-import/marketplace-backend/internal/models"
	"github.com/edark-import/marketplace-backend/internal/services"
	"github.com/edark-import/marketplace-backend/internal/store"
)

// fakeStore backs the handler tests without a database.
type fakeStore struct {
	mu       sync.Mutex
	products map[uuid.UUID]*models.Product
	orders   map[uuid.UUID]*models.Order
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products: make(map[uuid.UUID]*models.Product),
		orders:   make(map[uuid.UUID]*models.Order),
	}
}

func (f *fakeStore) addProduct(name string, price float64, stock int) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	p := &models.Product{Name: name, Price: price, Stock: stock, Active: true}
	p.ID = id
	f.products[id] = p
	return id
}

func (f *fakeStore) GetProduct(_ context.Context, id uuid.UUID) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok || !p.Active {
		return nil, store.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) GetProducts(_ context.Context, ids []uuid.UUID) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Product
	for _, id := range ids {
		if p, ok := f.products[id]; ok && p.Active {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeStore) BatchUpdateStock(_ context.Context, adjustments []store.StockAdjustment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, adj := range adjustments {
		p, ok := f.products[adj.ProductID]
		if !ok || p.Stock+adj.Delta < 0 {
			return store.ErrStockConflict
		}
	}
	for _, adj := range adjustments {
		f.products[adj.ProductID].Stock += adj.Delta
	}
	return nil
}

func (f *fakeStore) CreateOrder(_ context.Context, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	cp := *order
	f.orders[order.ID] = &cp
	return nil
}

func (f *fakeStore) GetOrder(_ context.Context, id uuid.UUID) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, store.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeStore) UpdateOrder(_ context.Context, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.orders[order.ID]; !ok {
		return store.ErrOrderNotFound
	}
	cp := *order
	f.orders[order.ID] = &cp
	return nil
}

type OrderHandlerSuite struct {
	suite.Suite
	store  *fakeStore
	router *gin.Engine
}

func (s *OrderHandlerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	s.store = newFakeStore()
	orderService := services.NewOrderService(s.store, nil, logger)
	handler := NewOrderHandler(orderService, nil)

	s.router = gin.New()
	s.router.POST("/api/orders", handler.Place)
	s.router.GET("/api/orders/:id", handler.Get)
	s.router.PATCH("/api/orders/:id/status", handler.UpdateStatus)
}

func (s *OrderHandlerSuite) postJSON(path string, body interface{}) *httptest.ResponseRecorder {
	data, err := json.Marshal(body)
	require.NoError(s.T(), err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *OrderHandlerSuite) orderPayload(productID uuid.UUID, qty int) map[string]interface{} {
	return map[string]interface{}{
		"customer_name":  "Maria Lopez",
		"customer_email": "maria@example.com",
		"payment_method": "cash",
		"items": []map[string]interface{}{
			{"product_id": productID.String(), "quantity": qty},
		},
	}
}

func (s *OrderHandlerSuite) TestPlaceOrderSuccess() {
	id := s.store.addProduct("SSD Kingston 1TB", 350, 5)

	w := s.postJSON("/api/orders", s.orderPayload(id, 2))

	assert.Equal(s.T(), http.StatusCreated, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			OrderNumber string  `json:"order_number"`
			Total       float64 `json:"total"`
			Status      string  `json:"status"`
		} `json:"data"`
	}
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(s.T(), resp.Success)
	assert.Contains(s.T(), resp.Data.OrderNumber, "ORD-")
	assert.InDelta(s.T(), 700.0, resp.Data.Total, 1e-9)
	assert.Equal(s.T(), "pending", resp.Data.Status)
}

func (s *OrderHandlerSuite) TestPlaceOrderInsufficientStock() {
	id := s.store.addProduct("Mouse Logitech", 80, 1)

	w := s.postJSON("/api/orders", s.orderPayload(id, 5))

	assert.Equal(s.T(), http.StatusConflict, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(s.T(), resp.Success)
	assert.Equal(s.T(), "INSUFFICIENT_STOCK", resp.Error.Code)
}

func (s *OrderHandlerSuite) TestPlaceOrderUnknownProduct() {
	w := s.postJSON("/api/orders", s.orderPayload(uuid.New(), 1))
	assert.Equal(s.T(), http.StatusNotFound, w.Code)
}

func (s *OrderHandlerSuite) TestPlaceOrderValidation() {
	w := s.postJSON("/api/orders", map[string]interface{}{
		"customer_name": "X",
	})
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *OrderHandlerSuite) TestPlaceOrderBadPaymentMethod() {
	id := s.store.addProduct("Teclado", 100, 2)
	payload := s.orderPayload(id, 1)
	payload["payment_method"] = "trueque"

	w := s.postJSON("/api/orders", payload)
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *OrderHandlerSuite) TestUpdateStatusLifecycle() {
	id := s.store.addProduct("Monitor LG", 900, 3)
	w := s.postJSON("/api/orders", s.orderPayload(id, 1))
	require.Equal(s.T(), http.StatusCreated, w.Code)

	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &created))

	patch := func(status string) *httptest.ResponseRecorder {
		body, _ := json.Marshal(map[string]string{"status": status})
		req := httptest.NewRequest(http.MethodPatch,
			fmt.Sprintf("/api/orders/%s/status", created.Data.ID), bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(s.T(), http.StatusOK, patch("confirmed").Code)
	assert.Equal(s.T(), http.StatusOK, patch("delivered").Code)

	// Delivered is terminal.
	assert.Equal(s.T(), http.StatusUnprocessableEntity, patch("shipped").Code)
}

func (s *OrderHandlerSuite) TestGetOrder() {
	id := s.store.addProduct("Webcam", 150, 2)
	w := s.postJSON("/api/orders", s.orderPayload(id, 1))
	require.Equal(s.T(), http.StatusCreated, w.Code)

	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &created))

	req := httptest.NewRequest(http.MethodGet, "/api/orders/"+created.Data.ID, nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(s.T(), http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/orders/"+uuid.NewString(), nil)
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(s.T(), http.StatusNotFound, rec.Code)
}

func TestOrderHandlerSuite(t *testing.T) {
	suite.Run(t, new(OrderHandlerSuite))
}
