// internal/services/report_service.go
package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"gorm.io/gorm"

	"github.com/edark-import/marketplace-backend/internal/models"
)

type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// DashboardReport is the admin landing summary over the last 30 days.
type DashboardReport struct {
	Period          string           `json:"period"`
	TotalOrders     int64            `json:"total_orders"`
	TotalRevenue    float64          `json:"total_revenue"`
	AverageOrder    float64          `json:"average_order"`
	PendingOrders   int64            `json:"pending_orders"`
	CancelledOrders int64            `json:"cancelled_orders"`
	ByStatus        map[string]int64 `json:"by_status"`
	ByPaymentMethod map[string]int64 `json:"by_payment_method"`
	UniqueCustomers int64            `json:"unique_customers"`
	NewCustomers    int64            `json:"new_customers"`
	TotalProducts   int64            `json:"total_products"`
	LowStockCount   int64            `json:"low_stock_count"`
}

type groupCountRow struct {
	Key   string
	Count int64
}

func (s *ReportService) Dashboard(lowStockLevel int) (*DashboardReport, error) {
	since := time.Now().AddDate(0, 0, -30)
	report := &DashboardReport{Period: "30d"}

	orders := s.db.Model(&models.Order{}).Where("created_at >= ?", since)
	if err := orders.Count(&report.TotalOrders).Error; err != nil {
		return nil, err
	}

	// Revenue excludes cancelled orders.
	err := s.db.Model(&models.Order{}).
		Where("created_at >= ? AND status <> ?", since, models.OrderStatusCancelled).
		Select("COALESCE(SUM(total), 0)").
		Scan(&report.TotalRevenue).Error
	if err != nil {
		return nil, err
	}

	var countedOrders int64
	s.db.Model(&models.Order{}).
		Where("created_at >= ? AND status <> ?", since, models.OrderStatusCancelled).
		Count(&countedOrders)
	if countedOrders > 0 {
		report.AverageOrder = report.TotalRevenue / float64(countedOrders)
	}

	s.db.Model(&models.Order{}).
		Where("status = ?", models.OrderStatusPending).
		Count(&report.PendingOrders)
	s.db.Model(&models.Order{}).
		Where("created_at >= ? AND status = ?", since, models.OrderStatusCancelled).
		Count(&report.CancelledOrders)

	report.ByStatus = make(map[string]int64)
	var statusRows []groupCountRow
	s.db.Model(&models.Order{}).
		Select("status AS key, COUNT(*) AS count").
		Where("created_at >= ?", since).
		Group("status").
		Scan(&statusRows)
	for _, row := range statusRows {
		report.ByStatus[row.Key] = row.Count
	}

	report.ByPaymentMethod = make(map[string]int64)
	var methodRows []groupCountRow
	s.db.Model(&models.Order{}).
		Select("payment_method AS key, COUNT(*) AS count").
		Where("created_at >= ?", since).
		Group("payment_method").
		Scan(&methodRows)
	for _, row := range methodRows {
		report.ByPaymentMethod[row.Key] = row.Count
	}

	s.db.Model(&models.Order{}).
		Where("created_at >= ?", since).
		Distinct("customer_email").
		Count(&report.UniqueCustomers)

	s.db.Model(&models.User{}).
		Where("created_at >= ? AND role = ?", since, models.UserRoleCustomer).
		Count(&report.NewCustomers)

	s.db.Model(&models.Product{}).
		Where("active = ?", true).
		Count(&report.TotalProducts)
	s.db.Model(&models.Product{}).
		Where("active = ? AND stock <= ?", true, lowStockLevel).
		Count(&report.LowStockCount)

	return report, nil
}

type SalesPeriodRow struct {
	Period  string  `json:"period"`
	Orders  int64   `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// SalesByPeriod groups completed sales by day, week or month.
func (s *ReportService) SalesByPeriod(from, to time.Time, granularity string) ([]SalesPeriodRow, error) {
	var format string
	switch granularity {
	case "month":
		format = "YYYY-MM"
	case "week":
		format = "IYYY-IW"
	default:
		format = "YYYY-MM-DD"
	}

	var rows []SalesPeriodRow
	err := s.db.Model(&models.Order{}).
		Select("TO_CHAR(created_at, ?) AS period, COUNT(*) AS orders, COALESCE(SUM(total), 0) AS revenue", format).
		Where("created_at BETWEEN ? AND ? AND status <> ?", from, to, models.OrderStatusCancelled).
		Group("period").
		Order("period ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type TopProductRow struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Units     int64   `json:"units"`
	Revenue   float64 `json:"revenue"`
}

func (s *ReportService) TopProducts(from, to time.Time, limit int) ([]TopProductRow, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	var rows []TopProductRow
	err := s.db.Table("order_items").
		Select("order_items.product_id, order_items.name, SUM(order_items.quantity) AS units, SUM(order_items.subtotal) AS revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.created_at BETWEEN ? AND ? AND orders.status <> ?", from, to, models.OrderStatusCancelled).
		Group("order_items.product_id, order_items.name").
		Order("units DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type InventoryRow struct {
	Name          string  `json:"name"`
	SKU           string  `json:"sku"`
	Category      string  `json:"category"`
	Stock         int     `json:"stock"`
	Price         float64 `json:"price"`
	PurchasePrice float64 `json:"purchase_price"`
	StockValue    float64 `json:"stock_value"`
}

func (s *ReportService) Inventory() ([]InventoryRow, error) {
	var products []models.Product
	err := s.db.Where("active = ?", true).
		Order("category ASC, name ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}

	rows := make([]InventoryRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, InventoryRow{
			Name:          p.Name,
			SKU:           p.SKU,
			Category:      p.Category,
			Stock:         p.Stock,
			Price:         p.Price,
			PurchasePrice: p.PurchasePrice,
			StockValue:    float64(p.Stock) * p.PurchasePrice,
		})
	}
	return rows, nil
}

type CustomerRow struct {
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	Orders     int64   `json:"orders"`
	TotalSpent float64 `json:"total_spent"`
}

// TopCustomers ranks order-placing customers by lifetime spend. Customers
// are identified by the email snapshot on their orders, so guests count too.
func (s *ReportService) TopCustomers(limit int) ([]CustomerRow, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var rows []CustomerRow
	err := s.db.Model(&models.Order{}).
		Select("customer_email AS email, MAX(customer_name) AS name, COUNT(*) AS orders, COALESCE(SUM(total), 0) AS total_spent").
		Where("status <> ?", models.OrderStatusCancelled).
		Group("customer_email").
		Order("total_spent DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ExportOrdersCSV streams orders in the given window as CSV.
func (s *ReportService) ExportOrdersCSV(w io.Writer, from, to time.Time) error {
	var orders []models.Order
	err := s.db.Preload("Items").
		Where("created_at BETWEEN ? AND ?", from, to).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"order_number", "date", "customer", "email", "status", "payment_method", "payment_status", "items", "total"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, order := range orders {
		record := []string{
			order.OrderNumber,
			order.CreatedAt.Format("2006-01-02 15:04"),
			order.Customer.Name,
			order.Customer.Email,
			string(order.Status),
			string(order.PaymentMethod),
			string(order.PaymentStatus),
			fmt.Sprintf("%d", len(order.Items)),
			fmt.Sprintf("%.2f", order.Total),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	return cw.Error()
}

// ExportProductsCSV dumps the inventory as CSV.
func (s *ReportService) ExportProductsCSV(w io.Writer) error {
	rows, err := s.Inventory()
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"name", "sku", "category", "stock", "price", "purchase_price", "stock_value"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{
			row.Name,
			row.SKU,
			row.Category,
			fmt.Sprintf("%d", row.Stock),
			fmt.Sprintf("%.2f", row.Price),
			fmt.Sprintf("%.2f", row.PurchasePrice),
			fmt.Sprintf("%.2f", row.StockValue),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	return cw.Error()
}
