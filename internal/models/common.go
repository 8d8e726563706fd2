// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleSeller   UserRole = "seller"
	UserRoleCustomer UserRole = "customer"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsTerminal reports whether no further status transitions are allowed.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodCulqi        PaymentMethod = "culqi"
	PaymentMethodMercadoPago  PaymentMethod = "mercadopago"
	PaymentMethodPayPal       PaymentMethod = "paypal"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCard,
		PaymentMethodCulqi, PaymentMethodMercadoPago, PaymentMethodPayPal:
		return true
	}
	return false
}

type AdPlacement string

const (
	AdPlacementHeader      AdPlacement = "header"
	AdPlacementSidebar     AdPlacement = "sidebar"
	AdPlacementFooter      AdPlacement = "footer"
	AdPlacementBlogTop     AdPlacement = "blog-top"
	AdPlacementBlogSidebar AdPlacement = "blog-sidebar"
	AdPlacementBlogContent AdPlacement = "blog-content"
)

func (p AdPlacement) Valid() bool {
	switch p {
	case AdPlacementHeader, AdPlacementSidebar, AdPlacementFooter,
		AdPlacementBlogTop, AdPlacementBlogSidebar, AdPlacementBlogContent:
		return true
	}
	return false
}

type AdType string

const (
	AdTypeAdsense AdType = "adsense"
	AdTypeBanner  AdType = "banner"
	AdTypeCustom  AdType = "custom"
)
