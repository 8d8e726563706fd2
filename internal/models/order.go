// internal/models/order.go
package models

import (
	"github.com/google/uuid"
)

// Customer is the point-in-time snapshot embedded in an order. Later edits to
// a customer profile never change historical orders.
type Customer struct {
	Name     string `json:"name" gorm:"column:customer_name;size:255;not null"`
	Email    string `json:"email" gorm:"column:customer_email;size:255;not null;index"`
	Phone    string `json:"phone" gorm:"column:customer_phone;size:30"`
	Document string `json:"document,omitempty" gorm:"column:customer_document;size:30"`
}

type Order struct {
	BaseModel
	OrderNumber     string        `json:"order_number" gorm:"uniqueIndex;size:40;not null"`
	Customer        Customer      `json:"customer" gorm:"embedded"`
	Items           []OrderItem   `json:"items" gorm:"foreignKey:OrderID"`
	Total           float64       `json:"total" gorm:"type:decimal(10,2);not null"`
	PaymentMethod   PaymentMethod `json:"payment_method" gorm:"type:varchar(20);not null"`
	PaymentStatus   PaymentStatus `json:"payment_status" gorm:"type:varchar(20);default:'pending';index"`
	PaymentRef      string        `json:"payment_ref,omitempty" gorm:"size:255"`
	Status          OrderStatus   `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	StatusNotes     string        `json:"status_notes,omitempty" gorm:"type:text"`
	ShippingAddress string        `json:"shipping_address,omitempty" gorm:"type:text"`
	Notes           string        `json:"notes,omitempty" gorm:"type:text"`
}

// OrderItem snapshots the product at purchase time; the product id is kept
// for reporting but nothing is resolved through it afterwards.
type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	UnitPrice float64   `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	Subtotal  float64   `json:"subtotal" gorm:"type:decimal(10,2);not null"`
}
