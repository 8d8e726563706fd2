// internal/models/product.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Product struct {
	BaseModel
	Name           string         `json:"name" gorm:"size:255;not null"`
	SKU            string         `json:"sku" gorm:"size:100;index"`
	Description    string         `json:"description" gorm:"type:text"`
	Price          float64        `json:"price" gorm:"type:decimal(10,2);not null;index"`
	PurchasePrice  float64        `json:"purchase_price,omitempty" gorm:"type:decimal(10,2)"`
	Currency       string         `json:"currency" gorm:"size:3;default:'PEN'"`
	Stock          int            `json:"stock" gorm:"default:0"`
	Category       string         `json:"category" gorm:"size:100;not null;index"`
	Subcategory    string         `json:"subcategory" gorm:"size:100;index"`
	Brand          string         `json:"brand" gorm:"size:100;index"`
	Capacity       string         `json:"capacity" gorm:"size:50"`
	Model          string         `json:"model" gorm:"size:100"`
	Dimension      string         `json:"dimension" gorm:"size:100"`
	Specifications string         `json:"specifications" gorm:"type:text"`
	Images         pq.StringArray `json:"images" gorm:"type:text[]"`
	Active         bool           `json:"active" gorm:"default:true;index"`
	CreatedBy      *uuid.UUID     `json:"created_by,omitempty" gorm:"type:uuid"`
}
