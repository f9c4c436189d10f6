package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sweet represents a catalog item with price and stock quantity.
// Quantity never goes negative; stock mutations go through the inventory
// service's conditional updates only.
type Sweet struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"size:255;not null;index"`
	Category    string          `json:"category" gorm:"size:255;not null;index"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Quantity    int             `json:"quantity" gorm:"not null;default:0"`
	Description string          `json:"description,omitempty" gorm:"type:text"`
	ImageURL    string          `json:"imageUrl,omitempty" gorm:"size:1024"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
