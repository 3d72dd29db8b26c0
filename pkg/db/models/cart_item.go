package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one line of a persisted cart. ItemID is the product+variant
// merge key; Position preserves insertion order.
type CartItem struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	CartID       string `gorm:"index;type:text;not null"`
	ItemID       string `gorm:"type:text;not null"`
	ProductID    string `gorm:"type:text;not null"`
	Title        string `gorm:"type:text;not null"`
	UnitPrice    decimal.Decimal `gorm:"type:text;not null"`
	ImageURL     string `gorm:"type:text"`
	Quantity     int    `gorm:"not null"`
	VariantSize  *string `gorm:"type:text"`
	VariantColor *string `gorm:"type:text"`
	Position     int    `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (CartItem) TableName() string { return "cart_items" }
