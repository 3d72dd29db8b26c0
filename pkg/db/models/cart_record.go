package models

import "time"

// CartRecord is the persisted head row for one client cart. Items hang off it
// ordered by position so reloads replay the original insertion order.
type CartRecord struct {
	ID        string     `gorm:"primaryKey;type:text"`
	Items     []CartItem `gorm:"foreignKey:CartID;references:ID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CartRecord) TableName() string { return "cart_records" }
