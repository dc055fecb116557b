package models

import (
	"strconv"
	"time"

	"github.com/fruitika/storefront-api/cart"
	"gorm.io/gorm"
)

type Product struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Category    string         `gorm:"index;not null" json:"category"` // citrus, tropical, seasonal...
	Description string         `json:"description"`
	Price       float64        `gorm:"not null" json:"price"`
	Image       string         `gorm:"not null" json:"image"`
	Images      []string       `gorm:"serializer:json" json:"images"` // gallery shots
	Rating      float64        `json:"rating"`
	InStock     bool           `gorm:"not null" json:"in_stock"`
	Featured    bool           `json:"featured"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// CartItem converts the product into the validated tuple the cart accepts.
// The cart only ever sees the price as it is right now.
func (p Product) CartItem() (cart.Item, error) {
	return cart.NewItem(strconv.FormatUint(uint64(p.ID), 10), p.Name, p.Price, p.Image)
}
