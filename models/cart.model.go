package models

import "time"

// CartItem is one pending line in a user's cart. A user holds at most one
// entry per product; re-adding accumulates quantity instead.
type CartItem struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"user_id"`
	ProductID uint `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"product_id"`
	Quantity  int  `gorm:"not null" json:"quantity"`

	CreatedAt time.Time `json:"added_date"`
	UpdatedAt time.Time `json:"-"`

	// Relations
	Product Product `gorm:"foreignKey:ProductID" json:"product"`
}
