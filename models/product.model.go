package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"size:100;not null;uniqueIndex" json:"product_name"`
	Description string  `gorm:"type:text" json:"product_description"`
	Price       float64 `gorm:"not null" json:"price"`
	Stock       int     `gorm:"not null" json:"stock"`
	CategoryID  uint    `gorm:"index;not null" json:"category_id"`
	ImageURL    string  `gorm:"size:255" json:"image_url"`
	Discount    float64 `gorm:"default:0" json:"discount"` // percent, 0-100
	IsActive    bool    `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Category Category `gorm:"foreignKey:CategoryID" json:"category"`
}

// DiscountedPrice applies the product discount to the list price.
func (p *Product) DiscountedPrice() float64 {
	return p.Price * (1 - p.Discount/100)
}
