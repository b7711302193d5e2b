package models

import "time"

// Review is unique per (product, user).
type Review struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	ProductID  uint   `gorm:"not null;uniqueIndex:idx_review_product_user" json:"product_id"`
	UserID     uint   `gorm:"not null;uniqueIndex:idx_review_product_user" json:"user_id"`
	Rating     int    `gorm:"not null" json:"rating"` // 1-5
	ReviewText string `gorm:"type:text" json:"review_text"`

	CreatedAt time.Time `json:"review_date"`

	// Relations
	User    User    `gorm:"foreignKey:UserID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}
