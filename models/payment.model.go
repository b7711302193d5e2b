package models

import "time"

const (
	PaymentStatusPending   = "Pending"
	PaymentStatusCompleted = "Completed"
	PaymentStatusFailed    = "Failed"
)

type Payment struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	OrderID       uint    `gorm:"index;not null" json:"order_id"`
	Amount        float64 `gorm:"not null" json:"amount"`
	PaymentMethod string  `gorm:"size:50;not null" json:"payment_method"`
	PaymentStatus string  `gorm:"default:'Pending';size:20" json:"payment_status"`

	PaymentDate time.Time `gorm:"autoCreateTime" json:"payment_date"`

	// Relations
	Order Order `gorm:"foreignKey:OrderID" json:"-"`
}
