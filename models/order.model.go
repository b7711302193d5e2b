package models

import "time"

// Order statuses. Transitions are driven by payment and admin actions:
// Pending -> Processing -> (Shipped | Cancelled | Completed)
const (
	OrderStatusPending    = "Pending"
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusCancelled  = "Cancelled"
	OrderStatusCompleted  = "Completed"
)

// NextOrderStatuses maps each order status to the statuses it may move to.
var NextOrderStatuses = map[string][]string{
	OrderStatusPending:    {OrderStatusProcessing},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled, OrderStatusCompleted},
}

// CanTransitionOrder reports whether an order may move from one status to another.
func CanTransitionOrder(from, to string) bool {
	for _, s := range NextOrderStatuses[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Order is an immutable snapshot of a purchase. Line items live in
// OrderDetail; only the status changes after creation.
type Order struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	UserID          uint    `gorm:"index;not null" json:"user_id"`
	TotalAmount     float64 `gorm:"not null" json:"total_amount"`
	Status          string  `gorm:"default:'Pending';size:20" json:"status"`
	ShippingAddress string  `gorm:"size:255" json:"shipping_address"`

	OrderDate time.Time `gorm:"autoCreateTime" json:"order_date"`

	// Relations
	User    User          `gorm:"foreignKey:UserID" json:"-"`
	Details []OrderDetail `gorm:"foreignKey:OrderID" json:"order_items,omitempty"`
}

// OrderDetail captures price and discount at time of sale; it is never
// recomputed from the live product.
type OrderDetail struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"index;not null" json:"order_id"`
	ProductID uint    `gorm:"not null" json:"product_id"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	UnitPrice float64 `gorm:"not null" json:"unit_price"`
	Discount  float64 `gorm:"default:0" json:"discount"`

	// Relations
	Product Product `gorm:"foreignKey:ProductID" json:"product"`
}

// LineTotal is the amount charged for this line at purchase time.
func (d *OrderDetail) LineTotal() float64 {
	return d.UnitPrice * float64(d.Quantity) * (1 - d.Discount/100)
}
