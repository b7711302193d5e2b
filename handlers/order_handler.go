package handlers

import (
	"errors"
	"fmt"

	"github.com/Mahmoud-Elqalini/CakeOlicious-New/internal/ws"
	"github.com/Mahmoud-Elqalini/CakeOlicious-New/middleware"
	"github.com/Mahmoud-Elqalini/CakeOlicious-New/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ErrInsufficientStock rejects the whole checkout when any line exceeds the
// available stock; partial orders are never created.
var ErrInsufficientStock = errors.New("insufficient stock")

type OrderHandler struct {
	DB  *gorm.DB
	Hub *ws.Hub
}

func NewOrderHandler(db *gorm.DB, hub *ws.Hub) *OrderHandler {
	return &OrderHandler{DB: db, Hub: hub}
}

type CheckoutRequest struct {
	ShippingAddress string `json:"shipping_address"`
	PaymentMethod   string `json:"payment_method"`
}

// Checkout - POST /checkout
// Atomically snapshots the cart into order line items at current
// price/discount, decrements stock and clears the cart. The order starts in
// Pending status.
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid JSON format"})
	}

	shippingAddress := req.ShippingAddress
	if shippingAddress == "" {
		shippingAddress = user.Address
	}
	if shippingAddress == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Shipping address is required"})
	}

	var order models.Order
	var shortProduct string

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var items []models.CartItem
		if err := tx.Preload("Product").Where("user_id = ?", user.ID).Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return gorm.ErrRecordNotFound
		}

		var total float64
		details := make([]models.OrderDetail, 0, len(items))

		for _, item := range items {
			// Conditional decrement keeps stock from ever going negative,
			// even under concurrent checkouts: the WHERE clause loses the
			// race instead of the balance.
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				shortProduct = item.Product.Name
				return ErrInsufficientStock
			}

			total += item.Product.DiscountedPrice() * float64(item.Quantity)
			details = append(details, models.OrderDetail{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.Product.Price,
				Discount:  item.Product.Discount,
			})
		}

		order = models.Order{
			UserID:          user.ID,
			TotalAmount:     round2(total),
			Status:          models.OrderStatusPending,
			ShippingAddress: shippingAddress,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for i := range details {
			details[i].OrderID = order.ID
		}
		if err := tx.Create(&details).Error; err != nil {
			return err
		}

		// Cart entries are consumed by a successful checkout
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}

		return nil
	})

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Cart is empty."})
	case errors.Is(err, ErrInsufficientStock):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": fmt.Sprintf("Insufficient stock for product: %s", shortProduct),
		})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Database error during checkout"})
	}

	h.Hub.Publish(ws.EventOrderPlaced, fmt.Sprintf("Order #%d placed by %s", order.ID, user.Username), fiber.Map{
		"order_id":     order.ID,
		"user_id":      user.ID,
		"total_amount": order.TotalAmount,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":      true,
		"message":      "Order created successfully",
		"order_id":     order.ID,
		"total_amount": order.TotalAmount,
		"status":       order.Status,
	})
}

// GetOrder - GET /order/:id
// Admins may view any order, a regular user only their own.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	orderID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid order ID"})
	}

	var order models.Order
	if err := h.DB.Preload("Details.Product").First(&order, orderID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Order not found"})
	}

	if order.UserID != user.ID && !user.IsAdmin() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "You are not authorized to view this order."})
	}

	orderItems := make([]fiber.Map, 0, len(order.Details))
	for _, d := range order.Details {
		orderItems = append(orderItems, fiber.Map{
			"product_id":   d.ProductID,
			"product_name": d.Product.Name,
			"quantity":     d.Quantity,
			"unit_price":   d.UnitPrice,
			"discount":     d.Discount,
			"total_price":  round2(d.LineTotal()),
		})
	}

	return c.JSON(fiber.Map{
		"order": fiber.Map{
			"id":               order.ID,
			"user_id":          order.UserID,
			"total_amount":     order.TotalAmount,
			"status":           order.Status,
			"shipping_address": order.ShippingAddress,
			"order_date":       order.OrderDate,
		},
		"order_items": orderItems,
	})
}
