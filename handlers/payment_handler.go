package handlers

import (
	"fmt"

	"github.com/Mahmoud-Elqalini/CakeOlicious-New/internal/ws"
	"github.com/Mahmoud-Elqalini/CakeOlicious-New/middleware"
	"github.com/Mahmoud-Elqalini/CakeOlicious-New/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PaymentHandler struct {
	DB  *gorm.DB
	Hub *ws.Hub
}

func NewPaymentHandler(db *gorm.DB, hub *ws.Hub) *PaymentHandler {
	return &PaymentHandler{DB: db, Hub: hub}
}

type CreatePaymentRequest struct {
	PaymentMethod string `json:"payment_method"`
}

// CreatePayment - POST /payment/create/:order_id
// Records a pending payment against a pending order and advances the order
// to Processing.
func (h *PaymentHandler) CreatePayment(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	orderID, err := c.ParamsInt("order_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid order ID"})
	}

	var req CreatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid JSON format"})
	}
	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "Cash on Delivery"
	}

	var payment models.Payment

	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			return err
		}

		if order.UserID != user.ID && !user.IsAdmin() {
			return errNotOwner
		}

		if order.Status != models.OrderStatusPending {
			return errOrderNotPending
		}

		payment = models.Payment{
			OrderID:       order.ID,
			Amount:        order.TotalAmount,
			PaymentMethod: paymentMethod,
			PaymentStatus: models.PaymentStatusPending,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		return tx.Model(&order).Update("status", models.OrderStatusProcessing).Error
	})

	switch txErr {
	case nil:
	case gorm.ErrRecordNotFound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Order not found"})
	case errNotOwner:
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "You are not authorized to pay for this order."})
	case errOrderNotPending:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Order is not pending"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Database error"})
	}

	h.Hub.Publish(ws.EventPaymentMade, fmt.Sprintf("Payment recorded for order #%d", orderID), fiber.Map{
		"payment_id": payment.ID,
		"order_id":   orderID,
		"amount":     payment.Amount,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Payment created successfully",
		"payment_id": payment.ID,
	})
}

// GetPayment - GET /payment/:id
func (h *PaymentHandler) GetPayment(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	paymentID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid payment ID"})
	}

	var payment models.Payment
	if err := h.DB.Preload("Order").First(&payment, paymentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Payment not found"})
	}

	if payment.Order.UserID != user.ID && !user.IsAdmin() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "You are not authorized to view this payment."})
	}

	return c.JSON(fiber.Map{
		"id":             payment.ID,
		"order_id":       payment.OrderID,
		"amount":         payment.Amount,
		"payment_method": payment.PaymentMethod,
		"payment_status": payment.PaymentStatus,
		"payment_date":   payment.PaymentDate,
	})
}
