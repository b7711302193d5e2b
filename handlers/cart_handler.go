package handlers

import (
	"errors"

	"github.com/Mahmoud-Elqalini/CakeOlicious-New/middleware"
	"github.com/Mahmoud-Elqalini/CakeOlicious-New/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CartHandler struct {
	DB *gorm.DB
}

func NewCartHandler(db *gorm.DB) *CartHandler {
	return &CartHandler{DB: db}
}

type AddToCartRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type UpdateCartRequest struct {
	CartItemID uint `json:"cart_item_id"`
	Change     int  `json:"change"`
}

type RemoveFromCartRequest struct {
	CartItemID uint `json:"cart_item_id"`
}

// AddToCart - POST /cart/add
// Upserts the (user, product) entry; adding the same product again
// accumulates quantity.
func (h *CartHandler) AddToCart(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req AddToCartRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid JSON format"})
	}

	if req.ProductID == 0 || req.Quantity == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Product ID and quantity are required"})
	}
	if req.Quantity < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Quantity must be at least 1"})
	}

	var product models.Product
	if err := h.DB.Where("id = ? AND is_active = ?", req.ProductID, true).First(&product).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found"})
	}

	var item models.CartItem
	err := h.DB.Where("user_id = ? AND product_id = ?", user.ID, req.ProductID).First(&item).Error
	switch {
	case err == nil:
		newQuantity := item.Quantity + req.Quantity
		if newQuantity > product.Stock {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Requested quantity exceeds available stock"})
		}
		if err := h.DB.Model(&item).Update("quantity", newQuantity).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Database error"})
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if req.Quantity > product.Stock {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Requested quantity exceeds available stock"})
		}
		item = models.CartItem{
			UserID:    user.ID,
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
		}
		if err := h.DB.Create(&item).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Database error"})
		}
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Database error"})
	}

	return c.JSON(fiber.Map{"message": "Product added to cart successfully."})
}

// ViewCart - GET /cart
// The total is always computed server-side from live unit prices and
// discounts.
func (h *CartHandler) ViewCart(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var items []models.CartItem
	if err := h.DB.Preload("Product").Where("user_id = ?", user.ID).Order("created_at").Find(&items).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Database error while retrieving cart.",
		})
	}

	if len(items) == 0 {
		return c.JSON(fiber.Map{
			"success":     true,
			"message":     "Cart is empty.",
			"data":        []fiber.Map{},
			"total_price": 0,
		})
	}

	var totalPrice float64
	formatted := make([]fiber.Map, 0, len(items))
	for _, item := range items {
		subtotal := item.Product.DiscountedPrice() * float64(item.Quantity)
		totalPrice += subtotal
		formatted = append(formatted, fiber.Map{
			"cart_item_id": item.ID,
			"product_id":   item.ProductID,
			"product_name": item.Product.Name,
			"quantity":     item.Quantity,
			"unit_price":   item.Product.Price,
			"discount":     item.Product.Discount,
			"subtotal":     round2(subtotal),
			"added_date":   item.CreatedAt,
		})
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"message":     "Cart retrieved successfully.",
		"data":        formatted,
		"total_price": round2(totalPrice),
	})
}

// UpdateQuantity - POST /cart/update
// Adjusts quantity by a signed delta; quantities below 1 are rejected.
func (h *CartHandler) UpdateQuantity(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req UpdateCartRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid JSON format"})
	}
	if req.CartItemID == 0 || req.Change == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Cart item ID and change value are required"})
	}

	item, status, msg := h.ownedCartItem(user, req.CartItemID)
	if item == nil {
		return c.Status(status).JSON(fiber.Map{"message": msg})
	}

	newQuantity := item.Quantity + req.Change
	if newQuantity < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Quantity cannot go below 1. Remove the item instead.",
		})
	}

	var product models.Product
	if err := h.DB.First(&product, item.ProductID).Error; err == nil && newQuantity > product.Stock {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Requested quantity exceeds available stock",
		})
	}

	if err := h.DB.Model(item).Update("quantity", newQuantity).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Internal server error"})
	}

	return c.JSON(fiber.Map{"success": true, "message": "Cart quantity updated successfully."})
}

// RemoveFromCart - POST /cart/remove
func (h *CartHandler) RemoveFromCart(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req RemoveFromCartRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid JSON format"})
	}
	if req.CartItemID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Cart item ID is required"})
	}

	item, status, msg := h.ownedCartItem(user, req.CartItemID)
	if item == nil {
		return c.Status(status).JSON(fiber.Map{"message": msg})
	}

	if err := h.DB.Delete(item).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Database error"})
	}

	return c.JSON(fiber.Map{"message": "Item removed from cart successfully."})
}

// ownedCartItem loads a cart item and enforces the ownership check that must
// precede every cart mutation.
func (h *CartHandler) ownedCartItem(user *models.User, cartItemID uint) (*models.CartItem, int, string) {
	var item models.CartItem
	if err := h.DB.First(&item, cartItemID).Error; err != nil {
		return nil, fiber.StatusNotFound, "Cart item not found"
	}
	if item.UserID != user.ID {
		return nil, fiber.StatusForbidden, "Unauthorized access to cart item"
	}
	return &item, 0, ""
}
