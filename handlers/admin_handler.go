package handlers

import (
	"fmt"

	"github.com/Mahmoud-Elqalini/CakeOlicious-New/internal/ws"
	"github.com/Mahmoud-Elqalini/CakeOlicious-New/middleware"
	"github.com/Mahmoud-Elqalini/CakeOlicious-New/models"
	"github.com/Mahmoud-Elqalini/CakeOlicious-New/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AdminHandler struct {
	DB       *gorm.DB
	Hub      *ws.Hub
	validate *validator.Validate
}

func NewAdminHandler(db *gorm.DB, hub *ws.Hub) *AdminHandler {
	return &AdminHandler{
		DB:       db,
		Hub:      hub,
		validate: validator.New(),
	}
}

// AddProductForm mirrors the original back-office product form.
type AddProductForm struct {
	ProductName string  `json:"product_name" validate:"required,max=100"`
	Description string  `json:"description" validate:"max=500"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Stock       int     `json:"stock" validate:"min=0"`
	CategoryID  uint    `json:"category_id" validate:"required"`
	ImageURL    string  `json:"image_url" validate:"omitempty,url"`
	Discount    float64 `json:"discount" validate:"gte=0,lte=100"`
}

type UpdatePriceForm struct {
	NewPrice float64 `json:"new_price" validate:"required,gt=0"`
}

type UpdateDiscountForm struct {
	NewDiscount float64 `json:"new_discount" validate:"gte=0,lte=100"`
}

type UpdateOrderStatusForm struct {
	Status string `json:"status" validate:"required"`
}

type ChangePasswordForm struct {
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

func (h *AdminHandler) validationErrors(err error) fiber.Map {
	errs := make(map[string]string)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			errs[fe.Field()] = fe.Tag()
		}
	}
	return fiber.Map{"message": "Validation error", "errors": errs}
}

// Dashboard - GET /admin
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Welcome to the admin dashboard"})
}

// DashboardStats - GET /admin/dashboard
// Aggregate counts plus a recent-activity feed of latest orders and signups.
func (h *AdminHandler) DashboardStats(c *fiber.Ctx) error {
	var productCount, userCount, orderCount int64
	h.DB.Model(&models.Product{}).Count(&productCount)
	h.DB.Model(&models.User{}).Count(&userCount)
	h.DB.Model(&models.Order{}).Count(&orderCount)

	var revenue float64
	h.DB.Model(&models.Order{}).
		Where("status <> ?", models.OrderStatusCancelled).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&revenue)

	var recentOrders []models.Order
	h.DB.Preload("User").Order("order_date desc").Limit(5).Find(&recentOrders)

	var recentUsers []models.User
	h.DB.Order("created_at desc").Limit(5).Find(&recentUsers)

	formattedOrders := make([]fiber.Map, 0, len(recentOrders))
	for _, o := range recentOrders {
		formattedOrders = append(formattedOrders, fiber.Map{
			"id":           o.ID,
			"username":     o.User.Username,
			"total_amount": o.TotalAmount,
			"status":       o.Status,
			"order_date":   o.OrderDate,
		})
	}

	formattedUsers := make([]fiber.Map, 0, len(recentUsers))
	for _, u := range recentUsers {
		formattedUsers = append(formattedUsers, fiber.Map{
			"id":         u.ID,
			"username":   u.Username,
			"created_at": u.CreatedAt,
		})
	}

	return c.JSON(fiber.Map{
		"counts": fiber.Map{
			"products": productCount,
			"users":    userCount,
			"orders":   orderCount,
		},
		"revenue":        round2(revenue),
		"recent_orders":  formattedOrders,
		"recent_signups": formattedUsers,
	})
}

// ManageProducts - GET /admin/products
// Full catalog (active and hidden) together with the category list the
// back-office forms need.
func (h *AdminHandler) ManageProducts(c *fiber.Ctx) error {
	var products []models.Product
	if err := h.DB.Preload("Category").Order("id").Find(&products).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Error fetching products"})
	}

	var categories []models.Category
	if err := h.DB.Find(&categories).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Error fetching products"})
	}

	formatted := make([]fiber.Map, 0, len(products))
	for _, p := range products {
		formatted = append(formatted, fiber.Map{
			"id":                  p.ID,
			"product_name":        p.Name,
			"product_description": p.Description,
			"price":               p.Price,
			"stock":               p.Stock,
			"category_id":         p.CategoryID,
			"category_name":       p.Category.Name,
			"image_url":           p.ImageURL,
			"discount":            p.Discount,
			"is_active":           p.IsActive,
		})
	}

	return c.JSON(fiber.Map{
		"products":   formatted,
		"categories": categories,
	})
}

// AddProduct - POST /admin/product/add
func (h *AdminHandler) AddProduct(c *fiber.Ctx) error {
	var form AddProductForm
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid JSON format"})
	}

	if err := h.validate.Struct(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(h.validationErrors(err))
	}

	var category models.Category
	if err := h.DB.First(&category, form.CategoryID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid category ID"})
	}

	product := models.Product{
		Name:        form.ProductName,
		Description: form.Description,
		Price:       form.Price,
		Stock:       form.Stock,
		CategoryID:  form.CategoryID,
		ImageURL:    form.ImageURL,
		Discount:    form.Discount,
		IsActive:    true,
	}

	if err := h.DB.Create(&product).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Product already exists"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Product added successfully",
		"product_id": product.ID,
	})
}

// DeleteProduct - DELETE /admin/product/delete/:id
func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	productID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid product ID"})
	}

	var product models.Product
	if err := h.DB.First(&product, productID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found"})
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		// Pending carts lose the line; order history keeps its snapshot.
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Error deleting product"})
	}

	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}

// UpdateProductPrice - POST /admin/product/update-price/:id
func (h *AdminHandler) UpdateProductPrice(c *fiber.Ctx) error {
	productID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid product ID"})
	}

	var form UpdatePriceForm
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid JSON format"})
	}
	if err := h.validate.Struct(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(h.validationErrors(err))
	}

	var product models.Product
	if err := h.DB.First(&product, productID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found"})
	}

	if err := h.DB.Model(&product).Update("price", form.NewPrice).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Error updating price"})
	}

	return c.JSON(fiber.Map{"message": "Product price updated successfully"})
}

// UpdateProductDiscount - POST /admin/product/update-discount/:id
func (h *AdminHandler) UpdateProductDiscount(c *fiber.Ctx) error {
	productID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid product ID"})
	}

	var form UpdateDiscountForm
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid JSON format"})
	}
	if err := h.validate.Struct(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(h.validationErrors(err))
	}

	var product models.Product
	if err := h.DB.First(&product, productID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found"})
	}

	if err := h.DB.Model(&product).Update("discount", form.NewDiscount).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Error updating discount"})
	}

	return c.JSON(fiber.Map{"message": "Product discount updated successfully"})
}

// ToggleProduct - POST /admin/product/toggle/:id
// Flips catalog visibility without touching the row otherwise.
func (h *AdminHandler) ToggleProduct(c *fiber.Ctx) error {
	productID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid product ID"})
	}

	var product models.Product
	if err := h.DB.First(&product, productID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found"})
	}

	if err := h.DB.Model(&product).Update("is_active", !product.IsActive).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Error updating product"})
	}

	return c.JSON(fiber.Map{
		"message":   "Product visibility updated",
		"is_active": !product.IsActive,
	})
}

// ManageOrders - GET /admin/orders
func (h *AdminHandler) ManageOrders(c *fiber.Ctx) error {
	var orders []models.Order
	if err := h.DB.Preload("User").Order("order_date desc").Find(&orders).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Error fetching orders"})
	}

	formatted := make([]fiber.Map, 0, len(orders))
	for _, o := range orders {
		formatted = append(formatted, fiber.Map{
			"id":           o.ID,
			"user_id":      o.UserID,
			"username":     o.User.Username,
			"full_name":    o.User.FullName,
			"user_address": o.User.Address,
			"phone_number": o.User.PhoneNumber,
			"total_amount": o.TotalAmount,
			"status":       o.Status,
			"order_date":   o.OrderDate,
		})
	}

	return c.JSON(fiber.Map{"orders": formatted})
}

// GetOrderDetails - GET /admin/order/:id
func (h *AdminHandler) GetOrderDetails(c *fiber.Ctx) error {
	orderID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid order ID"})
	}

	var order models.Order
	if err := h.DB.Preload("User").Preload("Details.Product").First(&order, orderID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Order not found"})
	}

	orderItems := make([]fiber.Map, 0, len(order.Details))
	for _, d := range order.Details {
		orderItems = append(orderItems, fiber.Map{
			"product_name": d.Product.Name,
			"quantity":     d.Quantity,
			"unit_price":   d.UnitPrice,
			"total_price":  round2(d.LineTotal()),
		})
	}

	return c.JSON(fiber.Map{
		"order": fiber.Map{
			"id":           order.ID,
			"user_id":      order.UserID,
			"username":     order.User.Username,
			"full_name":    order.User.FullName,
			"user_address": order.User.Address,
			"phone_number": order.User.PhoneNumber,
			"total_amount": order.TotalAmount,
			"status":       order.Status,
			"order_date":   order.OrderDate,
		},
		"order_items": orderItems,
	})
}

// UpdateOrderStatus - POST /admin/order/update-status/:id
// Transitions are validated against the order status machine.
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	orderID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid order ID"})
	}

	var form UpdateOrderStatusForm
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid JSON format"})
	}
	if err := h.validate.Struct(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(h.validationErrors(err))
	}

	var order models.Order
	if err := h.DB.First(&order, orderID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Order not found"})
	}

	if !models.CanTransitionOrder(order.Status, form.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": fmt.Sprintf("Cannot change order status from %s to %s", order.Status, form.Status),
		})
	}

	if err := h.DB.Model(&order).Update("status", form.Status).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Error updating order status"})
	}

	h.Hub.Publish(ws.EventStatusChanged, fmt.Sprintf("Order #%d moved to %s", order.ID, form.Status), fiber.Map{
		"order_id": order.ID,
		"status":   form.Status,
	})

	return c.JSON(fiber.Map{"message": "Order status updated successfully"})
}

// ManageUsers - GET /admin/users
func (h *AdminHandler) ManageUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := h.DB.Order("id").Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Error fetching users"})
	}

	formatted := make([]fiber.Map, 0, len(users))
	for _, u := range users {
		formatted = append(formatted, fiber.Map{
			"id":           u.ID,
			"username":     u.Username,
			"email":        u.Email,
			"full_name":    u.FullName,
			"user_address": u.Address,
			"phone_number": u.PhoneNumber,
			"user_role":    u.Role,
		})
	}

	return c.JSON(fiber.Map{"users": formatted})
}

// GetUser - GET /admin/user/:id
func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid user ID"})
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
	}

	return c.JSON(fiber.Map{
		"user": fiber.Map{
			"id":           user.ID,
			"username":     user.Username,
			"full_name":    user.FullName,
			"email":        user.Email,
			"phone_number": user.PhoneNumber,
			"address":      user.Address,
			"role":         user.Role,
		},
	})
}

// ChangeUserPassword - PUT /admin/user/change-password/:id
func (h *AdminHandler) ChangeUserPassword(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid user ID"})
	}

	var form ChangePasswordForm
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid JSON format"})
	}
	if err := h.validate.Struct(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(h.validationErrors(err))
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
	}

	hashed, err := utils.HashPassword(form.NewPassword)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Error changing password"})
	}

	if err := h.DB.Model(&user).Update("password", hashed).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Error changing password"})
	}

	return c.JSON(fiber.Map{"message": "Password changed successfully"})
}

// DeleteUser - DELETE /admin/user/delete/:id
// Safeguards: neither admins nor the caller's own account can be deleted.
// The user's cart entries, reviews, orders and payments go with them; the
// user row itself is soft-deleted.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	admin := middleware.CurrentUser(c)

	userID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid user ID"})
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
	}

	if user.ID == admin.ID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "You cannot delete your own account"})
	}
	if user.IsAdmin() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Admin accounts cannot be deleted"})
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		var orderIDs []uint
		if err := tx.Model(&models.Order{}).Where("user_id = ?", user.ID).Pluck("id", &orderIDs).Error; err != nil {
			return err
		}

		if len(orderIDs) > 0 {
			if err := tx.Where("order_id IN ?", orderIDs).Delete(&models.Payment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("order_id IN ?", orderIDs).Delete(&models.OrderDetail{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", orderIDs).Delete(&models.Order{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ?", user.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Review{}).Error; err != nil {
			return err
		}

		return tx.Delete(&user).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Error deleting user"})
	}

	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}

// ManageReviews - GET /admin/reviews
func (h *AdminHandler) ManageReviews(c *fiber.Ctx) error {
	var reviews []models.Review
	if err := h.DB.Preload("User").Preload("Product").Order("created_at desc").Find(&reviews).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Error fetching reviews"})
	}

	formatted := make([]fiber.Map, 0, len(reviews))
	for _, r := range reviews {
		formatted = append(formatted, fiber.Map{
			"product_id":   r.ProductID,
			"product_name": r.Product.Name,
			"user_id":      r.UserID,
			"username":     r.User.Username,
			"full_name":    r.User.FullName,
			"rating":       r.Rating,
			"review_text":  r.ReviewText,
			"review_date":  r.CreatedAt,
		})
	}

	return c.JSON(fiber.Map{"reviews": formatted})
}

// DeleteReview - DELETE /admin/review/delete/:product_id/:user_id
func (h *AdminHandler) DeleteReview(c *fiber.Ctx) error {
	productID, err := c.ParamsInt("product_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid product ID"})
	}
	userID, err := c.ParamsInt("user_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid user ID"})
	}

	var product models.Product
	if err := h.DB.First(&product, productID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found"})
	}
	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
	}

	res := h.DB.Where("product_id = ? AND user_id = ?", productID, userID).Delete(&models.Review{})
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Error deleting review"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "No review found for this product."})
	}

	return c.JSON(fiber.Map{"message": "Review deleted successfully."})
}

// WebSocketUpgradeMiddleware ensures the client is trying to upgrade to WebSocket
func (h *AdminHandler) WebSocketUpgradeMiddleware(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		c.Locals("allowed", true)
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Live - GET /admin/live
// Streams order/signup/payment events to the connected admin dashboard.
func (h *AdminHandler) Live() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		userID, ok := c.Locals("user_id").(uint)
		if !ok || userID == 0 {
			c.Close()
			return
		}

		client := &ws.Client{
			Hub:    h.Hub,
			Conn:   c,
			Send:   make(chan []byte, 16),
			UserID: userID,
		}
		h.Hub.Register <- client

		go client.WritePump()
		client.ReadPump()
	})
}
