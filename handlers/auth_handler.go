package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/Mahmoud-Elqalini/CakeOlicious-New/internal/ws"
	"github.com/Mahmoud-Elqalini/CakeOlicious-New/middleware"
	"github.com/Mahmoud-Elqalini/CakeOlicious-New/models"
	"github.com/Mahmoud-Elqalini/CakeOlicious-New/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AuthHandler struct {
	DB            *gorm.DB
	Hub           *ws.Hub
	JWTExpiration time.Duration
}

func NewAuthHandler(db *gorm.DB, hub *ws.Hub, jwtExpiration time.Duration) *AuthHandler {
	return &AuthHandler{DB: db, Hub: hub, JWTExpiration: jwtExpiration}
}

// SignupRequest defines the payload for registration
type SignupRequest struct {
	Username    string `json:"username"`
	Password    string `json:"pass_word"`
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	Address     string `json:"user_address"`
	PhoneNumber string `json:"phone_number"`
	Role        string `json:"user_role"`
}

// LoginRequest defines the payload for login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"pass_word"`
}

// Signup - POST /signup
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid JSON format"})
	}

	if req.Username == "" || req.Password == "" || req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Missing required fields"})
	}

	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == "" {
		role = "customer"
	}
	if role != "customer" && role != "admin" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid role value"})
	}

	var existing models.User
	if err := h.DB.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Username already exists"})
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not hash password"})
	}

	var phone *string
	if req.PhoneNumber != "" {
		phone = &req.PhoneNumber
	}

	user := models.User{
		Username:    req.Username,
		Password:    hashedPassword,
		Email:       req.Email,
		FullName:    req.FullName,
		Address:     req.Address,
		PhoneNumber: phone,
		Role:        role,
	}

	if err := h.DB.Create(&user).Error; err != nil {
		// The unique constraints on username/email are the source of truth
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Username or email already exists"})
	}

	h.Hub.Publish(ws.EventUserSignup, fmt.Sprintf("New signup: %s", user.Username), fiber.Map{
		"user_id":  user.ID,
		"username": user.Username,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "User created successfully"})
}

// Login - POST /login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid JSON format"})
	}

	if req.Username == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Missing username or password"})
	}

	var user models.User
	if err := h.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid credentials"})
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid credentials"})
	}

	token, err := utils.GenerateToken(user.ID, user.Role, h.JWTExpiration)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not login"})
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
		},
	})
}

// Logout - POST /logout
// Tokens are stateless; logout is client-side.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Logout successful. Please discard your token."})
}

// Profile - GET /profile
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var orders []models.Order
	if err := h.DB.Where("user_id = ?", user.ID).Order("order_date desc").Find(&orders).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not fetch orders"})
	}

	ordersList := make([]fiber.Map, 0, len(orders))
	for _, order := range orders {
		ordersList = append(ordersList, fiber.Map{
			"order_id":    order.ID,
			"total_price": order.TotalAmount,
			"status":      order.Status,
			"created_at":  order.OrderDate,
		})
	}

	return c.JSON(fiber.Map{
		"user_profile": fiber.Map{
			"id":               user.ID,
			"username":         user.Username,
			"email":            user.Email,
			"phone":            user.PhoneNumber,
			"address":          user.Address,
			"number_of_orders": len(orders),
		},
		"orders": ordersList,
	})
}
