package handlers

import (
	"github.com/Mahmoud-Elqalini/CakeOlicious-New/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CategoryHandler struct {
	DB *gorm.DB
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{DB: db}
}

// GetCategories - GET /categories
func (h *CategoryHandler) GetCategories(c *fiber.Ctx) error {
	var categories []models.Category
	if err := h.DB.Find(&categories).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not fetch categories"})
	}
	return c.JSON(fiber.Map{"categories": categories})
}

// GetCategoryProducts - GET /categories/:id/products
func (h *CategoryHandler) GetCategoryProducts(c *fiber.Ctx) error {
	categoryID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid category ID"})
	}

	page := c.QueryInt("page", 1)
	perPage := c.QueryInt("per_page", 10)
	if page < 1 || perPage < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid pagination parameters"})
	}

	var category models.Category
	if err := h.DB.First(&category, categoryID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Category not found"})
	}

	var total int64
	if err := h.DB.Model(&models.Product{}).
		Where("category_id = ? AND is_active = ?", categoryID, true).
		Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not fetch products"})
	}

	var products []models.Product
	if err := h.DB.Where("category_id = ? AND is_active = ?", categoryID, true).
		Order("id").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&products).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Could not fetch products"})
	}

	return c.JSON(fiber.Map{
		"category": fiber.Map{
			"id":   category.ID,
			"name": category.Name,
		},
		"products":   products,
		"pagination": models.NewPaginationMeta(page, perPage, total),
	})
}

// CreateCategory - POST /categories (admin only)
func (h *CategoryHandler) CreateCategory(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"category_name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid JSON format"})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Category name is required"})
	}

	category := models.Category{Name: req.Name}
	if err := h.DB.Create(&category).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Category already exists"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Category created successfully",
		"category": category,
	})
}
