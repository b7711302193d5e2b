package handlers

import (
	"math"

	"github.com/Mahmoud-Elqalini/CakeOlicious-New/middleware"
	"github.com/Mahmoud-Elqalini/CakeOlicious-New/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ProductHandler struct {
	DB *gorm.DB
}

func NewProductHandler(db *gorm.DB) *ProductHandler {
	return &ProductHandler{DB: db}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// GetProducts - GET /products
// Public catalog listing. Optionally filtered by category_id.
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	query := h.DB.Preload("Category").Where("is_active = ?", true)

	if categoryID := c.QueryInt("category_id"); categoryID > 0 {
		query = query.Where("category_id = ?", categoryID)
	}

	var products []models.Product
	if err := query.Order("id").Find(&products).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Error fetching products"})
	}

	formatted := make([]fiber.Map, 0, len(products))
	for _, p := range products {
		formatted = append(formatted, fiber.Map{
			"id":                  p.ID,
			"product_name":        p.Name,
			"product_description": p.Description,
			"price":               p.Price,
			"discounted_price":    round2(p.DiscountedPrice()),
			"stock":               p.Stock,
			"category_id":         p.CategoryID,
			"category_name":       p.Category.Name,
			"image_url":           p.ImageURL,
			"discount":            p.Discount,
		})
	}

	return c.JSON(fiber.Map{"products": formatted})
}

// GetProductDetails - GET /product/:name
// Product detail plus paginated reviews, average rating and whether the
// caller may still add a review.
func (h *ProductHandler) GetProductDetails(c *fiber.Ctx) error {
	productName := c.Params("name")
	user := middleware.CurrentUser(c)

	page := c.QueryInt("page", 1)
	perPage := c.QueryInt("per_page", 10)
	if page < 1 || perPage < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "fail",
			"message": "Invalid pagination parameters",
		})
	}

	var product models.Product
	if err := h.DB.Preload("Category").Where("name = ?", productName).First(&product).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":  "fail",
			"message": "Product not found",
		})
	}

	stockStatus := "In Stock"
	if product.Stock <= 0 {
		stockStatus = "Out of Stock"
	}

	var totalReviews int64
	if err := h.DB.Model(&models.Review{}).Where("product_id = ?", product.ID).Count(&totalReviews).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "fail", "message": "Database error"})
	}

	var avgRating float64
	h.DB.Model(&models.Review{}).Where("product_id = ?", product.ID).
		Select("COALESCE(AVG(CAST(rating AS FLOAT)), 0)").Scan(&avgRating)

	var reviews []models.Review
	if err := h.DB.Preload("User").Where("product_id = ?", product.ID).
		Order("created_at desc").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&reviews).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "fail", "message": "Database error"})
	}

	formattedReviews := make([]fiber.Map, 0, len(reviews))
	for _, r := range reviews {
		formattedReviews = append(formattedReviews, fiber.Map{
			"product_id":   r.ProductID,
			"product_name": product.Name,
			"user_id":      r.UserID,
			"username":     r.User.Username,
			"rating":       r.Rating,
			"review_text":  r.ReviewText,
			"review_date":  r.CreatedAt,
		})
	}

	// One review per user per product
	var existingReview int64
	h.DB.Model(&models.Review{}).
		Where("product_id = ? AND user_id = ?", product.ID, user.ID).
		Count(&existingReview)

	totalPages := (int(totalReviews) + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Product details and reviews retrieved successfully.",
		"product": fiber.Map{
			"product_id":       product.ID,
			"product_name":     product.Name,
			"description":      product.Description,
			"price":            product.Price,
			"discounted_price": round2(product.DiscountedPrice()),
			"stock":            product.Stock,
			"stock_status":     stockStatus,
			"category_name":    product.Category.Name,
			"image_url":        product.ImageURL,
			"discount":         product.Discount,
			"average_rating":   math.Round(avgRating*10) / 10,
			"total_reviews":    totalReviews,
		},
		"reviews": formattedReviews,
		"pagination": fiber.Map{
			"page":          page,
			"per_page":      perPage,
			"total_reviews": totalReviews,
			"total_pages":   totalPages,
		},
		"can_review": existingReview == 0,
	})
}
