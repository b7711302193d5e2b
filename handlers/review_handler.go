package handlers

import (
	"github.com/Mahmoud-Elqalini/CakeOlicious-New/middleware"
	"github.com/Mahmoud-Elqalini/CakeOlicious-New/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ReviewHandler struct {
	DB *gorm.DB
}

func NewReviewHandler(db *gorm.DB) *ReviewHandler {
	return &ReviewHandler{DB: db}
}

type AddReviewRequest struct {
	Rating     int    `json:"rating"`
	ReviewText string `json:"review_text"`
}

// AddReview - POST /product/:name/review
func (h *ReviewHandler) AddReview(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	productName := c.Params("name")

	var req AddReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "fail", "message": "Invalid JSON format"})
	}

	if req.Rating < 1 || req.Rating > 5 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "fail", "message": "Rating must be between 1 and 5"})
	}

	var product models.Product
	if err := h.DB.Where("name = ?", productName).First(&product).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "fail", "message": "Product not found"})
	}

	var existing int64
	h.DB.Model(&models.Review{}).
		Where("product_id = ? AND user_id = ?", product.ID, user.ID).
		Count(&existing)
	if existing > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "fail",
			"message": "You have already reviewed this product.",
		})
	}

	review := models.Review{
		ProductID:  product.ID,
		UserID:     user.ID,
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
	}
	if err := h.DB.Create(&review).Error; err != nil {
		// The unique (product, user) index backstops the check above
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "fail",
			"message": "You have already reviewed this product.",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"message": "Review added successfully.",
		"review": fiber.Map{
			"review_id":   review.ID,
			"product_id":  review.ProductID,
			"user_id":     review.UserID,
			"rating":      review.Rating,
			"review_text": review.ReviewText,
			"review_date": review.CreatedAt,
		},
	})
}

// DeleteReview - DELETE /product/:name/review
// Removes the caller's own review of the product.
func (h *ReviewHandler) DeleteReview(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	productName := c.Params("name")

	var product models.Product
	if err := h.DB.Where("name = ?", productName).First(&product).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found"})
	}

	res := h.DB.Where("product_id = ? AND user_id = ?", product.ID, user.ID).Delete(&models.Review{})
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Error deleting review"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "No review found for this product."})
	}

	return c.JSON(fiber.Map{"message": "Review deleted successfully."})
}
