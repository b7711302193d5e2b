package handlers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// UploadHandler handles product image uploads
type UploadHandler struct {
	UploadDir string
}

func NewUploadHandler(uploadDir string) *UploadHandler {
	return &UploadHandler{UploadDir: uploadDir}
}

// UploadImage - POST /upload
// Saves a product image and returns its public URL.
func (h *UploadHandler) UploadImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Image file is required",
		})
	}

	// Validate file type (simple check extension)
	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Only .jpg, .jpeg, .png, .gif and .webp files are allowed",
		})
	}

	// Unique filename, optionally prefixed with the product name
	namePart := strings.ToLower(strings.ReplaceAll(c.FormValue("product_name"), " ", "-"))
	if namePart == "" {
		namePart = "product"
	}
	filename := fmt.Sprintf("%s_%s%s", namePart, uuid.New().String()[:8], ext)

	destination := filepath.Join(h.UploadDir, "products", filename)
	if err := c.SaveFile(file, destination); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save file",
		})
	}

	imageURL := fmt.Sprintf("/uploads/products/%s", filename)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":   true,
		"message":   "File uploaded successfully",
		"image_url": imageURL,
		"filename":  filename,
	})
}
