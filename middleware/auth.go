package middleware

import (
	"errors"
	"fmt"

	"github.com/Mahmoud-Elqalini/CakeOlicious-New/models"
	"github.com/Mahmoud-Elqalini/CakeOlicious-New/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AuthRequired verifies the bearer token and loads the user behind it.
// The user is stored in Locals under "user" for downstream handlers.
func AuthRequired(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Token is missing!",
			})
		}

		var tokenString string
		fmt.Sscanf(authHeader, "Bearer %s", &tokenString)

		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid Authorization header format",
			})
		}

		userID, _, err := utils.ParseToken(tokenString)
		if err != nil {
			if errors.Is(err, utils.ErrTokenExpired) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"message": "Token has expired!",
				})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Token is invalid!",
			})
		}

		// The token may outlive the account, load the user on every request
		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "User not found",
			})
		}

		c.Locals("user", &user)
		c.Locals("user_id", user.ID)
		c.Locals("role", user.Role)

		return c.Next()
	}
}

// AdminOnly rejects callers whose role is not admin. Must run after
// AuthRequired.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals("user").(*models.User)
		if !ok || !user.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Unauthorized access",
			})
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated user loaded by AuthRequired.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}
