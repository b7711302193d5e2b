package config

import (
	"log"

	"github.com/Mahmoud-Elqalini/CakeOlicious-New/models"
	"github.com/Mahmoud-Elqalini/CakeOlicious-New/utils"
	"gorm.io/gorm"
)

func SeedCategories(db *gorm.DB) {
	categories := []models.Category{
		{Name: "Cakes"},
		{Name: "Pastries"},
		{Name: "Chocolates"},
		{Name: "Juices"},
		{Name: "Breads"},
	}

	for _, category := range categories {
		var existing models.Category
		if err := db.Where("name = ?", category.Name).First(&existing).Error; err == gorm.ErrRecordNotFound {
			if err := db.Create(&category).Error; err != nil {
				log.Printf("Failed to seed category %s: %v", category.Name, err)
			}
		}
	}
}

func SeedUsers(db *gorm.DB) {
	log.Println("🌱 Seeding users...")

	password, _ := utils.HashPassword("password123")

	users := []models.User{
		{
			Username: "admin",
			Email:    "admin@cakeolicious.com",
			Password: password,
			FullName: "Store Admin",
			Role:     "admin",
		},
		{
			Username: "customer1",
			Email:    "customer1@example.com",
			Password: password,
			FullName: "Customer One",
			Address:  "12 Bakery Street",
			Role:     "customer",
		},
	}

	for _, user := range users {
		var existingUser models.User
		if err := db.Where("email = ?", user.Email).First(&existingUser).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := db.Create(&user).Error; err != nil {
					log.Printf("Failed to seed user %s: %v", user.Username, err)
				} else {
					log.Printf("User seeded: %s (ID: %d)", user.Username, user.ID)
				}
			}
		} else {
			log.Printf("User already exists: %s", user.Username)
		}
	}

	log.Println("✅ Seeding complete.")
}

func SeedProducts(db *gorm.DB) {
	log.Println("🌱 Seeding products...")

	var cakes, juices models.Category
	db.Where("name = ?", "Cakes").First(&cakes)
	db.Where("name = ?", "Juices").First(&juices)

	products := []models.Product{
		{
			Name:        "Chocolate Fudge Cake",
			Description: "Rich chocolate sponge layered with fudge frosting",
			Price:       24.99,
			Stock:       20,
			CategoryID:  cakes.ID,
			Discount:    10,
		},
		{
			Name:        "Red Velvet Cake",
			Description: "Classic red velvet with cream cheese frosting",
			Price:       27.50,
			Stock:       15,
			CategoryID:  cakes.ID,
		},
		{
			Name:        "Fresh Orange Juice",
			Description: "Squeezed daily, no added sugar",
			Price:       4.50,
			Stock:       50,
			CategoryID:  juices.ID,
		},
	}

	for _, product := range products {
		var existing models.Product
		if err := db.Where("name = ?", product.Name).First(&existing).Error; err == gorm.ErrRecordNotFound {
			if err := db.Create(&product).Error; err != nil {
				log.Printf("Failed to seed product %s: %v", product.Name, err)
			}
		}
	}

	log.Println("✅ Seeding complete.")
}
