package config

import (
	"log"

	"github.com/Mahmoud-Elqalini/CakeOlicious-New/models"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	// Migrate the schema
	err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderDetail{},
		&models.Payment{},
		&models.Review{},
	)

	if err != nil {
		log.Printf("Failed to migrate database schema: %v", err)
		return err
	}

	log.Println("Database Migrations completed succesfully...")

	// Ensure categories are seeded even on normal migration
	SeedCategories(db)

	return err
}

func ResetAndMigrate(db *gorm.DB) error {
	// Drop all tables
	tables := []interface{}{
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderDetail{},
		&models.Payment{},
		&models.Review{},
	}

	if err := db.Migrator().DropTable(tables...); err != nil {
		log.Printf("Failed to drop tables: %v", err)
		return err
	}

	log.Println("All tables dropped successfully.")

	if err := db.AutoMigrate(tables...); err != nil {
		log.Printf("Failed to auto migrate: %v", err)
		return err
	}

	SeedCategories(db)
	SeedUsers(db)
	SeedProducts(db)

	log.Println("Database reset and migration completed successfully.")
	return nil
}
