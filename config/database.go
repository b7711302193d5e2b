package config

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ConnectDatabase opens the Postgres connection pool used by all handlers.
// The database is the sole source of truth; there is no in-process cache.
func ConnectDatabase(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return db, nil
}
