package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server Settings
	AppPort     string
	HOST        string
	DatabaseURL string

	// JWT Settings
	JWTSecret     string
	JWTExpiration time.Duration

	// Upload Settings
	UploadDir string

	// CORS Settings
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
}

func LoadConfig() *Config {
	// Load configuration from a .env file if one is present; in production
	// the variables come straight from the environment.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	config := &Config{
		AppPort:     getEnv("PORT", "5000"),
		HOST:        getEnv("HOST", "0.0.0.0"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTExpiration: getEnvDuration("JWT_EXPIRES_IN_HOURS", 72) * time.Hour,

		UploadDir: getEnv("UPLOAD_DIR", "./uploads"),

		CORSAllowOrigins: []string{"*"},
		CORSAllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		CORSAllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
	}

	return config
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return time.Duration(n)
		}
	}
	return time.Duration(fallback)
}
