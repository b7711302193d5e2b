package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Login information
	Username string `gorm:"unique;not null;size:80" json:"username"`
	Email    string `gorm:"unique;not null;size:120" json:"email"`
	Password string `gorm:"not null" json:"-"`

	// Profile
	FullName    string  `gorm:"size:120" json:"full_name"`
	Address     string  `gorm:"size:255" json:"address"`
	PhoneNumber *string `gorm:"size:20" json:"phone_number"`

	// Role: customer or admin
	Role string `gorm:"default:'customer';size:20" json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Soft delete so orders keep a valid user reference
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}
