package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// User is an account that can authenticate against the API
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"-" gorm:"not null"`
	IsStaff      bool      `json:"is_staff" gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FullName joins first and last name, trimming the gap when one is missing.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

type Customer struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	FullName  string    `json:"full_name" gorm:"size:255;not null;index"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Phone     string    `json:"phone" gorm:"size:20;uniqueIndex;not null"`
	UserID    *uint     `json:"user" gorm:"uniqueIndex"`
	User      *User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Driver struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	FullName    string          `json:"full_name" gorm:"size:255;not null"`
	Phone       string          `json:"phone" gorm:"size:20;uniqueIndex;not null"`
	VehicleInfo string          `json:"vehicle_info" gorm:"size:255;not null"`
	IsActive    bool            `json:"is_active" gorm:"not null"`
	IsOnline    bool            `json:"is_online" gorm:"not null;default:false"`
	Rating      decimal.Decimal `json:"rating" gorm:"type:decimal(3,2);not null;default:0"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
