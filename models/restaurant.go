package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Restaurant struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:255;not null;index"`
	Description *string   `json:"description"`
	Address     string    `json:"address" gorm:"not null"`
	Phone       string    `json:"phone" gorm:"size:20;uniqueIndex;not null"`
	Email       string    `json:"email" gorm:"uniqueIndex;not null"`
	IsActive    bool      `json:"is_active" gorm:"not null"`
	Menus       []Menu    `json:"-" gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE"`
	Reviews     []Review  `json:"-" gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Menu struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	Name         string      `json:"name" gorm:"size:255;not null"`
	Description  *string     `json:"description"`
	IsActive     bool        `json:"is_active" gorm:"not null"`
	RestaurantID uint        `json:"restaurant_id" gorm:"not null;index"`
	Restaurant   *Restaurant `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID"`
	Dishes       []Dish      `json:"-" gorm:"foreignKey:MenuID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

type Dish struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	Name            string          `json:"name" gorm:"size:255;not null;index"`
	Description     *string         `json:"description"`
	Category        *string         `json:"category" gorm:"size:100"`
	Price           decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	IsAvailable     bool            `json:"is_available" gorm:"not null"`
	PrepTimeMinutes uint            `json:"prep_time_minutes" gorm:"not null"`
	MenuID          uint            `json:"menu_id" gorm:"not null;index"`
	Menu            *Menu           `json:"menu,omitempty" gorm:"foreignKey:MenuID"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
