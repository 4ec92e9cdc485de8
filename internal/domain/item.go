package domain

import "time"

type Item struct {
	ID          uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	SKU         string    `json:"sku"`
	Image       string    `json:"image"`
	Price       float64   `json:"price" gorm:"not null"`
	Stock       int64     `json:"stock" gorm:"not null;default:0"`
	IsActive    bool      `json:"isActive" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}
