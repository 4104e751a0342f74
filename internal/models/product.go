// internal/models/product.go
package models

import "time"

// Product is an entry in the shared catalog. Any seller may manage any product.
type Product struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:100;not null"`
	Price     float64   `gorm:"not null"`
	Quantity  string    `gorm:"size:50;not null"`
	ImageURL  *string   `gorm:"column:image_url;size:200"`
	UpdatedAt time.Time `gorm:"index"`
}
