// internal/models/request.go
package models

import "time"

// Request is a buyer's purchase request. Only Status changes after creation.
type Request struct {
	ID                uint          `gorm:"primaryKey"`
	UserID            uint          `gorm:"not null;index"`
	ProductID         uint          `gorm:"not null;index"`
	RequestedQuantity string        `gorm:"size:50;not null"`
	Status            RequestStatus `gorm:"type:varchar(50);default:'Pending';not null"`
	RequestedAt       time.Time     `gorm:"autoCreateTime;index"`

	// Relationships
	User    User    `gorm:"foreignKey:UserID"`
	Product Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}
