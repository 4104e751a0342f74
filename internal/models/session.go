// internal/models/session.go
package models

import "time"

// Session backs the database session store.
type Session struct {
	Token     string `gorm:"primaryKey;size:64"`
	UserID    uint   `gorm:"not null;index"`
	CreatedAt time.Time
}
