// internal/models/user.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	FullName     string    `json:"full_name" gorm:"size:150;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:150;not null"`
	PhoneNumber  string    `json:"phone_number" gorm:"size:20;not null"`
	Address      string    `json:"address" gorm:"size:200;not null"`
	Gender       string    `json:"gender" gorm:"size:20;not null"`
	PasswordHash string    `json:"-" gorm:"column:password;size:255;not null"`
	IsSeller     bool      `json:"is_seller" gorm:"default:false;index"`
	CreatedAt    time.Time `json:"-"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
