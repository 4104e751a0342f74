// internal/services/auth_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/agrimarket-backend/internal/i18n"
	"github.com/javajoker/agrimarket-backend/internal/models"
	"github.com/javajoker/agrimarket-backend/internal/utils"
)

type AuthService struct {
	db       *gorm.DB
	verifier IdentityVerifier
}

type RegisterRequest struct {
	FullName    string `json:"full_name" validate:"required,max=150"`
	Email       string `json:"email" validate:"required,email,max=150"`
	Password    string `json:"password" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required,max=20"`
	Address     string `json:"address" validate:"required,max=200"`
	Gender      string `json:"gender" validate:"required,max=20"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type FederatedLoginRequest struct {
	Token string `json:"token" validate:"required"`
}

func NewAuthService(db *gorm.DB, verifier IdentityVerifier) *AuthService {
	return &AuthService{
		db:       db,
		verifier: verifier,
	}
}

// Register creates a local account. It does not log the user in.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	db := s.db.WithContext(ctx)

	// Check if user already exists
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		return nil, newError(ErrConflict, i18n.KeyAuthEmailRegistered)
	}

	user := &models.User{
		FullName:    req.FullName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		Gender:      req.Gender,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newError(ErrConflict, i18n.KeyAuthEmailRegistered)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrUnauthenticated, i18n.KeyAuthInvalidCredentials)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := user.CheckPassword(req.Password); err != nil {
		return nil, newError(ErrUnauthenticated, i18n.KeyAuthInvalidCredentials)
	}

	return &user, nil
}

// FederatedLogin resolves a third-party identity token to a local user,
// creating one with placeholder contact details on first sight of the email.
func (s *AuthService) FederatedLogin(ctx context.Context, req *FederatedLoginRequest) (*models.User, error) {
	identity, err := s.verifier.Verify(ctx, req.Token)
	if err != nil {
		logrus.WithError(err).Warn("Federated token rejected")
		return nil, newError(ErrUnauthenticated, i18n.KeyAuthInvalidGoogleToken)
	}

	db := s.db.WithContext(ctx)

	var user models.User
	err = db.Where("email = ?", identity.Email).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	secret, err := utils.GenerateRandomSecret(16)
	if err != nil {
		return nil, fmt.Errorf("failed to generate password: %w", err)
	}

	user = models.User{
		FullName:    identity.Name,
		Email:       identity.Email,
		PhoneNumber: models.PlaceholderPhoneNumber,
		Address:     models.PlaceholderAddress,
		Gender:      models.PlaceholderGender,
	}
	if err := user.SetPassword(secret); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := db.Create(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		// A concurrent login created the row first.
		if err := db.Where("email = ?", identity.Email).First(&user).Error; err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
	}

	return &user, nil
}
