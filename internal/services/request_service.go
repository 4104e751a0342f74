// internal/services/request_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/agrimarket-backend/internal/i18n"
	"github.com/javajoker/agrimarket-backend/internal/models"
	"github.com/javajoker/agrimarket-backend/internal/utils"
)

type RequestService struct {
	db     *gorm.DB
	policy StatusPolicy
}

type CreateRequestRequest struct {
	ProductID *utils.FlexID `json:"product_id" validate:"required"`
	Quantity  *string       `json:"quantity" validate:"required"`
}

type UpdateRequestStatusRequest struct {
	Status string `json:"status"`
}

// SellerRequestView is one row of the seller's request board.
type SellerRequestView struct {
	RequestID         uint   `json:"request_id"`
	BuyerName         string `json:"buyer_name"`
	BuyerContact      string `json:"buyer_contact"`
	ProductName       string `json:"product_name"`
	RequestedQuantity string `json:"requested_quantity"`
	Status            string `json:"status"`
	RequestedAt       string `json:"requested_at"`
}

// BuyerRequestView is one row of a buyer's own request list.
type BuyerRequestView struct {
	RequestID         uint   `json:"request_id"`
	ProductName       string `json:"product_name"`
	RequestedQuantity string `json:"requested_quantity"`
	Status            string `json:"status"`
	RequestedAt       string `json:"requested_at"`
}

func NewRequestService(db *gorm.DB, policy StatusPolicy) *RequestService {
	return &RequestService{
		db:     db,
		policy: policy,
	}
}

func (s *RequestService) CreateRequest(ctx context.Context, buyerID uint, req *CreateRequestRequest) (*models.Request, error) {
	if req.ProductID == nil || req.Quantity == nil || strings.TrimSpace(*req.Quantity) == "" {
		return nil, newError(ErrBadRequest, i18n.KeyValidationMissingData)
	}

	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.Product{}).Where("id = ?", uint(*req.ProductID)).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if count == 0 {
		return nil, newError(ErrNotFound, i18n.KeyProductNotFound)
	}

	request := &models.Request{
		UserID:            buyerID,
		ProductID:         uint(*req.ProductID),
		RequestedQuantity: *req.Quantity,
		Status:            models.RequestStatusPending,
	}
	if err := db.Omit(clause.Associations).Create(request).Error; err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return request, nil
}

// ListForSeller returns every request with buyer and product, newest first.
func (s *RequestService) ListForSeller(ctx context.Context) ([]SellerRequestView, error) {
	var requests []models.Request
	if err := s.db.WithContext(ctx).
		Joins("User").
		Joins("Product").
		Order("requests.requested_at DESC").
		Order("requests.id DESC").
		Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch requests: %w", err)
	}

	views := make([]SellerRequestView, 0, len(requests))
	for _, r := range requests {
		views = append(views, SellerRequestView{
			RequestID:         r.ID,
			BuyerName:         r.User.FullName,
			BuyerContact:      r.User.PhoneNumber,
			ProductName:       r.Product.Name,
			RequestedQuantity: r.RequestedQuantity,
			Status:            string(r.Status),
			RequestedAt:       formatTime(r.RequestedAt),
		})
	}
	return views, nil
}

// ListForBuyer returns the buyer's own requests, newest first.
func (s *RequestService) ListForBuyer(ctx context.Context, buyerID uint) ([]BuyerRequestView, error) {
	var requests []models.Request
	if err := s.db.WithContext(ctx).
		Joins("Product").
		Where("requests.user_id = ?", buyerID).
		Order("requests.requested_at DESC").
		Order("requests.id DESC").
		Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch requests: %w", err)
	}

	views := make([]BuyerRequestView, 0, len(requests))
	for _, r := range requests {
		views = append(views, BuyerRequestView{
			RequestID:         r.ID,
			ProductName:       r.Product.Name,
			RequestedQuantity: r.RequestedQuantity,
			Status:            string(r.Status),
			RequestedAt:       formatTime(r.RequestedAt),
		})
	}
	return views, nil
}

func (s *RequestService) UpdateStatus(ctx context.Context, id uint, req *UpdateRequestStatusRequest) (*models.Request, error) {
	db := s.db.WithContext(ctx)

	var request models.Request
	if err := db.First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrNotFound, i18n.KeyRequestNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	status := models.RequestStatus(req.Status)
	if !sellerSettable(status) {
		return nil, newError(ErrBadRequest, i18n.KeyRequestInvalidStatus)
	}
	if !s.policy.Allow(request.Status, status) {
		return nil, newError(ErrBadRequest, i18n.KeyRequestTransitionBlocked, request.Status, status)
	}

	if err := db.Model(&request).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("failed to update request: %w", err)
	}
	return &request, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
