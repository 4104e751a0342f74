// internal/services/product_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/agrimarket-backend/internal/database"
	"github.com/javajoker/agrimarket-backend/internal/i18n"
	"github.com/javajoker/agrimarket-backend/internal/models"
	"github.com/javajoker/agrimarket-backend/internal/utils"
)

type ProductService struct {
	db    *gorm.DB
	files FileStore
}

type ProductResponse struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  string  `json:"quantity"`
	ImageURL  *string `json:"image_url"`
	UpdatedAt string  `json:"updated_at"`
}

type CreateProductRequest struct {
	Name     string  `form:"name" validate:"required,max=100"`
	Price    float64 `form:"price" validate:"gte=0"`
	Quantity string  `form:"quantity" validate:"required,max=50"`

	ImageName        string
	ImageContentType string
	Image            io.Reader
}

// UpdateProductRequest is a partial update; nil fields are left untouched.
type UpdateProductRequest struct {
	Name     *string          `json:"name" validate:"omitempty,max=100"`
	Price    *utils.FlexFloat `json:"price" validate:"omitempty,gte=0"`
	Quantity *string          `json:"quantity" validate:"omitempty,max=50"`
}

func NewProductService(db *gorm.DB, files FileStore) *ProductService {
	return &ProductService{
		db:    db,
		files: files,
	}
}

func (s *ProductService) toResponse(p *models.Product) ProductResponse {
	resp := ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  p.Quantity,
		UpdatedAt: formatTime(p.UpdatedAt),
	}
	if p.ImageURL != nil && *p.ImageURL != "" {
		url := s.files.URL(*p.ImageURL)
		resp.ImageURL = &url
	}
	return resp
}

func (s *ProductService) ListProducts(ctx context.Context) ([]ProductResponse, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).
		Order("updated_at DESC").
		Order("id DESC").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	list := make([]ProductResponse, 0, len(products))
	for i := range products {
		list = append(list, s.toResponse(&products[i]))
	}
	return list, nil
}

func (s *ProductService) getProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrNotFound, i18n.KeyProductNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id uint) (*ProductResponse, error) {
	product, err := s.getProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(product)
	return &resp, nil
}

// CreateProduct stores the image and then the row. If the row cannot be
// written the image is removed again.
func (s *ProductService) CreateProduct(ctx context.Context, req *CreateProductRequest) (*ProductResponse, error) {
	if req.Image == nil || req.ImageName == "" {
		return nil, newError(ErrBadRequest, i18n.KeyFileNoSelection)
	}
	if !utils.AllowedImage(req.ImageName) {
		return nil, newError(ErrBadRequest, i18n.KeyFileInvalidType)
	}

	filename := utils.SecureFilename(req.ImageName)
	if filename == "" || !utils.AllowedImage(filename) {
		return nil, newError(ErrBadRequest, i18n.KeyFileInvalidName)
	}

	if err := s.files.Save(ctx, filename, req.Image, req.ImageContentType); err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	product := &models.Product{
		Name:     req.Name,
		Price:    req.Price,
		Quantity: req.Quantity,
		ImageURL: &filename,
	}
	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		if delErr := s.files.Delete(ctx, filename); delErr != nil {
			logrus.WithError(delErr).WithField("file", filename).Error("Failed to remove image after product insert failed")
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	resp := s.toResponse(product)
	return &resp, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id uint, req *UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.getProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Price != nil {
		updates["price"] = float64(*req.Price)
	}
	if req.Quantity != nil {
		updates["quantity"] = *req.Quantity
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(product).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	return s.GetProduct(ctx, id)
}

// DeleteProduct removes the row (and its requests) first, then the image.
// A failed image delete is logged and left for the orphan sweeper.
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	product, err := s.getProduct(ctx, id)
	if err != nil {
		return err
	}

	err = database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.Request{}).Error; err != nil {
			return err
		}
		return tx.Delete(product).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if product.ImageURL != nil && *product.ImageURL != "" {
		if err := s.files.Delete(ctx, *product.ImageURL); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"product_id": product.ID,
				"file":       *product.ImageURL,
			}).Warn("Error deleting image file")
		}
	}

	return nil
}

// ReferencedImages returns the set of image names still used by a product.
func (s *ProductService) ReferencedImages(ctx context.Context) (map[string]bool, error) {
	var names []string
	if err := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("image_url IS NOT NULL AND image_url <> ''").
		Pluck("image_url", &names).Error; err != nil {
		return nil, fmt.Errorf("failed to list product images: %w", err)
	}

	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set, nil
}
