// internal/handlers/product.go
package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/agrimarket-backend/internal/i18n"
	"github.com/javajoker/agrimarket-backend/internal/services"
	"github.com/javajoker/agrimarket-backend/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
	maxUploadBytes int64
}

func NewProductHandler(productService *services.ProductService, maxUploadSizeMB int) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		maxUploadBytes: int64(maxUploadSizeMB) << 20,
	}
}

// GET /api/products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	products, err := h.productService.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, products)
}

// GET /api/product/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := idParam(c, "id", i18n.KeyProductNotFound)
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, product)
}

// POST /api/products/add
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	if err := c.Request.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", i18n.T(lang, i18n.KeyFileTooLarge), nil)
			return
		}
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileMissingPart), err.Error())
		return
	}

	form := c.Request.MultipartForm
	if len(form.File["image"]) == 0 {
		// A file input submitted with nothing selected arrives as a plain
		// value with an empty filename.
		if _, present := form.Value["image"]; present {
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileNoSelection), nil)
			return
		}
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileMissingPart), nil)
		return
	}
	header := form.File["image"][0]
	if header.Filename == "" || header.Size == 0 {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileNoSelection), nil)
		return
	}
	if !utils.AllowedImage(header.Filename) {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileInvalidType), nil)
		return
	}

	price, err := parsePrice(c.PostForm("price"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyProductInvalidPrice), nil)
		return
	}

	req := services.CreateProductRequest{
		Name:             c.PostForm("name"),
		Price:            price,
		Quantity:         c.PostForm("quantity"),
		ImageName:        header.Filename,
		ImageContentType: header.Header.Get("Content-Type"),
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	file, err := header.Open()
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
		return
	}
	defer file.Close()
	req.Image = file

	if _, err := h.productService.CreateProduct(c.Request.Context(), &req); err != nil {
		respondError(c, err)
		return
	}

	utils.MessageResponse(c, http.StatusCreated, i18n.T(lang, i18n.KeyProductAdded, req.Name))
}

// PUT /api/products/update/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, ok := idParam(c, "id", i18n.KeyProductNotFound)
	if !ok {
		return
	}

	var req services.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	if _, err := h.productService.UpdateProduct(c.Request.Context(), id, &req); err != nil {
		respondError(c, err)
		return
	}

	utils.MessageResponse(c, http.StatusOK, i18n.T(lang, i18n.KeyProductUpdated))
}

// DELETE /api/products/delete/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, ok := idParam(c, "id", i18n.KeyProductNotFound)
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	utils.MessageResponse(c, http.StatusOK, i18n.T(lang, i18n.KeyProductDeleted))
}

func parsePrice(raw string) (float64, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return 0, strconv.ErrRange
	}
	return price, nil
}
