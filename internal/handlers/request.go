// internal/handlers/request.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/agrimarket-backend/internal/i18n"
	"github.com/javajoker/agrimarket-backend/internal/middleware"
	"github.com/javajoker/agrimarket-backend/internal/services"
	"github.com/javajoker/agrimarket-backend/internal/utils"
)

type RequestHandler struct {
	requestService *services.RequestService
}

func NewRequestHandler(requestService *services.RequestService) *RequestHandler {
	return &RequestHandler{
		requestService: requestService,
	}
}

// POST /api/requests/add
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	user := middleware.CurrentUser(c)
	if _, err := h.requestService.CreateRequest(c.Request.Context(), user.ID, &req); err != nil {
		respondError(c, err)
		return
	}

	utils.MessageResponse(c, http.StatusCreated, i18n.T(lang, i18n.KeyRequestCreated))
}

// GET /api/requests
func (h *RequestHandler) GetSellerRequests(c *gin.Context) {
	requests, err := h.requestService.ListForSeller(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, requests)
}

// GET /api/myrequests
func (h *RequestHandler) GetMyRequests(c *gin.Context) {
	user := middleware.CurrentUser(c)

	requests, err := h.requestService.ListForBuyer(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, requests)
}

// POST /api/requests/update/:id
func (h *RequestHandler) UpdateRequestStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, ok := idParam(c, "id", i18n.KeyRequestNotFound)
	if !ok {
		return
	}

	// An unreadable body is an empty status; the service reports an unknown
	// request before an invalid status.
	var req services.UpdateRequestStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req = services.UpdateRequestStatusRequest{}
	}

	if _, err := h.requestService.UpdateStatus(c.Request.Context(), id, &req); err != nil {
		respondError(c, err)
		return
	}

	utils.MessageResponse(c, http.StatusOK, i18n.T(lang, i18n.KeyRequestUpdated, id))
}
