// internal/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/agrimarket-backend/internal/i18n"
	"github.com/javajoker/agrimarket-backend/internal/services"
	"github.com/javajoker/agrimarket-backend/internal/utils"
)

// respondError renders a service error with the status its kind maps to.
// Anything that is not a *services.Error is logged and reported as 500.
func respondError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		_ = c.Error(err)
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"route":  c.FullPath(),
		}).Error("Request failed")
		utils.InternalErrorResponse(c)
		return
	}

	message := svcErr.Message(lang)
	switch {
	case errors.Is(err, services.ErrBadRequest):
		utils.BadRequestResponse(c, message, nil)
	case errors.Is(err, services.ErrUnauthenticated):
		utils.UnauthorizedResponse(c, message)
	case errors.Is(err, services.ErrForbidden):
		utils.ForbiddenResponse(c, message)
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, message)
	case errors.Is(err, services.ErrConflict):
		utils.ConflictResponse(c, message)
	default:
		utils.ErrorResponse(c, http.StatusInternalServerError, "INTERNAL_ERROR", message, nil)
	}
}

// bindJSON decodes and validates the body, writing a 400 on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	lang := utils.GetLangFromContext(c)

	if err := c.ShouldBindJSON(req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return false
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return false
	}
	return true
}

// idParam parses a numeric path parameter. A non-numeric id cannot match
// a row, so it is reported with notFoundKey.
func idParam(c *gin.Context, name, notFoundKey string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 0)
	if err != nil || id == 0 {
		utils.NotFoundResponse(c, i18n.T(utils.GetLangFromContext(c), notFoundKey))
		return 0, false
	}
	return uint(id), true
}
