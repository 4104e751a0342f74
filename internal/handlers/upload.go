// internal/handlers/upload.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/agrimarket-backend/internal/i18n"
	"github.com/javajoker/agrimarket-backend/internal/services"
	"github.com/javajoker/agrimarket-backend/internal/utils"
)

type UploadHandler struct {
	files services.FileStore
}

func NewUploadHandler(files services.FileStore) *UploadHandler {
	return &UploadHandler{files: files}
}

// GET /uploads/:filename
func (h *UploadHandler) ServeFile(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	file, err := h.files.Open(c.Request.Context(), c.Param("filename"))
	if err != nil {
		if errors.Is(err, services.ErrFileNotFound) || errors.Is(err, services.ErrInvalidFileName) {
			utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyFileNotFound))
			return
		}
		respondError(c, err)
		return
	}
	defer file.Body.Close()

	c.DataFromReader(http.StatusOK, file.Size, file.ContentType, file.Body, nil)
}
