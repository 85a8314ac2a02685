package upload

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"linecrm-service/internal/pkg/response"
	service "linecrm-service/internal/service/upload"

	"github.com/gin-gonic/gin"
)

// Accepted upload extensions. Excel files are accepted at the boundary
// but only CSV content is parsed by the importer.
var allowedExtensions = map[string]bool{
	".csv":  true,
	".xls":  true,
	".xlsx": true,
}

type UploadHandler struct {
	uploadService *service.UploadService
	maxBytes      int64
}

func NewUploadHandler(uploadService *service.UploadService, maxBytes int64) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
		maxBytes:      maxBytes,
	}
}

// Upload accepts a multipart file and starts a background import. The
// response carries the session id for polling or websocket subscription.
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.ValidationError(c, "no file uploaded", err)
		return
	}

	if fileHeader.Size > h.maxBytes {
		response.Error(c, http.StatusRequestEntityTooLarge, "file too large",
			fmt.Errorf("file exceeds the %d byte limit", h.maxBytes))
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedExtensions[ext] {
		response.ValidationError(c, "unsupported file type",
			fmt.Errorf("file extension %q is not supported", ext))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to read file", err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxBytes))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to read file", err)
		return
	}

	session, err := h.uploadService.StartImport(c.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		response.FromError(c, "failed to start import", err)
		return
	}

	response.Success(c, http.StatusOK, "file upload started", gin.H{
		"sessionId": session.ID,
	})
}

func (h *UploadHandler) GetSession(c *gin.Context) {
	session, err := h.uploadService.GetSession(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		response.FromError(c, "upload session not found", err)
		return
	}

	response.Success(c, http.StatusOK, "upload session retrieved", session)
}
