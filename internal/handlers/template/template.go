package template

import (
	"net/http"

	"linecrm-service/internal/domain/template"
	"linecrm-service/internal/pkg/response"
	service "linecrm-service/internal/service/template"

	"github.com/gin-gonic/gin"
)

type TemplateHandler struct {
	templateService *service.TemplateService
}

func NewTemplateHandler(templateService *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{
		templateService: templateService,
	}
}

func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	result, err := h.templateService.ListTemplates(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to list templates", err)
		return
	}

	response.Success(c, http.StatusOK, "templates retrieved", result)
}

func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	result, err := h.templateService.GetTemplate(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, "template not found", err)
		return
	}

	response.Success(c, http.StatusOK, "template retrieved", result)
}

func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	var req template.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.templateService.CreateTemplate(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "failed to create template", err)
		return
	}

	response.Success(c, http.StatusCreated, "template created", result)
}

// Preview renders the template against one record, reporting variables
// the record cannot fill.
func (h *TemplateHandler) Preview(c *gin.Context) {
	var req template.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.templateService.Preview(c.Request.Context(), c.Param("id"), req.RecordID)
	if err != nil {
		response.FromError(c, "failed to preview template", err)
		return
	}

	response.Success(c, http.StatusOK, "template previewed", result)
}
