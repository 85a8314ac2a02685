package record

import (
	"errors"
	"net/http"

	"linecrm-service/internal/domain/record"
	"linecrm-service/internal/pkg/response"
	service "linecrm-service/internal/service/record"

	"github.com/gin-gonic/gin"
)

type RecordHandler struct {
	recordService *service.RecordService
}

func NewRecordHandler(recordService *service.RecordService) *RecordHandler {
	return &RecordHandler{
		recordService: recordService,
	}
}

// ListRecords returns a filtered, sorted, paginated record page.
func (h *RecordHandler) ListRecords(c *gin.Context) {
	var filters record.ListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	result, err := h.recordService.ListRecords(c.Request.Context(), &filters)
	if err != nil {
		response.FromError(c, "failed to list records", err)
		return
	}

	response.Success(c, http.StatusOK, "records retrieved", result)
}

func (h *RecordHandler) GetRecord(c *gin.Context) {
	result, err := h.recordService.GetRecord(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, "record not found", err)
		return
	}

	response.Success(c, http.StatusOK, "record retrieved", result)
}

func (h *RecordHandler) CreateRecord(c *gin.Context) {
	var req record.CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.recordService.CreateRecord(c.Request.Context(), &req)
	if err != nil {
		var fieldErr *service.FieldValidationError
		if errors.As(err, &fieldErr) {
			response.FieldErrors(c, "record validation failed", fieldErr.Fields)
			return
		}
		response.FromError(c, "failed to create record", err)
		return
	}

	response.Success(c, http.StatusCreated, "record created", result)
}

func (h *RecordHandler) UpdateRecord(c *gin.Context) {
	var req record.UpdateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.recordService.UpdateRecord(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		var fieldErr *service.FieldValidationError
		if errors.As(err, &fieldErr) {
			response.FieldErrors(c, "record validation failed", fieldErr.Fields)
			return
		}
		response.FromError(c, "failed to update record", err)
		return
	}

	response.Success(c, http.StatusOK, "record updated", result)
}

func (h *RecordHandler) DeleteRecord(c *gin.Context) {
	if err := h.recordService.DeleteRecord(c.Request.Context(), c.Param("id")); err != nil {
		response.FromError(c, "failed to delete record", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *RecordHandler) BulkDelete(c *gin.Context) {
	var req record.BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.recordService.BulkDelete(c.Request.Context(), req.IDs)
	if err != nil {
		response.FromError(c, "failed to delete records", err)
		return
	}

	response.Success(c, http.StatusOK, "bulk delete finished", result)
}

func (h *RecordHandler) Stats(c *gin.Context) {
	result, err := h.recordService.Stats(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to compute stats", err)
		return
	}

	response.Success(c, http.StatusOK, "stats retrieved", result)
}

// ValidateRecord reports derived validity without changing the record.
func (h *RecordHandler) ValidateRecord(c *gin.Context) {
	result, err := h.recordService.Validate(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, "record not found", err)
		return
	}

	response.Success(c, http.StatusOK, "record validated", result)
}
