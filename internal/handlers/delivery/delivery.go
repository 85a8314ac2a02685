package delivery

import (
	"net/http"
	"strconv"

	"linecrm-service/internal/domain/delivery"
	"linecrm-service/internal/pkg/response"
	service "linecrm-service/internal/service/delivery"

	"github.com/gin-gonic/gin"
)

type DeliveryHandler struct {
	deliveryService *service.DeliveryService
}

func NewDeliveryHandler(deliveryService *service.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{
		deliveryService: deliveryService,
	}
}

func (h *DeliveryHandler) ListDeliveries(c *gin.Context) {
	var filters delivery.ListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	result, err := h.deliveryService.ListDeliveries(c.Request.Context(), &filters)
	if err != nil {
		response.FromError(c, "failed to list deliveries", err)
		return
	}

	response.Success(c, http.StatusOK, "deliveries retrieved", result)
}

func (h *DeliveryHandler) GetDelivery(c *gin.Context) {
	result, err := h.deliveryService.GetDelivery(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, "delivery not found", err)
		return
	}

	response.Success(c, http.StatusOK, "delivery retrieved", result)
}

func (h *DeliveryHandler) CreateDelivery(c *gin.Context) {
	var req delivery.CreateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.deliveryService.CreateDelivery(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "failed to create delivery", err)
		return
	}

	response.Success(c, http.StatusCreated, "delivery created", result)
}

func (h *DeliveryHandler) UpdateDelivery(c *gin.Context) {
	var req delivery.UpdateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.deliveryService.UpdateDelivery(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		response.FromError(c, "failed to update delivery", err)
		return
	}

	response.Success(c, http.StatusOK, "delivery updated", result)
}

func (h *DeliveryHandler) DeleteDelivery(c *gin.Context) {
	if err := h.deliveryService.DeleteDelivery(c.Request.Context(), c.Param("id")); err != nil {
		response.FromError(c, "failed to delete delivery", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RecordResponse applies a customer reply to a delivery.
func (h *DeliveryHandler) RecordResponse(c *gin.Context) {
	var req delivery.RecordResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.deliveryService.RecordResponse(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		response.FromError(c, "failed to record response", err)
		return
	}

	response.Success(c, http.StatusOK, "response recorded", result)
}

func (h *DeliveryHandler) Stats(c *gin.Context) {
	result, err := h.deliveryService.Stats(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to compute statistics", err)
		return
	}

	response.Success(c, http.StatusOK, "statistics retrieved", result)
}

func (h *DeliveryHandler) Performance(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))

	result, err := h.deliveryService.DailyPerformance(c.Request.Context(), days)
	if err != nil {
		response.FromError(c, "failed to compute performance", err)
		return
	}

	response.Success(c, http.StatusOK, "performance retrieved", result)
}

func (h *DeliveryHandler) RescheduleReasons(c *gin.Context) {
	result, err := h.deliveryService.RescheduleReasons(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to compute reschedule reasons", err)
		return
	}

	response.Success(c, http.StatusOK, "reschedule reasons retrieved", result)
}

// Export streams the filtered deliveries as a CSV attachment.
func (h *DeliveryHandler) Export(c *gin.Context) {
	var filters delivery.ListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	data, err := h.deliveryService.ExportCSV(c.Request.Context(), &filters)
	if err != nil {
		response.FromError(c, "failed to export deliveries", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="deliveries.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}
