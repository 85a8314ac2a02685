package message

import (
	"fmt"
	"net/http"

	"linecrm-service/internal/domain/dispatch"
	"linecrm-service/internal/pkg/response"
	"linecrm-service/internal/pkg/validation"
	service "linecrm-service/internal/service/dispatch"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	dispatchService *service.DispatchService
}

func NewMessageHandler(dispatchService *service.DispatchService) *MessageHandler {
	return &MessageHandler{
		dispatchService: dispatchService,
	}
}

// SendBulk sends explicit recipient/message pairs. The whole request is
// rejected when any recipient id fails the format check, so a typo in
// one line does not half-send a campaign.
func (h *MessageHandler) SendBulk(c *gin.Context) {
	var req dispatch.BulkMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}
	if len(req.Recipients) == 0 {
		response.ValidationError(c, "no recipients provided", nil)
		return
	}

	invalid := 0
	for _, r := range req.Recipients {
		if !validation.ValidateLineUserID(r.RecipientID).IsValid {
			invalid++
		}
	}
	if invalid > 0 {
		response.ValidationError(c, "invalid recipient ids",
			fmt.Errorf("%d of %d recipient ids are not valid LINE user ids", invalid, len(req.Recipients)))
		return
	}

	result, err := h.dispatchService.SendBulk(c.Request.Context(), req.Recipients)
	if err != nil {
		response.FromError(c, "failed to send messages", err)
		return
	}

	response.Success(c, http.StatusOK, "bulk send finished", result)
}

// Dispatch sends template or literal messages to stored records.
func (h *MessageHandler) Dispatch(c *gin.Context) {
	var req dispatch.DispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.dispatchService.DispatchToRecords(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, "failed to dispatch messages", err)
		return
	}

	response.Success(c, http.StatusOK, "dispatch finished", result)
}

// Status reports provider credential presence and connectivity.
func (h *MessageHandler) Status(c *gin.Context) {
	result := h.dispatchService.ProviderStatus(c.Request.Context())
	response.Success(c, http.StatusOK, "provider status retrieved", result)
}
