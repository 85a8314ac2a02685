package app

import (
	deliveryHandler "linecrm-service/internal/handlers/delivery"
	messageHandler "linecrm-service/internal/handlers/message"
	recordHandler "linecrm-service/internal/handlers/record"
	templateHandler "linecrm-service/internal/handlers/template"
	uploadHandler "linecrm-service/internal/handlers/upload"
	wsHandler "linecrm-service/internal/handlers/wsocket"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	RecordHandler   *recordHandler.RecordHandler
	TemplateHandler *templateHandler.TemplateHandler
	MessageHandler  *messageHandler.MessageHandler
	DeliveryHandler *deliveryHandler.DeliveryHandler
	UploadHandler   *uploadHandler.UploadHandler
	WSHandler       *wsHandler.WebSocketHandler
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	api := r.Group("/api")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== WebSocket ====================
	r.GET("/ws/uploads", h.WSHandler.HandleUploads)

	// ==================== Customer Records ====================
	records := api.Group("/records")
	{
		records.GET("", h.RecordHandler.ListRecords)
		records.POST("", h.RecordHandler.CreateRecord)
		records.GET("/stats", h.RecordHandler.Stats)
		records.POST("/bulk-delete", h.RecordHandler.BulkDelete)
		records.GET("/:id", h.RecordHandler.GetRecord)
		records.PATCH("/:id", h.RecordHandler.UpdateRecord)
		records.DELETE("/:id", h.RecordHandler.DeleteRecord)
		records.GET("/:id/validate", h.RecordHandler.ValidateRecord)
	}

	// ==================== Message Templates ====================
	templates := api.Group("/templates")
	{
		templates.GET("", h.TemplateHandler.ListTemplates)
		templates.POST("", h.TemplateHandler.CreateTemplate)
		templates.GET("/:id", h.TemplateHandler.GetTemplate)
		templates.POST("/:id/preview", h.TemplateHandler.Preview)
	}

	// ==================== LINE Messaging ====================
	messages := api.Group("/messages")
	{
		messages.POST("/bulk", h.MessageHandler.SendBulk)
		messages.POST("/dispatch", h.MessageHandler.Dispatch)
		messages.GET("/status", h.MessageHandler.Status)
	}

	// ==================== Deliveries ====================
	deliveries := api.Group("/deliveries")
	{
		deliveries.GET("", h.DeliveryHandler.ListDeliveries)
		deliveries.POST("", h.DeliveryHandler.CreateDelivery)
		deliveries.GET("/:id", h.DeliveryHandler.GetDelivery)
		deliveries.PATCH("/:id", h.DeliveryHandler.UpdateDelivery)
		deliveries.DELETE("/:id", h.DeliveryHandler.DeleteDelivery)
		deliveries.POST("/:id/response", h.DeliveryHandler.RecordResponse)
	}

	// ==================== Reporting ====================
	api.GET("/stats", h.DeliveryHandler.Stats)
	api.GET("/performance", h.DeliveryHandler.Performance)
	api.GET("/reschedule-reasons", h.DeliveryHandler.RescheduleReasons)
	api.GET("/export", h.DeliveryHandler.Export)

	// ==================== File Upload ====================
	api.POST("/upload", h.UploadHandler.Upload)
	api.GET("/upload/:sessionId", h.UploadHandler.GetSession)
}
