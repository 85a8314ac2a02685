package template

import "time"

// Template is a reusable message body with bracketed placeholder tokens,
// e.g. "สวัสดีครับ คุณ[ชื่อลูกค้า]". Templates are immutable once created;
// in-flight dispatches always see the content they started with.
type Template struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Content     string    `json:"content"`
	Variables   []string  `json:"variables"`
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}

type CreateTemplateRequest struct {
	Name        string `json:"name" binding:"required"`
	Content     string `json:"content" binding:"required"`
	Description string `json:"description"`
}

// PreviewRequest asks for a template rendered against one stored record.
type PreviewRequest struct {
	RecordID string `json:"recordId" binding:"required"`
}

type PreviewResponse struct {
	Message       string   `json:"message"`
	IsValid       bool     `json:"isValid"`
	MissingFields []string `json:"missingFields"`
}
