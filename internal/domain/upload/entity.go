package upload

import (
	"context"
	"time"
)

type SessionStatus string

const (
	StatusPending    SessionStatus = "pending"
	StatusProcessing SessionStatus = "processing"
	StatusCompleted  SessionStatus = "completed"
	StatusFailed     SessionStatus = "failed"
)

// RowError describes one rejected import row.
type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// Session tracks the lifecycle of one bulk file import.
type Session struct {
	ID           string        `json:"id"`
	Filename     string        `json:"filename"`
	TotalRecords int           `json:"totalRecords"`
	SuccessCount int           `json:"successCount"`
	ErrorCount   int           `json:"errorCount"`
	Status       SessionStatus `json:"status"`
	Errors       []RowError    `json:"errors,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
}

type Repository interface {
	Find(ctx context.Context, id string) (*Session, error)
	Create(ctx context.Context, s *Session) error
	Update(ctx context.Context, id string, s *Session) error
}
