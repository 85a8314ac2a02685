// Package upload implements the bulk CSV import: a session per file,
// row-by-row parsing in a background goroutine, and progress pushed to
// websocket subscribers.
package upload

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"linecrm-service/internal/domain/delivery"
	"linecrm-service/internal/domain/record"
	"linecrm-service/internal/domain/upload"
	xerrors "linecrm-service/internal/pkg/errors"
	"linecrm-service/internal/pkg/id"
	"linecrm-service/internal/pkg/validation"
	"linecrm-service/internal/ws"

	"go.uber.org/zap"
)

// progressEvery is how many rows pass between progress snapshots.
const progressEvery = 10

var requiredColumns = []string{"user_id", "order_no", "delivery_date"}

type UploadService struct {
	uploadRepo   upload.Repository
	deliveryRepo delivery.Repository
	recordRepo   record.Repository
	hub          *ws.Hub
	logger       *zap.Logger
}

func NewUploadService(
	uploadRepo upload.Repository,
	deliveryRepo delivery.Repository,
	recordRepo record.Repository,
	hub *ws.Hub,
	logger *zap.Logger,
) *UploadService {
	return &UploadService{
		uploadRepo:   uploadRepo,
		deliveryRepo: deliveryRepo,
		recordRepo:   recordRepo,
		hub:          hub,
		logger:       logger,
	}
}

// StartImport creates a processing session and parses the file in the
// background. The returned session carries the id clients poll or
// subscribe with; processing outlives the upload request.
func (s *UploadService) StartImport(ctx context.Context, filename string, data []byte) (*upload.Session, error) {
	session := &upload.Session{
		ID:        id.New(),
		Filename:  filename,
		Status:    upload.StatusProcessing,
		CreatedAt: time.Now(),
	}
	if err := s.uploadRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create upload session: %w", err)
	}

	s.logger.Info("import started",
		zap.String("session_id", session.ID),
		zap.String("filename", filename),
		zap.Int("bytes", len(data)),
	)
	go s.process(context.WithoutCancel(ctx), *session, data)

	return session, nil
}

func (s *UploadService) GetSession(ctx context.Context, sessionID string) (*upload.Session, error) {
	return s.uploadRepo.Find(ctx, sessionID)
}

func (s *UploadService) process(ctx context.Context, session upload.Session, data []byte) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		s.fail(ctx, &session, "Failed to process file")
		return
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			s.fail(ctx, &session, fmt.Sprintf("Missing required column: %s", name))
			return
		}
	}

	cell := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	rowNum := 1 // header is row 1
	for {
		row, err := reader.Read()
		if err != nil {
			break
		}
		rowNum++
		session.TotalRecords++

		if rowErr := s.importRow(ctx, row, cell); rowErr != "" {
			session.ErrorCount++
			session.Errors = append(session.Errors, upload.RowError{Row: rowNum, Error: rowErr})
		} else {
			session.SuccessCount++
		}

		if session.TotalRecords%progressEvery == 0 {
			s.publish(ctx, &session)
		}
	}

	session.Status = upload.StatusCompleted
	s.publish(ctx, &session)
	s.logger.Info("import finished",
		zap.String("session_id", session.ID),
		zap.Int("total", session.TotalRecords),
		zap.Int("success", session.SuccessCount),
		zap.Int("errors", session.ErrorCount),
	)
}

// importRow creates one pending delivery, plus a customer record when
// the row carries a customer name. It returns a row error message, or
// empty on success.
func (s *UploadService) importRow(ctx context.Context, row []string, cell func([]string, string) string) string {
	userID := cell(row, "user_id")
	orderNo := cell(row, "order_no")
	deliveryDate := cell(row, "delivery_date")
	customerName := cell(row, "customer_name")

	if userID == "" {
		return "Missing required field: user_id"
	}
	if orderNo == "" {
		return "Missing required field: order_no"
	}
	if deliveryDate == "" {
		return "Missing required field: delivery_date"
	}
	if _, err := time.Parse("2006-01-02", deliveryDate); err != nil {
		return "Invalid date format"
	}
	if !validation.ValidateLineUserID(userID).IsValid {
		return "Invalid user_id format"
	}

	if customerName != "" {
		rec := &record.CustomerRecord{
			ID:              id.New(),
			CustomerName:    customerName,
			Phone:           validation.FormatPhone(cell(row, "phone")),
			LineUserID:      userID,
			OrderNumber:     validation.FormatOrderNumber(orderNo),
			DeliveryDate:    deliveryDate,
			DeliveryAddress: cell(row, "address"),
			Notes:           cell(row, "notes"),
			Status:          record.StatusReady,
			LastModified:    time.Now(),
			CreatedAt:       time.Now(),
		}
		if len(validation.ValidateRecord(validation.RecordInput{
			CustomerName:    rec.CustomerName,
			Phone:           rec.Phone,
			LineUserID:      rec.LineUserID,
			OrderNumber:     rec.OrderNumber,
			DeliveryDate:    rec.DeliveryDate,
			DeliveryAddress: rec.DeliveryAddress,
		})) > 0 {
			rec.Status = record.StatusInvalid
		}
		if err := s.recordRepo.Create(ctx, rec); err != nil {
			if xerrors.Is(err, xerrors.ErrDuplicateOrder) {
				return fmt.Sprintf("Duplicate order number: %s", rec.OrderNumber)
			}
			return "Failed to store customer record"
		}
	}

	now := time.Now()
	d := &delivery.Delivery{
		ID:           id.New(),
		OrderID:      orderNo,
		UserID:       userID,
		CustomerName: customerName,
		DeliveryDate: deliveryDate,
		Status:       delivery.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.deliveryRepo.Create(ctx, d); err != nil {
		if xerrors.Is(err, xerrors.ErrDuplicateOrder) {
			return fmt.Sprintf("Duplicate order number: %s", orderNo)
		}
		return "Failed to store delivery"
	}
	return ""
}

func (s *UploadService) fail(ctx context.Context, session *upload.Session, reason string) {
	session.Status = upload.StatusFailed
	session.ErrorCount++
	session.Errors = append(session.Errors, upload.RowError{Row: 0, Error: reason})
	s.publish(ctx, session)
	s.logger.Warn("import failed",
		zap.String("session_id", session.ID),
		zap.String("reason", reason),
	)
}

// publish persists the session snapshot and pushes it to subscribers.
func (s *UploadService) publish(ctx context.Context, session *upload.Session) {
	if err := s.uploadRepo.Update(ctx, session.ID, session); err != nil {
		s.logger.Error("failed to update upload session",
			zap.String("session_id", session.ID),
			zap.Error(err),
		)
	}
	s.hub.BroadcastSession(session.ID, session)
}
