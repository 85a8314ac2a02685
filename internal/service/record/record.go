package record

import (
	"context"
	"fmt"
	"time"

	"linecrm-service/internal/cache"
	"linecrm-service/internal/domain/record"
	xerrors "linecrm-service/internal/pkg/errors"
	"linecrm-service/internal/pkg/id"
	"linecrm-service/internal/pkg/validation"

	"go.uber.org/zap"
)

const (
	defaultPage  = 1
	defaultLimit = 50
	maxLimit     = 200

	statsCacheTTL = 30 * time.Second
)

// FieldValidationError carries per-field validation messages keyed by
// JSON field name. The HTTP layer unwraps it into a 400 with the map.
type FieldValidationError struct {
	Fields map[string]string
}

func (e *FieldValidationError) Error() string {
	return fmt.Sprintf("record validation failed on %d field(s)", len(e.Fields))
}

type RecordService struct {
	recordRepo record.Repository
	cache      *cache.Cache
	logger     *zap.Logger
}

func NewRecordService(recordRepo record.Repository, c *cache.Cache, logger *zap.Logger) *RecordService {
	return &RecordService{
		recordRepo: recordRepo,
		cache:      c,
		logger:     logger,
	}
}

// CreateRecord validates and persists a new customer record. Status
// defaults to ready; clients may set it explicitly, including to invalid
// for records they know need fixing.
func (s *RecordService) CreateRecord(ctx context.Context, req *record.CreateRecordRequest) (*record.CustomerRecord, error) {
	fields := validation.ValidateRecord(validation.RecordInput{
		CustomerName:    req.CustomerName,
		Phone:           req.Phone,
		LineUserID:      req.LineUserID,
		OrderNumber:     req.OrderNumber,
		DeliveryDate:    req.DeliveryDate,
		DeliveryAddress: req.DeliveryAddress,
	})
	if len(fields) > 0 {
		return nil, &FieldValidationError{Fields: fields}
	}

	status := record.RecordStatus(req.Status)
	if req.Status == "" {
		status = record.StatusReady
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown record status %q", xerrors.ErrBadRequest, req.Status)
	}

	now := time.Now()
	rec := &record.CustomerRecord{
		ID:              id.New(),
		CustomerName:    req.CustomerName,
		Phone:           req.Phone,
		LineUserID:      req.LineUserID,
		OrderNumber:     req.OrderNumber,
		DeliveryDate:    req.DeliveryDate,
		DeliveryAddress: req.DeliveryAddress,
		Notes:           req.Notes,
		Status:          status,
		LastModified:    now,
		CreatedAt:       now,
	}

	if err := s.recordRepo.Create(ctx, rec); err != nil {
		if xerrors.Is(err, xerrors.ErrDuplicateOrder) {
			return nil, &FieldValidationError{Fields: map[string]string{
				"orderNumber": "Duplicate order number",
			}}
		}
		s.logger.Error("failed to create record", zap.Error(err))
		return nil, fmt.Errorf("failed to create record: %w", err)
	}

	s.invalidateStats(ctx)
	s.logger.Info("record created",
		zap.String("record_id", rec.ID),
		zap.String("order_number", rec.OrderNumber),
	)
	return rec, nil
}

func (s *RecordService) GetRecord(ctx context.Context, recordID string) (*record.CustomerRecord, error) {
	return s.recordRepo.FindByID(ctx, recordID)
}

// ListRecords applies defaults, checks the sort field against the closed
// allowlist, and returns a paginated page with totals.
func (s *RecordService) ListRecords(ctx context.Context, filters *record.ListFilters) (*record.ListResponse, error) {
	if filters.Page < 1 {
		filters.Page = defaultPage
	}
	if filters.Limit < 1 {
		filters.Limit = defaultLimit
	}
	if filters.Limit > maxLimit {
		filters.Limit = maxLimit
	}
	if filters.SortBy == "" {
		filters.SortBy = "lastModified"
	}
	if filters.SortOrder == "" {
		filters.SortOrder = "desc"
	}
	if !record.SortableFields[filters.SortBy] {
		return nil, fmt.Errorf("%w: unsupported sort field %q", xerrors.ErrBadRequest, filters.SortBy)
	}

	recs, total, err := s.recordRepo.List(ctx, filters)
	if err != nil {
		s.logger.Error("failed to list records", zap.Error(err))
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + filters.Limit - 1) / filters.Limit
	}

	return &record.ListResponse{
		Data:       recs,
		Total:      total,
		Page:       filters.Page,
		Limit:      filters.Limit,
		TotalPages: totalPages,
	}, nil
}

// UpdateRecord applies a partial update. Unless the request sets status
// itself, any data change marks the record edited so operators can see
// what has been touched since import.
func (s *RecordService) UpdateRecord(ctx context.Context, recordID string, req *record.UpdateRecordRequest) (*record.CustomerRecord, error) {
	rec, err := s.recordRepo.FindByID(ctx, recordID)
	if err != nil {
		return nil, err
	}

	changed := false
	apply := func(dst *string, src *string) {
		if src != nil && *src != *dst {
			*dst = *src
			changed = true
		}
	}
	apply(&rec.CustomerName, req.CustomerName)
	apply(&rec.Phone, req.Phone)
	apply(&rec.LineUserID, req.LineUserID)
	apply(&rec.OrderNumber, req.OrderNumber)
	apply(&rec.DeliveryDate, req.DeliveryDate)
	apply(&rec.DeliveryAddress, req.DeliveryAddress)
	apply(&rec.Notes, req.Notes)

	fields := validation.ValidateRecord(validation.RecordInput{
		CustomerName:    rec.CustomerName,
		Phone:           rec.Phone,
		LineUserID:      rec.LineUserID,
		OrderNumber:     rec.OrderNumber,
		DeliveryDate:    rec.DeliveryDate,
		DeliveryAddress: rec.DeliveryAddress,
	})
	if len(fields) > 0 {
		return nil, &FieldValidationError{Fields: fields}
	}

	switch {
	case req.Status != nil:
		status := record.RecordStatus(*req.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown record status %q", xerrors.ErrBadRequest, *req.Status)
		}
		rec.Status = status
	case changed:
		rec.Status = record.StatusEdited
	}

	rec.LastModified = time.Now()

	if err := s.recordRepo.Update(ctx, recordID, rec); err != nil {
		if xerrors.Is(err, xerrors.ErrDuplicateOrder) {
			return nil, &FieldValidationError{Fields: map[string]string{
				"orderNumber": "Duplicate order number",
			}}
		}
		if xerrors.Is(err, xerrors.ErrNotFound) {
			return nil, err
		}
		s.logger.Error("failed to update record", zap.String("record_id", recordID), zap.Error(err))
		return nil, fmt.Errorf("failed to update record: %w", err)
	}

	s.invalidateStats(ctx)
	return rec, nil
}

func (s *RecordService) DeleteRecord(ctx context.Context, recordID string) error {
	if err := s.recordRepo.Delete(ctx, recordID); err != nil {
		return err
	}
	s.invalidateStats(ctx)
	s.logger.Info("record deleted", zap.String("record_id", recordID))
	return nil
}

// BulkDelete removes each requested record independently. Missing ids
// are reported, not fatal, so a half-stale selection still clears what
// it can.
func (s *RecordService) BulkDelete(ctx context.Context, recordIDs []string) (*record.BulkDeleteResult, error) {
	result := &record.BulkDeleteResult{Errors: []string{}}

	for _, recordID := range recordIDs {
		if err := s.recordRepo.Delete(ctx, recordID); err != nil {
			if xerrors.Is(err, xerrors.ErrNotFound) {
				result.Errors = append(result.Errors, fmt.Sprintf("Record with ID %s not found", recordID))
				continue
			}
			return nil, fmt.Errorf("failed to delete record %s: %w", recordID, err)
		}
		result.DeletedCount++
	}

	s.invalidateStats(ctx)
	s.logger.Info("bulk delete finished",
		zap.Int("deleted", result.DeletedCount),
		zap.Int("failed", len(result.Errors)),
	)
	return result, nil
}

// Stats returns per-status record counts. Counts are cached briefly and
// invalidated on every write, so the dashboard can poll freely.
func (s *RecordService) Stats(ctx context.Context) (*record.Stats, error) {
	var cached record.Stats
	if s.cache.Get(ctx, cache.KeyRecordStats, &cached) {
		cached.LastSync = time.Now().Format(time.RFC3339)
		return &cached, nil
	}

	counts, total, err := s.recordRepo.CountByStatus(ctx)
	if err != nil {
		s.logger.Error("failed to count records", zap.Error(err))
		return nil, fmt.Errorf("failed to count records: %w", err)
	}

	stats := &record.Stats{
		TotalRecords: total,
		ReadyToSend:  counts[record.StatusReady],
		Edited:       counts[record.StatusEdited],
		Invalid:      counts[record.StatusInvalid],
		LastSync:     time.Now().Format(time.RFC3339),
	}
	s.cache.Set(ctx, cache.KeyRecordStats, stats, statsCacheTTL)
	return stats, nil
}

// Validate re-runs the field validators against the stored record and
// reports derived validity next to the user-set status.
func (s *RecordService) Validate(ctx context.Context, recordID string) (*record.ValidationReport, error) {
	rec, err := s.recordRepo.FindByID(ctx, recordID)
	if err != nil {
		return nil, err
	}

	fields := validation.ValidateRecord(validation.RecordInput{
		CustomerName:    rec.CustomerName,
		Phone:           rec.Phone,
		LineUserID:      rec.LineUserID,
		OrderNumber:     rec.OrderNumber,
		DeliveryDate:    rec.DeliveryDate,
		DeliveryAddress: rec.DeliveryAddress,
	})

	return &record.ValidationReport{
		IsValid: len(fields) == 0,
		Errors:  fields,
		Status:  rec.Status,
	}, nil
}

func (s *RecordService) invalidateStats(ctx context.Context) {
	s.cache.Invalidate(ctx, cache.KeyRecordStats)
}
