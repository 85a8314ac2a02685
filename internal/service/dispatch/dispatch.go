// Package dispatch runs the bulk-message workflow: per-recipient state
// tracking, batched concurrent sends against the LINE provider, and a
// synchronous aggregate result.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"linecrm-service/internal/cache"
	"linecrm-service/internal/domain/dispatch"
	"linecrm-service/internal/domain/record"
	"linecrm-service/internal/domain/template"
	xerrors "linecrm-service/internal/pkg/errors"
	"linecrm-service/internal/pkg/line"
	tmpl "linecrm-service/internal/pkg/template"
	"linecrm-service/internal/pkg/validation"

	"go.uber.org/zap"
)

const statusCacheTTL = 60 * time.Second

// ProviderStatus is the /api/messages/status payload.
type ProviderStatus struct {
	line.ConfigStatus
	Connected bool `json:"connected"`
}

type DispatchService struct {
	lineClient   line.Client
	lineConfig   line.Config
	recordRepo   record.Repository
	templateRepo template.Repository
	cache        *cache.Cache
	logger       *zap.Logger

	batchSize   int
	batchPause  time.Duration
	sendTimeout time.Duration
}

func NewDispatchService(
	lineClient line.Client,
	lineConfig line.Config,
	recordRepo record.Repository,
	templateRepo template.Repository,
	c *cache.Cache,
	logger *zap.Logger,
	batchSize int,
	batchPause time.Duration,
	sendTimeout time.Duration,
) *DispatchService {
	if batchSize < 1 {
		batchSize = 10
	}
	return &DispatchService{
		lineClient:   lineClient,
		lineConfig:   lineConfig,
		recordRepo:   recordRepo,
		templateRepo: templateRepo,
		cache:        c,
		logger:       logger,
		batchSize:    batchSize,
		batchPause:   batchPause,
		sendTimeout:  sendTimeout,
	}
}

// SendBulk sends explicit recipient/message pairs. Recipient ids are
// assumed format-checked by the caller; empty ids still fail per item
// rather than aborting the run.
func (s *DispatchService) SendBulk(ctx context.Context, recipients []dispatch.BulkRecipient) (*dispatch.Result, error) {
	items := make([]dispatch.Item, 0, len(recipients))
	for _, r := range recipients {
		items = append(items, dispatch.Item{
			RecipientID: r.RecipientID,
			Message:     r.Message,
			Status:      dispatch.ItemPending,
		})
	}
	return s.run(ctx, items), nil
}

// DispatchToRecords resolves stored records into per-recipient messages
// and runs the send workflow. TemplateID wins over Message when both are
// set. Records that cannot produce a sendable message fail individually;
// only an empty target set or a missing template aborts the dispatch.
func (s *DispatchService) DispatchToRecords(ctx context.Context, req *dispatch.DispatchRequest) (*dispatch.Result, error) {
	if len(req.RecordIDs) == 0 {
		return nil, fmt.Errorf("%w: no records selected", xerrors.ErrBadRequest)
	}
	if req.TemplateID == "" && req.Message == "" {
		return nil, fmt.Errorf("%w: either templateId or message is required", xerrors.ErrBadRequest)
	}

	var t *template.Template
	if req.TemplateID != "" {
		var err error
		t, err = s.templateRepo.FindByID(ctx, req.TemplateID)
		if err != nil {
			return nil, err
		}
	}

	items := make([]dispatch.Item, 0, len(req.RecordIDs))
	for _, recordID := range req.RecordIDs {
		item := dispatch.Item{RecordID: recordID, Status: dispatch.ItemPending}

		rec, err := s.recordRepo.FindByID(ctx, recordID)
		switch {
		case xerrors.Is(err, xerrors.ErrNotFound):
			item.Status = dispatch.ItemFailed
			item.Error = fmt.Sprintf("record %s not found", recordID)
		case err != nil:
			return nil, fmt.Errorf("failed to load record %s: %w", recordID, err)
		default:
			item.RecipientID = rec.LineUserID
			if t != nil {
				item.Message = tmpl.Resolve(t.Content, t.Variables, rec)
			} else {
				item.Message = req.Message
			}
		}
		items = append(items, item)
	}

	return s.run(ctx, items), nil
}

// run drives every item to a terminal state: id checks first, then
// batched concurrent sends. A started run finishes even when ctx is
// cancelled; cancellation only shortens the pauses between batches.
func (s *DispatchService) run(ctx context.Context, items []dispatch.Item) *dispatch.Result {
	sendCtx := context.WithoutCancel(ctx)

	var sendable []*dispatch.Item
	for i := range items {
		item := &items[i]
		if item.Status == dispatch.ItemFailed {
			continue
		}
		switch {
		case item.RecipientID == "":
			item.Status = dispatch.ItemFailed
			item.Error = dispatch.ReasonMissingRecipientID
		case !validation.ValidateLineUserID(item.RecipientID).IsValid:
			item.Status = dispatch.ItemFailed
			item.Error = dispatch.ReasonInvalidRecipientID
		default:
			sendable = append(sendable, item)
		}
	}

	for start := 0; start < len(sendable); start += s.batchSize {
		end := start + s.batchSize
		if end > len(sendable) {
			end = len(sendable)
		}
		batch := sendable[start:end]

		var wg sync.WaitGroup
		for _, item := range batch {
			wg.Add(1)
			go func(item *dispatch.Item) {
				defer wg.Done()
				s.sendOne(sendCtx, item)
			}(item)
		}
		wg.Wait()

		if end < len(sendable) && s.batchPause > 0 {
			select {
			case <-time.After(s.batchPause):
			case <-ctx.Done():
			}
		}
	}

	result := &dispatch.Result{
		TotalSent: len(items),
		Results:   make([]dispatch.RecipientResult, 0, len(items)),
	}
	for i := range items {
		item := &items[i]
		if item.Status == dispatch.ItemSent {
			result.Successful++
		} else {
			result.Failed++
		}
		result.Results = append(result.Results, dispatch.RecipientResult{
			UserID:  item.RecipientID,
			Success: item.Status == dispatch.ItemSent,
			Error:   item.Error,
		})
	}

	s.logger.Info("dispatch finished",
		zap.Int("total", result.TotalSent),
		zap.Int("successful", result.Successful),
		zap.Int("failed", result.Failed),
	)
	return result
}

func (s *DispatchService) sendOne(ctx context.Context, item *dispatch.Item) {
	item.Status = dispatch.ItemSending

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	messageID, err := s.lineClient.PushText(sendCtx, item.RecipientID, item.Message)
	if err != nil {
		item.Status = dispatch.ItemFailed
		item.Error = classifySendError(err)
		s.logger.Warn("message send failed",
			zap.String("recipient_id", item.RecipientID),
			zap.String("reason", item.Error),
		)
		return
	}

	item.Status = dispatch.ItemSent
	s.logger.Debug("message sent",
		zap.String("recipient_id", item.RecipientID),
		zap.String("message_id", messageID),
	)
}

// classifySendError maps transport-level failures onto the generic
// network reason; provider rejections keep the provider's own message.
func classifySendError(err error) string {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.As(err, &netErr) {
		return dispatch.ReasonTransportError
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return dispatch.ReasonProviderRejected
}

// ProviderStatus reports credential presence plus a live connectivity
// probe. The probe result is cached briefly so dashboard polling does not
// hammer the provider.
func (s *DispatchService) ProviderStatus(ctx context.Context) *ProviderStatus {
	var cached ProviderStatus
	if s.cache.Get(ctx, cache.KeyProviderStatus, &cached) {
		return &cached
	}

	status := &ProviderStatus{ConfigStatus: s.lineConfig.Status()}
	if status.IsConfigured {
		probeCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
		defer cancel()
		if err := s.lineClient.TestConnection(probeCtx); err != nil {
			s.logger.Warn("provider connectivity probe failed", zap.Error(err))
		} else {
			status.Connected = true
		}
	}

	s.cache.Set(ctx, cache.KeyProviderStatus, status, statusCacheTTL)
	return status
}
