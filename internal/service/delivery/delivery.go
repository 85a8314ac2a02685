package delivery

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"sort"
	"time"

	"linecrm-service/internal/domain/delivery"
	xerrors "linecrm-service/internal/pkg/errors"
	"linecrm-service/internal/pkg/id"

	"go.uber.org/zap"
)

type DeliveryService struct {
	deliveryRepo delivery.Repository
	logger       *zap.Logger
}

func NewDeliveryService(deliveryRepo delivery.Repository, logger *zap.Logger) *DeliveryService {
	return &DeliveryService{
		deliveryRepo: deliveryRepo,
		logger:       logger,
	}
}

func (s *DeliveryService) GetDelivery(ctx context.Context, deliveryID string) (*delivery.Delivery, error) {
	return s.deliveryRepo.FindByID(ctx, deliveryID)
}

func (s *DeliveryService) ListDeliveries(ctx context.Context, filters *delivery.ListFilters) ([]delivery.Delivery, error) {
	return s.deliveryRepo.List(ctx, filters)
}

func (s *DeliveryService) CreateDelivery(ctx context.Context, req *delivery.CreateDeliveryRequest) (*delivery.Delivery, error) {
	status := delivery.DeliveryStatus(req.Status)
	if req.Status == "" {
		status = delivery.StatusPending
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown delivery status %q", xerrors.ErrBadRequest, req.Status)
	}

	now := time.Now()
	d := &delivery.Delivery{
		ID:           id.New(),
		OrderID:      req.OrderID,
		UserID:       req.UserID,
		CustomerName: req.CustomerName,
		DeliveryDate: req.DeliveryDate,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.deliveryRepo.Create(ctx, d); err != nil {
		if xerrors.Is(err, xerrors.ErrDuplicateOrder) {
			return nil, err
		}
		s.logger.Error("failed to create delivery", zap.Error(err))
		return nil, fmt.Errorf("failed to create delivery: %w", err)
	}

	s.logger.Info("delivery created",
		zap.String("delivery_id", d.ID),
		zap.String("order_id", d.OrderID),
	)
	return d, nil
}

func (s *DeliveryService) UpdateDelivery(ctx context.Context, deliveryID string, req *delivery.UpdateDeliveryRequest) (*delivery.Delivery, error) {
	d, err := s.deliveryRepo.FindByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		status := delivery.DeliveryStatus(*req.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown delivery status %q", xerrors.ErrBadRequest, *req.Status)
		}
		if d.Status.Responded() && status == delivery.StatusPending {
			return nil, fmt.Errorf("%w: delivery %s has already responded", xerrors.ErrConflict, deliveryID)
		}
		d.Status = status
	}
	if req.CustomerName != nil {
		d.CustomerName = *req.CustomerName
	}
	if req.DeliveryDate != nil {
		d.DeliveryDate = *req.DeliveryDate
	}
	if req.NewDeliveryDate != nil {
		d.NewDeliveryDate = *req.NewDeliveryDate
	}
	if req.RescheduleReason != nil {
		d.RescheduleReason = *req.RescheduleReason
	}
	d.UpdatedAt = time.Now()

	if err := s.deliveryRepo.Update(ctx, deliveryID, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DeliveryService) DeleteDelivery(ctx context.Context, deliveryID string) error {
	if err := s.deliveryRepo.Delete(ctx, deliveryID); err != nil {
		return err
	}
	s.logger.Info("delivery deleted", zap.String("delivery_id", deliveryID))
	return nil
}

// RecordResponse applies a customer's reply. A delivery that has already
// responded never moves back to pending; rescheduling requires the new
// date.
func (s *DeliveryService) RecordResponse(ctx context.Context, deliveryID string, req *delivery.RecordResponseRequest) (*delivery.Delivery, error) {
	d, err := s.deliveryRepo.FindByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}

	status := delivery.DeliveryStatus(req.Status)
	if d.Status.Responded() && status == delivery.StatusPending {
		return nil, fmt.Errorf("%w: delivery %s has already responded", xerrors.ErrConflict, deliveryID)
	}
	if status == delivery.StatusRescheduled && req.NewDeliveryDate == "" {
		return nil, fmt.Errorf("%w: newDeliveryDate is required when rescheduling", xerrors.ErrBadRequest)
	}

	now := time.Now()
	d.Status = status
	if status.Responded() {
		d.ResponseTime = &now
	}
	if status == delivery.StatusRescheduled {
		d.NewDeliveryDate = req.NewDeliveryDate
		d.RescheduleReason = req.RescheduleReason
	}
	d.UpdatedAt = now

	if err := s.deliveryRepo.Update(ctx, deliveryID, d); err != nil {
		return nil, err
	}

	s.logger.Info("delivery response recorded",
		zap.String("delivery_id", deliveryID),
		zap.String("status", string(status)),
	)
	return d, nil
}

// Stats aggregates per-status counts, the response rate as a one-decimal
// percentage, and the mean created-to-response latency in hours.
func (s *DeliveryService) Stats(ctx context.Context) (*delivery.Stats, error) {
	deliveries, err := s.deliveryRepo.List(ctx, &delivery.ListFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to load deliveries: %w", err)
	}

	stats := &delivery.Stats{TotalDeliveries: len(deliveries)}

	var totalHours float64
	var responded int
	for i := range deliveries {
		d := &deliveries[i]
		switch d.Status {
		case delivery.StatusConfirmed:
			stats.Confirmed++
		case delivery.StatusRescheduled:
			stats.Rescheduled++
		case delivery.StatusPending:
			stats.Pending++
		case delivery.StatusNoResponse:
			stats.NoResponse++
		}
		if d.ResponseTime != nil {
			totalHours += d.ResponseTime.Sub(d.CreatedAt).Hours()
			responded++
		}
	}

	if stats.TotalDeliveries > 0 {
		rate := float64(stats.Confirmed+stats.Rescheduled) / float64(stats.TotalDeliveries) * 100
		stats.ResponseRate = roundOneDecimal(rate)
	}

	stats.AvgResponseTime = "0 hours"
	if responded > 0 {
		stats.AvgResponseTime = fmt.Sprintf("%.1f hours", totalHours/float64(responded))
	}

	return stats, nil
}

// DailyPerformance buckets deliveries by creation date over the trailing
// window, oldest day first. Days with no deliveries still appear with
// zero counts so charts get a continuous axis.
func (s *DeliveryService) DailyPerformance(ctx context.Context, days int) ([]delivery.DailyPerformance, error) {
	if days < 1 {
		days = 7
	}

	deliveries, err := s.deliveryRepo.List(ctx, &delivery.ListFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to load deliveries: %w", err)
	}

	byDate := make(map[string]*delivery.DailyPerformance)
	now := time.Now()
	start := now.AddDate(0, 0, -(days - 1))
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.Local)

	performance := make([]delivery.DailyPerformance, 0, days)
	for i := 0; i < days; i++ {
		date := startDay.AddDate(0, 0, i).Format("2006-01-02")
		performance = append(performance, delivery.DailyPerformance{Date: date})
		byDate[date] = &performance[len(performance)-1]
	}

	for i := range deliveries {
		d := &deliveries[i]
		day, ok := byDate[d.CreatedAt.Format("2006-01-02")]
		if !ok {
			continue
		}
		day.Sent++
		switch d.Status {
		case delivery.StatusConfirmed:
			day.Confirmed++
		case delivery.StatusRescheduled:
			day.Rescheduled++
		case delivery.StatusNoResponse:
			day.NoResponse++
		}
	}

	return performance, nil
}

// RescheduleReasons returns the histogram of reasons across rescheduled
// deliveries, most frequent first, ties broken alphabetically for a
// stable order.
func (s *DeliveryService) RescheduleReasons(ctx context.Context) ([]delivery.RescheduleReason, error) {
	deliveries, err := s.deliveryRepo.List(ctx, &delivery.ListFilters{Status: string(delivery.StatusRescheduled)})
	if err != nil {
		return nil, fmt.Errorf("failed to load deliveries: %w", err)
	}

	counts := make(map[string]int)
	for i := range deliveries {
		if reason := deliveries[i].RescheduleReason; reason != "" {
			counts[reason]++
		}
	}

	reasons := make([]delivery.RescheduleReason, 0, len(counts))
	for reason, count := range counts {
		reasons = append(reasons, delivery.RescheduleReason{Reason: reason, Count: count})
	}
	sort.Slice(reasons, func(i, j int) bool {
		if reasons[i].Count != reasons[j].Count {
			return reasons[i].Count > reasons[j].Count
		}
		return reasons[i].Reason < reasons[j].Reason
	})
	return reasons, nil
}

// ExportCSV renders the filtered deliveries as a CSV document for the
// report download endpoint.
func (s *DeliveryService) ExportCSV(ctx context.Context, filters *delivery.ListFilters) ([]byte, error) {
	deliveries, err := s.deliveryRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to load deliveries: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Order ID", "Customer Name", "User ID", "Delivery Date", "Status", "Response Time", "New Date", "Reschedule Reason"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for i := range deliveries {
		d := &deliveries[i]
		responseTime := ""
		if d.ResponseTime != nil {
			responseTime = d.ResponseTime.Format(time.RFC3339)
		}
		row := []string{
			d.OrderID,
			d.CustomerName,
			d.UserID,
			d.DeliveryDate,
			string(d.Status),
			responseTime,
			d.NewDeliveryDate,
			d.RescheduleReason,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func roundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}
