package delivery

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"linecrm-service/internal/domain/delivery"
	xerrors "linecrm-service/internal/pkg/errors"
	"linecrm-service/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService() *DeliveryService {
	return NewDeliveryService(memory.NewDeliveryRepository(), zap.NewNop())
}

func createRequest(i int) *delivery.CreateDeliveryRequest {
	return &delivery.CreateDeliveryRequest{
		OrderID:      fmt.Sprintf("ORD-2024-%03d", i),
		UserID:       fmt.Sprintf("U%032x", i),
		CustomerName: "สมชาย สุขใจ",
		DeliveryDate: "2026-09-15",
	}
}

func TestCreateDelivery(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	t.Run("defaults to pending", func(t *testing.T) {
		d, err := svc.CreateDelivery(ctx, createRequest(1))
		require.NoError(t, err)
		assert.Equal(t, delivery.StatusPending, d.Status)
		assert.NotEmpty(t, d.ID)
		assert.Nil(t, d.ResponseTime)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		req := createRequest(2)
		req.Status = "lost"
		_, err := svc.CreateDelivery(ctx, req)
		assert.ErrorIs(t, err, xerrors.ErrBadRequest)
	})

	t.Run("duplicate order id rejected", func(t *testing.T) {
		_, err := svc.CreateDelivery(ctx, createRequest(1))
		assert.ErrorIs(t, err, xerrors.ErrDuplicateOrder)
	})
}

func TestRecordResponse(t *testing.T) {
	ctx := context.Background()

	t.Run("confirmation stamps response time", func(t *testing.T) {
		svc := newService()
		d, err := svc.CreateDelivery(ctx, createRequest(1))
		require.NoError(t, err)

		updated, err := svc.RecordResponse(ctx, d.ID, &delivery.RecordResponseRequest{Status: "confirmed"})
		require.NoError(t, err)
		assert.Equal(t, delivery.StatusConfirmed, updated.Status)
		require.NotNil(t, updated.ResponseTime)
	})

	t.Run("reschedule requires the new date", func(t *testing.T) {
		svc := newService()
		d, err := svc.CreateDelivery(ctx, createRequest(1))
		require.NoError(t, err)

		_, err = svc.RecordResponse(ctx, d.ID, &delivery.RecordResponseRequest{Status: "rescheduled"})
		assert.ErrorIs(t, err, xerrors.ErrBadRequest)

		updated, err := svc.RecordResponse(ctx, d.ID, &delivery.RecordResponseRequest{
			Status:           "rescheduled",
			NewDeliveryDate:  "2026-09-20",
			RescheduleReason: "Not available",
		})
		require.NoError(t, err)
		assert.Equal(t, "2026-09-20", updated.NewDeliveryDate)
		assert.Equal(t, "Not available", updated.RescheduleReason)
	})

	t.Run("responded delivery cannot move back to pending", func(t *testing.T) {
		svc := newService()
		d, err := svc.CreateDelivery(ctx, createRequest(1))
		require.NoError(t, err)

		_, err = svc.RecordResponse(ctx, d.ID, &delivery.RecordResponseRequest{Status: "confirmed"})
		require.NoError(t, err)

		_, err = svc.RecordResponse(ctx, d.ID, &delivery.RecordResponseRequest{Status: "pending"})
		assert.ErrorIs(t, err, xerrors.ErrConflict)
	})
}

func TestUpdateDelivery(t *testing.T) {
	ctx := context.Background()

	t.Run("patches fields and bumps updatedAt", func(t *testing.T) {
		svc := newService()
		d, err := svc.CreateDelivery(ctx, createRequest(1))
		require.NoError(t, err)

		name := "สมหญิง รักดี"
		updated, err := svc.UpdateDelivery(ctx, d.ID, &delivery.UpdateDeliveryRequest{CustomerName: &name})
		require.NoError(t, err)
		assert.Equal(t, name, updated.CustomerName)
		assert.False(t, updated.UpdatedAt.Before(d.UpdatedAt))
	})

	t.Run("patch cannot move a responded delivery back to pending", func(t *testing.T) {
		svc := newService()
		d, err := svc.CreateDelivery(ctx, createRequest(1))
		require.NoError(t, err)

		_, err = svc.RecordResponse(ctx, d.ID, &delivery.RecordResponseRequest{Status: "confirmed"})
		require.NoError(t, err)

		pending := "pending"
		_, err = svc.UpdateDelivery(ctx, d.ID, &delivery.UpdateDeliveryRequest{Status: &pending})
		assert.ErrorIs(t, err, xerrors.ErrConflict)

		got, err := svc.GetDelivery(ctx, d.ID)
		require.NoError(t, err)
		assert.Equal(t, delivery.StatusConfirmed, got.Status)
	})
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	t.Run("empty store yields zeroes", func(t *testing.T) {
		stats, err := svc.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, stats.TotalDeliveries)
		assert.Equal(t, 0.0, stats.ResponseRate)
		assert.Equal(t, "0 hours", stats.AvgResponseTime)
	})

	t.Run("counts, response rate and latency", func(t *testing.T) {
		for i := 1; i <= 4; i++ {
			d, err := svc.CreateDelivery(ctx, createRequest(i))
			require.NoError(t, err)
			switch i {
			case 1:
				_, err = svc.RecordResponse(ctx, d.ID, &delivery.RecordResponseRequest{Status: "confirmed"})
			case 2:
				_, err = svc.RecordResponse(ctx, d.ID, &delivery.RecordResponseRequest{
					Status: "rescheduled", NewDeliveryDate: "2026-09-20",
				})
			case 3:
				_, err = svc.RecordResponse(ctx, d.ID, &delivery.RecordResponseRequest{Status: "no-response"})
			}
			require.NoError(t, err)
		}

		stats, err := svc.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, stats.TotalDeliveries)
		assert.Equal(t, 1, stats.Confirmed)
		assert.Equal(t, 1, stats.Rescheduled)
		assert.Equal(t, 1, stats.Pending)
		assert.Equal(t, 1, stats.NoResponse)
		assert.Equal(t, 50.0, stats.ResponseRate)
		assert.True(t, strings.HasSuffix(stats.AvgResponseTime, " hours"))
	})
}

func TestRescheduleReasons(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	reasons := []string{"Not available", "Not available", "Wrong address"}
	for i, reason := range reasons {
		d, err := svc.CreateDelivery(ctx, createRequest(i + 1))
		require.NoError(t, err)
		_, err = svc.RecordResponse(ctx, d.ID, &delivery.RecordResponseRequest{
			Status: "rescheduled", NewDeliveryDate: "2026-09-20", RescheduleReason: reason,
		})
		require.NoError(t, err)
	}

	histogram, err := svc.RescheduleReasons(ctx)
	require.NoError(t, err)
	assert.Equal(t, []delivery.RescheduleReason{
		{Reason: "Not available", Count: 2},
		{Reason: "Wrong address", Count: 1},
	}, histogram)
}

func TestDailyPerformance(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	d, err := svc.CreateDelivery(ctx, createRequest(1))
	require.NoError(t, err)
	_, err = svc.RecordResponse(ctx, d.ID, &delivery.RecordResponseRequest{Status: "confirmed"})
	require.NoError(t, err)

	performance, err := svc.DailyPerformance(ctx, 7)
	require.NoError(t, err)
	require.Len(t, performance, 7)

	today := performance[6]
	assert.Equal(t, time.Now().Format("2006-01-02"), today.Date)
	assert.Equal(t, 1, today.Sent)
	assert.Equal(t, 1, today.Confirmed)
	assert.Equal(t, 0, performance[0].Sent)
}

func TestExportCSV(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	d, err := svc.CreateDelivery(ctx, createRequest(1))
	require.NoError(t, err)
	_, err = svc.RecordResponse(ctx, d.ID, &delivery.RecordResponseRequest{
		Status: "rescheduled", NewDeliveryDate: "2026-09-20", RescheduleReason: `Prefer "morning" slot`,
	})
	require.NoError(t, err)

	data, err := svc.ExportCSV(ctx, &delivery.ListFilters{})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Order ID,Customer Name,User ID,Delivery Date,Status,Response Time,New Date,Reschedule Reason", lines[0])
	assert.Contains(t, lines[1], "ORD-2024-001")
	assert.Contains(t, lines[1], "rescheduled")
	assert.Contains(t, lines[1], "2026-09-20")
	// csv quoting keeps embedded quotes intact
	assert.Contains(t, lines[1], `"Prefer ""morning"" slot"`)
}
