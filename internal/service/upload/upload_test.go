package upload

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"linecrm-service/internal/domain/delivery"
	"linecrm-service/internal/domain/record"
	"linecrm-service/internal/domain/upload"
	"linecrm-service/internal/repository/memory"
	"linecrm-service/internal/ws"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	svc          *UploadService
	uploadRepo   *memory.UploadRepository
	deliveryRepo *memory.DeliveryRepository
	recordRepo   *memory.RecordRepository
}

func newFixture() *fixture {
	uploadRepo := memory.NewUploadRepository()
	deliveryRepo := memory.NewDeliveryRepository()
	recordRepo := memory.NewRecordRepository()
	hub := ws.NewHub(zap.NewNop())
	svc := NewUploadService(uploadRepo, deliveryRepo, recordRepo, hub, zap.NewNop())
	return &fixture{svc: svc, uploadRepo: uploadRepo, deliveryRepo: deliveryRepo, recordRepo: recordRepo}
}

// waitDone polls until the session leaves the processing state.
func waitDone(t *testing.T, f *fixture, sessionID string) *upload.Session {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		session, err := f.svc.GetSession(context.Background(), sessionID)
		require.NoError(t, err)
		if session.Status != upload.StatusProcessing {
			return session
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("import did not finish in time")
	return nil
}

func userID(i int) string {
	return fmt.Sprintf("U%032x", i)
}

func futureDate() string {
	return time.Now().AddDate(0, 0, 14).Format("2006-01-02")
}

func TestStartImport(t *testing.T) {
	ctx := context.Background()

	t.Run("valid rows create deliveries", func(t *testing.T) {
		f := newFixture()
		csvData := strings.Join([]string{
			"user_id,order_no,delivery_date",
			userID(1) + ",ORD-2024-001," + futureDate(),
			userID(2) + ",ORD-2024-002," + futureDate(),
		}, "\n")

		session, err := f.svc.StartImport(ctx, "deliveries.csv", []byte(csvData))
		require.NoError(t, err)
		assert.Equal(t, upload.StatusProcessing, session.Status)

		done := waitDone(t, f, session.ID)
		assert.Equal(t, upload.StatusCompleted, done.Status)
		assert.Equal(t, 2, done.TotalRecords)
		assert.Equal(t, 2, done.SuccessCount)
		assert.Equal(t, 0, done.ErrorCount)

		deliveries, err := f.deliveryRepo.List(ctx, &delivery.ListFilters{})
		require.NoError(t, err)
		require.Len(t, deliveries, 2)
		for _, d := range deliveries {
			assert.Equal(t, delivery.StatusPending, d.Status)
		}
	})

	t.Run("rows with customer columns also create records", func(t *testing.T) {
		f := newFixture()
		csvData := strings.Join([]string{
			"user_id,order_no,delivery_date,customer_name,phone,address",
			userID(1) + ",ORD-2024-001," + futureDate() + ",สมชาย สุขใจ,0812345678,123 ถนนสุขุมวิท",
		}, "\n")

		session, err := f.svc.StartImport(ctx, "deliveries.csv", []byte(csvData))
		require.NoError(t, err)
		done := waitDone(t, f, session.ID)
		assert.Equal(t, 1, done.SuccessCount)

		recs, total, err := f.recordRepo.List(ctx, &record.ListFilters{Page: 1, Limit: 10, SortBy: "orderNumber"})
		require.NoError(t, err)
		require.Equal(t, 1, total)
		assert.Equal(t, "+66-81-234-5678", recs[0].Phone)
		assert.Equal(t, "ORD-2024-001", recs[0].OrderNumber)
		assert.Equal(t, record.StatusReady, recs[0].Status)
	})

	t.Run("bad rows are reported with row numbers", func(t *testing.T) {
		f := newFixture()
		csvData := strings.Join([]string{
			"user_id,order_no,delivery_date",
			userID(1) + ",ORD-2024-001," + futureDate(),
			",ORD-2024-002," + futureDate(),
			userID(3) + ",ORD-2024-003,20/01/2026",
		}, "\n")

		session, err := f.svc.StartImport(ctx, "deliveries.csv", []byte(csvData))
		require.NoError(t, err)
		done := waitDone(t, f, session.ID)

		assert.Equal(t, upload.StatusCompleted, done.Status)
		assert.Equal(t, 3, done.TotalRecords)
		assert.Equal(t, 1, done.SuccessCount)
		assert.Equal(t, 2, done.ErrorCount)
		assert.Equal(t, []upload.RowError{
			{Row: 3, Error: "Missing required field: user_id"},
			{Row: 4, Error: "Invalid date format"},
		}, done.Errors)
	})

	t.Run("missing required column fails the session", func(t *testing.T) {
		f := newFixture()
		csvData := "user_id,delivery_date\n" + userID(1) + "," + futureDate()

		session, err := f.svc.StartImport(ctx, "deliveries.csv", []byte(csvData))
		require.NoError(t, err)
		done := waitDone(t, f, session.ID)

		assert.Equal(t, upload.StatusFailed, done.Status)
		require.Len(t, done.Errors, 1)
		assert.Equal(t, "Missing required column: order_no", done.Errors[0].Error)
	})

	t.Run("invalid record data still imports the delivery as invalid record", func(t *testing.T) {
		f := newFixture()
		// name with digits fails record validation but the delivery row itself is fine
		csvData := strings.Join([]string{
			"user_id,order_no,delivery_date,customer_name",
			userID(1) + ",ORD-2024-001," + futureDate() + ",Customer 99",
		}, "\n")

		session, err := f.svc.StartImport(ctx, "deliveries.csv", []byte(csvData))
		require.NoError(t, err)
		done := waitDone(t, f, session.ID)
		assert.Equal(t, 1, done.SuccessCount)

		recs, _, err := f.recordRepo.List(ctx, &record.ListFilters{Page: 1, Limit: 10, SortBy: "orderNumber"})
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, record.StatusInvalid, recs[0].Status)
	})
}
