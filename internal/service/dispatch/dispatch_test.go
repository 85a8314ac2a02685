package dispatch

import (
	"context"
	"fmt"
	"testing"
	"time"

	"linecrm-service/internal/domain/dispatch"
	"linecrm-service/internal/domain/record"
	xerrors "linecrm-service/internal/pkg/errors"
	"linecrm-service/internal/pkg/line"
	"linecrm-service/internal/repository/memory"
	templatesvc "linecrm-service/internal/service/template"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func userID(i int) string {
	return fmt.Sprintf("U%032x", i)
}

type fixture struct {
	svc          *DispatchService
	mock         *line.MockClient
	recordRepo   *memory.RecordRepository
	templateRepo *memory.TemplateRepository
}

func newFixture(t *testing.T, batchSize int) *fixture {
	t.Helper()
	mock := line.NewMockClient()
	recordRepo := memory.NewRecordRepository()
	templateRepo := memory.NewTemplateRepository()

	cfg := line.Config{ChannelAccessToken: "token", ChannelSecret: "secret"}
	svc := NewDispatchService(mock, cfg, recordRepo, templateRepo, nil, zap.NewNop(),
		batchSize, 0, time.Second)
	return &fixture{svc: svc, mock: mock, recordRepo: recordRepo, templateRepo: templateRepo}
}

func (f *fixture) addRecord(t *testing.T, i int, lineUserID string) *record.CustomerRecord {
	t.Helper()
	rec := &record.CustomerRecord{
		ID:           fmt.Sprintf("rec-%d", i),
		CustomerName: "สมชาย สุขใจ",
		LineUserID:   lineUserID,
		OrderNumber:  fmt.Sprintf("ORD-2024-%03d", i),
		DeliveryDate: "2026-09-15",
		Status:       record.StatusReady,
		LastModified: time.Now(),
		CreatedAt:    time.Now(),
	}
	require.NoError(t, f.recordRepo.Create(context.Background(), rec))
	return rec
}

func TestSendBulk(t *testing.T) {
	ctx := context.Background()

	t.Run("all successful", func(t *testing.T) {
		f := newFixture(t, 10)
		result, err := f.svc.SendBulk(ctx, []dispatch.BulkRecipient{
			{RecipientID: userID(1), Message: "hello"},
			{RecipientID: userID(2), Message: "world"},
		})
		require.NoError(t, err)

		assert.Equal(t, 2, result.TotalSent)
		assert.Equal(t, 2, result.Successful)
		assert.Equal(t, 0, result.Failed)
		assert.Equal(t, 2, f.mock.CallCount())
	})

	t.Run("missing id fails per item without a provider call", func(t *testing.T) {
		f := newFixture(t, 10)
		result, err := f.svc.SendBulk(ctx, []dispatch.BulkRecipient{
			{RecipientID: userID(1), Message: "a"},
			{RecipientID: "", Message: "b"},
			{RecipientID: userID(3), Message: "c"},
		})
		require.NoError(t, err)

		assert.Equal(t, 3, result.TotalSent)
		assert.Equal(t, 2, result.Successful)
		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, 2, f.mock.CallCount())

		var failed *dispatch.RecipientResult
		for i := range result.Results {
			if !result.Results[i].Success {
				failed = &result.Results[i]
			}
		}
		require.NotNil(t, failed)
		assert.Equal(t, dispatch.ReasonMissingRecipientID, failed.Error)
	})

	t.Run("malformed id fails with invalid reason", func(t *testing.T) {
		f := newFixture(t, 10)
		result, err := f.svc.SendBulk(ctx, []dispatch.BulkRecipient{
			{RecipientID: "not-a-line-id", Message: "a"},
		})
		require.NoError(t, err)

		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, dispatch.ReasonInvalidRecipientID, result.Results[0].Error)
		assert.Equal(t, 0, f.mock.CallCount())
	})

	t.Run("provider failure is recorded per recipient", func(t *testing.T) {
		f := newFixture(t, 10)
		f.mock.FailUsers[userID(2)] = line.ErrMockSend

		result, err := f.svc.SendBulk(ctx, []dispatch.BulkRecipient{
			{RecipientID: userID(1), Message: "a"},
			{RecipientID: userID(2), Message: "b"},
		})
		require.NoError(t, err)

		assert.Equal(t, 1, result.Successful)
		assert.Equal(t, 1, result.Failed)
		for _, r := range result.Results {
			if r.UserID == userID(2) {
				assert.Equal(t, line.ErrMockSend.Error(), r.Error)
			}
		}
	})

	t.Run("large run spans batches and still sends everything", func(t *testing.T) {
		f := newFixture(t, 10)
		recipients := make([]dispatch.BulkRecipient, 25)
		for i := range recipients {
			recipients[i] = dispatch.BulkRecipient{RecipientID: userID(i + 1), Message: "hi"}
		}

		result, err := f.svc.SendBulk(ctx, recipients)
		require.NoError(t, err)
		assert.Equal(t, 25, result.Successful)
		assert.Equal(t, 25, f.mock.CallCount())
	})
}

func TestDispatchToRecords(t *testing.T) {
	ctx := context.Background()

	t.Run("requires targets and a message source", func(t *testing.T) {
		f := newFixture(t, 10)
		_, err := f.svc.DispatchToRecords(ctx, &dispatch.DispatchRequest{})
		assert.ErrorIs(t, err, xerrors.ErrBadRequest)

		_, err = f.svc.DispatchToRecords(ctx, &dispatch.DispatchRequest{RecordIDs: []string{"r"}})
		assert.ErrorIs(t, err, xerrors.ErrBadRequest)
	})

	t.Run("literal message reaches each record's user", func(t *testing.T) {
		f := newFixture(t, 10)
		a := f.addRecord(t, 1, userID(1))
		b := f.addRecord(t, 2, userID(2))

		result, err := f.svc.DispatchToRecords(ctx, &dispatch.DispatchRequest{
			RecordIDs: []string{a.ID, b.ID},
			Message:   "แจ้งเตือน",
		})
		require.NoError(t, err)

		assert.Equal(t, 2, result.Successful)
		require.Equal(t, 2, f.mock.CallCount())
		assert.Equal(t, "แจ้งเตือน", f.mock.Calls[0].Text)
	})

	t.Run("template resolves per record", func(t *testing.T) {
		f := newFixture(t, 10)
		tplSvc := templatesvc.NewTemplateService(f.templateRepo, f.recordRepo, zap.NewNop())
		require.NoError(t, tplSvc.SeedDefaults(ctx))

		rec := f.addRecord(t, 1, userID(1))
		result, err := f.svc.DispatchToRecords(ctx, &dispatch.DispatchRequest{
			RecordIDs:  []string{rec.ID},
			TemplateID: "delivery-confirmation",
		})
		require.NoError(t, err)

		assert.Equal(t, 1, result.Successful)
		require.Equal(t, 1, f.mock.CallCount())
		assert.Contains(t, f.mock.Calls[0].Text, rec.CustomerName)
		assert.Contains(t, f.mock.Calls[0].Text, rec.OrderNumber)
		assert.NotContains(t, f.mock.Calls[0].Text, "[ชื่อลูกค้า]")
	})

	t.Run("record without a line id fails with missing reason", func(t *testing.T) {
		f := newFixture(t, 10)
		a := f.addRecord(t, 1, userID(1))
		b := f.addRecord(t, 2, "")
		c := f.addRecord(t, 3, userID(3))

		result, err := f.svc.DispatchToRecords(ctx, &dispatch.DispatchRequest{
			RecordIDs: []string{a.ID, b.ID, c.ID},
			Message:   "hi",
		})
		require.NoError(t, err)

		assert.Equal(t, 3, result.TotalSent)
		assert.Equal(t, 2, result.Successful)
		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, dispatch.ReasonMissingRecipientID, result.Results[1].Error)
	})

	t.Run("unknown record fails per item", func(t *testing.T) {
		f := newFixture(t, 10)
		a := f.addRecord(t, 1, userID(1))

		result, err := f.svc.DispatchToRecords(ctx, &dispatch.DispatchRequest{
			RecordIDs: []string{a.ID, "ghost"},
			Message:   "hi",
		})
		require.NoError(t, err)

		assert.Equal(t, 1, result.Successful)
		assert.Equal(t, 1, result.Failed)
		assert.Contains(t, result.Results[1].Error, "not found")
	})

	t.Run("missing template aborts the dispatch", func(t *testing.T) {
		f := newFixture(t, 10)
		a := f.addRecord(t, 1, userID(1))

		_, err := f.svc.DispatchToRecords(ctx, &dispatch.DispatchRequest{
			RecordIDs:  []string{a.ID},
			TemplateID: "ghost-template",
		})
		assert.ErrorIs(t, err, xerrors.ErrNotFound)
		assert.Equal(t, 0, f.mock.CallCount())
	})
}

func TestProviderStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("configured and reachable", func(t *testing.T) {
		f := newFixture(t, 10)
		status := f.svc.ProviderStatus(ctx)
		assert.True(t, status.IsConfigured)
		assert.True(t, status.Connected)
	})

	t.Run("probe failure reports disconnected", func(t *testing.T) {
		f := newFixture(t, 10)
		f.mock.ConnErr = line.ErrMockSend

		status := f.svc.ProviderStatus(ctx)
		assert.True(t, status.IsConfigured)
		assert.False(t, status.Connected)
	})

	t.Run("unconfigured channel skips the probe", func(t *testing.T) {
		mock := line.NewMockClient()
		svc := NewDispatchService(mock, line.Config{}, memory.NewRecordRepository(),
			memory.NewTemplateRepository(), nil, zap.NewNop(), 10, 0, time.Second)

		status := svc.ProviderStatus(ctx)
		assert.False(t, status.IsConfigured)
		assert.False(t, status.Connected)
	})
}
