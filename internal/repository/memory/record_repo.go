// Package memory holds the default in-memory repositories. Every
// repository guards its map with a mutex: the HTTP layer serves requests
// concurrently, and an unguarded map would lose updates and let duplicate
// order numbers slip past the write-time uniqueness check.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"linecrm-service/internal/domain/record"
	xerrors "linecrm-service/internal/pkg/errors"
)

type RecordRepository struct {
	mu      sync.RWMutex
	records map[string]record.CustomerRecord
	orders  map[string]string // orderNumber → record id
}

func NewRecordRepository() *RecordRepository {
	return &RecordRepository{
		records: make(map[string]record.CustomerRecord),
		orders:  make(map[string]string),
	}
}

func (r *RecordRepository) FindByID(ctx context.Context, id string) (*record.CustomerRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return &rec, nil
}

func (r *RecordRepository) List(ctx context.Context, filters *record.ListFilters) ([]record.CustomerRecord, int, error) {
	r.mu.RLock()
	matched := make([]record.CustomerRecord, 0, len(r.records))
	search := strings.ToLower(strings.TrimSpace(filters.Search))
	for _, rec := range r.records {
		if filters.Status != "" && filters.Status != "all" && string(rec.Status) != filters.Status {
			continue
		}
		if search != "" && !matchesSearch(&rec, search) {
			continue
		}
		matched = append(matched, rec)
	}
	r.mu.RUnlock()

	sortRecords(matched, filters.SortBy, filters.SortOrder)

	total := len(matched)
	page := filters.Page
	limit := filters.Limit
	offset := (page - 1) * limit
	if offset >= total {
		return []record.CustomerRecord{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func matchesSearch(rec *record.CustomerRecord, search string) bool {
	return strings.Contains(strings.ToLower(rec.CustomerName), search) ||
		strings.Contains(strings.ToLower(rec.LineUserID), search) ||
		strings.Contains(strings.ToLower(rec.OrderNumber), search) ||
		strings.Contains(strings.ToLower(rec.Phone), search)
}

// sortRecords orders by the given field. Natural ascending order places
// empty optional values first; descending reverses, placing them last.
func sortRecords(recs []record.CustomerRecord, sortBy, sortOrder string) {
	less := func(a, b *record.CustomerRecord) bool {
		switch sortBy {
		case "lastModified":
			return a.LastModified.Before(b.LastModified)
		case "createdAt":
			return a.CreatedAt.Before(b.CreatedAt)
		default:
			return a.FieldValue(sortBy) < b.FieldValue(sortBy)
		}
	}
	sort.SliceStable(recs, func(i, j int) bool {
		if sortOrder == "desc" {
			return less(&recs[j], &recs[i])
		}
		return less(&recs[i], &recs[j])
	})
}

func (r *RecordRepository) Create(ctx context.Context, rec *record.CustomerRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.orders[rec.OrderNumber]; taken {
		return xerrors.ErrDuplicateOrder
	}
	r.records[rec.ID] = *rec
	r.orders[rec.OrderNumber] = rec.ID
	return nil
}

func (r *RecordRepository) Update(ctx context.Context, id string, rec *record.CustomerRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.records[id]
	if !ok {
		return xerrors.ErrNotFound
	}
	if holder, taken := r.orders[rec.OrderNumber]; taken && holder != id {
		return xerrors.ErrDuplicateOrder
	}

	delete(r.orders, existing.OrderNumber)
	r.records[id] = *rec
	r.orders[rec.OrderNumber] = id
	return nil
}

func (r *RecordRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		return xerrors.ErrNotFound
	}
	delete(r.records, id)
	delete(r.orders, rec.OrderNumber)
	return nil
}

func (r *RecordRepository) CountByStatus(ctx context.Context) (map[record.RecordStatus]int, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[record.RecordStatus]int)
	for _, rec := range r.records {
		counts[rec.Status]++
	}
	return counts, len(r.records), nil
}
