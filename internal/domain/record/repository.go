package record

import "context"

// Repository is the keyed store behind the record service. The in-memory
// implementation is the default; a Postgres implementation can be swapped
// in without touching call sites.
type Repository interface {
	FindByID(ctx context.Context, id string) (*CustomerRecord, error)

	// List applies search/status filters, sorts and paginates. It returns
	// the page of records plus the total match count before pagination.
	List(ctx context.Context, filters *ListFilters) ([]CustomerRecord, int, error)

	// Create persists a new record. It fails with xerrors.ErrDuplicateOrder
	// when another record already holds the same order number.
	Create(ctx context.Context, rec *CustomerRecord) error

	// Update replaces the stored record under id. Order-number uniqueness
	// is re-checked against all other records.
	Update(ctx context.Context, id string, rec *CustomerRecord) error

	Delete(ctx context.Context, id string) error

	// CountByStatus returns per-status counts for the stats endpoint.
	CountByStatus(ctx context.Context) (map[RecordStatus]int, int, error)
}
