package delivery

import "context"

type Repository interface {
	FindByID(ctx context.Context, id string) (*Delivery, error)

	// List filters by status equality and a case-insensitive substring
	// search over order id, customer name and user id, newest first.
	List(ctx context.Context, filters *ListFilters) ([]Delivery, error)

	// Create persists a new delivery. It fails with xerrors.ErrDuplicateOrder
	// when another delivery already holds the same order id.
	Create(ctx context.Context, d *Delivery) error
	Update(ctx context.Context, id string, d *Delivery) error
	Delete(ctx context.Context, id string) error
}
