package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"linecrm-service/internal/domain/delivery"
	xerrors "linecrm-service/internal/pkg/errors"
)

type DeliveryRepository struct {
	mu         sync.RWMutex
	deliveries map[string]delivery.Delivery
	orders     map[string]string // orderID → delivery id
}

func NewDeliveryRepository() *DeliveryRepository {
	return &DeliveryRepository{
		deliveries: make(map[string]delivery.Delivery),
		orders:     make(map[string]string),
	}
}

func (r *DeliveryRepository) FindByID(ctx context.Context, id string) (*delivery.Delivery, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.deliveries[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return &d, nil
}

func (r *DeliveryRepository) List(ctx context.Context, filters *delivery.ListFilters) ([]delivery.Delivery, error) {
	r.mu.RLock()
	matched := make([]delivery.Delivery, 0, len(r.deliveries))
	search := strings.ToLower(strings.TrimSpace(filters.Search))
	for _, d := range r.deliveries {
		if filters.Status != "" && string(d.Status) != filters.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(d.OrderID), search) &&
			!strings.Contains(strings.ToLower(d.CustomerName), search) &&
			!strings.Contains(strings.ToLower(d.UserID), search) {
			continue
		}
		matched = append(matched, d)
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[j].CreatedAt.Before(matched[i].CreatedAt)
	})
	return matched, nil
}

func (r *DeliveryRepository) Create(ctx context.Context, d *delivery.Delivery) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.orders[d.OrderID]; taken {
		return xerrors.ErrDuplicateOrder
	}
	r.deliveries[d.ID] = *d
	r.orders[d.OrderID] = d.ID
	return nil
}

func (r *DeliveryRepository) Update(ctx context.Context, id string, d *delivery.Delivery) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.deliveries[id]; !ok {
		return xerrors.ErrNotFound
	}
	r.deliveries[id] = *d
	return nil
}

func (r *DeliveryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.deliveries[id]
	if !ok {
		return xerrors.ErrNotFound
	}
	delete(r.deliveries, id)
	delete(r.orders, d.OrderID)
	return nil
}
