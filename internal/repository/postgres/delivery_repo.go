package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"linecrm-service/internal/domain/delivery"
	xerrors "linecrm-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const deliveryColumns = `id, order_id, user_id, customer_name, delivery_date,
		status, response_time, new_delivery_date, reschedule_reason, created_at, updated_at`

type DeliveryRepository struct {
	db *pgxpool.Pool
}

func NewDeliveryRepository(db *pgxpool.Pool) *DeliveryRepository {
	return &DeliveryRepository{db: db}
}

func (r *DeliveryRepository) FindByID(ctx context.Context, id string) (*delivery.Delivery, error) {
	query := fmt.Sprintf(`SELECT %s FROM deliveries WHERE id = $1`, deliveryColumns)

	var d delivery.Delivery
	err := r.db.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.OrderID, &d.UserID, &d.CustomerName, &d.DeliveryDate,
		&d.Status, &d.ResponseTime, &d.NewDeliveryDate, &d.RescheduleReason,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find delivery: %w", err)
	}
	return &d, nil
}

func (r *DeliveryRepository) List(ctx context.Context, filters *delivery.ListFilters) ([]delivery.Delivery, error) {
	conditions := []string{}
	args := []interface{}{}
	argPos := 1

	if filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, filters.Status)
		argPos++
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(order_id ILIKE $%d OR customer_name ILIKE $%d OR user_id ILIKE $%d)",
			argPos, argPos, argPos))
		args = append(args, "%"+search+"%")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s FROM deliveries
		%s
		ORDER BY created_at DESC
	`, deliveryColumns, whereClause)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list deliveries: %w", err)
	}
	defer rows.Close()

	deliveries := []delivery.Delivery{}
	for rows.Next() {
		var d delivery.Delivery
		if err := rows.Scan(
			&d.ID, &d.OrderID, &d.UserID, &d.CustomerName, &d.DeliveryDate,
			&d.Status, &d.ResponseTime, &d.NewDeliveryDate, &d.RescheduleReason,
			&d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan delivery: %w", err)
		}
		deliveries = append(deliveries, d)
	}
	return deliveries, rows.Err()
}

func (r *DeliveryRepository) Create(ctx context.Context, d *delivery.Delivery) error {
	query := `
		INSERT INTO deliveries (
			id, order_id, user_id, customer_name, delivery_date, status,
			response_time, new_delivery_date, reschedule_reason, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.Exec(ctx, query,
		d.ID, d.OrderID, d.UserID, d.CustomerName, d.DeliveryDate, d.Status,
		d.ResponseTime, d.NewDeliveryDate, d.RescheduleReason, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create delivery: %w", err)
	}
	return nil
}

func (r *DeliveryRepository) Update(ctx context.Context, id string, d *delivery.Delivery) error {
	query := `
		UPDATE deliveries SET
			customer_name = $1, delivery_date = $2, status = $3, response_time = $4,
			new_delivery_date = $5, reschedule_reason = $6, updated_at = $7
		WHERE id = $8
	`
	tag, err := r.db.Exec(ctx, query,
		d.CustomerName, d.DeliveryDate, d.Status, d.ResponseTime,
		d.NewDeliveryDate, d.RescheduleReason, d.UpdatedAt, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update delivery: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func (r *DeliveryRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM deliveries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete delivery: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}
