package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"linecrm-service/internal/domain/record"
	xerrors "linecrm-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// sortColumns maps the API's sortBy field names onto real columns. The
// repository never interpolates a client-supplied name directly.
var sortColumns = map[string]string{
	"customerName":    "customer_name",
	"phone":           "phone",
	"lineUserId":      "line_user_id",
	"orderNumber":     "order_number",
	"deliveryDate":    "delivery_date",
	"deliveryAddress": "delivery_address",
	"notes":           "notes",
	"status":          "status",
	"lastModified":    "last_modified",
	"createdAt":       "created_at",
}

const recordColumns = `id, customer_name, phone, line_user_id, order_number,
		delivery_date, delivery_address, notes, status, last_modified, created_at`

type RecordRepository struct {
	db *pgxpool.Pool
}

func NewRecordRepository(db *pgxpool.Pool) *RecordRepository {
	return &RecordRepository{db: db}
}

func scanRecord(row pgx.Row) (*record.CustomerRecord, error) {
	var rec record.CustomerRecord
	err := row.Scan(
		&rec.ID, &rec.CustomerName, &rec.Phone, &rec.LineUserID, &rec.OrderNumber,
		&rec.DeliveryDate, &rec.DeliveryAddress, &rec.Notes, &rec.Status,
		&rec.LastModified, &rec.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan customer record: %w", err)
	}
	return &rec, nil
}

func (r *RecordRepository) FindByID(ctx context.Context, id string) (*record.CustomerRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM customer_records WHERE id = $1`, recordColumns)
	return scanRecord(r.db.QueryRow(ctx, query, id))
}

func (r *RecordRepository) List(ctx context.Context, filters *record.ListFilters) ([]record.CustomerRecord, int, error) {
	conditions := []string{}
	args := []interface{}{}
	argPos := 1

	if filters.Status != "" && filters.Status != "all" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, filters.Status)
		argPos++
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(customer_name ILIKE $%d OR line_user_id ILIKE $%d OR order_number ILIKE $%d OR phone ILIKE $%d)",
			argPos, argPos, argPos, argPos))
		args = append(args, "%"+search+"%")
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM customer_records %s`, whereClause)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count customer records: %w", err)
	}

	sortColumn, ok := sortColumns[filters.SortBy]
	if !ok {
		sortColumn = "last_modified"
	}
	sortOrder := "ASC"
	if strings.EqualFold(filters.SortOrder, "desc") {
		sortOrder = "DESC"
	}

	query := fmt.Sprintf(`
		SELECT %s FROM customer_records
		%s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, recordColumns, whereClause, sortColumn, sortOrder, argPos, argPos+1)
	args = append(args, filters.Limit, (filters.Page-1)*filters.Limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list customer records: %w", err)
	}
	defer rows.Close()

	records := []record.CustomerRecord{}
	for rows.Next() {
		var rec record.CustomerRecord
		if err := rows.Scan(
			&rec.ID, &rec.CustomerName, &rec.Phone, &rec.LineUserID, &rec.OrderNumber,
			&rec.DeliveryDate, &rec.DeliveryAddress, &rec.Notes, &rec.Status,
			&rec.LastModified, &rec.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan customer record: %w", err)
		}
		records = append(records, rec)
	}
	return records, total, rows.Err()
}

func (r *RecordRepository) Create(ctx context.Context, rec *record.CustomerRecord) error {
	query := `
		INSERT INTO customer_records (
			id, customer_name, phone, line_user_id, order_number,
			delivery_date, delivery_address, notes, status, last_modified, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.Exec(ctx, query,
		rec.ID, rec.CustomerName, rec.Phone, rec.LineUserID, rec.OrderNumber,
		rec.DeliveryDate, rec.DeliveryAddress, rec.Notes, rec.Status,
		rec.LastModified, rec.CreatedAt,
	)
	if isUniqueViolation(err) {
		return xerrors.ErrDuplicateOrder
	}
	if err != nil {
		return fmt.Errorf("failed to create customer record: %w", err)
	}
	return nil
}

func (r *RecordRepository) Update(ctx context.Context, id string, rec *record.CustomerRecord) error {
	query := `
		UPDATE customer_records SET
			customer_name = $1, phone = $2, line_user_id = $3, order_number = $4,
			delivery_date = $5, delivery_address = $6, notes = $7, status = $8,
			last_modified = $9
		WHERE id = $10
	`
	tag, err := r.db.Exec(ctx, query,
		rec.CustomerName, rec.Phone, rec.LineUserID, rec.OrderNumber,
		rec.DeliveryDate, rec.DeliveryAddress, rec.Notes, rec.Status,
		rec.LastModified, id,
	)
	if isUniqueViolation(err) {
		return xerrors.ErrDuplicateOrder
	}
	if err != nil {
		return fmt.Errorf("failed to update customer record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func (r *RecordRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM customer_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func (r *RecordRepository) CountByStatus(ctx context.Context) (map[record.RecordStatus]int, int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM customer_records GROUP BY status`)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count customer records: %w", err)
	}
	defer rows.Close()

	counts := make(map[record.RecordStatus]int)
	total := 0
	for rows.Next() {
		var status record.RecordStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, 0, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = n
		total += n
	}
	return counts, total, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
