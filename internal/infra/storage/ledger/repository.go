package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
	"github.com/m04kA/SMC-SpaceBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SpaceBooking/pkg/psqlbuilder"
)

const table = "transaction_logs"

var columns = []string{
	"id",
	"transaction_type",
	"reservation_id",
	"customer_id",
	"processed_by",
	"amount",
	"payment_method",
	"status",
	"reference_number",
	"description",
	"created_at",
}

// Repository журнал денежных операций (только добавление)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр журнала
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Record добавляет запись в журнал
func (r *Repository) Record(ctx context.Context, entry *domain.TransactionLog) (*domain.TransactionLog, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(columns[1:10]...).
		Values(
			entry.Type,
			entry.ReservationID,
			entry.CustomerID,
			entry.ProcessedBy,
			entry.Amount,
			entry.PaymentMethod,
			entry.Status,
			entry.ReferenceNumber,
			entry.Description,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Record - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Record - execute insert: %w", ErrExecQuery, err)
	}
	entry.CreatedAt = createdAt.Time

	return entry, nil
}

// ListByReservation записи по бронированию в порядке добавления
func (r *Repository) ListByReservation(ctx context.Context, reservationID int64) ([]*domain.TransactionLog, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"reservation_id": reservationID}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByReservation - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByReservation - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]*domain.TransactionLog, 0)
	for rows.Next() {
		var e domain.TransactionLog
		var createdAt sql.NullTime
		err := rows.Scan(
			&e.ID,
			&e.Type,
			&e.ReservationID,
			&e.CustomerID,
			&e.ProcessedBy,
			&e.Amount,
			&e.PaymentMethod,
			&e.Status,
			&e.ReferenceNumber,
			&e.Description,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByReservation - scan row: %v", ErrScanRow, err)
		}
		e.CreatedAt = createdAt.Time
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByReservation - rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}
