package refund

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
	"github.com/m04kA/SMC-SpaceBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SpaceBooking/pkg/psqlbuilder"
)

const table = "refunds"

var columns = []string{
	"id",
	"reservation_id",
	"customer_id",
	"processed_by",
	"refund_amount",
	"original_amount_paid",
	"cancellation_fee",
	"refund_method",
	"status",
	"reason",
	"notes",
	"reference_number",
	"processed_at",
	"created_at",
}

// Repository репозиторий возвратов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория возвратов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет возврат
func (r *Repository) Create(ctx context.Context, rf *domain.Refund) (*domain.Refund, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(columns[1:13]...).
		Values(
			rf.ReservationID,
			rf.CustomerID,
			rf.ProcessedBy,
			rf.RefundAmount,
			rf.OriginalAmountPaid,
			rf.CancellationFee,
			rf.RefundMethod,
			rf.Status,
			rf.Reason,
			rf.Notes,
			rf.ReferenceNumber,
			rf.ProcessedAt,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&rf.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}
	rf.CreatedAt = createdAt.Time

	return rf, nil
}

// ListByReservation возвраты по бронированию в порядке создания
func (r *Repository) ListByReservation(ctx context.Context, reservationID int64) ([]*domain.Refund, error) {
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

	refunds := make([]*domain.Refund, 0)
	for rows.Next() {
		var rf domain.Refund
		var createdAt sql.NullTime
		err := rows.Scan(
			&rf.ID,
			&rf.ReservationID,
			&rf.CustomerID,
			&rf.ProcessedBy,
			&rf.RefundAmount,
			&rf.OriginalAmountPaid,
			&rf.CancellationFee,
			&rf.RefundMethod,
			&rf.Status,
			&rf.Reason,
			&rf.Notes,
			&rf.ReferenceNumber,
			&rf.ProcessedAt,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByReservation - scan row: %v", ErrScanRow, err)
		}
		rf.CreatedAt = createdAt.Time
		refunds = append(refunds, &rf)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByReservation - rows error: %v", ErrScanRow, err)
	}

	return refunds, nil
}
