package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
	"github.com/m04kA/SMC-SpaceBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SpaceBooking/pkg/psqlbuilder"
)

const table = "reservations"

var columns = []string{
	"id",
	"customer_id",
	"user_id",
	"space_id",
	"space_type_id",
	"payment_method",
	"hours",
	"pax",
	"status",
	"start_time",
	"end_time",
	"cost",
	"amount_paid",
	"custom_hourly_rate",
	"applied_hourly_rate",
	"applied_discount_hours",
	"applied_discount_percentage",
	"is_discounted",
	"is_open_time",
	"hold_until",
	"notes",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция, использует её
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"customer_id",
			"user_id",
			"space_id",
			"space_type_id",
			"payment_method",
			"hours",
			"pax",
			"status",
			"start_time",
			"end_time",
			"cost",
			"amount_paid",
			"custom_hourly_rate",
			"applied_hourly_rate",
			"applied_discount_hours",
			"applied_discount_percentage",
			"is_discounted",
			"is_open_time",
			"hold_until",
			"notes",
		).
		Values(
			res.CustomerID,
			res.UserID,
			res.SpaceID,
			res.SpaceTypeID,
			res.PaymentMethod,
			res.Hours,
			res.Pax,
			res.Status,
			res.StartTime,
			res.EndTime,
			res.Cost,
			res.AmountPaid,
			res.CustomHourlyRate,
			res.AppliedHourlyRate,
			res.AppliedDiscountHours,
			res.AppliedDiscountPercentage,
			res.IsDiscounted,
			res.IsOpenTime,
			res.HoldUntil,
			res.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&res.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return res, nil
}

// GetByID получает бронирование по ID
// Внутри транзакции строка блокируется (FOR UPDATE), чтобы отмена, продление
// и оплата одного бронирования выполнялись последовательно
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %w", ErrScanRow, err)
	}

	return res, nil
}

// Update сохраняет изменяемые поля бронирования
func (r *Repository) Update(ctx context.Context, res *domain.Reservation) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("space_id", res.SpaceID).
		Set("space_type_id", res.SpaceTypeID).
		Set("payment_method", res.PaymentMethod).
		Set("hours", res.Hours).
		Set("pax", res.Pax).
		Set("status", res.Status).
		Set("start_time", res.StartTime).
		Set("end_time", res.EndTime).
		Set("cost", res.Cost).
		Set("amount_paid", res.AmountPaid).
		Set("custom_hourly_rate", res.CustomHourlyRate).
		Set("applied_hourly_rate", res.AppliedHourlyRate).
		Set("applied_discount_hours", res.AppliedDiscountHours).
		Set("applied_discount_percentage", res.AppliedDiscountPercentage).
		Set("is_discounted", res.IsDiscounted).
		Set("is_open_time", res.IsOpenTime).
		Set("hold_until", res.HoldUntil).
		Set("notes", res.Notes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": res.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}

// ListBlocking возвращает активные бронирования в заданной области
// (пространство, тип или клиент), которые пересекаются с окном.
//
// Открытое бронирование (end_time IS NULL) длится бесконечно.
// Открытое окно-кандидат проверяется как [start, start+1m).
func (r *Repository) ListBlocking(ctx context.Context, filter domain.OverlapFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.NotEq{"status": inactiveStatuses()}).
		Where(squirrel.Lt{"start_time": filter.Window.ProbeEnd()}).
		Where(squirrel.Or{
			squirrel.Eq{"end_time": nil},
			squirrel.Gt{"end_time": filter.Window.Start},
		})

	if filter.SpaceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"space_id": *filter.SpaceID})
	}
	if filter.SpaceTypeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"space_type_id": *filter.SpaceTypeID})
	}
	if filter.CustomerID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}
	if filter.ExcludeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": *filter.ExcludeID})
	}

	selectBuilder = selectBuilder.OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBlocking - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "ListBlocking", query, args)
}

// ListByCustomer история бронирований клиента, новые сначала
func (r *Repository) ListByCustomer(ctx context.Context, customerID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("start_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByCustomer - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "ListByCustomer", query, args)
}

// ListExpiredHolds неоплаченные брони за наличные, у которых истек hold_until
func (r *Repository) ListExpiredHolds(ctx context.Context, now time.Time) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"status": domain.StatusOnHold}).
		Where(squirrel.LtOrEq{"hold_until": now}).
		Where(squirrel.Eq{"amount_paid": 0}).
		OrderBy("hold_until ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListExpiredHolds - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, executor, "ListExpiredHolds", query, args)
}

// ListRunningOpenTime проекция занятости: открытые бронирования без end_time
func (r *Repository) ListRunningOpenTime(ctx context.Context) ([]domain.Occupancy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("space_id", "space_type_id", "id", "customer_id", "start_time").
		From(table).
		Where(squirrel.Eq{"status": domain.StatusActive}).
		Where(squirrel.Eq{"end_time": nil}).
		Where(squirrel.NotEq{"space_id": nil}).
		OrderBy("space_id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListRunningOpenTime - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListRunningOpenTime - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	occupancy := make([]domain.Occupancy, 0)
	for rows.Next() {
		var o domain.Occupancy
		var spaceTypeID sql.NullInt64
		if err := rows.Scan(&o.SpaceID, &spaceTypeID, &o.ReservationID, &o.CustomerID, &o.Since); err != nil {
			return nil, fmt.Errorf("%w: ListRunningOpenTime - scan row: %v", ErrScanRow, err)
		}
		o.SpaceTypeID = spaceTypeID.Int64
		occupancy = append(occupancy, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListRunningOpenTime - rows error: %v", ErrScanRow, err)
	}

	return occupancy, nil
}

// GetCustomerStats агрегаты по истории клиента для проверки оплаты наличными
func (r *Repository) GetCustomerStats(ctx context.Context, customerID int64) (domain.CustomerStats, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		Column(squirrel.Expr("COUNT(*) FILTER (WHERE status = ?)", domain.StatusCancelled)).
		Column(squirrel.Expr(
			"COUNT(*) FILTER (WHERE payment_method = ? AND status IN (?, ?, ?, ?))",
			domain.PaymentCash,
			domain.StatusPending, domain.StatusOnHold, domain.StatusConfirmed, domain.StatusActive,
		)).
		From(table).
		Where(squirrel.Eq{"customer_id": customerID}).
		ToSql()

	if err != nil {
		return domain.CustomerStats{}, fmt.Errorf("%w: GetCustomerStats - build select query: %v", ErrBuildQuery, err)
	}

	var stats domain.CustomerStats
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&stats.TotalBookings,
		&stats.CancelledBookings,
		&stats.ActiveCashBookings,
	)
	if err != nil {
		return domain.CustomerStats{}, fmt.Errorf("%w: GetCustomerStats - scan row: %w", ErrScanRow, err)
	}

	return stats, nil
}

func (r *Repository) query(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) ([]*domain.Reservation, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	reservations := make([]*domain.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return reservations, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row scanner) (*domain.Reservation, error) {
	var res domain.Reservation
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&res.ID,
		&res.CustomerID,
		&res.UserID,
		&res.SpaceID,
		&res.SpaceTypeID,
		&res.PaymentMethod,
		&res.Hours,
		&res.Pax,
		&res.Status,
		&res.StartTime,
		&res.EndTime,
		&res.Cost,
		&res.AmountPaid,
		&res.CustomHourlyRate,
		&res.AppliedHourlyRate,
		&res.AppliedDiscountHours,
		&res.AppliedDiscountPercentage,
		&res.IsDiscounted,
		&res.IsOpenTime,
		&res.HoldUntil,
		&res.Notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return &res, nil
}

func inactiveStatuses() []string {
	out := make([]string, len(domain.InactiveStatuses))
	for i, s := range domain.InactiveStatuses {
		out[i] = string(s)
	}
	return out
}
