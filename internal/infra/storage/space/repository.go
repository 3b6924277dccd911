package space

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

const table = "spaces"

var columns = []string{
	"id",
	"space_type_id",
	"name",
	"status",
	"current_customer_id",
	"occupied_from",
	"occupied_until",
	"hourly_rate",
	"discount_hours",
	"discount_percentage",
	"created_at",
	"updated_at",
}

// Repository репозиторий физических пространств
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория пространств
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает пространство
func (r *Repository) Create(ctx context.Context, s *domain.Space) (*domain.Space, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"space_type_id",
			"name",
			"status",
			"hourly_rate",
			"discount_hours",
			"discount_percentage",
		).
		Values(
			s.SpaceTypeID,
			s.Name,
			s.Status,
			s.HourlyRate,
			s.DiscountHours,
			s.DiscountPercentage,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return s, nil
}

// GetByID получает пространство по ID (FOR UPDATE внутри транзакции)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Space, error) {
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

	s, err := scanSpace(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSpaceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan space: %w", ErrScanRow, err)
	}

	return s, nil
}

// List все пространства; при spaceTypeID != nil только указанного типа
func (r *Repository) List(ctx context.Context, spaceTypeID *int64) ([]*domain.Space, error) {
	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		OrderBy("space_type_id ASC", "id ASC")

	if spaceTypeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"space_type_id": *spaceTypeID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	return r.query(ctx, "List", query, args)
}

// FindFree первое пространство типа, не находящееся на обслуживании и без
// активных бронирований, пересекающихся с окном
func (r *Repository) FindFree(ctx context.Context, spaceTypeID int64, window domain.TimeWindow) (*domain.Space, error) {
	inactive := make([]string, len(domain.InactiveStatuses))
	for i, s := range domain.InactiveStatuses {
		inactive[i] = string(s)
	}

	busy, busyArgs, err := psqlbuilder.Subquery("1").
		From("reservations r").
		Where("r.space_id = spaces.id").
		Where(squirrel.NotEq{"r.status": inactive}).
		Where(squirrel.Lt{"r.start_time": window.ProbeEnd()}).
		Where(squirrel.Or{
			squirrel.Eq{"r.end_time": nil},
			squirrel.Gt{"r.end_time": window.Start},
		}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindFree - build subquery: %v", ErrBuildQuery, err)
	}

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"space_type_id": spaceTypeID}).
		Where(squirrel.NotEq{"status": domain.SpaceMaintenance}).
		Where(squirrel.Expr("NOT EXISTS ("+busy+")", busyArgs...)).
		OrderBy("id ASC").
		Limit(1)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindFree - build select query: %v", ErrBuildQuery, err)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)
	s, err := scanSpace(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSpaceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindFree - scan space: %w", ErrScanRow, err)
	}

	return s, nil
}

// Occupy атомарно занимает пространство, только если оно свободно
func (r *Repository) Occupy(ctx context.Context, id int64, customerID int64, from time.Time) error {
	query, args, err := psqlbuilder.Update(table).
		Set("status", domain.SpaceOccupied).
		Set("current_customer_id", customerID).
		Set("occupied_from", from).
		Set("occupied_until", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.SpaceAvailable}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Occupy - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, "Occupy", query, args, ErrSpaceNotAvailable)
}

// Release освобождает занятое пространство
func (r *Repository) Release(ctx context.Context, id int64) error {
	query, args, err := psqlbuilder.Update(table).
		Set("status", domain.SpaceAvailable).
		Set("current_customer_id", nil).
		Set("occupied_from", nil).
		Set("occupied_until", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.SpaceOccupied}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Release - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, "Release", query, args, ErrSpaceNotOccupied)
}

// SetOccupancy перезаписывает кэш статуса по проекции из бронирований.
// customerID == nil означает "свободно".
func (r *Repository) SetOccupancy(ctx context.Context, id int64, customerID *int64, from *time.Time) error {
	status := domain.SpaceAvailable
	if customerID != nil {
		status = domain.SpaceOccupied
	}

	query, args, err := psqlbuilder.Update(table).
		Set("status", status).
		Set("current_customer_id", customerID).
		Set("occupied_from", from).
		Set("occupied_until", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.NotEq{"status": domain.SpaceMaintenance}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetOccupancy - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, "SetOccupancy", query, args, ErrSpaceNotFound)
}

// Delete удаляет пространство, только если оно свободно
func (r *Repository) Delete(ctx context.Context, id int64) error {
	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.SpaceAvailable}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, "Delete", query, args, ErrSpaceNotAvailable)
}

func (r *Repository) execOne(ctx context.Context, op, query string, args []interface{}, notAffected error) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return notAffected
	}

	return nil
}

func (r *Repository) query(ctx context.Context, op, query string, args []interface{}) ([]*domain.Space, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	spaces := make([]*domain.Space, 0)
	for rows.Next() {
		s, err := scanSpace(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		spaces = append(spaces, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return spaces, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSpace(row scanner) (*domain.Space, error) {
	var s domain.Space
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&s.ID,
		&s.SpaceTypeID,
		&s.Name,
		&s.Status,
		&s.CurrentCustomerID,
		&s.OccupiedFrom,
		&s.OccupiedUntil,
		&s.HourlyRate,
		&s.DiscountHours,
		&s.DiscountPercentage,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}
