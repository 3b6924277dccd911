package spacetype

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
	"github.com/m04kA/SMC-SpaceBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SpaceBooking/pkg/psqlbuilder"
)

const table = "space_types"

var columns = []string{
	"id",
	"name",
	"description",
	"total_slots",
	"available_slots",
	"default_price",
	"hourly_rate",
	"pricing_type",
	"default_discount_hours",
	"default_discount_percentage",
	"created_at",
	"updated_at",
}

// Repository репозиторий типов пространств и их счетчиков слотов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория типов пространств
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает тип пространства
func (r *Repository) Create(ctx context.Context, st *domain.SpaceType) (*domain.SpaceType, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"name",
			"description",
			"total_slots",
			"available_slots",
			"default_price",
			"hourly_rate",
			"pricing_type",
			"default_discount_hours",
			"default_discount_percentage",
		).
		Values(
			st.Name,
			st.Description,
			st.TotalSlots,
			st.AvailableSlots,
			st.DefaultPrice,
			st.HourlyRate,
			st.PricingType,
			st.DefaultDiscountHours,
			st.DefaultDiscountPercentage,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&st.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	st.CreatedAt = createdAt.Time
	st.UpdatedAt = updatedAt.Time

	return st, nil
}

// GetByID получает тип пространства по ID
// Внутри транзакции строка блокируется (FOR UPDATE): так конкурирующие
// бронирования одного пула проверяют вместимость по очереди
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.SpaceType, error) {
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

	st, err := scanSpaceType(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSpaceTypeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan space type: %w", ErrScanRow, err)
	}

	return st, nil
}

// List все типы пространств по имени
func (r *Repository) List(ctx context.Context) ([]*domain.SpaceType, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		OrderBy("name ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	types := make([]*domain.SpaceType, 0)
	for rows.Next() {
		st, err := scanSpaceType(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		types = append(types, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return types, nil
}

// UpdatePricing обновляет цену и скидки типа; существующие бронирования
// не затрагиваются, у них свой снимок цены
func (r *Repository) UpdatePricing(ctx context.Context, st *domain.SpaceType) error {
	query, args, err := psqlbuilder.Update(table).
		Set("default_price", st.DefaultPrice).
		Set("hourly_rate", st.HourlyRate).
		Set("pricing_type", st.PricingType).
		Set("default_discount_hours", st.DefaultDiscountHours).
		Set("default_discount_percentage", st.DefaultDiscountPercentage).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": st.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdatePricing - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, "UpdatePricing", query, args, ErrSpaceTypeNotFound)
}

// AdjustSlots меняет оба счетчика при добавлении (+1) или удалении (-1) пространства
func (r *Repository) AdjustSlots(ctx context.Context, id int64, delta int) error {
	query, args, err := psqlbuilder.Update(table).
		Set("total_slots", squirrel.Expr("total_slots + ?", delta)).
		Set("available_slots", squirrel.Expr("available_slots + ?", delta)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Expr("total_slots + ? >= 0", delta)).
		Where(squirrel.Expr("available_slots + ? >= 0", delta)).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: AdjustSlots - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, "AdjustSlots", query, args, ErrNoSlotsAvailable)
}

// DecrementAvailable атомарно уменьшает available_slots, только если он больше нуля
func (r *Repository) DecrementAvailable(ctx context.Context, id int64) error {
	query, args, err := psqlbuilder.Update(table).
		Set("available_slots", squirrel.Expr("available_slots - 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Gt{"available_slots": 0}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DecrementAvailable - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, "DecrementAvailable", query, args, ErrNoSlotsAvailable)
}

// IncrementAvailable атомарно увеличивает available_slots, не выходя за total_slots
func (r *Repository) IncrementAvailable(ctx context.Context, id int64) error {
	query, args, err := psqlbuilder.Update(table).
		Set("available_slots", squirrel.Expr("available_slots + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Expr("available_slots < total_slots")).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: IncrementAvailable - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, "IncrementAvailable", query, args, ErrSlotsAtMaximum)
}

// SetAvailable выставляет счетчик по результату сверки
func (r *Repository) SetAvailable(ctx context.Context, id int64, available int) error {
	query, args, err := psqlbuilder.Update(table).
		Set("available_slots", available).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.GtOrEq{"total_slots": available}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetAvailable - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, "SetAvailable", query, args, ErrSpaceTypeNotFound)
}

// execOne выполняет запрос и возвращает notAffected, если ни одна строка не изменилась
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

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSpaceType(row scanner) (*domain.SpaceType, error) {
	var st domain.SpaceType
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&st.ID,
		&st.Name,
		&st.Description,
		&st.TotalSlots,
		&st.AvailableSlots,
		&st.DefaultPrice,
		&st.HourlyRate,
		&st.PricingType,
		&st.DefaultDiscountHours,
		&st.DefaultDiscountPercentage,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	st.CreatedAt = createdAt.Time
	st.UpdatedAt = updatedAt.Time

	return &st, nil
}
