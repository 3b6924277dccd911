package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/m04kA/SMC-SpaceBooking/internal/config"
	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
	customerRepo "github.com/m04kA/SMC-SpaceBooking/internal/infra/storage/customer"
	ledgerRepo "github.com/m04kA/SMC-SpaceBooking/internal/infra/storage/ledger"
	"github.com/m04kA/SMC-SpaceBooking/internal/infra/storage/memory"
	refundRepo "github.com/m04kA/SMC-SpaceBooking/internal/infra/storage/refund"
	reservationRepo "github.com/m04kA/SMC-SpaceBooking/internal/infra/storage/reservation"
	spaceRepo "github.com/m04kA/SMC-SpaceBooking/internal/infra/storage/space"
	spaceTypeRepo "github.com/m04kA/SMC-SpaceBooking/internal/infra/storage/spacetype"
	"github.com/m04kA/SMC-SpaceBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SpaceBooking/pkg/logger"
	"github.com/m04kA/SMC-SpaceBooking/pkg/metrics"
	"github.com/m04kA/SMC-SpaceBooking/pkg/txmanager"
)

// Полные наборы методов хранилищ; им удовлетворяют и PostgreSQL, и memory
type (
	spaceTypeStore interface {
		Create(ctx context.Context, st *domain.SpaceType) (*domain.SpaceType, error)
		GetByID(ctx context.Context, id int64) (*domain.SpaceType, error)
		List(ctx context.Context) ([]*domain.SpaceType, error)
		UpdatePricing(ctx context.Context, st *domain.SpaceType) error
		AdjustSlots(ctx context.Context, id int64, delta int) error
		DecrementAvailable(ctx context.Context, id int64) error
		IncrementAvailable(ctx context.Context, id int64) error
		SetAvailable(ctx context.Context, id int64, available int) error
	}

	spaceStore interface {
		Create(ctx context.Context, sp *domain.Space) (*domain.Space, error)
		GetByID(ctx context.Context, id int64) (*domain.Space, error)
		List(ctx context.Context, spaceTypeID *int64) ([]*domain.Space, error)
		FindFree(ctx context.Context, spaceTypeID int64, window domain.TimeWindow) (*domain.Space, error)
		Occupy(ctx context.Context, id int64, customerID int64, from time.Time) error
		Release(ctx context.Context, id int64) error
		SetOccupancy(ctx context.Context, id int64, customerID *int64, from *time.Time) error
		Delete(ctx context.Context, id int64) error
	}

	customerStore interface {
		Upsert(ctx context.Context, c *domain.Customer) (*domain.Customer, error)
		GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	}

	reservationStore interface {
		Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
		GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
		Update(ctx context.Context, res *domain.Reservation) error
		ListBlocking(ctx context.Context, filter domain.OverlapFilter) ([]*domain.Reservation, error)
		ListByCustomer(ctx context.Context, customerID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error)
		ListExpiredHolds(ctx context.Context, now time.Time) ([]*domain.Reservation, error)
		ListRunningOpenTime(ctx context.Context) ([]domain.Occupancy, error)
		GetCustomerStats(ctx context.Context, customerID int64) (domain.CustomerStats, error)
	}

	refundStore interface {
		Create(ctx context.Context, rf *domain.Refund) (*domain.Refund, error)
		ListByReservation(ctx context.Context, reservationID int64) ([]*domain.Refund, error)
	}

	ledgerStore interface {
		Record(ctx context.Context, entry *domain.TransactionLog) (*domain.TransactionLog, error)
		ListByReservation(ctx context.Context, reservationID int64) ([]*domain.TransactionLog, error)
	}

	txManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
)

// storage репозитории выбранного драйвера
type storage struct {
	SpaceTypes   spaceTypeStore
	Spaces       spaceStore
	Customers    customerStore
	Reservations reservationStore
	Refunds      refundStore
	Ledger       ledgerStore
	TxManager    txManager

	closeFn func()
}

// openStorage поднимает PostgreSQL или memory хранилище по storage.driver
func openStorage(cfg *config.Config, m *metrics.Metrics, clock clockwork.Clock, log *logger.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.StorageMemory {
		log.Warn("Using in-memory storage, data is lost on restart")
		store := memory.NewStore(clock)
		return &storage{
			SpaceTypes:   store.SpaceTypes(),
			Spaces:       store.Spaces(),
			Customers:    store.Customers(),
			Reservations: store.Reservations(),
			Refunds:      store.Refunds(),
			Ledger:       store.Ledger(),
			TxManager:    store.TxManager(),
			closeFn:      func() {},
		}, nil
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// С nil-метриками обертка просто проксирует запросы
	stopCh := make(chan struct{})
	wrapped := dbmetrics.WrapWithDefault(db, m, cfg.Metrics.ServiceName, stopCh)

	return &storage{
		SpaceTypes:   spaceTypeRepo.NewRepository(wrapped),
		Spaces:       spaceRepo.NewRepository(wrapped),
		Customers:    customerRepo.NewRepository(wrapped),
		Reservations: reservationRepo.NewRepository(wrapped),
		Refunds:      refundRepo.NewRepository(wrapped),
		Ledger:       ledgerRepo.NewRepository(wrapped),
		TxManager:    txmanager.NewTransactionManager(wrapped),
		closeFn: func() {
			close(stopCh)
			_ = db.Close()
		},
	}, nil
}

func (s *storage) Close() {
	s.closeFn()
}
