// Package memory хранилище в памяти с тем же набором методов, что и
// PostgreSQL-репозитории. Используется в тестах и при storage.driver = "memory".
package memory

import (
	"context"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
)

type txKey struct{}

// Store общее состояние всех репозиториев
type Store struct {
	mu    sync.Mutex
	clock clockwork.Clock
	data  *state
}

type state struct {
	seq          int64
	spaceTypes   map[int64]*domain.SpaceType
	spaces       map[int64]*domain.Space
	customers    map[int64]*domain.Customer
	reservations map[int64]*domain.Reservation
	refunds      []*domain.Refund
	ledger       []*domain.TransactionLog
}

// NewStore создает пустое хранилище
func NewStore(clock clockwork.Clock) *Store {
	return &Store{
		clock: clock,
		data: &state{
			spaceTypes:   make(map[int64]*domain.SpaceType),
			spaces:       make(map[int64]*domain.Space),
			customers:    make(map[int64]*domain.Customer),
			reservations: make(map[int64]*domain.Reservation),
		},
	}
}

// lock захватывает хранилище, если вызов не внутри транзакции этого же хранилища.
// Транзакция держит блокировку целиком, поэтому вложенные вызовы ее не берут.
func (s *Store) lock(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

func (s *Store) nextID() int64 {
	s.data.seq++
	return s.data.seq
}

func (s *Store) SpaceTypes() *SpaceTypeRepository {
	return &SpaceTypeRepository{s: s}
}

func (s *Store) Spaces() *SpaceRepository {
	return &SpaceRepository{s: s}
}

func (s *Store) Customers() *CustomerRepository {
	return &CustomerRepository{s: s}
}

func (s *Store) Reservations() *ReservationRepository {
	return &ReservationRepository{s: s}
}

func (s *Store) Refunds() *RefundRepository {
	return &RefundRepository{s: s}
}

func (s *Store) Ledger() *LedgerRepository {
	return &LedgerRepository{s: s}
}

// TxManager менеджер транзакций поверх хранилища
func (s *Store) TxManager() *TxManager {
	return &TxManager{s: s}
}

// TxManager выполняет функции строго по одной; при ошибке состояние
// восстанавливается из снимка
type TxManager struct {
	s *Store
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.s.inTx(ctx) {
		return fn(ctx)
	}

	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	snapshot := m.s.data.clone()
	if err := fn(context.WithValue(ctx, txKey{}, m.s)); err != nil {
		m.s.data = snapshot
		return err
	}
	return nil
}

func (d *state) clone() *state {
	c := &state{
		seq:          d.seq,
		spaceTypes:   make(map[int64]*domain.SpaceType, len(d.spaceTypes)),
		spaces:       make(map[int64]*domain.Space, len(d.spaces)),
		customers:    make(map[int64]*domain.Customer, len(d.customers)),
		reservations: make(map[int64]*domain.Reservation, len(d.reservations)),
		refunds:      make([]*domain.Refund, len(d.refunds)),
		ledger:       make([]*domain.TransactionLog, len(d.ledger)),
	}
	for id, v := range d.spaceTypes {
		c.spaceTypes[id] = copyOf(v)
	}
	for id, v := range d.spaces {
		c.spaces[id] = copyOf(v)
	}
	for id, v := range d.customers {
		c.customers[id] = copyOf(v)
	}
	for id, v := range d.reservations {
		c.reservations[id] = copyOf(v)
	}
	for i, v := range d.refunds {
		c.refunds[i] = copyOf(v)
	}
	for i, v := range d.ledger {
		c.ledger[i] = copyOf(v)
	}
	return c
}

// copyOf поверхностная копия сущности. Указатели внутри сущностей
// при изменении всегда заменяются целиком, поэтому ее достаточно.
func copyOf[T any](v *T) *T {
	c := *v
	return &c
}
