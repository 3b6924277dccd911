package spacetype

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
)

var (
	// ErrSpaceTypeNotFound возвращается, когда тип пространства не найден
	ErrSpaceTypeNotFound = fmt.Errorf("spacetype.repository: %w", domain.ErrSpaceTypeNotFound)

	// ErrNoSlotsAvailable счетчик available_slots уже на нуле
	ErrNoSlotsAvailable = fmt.Errorf("spacetype.repository: no slots available: %w", domain.ErrConflict)

	// ErrSlotsAtMaximum счетчик available_slots уже равен total_slots
	ErrSlotsAtMaximum = errors.New("spacetype.repository: available slots already at total")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("spacetype.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("spacetype.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("spacetype.repository: failed to scan row")
)
