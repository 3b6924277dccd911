package space

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
)

var (
	// ErrSpaceNotFound возвращается, когда пространство не найдено
	ErrSpaceNotFound = fmt.Errorf("space.repository: %w", domain.ErrSpaceNotFound)

	// ErrSpaceNotAvailable пространство уже занято или на обслуживании
	ErrSpaceNotAvailable = fmt.Errorf("space.repository: space not available: %w", domain.ErrConflict)

	// ErrSpaceNotOccupied попытка освободить незанятое пространство
	ErrSpaceNotOccupied = errors.New("space.repository: space is not occupied")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("space.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("space.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("space.repository: failed to scan row")
)
