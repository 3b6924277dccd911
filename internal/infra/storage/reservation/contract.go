package reservation

import (
	"github.com/m04kA/SMC-SpaceBooking/pkg/dbmetrics"
)

// Переиспользуем интерфейс из dbmetrics для работы с БД.
// Подходит *sql.DB, *dbmetrics.DB и транзакция из контекста.
type DBExecutor = dbmetrics.DBExecutor
