package close_reservation

import (
	"time"

	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
)

// Request модель запроса на закрытие бронирования
type Request struct {
	Actor         domain.Actor
	ReservationID int64
}

// Response модель ответа
type Response struct {
	ReservationID int64
	Status        string
	EndTime       time.Time
	SpaceReleased bool
}
