package transition_reservation

import (
	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
)

// Request модель запроса на смену статуса
type Request struct {
	Actor         domain.Actor
	ReservationID int64
	Action        domain.Action // confirm или start
}

// Response модель ответа
type Response struct {
	ReservationID int64
	Status        string
}
