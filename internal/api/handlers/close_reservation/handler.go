package close_reservation

import (
	"net/http"

	"github.com/m04kA/SMC-SpaceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SpaceBooking/internal/api/middleware"
	closeReservation "github.com/m04kA/SMC-SpaceBooking/internal/usecase/close_reservation"
)

// CloseResponse HTTP модель ответа
type CloseResponse struct {
	ID            int64  `json:"id"`
	Status        string `json:"status"`
	EndTime       string `json:"endTime"`
	SpaceReleased bool   `json:"spaceReleased"`
}

type Handler struct {
	useCase CloseReservationUseCase
	logger  Logger
}

func NewHandler(useCase CloseReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations/{reservationId}/close
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathID(r, "reservationId")
	if err != nil {
		h.logger.Warn("POST /reservations/{id}/close - %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.useCase.Execute(r.Context(), &closeReservation.Request{
		Actor:         middleware.GetActor(r.Context()),
		ReservationID: reservationID,
	})
	if err != nil {
		handlers.RespondUseCaseError(w, h.logger, "POST /reservations/{id}/close", err)
		return
	}

	h.logger.Info("POST /reservations/{id}/close - reservation_id=%d closed, space_released=%t",
		reservationID, result.SpaceReleased)
	handlers.RespondJSON(w, http.StatusOK, CloseResponse{
		ID:            result.ReservationID,
		Status:        result.Status,
		EndTime:       handlers.FormatTime(result.EndTime),
		SpaceReleased: result.SpaceReleased,
	})
}
