package end_reservation_early

import (
	"net/http"

	"github.com/m04kA/SMC-SpaceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SpaceBooking/internal/api/middleware"
	endEarly "github.com/m04kA/SMC-SpaceBooking/internal/usecase/end_reservation_early"
)

type Handler struct {
	useCase EndReservationEarlyUseCase
	logger  Logger
}

func NewHandler(useCase EndReservationEarlyUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations/{reservationId}/end-early
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathID(r, "reservationId")
	if err != nil {
		h.logger.Warn("POST /reservations/{id}/end-early - %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.useCase.Execute(r.Context(), &endEarly.Request{
		Actor:         middleware.GetActor(r.Context()),
		ReservationID: reservationID,
	})
	if err != nil {
		handlers.RespondUseCaseError(w, h.logger, "POST /reservations/{id}/end-early", err)
		return
	}

	h.logger.Info("POST /reservations/{id}/end-early - reservation_id=%d, billed_hours=%.0f",
		reservationID, result.BilledHours)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
