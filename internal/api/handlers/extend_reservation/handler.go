package extend_reservation

import (
	"net/http"

	"github.com/m04kA/SMC-SpaceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SpaceBooking/internal/api/middleware"
	extendReservation "github.com/m04kA/SMC-SpaceBooking/internal/usecase/extend_reservation"
)

const msgInvalidRequestBody = "некорректное тело запроса"

type Handler struct {
	useCase ExtendReservationUseCase
	logger  Logger
}

func NewHandler(useCase ExtendReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations/{reservationId}/extend
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathID(r, "reservationId")
	if err != nil {
		h.logger.Warn("POST /reservations/{id}/extend - %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	var req ExtendRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations/{id}/extend - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &extendReservation.Request{
		Actor:         middleware.GetActor(r.Context()),
		ReservationID: reservationID,
		Hours:         req.Hours,
	})
	if err != nil {
		handlers.RespondUseCaseError(w, h.logger, "POST /reservations/{id}/extend", err)
		return
	}

	h.logger.Info("POST /reservations/{id}/extend - reservation_id=%d extended by %dh, total=%s",
		reservationID, req.Hours, result.TotalCost.StringFixed(2))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
