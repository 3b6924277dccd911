package cancel_reservation

import (
	"net/http"

	"github.com/m04kA/SMC-SpaceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SpaceBooking/internal/api/middleware"
	cancelReservation "github.com/m04kA/SMC-SpaceBooking/internal/usecase/cancel_reservation"
)

const msgInvalidRequestBody = "некорректное тело запроса"

type Handler struct {
	useCase CancelReservationUseCase
	logger  Logger
}

func NewHandler(useCase CancelReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations/{reservationId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathID(r, "reservationId")
	if err != nil {
		h.logger.Warn("POST /reservations/{id}/cancel - %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	var req CancelRequest
	if err := handlers.DecodeOptionalJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &cancelReservation.Request{
		Actor:         middleware.GetActor(r.Context()),
		ReservationID: reservationID,
		Reason:        req.Reason,
	})
	if err != nil {
		handlers.RespondUseCaseError(w, h.logger, "POST /reservations/{id}/cancel", err)
		return
	}

	h.logger.Info("POST /reservations/{id}/cancel - reservation_id=%d cancelled, refund=%s (%d%%)",
		reservationID, result.RefundAmount.StringFixed(2), result.Percentage)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
