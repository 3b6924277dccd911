package get_refund_quote

import (
	"net/http"

	"github.com/m04kA/SMC-SpaceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SpaceBooking/internal/api/middleware"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/reservations/{reservationId}/refund-quote
// Ничего не меняет, только считает возврат на текущий момент
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathID(r, "reservationId")
	if err != nil {
		h.logger.Warn("GET /reservations/{id}/refund-quote - %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	quote, err := h.service.RefundQuote(r.Context(), middleware.GetActor(r.Context()), reservationID)
	if err != nil {
		handlers.RespondUseCaseError(w, h.logger, "GET /reservations/{id}/refund-quote", err)
		return
	}

	h.logger.Info("GET /reservations/{id}/refund-quote - reservation_id=%d, refund=%s, fee=%s",
		reservationID, quote.RefundAmount, quote.CancellationFee)
	handlers.RespondJSON(w, http.StatusOK, quote)
}
