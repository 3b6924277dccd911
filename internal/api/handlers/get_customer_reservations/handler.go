package get_customer_reservations

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

// Handle GET /api/v1/customers/{customerId}/reservations?status=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerID, err := handlers.PathID(r, "customerId")
	if err != nil {
		h.logger.Warn("GET /customers/{id}/reservations - %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	var status *string
	if s := r.URL.Query().Get("status"); s != "" {
		status = &s
	}

	list, err := h.service.ListCustomerReservations(r.Context(), middleware.GetActor(r.Context()), customerID, status)
	if err != nil {
		handlers.RespondUseCaseError(w, h.logger, "GET /customers/{id}/reservations", err)
		return
	}

	h.logger.Info("GET /customers/{id}/reservations - customer_id=%d, total=%d", customerID, list.Total)
	handlers.RespondJSON(w, http.StatusOK, list)
}
