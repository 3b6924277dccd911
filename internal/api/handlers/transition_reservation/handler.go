package transition_reservation

import (
	"net/http"

	"github.com/m04kA/SMC-SpaceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SpaceBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SpaceBooking/internal/domain"
	transition "github.com/m04kA/SMC-SpaceBooking/internal/usecase/transition_reservation"
)

// StatusResponse HTTP модель ответа
type StatusResponse struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

// Handler один хендлер на действие: confirm или start
type Handler struct {
	useCase TransitionUseCase
	action  domain.Action
	logger  Logger
}

func NewHandler(useCase TransitionUseCase, action domain.Action, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		action:  action,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations/{reservationId}/confirm и /start
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	route := "POST /reservations/{id}/" + string(h.action)

	reservationID, err := handlers.PathID(r, "reservationId")
	if err != nil {
		h.logger.Warn("%s - %v", route, err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.useCase.Execute(r.Context(), &transition.Request{
		Actor:         middleware.GetActor(r.Context()),
		ReservationID: reservationID,
		Action:        h.action,
	})
	if err != nil {
		handlers.RespondUseCaseError(w, h.logger, route, err)
		return
	}

	h.logger.Info("%s - reservation_id=%d, status=%s", route, reservationID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, StatusResponse{ID: result.ReservationID, Status: result.Status})
}
