package create_reservation

import (
	"net/http"

	"github.com/m04kA/SMC-SpaceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SpaceBooking/internal/api/middleware"
)

const msgInvalidRequestBody = "некорректное тело запроса"

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
// Гость без заголовков тоже может бронировать (OptionalAuth)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(middleware.GetActor(r.Context()))
	if err != nil {
		h.logger.Warn("POST /reservations - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		handlers.RespondUseCaseError(w, h.logger, "POST /reservations", err)
		return
	}

	if userID, ok := middleware.GetUserID(r.Context()); ok {
		h.logger.Info("POST /reservations - Reservation created: reservation_id=%d, status=%s, user_id=%d",
			result.ReservationID, result.Status, userID)
	} else {
		h.logger.Info("POST /reservations - Guest reservation created: reservation_id=%d, status=%s",
			result.ReservationID, result.Status)
	}
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
