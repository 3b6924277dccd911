package open_time

import (
	"net/http"

	"github.com/m04kA/SMC-SpaceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SpaceBooking/internal/api/middleware"
	openTime "github.com/m04kA/SMC-SpaceBooking/internal/usecase/open_time"
)

const msgInvalidRequestBody = "некорректное тело запроса"

type Handler struct {
	useCase OpenTimeUseCase
	logger  Logger
}

func NewHandler(useCase OpenTimeUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// HandleStart POST /api/v1/spaces/{spaceId}/open-time
func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	spaceID, err := handlers.PathID(r, "spaceId")
	if err != nil {
		h.logger.Warn("POST /spaces/{id}/open-time - %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	var req StartRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /spaces/{id}/open-time - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Start(r.Context(), req.ToUseCaseRequest(middleware.GetActor(r.Context()), spaceID))
	if err != nil {
		handlers.RespondUseCaseError(w, h.logger, "POST /spaces/{id}/open-time", err)
		return
	}

	h.logger.Info("POST /spaces/{id}/open-time - Started: reservation_id=%d, space_id=%d, customer_id=%d",
		result.ReservationID, spaceID, result.CustomerID)
	handlers.RespondJSON(w, http.StatusCreated, FromStartResponse(result))
}

// HandleEnd POST /api/v1/reservations/{reservationId}/open-time/end
func (h *Handler) HandleEnd(w http.ResponseWriter, r *http.Request) {
	reservationID, err := handlers.PathID(r, "reservationId")
	if err != nil {
		h.logger.Warn("POST /reservations/{id}/open-time/end - %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.useCase.End(r.Context(), &openTime.EndRequest{
		Actor:         middleware.GetActor(r.Context()),
		ReservationID: reservationID,
	})
	if err != nil {
		handlers.RespondUseCaseError(w, h.logger, "POST /reservations/{id}/open-time/end", err)
		return
	}

	h.logger.Info("POST /reservations/{id}/open-time/end - reservation_id=%d, minutes=%d, billed_hours=%.0f",
		reservationID, result.ElapsedMinutes, result.BilledHours)
	handlers.RespondJSON(w, http.StatusOK, FromEndResponse(result))
}
