package check_availability

import (
	"net/http"

	"github.com/m04kA/SMC-SpaceBooking/internal/api/handlers"
)

type Handler struct {
	useCase CheckAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase CheckAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req, err := ToUseCaseRequest(r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /availability - Invalid query: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		handlers.RespondUseCaseError(w, h.logger, "GET /availability", err)
		return
	}

	h.logger.Info("GET /availability - %d space types checked, hours=%d, pax=%d",
		len(result.SpaceTypes), result.Hours, result.Pax)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
