package space_types

import (
	"net/http"

	"github.com/m04kA/SMC-SpaceBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SpaceBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SpaceBooking/internal/service/spaces/models"
)

const msgInvalidRequestBody = "некорректное тело запроса"

// Handler каталог типов пространств и управление пулом мест
type Handler struct {
	service SpaceService
	logger  Logger
}

func NewHandler(service SpaceService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleList GET /api/v1/space-types
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListSpaceTypes(r.Context())
	if err != nil {
		handlers.RespondUseCaseError(w, h.logger, "GET /space-types", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, list)
}

// HandleCreate POST /api/v1/space-types
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSpaceTypeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /space-types - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	created, err := h.service.CreateSpaceType(r.Context(), middleware.GetActor(r.Context()), &req)
	if err != nil {
		handlers.RespondUseCaseError(w, h.logger, "POST /space-types", err)
		return
	}

	h.logger.Info("POST /space-types - Created: space_type_id=%d, name=%s", created.ID, created.Name)
	handlers.RespondJSON(w, http.StatusCreated, created)
}

// HandleUpdatePricing PATCH /api/v1/space-types/{spaceTypeId}/pricing
func (h *Handler) HandleUpdatePricing(w http.ResponseWriter, r *http.Request) {
	spaceTypeID, err := handlers.PathID(r, "spaceTypeId")
	if err != nil {
		h.logger.Warn("PATCH /space-types/{id}/pricing - %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	var req models.UpdatePricingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /space-types/{id}/pricing - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	updated, err := h.service.UpdatePricing(r.Context(), middleware.GetActor(r.Context()), spaceTypeID, &req)
	if err != nil {
		handlers.RespondUseCaseError(w, h.logger, "PATCH /space-types/{id}/pricing", err)
		return
	}

	h.logger.Info("PATCH /space-types/{id}/pricing - space_type_id=%d, hourly_rate=%s", spaceTypeID, updated.HourlyRate)
	handlers.RespondJSON(w, http.StatusOK, updated)
}

// HandleAddSpace POST /api/v1/space-types/{spaceTypeId}/spaces
func (h *Handler) HandleAddSpace(w http.ResponseWriter, r *http.Request) {
	spaceTypeID, err := handlers.PathID(r, "spaceTypeId")
	if err != nil {
		h.logger.Warn("POST /space-types/{id}/spaces - %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	var req models.AddSpaceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /space-types/{id}/spaces - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	created, err := h.service.AddSpace(r.Context(), middleware.GetActor(r.Context()), spaceTypeID, &req)
	if err != nil {
		handlers.RespondUseCaseError(w, h.logger, "POST /space-types/{id}/spaces", err)
		return
	}

	h.logger.Info("POST /space-types/{id}/spaces - Added: space_id=%d, space_type_id=%d", created.ID, spaceTypeID)
	handlers.RespondJSON(w, http.StatusCreated, created)
}

// HandleRemoveSpace DELETE /api/v1/spaces/{spaceId}
func (h *Handler) HandleRemoveSpace(w http.ResponseWriter, r *http.Request) {
	spaceID, err := handlers.PathID(r, "spaceId")
	if err != nil {
		h.logger.Warn("DELETE /spaces/{id} - %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	if err := h.service.RemoveSpace(r.Context(), middleware.GetActor(r.Context()), spaceID); err != nil {
		handlers.RespondUseCaseError(w, h.logger, "DELETE /spaces/{id}", err)
		return
	}

	h.logger.Info("DELETE /spaces/{id} - Removed: space_id=%d", spaceID)
	w.WriteHeader(http.StatusNoContent)
}
