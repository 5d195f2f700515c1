package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/fruta004-ux/olens-crm-api/internal/domain"
	"github.com/fruta004-ux/olens-crm-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FeatureRequestHandler handles HTTP requests for the feature request
// intake form.
type FeatureRequestHandler struct {
	featureService *service.FeatureRequestService
	logger         *zap.Logger
}

func NewFeatureRequestHandler(featureService *service.FeatureRequestService, logger *zap.Logger) *FeatureRequestHandler {
	return &FeatureRequestHandler{
		featureService: featureService,
		logger:         logger,
	}
}

func (h *FeatureRequestHandler) ListFeatureRequests(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	var status *domain.FeatureRequestStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := domain.FeatureRequestStatus(raw)
		if !s.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid status: must be one of open, planned, done, declined")
			return
		}
		status = &s
	}

	result, err := h.featureService.List(r.Context(), page, pageSize, status)
	if err != nil {
		h.logger.Error("failed to list feature requests", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *FeatureRequestHandler) GetFeatureRequest(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid feature request ID: must be a valid UUID")
		return
	}

	request, err := h.featureService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, request)
}

func (h *FeatureRequestHandler) CreateFeatureRequest(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateFeatureRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	request, err := h.featureService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create feature request", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, request)
}

func (h *FeatureRequestHandler) UpdateFeatureRequest(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid feature request ID: must be a valid UUID")
		return
	}

	var req domain.UpdateFeatureRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	request, err := h.featureService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, request)
}

func (h *FeatureRequestHandler) DeleteFeatureRequest(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid feature request ID: must be a valid UUID")
		return
	}

	if err := h.featureService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
