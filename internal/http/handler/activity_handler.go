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

// ActivityHandler handles HTTP requests for activity timelines
type ActivityHandler struct {
	activityService *service.ActivityService
	logger          *zap.Logger
}

func NewActivityHandler(activityService *service.ActivityService, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
		logger:          logger,
	}
}

func (h *ActivityHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	var targetType *domain.ActivityTargetType
	if raw := r.URL.Query().Get("targetType"); raw != "" {
		tt := domain.ActivityTargetType(raw)
		if tt != domain.ActivityTargetDeal && tt != domain.ActivityTargetAccount && tt != domain.ActivityTargetQuotation {
			respondWithError(w, http.StatusBadRequest, "Invalid targetType: must be one of Deal, Account, Quotation")
			return
		}
		targetType = &tt
	}

	var targetID *uuid.UUID
	if raw := r.URL.Query().Get("targetId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid targetId: must be a valid UUID")
			return
		}
		targetID = &id
	}

	result, err := h.activityService.List(r.Context(), page, pageSize, targetType, targetID)
	if err != nil {
		h.logger.Error("failed to list activities", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetRecentActivities returns the newest activities across all targets.
func (h *ActivityHandler) GetRecentActivities(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	activities, err := h.activityService.GetRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list recent activities", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, activities)
}

func (h *ActivityHandler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	activity, err := h.activityService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create activity", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, activity)
}

func (h *ActivityHandler) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid activity ID: must be a valid UUID")
		return
	}

	if err := h.activityService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
