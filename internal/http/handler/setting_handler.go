package handler

import (
	"encoding/json"
	"net/http"

	"github.com/fruta004-ux/olens-crm-api/internal/domain"
	"github.com/fruta004-ux/olens-crm-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SettingHandler handles HTTP requests for the user-editable dropdown
// lists (needs, source, channel, grade, contract reason).
type SettingHandler struct {
	settingService *service.SettingService
	logger         *zap.Logger
}

func NewSettingHandler(settingService *service.SettingService, logger *zap.Logger) *SettingHandler {
	return &SettingHandler{
		settingService: settingService,
		logger:         logger,
	}
}

func parseCategory(r *http.Request) (domain.SettingCategory, bool) {
	category := domain.SettingCategory(chi.URLParam(r, "category"))
	return category, category.IsValid()
}

func (h *SettingHandler) ListSettings(w http.ResponseWriter, r *http.Request) {
	category, ok := parseCategory(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid category: must be one of needs, source, channel, grade, contract_reason")
		return
	}

	entries, err := h.settingService.ListByCategory(r.Context(), category)
	if err != nil {
		h.logger.Error("failed to list settings", zap.Error(err), zap.String("category", string(category)))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, entries)
}

func (h *SettingHandler) CreateSetting(w http.ResponseWriter, r *http.Request) {
	category, ok := parseCategory(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid category: must be one of needs, source, channel, grade, contract_reason")
		return
	}

	var req domain.CreateSettingEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	entry, err := h.settingService.Create(r.Context(), category, &req)
	if err != nil {
		h.logger.Error("failed to create setting", zap.Error(err), zap.String("category", string(category)))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, entry)
}

func (h *SettingHandler) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	category, ok := parseCategory(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid category: must be one of needs, source, channel, grade, contract_reason")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid setting ID: must be a valid UUID")
		return
	}

	var req domain.UpdateSettingEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	entry, err := h.settingService.Update(r.Context(), category, id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, entry)
}

func (h *SettingHandler) DeleteSetting(w http.ResponseWriter, r *http.Request) {
	category, ok := parseCategory(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid category: must be one of needs, source, channel, grade, contract_reason")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid setting ID: must be a valid UUID")
		return
	}

	if err := h.settingService.Delete(r.Context(), category, id); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ReorderSettings moves an entry within its category list. The response
// is the full reordered list with dense 1-based ranks.
func (h *SettingHandler) ReorderSettings(w http.ResponseWriter, r *http.Request) {
	category, ok := parseCategory(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid category: must be one of needs, source, channel, grade, contract_reason")
		return
	}

	var req domain.ReorderSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	entries, err := h.settingService.Reorder(r.Context(), category, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, entries)
}
