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

// MemoHandler handles HTTP requests for memos
type MemoHandler struct {
	memoService *service.MemoService
	logger      *zap.Logger
}

func NewMemoHandler(memoService *service.MemoService, logger *zap.Logger) *MemoHandler {
	return &MemoHandler{
		memoService: memoService,
		logger:      logger,
	}
}

// ListMemos lists the memos of one target, pinned first.
func (h *MemoHandler) ListMemos(w http.ResponseWriter, r *http.Request) {
	targetType := domain.ActivityTargetType(r.URL.Query().Get("targetType"))
	if targetType != domain.ActivityTargetDeal && targetType != domain.ActivityTargetAccount {
		respondWithError(w, http.StatusBadRequest, "Invalid targetType: must be one of Deal, Account")
		return
	}

	targetID, err := uuid.Parse(r.URL.Query().Get("targetId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid targetId: must be a valid UUID")
		return
	}

	memos, err := h.memoService.ListByTarget(r.Context(), targetType, targetID)
	if err != nil {
		h.logger.Error("failed to list memos", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, memos)
}

func (h *MemoHandler) CreateMemo(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateMemoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	memo, err := h.memoService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, memo)
}

func (h *MemoHandler) UpdateMemo(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid memo ID: must be a valid UUID")
		return
	}

	var req domain.UpdateMemoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	memo, err := h.memoService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, memo)
}

func (h *MemoHandler) DeleteMemo(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid memo ID: must be a valid UUID")
		return
	}

	if err := h.memoService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
