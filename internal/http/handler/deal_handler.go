package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/fruta004-ux/olens-crm-api/internal/domain"
	"github.com/fruta004-ux/olens-crm-api/internal/repository"
	"github.com/fruta004-ux/olens-crm-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DealHandler handles HTTP requests for deals, the pipeline views and
// the stage transition operations.
type DealHandler struct {
	dealService   *service.DealService
	reportService *service.ReportService
	logger        *zap.Logger
}

func NewDealHandler(dealService *service.DealService, reportService *service.ReportService, logger *zap.Logger) *DealHandler {
	return &DealHandler{
		dealService:   dealService,
		reportService: reportService,
		logger:        logger,
	}
}

// ListDeals returns a paginated deal list. Stage filters accept legacy
// stage spellings and are normalized before querying.
func (h *DealHandler) ListDeals(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	filters := &repository.DealFilters{}

	if raw := r.URL.Query().Get("stage"); raw != "" {
		stage := domain.NormalizeStage(raw)
		if !stage.IsCanonical() {
			respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid stage: %s", raw))
			return
		}
		filters.Stage = &stage
	}
	if ownerID := r.URL.Query().Get("ownerId"); ownerID != "" {
		filters.OwnerID = &ownerID
	}
	if raw := r.URL.Query().Get("accountId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid accountId: must be a valid UUID")
			return
		}
		filters.AccountID = &id
	}
	if source := r.URL.Query().Get("source"); source != "" {
		filters.Source = &source
	}
	if channel := r.URL.Query().Get("channel"); channel != "" {
		filters.Channel = &channel
	}
	if raw := r.URL.Query().Get("minAmount"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid minAmount: must be an integer")
			return
		}
		filters.MinAmount = &v
	}
	if raw := r.URL.Query().Get("maxAmount"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid maxAmount: must be an integer")
			return
		}
		filters.MaxAmount = &v
	}
	if search := r.URL.Query().Get("search"); search != "" {
		filters.SearchQuery = &search
	}

	sortBy := repository.DealSortByCreatedDesc
	if s := r.URL.Query().Get("sortBy"); s != "" {
		sortBy = repository.DealSortOption(s)
	}

	result, err := h.dealService.List(r.Context(), page, pageSize, filters, sortBy)
	if err != nil {
		h.logger.Error("failed to list deals", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *DealHandler) GetDeal(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID: must be a valid UUID")
		return
	}

	deal, err := h.dealService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, deal)
}

func (h *DealHandler) CreateDeal(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	deal, err := h.dealService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create deal", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/deals/"+deal.ID.String())
	respondJSON(w, http.StatusCreated, deal)
}

// CreateDealWithAccount creates a new account and its first deal in a
// single transaction.
func (h *DealHandler) CreateDealWithAccount(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateDealWithAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	deal, err := h.dealService.CreateWithAccount(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create deal with account", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/deals/"+deal.ID.String())
	respondJSON(w, http.StatusCreated, deal)
}

func (h *DealHandler) UpdateDeal(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID: must be a valid UUID")
		return
	}

	var req domain.UpdateDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	deal, err := h.dealService.Update(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update deal", zap.Error(err), zap.String("deal_id", id.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, deal)
}

func (h *DealHandler) DeleteDeal(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID: must be a valid UUID")
		return
	}

	if err := h.dealService.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete deal", zap.Error(err), zap.String("deal_id", id.String()))
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ChangeStage moves a deal between the working stages S0 through S5.
// Closing and parking have their own endpoints.
func (h *DealHandler) ChangeStage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID: must be a valid UUID")
		return
	}

	var req domain.ChangeDealStageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	deal, err := h.dealService.ChangeStage(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, deal)
}

// CloseDeal moves a deal to the completed stage with optional close
// reason codes.
func (h *DealHandler) CloseDeal(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID: must be a valid UUID")
		return
	}

	var req domain.CloseDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	deal, err := h.dealService.Close(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, deal)
}

// RecontactDeal parks a deal for later recontact. A reason and a future
// recontact date are mandatory.
func (h *DealHandler) RecontactDeal(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID: must be a valid UUID")
		return
	}

	var req domain.RecontactDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	deal, err := h.dealService.Recontact(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, deal)
}

// ReopenDeal returns a terminal deal to the start of the pipeline.
func (h *DealHandler) ReopenDeal(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID: must be a valid UUID")
		return
	}

	deal, err := h.dealService.Reopen(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, deal)
}

// GetStageHistory returns the stage transition log, newest first.
func (h *DealHandler) GetStageHistory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID: must be a valid UUID")
		return
	}

	history, err := h.dealService.GetStageHistory(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get stage history", zap.Error(err), zap.String("deal_id", id.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, history)
}

// GetDealActivities returns the deal's activity timeline.
func (h *DealHandler) GetDealActivities(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID: must be a valid UUID")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	activities, err := h.dealService.GetActivities(r.Context(), id, limit)
	if err != nil {
		h.logger.Error("failed to get deal activities", zap.Error(err), zap.String("deal_id", id.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, activities)
}

// GetPipeline returns all deals grouped by canonical stage.
func (h *DealHandler) GetPipeline(w http.ResponseWriter, r *http.Request) {
	pipeline, err := h.dealService.GetPipelineOverview(r.Context())
	if err != nil {
		h.logger.Error("failed to get pipeline overview", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, pipeline)
}

// GetStats returns per-stage aggregates and close reason buckets.
func (h *DealHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reportService.GetPipelineStats(r.Context())
	if err != nil {
		h.logger.Error("failed to get pipeline stats", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// ExportDeals streams the full pipeline as an xlsx workbook.
func (h *DealHandler) ExportDeals(w http.ResponseWriter, r *http.Request) {
	data, err := h.reportService.ExportDeals(r.Context())
	if err != nil {
		h.logger.Error("failed to export deals", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	filename := fmt.Sprintf("deals-%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
