package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/fruta004-ux/olens-crm-api/internal/domain"
	"github.com/fruta004-ux/olens-crm-api/internal/repository"
	"github.com/fruta004-ux/olens-crm-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// QuotationHandler handles HTTP requests for quotations, presets and
// the printable document.
type QuotationHandler struct {
	quotationService *service.QuotationService
	documentService  *service.DocumentService
	logger           *zap.Logger
}

func NewQuotationHandler(
	quotationService *service.QuotationService,
	documentService *service.DocumentService,
	logger *zap.Logger,
) *QuotationHandler {
	return &QuotationHandler{
		quotationService: quotationService,
		documentService:  documentService,
		logger:           logger,
	}
}

func (h *QuotationHandler) ListQuotations(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	filters := &repository.QuotationFilters{}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.QuotationStatus(raw)
		if !status.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid status: must be one of draft, sent, approved, rejected")
			return
		}
		filters.Status = &status
	}
	if raw := r.URL.Query().Get("issuerId"); raw != "" {
		issuerID := domain.IssuerID(raw)
		filters.IssuerID = &issuerID
	}
	if raw := r.URL.Query().Get("dealId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid dealId: must be a valid UUID")
			return
		}
		filters.DealID = &id
	}
	if raw := r.URL.Query().Get("accountId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid accountId: must be a valid UUID")
			return
		}
		filters.AccountID = &id
	}
	if search := r.URL.Query().Get("search"); search != "" {
		filters.SearchQuery = &search
	}

	result, err := h.quotationService.List(r.Context(), page, pageSize, filters)
	if err != nil {
		h.logger.Error("failed to list quotations", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *QuotationHandler) GetQuotation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID: must be a valid UUID")
		return
	}

	quotation, err := h.quotationService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quotation)
}

func (h *QuotationHandler) CreateQuotation(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateQuotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	quotation, err := h.quotationService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create quotation", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/quotations/"+quotation.ID.String())
	respondJSON(w, http.StatusCreated, quotation)
}

func (h *QuotationHandler) UpdateQuotation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID: must be a valid UUID")
		return
	}

	var req domain.UpdateQuotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	quotation, err := h.quotationService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quotation)
}

// UpdateQuotationStatus moves a quotation along its lifecycle.
func (h *QuotationHandler) UpdateQuotationStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID: must be a valid UUID")
		return
	}

	var req domain.UpdateQuotationStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	quotation, err := h.quotationService.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quotation)
}

func (h *QuotationHandler) DeleteQuotation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID: must be a valid UUID")
		return
	}

	if err := h.quotationService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RenderDocument renders the print layout and archives a copy.
func (h *QuotationHandler) RenderDocument(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid quotation ID: must be a valid UUID")
		return
	}

	doc, path, err := h.documentService.RenderAndArchive(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to render quotation document", zap.Error(err), zap.String("quotation_id", id.String()))
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Document-Path", path)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

// GetQuotationsByDeal lists a deal's quotations.
func (h *QuotationHandler) GetQuotationsByDeal(w http.ResponseWriter, r *http.Request) {
	dealID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID: must be a valid UUID")
		return
	}

	quotations, err := h.quotationService.GetByDeal(r.Context(), dealID)
	if err != nil {
		h.logger.Error("failed to list deal quotations", zap.Error(err), zap.String("deal_id", dealID.String()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quotations)
}

// ---- Presets ----

func (h *QuotationHandler) ListPresets(w http.ResponseWriter, r *http.Request) {
	var issuerID *domain.IssuerID
	if raw := r.URL.Query().Get("issuerId"); raw != "" {
		id := domain.IssuerID(raw)
		issuerID = &id
	}

	presets, err := h.quotationService.ListPresets(r.Context(), issuerID)
	if err != nil {
		h.logger.Error("failed to list presets", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, presets)
}

func (h *QuotationHandler) SavePreset(w http.ResponseWriter, r *http.Request) {
	var req domain.SaveQuotationPresetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	preset, err := h.quotationService.SavePreset(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to save preset", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/v1/quotation-presets/%s", preset.ID))
	respondJSON(w, http.StatusCreated, preset)
}

func (h *QuotationHandler) DeletePreset(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid preset ID: must be a valid UUID")
		return
	}

	if err := h.quotationService.DeletePreset(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ApplyPreset creates a fresh draft quotation from a preset.
func (h *QuotationHandler) ApplyPreset(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid preset ID: must be a valid UUID")
		return
	}

	var req domain.ApplyPresetRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			respondValidationError(w, err)
			return
		}
	}

	quotation, err := h.quotationService.ApplyPreset(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/quotations/"+quotation.ID.String())
	respondJSON(w, http.StatusCreated, quotation)
}
