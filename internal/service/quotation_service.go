package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fruta004-ux/olens-crm-api/internal/domain"
	"github.com/fruta004-ux/olens-crm-api/internal/mapper"
	"github.com/fruta004-ux/olens-crm-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SequenceSource hands out the next per-date document sequence.
// Implemented by repository.DocumentSequenceRepository.
type SequenceSource interface {
	NextSequence(ctx context.Context, seqDate string) (int, error)
}

// Allowed quotation status moves. Draft documents are editable; once
// sent, only the approved/rejected verdict can follow.
var validStatusChanges = map[domain.QuotationStatus][]domain.QuotationStatus{
	domain.QuotationStatusDraft:    {domain.QuotationStatusSent},
	domain.QuotationStatusSent:     {domain.QuotationStatusApproved, domain.QuotationStatusRejected},
	domain.QuotationStatusApproved: {},
	domain.QuotationStatusRejected: {domain.QuotationStatusSent},
}

type QuotationService struct {
	quotationRepo *repository.QuotationRepository
	presetRepo    *repository.QuotationPresetRepository
	issuerRepo    *repository.IssuerRepository
	sequences     SequenceSource
	activityRepo  *repository.ActivityRepository
	logger        *zap.Logger
	now           func() time.Time
}

func NewQuotationService(
	quotationRepo *repository.QuotationRepository,
	presetRepo *repository.QuotationPresetRepository,
	issuerRepo *repository.IssuerRepository,
	sequences SequenceSource,
	activityRepo *repository.ActivityRepository,
	logger *zap.Logger,
) *QuotationService {
	return &QuotationService{
		quotationRepo: quotationRepo,
		presetRepo:    presetRepo,
		issuerRepo:    issuerRepo,
		sequences:     sequences,
		activityRepo:  activityRepo,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Create validates the request, assigns the next document number for
// today's date, computes all amounts server-side, and persists the
// quotation with its items. Client-sent amounts are never trusted.
func (s *QuotationService) Create(ctx context.Context, req *domain.CreateQuotationRequest) (*domain.QuotationDTO, error) {
	if _, err := s.issuerRepo.GetByID(ctx, req.IssuerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: unknown issuer %s", ErrInvalidInput, req.IssuerID)
		}
		return nil, fmt.Errorf("failed to look up issuer: %w", err)
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one line item is required", ErrInvalidInput)
	}
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
		}
	}

	items := buildItems(req.Items)
	totals := domain.ComputeTotals(items)

	number, err := s.nextNumber(ctx)
	if err != nil {
		return nil, err
	}

	createdByID, createdByName := userIdentity(ctx)

	quotation := &domain.Quotation{
		Number:       number,
		IssuerID:     req.IssuerID,
		DealID:       req.DealID,
		AccountID:    req.AccountID,
		Title:        req.Title,
		Status:       domain.QuotationStatusDraft,
		SupplyAmount: totals.SupplyAmount,
		TaxAmount:    totals.TaxAmount,
		TotalAmount:  totals.TotalAmount,
		ValidUntil:   req.ValidUntil,
		Notes:        req.Notes,
		CreatedByID:  createdByID,
		CreatedBy:    createdByName,
		Items:        items,
	}

	if err := s.quotationRepo.Create(ctx, quotation); err != nil {
		return nil, fmt.Errorf("failed to create quotation: %w", err)
	}

	if req.DealID != nil && createdByName != "" {
		activity := &domain.Activity{
			TargetType:  domain.ActivityTargetDeal,
			TargetID:    *req.DealID,
			Title:       "견적서 생성",
			Body:        fmt.Sprintf("견적서 %s가 생성되었습니다", number),
			OccurredAt:  s.now(),
			CreatorID:   createdByID,
			CreatorName: createdByName,
		}
		if err := s.activityRepo.Create(ctx, activity); err != nil {
			s.logger.Warn("failed to record quotation activity", zap.Error(err))
		}
	}

	return s.GetByID(ctx, quotation.ID)
}

func (s *QuotationService) GetByID(ctx context.Context, id uuid.UUID) (*domain.QuotationDTO, error) {
	quotation, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}

	dto := mapper.ToQuotationDTO(quotation)
	return &dto, nil
}

// Update replaces the editable fields and line items of a draft.
// Every change to the items recomputes all three totals from scratch;
// the assigned number never changes.
func (s *QuotationService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateQuotationRequest) (*domain.QuotationDTO, error) {
	quotation, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}

	if quotation.Status != domain.QuotationStatusDraft {
		return nil, ErrQuotationNotEditable
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one line item is required", ErrInvalidInput)
	}

	items := buildItems(req.Items)
	totals := domain.ComputeTotals(items)

	if err := s.quotationRepo.ReplaceItems(ctx, id, items); err != nil {
		return nil, fmt.Errorf("failed to replace line items: %w", err)
	}

	quotation.Title = req.Title
	quotation.ValidUntil = req.ValidUntil
	quotation.Notes = req.Notes
	quotation.SupplyAmount = totals.SupplyAmount
	quotation.TaxAmount = totals.TaxAmount
	quotation.TotalAmount = totals.TotalAmount
	quotation.Items = nil

	if err := s.quotationRepo.Update(ctx, quotation); err != nil {
		return nil, fmt.Errorf("failed to update quotation: %w", err)
	}

	return s.GetByID(ctx, id)
}

// UpdateStatus moves a quotation along its lifecycle.
func (s *QuotationService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.QuotationStatus) (*domain.QuotationDTO, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, status)
	}

	quotation, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}

	allowed := false
	for _, next := range validStatusChanges[quotation.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidStatusChange, quotation.Status, status)
	}

	if err := s.quotationRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	return s.GetByID(ctx, id)
}

// Delete removes a quotation. Only drafts can be deleted; issued
// numbers of deleted drafts are not reused.
func (s *QuotationService) Delete(ctx context.Context, id uuid.UUID) error {
	quotation, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get quotation: %w", err)
	}

	if quotation.Status != domain.QuotationStatusDraft {
		return ErrQuotationNotEditable
	}

	return s.quotationRepo.Delete(ctx, id)
}

func (s *QuotationService) List(ctx context.Context, page, pageSize int, filters *repository.QuotationFilters) (*domain.PaginatedResponse, error) {
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}
	if page < 1 {
		page = 1
	}

	quotations, total, err := s.quotationRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotations: %w", err)
	}

	dtos := make([]domain.QuotationDTO, len(quotations))
	for i, quotation := range quotations {
		dtos[i] = mapper.ToQuotationDTO(&quotation)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &domain.PaginatedResponse{
		Data:       dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// GetByDeal returns all quotations linked to a deal
func (s *QuotationService) GetByDeal(ctx context.Context, dealID uuid.UUID) ([]domain.QuotationDTO, error) {
	quotations, err := s.quotationRepo.GetByDeal(ctx, dealID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotations: %w", err)
	}

	dtos := make([]domain.QuotationDTO, len(quotations))
	for i, quotation := range quotations {
		dtos[i] = mapper.ToQuotationDTO(&quotation)
	}
	return dtos, nil
}

// SavePreset stores a reusable quotation template.
func (s *QuotationService) SavePreset(ctx context.Context, req *domain.SaveQuotationPresetRequest) (*domain.QuotationPresetDTO, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one line item is required", ErrInvalidInput)
	}

	preset := &domain.QuotationPreset{
		Name:     req.Name,
		IssuerID: req.IssuerID,
		Title:    req.Title,
		Notes:    req.Notes,
	}
	for i, item := range req.Items {
		preset.Items = append(preset.Items, domain.QuotationPresetItem{
			Name:         item.Name,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			DisplayOrder: i + 1,
		})
	}

	if err := s.presetRepo.Create(ctx, preset); err != nil {
		return nil, fmt.Errorf("failed to save preset: %w", err)
	}

	dto := mapper.ToQuotationPresetDTO(preset)
	return &dto, nil
}

func (s *QuotationService) ListPresets(ctx context.Context, issuerID *domain.IssuerID) ([]domain.QuotationPresetDTO, error) {
	presets, err := s.presetRepo.List(ctx, issuerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list presets: %w", err)
	}

	dtos := make([]domain.QuotationPresetDTO, len(presets))
	for i, preset := range presets {
		dtos[i] = mapper.ToQuotationPresetDTO(&preset)
	}
	return dtos, nil
}

func (s *QuotationService) DeletePreset(ctx context.Context, id uuid.UUID) error {
	if _, err := s.presetRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get preset: %w", err)
	}
	return s.presetRepo.Delete(ctx, id)
}

// ApplyPreset creates a new draft quotation from a preset. The preset's
// contents are copied; later edits to the preset never touch documents
// created from it. The new draft gets its own number.
func (s *QuotationService) ApplyPreset(ctx context.Context, presetID uuid.UUID, req *domain.ApplyPresetRequest) (*domain.QuotationDTO, error) {
	preset, err := s.presetRepo.GetByID(ctx, presetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get preset: %w", err)
	}

	title := preset.Title
	if req != nil && req.Title != "" {
		title = req.Title
	}
	if title == "" {
		title = preset.Name
	}

	createReq := &domain.CreateQuotationRequest{
		IssuerID: preset.IssuerID,
		Title:    title,
		Notes:    preset.Notes,
	}
	if req != nil {
		createReq.DealID = req.DealID
		createReq.AccountID = req.AccountID
	}
	for _, item := range preset.Items {
		createReq.Items = append(createReq.Items, domain.QuotationItemRequest{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	return s.Create(ctx, createReq)
}

// nextNumber formats the next document number for today as
// Q-YYYYMMDD-NNN. The sequence source serializes concurrent callers.
func (s *QuotationService) nextNumber(ctx context.Context) (string, error) {
	seqDate := s.now().Format("20060102")
	seq, err := s.sequences.NextSequence(ctx, seqDate)
	if err != nil {
		return "", fmt.Errorf("failed to assign document number: %w", err)
	}
	return fmt.Sprintf("Q-%s-%03d", seqDate, seq), nil
}

func buildItems(reqs []domain.QuotationItemRequest) []domain.QuotationItem {
	items := make([]domain.QuotationItem, len(reqs))
	for i, req := range reqs {
		items[i] = domain.QuotationItem{
			Name:         req.Name,
			Quantity:     req.Quantity,
			UnitPrice:    req.UnitPrice,
			Amount:       domain.LineAmount(req.Quantity, req.UnitPrice),
			DisplayOrder: i + 1,
		}
	}
	return items
}
