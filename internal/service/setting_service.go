package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fruta004-ux/olens-crm-api/internal/domain"
	"github.com/fruta004-ux/olens-crm-api/internal/mapper"
	"github.com/fruta004-ux/olens-crm-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SettingService struct {
	settingRepo *repository.SettingRepository
	logger      *zap.Logger
}

func NewSettingService(settingRepo *repository.SettingRepository, logger *zap.Logger) *SettingService {
	return &SettingService{settingRepo: settingRepo, logger: logger}
}

func (s *SettingService) ListByCategory(ctx context.Context, category domain.SettingCategory) ([]domain.SettingEntryDTO, error) {
	if !category.IsValid() {
		return nil, fmt.Errorf("%w: unknown setting category %s", ErrInvalidInput, category)
	}

	entries, err := s.settingRepo.ListByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}

	dtos := make([]domain.SettingEntryDTO, len(entries))
	for i, entry := range entries {
		dtos[i] = mapper.ToSettingEntryDTO(&entry)
	}
	return dtos, nil
}

// Create appends a new entry at the end of its category's list.
func (s *SettingService) Create(ctx context.Context, category domain.SettingCategory, req *domain.CreateSettingEntryRequest) (*domain.SettingEntryDTO, error) {
	if !category.IsValid() {
		return nil, fmt.Errorf("%w: unknown setting category %s", ErrInvalidInput, category)
	}
	value := strings.TrimSpace(req.Value)
	if value == "" {
		return nil, fmt.Errorf("%w: value is required", ErrInvalidInput)
	}

	maxOrder, err := s.settingRepo.MaxDisplayOrder(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to determine display order: %w", err)
	}

	entry := &domain.SettingEntry{
		Category:     category,
		Value:        value,
		DisplayOrder: maxOrder + 1,
	}
	if err := s.settingRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create setting: %w", err)
	}

	dto := mapper.ToSettingEntryDTO(entry)
	return &dto, nil
}

func (s *SettingService) Update(ctx context.Context, category domain.SettingCategory, id uuid.UUID, req *domain.UpdateSettingEntryRequest) (*domain.SettingEntryDTO, error) {
	entry, err := s.getInCategory(ctx, category, id)
	if err != nil {
		return nil, err
	}

	value := strings.TrimSpace(req.Value)
	if value == "" {
		return nil, fmt.Errorf("%w: value is required", ErrInvalidInput)
	}

	entry.Value = value
	if err := s.settingRepo.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to update setting: %w", err)
	}

	dto := mapper.ToSettingEntryDTO(entry)
	return &dto, nil
}

// Delete removes an entry and compacts the remaining ranks so the
// category list stays dense.
func (s *SettingService) Delete(ctx context.Context, category domain.SettingCategory, id uuid.UUID) error {
	entry, err := s.getInCategory(ctx, category, id)
	if err != nil {
		return err
	}
	return s.settingRepo.Delete(ctx, entry.ID)
}

// Reorder moves the entry at FromIndex to ToIndex within the category's
// ordered list and rewrites every rank to a dense 1-based sequence.
// Other categories are never touched.
func (s *SettingService) Reorder(ctx context.Context, category domain.SettingCategory, req *domain.ReorderSettingsRequest) ([]domain.SettingEntryDTO, error) {
	if !category.IsValid() {
		return nil, fmt.Errorf("%w: unknown setting category %s", ErrInvalidInput, category)
	}

	entries, err := s.settingRepo.ListByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}

	if req.FromIndex < 0 || req.FromIndex >= len(entries) ||
		req.ToIndex < 0 || req.ToIndex >= len(entries) {
		return nil, ErrIndexOutOfRange
	}

	if req.FromIndex != req.ToIndex {
		moved := entries[req.FromIndex]
		entries = append(entries[:req.FromIndex], entries[req.FromIndex+1:]...)
		entries = append(entries[:req.ToIndex], append([]domain.SettingEntry{moved}, entries[req.ToIndex:]...)...)

		orderedIDs := make([]uuid.UUID, len(entries))
		for i, entry := range entries {
			orderedIDs[i] = entry.ID
		}
		if err := s.settingRepo.ReorderCategory(ctx, category, orderedIDs); err != nil {
			return nil, fmt.Errorf("failed to reorder settings: %w", err)
		}
		for i := range entries {
			entries[i].DisplayOrder = i + 1
		}
	}

	dtos := make([]domain.SettingEntryDTO, len(entries))
	for i, entry := range entries {
		dtos[i] = mapper.ToSettingEntryDTO(&entry)
	}
	return dtos, nil
}

func (s *SettingService) getInCategory(ctx context.Context, category domain.SettingCategory, id uuid.UUID) (*domain.SettingEntry, error) {
	entry, err := s.settingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get setting: %w", err)
	}
	if entry.Category != category {
		return nil, ErrNotFound
	}
	return entry, nil
}
