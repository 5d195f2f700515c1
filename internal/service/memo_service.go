package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fruta004-ux/olens-crm-api/internal/domain"
	"github.com/fruta004-ux/olens-crm-api/internal/mapper"
	"github.com/fruta004-ux/olens-crm-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MemoService struct {
	memoRepo *repository.MemoRepository
	logger   *zap.Logger
}

func NewMemoService(memoRepo *repository.MemoRepository, logger *zap.Logger) *MemoService {
	return &MemoService{memoRepo: memoRepo, logger: logger}
}

func (s *MemoService) Create(ctx context.Context, req *domain.CreateMemoRequest) (*domain.MemoDTO, error) {
	if req.TargetType != domain.ActivityTargetDeal && req.TargetType != domain.ActivityTargetAccount {
		return nil, fmt.Errorf("%w: memos attach to deals or accounts", ErrInvalidInput)
	}

	creatorID, creatorName := userIdentity(ctx)
	memo := &domain.Memo{
		TargetType:  req.TargetType,
		TargetID:    req.TargetID,
		Body:        req.Body,
		Pinned:      req.Pinned,
		CreatorID:   creatorID,
		CreatorName: creatorName,
	}

	if err := s.memoRepo.Create(ctx, memo); err != nil {
		return nil, fmt.Errorf("failed to create memo: %w", err)
	}

	dto := mapper.ToMemoDTO(memo)
	return &dto, nil
}

func (s *MemoService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateMemoRequest) (*domain.MemoDTO, error) {
	memo, err := s.memoRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get memo: %w", err)
	}

	memo.Body = req.Body
	memo.Pinned = req.Pinned

	if err := s.memoRepo.Update(ctx, memo); err != nil {
		return nil, fmt.Errorf("failed to update memo: %w", err)
	}

	dto := mapper.ToMemoDTO(memo)
	return &dto, nil
}

func (s *MemoService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.memoRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get memo: %w", err)
	}
	return s.memoRepo.Delete(ctx, id)
}

// ListByTarget returns a target's memos, pinned first, newest first.
func (s *MemoService) ListByTarget(ctx context.Context, targetType domain.ActivityTargetType, targetID uuid.UUID) ([]domain.MemoDTO, error) {
	memos, err := s.memoRepo.ListByTarget(ctx, targetType, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memos: %w", err)
	}

	dtos := make([]domain.MemoDTO, len(memos))
	for i, memo := range memos {
		dtos[i] = mapper.ToMemoDTO(&memo)
	}
	return dtos, nil
}
