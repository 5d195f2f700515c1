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

// ActivityService manages timeline entries on deals, accounts and
// quotations. System events are written by the owning services; this
// service covers user-entered entries and timeline reads.
type ActivityService struct {
	activityRepo *repository.ActivityRepository
	logger       *zap.Logger
}

func NewActivityService(activityRepo *repository.ActivityRepository, logger *zap.Logger) *ActivityService {
	return &ActivityService{activityRepo: activityRepo, logger: logger}
}

func (s *ActivityService) Create(ctx context.Context, req *domain.CreateActivityRequest) (*domain.ActivityDTO, error) {
	occurredAt := time.Now().UTC()
	if req.OccurredAt != nil {
		occurredAt = req.OccurredAt.UTC()
	}

	creatorID, creatorName := userIdentity(ctx)
	activity := &domain.Activity{
		TargetType:  req.TargetType,
		TargetID:    req.TargetID,
		Title:       req.Title,
		Body:        req.Body,
		OccurredAt:  occurredAt,
		CreatorID:   creatorID,
		CreatorName: creatorName,
	}

	if err := s.activityRepo.Create(ctx, activity); err != nil {
		return nil, fmt.Errorf("failed to create activity: %w", err)
	}

	dto := mapper.ToActivityDTO(activity)
	return &dto, nil
}

func (s *ActivityService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.activityRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get activity: %w", err)
	}
	return s.activityRepo.Delete(ctx, id)
}

func (s *ActivityService) List(ctx context.Context, page, pageSize int, targetType *domain.ActivityTargetType, targetID *uuid.UUID) (*domain.PaginatedResponse, error) {
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}
	if page < 1 {
		page = 1
	}

	activities, total, err := s.activityRepo.List(ctx, page, pageSize, targetType, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}

	dtos := make([]domain.ActivityDTO, len(activities))
	for i, activity := range activities {
		dtos[i] = mapper.ToActivityDTO(&activity)
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

func (s *ActivityService) GetRecent(ctx context.Context, limit int) ([]domain.ActivityDTO, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}

	activities, err := s.activityRepo.GetRecentActivities(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent activities: %w", err)
	}

	dtos := make([]domain.ActivityDTO, len(activities))
	for i, activity := range activities {
		dtos[i] = mapper.ToActivityDTO(&activity)
	}
	return dtos, nil
}
