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

type FeatureRequestService struct {
	featureRepo *repository.FeatureRequestRepository
	logger      *zap.Logger
}

func NewFeatureRequestService(featureRepo *repository.FeatureRequestRepository, logger *zap.Logger) *FeatureRequestService {
	return &FeatureRequestService{featureRepo: featureRepo, logger: logger}
}

func (s *FeatureRequestService) Create(ctx context.Context, req *domain.CreateFeatureRequestRequest) (*domain.FeatureRequestDTO, error) {
	priority := req.Priority
	if priority == "" {
		priority = domain.TaskPriorityNormal
	}
	if !priority.IsValid() {
		return nil, fmt.Errorf("%w: invalid priority %s", ErrInvalidInput, priority)
	}

	requesterID, requesterName := userIdentity(ctx)
	request := &domain.FeatureRequest{
		Title:         req.Title,
		Body:          req.Body,
		Status:        domain.FeatureRequestStatusOpen,
		Priority:      priority,
		RequesterID:   requesterID,
		RequesterName: requesterName,
	}

	if err := s.featureRepo.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create feature request: %w", err)
	}

	dto := mapper.ToFeatureRequestDTO(request)
	return &dto, nil
}

func (s *FeatureRequestService) GetByID(ctx context.Context, id uuid.UUID) (*domain.FeatureRequestDTO, error) {
	request, err := s.featureRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get feature request: %w", err)
	}

	dto := mapper.ToFeatureRequestDTO(request)
	return &dto, nil
}

func (s *FeatureRequestService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateFeatureRequestRequest) (*domain.FeatureRequestDTO, error) {
	request, err := s.featureRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get feature request: %w", err)
	}

	if !req.Status.IsValid() {
		return nil, fmt.Errorf("%w: invalid status %s", ErrInvalidInput, req.Status)
	}
	priority := req.Priority
	if priority == "" {
		priority = request.Priority
	}
	if !priority.IsValid() {
		return nil, fmt.Errorf("%w: invalid priority %s", ErrInvalidInput, priority)
	}

	request.Title = req.Title
	request.Body = req.Body
	request.Status = req.Status
	request.Priority = priority

	if err := s.featureRepo.Update(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to update feature request: %w", err)
	}

	dto := mapper.ToFeatureRequestDTO(request)
	return &dto, nil
}

func (s *FeatureRequestService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.featureRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get feature request: %w", err)
	}
	return s.featureRepo.Delete(ctx, id)
}

func (s *FeatureRequestService) List(ctx context.Context, page, pageSize int, status *domain.FeatureRequestStatus) (*domain.PaginatedResponse, error) {
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}
	if page < 1 {
		page = 1
	}

	requests, total, err := s.featureRepo.List(ctx, page, pageSize, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list feature requests: %w", err)
	}

	dtos := make([]domain.FeatureRequestDTO, len(requests))
	for i, request := range requests {
		dtos[i] = mapper.ToFeatureRequestDTO(&request)
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
