package repository

import (
	"context"

	"github.com/fruta004-ux/olens-crm-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FeatureRequestRepository struct {
	db *gorm.DB
}

func NewFeatureRequestRepository(db *gorm.DB) *FeatureRequestRepository {
	return &FeatureRequestRepository{db: db}
}

func (r *FeatureRequestRepository) Create(ctx context.Context, fr *domain.FeatureRequest) error {
	return r.db.WithContext(ctx).Create(fr).Error
}

func (r *FeatureRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.FeatureRequest, error) {
	var fr domain.FeatureRequest
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&fr).Error
	if err != nil {
		return nil, err
	}
	return &fr, nil
}

func (r *FeatureRequestRepository) Update(ctx context.Context, fr *domain.FeatureRequest) error {
	return r.db.WithContext(ctx).Save(fr).Error
}

func (r *FeatureRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.FeatureRequest{}, "id = ?", id).Error
}

func (r *FeatureRequestRepository) List(ctx context.Context, page, pageSize int, status *domain.FeatureRequestStatus) ([]domain.FeatureRequest, int64, error) {
	var requests []domain.FeatureRequest
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.FeatureRequest{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&requests).Error

	return requests, total, err
}
