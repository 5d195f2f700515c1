package repository

import (
	"context"

	"github.com/fruta004-ux/olens-crm-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MemoRepository struct {
	db *gorm.DB
}

func NewMemoRepository(db *gorm.DB) *MemoRepository {
	return &MemoRepository{db: db}
}

func (r *MemoRepository) Create(ctx context.Context, memo *domain.Memo) error {
	return r.db.WithContext(ctx).Create(memo).Error
}

func (r *MemoRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Memo, error) {
	var memo domain.Memo
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&memo).Error
	if err != nil {
		return nil, err
	}
	return &memo, nil
}

func (r *MemoRepository) Update(ctx context.Context, memo *domain.Memo) error {
	return r.db.WithContext(ctx).Save(memo).Error
}

func (r *MemoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Memo{}, "id = ?", id).Error
}

// ListByTarget returns memos for an entity, pinned first then newest.
func (r *MemoRepository) ListByTarget(ctx context.Context, targetType domain.ActivityTargetType, targetID uuid.UUID) ([]domain.Memo, error) {
	var memos []domain.Memo
	err := r.db.WithContext(ctx).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Order("pinned DESC, created_at DESC").
		Find(&memos).Error
	return memos, err
}
