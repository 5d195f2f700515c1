package repository

import (
	"context"

	"github.com/fruta004-ux/olens-crm-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SettingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// ListByCategory returns the category's entries in display order.
func (r *SettingRepository) ListByCategory(ctx context.Context, category domain.SettingCategory) ([]domain.SettingEntry, error) {
	var entries []domain.SettingEntry
	err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order("display_order ASC").
		Find(&entries).Error
	return entries, err
}

func (r *SettingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SettingEntry, error) {
	var entry domain.SettingEntry
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *SettingRepository) Create(ctx context.Context, entry *domain.SettingEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *SettingRepository) Update(ctx context.Context, entry *domain.SettingEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

// Delete removes an entry and closes the rank gap it leaves behind so
// the category's display orders stay dense.
func (r *SettingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry domain.SettingEntry
		if err := tx.Where("id = ?", id).First(&entry).Error; err != nil {
			return err
		}
		if err := tx.Delete(&entry).Error; err != nil {
			return err
		}
		return tx.Model(&domain.SettingEntry{}).
			Where("category = ? AND display_order > ?", entry.Category, entry.DisplayOrder).
			UpdateColumn("display_order", gorm.Expr("display_order - 1")).Error
	})
}

// MaxDisplayOrder returns the highest rank in a category, 0 when empty.
func (r *SettingRepository) MaxDisplayOrder(ctx context.Context, category domain.SettingCategory) (int, error) {
	var max int
	err := r.db.WithContext(ctx).Model(&domain.SettingEntry{}).
		Where("category = ?", category).
		Select("COALESCE(MAX(display_order), 0)").
		Scan(&max).Error
	return max, err
}

// ReorderCategory rewrites every display order in the category to match
// the supplied ID order. The rewrite runs in one transaction; ranks are
// dense and 1-based afterwards. Other categories are untouched.
func (r *SettingRepository) ReorderCategory(ctx context.Context, category domain.SettingCategory, orderedIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range orderedIDs {
			result := tx.Model(&domain.SettingEntry{}).
				Where("id = ? AND category = ?", id, category).
				UpdateColumn("display_order", i+1)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
}
