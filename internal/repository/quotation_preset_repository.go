package repository

import (
	"context"

	"github.com/fruta004-ux/olens-crm-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuotationPresetRepository struct {
	db *gorm.DB
}

func NewQuotationPresetRepository(db *gorm.DB) *QuotationPresetRepository {
	return &QuotationPresetRepository{db: db}
}

func (r *QuotationPresetRepository) Create(ctx context.Context, preset *domain.QuotationPreset) error {
	return r.db.WithContext(ctx).Create(preset).Error
}

func (r *QuotationPresetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.QuotationPreset, error) {
	var preset domain.QuotationPreset
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Where("id = ?", id).
		First(&preset).Error
	if err != nil {
		return nil, err
	}
	return &preset, nil
}

// Update replaces the preset header and its items as one unit.
func (r *QuotationPresetRepository) Update(ctx context.Context, preset *domain.QuotationPreset) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("preset_id = ?", preset.ID).Delete(&domain.QuotationPresetItem{}).Error; err != nil {
			return err
		}
		return tx.Save(preset).Error
	})
}

func (r *QuotationPresetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Select(clause.Associations).Delete(&domain.QuotationPreset{BaseModel: domain.BaseModel{ID: id}}).Error
}

func (r *QuotationPresetRepository) List(ctx context.Context, issuerID *domain.IssuerID) ([]domain.QuotationPreset, error) {
	var presets []domain.QuotationPreset
	query := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		})
	if issuerID != nil {
		query = query.Where("issuer_id = ?", *issuerID)
	}
	err := query.Order("name ASC").Find(&presets).Error
	return presets, err
}
