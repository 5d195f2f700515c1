package repository

import (
	"context"

	"github.com/fruta004-ux/olens-crm-api/internal/domain"
	"gorm.io/gorm"
)

type IssuerRepository struct {
	db *gorm.DB
}

func NewIssuerRepository(db *gorm.DB) *IssuerRepository {
	return &IssuerRepository{db: db}
}

func (r *IssuerRepository) GetByID(ctx context.Context, id domain.IssuerID) (*domain.Issuer, error) {
	var issuer domain.Issuer
	err := r.db.WithContext(ctx).First(&issuer, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &issuer, nil
}

func (r *IssuerRepository) ListActive(ctx context.Context) ([]domain.Issuer, error) {
	var issuers []domain.Issuer
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&issuers).Error
	return issuers, err
}
