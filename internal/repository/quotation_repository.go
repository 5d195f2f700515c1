package repository

import (
	"context"
	"strings"

	"github.com/fruta004-ux/olens-crm-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuotationFilters contains filter options for listing quotations
type QuotationFilters struct {
	Status      *domain.QuotationStatus
	IssuerID    *domain.IssuerID
	DealID      *uuid.UUID
	AccountID   *uuid.UUID
	SearchQuery *string
}

type QuotationRepository struct {
	db *gorm.DB
}

func NewQuotationRepository(db *gorm.DB) *QuotationRepository {
	return &QuotationRepository{db: db}
}

// CreateInTx persists a quotation with its items using the supplied
// transaction handle, so number assignment and the insert commit
// together.
func (r *QuotationRepository) CreateInTx(tx *gorm.DB, quotation *domain.Quotation) error {
	return tx.Create(quotation).Error
}

func (r *QuotationRepository) Create(ctx context.Context, quotation *domain.Quotation) error {
	return r.db.WithContext(ctx).Create(quotation).Error
}

func (r *QuotationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quotation, error) {
	var quotation domain.Quotation
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Preload("Issuer").
		Preload("Account").
		Where("id = ?", id).
		First(&quotation).Error
	if err != nil {
		return nil, err
	}
	return &quotation, nil
}

func (r *QuotationRepository) GetByNumber(ctx context.Context, number string) (*domain.Quotation, error) {
	var quotation domain.Quotation
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Preload("Issuer").
		Preload("Account").
		Where("number = ?", number).
		First(&quotation).Error
	if err != nil {
		return nil, err
	}
	return &quotation, nil
}

func (r *QuotationRepository) Update(ctx context.Context, quotation *domain.Quotation) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(quotation).Error
}

// ReplaceItems swaps the quotation's line items for a new set in one
// transaction. Callers recompute totals before saving the header.
func (r *QuotationRepository) ReplaceItems(ctx context.Context, quotationID uuid.UUID, items []domain.QuotationItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quotation_id = ?", quotationID).Delete(&domain.QuotationItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].QuotationID = quotationID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *QuotationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.QuotationStatus) error {
	return r.db.WithContext(ctx).Model(&domain.Quotation{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *QuotationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Select(clause.Associations).Delete(&domain.Quotation{BaseModel: domain.BaseModel{ID: id}}).Error
}

func (r *QuotationRepository) List(ctx context.Context, page, pageSize int, filters *QuotationFilters) ([]domain.Quotation, int64, error) {
	var quotations []domain.Quotation
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Quotation{}).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Preload("Issuer").
		Preload("Account")

	query = r.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&quotations).Error

	return quotations, total, err
}

func (r *QuotationRepository) GetByDeal(ctx context.Context, dealID uuid.UUID) ([]domain.Quotation, error) {
	var quotations []domain.Quotation
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Where("deal_id = ?", dealID).
		Order("created_at DESC").
		Find(&quotations).Error
	return quotations, err
}

// WithTransaction executes operations within a transaction
func (r *QuotationRepository) WithTransaction(ctx context.Context, fn func(*gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *QuotationRepository) applyFilters(query *gorm.DB, filters *QuotationFilters) *gorm.DB {
	if filters == nil {
		return query
	}

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.IssuerID != nil {
		query = query.Where("issuer_id = ?", *filters.IssuerID)
	}
	if filters.DealID != nil {
		query = query.Where("deal_id = ?", *filters.DealID)
	}
	if filters.AccountID != nil {
		query = query.Where("account_id = ?", *filters.AccountID)
	}
	if filters.SearchQuery != nil && *filters.SearchQuery != "" {
		searchPattern := "%" + strings.ToLower(*filters.SearchQuery) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(number) LIKE ?", searchPattern, searchPattern)
	}

	return query
}
