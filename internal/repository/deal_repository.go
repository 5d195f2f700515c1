package repository

import (
	"context"
	"strings"
	"time"

	"github.com/fruta004-ux/olens-crm-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DealFilters contains all filter options for listing deals
type DealFilters struct {
	Stage         *domain.Stage
	OwnerID       *string
	AccountID     *uuid.UUID
	Source        *string
	Channel       *string
	MinAmount     *int64
	MaxAmount     *int64
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	SearchQuery   *string
}

// DealSortOption represents available sort options
type DealSortOption string

const (
	DealSortByCreatedDesc DealSortOption = "created_desc"
	DealSortByCreatedAsc  DealSortOption = "created_asc"
	DealSortByAmountDesc  DealSortOption = "amount_desc"
	DealSortByAmountAsc   DealSortOption = "amount_asc"
	DealSortByUpdatedDesc DealSortOption = "updated_desc"
)

type DealRepository struct {
	db *gorm.DB
}

func NewDealRepository(db *gorm.DB) *DealRepository {
	return &DealRepository{db: db}
}

func (r *DealRepository) Create(ctx context.Context, deal *domain.Deal) error {
	// Omit associations to avoid GORM trying to validate related records
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(deal).Error
}

func (r *DealRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deal, error) {
	var deal domain.Deal
	err := r.db.WithContext(ctx).
		Preload("Account").
		Where("id = ?", id).
		First(&deal).Error
	if err != nil {
		return nil, err
	}
	return &deal, nil
}

func (r *DealRepository) Update(ctx context.Context, deal *domain.Deal) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(deal).Error
}

func (r *DealRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Deal{}, "id = ?", id).Error
}

func (r *DealRepository) List(ctx context.Context, page, pageSize int, filters *DealFilters, sortBy DealSortOption) ([]domain.Deal, int64, error) {
	var deals []domain.Deal
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Deal{}).Preload("Account")
	query = r.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = r.applySorting(query, sortBy)

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Find(&deals).Error

	return deals, total, err
}

// GetByStage returns all deals in a specific stage for pipeline views
func (r *DealRepository) GetByStage(ctx context.Context, stage domain.Stage) ([]domain.Deal, error) {
	var deals []domain.Deal
	err := r.db.WithContext(ctx).
		Preload("Account").
		Where("stage = ?", stage).
		Order("amount DESC").
		Find(&deals).Error
	return deals, err
}

// GetPipelineOverview returns all deals grouped by stage. Stages are
// normalized here so rows written before the canonical stage model
// group with their modern equivalents.
func (r *DealRepository) GetPipelineOverview(ctx context.Context) (map[domain.Stage][]domain.Deal, error) {
	var deals []domain.Deal
	err := r.db.WithContext(ctx).
		Preload("Account").
		Order("stage, amount DESC").
		Find(&deals).Error
	if err != nil {
		return nil, err
	}

	pipeline := make(map[domain.Stage][]domain.Deal)
	for _, deal := range deals {
		stage := domain.NormalizeStage(string(deal.Stage))
		pipeline[stage] = append(pipeline[stage], deal)
	}
	return pipeline, nil
}

// GetByOwner returns all deals owned by a specific user
func (r *DealRepository) GetByOwner(ctx context.Context, ownerID string) ([]domain.Deal, error) {
	var deals []domain.Deal
	err := r.db.WithContext(ctx).
		Preload("Account").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&deals).Error
	return deals, err
}

// GetByAccount returns all deals for a specific account
func (r *DealRepository) GetByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Deal, error) {
	var deals []domain.Deal
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Find(&deals).Error
	return deals, err
}

// ListAll returns every deal with its account for export and reporting.
func (r *DealRepository) ListAll(ctx context.Context) ([]domain.Deal, error) {
	var deals []domain.Deal
	err := r.db.WithContext(ctx).
		Preload("Account").
		Order("created_at ASC").
		Find(&deals).Error
	return deals, err
}

// ListClosed returns deals in S6_complete, optionally bounded by close date.
func (r *DealRepository) ListClosed(ctx context.Context, from, to *time.Time) ([]domain.Deal, error) {
	var deals []domain.Deal
	query := r.db.WithContext(ctx).Where("stage = ?", domain.StageComplete)
	if from != nil {
		query = query.Where("closed_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("closed_at <= ?", *to)
	}
	err := query.Order("closed_at DESC").Find(&deals).Error
	return deals, err
}

// ListRecontactDue returns parked deals whose recontact date has
// arrived and that have not been notified yet.
func (r *DealRepository) ListRecontactDue(ctx context.Context, asOf time.Time) ([]domain.Deal, error) {
	var deals []domain.Deal
	err := r.db.WithContext(ctx).
		Preload("Account").
		Where("stage = ?", domain.StageRecontact).
		Where("recontact_date IS NOT NULL AND recontact_date <= ?", asOf).
		Where("recontact_notified_at IS NULL").
		Find(&deals).Error
	return deals, err
}

// MarkRecontactNotified records that a reminder was sent for the deal.
func (r *DealRepository) MarkRecontactNotified(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.Deal{}).
		Where("id = ?", id).
		Update("recontact_notified_at", at).Error
}

// StageAggregate holds per-stage counts and totals as read from the
// database. Stage values may still be legacy strings.
type StageAggregate struct {
	Stage       domain.Stage
	DealCount   int64
	TotalAmount int64
}

// GetStageAggregates returns raw per-stage counts and amount sums.
func (r *DealRepository) GetStageAggregates(ctx context.Context) ([]StageAggregate, error) {
	var results []StageAggregate
	err := r.db.WithContext(ctx).Model(&domain.Deal{}).
		Select("stage, COUNT(*) as deal_count, COALESCE(SUM(amount), 0) as total_amount").
		Group("stage").
		Scan(&results).Error
	return results, err
}

// Search performs full-text search on deals
func (r *DealRepository) Search(ctx context.Context, searchQuery string, limit int) ([]domain.Deal, error) {
	var deals []domain.Deal
	searchPattern := "%" + strings.ToLower(searchQuery) + "%"
	err := r.db.WithContext(ctx).
		Preload("Account").
		Where("LOWER(name) LIKE ? OR LOWER(account_name) LIKE ?", searchPattern, searchPattern).
		Limit(limit).Order("created_at DESC").
		Find(&deals).Error
	return deals, err
}

// WithTransaction executes operations within a transaction
func (r *DealRepository) WithTransaction(ctx context.Context, fn func(*gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

// applyFilters applies all filter criteria to the query
func (r *DealRepository) applyFilters(query *gorm.DB, filters *DealFilters) *gorm.DB {
	if filters == nil {
		return query
	}

	if filters.Stage != nil {
		query = query.Where("stage = ?", *filters.Stage)
	}

	if filters.OwnerID != nil {
		query = query.Where("owner_id = ?", *filters.OwnerID)
	}

	if filters.AccountID != nil {
		query = query.Where("account_id = ?", *filters.AccountID)
	}

	if filters.Source != nil {
		query = query.Where("source = ?", *filters.Source)
	}

	if filters.Channel != nil {
		query = query.Where("channel = ?", *filters.Channel)
	}

	if filters.MinAmount != nil {
		query = query.Where("amount >= ?", *filters.MinAmount)
	}

	if filters.MaxAmount != nil {
		query = query.Where("amount <= ?", *filters.MaxAmount)
	}

	if filters.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filters.CreatedAfter)
	}

	if filters.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filters.CreatedBefore)
	}

	if filters.SearchQuery != nil && *filters.SearchQuery != "" {
		searchPattern := "%" + strings.ToLower(*filters.SearchQuery) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(account_name) LIKE ?", searchPattern, searchPattern)
	}

	return query
}

// applySorting applies the sorting option to the query
func (r *DealRepository) applySorting(query *gorm.DB, sortBy DealSortOption) *gorm.DB {
	switch sortBy {
	case DealSortByCreatedAsc:
		return query.Order("created_at ASC")
	case DealSortByAmountDesc:
		return query.Order("amount DESC")
	case DealSortByAmountAsc:
		return query.Order("amount ASC")
	case DealSortByUpdatedDesc:
		return query.Order("updated_at DESC")
	default: // DealSortByCreatedDesc
		return query.Order("created_at DESC")
	}
}
