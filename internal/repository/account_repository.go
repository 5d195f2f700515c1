package repository

import (
	"context"
	"strings"

	"github.com/fruta004-ux/olens-crm-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	var account domain.Account
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepository) Update(ctx context.Context, account *domain.Account) error {
	return r.db.WithContext(ctx).Save(account).Error
}

func (r *AccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Account{}, "id = ?", id).Error
}

func (r *AccountRepository) List(ctx context.Context, page, pageSize int, search string) ([]domain.Account, int64, error) {
	var accounts []domain.Account
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Account{})

	if search != "" {
		searchPattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR registration_number LIKE ?", searchPattern, "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&accounts).Error

	return accounts, total, err
}

// CountActiveDeals counts deals for the account that are not in a
// terminal stage.
func (r *AccountRepository) CountActiveDeals(ctx context.Context, accountID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Deal{}).
		Where("account_id = ? AND stage NOT IN ?", accountID, []domain.Stage{domain.StageComplete, domain.StageRecontact}).
		Count(&count).Error
	return int(count), err
}

func (r *AccountRepository) Search(ctx context.Context, searchQuery string, limit int) ([]domain.Account, error) {
	var accounts []domain.Account
	searchPattern := "%" + strings.ToLower(searchQuery) + "%"
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ?", searchPattern).
		Limit(limit).Find(&accounts).Error
	return accounts, err
}
