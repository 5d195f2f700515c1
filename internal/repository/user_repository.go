package repository

import (
	"context"
	"time"

	"github.com/fruta004-ux/olens-crm-api/internal/domain"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).Order("name ASC").Find(&users).Error
	return users, err
}

// RecordLogin creates or refreshes the user row from token claims.
// Fields managed locally are preserved; empty claims never overwrite
// stored values.
func (r *UserRepository) RecordLogin(ctx context.Context, id, email, displayName, department string) error {
	now := time.Now().UTC()

	var existing domain.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&existing).Error

	if err == gorm.ErrRecordNotFound {
		user := &domain.User{
			ID:          id,
			Email:       email,
			DisplayName: displayName,
			Department:  department,
			IsActive:    true,
			LastLoginAt: &now,
		}
		return r.db.WithContext(ctx).Create(user).Error
	}
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"last_login_at": now,
	}
	if displayName != "" {
		updates["name"] = displayName
	}
	if email != "" {
		updates["email"] = email
	}
	if department != "" {
		updates["department"] = department
	}

	return r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(updates).Error
}
