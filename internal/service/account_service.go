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

type AccountService struct {
	accountRepo  *repository.AccountRepository
	contactRepo  *repository.ContactRepository
	dealRepo     *repository.DealRepository
	activityRepo *repository.ActivityRepository
	logger       *zap.Logger
}

func NewAccountService(
	accountRepo *repository.AccountRepository,
	contactRepo *repository.ContactRepository,
	dealRepo *repository.DealRepository,
	activityRepo *repository.ActivityRepository,
	logger *zap.Logger,
) *AccountService {
	return &AccountService{
		accountRepo:  accountRepo,
		contactRepo:  contactRepo,
		dealRepo:     dealRepo,
		activityRepo: activityRepo,
		logger:       logger,
	}
}

func (s *AccountService) Create(ctx context.Context, req *domain.CreateAccountRequest) (*domain.AccountDTO, error) {
	account := &domain.Account{
		Name:               req.Name,
		RegistrationNumber: req.RegistrationNumber,
		Industry:           req.Industry,
		Website:            req.Website,
		Phone:              req.Phone,
		Address:            req.Address,
		Grade:              req.Grade,
		Source:             req.Source,
		Channel:            req.Channel,
		Notes:              req.Notes,
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	dto := mapper.ToAccountDTO(account, 0)
	return &dto, nil
}

func (s *AccountService) GetByID(ctx context.Context, id uuid.UUID) (*domain.AccountDTO, error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	activeDeals, err := s.accountRepo.CountActiveDeals(ctx, id)
	if err != nil {
		s.logger.Warn("failed to count active deals", zap.Error(err))
	}

	dto := mapper.ToAccountDTO(account, activeDeals)
	return &dto, nil
}

func (s *AccountService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateAccountRequest) (*domain.AccountDTO, error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	account.Name = req.Name
	account.RegistrationNumber = req.RegistrationNumber
	account.Industry = req.Industry
	account.Website = req.Website
	account.Phone = req.Phone
	account.Address = req.Address
	account.Grade = req.Grade
	account.Source = req.Source
	account.Channel = req.Channel
	account.Notes = req.Notes

	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	dto := mapper.ToAccountDTO(account, 0)
	return &dto, nil
}

func (s *AccountService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.accountRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get account: %w", err)
	}
	return s.accountRepo.Delete(ctx, id)
}

func (s *AccountService) List(ctx context.Context, page, pageSize int, search string) (*domain.PaginatedResponse, error) {
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}
	if page < 1 {
		page = 1
	}

	accounts, total, err := s.accountRepo.List(ctx, page, pageSize, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	dtos := make([]domain.AccountDTO, len(accounts))
	for i, account := range accounts {
		dtos[i] = mapper.ToAccountDTO(&account, 0)
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

// GetContacts returns all contacts at the account
func (s *AccountService) GetContacts(ctx context.Context, id uuid.UUID) ([]domain.ContactDTO, error) {
	contacts, err := s.contactRepo.ListByAccount(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	dtos := make([]domain.ContactDTO, len(contacts))
	for i, contact := range contacts {
		dtos[i] = mapper.ToContactDTO(&contact)
	}
	return dtos, nil
}

// GetDeals returns all deals for the account
func (s *AccountService) GetDeals(ctx context.Context, id uuid.UUID) ([]domain.DealDTO, error) {
	deals, err := s.dealRepo.GetByAccount(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}

	dtos := make([]domain.DealDTO, len(deals))
	for i, deal := range deals {
		dtos[i] = mapper.ToDealDTO(&deal)
	}
	return dtos, nil
}
