package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fruta004-ux/olens-crm-api/internal/auth"
	"github.com/fruta004-ux/olens-crm-api/internal/domain"
	"github.com/fruta004-ux/olens-crm-api/internal/mapper"
	"github.com/fruta004-ux/olens-crm-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DealService struct {
	dealRepo         *repository.DealRepository
	historyRepo      *repository.DealStageHistoryRepository
	accountRepo      *repository.AccountRepository
	activityRepo     *repository.ActivityRepository
	notificationRepo *repository.NotificationRepository
	logger           *zap.Logger
	db               *gorm.DB
}

func NewDealService(
	dealRepo *repository.DealRepository,
	historyRepo *repository.DealStageHistoryRepository,
	accountRepo *repository.AccountRepository,
	activityRepo *repository.ActivityRepository,
	notificationRepo *repository.NotificationRepository,
	logger *zap.Logger,
	db *gorm.DB,
) *DealService {
	return &DealService{
		dealRepo:         dealRepo,
		historyRepo:      historyRepo,
		accountRepo:      accountRepo,
		activityRepo:     activityRepo,
		notificationRepo: notificationRepo,
		logger:           logger,
		db:               db,
	}
}

func (s *DealService) Create(ctx context.Context, req *domain.CreateDealRequest) (*domain.DealDTO, error) {
	account, err := s.accountRepo.GetByID(ctx, req.AccountID)
	if err != nil {
		return nil, fmt.Errorf("account not found: %w", err)
	}

	// Stage values are normalized on every write so legacy inputs
	// never reach storage.
	stage := domain.StageNewLead
	if req.Stage != "" {
		stage = domain.NormalizeStage(req.Stage)
		if !stage.IsCanonical() {
			return nil, fmt.Errorf("%w: %s", ErrInvalidStage, req.Stage)
		}
	}
	if stage.IsTerminal() {
		return nil, fmt.Errorf("%w: new deals cannot start in %s", ErrInvalidStage, stage)
	}

	var creatorName string
	ownerName := ""
	if userCtx, ok := auth.FromContext(ctx); ok {
		creatorName = userCtx.DisplayName
		if req.OwnerID == userCtx.UserID {
			ownerName = userCtx.DisplayName
		}
	}

	deal := &domain.Deal{
		Name:             req.Name,
		AccountID:        req.AccountID,
		AccountName:      account.Name,
		Stage:            stage,
		Amount:           req.Amount,
		OwnerID:          req.OwnerID,
		OwnerName:        ownerName,
		NeedsSummary:     req.NeedsSummary,
		Source:           req.Source,
		Channel:          req.Channel,
		FirstContactDate: req.FirstContactDate,
		LastContactDate:  req.LastContactDate,
	}

	if err := s.dealRepo.Create(ctx, deal); err != nil {
		return nil, fmt.Errorf("failed to create deal: %w", err)
	}

	if err := s.historyRepo.RecordTransition(ctx, deal.ID, nil, stage, req.OwnerID, ownerName, "딜 생성"); err != nil {
		s.logger.Warn("failed to record initial stage history", zap.Error(err))
	}

	if creatorName != "" {
		s.recordActivity(ctx, deal.ID, "딜 생성", fmt.Sprintf("'%s' 딜이 생성되었습니다", deal.Name), creatorName)
	}

	deal, err = s.dealRepo.GetByID(ctx, deal.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload deal: %w", err)
	}

	dto := mapper.ToDealDTO(deal)
	return &dto, nil
}

// CreateWithAccount creates an account, a deal referencing it, and the
// initial activity in one transaction. Either the whole chain commits
// or none of it is visible.
func (s *DealService) CreateWithAccount(ctx context.Context, req *domain.CreateDealWithAccountRequest) (*domain.DealDTO, error) {
	stage := domain.StageNewLead
	if req.Deal.Stage != "" {
		stage = domain.NormalizeStage(req.Deal.Stage)
		if !stage.IsCanonical() || stage.IsTerminal() {
			return nil, fmt.Errorf("%w: %s", ErrInvalidStage, req.Deal.Stage)
		}
	}

	var creatorName string
	if userCtx, ok := auth.FromContext(ctx); ok {
		creatorName = userCtx.DisplayName
	}

	var deal *domain.Deal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		account := &domain.Account{
			Name:               req.Account.Name,
			RegistrationNumber: req.Account.RegistrationNumber,
			Industry:           req.Account.Industry,
			Website:            req.Account.Website,
			Phone:              req.Account.Phone,
			Address:            req.Account.Address,
			Grade:              req.Account.Grade,
			Source:             req.Account.Source,
			Channel:            req.Account.Channel,
			Notes:              req.Account.Notes,
		}
		if err := tx.Create(account).Error; err != nil {
			return fmt.Errorf("failed to create account: %w", err)
		}

		deal = &domain.Deal{
			Name:         req.Deal.Name,
			AccountID:    account.ID,
			AccountName:  account.Name,
			Stage:        stage,
			Amount:       req.Deal.Amount,
			OwnerID:      req.Deal.OwnerID,
			NeedsSummary: req.Deal.NeedsSummary,
			Source:       req.Account.Source,
			Channel:      req.Account.Channel,
		}
		if err := tx.Omit(clause.Associations).Create(deal).Error; err != nil {
			return fmt.Errorf("failed to create deal: %w", err)
		}

		history := &domain.DealStageHistory{
			DealID:      deal.ID,
			ToStage:     stage,
			ChangedByID: req.Deal.OwnerID,
			Notes:       "신규 거래처 등록과 함께 생성",
			ChangedAt:   time.Now().UTC(),
		}
		if err := tx.Create(history).Error; err != nil {
			return fmt.Errorf("failed to record stage history: %w", err)
		}

		activity := &domain.Activity{
			TargetType:  domain.ActivityTargetDeal,
			TargetID:    deal.ID,
			Title:       "딜 생성",
			Body:        fmt.Sprintf("신규 거래처 '%s'와 함께 생성되었습니다", account.Name),
			OccurredAt:  time.Now().UTC(),
			CreatorName: creatorName,
		}
		return tx.Create(activity).Error
	})
	if err != nil {
		return nil, err
	}

	deal, err = s.dealRepo.GetByID(ctx, deal.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload deal: %w", err)
	}

	dto := mapper.ToDealDTO(deal)
	return &dto, nil
}

func (s *DealService) GetByID(ctx context.Context, id uuid.UUID) (*domain.DealDTO, error) {
	deal, err := s.dealRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get deal: %w", err)
	}

	dto := mapper.ToDealDTO(deal)
	return &dto, nil
}

func (s *DealService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateDealRequest) (*domain.DealDTO, error) {
	deal, err := s.dealRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get deal: %w", err)
	}

	deal.Name = req.Name
	deal.Amount = req.Amount
	if req.OwnerID != "" {
		deal.OwnerID = req.OwnerID
	}
	deal.NeedsSummary = req.NeedsSummary
	deal.Source = req.Source
	deal.Channel = req.Channel
	if req.LastContactDate != nil {
		deal.LastContactDate = req.LastContactDate
	}

	if err := s.dealRepo.Update(ctx, deal); err != nil {
		return nil, fmt.Errorf("failed to update deal: %w", err)
	}

	dto := mapper.ToDealDTO(deal)
	return &dto, nil
}

func (s *DealService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.dealRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get deal: %w", err)
	}

	if err := s.historyRepo.DeleteByDealID(ctx, id); err != nil {
		s.logger.Warn("failed to delete deal stage history", zap.Error(err))
	}

	if err := s.dealRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete deal: %w", err)
	}

	return nil
}

func (s *DealService) List(ctx context.Context, page, pageSize int, filters *repository.DealFilters, sortBy repository.DealSortOption) (*domain.PaginatedResponse, error) {
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}
	if page < 1 {
		page = 1
	}

	deals, total, err := s.dealRepo.List(ctx, page, pageSize, filters, sortBy)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}

	dtos := make([]domain.DealDTO, len(deals))
	for i, deal := range deals {
		dtos[i] = mapper.ToDealDTO(&deal)
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

// ChangeStage moves a deal between active stages (S0 through S5).
// Moves into S6_complete and S7_recontact go through Close and
// Recontact, which enforce their own requirements.
func (s *DealService) ChangeStage(ctx context.Context, id uuid.UUID, req *domain.ChangeDealStageRequest) (*domain.DealDTO, error) {
	deal, err := s.dealRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get deal: %w", err)
	}

	target := domain.NormalizeStage(req.Stage)
	if !target.IsCanonical() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStage, req.Stage)
	}
	if target.IsTerminal() {
		return nil, fmt.Errorf("%w: use the close or recontact operation for %s", ErrInvalidTransition, target)
	}
	current := domain.NormalizeStage(string(deal.Stage))
	if current.IsTerminal() {
		return nil, fmt.Errorf("%w: deal in %s must be reopened first", ErrInvalidTransition, current)
	}
	if current == target {
		dto := mapper.ToDealDTO(deal)
		return &dto, nil
	}

	oldStage := deal.Stage
	deal.Stage = target

	if err := s.dealRepo.Update(ctx, deal); err != nil {
		return nil, fmt.Errorf("failed to update deal stage: %w", err)
	}

	changedByID, changedByName := userIdentity(ctx)
	if err := s.historyRepo.RecordTransition(ctx, deal.ID, &oldStage, target, changedByID, changedByName, req.Notes); err != nil {
		s.logger.Warn("failed to record stage history", zap.Error(err))
	}

	if changedByName != "" {
		s.recordActivity(ctx, deal.ID, "단계 변경",
			fmt.Sprintf("'%s' 딜이 %s 단계에서 %s 단계로 이동했습니다", deal.Name, oldStage.Label(), target.Label()), changedByName)
	}

	dto := mapper.ToDealDTO(deal)
	return &dto, nil
}

// Close moves a deal to S6_complete. Close reason codes are optional;
// a close without codes lands in the "reason unknown" reporting bucket.
func (s *DealService) Close(ctx context.Context, id uuid.UUID, req *domain.CloseDealRequest) (*domain.DealDTO, error) {
	deal, err := s.dealRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get deal: %w", err)
	}

	current := domain.NormalizeStage(string(deal.Stage))
	if current == domain.StageComplete {
		return nil, fmt.Errorf("%w: deal is already closed", ErrInvalidTransition)
	}

	codes := strings.TrimSpace(req.CloseReasonCodes)

	oldStage := deal.Stage
	now := time.Now().UTC()
	deal.Stage = domain.StageComplete
	deal.CloseReasonCodes = codes
	deal.ClosedAt = &now
	// Leaving S7 clears the parked follow-up state.
	deal.RecontactDate = nil
	deal.RecontactReason = ""
	deal.RecontactNotifiedAt = nil

	if err := s.dealRepo.Update(ctx, deal); err != nil {
		return nil, fmt.Errorf("failed to close deal: %w", err)
	}

	changedByID, changedByName := userIdentity(ctx)
	notes := req.Notes
	if codes != "" {
		notes = fmt.Sprintf("[%s] %s", domain.CloseReasonText(codes), req.Notes)
	}
	if err := s.historyRepo.RecordTransition(ctx, deal.ID, &oldStage, domain.StageComplete, changedByID, changedByName, notes); err != nil {
		s.logger.Warn("failed to record stage history", zap.Error(err))
	}

	if changedByName != "" {
		s.recordActivity(ctx, deal.ID, "딜 완료",
			fmt.Sprintf("'%s' 딜이 완료되었습니다. 사유: %s", deal.Name, domain.CloseReasonText(codes)), changedByName)
	}
	s.notifyDealClosed(ctx, deal, changedByID)

	dto := mapper.ToDealDTO(deal)
	return &dto, nil
}

// Recontact parks a deal in S7_recontact. A reason and a future date
// are hard requirements; there is no way into S7 without both.
func (s *DealService) Recontact(ctx context.Context, id uuid.UUID, req *domain.RecontactDealRequest) (*domain.DealDTO, error) {
	deal, err := s.dealRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get deal: %w", err)
	}

	if strings.TrimSpace(req.RecontactReason) == "" {
		return nil, ErrRecontactReasonRequired
	}
	if !req.RecontactDate.After(time.Now()) {
		return nil, ErrRecontactDateRequired
	}

	current := domain.NormalizeStage(string(deal.Stage))
	if current == domain.StageRecontact {
		return nil, fmt.Errorf("%w: deal is already parked for recontact", ErrInvalidTransition)
	}

	oldStage := deal.Stage
	recontactDate := req.RecontactDate
	deal.Stage = domain.StageRecontact
	deal.RecontactDate = &recontactDate
	deal.RecontactReason = req.RecontactReason
	deal.RecontactNotifiedAt = nil
	deal.CloseReasonCodes = ""
	deal.ClosedAt = nil

	if err := s.dealRepo.Update(ctx, deal); err != nil {
		return nil, fmt.Errorf("failed to park deal: %w", err)
	}

	changedByID, changedByName := userIdentity(ctx)
	notes := fmt.Sprintf("[%s] %s", domain.RecontactReasonText(req.RecontactReason), req.Notes)
	if err := s.historyRepo.RecordTransition(ctx, deal.ID, &oldStage, domain.StageRecontact, changedByID, changedByName, notes); err != nil {
		s.logger.Warn("failed to record stage history", zap.Error(err))
	}

	if changedByName != "" {
		s.recordActivity(ctx, deal.ID, "재접촉 예정",
			fmt.Sprintf("'%s' 딜이 %s 재접촉 예정으로 전환되었습니다", deal.Name, recontactDate.Format("2006-01-02")), changedByName)
	}

	dto := mapper.ToDealDTO(deal)
	return &dto, nil
}

// Reopen returns a closed or parked deal to the active pipeline.
func (s *DealService) Reopen(ctx context.Context, id uuid.UUID) (*domain.DealDTO, error) {
	deal, err := s.dealRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get deal: %w", err)
	}

	current := domain.NormalizeStage(string(deal.Stage))
	if !current.IsTerminal() {
		return nil, fmt.Errorf("%w: only closed or parked deals can be reopened", ErrInvalidTransition)
	}

	oldStage := deal.Stage
	deal.Stage = domain.StageNewLead
	deal.CloseReasonCodes = ""
	deal.ClosedAt = nil
	deal.RecontactDate = nil
	deal.RecontactReason = ""
	deal.RecontactNotifiedAt = nil

	if err := s.dealRepo.Update(ctx, deal); err != nil {
		return nil, fmt.Errorf("failed to reopen deal: %w", err)
	}

	changedByID, changedByName := userIdentity(ctx)
	if err := s.historyRepo.RecordTransition(ctx, deal.ID, &oldStage, domain.StageNewLead, changedByID, changedByName, "딜 재오픈"); err != nil {
		s.logger.Warn("failed to record stage history", zap.Error(err))
	}

	if changedByName != "" {
		s.recordActivity(ctx, deal.ID, "딜 재오픈",
			fmt.Sprintf("'%s' 딜이 신규 리드로 재오픈되었습니다", deal.Name), changedByName)
	}

	dto := mapper.ToDealDTO(deal)
	return &dto, nil
}

// GetStageHistory returns the stage history for a deal
func (s *DealService) GetStageHistory(ctx context.Context, dealID uuid.UUID) ([]domain.DealStageHistoryDTO, error) {
	history, err := s.historyRepo.GetByDealID(ctx, dealID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stage history: %w", err)
	}

	dtos := make([]domain.DealStageHistoryDTO, len(history))
	for i, h := range history {
		dtos[i] = mapper.ToDealStageHistoryDTO(&h)
	}

	return dtos, nil
}

// GetPipelineOverview returns deals grouped by canonical stage
func (s *DealService) GetPipelineOverview(ctx context.Context) (map[string][]domain.DealDTO, error) {
	pipeline, err := s.dealRepo.GetPipelineOverview(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get pipeline overview: %w", err)
	}

	result := make(map[string][]domain.DealDTO)
	for _, stage := range domain.PipelineStages {
		deals := pipeline[stage]
		dtos := make([]domain.DealDTO, len(deals))
		for i, deal := range deals {
			dtos[i] = mapper.ToDealDTO(&deal)
		}
		result[string(stage)] = dtos
	}

	return result, nil
}

// GetActivities returns activities for a deal
func (s *DealService) GetActivities(ctx context.Context, id uuid.UUID, limit int) ([]domain.ActivityDTO, error) {
	activities, err := s.activityRepo.ListByTarget(ctx, domain.ActivityTargetDeal, id, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get activities: %w", err)
	}

	dtos := make([]domain.ActivityDTO, len(activities))
	for i, activity := range activities {
		dtos[i] = mapper.ToActivityDTO(&activity)
	}

	return dtos, nil
}

func (s *DealService) recordActivity(ctx context.Context, dealID uuid.UUID, title, body, creatorName string) {
	activity := &domain.Activity{
		TargetType:  domain.ActivityTargetDeal,
		TargetID:    dealID,
		Title:       title,
		Body:        body,
		OccurredAt:  time.Now().UTC(),
		CreatorName: creatorName,
	}
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		s.logger.Warn("failed to record deal activity", zap.Error(err))
	}
}

func (s *DealService) notifyDealClosed(ctx context.Context, deal *domain.Deal, closedByID string) {
	if s.notificationRepo == nil {
		return
	}
	if deal.OwnerID == "" || deal.OwnerID == closedByID {
		return
	}

	notification := &domain.Notification{
		UserID:     deal.OwnerID,
		Type:       string(domain.NotificationTypeDealClosed),
		Title:      "딜 완료",
		Message:    fmt.Sprintf("'%s' 딜이 완료 처리되었습니다", deal.Name),
		EntityID:   &deal.ID,
		EntityType: "deal",
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		s.logger.Warn("failed to create deal closed notification", zap.Error(err))
	}
}

func userIdentity(ctx context.Context) (string, string) {
	if userCtx, ok := auth.FromContext(ctx); ok {
		return userCtx.UserID, userCtx.DisplayName
	}
	return "", ""
}
