package service_test

import (
	"testing"
	"time"

	"github.com/fruta004-ux/olens-crm-api/internal/domain"
	"github.com/fruta004-ux/olens-crm-api/internal/repository"
	"github.com/fruta004-ux/olens-crm-api/internal/service"
	"github.com/fruta004-ux/olens-crm-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newDealService(db *gorm.DB) *service.DealService {
	return service.NewDealService(
		repository.NewDealRepository(db),
		repository.NewDealStageHistoryRepository(db),
		repository.NewAccountRepository(db),
		repository.NewActivityRepository(db),
		repository.NewNotificationRepository(db),
		zap.NewNop(),
		db,
	)
}

func TestDealService_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	svc := newDealService(db)
	account := testutil.CreateTestAccount(t, db, "테스트 거래처")
	ctx := testutil.TestUserContext()

	deal, err := svc.Create(ctx, &domain.CreateDealRequest{
		Name:      "신규 도입 건",
		AccountID: account.ID,
		Amount:    5000000,
		OwnerID:   "user-test-owner",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StageNewLead, deal.Stage)
	assert.Equal(t, account.Name, deal.AccountName)
	assert.Equal(t, int64(5000000), deal.Amount)

	// Initial stage transition is recorded with no from-stage.
	history, err := svc.GetStageHistory(ctx, deal.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Nil(t, history[0].FromStage)
	assert.Equal(t, domain.StageNewLead, history[0].ToStage)
}

func TestDealService_Create_NormalizesLegacyStage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	svc := newDealService(db)
	account := testutil.CreateTestAccount(t, db, "레거시 단계 거래처")
	ctx := testutil.TestUserContext()

	deal, err := svc.Create(ctx, &domain.CreateDealRequest{
		Name:      "레거시 단계 딜",
		AccountID: account.ID,
		Stage:     "proposal_sent",
		OwnerID:   "user-test-owner",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StageProposal, deal.Stage)
}

func TestDealService_Create_RejectsTerminalStage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	svc := newDealService(db)
	account := testutil.CreateTestAccount(t, db, "완료 단계 거래처")
	ctx := testutil.TestUserContext()

	_, err := svc.Create(ctx, &domain.CreateDealRequest{
		Name:      "완료로 시작하는 딜",
		AccountID: account.ID,
		Stage:     "S6_complete",
		OwnerID:   "user-test-owner",
	})
	assert.ErrorIs(t, err, service.ErrInvalidStage)
}

func TestDealService_ChangeStage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	svc := newDealService(db)
	account := testutil.CreateTestAccount(t, db, "단계 이동 거래처")
	deal := testutil.CreateTestDeal(t, db, account, "단계 이동 딜", domain.StageNewLead)
	ctx := testutil.TestUserContext()

	updated, err := svc.ChangeStage(ctx, deal.ID, &domain.ChangeDealStageRequest{Stage: "S3_proposal"})
	require.NoError(t, err)
	assert.Equal(t, domain.StageProposal, updated.Stage)

	history, err := svc.GetStageHistory(ctx, deal.ID)
	require.NoError(t, err)
	require.NotEmpty(t, history)
	assert.Equal(t, domain.StageProposal, history[0].ToStage)
}

func TestDealService_ChangeStage_TerminalTargetRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	svc := newDealService(db)
	account := testutil.CreateTestAccount(t, db, "종료 이동 거래처")
	deal := testutil.CreateTestDeal(t, db, account, "종료 이동 딜", domain.StageNegotiation)
	ctx := testutil.TestUserContext()

	_, err := svc.ChangeStage(ctx, deal.ID, &domain.ChangeDealStageRequest{Stage: "S6_complete"})
	assert.ErrorIs(t, err, service.ErrInvalidTransition)

	_, err = svc.ChangeStage(ctx, deal.ID, &domain.ChangeDealStageRequest{Stage: "S7_recontact"})
	assert.ErrorIs(t, err, service.ErrInvalidTransition)
}

func TestDealService_Close(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	svc := newDealService(db)
	account := testutil.CreateTestAccount(t, db, "완료 처리 거래처")
	deal := testutil.CreateTestDeal(t, db, account, "완료 처리 딜", domain.StageNegotiation)
	ctx := testutil.TestUserContext()

	closed, err := svc.Close(ctx, deal.ID, &domain.CloseDealRequest{
		CloseReasonCodes: "C01,P01",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StageComplete, closed.Stage)
	assert.Equal(t, "C01,P01", closed.CloseReasonCodes)
	assert.NotEmpty(t, closed.ClosedAt)

	// Closing an already closed deal is rejected.
	_, err = svc.Close(ctx, deal.ID, &domain.CloseDealRequest{})
	assert.ErrorIs(t, err, service.ErrInvalidTransition)
}

func TestDealService_Close_WithoutCodes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	svc := newDealService(db)
	account := testutil.CreateTestAccount(t, db, "사유 없는 거래처")
	deal := testutil.CreateTestDeal(t, db, account, "사유 없는 딜", domain.StageContract)
	ctx := testutil.TestUserContext()

	// Reason codes are a soft requirement: the close succeeds without
	// them and reporting buckets the deal under "reason unknown".
	closed, err := svc.Close(ctx, deal.ID, &domain.CloseDealRequest{})
	require.NoError(t, err)
	assert.Empty(t, closed.CloseReasonCodes)
}

func TestDealService_Close_ClearsRecontactState(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	svc := newDealService(db)
	account := testutil.CreateTestAccount(t, db, "재접촉 해제 거래처")
	deal := testutil.CreateTestDeal(t, db, account, "재접촉 해제 딜", domain.StageProposal)
	ctx := testutil.TestUserContext()

	_, err := svc.Recontact(ctx, deal.ID, &domain.RecontactDealRequest{
		RecontactDate:   time.Now().AddDate(0, 1, 0),
		RecontactReason: "RC02",
	})
	require.NoError(t, err)

	closed, err := svc.Close(ctx, deal.ID, &domain.CloseDealRequest{CloseReasonCodes: "S01"})
	require.NoError(t, err)
	assert.Empty(t, closed.RecontactDate)
	assert.Empty(t, closed.RecontactReason)
}

func TestDealService_Recontact(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	svc := newDealService(db)
	account := testutil.CreateTestAccount(t, db, "재접촉 거래처")
	deal := testutil.CreateTestDeal(t, db, account, "재접촉 딜", domain.StageNeedsAnalysis)
	ctx := testutil.TestUserContext()

	future := time.Now().AddDate(0, 0, 14)
	parked, err := svc.Recontact(ctx, deal.ID, &domain.RecontactDealRequest{
		RecontactDate:   future,
		RecontactReason: "RC01",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StageRecontact, parked.Stage)
	assert.Equal(t, "RC01", parked.RecontactReason)
	assert.NotEmpty(t, parked.RecontactDate)
}

func TestDealService_Recontact_RequiresReasonAndFutureDate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	svc := newDealService(db)
	account := testutil.CreateTestAccount(t, db, "재접촉 검증 거래처")
	deal := testutil.CreateTestDeal(t, db, account, "재접촉 검증 딜", domain.StageContacted)
	ctx := testutil.TestUserContext()

	_, err := svc.Recontact(ctx, deal.ID, &domain.RecontactDealRequest{
		RecontactDate: time.Now().AddDate(0, 0, 7),
	})
	assert.ErrorIs(t, err, service.ErrRecontactReasonRequired)

	_, err = svc.Recontact(ctx, deal.ID, &domain.RecontactDealRequest{
		RecontactDate:   time.Now().AddDate(0, 0, -1),
		RecontactReason: "RC01",
	})
	assert.ErrorIs(t, err, service.ErrRecontactDateRequired)
}

func TestDealService_Reopen(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	svc := newDealService(db)
	account := testutil.CreateTestAccount(t, db, "재오픈 거래처")
	deal := testutil.CreateTestDeal(t, db, account, "재오픈 딜", domain.StageNegotiation)
	ctx := testutil.TestUserContext()

	_, err := svc.Close(ctx, deal.ID, &domain.CloseDealRequest{CloseReasonCodes: "R01"})
	require.NoError(t, err)

	reopened, err := svc.Reopen(ctx, deal.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.StageNewLead, reopened.Stage)
	assert.Empty(t, reopened.CloseReasonCodes)
	assert.Empty(t, reopened.ClosedAt)
}

func TestDealService_Reopen_ActiveDealRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	svc := newDealService(db)
	account := testutil.CreateTestAccount(t, db, "재오픈 거부 거래처")
	deal := testutil.CreateTestDeal(t, db, account, "재오픈 거부 딜", domain.StageProposal)
	ctx := testutil.TestUserContext()

	_, err := svc.Reopen(ctx, deal.ID)
	assert.ErrorIs(t, err, service.ErrInvalidTransition)
}

func TestDealService_CreateWithAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	svc := newDealService(db)
	ctx := testutil.TestUserContext()

	req := &domain.CreateDealWithAccountRequest{
		Account: domain.CreateAccountRequest{
			Name:   "원스톱 거래처",
			Source: "지인 소개",
		},
	}
	req.Deal.Name = "원스톱 딜"
	req.Deal.Amount = 3000000
	req.Deal.OwnerID = "user-test-owner"

	deal, err := svc.CreateWithAccount(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, "원스톱 거래처", deal.AccountName)
	assert.Equal(t, domain.StageNewLead, deal.Stage)
	// The deal inherits the account's acquisition source.
	assert.Equal(t, "지인 소개", deal.Source)
}

func TestDealService_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	svc := newDealService(db)

	_, err := svc.GetByID(testutil.TestUserContext(), uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestDealService_List_Pagination(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	svc := newDealService(db)
	account := testutil.CreateTestAccount(t, db, "목록 거래처")
	for i := 0; i < 5; i++ {
		testutil.CreateTestDeal(t, db, account, "목록 딜", domain.StageNewLead)
	}
	ctx := testutil.TestUserContext()

	resp, err := svc.List(ctx, 1, 2, nil, repository.DealSortByCreatedDesc)
	require.NoError(t, err)

	assert.Equal(t, int64(5), resp.Total)
	assert.Equal(t, 2, resp.PageSize)
	assert.Equal(t, 3, resp.TotalPages)

	// Out-of-range values are clamped to defaults.
	resp, err = svc.List(ctx, 0, -1, nil, repository.DealSortByCreatedDesc)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.PageSize)
}
