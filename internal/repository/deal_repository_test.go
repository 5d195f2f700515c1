package repository_test

import (
	"testing"
	"time"

	"github.com/fruta004-ux/olens-crm-api/internal/domain"
	"github.com/fruta004-ux/olens-crm-api/internal/repository"
	"github.com/fruta004-ux/olens-crm-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDealRepository_List_Filters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	repo := repository.NewDealRepository(db)
	ctx := testutil.TestUserContext()
	account := testutil.CreateTestAccount(t, db, "필터 거래처")

	lead := testutil.CreateTestDeal(t, db, account, "리드 딜", domain.StageNewLead)
	testutil.CreateTestDeal(t, db, account, "제안 딜", domain.StageProposal)

	stage := domain.StageNewLead
	deals, total, err := repo.List(ctx, 1, 20, &repository.DealFilters{Stage: &stage}, repository.DealSortByCreatedDesc)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, deals, 1)
	assert.Equal(t, lead.ID, deals[0].ID)

	search := "제안"
	deals, total, err = repo.List(ctx, 1, 20, &repository.DealFilters{SearchQuery: &search}, repository.DealSortByCreatedDesc)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "제안 딜", deals[0].Name)

	minAmount := int64(5000000)
	_, total, err = repo.List(ctx, 1, 20, &repository.DealFilters{MinAmount: &minAmount}, repository.DealSortByCreatedDesc)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestDealRepository_ListRecontactDue(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	repo := repository.NewDealRepository(db)
	ctx := testutil.TestUserContext()
	account := testutil.CreateTestAccount(t, db, "재접촉 기한 거래처")

	setRecontact := func(deal *domain.Deal, date time.Time) {
		require.NoError(t, db.Model(&domain.Deal{}).Where("id = ?", deal.ID).Updates(map[string]interface{}{
			"stage":            domain.StageRecontact,
			"recontact_date":   date,
			"recontact_reason": "RC01",
		}).Error)
	}

	due := testutil.CreateTestDeal(t, db, account, "기한 도래 딜", domain.StageProposal)
	setRecontact(due, time.Now().AddDate(0, 0, -1))

	future := testutil.CreateTestDeal(t, db, account, "기한 미도래 딜", domain.StageProposal)
	setRecontact(future, time.Now().AddDate(0, 1, 0))

	// Active deals are never swept, whatever their dates say.
	testutil.CreateTestDeal(t, db, account, "활성 딜", domain.StageNewLead)

	deals, err := repo.ListRecontactDue(ctx, time.Now().UTC())
	require.NoError(t, err)
	require.Len(t, deals, 1)
	assert.Equal(t, due.ID, deals[0].ID)

	// Once notified, the deal drops out of the sweep.
	require.NoError(t, repo.MarkRecontactNotified(ctx, due.ID, time.Now().UTC()))

	deals, err = repo.ListRecontactDue(ctx, time.Now().UTC())
	require.NoError(t, err)
	assert.Empty(t, deals)
}

func TestDealRepository_GetStageAggregates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	repo := repository.NewDealRepository(db)
	ctx := testutil.TestUserContext()
	account := testutil.CreateTestAccount(t, db, "집계 거래처")

	testutil.CreateTestDeal(t, db, account, "집계 딜 1", domain.StageNewLead)
	testutil.CreateTestDeal(t, db, account, "집계 딜 2", domain.StageNewLead)

	rows, err := repo.GetStageAggregates(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, rows)

	found := false
	for _, row := range rows {
		if row.Stage == domain.StageNewLead {
			found = true
			assert.Equal(t, int64(2), row.DealCount)
			assert.Equal(t, int64(2000000), row.TotalAmount)
		}
	}
	assert.True(t, found)
}

func TestDealRepository_GetPipelineOverview(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	repo := repository.NewDealRepository(db)
	ctx := testutil.TestUserContext()
	account := testutil.CreateTestAccount(t, db, "파이프라인 거래처")

	testutil.CreateTestDeal(t, db, account, "파이프라인 딜", domain.StageNegotiation)

	pipeline, err := repo.GetPipelineOverview(ctx)
	require.NoError(t, err)

	require.Len(t, pipeline[domain.StageNegotiation], 1)
	assert.Empty(t, pipeline[domain.StageContract])
}
