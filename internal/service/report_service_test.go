package service_test

import (
	"bytes"
	"testing"

	"github.com/fruta004-ux/olens-crm-api/internal/domain"
	"github.com/fruta004-ux/olens-crm-api/internal/repository"
	"github.com/fruta004-ux/olens-crm-api/internal/service"
	"github.com/fruta004-ux/olens-crm-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newReportService(db *gorm.DB) *service.ReportService {
	return service.NewReportService(repository.NewDealRepository(db), zap.NewNop())
}

func TestReportService_GetPipelineStats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	svc := newReportService(db)
	account := testutil.CreateTestAccount(t, db, "통계 거래처")

	testutil.CreateTestDeal(t, db, account, "리드 딜 1", domain.StageNewLead)
	testutil.CreateTestDeal(t, db, account, "리드 딜 2", domain.StageNewLead)
	testutil.CreateTestDeal(t, db, account, "제안 딜", domain.StageProposal)
	// A legacy stage value stored before the rename folds into its
	// canonical stage.
	legacy := testutil.CreateTestDeal(t, db, account, "레거시 딜", domain.StageContacted)
	require.NoError(t, db.Model(&domain.Deal{}).Where("id = ?", legacy.ID).Update("stage", "proposal").Error)

	stats, err := svc.GetPipelineStats(testutil.TestUserContext())
	require.NoError(t, err)

	// Every canonical stage appears, even empty ones.
	require.Len(t, stats.Stages, 8)
	assert.NotEmpty(t, stats.GeneratedAt)

	byStage := make(map[domain.Stage]domain.StageSummary)
	for _, s := range stats.Stages {
		byStage[s.Stage] = s
	}
	assert.Equal(t, int64(2), byStage[domain.StageNewLead].DealCount)
	assert.Equal(t, int64(2), byStage[domain.StageProposal].DealCount)
	assert.Equal(t, int64(0), byStage[domain.StageContract].DealCount)
	assert.Equal(t, int64(2000000), byStage[domain.StageNewLead].TotalAmount)
}

func TestReportService_CloseReasonBuckets(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	reportSvc := newReportService(db)
	dealSvc := newDealService(db)
	account := testutil.CreateTestAccount(t, db, "사유 집계 거래처")
	ctx := testutil.TestUserContext()

	closeWith := func(name, codes string) {
		deal := testutil.CreateTestDeal(t, db, account, name, domain.StageNegotiation)
		_, err := dealSvc.Close(ctx, deal.ID, &domain.CloseDealRequest{CloseReasonCodes: codes})
		require.NoError(t, err)
	}

	closeWith("경쟁사 패배 1", "R01")
	closeWith("경쟁사 패배 2", "R01")
	closeWith("복수 사유", "C01,R01")
	closeWith("사유 없음", "")

	stats, err := reportSvc.GetPipelineStats(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, stats.CloseReasons)

	// Sorted by count descending; a deal counts once per code.
	assert.Equal(t, "R01 경쟁사 선택", stats.CloseReasons[0].ReasonText)
	assert.Equal(t, int64(3), stats.CloseReasons[0].DealCount)

	buckets := make(map[string]int64)
	for _, b := range stats.CloseReasons {
		buckets[b.ReasonText] = b.DealCount
	}
	assert.Equal(t, int64(1), buckets["C01 고객 내부 사정"])
	assert.Equal(t, int64(1), buckets["사유 미상"])
}

func TestReportService_ExportDeals(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	svc := newReportService(db)
	account := testutil.CreateTestAccount(t, db, "내보내기 거래처")
	testutil.CreateTestDeal(t, db, account, "내보내기 딜", domain.StageContract)

	data, err := svc.ExportDeals(testutil.TestUserContext())
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Deals")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "딜명", rows[0][0])
	assert.Equal(t, "생성일", rows[0][11])
	assert.Equal(t, "내보내기 딜", rows[1][0])
	// Stage exports as its Korean label.
	assert.Equal(t, "계약 체결", rows[1][2])
	// No close reason renders as the placeholder dash.
	assert.Equal(t, "-", rows[1][7])
}
