package jobs_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fruta004-ux/olens-crm-api/internal/domain"
	"github.com/fruta004-ux/olens-crm-api/internal/jobs"
	"github.com/fruta004-ux/olens-crm-api/internal/repository"
	"github.com/fruta004-ux/olens-crm-api/internal/testutil"
)

func TestRecontactJob_NotifiesOwnerOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	account := testutil.CreateTestAccount(t, db, "재접촉 거래처")
	deal := testutil.CreateTestDeal(t, db, account, "재접촉 대상 딜", domain.StageRecontact)

	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	err := db.Model(&domain.Deal{}).Where("id = ?", deal.ID).Updates(map[string]interface{}{
		"recontact_date":   yesterday,
		"recontact_reason": "RC01",
	}).Error
	require.NoError(t, err)

	dealRepo := repository.NewDealRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	job := jobs.NewRecontactJob(dealRepo, notificationRepo, zap.NewNop())

	ctx := context.Background()
	job.Run(ctx)

	notifications, total, err := notificationRepo.ListByUser(ctx, deal.OwnerID, 1, 10, false, "")
	require.NoError(t, err)
	require.Equal(t, int64(1), total)

	created := notifications[0]
	assert.Equal(t, string(domain.NotificationTypeRecontactDue), created.Type)
	assert.Equal(t, "재접촉 예정일 도래", created.Title)
	assert.Contains(t, created.Message, "재접촉 대상 딜")
	assert.Contains(t, created.Message, "담당자 부재")
	require.NotNil(t, created.EntityID)
	assert.Equal(t, deal.ID, *created.EntityID)

	var stamped domain.Deal
	require.NoError(t, db.First(&stamped, "id = ?", deal.ID).Error)
	assert.NotNil(t, stamped.RecontactNotifiedAt)

	// The sweep stamps the deal, so a second run produces nothing new.
	job.Run(ctx)

	_, total, err = notificationRepo.ListByUser(ctx, deal.OwnerID, 1, 10, false, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestRecontactJob_IgnoresFutureAndActiveDeals(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	account := testutil.CreateTestAccount(t, db, "대기 거래처")

	future := testutil.CreateTestDeal(t, db, account, "다음 달 재접촉 딜", domain.StageRecontact)
	nextMonth := time.Now().UTC().AddDate(0, 1, 0)
	err := db.Model(&domain.Deal{}).Where("id = ?", future.ID).Updates(map[string]interface{}{
		"recontact_date":   nextMonth,
		"recontact_reason": "RC02",
	}).Error
	require.NoError(t, err)

	testutil.CreateTestDeal(t, db, account, "진행 중 딜", domain.StageNegotiation)

	dealRepo := repository.NewDealRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	job := jobs.NewRecontactJob(dealRepo, notificationRepo, zap.NewNop())

	ctx := context.Background()
	job.Run(ctx)

	_, total, err := notificationRepo.ListByUser(ctx, future.OwnerID, 1, 10, false, "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}
