package service_test

import (
	"context"
	"fmt"
	"sync"
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

// memorySequence is an in-memory SequenceSource for deterministic
// numbering in tests.
type memorySequence struct {
	mu   sync.Mutex
	last map[string]int
}

func newMemorySequence() *memorySequence {
	return &memorySequence{last: make(map[string]int)}
}

func (m *memorySequence) NextSequence(_ context.Context, seqDate string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last[seqDate]++
	return m.last[seqDate], nil
}

func newQuotationService(db *gorm.DB, sequences service.SequenceSource) *service.QuotationService {
	return service.NewQuotationService(
		repository.NewQuotationRepository(db),
		repository.NewQuotationPresetRepository(db),
		repository.NewIssuerRepository(db),
		sequences,
		repository.NewActivityRepository(db),
		zap.NewNop(),
	)
}

func createQuotationRequest() *domain.CreateQuotationRequest {
	return &domain.CreateQuotationRequest{
		IssuerID: domain.IssuerOlensKorea,
		Title:    "CRM 도입 견적",
		Items: []domain.QuotationItemRequest{
			{Name: "표준 라이선스", Quantity: 2, UnitPrice: 500000},
			{Name: "도입 할인", Quantity: 1, UnitPrice: -100000},
		},
	}
}

func TestQuotationService_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	svc := newQuotationService(db, newMemorySequence())
	ctx := testutil.TestUserContext()

	quotation, err := svc.Create(ctx, createQuotationRequest())
	require.NoError(t, err)

	today := time.Now().UTC().Format("20060102")
	assert.Equal(t, fmt.Sprintf("Q-%s-001", today), quotation.Number)
	assert.Equal(t, domain.QuotationStatusDraft, quotation.Status)

	// Amounts are computed server-side from the line items.
	assert.Equal(t, int64(900000), quotation.SupplyAmount)
	assert.Equal(t, int64(90000), quotation.TaxAmount)
	assert.Equal(t, int64(990000), quotation.TotalAmount)

	require.Len(t, quotation.Items, 2)
	assert.Equal(t, int64(1000000), quotation.Items[0].Amount)
	assert.Equal(t, int64(-100000), quotation.Items[1].Amount)
}

func TestQuotationService_Create_SequentialNumbers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	svc := newQuotationService(db, newMemorySequence())
	ctx := testutil.TestUserContext()

	today := time.Now().UTC().Format("20060102")
	for i := 1; i <= 3; i++ {
		quotation, err := svc.Create(ctx, createQuotationRequest())
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("Q-%s-%03d", today, i), quotation.Number)
	}
}

func TestQuotationService_Create_UnknownIssuer(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	svc := newQuotationService(db, newMemorySequence())
	ctx := testutil.TestUserContext()

	req := createQuotationRequest()
	req.IssuerID = domain.IssuerID("olens_unknown")

	_, err := svc.Create(ctx, req)
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestQuotationService_Create_RejectsZeroQuantity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	svc := newQuotationService(db, newMemorySequence())
	ctx := testutil.TestUserContext()

	req := createQuotationRequest()
	req.Items[0].Quantity = 0

	_, err := svc.Create(ctx, req)
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestQuotationService_Update_RecomputesTotals(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	svc := newQuotationService(db, newMemorySequence())
	ctx := testutil.TestUserContext()

	quotation, err := svc.Create(ctx, createQuotationRequest())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, quotation.ID, &domain.UpdateQuotationRequest{
		Title: "수정된 견적",
		Items: []domain.QuotationItemRequest{
			{Name: "프리미엄 라이선스", Quantity: 1, UnitPrice: 2000000},
		},
	})
	require.NoError(t, err)

	// The number never changes on edit; totals are recomputed from
	// scratch.
	assert.Equal(t, quotation.Number, updated.Number)
	assert.Equal(t, int64(2000000), updated.SupplyAmount)
	assert.Equal(t, int64(200000), updated.TaxAmount)
	assert.Equal(t, int64(2200000), updated.TotalAmount)
	require.Len(t, updated.Items, 1)
}

func TestQuotationService_Update_DraftOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	svc := newQuotationService(db, newMemorySequence())
	ctx := testutil.TestUserContext()

	quotation, err := svc.Create(ctx, createQuotationRequest())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, quotation.ID, domain.QuotationStatusSent)
	require.NoError(t, err)

	_, err = svc.Update(ctx, quotation.ID, &domain.UpdateQuotationRequest{
		Title: "수정 시도",
		Items: []domain.QuotationItemRequest{{Name: "항목", Quantity: 1, UnitPrice: 100}},
	})
	assert.ErrorIs(t, err, service.ErrQuotationNotEditable)
}

func TestQuotationService_StatusLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	svc := newQuotationService(db, newMemorySequence())
	ctx := testutil.TestUserContext()

	quotation, err := svc.Create(ctx, createQuotationRequest())
	require.NoError(t, err)

	// draft -> approved skips sent and is rejected.
	_, err = svc.UpdateStatus(ctx, quotation.ID, domain.QuotationStatusApproved)
	assert.ErrorIs(t, err, service.ErrInvalidStatusChange)

	sent, err := svc.UpdateStatus(ctx, quotation.ID, domain.QuotationStatusSent)
	require.NoError(t, err)
	assert.Equal(t, domain.QuotationStatusSent, sent.Status)

	rejected, err := svc.UpdateStatus(ctx, quotation.ID, domain.QuotationStatusRejected)
	require.NoError(t, err)
	assert.Equal(t, domain.QuotationStatusRejected, rejected.Status)

	// A rejected quotation can be re-sent.
	resent, err := svc.UpdateStatus(ctx, quotation.ID, domain.QuotationStatusSent)
	require.NoError(t, err)
	assert.Equal(t, domain.QuotationStatusSent, resent.Status)

	approved, err := svc.UpdateStatus(ctx, quotation.ID, domain.QuotationStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, domain.QuotationStatusApproved, approved.Status)

	// Approved is terminal.
	_, err = svc.UpdateStatus(ctx, quotation.ID, domain.QuotationStatusSent)
	assert.ErrorIs(t, err, service.ErrInvalidStatusChange)
}

func TestQuotationService_Delete_DraftOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	svc := newQuotationService(db, newMemorySequence())
	ctx := testutil.TestUserContext()

	quotation, err := svc.Create(ctx, createQuotationRequest())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, quotation.ID, domain.QuotationStatusSent)
	require.NoError(t, err)

	err = svc.Delete(ctx, quotation.ID)
	assert.ErrorIs(t, err, service.ErrQuotationNotEditable)
}

func TestQuotationService_Presets(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	svc := newQuotationService(db, newMemorySequence())
	ctx := testutil.TestUserContext()

	preset, err := svc.SavePreset(ctx, &domain.SaveQuotationPresetRequest{
		Name:     "표준 구성",
		IssuerID: domain.IssuerOlensKorea,
		Title:    "표준 견적",
		Items: []domain.QuotationItemRequest{
			{Name: "표준 라이선스", Quantity: 1, UnitPrice: 500000},
		},
	})
	require.NoError(t, err)

	quotation, err := svc.ApplyPreset(ctx, preset.ID, &domain.ApplyPresetRequest{})
	require.NoError(t, err)

	// The preset is copied, not referenced: the new quotation gets a
	// fresh number and recomputed totals.
	assert.NotEmpty(t, quotation.Number)
	assert.Equal(t, "표준 견적", quotation.Title)
	assert.Equal(t, domain.QuotationStatusDraft, quotation.Status)
	assert.Equal(t, int64(500000), quotation.SupplyAmount)
	require.Len(t, quotation.Items, 1)

	presets, err := svc.ListPresets(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, presets, 1)

	require.NoError(t, svc.DeletePreset(ctx, preset.ID))

	_, err = svc.ApplyPreset(ctx, preset.ID, &domain.ApplyPresetRequest{})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestQuotationService_GetByDeal(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	svc := newQuotationService(db, newMemorySequence())
	ctx := testutil.TestUserContext()

	account := testutil.CreateTestAccount(t, db, "견적 거래처")
	deal := testutil.CreateTestDeal(t, db, account, "견적 딜", domain.StageProposal)

	req := createQuotationRequest()
	req.DealID = &deal.ID
	_, err := svc.Create(ctx, req)
	require.NoError(t, err)

	quotations, err := svc.GetByDeal(ctx, deal.ID)
	require.NoError(t, err)
	assert.Len(t, quotations, 1)

	quotations, err = svc.GetByDeal(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, quotations)
}
