package service_test

import (
	"testing"

	"github.com/fruta004-ux/olens-crm-api/internal/repository"
	"github.com/fruta004-ux/olens-crm-api/internal/service"
	"github.com/fruta004-ux/olens-crm-api/internal/storage"
	"github.com/fruta004-ux/olens-crm-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newDocumentService(t *testing.T, db *gorm.DB) *service.DocumentService {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return service.NewDocumentService(
		repository.NewQuotationRepository(db),
		repository.NewIssuerRepository(db),
		store,
		zap.NewNop(),
	)
}

func TestDocumentService_Render(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	quotationSvc := newQuotationService(db, newMemorySequence())
	docSvc := newDocumentService(t, db)
	ctx := testutil.TestUserContext()

	quotation, err := quotationSvc.Create(ctx, createQuotationRequest())
	require.NoError(t, err)

	doc, err := docSvc.Render(ctx, quotation.ID)
	require.NoError(t, err)

	html := string(doc)
	assert.Contains(t, html, "견적서")
	assert.Contains(t, html, quotation.Number)
	assert.Contains(t, html, "주식회사 오렌즈")
	assert.Contains(t, html, "공급가액")
	assert.Contains(t, html, "부가세 (10%)")
	assert.Contains(t, html, "합계금액")
	// Amounts render with thousands separators.
	assert.Contains(t, html, "990,000")
	assert.Contains(t, html, "-100,000")
}

func TestDocumentService_Render_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	docSvc := newDocumentService(t, db)

	_, err := docSvc.Render(testutil.TestUserContext(), uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestDocumentService_RenderAndArchive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	quotationSvc := newQuotationService(db, newMemorySequence())
	docSvc := newDocumentService(t, db)
	ctx := testutil.TestUserContext()

	quotation, err := quotationSvc.Create(ctx, createQuotationRequest())
	require.NoError(t, err)

	doc, path, err := docSvc.RenderAndArchive(ctx, quotation.ID)
	require.NoError(t, err)

	assert.NotEmpty(t, doc)
	assert.Equal(t, "quotations/"+quotation.Number+".html", path)
}
