package service_test

import (
	"testing"

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

func newSettingService(db *gorm.DB) *service.SettingService {
	return service.NewSettingService(repository.NewSettingRepository(db), zap.NewNop())
}

func seedSettings(t *testing.T, svc *service.SettingService, category domain.SettingCategory, values ...string) []domain.SettingEntryDTO {
	t.Helper()
	out := make([]domain.SettingEntryDTO, 0, len(values))
	for _, v := range values {
		dto, err := svc.Create(testutil.TestUserContext(), category, &domain.CreateSettingEntryRequest{Value: v})
		require.NoError(t, err)
		out = append(out, *dto)
	}
	return out
}

func TestSettingService_Create_AppendsAtEnd(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	svc := newSettingService(db)

	entries := seedSettings(t, svc, domain.SettingCategorySource, "홈페이지 문의", "전시회", "아웃바운드")

	assert.Equal(t, 1, entries[0].DisplayOrder)
	assert.Equal(t, 2, entries[1].DisplayOrder)
	assert.Equal(t, 3, entries[2].DisplayOrder)
}

func TestSettingService_Create_RejectsBlankValue(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	svc := newSettingService(db)

	_, err := svc.Create(testutil.TestUserContext(), domain.SettingCategoryGrade, &domain.CreateSettingEntryRequest{Value: "   "})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestSettingService_Create_UnknownCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	svc := newSettingService(db)

	_, err := svc.Create(testutil.TestUserContext(), domain.SettingCategory("themes"), &domain.CreateSettingEntryRequest{Value: "dark"})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestSettingService_Reorder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	svc := newSettingService(db)
	ctx := testutil.TestUserContext()

	seedSettings(t, svc, domain.SettingCategoryChannel, "전화", "이메일", "대면 미팅", "화상 미팅", "메신저")

	// Move index 3 to the front.
	reordered, err := svc.Reorder(ctx, domain.SettingCategoryChannel, &domain.ReorderSettingsRequest{FromIndex: 3, ToIndex: 0})
	require.NoError(t, err)
	require.Len(t, reordered, 5)

	values := make([]string, len(reordered))
	for i, e := range reordered {
		values[i] = e.Value
		// Ranks stay dense and 1-based after every reorder.
		assert.Equal(t, i+1, e.DisplayOrder)
	}
	assert.Equal(t, []string{"화상 미팅", "전화", "이메일", "대면 미팅", "메신저"}, values)

	// The reorder persists.
	listed, err := svc.ListByCategory(ctx, domain.SettingCategoryChannel)
	require.NoError(t, err)
	assert.Equal(t, "화상 미팅", listed[0].Value)
}

func TestSettingService_Reorder_SamePosition(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	svc := newSettingService(db)
	ctx := testutil.TestUserContext()

	seedSettings(t, svc, domain.SettingCategoryGrade, "A", "B", "C")

	reordered, err := svc.Reorder(ctx, domain.SettingCategoryGrade, &domain.ReorderSettingsRequest{FromIndex: 1, ToIndex: 1})
	require.NoError(t, err)
	assert.Equal(t, "B", reordered[1].Value)
}

func TestSettingService_Reorder_IndexOutOfRange(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	svc := newSettingService(db)
	ctx := testutil.TestUserContext()

	seedSettings(t, svc, domain.SettingCategoryNeeds, "신규 도입", "기능 확장")

	_, err := svc.Reorder(ctx, domain.SettingCategoryNeeds, &domain.ReorderSettingsRequest{FromIndex: 2, ToIndex: 0})
	assert.ErrorIs(t, err, service.ErrIndexOutOfRange)

	_, err = svc.Reorder(ctx, domain.SettingCategoryNeeds, &domain.ReorderSettingsRequest{FromIndex: 0, ToIndex: -1})
	assert.ErrorIs(t, err, service.ErrIndexOutOfRange)
}

func TestSettingService_Reorder_CategoryIsolation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	svc := newSettingService(db)
	ctx := testutil.TestUserContext()

	seedSettings(t, svc, domain.SettingCategorySource, "홈페이지 문의", "전시회")
	seedSettings(t, svc, domain.SettingCategoryChannel, "전화", "이메일")

	_, err := svc.Reorder(ctx, domain.SettingCategorySource, &domain.ReorderSettingsRequest{FromIndex: 1, ToIndex: 0})
	require.NoError(t, err)

	// The other category keeps its order.
	channels, err := svc.ListByCategory(ctx, domain.SettingCategoryChannel)
	require.NoError(t, err)
	assert.Equal(t, "전화", channels[0].Value)
	assert.Equal(t, 1, channels[0].DisplayOrder)
}

func TestSettingService_UpdateAndDelete_CategoryScoped(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	svc := newSettingService(db)
	ctx := testutil.TestUserContext()

	entries := seedSettings(t, svc, domain.SettingCategoryGrade, "A", "B")

	// Updating through the wrong category is a not-found, not a
	// cross-category write.
	_, err := svc.Update(ctx, domain.SettingCategorySource, entries[0].ID, &domain.UpdateSettingEntryRequest{Value: "S"})
	assert.ErrorIs(t, err, service.ErrNotFound)

	updated, err := svc.Update(ctx, domain.SettingCategoryGrade, entries[0].ID, &domain.UpdateSettingEntryRequest{Value: "A+"})
	require.NoError(t, err)
	assert.Equal(t, "A+", updated.Value)

	err = svc.Delete(ctx, domain.SettingCategorySource, entries[1].ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, domain.SettingCategoryGrade, entries[1].ID))

	remaining, err := svc.ListByCategory(ctx, domain.SettingCategoryGrade)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "A+", remaining[0].Value)

	err = svc.Delete(ctx, domain.SettingCategoryGrade, uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}
