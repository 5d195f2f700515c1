package repository_test

import (
	"sort"
	"sync"
	"testing"

	"github.com/fruta004-ux/olens-crm-api/internal/repository"
	"github.com/fruta004-ux/olens-crm-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentSequenceRepository_NextSequence(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	repo := repository.NewDocumentSequenceRepository(db)
	ctx := testutil.TestUserContext()

	for want := 1; want <= 3; want++ {
		seq, err := repo.NextSequence(ctx, "20260831")
		require.NoError(t, err)
		assert.Equal(t, want, seq)
	}
}

func TestDocumentSequenceRepository_NextSequence_PerDate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	repo := repository.NewDocumentSequenceRepository(db)
	ctx := testutil.TestUserContext()

	seq, err := repo.NextSequence(ctx, "20260830")
	require.NoError(t, err)
	assert.Equal(t, 1, seq)

	seq, err = repo.NextSequence(ctx, "20260830")
	require.NoError(t, err)
	assert.Equal(t, 2, seq)

	// A new date starts its own sequence at 1.
	seq, err = repo.NextSequence(ctx, "20260831")
	require.NoError(t, err)
	assert.Equal(t, 1, seq)
}

func TestDocumentSequenceRepository_NextSequence_Concurrent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	repo := repository.NewDocumentSequenceRepository(db)
	ctx := testutil.TestUserContext()

	// All callers hit the same cold date at once, including the ones
	// racing to create the counter row.
	const workers = 16
	results := make(chan int, workers)
	errs := make(chan error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seq, err := repo.NextSequence(ctx, "20260915")
			if err != nil {
				errs <- err
				return
			}
			results <- seq
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	got := make([]int, 0, workers)
	for seq := range results {
		got = append(got, seq)
	}
	require.Len(t, got, workers)

	// Gapless and unique: exactly 1..N in some order.
	sort.Ints(got)
	for i, seq := range got {
		assert.Equal(t, i+1, seq)
	}

	current, err := repo.CurrentSequence(ctx, "20260915")
	require.NoError(t, err)
	assert.Equal(t, workers, current)
}

func TestDocumentSequenceRepository_CurrentSequence(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestData(t, db)

	repo := repository.NewDocumentSequenceRepository(db)
	ctx := testutil.TestUserContext()

	// No row yet means sequence zero.
	seq, err := repo.CurrentSequence(ctx, "20260901")
	require.NoError(t, err)
	assert.Equal(t, 0, seq)

	_, err = repo.NextSequence(ctx, "20260901")
	require.NoError(t, err)

	seq, err = repo.CurrentSequence(ctx, "20260901")
	require.NoError(t, err)
	assert.Equal(t, 1, seq)
}
