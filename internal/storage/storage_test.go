package storage_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/fruta004-ux/olens-crm-api/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveAndOpen(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	content := "<html>견적서</html>"
	size, err := store.Save(ctx, "quotations/Q-20260831-001.html", "text/html; charset=utf-8", strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), size)

	rc, err := store.Open(ctx, "quotations/Q-20260831-001.html")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestLocalStorage_SaveOverwrites(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Save(ctx, "quotations/Q-20260831-002.html", "text/html", strings.NewReader("first"))
	require.NoError(t, err)
	_, err = store.Save(ctx, "quotations/Q-20260831-002.html", "text/html", strings.NewReader("second"))
	require.NoError(t, err)

	rc, err := store.Open(ctx, "quotations/Q-20260831-002.html")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestLocalStorage_Delete(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Save(ctx, "quotations/gone.html", "text/html", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "quotations/gone.html"))

	_, err = store.Open(ctx, "quotations/gone.html")
	assert.Error(t, err)
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	invalid := []string{
		"../outside.html",
		"quotations/../../etc/passwd",
		"/absolute/path.html",
		"",
	}
	for _, path := range invalid {
		_, err := store.Save(ctx, path, "text/html", strings.NewReader("x"))
		assert.Error(t, err, path)
	}
}
