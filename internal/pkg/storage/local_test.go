package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveOpenDelete(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStorage(t.TempDir(), "/media/")
	require.NoError(t, err)

	rel, err := store.Save(ctx, "documents/2024/slip.html", strings.NewReader("<p>hello</p>"))
	require.NoError(t, err)
	assert.Equal(t, "documents/2024/slip.html", rel)
	assert.Equal(t, "/media/documents/2024/slip.html", store.URL(rel))

	exists, err := store.Exists(ctx, rel)
	require.NoError(t, err)
	assert.True(t, exists)

	rc, err := store.Open(ctx, rel)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "<p>hello</p>", string(body))

	require.NoError(t, store.Delete(ctx, rel))
	require.NoError(t, store.Delete(ctx, rel))

	_, err = store.Open(ctx, rel)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStorage_StaysInsideRoot(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStorage(t.TempDir(), "/media")
	require.NoError(t, err)

	rel, err := store.Save(ctx, "../../etc/passwd", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "etc/passwd", rel)

	_, err = store.Save(ctx, "..", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidPath)
}
