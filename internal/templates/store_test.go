package templates

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirStore(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "certificate.odt"), []byte("template-bytes"), 0o644))

	store := NewDirStore(dir)
	data, err := store.Get(context.Background(), "certificate.odt")
	require.NoError(t, err)
	assert.Equal(t, []byte("template-bytes"), data)
}

func TestDirStoreMissingTemplate(t *testing.T) {
	store := NewDirStore(t.TempDir())
	_, err := store.Get(context.Background(), "missing.ods")
	assert.Error(t, err)
}

func TestDirStoreIgnoresPathTraversal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quotation.ods"), []byte("q"), 0o644))

	store := NewDirStore(dir)
	data, err := store.Get(context.Background(), "../../../quotation.ods")
	require.NoError(t, err)
	assert.Equal(t, []byte("q"), data)
}

type countingStore struct {
	calls int
	data  []byte
}

func (s *countingStore) Get(context.Context, string) ([]byte, error) {
	s.calls++
	return s.data, nil
}

func TestCachedStore(t *testing.T) {
	inner := &countingStore{data: []byte("cached")}
	store := NewCachedStore(inner)

	first, err := store.Get(context.Background(), "certificate.odt")
	require.NoError(t, err)
	second, err := store.Get(context.Background(), "certificate.odt")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)

	// callers must not be able to poison the cache
	first[0] = 'X'
	third, err := store.Get(context.Background(), "certificate.odt")
	require.NoError(t, err)
	assert.Equal(t, []byte("cached"), third)
}
