package logics

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalImageStoreSave(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalImageStore(root)
	require.NoError(t, err)

	path, err := store.Save(context.Background(), "scan.PNG", []byte("image-bytes"), "image/png")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(path, root))
	assert.True(t, strings.HasSuffix(path, ".png"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("image-bytes"), data)
}

func TestLocalImageStoreUniqueNames(t *testing.T) {
	store, err := NewLocalImageStore(t.TempDir())
	require.NoError(t, err)

	first, err := store.Save(context.Background(), "scan.png", []byte("a"), "image/png")
	require.NoError(t, err)
	second, err := store.Save(context.Background(), "scan.png", []byte("b"), "image/png")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestStoredNameSanitizesHostileExtensions(t *testing.T) {
	for _, hostile := range []string{"x.really-long-extension", "x. png", "noext"} {
		name := storedName(hostile)
		assert.NotContains(t, name, "/")
		assert.NotContains(t, name, " ")
		ext := filepath.Ext(name)
		assert.LessOrEqual(t, len(ext), 8)
	}
}
