package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalUploadStore_SaveAndPurge(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalUploadStore(root)
	require.NoError(t, err)

	ns := store.NewNamespace()
	require.NotEmpty(t, ns)

	docPath, err := store.SaveDocument(ns, "aadhaar.pdf", strings.NewReader("doc-bytes"))
	require.NoError(t, err)
	selfiePath, err := store.SaveSelfie(ns, "selfie.jpg", strings.NewReader("selfie-bytes"))
	require.NoError(t, err)

	data, err := os.ReadFile(docPath)
	require.NoError(t, err)
	assert.Equal(t, "doc-bytes", string(data))

	data, err = os.ReadFile(selfiePath)
	require.NoError(t, err)
	assert.Equal(t, "selfie-bytes", string(data))

	require.NoError(t, store.Purge(ns))
	assert.NoFileExists(t, docPath)
	assert.NoFileExists(t, selfiePath)
}

func TestLocalUploadStore_NamespacesIsolateSameFilename(t *testing.T) {
	store, err := NewLocalUploadStore(t.TempDir())
	require.NoError(t, err)

	nsA := store.NewNamespace()
	nsB := store.NewNamespace()
	require.NotEqual(t, nsA, nsB)

	pathA, err := store.SaveDocument(nsA, "card.png", strings.NewReader("request-a"))
	require.NoError(t, err)
	pathB, err := store.SaveDocument(nsB, "card.png", strings.NewReader("request-b"))
	require.NoError(t, err)

	require.NotEqual(t, pathA, pathB)

	// Purging one request leaves the other's files alone
	require.NoError(t, store.Purge(nsA))
	assert.NoFileExists(t, pathA)
	assert.FileExists(t, pathB)
}

func TestLocalUploadStore_StripsUploadedPathComponents(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalUploadStore(root)
	require.NoError(t, err)

	ns := store.NewNamespace()
	path, err := store.SaveSelfie(ns, "../../escape.jpg", strings.NewReader("x"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "selfies", ns, "escape.jpg"), path)
}

func TestLocalUploadStore_PurgeRejectsEmptyNamespace(t *testing.T) {
	store, err := NewLocalUploadStore(t.TempDir())
	require.NoError(t, err)
	assert.Error(t, store.Purge(""))
}
