// Package storage persists uploaded artifacts for the duration of one
// verification call. Every request gets its own namespace subdirectory so
// concurrent uploads with identical filenames cannot collide.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// UploadStore saves request-scoped uploads and purges them once a terminal
// outcome has been observed.
type UploadStore interface {
	NewNamespace() string
	SaveDocument(namespace, filename string, r io.Reader) (string, error)
	SaveSelfie(namespace, filename string, r io.Reader) (string, error)
	Purge(namespace string) error
}

type localUploadStore struct {
	documentDir string
	selfieDir   string
}

// NewLocalUploadStore creates a store rooted at dir with separate document
// and selfie areas.
func NewLocalUploadStore(dir string) (UploadStore, error) {
	store := &localUploadStore{
		documentDir: filepath.Join(dir, "documents"),
		selfieDir:   filepath.Join(dir, "selfies"),
	}
	for _, d := range []string{store.documentDir, store.selfieDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("could not create upload directory %s: %w", d, err)
		}
	}
	return store, nil
}

// NewNamespace returns a fresh request-scoped storage namespace.
func (s *localUploadStore) NewNamespace() string {
	return uuid.NewString()
}

func (s *localUploadStore) SaveDocument(namespace, filename string, r io.Reader) (string, error) {
	return save(s.documentDir, namespace, filename, r)
}

func (s *localUploadStore) SaveSelfie(namespace, filename string, r io.Reader) (string, error) {
	return save(s.selfieDir, namespace, filename, r)
}

// Purge removes the namespace subdirectories from both areas. Other
// namespaces are untouched.
func (s *localUploadStore) Purge(namespace string) error {
	if namespace == "" {
		return fmt.Errorf("refusing to purge empty namespace")
	}
	var firstErr error
	for _, base := range []string{s.documentDir, s.selfieDir} {
		if err := os.RemoveAll(filepath.Join(base, namespace)); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func save(base, namespace, filename string, r io.Reader) (string, error) {
	dir := filepath.Join(base, namespace)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("could not create namespace directory: %w", err)
	}

	// Base strips any path components an uploaded filename may carry
	path := filepath.Join(dir, filepath.Base(filename))
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("could not create %s: %w", path, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		return "", fmt.Errorf("could not write %s: %w", path, err)
	}
	return path, nil
}
