package logics

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ImageStore persists raw image bytes under a collision-resistant name
// derived from the original filename's extension. The returned path is a
// string reference embedded in records; no content hashing, no dedup.
type ImageStore interface {
	Save(ctx context.Context, originalFilename string, data []byte, contentType string) (string, error)
}

// LocalImageStore writes files beneath a single root directory.
type LocalImageStore struct {
	root string
}

func NewLocalImageStore(root string) (*LocalImageStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root %s: %w", root, err)
	}
	return &LocalImageStore{root: root}, nil
}

func (s *LocalImageStore) Save(_ context.Context, originalFilename string, data []byte, _ string) (string, error) {
	name := storedName(originalFilename)
	path := filepath.Join(s.root, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return path, nil
}

// storedName builds a unique stored filename, keeping only a sanitized
// extension from the upload.
func storedName(originalFilename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(originalFilename)))
	// Drop anything that is not a plain extension.
	if len(ext) > 8 || strings.ContainsAny(ext, "\\/ ") {
		ext = ""
	}
	return uuid.New().String() + ext
}
