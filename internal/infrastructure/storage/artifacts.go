package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/sh1dan/infoseek/internal/ports"
)

// pdfSubdir is the fixed artifact directory under the media root; the
// repository stores paths relative to the media root.
const pdfSubdir = "pdfs"

// FileArtifactStore writes rendered PDFs under the media directory with
// collision-resistant names derived from task id, article index, and a
// random suffix.
type FileArtifactStore struct {
	root string
}

var _ ports.ArtifactStore = (*FileArtifactStore)(nil)

// NewFileArtifactStore roots the store at dir.
func NewFileArtifactStore(dir string) *FileArtifactStore {
	return &FileArtifactStore{root: dir}
}

// Save persists one PDF and returns its media-relative reference.
func (s *FileArtifactStore) Save(taskID string, index int, pdf []byte) (string, error) {
	suffix := uuid.New()
	name := fmt.Sprintf("%s_%d_%x.pdf", taskID, index, suffix[:4])
	rel := filepath.Join(pdfSubdir, name)
	full := filepath.Join(s.root, rel)

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create artifact dir: %w", err)
	}
	if err := os.WriteFile(full, pdf, 0o644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	return filepath.ToSlash(rel), nil
}
