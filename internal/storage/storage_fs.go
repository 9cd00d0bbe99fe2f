package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FSStorage gives access to the documents below a docset's Documents
// directory. Paths are relative to Root and may not leave it.
type FSStorage struct {
	Root string
}

func NewFSStorage(root string) *FSStorage {
	return &FSStorage{Root: root}
}

// Path resolves a document path relative to Root.
func (s *FSStorage) Path(docPath string) (string, error) {
	rel := filepath.FromSlash(docPath)
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("document path %q is outside the document root", docPath)
	}
	return filepath.Join(s.Root, rel), nil
}

// Open opens a document for streaming reads.
func (s *FSStorage) Open(ctx context.Context, docPath string) (io.ReadCloser, error) {
	fullPath, err := s.Path(docPath)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	return f, nil
}

// WriteHTML replaces a document's content in one whole-file write.
func (s *FSStorage) WriteHTML(ctx context.Context, docPath string, content []byte) error {
	fullPath, err := s.Path(docPath)
	if err != nil {
		return err
	}
	return s.writeFileAbsolute(fullPath, content)
}

func (s *FSStorage) writeFileAbsolute(fullPath string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	// Remove any existing file or symlink so os.WriteFile does not
	// write through a link into a document shared with other entries.
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing: %w", err)
	}
	if err := os.WriteFile(fullPath, content, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
