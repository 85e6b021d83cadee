package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalFileStorage stores files on the local filesystem.
type LocalFileStorage struct {
	basePath string
}

// NewLocalFileStorage creates the base directory if needed.
func NewLocalFileStorage(basePath string) (*LocalFileStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalFileStorage{basePath: basePath}, nil
}

// containedPath resolves the full path and verifies it stays within basePath.
func (s *LocalFileStorage) containedPath(path string) (string, error) {
	fullPath := filepath.Join(s.basePath, path)
	absBase, err := filepath.Abs(s.basePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve base path: %w", err)
	}
	absFull, err := filepath.Abs(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve full path: %w", err)
	}
	if !strings.HasPrefix(absFull, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal detected")
	}
	return absFull, nil
}

// Save writes the file, replacing any existing file with the same name.
func (s *LocalFileStorage) Save(ctx context.Context, path string, reader io.Reader, size int64) error {
	fullPath, err := s.containedPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, reader); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func (s *LocalFileStorage) Delete(ctx context.Context, path string) error {
	fullPath, err := s.containedPath(path)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *LocalFileStorage) GetPath(ctx context.Context, path string) string {
	fullPath, err := s.containedPath(path)
	if err != nil {
		return ""
	}
	return fullPath
}
