package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ============================================================
// Upload Storage
// ============================================================

// FileStorage keeps the raster plans uploaded for import, one directory per project.
type FileStorage struct {
	root string
}

func NewFileStorage(root string) *FileStorage {
	return &FileStorage{root: root}
}

func (s *FileStorage) ProjectDir(projectID string) string {
	return filepath.Join(s.root, filepath.Base(projectID))
}

func (s *FileStorage) EnsureDir(projectID string) error {
	if err := os.MkdirAll(s.ProjectDir(projectID), 0o755); err != nil {
		return fmt.Errorf("mkdir project dir: %w", err)
	}
	return nil
}

// SaveUpload stores data under a fresh name keeping the original extension and returns
// the stored file name.
func (s *FileStorage) SaveUpload(projectID, originalName string, data []byte) (string, error) {
	if err := s.EnsureDir(projectID); err != nil {
		return "", err
	}
	name := uuid.NewString() + strings.ToLower(filepath.Ext(originalName))
	if err := os.WriteFile(filepath.Join(s.ProjectDir(projectID), name), data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return name, nil
}

// ListUploads returns the stored upload names of a project.
func (s *FileStorage) ListUploads(projectID string) []string {
	entries, err := os.ReadDir(s.ProjectDir(projectID))
	if err != nil {
		return []string{}
	}
	out := []string{}
	for _, e := range entries {
		if !e.IsDir() {
			out = append(out, e.Name())
		}
	}
	return out
}

// RemoveProject deletes every upload of a project.
func (s *FileStorage) RemoveProject(projectID string) error {
	if err := os.RemoveAll(s.ProjectDir(projectID)); err != nil {
		return fmt.Errorf("remove project uploads: %w", err)
	}
	return nil
}
