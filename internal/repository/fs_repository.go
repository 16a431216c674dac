package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Bhaveshb1986/Image-Optimizer/internal/domain"
)

// FSStorage keeps artifacts in a local directory. This is the default
// backend and matches the service's single-directory storage model.
type FSStorage struct {
	dir string
	log *zap.Logger
}

func NewFSStorage(dir string, log *zap.Logger) *FSStorage {
	return &FSStorage{dir: dir, log: log}
}

func (s *FSStorage) EnsureReady(ctx context.Context) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create storage directory %s: %w", s.dir, err)
	}
	return nil
}

func (s *FSStorage) SaveFile(ctx context.Context, name string, data []byte, contentType string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}

	s.log.Debug("file saved",
		zap.String("name", name),
		zap.Int("size", len(data)))

	return nil
}

func (s *FSStorage) ReadFile(ctx context.Context, name string) ([]byte, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

func (s *FSStorage) FileSize(ctx context.Context, name string) (int64, error) {
	path, err := s.path(name)
	if err != nil {
		return 0, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("stat %s: %w", name, err)
	}
	return info.Size(), nil
}

func (s *FSStorage) RemoveFile(ctx context.Context, name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}

func (s *FSStorage) ListFiles(ctx context.Context) ([]domain.FileInfo, error) {
	files := []domain.FileInfo{}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return files, nil
		}
		return nil, fmt.Errorf("list %s: %w", s.dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, domain.FileInfo{Name: entry.Name(), Size: info.Size()})
	}
	return files, nil
}

func (s *FSStorage) path(name string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name), nil
}
