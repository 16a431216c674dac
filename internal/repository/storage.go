package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Bhaveshb1986/Image-Optimizer/internal/config"
	"github.com/Bhaveshb1986/Image-Optimizer/internal/domain"
)

var (
	// ErrNotFound is returned when a named artifact does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrInvalidName is returned for empty or path-traversing names.
	ErrInvalidName = errors.New("invalid file name")
)

// Storage holds both temporary and processed artifacts under flat names.
// EnsureReady has create-if-missing semantics and runs per request before
// any write. Colliding names are overwritten, last writer wins.
type Storage interface {
	EnsureReady(ctx context.Context) error
	SaveFile(ctx context.Context, name string, data []byte, contentType string) error
	ReadFile(ctx context.Context, name string) ([]byte, error)
	FileSize(ctx context.Context, name string) (int64, error)
	RemoveFile(ctx context.Context, name string) error
	ListFiles(ctx context.Context) ([]domain.FileInfo, error)
}

// New selects the storage backend from configuration.
func New(cfg *config.Config, log *zap.Logger) (Storage, error) {
	switch cfg.Storage.Backend {
	case config.BackendFS:
		return NewFSStorage(cfg.Storage.UploadDir, log), nil
	case config.BackendS3:
		return NewS3Storage(&cfg.S3, log)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// checkName rejects names that would escape the flat artifact namespace.
func checkName(name string) error {
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	for _, r := range name {
		if r == '/' || r == '\\' {
			return fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
	}
	return nil
}
