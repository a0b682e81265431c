// Package storage persists uploaded documents on the local filesystem or in
// an S3-compatible bucket (MinIO).
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tbourn/cityinfo-api/internal/config"
)

// ErrInvalidName is returned for object names that would escape the store.
var ErrInvalidName = errors.New("storage: invalid object name")

// Store saves a document under name.
type Store interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
}

// New returns the store selected by cfg.Driver. For minio it makes sure the
// bucket exists.
func New(ctx context.Context, cfg config.FilesConfig) (Store, error) {
	switch cfg.Driver {
	case "local", "":
		return NewLocalStore(cfg.Dir)
	case "minio":
		s, err := NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("storage: ensure bucket %q: %w", cfg.MinioBucket, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Driver)
	}
}

func validName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsAny(name, `/\`) && filepath.Base(name) == name
}

// LocalStore writes documents into a directory.
type LocalStore struct {
	Dir string
}

// NewLocalStore creates dir if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create %q: %w", dir, err)
	}
	return &LocalStore{Dir: dir}, nil
}

// Save writes r to Dir/name. Partial files are removed on failure.
func (s *LocalStore) Save(ctx context.Context, name string, r io.Reader, _ int64, _ string) error {
	if !validName(name) {
		return ErrInvalidName
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	path := filepath.Join(s.Dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return err
	}
	return nil
}
