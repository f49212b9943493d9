package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/campuswatch/campuswatch/pkg/config"
)

// BlobStore persists evidence media. Put returns a URL the complaint
// record can reference.
type BlobStore interface {
	// Put stores data under key with the given content type and returns
	// the public URL of the object.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)

	// Get retrieves the object stored under key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes the object stored under key.
	Delete(ctx context.Context, key string) error
}

// New builds a BlobStore from configuration: "s3" or "filesystem".
func New(ctx context.Context, cfg config.Storage, log *zap.SugaredLogger) (BlobStore, error) {
	switch cfg.Backend {
	case "s3":
		return NewS3Store(ctx, cfg)
	case "", "filesystem":
		return NewFilesystemStore(cfg, log)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// FilesystemStore keeps evidence files in a local directory. Intended
// for development and single-node deployments.
type FilesystemStore struct {
	dir           string
	publicBaseURL string
}

func NewFilesystemStore(cfg config.Storage, log *zap.SugaredLogger) (*FilesystemStore, error) {
	dir := cfg.LocalDir
	if dir == "" {
		dir = "./evidence"
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create evidence directory: %w", err)
	}

	log.Infow("Using filesystem evidence store", "dir", dir)
	return &FilesystemStore{
		dir:           dir,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// sanitizeKey rejects keys that would escape the storage directory.
func sanitizeKey(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("empty storage key")
	}
	clean := filepath.Clean(key)
	if clean != key || strings.Contains(key, "..") || filepath.IsAbs(key) || strings.ContainsRune(key, os.PathSeparator) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return clean, nil
}

func (s *FilesystemStore) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	clean, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, clean)
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return "", fmt.Errorf("writing evidence file %s: %w", clean, err)
	}

	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + clean, nil
	}
	return "file://" + path, nil
}

func (s *FilesystemStore) Get(_ context.Context, key string) ([]byte, error) {
	clean, err := sanitizeKey(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.dir, clean))
	if err != nil {
		return nil, fmt.Errorf("reading evidence file %s: %w", clean, err)
	}
	return data, nil
}

func (s *FilesystemStore) Delete(_ context.Context, key string) error {
	clean, err := sanitizeKey(key)
	if err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(s.dir, clean)); err != nil {
		return fmt.Errorf("deleting evidence file %s: %w", clean, err)
	}
	return nil
}
