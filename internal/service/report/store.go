package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Store is the blob backend behind report uploads. The engine only
// cares that object keys are durable and unique per upload.
type Store interface {
	Save(ctx context.Context, objectKey string, r io.Reader) (int64, error)
	Open(ctx context.Context, objectKey string) (io.ReadCloser, error)
}

type fsStore struct {
	dir string
}

func NewFSStore(dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &fsStore{dir: dir}, nil
}

func (s *fsStore) Save(ctx context.Context, objectKey string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	path := filepath.Join(s.dir, filepath.FromSlash(objectKey))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create object dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create object: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, r)
	if err != nil {
		os.Remove(path)
		return 0, fmt.Errorf("failed to write object: %w", err)
	}
	return n, nil
}

func (s *fsStore) Open(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.dir, filepath.FromSlash(objectKey)))
	if err != nil {
		return nil, fmt.Errorf("failed to open object: %w", err)
	}
	return f, nil
}
