package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Store persists an uploaded blob and returns its public URL.
type Store interface {
	Save(ctx context.Context, contentType string, r io.Reader) (string, error)
}

// ErrUnsupportedType rejects anything that is not an image upload.
var ErrUnsupportedType = errors.New("only image files can be uploaded")

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// DiskStore writes avatars under a local directory served at publicPath.
type DiskStore struct {
	dir        string
	publicPath string
}

func NewDiskStore(dir, publicPath string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &DiskStore{dir: dir, publicPath: publicPath}, nil
}

func (s *DiskStore) Save(_ context.Context, contentType string, r io.Reader) (string, error) {
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", ErrUnsupportedType
	}

	name := uuid.NewString() + ext
	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	return s.publicPath + "/" + name, nil
}
