// Package storage holds the image upload collaborator. The issue service
// only sees the narrow Uploader interface; where the bytes land is an
// integration detail.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Uploader stores an uploaded file and returns a URL it will be served from.
type Uploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

// LocalUploader writes uploads to a directory served under /uploads/.
type LocalUploader struct {
	dir     string
	baseURL string
}

// NewLocalUploader creates the upload directory if needed.
func NewLocalUploader(dir, baseURL string) (*LocalUploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalUploader{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Upload writes the file under a random name, keeping only the original
// extension. The client-supplied filename never reaches the filesystem.
func (u *LocalUploader) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(filename))
	path := filepath.Join(u.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write upload file: %w", err)
	}

	return u.baseURL + "/uploads/" + name, nil
}

// Dir returns the directory uploads are written to, for the file server.
func (u *LocalUploader) Dir() string {
	return u.dir
}
