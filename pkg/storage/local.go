// Package storage keeps uploaded media on the local filesystem.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/carshop-ar/carshop-backend/pkg/config"
)

var (
	// ErrTooLarge is returned when an upload exceeds the configured limit.
	ErrTooLarge = errors.New("file exceeds upload limit")
	// ErrUnsupportedType is returned when the sniffed content is not an allowed image.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrEmpty is returned for zero-byte uploads.
	ErrEmpty = errors.New("file is empty")
)

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

// Store is the write surface used by the catalog services.
type Store interface {
	SaveImage(ctx context.Context, dir string, r io.Reader) (string, error)
	Delete(ctx context.Context, relPath string) error
	URL(relPath string) string
}

// Local stores files below a root directory and serves them under a URL prefix.
type Local struct {
	root      string
	urlPrefix string
	maxBytes  int64
}

// NewLocal creates the root directory when it does not exist.
func NewLocal(cfg config.MediaConfig) (*Local, error) {
	root := strings.TrimSpace(cfg.Root)
	if root == "" {
		return nil, errors.New("media root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}
	prefix := strings.TrimSpace(cfg.URLPrefix)
	if prefix == "" {
		prefix = "/media/"
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &Local{root: root, urlPrefix: prefix, maxBytes: cfg.MaxUploadBytes()}, nil
}

// Root returns the directory files are written to.
func (l *Local) Root() string {
	return l.root
}

// URLPrefix returns the public prefix media is served under.
func (l *Local) URLPrefix() string {
	return l.urlPrefix
}

// SaveImage sniffs the content, rejects anything but common image formats and
// writes it under dir with a random name. The returned path is relative to the root.
func (l *Local) SaveImage(ctx context.Context, dir string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := io.ReadAll(io.LimitReader(r, l.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return "", ErrEmpty
	}
	if int64(len(data)) > l.maxBytes {
		return "", ErrTooLarge
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), allowedImageTypes...) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mtype.String())
	}

	cleanDir, err := cleanRelative(dir)
	if err != nil {
		return "", err
	}
	rel := path.Join(cleanDir, uuid.NewString()+mtype.Extension())
	full := filepath.Join(l.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write media: %w", err)
	}
	return rel, nil
}

// Delete removes a stored file. Missing files and absolute URLs are ignored.
func (l *Local) Delete(ctx context.Context, relPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if relPath == "" || isRemote(relPath) {
		return nil
	}
	clean, err := cleanRelative(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(l.root, filepath.FromSlash(clean))); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete media: %w", err)
	}
	return nil
}

// URL returns the public URL for a stored path. Remote URLs pass through.
func (l *Local) URL(relPath string) string {
	if relPath == "" || isRemote(relPath) {
		return relPath
	}
	return l.urlPrefix + strings.TrimPrefix(relPath, "/")
}

func isRemote(value string) bool {
	return strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://")
}

func cleanRelative(p string) (string, error) {
	clean := path.Clean("/" + strings.ReplaceAll(strings.TrimSpace(p), "\\", "/"))
	clean = strings.TrimPrefix(clean, "/")
	if clean == "" || clean == "." {
		return "", errors.New("media path required")
	}
	return clean, nil
}
