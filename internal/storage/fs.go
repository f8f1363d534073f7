package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/contractviewer/internal/apperr"
	"github.com/starford/contractviewer/internal/models"
)

// FS implements Provider backed by a local directory. Object paths are
// resolved relative to the root, so "/data.json" maps to <root>/data.json.
type FS struct {
	root string // absolute path to the storage directory
}

// NewFS creates a new FS provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute storage directory.
func (f *FS) Root() string {
	return f.root
}

// safePath resolves an object path against the root and rejects any result
// that escapes it (directory traversal).
func (f *FS) safePath(objectPath string) (string, error) {
	rel := strings.TrimLeft(filepath.FromSlash(objectPath), string(os.PathSeparator))
	if rel == "" {
		return "", fmt.Errorf("storage: empty object path")
	}
	cleaned := filepath.Clean(rel)
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("storage: absolute paths not allowed: %s", objectPath)
	}
	abs, err := filepath.Abs(filepath.Join(f.root, cleaned))
	if err != nil {
		return "", fmt.Errorf("storage: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage: path escapes root: %s", objectPath)
	}
	return abs, nil
}

// ObjectPath converts an absolute file path under the root back to the
// object path form used by Download.
func (f *FS) ObjectPath(abs string) (string, error) {
	rel, err := filepath.Rel(f.root, abs)
	if err != nil {
		return "", fmt.Errorf("storage: relative path: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage: path outside root: %s", abs)
	}
	return "/" + filepath.ToSlash(rel), nil
}

// Download reads a file from the storage directory.
func (f *FS) Download(ctx context.Context, path string) (*models.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	abs, err := f.safePath(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("storage: %s: %w", path, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("storage: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("storage: %s is a directory", path)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", path, err)
	}
	objectPath, err := f.ObjectPath(abs)
	if err != nil {
		return nil, err
	}
	return &models.Object{
		Path:         objectPath,
		Size:         int64(len(data)),
		LastModified: info.ModTime(),
		Data:         data,
	}, nil
}
