// Package testutil provides shared test helpers for storage-backed tests.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/contractviewer/internal/models"
	"github.com/starford/contractviewer/internal/storage"
)

// ModTime is the modification time reported by StaticProvider.
var ModTime = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

// TestStore creates a temporary directory with an FS provider on top.
func TestStore(t *testing.T) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// WriteDocument writes content to name under dir, creating parents.
func WriteDocument(t *testing.T, dir, name, content string) string {
	t.Helper()
	abs := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return abs
}

// StaticProvider serves content for every path. The returned counter
// reports how many downloads were made.
func StaticProvider(content string) (storage.Provider, *int) {
	calls := new(int)
	return storage.ProviderFunc(func(ctx context.Context, path string) (*models.Object, error) {
		*calls++
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return &models.Object{
			Path:         path,
			Size:         int64(len(content)),
			LastModified: ModTime,
			Data:         []byte(content),
		}, nil
	}), calls
}

// FailingProvider fails every download with err.
func FailingProvider(err error) storage.Provider {
	return storage.ProviderFunc(func(context.Context, string) (*models.Object, error) {
		return nil, err
	})
}
