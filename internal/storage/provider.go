// Package storage downloads the extracted contract JSON from an object store.
package storage

import (
	"context"

	"github.com/starford/contractviewer/internal/models"
)

// Provider is the interface for fetching a single stored object.
type Provider interface {
	// Download returns the bytes and metadata of the object at path.
	// Paths use the object store's absolute form, e.g. "/data.json".
	Download(ctx context.Context, path string) (*models.Object, error)
}

// ProviderFunc adapts a plain function to Provider.
type ProviderFunc func(ctx context.Context, path string) (*models.Object, error)

// Download calls f.
func (f ProviderFunc) Download(ctx context.Context, path string) (*models.Object, error) {
	return f(ctx, path)
}
