package services

import (
	"context"
	"fmt"
	"io"

	"github.com/edemey4711/MID/config"
)

// Logical prefixes the pipeline writes under. Originals hold the normalized
// upload bytes, thumbnails the bounded derivatives.
const (
	PrefixOriginals  = "originals"
	PrefixThumbnails = "thumbnails"
)

// BlobStore persists uploaded assets addressed by prefix and server-generated
// filename. Filenames are opaque tokens, never attacker-controlled paths.
type BlobStore interface {
	Put(ctx context.Context, prefix, name string, reader io.Reader, size int64, contentType string) error
	Get(ctx context.Context, prefix, name string) (io.ReadCloser, error)
	Remove(ctx context.Context, prefix, name string) error
	// URL returns a path or presigned URL a browser can fetch the asset from.
	URL(ctx context.Context, prefix, name string) (string, error)
}

// Store is the process-wide blob store, selected by configuration.
var Store BlobStore

// InitStorage wires the configured storage backend into the Store global.
func InitStorage(cfg *config.Config) error {
	switch cfg.StorageBackend {
	case "local", "":
		s, err := NewLocalStore(cfg.StorageRoot)
		if err != nil {
			return fmt.Errorf("init local storage: %w", err)
		}
		Store = s
	case "minio":
		s, err := NewMinioStore(cfg)
		if err != nil {
			return fmt.Errorf("init minio storage: %w", err)
		}
		Store = s
	default:
		return fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
	return nil
}
