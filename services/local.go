package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps assets on disk under root/originals and root/thumbnails.
// The files are served through a static route mounted at /uploads.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	for _, prefix := range []string{PrefixOriginals, PrefixThumbnails} {
		if err := os.MkdirAll(filepath.Join(root, prefix), 0o755); err != nil {
			return nil, fmt.Errorf("create %s dir: %w", prefix, err)
		}
	}
	return &LocalStore{root: root}, nil
}

// Root returns the directory the static file route should serve.
func (s *LocalStore) Root() string {
	return s.root
}

func (s *LocalStore) path(prefix, name string) string {
	// names are server-generated, but never trust them as paths
	return filepath.Join(s.root, prefix, filepath.Base(name))
}

func (s *LocalStore) Put(_ context.Context, prefix, name string, reader io.Reader, _ int64, _ string) error {
	f, err := os.Create(s.path(prefix, name))
	if err != nil {
		return fmt.Errorf("create %s/%s: %w", prefix, name, err)
	}
	if _, err := io.Copy(f, reader); err != nil {
		f.Close()
		os.Remove(f.Name())
		return fmt.Errorf("write %s/%s: %w", prefix, name, err)
	}
	return f.Close()
}

func (s *LocalStore) Get(_ context.Context, prefix, name string) (io.ReadCloser, error) {
	return os.Open(s.path(prefix, name))
}

func (s *LocalStore) Remove(_ context.Context, prefix, name string) error {
	err := os.Remove(s.path(prefix, name))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *LocalStore) URL(_ context.Context, prefix, name string) (string, error) {
	return "/uploads/" + prefix + "/" + strings.TrimPrefix(name, "/"), nil
}
