package pictures

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Storage persists encoded pictures by filename.
type Storage interface {
	Put(ctx context.Context, name string, data []byte, contentType string) error
	// Delete removes name, returning ErrNotFound when it does not exist.
	Delete(ctx context.Context, name string) error
	Exists(ctx context.Context, name string) (bool, error)
	// URL is the public address of name.
	URL(name string) string
	// Location is a human readable position of name, used in logs.
	Location(name string) string
}

// LocalStorage keeps pictures in a directory served as static files.
type LocalStorage struct {
	dir     string
	urlBase string
}

func NewLocalStorage(dir, urlBase string) *LocalStorage {
	return &LocalStorage{dir: dir, urlBase: strings.TrimRight(urlBase, "/")}
}

func (s *LocalStorage) Put(_ context.Context, name string, data []byte, _ string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *LocalStorage) Delete(_ context.Context, name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *LocalStorage) Exists(_ context.Context, name string) (bool, error) {
	path, err := s.path(name)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	}
	return false, err
}

func (s *LocalStorage) URL(name string) string {
	return s.urlBase + "/" + name
}

func (s *LocalStorage) Location(name string) string {
	return filepath.Join(s.dir, name)
}

// path rejects names that would escape the picture directory.
func (s *LocalStorage) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid picture name %q", name)
	}
	return filepath.Join(s.dir, name), nil
}
