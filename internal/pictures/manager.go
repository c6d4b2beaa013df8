// Package pictures stores account pictures: it names, resizes and writes
// uploads and removes replaced ones.
package pictures

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/thereayou/blog-lite/internal/models"
)

var (
	ErrInvalidImage = errors.New("invalid image")
	ErrTooLarge     = errors.New("image too large")
	ErrNotFound     = errors.New("picture not found")
)

const (
	DefaultSize     = 150
	DefaultMaxBytes = 4 << 20

	nameRandomBytes = 8
)

type Manager struct {
	storage  Storage
	size     int
	maxBytes int64
	logger   *slog.Logger
}

func NewManager(storage Storage, size int, maxBytes int64, logger *slog.Logger) *Manager {
	if size <= 0 {
		size = DefaultSize
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Manager{storage: storage, size: size, maxBytes: maxBytes, logger: logger}
}

// Save decodes an upload, shrinks it to fit the bounding box and stores it
// under a random name that keeps the original extension.
func (m *Manager) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return "", fmt.Errorf("%w: unsupported extension %q", ErrInvalidImage, ext)
	}

	data, err := io.ReadAll(io.LimitReader(r, m.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > m.maxBytes {
		return "", ErrTooLarge
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	// Fit never enlarges
	img = imaging.Fit(img, m.size, m.size, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format); err != nil {
		return "", fmt.Errorf("encode picture: %w", err)
	}

	name, err := randomName(ext)
	if err != nil {
		return "", err
	}

	if err := m.storage.Put(ctx, name, buf.Bytes(), mime.TypeByExtension(ext)); err != nil {
		return "", fmt.Errorf("store picture: %w", err)
	}

	return name, nil
}

// DeletePrevious removes a replaced picture. The shared default is never
// touched; failures are logged and swallowed.
func (m *Manager) DeletePrevious(ctx context.Context, name string) {
	if name == "" || name == models.DefaultImageFile {
		return
	}

	err := m.storage.Delete(ctx, name)
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		m.logger.WarnContext(ctx, "previous picture could not be deleted because it was not found",
			"path", m.storage.Location(name))
	default:
		m.logger.ErrorContext(ctx, "previous picture could not be deleted",
			"path", m.storage.Location(name), "error", err)
	}
}

func (m *Manager) URL(name string) string {
	if name == "" {
		name = models.DefaultImageFile
	}
	return m.storage.URL(name)
}

// EnsureDefault writes a neutral placeholder as the default picture when the
// storage has none.
func (m *Manager) EnsureDefault(ctx context.Context) error {
	ok, err := m.storage.Exists(ctx, models.DefaultImageFile)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	img := imaging.New(m.size, m.size, color.NRGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff})
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return err
	}

	m.logger.InfoContext(ctx, "default picture created", "path", m.storage.Location(models.DefaultImageFile))
	return m.storage.Put(ctx, models.DefaultImageFile, buf.Bytes(), "image/png")
}

// randomName is 16 hex characters plus ext. The hex alphabet cannot spell
// the default picture name, so no collision check against it is needed.
func randomName(ext string) (string, error) {
	b := make([]byte, nameRandomBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate picture name: %w", err)
	}
	return hex.EncodeToString(b) + ext, nil
}
