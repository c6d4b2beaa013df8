package config

import (
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/blog-lite/internal/models"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, ".", c.RootPath)
	assert.Equal(t, 24*time.Hour, c.SessionTTL)
	assert.Equal(t, 365*24*time.Hour, c.RememberTTL)
	assert.Equal(t, models.PostOrderNewest, c.PostOrder)
	assert.Equal(t, int64(4<<20), c.MaxUploadBytes)
	assert.Equal(t, 150, c.PictureSize)
	assert.Equal(t, StorageLocal, c.PictureStorage)
	assert.Equal(t, slog.LevelInfo, c.LogLevel)
	assert.Equal(t, filepath.Join("static", "imgs"), c.ImageDir())
}

func TestFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/blog")
	t.Setenv("SECRET_KEY", "s3cr3t")
	t.Setenv("PORT", "9000")
	t.Setenv("APP_ROOT", "/srv/blog")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("REMEMBER_TTL", "720h")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("POST_ORDER", "oldest")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("PICTURE_SIZE", "64")
	t.Setenv("LOG_LEVEL", "debug")

	c, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "postgres://u:p@db:5432/blog", c.DatabaseURL)
	assert.Equal(t, "s3cr3t", c.SecretKey)
	assert.Equal(t, "9000", c.Port)
	assert.Equal(t, "/srv/blog/static/imgs", c.ImageDir())
	assert.Equal(t, 2*time.Hour, c.SessionTTL)
	assert.Equal(t, 720*time.Hour, c.RememberTTL)
	assert.True(t, c.CookieSecure)
	assert.Equal(t, models.PostOrderOldest, c.PostOrder)
	assert.Equal(t, int64(1024), c.MaxUploadBytes)
	assert.Equal(t, 64, c.PictureSize)
	assert.Equal(t, slog.LevelDebug, c.LogLevel)
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing database", env: map[string]string{"SECRET_KEY": "k"}},
		{name: "missing secret", env: map[string]string{"DATABASE_URL": MemoryDatabaseURL}},
		{name: "bad duration", env: map[string]string{"DATABASE_URL": MemoryDatabaseURL, "SECRET_KEY": "k", "SESSION_TTL": "soon"}},
		{name: "bad order", env: map[string]string{"DATABASE_URL": MemoryDatabaseURL, "SECRET_KEY": "k", "POST_ORDER": "random"}},
		{name: "bad storage", env: map[string]string{"DATABASE_URL": MemoryDatabaseURL, "SECRET_KEY": "k", "PICTURE_STORAGE": "ftp"}},
		{name: "s3 without bucket", env: map[string]string{"DATABASE_URL": MemoryDatabaseURL, "SECRET_KEY": "k", "PICTURE_STORAGE": "s3"}},
		{name: "bad log level", env: map[string]string{"DATABASE_URL": MemoryDatabaseURL, "SECRET_KEY": "k", "LOG_LEVEL": "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"DATABASE_URL", "SECRET_KEY", "SESSION_TTL", "POST_ORDER", "PICTURE_STORAGE", "LOG_LEVEL"} {
				t.Setenv(k, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}
