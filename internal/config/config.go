// Package config loads runtime settings from .env files and the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/thereayou/blog-lite/internal/models"
)

const (
	StorageLocal = "local"
	StorageS3    = "s3"

	// MemoryDatabaseURL selects the in-process store instead of postgres.
	MemoryDatabaseURL = "memory://"
)

type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string
	SecretKey   string

	// RootPath is the application root; static files live in RootPath/static.
	RootPath string

	SessionTTL   time.Duration
	RememberTTL  time.Duration
	CookieSecure bool

	PostOrder models.PostOrder

	MaxUploadBytes int64
	PictureSize    int
	PictureStorage string

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string

	LogLevel slog.Level
	GinMode  string
}

func (c *Config) StaticDir() string { return filepath.Join(c.RootPath, "static") }

func (c *Config) ImageDir() string { return filepath.Join(c.StaticDir(), "imgs") }

// LoadDefaults populates c with development defaults. DatabaseURL and
// SecretKey have none.
func (c *Config) LoadDefaults() {
	c.Port = "8080"
	c.RootPath = "."
	c.SessionTTL = 24 * time.Hour
	c.RememberTTL = 365 * 24 * time.Hour
	c.PostOrder = models.PostOrderNewest
	c.MaxUploadBytes = 4 << 20
	c.PictureSize = 150
	c.PictureStorage = StorageLocal
	c.S3Region = "us-east-1"
	c.LogLevel = slog.LevelInfo
	c.GinMode = "release"
}

// Load reads .env.local and .env when present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			slog.Debug(".env not found, using environment variables")
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from defaults overlaid with environment variables.
func FromEnv() (*Config, error) {
	c := &Config{}
	c.LoadDefaults()

	var errs []error
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil || d <= 0 {
				errs = append(errs, fmt.Errorf("%s: invalid duration %q", key, v))
				return
			}
			*dst = d
		}
	}

	str("PORT", &c.Port)
	str("DATABASE_URL", &c.DatabaseURL)
	str("REDIS_URL", &c.RedisURL)
	str("SECRET_KEY", &c.SecretKey)
	str("APP_ROOT", &c.RootPath)
	dur("SESSION_TTL", &c.SessionTTL)
	dur("REMEMBER_TTL", &c.RememberTTL)
	str("PICTURE_STORAGE", &c.PictureStorage)
	str("S3_BUCKET", &c.S3Bucket)
	str("S3_REGION", &c.S3Region)
	str("S3_ENDPOINT", &c.S3Endpoint)
	str("S3_ACCESS_KEY", &c.S3AccessKey)
	str("S3_SECRET_KEY", &c.S3SecretKey)
	str("S3_PUBLIC_URL", &c.S3PublicURL)
	str("GIN_MODE", &c.GinMode)
	c.PictureStorage = strings.ToLower(c.PictureStorage)

	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("COOKIE_SECURE: invalid bool %q", v))
		}
		c.CookieSecure = b
	}
	if v := os.Getenv("POST_ORDER"); v != "" {
		order, ok := models.ParsePostOrder(v)
		if !ok {
			errs = append(errs, fmt.Errorf("POST_ORDER: want newest or oldest, got %q", v))
		}
		c.PostOrder = order
	}
	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			errs = append(errs, fmt.Errorf("MAX_UPLOAD_BYTES: invalid size %q", v))
		}
		c.MaxUploadBytes = n
	}
	if v := os.Getenv("PICTURE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			errs = append(errs, fmt.Errorf("PICTURE_SIZE: invalid size %q", v))
		}
		c.PictureSize = n
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if err := c.LogLevel.UnmarshalText([]byte(v)); err != nil {
			errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is not set"))
	}
	if c.SecretKey == "" {
		errs = append(errs, errors.New("SECRET_KEY is not set"))
	}
	switch c.PictureStorage {
	case StorageLocal:
	case StorageS3:
		if c.S3Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET is required for PICTURE_STORAGE=s3"))
		}
	default:
		errs = append(errs, fmt.Errorf("PICTURE_STORAGE: want local or s3, got %q", c.PictureStorage))
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("GIN_MODE: want debug, release or test, got %q", c.GinMode))
	}
	return errors.Join(errs...)
}
