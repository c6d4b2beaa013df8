package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/blog-lite/internal/config"
	"github.com/thereayou/blog-lite/internal/database"
	"github.com/thereayou/blog-lite/internal/handlers"
	"github.com/thereayou/blog-lite/internal/pictures"
	"github.com/thereayou/blog-lite/internal/services"
	"github.com/thereayou/blog-lite/internal/session"
	ws "github.com/thereayou/blog-lite/internal/websocket"
	"github.com/thereayou/blog-lite/pkg/auth"
	"github.com/thereayou/blog-lite/web"
)

const shutdownTimeout = 30 * time.Second

type Server struct {
	Router   *gin.Engine
	DB       services.DatabaseService
	Sessions *session.Manager
	Pictures *pictures.Manager
	Hub      *ws.Hub

	cfg    *config.Config
	logger *slog.Logger
}

// Deps are the backends a Server runs on. New builds them from config;
// tests pass their own.
type Deps struct {
	DB       services.DatabaseService
	Sessions session.Store
	Storage  pictures.Storage
}

// New connects the backends named by cfg and builds the server.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	var deps Deps

	if cfg.DatabaseURL == config.MemoryDatabaseURL {
		logger.Warn("using in-memory database, data is lost on restart")
		deps.DB = database.NewMemory()
	} else {
		db := &database.Database{}
		if err := db.Connect(cfg.DatabaseURL); err != nil {
			return nil, fmt.Errorf("postgres connect failed: %w", err)
		}
		deps.DB = db
	}

	if cfg.RedisURL == "" {
		logger.Warn("REDIS_URL is not set, keeping session state in memory")
		deps.Sessions = session.NewMemoryStore()
	} else {
		rdb, err := session.Dial(ctx, cfg.RedisURL)
		if err != nil {
			_ = deps.DB.Close()
			return nil, fmt.Errorf("redis connect failed: %w", err)
		}
		deps.Sessions = session.NewRedisStore(rdb)
	}

	switch cfg.PictureStorage {
	case config.StorageS3:
		s3, err := pictures.NewS3Storage(ctx, pictures.S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			_ = deps.DB.Close()
			_ = deps.Sessions.Close()
			return nil, fmt.Errorf("s3 storage: %w", err)
		}
		deps.Storage = s3
	default:
		deps.Storage = pictures.NewLocalStorage(cfg.ImageDir(), "/static/imgs")
	}

	s, err := NewWithDeps(cfg, logger, deps)
	if err != nil {
		_ = deps.DB.Close()
		_ = deps.Sessions.Close()
		return nil, err
	}
	if err := s.Pictures.EnsureDefault(ctx); err != nil {
		logger.Error("could not create default picture", "error", err)
	}
	return s, nil
}

// NewWithDeps wires services, handlers and routes on top of deps.
func NewWithDeps(cfg *config.Config, logger *slog.Logger, deps Deps) (*Server, error) {
	sessions := session.NewManager(auth.NewJWTManager(cfg.SecretKey), deps.Sessions, session.Options{
		TTL:         cfg.SessionTTL,
		RememberTTL: cfg.RememberTTL,
		Secure:      cfg.CookieSecure,
	})
	pics := pictures.NewManager(deps.Storage, cfg.PictureSize, cfg.MaxUploadBytes, logger)

	hub := ws.NewHub(pics.URL, logger)
	go hub.Run()

	authSvc := services.NewAuthService(deps.DB, sessions, logger)
	userSvc := services.NewUserService(deps.DB, pics, logger)
	postSvc := services.NewPostService(deps.DB, cfg.PostOrder, hub, logger)

	render := handlers.NewRenderer(sessions, logger)
	h := Handlers{
		Render: render,
		Pages:  handlers.NewPageHandler(postSvc, render),
		Auth:   handlers.NewAuthHandler(authSvc, render),
		Users:  handlers.NewUserHandler(userSvc, pics, render),
		Posts:  handlers.NewPostHandler(postSvc, render),
		Feed:   handlers.NewFeedHandler(hub, logger),
	}

	tmpl, err := web.Templates(template.FuncMap{
		"imageURL":   pics.URL,
		"formatDate": func(t time.Time) string { return t.Format("2006-01-02") },
	})
	if err != nil {
		hub.Stop()
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	// multipart files above this spill to temp files
	router.MaxMultipartMemory = cfg.MaxUploadBytes

	s := &Server{
		Router:   router,
		DB:       deps.DB,
		Sessions: sessions,
		Pictures: pics,
		Hub:      hub,
		cfg:      cfg,
		logger:   logger,
	}
	Endpoints(router, Middlewares{
		Sessions:  sessions,
		Users:     authSvc,
		Logger:    logger,
		BodyLimit: cfg.MaxUploadBytes + formOverhead,
		StaticDir: cfg.StaticDir(),
	}, h)

	return s, nil
}

// Run serves until ctx is cancelled, then shuts down and releases the backends.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              net.JoinHostPort("", s.cfg.Port),
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "port", s.cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("graceful shutdown failed", "error", err)
	}

	return errors.Join(runErr, s.Close())
}

// Close stops the hub and closes the database and session store.
func (s *Server) Close() error {
	s.Hub.Stop()
	var errs []error
	if err := s.DB.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}
	if err := s.Sessions.Store().Close(); err != nil {
		errs = append(errs, fmt.Errorf("close session store: %w", err))
	}
	return errors.Join(errs...)
}
