package services

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/thereayou/blog-lite/internal/database"
	"github.com/thereayou/blog-lite/internal/session"
	"github.com/thereayou/blog-lite/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	db       *database.Memory
	sessions *session.Manager
	auth     *AuthService
	logger   *slog.Logger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db := database.NewMemory()
	sessions := session.NewManager(auth.NewJWTManager("test-secret"), session.NewMemoryStore(), session.Options{
		TTL:         time.Hour,
		RememberTTL: 24 * time.Hour,
	})
	return &fixture{
		db:       db,
		sessions: sessions,
		auth:     newAuthService(db, sessions, logger, bcrypt.MinCost),
		logger:   logger,
	}
}

// reload decodes the session cookie written to rec.
func (f *fixture) reload(t *testing.T, rec *httptest.ResponseRecorder) (*session.Session, error) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return f.sessions.Load(req.Context(), req)
}
