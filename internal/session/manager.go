package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/thereayou/blog-lite/pkg/auth"
)

const DefaultCookieName = "session"

type Options struct {
	CookieName string
	// TTL bounds a browser-lifetime session token.
	TTL time.Duration
	// RememberTTL is both the token lifetime and cookie Max-Age of a
	// remembered login.
	RememberTTL time.Duration
	Secure      bool
}

// Manager converts between session cookies and Sessions.
type Manager struct {
	tokens *auth.JWTManager
	store  Store
	opts   Options
}

func NewManager(tokens *auth.JWTManager, store Store, opts Options) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = DefaultCookieName
	}
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	if opts.RememberTTL <= 0 {
		opts.RememberTTL = 365 * 24 * time.Hour
	}
	return &Manager{tokens: tokens, store: store, opts: opts}
}

func (m *Manager) Store() Store { return m.store }

// Load decodes the session cookie of r. A missing, forged, expired or revoked
// cookie yields ErrInvalidToken.
func (m *Manager) Load(ctx context.Context, r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(m.opts.CookieName)
	if err != nil || cookie.Value == "" {
		return nil, ErrInvalidToken
	}

	claims, err := m.tokens.Verify(cookie.Value)
	if err != nil {
		return nil, ErrInvalidToken
	}

	s := &Session{
		ID:        claims.ID,
		Remember:  claims.Remember,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.Subject != "" {
		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			return nil, ErrInvalidToken
		}
		s.UserID = userID
	}

	revoked, err := m.store.IsRevoked(ctx, s.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, ErrInvalidToken
	}

	return s, nil
}

// Start issues a new session for userID (uuid.Nil for anonymous) and writes
// its cookie.
func (m *Manager) Start(w http.ResponseWriter, userID uuid.UUID, remember bool) (*Session, error) {
	ttl := m.opts.TTL
	if remember {
		ttl = m.opts.RememberTTL
	}

	s := &Session{ID: uuid.NewString(), UserID: userID, Remember: remember}

	subject := ""
	if userID != uuid.Nil {
		subject = userID.String()
	}
	token, exp, err := m.tokens.Generate(s.ID, subject, remember, ttl)
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}
	s.ExpiresAt = exp

	cookie := m.cookie(token)
	if remember {
		cookie.MaxAge = int(ttl.Seconds())
	}
	http.SetCookie(w, cookie)

	return s, nil
}

// Destroy revokes s and clears the cookie. A nil session only clears the cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, s *Session) error {
	cookie := m.cookie("")
	cookie.MaxAge = -1
	http.SetCookie(w, cookie)

	if s == nil {
		return nil
	}
	return m.store.Revoke(ctx, s.ID, s.ExpiresAt)
}

func (m *Manager) Flash(ctx context.Context, s *Session, category, message string) error {
	return m.store.PushFlash(ctx, s.ID, Flash{Category: category, Message: message})
}

func (m *Manager) Flashes(ctx context.Context, s *Session) ([]Flash, error) {
	return m.store.PopFlashes(ctx, s.ID)
}

func (m *Manager) CSRFToken(s *Session) string {
	return m.tokens.CSRFToken(s.ID)
}

func (m *Manager) CheckCSRF(s *Session, token string) bool {
	if s == nil || token == "" {
		return false
	}
	return m.tokens.CheckCSRF(s.ID, token)
}

func (m *Manager) CookieName() string { return m.opts.CookieName }

func (m *Manager) cookie(value string) *http.Cookie {
	return &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
