// Package session ties a browser to a signed session cookie and keeps the
// per-session server state: revocation marks and the flash message queue.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid session token")

// Session is the decoded session cookie. UserID is uuid.Nil for anonymous visitors.
type Session struct {
	ID        string
	UserID    uuid.UUID
	Remember  bool
	ExpiresAt time.Time
}

func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != uuid.Nil
}

// Flash categories used by the templates.
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
	FlashInfo    = "info"
)

// Flash is a one-time status message shown on the next rendered page.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// Store keeps server-side session state.
type Store interface {
	// Revoke marks a session id unusable until the given time.
	Revoke(ctx context.Context, id string, until time.Time) error
	IsRevoked(ctx context.Context, id string) (bool, error)
	PushFlash(ctx context.Context, id string, f Flash) error
	// PopFlashes returns and clears the queued flashes of a session.
	PopFlashes(ctx context.Context, id string) ([]Flash, error)
	Close() error
}
