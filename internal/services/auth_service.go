package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/thereayou/blog-lite/internal/database"
	"github.com/thereayou/blog-lite/internal/models"
	"github.com/thereayou/blog-lite/internal/session"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Username string
	Email    string
	Password string
}

type LoginRequest struct {
	Email    string
	Password string
	Remember bool
}

// AuthService registers accounts and binds them to sessions.
type AuthService struct {
	users    UserRepository
	sessions *session.Manager
	logger   *slog.Logger
	cost     int
	// dummyHash is compared against when the email is unknown so both
	// failure paths cost one bcrypt comparison.
	dummyHash []byte
}

func NewAuthService(users UserRepository, sessions *session.Manager, logger *slog.Logger) *AuthService {
	return newAuthService(users, sessions, logger, bcrypt.DefaultCost)
}

func newAuthService(users UserRepository, sessions *session.Manager, logger *slog.Logger, cost int) *AuthService {
	dummy, _ := bcrypt.GenerateFromPassword([]byte("dummy-password"), cost)
	return &AuthService{
		users:     users,
		sessions:  sessions,
		logger:    logger,
		cost:      cost,
		dummyHash: dummy,
	}
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	verr := &ValidationError{}
	verr.checkLength("username", req.Username, UsernameMinLen, UsernameMaxLen)
	verr.checkLength("email", req.Email, 1, EmailMaxLen)
	if req.Password == "" {
		verr.add("password", msgRequired)
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	if err := checkAvailable(ctx, s.users, uuid.Nil, req.Username, req.Email); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, &ValidationError{Fields: map[string]string{"password": "Password must be at most 72 bytes long."}}
		}
		return nil, fmt.Errorf("cannot hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := s.users.SaveUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			// lost a race with a concurrent registration
			if verr := checkAvailable(ctx, s.users, uuid.Nil, req.Username, req.Email); verr != nil {
				return nil, verr
			}
			return nil, &ValidationError{Fields: map[string]string{"email": msgEmailTaken}}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login verifies credentials and replaces current (which may be nil) with an
// authenticated session whose cookie is written to w.
func (s *AuthService) Login(ctx context.Context, w http.ResponseWriter, current *session.Session, req LoginRequest) (*session.Session, *models.User, error) {
	user, err := s.users.FindUserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			return nil, nil, fmt.Errorf("find user: %w", err)
		}
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(req.Password))
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	// the pre-login session id is retired so it cannot be fixated
	if current != nil {
		if err := s.sessions.Store().Revoke(ctx, current.ID, current.ExpiresAt); err != nil {
			s.logger.WarnContext(ctx, "could not revoke previous session", "error", err)
		}
	}

	sess, err := s.sessions.Start(w, user.ID, req.Remember)
	if err != nil {
		return nil, nil, err
	}

	s.logger.InfoContext(ctx, "user logged in", "user_id", user.ID, "remember", req.Remember)
	return sess, user, nil
}

// Logout destroys sess. It is safe to call without an active session.
func (s *AuthService) Logout(ctx context.Context, w http.ResponseWriter, sess *session.Session) error {
	if err := s.sessions.Destroy(ctx, w, sess); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	if sess.Authenticated() {
		s.logger.InfoContext(ctx, "user logged out", "user_id", sess.UserID)
	}
	return nil
}

// CurrentUser resolves sess to its account. Anonymous sessions, deleted
// accounts and lookup failures all resolve to nil.
func (s *AuthService) CurrentUser(ctx context.Context, sess *session.Session) *models.User {
	if !sess.Authenticated() {
		return nil
	}
	user, err := s.users.GetUser(ctx, sess.UserID)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			s.logger.ErrorContext(ctx, "load current user", "error", err, "user_id", sess.UserID)
		}
		return nil
	}
	return user
}

// checkAvailable reports taken usernames/emails held by accounts other than self.
func checkAvailable(ctx context.Context, users UserRepository, self uuid.UUID, username, email string) error {
	verr := &ValidationError{}

	if u, err := users.FindUserByUsername(ctx, username); err == nil {
		if u.ID != self {
			verr.add("username", msgUsernameTaken)
		}
	} else if !errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("find user by username: %w", err)
	}

	if u, err := users.FindUserByEmail(ctx, email); err == nil {
		if u.ID != self {
			verr.add("email", msgEmailTaken)
		}
	} else if !errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("find user by email: %w", err)
	}

	return verr.orNil()
}
