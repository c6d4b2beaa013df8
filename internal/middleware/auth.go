package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/thereayou/blog-lite/internal/models"
	"github.com/thereayou/blog-lite/internal/session"
)

const (
	SessionKey = "session"
	UserKey    = "user"
)

const msgLoginRequired = "Please log in to access this page."

// UserResolver maps a session to its account, nil for anonymous visitors.
type UserResolver interface {
	CurrentUser(ctx context.Context, sess *session.Session) *models.User
}

// LoadSession attaches the visitor's session and, when logged in, their user
// to the context. Visitors without a usable cookie get a fresh anonymous session.
func LoadSession(sessions *session.Manager, users UserResolver, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		sess, err := sessions.Load(ctx, c.Request)
		if err != nil && !errors.Is(err, session.ErrInvalidToken) {
			logger.WarnContext(ctx, "session lookup failed", "error", err)
		}

		var user *models.User
		if sess != nil {
			user = users.CurrentUser(ctx, sess)
			// the account is gone but the cookie is not
			if sess.Authenticated() && user == nil {
				sess = nil
			}
		}

		if sess == nil {
			sess, err = sessions.Start(c.Writer, uuid.Nil, false)
			if err != nil {
				logger.ErrorContext(ctx, "could not start session", "error", err)
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
		}

		c.Set(SessionKey, sess)
		if user != nil {
			c.Set(UserKey, user)
		}
		c.Next()
	}
}

// CurrentSession returns the session set by LoadSession.
func CurrentSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(SessionKey); ok {
		if s, ok := v.(*session.Session); ok {
			return s
		}
	}
	return nil
}

// CurrentUser returns the logged in user or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(UserKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}

// LoginRequired sends anonymous visitors to /login with the requested path in next.
func LoginRequired(sessions *session.Manager, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c).IsAuthenticated() {
			c.Next()
			return
		}

		if sess := CurrentSession(c); sess != nil {
			if err := sessions.Flash(c.Request.Context(), sess, session.FlashInfo, msgLoginRequired); err != nil {
				logger.WarnContext(c.Request.Context(), "could not queue flash", "error", err)
			}
		}
		c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
		c.Abort()
	}
}

// AnonymousOnly sends logged in users to the home page.
func AnonymousOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c).IsAuthenticated() {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// SafeNext returns next when it is a path on this site, otherwise "".
func SafeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") {
		return ""
	}
	if strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return ""
	}
	return next
}
