package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/blog-lite/internal/middleware"
	"github.com/thereayou/blog-lite/internal/session"
)

// Renderer fills the data every page expects: current user, flashes and
// the CSRF token of the session.
type Renderer struct {
	sessions *session.Manager
	logger   *slog.Logger
}

func NewRenderer(sessions *session.Manager, logger *slog.Logger) *Renderer {
	return &Renderer{sessions: sessions, logger: logger}
}

func (r *Renderer) HTML(c *gin.Context, status int, name, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = map[string]string{}
	}

	user := middleware.CurrentUser(c)
	data["Title"] = title
	data["User"] = user
	data["Authenticated"] = user.IsAuthenticated()

	if sess := middleware.CurrentSession(c); sess != nil {
		flashes, err := r.sessions.Flashes(c.Request.Context(), sess)
		if err != nil {
			r.logger.WarnContext(c.Request.Context(), "could not load flashes", "error", err)
		}
		data["Flashes"] = flashes
		data["CSRFToken"] = r.sessions.CSRFToken(sess)
	}

	c.HTML(status, name, data)
}

// Redirect queues a flash for the current session and redirects to location.
func (r *Renderer) Redirect(c *gin.Context, sess *session.Session, category, message, location string) {
	if sess == nil {
		sess = middleware.CurrentSession(c)
	}
	if sess != nil && message != "" {
		r.Flash(c, sess, category, message)
	}
	c.Redirect(http.StatusFound, location)
}

func (r *Renderer) Flash(c *gin.Context, sess *session.Session, category, message string) {
	if err := r.sessions.Flash(c.Request.Context(), sess, category, message); err != nil {
		r.logger.WarnContext(c.Request.Context(), "could not queue flash", "error", err)
	}
}

// InternalError logs err and renders the generic error page.
func (r *Renderer) InternalError(c *gin.Context, err error) {
	if err != nil {
		r.logger.ErrorContext(c.Request.Context(), "request failed", "error", err, "path", c.Request.URL.Path)
		_ = c.Error(err)
	}
	r.HTML(c, http.StatusInternalServerError, "error.html", "Error", gin.H{
		"Status":  http.StatusInternalServerError,
		"Message": "Something went wrong on our side. Please try again later.",
	})
}

func (r *Renderer) NotFound(c *gin.Context) {
	r.HTML(c, http.StatusNotFound, "error.html", "Not Found", gin.H{
		"Status":  http.StatusNotFound,
		"Message": "That page does not exist.",
	})
}
