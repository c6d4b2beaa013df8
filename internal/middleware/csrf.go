package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/blog-lite/internal/session"
)

const CSRFField = "csrf_token"

// CSRF rejects form posts whose token does not belong to the current session.
func CSRF(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}
		if !sessions.CheckCSRF(CurrentSession(c), c.PostForm(CSRFField)) {
			c.String(http.StatusBadRequest, "The CSRF token is missing or invalid.")
			c.Abort()
			return
		}
		c.Next()
	}
}

// BodyLimit caps request bodies at n bytes.
func BodyLimit(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}
