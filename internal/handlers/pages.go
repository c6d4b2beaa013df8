package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/blog-lite/internal/services"
)

type PageHandler struct {
	posts  *services.PostService
	render *Renderer
}

func NewPageHandler(posts *services.PostService, render *Renderer) *PageHandler {
	return &PageHandler{posts: posts, render: render}
}

// Home lists every post.
func (h *PageHandler) Home(c *gin.Context) {
	posts, err := h.posts.List(c.Request.Context())
	if err != nil {
		h.render.InternalError(c, err)
		return
	}
	h.render.HTML(c, http.StatusOK, "home.html", "", gin.H{"Posts": posts})
}

func (h *PageHandler) About(c *gin.Context) {
	h.render.HTML(c, http.StatusOK, "about.html", "About", nil)
}
