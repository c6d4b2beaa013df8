package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/blog-lite/internal/handlers/dto"
	"github.com/thereayou/blog-lite/internal/middleware"
	"github.com/thereayou/blog-lite/internal/services"
	"github.com/thereayou/blog-lite/internal/session"
)

type PostHandler struct {
	posts  *services.PostService
	render *Renderer
}

func NewPostHandler(posts *services.PostService, render *Renderer) *PostHandler {
	return &PostHandler{posts: posts, render: render}
}

func (h *PostHandler) NewPost(c *gin.Context) {
	h.renderForm(c, &dto.PostForm{}, nil)
}

func (h *PostHandler) CreatePost(c *gin.Context) {
	var form dto.PostForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderForm(c, &form, dto.FieldErrors(&form, err))
		return
	}

	_, err := h.posts.Create(c.Request.Context(), middleware.CurrentUser(c), form.Title, form.Content)
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		h.renderForm(c, &form, verr.Fields)
		return
	case err != nil:
		h.render.InternalError(c, err)
		return
	}

	h.render.Redirect(c, nil, session.FlashSuccess, "Your post has been created!", "/")
}

func (h *PostHandler) renderForm(c *gin.Context, form *dto.PostForm, errs map[string]string) {
	h.render.HTML(c, http.StatusOK, "create_post.html", "New Post", gin.H{
		"Form":   form,
		"Errors": errs,
		"Legend": "New Post",
	})
}
