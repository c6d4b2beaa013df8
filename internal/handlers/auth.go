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

const adminUsername = "admin"

type AuthHandler struct {
	auth   *services.AuthService
	render *Renderer
}

func NewAuthHandler(auth *services.AuthService, render *Renderer) *AuthHandler {
	return &AuthHandler{auth: auth, render: render}
}

func (h *AuthHandler) RegisterPage(c *gin.Context) {
	h.renderRegister(c, &dto.RegisterForm{}, nil)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var form dto.RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderRegister(c, &form, dto.FieldErrors(&form, err))
		return
	}

	_, err := h.auth.Register(c.Request.Context(), services.RegisterRequest{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
	})
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		h.renderRegister(c, &form, verr.Fields)
		return
	case err != nil:
		h.render.InternalError(c, err)
		return
	}

	h.render.Redirect(c, nil, session.FlashSuccess, "Your account has been created! You are now able to login", "/")
}

func (h *AuthHandler) renderRegister(c *gin.Context, form *dto.RegisterForm, errs map[string]string) {
	// passwords are never echoed back
	form.Password, form.ConfirmPassword = "", ""
	h.render.HTML(c, http.StatusOK, "register.html", "Register", gin.H{"Form": form, "Errors": errs})
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	h.renderLogin(c, &dto.LoginForm{}, nil)
}

// Login establishes a session and redirects to next when it is a local path.
func (h *AuthHandler) Login(c *gin.Context) {
	var form dto.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderLogin(c, &form, dto.FieldErrors(&form, err))
		return
	}

	sess, user, err := h.auth.Login(c.Request.Context(), c.Writer, middleware.CurrentSession(c), services.LoginRequest{
		Email:    form.Email,
		Password: form.Password,
		Remember: form.Remember,
	})
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		h.render.Flash(c, middleware.CurrentSession(c), session.FlashDanger, "Login Unsuccessful. Please check email and password")
		h.renderLogin(c, &form, nil)
		return
	case err != nil:
		h.render.InternalError(c, err)
		return
	}

	msg := "You have been logged in!"
	if user.Username == adminUsername {
		msg = "Welcome Back Admin!"
	}

	next := middleware.SafeNext(c.Query("next"))
	if next == "" {
		next = "/"
	}
	h.render.Redirect(c, sess, session.FlashSuccess, msg, next)
}

func (h *AuthHandler) renderLogin(c *gin.Context, form *dto.LoginForm, errs map[string]string) {
	form.Password = ""
	h.render.HTML(c, http.StatusOK, "login.html", "Login", gin.H{"Form": form, "Errors": errs})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), c.Writer, middleware.CurrentSession(c)); err != nil {
		h.render.InternalError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}
