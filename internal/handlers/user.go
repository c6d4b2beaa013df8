package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/blog-lite/internal/handlers/dto"
	"github.com/thereayou/blog-lite/internal/middleware"
	"github.com/thereayou/blog-lite/internal/pictures"
	"github.com/thereayou/blog-lite/internal/services"
	"github.com/thereayou/blog-lite/internal/session"
)

type UserHandler struct {
	users    *services.UserService
	pictures *pictures.Manager
	render   *Renderer
}

func NewUserHandler(users *services.UserService, pics *pictures.Manager, render *Renderer) *UserHandler {
	return &UserHandler{users: users, pictures: pics, render: render}
}

// Account shows the profile form pre-filled with the current values.
func (h *UserHandler) Account(c *gin.Context) {
	user := middleware.CurrentUser(c)
	h.renderAccount(c, &dto.AccountForm{Username: user.Username, Email: user.Email}, nil)
}

// UpdateAccount saves username/email and an optional new picture.
func (h *UserHandler) UpdateAccount(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var form dto.AccountForm
	bindErr := c.ShouldBind(&form)
	errs := dto.FieldErrors(&form, bindErr)

	var upload *services.PictureUpload
	fh, err := c.FormFile(dto.PictureField)
	switch {
	case err == nil:
		if msg := dto.CheckPictureName(fh.Filename); msg != "" {
			errs[dto.PictureField] = msg
			break
		}
		f, err := fh.Open()
		if err != nil {
			h.render.InternalError(c, err)
			return
		}
		defer f.Close()
		upload = &services.PictureUpload{Filename: fh.Filename, Body: f}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		errs[dto.PictureField] = "The file could not be read."
	}

	if len(errs) > 0 {
		h.renderAccount(c, &form, errs)
		return
	}

	err = h.users.UpdateAccount(c.Request.Context(), user, services.UpdateAccountRequest{
		Username: form.Username,
		Email:    form.Email,
		Picture:  upload,
	})
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		h.renderAccount(c, &form, verr.Fields)
		return
	case errors.Is(err, pictures.ErrTooLarge):
		h.renderAccount(c, &form, map[string]string{dto.PictureField: "The picture is too large."})
		return
	case errors.Is(err, pictures.ErrInvalidImage):
		h.renderAccount(c, &form, map[string]string{dto.PictureField: "The file is not a valid jpg or png image."})
		return
	case err != nil:
		h.render.InternalError(c, err)
		return
	}

	h.render.Redirect(c, nil, session.FlashSuccess, "Your account has been updated!", "/account")
}

func (h *UserHandler) renderAccount(c *gin.Context, form *dto.AccountForm, errs map[string]string) {
	user := middleware.CurrentUser(c)
	h.render.HTML(c, http.StatusOK, "account.html", "Account", gin.H{
		"Form":       form,
		"Errors":     errs,
		"ProfilePic": h.pictures.URL(user.ImageFile),
	})
}
