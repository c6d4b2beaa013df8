package dto

import (
	"path/filepath"
	"strings"
)

// AccountForm carries the text fields of /account; the picture arrives as a
// multipart file under PictureField.
type AccountForm struct {
	Username string `form:"username" binding:"required,min=2,max=20"`
	Email    string `form:"email" binding:"required,email,max=120"`
}

const PictureField = "picture"

const msgPictureExtension = "File does not have an approved extension: jpg, png"

// CheckPictureName returns an inline error for a filename we do not accept.
func CheckPictureName(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png":
		return ""
	default:
		return msgPictureExtension
	}
}

type PostForm struct {
	Title   string `form:"title" binding:"required,max=100"`
	Content string `form:"content" binding:"required"`
}
