package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/thereayou/blog-lite/internal/database"
	"github.com/thereayou/blog-lite/internal/models"
)

// PictureManager is the subset of pictures.Manager the account flow needs.
type PictureManager interface {
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
	DeletePrevious(ctx context.Context, name string)
}

// PictureUpload is an optional replacement picture.
type PictureUpload struct {
	Filename string
	Body     io.Reader
}

type UpdateAccountRequest struct {
	Username string
	Email    string
	Picture  *PictureUpload
}

type UserService struct {
	users    UserRepository
	pictures PictureManager
	logger   *slog.Logger
}

func NewUserService(users UserRepository, pictures PictureManager, logger *slog.Logger) *UserService {
	return &UserService{users: users, pictures: pictures, logger: logger}
}

// UpdateAccount changes username/email and optionally replaces the picture.
// The new picture is stored before the row is written; the replaced one is
// removed only after the write succeeds.
func (s *UserService) UpdateAccount(ctx context.Context, user *models.User, req UpdateAccountRequest) error {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)

	verr := &ValidationError{}
	verr.checkLength("username", username, UsernameMinLen, UsernameMaxLen)
	verr.checkLength("email", email, 1, EmailMaxLen)
	if err := verr.orNil(); err != nil {
		return err
	}

	if err := checkAvailable(ctx, s.users, user.ID, username, email); err != nil {
		return err
	}

	previous := user.ImageFile
	updated := *user
	updated.Username = username
	updated.Email = email

	if req.Picture != nil {
		name, err := s.pictures.Save(ctx, req.Picture.Filename, req.Picture.Body)
		if err != nil {
			return fmt.Errorf("save picture: %w", err)
		}
		updated.ImageFile = name
	}

	if err := s.users.UpdateUser(ctx, &updated); err != nil {
		if updated.ImageFile != previous {
			s.pictures.DeletePrevious(ctx, updated.ImageFile)
		}
		if errors.Is(err, database.ErrDuplicate) {
			if verr := checkAvailable(ctx, s.users, user.ID, username, email); verr != nil {
				return verr
			}
			return &ValidationError{Fields: map[string]string{"email": msgEmailTaken}}
		}
		return fmt.Errorf("update user: %w", err)
	}

	if updated.ImageFile != previous {
		s.pictures.DeletePrevious(ctx, previous)
	}

	*user = updated
	s.logger.InfoContext(ctx, "account updated", "user_id", user.ID, "image_file", user.ImageFile)
	return nil
}
