package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/thereayou/blog-lite/internal/models"
)

// UserRepository is the credential store.
type UserRepository interface {
	SaveUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
}

type PostRepository interface {
	SavePost(ctx context.Context, post *models.Post) error
	ListPosts(ctx context.Context, order models.PostOrder) ([]models.Post, error)
}

// DatabaseService is implemented by database.Database and database.Memory.
type DatabaseService interface {
	UserRepository
	PostRepository
	Close() error
}
