package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/thereayou/blog-lite/internal/models"
)

// PostNotifier is told about every stored post; the live feed hub implements it.
type PostNotifier interface {
	PostCreated(post *models.Post)
}

type PostService struct {
	posts    PostRepository
	order    models.PostOrder
	notifier PostNotifier
	logger   *slog.Logger
}

func NewPostService(posts PostRepository, order models.PostOrder, notifier PostNotifier, logger *slog.Logger) *PostService {
	if order == "" {
		order = models.PostOrderNewest
	}
	return &PostService{posts: posts, order: order, notifier: notifier, logger: logger}
}

func (s *PostService) Create(ctx context.Context, author *models.User, title, content string) (*models.Post, error) {
	verr := &ValidationError{}
	verr.checkLength("title", strings.TrimSpace(title), 1, TitleMaxLen)
	if strings.TrimSpace(content) == "" {
		verr.add("content", msgRequired)
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:   strings.TrimSpace(title),
		Content: content,
		UserID:  author.ID,
	}
	if err := s.posts.SavePost(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	post.Author = *author

	s.logger.InfoContext(ctx, "post created", "post_id", post.ID, "user_id", author.ID)
	if s.notifier != nil {
		s.notifier.PostCreated(post)
	}
	return post, nil
}

// List returns the home feed in the configured order.
func (s *PostService) List(ctx context.Context) ([]models.Post, error) {
	posts, err := s.posts.ListPosts(ctx, s.order)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}
