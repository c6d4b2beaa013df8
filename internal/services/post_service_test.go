package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/blog-lite/internal/models"
)

type recordingNotifier struct {
	posts []*models.Post
}

func (n *recordingNotifier) PostCreated(post *models.Post) {
	n.posts = append(n.posts, post)
}

func TestPostService_CreateList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	notifier := &recordingNotifier{}
	svc := NewPostService(f.db, models.PostOrderNewest, notifier, f.logger)

	alice, err := f.auth.Register(ctx, RegisterRequest{Username: "alice", Email: "a@x.com", Password: "pw123"})
	require.NoError(t, err)

	post, err := svc.Create(ctx, alice, "Hello", "World")
	require.NoError(t, err)
	assert.Equal(t, "alice", post.Author.Username)
	require.Len(t, notifier.posts, 1)
	assert.Equal(t, post.ID, notifier.posts[0].ID)

	posts, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Hello", posts[0].Title)
	assert.Equal(t, "World", posts[0].Content)
	assert.Equal(t, "alice", posts[0].Author.Username)
}

func TestPostService_Create_RequiresFields(t *testing.T) {
	f := newFixture(t)
	svc := NewPostService(f.db, "", nil, f.logger)

	_, err := svc.Create(context.Background(), &models.User{}, " ", "")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "title")
	assert.Contains(t, verr.Fields, "content")
}

func TestPostService_Create_TitleTooLong(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	notifier := &recordingNotifier{}
	svc := NewPostService(f.db, models.PostOrderNewest, notifier, f.logger)

	alice, err := f.auth.Register(ctx, RegisterRequest{Username: "alice", Email: "a@x.com", Password: "pw123"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, alice, strings.Repeat("t", TitleMaxLen+1), "body")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "want ValidationError, got %v", err)
	assert.Equal(t, "Field must be at most 100 characters long.", verr.Fields["title"])
	assert.Empty(t, notifier.posts)

	posts, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts)
}
