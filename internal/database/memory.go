package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/thereayou/blog-lite/internal/models"
)

// Memory is a process-local store with the same contract as Database.
// It backs DATABASE_URL=memory:// and the handler tests.
type Memory struct {
	mu    sync.RWMutex
	users map[uuid.UUID]models.User
	posts []models.Post
	now   func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		users: make(map[uuid.UUID]models.User),
		now:   time.Now,
	}
}

func (m *Memory) SaveUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.taken(user.ID, user.Username, user.Email) {
		return ErrDuplicate
	}

	_ = user.BeforeCreate(nil)
	if user.CreatedAt.IsZero() {
		user.CreatedAt = m.now()
	}
	stored := *user
	stored.Posts = nil
	m.users[user.ID] = stored
	return nil
}

func (m *Memory) UpdateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.users[user.ID]
	if !ok {
		return ErrNotFound
	}
	if m.taken(user.ID, user.Username, user.Email) {
		return ErrDuplicate
	}

	stored.Username = user.Username
	stored.Email = user.Email
	stored.ImageFile = user.ImageFile
	m.users[user.ID] = stored
	return nil
}

func (m *Memory) GetUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (m *Memory) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	return m.find(func(u models.User) bool { return u.Email == email })
}

func (m *Memory) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	return m.find(func(u models.User) bool { return u.Username == username })
}

func (m *Memory) SavePost(_ context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[post.UserID]; !ok {
		return ErrNotFound
	}

	_ = post.BeforeCreate(nil)
	if post.CreatedAt.IsZero() {
		post.CreatedAt = m.now()
	}
	stored := *post
	stored.Author = models.User{}
	m.posts = append(m.posts, stored)
	return nil
}

func (m *Memory) ListPosts(_ context.Context, order models.PostOrder) ([]models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	posts := make([]models.Post, len(m.posts))
	copy(posts, m.posts)
	for i := range posts {
		posts[i].Author = m.users[posts[i].UserID]
	}

	if order == models.PostOrderOldest {
		sort.SliceStable(posts, func(i, j int) bool {
			return posts[i].CreatedAt.Before(posts[j].CreatedAt)
		})
		return posts, nil
	}

	// newest first; later inserts win ties on equal timestamps
	for i, j := 0, len(posts)-1; i < j; i, j = i+1, j-1 {
		posts[i], posts[j] = posts[j], posts[i]
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})

	return posts, nil
}

func (m *Memory) Close() error { return nil }

func (m *Memory) find(match func(models.User) bool) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if match(u) {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

// taken reports whether another user already holds username or email.
func (m *Memory) taken(id uuid.UUID, username, email string) bool {
	for _, u := range m.users {
		if u.ID == id {
			continue
		}
		if u.Username == username || u.Email == email {
			return true
		}
	}
	return false
}
