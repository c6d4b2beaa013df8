package database

import (
	"context"

	"github.com/thereayou/blog-lite/internal/models"
)

func (d *Database) SavePost(ctx context.Context, post *models.Post) error {
	return translate(d.with(ctx).Omit("Author").Create(post).Error)
}

// ListPosts returns every post with its author loaded.
func (d *Database) ListPosts(ctx context.Context, order models.PostOrder) ([]models.Post, error) {
	var posts []models.Post

	dir := "DESC"
	if order == models.PostOrderOldest {
		dir = "ASC"
	}

	err := d.with(ctx).
		Order("created_at " + dir).
		Preload("Author").
		Find(&posts).Error
	if err != nil {
		return nil, translate(err)
	}

	return posts, nil
}
