// Package database stores users and posts, in postgres through gorm or in
// process memory.
package database

import (
	"context"

	"gorm.io/gorm"
)

// Database is the gorm-backed store. The zero value is opened with Connect.
type Database struct {
	db *gorm.DB
}

// NewDatabase wraps an already opened gorm handle.
func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

func (d *Database) with(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx)
}
