package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Post struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title     string    `gorm:"size:100;not null"`
	Content   string    `gorm:"type:text;not null"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedAt time.Time `gorm:"index"`

	Author User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (p *Post) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PostOrder selects how the home feed is sorted.
type PostOrder string

const (
	PostOrderNewest PostOrder = "newest"
	PostOrderOldest PostOrder = "oldest"
)

// ParsePostOrder validates a configured ordering value.
func ParsePostOrder(s string) (PostOrder, bool) {
	switch PostOrder(s) {
	case PostOrderNewest, PostOrderOldest:
		return PostOrder(s), true
	}
	return "", false
}
