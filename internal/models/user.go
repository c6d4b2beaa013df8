package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultImageFile is the picture every account starts with. It is shared by
// all users and must never be removed from storage.
const DefaultImageFile = "default.png"

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"size:20;uniqueIndex;not null"`
	Email        string    `gorm:"size:120;uniqueIndex;not null"`
	PasswordHash string    `gorm:"size:60;not null"`
	ImageFile    string    `gorm:"size:64;not null"`
	CreatedAt    time.Time

	Posts []Post `gorm:"foreignKey:UserID"`
}

// BeforeCreate fills the generated id and the default picture.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.ImageFile == "" {
		u.ImageFile = DefaultImageFile
	}
	return nil
}

// IsAuthenticated reports whether u is a stored account rather than the
// anonymous placeholder (nil or zero id).
func (u *User) IsAuthenticated() bool {
	return u != nil && u.ID != uuid.Nil
}

// HasCustomImage reports whether the user replaced the default picture.
func (u *User) HasCustomImage() bool {
	return u.ImageFile != "" && u.ImageFile != DefaultImageFile
}
