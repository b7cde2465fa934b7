package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like marks a post as liked by a user. At most one row per (post, user);
// a second insert for the same pair fails on the unique index.
type Like struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	PostID    string    `gorm:"type:varchar(36);not null;uniqueIndex:uq_likes_post_user" json:"post_id"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex:uq_likes_post_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
