package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommentLike marks a comment as liked by a user, one row per (comment, user).
type CommentLike struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CommentID string    `gorm:"type:varchar(36);not null;uniqueIndex:uq_comment_likes_comment_user" json:"comment_id"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex:uq_comment_likes_comment_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (cl *CommentLike) BeforeCreate(tx *gorm.DB) error {
	if cl.ID == "" {
		cl.ID = uuid.NewString()
	}
	return nil
}
