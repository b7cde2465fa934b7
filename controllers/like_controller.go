package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/miniblog/miniblog/models"
	"github.com/miniblog/miniblog/utils"
)

// LikeController manages likes on posts and comments.
type LikeController struct {
	db *gorm.DB
}

// NewLikeController creates a new LikeController instance.
func NewLikeController(db *gorm.DB) *LikeController {
	return &LikeController{db: db}
}

// LikePost records a like for the authenticated user. A repeated like for
// the same post hits the unique index and is reported as a conflict.
func (l *LikeController) LikePost(ctx *gin.Context) {
	postID := ctx.Param("id")
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	var post models.Post
	if err := l.db.First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to load post")
		return
	}

	like := models.Like{PostID: post.ID, UserID: userID}
	if err := l.db.Create(&like).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Error(ctx, http.StatusBadRequest, "post already liked")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to like post")
		return
	}

	utils.InvalidateByPrefix(postsCachePrefix)

	utils.JSON(ctx, http.StatusCreated, like)
}

// UnlikePost removes the user's like. Unliking a post that was never liked
// is a no-op success.
func (l *LikeController) UnlikePost(ctx *gin.Context) {
	postID := ctx.Param("id")
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := l.db.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Like{}).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to unlike post")
		return
	}

	utils.InvalidateByPrefix(postsCachePrefix)

	utils.NoContent(ctx)
}

// LikeComment records a like on a comment, with the same conflict semantics
// as post likes.
func (l *LikeController) LikeComment(ctx *gin.Context) {
	commentID := ctx.Param("id")
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	var comment models.Comment
	if err := l.db.First(&comment, "id = ?", commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, "comment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to load comment")
		return
	}

	like := models.CommentLike{CommentID: comment.ID, UserID: userID}
	if err := l.db.Create(&like).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Error(ctx, http.StatusBadRequest, "comment already liked")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to like comment")
		return
	}

	utils.InvalidateByPrefix(commentsCacheKey(comment.PostID))

	utils.JSON(ctx, http.StatusCreated, like)
}

// UnlikeComment removes the user's comment like; missing likes are a no-op.
func (l *LikeController) UnlikeComment(ctx *gin.Context) {
	commentID := ctx.Param("id")
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	// Look up the parent post only to invalidate its comment cache; the
	// delete itself keys on (comment, user) and tolerates a missing comment.
	var comment models.Comment
	found := l.db.First(&comment, "id = ?", commentID).Error == nil

	if err := l.db.Where("comment_id = ? AND user_id = ?", commentID, userID).Delete(&models.CommentLike{}).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to unlike comment")
		return
	}

	if found {
		utils.InvalidateByPrefix(commentsCacheKey(comment.PostID))
	}

	utils.NoContent(ctx)
}
