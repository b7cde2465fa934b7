package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/miniblog/miniblog/models"
	"github.com/miniblog/miniblog/utils"
)

func commentsCacheKey(postID string) string {
	return "cache:comments:post:" + postID
}

// CommentController manages comments under posts.
type CommentController struct {
	db *gorm.DB
}

// NewCommentController creates a new CommentController instance.
func NewCommentController(db *gorm.DB) *CommentController {
	return &CommentController{db: db}
}

// commentView is a comment row joined with author identity and like aggregates.
type commentView struct {
	ID          string    `json:"id"`
	PostID      string    `json:"post_id"`
	AuthorID    string    `json:"author_id"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
	AuthorName  string    `json:"author_name"`
	AuthorEmail string    `json:"author_email"`
	LikesCount  int64     `json:"likes_count"`
	IsLiked     bool      `json:"is_liked"`
}

const listCommentsQuery = `
SELECT c.id, c.post_id, c.author_id, c.content, c.created_at,
       u.name AS author_name, u.email AS author_email,
       (SELECT COUNT(*) FROM comment_likes cl WHERE cl.comment_id = c.id) AS likes_count,
       CASE WHEN ? = ? THEN FALSE
            ELSE EXISTS (SELECT 1 FROM comment_likes cl WHERE cl.comment_id = c.id AND cl.user_id = ?)
       END AS is_liked
FROM comments c
JOIN users u ON u.id = c.author_id
WHERE c.post_id = ?
ORDER BY c.created_at ASC`

// CreateComment allows authenticated users to comment on posts.
func (c *CommentController) CreateComment(ctx *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "content is required")
		return
	}

	content := utils.Sanitize(req.Content)
	if content == "" {
		utils.Error(ctx, http.StatusBadRequest, "content cannot be empty")
		return
	}

	postID := ctx.Param("id")
	var post models.Post
	if err := c.db.First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to load post")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	comment := models.Comment{
		PostID:   post.ID,
		AuthorID: userID,
		Content:  content,
	}

	if err := c.db.Create(&comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to create comment")
		return
	}

	utils.InvalidateByPrefix(commentsCacheKey(post.ID))

	utils.JSON(ctx, http.StatusCreated, comment)
}

// ListComments returns a post's comments with author info, like counts, and
// whether the current viewer liked each one, oldest first.
func (c *CommentController) ListComments(ctx *gin.Context) {
	postID := ctx.Param("id")
	viewer := viewerID(ctx)
	anonymous := viewer == anonymousViewerID

	if anonymous {
		if b, ok := utils.CacheGetBytes(commentsCacheKey(postID) + ":anon"); ok {
			ctx.Data(http.StatusOK, "application/json; charset=utf-8", b)
			return
		}
	}

	comments := []commentView{}
	if err := c.db.Raw(listCommentsQuery, viewer, anonymousViewerID, viewer, postID).Scan(&comments).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to list comments")
		return
	}

	if anonymous {
		utils.CacheSetJSON(commentsCacheKey(postID)+":anon", comments, time.Hour)
	}
	utils.JSON(ctx, http.StatusOK, comments)
}

// DeleteComment removes a comment when the requester is the comment's author
// or the author of the parent post. Both owners come from one joined read.
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	commentID := ctx.Param("id")

	var owners struct {
		CommentAuthor string
		PostAuthor    string
		PostID        string
	}
	res := c.db.Raw(`
SELECT c.author_id AS comment_author, p.author_id AS post_author, c.post_id AS post_id
FROM comments c
JOIN posts p ON p.id = c.post_id
WHERE c.id = ?`, commentID).Scan(&owners)
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load comment")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, "comment not found")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}
	if owners.CommentAuthor != userID && owners.PostAuthor != userID {
		utils.Error(ctx, http.StatusForbidden, "you may only delete your own comments or comments on your own posts")
		return
	}

	if err := c.db.Delete(&models.Comment{}, "id = ?", commentID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to delete comment")
		return
	}

	utils.InvalidateByPrefix(commentsCacheKey(owners.PostID))

	utils.NoContent(ctx)
}
