package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/miniblog/miniblog/models"
	"github.com/miniblog/miniblog/utils"
)

const postsCachePrefix = "cache:posts"

// PostController manages CRUD operations for posts.
type PostController struct {
	db *gorm.DB
}

// NewPostController creates a new PostController instance.
func NewPostController(db *gorm.DB) *PostController {
	return &PostController{db: db}
}

// postView is a post row joined with author identity and like aggregates.
type postView struct {
	ID          string    `json:"id"`
	AuthorID    string    `json:"author_id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	ImageURL    *string   `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	AuthorName  string    `json:"author_name"`
	AuthorEmail string    `json:"author_email"`
	LikesCount  int64     `json:"likes_count"`
	IsLiked     bool      `json:"is_liked"`
}

// Listing must stay a single round trip: author join, like count, and the
// viewer flag are all computed in one statement against the sentinel id.
const listPostsQuery = `
SELECT p.id, p.author_id, p.title, p.content, p.image_url, p.created_at,
       u.name AS author_name, u.email AS author_email,
       (SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id) AS likes_count,
       CASE WHEN ? = ? THEN FALSE
            ELSE EXISTS (SELECT 1 FROM likes l WHERE l.post_id = p.id AND l.user_id = ?)
       END AS is_liked
FROM posts p
JOIN users u ON u.id = p.author_id
ORDER BY p.created_at DESC`

// ListPosts returns all posts with author info, like counts, and whether the
// current viewer liked each one. Anonymous responses are served from cache
// when Redis is configured.
func (p *PostController) ListPosts(ctx *gin.Context) {
	viewer := viewerID(ctx)
	anonymous := viewer == anonymousViewerID

	if anonymous {
		if b, ok := utils.CacheGetBytes(postsCachePrefix + ":anon"); ok {
			ctx.Data(http.StatusOK, "application/json; charset=utf-8", b)
			return
		}
	}

	posts := []postView{}
	if err := p.db.Raw(listPostsQuery, viewer, anonymousViewerID, viewer).Scan(&posts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to list posts")
		return
	}

	if anonymous {
		utils.CacheSetJSON(postsCachePrefix+":anon", posts, time.Hour)
	}
	utils.JSON(ctx, http.StatusOK, posts)
}

// CreatePost allows authenticated users to create new posts.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req struct {
		Title    string  `json:"title" binding:"required"`
		Content  string  `json:"content" binding:"required"`
		ImageURL *string `json:"image_url"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "title and content are required")
		return
	}

	title := utils.SanitizeTitle(strings.TrimSpace(req.Title))
	if title == "" {
		utils.Error(ctx, http.StatusBadRequest, "title cannot be empty")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	post := models.Post{
		AuthorID: userID,
		Title:    title,
		Content:  utils.Sanitize(req.Content),
		ImageURL: req.ImageURL,
	}

	if err := p.db.Create(&post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to create post")
		return
	}

	utils.InvalidateByPrefix(postsCachePrefix)

	utils.JSON(ctx, http.StatusCreated, post)
}

// UpdatePost lets the author patch a post. Updatable columns are explicitly
// allow-listed: identifiers and author_id are never settable through this path.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	var req struct {
		Title    *string `json:"title"`
		Content  *string `json:"content"`
		ImageURL *string `json:"image_url"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	if req.Title == nil && req.Content == nil && req.ImageURL == nil {
		utils.Error(ctx, http.StatusBadRequest, "no updatable fields provided")
		return
	}

	postID := ctx.Param("id")
	var post models.Post
	if err := p.db.First(&post, "id = ?", postID).Error; err != nil {
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
	if post.AuthorID != userID {
		utils.Error(ctx, http.StatusForbidden, "you may only edit your own posts")
		return
	}

	if req.Title != nil {
		title := utils.SanitizeTitle(strings.TrimSpace(*req.Title))
		if title == "" {
			utils.Error(ctx, http.StatusBadRequest, "title cannot be empty")
			return
		}
		post.Title = title
	}
	if req.Content != nil {
		post.Content = utils.Sanitize(*req.Content)
	}
	if req.ImageURL != nil {
		post.ImageURL = req.ImageURL
	}

	if err := p.db.Save(&post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to update post")
		return
	}

	utils.InvalidateByPrefix(postsCachePrefix)

	utils.JSON(ctx, http.StatusOK, post)
}

// DeletePost allows the author to delete their post. Comments and likes go
// with it via the cascade constraints.
func (p *PostController) DeletePost(ctx *gin.Context) {
	postID := ctx.Param("id")
	var post models.Post
	if err := p.db.First(&post, "id = ?", postID).Error; err != nil {
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
	if post.AuthorID != userID {
		utils.Error(ctx, http.StatusForbidden, "you may only delete your own posts")
		return
	}

	if err := p.db.Delete(&post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to delete post")
		return
	}

	utils.InvalidateByPrefix(postsCachePrefix)
	utils.InvalidateByPrefix(commentsCacheKey(postID))

	utils.NoContent(ctx)
}
