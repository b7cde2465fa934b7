package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/miniblog/miniblog/config"
	"github.com/miniblog/miniblog/controllers"
	"github.com/miniblog/miniblog/middleware"
	"github.com/miniblog/miniblog/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Recovery())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
		// Wildcard origins and credentials are mutually exclusive in CORS.
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.JSON(ctx, http.StatusOK, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db)
	postController := controllers.NewPostController(db)
	commentController := controllers.NewCommentController(db)
	likeController := controllers.NewLikeController(db)

	// Required-auth chain; with an external identity provider the local
	// shadow row is projected right after token verification.
	authed := []gin.HandlerFunc{middleware.AuthRequired()}
	if cfg.ExternalAuth {
		authed = append(authed, middleware.EnsureLocalUser(db))
	}

	authGroup := r.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/signup", authController.Signup)
	authGroup.POST("/login", authController.Login)
	authGroup.GET("/me", append(authed, authController.Me)...)

	r.GET("/posts", middleware.AuthOptional(), postController.ListPosts)
	r.GET("/posts/:id/comments", middleware.AuthOptional(), commentController.ListComments)

	protected := r.Group("", authed...)
	protected.POST("/posts", postController.CreatePost)
	protected.PUT("/posts/:id", postController.UpdatePost)
	protected.PATCH("/posts/:id", postController.UpdatePost)
	protected.DELETE("/posts/:id", postController.DeletePost)

	protected.POST("/posts/:id/comments", commentController.CreateComment)
	protected.DELETE("/comments/:id", commentController.DeleteComment)

	protected.POST("/posts/:id/like", likeController.LikePost)
	protected.DELETE("/posts/:id/like", likeController.UnlikePost)
	protected.POST("/posts/:id/unlike", likeController.UnlikePost)

	protected.POST("/comments/:id/like", likeController.LikeComment)
	protected.DELETE("/comments/:id/like", likeController.UnlikeComment)
	protected.POST("/comments/:id/unlike", likeController.UnlikeComment)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, "route not found")
	})

	return r
}
