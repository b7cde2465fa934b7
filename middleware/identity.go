package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/miniblog/miniblog/models"
	"github.com/miniblog/miniblog/utils"
)

// EnsureLocalUser projects a local users row for an externally issued token
// subject. When identity lives in an external auth provider, posts and
// comments still need a users row to reference; this middleware upserts that
// shadow row on the first authenticated request. Must run after AuthRequired.
func EnsureLocalUser(db *gorm.DB) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID := ctx.GetString(ContextUserIDKey)
		email := ctx.GetString(ContextEmailKey)
		if userID == "" {
			utils.Error(ctx, http.StatusUnauthorized, "missing authenticated identity")
			ctx.Abort()
			return
		}

		user := models.User{ID: userID, Name: displayNameFromEmail(email), Email: email}
		if err := db.Where("id = ?", userID).FirstOrCreate(&user).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, "failed to sync user identity")
			ctx.Abort()
			return
		}

		ctx.Next()
	}
}

// displayNameFromEmail derives a placeholder display name from the email
// local part. The shadow row exists for referential integrity, not profile data.
func displayNameFromEmail(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	if email != "" {
		return email
	}
	return "user"
}
