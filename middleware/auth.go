package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/miniblog/miniblog/utils"
)

const (
	// ContextUserIDKey is the key used to store the authenticated user ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextEmailKey stores the authenticated email inside Gin context.
	ContextEmailKey = "email"
)

// AuthRequired ensures the request carries a valid bearer token and attaches
// the authenticated identity to the context.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, ok := bearerToken(ctx)
		if !ok {
			utils.Error(ctx, http.StatusUnauthorized, "missing or malformed Authorization header")
			ctx.Abort()
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			if errors.Is(err, utils.ErrSecretMissing) {
				utils.Error(ctx, http.StatusInternalServerError, "token signing secret not configured")
			} else {
				utils.Error(ctx, http.StatusUnauthorized, "invalid or expired token")
			}
			ctx.Abort()
			return
		}

		ctx.Set(ContextUserIDKey, claims.Subject)
		ctx.Set(ContextEmailKey, claims.Email)
		ctx.Next()
	}
}

// AuthOptional attaches an identity when a valid bearer token is present and
// silently continues without one otherwise. Used by endpoints that
// personalize output without requiring login.
func AuthOptional() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if token, ok := bearerToken(ctx); ok {
			if claims, err := utils.ParseToken(token); err == nil {
				ctx.Set(ContextUserIDKey, claims.Subject)
				ctx.Set(ContextEmailKey, claims.Email)
			}
		}
		ctx.Next()
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(ctx *gin.Context) (string, bool) {
	authHeader := ctx.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
