package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/miniblog/miniblog/models"
	"github.com/miniblog/miniblog/utils"
)

// AuthController handles signup, login, and the current-identity endpoint.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates an AuthController.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

// Signup registers a new account with a bcrypt password digest and returns
// the created user together with a bearer token.
func (a *AuthController) Signup(ctx *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "name, email, and password are required")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
	}

	if err := a.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Error(ctx, http.StatusConflict, "email already registered")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to create user")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Email)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, tokenErrorMessage(err))
		return
	}

	utils.JSON(ctx, http.StatusCreated, gin.H{"user": user, "token": token})
}

// Login verifies credentials and issues a fresh bearer token.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "email and password are required")
		return
	}

	var user models.User
	err := a.db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same message as a wrong password: do not leak which part failed.
			utils.Error(ctx, http.StatusUnauthorized, "invalid credentials")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to look up user")
		return
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Email)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, tokenErrorMessage(err))
		return
	}

	utils.JSON(ctx, http.StatusOK, gin.H{"user": user, "token": token})
}

// Me returns the account row behind the authenticated token.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	var user models.User
	if err := a.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to load user")
		return
	}

	utils.JSON(ctx, http.StatusOK, user)
}

func tokenErrorMessage(err error) string {
	if errors.Is(err, utils.ErrSecretMissing) {
		return "token signing secret not configured"
	}
	return "failed to generate token"
}
