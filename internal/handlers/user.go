package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/voltdesk/voltdesk-backend/internal/auth"
	"github.com/voltdesk/voltdesk-backend/internal/db"
	"github.com/voltdesk/voltdesk-backend/internal/models"
)

type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	SetRole(ctx context.Context, username, role string) error
}

type TokenStore interface {
	Save(ctx context.Context, token, username string, ttl time.Duration) error
	Lookup(ctx context.Context, token string) (string, error)
}

// AuthHandler serves register, login and token refresh for the admin UI.
type AuthHandler struct {
	Users  UserStore
	Tokens TokenStore
	Logger *zap.Logger
}

func NewAuthHandler(users UserStore, tokens TokenStore, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{Users: users, Tokens: tokens, Logger: logger}
}

// Register creates a viewer account. Higher roles are granted by an admin
// through SetRole.
func (h *AuthHandler) Register(c *gin.Context) {
	var request struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	request.Username = strings.TrimSpace(request.Username)
	if request.Username == "" || request.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	ctx := c.Request.Context()
	existingUser, err := h.Users.FindByUsername(ctx, request.Username)
	if err != nil {
		h.Logger.Error("find user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	if existingUser != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
		return
	}

	user := models.User{
		Username: request.Username,
		Email:    request.Email,
		Role:     models.RoleViewer,
	}

	if err := user.HashPassword(request.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	if err := h.Users.Create(ctx, &user); err != nil {
		if errors.Is(err, models.ErrUsernameTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
			return
		}
		h.Logger.Error("create user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "role": user.Role})
}

// SetRole changes another user's role. The route is admin-only.
func (h *AuthHandler) SetRole(c *gin.Context) {
	var request struct {
		Role string `json:"role"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if !models.ValidRole(request.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role"})
		return
	}

	username := c.Param("username")
	if err := h.Users.SetRole(c.Request.Context(), username, request.Role); err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.Logger.Error("set role", zap.String("target", username), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	h.Logger.Info("role changed",
		zap.String("by", c.GetString(auth.UsernameKey)),
		zap.String("target", username),
		zap.String("role", request.Role))
	c.JSON(http.StatusOK, gin.H{"username": username, "role": request.Role})
}

// SeedAdmin makes sure username exists with the admin role. An existing
// account keeps its password.
func (h *AuthHandler) SeedAdmin(ctx context.Context, username, password string) error {
	existing, err := h.Users.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		if existing.Role == models.RoleAdmin {
			return nil
		}
		return h.Users.SetRole(ctx, username, models.RoleAdmin)
	}

	user := models.User{Username: username, Role: models.RoleAdmin}
	if err := user.HashPassword(password); err != nil {
		return err
	}
	if err := h.Users.Create(ctx, &user); err != nil && !errors.Is(err, models.ErrUsernameTaken) {
		return err
	}
	return nil
}

func (h *AuthHandler) Login(c *gin.Context) {
	var credentials struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&credentials); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.Users.FindByUsername(ctx, credentials.Username)
	if err != nil {
		h.Logger.Error("find user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	if user == nil || user.CheckPassword(credentials.Password) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	jwtToken, err := auth.GenerateJWT(user.Username, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	refreshToken, err := auth.GenerateRefreshToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate refresh token"})
		return
	}

	if err := h.Tokens.Save(ctx, refreshToken, user.Username, auth.RefreshTokenTTL); err != nil {
		h.Logger.Error("store refresh token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store refresh token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":         jwtToken,
		"refresh_token": refreshToken,
		"username":      user.Username,
		"role":          user.Role,
	})
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var request struct {
		RefreshToken string `json:"refresh_token"`
	}

	if err := c.ShouldBindJSON(&request); err != nil || request.RefreshToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	ctx := c.Request.Context()
	username, err := h.Tokens.Lookup(ctx, request.RefreshToken)
	if err != nil {
		if !errors.Is(err, db.ErrTokenNotFound) {
			h.Logger.Error("lookup refresh token", zap.Error(err))
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	user, err := h.Users.FindByUsername(ctx, username)
	if err != nil {
		h.Logger.Error("find user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	newToken, err := auth.GenerateJWT(user.Username, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": newToken})
}

func Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"username": c.GetString(auth.UsernameKey),
		"role":     c.GetString(auth.RoleKey),
	})
}

func GetPermissions(c *gin.Context) {
	role := c.GetString(auth.RoleKey)
	c.JSON(http.StatusOK, gin.H{
		"role":        role,
		"granted":     models.Permissions[role],
		"permissions": models.Permissions,
	})
}
