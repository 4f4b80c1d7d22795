package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"picfeed/auth"
	"picfeed/middleware"
	"picfeed/models"
	"picfeed/store"
)

const invalidCredentialsMessage = "invalid username or password"

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthHandler struct {
	users  store.UserStore
	tokens *auth.TokenService
}

func NewAuthHandler(users store.UserStore, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "username and password are required, password must be at least 6 characters"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("register hash failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create user"})
		return
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: string(hashed),
		CreatedAt:    time.Now().Unix(),
	}

	if err := h.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateUsername) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "user already exists"})
			return
		}
		log.Printf("register insert failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create user"})
		return
	}

	if err := h.startSession(c, user); err != nil {
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "registered successfully",
		"user":    user.Public(),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "username and password are required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	user, err := h.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"message": invalidCredentialsMessage})
			return
		}
		log.Printf("login lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to log in"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": invalidCredentialsMessage})
		return
	}

	if err := h.startSession(c, user); err != nil {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "login successful",
		"user":    user.Public(),
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "logout successful"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "user fetched successfully",
		"user":    user.Public(),
	})
}

// startSession issues a token for the user and writes the session cookie.
// On failure it responds with a 500 and returns the error.
func (h *AuthHandler) startSession(c *gin.Context, user *models.User) error {
	token, err := h.tokens.Issue(user.ID.Hex())
	if err != nil {
		log.Printf("token issue failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create session"})
		return err
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, token, int(h.tokens.TTL().Seconds()), "/", "", false, true)
	return nil
}
