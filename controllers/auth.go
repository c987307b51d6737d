package controllers

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/edemey4711/MID/database"
	"github.com/edemey4711/MID/models"
)

const sessionTTL = 24 * time.Hour

type session struct {
	userID  uint
	role    string
	expires time.Time
}

var (
	sessionMu sync.Mutex
	sessions  = map[string]session{}
)

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := database.DB.Where("username = ?", input.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token := uuid.NewString()
	sessionMu.Lock()
	sessions[token] = session{userID: user.ID, role: user.Role, expires: time.Now().Add(sessionTTL)}
	sessionMu.Unlock()

	c.JSON(http.StatusOK, gin.H{"token": token, "role": user.Role})
}

func Logout(c *gin.Context) {
	if token := bearerToken(c); token != "" {
		sessionMu.Lock()
		delete(sessions, token)
		sessionMu.Unlock()
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return c.GetHeader("X-Auth-Token")
}

// RequireRole gates a route group to authenticated users holding one of the
// given roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		sessionMu.Lock()
		s, ok := sessions[token]
		if ok && time.Now().After(s.expires) {
			delete(sessions, token)
			ok = false
		}
		sessionMu.Unlock()

		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			return
		}
		for _, role := range roles {
			if s.role == role {
				c.Set("userID", s.userID)
				c.Set("role", s.role)
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	}
}

type CreateUserInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// CreateUser lets an admin add uploader or admin accounts.
func CreateUser(c *gin.Context) {
	var input CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Role != models.RoleAdmin && input.Role != models.RoleUploader {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	var existing models.User
	if err := database.DB.Where("username = ?", input.Username).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{Username: input.Username, Password: string(hashed), Role: input.Role}
	if err := database.DB.Create(&user).Error; err != nil {
		// the unique index still backstops racing requests
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User created successfully", "username": user.Username, "role": user.Role})
}

// EnsureAdmin makes sure exactly one admin principal exists at startup.
// It is idempotent: an existing admin account is left untouched.
func EnsureAdmin(username, password string) error {
	var admin models.User
	err := database.DB.Where("role = ?", models.RoleAdmin).First(&admin).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin = models.User{Username: username, Password: string(hashed), Role: models.RoleAdmin}
	if err := database.DB.Create(&admin).Error; err != nil {
		return err
	}
	log.WithField("username", username).Warn("created initial admin account, change the password after first login")
	return nil
}
