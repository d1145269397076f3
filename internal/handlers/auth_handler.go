package handlers

import (
	"errors"
	"net/http"

	"node-cache-api/internal/auth"
	"node-cache-api/internal/database"
	"node-cache-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LoginRequest represents the login request payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

var errBadCredentials = errors.New("invalid username or password")

// loginUser returns the account for username, registering it on first use.
// Registration inserts with ON CONFLICT DO NOTHING and then re-reads the row,
// so two concurrent first logins resolve to the same account.
func loginUser(db *gorm.DB, username, password string) (models.User, error) {
	var user models.User
	err := db.Where("username = ?", username).First(&user).Error
	if err == nil {
		if !auth.CheckPassword(user.Password, password) {
			return models.User{}, errBadCredentials
		}
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	candidate := models.User{
		ID:       uuid.NewString(),
		Username: username,
		Password: hash,
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&candidate).Error; err != nil {
		return models.User{}, err
	}
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		return models.User{}, err
	}
	// someone else registered the name first; their password decides
	if user.ID != candidate.ID && !auth.CheckPassword(user.Password, password) {
		return models.User{}, errBadCredentials
	}
	return user, nil
}

// Login handles POST /api/login.
// Unknown usernames are registered on first login; known ones must match their stored password.
func Login(c *gin.Context) {
	var req LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request. Username and password are required.",
		})
		return
	}

	user, err := loginUser(database.GetDB(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, errBadCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		}
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate token",
		})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:    token,
		UserID:   user.ID,
		Username: user.Username,
		Message:  "Login successful",
	})
}
