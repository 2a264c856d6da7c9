package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"quickstaff-server/config"
	"quickstaff-server/database"
	"quickstaff-server/models"
	"quickstaff-server/utils"
)

// RegisterAuthRoutes registers registration and login endpoints
func RegisterAuthRoutes(router *gin.RouterGroup) {
	router.POST("/register", register)
	router.POST("/login", login)
}

// RegisterAuthProtectedRoutes registers endpoints that need a principal
func RegisterAuthProtectedRoutes(router *gin.RouterGroup) {
	router.GET("/me", me)
	router.POST("/logout", logout)
}

func register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": err.Error()})
		return
	}

	if req.PhoneNumber != "" && !utils.ValidatePhone(req.PhoneNumber) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "Invalid phone number format"})
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to process password"})
		return
	}

	role := models.RoleClient
	if req.Role == string(models.RoleWorker) {
		role = models.RoleWorker
	}

	user := models.User{
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		PhoneNumber:  req.PhoneNumber,
		Address:      req.Address,
		IsActive:     true,
	}

	if err := database.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "conflict", "message": "Email is already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to create account"})
		return
	}

	token, err := utils.GenerateToken(user.ID, string(user.Role), user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to issue token"})
		return
	}

	setAuthCookie(c, token)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created successfully",
		"token":   token,
		"user":    user,
	})
}

func login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": err.Error()})
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "Invalid email or password"})
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "Invalid email or password"})
		return
	}

	if !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "Account is deactivated"})
		return
	}

	token, err := utils.GenerateToken(user.ID, string(user.Role), user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to issue token"})
		return
	}

	setAuthCookie(c, token)
	c.JSON(http.StatusOK, gin.H{
		"message": "Logged in successfully",
		"token":   token,
		"user":    user,
	})
}

func me(c *gin.Context) {
	userID := c.GetUint("user_id")

	var user models.User
	if err := database.DB.Preload("WorkerProfile").First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

func logout(c *gin.Context) {
	c.SetCookie(config.AppConfig.JWT.CookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func setAuthCookie(c *gin.Context, token string) {
	maxAge := config.AppConfig.JWT.ExpiryHours * 3600
	c.SetCookie(config.AppConfig.JWT.CookieName, token, maxAge, "/", "", false, true)
}
