package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"quickstaff-server/database"
	"quickstaff-server/middleware"
	"quickstaff-server/models"
)

// RegisterAdminRoutes registers the admin-only management endpoints.
func RegisterAdminRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	admin.Use(middleware.RequireRoles(models.RoleAdmin))
	{
		admin.GET("/users", adminListUsers)
		admin.PATCH("/users/:id/status", adminSetUserStatus)
		admin.POST("/services", adminCreateService)
		admin.PUT("/services/:id", adminUpdateService)
		admin.DELETE("/services/:id", adminDeleteService)
	}
}

func adminListUsers(c *gin.Context) {
	query := database.DB.Model(&models.User{})
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var users []models.User
	if err := query.Order("created_at DESC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":       users,
		"total_count": len(users),
	})
}

// adminSetUserStatus activates or deactivates an account. Deactivation is
// reversible; accounts are never deleted.
func adminSetUserStatus(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "Invalid user ID"})
		return
	}

	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": err.Error()})
		return
	}

	res := database.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Update("is_active", *req.IsActive)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to update user"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User status updated successfully"})
}

func adminCreateService(c *gin.Context) {
	var req models.ServiceCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": err.Error()})
		return
	}

	service := models.Service{
		Name:            req.Name,
		Category:        req.Category,
		Description:     req.Description,
		BasePrice:       req.BasePrice,
		DurationMinutes: req.DurationMinutes,
		IsActive:        true,
	}

	if err := database.DB.Create(&service).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to create service"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Service created successfully",
		"service": service,
	})
}

func adminUpdateService(c *gin.Context) {
	serviceID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "Invalid service ID"})
		return
	}

	var service models.Service
	if err := database.DB.First(&service, serviceID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "Service not found"})
		return
	}

	var req models.ServiceCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": err.Error()})
		return
	}

	service.Name = req.Name
	service.Category = req.Category
	service.Description = req.Description
	service.BasePrice = req.BasePrice
	service.DurationMinutes = req.DurationMinutes

	if err := database.DB.Save(&service).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to update service"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Service updated successfully",
		"service": service,
	})
}

// adminDeleteService soft-deletes a catalog entry. Existing bookings keep
// their service reference.
func adminDeleteService(c *gin.Context) {
	serviceID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "Invalid service ID"})
		return
	}

	res := database.DB.Delete(&models.Service{}, serviceID)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to delete service"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "Service not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully"})
}
