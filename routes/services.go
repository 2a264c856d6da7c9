package routes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"quickstaff-server/database"
	"quickstaff-server/models"
)

// RegisterServiceRoutes registers the public service catalog endpoints.
func RegisterServiceRoutes(router *gin.RouterGroup) {
	services := router.Group("/services")
	{
		services.GET("", listServices)
		services.GET("/:id", getService)
	}
}

// listServices returns the active catalog, optionally filtered by category.
func listServices(c *gin.Context) {
	query := database.DB.Where("is_active = ?", true)
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var services []models.Service
	if err := query.Order("category, name").Find(&services).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to fetch services"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"services":    services,
		"total_count": len(services),
	})
}

func getService(c *gin.Context) {
	serviceID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "Invalid service ID"})
		return
	}

	var service models.Service
	if err := database.DB.Where("id = ? AND is_active = ?", serviceID, true).
		First(&service).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "Service not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"service": service})
}
