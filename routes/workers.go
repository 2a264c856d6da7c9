package routes

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"quickstaff-server/database"
	"quickstaff-server/middleware"
	"quickstaff-server/models"
)

// RegisterWorkerRoutes registers the protected worker-profile endpoints.
func RegisterWorkerRoutes(router *gin.RouterGroup) {
	workers := router.Group("/workers")
	{
		workers.PUT("/profile", middleware.RequireRoles(models.RoleWorker), upsertWorkerProfile)
		workers.POST("/services", middleware.RequireRoles(models.RoleWorker), attachWorkerService)
	}
}

// RegisterPublicWorkerRoutes registers the unauthenticated worker listings.
func RegisterPublicWorkerRoutes(router *gin.RouterGroup) {
	workers := router.Group("/workers")
	{
		workers.GET("", listWorkers)
		workers.GET("/:id", getWorkerProfile)
	}
}

// upsertWorkerProfile creates or updates the actor's own profile. Reputation
// columns are never writable through this endpoint.
func upsertWorkerProfile(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req models.WorkerProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": err.Error()})
		return
	}

	var profile models.WorkerProfile
	err := database.DB.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to load profile"})
			return
		}
		profile = models.WorkerProfile{UserID: userID}
	}

	profile.Bio = req.Bio
	profile.Skills = req.Skills
	profile.HourlyRate = req.HourlyRate
	profile.Availability = req.Availability

	if err := database.DB.Save(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to save profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile saved successfully",
		"profile": profile,
	})
}

// attachWorkerService attaches a catalog service to the actor with their own
// price, or updates the existing attachment.
func attachWorkerService(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req models.WorkerServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": err.Error()})
		return
	}

	var service models.Service
	if err := database.DB.Where("id = ? AND is_active = ?", req.ServiceID, true).
		First(&service).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "Service not found"})
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	var ws models.WorkerService
	err := database.DB.Where("worker_id = ? AND service_id = ?", userID, req.ServiceID).
		First(&ws).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to load worker service"})
			return
		}
		ws = models.WorkerService{WorkerID: userID, ServiceID: req.ServiceID}
	}

	ws.Price = req.Price
	ws.IsActive = active

	if err := database.DB.Save(&ws).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to save worker service"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Service attached successfully",
		"worker_service": ws,
	})
}

// listWorkers returns active workers with their profiles, best rated first.
func listWorkers(c *gin.Context) {
	query := database.DB.Model(&models.User{}).
		Where("role = ? AND is_active = ?", models.RoleWorker, true)

	var workers []models.User
	if err := query.Preload("WorkerProfile").Find(&workers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to fetch workers"})
		return
	}

	// Order by aggregate rating in memory; the profile may be absent.
	sort.SliceStable(workers, func(i, j int) bool {
		return workerRating(&workers[i]) > workerRating(&workers[j])
	})

	c.JSON(http.StatusOK, gin.H{
		"workers":     workers,
		"total_count": len(workers),
	})
}

func workerRating(u *models.User) float64 {
	if u.WorkerProfile == nil {
		return 0
	}
	return u.WorkerProfile.Rating
}

// getWorkerProfile returns one worker's public profile with aggregates and
// their attached services.
func getWorkerProfile(c *gin.Context) {
	workerID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "Invalid worker ID"})
		return
	}

	var worker models.User
	if err := database.DB.Where("id = ? AND role = ? AND is_active = ?",
		workerID, models.RoleWorker, true).
		Preload("WorkerProfile").First(&worker).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "Worker not found"})
		return
	}

	var services []models.WorkerService
	if err := database.DB.Where("worker_id = ? AND is_active = ?", workerID, true).
		Preload("Service").Find(&services).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to fetch worker services"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"worker":   worker,
		"services": services,
	})
}
