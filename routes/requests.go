package routes

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"quickstaff-server/database"
	"quickstaff-server/metrics"
	"quickstaff-server/middleware"
	"quickstaff-server/models"
)

// RegisterJobRequestRoutes registers all job request-related routes
func RegisterJobRequestRoutes(router *gin.RouterGroup) {
	requests := router.Group("/requests")
	{
		requests.POST("", middleware.RequireRoles(models.RoleClient, models.RoleAdmin), createJobRequest)
		requests.GET("", middleware.RequireRoles(models.RoleClient, models.RoleWorker), listJobRequests)
		requests.PUT("/:id", middleware.RequireRoles(models.RoleWorker, models.RoleAdmin), decideJobRequest)
	}
}

// createJobRequest records a client's unconfirmed ask for a worker.
func createJobRequest(c *gin.Context) {
	clientID := c.GetUint("user_id")

	var req models.JobRequestCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": err.Error()})
		return
	}

	requestedDate, err := parseDate(req.RequestedDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "requested_date must be an ISO date"})
		return
	}

	var worker models.User
	if err := database.DB.Where("id = ? AND role = ? AND is_active = ?",
		req.WorkerID, models.RoleWorker, true).First(&worker).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "Worker not found"})
		return
	}

	jobRequest := models.JobRequest{
		ClientID:      clientID,
		WorkerID:      req.WorkerID,
		ServiceID:     req.ServiceID,
		RequestedDate: requestedDate,
		Budget:        req.Budget,
		Message:       req.Message,
		Status:        models.JobRequestStatusPending,
	}

	if err := database.DB.Create(&jobRequest).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to create job request"})
		return
	}

	pushJobRequestEvent(jobRequest.WorkerID, "job_request_created", jobRequest)

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Job request created successfully",
		"job_request": jobRequest,
	})
}

// listJobRequests returns the actor's own requests, newest first.
func listJobRequests(c *gin.Context) {
	userID := c.GetUint("user_id")
	role := middleware.ActorRole(c)

	query := database.DB.Model(&models.JobRequest{})
	if role == models.RoleClient {
		query = query.Where("client_id = ?", userID)
	} else {
		query = query.Where("worker_id = ?", userID)
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []models.JobRequest
	if err := query.Preload("Client").Preload("Service").
		Order("created_at DESC").Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to fetch job requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job_requests": requests,
		"total_count":  len(requests),
	})
}

// decideJobRequest accepts or rejects a pending request. Acceptance spawns
// exactly one booking; the status write and the insert commit together or
// roll back together.
func decideJobRequest(c *gin.Context) {
	userID := c.GetUint("user_id")
	role := middleware.ActorRole(c)

	requestID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "Invalid request ID"})
		return
	}

	var decision models.JobRequestDecision
	if err := c.ShouldBindJSON(&decision); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": err.Error()})
		return
	}
	newStatus := models.JobRequestStatus(decision.Status)

	var jobRequest models.JobRequest
	scope := database.DB.Where("id = ?", requestID)
	if role == models.RoleWorker {
		// Workers can only decide requests addressed to them.
		scope = scope.Where("worker_id = ?", userID)
	}
	if err := scope.First(&jobRequest).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "Job request not found"})
		return
	}

	if jobRequest.Status.IsTerminal() {
		c.JSON(http.StatusConflict, gin.H{"error": "conflict", "message": "Job request has already been decided"})
		return
	}

	var booking *models.Booking
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		booking, txErr = applyRequestDecision(tx, &jobRequest, newStatus)
		return txErr
	})
	if err != nil {
		if errors.Is(err, errConcurrentTransition) {
			c.JSON(http.StatusConflict, gin.H{"error": "conflict", "message": "Job request has already been decided"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to decide job request"})
		return
	}

	jobRequest.Status = newStatus
	metrics.Default.RecordRequestDecided(string(newStatus))
	pushJobRequestEvent(jobRequest.ClientID, "job_request_"+string(newStatus), jobRequest)

	response := gin.H{
		"message":     "Job request " + string(newStatus),
		"job_request": jobRequest,
	}
	if booking != nil {
		response["booking"] = booking
	}
	c.JSON(http.StatusOK, response)
}

// applyRequestDecision writes the decision inside the caller's transaction.
// The status write guards on pending so two concurrent decisions cannot both
// win; acceptance inserts the spawned booking in the same transaction so the
// two writes commit or roll back together.
func applyRequestDecision(tx *gorm.DB, jobRequest *models.JobRequest, newStatus models.JobRequestStatus) (*models.Booking, error) {
	res := tx.Model(&models.JobRequest{}).
		Where("id = ? AND status = ?", jobRequest.ID, models.JobRequestStatusPending).
		Update("status", newStatus)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, errConcurrentTransition
	}

	if newStatus != models.JobRequestStatusAccepted {
		return nil, nil
	}

	booking := bookingFromRequest(jobRequest)
	if err := tx.Create(booking).Error; err != nil {
		return nil, err
	}
	return booking, nil
}

// bookingFromRequest materializes the booking an accepted request spawns.
func bookingFromRequest(req *models.JobRequest) *models.Booking {
	totalPrice := 0.0
	if req.Budget != nil {
		totalPrice = *req.Budget
	}

	return &models.Booking{
		Reference:     "QS-" + uuid.NewString(),
		ClientID:      req.ClientID,
		WorkerID:      req.WorkerID,
		ServiceID:     req.ServiceID,
		BookingDate:   req.RequestedDate,
		DurationHours: 1,
		TotalPrice:    totalPrice,
		Address:       models.ConvertedAddress,
		Status:        models.BookingStatusPending,
		PaymentStatus: "pending",
	}
}

func pushJobRequestEvent(userID uint, event string, req models.JobRequest) {
	if notifyHub == nil {
		return
	}
	notifyHub.NotifyUser(userID, event, gin.H{
		"request_id": req.ID,
		"status":     req.Status,
		"date":       req.RequestedDate,
	})
}
