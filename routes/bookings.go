package routes

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"quickstaff-server/database"
	"quickstaff-server/metrics"
	"quickstaff-server/middleware"
	"quickstaff-server/models"
	ws "quickstaff-server/websocket"
)

// notifyHub delivers best-effort status pushes; nil when WebSockets are off.
var notifyHub *ws.Hub

// errConcurrentTransition is returned when the status guard finds the row
// already moved by another request.
var errConcurrentTransition = errors.New("booking status changed concurrently")

// InitNotificationHub wires the WebSocket hub into the route handlers.
func InitNotificationHub(hub *ws.Hub) {
	notifyHub = hub
}

// RegisterBookingRoutes registers all booking-related routes
func RegisterBookingRoutes(router *gin.RouterGroup) {
	bookings := router.Group("/bookings")
	{
		bookings.POST("", middleware.RequireRoles(models.RoleClient), createBooking)
		bookings.GET("", middleware.RequireRoles(models.RoleClient, models.RoleWorker), listBookings)
		bookings.GET("/stats/summary", middleware.RequireRoles(models.RoleClient, models.RoleWorker), bookingStats)
		bookings.PATCH("/:id/status", middleware.RequireRoles(models.RoleClient, models.RoleWorker), updateBookingStatus)
		bookings.PATCH("/:id/reschedule", middleware.RequireRoles(models.RoleClient), rescheduleBooking)
	}
}

// createBooking inserts a new pending booking for the authenticated client.
func createBooking(c *gin.Context) {
	clientID := c.GetUint("user_id")

	var req models.BookingCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": err.Error()})
		return
	}

	bookingDate, err := parseDate(req.BookingDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "booking_date must be an ISO date"})
		return
	}

	// The worker must exist, hold the worker role and be active.
	var worker models.User
	if err := database.DB.Where("id = ? AND role = ? AND is_active = ?",
		req.WorkerID, models.RoleWorker, true).First(&worker).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "Worker not found"})
		return
	}

	if req.ServiceID != nil {
		var service models.Service
		if err := database.DB.First(&service, *req.ServiceID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "Service not found"})
			return
		}
	}

	address := req.Address
	if address == "" {
		address = models.DefaultAddress
	}

	booking := models.Booking{
		Reference:           "QS-" + uuid.NewString(),
		ClientID:            clientID,
		WorkerID:            req.WorkerID,
		ServiceID:           req.ServiceID,
		BookingDate:         bookingDate,
		DurationHours:       req.DurationHours,
		TotalPrice:          req.TotalPrice,
		Address:             address,
		Status:              models.BookingStatusPending,
		PaymentStatus:       "pending",
		SpecialInstructions: req.SpecialInstructions,
	}

	if err := database.DB.Create(&booking).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to create booking"})
		return
	}

	metrics.Default.RecordBookingCreated()
	pushBookingEvent(booking.WorkerID, "booking_created", booking)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Booking created successfully",
		"booking": booking,
	})
}

// listBookings returns the actor's own bookings, newest first, enriched with
// counterparty display fields and the effective location.
func listBookings(c *gin.Context) {
	userID := c.GetUint("user_id")
	role := middleware.ActorRole(c)

	query := database.DB.Model(&models.Booking{})
	if role == models.RoleClient {
		query = query.Where("client_id = ?", userID)
	} else {
		query = query.Where("worker_id = ?", userID)
	}

	if filter := c.Query("status"); filter != "" {
		query = query.Where("status IN ?", models.ExpandStatusFilter(filter))
	}

	var bookings []models.Booking
	if err := query.Order("created_at DESC").Find(&bookings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to fetch bookings"})
		return
	}

	counterparts := loadCounterparts(bookings, role)

	items := make([]models.BookingListItem, 0, len(bookings))
	for _, b := range bookings {
		var counterpartID uint
		if role == models.RoleClient {
			counterpartID = b.WorkerID
		} else {
			counterpartID = b.ClientID
		}

		item := models.BookingListItem{Booking: b}
		if u, ok := counterparts[counterpartID]; ok {
			item.CounterpartyName = u.FullName
			item.CounterpartyImage = u.ProfileImageURL
			item.LocationAddress = models.EffectiveLocation(b.Address, u.Address)
		} else {
			item.LocationAddress = models.EffectiveLocation(b.Address, "")
		}
		items = append(items, item)
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings":    items,
		"total_count": len(items),
	})
}

// loadCounterparts fetches every counterparty user in one query.
func loadCounterparts(bookings []models.Booking, role models.UserRole) map[uint]models.User {
	ids := make([]uint, 0, len(bookings))
	seen := make(map[uint]bool)
	for _, b := range bookings {
		id := b.WorkerID
		if role == models.RoleWorker {
			id = b.ClientID
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	result := make(map[uint]models.User, len(ids))
	if len(ids) == 0 {
		return result
	}

	var users []models.User
	if err := database.DB.Where("id IN ?", ids).Find(&users).Error; err != nil {
		log.Printf("⚠️ Failed to load counterparty users: %v", err)
		return result
	}
	for _, u := range users {
		result[u.ID] = u
	}
	return result
}

// updateBookingStatus applies a graph-checked status transition.
func updateBookingStatus(c *gin.Context) {
	userID := c.GetUint("user_id")
	role := middleware.ActorRole(c)

	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "Invalid booking ID"})
		return
	}

	var req models.BookingStatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": err.Error()})
		return
	}

	newStatus := models.BookingStatus(req.Status)
	if !newStatus.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "Unknown booking status: " + req.Status})
		return
	}

	// Visibility check and existence check collapse into one 404.
	var booking models.Booking
	if err := database.DB.Where("id = ? AND (client_id = ? OR worker_id = ?)",
		bookingID, userID, userID).First(&booking).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "Booking not found"})
		return
	}

	if err := models.CheckTransition(booking.Status, newStatus); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_transition", "message": err.Error()})
		return
	}

	if !models.TransitionAllowedForRole(role, newStatus) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden", "message": "Your role cannot set this status"})
		return
	}

	updates := map[string]interface{}{
		"status":     newStatus,
		"updated_at": time.Now(),
	}
	if newStatus == models.BookingStatusCancelled {
		now := time.Now()
		cancelledBy := "unknown"
		if req.CancelledBy != nil && *req.CancelledBy != "" {
			cancelledBy = *req.CancelledBy
		} else if role == models.RoleClient || role == models.RoleWorker {
			cancelledBy = string(role)
		}
		reason := "No reason provided"
		if req.CancellationReason != nil && *req.CancellationReason != "" {
			reason = *req.CancellationReason
		}
		updates["cancelled_by"] = cancelledBy
		updates["cancellation_reason"] = reason
		updates["cancelled_at"] = now
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		// Guard on the current status so a concurrent transition loses cleanly.
		res := tx.Model(&models.Booking{}).
			Where("id = ? AND status = ?", booking.ID, booking.Status).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errConcurrentTransition
		}

		if newStatus == models.BookingStatusCompleted && booking.WorkerID == userID {
			if err := incrementCompletedJobs(tx, booking.WorkerID); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, errConcurrentTransition) {
			c.JSON(http.StatusConflict, gin.H{"error": "conflict", "message": "Booking status changed concurrently"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to update booking status"})
		return
	}

	if err := database.DB.First(&booking, booking.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Booking updated but failed to load details"})
		return
	}

	metrics.Default.RecordTransition(string(newStatus))

	// Push to the counterparty.
	if booking.ClientID == userID {
		pushBookingEvent(booking.WorkerID, "booking_status_changed", booking)
	} else {
		pushBookingEvent(booking.ClientID, "booking_status_changed", booking)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking status updated",
		"booking": booking,
	})
}

// incrementCompletedJobs bumps the worker's completed-job counter inside the
// caller's transaction. A conflict-clause upsert creates the profile row
// lazily on first completion without racing a concurrent insert.
func incrementCompletedJobs(tx *gorm.DB, workerUserID uint) error {
	profile := models.WorkerProfile{UserID: workerUserID, CompletedJobs: 1}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"completed_jobs": gorm.Expr("completed_jobs + 1"),
			"updated_at":     time.Now(),
		}),
	}).Create(&profile).Error
}

// rescheduleBooking moves an owned booking to a new date and start time.
func rescheduleBooking(c *gin.Context) {
	clientID := c.GetUint("user_id")

	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "Invalid booking ID"})
		return
	}

	var req models.BookingRescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": err.Error()})
		return
	}

	bookingDate, err := parseDate(req.BookingDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "booking_date must be an ISO date"})
		return
	}

	res := database.DB.Model(&models.Booking{}).
		Where("id = ? AND client_id = ?", bookingID, clientID).
		Updates(map[string]interface{}{
			"booking_date": bookingDate,
			"start_time":   req.StartTime,
			"updated_at":   time.Now(),
		})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to reschedule booking"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "Booking not found"})
		return
	}

	var booking models.Booking
	if err := database.DB.First(&booking, bookingID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Booking updated but failed to load details"})
		return
	}

	pushBookingEvent(booking.WorkerID, "booking_rescheduled", booking)

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking rescheduled",
		"booking": booking,
	})
}

// bookingStats aggregates the actor's bookings into status buckets.
func bookingStats(c *gin.Context) {
	userID := c.GetUint("user_id")
	role := middleware.ActorRole(c)

	scoped := func() *gorm.DB {
		q := database.DB.Model(&models.Booking{})
		if role == models.RoleClient {
			return q.Where("client_id = ?", userID)
		}
		return q.Where("worker_id = ?", userID)
	}

	var stats models.BookingStats
	if err := scoped().Count(&stats.Total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to compute stats"})
		return
	}

	counts := []struct {
		dest     *int64
		statuses []string
	}{
		{&stats.Active, []string{
			string(models.BookingStatusPending),
			string(models.BookingStatusAccepted),
			string(models.BookingStatusInProgress),
		}},
		{&stats.Completed, []string{string(models.BookingStatusCompleted)}},
		{&stats.Cancelled, []string{string(models.BookingStatusCancelled)}},
	}
	for _, bucket := range counts {
		if err := scoped().Where("status IN ?", bucket.statuses).Count(bucket.dest).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to compute stats"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

func pushBookingEvent(userID uint, event string, booking models.Booking) {
	if notifyHub == nil {
		return
	}
	notifyHub.NotifyUser(userID, event, gin.H{
		"booking_id": booking.ID,
		"reference":  booking.Reference,
		"status":     booking.Status,
		"date":       booking.BookingDate,
	})
}
