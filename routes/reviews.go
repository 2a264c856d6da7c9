package routes

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"quickstaff-server/database"
	"quickstaff-server/metrics"
	"quickstaff-server/middleware"
	"quickstaff-server/models"
)

// RegisterReviewRoutes registers the protected review endpoints.
func RegisterReviewRoutes(router *gin.RouterGroup) {
	reviews := router.Group("/reviews")
	{
		reviews.POST("", middleware.RequireRoles(models.RoleClient), createReview)
	}
}

// RegisterPublicReviewRoutes registers the unauthenticated review listing.
func RegisterPublicReviewRoutes(router *gin.RouterGroup) {
	router.GET("/reviews/:userId", listReviewsForUser)
}

// createReview submits a review for a completed booking and folds the rating
// into the worker's aggregate in the same transaction.
func createReview(c *gin.Context) {
	clientID := c.GetUint("user_id")

	var req models.ReviewCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": err.Error()})
		return
	}

	// Ownership-scoped fetch: a booking that exists but belongs to someone
	// else looks identical to one that does not exist.
	var booking models.Booking
	if err := database.DB.Where("id = ? AND client_id = ?", req.BookingID, clientID).
		First(&booking).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "Booking not found"})
		return
	}

	if booking.Status != models.BookingStatusCompleted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "Only completed bookings can be reviewed"})
		return
	}

	var existing int64
	database.DB.Model(&models.Review{}).Where("booking_id = ?", req.BookingID).Count(&existing)
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "conflict", "message": "Booking has already been reviewed"})
		return
	}

	review := models.Review{
		BookingID:  req.BookingID,
		ReviewerID: clientID,
		RevieweeID: booking.WorkerID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		return foldRatingIntoProfile(tx, booking.WorkerID, req.Rating)
	})
	if err != nil {
		// The unique index catches the race the pre-check misses.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "conflict", "message": "Booking has already been reviewed"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to create review"})
		return
	}

	metrics.Default.RecordReviewCreated()

	c.JSON(http.StatusCreated, gin.H{
		"message": "Review created successfully",
		"review":  review,
	})
}

// foldRatingIntoProfile advances the worker's running sum, count and derived
// mean in one conflict-clause upsert. The insert covers a worker with no
// profile yet; on conflict the arithmetic references the old column values,
// so concurrent folds serialize on the row and two first reviews cannot race
// each other into a duplicate-key failure.
func foldRatingIntoProfile(tx *gorm.DB, workerID uint, rating int) error {
	profile := models.WorkerProfile{
		UserID:       workerID,
		RatingSum:    int64(rating),
		TotalReviews: 1,
		Rating:       float64(rating),
	}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"rating_sum":    gorm.Expr("rating_sum + ?", rating),
			"total_reviews": gorm.Expr("total_reviews + 1"),
			"rating":        gorm.Expr("ROUND((rating_sum + ?) * 1.0 / (total_reviews + 1), 2)", rating),
			"updated_at":    time.Now(),
		}),
	}).Create(&profile).Error
}

// listReviewsForUser returns the reviews a worker has received, newest first.
func listReviewsForUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "Invalid user ID"})
		return
	}

	var reviews []models.Review
	if err := database.DB.Where("reviewee_id = ?", userID).
		Preload("Reviewer").
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "Failed to fetch reviews"})
		return
	}

	items := make([]models.ReviewListItem, 0, len(reviews))
	var sum int64
	for _, r := range reviews {
		item := models.ReviewListItem{Review: r, ReviewerName: r.Reviewer.FullName}
		item.ReviewerImage = r.Reviewer.ProfileImageURL
		item.Reviewer = models.User{}
		items = append(items, item)
		sum += int64(r.Rating)
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews":        items,
		"total_count":    len(items),
		"average_rating": models.FoldedAverage(sum, len(items)),
	})
}
