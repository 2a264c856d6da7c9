package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"quickstaff-server/models"
)

func seedUser(t *testing.T, db *gorm.DB, id uint, role models.UserRole) {
	t.Helper()
	user := models.User{
		ID:           id,
		FullName:     "User " + string(rune('A'+id)),
		Email:        string(rune('a'+id)) + "@quickstaff.test",
		PasswordHash: "x",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&user).Error)
}

func seedBooking(t *testing.T, db *gorm.DB, ref string, clientID, workerID uint, status models.BookingStatus) {
	t.Helper()
	booking := models.Booking{
		Reference:     ref,
		ClientID:      clientID,
		WorkerID:      workerID,
		BookingDate:   time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC),
		DurationHours: 2,
		TotalPrice:    50,
		Address:       models.DefaultAddress,
		Status:        status,
		PaymentStatus: "pending",
	}
	require.NoError(t, db.Create(&booking).Error)
}

// asPrincipal injects a verified principal the way AuthMiddleware would.
func asPrincipal(userID uint, role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("user_role", string(role))
		c.Next()
	}
}

func TestListBookingsVisibilityScoping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := openTestDB(t, &models.User{}, &models.Booking{})

	seedUser(t, db, 1, models.RoleClient)
	seedUser(t, db, 2, models.RoleClient)
	seedUser(t, db, 3, models.RoleWorker)
	seedBooking(t, db, "QS-b1", 1, 3, models.BookingStatusPending)
	seedBooking(t, db, "QS-b2", 2, 3, models.BookingStatusAccepted)

	fetch := func(userID uint, role models.UserRole) []models.BookingListItem {
		router := gin.New()
		router.GET("/bookings", asPrincipal(userID, role), listBookings)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bookings", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Bookings []models.BookingListItem `json:"bookings"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		return body.Bookings
	}

	// Each client sees only their own booking.
	forClient1 := fetch(1, models.RoleClient)
	require.Len(t, forClient1, 1)
	assert.Equal(t, "QS-b1", forClient1[0].Reference)
	assert.Equal(t, uint(1), forClient1[0].ClientID)

	forClient2 := fetch(2, models.RoleClient)
	require.Len(t, forClient2, 1)
	assert.Equal(t, "QS-b2", forClient2[0].Reference)

	// The worker sees both, being party to both.
	forWorker := fetch(3, models.RoleWorker)
	assert.Len(t, forWorker, 2)

	// A client who is party to nothing sees nothing.
	assert.Empty(t, fetch(99, models.RoleClient))
}

func TestBookingStatsBuckets(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := openTestDB(t, &models.User{}, &models.Booking{})

	seedBooking(t, db, "QS-s1", 1, 5, models.BookingStatusPending)
	seedBooking(t, db, "QS-s2", 1, 5, models.BookingStatusAccepted)
	seedBooking(t, db, "QS-s3", 2, 5, models.BookingStatusInProgress)
	seedBooking(t, db, "QS-s4", 2, 5, models.BookingStatusCompleted)
	seedBooking(t, db, "QS-s5", 1, 5, models.BookingStatusCancelled)
	// Another worker's booking stays out of the buckets.
	seedBooking(t, db, "QS-s6", 1, 6, models.BookingStatusCompleted)

	router := gin.New()
	router.GET("/bookings/stats/summary", asPrincipal(5, models.RoleWorker), bookingStats)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bookings/stats/summary", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Stats models.BookingStats `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(3), body.Stats.Active)
	assert.Equal(t, int64(1), body.Stats.Completed)
	assert.Equal(t, int64(1), body.Stats.Cancelled)
	assert.Equal(t, int64(5), body.Stats.Total)
}

func TestIncrementCompletedJobsUpserts(t *testing.T) {
	db := openTestDB(t, &models.WorkerProfile{})

	for i := 0; i < 2; i++ {
		require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
			return incrementCompletedJobs(tx, 5)
		}))
	}

	var count int64
	require.NoError(t, db.Model(&models.WorkerProfile{}).Where("user_id = ?", 5).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var profile models.WorkerProfile
	require.NoError(t, db.Where("user_id = ?", 5).First(&profile).Error)
	assert.Equal(t, 2, profile.CompletedJobs)
}
