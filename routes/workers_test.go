package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quickstaff-server/models"
)

func TestGetWorkerProfilePublicRead(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := openTestDB(t, &models.User{}, &models.WorkerProfile{}, &models.Service{}, &models.WorkerService{})

	seedUser(t, db, 3, models.RoleWorker)
	require.NoError(t, db.Create(&models.WorkerProfile{
		UserID: 3, Bio: "Ten years of event staffing",
		RatingSum: 9, TotalReviews: 2, Rating: 4.5,
	}).Error)

	service := models.Service{Name: "Event Staffing", Category: "events", BasePrice: 30, IsActive: true}
	require.NoError(t, db.Create(&service).Error)
	require.NoError(t, db.Create(&models.WorkerService{
		WorkerID: 3, ServiceID: service.ID, Price: 35, IsActive: true,
	}).Error)

	router := gin.New()
	router.GET("/workers/:id", getWorkerProfile)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/workers/3", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ten years of event staffing")
	assert.Contains(t, w.Body.String(), "Event Staffing")
	assert.Contains(t, w.Body.String(), `"rating":4.5`)
}

func TestGetWorkerProfileHidesNonWorkers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := openTestDB(t, &models.User{}, &models.WorkerProfile{}, &models.Service{}, &models.WorkerService{})

	seedUser(t, db, 1, models.RoleClient)

	router := gin.New()
	router.GET("/workers/:id", getWorkerProfile)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/workers/1", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/workers/404", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
