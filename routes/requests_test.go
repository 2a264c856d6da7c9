package routes

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"quickstaff-server/models"
)

func TestBookingFromRequest(t *testing.T) {
	budget := 120.50
	serviceID := uint(3)
	req := &models.JobRequest{
		ID:            9,
		ClientID:      1,
		WorkerID:      2,
		ServiceID:     &serviceID,
		RequestedDate: time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC),
		Budget:        &budget,
	}

	b := bookingFromRequest(req)

	assert.Equal(t, uint(1), b.ClientID)
	assert.Equal(t, uint(2), b.WorkerID)
	assert.Equal(t, &serviceID, b.ServiceID)
	assert.Equal(t, req.RequestedDate, b.BookingDate)
	assert.Equal(t, 120.50, b.TotalPrice)
	assert.Equal(t, models.BookingStatusPending, b.Status)
	assert.Equal(t, "pending", b.PaymentStatus)
	assert.Equal(t, models.ConvertedAddress, b.Address)
	assert.True(t, len(b.Reference) > 3 && b.Reference[:3] == "QS-")
}

func TestBookingFromRequestWithoutBudget(t *testing.T) {
	req := &models.JobRequest{
		ClientID:      1,
		WorkerID:      2,
		RequestedDate: time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC),
	}

	b := bookingFromRequest(req)

	assert.Equal(t, 0.0, b.TotalPrice)
	assert.Nil(t, b.ServiceID)
}

func seedPendingRequest(t *testing.T, db *gorm.DB) models.JobRequest {
	t.Helper()
	req := models.JobRequest{
		ClientID:      1,
		WorkerID:      2,
		RequestedDate: time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC),
		Status:        models.JobRequestStatusPending,
	}
	require.NoError(t, db.Create(&req).Error)
	return req
}

func TestAcceptedRequestSpawnsBooking(t *testing.T) {
	db := openTestDB(t, &models.JobRequest{}, &models.Booking{})
	req := seedPendingRequest(t, db)

	var booking *models.Booking
	err := db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		booking, txErr = applyRequestDecision(tx, &req, models.JobRequestStatusAccepted)
		return txErr
	})
	require.NoError(t, err)
	require.NotNil(t, booking)

	var stored models.JobRequest
	require.NoError(t, db.First(&stored, req.ID).Error)
	assert.Equal(t, models.JobRequestStatusAccepted, stored.Status)

	var count int64
	require.NoError(t, db.Model(&models.Booking{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRequestDecisionRollsBackEntirely(t *testing.T) {
	db := openTestDB(t, &models.JobRequest{}, &models.Booking{})
	req := seedPendingRequest(t, db)

	// A failing step after the decision must leave neither the status write
	// nor the spawned booking behind.
	errDownstream := errors.New("downstream write failed")
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, txErr := applyRequestDecision(tx, &req, models.JobRequestStatusAccepted); txErr != nil {
			return txErr
		}
		return errDownstream
	})
	require.ErrorIs(t, err, errDownstream)

	var stored models.JobRequest
	require.NoError(t, db.First(&stored, req.ID).Error)
	assert.Equal(t, models.JobRequestStatusPending, stored.Status)

	var count int64
	require.NoError(t, db.Model(&models.Booking{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestRequestDecisionGuardsOnPending(t *testing.T) {
	db := openTestDB(t, &models.JobRequest{}, &models.Booking{})
	req := seedPendingRequest(t, db)

	require.NoError(t, db.Model(&models.JobRequest{}).
		Where("id = ?", req.ID).
		Update("status", models.JobRequestStatusRejected).Error)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, txErr := applyRequestDecision(tx, &req, models.JobRequestStatusAccepted)
		return txErr
	})
	require.ErrorIs(t, err, errConcurrentTransition)

	var count int64
	require.NoError(t, db.Model(&models.Booking{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
