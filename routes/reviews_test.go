package routes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"quickstaff-server/models"
)

func foldRating(t *testing.T, db *gorm.DB, workerID uint, rating int) {
	t.Helper()
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return foldRatingIntoProfile(tx, workerID, rating)
	}))
}

func TestFoldRatingCreatesProfileOnFirstReview(t *testing.T) {
	db := openTestDB(t, &models.WorkerProfile{})

	foldRating(t, db, 7, 4)

	var profile models.WorkerProfile
	require.NoError(t, db.Where("user_id = ?", 7).First(&profile).Error)
	assert.Equal(t, int64(4), profile.RatingSum)
	assert.Equal(t, 1, profile.TotalReviews)
	assert.InDelta(t, 4.0, profile.Rating, 0.001)
}

func TestFoldRatingUpsertsWithoutDuplicateRow(t *testing.T) {
	db := openTestDB(t, &models.WorkerProfile{})

	// The first fold inserts the row; later folds must hit the conflict
	// branch of the same statement, never a second insert.
	foldRating(t, db, 7, 4)
	foldRating(t, db, 7, 3)
	foldRating(t, db, 7, 5)

	var count int64
	require.NoError(t, db.Model(&models.WorkerProfile{}).Where("user_id = ?", 7).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var profile models.WorkerProfile
	require.NoError(t, db.Where("user_id = ?", 7).First(&profile).Error)
	assert.Equal(t, int64(12), profile.RatingSum)
	assert.Equal(t, 3, profile.TotalReviews)
	assert.InDelta(t, 4.0, profile.Rating, 0.001)
}

func TestFoldRatingAdvancesSeededAggregate(t *testing.T) {
	db := openTestDB(t, &models.WorkerProfile{})

	seeded := models.WorkerProfile{UserID: 9, RatingSum: 7, TotalReviews: 2, Rating: 3.5}
	require.NoError(t, db.Create(&seeded).Error)

	foldRating(t, db, 9, 5)

	var profile models.WorkerProfile
	require.NoError(t, db.Where("user_id = ?", 9).First(&profile).Error)
	assert.Equal(t, int64(12), profile.RatingSum)
	assert.Equal(t, 3, profile.TotalReviews)
	assert.InDelta(t, 4.0, profile.Rating, 0.001)
}

func TestFoldRatingRoundsDerivedMean(t *testing.T) {
	db := openTestDB(t, &models.WorkerProfile{})

	foldRating(t, db, 11, 1)
	foldRating(t, db, 11, 5)
	foldRating(t, db, 11, 5)

	var profile models.WorkerProfile
	require.NoError(t, db.Where("user_id = ?", 11).First(&profile).Error)
	assert.Equal(t, int64(11), profile.RatingSum)
	assert.Equal(t, 3, profile.TotalReviews)
	assert.InDelta(t, 3.67, profile.Rating, 0.001)
	assert.InDelta(t, models.FoldedAverage(profile.RatingSum, profile.TotalReviews), profile.Rating, 0.001)
}
