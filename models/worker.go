package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// DayWindow is a single weekday working window, times as "HH:MM".
type DayWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// WeeklyAvailability maps lowercase weekday names ("monday"..."sunday")
// to working windows. Stored as jsonb.
type WeeklyAvailability map[string]DayWindow

func (a WeeklyAvailability) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

func (a *WeeklyAvailability) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("unsupported type for WeeklyAvailability")
	}
	return json.Unmarshal(raw, a)
}

// WorkerProfile extends a worker User with public reputation data.
//
// RatingSum and TotalReviews are the source of truth for the aggregate;
// Rating is recomputed from them in the same UPDATE statement that folds a
// new review in, so readers joining on the table never see a stale mean.
type WorkerProfile struct {
	ID           uint               `json:"id" gorm:"primaryKey"`
	UserID       uint               `json:"user_id" gorm:"uniqueIndex;not null"`
	Bio          string             `json:"bio" gorm:"type:text"`
	Skills       string             `json:"skills" gorm:"type:text"`
	HourlyRate   float64            `json:"hourly_rate" gorm:"type:decimal(10,2);default:0"`
	Availability WeeklyAvailability `json:"availability" gorm:"type:jsonb"`

	RatingSum     int64   `json:"-" gorm:"not null;default:0"`
	TotalReviews  int     `json:"total_reviews" gorm:"not null;default:0"`
	Rating        float64 `json:"rating" gorm:"type:decimal(3,2);not null;default:0"`
	CompletedJobs int     `json:"completed_jobs" gorm:"not null;default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for the WorkerProfile model
func (WorkerProfile) TableName() string {
	return "worker_profiles"
}

// AverageRating derives the mean from the running sum and count.
func (p *WorkerProfile) AverageRating() float64 {
	return FoldedAverage(p.RatingSum, p.TotalReviews)
}

// FoldedAverage computes the arithmetic mean of ratings from a running sum
// and count, rounded to two decimal places. Zero reviews yield zero.
func FoldedAverage(sum int64, count int) float64 {
	if count <= 0 {
		return 0
	}
	mean := float64(sum) / float64(count)
	return float64(int64(mean*100+0.5)) / 100
}

// WorkerProfileRequest is the payload for creating or updating a profile.
type WorkerProfileRequest struct {
	Bio          string             `json:"bio"`
	Skills       string             `json:"skills"`
	HourlyRate   float64            `json:"hourly_rate" binding:"omitempty,min=0"`
	Availability WeeklyAvailability `json:"availability"`
}

// Validate checks availability windows for well-formed weekday names.
func (r *WorkerProfileRequest) Validate() error {
	for day := range r.Availability {
		if !validWeekday(day) {
			return errors.New("invalid weekday: " + day)
		}
	}
	return nil
}

func validWeekday(day string) bool {
	switch day {
	case "monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday":
		return true
	default:
		return false
	}
}
