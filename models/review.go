package models

import (
	"time"
)

// Review is a client's rating of a completed booking. The unique index on
// BookingID enforces at-most-one-review-per-booking at the storage layer, so
// two concurrent submissions cannot both land.
type Review struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	BookingID  uint      `json:"booking_id" gorm:"not null;uniqueIndex:idx_reviews_booking"`
	ReviewerID uint      `json:"reviewer_id" gorm:"not null;index"`
	RevieweeID uint      `json:"reviewee_id" gorm:"not null;index"`
	Rating     int       `json:"rating" gorm:"type:int;not null;check:rating >= 1 AND rating <= 5"`
	Comment    string    `json:"comment" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`

	// Relationships
	Booking  Booking `json:"booking,omitempty" gorm:"foreignKey:BookingID"`
	Reviewer User    `json:"reviewer,omitempty" gorm:"foreignKey:ReviewerID"`
	Reviewee User    `json:"reviewee,omitempty" gorm:"foreignKey:RevieweeID"`
}

// TableName specifies the table name for the Review model
func (Review) TableName() string {
	return "reviews"
}

// ReviewCreateRequest is the client payload for submitting a review.
type ReviewCreateRequest struct {
	BookingID uint   `json:"booking_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}

// ReviewListItem is a review enriched with the reviewer's display name.
type ReviewListItem struct {
	Review
	ReviewerName  string  `json:"reviewer_name"`
	ReviewerImage *string `json:"reviewer_image"`
}
