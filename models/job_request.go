package models

import (
	"time"
)

type JobRequestStatus string

const (
	JobRequestStatusPending  JobRequestStatus = "pending"
	JobRequestStatusAccepted JobRequestStatus = "accepted"
	JobRequestStatusRejected JobRequestStatus = "rejected"
)

// IsTerminal reports whether the request can no longer be decided.
func (s JobRequestStatus) IsTerminal() bool {
	return s == JobRequestStatusAccepted || s == JobRequestStatusRejected
}

// ConvertedAddress marks a booking spawned from a request; the address is
// resolved from the client's profile at display time.
const ConvertedAddress = "To be confirmed from client profile"

// JobRequest is a client's unconfirmed ask. Accepting it spawns exactly one
// Booking in the same transaction.
type JobRequest struct {
	ID            uint             `json:"id" gorm:"primaryKey"`
	ClientID      uint             `json:"client_id" gorm:"not null;index"`
	WorkerID      uint             `json:"worker_id" gorm:"not null;index"`
	ServiceID     *uint            `json:"service_id"`
	RequestedDate time.Time        `json:"requested_date" gorm:"not null"`
	Budget        *float64         `json:"budget" gorm:"type:decimal(10,2)"`
	Message       string           `json:"message" gorm:"size:1000"`
	Status        JobRequestStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';check:status IN ('pending','accepted','rejected')"`
	CreatedAt     time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time        `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Client  User     `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Worker  User     `json:"worker,omitempty" gorm:"foreignKey:WorkerID"`
	Service *Service `json:"service,omitempty" gorm:"foreignKey:ServiceID"`
}

// TableName specifies the table name for the JobRequest model
func (JobRequest) TableName() string {
	return "job_requests"
}

// JobRequestCreateRequest is the client payload for a new request.
type JobRequestCreateRequest struct {
	WorkerID      uint     `json:"worker_id" binding:"required"`
	ServiceID     *uint    `json:"service_id"`
	RequestedDate string   `json:"requested_date" binding:"required"` // ISO8601
	Budget        *float64 `json:"budget" binding:"omitempty,min=0"`
	Message       string   `json:"message"`
}

// JobRequestDecision is the accept/reject payload.
type JobRequestDecision struct {
	Status string `json:"status" binding:"required,oneof=accepted rejected"`
}
