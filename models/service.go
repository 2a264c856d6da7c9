package models

import (
	"time"

	"gorm.io/gorm"
)

// Service is catalog reference data created by admins.
type Service struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	Name            string         `json:"name" gorm:"type:varchar(200);not null"`
	Category        string         `json:"category" gorm:"type:varchar(100);not null"`
	Description     string         `json:"description" gorm:"type:text"`
	BasePrice       float64        `json:"base_price" gorm:"type:decimal(10,2)"`
	DurationMinutes int            `json:"duration_minutes" gorm:"type:int"`
	IsActive        bool           `json:"is_active" gorm:"default:true"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// TableName specifies the table name for the Service model
func (Service) TableName() string {
	return "services"
}

// ServiceCreateRequest is the admin payload for catalog entries.
type ServiceCreateRequest struct {
	Name            string  `json:"name" binding:"required"`
	Category        string  `json:"category" binding:"required"`
	Description     string  `json:"description"`
	BasePrice       float64 `json:"base_price" binding:"required,min=0"`
	DurationMinutes int     `json:"duration_minutes" binding:"omitempty,min=0"`
}

// WorkerService attaches a catalog Service to a worker with their own price.
// Unique per (worker, service).
type WorkerService struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	WorkerID  uint      `json:"worker_id" gorm:"not null;uniqueIndex:idx_worker_service"`
	ServiceID uint      `json:"service_id" gorm:"not null;uniqueIndex:idx_worker_service"`
	Price     float64   `json:"price" gorm:"type:decimal(10,2);not null"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Worker  User    `json:"worker,omitempty" gorm:"foreignKey:WorkerID"`
	Service Service `json:"service,omitempty" gorm:"foreignKey:ServiceID"`
}

// TableName specifies the table name for the WorkerService model
func (WorkerService) TableName() string {
	return "worker_services"
}

// WorkerServiceRequest is the payload for attaching a service to a worker.
type WorkerServiceRequest struct {
	ServiceID uint    `json:"service_id" binding:"required"`
	Price     float64 `json:"price" binding:"required,min=0"`
	IsActive  *bool   `json:"is_active"`
}
