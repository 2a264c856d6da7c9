package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleClient UserRole = "client"
	RoleWorker UserRole = "worker"
	RoleAdmin  UserRole = "admin"
)

type User struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	FullName        string    `json:"full_name" gorm:"size:255;not null"`
	Email           string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash    string    `json:"-" gorm:"size:255;not null"`
	Role            UserRole  `json:"role" gorm:"type:varchar(20);not null;default:'client';check:role IN ('client','worker','admin')"`
	PhoneNumber     string    `json:"phone_number" gorm:"size:20"`
	Address         string    `json:"address" gorm:"size:500"`
	ProfileImageURL *string   `json:"profile_image_url" gorm:"size:500"`
	IsActive        bool      `json:"is_active" gorm:"default:true"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	WorkerProfile *WorkerProfile `json:"worker_profile,omitempty" gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// BeforeCreate is a GORM hook that runs before creating a user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = RoleClient
	}
	return nil
}

// IsValidRole checks if the user role is valid
func (u *User) IsValidRole() bool {
	switch u.Role {
	case RoleClient, RoleWorker, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsWorker checks if the user is a worker
func (u *User) IsWorker() bool {
	return u.Role == RoleWorker
}

// IsAdmin checks if the user is an admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsClient checks if the user is a client
func (u *User) IsClient() bool {
	return u.Role == RoleClient
}

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	FullName    string `json:"full_name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	Role        string `json:"role" binding:"omitempty,oneof=client worker"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
}

// LoginRequest is the payload for credential login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
