package models

import (
	"fmt"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusAccepted   BookingStatus = "accepted"
	BookingStatusRejected   BookingStatus = "rejected"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

// DefaultAddress is stored when a client creates a booking without one.
const DefaultAddress = "Not specified"

// bookingTransitions is the allowed-next-state table. A transition absent
// here is rejected before anything is written.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:    {BookingStatusAccepted, BookingStatusRejected},
	BookingStatusAccepted:   {BookingStatusInProgress, BookingStatusCancelled},
	BookingStatusInProgress: {BookingStatusCompleted, BookingStatusCancelled},
	BookingStatusCompleted:  {},
	BookingStatusRejected:   {},
	BookingStatusCancelled:  {},
}

// IsValid reports whether s is one of the defined booking states.
func (s BookingStatus) IsValid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

// IsTerminal reports whether no further transitions leave s.
func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}

// CanTransitionTo reports whether s -> next is an edge of the status graph.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// InvalidTransitionError names both ends of a rejected transition.
type InvalidTransitionError struct {
	From BookingStatus
	To   BookingStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %q to %q", e.From, e.To)
}

// CheckTransition validates a requested status change against the graph.
func CheckTransition(from, to BookingStatus) error {
	if !from.CanTransitionTo(to) {
		return &InvalidTransitionError{From: from, To: to}
	}
	return nil
}

// TransitionAllowedForRole restricts each edge to the role it makes business
// sense for: workers answer, start and finish bookings; either party may
// cancel while the booking is still live.
func TransitionAllowedForRole(role UserRole, to BookingStatus) bool {
	switch to {
	case BookingStatusAccepted, BookingStatusRejected, BookingStatusInProgress, BookingStatusCompleted:
		return role == RoleWorker || role == RoleAdmin
	case BookingStatusCancelled:
		return role == RoleClient || role == RoleWorker || role == RoleAdmin
	default:
		return false
	}
}

// ExpandStatusFilter maps a list-filter literal to the set of stored status
// values it matches. "pending" keeps accepting the legacy "requested" literal;
// "all_active" covers every non-terminal state. Unknown literals match
// themselves exactly.
func ExpandStatusFilter(filter string) []string {
	switch filter {
	case "pending", "requested":
		return []string{string(BookingStatusPending), "requested"}
	case "all_active":
		return []string{
			string(BookingStatusPending),
			string(BookingStatusAccepted),
			string(BookingStatusInProgress),
		}
	default:
		return []string{filter}
	}
}

type Booking struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	Reference string `json:"reference" gorm:"size:40;uniqueIndex"`
	ClientID  uint   `json:"client_id" gorm:"not null;index"`
	WorkerID  uint   `json:"worker_id" gorm:"not null;index"`
	ServiceID *uint  `json:"service_id"` // nil means a general service booking

	BookingDate   time.Time     `json:"booking_date" gorm:"not null"`
	StartTime     *string       `json:"start_time" gorm:"size:20"`
	EndTime       *string       `json:"end_time" gorm:"size:20"`
	DurationHours float64       `json:"duration_hours" gorm:"type:decimal(5,2);not null"`
	TotalPrice    float64       `json:"total_price" gorm:"type:decimal(10,2);not null"`
	Address       string        `json:"address" gorm:"size:500;not null;default:'Not specified'"`
	Status        BookingStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';check:status IN ('pending','accepted','rejected','in_progress','completed','cancelled')"`
	PaymentStatus string        `json:"payment_status" gorm:"type:varchar(20);not null;default:'pending'"`

	SpecialInstructions *string `json:"special_instructions" gorm:"size:1000"`

	// Populated if and only if Status is cancelled.
	CancelledBy        *string    `json:"cancelled_by" gorm:"size:20"`
	CancellationReason *string    `json:"cancellation_reason" gorm:"size:500"`
	CancelledAt        *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Client  User     `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Worker  User     `json:"worker,omitempty" gorm:"foreignKey:WorkerID"`
	Service *Service `json:"service,omitempty" gorm:"foreignKey:ServiceID"`
}

// TableName specifies the table name for the Booking model
func (Booking) TableName() string {
	return "bookings"
}

// EffectiveLocation is the address shown in listings: the booking's own
// address when set, otherwise the counterparty's profile address. Both
// sentinel placeholders count as unset. Never persisted.
func EffectiveLocation(bookingAddress, counterpartyAddress string) string {
	if bookingAddress != "" && bookingAddress != DefaultAddress && bookingAddress != ConvertedAddress {
		return bookingAddress
	}
	if counterpartyAddress != "" {
		return counterpartyAddress
	}
	return DefaultAddress
}

// BookingCreateRequest is the client payload for a direct booking.
type BookingCreateRequest struct {
	WorkerID            uint    `json:"worker_id" binding:"required"`
	ServiceID           *uint   `json:"service_id"`
	BookingDate         string  `json:"booking_date" binding:"required"` // ISO8601
	DurationHours       float64 `json:"duration_hours" binding:"required,gt=0"`
	TotalPrice          float64 `json:"total_price" binding:"required,gt=0"`
	Address             string  `json:"address"`
	SpecialInstructions *string `json:"special_instructions"`
}

// BookingStatusUpdateRequest is the payload for a status transition.
type BookingStatusUpdateRequest struct {
	Status             string  `json:"status" binding:"required"`
	CancelledBy        *string `json:"cancelled_by"`
	CancellationReason *string `json:"cancellation_reason"`
}

// BookingRescheduleRequest is the payload for moving a booking.
type BookingRescheduleRequest struct {
	BookingDate string `json:"booking_date" binding:"required"` // ISO8601
	StartTime   string `json:"start_time" binding:"required"`
}

// BookingListItem is a booking enriched with view-only counterparty fields.
type BookingListItem struct {
	Booking
	CounterpartyName  string  `json:"counterparty_name"`
	CounterpartyImage *string `json:"counterparty_image"`
	LocationAddress   string  `json:"location_address"`
}

// BookingStats aggregates one actor's bookings by status bucket.
type BookingStats struct {
	Active    int64 `json:"active"`
	Completed int64 `json:"completed"`
	Cancelled int64 `json:"cancelled"`
	Total     int64 `json:"total"`
}
