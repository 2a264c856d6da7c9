package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusAccepted,
	BookingStatusRejected,
	BookingStatusInProgress,
	BookingStatusCompleted,
	BookingStatusCancelled,
}

func TestBookingStatusTransitions(t *testing.T) {
	allowed := map[BookingStatus]map[BookingStatus]bool{
		BookingStatusPending:    {BookingStatusAccepted: true, BookingStatusRejected: true},
		BookingStatusAccepted:   {BookingStatusInProgress: true, BookingStatusCancelled: true},
		BookingStatusInProgress: {BookingStatusCompleted: true, BookingStatusCancelled: true},
		BookingStatusCompleted:  {},
		BookingStatusRejected:   {},
		BookingStatusCancelled:  {},
	}

	// Every (from, to) pair must match the table, including self-transitions.
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			got := from.CanTransitionTo(to)
			want := allowed[from][to]
			assert.Equal(t, want, got, "transition %s -> %s", from, to)

			err := CheckTransition(from, to)
			if want {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		}
	}
}

func TestCheckTransitionErrorNamesBothStates(t *testing.T) {
	err := CheckTransition(BookingStatusCompleted, BookingStatusPending)
	require.Error(t, err)

	var invalid *InvalidTransitionError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, BookingStatusCompleted, invalid.From)
	assert.Equal(t, BookingStatusPending, invalid.To)
	assert.Contains(t, err.Error(), "completed")
	assert.Contains(t, err.Error(), "pending")
}

func TestBookingStatusTerminal(t *testing.T) {
	assert.True(t, BookingStatusCompleted.IsTerminal())
	assert.True(t, BookingStatusRejected.IsTerminal())
	assert.True(t, BookingStatusCancelled.IsTerminal())

	assert.False(t, BookingStatusPending.IsTerminal())
	assert.False(t, BookingStatusAccepted.IsTerminal())
	assert.False(t, BookingStatusInProgress.IsTerminal())
}

func TestBookingStatusIsValid(t *testing.T) {
	for _, s := range allStatuses {
		assert.True(t, s.IsValid(), "status %s", s)
	}
	assert.False(t, BookingStatus("requested").IsValid())
	assert.False(t, BookingStatus("").IsValid())
}

func TestTransitionAllowedForRole(t *testing.T) {
	// Workers answer, start and finish bookings.
	for _, to := range []BookingStatus{
		BookingStatusAccepted, BookingStatusRejected,
		BookingStatusInProgress, BookingStatusCompleted,
	} {
		assert.True(t, TransitionAllowedForRole(RoleWorker, to), "worker -> %s", to)
		assert.True(t, TransitionAllowedForRole(RoleAdmin, to), "admin -> %s", to)
		assert.False(t, TransitionAllowedForRole(RoleClient, to), "client -> %s", to)
	}

	// Either party may cancel.
	assert.True(t, TransitionAllowedForRole(RoleClient, BookingStatusCancelled))
	assert.True(t, TransitionAllowedForRole(RoleWorker, BookingStatusCancelled))
	assert.True(t, TransitionAllowedForRole(RoleAdmin, BookingStatusCancelled))
}

func TestExpandStatusFilter(t *testing.T) {
	// Legacy "requested" rows still show up under the pending filter.
	assert.ElementsMatch(t, []string{"pending", "requested"}, ExpandStatusFilter("pending"))
	assert.ElementsMatch(t, []string{"pending", "requested"}, ExpandStatusFilter("requested"))

	assert.ElementsMatch(t,
		[]string{"pending", "accepted", "in_progress"},
		ExpandStatusFilter("all_active"))

	assert.Equal(t, []string{"completed"}, ExpandStatusFilter("completed"))
	assert.Equal(t, []string{"cancelled"}, ExpandStatusFilter("cancelled"))
}

func TestEffectiveLocation(t *testing.T) {
	assert.Equal(t, "12 High St", EffectiveLocation("12 High St", "34 Low Rd"))
	assert.Equal(t, "34 Low Rd", EffectiveLocation("", "34 Low Rd"))
	assert.Equal(t, "34 Low Rd", EffectiveLocation(DefaultAddress, "34 Low Rd"))
	assert.Equal(t, DefaultAddress, EffectiveLocation("", ""))
	assert.Equal(t, DefaultAddress, EffectiveLocation(DefaultAddress, ""))

	// Bookings spawned from a request carry a placeholder that resolves to
	// the counterparty's profile address at display time.
	assert.Equal(t, "34 Low Rd", EffectiveLocation(ConvertedAddress, "34 Low Rd"))
	assert.Equal(t, DefaultAddress, EffectiveLocation(ConvertedAddress, ""))
}
