package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatusIsValid(t *testing.T) {
	for _, s := range []BookingStatus{
		StatusPending, StatusAssigned, StatusAccepted,
		StatusCollected, StatusCompleted, StatusCancelled,
	} {
		assert.True(t, s.IsValid(), "expected %q to be valid", s)
	}

	assert.False(t, BookingStatus("").IsValid())
	assert.False(t, BookingStatus("archived").IsValid())
	assert.False(t, BookingStatus("Pending").IsValid(), "statuses are case sensitive")
}

func TestBookingStatusIsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())

	for _, s := range []BookingStatus{StatusPending, StatusAssigned, StatusAccepted, StatusCollected} {
		assert.False(t, s.IsTerminal(), "expected %q to be non-terminal", s)
	}
}

func TestIsValidTimeSlot(t *testing.T) {
	for _, slot := range TimeSlots {
		assert.True(t, IsValidTimeSlot(slot))
	}
	assert.False(t, IsValidTimeSlot("08:00"))
	assert.False(t, IsValidTimeSlot(""))
}

func TestCountsTowardLoad(t *testing.T) {
	expert := "e-1"

	for _, s := range []BookingStatus{StatusAssigned, StatusAccepted, StatusCollected} {
		b := Booking{Status: s, ExpertID: &expert}
		assert.True(t, b.CountsTowardLoad(), "status %q with expert should count", s)
	}

	for _, s := range []BookingStatus{StatusPending, StatusCompleted, StatusCancelled} {
		b := Booking{Status: s, ExpertID: &expert}
		assert.False(t, b.CountsTowardLoad(), "status %q should not count", s)
	}

	assert.False(t, Booking{Status: StatusAssigned}.CountsTowardLoad(), "no expert, no load")
}
