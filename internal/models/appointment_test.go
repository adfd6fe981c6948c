package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeSlots(t *testing.T) {
	require.Len(t, TimeSlots, 22)
	assert.Equal(t, "10:00 AM", TimeSlots[0])
	assert.Equal(t, "12:00 PM", TimeSlots[4])
	assert.Equal(t, "1:00 PM", TimeSlots[6])
	assert.Equal(t, "8:30 PM", TimeSlots[21])

	assert.True(t, IsValidSlot("11:00 AM"))
	assert.False(t, IsValidSlot("9:30 AM"))
	assert.False(t, IsValidSlot("9:00 PM"))
	assert.Equal(t, len(TimeSlots), SlotIndex("nope"))
}

func TestStatusTransitions(t *testing.T) {
	allowed := map[[2]AppointmentStatus]bool{
		{StatusPending, StatusConfirmed}:   true,
		{StatusPending, StatusCancelled}:   true,
		{StatusConfirmed, StatusCompleted}: true,
	}
	for _, from := range Statuses {
		for _, to := range Statuses {
			want := allowed[[2]AppointmentStatus{from, to}]
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}

	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
}

func TestTransitionTo(t *testing.T) {
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	later := created.Add(time.Hour)
	a := &Appointment{BaseModel: BaseModel{ID: "a1", CreatedAt: created, UpdatedAt: created}, Status: StatusConfirmed}

	err := a.TransitionTo(StatusCancelled, later)
	var te *InvalidTransitionError
	require.ErrorAs(t, err, &te)
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.Equal(t, StatusConfirmed, te.From)
	assert.Equal(t, StatusCancelled, te.To)
	assert.Equal(t, created, a.UpdatedAt)

	require.NoError(t, a.TransitionTo(StatusCompleted, later))
	assert.Equal(t, StatusCompleted, a.Status)
	assert.Equal(t, later, a.UpdatedAt)

	assert.Error(t, a.TransitionTo(StatusCompleted, later), "self transition is rejected")
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus(" confirmed ")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, st)

	_, err = ParseStatus("RESCHEDULED")
	assert.Error(t, err)
}

func TestSortAppointmentsUsesSlotOrder(t *testing.T) {
	appts := []Appointment{
		{Date: "2025-03-11", Time: "10:00 AM"},
		{Date: "2025-03-10", Time: "2:00 PM"},
		{Date: "2025-03-10", Time: "10:00 AM"},
		{Date: "2025-03-10", Time: "1:00 PM"},
	}
	SortAppointments(appts)

	got := make([]string, len(appts))
	for i, a := range appts {
		got[i] = a.Date + " " + a.Time
	}
	assert.Equal(t, []string{
		"2025-03-10 10:00 AM",
		"2025-03-10 1:00 PM",
		"2025-03-10 2:00 PM",
		"2025-03-11 10:00 AM",
	}, got)
}

func TestDashboardHelpers(t *testing.T) {
	appts := []Appointment{
		{Date: "2025-03-10", Status: StatusPending},
		{Date: "2025-03-10", Status: StatusConfirmed},
		{Date: "2025-03-12", Status: StatusCancelled},
	}
	assert.Len(t, FilterByDate(appts, "2025-03-10"), 2)
	assert.Empty(t, FilterByDate(appts, "2025-03-11"))

	counts := CountByStatus(appts)
	assert.Equal(t, 1, counts[StatusPending])
	assert.Equal(t, 1, counts[StatusCancelled])
	assert.Equal(t, 0, counts[StatusCompleted])
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Missing: []string{"customerName", "customerPhone"}, Invalid: []string{"date"}}
	assert.Equal(t, "missing required fields: customerName, customerPhone; invalid fields: date", err.Error())
}

func TestStaffCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass", 4)
	require.NoError(t, err)

	s := Staff{Email: "admin@salon.test", PasswordHash: hash, Role: RoleAdmin}
	assert.True(t, s.CheckPassword("s3cret-pass"))
	assert.False(t, s.CheckPassword("wrong"))
	assert.True(t, s.Matches(" ADMIN@salon.test"))

	empty := Staff{Email: "x@y.z"}
	assert.False(t, empty.CheckPassword(""))
}
