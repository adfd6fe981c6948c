package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "PENDING"
	StatusConfirmed AppointmentStatus = "CONFIRMED"
	StatusCancelled AppointmentStatus = "CANCELLED"
	StatusCompleted AppointmentStatus = "COMPLETED"
)

// Statuses lists every status in dashboard order.
var Statuses = []AppointmentStatus{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted}

// allowedTransitions is the complete edge set of the status machine.
// Cancelled and Completed are terminal.
var allowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted},
}

// ParseStatus accepts a status name in any case.
func ParseStatus(s string) (AppointmentStatus, error) {
	candidate := AppointmentStatus(strings.ToUpper(strings.TrimSpace(s)))
	for _, st := range Statuses {
		if st == candidate {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown appointment status %q", s)
}

// CanTransitionTo reports whether s -> to is an allowed edge.
func (s AppointmentStatus) CanTransitionTo(to AppointmentStatus) bool {
	for _, next := range allowedTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func (s AppointmentStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// HoldsSlot reports whether an appointment in status s occupies its slot.
func (s AppointmentStatus) HoldsSlot() bool {
	return s != StatusCancelled
}

// Appointment is a salon booking for one (date, time slot) pair.
type Appointment struct {
	BaseModel
	ServiceKey    string            `gorm:"size:128" json:"serviceId"`
	ServiceName   string            `gorm:"size:128" json:"serviceName"`
	CustomerName  string            `gorm:"size:150;not null" json:"customerName"`
	CustomerPhone string            `gorm:"size:40;not null" json:"customerPhone"`
	CustomerEmail *string           `gorm:"size:255" json:"customerEmail"`
	Date          string            `gorm:"column:slot_date;size:10;index:idx_appointment_slot" json:"date"`
	Time          string            `gorm:"column:slot_time;size:8;index:idx_appointment_slot" json:"time"`
	Status        AppointmentStatus `gorm:"size:20;default:'PENDING'" json:"status"`
}

// TransitionTo moves the appointment to status to, stamping UpdatedAt.
func (a *Appointment) TransitionTo(to AppointmentStatus, at time.Time) error {
	if !a.Status.CanTransitionTo(to) {
		return &InvalidTransitionError{ID: a.ID, From: a.Status, To: to}
	}
	a.Status = to
	a.UpdatedAt = at
	return nil
}

// Occupies reports whether a holds the given date and slot.
func (a *Appointment) Occupies(date, slot string) bool {
	return a.Status.HoldsSlot() && a.Date == date && a.Time == slot
}

// SortAppointments orders by date, then by slot position in the day.
// Slot labels must not be compared as strings ("10:00 AM" > "1:00 PM").
func SortAppointments(appts []Appointment) {
	sort.SliceStable(appts, func(i, j int) bool {
		a, b := appts[i], appts[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if ai, bi := SlotIndex(a.Time), SlotIndex(b.Time); ai != bi {
			return ai < bi
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}

// FilterByDate returns the appointments booked on date.
func FilterByDate(appts []Appointment, date string) []Appointment {
	out := make([]Appointment, 0, len(appts))
	for _, a := range appts {
		if a.Date == date {
			out = append(out, a)
		}
	}
	return out
}

// CountByStatus tallies appointments per status; every status is present.
func CountByStatus(appts []Appointment) map[AppointmentStatus]int {
	counts := make(map[AppointmentStatus]int, len(Statuses))
	for _, st := range Statuses {
		counts[st] = 0
	}
	for _, a := range appts {
		counts[a.Status]++
	}
	return counts
}
