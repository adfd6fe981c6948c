package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSlotTaken is returned when a non-cancelled appointment already holds the slot.
	ErrSlotTaken = errors.New("slot already booked")
	// ErrAppointmentNotFound is returned for unknown appointment ids.
	ErrAppointmentNotFound = errors.New("appointment not found")
	// ErrInvalidTransition is wrapped by every InvalidTransitionError.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError lists request fields that are missing or malformed.
type ValidationError struct {
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required fields: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid fields: "+strings.Join(e.Invalid, ", "))
	}
	if len(parts) == 0 {
		return "validation failed"
	}
	return strings.Join(parts, "; ")
}

// InvalidTransitionError reports a status change outside the allowed edges.
type InvalidTransitionError struct {
	ID   string            `json:"id"`
	From AppointmentStatus `json:"from"`
	To   AppointmentStatus `json:"to"`
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot move appointment from %s to %s", e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }
