// Package store persists appointments. Implementations own the collection
// and are the only write path to it.
package store

import (
	"context"
	"time"

	"salon-booking-server/internal/models"
)

// Repository is the appointment collection.
//
// Insert must check the slot and append as one indivisible step: two
// concurrent inserts for the same free slot may not both succeed.
type Repository interface {
	// Insert stores appt, or returns models.ErrSlotTaken when a non-cancelled
	// appointment already holds appt's date and time.
	Insert(ctx context.Context, appt *models.Appointment) error
	Get(ctx context.Context, id string) (*models.Appointment, error)
	// List returns every appointment sorted by date and slot.
	List(ctx context.Context) ([]models.Appointment, error)
	// UpdateStatus applies a status transition stamped at.
	UpdateStatus(ctx context.Context, id string, to models.AppointmentStatus, at time.Time) (*models.Appointment, error)
}
