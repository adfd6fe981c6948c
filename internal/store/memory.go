package store

import (
	"context"
	"sync"
	"time"

	"salon-booking-server/internal/models"
)

// MemoryRepository keeps appointments in process memory behind one lock.
type MemoryRepository struct {
	mu    sync.RWMutex
	items []*models.Appointment
	byID  map[string]*models.Appointment
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[string]*models.Appointment)}
}

func (r *MemoryRepository) Insert(_ context.Context, appt *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.Occupies(appt.Date, appt.Time) {
			return models.ErrSlotTaken
		}
	}

	stored := *appt
	r.items = append(r.items, &stored)
	r.byID[stored.ID] = &stored
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*models.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, models.ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *MemoryRepository) List(_ context.Context) ([]models.Appointment, error) {
	r.mu.RLock()
	out := make([]models.Appointment, len(r.items))
	for i, a := range r.items {
		out[i] = *a
	}
	r.mu.RUnlock()

	models.SortAppointments(out)
	return out, nil
}

func (r *MemoryRepository) UpdateStatus(_ context.Context, id string, to models.AppointmentStatus, at time.Time) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, models.ErrAppointmentNotFound
	}
	if err := a.TransitionTo(to, at); err != nil {
		return nil, err
	}
	cp := *a
	return &cp, nil
}
