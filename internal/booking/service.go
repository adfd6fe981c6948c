// Package booking implements the appointment store operations: create with
// slot conflict detection, list, and status updates.
package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"salon-booking-server/internal/catalogue"
	"salon-booking-server/internal/metrics"
	"salon-booking-server/internal/models"
	"salon-booking-server/internal/store"
	"salon-booking-server/pkg/logging"
)

var tracer = otel.Tracer("salon.internal.booking")

// CreateRequest is a candidate appointment collected by the booking wizard.
type CreateRequest struct {
	ServiceSelection string  `json:"serviceId" validate:"required"`
	CustomerName     string  `json:"customerName" validate:"required"`
	CustomerPhone    string  `json:"customerPhone" validate:"required"`
	CustomerEmail    *string `json:"customerEmail,omitempty"`
	Date             string  `json:"date" validate:"required,datetime=2006-01-02"`
	Time             string  `json:"time" validate:"required,slot"`
}

// Confirmation is the display payload returned for a successful booking.
type Confirmation struct {
	ID           string                   `json:"id"`
	Service      string                   `json:"service"`
	Price        *string                  `json:"price,omitempty"`
	CustomerName string                   `json:"customerName"`
	Date         string                   `json:"date"`
	Time         string                   `json:"time"`
	Status       models.AppointmentStatus `json:"status"`
}

// Result is the stored record plus its confirmation payload.
type Result struct {
	Appointment  models.Appointment
	Confirmation Confirmation
}

// SlotAvailability reports whether a slot on a given date can be booked.
type SlotAvailability struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// Service is the appointment store. All writes go through its repository.
type Service struct {
	repo      store.Repository
	catalogue *catalogue.Catalogue
	metrics   *metrics.BookingMetrics
	logger    *logging.Logger
	now       func() time.Time
}

// NewService constructs a booking service. metrics may be nil.
func NewService(repo store.Repository, cat *catalogue.Catalogue, m *metrics.BookingMetrics, logger *logging.Logger) *Service {
	if repo == nil {
		panic("booking: repository required")
	}
	if cat == nil {
		cat = catalogue.Default()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:      repo,
		catalogue: cat,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

// Catalogue returns the service catalogue used to resolve selections.
func (s *Service) Catalogue() *catalogue.Catalogue {
	return s.catalogue
}

// Create validates req and books its slot.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Result, error) {
	ctx, span := tracer.Start(ctx, "booking.create")
	defer span.End()

	req = req.normalized()
	span.SetAttributes(
		attribute.String("salon.date", req.Date),
		attribute.String("salon.slot", req.Time),
	)

	if err := validateCreate(req); err != nil {
		s.metrics.ObserveCreate(metrics.OutcomeInvalid)
		return nil, fail(span, err)
	}

	sel := s.catalogue.Resolve(req.ServiceSelection)
	now := s.now().UTC()
	appt := &models.Appointment{
		BaseModel:     models.BaseModel{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now},
		ServiceKey:    sel.Key,
		ServiceName:   sel.Name,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		Date:          req.Date,
		Time:          req.Time,
		Status:        models.StatusPending,
	}

	if err := s.repo.Insert(ctx, appt); err != nil {
		if errors.Is(err, models.ErrSlotTaken) {
			s.metrics.ObserveCreate(metrics.OutcomeConflict)
			s.logger.Info("slot already booked", "date", req.Date, "time", req.Time)
			return nil, fail(span, err)
		}
		s.metrics.ObserveCreate(metrics.OutcomeError)
		s.logger.Error("failed to store appointment", "error", err)
		return nil, fail(span, fmt.Errorf("store appointment: %w", err))
	}

	s.metrics.ObserveCreate(metrics.OutcomeCreated)
	span.SetAttributes(attribute.String("salon.appointment_id", appt.ID))
	s.logger.Info("appointment created",
		"appointment_id", appt.ID,
		"service", appt.ServiceName,
		"date", appt.Date,
		"time", appt.Time,
	)

	return &Result{
		Appointment: *appt,
		Confirmation: Confirmation{
			ID:           appt.ID,
			Service:      sel.Name,
			Price:        sel.Price,
			CustomerName: appt.CustomerName,
			Date:         appt.Date,
			Time:         appt.Time,
			Status:       appt.Status,
		},
	}, nil
}

// List returns every appointment ordered by date and slot.
func (s *Service) List(ctx context.Context) ([]models.Appointment, error) {
	ctx, span := tracer.Start(ctx, "booking.list")
	defer span.End()

	appts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fail(span, fmt.Errorf("list appointments: %w", err))
	}
	span.SetAttributes(attribute.Int("salon.appointments", len(appts)))
	return appts, nil
}

// Get returns one appointment.
func (s *Service) Get(ctx context.Context, id string) (*models.Appointment, error) {
	ctx, span := tracer.Start(ctx, "booking.get")
	defer span.End()

	appt, err := s.repo.Get(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, fail(span, err)
	}
	return appt, nil
}

// UpdateStatus moves an appointment along the status machine.
func (s *Service) UpdateStatus(ctx context.Context, id string, status string) (*models.Appointment, error) {
	ctx, span := tracer.Start(ctx, "booking.update_status")
	defer span.End()
	span.SetAttributes(
		attribute.String("salon.appointment_id", id),
		attribute.String("salon.status", status),
	)

	to, err := models.ParseStatus(status)
	if err != nil {
		return nil, fail(span, &models.ValidationError{Invalid: []string{"status"}})
	}

	appt, err := s.repo.UpdateStatus(ctx, strings.TrimSpace(id), to, s.now().UTC())
	if err != nil {
		if errors.Is(err, models.ErrInvalidTransition) {
			s.metrics.ObserveTransition(string(to), false)
		}
		return nil, fail(span, err)
	}

	s.metrics.ObserveTransition(string(to), true)
	s.logger.Info("appointment status updated", "appointment_id", appt.ID, "status", appt.Status)
	return appt, nil
}

// Availability lists every slot of date with whether it is still free.
func (s *Service) Availability(ctx context.Context, date string) ([]SlotAvailability, error) {
	ctx, span := tracer.Start(ctx, "booking.availability")
	defer span.End()

	date = strings.TrimSpace(date)
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return nil, fail(span, &models.ValidationError{Invalid: []string{"date"}})
	}

	appts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fail(span, fmt.Errorf("list appointments: %w", err))
	}
	taken := make(map[string]bool)
	for _, a := range appts {
		if a.Date == date && a.Status.HoldsSlot() {
			taken[a.Time] = true
		}
	}

	out := make([]SlotAvailability, len(models.TimeSlots))
	for i, slot := range models.TimeSlots {
		out[i] = SlotAvailability{Time: slot, Available: !taken[slot]}
	}
	return out, nil
}

func (r CreateRequest) normalized() CreateRequest {
	r.ServiceSelection = strings.TrimSpace(r.ServiceSelection)
	r.CustomerName = strings.TrimSpace(r.CustomerName)
	r.CustomerPhone = strings.TrimSpace(r.CustomerPhone)
	r.Date = strings.TrimSpace(r.Date)
	r.Time = strings.TrimSpace(r.Time)
	if r.CustomerEmail != nil {
		email := strings.TrimSpace(*r.CustomerEmail)
		if email == "" {
			r.CustomerEmail = nil
		} else {
			r.CustomerEmail = &email
		}
	}
	return r
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
