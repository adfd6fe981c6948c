// Package wizard drives the step-by-step booking flow up to a confirmed
// appointment and its WhatsApp handoff.
package wizard

import (
	"context"
	"errors"
	"strings"
	"time"

	"salon-booking-server/internal/booking"
	"salon-booking-server/internal/models"
	"salon-booking-server/internal/notify"
	"salon-booking-server/pkg/logging"
)

var (
	ErrNoService      = errors.New("choose a service")
	ErrNoSchedule     = errors.New("choose a date and a time")
	ErrInvalidDate    = errors.New("date must look like 2006-01-02")
	ErrPastDate       = errors.New("date must be today or later")
	ErrUnknownSlot    = errors.New("time is not an available slot")
	ErrMissingContact = errors.New("name and phone are required")
	ErrWrongStep      = errors.New("input does not belong to the current step")
	ErrSubmitting     = errors.New("booking is being submitted")
	ErrFinished       = errors.New("booking already confirmed")
	ErrFirstStep      = errors.New("already at the first step")
	ErrNotConfirmed   = errors.New("booking is not confirmed yet")
	ErrNoConfirmation = errors.New("booking service returned no confirmation")
)

// Submitter sends a completed booking to the appointment store.
type Submitter interface {
	Create(ctx context.Context, req booking.CreateRequest) (*booking.Confirmation, error)
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, req booking.CreateRequest) (*booking.Confirmation, error)

func (f SubmitterFunc) Create(ctx context.Context, req booking.CreateRequest) (*booking.Confirmation, error) {
	return f(ctx, req)
}

// LocalSubmitter books directly against an in-process booking service.
func LocalSubmitter(svc *booking.Service) Submitter {
	return SubmitterFunc(func(ctx context.Context, req booking.CreateRequest) (*booking.Confirmation, error) {
		res, err := svc.Create(ctx, req)
		if err != nil {
			return nil, err
		}
		return &res.Confirmation, nil
	})
}

// Option configures a Wizard.
type Option func(*Wizard)

// WithLocation sets the salon time zone used to decide what "today" is.
func WithLocation(loc *time.Location) Option {
	return func(w *Wizard) { w.loc = loc }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(w *Wizard) { w.now = now }
}

func WithLogger(l *logging.Logger) Option {
	return func(w *Wizard) { w.logger = l }
}

// Wizard is a single-user, synchronous state machine. It is not safe for
// concurrent use.
type Wizard struct {
	submitter Submitter
	logger    *logging.Logger
	loc       *time.Location
	now       func() time.Time

	state  State
	inputs Inputs
	err    error
}

func New(submitter Submitter, opts ...Option) *Wizard {
	w := &Wizard{
		submitter: submitter,
		loc:       time.Local,
		now:       time.Now,
		state:     SelectService{},
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logging.Default()
	}
	return w
}

func (w *Wizard) State() State   { return w.state }
func (w *Wizard) Step() Step     { return w.state.Step() }
func (w *Wizard) Inputs() Inputs { return w.inputs }

// Err is the message to show on the current step, if any. It never
// changes the state.
func (w *Wizard) Err() error { return w.err }

func (w *Wizard) SelectService(service string) error {
	if err := w.expect(StepSelectService); err != nil {
		return err
	}
	w.inputs.Service = strings.TrimSpace(service)
	return nil
}

func (w *Wizard) SelectDate(date string) error {
	if err := w.expect(StepSelectSchedule); err != nil {
		return err
	}
	w.inputs.Date = strings.TrimSpace(date)
	return nil
}

func (w *Wizard) SelectTime(slot string) error {
	if err := w.expect(StepSelectSchedule); err != nil {
		return err
	}
	w.inputs.Time = strings.TrimSpace(slot)
	return nil
}

// SetContact records the customer's details. email may be empty.
func (w *Wizard) SetContact(name, phone, email string) error {
	if err := w.expect(StepEnterContact); err != nil {
		return err
	}
	w.inputs.Name = strings.TrimSpace(name)
	w.inputs.Phone = strings.TrimSpace(phone)
	w.inputs.Email = strings.TrimSpace(email)
	return nil
}

// Next validates the current step and advances. From EnterContact it submits
// the booking and blocks until the submitter answers; on failure the wizard
// stays on EnterContact with the error in Err.
func (w *Wizard) Next(ctx context.Context) error {
	switch st := w.state.(type) {
	case SelectService:
		if w.inputs.Service == "" {
			return w.reject(ErrNoService)
		}
		w.advance(SelectSchedule{Service: w.inputs.Service})
		return nil

	case SelectSchedule:
		if err := w.checkSchedule(); err != nil {
			return w.reject(err)
		}
		w.advance(EnterContact{Service: st.Service, Date: w.inputs.Date, Time: w.inputs.Time})
		return nil

	case EnterContact:
		if w.inputs.Name == "" || w.inputs.Phone == "" {
			return w.reject(ErrMissingContact)
		}
		return w.submit(ctx, st)

	case Submitting:
		return ErrSubmitting

	case Confirmed:
		return ErrFinished
	}
	return nil
}

// Back returns to the previous input step keeping everything entered.
func (w *Wizard) Back() error {
	switch st := w.state.(type) {
	case SelectService:
		return ErrFirstStep
	case SelectSchedule:
		w.advance(SelectService{})
	case EnterContact:
		w.advance(SelectSchedule{Service: st.Service})
	case Submitting:
		return ErrSubmitting
	case Confirmed:
		return ErrFinished
	}
	return nil
}

// Reset discards every selection and returns to the first step.
func (w *Wizard) Reset() {
	w.state = SelectService{}
	w.inputs = Inputs{}
	w.err = nil
}

// Summary describes the confirmed booking.
func (w *Wizard) Summary() (notify.Summary, error) {
	st, ok := w.state.(Confirmed)
	if !ok {
		return notify.Summary{}, ErrNotConfirmed
	}
	return notify.Summary{
		Service: st.Confirmation.Service,
		Date:    st.Confirmation.Date,
		Time:    st.Confirmation.Time,
		Name:    st.Request.CustomerName,
		Phone:   st.Request.CustomerPhone,
		Email:   st.Request.CustomerEmail,
	}, nil
}

// Handoff forwards the booking summary to the salon through sender and
// returns the message. Delivery failures are logged, not reported.
func (w *Wizard) Handoff(ctx context.Context, sender notify.Sender, to, salonName string) (string, error) {
	summary, err := w.Summary()
	if err != nil {
		return "", err
	}
	msg := notify.FormatMessage(salonName, summary)
	if err := sender.Send(ctx, to, msg); err != nil {
		w.logger.Warn("booking handoff failed", "provider", sender.ProviderID(), "error", err)
	}
	return msg, nil
}

func (w *Wizard) submit(ctx context.Context, st EnterContact) error {
	req := booking.CreateRequest{
		ServiceSelection: st.Service,
		CustomerName:     w.inputs.Name,
		CustomerPhone:    w.inputs.Phone,
		Date:             st.Date,
		Time:             st.Time,
	}
	if w.inputs.Email != "" {
		email := w.inputs.Email
		req.CustomerEmail = &email
	}

	w.state = Submitting{Request: req}
	w.err = nil
	conf, err := w.submitter.Create(ctx, req)
	if err == nil && conf == nil {
		err = ErrNoConfirmation
	}
	if err != nil {
		w.state = st
		return w.reject(err)
	}
	w.advance(Confirmed{Request: req, Confirmation: *conf})
	return nil
}

func (w *Wizard) checkSchedule() error {
	if w.inputs.Date == "" || w.inputs.Time == "" {
		return ErrNoSchedule
	}
	date, err := time.ParseInLocation(models.DateLayout, w.inputs.Date, w.loc)
	if err != nil {
		return ErrInvalidDate
	}
	now := w.now().In(w.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, w.loc)
	if date.Before(today) {
		return ErrPastDate
	}
	if !models.IsValidSlot(w.inputs.Time) {
		return ErrUnknownSlot
	}
	return nil
}

func (w *Wizard) expect(step Step) error {
	switch w.state.Step() {
	case StepSubmitting:
		return ErrSubmitting
	case StepConfirmed:
		return ErrFinished
	case step:
		return nil
	}
	return ErrWrongStep
}

func (w *Wizard) advance(next State) {
	w.state = next
	w.err = nil
}

func (w *Wizard) reject(err error) error {
	w.err = err
	return err
}
