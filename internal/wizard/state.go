package wizard

import "salon-booking-server/internal/booking"

// Step identifies a wizard state.
type Step int

const (
	StepSelectService Step = iota + 1
	StepSelectSchedule
	StepEnterContact
	StepSubmitting
	StepConfirmed
)

func (s Step) String() string {
	switch s {
	case StepSelectService:
		return "select-service"
	case StepSelectSchedule:
		return "select-schedule"
	case StepEnterContact:
		return "enter-contact"
	case StepSubmitting:
		return "submitting"
	case StepConfirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}

// State is one of SelectService, SelectSchedule, EnterContact, Submitting
// or Confirmed. Each carries only what has been validated so far.
type State interface {
	Step() Step
	isState()
}

type SelectService struct{}

type SelectSchedule struct {
	Service string
}

type EnterContact struct {
	Service string
	Date    string
	Time    string
}

type Submitting struct {
	Request booking.CreateRequest
}

type Confirmed struct {
	Request      booking.CreateRequest
	Confirmation booking.Confirmation
}

func (SelectService) Step() Step  { return StepSelectService }
func (SelectSchedule) Step() Step { return StepSelectSchedule }
func (EnterContact) Step() Step   { return StepEnterContact }
func (Submitting) Step() Step     { return StepSubmitting }
func (Confirmed) Step() Step      { return StepConfirmed }

func (SelectService) isState()  {}
func (SelectSchedule) isState() {}
func (EnterContact) isState()   {}
func (Submitting) isState()     {}
func (Confirmed) isState()      {}

// Inputs is everything the user has typed so far, kept across back navigation.
type Inputs struct {
	Service string
	Date    string
	Time    string
	Name    string
	Phone   string
	Email   string
}
