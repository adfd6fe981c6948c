package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"salon-booking-server/internal/booking"
	"salon-booking-server/internal/middleware"
	"salon-booking-server/internal/models"
	"salon-booking-server/internal/utils"
	"salon-booking-server/pkg/logging"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	Service *booking.Service
	Logger  *logging.Logger
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(svc *booking.Service, logger *logging.Logger) *AppointmentHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AppointmentHandler{Service: svc, Logger: logger}
}

// UpdateStatusRequest is the body of PATCH /appointments/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ListAppointmentsResponse carries the dashboard view of the store.
type ListAppointmentsResponse struct {
	Appointments []models.Appointment              `json:"appointments"`
	Counts       map[models.AppointmentStatus]int `json:"counts"`
}

// SlotsResponse enumerates the bookable slots. Without a date every slot is
// reported available.
type SlotsResponse struct {
	Date  string                     `json:"date,omitempty"`
	Slots []booking.SlotAvailability `json:"slots"`
}

// CreateAppointment books a slot for a customer. No account is needed.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req booking.CreateRequest
	if !utils.BindJSON(c, &req) {
		return
	}

	res, err := h.Service.Create(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	utils.Created(c, "Appointment created successfully", res.Confirmation)
}

// GetAppointments lists every appointment sorted by date and slot.
// ?date= and ?status= narrow the list; counts always cover the whole store.
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	appts, err := h.Service.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	counts := models.CountByStatus(appts)

	if date := strings.TrimSpace(c.Query("date")); date != "" {
		appts = models.FilterByDate(appts, date)
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status, err := models.ParseStatus(raw)
		if err != nil {
			h.writeError(c, &models.ValidationError{Invalid: []string{"status"}})
			return
		}
		filtered := appts[:0]
		for _, a := range appts {
			if a.Status == status {
				filtered = append(filtered, a)
			}
		}
		appts = filtered
	}

	utils.Success(c, "Appointments retrieved successfully", ListAppointmentsResponse{
		Appointments: appts,
		Counts:       counts,
	})
}

func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	appt, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	utils.Success(c, "Appointment retrieved successfully", appt)
}

// UpdateAppointmentStatus moves an appointment along its status machine.
func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if !utils.BindJSON(c, &req) {
		return
	}
	if strings.TrimSpace(req.Status) == "" {
		h.writeError(c, &models.ValidationError{Missing: []string{"status"}})
		return
	}

	appt, err := h.Service.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}

	staff, ok := middleware.GetStaffEmailFromContext(c)
	if !ok {
		staff = "anonymous"
	}
	h.Logger.With("request_id", c.GetString("requestID"), "staff", staff).
		Info("appointment status changed",
			"appointment_id", appt.ID,
			"status", appt.Status,
			"final", appt.Status.IsTerminal(),
		)
	utils.Success(c, "Appointment status updated successfully", appt)
}

// GetSlots enumerates the day's slots, with availability when ?date= is set.
func (h *AppointmentHandler) GetSlots(c *gin.Context) {
	date := strings.TrimSpace(c.Query("date"))
	if date == "" {
		slots := make([]booking.SlotAvailability, len(models.TimeSlots))
		for i, s := range models.TimeSlots {
			slots[i] = booking.SlotAvailability{Time: s, Available: true}
		}
		utils.Success(c, "Slots retrieved successfully", SlotsResponse{Slots: slots})
		return
	}

	slots, err := h.Service.Availability(c.Request.Context(), date)
	if err != nil {
		h.writeError(c, err)
		return
	}
	utils.Success(c, "Slots retrieved successfully", SlotsResponse{Date: date, Slots: slots})
}

func (h *AppointmentHandler) writeError(c *gin.Context, err error) {
	var verr *models.ValidationError
	var terr *models.InvalidTransitionError
	switch {
	case errors.As(err, &verr):
		utils.ValidationFailed(c, verr.Error(), verr.Missing, verr.Invalid)
	case errors.Is(err, models.ErrSlotTaken):
		utils.ErrorWithCode(c, http.StatusConflict, utils.CodeSlotTaken, err.Error())
	case errors.Is(err, models.ErrAppointmentNotFound):
		utils.NotFound(c, err.Error())
	case errors.As(err, &terr):
		utils.ErrorWithData(c, http.StatusUnprocessableEntity, utils.CodeInvalidTransition, terr.Error(), terr)
	default:
		h.Logger.Error("appointment request failed", "path", c.FullPath(), "error", err)
		utils.InternalServerError(c, "Failed to process appointment request")
	}
}
