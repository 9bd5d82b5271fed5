package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"saludagenda/middleware"
	"saludagenda/models"
	booking "saludagenda/services/booking"
	"saludagenda/services/schedule"
	"saludagenda/utils"
)

func currentUser(c *gin.Context) (models.User, bool) {
	val, exists := c.Get(middleware.CtxUser)
	if !exists {
		return models.User{}, false
	}
	account, ok := val.(models.User)
	return account, ok
}

// BookAppointmentHandler books a slot for the authenticated patient.
func (h *Handler) BookAppointmentHandler(c *gin.Context) {
	patient, ok := currentUser(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Sesión no válida", "")
		return
	}

	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Datos de la cita inválidos", err.Error())
		return
	}

	appt, err := h.Booking.BookAppointment(c.Request.Context(), patient, req)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrInvalidInput):
			utils.JSONError(c, http.StatusBadRequest, "Datos de la cita inválidos", err.Error())
		case errors.Is(err, booking.ErrDoctorNotFound):
			utils.JSONError(c, http.StatusNotFound, "Doctor no encontrado", req.DoctorID)
		case errors.Is(err, booking.ErrNotAllowed):
			utils.JSONError(c, http.StatusForbidden, "No puedes reservar citas para otra persona", "")
		default:
			utils.RespondSchedulingError(c, err)
		}
		return
	}
	c.JSON(http.StatusCreated, appt)
}

// MyAppointmentsHandler returns the patient's partitioned agenda.
func (h *Handler) MyAppointmentsHandler(c *gin.Context) {
	patient, ok := currentUser(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Sesión no válida", "")
		return
	}
	agenda, err := h.Booking.PatientAppointments(c.Request.Context(), patient.ID, time.Now())
	if err != nil {
		utils.RespondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, agenda)
}

// DoctorAgendaHandler returns the authenticated doctor's day view. The date
// defaults to today; q narrows by patient, reason or status.
func (h *Handler) DoctorAgendaHandler(c *gin.Context) {
	doctor, ok := currentUser(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Sesión no válida", "")
		return
	}
	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	agenda, err := h.Booking.DoctorAgenda(c.Request.Context(), doctor.ID, date, c.Query("q"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "No se pudo cargar la agenda", err.Error())
		return
	}
	c.JSON(http.StatusOK, agenda)
}

// AdminOverviewHandler returns the filtered listing plus KPI totals.
func (h *Handler) AdminOverviewHandler(c *gin.Context) {
	q := schedule.Query{
		Status:     c.Query("status"),
		Specialty:  c.Query("specialty"),
		DoctorName: c.Query("doctor"),
		DateFrom:   c.Query("from"),
		DateTo:     c.Query("to"),
		Text:       c.Query("q"),
	}
	overview, err := h.Booking.AdminOverview(c.Request.Context(), q)
	if err != nil {
		utils.RespondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// UpdateStatusHandler applies a lifecycle transition. Patients may only
// cancel their own appointments; doctors and admins may apply any legal
// transition.
func (h *Handler) UpdateStatusHandler(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Sesión no válida", "")
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Estado inválido", err.Error())
		return
	}
	updated, err := h.Booking.UpdateStatus(c.Request.Context(), caller, c.Param("id"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrNotAllowed):
			utils.JSONError(c, http.StatusForbidden, "No tienes permiso para modificar esta cita", "")
		case errors.Is(err, booking.ErrUnknownStatus):
			utils.JSONError(c, http.StatusBadRequest, "Estado desconocido", req.Status)
		default:
			utils.RespondSchedulingError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, updated)
}
