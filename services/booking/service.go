package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appointmentRepo "saludagenda/database/repository/appointment"
	"saludagenda/models"
	"saludagenda/services/schedule"
	"saludagenda/utils"
)

// ErrDoctorNotFound means the requested doctor id is unknown or the account
// is not a doctor.
var ErrDoctorNotFound = errors.New("doctor not found")

// ErrUnknownStatus means the requested status is outside the lifecycle.
var ErrUnknownStatus = errors.New("unknown appointment status")

// ErrInvalidInput wraps malformed date or time values in a request.
var ErrInvalidInput = errors.New("invalid request")

func validateBookingRequest(req models.BookingRequest) error {
	if !models.ValidDate(req.Date) {
		return fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", ErrInvalidInput, req.Date)
	}
	if !models.ValidTimeOfDay(req.Time) {
		return fmt.Errorf("%w: invalid time %q, expected HH:MM", ErrInvalidInput, req.Time)
	}
	return nil
}

// BookAppointment books a slot. Patients book for themselves; a doctor or
// admin actor may name another patient in the request. The day's blocked
// slots and active appointments are fetched first and the candidate's
// implicit slot is checked against them; the repository repeats the check at
// write time, so a stale read here can reject early but never double-book.
func (s *DefaultService) BookAppointment(ctx context.Context, actor models.User, req models.BookingRequest) (*models.Appointment, error) {
	logger := utils.GetLogger()

	if err := validateBookingRequest(req); err != nil {
		return nil, err
	}

	patient := actor
	if req.PatientID != "" && req.PatientID != actor.ID {
		if actor.Role == models.RolePatient {
			return nil, ErrNotAllowed
		}
		other, err := s.Users.GetByID(ctx, req.PatientID)
		if err != nil {
			return nil, fmt.Errorf("unknown patient %q: %w", req.PatientID, err)
		}
		patient = *other
	}

	doctor, err := s.Users.GetByID(ctx, req.DoctorID)
	if err != nil || doctor.Role != models.RoleDoctor {
		return nil, ErrDoctorNotFound
	}

	blocks, err := s.Blocks.GetByDoctorAndDate(ctx, req.DoctorID, req.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch blocked slots: %w", err)
	}
	booked, err := s.Appointments.GetByDoctorAndDate(ctx, req.DoctorID, req.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch day appointments: %w", err)
	}

	appt := models.Appointment{
		ID:          uuid.New().String(),
		PatientID:   patient.ID,
		PatientName: patient.Name,
		DoctorID:    doctor.ID,
		DoctorName:  doctor.Name,
		Specialty:   doctor.Specialty,
		Date:        req.Date,
		Time:        req.Time,
		Reason:      strings.TrimSpace(req.Reason),
		Status:      models.StatusPending,
		CreatedAt:   s.now(),
		UpdatedAt:   s.now(),
	}

	candidate := schedule.AppointmentInterval(appt)
	occupied := schedule.OccupiedIntervals(blocks, booked)
	if err := schedule.CheckCandidate(candidate, occupied); err != nil {
		return nil, err
	}

	if err := s.Appointments.Insert(ctx, appt); err != nil {
		if errors.Is(err, appointmentRepo.ErrSlotTaken) {
			// Lost the race between our read and the write; surface it the
			// same way as the advisory check.
			return nil, &schedule.ConflictError{Candidate: candidate, Existing: candidate}
		}
		return nil, err
	}

	s.scheduleReminder(ctx, appt)

	logger.Info("appointment booked",
		zap.String("appointmentID", appt.ID),
		zap.String("doctorID", appt.DoctorID),
		zap.String("date", appt.Date),
		zap.String("time", appt.Time))
	return &appt, nil
}

// scheduleReminder enqueues a reminder an hour before the appointment.
// Reminder failures never fail the booking.
func (s *DefaultService) scheduleReminder(ctx context.Context, appt models.Appointment) {
	if s.Reminders == nil {
		return
	}
	at, err := models.Instant(appt.Date, appt.Time)
	if err != nil {
		return
	}
	fireAt := at.Add(-time.Hour)
	if fireAt.Before(s.now()) {
		return
	}
	payload := models.ReminderPayload{
		AppointmentID: appt.ID,
		PatientID:     appt.PatientID,
		DoctorName:    appt.DoctorName,
		Date:          appt.Date,
		Time:          appt.Time,
	}
	if err := s.Reminders.ScheduleReminder(ctx, payload, fireAt); err != nil {
		utils.GetLogger().Warn("failed to schedule reminder",
			zap.String("appointmentID", appt.ID), zap.Error(err))
	}
}

// DoctorAgenda returns a doctor's day: appointments (optionally narrowed by
// the dashboard search box), per-status tallies over the full day, and the
// day's blocked slots.
func (s *DefaultService) DoctorAgenda(ctx context.Context, doctorID, date, search string) (*models.DoctorAgenda, error) {
	if !models.ValidDate(date) {
		return nil, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", ErrInvalidInput, date)
	}
	appts, err := s.Appointments.GetByDoctorAndDate(ctx, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch day appointments: %w", err)
	}
	blocks, err := s.Blocks.GetByDoctorAndDate(ctx, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch blocked slots: %w", err)
	}

	schedule.SortByDateTime(appts, true)
	return &models.DoctorAgenda{
		Date:         date,
		Appointments: schedule.SearchDay(appts, search),
		Blocks:       blocks,
		Stats:        schedule.CountByStatus(appts),
	}, nil
}

// PatientAppointments partitions the patient's appointments into upcoming
// and history views.
func (s *DefaultService) PatientAppointments(ctx context.Context, patientID string, now time.Time) (*models.PatientAgenda, error) {
	appts, err := s.Appointments.GetByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch patient appointments: %w", err)
	}
	agenda := schedule.Partition(appts, now)
	return &agenda, nil
}

// AdminOverview filters the full appointment listing and computes the KPI
// totals the admin dashboard renders. Catalogs are derived from all observed
// appointments, not from a master list.
func (s *DefaultService) AdminOverview(ctx context.Context, q schedule.Query) (*models.AdminOverview, error) {
	appts, err := s.Appointments.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch appointments: %w", err)
	}

	filtered := schedule.Filter(appts, q)
	doctors, specialties, statuses := schedule.Catalogs(appts)

	return &models.AdminOverview{
		Appointments: filtered,
		Total:        len(filtered),
		ByDoctor:     schedule.CountBy(filtered, func(a models.Appointment) string { return a.DoctorName }),
		BySpecialty:  schedule.CountBy(filtered, func(a models.Appointment) string { return a.Specialty }),
		ByStatus:     schedule.CountByStatus(filtered),
		Doctors:      doctors,
		Specialties:  specialties,
		Statuses:     statuses,
	}, nil
}

// ErrNotAllowed means the actor may not change this appointment: patients
// can only cancel, and only their own bookings.
var ErrNotAllowed = errors.New("not allowed to modify this appointment")

// UpdateStatus applies a lifecycle transition and persists it. Every role,
// admin included, goes through the same guard: terminal states stay terminal.
func (s *DefaultService) UpdateStatus(ctx context.Context, actor models.User, appointmentID, newStatus string) (*models.Appointment, error) {
	if !models.KnownStatus(newStatus) {
		return nil, ErrUnknownStatus
	}
	appt, err := s.Appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	switch actor.Role {
	case models.RolePatient:
		if appt.PatientID != actor.ID || newStatus != models.StatusCancelled {
			return nil, ErrNotAllowed
		}
	case models.RoleDoctor:
		if appt.DoctorID != actor.ID {
			return nil, ErrNotAllowed
		}
	}
	validated, err := schedule.ApplyTransition(*appt, newStatus, s.now())
	if err != nil {
		return nil, err
	}
	updated, err := s.Appointments.UpdateStatus(ctx, appointmentID, appt.Status, validated.Status)
	if err != nil {
		return nil, err
	}
	utils.GetLogger().Info("appointment status updated",
		zap.String("appointmentID", appointmentID),
		zap.String("from", appt.Status),
		zap.String("to", newStatus))
	return updated, nil
}

// ListDoctors lists doctor accounts, optionally narrowed to one specialty.
func (s *DefaultService) ListDoctors(ctx context.Context, specialty string) ([]models.Doctor, error) {
	return s.Users.ListDoctors(ctx, specialty)
}

// ListSpecialties lists the specialty catalog.
func (s *DefaultService) ListSpecialties(ctx context.Context) ([]string, error) {
	return s.Users.ListSpecialties(ctx)
}

// AddSpecialty registers a new specialty name. Blank names are rejected.
func (s *DefaultService) AddSpecialty(ctx context.Context, name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return errors.New("specialty name is required")
	}
	return s.Users.AddSpecialty(ctx, trimmed)
}
