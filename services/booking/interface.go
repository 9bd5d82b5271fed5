package booking

import (
	"context"
	"time"

	appointmentRepo "saludagenda/database/repository/appointment"
	blockedRepo "saludagenda/database/repository/blocked"
	userRepo "saludagenda/database/repository/user"
	"saludagenda/models"
	"saludagenda/services/schedule"
)

// Service is the scheduling engine behind the three dashboards. Conflict
// checks run here before any write for fast feedback; the appointment
// repository re-verifies at commit time and arbitrates races.
type Service interface {
	BookAppointment(ctx context.Context, actor models.User, req models.BookingRequest) (*models.Appointment, error)
	DoctorAgenda(ctx context.Context, doctorID, date, search string) (*models.DoctorAgenda, error)
	PatientAppointments(ctx context.Context, patientID string, now time.Time) (*models.PatientAgenda, error)
	AdminOverview(ctx context.Context, q schedule.Query) (*models.AdminOverview, error)
	UpdateStatus(ctx context.Context, actor models.User, appointmentID, newStatus string) (*models.Appointment, error)
	AddBlockedSlot(ctx context.Context, doctorID string, req models.BlockRequest) (*models.BlockedSlot, error)
	RemoveBlockedSlot(ctx context.Context, actor models.User, slotID string) error
	ListBlockedSlots(ctx context.Context, doctorID string) ([]models.BlockedSlot, error)
	ListDoctors(ctx context.Context, specialty string) ([]models.Doctor, error)
	ListSpecialties(ctx context.Context) ([]string, error)
	AddSpecialty(ctx context.Context, name string) error
}

// ReminderScheduler enqueues an appointment reminder for later delivery.
// The asynq-backed implementation lives in the cron package; a nil scheduler
// disables reminders.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, payload models.ReminderPayload, fireAt time.Time) error
}

// DefaultService implements Service over the Mongo repositories.
type DefaultService struct {
	Appointments appointmentRepo.AppointmentRepository
	Blocks       blockedRepo.BlockedSlotRepository
	Users        userRepo.UserRepository
	Reminders    ReminderScheduler
	Now          func() time.Time
}

func (s *DefaultService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
