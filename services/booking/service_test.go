package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appointmentRepo "saludagenda/database/repository/appointment"
	blockedRepo "saludagenda/database/repository/blocked"
	userRepo "saludagenda/database/repository/user"
	"saludagenda/models"
	"saludagenda/services/schedule"
)

type fakeAppointmentRepo struct {
	appts       map[string]models.Appointment
	insertErr   error
	insertCalls int
	afterGet    func()
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appts: map[string]models.Appointment{}}
}

func (f *fakeAppointmentRepo) Insert(ctx context.Context, appt models.Appointment) error {
	f.insertCalls++
	if f.insertErr != nil {
		return f.insertErr
	}
	f.appts[appt.ID] = appt
	return nil
}

func (f *fakeAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	a, ok := f.appts[id]
	if !ok {
		return nil, appointmentRepo.ErrNotFound
	}
	if f.afterGet != nil {
		f.afterGet()
	}
	return &a, nil
}

// GetByDoctorAndDate returns every status, cancelled included, matching the
// store's query.
func (f *fakeAppointmentRepo) GetByDoctorAndDate(ctx context.Context, doctorID, date string) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range f.appts {
		if a.DoctorID == doctorID && a.Date == date {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) GetByPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range f.appts {
		if a.PatientID == patientID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) GetAll(ctx context.Context) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, a := range f.appts {
		out = append(out, a)
	}
	return out, nil
}

// UpdateStatus mirrors the store's conditional write: the change only lands
// when the record still holds the status the caller validated against.
func (f *fakeAppointmentRepo) UpdateStatus(ctx context.Context, id, from, to string) (*models.Appointment, error) {
	a, ok := f.appts[id]
	if !ok {
		return nil, appointmentRepo.ErrNotFound
	}
	if a.Status != from {
		return nil, &schedule.InvalidTransitionError{From: a.Status, To: to}
	}
	a.Status = to
	a.UpdatedAt = time.Now()
	f.appts[id] = a
	return &a, nil
}

func (f *fakeAppointmentRepo) EnsureIndexes(ctx context.Context) error { return nil }

type fakeBlockedRepo struct {
	slots map[string]models.BlockedSlot
}

func newFakeBlockedRepo() *fakeBlockedRepo {
	return &fakeBlockedRepo{slots: map[string]models.BlockedSlot{}}
}

func (f *fakeBlockedRepo) Insert(ctx context.Context, slot models.BlockedSlot) error {
	f.slots[slot.ID] = slot
	return nil
}

func (f *fakeBlockedRepo) Delete(ctx context.Context, doctorID, slotID string) error {
	s, ok := f.slots[slotID]
	if !ok || (doctorID != "" && s.DoctorID != doctorID) {
		return blockedRepo.ErrNotFound
	}
	delete(f.slots, slotID)
	return nil
}

func (f *fakeBlockedRepo) GetByDoctor(ctx context.Context, doctorID string) ([]models.BlockedSlot, error) {
	var out []models.BlockedSlot
	for _, s := range f.slots {
		if s.DoctorID == doctorID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeBlockedRepo) GetByDoctorAndDate(ctx context.Context, doctorID, date string) ([]models.BlockedSlot, error) {
	var out []models.BlockedSlot
	for _, s := range f.slots {
		if s.DoctorID == doctorID && s.Date == date {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeBlockedRepo) EnsureIndexes(ctx context.Context) error { return nil }

type fakeUserRepo struct {
	users map[string]models.User
}

func newFakeUserRepo(users ...models.User) *fakeUserRepo {
	f := &fakeUserRepo{users: map[string]models.User{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) Create(ctx context.Context, user models.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, userRepo.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, userRepo.ErrNotFound
}

func (f *fakeUserRepo) ListDoctors(ctx context.Context, specialty string) ([]models.Doctor, error) {
	var out []models.Doctor
	for _, u := range f.users {
		if u.Role != models.RoleDoctor {
			continue
		}
		if specialty != "" && u.Specialty != specialty {
			continue
		}
		out = append(out, models.Doctor{ID: u.ID, Name: u.Name, Specialty: u.Specialty})
	}
	return out, nil
}

func (f *fakeUserRepo) ListSpecialties(ctx context.Context) ([]string, error) { return nil, nil }

func (f *fakeUserRepo) AddSpecialty(ctx context.Context, name string) error { return nil }

func (f *fakeUserRepo) EnsureIndexes(ctx context.Context) error { return nil }

var (
	drGarcia = models.User{ID: "d-201", Name: "Dra. García", Role: models.RoleDoctor, Specialty: "Cardiología"}
	drLopez  = models.User{ID: "d-202", Name: "Dr. López", Role: models.RoleDoctor, Specialty: "Pediatría"}
	ana      = models.User{ID: "p-1", Name: "Ana Pérez", Role: models.RolePatient}
	bruno    = models.User{ID: "p-2", Name: "Bruno Díaz", Role: models.RolePatient}
	adminU   = models.User{ID: "a-1", Name: "Admin", Role: models.RoleAdmin}
)

func newTestService() (*DefaultService, *fakeAppointmentRepo, *fakeBlockedRepo) {
	appts := newFakeAppointmentRepo()
	blocks := newFakeBlockedRepo()
	users := newFakeUserRepo(drGarcia, drLopez, ana, bruno, adminU)
	svc := &DefaultService{
		Appointments: appts,
		Blocks:       blocks,
		Users:        users,
		Now:          func() time.Time { return time.Date(2025, 10, 1, 9, 0, 0, 0, time.Local) },
	}
	return svc, appts, blocks
}

func TestBookAppointment(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	appt, err := svc.BookAppointment(ctx, ana, models.BookingRequest{
		DoctorID: drGarcia.ID,
		Date:     "2025-10-22",
		Time:     "09:00",
		Reason:   "Chequeo anual",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, appt.Status)
	assert.Equal(t, ana.ID, appt.PatientID)
	assert.Equal(t, "Dra. García", appt.DoctorName)
	assert.Equal(t, "Cardiología", appt.Specialty)
}

func TestBookAppointmentConflictsWithBookedSlot(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	_, err := svc.BookAppointment(ctx, ana, models.BookingRequest{
		DoctorID: drGarcia.ID, Date: "2025-10-22", Time: "09:00",
	})
	require.NoError(t, err)

	// 09:15 falls inside the implicit 09:00-09:30 slot.
	_, err = svc.BookAppointment(ctx, bruno, models.BookingRequest{
		DoctorID: drGarcia.ID, Date: "2025-10-22", Time: "09:15",
	})
	var conflict *schedule.ConflictError
	require.ErrorAs(t, err, &conflict)

	// The adjacent slot is free.
	_, err = svc.BookAppointment(ctx, bruno, models.BookingRequest{
		DoctorID: drGarcia.ID, Date: "2025-10-22", Time: "09:30",
	})
	assert.NoError(t, err)
}

func TestBookAppointmentConflictsWithBlock(t *testing.T) {
	ctx := context.Background()
	svc, _, blocks := newTestService()

	blocks.slots["b-1"] = models.BlockedSlot{
		ID: "b-1", DoctorID: drGarcia.ID, Date: "2025-10-22", Start: "12:00", End: "14:00",
	}

	_, err := svc.BookAppointment(ctx, ana, models.BookingRequest{
		DoctorID: drGarcia.ID, Date: "2025-10-22", Time: "13:00",
	})
	var conflict *schedule.ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestBookAppointmentCancelledSlotIsFree(t *testing.T) {
	ctx := context.Background()
	svc, appts, _ := newTestService()

	first, err := svc.BookAppointment(ctx, ana, models.BookingRequest{
		DoctorID: drGarcia.ID, Date: "2025-10-22", Time: "10:00",
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, ana, first.ID, models.StatusCancelled)
	require.NoError(t, err)
	require.Equal(t, models.StatusCancelled, appts.appts[first.ID].Status)

	_, err = svc.BookAppointment(ctx, bruno, models.BookingRequest{
		DoctorID: drGarcia.ID, Date: "2025-10-22", Time: "10:00",
	})
	assert.NoError(t, err)
}

func TestBookAppointmentLostWriteRace(t *testing.T) {
	ctx := context.Background()
	svc, appts, _ := newTestService()
	appts.insertErr = appointmentRepo.ErrSlotTaken

	_, err := svc.BookAppointment(ctx, ana, models.BookingRequest{
		DoctorID: drGarcia.ID, Date: "2025-10-22", Time: "09:00",
	})
	var conflict *schedule.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, 1, appts.insertCalls)
}

func TestBookAppointmentValidation(t *testing.T) {
	ctx := context.Background()
	svc, appts, _ := newTestService()

	_, err := svc.BookAppointment(ctx, ana, models.BookingRequest{
		DoctorID: drGarcia.ID, Date: "22/10/2025", Time: "09:00",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.BookAppointment(ctx, ana, models.BookingRequest{
		DoctorID: drGarcia.ID, Date: "2025-10-22", Time: "9:00",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.BookAppointment(ctx, ana, models.BookingRequest{
		DoctorID: "nadie", Date: "2025-10-22", Time: "09:00",
	})
	assert.ErrorIs(t, err, ErrDoctorNotFound)

	assert.Zero(t, appts.insertCalls)
}

func TestBookAppointmentOnBehalf(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	// A patient may not book for someone else.
	_, err := svc.BookAppointment(ctx, ana, models.BookingRequest{
		DoctorID: drGarcia.ID, PatientID: bruno.ID, Date: "2025-10-22", Time: "09:00",
	})
	assert.ErrorIs(t, err, ErrNotAllowed)

	// An admin may.
	appt, err := svc.BookAppointment(ctx, adminU, models.BookingRequest{
		DoctorID: drGarcia.ID, PatientID: bruno.ID, Date: "2025-10-22", Time: "09:00",
	})
	require.NoError(t, err)
	assert.Equal(t, bruno.ID, appt.PatientID)
	assert.Equal(t, "Bruno Díaz", appt.PatientName)
}

func TestUpdateStatusGuards(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	appt, err := svc.BookAppointment(ctx, ana, models.BookingRequest{
		DoctorID: drGarcia.ID, Date: "2025-10-22", Time: "09:00",
	})
	require.NoError(t, err)

	// Another patient cannot touch it.
	_, err = svc.UpdateStatus(ctx, bruno, appt.ID, models.StatusCancelled)
	assert.ErrorIs(t, err, ErrNotAllowed)

	// The owner can only cancel, not confirm.
	_, err = svc.UpdateStatus(ctx, ana, appt.ID, models.StatusConfirmed)
	assert.ErrorIs(t, err, ErrNotAllowed)

	// The doctor confirms, then marks attended.
	updated, err := svc.UpdateStatus(ctx, drGarcia, appt.ID, models.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, updated.Status)

	updated, err = svc.UpdateStatus(ctx, drGarcia, appt.ID, models.StatusAttended)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAttended, updated.Status)

	// Attended is terminal, even for an admin.
	_, err = svc.UpdateStatus(ctx, adminU, appt.ID, models.StatusCancelled)
	var transition *schedule.InvalidTransitionError
	require.ErrorAs(t, err, &transition)
}

func TestUpdateStatusConcurrentTransitionRejected(t *testing.T) {
	ctx := context.Background()
	svc, appts, _ := newTestService()

	appt, err := svc.BookAppointment(ctx, ana, models.BookingRequest{
		DoctorID: drGarcia.ID, Date: "2025-10-22", Time: "09:00",
	})
	require.NoError(t, err)

	// A cancellation lands between the read and the write; the attend must
	// lose instead of overwriting the terminal state.
	appts.afterGet = func() {
		appts.afterGet = nil
		stored := appts.appts[appt.ID]
		stored.Status = models.StatusCancelled
		appts.appts[appt.ID] = stored
	}
	_, err = svc.UpdateStatus(ctx, drGarcia, appt.ID, models.StatusAttended)
	var transition *schedule.InvalidTransitionError
	require.ErrorAs(t, err, &transition)
	assert.Equal(t, models.StatusCancelled, appts.appts[appt.ID].Status)
}

func TestUpdateStatusUnknown(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	_, err := svc.UpdateStatus(ctx, adminU, "x", "archivada")
	assert.ErrorIs(t, err, ErrUnknownStatus)

	_, err = svc.UpdateStatus(ctx, adminU, "x", models.StatusCancelled)
	assert.ErrorIs(t, err, appointmentRepo.ErrNotFound)
}

func TestAddBlockedSlot(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	slot, err := svc.AddBlockedSlot(ctx, drGarcia.ID, models.BlockRequest{
		Date: "2025-10-22", Start: "12:00", End: "14:00", Note: "Almuerzo",
	})
	require.NoError(t, err)
	assert.Equal(t, drGarcia.ID, slot.DoctorID)

	// Overlapping block is rejected.
	_, err = svc.AddBlockedSlot(ctx, drGarcia.ID, models.BlockRequest{
		Date: "2025-10-22", Start: "13:30", End: "15:00",
	})
	var conflict *schedule.ConflictError
	require.ErrorAs(t, err, &conflict)

	// Inverted range is rejected before the conflict scan.
	_, err = svc.AddBlockedSlot(ctx, drGarcia.ID, models.BlockRequest{
		Date: "2025-10-22", Start: "16:00", End: "15:00",
	})
	var badRange *schedule.InvalidRangeError
	require.ErrorAs(t, err, &badRange)
}

func TestAddBlockedSlotOverBookedAppointment(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	_, err := svc.BookAppointment(ctx, ana, models.BookingRequest{
		DoctorID: drGarcia.ID, Date: "2025-10-22", Time: "09:00",
	})
	require.NoError(t, err)

	// 09:15 overlaps the implicit 09:00-09:30 slot.
	_, err = svc.AddBlockedSlot(ctx, drGarcia.ID, models.BlockRequest{
		Date: "2025-10-22", Start: "09:15", End: "10:00",
	})
	var conflict *schedule.ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestRemoveBlockedSlot(t *testing.T) {
	ctx := context.Background()
	svc, _, blocks := newTestService()
	blocks.slots["b-1"] = models.BlockedSlot{ID: "b-1", DoctorID: drGarcia.ID}

	require.NoError(t, svc.RemoveBlockedSlot(ctx, drGarcia, "b-1"))
	assert.ErrorIs(t, svc.RemoveBlockedSlot(ctx, drGarcia, "b-1"), blockedRepo.ErrNotFound)
}

func TestRemoveBlockedSlotOwnAgendaOnly(t *testing.T) {
	ctx := context.Background()
	svc, _, blocks := newTestService()
	blocks.slots["b-1"] = models.BlockedSlot{ID: "b-1", DoctorID: drGarcia.ID}

	// Another doctor's delete must not touch the slot.
	assert.ErrorIs(t, svc.RemoveBlockedSlot(ctx, drLopez, "b-1"), blockedRepo.ErrNotFound)
	assert.Contains(t, blocks.slots, "b-1")

	// An admin deletes unscoped.
	require.NoError(t, svc.RemoveBlockedSlot(ctx, adminU, "b-1"))
	assert.Empty(t, blocks.slots)
}

func TestDoctorAgenda(t *testing.T) {
	ctx := context.Background()
	svc, _, blocks := newTestService()

	for _, tm := range []string{"10:00", "09:00", "11:00"} {
		patient := ana
		if tm == "11:00" {
			patient = bruno
		}
		_, err := svc.BookAppointment(ctx, patient, models.BookingRequest{
			DoctorID: drGarcia.ID, Date: "2025-10-22", Time: tm, Reason: "Control",
		})
		require.NoError(t, err)
	}
	blocks.slots["b-1"] = models.BlockedSlot{
		ID: "b-1", DoctorID: drGarcia.ID, Date: "2025-10-22", Start: "12:00", End: "13:00",
	}

	agenda, err := svc.DoctorAgenda(ctx, drGarcia.ID, "2025-10-22", "")
	require.NoError(t, err)
	require.Len(t, agenda.Appointments, 3)
	assert.Equal(t, "09:00", agenda.Appointments[0].Time)
	assert.Equal(t, "11:00", agenda.Appointments[2].Time)
	assert.Len(t, agenda.Blocks, 1)
	assert.Equal(t, 3, agenda.Stats[models.StatusPending])

	// A cancelled appointment stays visible on the day view and in the
	// tallies; only its slot is released.
	_, err = svc.UpdateStatus(ctx, ana, agenda.Appointments[0].ID, models.StatusCancelled)
	require.NoError(t, err)
	agenda, err = svc.DoctorAgenda(ctx, drGarcia.ID, "2025-10-22", "")
	require.NoError(t, err)
	require.Len(t, agenda.Appointments, 3)
	assert.Equal(t, 2, agenda.Stats[models.StatusPending])
	assert.Equal(t, 1, agenda.Stats[models.StatusCancelled])

	// Search narrows the listing but not the stats.
	agenda, err = svc.DoctorAgenda(ctx, drGarcia.ID, "2025-10-22", "bruno")
	require.NoError(t, err)
	require.Len(t, agenda.Appointments, 1)
	assert.Equal(t, bruno.ID, agenda.Appointments[0].PatientID)
	assert.Equal(t, 2, agenda.Stats[models.StatusPending])

	_, err = svc.DoctorAgenda(ctx, drGarcia.ID, "mañana", "")
	assert.Error(t, err)
}

func TestPatientAppointmentsPartition(t *testing.T) {
	ctx := context.Background()
	svc, appts, _ := newTestService()
	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.Local)

	seed := []models.Appointment{
		{ID: "a1", PatientID: ana.ID, Date: "2025-10-20", Time: "09:00", Status: models.StatusPending},
		{ID: "a2", PatientID: ana.ID, Date: "2025-10-01", Time: "09:00", Status: models.StatusAttended},
		{ID: "a3", PatientID: ana.ID, Date: "2025-10-25", Time: "09:00", Status: models.StatusCancelled},
	}
	for _, a := range seed {
		appts.appts[a.ID] = a
	}

	agenda, err := svc.PatientAppointments(ctx, ana.ID, now)
	require.NoError(t, err)
	require.Len(t, agenda.Upcoming, 1)
	assert.Equal(t, "a1", agenda.Upcoming[0].ID)
	require.Len(t, agenda.History, 1)
	assert.Equal(t, "a2", agenda.History[0].ID)
}

func TestAdminOverview(t *testing.T) {
	ctx := context.Background()
	svc, appts, _ := newTestService()

	seed := []models.Appointment{
		{ID: "a1", DoctorName: "Dra. García", Specialty: "Cardiología", Date: "2025-10-20", Time: "09:00", Status: models.StatusPending},
		{ID: "a2", DoctorName: "Dra. García", Specialty: "Cardiología", Date: "2025-10-21", Time: "09:00", Status: models.StatusConfirmed},
		{ID: "a3", DoctorName: "Dr. López", Specialty: "Pediatría", Date: "2025-10-22", Time: "09:00", Status: models.StatusPending},
	}
	for _, a := range seed {
		appts.appts[a.ID] = a
	}

	overview, err := svc.AdminOverview(ctx, schedule.Query{})
	require.NoError(t, err)
	assert.Equal(t, 3, overview.Total)
	assert.Equal(t, 2, overview.BySpecialty["Cardiología"])
	assert.Equal(t, 1, overview.BySpecialty["Pediatría"])
	assert.Equal(t, 2, overview.ByStatus[models.StatusPending])
	assert.Equal(t, []string{"Dr. López", "Dra. García"}, overview.Doctors)

	overview, err = svc.AdminOverview(ctx, schedule.Query{Specialty: "Pediatría"})
	require.NoError(t, err)
	assert.Equal(t, 1, overview.Total)
	// Catalogs still reflect every observed appointment.
	assert.Contains(t, overview.Specialties, "Cardiología")
}
