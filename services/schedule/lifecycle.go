package schedule

import (
	"sort"
	"time"

	"saludagenda/models"
)

// transitions maps each status to the set it may move to. A doctor can mark
// a pending appointment attended directly; "confirmada" is not a mandatory
// stop. "atendida" and "cancelada" are terminal.
var transitions = map[string][]string{
	models.StatusPending:   {models.StatusConfirmed, models.StatusAttended, models.StatusCancelled},
	models.StatusConfirmed: {models.StatusAttended, models.StatusCancelled},
	models.StatusAttended:  {},
	models.StatusCancelled: {},
}

// CanTransition reports whether newStatus is reachable from current. A no-op
// transition (current == newStatus) is not reachable.
func CanTransition(current, newStatus string) bool {
	for _, allowed := range transitions[current] {
		if allowed == newStatus {
			return true
		}
	}
	return false
}

// ApplyTransition returns a copy of a with the new status applied, or an
// InvalidTransitionError when the change is not reachable from the current
// status. The input is never modified.
func ApplyTransition(a models.Appointment, newStatus string, now time.Time) (models.Appointment, error) {
	if !CanTransition(a.Status, newStatus) {
		return a, &InvalidTransitionError{From: a.Status, To: newStatus}
	}
	updated := a
	updated.Status = newStatus
	updated.UpdatedAt = now
	return updated, nil
}

// IsUpcoming reports whether a non-cancelled appointment's combined instant
// is at or after now. Unparseable dates count as past.
func IsUpcoming(a models.Appointment, now time.Time) bool {
	if a.Status == models.StatusCancelled {
		return false
	}
	at, err := models.Instant(a.Date, a.Time)
	if err != nil {
		return false
	}
	return !at.Before(now)
}

// Partition splits appointments into the patient's two views. Upcoming holds
// non-cancelled future appointments sorted soonest first; history holds
// everything already past, cancelled or not, most recent first. A cancelled
// appointment in the future lands in neither list.
func Partition(appts []models.Appointment, now time.Time) models.PatientAgenda {
	agenda := models.PatientAgenda{
		Upcoming: []models.Appointment{},
		History:  []models.Appointment{},
	}
	for _, a := range appts {
		if IsUpcoming(a, now) {
			agenda.Upcoming = append(agenda.Upcoming, a)
			continue
		}
		if at, err := models.Instant(a.Date, a.Time); err == nil && at.Before(now) {
			agenda.History = append(agenda.History, a)
		}
	}
	SortByDateTime(agenda.Upcoming, true)
	SortByDateTime(agenda.History, false)
	return agenda
}

// SortByDateTime orders appointments chronologically by (date, time);
// ascending=false reverses.
func SortByDateTime(appts []models.Appointment, ascending bool) {
	sort.SliceStable(appts, func(i, j int) bool {
		ki := appts[i].Date + appts[i].Time
		kj := appts[j].Date + appts[j].Time
		if ascending {
			return ki < kj
		}
		return ki > kj
	})
}
