// Package schedule holds the scheduling rules shared by every dashboard:
// half-open interval conflict detection over a doctor's day, the appointment
// status machine, and the view aggregations built on top of both. Everything
// here is pure; persistence stays in the repositories.
package schedule

import "saludagenda/models"

// DefaultSlotMinutes is the implicit duration of one appointment. Bookings
// record only a start time, so conflict checks treat every appointment as
// occupying one scheduling unit of this length.
const DefaultSlotMinutes = 30

// Overlaps reports whether two same-date half-open intervals intersect.
// Adjacent intervals (a.End == b.Start) do not overlap. The check is
// symmetric: Overlaps(a, b) == Overlaps(b, a).
func Overlaps(a, b models.TimeInterval) bool {
	return a.Date == b.Date && a.Start < b.End && b.Start < a.End
}

// HasConflict reports whether any existing interval on the candidate's date
// overlaps it. The scan is O(n); a doctor-day holds at most a few dozen
// entries, so no ordering is required of existing.
func HasConflict(candidate models.TimeInterval, existing []models.TimeInterval) bool {
	for _, e := range existing {
		if Overlaps(candidate, e) {
			return true
		}
	}
	return false
}

// ValidateRange enforces the start < end precondition.
func ValidateRange(ti models.TimeInterval) error {
	if ti.Start >= ti.End {
		return &InvalidRangeError{Interval: ti}
	}
	return nil
}

// CheckCandidate validates the candidate's range and then scans existing for
// a collision. A malformed range fails before any overlap is evaluated.
// Blocked slots and appointments carry equal weight: the first overlapping
// interval of either kind rejects the candidate.
func CheckCandidate(candidate models.TimeInterval, existing []models.TimeInterval) error {
	if err := ValidateRange(candidate); err != nil {
		return err
	}
	for _, e := range existing {
		if Overlaps(candidate, e) {
			return &ConflictError{Candidate: candidate, Existing: e}
		}
	}
	return nil
}

// AppointmentInterval expands an appointment's recorded start time into the
// implicit fixed-duration slot used for conflict detection.
func AppointmentInterval(a models.Appointment) models.TimeInterval {
	return models.TimeInterval{
		Date:  a.Date,
		Start: a.Time,
		End:   models.AddMinutes(a.Time, DefaultSlotMinutes),
	}
}

// OccupiedIntervals flattens a doctor-day into the intervals that reject new
// candidates: every blocked slot plus the implicit slot of every booking that
// still holds its time (cancelled appointments release theirs).
func OccupiedIntervals(blocks []models.BlockedSlot, appts []models.Appointment) []models.TimeInterval {
	occupied := make([]models.TimeInterval, 0, len(blocks)+len(appts))
	for _, b := range blocks {
		occupied = append(occupied, b.Interval())
	}
	for _, a := range appts {
		if a.Status == models.StatusCancelled {
			continue
		}
		occupied = append(occupied, AppointmentInterval(a))
	}
	return occupied
}
