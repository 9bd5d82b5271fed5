package schedule

import (
	"sort"
	"strings"

	"saludagenda/models"
)

// CountByStatus tallies appointments per status. Keys come from the data,
// not from a fixed enum.
func CountByStatus(appts []models.Appointment) map[string]int {
	return CountBy(appts, func(a models.Appointment) string { return a.Status })
}

// CountBy tallies appointments by an arbitrary key. Empty keys are skipped.
func CountBy(appts []models.Appointment, keyFn func(models.Appointment) string) map[string]int {
	counts := make(map[string]int)
	for _, a := range appts {
		if key := keyFn(a); key != "" {
			counts[key]++
		}
	}
	return counts
}

// Catalogs derives the admin filter dropdowns from observed appointments:
// distinct doctor names and specialties sorted, plus the statuses seen.
func Catalogs(appts []models.Appointment) (doctors, specialties, statuses []string) {
	doctors = distinct(appts, func(a models.Appointment) string { return a.DoctorName }, true)
	specialties = distinct(appts, func(a models.Appointment) string { return a.Specialty }, true)
	statuses = distinct(appts, func(a models.Appointment) string { return a.Status }, false)
	return doctors, specialties, statuses
}

func distinct(appts []models.Appointment, keyFn func(models.Appointment) string, sorted bool) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, a := range appts {
		key := keyFn(a)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	if sorted {
		sort.Strings(out)
	}
	return out
}

// Query narrows an appointment listing. Zero-valued fields are ignored.
type Query struct {
	Status     string
	Specialty  string
	DoctorName string
	DateFrom   string // inclusive, "2006-01-02"
	DateTo     string // inclusive
	Text       string // free text over patient, doctor, specialty, reason, status
}

// Matches reports whether a passes every set criterion of q.
func (q Query) Matches(a models.Appointment) bool {
	if q.Status != "" && a.Status != q.Status {
		return false
	}
	if q.Specialty != "" && a.Specialty != q.Specialty {
		return false
	}
	if q.DoctorName != "" && a.DoctorName != q.DoctorName {
		return false
	}
	if q.DateFrom != "" && a.Date < q.DateFrom {
		return false
	}
	if q.DateTo != "" && a.Date > q.DateTo {
		return false
	}
	if q.Text != "" {
		haystack := strings.ToLower(a.PatientName + " " + a.DoctorName + " " + a.Specialty + " " + a.Reason + " " + a.Status)
		if !strings.Contains(haystack, strings.ToLower(q.Text)) {
			return false
		}
	}
	return true
}

// Filter returns the appointments matching q, sorted ascending by
// (date, time).
func Filter(appts []models.Appointment, q Query) []models.Appointment {
	out := []models.Appointment{}
	for _, a := range appts {
		if q.Matches(a) {
			out = append(out, a)
		}
	}
	SortByDateTime(out, true)
	return out
}

// SearchDay narrows a doctor's day agenda with the dashboard search box:
// free text over patient name, reason and status.
func SearchDay(appts []models.Appointment, text string) []models.Appointment {
	if text == "" {
		return appts
	}
	needle := strings.ToLower(text)
	out := []models.Appointment{}
	for _, a := range appts {
		haystack := strings.ToLower(a.PatientName + " " + a.Reason + " " + a.Status)
		if strings.Contains(haystack, needle) {
			out = append(out, a)
		}
	}
	return out
}
