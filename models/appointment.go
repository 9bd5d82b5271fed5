package models

import "time"

// Appointment statuses as served to the front end. Wire values are Spanish
// because the dashboards render them verbatim.
const (
	StatusPending   = "pendiente"
	StatusConfirmed = "confirmada"
	StatusAttended  = "atendida"
	StatusCancelled = "cancelada"
)

// KnownStatus reports whether s is one of the four appointment statuses.
func KnownStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusAttended, StatusCancelled:
		return true
	}
	return false
}

// Appointment is the canonical booking record shared by the patient, doctor
// and admin views. It is never hard-deleted; cancellation is a status.
type Appointment struct {
	ID          string    `bson:"id" json:"id"`
	PatientID   string    `bson:"patientId" json:"patientId"`
	PatientName string    `bson:"patientName" json:"patientName"`
	DoctorID    string    `bson:"doctorId" json:"doctorId"`
	DoctorName  string    `bson:"doctorName" json:"doctorName"`
	Specialty   string    `bson:"specialty" json:"specialty"`
	Date        string    `bson:"date" json:"date"` // "2006-01-02"
	Time        TimeOfDay `bson:"time" json:"time"` // slot start, "HH:MM"
	Reason      string    `bson:"reason" json:"reason"`
	Status      string    `bson:"status" json:"status"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// BookingRequest is the payload for booking an appointment. PatientID is
// only honored for doctor- or admin-initiated bookings on a patient's
// behalf; patients always book for themselves.
type BookingRequest struct {
	Specialty string `json:"specialty"` // informational; the doctor's record wins
	DoctorID  string `json:"doctorId" binding:"required"`
	Date      string `json:"date" binding:"required"`
	Time      string `json:"time" binding:"required"`
	Reason    string `json:"reason"`
	PatientID string `json:"patientId,omitempty"`
}

// PatientAgenda is the partitioned patient view: upcoming ascending by
// (date, time), history descending. A cancelled future appointment shows in
// neither list.
type PatientAgenda struct {
	Upcoming []Appointment `json:"upcoming"`
	History  []Appointment `json:"history"`
}

// DoctorAgenda is a doctor's single-day view with per-status tallies.
type DoctorAgenda struct {
	Date         string         `json:"date"`
	Appointments []Appointment  `json:"appointments"`
	Blocks       []BlockedSlot  `json:"blocks"`
	Stats        map[string]int `json:"stats"`
}

// AdminOverview is the filtered admin listing plus KPI totals and the
// catalogs observed in the data itself.
type AdminOverview struct {
	Appointments []Appointment  `json:"appointments"`
	Total        int            `json:"total"`
	ByDoctor     map[string]int `json:"byDoctor"`
	BySpecialty  map[string]int `json:"bySpecialty"`
	ByStatus     map[string]int `json:"byStatus"`
	Doctors      []string       `json:"doctors"`
	Specialties  []string       `json:"specialties"`
	Statuses     []string       `json:"statuses"`
}
