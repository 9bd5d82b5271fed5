package models

import "time"

// Account roles. The dashboards are role-specific views over the same data.
const (
	RolePatient = "paciente"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
)

// User is an account of any role. Doctors carry a specialty.
type User struct {
	ID           string    `bson:"id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	Phone        string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Role         string    `bson:"role" json:"role"`
	Specialty    string    `bson:"specialty,omitempty" json:"specialty,omitempty"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Doctor is the public listing shape used by the booking form.
type Doctor struct {
	ID        string `bson:"id" json:"id"`
	Name      string `bson:"name" json:"name"`
	Specialty string `bson:"specialty" json:"specialty"`
}

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
	Password  string `json:"password" binding:"required,min=8"`
	Role      string `json:"role"`
	Specialty string `json:"specialty"`
}

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Session is the authenticated response: a signed token plus the public user.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ReminderPayload is the asynq task body for appointment reminders.
type ReminderPayload struct {
	AppointmentID string `json:"appointmentId"`
	PatientID     string `json:"patientId"`
	DoctorName    string `json:"doctorName"`
	Date          string `json:"date"`
	Time          string `json:"time"`
}
