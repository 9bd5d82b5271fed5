// File: database/repository/appointment/interface.go
package appointmentRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"saludagenda/database"
	"saludagenda/models"
)

// AppointmentRepository is the persistence collaborator for appointments.
// Insert re-verifies slot availability at write time: the in-memory check a
// dashboard runs before the network round trip can be stale, so the store is
// the single arbiter of races.
type AppointmentRepository interface {
	Insert(ctx context.Context, appt models.Appointment) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	GetByDoctorAndDate(ctx context.Context, doctorID, date string) ([]models.Appointment, error)
	GetByPatient(ctx context.Context, patientID string) ([]models.Appointment, error)
	GetAll(ctx context.Context) ([]models.Appointment, error)
	UpdateStatus(ctx context.Context, id, from, to string) (*models.Appointment, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo constructs a MongoDB-backed AppointmentRepository.
func NewMongoAppointmentRepo() AppointmentRepository {
	db := database.MongoClient.Database(database.DatabaseName)
	return &mongoAppointmentRepo{
		coll: db.Collection("appointments"),
	}
}
