// File: database/repository/appointment/crud.go
package appointmentRepo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"saludagenda/models"
	"saludagenda/services/schedule"
)

// ErrSlotTaken means the store found the doctor's slot already occupied when
// the write landed. Callers treat it as a booking conflict.
var ErrSlotTaken = errors.New("appointment slot already taken")

// ErrNotFound means no appointment matches the given id.
var ErrNotFound = errors.New("appointment not found")

var activeStatuses = []string{models.StatusPending, models.StatusConfirmed, models.StatusAttended}

// Insert persists a new appointment. Availability is re-verified here, at the
// point of commit: a check-and-set against active appointments whose implicit
// slot overlaps the candidate's, with the unique index from EnsureIndexes as
// the backstop for same-start races.
func (r *mongoAppointmentRepo) Insert(ctx context.Context, appt models.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	timeCond := bson.M{"$lt": models.AddMinutes(appt.Time, schedule.DefaultSlotMinutes)}
	if lower, floored := models.SubMinutes(appt.Time, schedule.DefaultSlotMinutes); floored {
		// The window reached back past midnight; the floor itself is inside
		// it, so the bound must be inclusive.
		timeCond["$gte"] = lower
	} else {
		timeCond["$gt"] = lower
	}
	window := bson.M{
		"doctorId": appt.DoctorID,
		"date":     appt.Date,
		"status":   bson.M{"$in": activeStatuses},
		"time":     timeCond,
	}
	count, err := r.coll.CountDocuments(ctx, window)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrSlotTaken
	}

	if _, err := r.coll.InsertOne(ctx, appt); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrSlotTaken
		}
		return err
	}
	return nil
}

func (r *mongoAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var appt models.Appointment
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&appt)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &appt, nil
}

func (r *mongoAppointmentRepo) GetByDoctorAndDate(ctx context.Context, doctorID, date string) ([]models.Appointment, error) {
	return r.find(ctx, bson.M{"doctorId": doctorID, "date": date})
}

func (r *mongoAppointmentRepo) GetByPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	return r.find(ctx, bson.M{"patientId": patientID})
}

func (r *mongoAppointmentRepo) GetAll(ctx context.Context) ([]models.Appointment, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongoAppointmentRepo) find(ctx context.Context, filter bson.M) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var appts []models.Appointment
	if err := cursor.All(ctx, &appts); err != nil {
		return nil, err
	}
	return appts, nil
}

// UpdateStatus writes an already-validated status and returns the updated
// document. The write is conditional on the status the caller validated
// against: if another transition landed in between, the filter misses and
// the change is rejected instead of overwriting a terminal state.
func (r *mongoAppointmentRepo) UpdateStatus(ctx context.Context, id, from, to string) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": to, "updatedAt": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Appointment
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id, "status": from}, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Either the id is unknown or the status moved under us.
			current, getErr := r.GetByID(ctx, id)
			if getErr != nil {
				return nil, getErr
			}
			return nil, &schedule.InvalidTransitionError{From: current.Status, To: to}
		}
		return nil, err
	}
	return &updated, nil
}
