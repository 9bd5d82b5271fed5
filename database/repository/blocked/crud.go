// File: database/repository/blocked/crud.go
package blockedRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"saludagenda/models"
)

// ErrNotFound means no blocked slot matches the given id.
var ErrNotFound = errors.New("blocked slot not found")

func (r *mongoBlockedSlotRepo) Insert(ctx context.Context, slot models.BlockedSlot) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if slot.ID == "" {
		slot.ID = uuid.New().String()
	}
	_, err := r.coll.InsertOne(ctx, slot)
	return err
}

// Delete removes a slot by id. A non-empty doctorID scopes the delete to
// that doctor's own slots; a miss either way reports ErrNotFound.
func (r *mongoBlockedSlotRepo) Delete(ctx context.Context, doctorID, slotID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": slotID}
	if doctorID != "" {
		filter["doctorId"] = doctorID
	}
	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoBlockedSlotRepo) GetByDoctor(ctx context.Context, doctorID string) ([]models.BlockedSlot, error) {
	return r.find(ctx, bson.M{"doctorId": doctorID})
}

func (r *mongoBlockedSlotRepo) GetByDoctorAndDate(ctx context.Context, doctorID, date string) ([]models.BlockedSlot, error) {
	return r.find(ctx, bson.M{"doctorId": doctorID, "date": date})
}

func (r *mongoBlockedSlotRepo) find(ctx context.Context, filter bson.M) ([]models.BlockedSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var slots []models.BlockedSlot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// EnsureIndexes creates the indexes on the blocked_slots collection.
func (r *mongoBlockedSlotRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "doctorId", Value: 1}, {Key: "date", Value: 1}, {Key: "start", Value: 1}},
			Options: options.Index().SetName("doctor_date_start_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create blocked slot indexes: %w", err)
	}
	return nil
}
