// File: database/repository/blocked/interface.go
package blockedRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"saludagenda/database"
	"saludagenda/models"
)

// BlockedSlotRepository persists doctor-declared unavailability. Slots are
// inserted and deleted by id, never updated.
type BlockedSlotRepository interface {
	Insert(ctx context.Context, slot models.BlockedSlot) error
	Delete(ctx context.Context, doctorID, slotID string) error
	GetByDoctor(ctx context.Context, doctorID string) ([]models.BlockedSlot, error)
	GetByDoctorAndDate(ctx context.Context, doctorID, date string) ([]models.BlockedSlot, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoBlockedSlotRepo struct {
	coll *mongo.Collection
}

// NewMongoBlockedSlotRepo constructs a MongoDB-backed BlockedSlotRepository.
func NewMongoBlockedSlotRepo() BlockedSlotRepository {
	db := database.MongoClient.Database(database.DatabaseName)
	return &mongoBlockedSlotRepo{
		coll: db.Collection("blocked_slots"),
	}
}
