// File: database/repository/user/interface.go
package userRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"saludagenda/database"
	"saludagenda/models"
)

// UserRepository persists accounts and serves the doctor/specialty catalogs.
type UserRepository interface {
	Create(ctx context.Context, user models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ListDoctors(ctx context.Context, specialty string) ([]models.Doctor, error)
	ListSpecialties(ctx context.Context) ([]string, error)
	AddSpecialty(ctx context.Context, name string) error
	EnsureIndexes(ctx context.Context) error
}

type mongoUserRepo struct {
	coll     *mongo.Collection
	specColl *mongo.Collection
}

// NewMongoUserRepo constructs a MongoDB-backed UserRepository.
func NewMongoUserRepo() UserRepository {
	db := database.MongoClient.Database(database.DatabaseName)
	return &mongoUserRepo{
		coll:     db.Collection("users"),
		specColl: db.Collection("specialties"),
	}
}
