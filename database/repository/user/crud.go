// File: database/repository/user/crud.go
package userRepo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"saludagenda/models"
)

// ErrNotFound means no account matches the lookup.
var ErrNotFound = errors.New("user not found")

// ErrEmailTaken means an account with that email already exists.
var ErrEmailTaken = errors.New("email already registered")

func (r *mongoUserRepo) Create(ctx context.Context, user models.User) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		return err
	}
	// Doctors feed the specialty catalog as a side effect of registration.
	if user.Role == models.RoleDoctor && user.Specialty != "" {
		return r.AddSpecialty(ctx, user.Specialty)
	}
	return nil
}

func (r *mongoUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *mongoUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoUserRepo) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user models.User
	err := r.coll.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *mongoUserRepo) ListDoctors(ctx context.Context, specialty string) ([]models.Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"role": models.RoleDoctor}
	if specialty != "" {
		filter["specialty"] = specialty
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var doctors []models.Doctor
	if err := cursor.All(ctx, &doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *mongoUserRepo) ListSpecialties(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	values, err := r.specColl.Distinct(ctx, "name", bson.M{})
	if err != nil {
		return nil, err
	}
	specialties := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			specialties = append(specialties, s)
		}
	}
	sort.Strings(specialties)
	return specialties, nil
}

func (r *mongoUserRepo) AddSpecialty(ctx context.Context, name string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"name": name}
	update := bson.M{"$setOnInsert": bson.M{"name": name, "createdAt": time.Now()}}
	_, err := r.specColl.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// EnsureIndexes creates the indexes on the users and specialties collections.
func (r *mongoUserRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_email"),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}, {Key: "specialty", Value: 1}},
			Options: options.Index().SetName("role_specialty_idx"),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}

	specIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_name"),
	}
	if _, err := r.specColl.Indexes().CreateOne(ctx, specIndex); err != nil {
		return fmt.Errorf("failed to create specialty index: %w", err)
	}
	return nil
}
