package registrationRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bikereg/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoRegistrationRepo struct {
	coll *mongo.Collection
}

// NewMongoRegistrationRepo returns a repository over the "registrations" collection of db.
func NewMongoRegistrationRepo(db *mongo.Database) (RegistrationRepository, error) {
	repo := &mongoRegistrationRepo{coll: db.Collection("registrations")}
	if err := repo.ensureIndexes(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *mongoRegistrationRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "record.serialNumber", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *mongoRegistrationRepo) Create(ctx context.Context, reg models.StoredRegistration) error {
	if reg.CreatedAt.IsZero() {
		reg.CreatedAt = time.Now()
	}
	_, err := r.coll.InsertOne(ctx, reg)
	return err
}

func (r *mongoRegistrationRepo) GetByID(ctx context.Context, id string) (*models.StoredRegistration, error) {
	var reg models.StoredRegistration
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&reg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrRegistrationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *mongoRegistrationRepo) ListBySerial(ctx context.Context, serial string) ([]models.StoredRegistration, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"record.serialNumber": serial}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var regs []models.StoredRegistration
	if err := cursor.All(ctx, &regs); err != nil {
		return nil, err
	}
	return regs, nil
}
