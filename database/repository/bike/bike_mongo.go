package bikeRepo

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

// MongoBikeRepo implements BikeRepository using MongoDB.
type MongoBikeRepo struct {
	coll *mongo.Collection
}

// NewMongoBikeRepo returns a repository over the "bikes" collection of db.
func NewMongoBikeRepo(db *mongo.Database) (BikeRepository, error) {
	repo := &MongoBikeRepo{coll: db.Collection("bikes")}
	if err := repo.ensureIndexes(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *MongoBikeRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "serialNumber", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoBikeRepo) GetBySerial(ctx context.Context, serial string) (*models.Bike, error) {
	var bike models.Bike
	err := r.coll.FindOne(ctx, bson.M{"serialNumber": NormalizeSerial(serial)}).Decode(&bike)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrBikeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bike %s: %w", serial, err)
	}
	return &bike, nil
}

func (r *MongoBikeRepo) Upsert(ctx context.Context, bike models.Bike) error {
	bike.SerialNumber = NormalizeSerial(bike.SerialNumber)
	if bike.CreatedAt.IsZero() {
		bike.CreatedAt = time.Now()
	}
	_, err := r.coll.ReplaceOne(ctx,
		bson.M{"serialNumber": bike.SerialNumber},
		bike,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert bike %s: %w", bike.SerialNumber, err)
	}
	return nil
}
