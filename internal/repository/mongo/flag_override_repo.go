package mongo

import (
	"context"
	"errors"
	"time"

	"forgefit/coach-engine/internal/domain"
	"forgefit/coach-engine/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const flagOverrideCollectionName = "user_flag_overrides"

// mongoFlagOverrideRepository implements repository.FlagOverrideRepository
type mongoFlagOverrideRepository struct {
	collection *mongo.Collection
}

// NewMongoFlagOverrideRepository creates a new flag override repository.
func NewMongoFlagOverrideRepository(db *mongo.Database) repository.FlagOverrideRepository {
	return &mongoFlagOverrideRepository{
		collection: db.Collection(flagOverrideCollectionName),
	}
}

// Get retrieves the override for (userId, flagName), if any.
func (r *mongoFlagOverrideRepository) Get(ctx context.Context, userID primitive.ObjectID, flagName string) (*domain.UserFlagOverride, error) {
	var override domain.UserFlagOverride
	filter := bson.M{"userId": userID, "flagName": flagName}
	err := r.collection.FindOne(ctx, filter).Decode(&override)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &override, nil
}

// Upsert writes an override keyed by (userId, flagName).
func (r *mongoFlagOverrideRepository) Upsert(ctx context.Context, override *domain.UserFlagOverride) error {
	if override.UserID == primitive.NilObjectID || override.FlagName == "" {
		return errors.New("override requires userId and flagName")
	}
	now := time.Now().UTC()

	filter := bson.M{"userId": override.UserID, "flagName": override.FlagName}
	updateDoc := bson.M{
		"$set": bson.M{
			"isEnabled": override.IsEnabled,
			"reason":    override.Reason,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{
			"userId":    override.UserID,
			"flagName":  override.FlagName,
			"createdAt": now,
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, updateDoc, opts)
	return err
}

// Delete removes the override for (userId, flagName).
func (r *mongoFlagOverrideRepository) Delete(ctx context.Context, userID primitive.ObjectID, flagName string) error {
	filter := bson.M{"userId": userID, "flagName": flagName}
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureFlagOverrideIndexes creates necessary indexes. Call during startup.
func EnsureFlagOverrideIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// One override per (user, flag).
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "flagName", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
