package mongo

import (
	"context"
	"errors"
	"time"

	"forgefit/coach-engine/internal/domain"
	"forgefit/coach-engine/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const featureFlagCollectionName = "feature_flags"

// mongoFeatureFlagRepository implements repository.FeatureFlagRepository
type mongoFeatureFlagRepository struct {
	collection *mongo.Collection
}

// NewMongoFeatureFlagRepository creates a new feature flag repository.
func NewMongoFeatureFlagRepository(db *mongo.Database) repository.FeatureFlagRepository {
	return &mongoFeatureFlagRepository{
		collection: db.Collection(featureFlagCollectionName),
	}
}

// GetByName retrieves a flag by its unique name.
func (r *mongoFeatureFlagRepository) GetByName(ctx context.Context, name string) (*domain.FeatureFlag, error) {
	var flag domain.FeatureFlag
	filter := bson.M{"name": name}
	err := r.collection.FindOne(ctx, filter).Decode(&flag)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &flag, nil
}

// List retrieves all flags, sorted by name.
func (r *mongoFeatureFlagRepository) List(ctx context.Context) ([]domain.FeatureFlag, error) {
	var flags []domain.FeatureFlag
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &flags); err != nil {
		return nil, err
	}
	return flags, nil
}

// Upsert writes a flag's configuration keyed by name, creating it if absent.
func (r *mongoFeatureFlagRepository) Upsert(ctx context.Context, flag *domain.FeatureFlag) error {
	if flag.Name == "" {
		return errors.New("flag name is required")
	}
	now := time.Now().UTC()

	filter := bson.M{"name": flag.Name}
	updateDoc := bson.M{
		"$set": bson.M{
			"isEnabled":             flag.IsEnabled,
			"rolloutPercentage":     flag.RolloutPercentage,
			"adminOverrideEnabled":  flag.AdminOverrideEnabled,
			"adminOverrideDisabled": flag.AdminOverrideDisabled,
			"metadata":              flag.Metadata,
			"updatedAt":             now,
		},
		"$setOnInsert": bson.M{
			"name":      flag.Name,
			"createdAt": now,
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, updateDoc, opts)
	return err
}

// EnsureFeatureFlagIndexes creates necessary indexes. Call during startup.
func EnsureFeatureFlagIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
