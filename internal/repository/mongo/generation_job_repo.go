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

const generationJobCollectionName = "generation_jobs"

// mongoGenerationJobRepository implements repository.GenerationJobRepository
type mongoGenerationJobRepository struct {
	collection *mongo.Collection
}

// NewMongoGenerationJobRepository creates a new generation job repository.
func NewMongoGenerationJobRepository(db *mongo.Database) repository.GenerationJobRepository {
	return &mongoGenerationJobRepository{
		collection: db.Collection(generationJobCollectionName),
	}
}

// Create inserts a new job in pending state.
func (r *mongoGenerationJobRepository) Create(ctx context.Context, job *domain.GenerationJob) (primitive.ObjectID, error) {
	if job.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("job requires userId")
	}
	job.ID = primitive.NewObjectID()
	if job.Status == "" {
		job.Status = domain.JobStatusPending
	}
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, job)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted job ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single job by its ID.
func (r *mongoGenerationJobRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.GenerationJob, error) {
	var job domain.GenerationJob
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&job)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

// GetByUserID retrieves all jobs owned by a user, newest first.
func (r *mongoGenerationJobRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.GenerationJob, error) {
	var jobs []domain.GenerationJob
	filter := bson.M{"userId": userID}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &jobs); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return jobs, nil
}

// CompareAndSetStatus transitions a job's status only if the record is still
// in the expected status. A MatchedCount of zero means another writer got
// there first (or the job vanished) and surfaces as ErrConflict, which is
// what enforces the one-active-generation-per-job invariant.
func (r *mongoGenerationJobRepository) CompareAndSetStatus(ctx context.Context, id primitive.ObjectID, expected domain.JobStatus, change repository.StatusChange) error {
	if change.NewStatus == "" {
		return errors.New("status change requires a new status")
	}

	filter := bson.M{"_id": id, "status": expected}

	set := bson.M{
		"status":    change.NewStatus,
		"updatedAt": time.Now().UTC(),
	}
	if change.Artifact != nil {
		set["artifact"] = change.Artifact
	}
	if change.Warnings != nil {
		set["warnings"] = change.Warnings
	}
	if change.ModelVersion != "" {
		set["modelVersion"] = change.ModelVersion
	}
	if change.EnrichmentMetadata != nil {
		set["enrichmentMetadata"] = change.EnrichmentMetadata
	}
	if change.ArchiveObjectKey != "" {
		set["archiveObjectKey"] = change.ArchiveObjectKey
	}
	if change.Error != "" {
		set["error"] = change.Error
	}

	updateDoc := bson.M{"$set": set}
	if change.ClearError {
		updateDoc["$unset"] = bson.M{"error": ""}
	}

	result, err := r.collection.UpdateOne(ctx, filter, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		// Distinguish a lost race from a missing job so callers can report
		// NotFound correctly.
		count, countErr := r.collection.CountDocuments(ctx, bson.M{"_id": id})
		if countErr == nil && count == 0 {
			return repository.ErrNotFound
		}
		return repository.ErrConflict
	}
	return nil
}

// FindStaleProcessing returns jobs stuck in processing since before the
// given cutoff. Used by the watchdog.
func (r *mongoGenerationJobRepository) FindStaleProcessing(ctx context.Context, olderThan time.Time) ([]domain.GenerationJob, error) {
	var jobs []domain.GenerationJob
	filter := bson.M{
		"status":    domain.JobStatusProcessing,
		"updatedAt": bson.M{"$lt": olderThan.UTC()},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// EnsureGenerationJobIndexes creates necessary indexes. Call during startup.
func EnsureGenerationJobIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Main listing pattern: a user's jobs, newest first.
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			// Watchdog scan for stale processing jobs.
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "updatedAt", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
