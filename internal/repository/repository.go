package repository

import (
	"context"
	"time"

	"forgefit/coach-engine/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrConflict     = RepositoryError("conflicting concurrent update")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// StatusChange carries the fields written together with a job status
// transition. Only non-zero fields are applied.
type StatusChange struct {
	NewStatus          domain.JobStatus
	Artifact           *domain.TrainingProgram
	Warnings           []domain.ValidationIssue
	ModelVersion       string
	EnrichmentMetadata *domain.EnrichmentSummary
	ArchiveObjectKey   string
	Error              string
	ClearError         bool
}

// GenerationJobRepository defines the interface for interacting with
// generation job records. CompareAndSetStatus implements the single-writer
// discipline: the write only applies if the job is still in the expected
// status, otherwise ErrConflict is returned.
type GenerationJobRepository interface {
	Create(ctx context.Context, job *domain.GenerationJob) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.GenerationJob, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.GenerationJob, error)
	CompareAndSetStatus(ctx context.Context, id primitive.ObjectID, expected domain.JobStatus, change StatusChange) error
	FindStaleProcessing(ctx context.Context, olderThan time.Time) ([]domain.GenerationJob, error)
}

// FeatureFlagRepository defines read/write access to global flag records,
// keyed by name.
type FeatureFlagRepository interface {
	GetByName(ctx context.Context, name string) (*domain.FeatureFlag, error)
	List(ctx context.Context) ([]domain.FeatureFlag, error)
	Upsert(ctx context.Context, flag *domain.FeatureFlag) error
}

// FlagOverrideRepository defines access to per-user flag overrides, keyed by
// (userId, flagName) with upsert-on-write semantics.
type FlagOverrideRepository interface {
	Get(ctx context.Context, userID primitive.ObjectID, flagName string) (*domain.UserFlagOverride, error)
	Upsert(ctx context.Context, override *domain.UserFlagOverride) error
	Delete(ctx context.Context, userID primitive.ObjectID, flagName string) error
}
