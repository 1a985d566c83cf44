package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JobStatus is the lifecycle state of a generation job.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// IsTerminal reports whether no further transition may leave the status.
// Failed is terminal for the worker but a caller may re-dispatch from it.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// GenerationJob represents one request to produce a training program for a
// user. The onboarding answers are snapshotted at creation so later profile
// edits cannot retroactively change what was generated.
type GenerationJob struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	Status        JobStatus          `bson:"status" json:"status"`
	InputSnapshot OnboardingSnapshot `bson:"inputSnapshot" json:"inputSnapshot"`

	// Set only on completion.
	Artifact           *TrainingProgram   `bson:"artifact,omitempty" json:"artifact,omitempty"`
	Warnings           []ValidationIssue  `bson:"warnings,omitempty" json:"warnings,omitempty"`
	ModelVersion       string             `bson:"modelVersion,omitempty" json:"modelVersion,omitempty"`
	EnrichmentMetadata *EnrichmentSummary `bson:"enrichmentMetadata,omitempty" json:"enrichmentMetadata,omitempty"`
	ArchiveObjectKey   string             `bson:"archiveObjectKey,omitempty" json:"-"`

	// Set only on failure.
	Error string `bson:"error,omitempty" json:"error,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// OnboardingSnapshot is the immutable copy of the onboarding answers a job
// was created with.
type OnboardingSnapshot struct {
	ExperienceLevel  string           `bson:"experienceLevel" json:"experienceLevel"` // "beginner", "intermediate", "advanced"
	Age              int              `bson:"age" json:"age"`
	PrimaryGoal      string           `bson:"primaryGoal" json:"primaryGoal"` // free text, e.g. "build muscle"
	DaysPerWeek      int              `bson:"daysPerWeek" json:"daysPerWeek"`
	SessionMinutes   int              `bson:"sessionMinutes" json:"sessionMinutes"`
	Equipment        []string         `bson:"equipment,omitempty" json:"equipment,omitempty"`
	StressLevel      int              `bson:"stressLevel,omitempty" json:"stressLevel,omitempty"` // 1-10 self report
	SleepHours       float64          `bson:"sleepHours,omitempty" json:"sleepHours,omitempty"`
	InjuryNotes      string           `bson:"injuryNotes,omitempty" json:"injuryNotes,omitempty"`
	StrengthProfile  *StrengthProfile `bson:"strengthProfile,omitempty" json:"strengthProfile,omitempty"`
}

// StrengthProfile holds estimated one-rep maxes for the core lifts, in kg.
// All four must be present for weak-point analysis to run.
type StrengthProfile struct {
	SquatKg         *float64 `bson:"squatKg,omitempty" json:"squatKg,omitempty"`
	BenchKg         *float64 `bson:"benchKg,omitempty" json:"benchKg,omitempty"`
	DeadliftKg      *float64 `bson:"deadliftKg,omitempty" json:"deadliftKg,omitempty"`
	OverheadPressKg *float64 `bson:"overheadPressKg,omitempty" json:"overheadPressKg,omitempty"`
}

// Complete reports whether all four core-lift estimates are present.
func (p *StrengthProfile) Complete() bool {
	if p == nil {
		return false
	}
	return p.SquatKg != nil && p.BenchKg != nil && p.DeadliftKg != nil && p.OverheadPressKg != nil
}

// EnrichmentSummary is the informational record of what conditioned a
// completed generation, stored alongside the artifact.
type EnrichmentSummary struct {
	Strategy           string   `bson:"strategy" json:"strategy"` // "legacy" or "phoenix"
	PeriodizationModel string   `bson:"periodizationModel" json:"periodizationModel"`
	VolumeTolerance    float64  `bson:"volumeTolerance" json:"volumeTolerance"`
	RecoveryCapacity   float64  `bson:"recoveryCapacity" json:"recoveryCapacity"`
	WeakPoints         []string `bson:"weakPoints,omitempty" json:"weakPoints,omitempty"`
}
