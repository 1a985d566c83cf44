package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"forgefit/coach-engine/internal/domain"
	"forgefit/coach-engine/internal/enrichment"
	"forgefit/coach-engine/internal/flags"
	"forgefit/coach-engine/internal/generation"
	"forgefit/coach-engine/internal/repository"
	"forgefit/coach-engine/internal/storage"
	"forgefit/coach-engine/internal/validation"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrJobNotFound       = errors.New("generation job not found")
	ErrNotJobOwner       = errors.New("generation job does not belong to this user")
	ErrAlreadyProcessing = errors.New("generation already in progress for this job")
	ErrQueueFull         = errors.New("generation queue is full, try again shortly")
	ErrArtifactMissing   = errors.New("job has no archived artifact")
	ErrJobNotCompleted   = errors.New("job is not completed")
)

// DispatchOutcome tells the caller what a dispatch request did.
type DispatchOutcome string

const (
	// DispatchAccepted means processing has started; poll the job status.
	DispatchAccepted DispatchOutcome = "accepted"
	// DispatchAlreadyCompleted means the job already holds a valid artifact
	// and no new work was started.
	DispatchAlreadyCompleted DispatchOutcome = "already_completed"
)

// DispatchResult is returned synchronously from RequestGeneration.
type DispatchResult struct {
	Outcome DispatchOutcome
	Job     *domain.GenerationJob
}

// JobQueue hands a job off to the background dispatch pool. Enqueue must not
// block the request path; a saturated queue returns an error instead.
type JobQueue interface {
	Enqueue(jobID primitive.ObjectID) error
}

// GenerationService owns the generation job lifecycle: creation, the
// dispatch state machine, status reads, and program export.
type GenerationService interface {
	CreateJob(ctx context.Context, userID primitive.ObjectID, snapshot domain.OnboardingSnapshot) (*domain.GenerationJob, error)
	RequestGeneration(ctx context.Context, userID, jobID primitive.ObjectID) (*DispatchResult, error)
	GetJob(ctx context.Context, userID, jobID primitive.ObjectID) (*domain.GenerationJob, error)
	ListJobs(ctx context.Context, userID primitive.ObjectID) ([]domain.GenerationJob, error)
	GetExportURL(ctx context.Context, userID, jobID primitive.ObjectID) (string, error)

	// Process runs the detached unit of work for a job already transitioned
	// to processing. Called by the worker pool, never by request handlers.
	Process(ctx context.Context, jobID primitive.ObjectID)
}

// generationService implements the GenerationService interface.
type generationService struct {
	jobRepo     repository.GenerationJobRepository
	flagRouter  *flags.Router
	generator   generation.Generator
	guardian    *validation.Guardian
	archive     storage.ArtifactArchive
	queue       JobQueue
	retryPolicy generation.RetryPolicy
}

// NewGenerationService creates a new instance of generationService.
// archive may be nil when no export bucket is configured.
func NewGenerationService(
	jobRepo repository.GenerationJobRepository,
	flagRouter *flags.Router,
	generator generation.Generator,
	guardian *validation.Guardian,
	archive storage.ArtifactArchive,
	queue JobQueue,
	retryPolicy generation.RetryPolicy,
) GenerationService {
	return &generationService{
		jobRepo:     jobRepo,
		flagRouter:  flagRouter,
		generator:   generator,
		guardian:    guardian,
		archive:     archive,
		queue:       queue,
		retryPolicy: retryPolicy,
	}
}

// === Job creation and reads ===

// CreateJob records a new pending job with an immutable snapshot of the
// onboarding answers.
func (s *generationService) CreateJob(ctx context.Context, userID primitive.ObjectID, snapshot domain.OnboardingSnapshot) (*domain.GenerationJob, error) {
	if userID == primitive.NilObjectID {
		return nil, errors.New("user ID is required")
	}

	job := &domain.GenerationJob{
		UserID:        userID,
		Status:        domain.JobStatusPending,
		InputSnapshot: snapshot,
	}
	id, err := s.jobRepo.Create(ctx, job)
	if err != nil {
		return nil, err
	}
	job.ID = id
	return job, nil
}

// GetJob loads a job and verifies ownership.
func (s *generationService) GetJob(ctx context.Context, userID, jobID primitive.ObjectID) (*domain.GenerationJob, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	if job.UserID != userID {
		return nil, ErrNotJobOwner
	}
	return job, nil
}

// ListJobs returns all jobs owned by the user, newest first.
func (s *generationService) ListJobs(ctx context.Context, userID primitive.ObjectID) ([]domain.GenerationJob, error) {
	return s.jobRepo.GetByUserID(ctx, userID)
}

// === Dispatch state machine ===

// RequestGeneration starts processing for a job and returns immediately.
// Repeat calls are idempotent: a processing job yields a conflict, a
// completed job returns the existing artifact without new work, and a
// failed job is retried from scratch.
func (s *generationService) RequestGeneration(ctx context.Context, userID, jobID primitive.ObjectID) (*DispatchResult, error) {
	job, err := s.GetJob(ctx, userID, jobID)
	if err != nil {
		return nil, err
	}

	switch job.Status {
	case domain.JobStatusProcessing:
		return nil, ErrAlreadyProcessing
	case domain.JobStatusCompleted:
		return &DispatchResult{Outcome: DispatchAlreadyCompleted, Job: job}, nil
	}

	// Pending or Failed: claim the transition to processing. The conditional
	// write is what stops two concurrent dispatches from both starting work.
	change := repository.StatusChange{
		NewStatus:  domain.JobStatusProcessing,
		ClearError: true,
	}
	if err := s.jobRepo.CompareAndSetStatus(ctx, jobID, job.Status, change); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAlreadyProcessing
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}

	if err := s.queue.Enqueue(jobID); err != nil {
		// Undo the claim so the caller can retry; a job must never sit in
		// processing with no worker attached.
		revert := repository.StatusChange{
			NewStatus: domain.JobStatusFailed,
			Error:     "dispatch queue saturated, re-submit the request",
		}
		if revertErr := s.jobRepo.CompareAndSetStatus(ctx, jobID, domain.JobStatusProcessing, revert); revertErr != nil {
			log.Printf("ERROR: failed to revert job %s after queue rejection: %v", jobID.Hex(), revertErr)
		}
		return nil, ErrQueueFull
	}

	job.Status = domain.JobStatusProcessing
	job.Error = ""
	return &DispatchResult{Outcome: DispatchAccepted, Job: job}, nil
}

// === Detached unit of work ===

// Process executes enrichment, the retried generator call, and guardian
// validation for one claimed job. Every failure path lands in the job's
// error field; nothing escapes that could leave the job stuck in processing.
func (s *generationService) Process(ctx context.Context, jobID primitive.ObjectID) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: panic while processing job %s: %v", jobID.Hex(), r)
			s.failJob(ctx, jobID, fmt.Sprintf("internal error: %v", r))
		}
	}()

	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		log.Printf("ERROR: worker could not load job %s: %v", jobID.Hex(), err)
		return
	}
	if job.Status != domain.JobStatusProcessing {
		// The watchdog or an operator already moved it; stale queue entry.
		log.Printf("WARN: job %s no longer processing (status %s), skipping", jobID.Hex(), job.Status)
		return
	}

	strategy := generation.StrategyLegacy
	if s.flagRouter.Decide(ctx, job.UserID, generation.PhoenixFlagName) {
		strategy = generation.StrategyPhoenix
	}

	enriched := enrichment.Enrich(job.InputSnapshot)
	prompt := generation.BuildPrompt(strategy, job.InputSnapshot, enriched)

	type attempt struct {
		program      *domain.TrainingProgram
		modelVersion string
	}

	// Malformed output counts as a failed attempt: the generator is
	// non-deterministic, so asking again can genuinely succeed.
	result, err := generation.Retry(ctx, s.retryPolicy, func(ctx context.Context) (attempt, error) {
		resp, err := s.generator.Generate(ctx, prompt)
		if err != nil {
			return attempt{}, err
		}
		program, err := generation.ParseArtifact(resp.Text)
		if err != nil {
			return attempt{}, err
		}
		return attempt{program: program, modelVersion: resp.ModelVersion}, nil
	})
	if err != nil {
		s.failJob(ctx, jobID, err.Error())
		return
	}

	verdict := s.guardian.Validate(result.program)
	if !verdict.IsValid {
		// Invalid output is never persisted as a usable artifact. This is
		// terminal until the caller re-triggers; identical inputs may still
		// succeed against the non-deterministic service.
		s.failJob(ctx, jobID, "generated program failed validation: "+summarizeIssues(verdict.Errors))
		return
	}

	archiveKey := s.archiveArtifact(ctx, job, result.program)

	change := repository.StatusChange{
		NewStatus:    domain.JobStatusCompleted,
		Artifact:     result.program,
		Warnings:     verdict.Warnings,
		ModelVersion: result.modelVersion,
		EnrichmentMetadata: &domain.EnrichmentSummary{
			Strategy:           strategy,
			PeriodizationModel: enriched.PeriodizationModel,
			VolumeTolerance:    enriched.Profile.VolumeTolerance,
			RecoveryCapacity:   enriched.Profile.RecoveryCapacity,
			WeakPoints:         weakPointLabels(enriched.WeakPoints),
		},
		ArchiveObjectKey: archiveKey,
	}
	if err := s.jobRepo.CompareAndSetStatus(ctx, jobID, domain.JobStatusProcessing, change); err != nil {
		log.Printf("ERROR: failed to complete job %s: %v", jobID.Hex(), err)
	}
}

// failJob transitions a processing job to failed with a diagnostic message.
func (s *generationService) failJob(ctx context.Context, jobID primitive.ObjectID, message string) {
	change := repository.StatusChange{
		NewStatus: domain.JobStatusFailed,
		Error:     message,
	}
	if err := s.jobRepo.CompareAndSetStatus(ctx, jobID, domain.JobStatusProcessing, change); err != nil {
		log.Printf("ERROR: failed to mark job %s failed: %v", jobID.Hex(), err)
	}
}

// archiveArtifact uploads the program JSON to the export bucket. Archival is
// best effort; a failure is logged and the job still completes.
func (s *generationService) archiveArtifact(ctx context.Context, job *domain.GenerationJob, program *domain.TrainingProgram) string {
	if s.archive == nil {
		return ""
	}
	body, err := json.Marshal(program)
	if err != nil {
		log.Printf("ERROR: failed to serialize artifact for job %s: %v", job.ID.Hex(), err)
		return ""
	}
	objectKey := path.Join("programs", job.UserID.Hex(), job.ID.Hex(), uuid.NewString()+".json")
	if err := s.archive.PutArtifact(ctx, objectKey, body); err != nil {
		return ""
	}
	return objectKey
}

// === Program export ===

// GetExportURL returns a temporary download URL for the archived artifact of
// a completed job.
func (s *generationService) GetExportURL(ctx context.Context, userID, jobID primitive.ObjectID) (string, error) {
	job, err := s.GetJob(ctx, userID, jobID)
	if err != nil {
		return "", err
	}
	if job.Status != domain.JobStatusCompleted {
		return "", ErrJobNotCompleted
	}
	if s.archive == nil || job.ArchiveObjectKey == "" {
		return "", ErrArtifactMissing
	}
	return s.archive.GeneratePresignedDownloadURL(ctx, job.ArchiveObjectKey, storage.DefaultPresignedURLExpiry)
}

// === Helpers ===

const maxSummarizedIssues = 3

func summarizeIssues(issues []domain.ValidationIssue) string {
	msgs := make([]string, 0, maxSummarizedIssues)
	for i, issue := range issues {
		if i == maxSummarizedIssues {
			msgs = append(msgs, fmt.Sprintf("and %d more", len(issues)-maxSummarizedIssues))
			break
		}
		msgs = append(msgs, issue.Message)
	}
	return strings.Join(msgs, "; ")
}

func weakPointLabels(analysis *domain.WeakPointAnalysis) []string {
	if analysis == nil {
		return nil
	}
	return analysis.WeakPoints
}

// FailStaleJobs marks jobs stuck in processing beyond the ceiling as failed
// with a timeout error. Called by the watchdog.
func FailStaleJobs(ctx context.Context, jobRepo repository.GenerationJobRepository, ceiling time.Duration) {
	cutoff := time.Now().Add(-ceiling)
	stale, err := jobRepo.FindStaleProcessing(ctx, cutoff)
	if err != nil {
		log.Printf("ERROR: watchdog failed to scan for stale jobs: %v", err)
		return
	}
	for _, job := range stale {
		change := repository.StatusChange{
			NewStatus: domain.JobStatusFailed,
			Error:     fmt.Sprintf("generation timed out after %s", ceiling),
		}
		if err := jobRepo.CompareAndSetStatus(ctx, job.ID, domain.JobStatusProcessing, change); err != nil {
			if !errors.Is(err, repository.ErrConflict) {
				log.Printf("ERROR: watchdog failed to time out job %s: %v", job.ID.Hex(), err)
			}
			continue
		}
		log.Printf("WARN: job %s timed out after %s, marked failed", job.ID.Hex(), ceiling)
	}
}
