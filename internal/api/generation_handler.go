package api

import (
	"errors"
	"net/http"
	"time"

	"forgefit/coach-engine/internal/domain"
	"forgefit/coach-engine/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GenerationHandler holds the generation service dependency.
type GenerationHandler struct {
	generationService service.GenerationService
}

// NewGenerationHandler creates a new GenerationHandler.
func NewGenerationHandler(generationService service.GenerationService) *GenerationHandler {
	return &GenerationHandler{generationService: generationService}
}

// --- DTOs for API (Data Transfer Objects) ---

// CreateJobRequest defines the expected JSON for creating a generation job.
type CreateJobRequest struct {
	ExperienceLevel string                  `json:"experienceLevel" binding:"required,oneof=beginner intermediate advanced"`
	Age             int                     `json:"age" binding:"required,gt=0"`
	PrimaryGoal     string                  `json:"primaryGoal" binding:"required"`
	DaysPerWeek     int                     `json:"daysPerWeek" binding:"required,min=1,max=7"`
	SessionMinutes  int                     `json:"sessionMinutes" binding:"required,min=15"`
	Equipment       []string                `json:"equipment"`
	StressLevel     int                     `json:"stressLevel" binding:"omitempty,min=1,max=10"`
	SleepHours      float64                 `json:"sleepHours" binding:"omitempty,gt=0"`
	InjuryNotes     string                  `json:"injuryNotes"`
	StrengthProfile *StrengthProfileRequest `json:"strengthProfile"`
}

type StrengthProfileRequest struct {
	SquatKg         *float64 `json:"squatKg" binding:"omitempty,gt=0"`
	BenchKg         *float64 `json:"benchKg" binding:"omitempty,gt=0"`
	DeadliftKg      *float64 `json:"deadliftKg" binding:"omitempty,gt=0"`
	OverheadPressKg *float64 `json:"overheadPressKg" binding:"omitempty,gt=0"`
}

// JobResponse is the DTO for returning job state.
type JobResponse struct {
	ID           string                    `json:"id"`
	Status       domain.JobStatus          `json:"status"`
	Artifact     *domain.TrainingProgram   `json:"artifact,omitempty"`
	Warnings     []domain.ValidationIssue  `json:"warnings,omitempty"`
	ModelVersion string                    `json:"modelVersion,omitempty"`
	Enrichment   *domain.EnrichmentSummary `json:"enrichment,omitempty"`
	Error        string                    `json:"error,omitempty"`
	CreatedAt    time.Time                 `json:"createdAt"`
	UpdatedAt    time.Time                 `json:"updatedAt"`
}

// MapJobToResponse converts a domain.GenerationJob to JobResponse DTO.
// The artifact and warnings are only surfaced on completed jobs, the error
// only on failed ones.
func MapJobToResponse(job *domain.GenerationJob) JobResponse {
	if job == nil {
		return JobResponse{}
	}
	resp := JobResponse{
		ID:        job.ID.Hex(),
		Status:    job.Status,
		CreatedAt: job.CreatedAt,
		UpdatedAt: job.UpdatedAt,
	}
	switch job.Status {
	case domain.JobStatusCompleted:
		resp.Artifact = job.Artifact
		resp.Warnings = job.Warnings
		resp.ModelVersion = job.ModelVersion
		resp.Enrichment = job.EnrichmentMetadata
	case domain.JobStatusFailed:
		resp.Error = job.Error
	}
	return resp
}

// --- Handler Methods ---

// CreateJob creates a new pending generation job from the caller's
// onboarding answers.
func (h *GenerationHandler) CreateJob(c *gin.Context) {
	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userID, ok := callerID(c)
	if !ok {
		return
	}

	snapshot := domain.OnboardingSnapshot{
		ExperienceLevel: req.ExperienceLevel,
		Age:             req.Age,
		PrimaryGoal:     req.PrimaryGoal,
		DaysPerWeek:     req.DaysPerWeek,
		SessionMinutes:  req.SessionMinutes,
		Equipment:       req.Equipment,
		StressLevel:     req.StressLevel,
		SleepHours:      req.SleepHours,
		InjuryNotes:     req.InjuryNotes,
	}
	if req.StrengthProfile != nil {
		snapshot.StrengthProfile = &domain.StrengthProfile{
			SquatKg:         req.StrengthProfile.SquatKg,
			BenchKg:         req.StrengthProfile.BenchKg,
			DeadliftKg:      req.StrengthProfile.DeadliftKg,
			OverheadPressKg: req.StrengthProfile.OverheadPressKg,
		}
	}

	job, err := h.generationService.CreateJob(c.Request.Context(), userID, snapshot)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create generation job.")
		return
	}

	c.JSON(http.StatusCreated, MapJobToResponse(job))
}

// Dispatch triggers generation for a job. Returns 202 when processing has
// started, 200 with the artifact when the job already completed, and 409
// when a generation is already in flight.
func (h *GenerationHandler) Dispatch(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	jobID, err := primitive.ObjectIDFromHex(c.Param("jobId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid job ID format.")
		return
	}

	result, err := h.generationService.RequestGeneration(c.Request.Context(), userID, jobID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrJobNotFound):
			abortWithError(c, http.StatusNotFound, "Generation job not found.")
		case errors.Is(err, service.ErrNotJobOwner):
			abortWithError(c, http.StatusForbidden, "Generation job does not belong to you.")
		case errors.Is(err, service.ErrAlreadyProcessing):
			abortWithError(c, http.StatusConflict, "Generation already in progress for this job.")
		case errors.Is(err, service.ErrQueueFull):
			abortWithError(c, http.StatusServiceUnavailable, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to dispatch generation.")
		}
		return
	}

	if result.Outcome == service.DispatchAlreadyCompleted {
		c.JSON(http.StatusOK, gin.H{
			"accepted": false,
			"status":   string(domain.JobStatusCompleted),
			"job":      MapJobToResponse(result.Job),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"accepted": true,
		"status":   string(domain.JobStatusProcessing),
	})
}

// GetJob returns the current state of a job; callers poll this until a
// terminal state is reached.
func (h *GenerationHandler) GetJob(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	jobID, err := primitive.ObjectIDFromHex(c.Param("jobId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid job ID format.")
		return
	}

	job, err := h.generationService.GetJob(c.Request.Context(), userID, jobID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrJobNotFound):
			abortWithError(c, http.StatusNotFound, "Generation job not found.")
		case errors.Is(err, service.ErrNotJobOwner):
			abortWithError(c, http.StatusForbidden, "Generation job does not belong to you.")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve job.")
		}
		return
	}

	c.JSON(http.StatusOK, MapJobToResponse(job))
}

// ListJobs returns the caller's jobs, newest first.
func (h *GenerationHandler) ListJobs(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	jobs, err := h.generationService.ListJobs(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve jobs.")
		return
	}

	responses := make([]JobResponse, len(jobs))
	for i := range jobs {
		responses[i] = MapJobToResponse(&jobs[i])
	}
	c.JSON(http.StatusOK, responses)
}

// ExportProgram returns a temporary download URL for the archived artifact
// of a completed job.
func (h *GenerationHandler) ExportProgram(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	jobID, err := primitive.ObjectIDFromHex(c.Param("jobId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid job ID format.")
		return
	}

	url, err := h.generationService.GetExportURL(c.Request.Context(), userID, jobID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrJobNotFound):
			abortWithError(c, http.StatusNotFound, "Generation job not found.")
		case errors.Is(err, service.ErrNotJobOwner):
			abortWithError(c, http.StatusForbidden, "Generation job does not belong to you.")
		case errors.Is(err, service.ErrJobNotCompleted):
			abortWithError(c, http.StatusConflict, "Job has not completed yet.")
		case errors.Is(err, service.ErrArtifactMissing):
			abortWithError(c, http.StatusNotFound, "No archived program for this job.")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to generate download URL.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"downloadUrl": url})
}

// callerID extracts and parses the authenticated user's ID, aborting the
// request on failure.
func callerID(c *gin.Context) (primitive.ObjectID, bool) {
	userIDStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format in token.")
		return primitive.NilObjectID, false
	}
	return userID, true
}
