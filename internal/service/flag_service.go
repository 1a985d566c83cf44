package service

import (
	"context"
	"errors"

	"forgefit/coach-engine/internal/domain"
	"forgefit/coach-engine/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrFlagNotFound           = errors.New("feature flag not found")
	ErrInvalidRollout         = errors.New("rollout percentage must be between 0 and 100")
	ErrConflictingOverrides   = errors.New("admin override cannot be both enabled and disabled")
	ErrFlagNameRequired       = errors.New("flag name is required")
	ErrOverrideUserIDRequired = errors.New("override requires a user ID")
)

// FlagUpdate carries the administrative settings for one flag write.
type FlagUpdate struct {
	IsEnabled             bool
	RolloutPercentage     int
	AdminOverrideEnabled  bool
	AdminOverrideDisabled bool
	Metadata              map[string]string
}

// FlagService is the administrative interface for rollout flags and
// per-user overrides. Routing decisions themselves live in the flags router.
type FlagService interface {
	ListFlags(ctx context.Context) ([]domain.FeatureFlag, error)
	GetFlag(ctx context.Context, name string) (*domain.FeatureFlag, error)
	UpdateFlag(ctx context.Context, name string, update FlagUpdate) (*domain.FeatureFlag, error)
	SetUserOverride(ctx context.Context, userID primitive.ObjectID, flagName string, enabled bool, reason string) error
	ClearUserOverride(ctx context.Context, userID primitive.ObjectID, flagName string) error
}

// flagService implements the FlagService interface.
type flagService struct {
	flagRepo     repository.FeatureFlagRepository
	overrideRepo repository.FlagOverrideRepository
}

// NewFlagService creates a new instance of flagService.
func NewFlagService(flagRepo repository.FeatureFlagRepository, overrideRepo repository.FlagOverrideRepository) FlagService {
	return &flagService{
		flagRepo:     flagRepo,
		overrideRepo: overrideRepo,
	}
}

func (s *flagService) ListFlags(ctx context.Context) ([]domain.FeatureFlag, error) {
	return s.flagRepo.List(ctx)
}

func (s *flagService) GetFlag(ctx context.Context, name string) (*domain.FeatureFlag, error) {
	flag, err := s.flagRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFlagNotFound
		}
		return nil, err
	}
	return flag, nil
}

// UpdateFlag upserts a flag's configuration. The admin override pair is a
// tri-state: at most one side may be set.
func (s *flagService) UpdateFlag(ctx context.Context, name string, update FlagUpdate) (*domain.FeatureFlag, error) {
	if name == "" {
		return nil, ErrFlagNameRequired
	}
	if update.RolloutPercentage < 0 || update.RolloutPercentage > 100 {
		return nil, ErrInvalidRollout
	}
	if update.AdminOverrideEnabled && update.AdminOverrideDisabled {
		return nil, ErrConflictingOverrides
	}

	flag := &domain.FeatureFlag{
		Name:                  name,
		IsEnabled:             update.IsEnabled,
		RolloutPercentage:     update.RolloutPercentage,
		AdminOverrideEnabled:  update.AdminOverrideEnabled,
		AdminOverrideDisabled: update.AdminOverrideDisabled,
		Metadata:              update.Metadata,
	}
	if err := s.flagRepo.Upsert(ctx, flag); err != nil {
		return nil, err
	}
	return s.flagRepo.GetByName(ctx, name)
}

func (s *flagService) SetUserOverride(ctx context.Context, userID primitive.ObjectID, flagName string, enabled bool, reason string) error {
	if userID == primitive.NilObjectID {
		return ErrOverrideUserIDRequired
	}
	if flagName == "" {
		return ErrFlagNameRequired
	}
	override := &domain.UserFlagOverride{
		UserID:    userID,
		FlagName:  flagName,
		IsEnabled: enabled,
		Reason:    reason,
	}
	return s.overrideRepo.Upsert(ctx, override)
}

func (s *flagService) ClearUserOverride(ctx context.Context, userID primitive.ObjectID, flagName string) error {
	err := s.overrideRepo.Delete(ctx, userID, flagName)
	if errors.Is(err, repository.ErrNotFound) {
		// Clearing a non-existent override is a no-op, not an error.
		return nil
	}
	return err
}
