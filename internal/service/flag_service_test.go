package service

import (
	"context"
	"testing"

	"forgefit/coach-engine/internal/domain"
	"forgefit/coach-engine/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type recordingOverrideRepo struct {
	overrides map[string]domain.UserFlagOverride
}

func newRecordingOverrideRepo() *recordingOverrideRepo {
	return &recordingOverrideRepo{overrides: map[string]domain.UserFlagOverride{}}
}

func (r *recordingOverrideRepo) key(userID primitive.ObjectID, flagName string) string {
	return userID.Hex() + "/" + flagName
}

func (r *recordingOverrideRepo) Get(_ context.Context, userID primitive.ObjectID, flagName string) (*domain.UserFlagOverride, error) {
	o, ok := r.overrides[r.key(userID, flagName)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &o, nil
}

func (r *recordingOverrideRepo) Upsert(_ context.Context, override *domain.UserFlagOverride) error {
	r.overrides[r.key(override.UserID, override.FlagName)] = *override
	return nil
}

func (r *recordingOverrideRepo) Delete(_ context.Context, userID primitive.ObjectID, flagName string) error {
	key := r.key(userID, flagName)
	if _, ok := r.overrides[key]; !ok {
		return repository.ErrNotFound
	}
	delete(r.overrides, key)
	return nil
}

func newFlagServiceFixture() (FlagService, *fakeFlagRepo, *recordingOverrideRepo) {
	flagRepo := &fakeFlagRepo{flags: map[string]domain.FeatureFlag{}}
	overrideRepo := newRecordingOverrideRepo()
	return NewFlagService(flagRepo, overrideRepo), flagRepo, overrideRepo
}

func TestUpdateFlag_UpsertsAndReturnsState(t *testing.T) {
	svc, _, _ := newFlagServiceFixture()

	flag, err := svc.UpdateFlag(context.Background(), "phoenix_pipeline_enabled", FlagUpdate{
		IsEnabled:         true,
		RolloutPercentage: 25,
		Metadata:          map[string]string{"owner": "coaching"},
	})
	require.NoError(t, err)
	assert.Equal(t, "phoenix_pipeline_enabled", flag.Name)
	assert.True(t, flag.IsEnabled)
	assert.Equal(t, 25, flag.RolloutPercentage)
	assert.Equal(t, "coaching", flag.Metadata["owner"])
}

func TestUpdateFlag_Validation(t *testing.T) {
	svc, _, _ := newFlagServiceFixture()

	_, err := svc.UpdateFlag(context.Background(), "", FlagUpdate{})
	assert.ErrorIs(t, err, ErrFlagNameRequired)

	_, err = svc.UpdateFlag(context.Background(), "f", FlagUpdate{RolloutPercentage: 101})
	assert.ErrorIs(t, err, ErrInvalidRollout)

	_, err = svc.UpdateFlag(context.Background(), "f", FlagUpdate{RolloutPercentage: -1})
	assert.ErrorIs(t, err, ErrInvalidRollout)

	_, err = svc.UpdateFlag(context.Background(), "f", FlagUpdate{
		AdminOverrideEnabled:  true,
		AdminOverrideDisabled: true,
	})
	assert.ErrorIs(t, err, ErrConflictingOverrides)
}

func TestGetFlag_NotFound(t *testing.T) {
	svc, _, _ := newFlagServiceFixture()

	_, err := svc.GetFlag(context.Background(), "does_not_exist")
	assert.ErrorIs(t, err, ErrFlagNotFound)
}

func TestListFlags(t *testing.T) {
	svc, flagRepo, _ := newFlagServiceFixture()
	flagRepo.flags["a"] = domain.FeatureFlag{Name: "a"}
	flagRepo.flags["b"] = domain.FeatureFlag{Name: "b"}

	flagList, err := svc.ListFlags(context.Background())
	require.NoError(t, err)
	assert.Len(t, flagList, 2)
}

func TestSetUserOverride(t *testing.T) {
	svc, _, overrideRepo := newFlagServiceFixture()
	userID := primitive.NewObjectID()

	err := svc.SetUserOverride(context.Background(), userID, "phoenix_pipeline_enabled", true, "beta tester")
	require.NoError(t, err)

	stored, err := overrideRepo.Get(context.Background(), userID, "phoenix_pipeline_enabled")
	require.NoError(t, err)
	assert.True(t, stored.IsEnabled)
	assert.Equal(t, "beta tester", stored.Reason)
}

func TestSetUserOverride_Validation(t *testing.T) {
	svc, _, _ := newFlagServiceFixture()

	err := svc.SetUserOverride(context.Background(), primitive.NilObjectID, "f", true, "")
	assert.ErrorIs(t, err, ErrOverrideUserIDRequired)

	err = svc.SetUserOverride(context.Background(), primitive.NewObjectID(), "", true, "")
	assert.ErrorIs(t, err, ErrFlagNameRequired)
}

func TestClearUserOverride(t *testing.T) {
	svc, _, overrideRepo := newFlagServiceFixture()
	userID := primitive.NewObjectID()
	require.NoError(t, svc.SetUserOverride(context.Background(), userID, "f", false, "opt out"))

	require.NoError(t, svc.ClearUserOverride(context.Background(), userID, "f"))
	_, err := overrideRepo.Get(context.Background(), userID, "f")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// Clearing again is a no-op, not an error.
	assert.NoError(t, svc.ClearUserOverride(context.Background(), userID, "f"))
}
