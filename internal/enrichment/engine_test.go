package enrichment

import (
	"testing"

	"forgefit/coach-engine/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestEnrich_FullBundle(t *testing.T) {
	snapshot := domain.OnboardingSnapshot{
		ExperienceLevel: "intermediate",
		Age:             34,
		PrimaryGoal:     "build muscle",
		DaysPerWeek:     4,
		SessionMinutes:  60,
		StressLevel:     5,
		SleepHours:      7.5,
		StrengthProfile: &domain.StrengthProfile{
			SquatKg:         floatPtr(140),
			BenchKg:         floatPtr(100),
			DeadliftKg:      floatPtr(180),
			OverheadPressKg: floatPtr(60),
		},
	}

	result := Enrich(snapshot)

	assert.Equal(t, 3.0, result.Profile.TrainingAgeYears)
	assert.Equal(t, 1.0, result.Profile.VolumeTolerance)
	assert.Equal(t, 1.0, result.Profile.RecoveryCapacity)
	assert.Equal(t, 7.5, result.Profile.RecoveryProfile.SleepHours)
	assert.Equal(t, 5, result.Profile.RecoveryProfile.DeloadEveryNWeeks)
	assert.Equal(t, "Block Periodization (Hypertrophy Emphasis)", result.PeriodizationModel)
	require.NotNil(t, result.WeakPoints)
	assert.NotEmpty(t, result.Landmarks)
}

func TestExperienceBucket(t *testing.T) {
	tests := []struct {
		level        string
		wantAge      float64
		wantTolerate float64
	}{
		{"beginner", 1, 0.8},
		{"intermediate", 3, 1.0},
		{"advanced", 6, 1.2},
		{"", 1, 0.8},
		{"elite", 1, 0.8}, // unknown falls back to beginner
	}
	for _, tt := range tests {
		age, tolerance := experienceBucket(tt.level)
		assert.Equal(t, tt.wantAge, age, "level %q", tt.level)
		assert.Equal(t, tt.wantTolerate, tolerance, "level %q", tt.level)
	}
}

func TestRecoveryBucket(t *testing.T) {
	tests := []struct {
		age  int
		want float64
	}{
		{0, 1.0},
		{22, 1.1},
		{29, 1.1},
		{30, 1.0},
		{39, 1.0},
		{40, 0.9},
		{49, 0.9},
		{50, 0.8},
		{67, 0.8},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, recoveryBucket(tt.age), "age %d", tt.age)
	}
}

func TestRPEProfile_AutoregulationByLevel(t *testing.T) {
	assert.False(t, rpeProfile("beginner").Autoregulate)
	assert.True(t, rpeProfile("intermediate").Autoregulate)
	assert.True(t, rpeProfile("advanced").Autoregulate)
	assert.Equal(t, 9.5, rpeProfile("advanced").TargetRPEHigh)
}

func TestRestDayMinimum(t *testing.T) {
	assert.Equal(t, 2, restDayMinimum(3))
	assert.Equal(t, 2, restDayMinimum(5))
	assert.Equal(t, 1, restDayMinimum(6))
	assert.Equal(t, 1, restDayMinimum(7))
}
