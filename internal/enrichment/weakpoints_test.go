package enrichment

import (
	"testing"

	"forgefit/coach-engine/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeWeakPoints_NilOnIncompleteProfile(t *testing.T) {
	assert.Nil(t, AnalyzeWeakPoints(nil))
	assert.Nil(t, AnalyzeWeakPoints(&domain.StrengthProfile{}))
	assert.Nil(t, AnalyzeWeakPoints(&domain.StrengthProfile{
		SquatKg:    floatPtr(140),
		BenchKg:    floatPtr(100),
		DeadliftKg: floatPtr(180),
		// overhead press missing
	}))
}

func TestAnalyzeWeakPoints_BalancedLifterHasNone(t *testing.T) {
	analysis := AnalyzeWeakPoints(&domain.StrengthProfile{
		SquatKg:         floatPtr(150), // 0.83 of deadlift
		BenchKg:         floatPtr(120), // 0.67 of deadlift
		DeadliftKg:      floatPtr(180),
		OverheadPressKg: floatPtr(75), // 0.63 of bench
	})
	require.NotNil(t, analysis)
	assert.Empty(t, analysis.WeakPoints)
	assert.InDelta(t, 0.667, analysis.BenchToDeadlift, 0.001)
}

func TestAnalyzeWeakPoints_FlagsWeakBench(t *testing.T) {
	analysis := AnalyzeWeakPoints(&domain.StrengthProfile{
		SquatKg:         floatPtr(160),
		BenchKg:         floatPtr(90), // 0.45 of deadlift, below 0.60
		DeadliftKg:      floatPtr(200),
		OverheadPressKg: floatPtr(60), // 0.67 of bench, fine
	})
	require.NotNil(t, analysis)
	assert.Equal(t, []string{"Horizontal pressing strength"}, analysis.WeakPoints)
}

func TestAnalyzeWeakPoints_FlagsAllThree(t *testing.T) {
	analysis := AnalyzeWeakPoints(&domain.StrengthProfile{
		SquatKg:         floatPtr(100), // 0.50 of deadlift
		BenchKg:         floatPtr(80),  // 0.40 of deadlift
		DeadliftKg:      floatPtr(200),
		OverheadPressKg: floatPtr(40), // 0.50 of bench
	})
	require.NotNil(t, analysis)
	assert.ElementsMatch(t, []string{
		"Horizontal pressing strength",
		"Squat pattern strength",
		"Overhead pressing strength",
	}, analysis.WeakPoints)
}

func TestAnalyzeWeakPoints_NilOnNonPositiveDenominator(t *testing.T) {
	assert.Nil(t, AnalyzeWeakPoints(&domain.StrengthProfile{
		SquatKg:         floatPtr(100),
		BenchKg:         floatPtr(80),
		DeadliftKg:      floatPtr(0),
		OverheadPressKg: floatPtr(40),
	}))
}
