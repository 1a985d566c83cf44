package enrichment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectPeriodization(t *testing.T) {
	tests := []struct {
		name       string
		experience string
		goal       string
		want       string
	}{
		{"beginner any goal", "beginner", "get stronger", "Linear Periodization"},
		{"beginner empty goal", "beginner", "", "Linear Periodization"},
		{"intermediate strength", "intermediate", "strength gain", "Heavy-Light-Medium Periodization"},
		{"intermediate muscle", "intermediate", "build muscle", "Block Periodization (Hypertrophy Emphasis)"},
		{"intermediate hypertrophy", "intermediate", "hypertrophy focus", "Block Periodization (Hypertrophy Emphasis)"},
		{"intermediate endurance", "intermediate", "muscular endurance", "Undulating Periodization"},
		{"advanced strength", "advanced", "raw strength", "Conjugate Periodization"},
		{"advanced muscle", "advanced", "more muscle mass", "Block Periodization (Specialization Phases)"},
		{"advanced endurance", "advanced", "endurance", "Undulating Periodization"},
		{"goal matching is case-insensitive", "advanced", "STRENGTH above all", "Conjugate Periodization"},
		{"level matching trims and lowers", "  Intermediate ", "strength", "Heavy-Light-Medium Periodization"},
		{"unmatched goal falls through", "intermediate", "general fitness", DefaultPeriodizationModel},
		{"unknown level falls through", "elite", "strength", DefaultPeriodizationModel},
		{"empty inputs", "", "", DefaultPeriodizationModel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectPeriodization(tt.experience, tt.goal))
		})
	}
}

func TestSelectPeriodization_NeverEmpty(t *testing.T) {
	levels := []string{"beginner", "intermediate", "advanced", "unknown", ""}
	goals := []string{"strength", "muscle", "endurance", "something else", ""}
	for _, level := range levels {
		for _, goal := range goals {
			assert.NotEmpty(t, SelectPeriodization(level, goal), "level=%q goal=%q", level, goal)
		}
	}
}
