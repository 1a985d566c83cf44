package validation

import (
	"testing"

	"forgefit/coach-engine/internal/config"
	"forgefit/coach-engine/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGuardian() *Guardian {
	return NewGuardian(config.ValidatorConfig{MinSetsPerExercise: 2, MaxSetsPerExercise: 9})
}

// trainingWeek builds a single-day week with an anchor-led session.
func trainingWeek(weekNumber int) domain.ProgramWeek {
	return domain.ProgramWeek{
		WeekNumber: weekNumber,
		Days: []domain.WorkoutDay{
			{
				DayOfWeek: "Monday",
				Focus:     "Lower",
				Exercises: []domain.ProgramExercise{
					{Name: "Back Squat", Tier: domain.TierAnchor, Sets: 4, Reps: "5"},
					{Name: "Romanian Deadlift", Tier: domain.TierPrimary, Sets: 3, Reps: "8"},
					{Name: "Leg Press", Tier: domain.TierSecondary, Sets: 3, Reps: "10-12"},
				},
			},
			{DayOfWeek: "Tuesday", IsRestDay: true},
		},
	}
}

// validProgram builds a well-formed two-phase, four-week program.
func validProgram() *domain.TrainingProgram {
	return &domain.TrainingProgram{
		ProgramName:        "Strength Foundation",
		DurationWeeksTotal: 4,
		PeriodizationModel: "Linear Periodization",
		Phases: []domain.ProgramPhase{
			{
				PhaseName:     "Accumulation",
				DurationWeeks: 2,
				Weeks:         []domain.ProgramWeek{trainingWeek(1), trainingWeek(2)},
			},
			{
				PhaseName:     "Intensification",
				DurationWeeks: 2,
				Weeks:         []domain.ProgramWeek{trainingWeek(3), trainingWeek(4)},
			},
		},
	}
}

func TestValidate_WellFormedProgramPasses(t *testing.T) {
	result := newTestGuardian().Validate(validProgram())

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestValidate_NilProgramIsSchemaError(t *testing.T) {
	result := newTestGuardian().Validate(nil)

	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, domain.IssueSchema, result.Errors[0].Type)
	assert.Equal(t, domain.SeverityCritical, result.Errors[0].Severity)
}

func TestValidate_SchemaViolationShortCircuits(t *testing.T) {
	// Missing name plus a structural mismatch: only the schema error may
	// surface, the deeper checks assume a well-shaped program.
	program := validProgram()
	program.ProgramName = ""
	program.DurationWeeksTotal = 99

	result := newTestGuardian().Validate(program)

	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, domain.IssueSchema, result.Errors[0].Type)
}

func TestValidate_DurationMismatchesAreIndependentErrors(t *testing.T) {
	// Declares 8 weeks total with one phase declaring 4 weeks but holding a
	// single week: the phase mismatch and the total mismatch both fire.
	program := &domain.TrainingProgram{
		ProgramName:        "Broken Durations",
		DurationWeeksTotal: 8,
		Phases: []domain.ProgramPhase{
			{
				PhaseName:     "Base",
				DurationWeeks: 4,
				Weeks:         []domain.ProgramWeek{trainingWeek(1)},
			},
		},
	}

	result := newTestGuardian().Validate(program)

	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 2)
	for _, issue := range result.Errors {
		assert.Equal(t, domain.IssueStructural, issue.Type)
		assert.Equal(t, domain.SeverityHigh, issue.Severity)
	}
}

func TestValidate_MissingAnchorLift(t *testing.T) {
	program := &domain.TrainingProgram{
		ProgramName:        "No Anchor",
		DurationWeeksTotal: 1,
		Phases: []domain.ProgramPhase{
			{
				PhaseName:     "Base",
				DurationWeeks: 1,
				Weeks: []domain.ProgramWeek{
					{
						WeekNumber: 1,
						Days: []domain.WorkoutDay{
							{
								DayOfWeek: "Monday",
								Exercises: []domain.ProgramExercise{
									{Name: "Leg Press", Tier: domain.TierPrimary, Sets: 4, Reps: "10"},
									{Name: "Leg Curl", Tier: domain.TierAccessory, Sets: 3, Reps: "12"},
								},
							},
						},
					},
				},
			},
		},
	}

	result := newTestGuardian().Validate(program)

	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, domain.IssueScientific, result.Errors[0].Type)
	assert.Equal(t, domain.SeverityHigh, result.Errors[0].Severity)
	assert.Contains(t, result.Errors[0].Message, `No anchor lift found in phase "Base" week 1`)
}

func TestValidate_RestWeekExemptFromAnchorRule(t *testing.T) {
	program := validProgram()
	program.Phases[1].Weeks[1] = domain.ProgramWeek{
		WeekNumber: 4,
		Days: []domain.WorkoutDay{
			{DayOfWeek: "Monday", IsRestDay: true},
			{DayOfWeek: "Thursday", IsRestDay: true},
		},
	}

	result := newTestGuardian().Validate(program)

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
}

func TestValidate_LowSetCountBlocksValidity(t *testing.T) {
	program := validProgram()
	program.Phases[0].Weeks[0].Days[0].Exercises[2].Sets = 1

	result := newTestGuardian().Validate(program)

	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, domain.IssueScientific, result.Errors[0].Type)
	assert.Equal(t, domain.SeverityMedium, result.Errors[0].Severity)
	assert.Contains(t, result.Errors[0].Message, "Low set count")
	assert.Contains(t, result.Errors[0].Message, "Leg Press")
}

func TestValidate_HighSetCountOnlyWarns(t *testing.T) {
	program := validProgram()
	program.Phases[0].Weeks[0].Days[0].Exercises[1].Sets = 10

	result := newTestGuardian().Validate(program)

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, domain.IssueOptimization, result.Warnings[0].Type)
	assert.Equal(t, domain.SeverityLow, result.Warnings[0].Severity)
	assert.Contains(t, result.Warnings[0].Message, "High set count")
}

func TestValidate_AnchorNotFirstWarnsTwice(t *testing.T) {
	program := validProgram()
	day := &program.Phases[0].Weeks[0].Days[0]
	day.Exercises[0], day.Exercises[1] = day.Exercises[1], day.Exercises[0]

	result := newTestGuardian().Validate(program)

	assert.True(t, result.IsValid, "ordering findings must never block validity")
	assert.Empty(t, result.Errors)
	require.Len(t, result.Warnings, 2)
	for _, warning := range result.Warnings {
		assert.Equal(t, domain.IssueBestPractice, warning.Type)
		assert.Equal(t, domain.SeverityLow, warning.Severity)
	}
	assert.Contains(t, result.Warnings[0].Message, "Back Squat")
}

func TestValidate_IsValidMatchesErrorCount(t *testing.T) {
	programs := map[string]*domain.TrainingProgram{
		"valid":          validProgram(),
		"schema broken":  {ProgramName: "", DurationWeeksTotal: 4},
		"missing phases": {ProgramName: "Empty", DurationWeeksTotal: 4},
	}
	guardian := newTestGuardian()

	for name, program := range programs {
		result := guardian.Validate(program)
		assert.Equal(t, len(result.Errors) == 0, result.IsValid, "case %q", name)
	}
}

func TestNewGuardian_ZeroBoundsFallBackToDefaults(t *testing.T) {
	guardian := NewGuardian(config.ValidatorConfig{})
	assert.Equal(t, 2, guardian.minSets)
	assert.Equal(t, 9, guardian.maxSets)
}
