package domain

// ExerciseTier classifies an exercise's role within a workout day.
type ExerciseTier string

const (
	TierAnchor    ExerciseTier = "Anchor"
	TierPrimary   ExerciseTier = "Primary"
	TierSecondary ExerciseTier = "Secondary"
	TierAccessory ExerciseTier = "Accessory"
)

// TrainingProgram is the structured artifact produced by the generation
// service: program -> phases -> weeks -> days -> exercises.
type TrainingProgram struct {
	ProgramName        string         `bson:"programName" json:"programName"`
	DurationWeeksTotal int            `bson:"durationWeeksTotal" json:"durationWeeksTotal"`
	PeriodizationModel string         `bson:"periodizationModel,omitempty" json:"periodizationModel,omitempty"`
	Phases             []ProgramPhase `bson:"phases" json:"phases"`
}

type ProgramPhase struct {
	PhaseName     string        `bson:"phaseName" json:"phaseName"`
	DurationWeeks int           `bson:"durationWeeks" json:"durationWeeks"`
	Weeks         []ProgramWeek `bson:"weeks" json:"weeks"`
}

type ProgramWeek struct {
	WeekNumber int          `bson:"weekNumber" json:"weekNumber"`
	Days       []WorkoutDay `bson:"days" json:"days"`
}

type WorkoutDay struct {
	DayOfWeek string            `bson:"dayOfWeek" json:"dayOfWeek"`
	Focus     string            `bson:"focus,omitempty" json:"focus,omitempty"`
	IsRestDay bool              `bson:"isRestDay" json:"isRestDay"`
	Exercises []ProgramExercise `bson:"exercises,omitempty" json:"exercises,omitempty"`
}

type ProgramExercise struct {
	Name      string       `bson:"name" json:"name"`
	Tier      ExerciseTier `bson:"tier" json:"tier"`
	Sets      int          `bson:"sets" json:"sets"`
	Reps      string       `bson:"reps" json:"reps"` // e.g. "5", "8-12"
	RPE       string       `bson:"rpe,omitempty" json:"rpe,omitempty"`
	RestSec   int          `bson:"restSec,omitempty" json:"restSec,omitempty"`
	Notes     string       `bson:"notes,omitempty" json:"notes,omitempty"`
}

// IsTrainingWeek reports whether the week has at least one non-rest day.
// Deload weeks composed entirely of rest days are exempt from the anchor
// lift requirement.
func (w ProgramWeek) IsTrainingWeek() bool {
	for _, d := range w.Days {
		if !d.IsRestDay {
			return true
		}
	}
	return false
}
