// Package enrichment derives the scientific conditioning data a generation
// request is built from: the enhanced user profile, per-muscle volume
// landmarks, weak-point analysis, and the periodization model. Everything in
// this package is a pure function of the onboarding snapshot; the numeric
// tables are product configuration, not tuned algorithm.
package enrichment

import (
	"forgefit/coach-engine/internal/domain"
)

// Result bundles everything the enrichment engine derives for one snapshot.
// WeakPoints is nil when the strength profile is incomplete; that is not an
// error, the generator simply gets no weak-point conditioning.
type Result struct {
	Profile            domain.EnhancedUserProfile
	Landmarks          domain.VolumeLandmarks
	WeakPoints         *domain.WeakPointAnalysis
	PeriodizationModel string
}

// Enrich derives the full conditioning bundle from an onboarding snapshot.
func Enrich(snapshot domain.OnboardingSnapshot) Result {
	profile := buildProfile(snapshot)
	return Result{
		Profile:            profile,
		Landmarks:          ScaleLandmarks(profile.VolumeTolerance, profile.RecoveryCapacity),
		WeakPoints:         AnalyzeWeakPoints(snapshot.StrengthProfile),
		PeriodizationModel: SelectPeriodization(snapshot.ExperienceLevel, snapshot.PrimaryGoal),
	}
}

func buildProfile(snapshot domain.OnboardingSnapshot) domain.EnhancedUserProfile {
	trainingAge, tolerance := experienceBucket(snapshot.ExperienceLevel)
	recovery := recoveryBucket(snapshot.Age)
	stress := stressBucket(snapshot.StressLevel)

	return domain.EnhancedUserProfile{
		TrainingAgeYears: trainingAge,
		RecoveryCapacity: recovery,
		StressLevel:      stress,
		VolumeTolerance:  tolerance,
		RPEProfile:       rpeProfile(snapshot.ExperienceLevel),
		RecoveryProfile: domain.RecoveryProfile{
			SleepHours:        snapshot.SleepHours,
			RestDayMinimum:    restDayMinimum(snapshot.DaysPerWeek),
			DeloadEveryNWeeks: deloadInterval(snapshot.ExperienceLevel),
		},
	}
}

// experienceBucket maps the coarse experience level to training age and
// volume tolerance. Unknown levels fall back to the beginner row.
func experienceBucket(level string) (trainingAge, tolerance float64) {
	switch level {
	case "advanced":
		return 6, 1.2
	case "intermediate":
		return 3, 1.0
	default:
		return 1, 0.8
	}
}

// recoveryBucket maps age to a recovery capacity multiplier.
func recoveryBucket(age int) float64 {
	switch {
	case age <= 0:
		return 1.0 // unknown age, assume baseline
	case age < 30:
		return 1.1
	case age < 40:
		return 1.0
	case age < 50:
		return 0.9
	default:
		return 0.8
	}
}

// stressBucket maps the 1-10 self-reported stress score to a multiplier.
// Higher stress depresses the multiplier below 1.0.
func stressBucket(level int) float64 {
	switch {
	case level <= 0:
		return 1.0
	case level <= 3:
		return 1.05
	case level <= 6:
		return 1.0
	case level <= 8:
		return 0.9
	default:
		return 0.8
	}
}

func rpeProfile(level string) domain.RPEProfile {
	switch level {
	case "advanced":
		return domain.RPEProfile{TargetRPELow: 7, TargetRPEHigh: 9.5, Autoregulate: true}
	case "intermediate":
		return domain.RPEProfile{TargetRPELow: 7, TargetRPEHigh: 9, Autoregulate: true}
	default:
		return domain.RPEProfile{TargetRPELow: 6, TargetRPEHigh: 8, Autoregulate: false}
	}
}

func restDayMinimum(daysPerWeek int) int {
	if daysPerWeek >= 6 {
		return 1
	}
	return 2
}

func deloadInterval(level string) int {
	switch level {
	case "advanced":
		return 4
	case "intermediate":
		return 5
	default:
		return 6
	}
}
