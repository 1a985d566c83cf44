package enrichment

import "forgefit/coach-engine/internal/domain"

// Strength ratio cutoffs below which a lift pairing is flagged as a weak
// point. Reference ratios for a balanced lifter.
const (
	benchToDeadliftCutoff = 0.60
	squatToDeadliftCutoff = 0.75
	pressToBenchCutoff    = 0.60
)

// AnalyzeWeakPoints derives weak-point labels from the core-lift ratios.
// Returns nil when any of the four one-rep-max estimates is missing; an
// incomplete strength profile simply means no weak-point conditioning.
func AnalyzeWeakPoints(profile *domain.StrengthProfile) *domain.WeakPointAnalysis {
	if !profile.Complete() {
		return nil
	}
	if *profile.DeadliftKg <= 0 || *profile.BenchKg <= 0 {
		return nil
	}

	analysis := &domain.WeakPointAnalysis{
		BenchToDeadlift: *profile.BenchKg / *profile.DeadliftKg,
		SquatToDeadlift: *profile.SquatKg / *profile.DeadliftKg,
		PressToBench:    *profile.OverheadPressKg / *profile.BenchKg,
	}

	if analysis.BenchToDeadlift < benchToDeadliftCutoff {
		analysis.WeakPoints = append(analysis.WeakPoints, "Horizontal pressing strength")
	}
	if analysis.SquatToDeadlift < squatToDeadliftCutoff {
		analysis.WeakPoints = append(analysis.WeakPoints, "Squat pattern strength")
	}
	if analysis.PressToBench < pressToBenchCutoff {
		analysis.WeakPoints = append(analysis.WeakPoints, "Overhead pressing strength")
	}

	return analysis
}
