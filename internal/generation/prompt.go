package generation

import (
	"fmt"
	"sort"
	"strings"

	"forgefit/coach-engine/internal/domain"
	"forgefit/coach-engine/internal/enrichment"
)

// Strategy names for the two prompt variants. The phoenix pipeline is the
// flag-gated rollout that conditions the generator on the full scientific
// enrichment; legacy sends only the raw onboarding answers.
const (
	StrategyLegacy  = "legacy"
	StrategyPhoenix = "phoenix"
)

// PhoenixFlagName is the rollout flag that routes a user onto the enriched
// prompt variant.
const PhoenixFlagName = "phoenix_pipeline_enabled"

const promptPreamble = `You are an expert strength and conditioning coach. Produce a complete training program as a single JSON object with this shape:
{"programName": string, "durationWeeksTotal": int, "periodizationModel": string, "phases": [{"phaseName": string, "durationWeeks": int, "weeks": [{"weekNumber": int, "days": [{"dayOfWeek": string, "focus": string, "isRestDay": bool, "exercises": [{"name": string, "tier": "Anchor"|"Primary"|"Secondary"|"Accessory", "sets": int, "reps": string, "rpe": string, "restSec": int}]}]}]}]}
Every training day must open with its Anchor lift. Respond with JSON only.`

// BuildPrompt renders the generation prompt for the chosen strategy.
func BuildPrompt(strategy string, snapshot domain.OnboardingSnapshot, enriched enrichment.Result) string {
	var b strings.Builder
	b.WriteString(promptPreamble)
	b.WriteString("\n\nAthlete:\n")
	fmt.Fprintf(&b, "- Experience level: %s\n", snapshot.ExperienceLevel)
	fmt.Fprintf(&b, "- Age: %d\n", snapshot.Age)
	fmt.Fprintf(&b, "- Primary goal: %s\n", snapshot.PrimaryGoal)
	fmt.Fprintf(&b, "- Training days per week: %d\n", snapshot.DaysPerWeek)
	fmt.Fprintf(&b, "- Session length: %d minutes\n", snapshot.SessionMinutes)
	if len(snapshot.Equipment) > 0 {
		fmt.Fprintf(&b, "- Available equipment: %s\n", strings.Join(snapshot.Equipment, ", "))
	}
	if snapshot.InjuryNotes != "" {
		fmt.Fprintf(&b, "- Injury considerations: %s\n", snapshot.InjuryNotes)
	}

	if strategy != StrategyPhoenix {
		return b.String()
	}

	b.WriteString("\nConditioning profile:\n")
	fmt.Fprintf(&b, "- Periodization model: %s\n", enriched.PeriodizationModel)
	fmt.Fprintf(&b, "- Training age: %.0f years\n", enriched.Profile.TrainingAgeYears)
	fmt.Fprintf(&b, "- Volume tolerance multiplier: %.2f\n", enriched.Profile.VolumeTolerance)
	fmt.Fprintf(&b, "- Recovery capacity multiplier: %.2f\n", enriched.Profile.RecoveryCapacity)
	fmt.Fprintf(&b, "- Target RPE window: %.1f-%.1f\n",
		enriched.Profile.RPEProfile.TargetRPELow, enriched.Profile.RPEProfile.TargetRPEHigh)
	fmt.Fprintf(&b, "- Deload every %d weeks\n", enriched.Profile.RecoveryProfile.DeloadEveryNWeeks)

	b.WriteString("\nWeekly volume landmarks (MEV/MAV/MRV sets):\n")
	muscles := make([]string, 0, len(enriched.Landmarks))
	for m := range enriched.Landmarks {
		muscles = append(muscles, m)
	}
	sort.Strings(muscles)
	for _, m := range muscles {
		lm := enriched.Landmarks[m]
		fmt.Fprintf(&b, "- %s: %d/%d/%d\n", m, lm.MEV, lm.MAV, lm.MRV)
	}

	if enriched.WeakPoints != nil && len(enriched.WeakPoints.WeakPoints) > 0 {
		b.WriteString("\nWeak points to prioritize:\n")
		for _, wp := range enriched.WeakPoints.WeakPoints {
			fmt.Fprintf(&b, "- %s\n", wp)
		}
	}

	return b.String()
}
