package enrichment

import "strings"

// DefaultPeriodizationModel is used when no decision-table row matches.
// SelectPeriodization never returns an empty model.
const DefaultPeriodizationModel = "Balanced Block Periodization"

type periodizationRule struct {
	experience  string
	goalKeyword string
	model       string
}

// Decision table keyed on (experience level, primary goal keyword). First
// match wins; an empty keyword matches any goal.
var periodizationRules = []periodizationRule{
	{"beginner", "", "Linear Periodization"},
	{"intermediate", "strength", "Heavy-Light-Medium Periodization"},
	{"intermediate", "muscle", "Block Periodization (Hypertrophy Emphasis)"},
	{"intermediate", "hypertrophy", "Block Periodization (Hypertrophy Emphasis)"},
	{"intermediate", "endurance", "Undulating Periodization"},
	{"advanced", "strength", "Conjugate Periodization"},
	{"advanced", "muscle", "Block Periodization (Specialization Phases)"},
	{"advanced", "hypertrophy", "Block Periodization (Specialization Phases)"},
	{"advanced", "endurance", "Undulating Periodization"},
}

// SelectPeriodization resolves the periodization model for an experience
// level and free-text primary goal.
func SelectPeriodization(experienceLevel, primaryGoal string) string {
	level := strings.ToLower(strings.TrimSpace(experienceLevel))
	goal := strings.ToLower(primaryGoal)

	for _, rule := range periodizationRules {
		if rule.experience != level {
			continue
		}
		if rule.goalKeyword == "" || strings.Contains(goal, rule.goalKeyword) {
			return rule.model
		}
	}
	return DefaultPeriodizationModel
}
