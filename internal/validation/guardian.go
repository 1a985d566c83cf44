// Package validation is the guardian layer: it inspects a generated training
// program and decides whether it may be surfaced to a user. Errors block the
// artifact; warnings are informational and never affect validity.
package validation

import (
	"fmt"

	"forgefit/coach-engine/internal/config"
	"forgefit/coach-engine/internal/domain"
)

// Guardian runs the schema, structural, scientific, and best-practice checks
// against a candidate program.
type Guardian struct {
	minSets int
	maxSets int
}

// NewGuardian creates a validator with the configured set-count bounds.
// Zero or negative bounds fall back to the defaults.
func NewGuardian(cfg config.ValidatorConfig) *Guardian {
	minSets := cfg.MinSetsPerExercise
	if minSets <= 0 {
		minSets = 2
	}
	maxSets := cfg.MaxSetsPerExercise
	if maxSets <= 0 {
		maxSets = 9
	}
	return &Guardian{minSets: minSets, maxSets: maxSets}
}

// Validate inspects the candidate and accumulates every finding into one
// result. A schema violation short-circuits the deeper checks since they
// assume a well-shaped program.
func (g *Guardian) Validate(program *domain.TrainingProgram) domain.ValidationResult {
	result := domain.ValidationResult{
		Errors:   []domain.ValidationIssue{},
		Warnings: []domain.ValidationIssue{},
	}

	if msg := checkSchema(program); msg != "" {
		result.Errors = append(result.Errors, domain.ValidationIssue{
			Type:     domain.IssueSchema,
			Severity: domain.SeverityCritical,
			Message:  msg,
		})
		result.IsValid = false
		return result
	}

	g.checkStructure(program, &result)
	g.checkScience(program, &result)
	g.checkBestPractice(program, &result)

	result.IsValid = len(result.Errors) == 0
	return result
}

// checkSchema verifies the nested program shape. Returns a message for the
// first violation found, or "" when the shape is sound.
func checkSchema(program *domain.TrainingProgram) string {
	if program == nil {
		return "program is missing"
	}
	if program.ProgramName == "" {
		return "program is missing a name"
	}
	if program.DurationWeeksTotal <= 0 {
		return "program duration must be a positive number of weeks"
	}
	if len(program.Phases) == 0 {
		return "program has no phases"
	}
	for pi, phase := range program.Phases {
		if phase.PhaseName == "" {
			return fmt.Sprintf("phase %d is missing a name", pi+1)
		}
		if phase.DurationWeeks <= 0 {
			return fmt.Sprintf("phase %q has a non-positive duration", phase.PhaseName)
		}
		if len(phase.Weeks) == 0 {
			return fmt.Sprintf("phase %q has no weeks", phase.PhaseName)
		}
		for wi, week := range phase.Weeks {
			if len(week.Days) == 0 {
				return fmt.Sprintf("phase %q week %d has no days", phase.PhaseName, wi+1)
			}
			for _, day := range week.Days {
				if day.IsRestDay {
					continue
				}
				if len(day.Exercises) == 0 {
					return fmt.Sprintf("phase %q week %d has a training day with no exercises", phase.PhaseName, wi+1)
				}
				for _, ex := range day.Exercises {
					if ex.Name == "" {
						return fmt.Sprintf("phase %q week %d has an unnamed exercise", phase.PhaseName, wi+1)
					}
					if ex.Sets <= 0 {
						return fmt.Sprintf("exercise %q has a non-positive set count", ex.Name)
					}
				}
			}
		}
	}
	return ""
}

// checkStructure verifies the declared durations agree with the actual
// content. Both mismatches fire independently.
func (g *Guardian) checkStructure(program *domain.TrainingProgram, result *domain.ValidationResult) {
	phaseSum := 0
	for _, phase := range program.Phases {
		phaseSum += phase.DurationWeeks

		if phase.DurationWeeks != len(phase.Weeks) {
			result.Errors = append(result.Errors, domain.ValidationIssue{
				Type:     domain.IssueStructural,
				Severity: domain.SeverityHigh,
				Message: fmt.Sprintf("phase %q declares %d weeks but contains %d",
					phase.PhaseName, phase.DurationWeeks, len(phase.Weeks)),
			})
		}
	}

	if phaseSum != program.DurationWeeksTotal {
		result.Errors = append(result.Errors, domain.ValidationIssue{
			Type:     domain.IssueStructural,
			Severity: domain.SeverityHigh,
			Message: fmt.Sprintf("program declares %d total weeks but phases sum to %d",
				program.DurationWeeksTotal, phaseSum),
		})
	}
}

// checkScience enforces the anchor-lift requirement per training week and
// the set-count bounds per exercise. Low set counts block validity; high
// set counts only warn.
func (g *Guardian) checkScience(program *domain.TrainingProgram, result *domain.ValidationResult) {
	for _, phase := range program.Phases {
		for _, week := range phase.Weeks {
			if !week.IsTrainingWeek() {
				continue
			}

			hasAnchor := false
			for _, day := range week.Days {
				if day.IsRestDay {
					continue
				}
				for _, ex := range day.Exercises {
					if ex.Tier == domain.TierAnchor {
						hasAnchor = true
					}

					if ex.Sets < g.minSets {
						result.Errors = append(result.Errors, domain.ValidationIssue{
							Type:     domain.IssueScientific,
							Severity: domain.SeverityMedium,
							Message: fmt.Sprintf("Low set count: %q (%s tier) has %d sets, minimum is %d",
								ex.Name, ex.Tier, ex.Sets, g.minSets),
						})
					} else if ex.Sets > g.maxSets {
						result.Warnings = append(result.Warnings, domain.ValidationIssue{
							Type:     domain.IssueOptimization,
							Severity: domain.SeverityLow,
							Message: fmt.Sprintf("High set count: %q has %d sets, above the recommended maximum of %d",
								ex.Name, ex.Sets, g.maxSets),
						})
					}
				}
			}

			if !hasAnchor {
				result.Errors = append(result.Errors, domain.ValidationIssue{
					Type:     domain.IssueScientific,
					Severity: domain.SeverityHigh,
					Message: fmt.Sprintf("No anchor lift found in phase %q week %d",
						phase.PhaseName, week.WeekNumber),
				})
			}
		}
	}
}

// checkBestPractice warns when an anchor exercise exists in a day but is not
// listed first. Ordering findings never block validity.
func (g *Guardian) checkBestPractice(program *domain.TrainingProgram, result *domain.ValidationResult) {
	for _, phase := range program.Phases {
		for _, week := range phase.Weeks {
			for _, day := range week.Days {
				if day.IsRestDay || len(day.Exercises) == 0 {
					continue
				}

				anchorIdx := -1
				for i, ex := range day.Exercises {
					if ex.Tier == domain.TierAnchor {
						anchorIdx = i
						break
					}
				}

				if anchorIdx > 0 {
					result.Warnings = append(result.Warnings,
						domain.ValidationIssue{
							Type:     domain.IssueBestPractice,
							Severity: domain.SeverityLow,
							Message: fmt.Sprintf("%s (%s week %d): anchor lift %q should be performed first",
								day.DayOfWeek, phase.PhaseName, week.WeekNumber, day.Exercises[anchorIdx].Name),
						},
						domain.ValidationIssue{
							Type:     domain.IssueBestPractice,
							Severity: domain.SeverityLow,
							Message: fmt.Sprintf("%s (%s week %d): exercise ordering may not follow the anchor, primary, secondary, accessory hierarchy",
								day.DayOfWeek, phase.PhaseName, week.WeekNumber),
						})
				}
			}
		}
	}
}
