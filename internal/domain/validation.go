package domain

// IssueType classifies what kind of rule a validation issue came from.
type IssueType string

const (
	IssueSchema       IssueType = "schema"
	IssueStructural   IssueType = "structural"
	IssueScientific   IssueType = "scientific"
	IssueBestPractice IssueType = "best_practice"
	IssueOptimization IssueType = "optimization"
)

// IssueSeverity ranks how serious a validation issue is.
type IssueSeverity string

const (
	SeverityCritical IssueSeverity = "critical"
	SeverityHigh     IssueSeverity = "high"
	SeverityMedium   IssueSeverity = "medium"
	SeverityLow      IssueSeverity = "low"
)

// ValidationIssue is a single finding from the guardian validator.
type ValidationIssue struct {
	Type     IssueType     `bson:"type" json:"type"`
	Severity IssueSeverity `bson:"severity" json:"severity"`
	Message  string        `bson:"message" json:"message"`
}

// ValidationResult is the guardian's verdict on a candidate program.
// IsValid is true iff Errors is empty; warnings never affect validity.
type ValidationResult struct {
	IsValid  bool              `json:"isValid"`
	Errors   []ValidationIssue `json:"errors"`
	Warnings []ValidationIssue `json:"warnings"`
}
