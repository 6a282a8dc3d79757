// Package scoring implements the multi-criteria candidate screening engine:
// a primary pass over weighted structured criteria, a secondary pass over
// classified interview answers and a blended pass/reject decision.
//
// The engine is a pure in-memory computation. It is safe for concurrent use
// as long as each call gets its own inputs and the configuration is not
// mutated after construction.
package scoring

// Document is a free-form key/value record describing either a job or a
// candidate. Unknown keys are ignored, missing keys degrade per criterion.
type Document map[string]any

// Rule binds a criterion name to its importance category.
type Rule struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
}

// Rules is an ordered rule set. Order matters: the primary scorer evaluates
// rules in this exact order and a triggered hard-no stops the pass.
type Rules []Rule

// Decision is the terminal screening outcome.
type Decision string

const (
	DecisionPass   Decision = "PASS"
	DecisionReject Decision = "REJECT"
)

// CriterionResult records the outcome of evaluating a single rule.
// Points awarded are always within [0, Weight].
type CriterionResult struct {
	Name          string   `json:"name"`
	Category      Category `json:"category"`
	Weight        float64  `json:"weight"`
	Passed        bool     `json:"passed"`
	PointsAwarded float64  `json:"points_awarded"`
	Notes         string   `json:"notes,omitempty"`
}

// AnswerJudgment is one classified interview answer as counted by the
// secondary scorer.
type AnswerJudgment struct {
	QuestionID string   `json:"question_id"`
	Category   Category `json:"category"`
	Rationale  string   `json:"rationale,omitempty"`
}

// ScoreReport is the sole output of a scoring pass. It is immutable once
// constructed and round-trips through JSON for storage.
type ScoreReport struct {
	PrimaryScore       float64           `json:"primary_score"`
	SecondaryScore     float64           `json:"secondary_score"`
	FinalScore         float64           `json:"final_score"`
	Decision           Decision          `json:"decision"`
	FailReason         string            `json:"fail_reason,omitempty"`
	PrimaryBreakdown   []CriterionResult `json:"primary_breakdown"`
	SecondaryJudgments []AnswerJudgment  `json:"secondary_judgments"`
	Summary            string            `json:"summary"`
}
