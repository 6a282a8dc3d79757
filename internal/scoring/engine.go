package scoring

import (
	"fmt"
	"strings"
)

// Engine runs the full screening computation. Construct it once per
// configuration and reuse it freely across goroutines.
type Engine struct {
	cfg *Config
}

// NewEngine validates the configuration and returns a ready engine.
// A nil config selects the defaults.
func NewEngine(cfg *Config) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Engine{cfg: cfg}, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() *Config {
	return e.cfg
}

// ScoreCandidate runs the primary and secondary passes, blends them and
// applies the pass threshold. A triggered hard-no short-circuits the call:
// the secondary pass never runs and the report carries a zero final score.
func (e *Engine) ScoreCandidate(job, candidate Document, rules Rules, answers []AnswerInput) (*ScoreReport, error) {
	primary := e.ScorePrimary(job, candidate, rules)

	if primary.HardNo != "" {
		return &ScoreReport{
			Decision:           DecisionReject,
			FailReason:         fmt.Sprintf("Primary hard-no: %s", primary.HardNo),
			PrimaryBreakdown:   primary.Breakdown,
			SecondaryJudgments: []AnswerJudgment{},
			Summary: fmt.Sprintf(
				"Application rejected due to critical mismatch: %s. "+
					"Candidate does not meet essential requirements for this position.",
				primary.HardNo,
			),
		}, nil
	}

	secondaryScore, judgments, err := e.ScoreSecondary(answers)
	if err != nil {
		return nil, err
	}

	finalScore := e.cfg.PrimaryWeight*primary.Score + e.cfg.SecondaryWeight*secondaryScore

	decision := DecisionReject
	failReason := fmt.Sprintf("Final score %.1f below threshold %.1f", finalScore, e.cfg.PassThreshold)
	if finalScore >= e.cfg.PassThreshold {
		decision = DecisionPass
		failReason = ""
	}

	return &ScoreReport{
		PrimaryScore:       primary.Score,
		SecondaryScore:     secondaryScore,
		FinalScore:         finalScore,
		Decision:           decision,
		FailReason:         failReason,
		PrimaryBreakdown:   primary.Breakdown,
		SecondaryJudgments: judgments,
		Summary:            summarize(primary.Score, secondaryScore, finalScore, decision, primary.Breakdown),
	}, nil
}

// summarize composes the recruiter-facing paragraph. The wording is
// deterministic: the three scores to one decimal, a strength/concern
// statement and a closing recommendation that differs between outcomes.
func summarize(primaryScore, secondaryScore, finalScore float64, decision Decision, breakdown []CriterionResult) string {
	if decision == DecisionReject {
		return fmt.Sprintf(
			"Candidate scored %.1f/100 and did not meet the minimum threshold. "+
				"Primary evaluation: %.1f/100, Secondary evaluation: %.1f/100. "+
				"Recommendation: Do not proceed with this candidate.",
			finalScore, primaryScore, secondaryScore,
		)
	}

	var strengths, concerns int
	for _, result := range breakdown {
		switch {
		case result.PointsAwarded > 0:
			strengths++
		case result.Category != CategoryPreferable:
			concerns++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Candidate scored %.1f/100 and meets the minimum requirements. ", finalScore)
	fmt.Fprintf(&b, "Primary evaluation: %.1f/100, Secondary evaluation: %.1f/100. ", primaryScore, secondaryScore)

	if strengths > concerns {
		fmt.Fprintf(&b, "Strong match with %d key qualifications met. ", strengths)
	} else if concerns > 0 {
		fmt.Fprintf(&b, "Some concerns noted in %d areas. ", concerns)
	}

	b.WriteString("Recommendation: Proceed to next stage of evaluation.")

	return b.String()
}
