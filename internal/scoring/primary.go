package scoring

// PrimaryResult is the outcome of the primary pass over structured criteria.
// HardNo names the rule whose disqualifier fired; it is empty when the pass
// ran to completion. A triggered hard-no is expected control flow, not an
// error, so it travels in the result rather than in an error value.
type PrimaryResult struct {
	Score     float64
	Breakdown []CriterionResult
	HardNo    string
}

// ScorePrimary evaluates the rules in order against the job and candidate
// documents. Rules absent from the weight table are skipped. The moment a
// hard-no criterion reports its disqualifier present, evaluation stops:
// the score is zeroed and the remaining rules are never evaluated.
func (e *Engine) ScorePrimary(job, candidate Document, rules Rules) PrimaryResult {
	breakdown := make([]CriterionResult, 0, len(rules))
	totalWeight := 0.0
	totalPoints := 0.0

	for _, rule := range rules {
		weight, known := e.cfg.Weights[rule.Name]
		if !known {
			continue
		}
		totalWeight += weight

		result := e.evaluateCriterion(rule.Name, rule.Category, weight, job, candidate)
		breakdown = append(breakdown, result)

		if rule.Category == CategoryHardNo && !result.Passed {
			return PrimaryResult{Score: 0, Breakdown: breakdown, HardNo: rule.Name}
		}

		totalPoints += result.PointsAwarded
	}

	if totalWeight == 0 {
		return PrimaryResult{Breakdown: breakdown}
	}

	return PrimaryResult{
		Score:     totalPoints / totalWeight * 100,
		Breakdown: breakdown,
	}
}
