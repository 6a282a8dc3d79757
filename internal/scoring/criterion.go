package scoring

import (
	"fmt"
	"strconv"
	"strings"
)

// Criterion names routed to the numeric and salary evaluators. Every other
// name is compared through the boolean/list/string evaluator.
const (
	ruleYearsExperience   = "years_experience"
	ruleSalaryRange       = "salary_range"
	ruleSalaryExpectation = "salary_expectation"
)

var candidateTruthyTokens = map[string]bool{
	"true": true, "yes": true, "1": true, "present": true,
}

var jobTruthyTokens = map[string]bool{
	"true": true, "yes": true, "1": true, "required": true,
}

// evaluateCriterion decides pass/fail and points for one rule. It never
// fails: absent or unusable values fall back to the missing-data policy,
// which gives benefit of the doubt only to preferable criteria.
func (e *Engine) evaluateCriterion(name string, category Category, weight float64, job, candidate Document) CriterionResult {
	candidateValue := candidate[name]
	jobValue := job[name]

	if candidateValue == nil || jobValue == nil {
		return missingDataResult(name, category, weight)
	}

	switch name {
	case ruleYearsExperience:
		candidateNum, candidateOK := numericValue(candidateValue)
		jobNum, jobOK := numericValue(jobValue)
		if !candidateOK || !jobOK {
			return missingDataResult(name, category, weight)
		}
		return e.evaluateNumeric(name, category, weight, candidateNum, jobNum)
	case ruleSalaryRange, ruleSalaryExpectation:
		candidateSalary, ok := numericValue(candidateValue)
		if !ok {
			return missingDataResult(name, category, weight)
		}
		return e.evaluateSalary(name, category, weight, candidateSalary, salaryBound(jobValue))
	default:
		return evaluateComparable(name, category, weight, candidateValue, jobValue)
	}
}

func missingDataResult(name string, category Category, weight float64) CriterionResult {
	passed := category == CategoryPreferable
	points := 0.0
	if passed {
		points = weight * 0.5
	}

	return CriterionResult{
		Name:          name,
		Category:      category,
		Weight:        weight,
		Passed:        passed,
		PointsAwarded: points,
		Notes:         "Missing data",
	}
}

func (e *Engine) evaluateNumeric(name string, category Category, weight float64, candidateNum, jobNum float64) CriterionResult {
	result := CriterionResult{Name: name, Category: category, Weight: weight}

	switch category {
	case CategoryYes:
		if candidateNum >= jobNum {
			result.Passed = true
			result.PointsAwarded = weight
			result.Notes = fmt.Sprintf("Meets requirement (%g >= %g)", candidateNum, jobNum)
		} else {
			result.Notes = fmt.Sprintf("Below requirement (%g < %g)", candidateNum, jobNum)
		}
	case CategoryPreferable:
		result.Passed = true
		switch {
		case candidateNum >= jobNum:
			result.PointsAwarded = weight
			result.Notes = fmt.Sprintf("Exceeds preferred level (%g >= %g)", candidateNum, jobNum)
		case candidateNum >= jobNum-e.cfg.ExperienceTolerance:
			result.PointsAwarded = weight * 0.7
			result.Notes = fmt.Sprintf("Within tolerance (%g vs %g)", candidateNum, jobNum)
		default:
			result.Notes = fmt.Sprintf("Below preferred level (%g < %g)", candidateNum, jobNum)
		}
	case CategoryHardNo:
		if candidateNum >= jobNum {
			result.Passed = true
			result.PointsAwarded = weight
			result.Notes = "Meets minimum"
		} else {
			result.Notes = fmt.Sprintf("Below minimum requirement (%g < %g)", candidateNum, jobNum)
		}
	}

	return result
}

func (e *Engine) evaluateSalary(name string, category Category, weight float64, candidateSalary, jobMax float64) CriterionResult {
	result := CriterionResult{Name: name, Category: category, Weight: weight}

	switch category {
	case CategoryYes:
		if candidateSalary <= jobMax {
			result.Passed = true
			result.PointsAwarded = weight
			result.Notes = fmt.Sprintf("Within budget (%g <= %g)", candidateSalary, jobMax)
		} else {
			result.Notes = fmt.Sprintf("Above budget (%g > %g)", candidateSalary, jobMax)
		}
	case CategoryPreferable:
		result.Passed = true
		switch {
		case candidateSalary <= jobMax:
			result.PointsAwarded = weight
			result.Notes = fmt.Sprintf("Within preferred range (%g <= %g)", candidateSalary, jobMax)
		case candidateSalary <= jobMax*(1+e.cfg.SalarySoftOverage):
			result.PointsAwarded = weight * 0.5
			result.Notes = fmt.Sprintf("Within soft overage (%g vs %g)", candidateSalary, jobMax)
		default:
			result.Notes = fmt.Sprintf("Above preferred range (%g > %g)", candidateSalary, jobMax)
		}
	case CategoryHardNo:
		if candidateSalary <= jobMax {
			result.Passed = true
			result.PointsAwarded = weight
			result.Notes = "Within budget"
		} else {
			result.Notes = fmt.Sprintf("Above maximum budget (%g > %g)", candidateSalary, jobMax)
		}
	}

	return result
}

func evaluateComparable(name string, category Category, weight float64, candidateValue, jobValue any) CriterionResult {
	result := CriterionResult{Name: name, Category: category, Weight: weight}

	candidateList, candidateIsList := stringList(candidateValue)
	jobList, jobIsList := stringList(jobValue)
	candidateStr, candidateIsStr := candidateValue.(string)
	jobStr, jobIsStr := jobValue.(string)

	var candidateBool, jobBool bool
	switch {
	case candidateIsList && jobIsList:
		// The candidate must cover every job-required item, case-insensitive.
		candidateBool = containsAll(candidateList, jobList)
		jobBool = true
	case candidateIsStr && jobIsStr:
		candidateBool = strings.EqualFold(strings.TrimSpace(candidateStr), strings.TrimSpace(jobStr))
		jobBool = true
	default:
		candidateBool = truthy(candidateValue, candidateTruthyTokens)
		jobBool = truthy(jobValue, jobTruthyTokens)
	}

	switch category {
	case CategoryYes:
		if candidateBool && jobBool {
			result.Passed = true
			result.PointsAwarded = weight
			result.Notes = "Required match"
		} else {
			result.Notes = "Missing required qualification"
		}
	case CategoryPreferable:
		result.Passed = true
		switch {
		case candidateBool && jobBool:
			result.PointsAwarded = weight
			result.Notes = "Preferred qualification present"
		case candidateBool:
			result.PointsAwarded = weight * 0.5
			result.Notes = "Partial match on preferred qualification"
		default:
			result.Notes = "Preferred qualification not present"
		}
	case CategoryHardNo:
		// The disqualifying condition must be absent.
		if !(candidateBool && jobBool) {
			result.Passed = true
			result.PointsAwarded = weight
			result.Notes = "Disqualifying factor absent"
		} else {
			result.Notes = "Disqualifying factor present"
		}
	}

	return result
}

func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// salaryBound extracts the upper salary bound from a job value that is
// either a scalar or a range object with a max/max_salary key. Unusable
// values yield a zero bound.
func salaryBound(v any) float64 {
	switch bound := v.(type) {
	case map[string]any:
		if max, ok := numericValue(bound["max"]); ok {
			return max
		}
		if max, ok := numericValue(bound["max_salary"]); ok {
			return max
		}
		return 0
	default:
		if max, ok := numericValue(v); ok {
			return max
		}
		return 0
	}
}

func stringList(v any) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		return list, true
	case []any:
		items := make([]string, 0, len(list))
		for _, item := range list {
			items = append(items, fmt.Sprint(item))
		}
		return items, true
	default:
		return nil, false
	}
}

func containsAll(candidate, required []string) bool {
	have := make(map[string]bool, len(candidate))
	for _, item := range candidate {
		have[strings.ToLower(strings.TrimSpace(item))] = true
	}

	for _, item := range required {
		if !have[strings.ToLower(strings.TrimSpace(item))] {
			return false
		}
	}

	return true
}

func truthy(v any, tokens map[string]bool) bool {
	switch value := v.(type) {
	case bool:
		return value
	case string:
		return tokens[strings.ToLower(strings.TrimSpace(value))]
	case []string:
		return len(value) > 0
	case []any:
		return len(value) > 0
	case map[string]any:
		return len(value) > 0
	default:
		if num, ok := numericValue(v); ok {
			return num != 0
		}
		return v != nil
	}
}
