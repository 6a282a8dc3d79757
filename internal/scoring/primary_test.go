package scoring

import "testing"

func TestScorePrimaryWeightedTally(t *testing.T) {
	e := testEngine(t, nil)

	job := Document{
		"years_experience": 5,
		"required_skills":  []any{"python"},
	}
	candidate := Document{
		"years_experience": 5,
		"required_skills":  []any{},
	}
	rules := Rules{
		{Name: "years_experience", Category: CategoryYes},
		{Name: "required_skills", Category: CategoryYes},
	}

	result := e.ScorePrimary(job, candidate, rules)
	if result.HardNo != "" {
		t.Fatalf("no hard-no rule configured, got %q", result.HardNo)
	}
	if len(result.Breakdown) != 2 {
		t.Fatalf("expected 2 breakdown entries, got %d", len(result.Breakdown))
	}
	if result.Breakdown[0].PointsAwarded != 20 {
		t.Fatalf("expected full experience weight, got %g", result.Breakdown[0].PointsAwarded)
	}
	if result.Score >= 100 {
		t.Fatalf("missing skills must lower the score, got %g", result.Score)
	}

	// 20 of 30 matched points.
	want := 20.0 / 30.0 * 100
	if result.Score != want {
		t.Fatalf("expected score %g, got %g", want, result.Score)
	}
}

func TestScorePrimaryHardNoStopsEvaluation(t *testing.T) {
	e := testEngine(t, nil)

	job := Document{
		"years_experience": 5,
		"education":        "Bachelor's",
		"required_skills":  []any{"go"},
	}
	candidate := Document{
		"years_experience": 2,
		"education":        "Bachelor's",
		"required_skills":  []any{"go"},
	}
	rules := Rules{
		{Name: "education", Category: CategoryYes},
		{Name: "years_experience", Category: CategoryHardNo},
		{Name: "required_skills", Category: CategoryYes},
	}

	result := e.ScorePrimary(job, candidate, rules)
	if result.HardNo != "years_experience" {
		t.Fatalf("expected hard-no on years_experience, got %q", result.HardNo)
	}
	if result.Score != 0 {
		t.Fatalf("expected zero score after hard-no, got %g", result.Score)
	}
	if len(result.Breakdown) != 2 {
		t.Fatalf("rules after the hard-no must not be evaluated, got %d entries", len(result.Breakdown))
	}
	if result.Breakdown[len(result.Breakdown)-1].Name != "years_experience" {
		t.Fatalf("breakdown must end with the triggering rule, got %q", result.Breakdown[len(result.Breakdown)-1].Name)
	}
}

func TestScorePrimarySkipsUnknownRules(t *testing.T) {
	e := testEngine(t, nil)

	rules := Rules{
		{Name: "favourite_colour", Category: CategoryYes},
	}

	result := e.ScorePrimary(Document{}, Document{}, rules)
	if result.Score != 0 || len(result.Breakdown) != 0 {
		t.Fatalf("unknown rules must be skipped entirely, got %+v", result)
	}
}

func TestScorePrimaryKeepsRuleOrder(t *testing.T) {
	e := testEngine(t, nil)

	rules := Rules{
		{Name: "languages", Category: CategoryPreferable},
		{Name: "education", Category: CategoryPreferable},
		{Name: "employment_type", Category: CategoryPreferable},
	}

	result := e.ScorePrimary(Document{}, Document{}, rules)
	for i, rule := range rules {
		if result.Breakdown[i].Name != rule.Name {
			t.Fatalf("breakdown order differs from rule order at %d: %q", i, result.Breakdown[i].Name)
		}
	}
}
