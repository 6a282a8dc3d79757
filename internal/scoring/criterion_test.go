package scoring

import "testing"

func testEngine(t *testing.T, cfg *Config) *Engine {
	t.Helper()
	engine, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("unexpected error building engine: %v", err)
	}
	return engine
}

func TestEvaluateNumericYes(t *testing.T) {
	e := testEngine(t, nil)

	result := e.evaluateCriterion("years_experience", CategoryYes, 20,
		Document{"years_experience": 5}, Document{"years_experience": 5})
	if !result.Passed || result.PointsAwarded != 20 {
		t.Fatalf("expected full pass at exact match, got %+v", result)
	}

	result = e.evaluateCriterion("years_experience", CategoryYes, 20,
		Document{"years_experience": 5}, Document{"years_experience": 3})
	if result.Passed || result.PointsAwarded != 0 {
		t.Fatalf("expected zero points below requirement, got %+v", result)
	}
}

func TestEvaluateNumericPreferableToleranceBand(t *testing.T) {
	e := testEngine(t, nil)
	job := Document{"years_experience": 5}

	cases := []struct {
		name      string
		candidate float64
		points    float64
	}{
		{"at requirement", 5, 20},
		{"within tolerance", 4.5, 14},
		{"at tolerance edge", 4, 14},
		{"below tolerance", 3.5, 0},
	}

	for _, tc := range cases {
		result := e.evaluateCriterion("years_experience", CategoryPreferable, 20,
			job, Document{"years_experience": tc.candidate})
		if result.PointsAwarded != tc.points {
			t.Fatalf("%s: expected %g points, got %g", tc.name, tc.points, result.PointsAwarded)
		}
		if !result.Passed {
			t.Fatalf("%s: preferable criteria must always report passed", tc.name)
		}
	}
}

func TestEvaluateSalaryPreferableSoftOverage(t *testing.T) {
	e := testEngine(t, nil)
	job := Document{"salary_range": map[string]any{"max": 100}}

	result := e.evaluateCriterion("salary_range", CategoryPreferable, 10,
		job, Document{"salary_range": 110})
	if result.PointsAwarded != 5 {
		t.Fatalf("expected half weight at the overage boundary, got %g", result.PointsAwarded)
	}

	result = e.evaluateCriterion("salary_range", CategoryPreferable, 10,
		job, Document{"salary_range": 111})
	if result.PointsAwarded != 0 {
		t.Fatalf("expected zero points above the overage boundary, got %g", result.PointsAwarded)
	}
}

func TestEvaluateSalaryBoundShapes(t *testing.T) {
	e := testEngine(t, nil)

	// max_salary key and scalar bound are both accepted.
	result := e.evaluateCriterion("salary_range", CategoryYes, 10,
		Document{"salary_range": map[string]any{"max_salary": 90}}, Document{"salary_range": 90})
	if !result.Passed {
		t.Fatalf("expected pass at max_salary bound, got %+v", result)
	}

	result = e.evaluateCriterion("salary_range", CategoryYes, 10,
		Document{"salary_range": 80}, Document{"salary_range": 90})
	if result.Passed {
		t.Fatalf("expected fail above scalar bound, got %+v", result)
	}
}

func TestEvaluateMissingData(t *testing.T) {
	e := testEngine(t, nil)

	result := e.evaluateCriterion("education", CategoryYes, 10, Document{}, Document{})
	if result.Passed || result.PointsAwarded != 0 || result.Notes != "Missing data" {
		t.Fatalf("mandatory criterion with missing data must award nothing, got %+v", result)
	}

	result = e.evaluateCriterion("education", CategoryPreferable, 10, Document{}, Document{})
	if !result.Passed || result.PointsAwarded != 5 {
		t.Fatalf("preferable criterion with missing data must award half weight, got %+v", result)
	}
}

func TestEvaluateListContainment(t *testing.T) {
	e := testEngine(t, nil)
	job := Document{"required_skills": []any{"Go", "SQL"}}

	result := e.evaluateCriterion("required_skills", CategoryYes, 10,
		job, Document{"required_skills": []any{"go", "sql", "docker"}})
	if !result.Passed || result.PointsAwarded != 10 {
		t.Fatalf("expected case-insensitive superset to pass, got %+v", result)
	}

	result = e.evaluateCriterion("required_skills", CategoryYes, 10,
		job, Document{"required_skills": []any{"go"}})
	if result.Passed {
		t.Fatalf("expected missing required skill to fail, got %+v", result)
	}
}

func TestEvaluateStringEquality(t *testing.T) {
	e := testEngine(t, nil)

	result := e.evaluateCriterion("employment_type", CategoryYes, 10,
		Document{"employment_type": "Full_Time"}, Document{"employment_type": "full_time"})
	if !result.Passed {
		t.Fatalf("expected case-insensitive string match, got %+v", result)
	}
}

func TestEvaluateHardNoBoolean(t *testing.T) {
	e := testEngine(t, nil)

	// Disqualifier present on both sides triggers the hard-no.
	result := e.evaluateCriterion("criminal_background", CategoryHardNo, 10,
		Document{"criminal_background": "required"}, Document{"criminal_background": "present"})
	if result.Passed {
		t.Fatalf("expected hard-no to trigger, got %+v", result)
	}

	result = e.evaluateCriterion("criminal_background", CategoryHardNo, 10,
		Document{"criminal_background": "required"}, Document{"criminal_background": "no"})
	if !result.Passed || result.PointsAwarded != 10 {
		t.Fatalf("expected absent disqualifier to pass with full weight, got %+v", result)
	}
}

func TestPointsNeverExceedWeight(t *testing.T) {
	e := testEngine(t, nil)
	job := Document{
		"years_experience": 5,
		"salary_range":     map[string]any{"max": 100},
		"required_skills":  []any{"go"},
		"education":        "Bachelor's",
	}
	candidate := Document{
		"years_experience": 4.5,
		"salary_range":     105,
		"required_skills":  []any{"go", "sql"},
	}

	for _, name := range []string{"years_experience", "salary_range", "required_skills", "education"} {
		for _, category := range Categories() {
			result := e.evaluateCriterion(name, category, 10, job, candidate)
			if result.PointsAwarded < 0 || result.PointsAwarded > result.Weight {
				t.Fatalf("%s/%s: points %g outside [0, %g]", name, category, result.PointsAwarded, result.Weight)
			}
		}
	}
}
