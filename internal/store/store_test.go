package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmelnis/screengate/internal/scoring"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "screengate.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleReport() *scoring.ScoreReport {
	return &scoring.ScoreReport{
		PrimaryScore:   75,
		SecondaryScore: 50,
		FinalScore:     70,
		Decision:       scoring.DecisionPass,
		PrimaryBreakdown: []scoring.CriterionResult{
			{Name: "years_experience", Category: scoring.CategoryYes, Weight: 20, Passed: true, PointsAwarded: 20, Notes: "Meets requirement (5 >= 5)"},
			{Name: "required_skills", Category: scoring.CategoryYes, Weight: 10, Passed: false, PointsAwarded: 0, Notes: "Missing required qualification"},
			{Name: "education", Category: scoring.CategoryPreferable, Weight: 10, Passed: true, PointsAwarded: 5, Notes: "Missing data"},
		},
		SecondaryJudgments: []scoring.AnswerJudgment{
			{QuestionID: "q1", Category: scoring.CategoryYes, Rationale: "ready to relocate"},
			{QuestionID: "q2", Category: scoring.CategoryHardNo, Rationale: "refuses schedule"},
		},
		Summary: "Candidate scored 70.0/100 and meets the minimum requirements.",
	}
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	rules := scoring.Rules{
		{Name: "years_experience", Category: scoring.CategoryYes},
		{Name: "required_skills", Category: scoring.CategoryYes},
		{Name: "education", Category: scoring.CategoryPreferable},
	}
	cfg := scoring.DefaultConfig()

	id, err := s.Save(ctx, "app-42", sampleReport(), rules, cfg)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	saved, err := s.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "app-42", saved.Subject)
	require.Equal(t, 75.0, saved.Report.PrimaryScore)
	require.Equal(t, 50.0, saved.Report.SecondaryScore)
	require.Equal(t, 70.0, saved.Report.FinalScore)
	require.Equal(t, scoring.DecisionPass, saved.Report.Decision)

	require.Len(t, saved.Report.PrimaryBreakdown, 3)
	require.Equal(t, "years_experience", saved.Report.PrimaryBreakdown[0].Name)
	require.Equal(t, 20.0, saved.Report.PrimaryBreakdown[0].PointsAwarded)
	require.Equal(t, "required_skills", saved.Report.PrimaryBreakdown[1].Name)
	require.False(t, saved.Report.PrimaryBreakdown[1].Passed)

	require.Len(t, saved.Report.SecondaryJudgments, 2)
	require.Equal(t, "q1", saved.Report.SecondaryJudgments[0].QuestionID)

	require.Equal(t, rules, saved.Rules)
	require.NotNil(t, saved.Config)
	require.Equal(t, cfg.PassThreshold, saved.Config.PassThreshold)
}

func TestGetNotFound(t *testing.T) {
	s := testStore(t)

	_, err := s.Get(context.Background(), "missing")
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestLatestPicksNewestForSubject(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	first := sampleReport()
	second := sampleReport()
	second.FinalScore = 90

	_, err := s.Save(ctx, "app-1", first, nil, nil)
	require.NoError(t, err)
	secondID, err := s.Save(ctx, "app-1", second, nil, nil)
	require.NoError(t, err)
	_, err = s.Save(ctx, "app-2", sampleReport(), nil, nil)
	require.NoError(t, err)

	saved, err := s.Latest(ctx, "app-1")
	require.NoError(t, err)
	require.Equal(t, secondID, saved.ID)
	require.Equal(t, 90.0, saved.Report.FinalScore)
}

func TestLatestOrdersWithinSameSecond(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	insert := func(id string, createdAt time.Time) {
		_, err := s.db.Exec(
			`INSERT INTO scoring_results
				(id, subject, primary_score, secondary_score, final_score, decision, created_at)
			 VALUES (?, 'app-7', 0, 0, 0, 'REJECT', ?)`,
			id, createdAt.Format(timeLayout),
		)
		require.NoError(t, err)
	}

	// 100ms vs 150ms into the same second: a trimmed fraction like ".1Z"
	// would sort after ".15Z" and flip the order.
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	insert("older", base.Add(100*time.Millisecond))
	insert("newer", base.Add(150*time.Millisecond))

	saved, err := s.Latest(ctx, "app-7")
	require.NoError(t, err)
	require.Equal(t, "newer", saved.ID)

	listings, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, "newer", listings[0].ID)
	require.Equal(t, "older", listings[1].ID)
}

func TestList(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for _, subject := range []string{"a", "b", "c"} {
		_, err := s.Save(ctx, subject, sampleReport(), nil, nil)
		require.NoError(t, err)
	}

	listings, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, listings, 2)
}

func TestSummarize(t *testing.T) {
	saved := &SavedReport{Report: *sampleReport()}

	summary := Summarize(saved)
	require.Equal(t, 40.0, summary.ScoreBreakdown.TotalPossible)
	require.Equal(t, 25.0, summary.ScoreBreakdown.TotalAwarded)
	require.Equal(t, 15.0, summary.ScoreBreakdown.TotalMissed)

	// required_skills is the only mandatory criterion that lost points.
	require.Len(t, summary.MajorDeductions, 1)
	require.Equal(t, "required_skills", summary.MajorDeductions[0].Criterion)

	// Both required_skills and education lost points.
	require.Len(t, summary.Concerns, 2)

	require.Len(t, summary.Strengths, 1)
	require.Equal(t, "years_experience", summary.Strengths[0].Criterion)

	require.Equal(t, 2, summary.SecondaryAssessment.TotalQuestions)
	require.Equal(t, "Strong", summary.SecondaryAssessment.ResponseQuality)

	require.Contains(t, summary.Recommendations, "Evaluate if missing skills can be learned on the job")
	require.Contains(t, summary.Recommendations, "Review secondary assessment - some concerning responses noted")
}

func TestInsights(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	pass := sampleReport()
	_, err := s.Save(ctx, "a", pass, nil, nil)
	require.NoError(t, err)

	reject := sampleReport()
	reject.Decision = scoring.DecisionReject
	reject.FinalScore = 0
	reject.FailReason = "Primary hard-no: years_experience"
	_, err = s.Save(ctx, "b", reject, nil, nil)
	require.NoError(t, err)

	insights, err := s.Insights(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, insights.TotalReports)
	require.Equal(t, 1, insights.Passed)
	require.Equal(t, 1, insights.Rejected)
	require.Equal(t, 1, insights.HardNoRejections)
	require.Equal(t, 35.0, insights.AverageFinalScore)
	require.NotEmpty(t, insights.WeakestCriteria)
	require.Equal(t, "required_skills", insights.WeakestCriteria[0].Criterion)
}
