package store

import (
	"context"
	"fmt"

	"github.com/dmelnis/screengate/internal/scoring"
)

// RecruiterSummary is the reporting view over one stored report: where the
// points went, what was missed and what to do about it.
type RecruiterSummary struct {
	Overview            Overview            `json:"overview"`
	ScoreBreakdown      ScoreBreakdown      `json:"score_breakdown"`
	MajorDeductions     []Deduction         `json:"major_deductions"`
	Concerns            []Concern           `json:"areas_of_concern"`
	Strengths           []Strength          `json:"strengths"`
	SecondaryAssessment SecondaryAssessment `json:"secondary_assessment"`
	Recommendations     []string            `json:"recommendations"`
}

type Overview struct {
	FinalScore     float64          `json:"final_score"`
	Decision       scoring.Decision `json:"decision"`
	PrimaryScore   float64          `json:"primary_score"`
	SecondaryScore float64          `json:"secondary_score"`
}

type ScoreBreakdown struct {
	TotalPossible   float64 `json:"total_possible"`
	TotalAwarded    float64 `json:"total_awarded"`
	TotalMissed     float64 `json:"total_missed"`
	ScorePercentage float64 `json:"score_percentage"`
}

// Deduction is a mandatory criterion that lost points.
type Deduction struct {
	Criterion    string  `json:"criterion"`
	PointsMissed float64 `json:"points_missed"`
	Reason       string  `json:"reason"`
}

// Concern is any criterion that lost points.
type Concern struct {
	Criterion    string           `json:"criterion"`
	Category     scoring.Category `json:"category"`
	PointsMissed float64          `json:"points_missed"`
	Reason       string           `json:"reason"`
}

// Strength is a criterion that earned its full weight.
type Strength struct {
	Criterion     string           `json:"criterion"`
	Category      scoring.Category `json:"category"`
	PointsAwarded float64          `json:"points_awarded"`
}

type SecondaryAssessment struct {
	TotalQuestions  int    `json:"total_questions"`
	YesResponses    int    `json:"yes_responses"`
	Preferable      int    `json:"preferable_responses"`
	HardNoResponses int    `json:"hard_no_responses"`
	ResponseQuality string `json:"response_quality"`
}

// Summarize builds the recruiter summary from a stored report.
func Summarize(saved *SavedReport) *RecruiterSummary {
	summary := &RecruiterSummary{
		Overview: Overview{
			FinalScore:     saved.Report.FinalScore,
			Decision:       saved.Report.Decision,
			PrimaryScore:   saved.Report.PrimaryScore,
			SecondaryScore: saved.Report.SecondaryScore,
		},
		MajorDeductions: []Deduction{},
		Concerns:        []Concern{},
		Strengths:       []Strength{},
	}

	for _, result := range saved.Report.PrimaryBreakdown {
		summary.ScoreBreakdown.TotalPossible += result.Weight
		summary.ScoreBreakdown.TotalAwarded += result.PointsAwarded

		missed := result.Weight - result.PointsAwarded
		if missed > 0 {
			summary.Concerns = append(summary.Concerns, Concern{
				Criterion:    result.Name,
				Category:     result.Category,
				PointsMissed: missed,
				Reason:       result.Notes,
			})
			if result.Category == scoring.CategoryYes {
				summary.MajorDeductions = append(summary.MajorDeductions, Deduction{
					Criterion:    result.Name,
					PointsMissed: missed,
					Reason:       result.Notes,
				})
			}
		}
		if result.PointsAwarded == result.Weight && result.Weight > 0 {
			summary.Strengths = append(summary.Strengths, Strength{
				Criterion:     result.Name,
				Category:      result.Category,
				PointsAwarded: result.PointsAwarded,
			})
		}
	}

	summary.ScoreBreakdown.TotalMissed = summary.ScoreBreakdown.TotalPossible - summary.ScoreBreakdown.TotalAwarded
	if summary.ScoreBreakdown.TotalPossible > 0 {
		summary.ScoreBreakdown.ScorePercentage = summary.ScoreBreakdown.TotalAwarded / summary.ScoreBreakdown.TotalPossible * 100
	}

	for _, judgment := range saved.Report.SecondaryJudgments {
		summary.SecondaryAssessment.TotalQuestions++
		switch judgment.Category {
		case scoring.CategoryYes:
			summary.SecondaryAssessment.YesResponses++
		case scoring.CategoryPreferable:
			summary.SecondaryAssessment.Preferable++
		case scoring.CategoryHardNo:
			summary.SecondaryAssessment.HardNoResponses++
		}
	}

	switch {
	case summary.SecondaryAssessment.YesResponses > summary.SecondaryAssessment.Preferable:
		summary.SecondaryAssessment.ResponseQuality = "Strong"
	case summary.SecondaryAssessment.Preferable > 0:
		summary.SecondaryAssessment.ResponseQuality = "Mixed"
	default:
		summary.SecondaryAssessment.ResponseQuality = "Concerning"
	}

	summary.Recommendations = recommendations(saved, summary)

	return summary
}

func recommendations(saved *SavedReport, summary *RecruiterSummary) []string {
	recs := []string{}
	report := saved.Report

	if report.Decision == scoring.DecisionReject {
		switch {
		case report.FinalScore < 50:
			recs = append(recs, "Strong rejection - candidate significantly below requirements")
		case report.FinalScore < 70:
			recs = append(recs, "Borderline candidate - consider if specific skills can be developed")
		}
	}

	for _, deduction := range summary.MajorDeductions {
		switch deduction.Criterion {
		case "years_experience":
			recs = append(recs, "Consider if candidate's potential can compensate for experience gap")
		case "required_skills":
			recs = append(recs, "Evaluate if missing skills can be learned on the job")
		case "employment_type":
			recs = append(recs, "Verify candidate's availability and commitment to role type")
		}
	}

	if summary.SecondaryAssessment.HardNoResponses > 0 {
		recs = append(recs, "Review secondary assessment - some concerning responses noted")
	}

	if report.PrimaryScore > 80 && report.SecondaryScore < 60 {
		recs = append(recs, "Strong technical fit but communication concerns - consider interview")
	} else if report.PrimaryScore < 60 && report.SecondaryScore > 80 {
		recs = append(recs, "Good communication but technical gaps - consider training plan")
	}

	return recs
}

// Insights aggregates outcomes across all stored reports.
type Insights struct {
	TotalReports      int                `json:"total_reports"`
	Passed            int                `json:"passed"`
	Rejected          int                `json:"rejected"`
	AverageFinalScore float64            `json:"average_final_score"`
	HardNoRejections  int                `json:"hard_no_rejections"`
	WeakestCriteria   []CriterionInsight `json:"weakest_criteria"`
}

// CriterionInsight counts how often a criterion awarded no points at all.
type CriterionInsight struct {
	Criterion      string `json:"criterion"`
	ZeroPointCount int    `json:"zero_point_count"`
}

// Insights computes the aggregate view over stored history.
func (s *Store) Insights(ctx context.Context) (*Insights, error) {
	insights := &Insights{WeakestCriteria: []CriterionInsight{}}

	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(decision = 'PASS'), 0),
		        COALESCE(SUM(decision = 'REJECT'), 0),
		        COALESCE(AVG(final_score), 0),
		        COALESCE(SUM(fail_reason LIKE 'Primary hard-no:%'), 0)
		 FROM scoring_results`)
	if err := row.Scan(&insights.TotalReports, &insights.Passed, &insights.Rejected,
		&insights.AverageFinalScore, &insights.HardNoRejections); err != nil {
		return nil, fmt.Errorf("aggregate results: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT criterion_name, COUNT(*) AS misses
		 FROM scoring_breakdown
		 WHERE points_awarded = 0
		 GROUP BY criterion_name
		 ORDER BY misses DESC, criterion_name
		 LIMIT 5`)
	if err != nil {
		return nil, fmt.Errorf("aggregate criteria: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var insight CriterionInsight
		if err := rows.Scan(&insight.Criterion, &insight.ZeroPointCount); err != nil {
			return nil, fmt.Errorf("scan criterion insight: %w", err)
		}
		insights.WeakestCriteria = append(insights.WeakestCriteria, insight)
	}

	return insights, rows.Err()
}
