// Package ai defines the collaborator boundary for classifying free-form
// interview answers. The scoring engine itself never performs language
// understanding; it consumes the judgments produced here.
package ai

import "context"

// Question is one asked interview question with the candidate's raw answer.
type Question struct {
	QuestionID string `json:"question_id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
}

// AnswerAssessment is one answer classified into a screening category.
// Category is a raw token (YES, PREFERABLE or HARD_NO) validated later by
// the scoring engine.
type AnswerAssessment struct {
	QuestionID string `json:"question_id"`
	Category   string `json:"category"`
	Rationale  string `json:"rationale"`
}

// Judge classifies a batch of interview answers against a job context.
type Judge interface {
	Judge(ctx context.Context, jobContext string, questions []Question) ([]AnswerAssessment, error)
}
