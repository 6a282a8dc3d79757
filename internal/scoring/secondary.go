package scoring

import (
	"errors"
	"fmt"
	"math"

	"github.com/mitchellh/mapstructure"
)

// ErrMissingQuestionID is returned when an externally supplied answer
// judgment carries no question identifier. Such items fail the whole call
// instead of being silently dropped, to avoid mis-scored candidates.
var ErrMissingQuestionID = errors.New("answer judgment is missing question_id")

// AnswerInput is one interview answer judgment as supplied by an external
// classifier. Category is a raw token; an empty token means PREFERABLE.
type AnswerInput struct {
	QuestionID string `mapstructure:"question_id" json:"question_id"`
	Category   string `mapstructure:"category" json:"category"`
	Rationale  string `mapstructure:"rationale" json:"rationale"`
}

// DecodeAnswers converts loosely typed judgment records, as they arrive
// from files or collaborator payloads, into answer inputs.
func DecodeAnswers(raw []map[string]any) ([]AnswerInput, error) {
	answers := make([]AnswerInput, 0, len(raw))
	for i, item := range raw {
		var answer AnswerInput
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &answer,
			WeaklyTypedInput: true,
		})
		if err != nil {
			return nil, fmt.Errorf("building answer decoder: %w", err)
		}
		if err := decoder.Decode(item); err != nil {
			return nil, fmt.Errorf("decoding answer %d: %w", i, err)
		}
		if answer.QuestionID == "" {
			return nil, fmt.Errorf("answer %d: %w", i, ErrMissingQuestionID)
		}
		answers = append(answers, answer)
	}

	return answers, nil
}

// ScoreSecondary tallies classified interview answers into a percentage
// score. There is no early exit here: a HARD_NO judgment is merely counted.
// The score is rounded half away from zero, so a raw 62.5 becomes 63; the
// tie-breaking direction matters because it can flip a borderline decision.
func (e *Engine) ScoreSecondary(answers []AnswerInput) (float64, []AnswerJudgment, error) {
	if len(answers) == 0 {
		return 0, []AnswerJudgment{}, nil
	}

	judgments := make([]AnswerJudgment, 0, len(answers))
	var yes, preferable, hardNo int

	for _, answer := range answers {
		category := CategoryPreferable
		if answer.Category != "" {
			parsed, err := ParseCategory(answer.Category)
			if err != nil {
				return 0, nil, fmt.Errorf("answer %q: %w", answer.QuestionID, err)
			}
			category = parsed
		}

		judgments = append(judgments, AnswerJudgment{
			QuestionID: answer.QuestionID,
			Category:   category,
			Rationale:  answer.Rationale,
		})

		switch category {
		case CategoryYes:
			yes++
		case CategoryPreferable:
			preferable++
		case CategoryHardNo:
			hardNo++
		}
	}

	total := yes + preferable + hardNo
	score := 100 * (float64(yes) + 0.5*float64(preferable)) / float64(total)

	return math.Round(score), judgments, nil
}
