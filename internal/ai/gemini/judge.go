package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/dmelnis/screengate/internal/ai"
	"github.com/dmelnis/screengate/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxLogLength = 200
	retryBackoff        = 2 * time.Second
)

// Judge classifies interview answers into screening categories with Gemini.
type Judge struct {
	generator  contentGenerator
	maxRetries int
	maxLogLen  int
	logger     *zap.Logger
}

// NewJudge creates a Judge on top of a content generator.
func NewJudge(generator contentGenerator, maxRetries, maxLogLength int, logger *zap.Logger) *Judge {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Judge{
		generator:  generator,
		maxRetries: maxRetries,
		maxLogLen:  maxLogLength,
		logger:     logger,
	}
}

// Judge sends the whole answer batch in one prompt and parses the returned
// per-answer classifications. Items the model returns without a question id
// are dropped with a warning; a response yielding no usable item is an error.
func (j *Judge) Judge(ctx context.Context, jobContext string, questions []ai.Question) ([]ai.AnswerAssessment, error) {
	if len(questions) == 0 {
		return []ai.AnswerAssessment{}, nil
	}

	answersJSON, err := json.MarshalIndent(questions, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal answers payload: %w", err)
	}

	prompt := buildPrompt(jobContext, string(answersJSON))

	j.logger.Debug("gemini judge request",
		zap.Int("questions", len(questions)),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, j.maxLogLen)),
	)

	raw, err := j.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	j.logger.Debug("gemini judge response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, j.maxLogLen)),
	)

	return j.parseAssessments(raw)
}

func (j *Judge) generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= j.maxRetries; attempt++ {
		if attempt > 0 {
			j.logger.Warn("retrying gemini judge request",
				zap.Int("attempt", attempt),
				zap.Error(lastErr),
			)
			if err := utils.WaitFor(ctx, retryBackoff); err != nil {
				return "", err
			}
		}

		raw, err := j.generator.GenerateContent(ctx, prompt)
		if err == nil {
			return raw, nil
		}
		lastErr = err
	}

	return "", fmt.Errorf("gemini judge request failed after %d attempts: %w", j.maxRetries+1, lastErr)
}

func (j *Judge) parseAssessments(raw string) ([]ai.AnswerAssessment, error) {
	cleaned := extractJSON(raw)

	var items []map[string]any
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		return nil, fmt.Errorf("parse gemini judge response: %w", err)
	}

	assessments := make([]ai.AnswerAssessment, 0, len(items))
	for _, item := range items {
		questionID := coerceString(item["question_id"])
		if questionID == "" {
			j.logger.Warn("dropping judge item without question_id",
				zap.String("item_preview", utils.TruncateForLog(fmt.Sprint(item), j.maxLogLen)),
			)
			continue
		}

		assessments = append(assessments, ai.AnswerAssessment{
			QuestionID: questionID,
			Category:   j.normalizeCategory(questionID, coerceString(item["category"])),
			Rationale:  coerceString(item["rationale"]),
		})
	}

	if len(assessments) == 0 && len(items) > 0 {
		return nil, fmt.Errorf("gemini judge response contained no usable assessments")
	}

	return assessments, nil
}

// normalizeCategory maps model output onto the three category tokens. An
// unrecognized token falls back to PREFERABLE, matching the engine's default
// for unclassified answers.
func (j *Judge) normalizeCategory(questionID, token string) string {
	normalized := strings.ToUpper(strings.TrimSpace(token))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.ReplaceAll(normalized, "-", "_")

	switch normalized {
	case "YES", "PREFERABLE", "HARD_NO":
		return normalized
	case "HARDNO":
		return "HARD_NO"
	}

	j.logger.Debug("unrecognized judge category, falling back to PREFERABLE",
		zap.String("question_id", questionID),
		zap.String("category", token),
	)

	return "PREFERABLE"
}

func buildPrompt(jobJSON, answersJSON string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Job:\n{{JOB_JSON}}\n\nAnswers:\n{{ANSWERS_JSON}}\n\nJSON Response:"
	}
	prompt := strings.ReplaceAll(template, "{{JOB_JSON}}", jobJSON)
	prompt = strings.ReplaceAll(prompt, "{{ANSWERS_JSON}}", answersJSON)
	return prompt
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}
