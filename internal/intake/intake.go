// Package intake loads the engine's input documents from YAML files: job
// descriptions, candidate profiles, rule configurations, pre-classified
// answer judgments and raw interview transcripts.
package intake

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dmelnis/screengate/internal/scoring"
)

// LoadDocument reads a job description or candidate profile. Extra keys are
// kept as-is; the engine ignores what it does not know.
func LoadDocument(path string) (scoring.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document %q: %w", path, err)
	}

	var doc scoring.Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing document %q: %w", path, err)
	}

	return doc, nil
}

// LoadRules reads a criterion-name to category mapping. The mapping's
// document order is preserved because the primary scorer evaluates rules,
// and short-circuits on hard-no rules, in that exact order.
func LoadRules(path string) (scoring.Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules %q: %w", path, err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing rules %q: %w", path, err)
	}

	if len(root.Content) == 0 {
		return scoring.Rules{}, nil
	}

	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("rules %q: expected a mapping of rule name to category", path)
	}

	rules := make(scoring.Rules, 0, len(mapping.Content)/2)
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		name := mapping.Content[i].Value
		category, err := scoring.ParseCategory(mapping.Content[i+1].Value)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", name, err)
		}
		rules = append(rules, scoring.Rule{Name: name, Category: category})
	}

	return rules, nil
}

// LoadJudgments reads answer judgments that were already classified by an
// external collaborator. Items without a question id fail the load.
func LoadJudgments(path string) ([]scoring.AnswerInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading judgments %q: %w", path, err)
	}

	var raw []map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing judgments %q: %w", path, err)
	}

	answers, err := scoring.DecodeAnswers(raw)
	if err != nil {
		return nil, fmt.Errorf("judgments %q: %w", path, err)
	}

	return answers, nil
}

// TranscriptEntry is one interview question together with the candidate's
// free-form answer, before classification.
type TranscriptEntry struct {
	QuestionID string `yaml:"question_id" json:"question_id"`
	Question   string `yaml:"question" json:"question"`
	Answer     string `yaml:"answer" json:"answer"`
}

// LoadTranscript reads a raw interview transcript for AI classification.
func LoadTranscript(path string) ([]TranscriptEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading transcript %q: %w", path, err)
	}

	var entries []TranscriptEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing transcript %q: %w", path, err)
	}

	for i, entry := range entries {
		if entry.QuestionID == "" {
			return nil, fmt.Errorf("transcript %q: entry %d is missing question_id", path, i)
		}
	}

	return entries, nil
}
