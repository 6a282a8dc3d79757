package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/dmelnis/screengate/internal/ai"
	"github.com/dmelnis/screengate/internal/ai/gemini"
	"github.com/dmelnis/screengate/internal/intake"
	"github.com/dmelnis/screengate/internal/logger"
	"github.com/dmelnis/screengate/internal/scoring"
	"github.com/dmelnis/screengate/internal/secrets"
	"github.com/dmelnis/screengate/internal/store"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a candidate against a job description and screening rules",
	Run: func(cmd *cobra.Command, _ []string) {
		score(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().String("job", "", "job description file (yaml)")
	scoreCmd.Flags().String("candidate", "", "candidate profile file (yaml)")
	scoreCmd.Flags().String("rules", "", "screening rules file (yaml): rule name to YES/PREFERABLE/HARD_NO")
	scoreCmd.Flags().String("judgments", "", "pre-classified interview answer judgments file (yaml)")
	scoreCmd.Flags().String("transcript", "", "raw interview transcript file (yaml), classified with the AI judge")
	scoreCmd.Flags().String("subject", "", "identifier for the stored report, e.g. an application id")
	scoreCmd.Flags().Bool("dry-run", false, "print the report without persisting it")

	scoreCmd.MarkFlagRequired("job")
	scoreCmd.MarkFlagRequired("candidate")
	scoreCmd.MarkFlagRequired("rules")
	scoreCmd.MarkFlagsMutuallyExclusive("judgments", "transcript")
}

// score is the main command of the cli: collect the inputs, run the engine,
// persist the report, print it.
func score(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the screengate", zap.String("version", version))

	engine, err := scoring.NewEngine(config.Scoring)
	if err != nil {
		logger.Fatal("invalid scoring configuration", zap.Error(err))
	}

	jobPath, _ := cmd.Flags().GetString("job")
	job, err := intake.LoadDocument(jobPath)
	if err != nil {
		logger.Fatal("loading job description", zap.Error(err))
	}

	candidatePath, _ := cmd.Flags().GetString("candidate")
	candidate, err := intake.LoadDocument(candidatePath)
	if err != nil {
		logger.Fatal("loading candidate profile", zap.Error(err))
	}

	rulesPath, _ := cmd.Flags().GetString("rules")
	rules, err := intake.LoadRules(rulesPath)
	if err != nil {
		logger.Fatal("loading screening rules", zap.Error(err))
	}

	answers, err := collectAnswers(ctx, cmd, config, job, logger)
	if err != nil {
		logger.Fatal("collecting answer judgments", zap.Error(err))
	}

	report, err := engine.ScoreCandidate(job, candidate, rules, answers)
	if err != nil {
		logger.Fatal("scoring failed", zap.Error(err))
	}

	logger.Info("scoring complete",
		zap.Float64("final_score", report.FinalScore),
		zap.String("decision", string(report.Decision)),
	)

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); !dryRun {
		subject, _ := cmd.Flags().GetString("subject")
		if subject == "" {
			subject = strings.TrimSuffix(filepath.Base(candidatePath), filepath.Ext(candidatePath))
		}

		st, err := store.Open(config.StorePath)
		if err != nil {
			logger.Fatal("opening report store", zap.Error(err))
		}
		defer st.Close()

		id, err := st.Save(ctx, subject, report, rules, engine.Config())
		if err != nil {
			logger.Fatal("saving report", zap.Error(err))
		}

		logger.Info("report saved",
			zap.String("report_id", id),
			zap.String("subject", subject),
		)
	}

	pretty, _ := json.MarshalIndent(report, "", "  ")
	fmt.Println(string(pretty))
}

// collectAnswers resolves the secondary-pass input: either a file of
// pre-classified judgments, or a raw transcript handed to the AI judge.
func collectAnswers(ctx context.Context, cmd *cobra.Command, config *Config, job scoring.Document, base *zap.Logger) ([]scoring.AnswerInput, error) {
	if judgmentsPath, _ := cmd.Flags().GetString("judgments"); judgmentsPath != "" {
		return intake.LoadJudgments(judgmentsPath)
	}

	transcriptPath, _ := cmd.Flags().GetString("transcript")
	if transcriptPath == "" {
		return nil, nil
	}

	entries, err := intake.LoadTranscript(transcriptPath)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	judge, err := newAnswerJudge(ctx, config.AI, base)
	if err != nil {
		return nil, fmt.Errorf("building ai judge: %w", err)
	}

	questions := make([]ai.Question, 0, len(entries))
	for _, entry := range entries {
		questions = append(questions, ai.Question{
			QuestionID: entry.QuestionID,
			Question:   entry.Question,
			Answer:     entry.Answer,
		})
	}

	jobJSON, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("marshal job context: %w", err)
	}

	assessments, err := judge.Judge(ctx, string(jobJSON), questions)
	if err != nil {
		return nil, err
	}

	answers := make([]scoring.AnswerInput, 0, len(assessments))
	for _, assessment := range assessments {
		answers = append(answers, scoring.AnswerInput{
			QuestionID: assessment.QuestionID,
			Category:   assessment.Category,
			Rationale:  assessment.Rationale,
		})
	}

	return answers, nil
}

func newAnswerJudge(ctx context.Context, cfg *AIConfig, base *zap.Logger) (ai.Judge, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("ai judge is disabled; supply --judgments or enable ai in the configuration")
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		return nil, errors.New("gemini configuration is required when the ai judge is enabled")
	}

	apiKey, err := secrets.Load("gemini api key", cfg.Gemini.APIKeyFile)
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}

	judgeLogger := logger.WithCommonFields(base, "gemini", generator.Model())

	return gemini.NewJudge(generator, cfg.Gemini.MaxRetries, cfg.Gemini.MaxLogLength, judgeLogger), nil
}
