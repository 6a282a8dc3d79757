package cmd

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/dmelnis/screengate/internal/logger"
	"github.com/dmelnis/screengate/internal/scoring"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective scoring configuration",
	Run: func(_ *cobra.Command, _ []string) {
		showConfig()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func showConfig() {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if err := config.Scoring.Validate(); err != nil {
		logger.Fatal("invalid scoring configuration", zap.Error(err))
	}

	echo := struct {
		Scoring             *scoring.Config    `json:"scoring_config"`
		StorePath           string             `json:"store_path"`
		AvailableCategories []scoring.Category `json:"available_categories"`
		ExampleRules        map[string]string  `json:"example_rules_config"`
	}{
		Scoring:             config.Scoring,
		StorePath:           config.StorePath,
		AvailableCategories: scoring.Categories(),
		ExampleRules: map[string]string{
			"years_experience": "YES",
			"required_skills":  "YES",
			"education":        "PREFERABLE",
			"salary_range":     "HARD_NO",
		},
	}

	pretty, _ := json.MarshalIndent(echo, "", "  ")
	fmt.Println(string(pretty))
}
