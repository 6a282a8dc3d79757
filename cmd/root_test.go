package cmd

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func readTestConfig(t *testing.T, raw string) {
	t.Helper()
	viper.SetConfigType("yaml")
	if err := viper.ReadConfig(strings.NewReader(raw)); err != nil {
		t.Fatalf("reading config: %s", err)
	}
}

func TestGetConfigKeepsExplicitZeroTunables(t *testing.T) {
	readTestConfig(t, `
scoring:
  experience-tolerance: 0
  salary-soft-overage: 0
  pass-threshold: 0
`)

	config, err := getConfig()
	if err != nil {
		t.Fatalf("getting config: %s", err)
	}

	if config.Scoring.ExperienceTolerance != 0 {
		t.Fatalf("explicit zero tolerance was rewritten to %g", config.Scoring.ExperienceTolerance)
	}
	if config.Scoring.SalarySoftOverage != 0 {
		t.Fatalf("explicit zero overage was rewritten to %g", config.Scoring.SalarySoftOverage)
	}
	if config.Scoring.PassThreshold != 0 {
		t.Fatalf("explicit zero threshold was rewritten to %g", config.Scoring.PassThreshold)
	}
	if config.Scoring.PrimaryWeight != 0.8 || config.Scoring.SecondaryWeight != 0.2 {
		t.Fatalf("unset blend weights must default to 0.8/0.2, got %g/%g",
			config.Scoring.PrimaryWeight, config.Scoring.SecondaryWeight)
	}
}

func TestGetConfigDefaultsWhenUnset(t *testing.T) {
	readTestConfig(t, "{}")

	config, err := getConfig()
	if err != nil {
		t.Fatalf("getting config: %s", err)
	}

	if config.Scoring.ExperienceTolerance != 1.0 {
		t.Fatalf("expected default tolerance 1.0, got %g", config.Scoring.ExperienceTolerance)
	}
	if config.Scoring.SalarySoftOverage != 0.1 {
		t.Fatalf("expected default overage 0.1, got %g", config.Scoring.SalarySoftOverage)
	}
	if config.Scoring.PassThreshold != 70.0 {
		t.Fatalf("expected default threshold 70, got %g", config.Scoring.PassThreshold)
	}
	if len(config.Scoring.Weights) != 8 {
		t.Fatalf("expected the default weight table, got %d entries", len(config.Scoring.Weights))
	}
	if config.StorePath != "screengate.db" {
		t.Fatalf("expected default store path, got %q", config.StorePath)
	}
	if err := config.Scoring.Validate(); err != nil {
		t.Fatalf("default configuration must validate: %s", err)
	}
}
