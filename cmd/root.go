package cmd

import (
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dmelnis/screengate/internal/scoring"
)

const (
	app = "screengate"
)

type Config struct {
	StorePath string          `mapstructure:"store-path"`
	Scoring   *scoring.Config `mapstructure:"scoring"`
	AI        *AIConfig       `mapstructure:"ai"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "screengate is a cli for scoring job candidates against structured screening rules",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	// Scalar tunables default through viper so that an explicitly configured
	// zero (strict tolerance, no salary overage, zero threshold) survives as
	// written instead of being mistaken for an unset value.
	viper.SetDefault("store-path", app+".db")
	viper.SetDefault("scoring.experience-tolerance", 1.0)
	viper.SetDefault("scoring.salary-soft-overage", 0.1)
	viper.SetDefault("scoring.pass-threshold", 70.0)
	viper.SetDefault("scoring.primary-weight", 0.8)
	viper.SetDefault("scoring.secondary-weight", 0.2)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is screengate.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)

		// We can't proceed if an explicitly requested config file parses with error.
		if err := viper.ReadInConfig(); err != nil {
			log.Fatal(err)
		}
		return
	}

	viper.AddConfigPath(".")
	viper.SetConfigName(app)
	viper.SetConfigType("yaml")

	// Scoring falls back to the built-in defaults when no config file exists.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Scoring == nil {
		config.Scoring = scoring.DefaultConfig()
	}
	// An empty weight table is unusable, so it falls back wholesale. The
	// scalar tunables are covered by the viper defaults instead.
	if len(config.Scoring.Weights) == 0 {
		config.Scoring.Weights = scoring.DefaultWeights()
	}
	if config.StorePath == "" {
		config.StorePath = app + ".db"
	}

	return config, nil
}
