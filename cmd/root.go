package cmd

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/career-compass/internal/assessment"
	"github.com/spigell/career-compass/internal/career"
	"github.com/spigell/career-compass/internal/recommend"
)

const (
	app = "career-compass"
)

type Config struct {
	// QuestionsFile overrides the built-in question bank.
	QuestionsFile string `mapstructure:"questions-file"`
	// CareersFile overrides the built-in career catalog.
	CareersFile string `mapstructure:"careers-file"`
	// User is the name used to address the student in the menus.
	User string `mapstructure:"user"`
	// Weights overrides the per-kind assessment weighting.
	Weights map[string]float64 `mapstructure:"weights"`

	Explore *ExploreConfig `mapstructure:"explore"`
	AI      *AIConfig      `mapstructure:"ai"`
}

type ExploreConfig struct {
	Search     string `mapstructure:"search"`
	Category   string `mapstructure:"category"`
	SalaryMin  int    `mapstructure:"salary-min"`
	SalaryMax  int    `mapstructure:"salary-max"`
	Experience string `mapstructure:"experience"`
	// DisabledFilters lists explorer filter names to skip.
	DisabledFilters []string `mapstructure:"disabled-filters"`
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
		Short: "career-compass is a cli that turns self-assessments into ranked career recommendations",
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

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is career-compass.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// The built-in question bank and catalog make a config file optional,
	// but one that exists must parse.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}

	return config, nil
}

// loadBank returns the configured question bank, falling back to the
// built-in one.
func loadBank(config *Config) (*assessment.Bank, error) {
	if config.QuestionsFile != "" {
		return assessment.LoadBank(config.QuestionsFile)
	}

	return assessment.DefaultBank()
}

// loadCatalog returns the configured career catalog, falling back to the
// built-in one.
func loadCatalog(config *Config) (*career.Catalog, error) {
	if config.CareersFile != "" {
		return career.LoadCatalog(config.CareersFile)
	}

	return career.DefaultCatalog()
}

// resolveWeights converts the configured weight map into engine weights,
// falling back to the standard 40/35/25 split.
func resolveWeights(config *Config) (recommend.Weights, error) {
	if len(config.Weights) == 0 {
		return recommend.DefaultWeights(), nil
	}

	weights := make(recommend.Weights, len(config.Weights))
	for name, weight := range config.Weights {
		kind, err := assessment.ParseKind(name)
		if err != nil {
			return nil, fmt.Errorf("weights: %w", err)
		}
		if weight <= 0 {
			return nil, fmt.Errorf("weights: %s must be positive, got %f", kind, weight)
		}
		weights[kind] = weight
	}

	return weights, nil
}
