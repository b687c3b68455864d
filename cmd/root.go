package cmd

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/jobfit/internal/filtering"
	"github.com/spigell/jobfit/internal/matching"
)

const (
	app = "jobfit"

	envPrefix       = "JOBFIT"
	geminiAPIKeyEnv = "GEMINI_API_KEY"
)

type Config struct {
	Input       string            `mapstructure:"input"`
	Output      *OutputConfig     `mapstructure:"output"`
	Matching    *MatchingConfig   `mapstructure:"matching"`
	Filters     *filtering.Config `mapstructure:"filters"`
	AI          *AIConfig         `mapstructure:"ai"`
	MetricsFile string            `mapstructure:"metrics-file"`
}

type OutputConfig struct {
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

type MatchingConfig struct {
	Mode                string           `mapstructure:"mode"`
	Concurrency         int              `mapstructure:"concurrency"`
	CallTimeout         time.Duration    `mapstructure:"call-timeout"`
	FallbackScore       int              `mapstructure:"fallback-score"`
	SimilarityThreshold float64          `mapstructure:"similarity-threshold"`
	CoverageWeight      float64          `mapstructure:"coverage-weight"`
	CacheSize           int              `mapstructure:"cache-size"`
	Weights             matching.Weights `mapstructure:"weights"`
}

type AIConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	Provider          string        `mapstructure:"provider"`
	RequestsPerSecond float64       `mapstructure:"requests-per-second"`
	Burst             int           `mapstructure:"burst"`
	EmbedCacheSize    int           `mapstructure:"embed-cache-size"`
	Gemini            *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey         string `mapstructure:"api-key"`
	APIKeyFile     string `mapstructure:"api-key-file"`
	EmbeddingModel string `mapstructure:"embedding-model"`
	Model          string `mapstructure:"model"`
	MaxRetries     int    `mapstructure:"max-retries"`
	MaxLogLength   int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobfit scores how well a candidate profile fits a list of job postings",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobfit.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	setDefaults()
}

func setDefaults() {
	viper.SetDefault("output.format", formatTable)
	viper.SetDefault("matching.mode", string(matching.ModeLexical))
	viper.SetDefault("matching.concurrency", matching.DefaultConcurrency)
	viper.SetDefault("matching.call-timeout", 10*time.Second)
	viper.SetDefault("ai.enabled", false)
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.requests-per-second", 2.0)
	viper.SetDefault("ai.burst", 1)
	viper.SetDefault("ai.embed-cache-size", 4096)
}

func initConfig() {
	// Config needed only for match command. If there is no config, we can skip initialization
	if matchCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	if err := viper.ReadInConfig(); err != nil {
		// Without --config the file is optional: flags and JOBFIT_* variables are enough.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		// We can't proceed if the config file parsed with error.
		log.Fatal(err)
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
	if config.Output == nil {
		config.Output = &OutputConfig{}
	}
	if config.Matching == nil {
		config.Matching = &MatchingConfig{}
	}
	if config.Filters == nil {
		config.Filters = &filtering.Config{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}

	return config, nil
}
