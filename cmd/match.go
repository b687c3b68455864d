package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/jobfit/internal/ai"
	"github.com/spigell/jobfit/internal/ai/gemini"
	"github.com/spigell/jobfit/internal/filtering"
	"github.com/spigell/jobfit/internal/logger"
	"github.com/spigell/jobfit/internal/matching"
	"github.com/spigell/jobfit/internal/metrics"
	"github.com/spigell/jobfit/internal/normalize"
	"github.com/spigell/jobfit/internal/profile"
	"github.com/spigell/jobfit/internal/secrets"
	"github.com/spigell/jobfit/internal/similarity"
)

const (
	PromptShowBreakdown       = "Show breakdown of a job"
	PromptReportByCompanies   = "Report by companies"
	PromptResultsToFile       = "Dump results to file"
	PromptAppendToExcludeFile = "Append all jobs to exclude file"
	PromptExit                = "Exit"
	PromptBack                = "back"
)

var errExit = errors.New("exit requested")

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score the candidate against every job of the input file",
	Run: func(cmd *cobra.Command, _ []string) {
		match(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("input", "i", "", "YAML or JSON file with the candidate and jobs")
	matchCmd.Flags().StringP("mode", "m", "", "matching mode: lexical or semantic")
	matchCmd.Flags().StringP("format", "o", "", "output format: table, json or yaml")
	matchCmd.Flags().StringP("exclude-file", "e", "", "special file with job ids to exclude. Default is unset.")
	matchCmd.Flags().Int("min-score", 0, "drop jobs scoring below this value")
	matchCmd.Flags().String("metrics-file", "", "write engine counters in the Prometheus text format to this file")
	matchCmd.Flags().BoolP("auto-approve", "y", false, "do not show the interactive menu after matching")

	viper.BindPFlag("input", matchCmd.Flags().Lookup("input"))
	viper.BindPFlag("matching.mode", matchCmd.Flags().Lookup("mode"))
	viper.BindPFlag("output.format", matchCmd.Flags().Lookup("format"))
	viper.BindPFlag("filters.exclude-file", matchCmd.Flags().Lookup("exclude-file"))
	viper.BindPFlag("filters.min-score", matchCmd.Flags().Lookup("min-score"))
	viper.BindPFlag("metrics-file", matchCmd.Flags().Lookup("metrics-file"))
}

// match is the main command for the cli.
func match(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger, err := logger.New(logger.Config{JSON: viper.GetBool("json"), Debug: viper.GetBool("debug")})
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the jobfit", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(redacted(config), "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	format := strings.ToLower(strings.TrimSpace(config.Output.Format))
	if err := validateFormat(format); err != nil {
		logger.Fatal("checking output format", zap.Error(err))
	}

	if strings.TrimSpace(config.Input) == "" {
		logger.Fatal("input file is required", zap.String("hint", "use --input or the 'input' key in the configuration file"))
	}

	input, err := profile.LoadFile(config.Input)
	if err != nil {
		logger.Fatal("loading input", zap.Error(err))
	}
	for _, problem := range input.Problems {
		logger.Warn("job could not be decoded", zap.Error(problem))
	}

	logger.Info("input loaded",
		zap.String("candidate", input.Candidate.Name),
		zap.Int("jobs", len(input.Jobs)),
	)

	if len(input.Jobs) == 0 {
		logger.Info("exiting", zap.String("reason", "no jobs found"))
		return
	}

	m := metrics.New()

	batch, err := buildBatch(ctx, config, m, logger)
	if err != nil {
		logger.Fatal("building matcher", zap.Error(err))
	}

	ranked, err := batch.MatchAll(ctx, input.Jobs, input.Candidate)
	if err != nil {
		logger.Fatal("matching failed", zap.Error(err))
	}

	filters := filtering.New(filtering.FromConfig(config.Filters), logger)
	for _, status := range filters.Describe() {
		logger.Debug("filter status",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}

	results, err := filters.RunFilters(ctx, filtering.NewResults(ranked))
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	if err := writeResults(cmd.OutOrStdout(), config.Output.File, format, results.Items); err != nil {
		logger.Fatal("writing results", zap.Error(err))
	}

	if config.MetricsFile != "" {
		if err := m.WriteFile(config.MetricsFile); err != nil {
			logger.Warn("writing metrics file", zap.Error(err))
		} else {
			logger.Info("metrics written", zap.String("filename", config.MetricsFile))
		}
	}

	if results.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no jobs left after filters"))
		return
	}

	if cmd.Flag("auto-approve").Value.String() == "true" {
		return
	}

	for {
		items := []string{PromptShowBreakdown, PromptReportByCompanies, PromptResultsToFile}
		if config.Filters.ExcludeFile != "" && results.Len() != 0 {
			items = append(items, PromptAppendToExcludeFile)
		}
		items = append(items, PromptExit)

		prompt := promptui.Select{
			Label: "What next?",
			Items: items,
		}

		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		logger.Info("current list of jobs", zap.Int("count", results.Len()))

		if err := handleAction(action, logger, config, results); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, config *Config, results *filtering.Results) error {
	switch action {
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	case PromptShowBreakdown:
		return showBreakdown(results)
	case PromptReportByCompanies:
		pretty, _ := json.MarshalIndent(results.ReportByCompany(), "", "  ")
		logger.Info(string(pretty), zap.Int("jobs count", results.Len()))
		return nil
	case PromptResultsToFile:
		filename, err := results.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptAppendToExcludeFile:
		return appendToExcludeFile(config.Filters.ExcludeFile, results, logger)
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func showBreakdown(results *filtering.Results) error {
	for {
		items := make([]string, 0, results.Len()+1)
		for _, r := range results.Items {
			items = append(items, fmt.Sprintf("%s [%d]", r.Job.Label(), r.Score))
		}

		jobPrompt := promptui.Select{
			Label: "Choose a job and press ENTER",
			Items: append(items, PromptBack),
			Size:  10,
		}

		idx, selected, err := jobPrompt.Run()
		if err != nil {
			return err
		}
		if selected == PromptBack {
			return nil
		}

		out, err := breakdown(results.Items[idx])
		if err != nil {
			return fmt.Errorf("render breakdown: %w", err)
		}
		fmt.Println(out)
	}
}

func appendToExcludeFile(path string, results *filtering.Results, logger *zap.Logger) error {
	excluded, err := filtering.LoadExcludedJobs(path)
	if err != nil {
		return err
	}

	excluded.Append(results.ToExcluded())

	if err := excluded.ToFile(path); err != nil {
		return err
	}

	logger.Info("appended to exclude file", zap.String("filename", path), zap.Int("entries", len(excluded.Items)))
	return nil
}

// buildBatch wires the provider, normalizer, similarity engine and matcher.
func buildBatch(ctx context.Context, config *Config, m *metrics.Metrics, logger *zap.Logger) (*matching.Batch, error) {
	mode, err := matching.ParseMode(config.Matching.Mode)
	if err != nil {
		return nil, err
	}

	embedder, translator, err := newProvider(ctx, config.AI, logger)
	if err != nil {
		logger.Warn("skipping AI provider, using built-in heuristics", zap.Error(err))
	}

	normalizer := normalize.New(normalize.Options{
		Translator:  translator,
		CallTimeout: config.Matching.CallTimeout,
		Logger:      logger,
		Metrics:     m,
	})

	semantic := similarity.NewSemantic(similarity.SemanticOptions{
		Embedder:       embedder,
		Cache:          similarity.NewCache(config.Matching.CacheSize),
		Threshold:      config.Matching.SimilarityThreshold,
		CoverageWeight: config.Matching.CoverageWeight,
		CallTimeout:    config.Matching.CallTimeout,
		Logger:         logger,
		Metrics:        m,
	})

	matcher, err := matching.New(matching.Options{
		Mode:       mode,
		Weights:    config.Matching.Weights,
		Normalizer: normalizer,
		Semantic:   semantic,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("matcher ready",
		zap.String("mode", string(matcher.Mode())),
		zap.Any("weights", matcher.Weights()),
		zap.Bool("embeddings", embedder != nil),
		zap.Bool("translation", translator != nil),
	)

	return matching.NewBatch(matcher, matching.BatchOptions{
		Concurrency:   config.Matching.Concurrency,
		FallbackScore: config.Matching.FallbackScore,
		Logger:        logger,
		Metrics:       m,
	}), nil
}

// newProvider returns nil ports when AI is disabled.
func newProvider(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Embedder, ai.Translator, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil, nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != gemini.ProviderName {
		return nil, nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.Gemini.APIKeyFile,
		Env:   geminiAPIKeyEnv,
		Value: cfg.Gemini.APIKey,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w (set ai.gemini.api-key-file or %s)", err, geminiAPIKeyEnv)
	}

	client, err := gemini.New(ctx, gemini.Config{
		APIKey:         apiKey,
		Model:          cfg.Gemini.Model,
		EmbeddingModel: cfg.Gemini.EmbeddingModel,
		MaxRetries:     cfg.Gemini.MaxRetries,
		MaxLogLength:   cfg.Gemini.MaxLogLength,
	}, log)
	if err != nil {
		return nil, nil, err
	}

	embedder := ai.NewEmbedCache(ai.NewRateLimitedEmbedder(client, cfg.RequestsPerSecond, cfg.Burst), cfg.EmbedCacheSize)
	translator := ai.NewRateLimitedTranslator(client, cfg.RequestsPerSecond, cfg.Burst)

	return embedder, translator, nil
}

// redacted returns a copy of the config safe to log.
func redacted(config *Config) *Config {
	c := *config
	if c.AI != nil && c.AI.Gemini != nil && c.AI.Gemini.APIKey != "" {
		aiCfg := *c.AI
		gem := *aiCfg.Gemini
		gem.APIKey = "***"
		aiCfg.Gemini = &gem
		c.AI = &aiCfg
	}
	return &c
}
