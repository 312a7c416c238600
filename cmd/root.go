package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jsfinder/internal/config"
	"jsfinder/internal/dataset"
	"jsfinder/internal/folder"
	"jsfinder/internal/logging"
	"jsfinder/internal/web"
)

var rootCmd = &cobra.Command{
	Use:   "jsfinder",
	Short: "Find JavaScript files in nested sample folder datasets",
	Long: "jsfinder loads a dataset of nested folder structures from a JSON/YAML file or URL, " +
		"then recursively lists the entries of a chosen root whose names end in .js (headless or TUI).",
	SilenceUsage: true,
}

var (
	configPath  string
	debugFlag   bool
	suffix      string
	pattern     string
	exclude     []string
	maxDepth    int
	concurrency int
	timeout     string
	logFile     string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (default .jsfinder.yaml if present)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging (also JSFINDER_DEBUG=1)")
	rootCmd.PersistentFlags().StringVar(&suffix, "suffix", ".js", "match leaf names ending in this suffix")
	rootCmd.PersistentFlags().StringVar(&pattern, "pattern", "", "match leaf names against a glob instead of --suffix (e.g. \"*.{js,mjs}\")")
	rootCmd.PersistentFlags().StringSliceVar(&exclude, "exclude", nil, "gitignore-style patterns of names to leave out")
	rootCmd.PersistentFlags().IntVar(&maxDepth, "max-depth", 64, "fail on folders nested deeper than this (0 = unlimited)")
	rootCmd.PersistentFlags().IntVar(&concurrency, "concurrency", 16, "maximum concurrent sub-folder reads per folder (0 = unlimited)")
	rootCmd.PersistentFlags().StringVar(&timeout, "timeout", "10s", "HTTP timeout when the dataset is a URL")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig layers explicitly set flags and the dataset argument over the file
// and environment configuration.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("debug") {
		cfg.Debug = debugFlag
	}
	if flags.Changed("suffix") {
		cfg.Suffix = suffix
	}
	if flags.Changed("pattern") {
		cfg.Pattern = pattern
	}
	if flags.Changed("exclude") {
		cfg.Exclude = exclude
	}
	if flags.Changed("max-depth") {
		cfg.MaxDepth = maxDepth
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = concurrency
	}
	if flags.Changed("timeout") {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid --timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if flags.Lookup("log-file") != nil && flags.Changed("log-file") {
		cfg.LogFile = logFile
	}
	if len(args) > 0 {
		cfg.Dataset = args[0]
	}
	if logging.DebugFromEnv() {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func datasetOptions(cfg *config.Config) dataset.Options {
	return dataset.Options{
		Web:    web.Config{RequestTimeout: cfg.Timeout},
		Limits: folder.Limits{MaxDepth: cfg.MaxDepth},
	}
}

func describePredicate(cfg *config.Config) string {
	desc := "suffix " + cfg.Suffix
	if cfg.Pattern != "" {
		desc = "glob " + cfg.Pattern
	}
	if len(cfg.Exclude) > 0 {
		desc += fmt.Sprintf(" excluding %v", cfg.Exclude)
	}
	return desc
}

func stderrLogger(cfg *config.Config) *zap.Logger {
	return logging.New(os.Stderr, cfg.Debug)
}
