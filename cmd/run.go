package cmd

import (
	"github.com/spf13/cobra"

	"jsfinder/internal/finder"
	"jsfinder/internal/logging"
	"jsfinder/internal/tui"
)

var watchMode bool

func init() {
	runCmd := &cobra.Command{
		Use:   "run [dataset]",
		Short: "Browse a dataset and find matching files interactively (TUI)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args)
			if err != nil {
				return err
			}
			match, err := cfg.Predicate()
			if err != nil {
				return err
			}
			log, closeLog, err := logging.NewFile(cfg.LogFile, cfg.Debug)
			if err != nil {
				return err
			}
			defer func() { _ = closeLog() }()

			return tui.Run(tui.Options{
				Source:  cfg.Dataset,
				Dataset: datasetOptions(cfg),
				Match:   match,
				Finder:  append(cfg.FinderOptions(), finder.WithLogger(log)),
				Log:     log,
				Watch:   watchMode,
			})
		},
	}

	runCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "reload the dataset when its file changes")
	runCmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file (the TUI owns the terminal)")
	rootCmd.AddCommand(runCmd)
}
