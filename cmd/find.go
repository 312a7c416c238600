package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jsfinder/internal/dataset"
	"jsfinder/internal/finder"
	"jsfinder/internal/report"
	"jsfinder/internal/session"
)

var (
	rootIndex   int
	jsonOut     string
	mdOut       string
	showTree    bool
	failOnEmpty bool
)

func init() {
	findCmd := &cobra.Command{
		Use:   "find [dataset]",
		Short: "Find matching files in one root of a dataset (headless)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args)
			if err != nil {
				return err
			}
			log := stderrLogger(cfg)
			defer func() { _ = log.Sync() }()

			match, err := cfg.Predicate()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			ds, err := dataset.Load(ctx, cfg.Dataset, datasetOptions(cfg))
			if err != nil {
				return err
			}
			log.Debug("dataset loaded", zap.String("source", ds.Source), zap.Int("roots", ds.Len()))

			opts := append(cfg.FinderOptions(), finder.WithLogger(log))
			sess := session.New(ds, match, log, opts...)
			if err := sess.Select(rootIndex); err != nil {
				return err
			}

			startedAt := time.Now()
			res, err := sess.Run(ctx)
			if err != nil {
				return fmt.Errorf("%s: %w", dataset.Label(rootIndex), err)
			}
			summary := report.Summary{
				RunID:      sess.State().RunID,
				Source:     ds.Source,
				Root:       dataset.Label(rootIndex),
				Predicate:  describePredicate(cfg),
				StartedAt:  startedAt,
				FinishedAt: time.Now(),
			}

			out := cmd.OutOrStdout()
			if showTree {
				printTree(out, res.Tree)
			}
			printMatches(out, res.Matches)

			if jsonOut != "" {
				if _, err := report.WriteJSON(jsonOut, res, summary, showTree); err != nil {
					return err
				}
			}
			if mdOut != "" {
				if _, err := report.WriteMarkdown(mdOut, res, summary); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d matches in %d folders, %d leaves\n",
				summary.Root, res.Stats.Matches, res.Stats.Folders, res.Stats.Leaves)
			if failOnEmpty && len(res.Matches) == 0 {
				return fmt.Errorf("no files matched %s", summary.Predicate)
			}
			return nil
		},
	}

	findCmd.Flags().IntVar(&rootIndex, "index", 0, "zero-based index of the root to search")
	findCmd.Flags().StringVar(&jsonOut, "json-out", "", "path to write JSON results")
	findCmd.Flags().StringVar(&mdOut, "md-out", "", "path to write a Markdown report")
	findCmd.Flags().BoolVar(&showTree, "tree", false, "print every entry of the root before the matches")
	findCmd.Flags().BoolVar(&failOnEmpty, "fail-on-empty", false, "exit non-zero if nothing matched")

	rootCmd.AddCommand(findCmd)
}

func printMatches(w io.Writer, matches []string) {
	if len(matches) == 0 {
		color.New(color.Faint).Fprintln(w, "No JavaScript files found.")
		return
	}
	green := color.New(color.FgGreen)
	for _, m := range matches {
		green.Fprintln(w, m)
	}
}

func printTree(w io.Writer, tree finder.Node) {
	bold := color.New(color.Bold)
	bold.Fprintln(w, "All Files")
	if len(tree.Children) == 0 {
		fmt.Fprintln(w, "  No files available.")
	}
	var walk func([]finder.Node, int)
	walk = func(nodes []finder.Node, depth int) {
		indent := strings.Repeat("  ", depth+1)
		for _, n := range nodes {
			if n.Folder {
				bold.Fprintf(w, "%sFolder:\n", indent)
				walk(n.Children, depth+1)
				continue
			}
			fmt.Fprintf(w, "%s%s\n", indent, n.Name)
		}
	}
	walk(tree.Children, 0)
	bold.Fprintln(w, "JavaScript Files")
}
