package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"jsfinder/internal/dataset"
	"jsfinder/internal/finder"
)

func init() {
	rootsCmd := &cobra.Command{
		Use:   "roots [dataset]",
		Short: "List the roots of a dataset with their sizes",
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
			ctx := context.Background()
			ds, err := dataset.Load(ctx, cfg.Dataset, datasetOptions(cfg))
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "INDEX\tROOT\tENTRIES\tFOLDERS\tLEAVES\tMATCHES\tDEPTH")
			red := color.New(color.FgRed)
			for i := 0; i < ds.Len(); i++ {
				// a broken root is reported and skipped; the others stay usable
				f, err := ds.Select(i)
				if err != nil {
					fmt.Fprintf(tw, "%d\t%s\t%s\n", i, dataset.Label(i), red.Sprint(err))
					continue
				}
				size, err := f.Size(ctx)
				if err != nil {
					return err
				}
				res, err := finder.Collect(ctx, f, match, cfg.FinderOptions()...)
				if err != nil {
					fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", i, dataset.Label(i), size, red.Sprint(err))
					continue
				}
				st := res.Stats
				fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%d\n", i, dataset.Label(i), size, st.Folders, st.Leaves, st.Matches, st.MaxDepth)
			}
			return tw.Flush()
		},
	}
	rootCmd.AddCommand(rootsCmd)
}
