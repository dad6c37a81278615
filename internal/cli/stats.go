package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/uww-referees/internal/stats"
	"github.com/pfrederiksen/uww-referees/internal/storage"
)

func newStatsCmd() *cobra.Command {
	var noCharts bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarise the register per category and draw birth-year charts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := storage.New(cfg.DataDir)
			if err != nil {
				return fmt.Errorf("initializing storage: %w", err)
			}
			refs, err := store.LoadCurrent()
			if err != nil {
				return err
			}

			summary := stats.Compute(refs)

			out := cmd.OutOrStdout()
			if format == FormatJSON {
				if err := writeJSON(out, summary); err != nil {
					return err
				}
			} else {
				tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "CATEGORY\tTOTAL\tFEMALE\tMALE\tACTIVE\tINACTIVE")
				for _, s := range summary {
					fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\n", s.Category, s.Total, s.Female, s.Male, s.Active, s.Inactive)
				}
				if err := tw.Flush(); err != nil {
					return err
				}
			}

			if noCharts {
				return nil
			}
			dir, err := cfg.SitePath()
			if err != nil {
				return err
			}
			written, err := stats.WriteCharts(dir, summary)
			if err != nil {
				return fmt.Errorf("writing charts: %w", err)
			}
			if format == FormatText {
				for _, path := range written {
					fmt.Fprintf(out, "Wrote %s\n", path)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCharts, "no-charts", false, "Skip the PNG charts")

	return cmd
}
