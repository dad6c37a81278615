package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/uww-referees/internal/config"
	"github.com/pfrederiksen/uww-referees/internal/history"
	"github.com/pfrederiksen/uww-referees/internal/logger"
	"github.com/pfrederiksen/uww-referees/internal/referee"
	"github.com/pfrederiksen/uww-referees/internal/site"
	"github.com/pfrederiksen/uww-referees/internal/storage"
)

func newUpdateCmd() *cobra.Command {
	var (
		noSite   bool
		sortFlag string
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Report register changes and update the referee pages",
		Long: `Compares the current register with the one in last/, records the changes
in the history database, rewrites the page of every changed, new or retired
referee and writes the change report.

Exits with status 2 when anything changed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}
			order, err := parseSortOrder(sortFlag)
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
			previous, err := store.LoadLast()
			if err != nil {
				return err
			}
			current, err := store.LoadCurrent()
			if err != nil {
				return err
			}
			if len(current) == 0 {
				return fmt.Errorf("no current register at %s (run scrape first)", store.CurrentPath())
			}

			diff := referee.Diff(previous, current)
			logger.Info("Compared registers", logger.Fields{
				"previous": len(previous),
				"current":  len(current),
				"changed":  len(diff.Changed),
				"added":    len(diff.Added),
				"removed":  len(diff.Removed),
			})

			result := NewOutputResult(diff, len(previous), len(current))

			if !noSite && !diff.Empty() {
				summary, err := renderSite(cmd.Context(), cfg, diff)
				if err != nil {
					return err
				}
				result.Site = &summary
			}

			sortChanges(result.Changed, order)
			sortReferees(result.Added, order)
			sortReferees(result.Removed, order)

			if err := WriteOutput(cmd.OutOrStdout(), result, format, flagVerbose); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}

			logger.LogMetrics("Update complete")
			if !diff.Empty() {
				return ErrChanges
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noSite, "no-site", false, "Only report changes; do not touch the site or history")
	cmd.Flags().StringVar(&sortFlag, "sort", "id", "Sort order: id, name, country or category")

	return cmd
}

// renderSite records diff and rewrites the affected pages
func renderSite(ctx context.Context, cfg *config.Config, diff *referee.DiffResult) (site.Summary, error) {
	dbPath, err := cfg.HistoryPath()
	if err != nil {
		return site.Summary{}, err
	}
	versions, err := history.Open(dbPath)
	if err != nil {
		return site.Summary{}, err
	}
	defer versions.Close()

	dir, err := cfg.SitePath()
	if err != nil {
		return site.Summary{}, err
	}

	r := site.NewRenderer(dir, versions, cfg.Toggle)
	r.Age = cfg.Age
	return r.Apply(ctx, diff)
}
