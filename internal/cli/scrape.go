package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/uww-referees/internal/logger"
	"github.com/pfrederiksen/uww-referees/internal/progress"
	"github.com/pfrederiksen/uww-referees/internal/scraper"
	"github.com/pfrederiksen/uww-referees/internal/storage"
)

// XLSXFile is the spreadsheet written next to the register
const XLSXFile = "uww_referees.xlsx"

func newScrapeCmd() *cobra.Command {
	var (
		licences []int
		noRotate bool
		noXLSX   bool
	)

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape the referees' list and profiles into the register",
		Long: `Downloads the referees' list, fetches every Athena profile and saves
the register as CSV (and XLSX). The previous register is moved to last/ first
so that update can report what changed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := storage.New(cfg.DataDir)
			if err != nil {
				return fmt.Errorf("initializing storage: %w", err)
			}

			opts, err := cfg.ScraperOptions()
			if err != nil {
				return err
			}
			sc := scraper.New(opts)
			sc.SetReporter(progress.NewReporter())

			ctx := cmd.Context()
			numbers := licences
			if len(numbers) == 0 {
				if numbers, err = sc.FetchLicences(ctx); err != nil {
					return fmt.Errorf("fetching licences: %w", err)
				}
			}

			refs, err := sc.FetchReferees(ctx, numbers)
			if err != nil {
				return fmt.Errorf("fetching referees: %w", err)
			}
			if len(refs) == 0 {
				return fmt.Errorf("no referee profiles found among %d licences", len(numbers))
			}

			if !noRotate {
				if err := store.Rotate(); err != nil {
					return err
				}
			}
			if err := store.Save(refs); err != nil {
				return fmt.Errorf("saving register: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d referees to %s\n", len(refs), store.CurrentPath())

			if !noXLSX {
				path := filepath.Join(store.Dir(), XLSXFile)
				if err := storage.ExportXLSX(path, refs); err != nil {
					return fmt.Errorf("exporting spreadsheet: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %s\n", path)
			}

			logger.LogMetrics("Scrape complete")
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&licences, "licences", nil, "Fetch these licence numbers instead of the published list")
	cmd.Flags().BoolVar(&noRotate, "no-rotate", false, "Overwrite the current register without keeping it in last/")
	cmd.Flags().BoolVar(&noXLSX, "no-xlsx", false, "Skip the spreadsheet export")

	return cmd
}
