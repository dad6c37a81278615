package cli

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/uww-referees/internal/age"
)

func newAgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "age BIRTHDATE [TODAY]",
		Short: "Print an age as years, months and days",
		Long: `Prints the age of someone born on BIRTHDATE, as shown on referee pages.
TODAY defaults to the current date (UTC). Dates are best given as YYYY-MM-DD;
other common formats such as "Mar 4, 1975" are also understood.`,
		Example: `  uww-referees age 1980-05-12
  uww-referees age 2020-01-31 2020-03-01`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat()
			if err != nil {
				return err
			}

			birth, err := parseDate(args[0])
			if err != nil {
				return err
			}
			today := age.Today()
			if len(args) == 2 {
				if today, err = parseDate(args[1]); err != nil {
					return err
				}
			}
			if today.Before(birth) {
				return fmt.Errorf("birth date %s is after %s", birth, today)
			}

			b := age.Between(birth, today)
			if format == FormatJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
					"birthdate": birth.String(),
					"today":     today.String(),
					"age":       b.String(),
					"years":     b.Years,
					"months":    b.Months,
					"days":      b.Days,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), b.String())
			return nil
		},
	}
}

// parseDate reads an ISO date, falling back to free-form formats
func parseDate(s string) (age.CalendarDate, error) {
	if d, err := age.ParseISO(s); err == nil {
		return d, nil
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return age.CalendarDate{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return age.FromTime(t), nil
}
