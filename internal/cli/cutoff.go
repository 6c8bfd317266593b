package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cypherlabdev/order-service/internal/calendar"
)

func newCutoffCmd() *cobra.Command {
	var (
		days         int
		at           string
		holidaysFile string
		timezone     string
	)

	cmd := &cobra.Command{
		Use:   "cutoff",
		Short: "Print the instant N business days before a reference time",
		Long:  "Compute the business-day cutoff used by GET /orders/afterdays/{days}, skipping weekends and holidays.",
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := time.LoadLocation(timezone)
			if err != nil {
				return fmt.Errorf("invalid timezone %q: %w", timezone, err)
			}

			reference := time.Now()
			if at != "" {
				reference, err = time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("invalid --at %q: expected RFC3339", at)
				}
			}

			holidays, err := calendar.LoadHolidays(holidaysFile)
			if err != nil {
				return err
			}

			cutoff, err := calendar.ComputeCutoff(reference.In(loc), days, holidays)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cutoff.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Number of business days to go back")
	cmd.Flags().StringVar(&at, "at", "", "Reference time in RFC3339 (default now)")
	cmd.Flags().StringVar(&holidaysFile, "holidays", os.Getenv("HOLIDAYS_FILE"), "Holiday calendar YAML file (default built-in)")
	cmd.Flags().StringVar(&timezone, "timezone", envOr("BUSINESS_TIMEZONE", "UTC"), "IANA timezone for weekends and holidays")
	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
