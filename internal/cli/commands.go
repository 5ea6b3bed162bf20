package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"linkstat/internal/repository"
	"linkstat/internal/services"

	"github.com/spf13/cobra"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := repository.PrepareSchema(a.cfg, a.db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Database schema is up to date.")
			return nil
		},
	}
}

func newCreateCmd(a *app) *cobra.Command {
	var longURL, code string

	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a short code for a URL",
		Example: `  linkctl create --url="https://go.dev/doc" --code=godoc`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := a.registry.Create(cmd.Context(), services.CreateInput{
				OriginalURL: longURL,
				CustomCode:  code,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Code: %s\n", record.ShortCode)
			fmt.Fprintf(out, "Short URL: %s\n", a.shortURL(record.ShortCode))
			return nil
		},
	}
	cmd.Flags().StringVar(&longURL, "url", "", "URL to shorten")
	cmd.Flags().StringVar(&code, "code", "", "custom short code")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every short code, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			urls, err := a.registry.ListAll(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tCLICKS\tCREATED\tURL")
			for _, u := range urls {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", u.ShortCode, u.ClickCount, u.CreatedAt.UTC().Format(time.RFC3339), u.OriginalURL)
			}
			return w.Flush()
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <code>",
		Short: "Delete a short code and its clicks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deleted, err := a.registry.Delete(cmd.Context(), args[0], "")
			if err != nil {
				return err
			}
			if !deleted {
				return fmt.Errorf("%w: %q", services.ErrNotFound, args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func newStatsCmd(a *app) *cobra.Command {
	var period string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats <code>",
		Short: "Show click analytics for a short code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := services.ParsePeriod(period)
			if err != nil {
				return err
			}
			report, err := a.recorder.GetStats(cmd.Context(), args[0], p)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s -> %s\n", report.ShortCode, report.OriginalURL)
			fmt.Fprintf(out, "Total clicks:    %d\n", report.TotalClicks)
			fmt.Fprintf(out, "Clicks (%s):     %d\n", report.Period, report.PeriodClicks)
			fmt.Fprintf(out, "Today:           %d\n", report.TodayClicks)
			fmt.Fprintf(out, "Last 7 days:     %d\n", report.Last7DaysClicks)
			fmt.Fprintf(out, "Unique visitors: %d\n", report.UniqueVisitors)
			writeCounts(out, "Countries", report.Countries)
			writeCounts(out, "Referers", report.Referers)
			writeCounts(out, "Devices", report.Devices)
			return nil
		},
	}
	cmd.Flags().StringVar(&period, "period", string(services.DefaultPeriod), "1d, 7d, 30d, 90d or all")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw report as JSON")
	return cmd
}

func newOverviewCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Show analytics across every short code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.recorder.GetOverview(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "URLs:            %d (%d active)\n", report.TotalURLs, report.ActiveURLs)
			fmt.Fprintf(out, "Total clicks:    %d\n", report.TotalClicks)
			fmt.Fprintf(out, "Avg clicks/URL:  %d\n", report.AverageClicksPerURL)
			fmt.Fprintf(out, "Last 24h:        %d\n", report.ClicksLast24h)
			fmt.Fprintln(out, "Top URLs:")
			for _, u := range report.TopURLs {
				fmt.Fprintf(out, "  %-10s %6d  %s\n", u.ShortCode, u.ClickCount, u.OriginalURL)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw report as JSON")
	return cmd
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCounts(w io.Writer, title string, rows []services.Count) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, r := range rows {
		fmt.Fprintf(w, "  %-24s %d\n", r.Name, r.Count)
	}
}
