package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"epsconv/internal/rasterize"
	"epsconv/internal/report"
)

var (
	historyHTML   string
	historyLimit  int
	historyDelete string
)

// historyCmd prints stored conversion reports.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show previous conversion runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := report.NewFileStore(reportFileOrDefault())
		reports, err := store.Load()
		if err != nil {
			return fmt.Errorf("failed to load reports: %w", err)
		}

		if historyDelete != "" {
			kept := report.Remove(reports, historyDelete)
			if len(kept) == len(reports) {
				return fmt.Errorf("no report with id %q", historyDelete)
			}
			if err := store.Save(kept); err != nil {
				return fmt.Errorf("failed to save reports: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted report %s\n", historyDelete)
			return nil
		}
		if historyLimit > 0 && len(reports) > historyLimit {
			reports = reports[len(reports)-historyLimit:]
		}

		if historyHTML != "" {
			html, err := report.HTML(reports)
			if err != nil {
				return err
			}
			return os.WriteFile(historyHTML, html, 0644)
		}

		out := cmd.OutOrStdout()
		if len(reports) == 0 {
			fmt.Fprintln(out, "No conversions recorded.")
			return nil
		}
		for _, r := range reports {
			status := "ok"
			if r.Failed() {
				status = "FAILED"
			}
			counts := r.Counts()
			fmt.Fprintf(out, "%s  %s  %-6s %s  header=%s  ok=%d warning=%d failed=%d  %s\n",
				r.StartedAt.Format(time.DateTime), r.ID, status, r.Source, r.Rewrite,
				counts[rasterize.Succeeded], counts[rasterize.SucceededWithWarning], counts[rasterize.Failed],
				r.Duration().Round(time.Millisecond))
		}
		return nil
	},
}

func reportFileOrDefault() string {
	if cfg.Report.File != "" {
		return cfg.Report.File
	}
	return ".epsconv_reports.json"
}

func init() {
	historyCmd.Flags().StringVar(&historyHTML, "html", "", "write the history as HTML to this file")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "show at most this many recent runs (0 for all)")
	historyCmd.Flags().StringVar(&historyDelete, "delete", "", "remove the run with this id from the history")
	rootCmd.AddCommand(historyCmd)
}
