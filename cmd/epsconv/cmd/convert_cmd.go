package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"epsconv/internal/convert"
	"epsconv/internal/report"
	"epsconv/internal/rewrite"
)

var (
	convertFormats     []string
	convertOrientation string
	convertOutDir      string
	convertBaseName    string
	convertSearchFrom  int
	convertReportFile  string
	convertHTMLReport  string
)

// convertCmd rewrites the header and runs every requested format.
var convertCmd = &cobra.Command{
	Use:   "convert [eps_file]",
	Short: "Rewrite the EPS header and convert to the requested formats",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		formats, err := cfg.Resolve(convertFormats)
		if err != nil {
			return err
		}
		mode, err := orientationMode(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("report") {
			cfg.Report.File = convertReportFile
		}

		svc := convert.NewService(cfg, logger)
		rep, err := svc.Convert(cmd.Context(), convert.Request{
			Source:      args[0],
			Formats:     formats,
			Orientation: mode,
			SearchFrom:  convertSearchFrom,
			OutputDir:   convertOutDir,
			BaseName:    convertBaseName,
		})
		printReport(cmd, rep)
		if err != nil {
			return err
		}

		if convertHTMLReport != "" {
			html, err := report.HTML([]report.Report{*rep})
			if err != nil {
				return err
			}
			if err := os.WriteFile(convertHTMLReport, html, 0644); err != nil {
				return fmt.Errorf("failed to write html report: %w", err)
			}
		}
		if rep.Failed() {
			return errors.New("one or more formats failed")
		}
		return nil
	},
}

func orientationMode(cmd *cobra.Command) (rewrite.Mode, error) {
	if cmd.Flags().Changed("orientation") {
		return rewrite.ParseMode(convertOrientation)
	}
	return cfg.OrientationMode()
}

func printReport(cmd *cobra.Command, rep *report.Report) {
	out := cmd.OutOrStdout()
	if rep == nil {
		return
	}
	fmt.Fprintf(out, "header: %s\n", rep.Rewrite)
	for _, r := range rep.Results {
		fmt.Fprintf(out, "%-5s %-8s %s\n", r.Format, r.Outcome, r.OutputPath)
		if r.Diagnostic != "" {
			fmt.Fprintf(out, "      %s\n", r.Diagnostic)
		}
	}
}

func init() {
	f := convertCmd.Flags()
	f.StringSliceVarP(&convertFormats, "format", "f", nil, "output format: png, jpeg, tiff, pdf (repeatable)")
	f.StringVarP(&convertOrientation, "orientation", "o", "", "orientation handling: none, flip or remove")
	f.StringVar(&convertOutDir, "out", "", "output directory")
	f.StringVar(&convertBaseName, "name", "", "output file name without extension")
	f.IntVar(&convertSearchFrom, "search-from", 0, "byte offset where header search starts")
	f.StringVar(&convertReportFile, "report", "", "JSON report history file (empty disables)")
	f.StringVar(&convertHTMLReport, "html-report", "", "write an HTML summary of this run")
	rootCmd.AddCommand(convertCmd)
}
