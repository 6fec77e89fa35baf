package cmd

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"epsconv/internal/convert"
	"epsconv/internal/tui"
)

// tuiCmd launches the interactive format picker.
var tuiCmd = &cobra.Command{
	Use:   "tui [eps_file]",
	Short: "Pick output formats interactively and convert",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		preselected, err := cfg.Resolve(nil)
		if err != nil {
			return err
		}
		mode, err := cfg.OrientationMode()
		if err != nil {
			return err
		}
		// logging to stderr would tear the TUI; warnings still reach the report
		svc := convert.NewService(cfg, quietLogger())
		return tui.Run(cmd.Context(), args[0], svc, cfg.Table(), preselected, mode)
	},
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
