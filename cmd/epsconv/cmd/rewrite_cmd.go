package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"epsconv/internal/convert"
	"epsconv/internal/rewrite"
)

var (
	rewriteOutput      string
	rewriteOrientation string
	rewriteSearchFrom  int
)

// rewriteCmd runs only the header rewrite.
var rewriteCmd = &cobra.Command{
	Use:   "rewrite [eps_file]",
	Short: "Rewrite the EPS header without converting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			mode rewrite.Mode
			err  error
		)
		if cmd.Flags().Changed("orientation") {
			mode, err = rewrite.ParseMode(rewriteOrientation)
		} else {
			mode, err = cfg.OrientationMode()
		}
		if err != nil {
			return err
		}

		svc := convert.NewService(cfg, logger)
		res, err := svc.RewriteFile(args[0], rewrite.Options{Orientation: mode, SearchFrom: rewriteSearchFrom})
		if err != nil {
			return err
		}
		if res.Status.Kind == rewrite.Error {
			return res.Err()
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "header: %s\n", res.Status)
		if rewriteOutput == "" || rewriteOutput == "-" {
			_, err = cmd.OutOrStdout().Write(res.Output)
			return err
		}
		if err := os.WriteFile(rewriteOutput, res.Output, 0644); err != nil {
			return fmt.Errorf("%s: %w", rewrite.ReasonTempWriteFailed, err)
		}
		return nil
	},
}

func init() {
	rewriteCmd.Flags().StringVar(&rewriteOutput, "output", "", "write the rewritten document here (default stdout)")
	rewriteCmd.Flags().StringVarP(&rewriteOrientation, "orientation", "o", "", "orientation handling: none, flip or remove")
	rewriteCmd.Flags().IntVar(&rewriteSearchFrom, "search-from", 0, "byte offset where header search starts")
	rootCmd.AddCommand(rewriteCmd)
}
