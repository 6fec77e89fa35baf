package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// formatsCmd lists the output formats with config overrides applied.
var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported output formats",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "FORMAT\tEXT\tDEVICE\tDPI")
		for _, f := range cfg.Table() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", f.Name, f.Extension, f.Device, f.Resolution)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
