// ledgerport is the command-line companion to the sheet service: one-shot
// imports, previews, finance math, and statement analysis from the terminal.
package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: false,
})

var rootCmd = &cobra.Command{
	Use:   "ledgerport",
	Short: "Finance sheet toolbox",
	Long: `Import, preview, and analyze delimited finance files.

Commands:
  import    Parse a file and report its shape; --out re-exports it
  preview   Print the first records of a file
  npv       Net present value of a cash flow sequence
  irr       Internal rate of return of a cash flow sequence
  analyze   Ratio grid or markdown report from statement files
  template  Header-only CSV for a registered statement layout

Examples:
  ledgerport import --header trades.csv
  ledgerport import --header --out clean.csv trades.csv
  ledgerport npv --rate 0.08 -- -1000 300 420 680
  ledgerport analyze --income pnl.csv --balance bs.csv --markdown`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Fatal(err)
	}
}
